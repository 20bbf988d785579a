package digest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ashwindharne/hbd-bot/internal/domain"
)

// Source is the narrow read contract the compiler needs from storage.
type Source interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListRemindersByUser(ctx context.Context, userID int64) ([]domain.Reminder, error)
}

// Compiler turns the current instant plus stored users and reminders into
// outbound SMS digests. It never sends anything and never writes cooldown
// state; delivery and last_digest_at updates are the caller's job.
type Compiler struct {
	src Source
	log *zap.Logger
}

func NewCompiler(src Source, log *zap.Logger) *Compiler {
	return &Compiler{src: src, log: log}
}

// Compile evaluates every user against now and returns one message per user
// who is in their delivery hour, outside the cooldown window, and has at
// least one birthday within their notice period. Per-user failures are
// logged and skipped; only the initial user listing can fail the pass.
func (c *Compiler) Compile(ctx context.Context, now time.Time) ([]domain.OutboundMessage, error) {
	users, err := c.src.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var out []domain.OutboundMessage
	for i := range users {
		u := &users[i]

		if _, err := domain.LoadZone(u.IANATZ); err != nil {
			c.log.Warn("skipping user with unresolvable timezone",
				zap.Int64("user_id", u.ID), zap.String("iana_tz", u.IANATZ))
			continue
		}
		if !domain.IsSendHour(u, now) {
			continue
		}
		if domain.NotifiedRecently(u, now) {
			c.log.Debug("cooldown active", zap.Int64("user_id", u.ID))
			continue
		}

		reminders, err := c.src.ListRemindersByUser(ctx, u.ID)
		if err != nil {
			c.log.Error("list reminders failed",
				zap.Int64("user_id", u.ID), zap.Error(err))
			continue
		}

		candidates := c.upcoming(u, reminders, now)
		if len(candidates) == 0 {
			continue
		}
		c.log.Info("composing digest",
			zap.Int64("user_id", u.ID), zap.Int("candidates", len(candidates)))

		out = append(out, domain.OutboundMessage{
			UserID:      u.ID,
			PhoneNumber: u.PhoneNumber,
			Body:        domain.ComposeDigest(candidates),
		})
	}
	return out, nil
}

// upcoming filters a user's reminders to birthdays within the notice period
// and ranks them most urgent first. Reminders whose recurrence cannot be
// computed are logged and dropped without aborting the user.
func (c *Compiler) upcoming(u *domain.User, reminders []domain.Reminder, now time.Time) []domain.Candidate {
	loc, err := domain.LoadZone(u.IANATZ)
	if err != nil {
		c.log.Warn("unresolvable timezone",
			zap.Int64("user_id", u.ID), zap.String("iana_tz", u.IANATZ))
		return nil
	}

	var candidates []domain.Candidate
	for _, r := range reminders {
		daysUntil, ageTurning, err := domain.NextOccurrence(r.Birthdate, loc, now)
		if err != nil {
			c.log.Warn("recurrence failed",
				zap.Int64("reminder_id", r.ID), zap.Int64("user_id", u.ID), zap.Error(err))
			continue
		}
		if daysUntil < 0 || daysUntil > u.DaysNotice {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Name:       r.Name,
			DaysUntil:  daysUntil,
			AgeTurning: ageTurning,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DaysUntil < candidates[j].DaysUntil
	})
	return candidates
}
