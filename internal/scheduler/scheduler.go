package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ashwindharne/hbd-bot/internal/digest"
	"github.com/ashwindharne/hbd-bot/internal/sms"
)

// hourlySpec fires at the top of every hour; the send gate's strict
// local-hour match means each user qualifies at most once per run.
const hourlySpec = "0 * * * *"

// CooldownStore persists the delivery timestamp after a confirmed send.
type CooldownStore interface {
	MarkDigestSent(ctx context.Context, userID int64, sentAt time.Time) error
}

// Sweeper compiles birthday digests on a schedule and delivers them over SMS.
type Sweeper struct {
	compiler *digest.Compiler
	store    CooldownStore
	sender   sms.Sender
	log      *zap.Logger
	pacing   time.Duration
}

// New creates a Sweeper. pacing is the gap between consecutive sends; zero
// disables pacing.
func New(compiler *digest.Compiler, store CooldownStore, sender sms.Sender, log *zap.Logger, pacing time.Duration) *Sweeper {
	return &Sweeper{
		compiler: compiler,
		store:    store,
		sender:   sender,
		log:      log,
		pacing:   pacing,
	}
}

// Run schedules an hourly sweep and blocks until ctx is canceled. Any sweep
// already in flight finishes before Run returns.
func (s *Sweeper) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(hourlySpec, func() { s.Sweep(ctx) }); err != nil {
		return err
	}
	c.Start()
	s.log.Info("sweeper scheduled", zap.String("spec", hourlySpec))

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	s.log.Info("sweeper stopped")
	return nil
}

// Sweep performs one compile-and-deliver pass against the current instant.
func (s *Sweeper) Sweep(ctx context.Context) {
	s.SweepAt(ctx, time.Now().UTC())
}

// SweepAt compiles digests for the given instant and delivers them. The
// cooldown timestamp advances only for users whose send was confirmed, so a
// mid-run failure leaves the remaining users eligible on the next pass.
func (s *Sweeper) SweepAt(ctx context.Context, now time.Time) {
	messages, err := s.compiler.Compile(ctx, now)
	if err != nil {
		s.log.Error("digest compilation failed", zap.Error(err))
		return
	}
	if len(messages) == 0 {
		s.log.Info("no digests due")
		return
	}

	sent := 0
	for i, m := range messages {
		if i > 0 && s.pacing > 0 {
			select {
			case <-ctx.Done():
				s.log.Warn("sweep interrupted", zap.Int("sent", sent), zap.Int("pending", len(messages)-i))
				return
			case <-time.After(s.pacing):
			}
		}

		if err := s.sender.SendSMS(ctx, m.PhoneNumber, m.Body); err != nil {
			s.log.Error("send failed",
				zap.Int64("user_id", m.UserID), zap.String("phone", m.PhoneNumber), zap.Error(err))
			continue
		}
		if err := s.store.MarkDigestSent(ctx, m.UserID, time.Now().UTC()); err != nil {
			s.log.Error("mark digest sent failed",
				zap.Int64("user_id", m.UserID), zap.Error(err))
		}
		sent++
	}
	s.log.Info("sweep complete", zap.Int("compiled", len(messages)), zap.Int("sent", sent))
}
