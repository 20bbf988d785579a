package store

import (
	"context"
	"time"

	"github.com/ashwindharne/hbd-bot/internal/domain"
)

// Repo defines storage operations for subscribers and their reminders.
type Repo interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByPhone(ctx context.Context, phoneNumber string) (*domain.User, error)
	CreateUser(ctx context.Context, phoneNumber string) (*domain.User, error)
	UpdateUserSettings(ctx context.Context, id int64, daysNotice, sendHour int, ianaTZ string) (*domain.User, error)
	// MarkDigestSent records a confirmed delivery. Call it only after the
	// transport reports success, never speculatively.
	MarkDigestSent(ctx context.Context, id int64, sentAt time.Time) error

	ListRemindersByUser(ctx context.Context, userID int64) ([]domain.Reminder, error)
	GetReminder(ctx context.Context, id int64) (*domain.Reminder, error)
	CreateReminder(ctx context.Context, userID int64, name string, birthdateMillis int64) (*domain.Reminder, error)
	UpdateReminder(ctx context.Context, id int64, name string, birthdateMillis int64) (*domain.Reminder, error)
	DeleteReminder(ctx context.Context, id int64) error

	Close() error
}
