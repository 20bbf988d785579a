package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/ashwindharne/hbd-bot/internal/domain"
)

// sentAtLayout matches the SQLite CURRENT_TIMESTAMP format the rest of the
// schema uses, always in UTC.
const sentAtLayout = "2006-01-02 15:04:05"

// userColumns is the canonical column list for user scans.
const userColumns = "id, phone_number, created_at, last_digest_at, days_notice, send_hour, iana_tz"

// reminderColumns is the canonical column list for reminder scans.
const reminderColumns = "id, user_id, name, birthdate, created_at, updated_at"

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// SQLite is a single-writer engine; keep one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var (
		u      domain.User
		lastNS sql.NullString
	)
	if err := row.Scan(
		&u.ID, &u.PhoneNumber, &u.CreatedAt, &lastNS,
		&u.DaysNotice, &u.SendHour, &u.IANATZ,
	); err != nil {
		return nil, err
	}
	u.LastDigestAt = fromNullString(lastNS)
	return &u, nil
}

func scanReminder(row interface{ Scan(...any) error }) (*domain.Reminder, error) {
	var rem domain.Reminder
	if err := row.Scan(
		&rem.ID, &rem.UserID, &rem.Name, &rem.Birthdate,
		&rem.CreatedAt, &rem.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rem, nil
}

// ListUsers returns every subscriber.
func (r *SQLiteRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// GetUserByID returns a subscriber by id, or sql.ErrNoRows.
func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// GetUserByPhone returns a subscriber by phone number, or sql.ErrNoRows.
func (r *SQLiteRepo) GetUserByPhone(ctx context.Context, phoneNumber string) (*domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE phone_number = ?", phoneNumber))
}

// CreateUser inserts a subscriber with default preferences and returns the
// stored row.
func (r *SQLiteRepo) CreateUser(ctx context.Context, phoneNumber string) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (phone_number) VALUES (?)", phoneNumber)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, id)
}

// UpdateUserSettings persists validated delivery preferences and returns the
// stored row. Callers are expected to run domain.ValidateSettings first.
func (r *SQLiteRepo) UpdateUserSettings(ctx context.Context, id int64, daysNotice, sendHour int, ianaTZ string) (*domain.User, error) {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET days_notice = ?, send_hour = ?, iana_tz = ? WHERE id = ?",
		daysNotice, sendHour, ianaTZ, id,
	); err != nil {
		return nil, err
	}
	return r.GetUserByID(ctx, id)
}

// MarkDigestSent advances last_digest_at after a confirmed delivery.
func (r *SQLiteRepo) MarkDigestSent(ctx context.Context, id int64, sentAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET last_digest_at = ? WHERE id = ?",
		sentAt.UTC().Format(sentAtLayout), id)
	return err
}

// ListRemindersByUser returns a user's reminders ordered by upcoming
// month/day, wrapping dates already passed this year to the end.
func (r *SQLiteRepo) ListRemindersByUser(ctx context.Context, userID int64) ([]domain.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE user_id = ?
		ORDER BY
		  CASE
		    WHEN strftime('%m-%d', datetime(birthdate / 1000, 'unixepoch')) >= strftime('%m-%d', 'now')
		    THEN strftime('%m-%d', datetime(birthdate / 1000, 'unixepoch'))
		    ELSE '13' || strftime('%m-%d', datetime(birthdate / 1000, 'unixepoch'))
		  END`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []domain.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *rem)
	}
	return reminders, rows.Err()
}

// GetReminder returns a reminder by id, or sql.ErrNoRows.
func (r *SQLiteRepo) GetReminder(ctx context.Context, id int64) (*domain.Reminder, error) {
	return scanReminder(r.db.QueryRowContext(ctx,
		"SELECT "+reminderColumns+" FROM reminders WHERE id = ?", id))
}

// CreateReminder inserts a tracked birthday and returns the stored row.
func (r *SQLiteRepo) CreateReminder(ctx context.Context, userID int64, name string, birthdateMillis int64) (*domain.Reminder, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reminders (user_id, name, birthdate) VALUES (?, ?, ?)",
		userID, name, birthdateMillis)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetReminder(ctx, id)
}

// UpdateReminder rewrites a reminder's name and birthdate.
func (r *SQLiteRepo) UpdateReminder(ctx context.Context, id int64, name string, birthdateMillis int64) (*domain.Reminder, error) {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE reminders SET name = ?, birthdate = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		name, birthdateMillis, id,
	); err != nil {
		return nil, err
	}
	return r.GetReminder(ctx, id)
}

// DeleteReminder removes a reminder.
func (r *SQLiteRepo) DeleteReminder(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = ?", id)
	return err
}
