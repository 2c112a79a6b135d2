// Package sqlite is the single-file storage backend used for local
// development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"chapterSite/internal/lib/ids"
	"chapterSite/internal/models"
	"chapterSite/internal/storage"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	DB *sql.DB

	queryTimeout time.Duration
	now          func() time.Time
}

var _ storage.Storage = (*Storage)(nil)

// New migrates the database file at path to the latest schema and opens it.
// Missing parent directories are created.
func New(path string, queryTimeout time.Duration) (*Storage, error) {
	const op = "storage.sqlite.New"

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: create dir: %w", op, err)
		}
	}

	if err := MigrateUp(path); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%s: open db: %w", op, err)
	}

	// A single writer avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	return &Storage{
		DB:           db,
		queryTimeout: queryTimeout,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("storage.sqlite.Ping: %w", err)
	}

	return nil
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *Storage) ListEvents(ctx context.Context) ([]models.Event, error) {
	const op = "storage.sqlite.ListEvents"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx, `SELECT `+storage.EventColumns+` FROM events ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		ev, err := storage.ScanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		events = append(events, *ev)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return events, nil
}

func (s *Storage) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	const op = "storage.sqlite.GetEvent"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.DB.QueryRowContext(ctx, `SELECT `+storage.EventColumns+` FROM events WHERE id = ?`, id.String())

	ev, err := storage.ScanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ev, nil
}

func (s *Storage) CreateEvent(ctx context.Context, ne models.NewEvent) (*models.Event, error) {
	const op = "storage.sqlite.CreateEvent"

	id := uuid.New()
	now := s.now()

	execCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.DB.ExecContext(execCtx, `
		INSERT INTO events (id, title, description, date, location, category, image_url, registration_url, is_featured, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(),
		ne.Title,
		ne.Description,
		ne.Date.UTC(),
		ne.Location,
		string(ne.Category),
		ne.ImageURL,
		ne.RegistrationURL,
		ne.IsFeatured,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Column types are only reported for plain SELECTs, so the row is read
	// back instead of using RETURNING.
	ev, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ev, nil
}

func (s *Storage) UpdateEvent(ctx context.Context, id uuid.UUID, patch models.EventPatch) (*models.Event, error) {
	const op = "storage.sqlite.UpdateEvent"

	sets, args := storage.PatchAssignments(patch, func(int) string { return "?" })
	sets = append(sets, "updated_at = ?")
	args = append(args, s.now(), id.String())

	execCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.DB.ExecContext(execCtx, `UPDATE events SET `+storage.JoinAssignments(sets)+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: rows affected: %w", op, err)
	}

	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	ev, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ev, nil
}

func (s *Storage) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	const op = "storage.sqlite.DeleteEvent"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.DB.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
	}

	return nil
}

func (s *Storage) SaveContactSubmission(ctx context.Context, ns models.NewContactSubmission) (*models.ContactSubmission, error) {
	const op = "storage.sqlite.SaveContactSubmission"

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("%s: generate id: %w", op, err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sub := models.ContactSubmission{
		ID:        id,
		Name:      ns.Name,
		Email:     ns.Email,
		Subject:   ns.Subject,
		Message:   ns.Message,
		Status:    models.ContactPending,
		CreatedAt: s.now(),
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO contact_submissions (id, name, email, subject, message, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Email, sub.Subject, sub.Message, string(sub.Status), sub.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &sub, nil
}

// CountContactSubmissions returns the number of stored submissions.
func (s *Storage) CountContactSubmissions(ctx context.Context) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("storage.sqlite.CountContactSubmissions: %w", err)
	}

	return n, nil
}
