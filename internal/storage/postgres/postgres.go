package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chapterSite/internal/config"
	"chapterSite/internal/lib/ids"
	"chapterSite/internal/models"
	"chapterSite/internal/storage"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type Storage struct {
	DB *sql.DB

	queryTimeout time.Duration
}

var _ storage.Storage = (*Storage)(nil)

func InitDB(dbCfg *config.Database, queryTimeout time.Duration) (*Storage, error) {
	const op = "storage.postgres.InitDB"

	db, err := sql.Open("postgres", ConnString(dbCfg))
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", op, err)
	}

	s := &Storage{DB: db, queryTimeout: queryTimeout}

	if err = s.Ping(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

// ConnString is the lib/pq keyword/value DSN for dbCfg.
func ConnString(dbCfg *config.Database) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("storage.postgres.Ping: %w", err)
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
	const op = "storage.postgres.ListEvents"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + storage.EventColumns + `
		FROM events
		ORDER BY date DESC`

	rows, err := s.DB.QueryContext(ctx, query)
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
	const op = "storage.postgres.GetEvent"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + storage.EventColumns + `
		FROM events
		WHERE id = $1`

	ev, err := storage.ScanEvent(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ev, nil
}

func (s *Storage) CreateEvent(ctx context.Context, ne models.NewEvent) (*models.Event, error) {
	const op = "storage.postgres.CreateEvent"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO events (id, title, description, date, location, category, image_url, registration_url, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + storage.EventColumns

	ev, err := storage.ScanEvent(s.DB.QueryRowContext(ctx, query,
		uuid.New(),
		ne.Title,
		ne.Description,
		ne.Date.UTC(),
		ne.Location,
		string(ne.Category),
		ne.ImageURL,
		ne.RegistrationURL,
		ne.IsFeatured,
	))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ev, nil
}

func (s *Storage) UpdateEvent(ctx context.Context, id uuid.UUID, patch models.EventPatch) (*models.Event, error) {
	const op = "storage.postgres.UpdateEvent"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sets, args := storage.PatchAssignments(patch, func(n int) string { return fmt.Sprintf("$%d", n) })
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s`, storage.JoinAssignments(sets), len(args), storage.EventColumns)

	ev, err := storage.ScanEvent(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrEventNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ev, nil
}

func (s *Storage) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteEvent"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
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
	const op = "storage.postgres.SaveContactSubmission"

	id, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("%s: generate id: %w", op, err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO contact_submissions (id, name, email, subject, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	sub := models.ContactSubmission{
		ID:      id,
		Name:    ns.Name,
		Email:   ns.Email,
		Subject: ns.Subject,
		Message: ns.Message,
		Status:  models.ContactPending,
	}

	err = s.DB.QueryRowContext(ctx, query, sub.ID, sub.Name, sub.Email, sub.Subject, sub.Message, string(sub.Status)).
		Scan(&sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub.CreatedAt = sub.CreatedAt.UTC()

	return &sub, nil
}
