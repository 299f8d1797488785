// internal/repository/tracking_repository.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	uuid2 "github.com/gofrs/uuid"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
)

type TrackingRepository interface {
	GetDay(ctx context.Context, userID, date string) (*entity.Day, error)
	SaveDay(ctx context.Context, day *entity.Day) error
	// GetRange returns days with start <= date <= end, newest first. limit <= 0 means no limit.
	GetRange(ctx context.Context, userID, start, end string, limit int) ([]entity.Day, error)
	GetLatestDay(ctx context.Context, userID string) (*entity.Day, error)
	DeleteDay(ctx context.Context, userID, date string) (bool, error)
	DeleteRange(ctx context.Context, userID, start, end string) (int64, error)
	DeleteAll(ctx context.Context, userID string) (int64, error)
}

type trackingRepository struct {
	db *sqlx.DB
}

func NewTrackingRepository(db *sqlx.DB) TrackingRepository {
	return &trackingRepository{db: db}
}

// dayRow is the storage shape of entity.Day; nested collections live in JSON columns.
type dayRow struct {
	ID              uuid2.UUID `db:"id"`
	UserID          string     `db:"user_id"`
	Date            string     `db:"date_key"`
	Sites           []byte     `db:"sites"`
	FocusSessions   []byte     `db:"focus_sessions"`
	BlockedAttempts []byte     `db:"blocked_attempts"`
	Summary         []byte     `db:"summary"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

const dayColumns = `id, user_id, date_key, sites, focus_sessions, blocked_attempts, summary, created_at, updated_at`

func (r *trackingRepository) GetDay(ctx context.Context, userID, date string) (*entity.Day, error) {
	var row dayRow
	query := r.db.Rebind(`SELECT ` + dayColumns + ` FROM tracking_days WHERE user_id = ? AND date_key = ?`)

	err := r.db.GetContext(ctx, &row, query, userID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tracking day: %w", err)
	}

	return row.toEntity()
}

func (r *trackingRepository) SaveDay(ctx context.Context, day *entity.Day) error {
	if day.ID == uuid2.Nil {
		day.ID = uuid2.UUID(uuid.New())
	}
	if day.CreatedAt.IsZero() {
		day.CreatedAt = time.Now().UTC()
	}
	if day.UpdatedAt.IsZero() {
		day.UpdatedAt = day.CreatedAt
	}

	row, err := newDayRow(day)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`
		INSERT INTO tracking_days (` + dayColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date_key) DO UPDATE SET
			sites = excluded.sites,
			focus_sessions = excluded.focus_sessions,
			blocked_attempts = excluded.blocked_attempts,
			summary = excluded.summary,
			updated_at = excluded.updated_at
		RETURNING id`)

	var id uuid2.UUID
	err = r.db.QueryRowxContext(ctx, query,
		row.ID.String(),
		row.UserID,
		row.Date,
		string(row.Sites),
		string(row.FocusSessions),
		string(row.BlockedAttempts),
		string(row.Summary),
		row.CreatedAt.UTC(),
		row.UpdatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to save tracking day: %w", err)
	}

	day.ID = id
	return nil
}

func (r *trackingRepository) GetRange(ctx context.Context, userID, start, end string, limit int) ([]entity.Day, error) {
	query := `SELECT ` + dayColumns + ` FROM tracking_days
		WHERE user_id = ? AND date_key >= ? AND date_key <= ?
		ORDER BY date_key DESC`
	args := []interface{}{userID, start, end}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []dayRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get tracking range: %w", err)
	}

	return toEntities(rows)
}

func (r *trackingRepository) GetLatestDay(ctx context.Context, userID string) (*entity.Day, error) {
	var row dayRow
	query := r.db.Rebind(`SELECT ` + dayColumns + ` FROM tracking_days
		WHERE user_id = ? ORDER BY updated_at DESC LIMIT 1`)

	err := r.db.GetContext(ctx, &row, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest tracking day: %w", err)
	}

	return row.toEntity()
}

func (r *trackingRepository) DeleteDay(ctx context.Context, userID, date string) (bool, error) {
	query := r.db.Rebind(`DELETE FROM tracking_days WHERE user_id = ? AND date_key = ?`)

	result, err := r.db.ExecContext(ctx, query, userID, date)
	if err != nil {
		return false, fmt.Errorf("failed to delete tracking day: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *trackingRepository) DeleteRange(ctx context.Context, userID, start, end string) (int64, error) {
	query := r.db.Rebind(`DELETE FROM tracking_days WHERE user_id = ? AND date_key >= ? AND date_key <= ?`)

	result, err := r.db.ExecContext(ctx, query, userID, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tracking range: %w", err)
	}

	return result.RowsAffected()
}

func (r *trackingRepository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	query := r.db.Rebind(`DELETE FROM tracking_days WHERE user_id = ?`)

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tracking data: %w", err)
	}

	return result.RowsAffected()
}

func newDayRow(day *entity.Day) (*dayRow, error) {
	sites, err := json.Marshal(nonNil(day.Sites))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sites: %w", err)
	}
	focus, err := json.Marshal(nonNil(day.FocusSessions))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal focus sessions: %w", err)
	}
	blocked, err := json.Marshal(nonNil(day.BlockedAttempts))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal blocked attempts: %w", err)
	}
	summary, err := json.Marshal(day.Summary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	return &dayRow{
		ID:              day.ID,
		UserID:          day.UserID,
		Date:            day.Date,
		Sites:           sites,
		FocusSessions:   focus,
		BlockedAttempts: blocked,
		Summary:         summary,
		CreatedAt:       day.CreatedAt,
		UpdatedAt:       day.UpdatedAt,
	}, nil
}

func (row dayRow) toEntity() (*entity.Day, error) {
	day := &entity.Day{
		ID:        row.ID,
		UserID:    row.UserID,
		Date:      row.Date,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if err := json.Unmarshal(row.Sites, &day.Sites); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sites for %s: %w", row.Date, err)
	}
	if err := json.Unmarshal(row.FocusSessions, &day.FocusSessions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal focus sessions for %s: %w", row.Date, err)
	}
	if err := json.Unmarshal(row.BlockedAttempts, &day.BlockedAttempts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal blocked attempts for %s: %w", row.Date, err)
	}
	if err := json.Unmarshal(row.Summary, &day.Summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary for %s: %w", row.Date, err)
	}

	return day, nil
}

func toEntities(rows []dayRow) ([]entity.Day, error) {
	days := make([]entity.Day, 0, len(rows))
	for _, row := range rows {
		day, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		days = append(days, *day)
	}
	return days, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
