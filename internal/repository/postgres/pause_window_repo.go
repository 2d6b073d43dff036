package postgres

import (
	"context"
	"fmt"
	"time"

	"dabbatrack-service/internal/domain/pause"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

const pauseColumns = `id, customer_id, start_date, end_date, reason, created_by`

type PauseWindowRepository struct {
	db *pgxpool.Pool
}

func NewPauseWindowRepository(db *pgxpool.Pool) *PauseWindowRepository {
	return &PauseWindowRepository{db: db}
}

// Create appends a new pause window. Windows are never updated or deleted.
func (r *PauseWindowRepository) Create(ctx context.Context, w *pause.Window) error {
	if w.ID == "" {
		w.ID = ulid.Make().String()
	}

	query := `
		INSERT INTO pause_windows (id, customer_id, start_date, end_date, reason, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, w.ID, w.CustomerID, w.StartDate, w.EndDate, w.Reason, w.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to create pause window: %w", err)
	}

	return nil
}

// ListByCustomer returns a customer's windows, most recent start first.
func (r *PauseWindowRepository) ListByCustomer(ctx context.Context, customerID string) ([]pause.Window, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM pause_windows
		WHERE customer_id = $1
		ORDER BY start_date DESC
	`, pauseColumns)

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pause windows: %w", err)
	}
	defer rows.Close()

	return scanWindows(rows)
}

// IsPausedOnDate reports whether the date falls inside any of the customer's
// windows, bounds inclusive.
func (r *PauseWindowRepository) IsPausedOnDate(ctx context.Context, customerID string, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM pause_windows
			WHERE customer_id = $1 AND $2::date BETWEEN start_date AND end_date
		)
	`

	var paused bool
	if err := r.db.QueryRow(ctx, query, customerID, date).Scan(&paused); err != nil {
		return false, fmt.Errorf("failed to check pause window: %w", err)
	}
	return paused, nil
}

// CountPausedOn counts distinct customers with a window covering the date.
func (r *PauseWindowRepository) CountPausedOn(ctx context.Context, date time.Time) (int, error) {
	query := `
		SELECT COUNT(DISTINCT customer_id)
		FROM pause_windows
		WHERE $1::date BETWEEN start_date AND end_date
	`

	var count int
	if err := r.db.QueryRow(ctx, query, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count paused customers: %w", err)
	}
	return count, nil
}

// ListOverlappingRange returns every window touching [from, to] inclusive,
// for monthly pause-day accounting.
func (r *PauseWindowRepository) ListOverlappingRange(ctx context.Context, from, to time.Time) ([]pause.Window, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM pause_windows
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY customer_id, start_date
	`, pauseColumns)

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping pause windows: %w", err)
	}
	defer rows.Close()

	return scanWindows(rows)
}

func scanWindows(rows pgxRows) ([]pause.Window, error) {
	windows := []pause.Window{}
	for rows.Next() {
		var w pause.Window
		if err := rows.Scan(&w.ID, &w.CustomerID, &w.StartDate, &w.EndDate, &w.Reason, &w.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan pause window: %w", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pause windows: %w", err)
	}
	return windows, nil
}
