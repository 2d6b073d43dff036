package postgres

import (
	"context"
	"fmt"
	"time"

	"dabbatrack-service/internal/domain/attendance"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

const attendanceColumns = `id, customer_id, date, slot, status, note, recorded_by`

type AttendanceRepository struct {
	db *pgxpool.Pool
}

func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns attendance filtered by any combination of date, slot and
// customer. All predicates are optional; none means a full scan.
func (r *AttendanceRepository) List(ctx context.Context, filters attendance.ListFilters) ([]attendance.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance
		WHERE ($1::date IS NULL OR date = $1)
		  AND ($2::text IS NULL OR slot = $2)
		  AND ($3::text IS NULL OR customer_id = $3)
		ORDER BY date DESC, slot ASC
	`, attendanceColumns)

	rows, err := r.db.Query(ctx, query, filters.Date, filters.Slot, filters.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Upsert inserts a record or replaces the one sharing (customer, date, slot).
// The conflict target is the storage-level unique constraint, so concurrent
// writers on the same key resolve to the last committed write.
func (r *AttendanceRepository) Upsert(ctx context.Context, rec *attendance.Record) (*attendance.Record, error) {
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO attendance (id, customer_id, date, slot, status, note, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (customer_id, date, slot)
		DO UPDATE SET status = EXCLUDED.status, note = EXCLUDED.note, recorded_by = EXCLUDED.recorded_by
		RETURNING %s
	`, attendanceColumns)

	var out attendance.Record
	err := r.db.QueryRow(
		ctx, query,
		rec.ID, rec.CustomerID, rec.Date, rec.Slot, rec.Status, rec.Note, rec.RecordedBy,
	).Scan(&out.ID, &out.CustomerID, &out.Date, &out.Slot, &out.Status, &out.Note, &out.RecordedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return &out, nil
}

// LatestForCustomer returns the most recent entries for profile display.
func (r *AttendanceRepository) LatestForCustomer(ctx context.Context, customerID string, limit int) ([]attendance.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance
		WHERE customer_id = $1
		ORDER BY date DESC, slot DESC
		LIMIT $2
	`, attendanceColumns)

	rows, err := r.db.Query(ctx, query, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest attendance: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListForRange returns every record with from <= date < to, for monthly
// rollups computed in the service layer.
func (r *AttendanceRepository) ListForRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendance
		WHERE date >= $1 AND date < $2
		ORDER BY date ASC, slot ASC
	`, attendanceColumns)

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance range: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows pgxRows) ([]attendance.Record, error) {
	records := []attendance.Record{}
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(&rec.ID, &rec.CustomerID, &rec.Date, &rec.Slot, &rec.Status, &rec.Note, &rec.RecordedBy); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}
