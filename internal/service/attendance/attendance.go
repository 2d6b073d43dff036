package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dabbatrack-service/internal/domain/attendance"
	xerrors "dabbatrack-service/internal/pkg/errors"
	"dabbatrack-service/internal/pkg/validators"

	"go.uber.org/zap"
)

const (
	// CutoffHour is the local hour after which same-day opt-outs are refused.
	CutoffHour = 10

	latestLimit       = 10
	defaultOptOutNote = "Customer opted out"
)

// Store is the persistence surface the ledger needs. The Postgres
// implementation enforces the natural-key uniqueness via an ON CONFLICT
// upsert.
type Store interface {
	List(ctx context.Context, filters attendance.ListFilters) ([]attendance.Record, error)
	Upsert(ctx context.Context, rec *attendance.Record) (*attendance.Record, error)
	LatestForCustomer(ctx context.Context, customerID string, limit int) ([]attendance.Record, error)
}

type AttendanceService struct {
	store  Store
	logger *zap.Logger

	// now is swapped in tests to pin the cutoff clock.
	now func() time.Time
}

func NewAttendanceService(store Store, logger *zap.Logger) *AttendanceService {
	return &AttendanceService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// List returns attendance filtered by any combination of date, slot and
// customer id. Empty strings mean the predicate is absent.
func (s *AttendanceService) List(ctx context.Context, date, slot, customerID string) ([]attendance.Record, error) {
	filters, err := buildFilters(date, slot, customerID)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, filters)
}

// Record creates or replaces the attendance record for the request's
// (customer, date, slot) key.
func (s *AttendanceService) Record(ctx context.Context, req *attendance.RecordAttendanceRequest, recordedBy string) (*attendance.Record, error) {
	if !req.Slot.Valid() {
		return nil, fmt.Errorf("%w: invalid slot: %s", xerrors.ErrInvalidInput, req.Slot)
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status: %s", xerrors.ErrInvalidInput, req.Status)
	}

	date, err := validators.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.Upsert(ctx, &attendance.Record{
		CustomerID: req.CustomerID,
		Date:       date,
		Slot:       req.Slot,
		Status:     req.Status,
		Note:       nullString(req.Note),
		RecordedBy: nullString(recordedBy),
	})
	if err != nil {
		s.logger.Error("failed to record attendance", zap.Error(err))
		return nil, err
	}

	s.logger.Info("attendance recorded",
		zap.String("customer_id", rec.CustomerID),
		zap.String("date", req.Date),
		zap.String("slot", string(rec.Slot)),
		zap.String("status", string(rec.Status)),
	)

	return rec, nil
}

// SetOptOut records a SKIPPED entry for the key. Same-day opt-outs are
// refused after the cutoff hour; any other date bypasses the check.
func (s *AttendanceService) SetOptOut(ctx context.Context, req *attendance.OptOutRequest, recordedBy string) (*attendance.Record, error) {
	if !req.Slot.Valid() {
		return nil, fmt.Errorf("%w: invalid slot: %s", xerrors.ErrInvalidInput, req.Slot)
	}

	date, err := validators.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	if err := s.enforceCutoff(date); err != nil {
		return nil, err
	}

	note := req.Reason
	if note == "" {
		note = defaultOptOutNote
	}

	rec, err := s.store.Upsert(ctx, &attendance.Record{
		CustomerID: req.CustomerID,
		Date:       date,
		Slot:       req.Slot,
		Status:     attendance.StatusSkipped,
		Note:       nullString(note),
		RecordedBy: nullString(recordedBy),
	})
	if err != nil {
		s.logger.Error("failed to set opt-out", zap.Error(err))
		return nil, err
	}

	s.logger.Info("opt-out recorded",
		zap.String("customer_id", rec.CustomerID),
		zap.String("date", req.Date),
		zap.String("slot", string(rec.Slot)),
	)

	return rec, nil
}

// OptOuts returns the SKIPPED records for a date, optionally narrowed by slot.
func (s *AttendanceService) OptOuts(ctx context.Context, date, slot string) ([]attendance.Record, error) {
	records, err := s.List(ctx, date, slot, "")
	if err != nil {
		return nil, err
	}

	optOuts := records[:0]
	for _, rec := range records {
		if rec.Status == attendance.StatusSkipped {
			optOuts = append(optOuts, rec)
		}
	}
	return optOuts, nil
}

// LatestForCustomer returns the most recent entries for profile display.
func (s *AttendanceService) LatestForCustomer(ctx context.Context, customerID string) ([]attendance.Record, error) {
	return s.store.LatestForCustomer(ctx, customerID, latestLimit)
}

// enforceCutoff only guards today: past and future dates pass untouched, so
// that back-filling and advance skips stay possible.
func (s *AttendanceService) enforceCutoff(date time.Time) error {
	now := s.now()
	if date.Format("2006-01-02") != now.Format("2006-01-02") {
		return nil
	}

	cutoff := time.Date(now.Year(), now.Month(), now.Day(), CutoffHour, 0, 0, 0, now.Location())
	if now.After(cutoff) {
		return fmt.Errorf("%w: %s is past the %02d:00 cutoff, contact support to skip manually",
			xerrors.ErrCutoffExceeded, date.Format("2006-01-02"), CutoffHour)
	}
	return nil
}

func buildFilters(date, slot, customerID string) (attendance.ListFilters, error) {
	var filters attendance.ListFilters

	if date != "" {
		d, err := validators.ParseDate(date)
		if err != nil {
			return filters, err
		}
		filters.Date = &d
	}
	if slot != "" {
		s := attendance.Slot(slot)
		if !s.Valid() {
			return filters, fmt.Errorf("%w: invalid slot: %s", xerrors.ErrInvalidInput, slot)
		}
		filters.Slot = &s
	}
	if customerID != "" {
		filters.CustomerID = &customerID
	}

	return filters, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
