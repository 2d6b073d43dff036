package pause

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dabbatrack-service/internal/domain/pause"
	xerrors "dabbatrack-service/internal/pkg/errors"
	"dabbatrack-service/internal/pkg/validators"

	"go.uber.org/zap"
)

type Store interface {
	Create(ctx context.Context, w *pause.Window) error
	ListByCustomer(ctx context.Context, customerID string) ([]pause.Window, error)
	IsPausedOnDate(ctx context.Context, customerID string, date time.Time) (bool, error)
}

type PauseService struct {
	store  Store
	logger *zap.Logger
}

func NewPauseService(store Store, logger *zap.Logger) *PauseService {
	return &PauseService{store: store, logger: logger}
}

// Create appends a pause window for the customer. Overlapping windows are
// allowed; only the interval ordering is validated.
func (s *PauseService) Create(ctx context.Context, req *pause.CreateWindowRequest, createdBy string) (*pause.Window, error) {
	start, err := validators.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := validators.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date precedes start date", xerrors.ErrInvalidInput)
	}

	window := &pause.Window{
		CustomerID: req.CustomerID,
		StartDate:  start,
		EndDate:    end,
		Reason:     sql.NullString{String: req.Reason, Valid: req.Reason != ""},
		CreatedBy:  createdBy,
	}

	if err := s.store.Create(ctx, window); err != nil {
		s.logger.Error("failed to create pause window", zap.Error(err))
		return nil, err
	}

	s.logger.Info("pause window created",
		zap.String("customer_id", window.CustomerID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	return window, nil
}

// ListByCustomer returns the customer's windows, newest start first.
func (s *PauseService) ListByCustomer(ctx context.Context, customerID string) ([]pause.Window, error) {
	return s.store.ListByCustomer(ctx, customerID)
}

// IsPausedOnDate answers whether any window covers the date, bounds inclusive.
func (s *PauseService) IsPausedOnDate(ctx context.Context, customerID, date string) (bool, error) {
	d, err := validators.ParseDate(date)
	if err != nil {
		return false, err
	}
	return s.store.IsPausedOnDate(ctx, customerID, d)
}
