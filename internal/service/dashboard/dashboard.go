package dashboard

import (
	"context"
	"fmt"
	"time"

	"dabbatrack-service/internal/domain/attendance"
	"dabbatrack-service/internal/domain/dashboard"
	"dabbatrack-service/internal/pkg/validators"

	"go.uber.org/zap"
)

type CustomerStore interface {
	CountActive(ctx context.Context) (int, error)
}

type PlanStore interface {
	CountActive(ctx context.Context) (int, error)
	CountUnpaid(ctx context.Context) (int, error)
}

type AttendanceStore interface {
	List(ctx context.Context, filters attendance.ListFilters) ([]attendance.Record, error)
}

type PauseStore interface {
	CountPausedOn(ctx context.Context, date time.Time) (int, error)
}

// DashboardService assembles the operator's daily snapshot from the other
// modules' stores.
type DashboardService struct {
	customers  CustomerStore
	plans      PlanStore
	attendance AttendanceStore
	pauses     PauseStore
	logger     *zap.Logger
}

func NewDashboardService(customers CustomerStore, plans PlanStore, att AttendanceStore, pauses PauseStore, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		customers:  customers,
		plans:      plans,
		attendance: att,
		pauses:     pauses,
		logger:     logger,
	}
}

// Summary builds the snapshot for one day. Delivered counts every handled
// entry (PRESENT or ABSENT), and scheduled is everything recorded for the
// date, handled plus skipped.
func (s *DashboardService) Summary(ctx context.Context, date string) (*dashboard.Summary, error) {
	day, err := validators.ParseDate(date)
	if err != nil {
		return nil, err
	}

	totalCustomers, err := s.customers.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	activePlans, err := s.plans.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	unpaid, err := s.plans.CountUnpaid(ctx)
	if err != nil {
		return nil, err
	}
	paused, err := s.pauses.CountPausedOn(ctx, day)
	if err != nil {
		return nil, err
	}

	records, err := s.attendance.List(ctx, attendance.ListFilters{Date: &day})
	if err != nil {
		return nil, err
	}

	summary := &dashboard.Summary{
		Date:           day,
		TotalCustomers: totalCustomers,
		ActivePlans:    activePlans,
		UnpaidCount:    unpaid,
		PausedCount:    paused,
		OptOuts:        []attendance.Record{},
		Alerts:         []string{},
	}

	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusPresent, attendance.StatusAbsent:
			summary.DeliveredCount++
		case attendance.StatusSkipped:
			summary.SkippedCount++
			summary.OptOuts = append(summary.OptOuts, rec)
		}
	}
	summary.ScheduledCount = summary.DeliveredCount + summary.SkippedCount

	if unpaid > 0 {
		summary.Alerts = append(summary.Alerts, fmt.Sprintf("%d customers have unpaid invoices.", unpaid))
	}
	if paused > 0 {
		summary.Alerts = append(summary.Alerts, fmt.Sprintf("%d customers are paused today.", paused))
	}

	return summary, nil
}
