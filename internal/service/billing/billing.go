package billing

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"dabbatrack-service/internal/domain/attendance"
	"dabbatrack-service/internal/domain/customer"
	"dabbatrack-service/internal/domain/dashboard"
	"dabbatrack-service/internal/domain/pause"
	"dabbatrack-service/internal/domain/plan"
	xerrors "dabbatrack-service/internal/pkg/errors"
	"dabbatrack-service/internal/pkg/validators"

	"go.uber.org/zap"
)

// slotsPerDay is how many deliverable boxes one paused day removes.
const slotsPerDay = 2

type PlanStore interface {
	Upsert(ctx context.Context, p *plan.TiffinPlan) (*plan.TiffinPlan, error)
	MarkPayment(ctx context.Context, customerID, status string, paidAt sql.NullTime) (*plan.TiffinPlan, error)
	ListActive(ctx context.Context) ([]plan.TiffinPlan, error)
	GetForCustomer(ctx context.Context, customerID string) (*plan.TiffinPlan, error)
}

type AttendanceStore interface {
	ListForRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error)
}

type CustomerStore interface {
	List(ctx context.Context, status *customer.Status, vendorScope *string) ([]customer.Customer, error)
}

type PauseStore interface {
	ListOverlappingRange(ctx context.Context, from, to time.Time) ([]pause.Window, error)
}

// BillingService owns plan lifecycle, manual payments and the monthly
// rollups. Aggregation happens here rather than in SQL so the arithmetic is
// testable against in-memory stores.
type BillingService struct {
	plans      PlanStore
	attendance AttendanceStore
	customers  CustomerStore
	pauses     PauseStore
	logger     *zap.Logger
}

func NewBillingService(plans PlanStore, att AttendanceStore, customers CustomerStore, pauses PauseStore, logger *zap.Logger) *BillingService {
	return &BillingService{
		plans:      plans,
		attendance: att,
		customers:  customers,
		pauses:     pauses,
		logger:     logger,
	}
}

// UpsertPlan creates or replaces the customer's single active plan. Payment
// history on an existing plan is preserved by the storage layer.
func (s *BillingService) UpsertPlan(ctx context.Context, req *plan.UpsertPlanRequest) (*plan.TiffinPlan, error) {
	if !req.BillingCycle.Valid() {
		return nil, fmt.Errorf("%w: invalid billing cycle: %s", xerrors.ErrInvalidInput, req.BillingCycle)
	}
	if req.MonthlyRate <= 0 {
		return nil, fmt.Errorf("%w: monthly rate must be positive", xerrors.ErrInvalidInput)
	}

	start, err := validators.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	p, err := s.plans.Upsert(ctx, &plan.TiffinPlan{
		CustomerID:   req.CustomerID,
		StartDate:    start,
		BillingCycle: req.BillingCycle,
		MonthlyRate:  req.MonthlyRate,
	})
	if err != nil {
		s.logger.Error("failed to upsert plan", zap.Error(err))
		return nil, err
	}

	s.logger.Info("plan upserted",
		zap.String("customer_id", p.CustomerID),
		zap.Float64("monthly_rate", p.MonthlyRate),
	)

	return p, nil
}

// MarkPayment records a manually collected payment against the customer's
// active plan. Missing plan surfaces as ErrNotFound.
func (s *BillingService) MarkPayment(ctx context.Context, req *plan.MarkPaymentRequest) (*plan.TiffinPlan, error) {
	if req.Status == "" {
		return nil, fmt.Errorf("%w: payment status is required", xerrors.ErrInvalidInput)
	}

	var paidAt sql.NullTime
	if req.PaidAt != "" {
		t, err := validators.ParseDate(req.PaidAt)
		if err != nil {
			return nil, err
		}
		paidAt = sql.NullTime{Time: t, Valid: true}
	}

	p, err := s.plans.MarkPayment(ctx, req.CustomerID, req.Status, paidAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment marked",
		zap.String("customer_id", p.CustomerID),
		zap.String("status", req.Status),
	)

	return p, nil
}

// ListActivePlans returns every ACTIVE plan.
func (s *BillingService) ListActivePlans(ctx context.Context) ([]plan.TiffinPlan, error) {
	return s.plans.ListActive(ctx)
}

// GetPlanForCustomer fetches the customer's active plan.
func (s *BillingService) GetPlanForCustomer(ctx context.Context, customerID string) (*plan.TiffinPlan, error) {
	return s.plans.GetForCustomer(ctx, customerID)
}

// BillingSummary pairs every in-scope customer holding a plan with the amount
// still owed. Unpaid means the last payment is missing or not PAID, and the
// balance due is one cycle's rate.
func (s *BillingService) BillingSummary(ctx context.Context, vendorScope *string) ([]dashboard.BillingEntry, error) {
	customers, err := s.customers.List(ctx, nil, vendorScope)
	if err != nil {
		return nil, err
	}

	entries := []dashboard.BillingEntry{}
	for _, c := range customers {
		p, err := s.plans.GetForCustomer(ctx, c.ID)
		if xerrors.Is(err, xerrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		balance := p.MonthlyRate
		if p.IsPaid() {
			balance = 0
		}

		entries = append(entries, dashboard.BillingEntry{
			Customer:        dashboard.CustomerRef{ID: c.ID, Name: c.Name},
			Plan:            *p,
			BalanceDue:      balance,
			NextBillingDate: p.StartDate,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Customer.Name < entries[j].Customer.Name
	})
	return entries, nil
}

// MonthlyLedger builds the per-customer delivery count and amount for a
// YYYY-MM month. Customers without records still appear with zero counts so
// the report covers the whole book.
func (s *BillingService) MonthlyLedger(ctx context.Context, month string, vendorScope *string) ([]dashboard.MonthlyCustomerLedger, error) {
	start, next, err := validators.MonthRange(month)
	if err != nil {
		return nil, err
	}

	customers, err := s.customers.List(ctx, nil, vendorScope)
	if err != nil {
		return nil, err
	}
	records, err := s.attendance.ListForRange(ctx, start, next)
	if err != nil {
		return nil, err
	}

	type counts struct{ lunch, dinner int }
	taken := map[string]counts{}
	for _, rec := range records {
		if rec.Status != attendance.StatusPresent {
			continue
		}
		c := taken[rec.CustomerID]
		if rec.Slot == attendance.SlotLunch {
			c.lunch++
		} else {
			c.dinner++
		}
		taken[rec.CustomerID] = c
	}

	ledger := make([]dashboard.MonthlyCustomerLedger, 0, len(customers))
	for _, c := range customers {
		rate := 0.0
		if p, err := s.plans.GetForCustomer(ctx, c.ID); err == nil {
			rate = p.MonthlyRate
		} else if !xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, err
		}

		counted := taken[c.ID]
		total := counted.lunch + counted.dinner
		ledger = append(ledger, dashboard.MonthlyCustomerLedger{
			Customer:      dashboard.CustomerRef{ID: c.ID, Name: c.Name},
			Month:         month,
			LunchCount:    counted.lunch,
			DinnerCount:   counted.dinner,
			TotalTaken:    total,
			RatePerTiffin: rate,
			TotalAmount:   float64(total) * rate,
		})
	}

	sort.Slice(ledger, func(i, j int) bool {
		return ledger[i].Customer.Name < ledger[j].Customer.Name
	})
	return ledger, nil
}

// MonthlyUsage reports boxes taken, skips and paused slots per customer for a
// YYYY-MM month. Paused counts overlap days times the two daily slots; no
// SKIPPED rows are materialised for windows.
func (s *BillingService) MonthlyUsage(ctx context.Context, month string, vendorScope *string) ([]dashboard.CustomerUsage, error) {
	start, next, err := validators.MonthRange(month)
	if err != nil {
		return nil, err
	}
	monthEnd := next.AddDate(0, 0, -1)

	customers, err := s.customers.List(ctx, nil, vendorScope)
	if err != nil {
		return nil, err
	}
	records, err := s.attendance.ListForRange(ctx, start, next)
	if err != nil {
		return nil, err
	}
	windows, err := s.pauses.ListOverlappingRange(ctx, start, monthEnd)
	if err != nil {
		return nil, err
	}

	type tally struct{ taken, skipped, paused int }
	tallies := map[string]tally{}
	for _, rec := range records {
		t := tallies[rec.CustomerID]
		switch rec.Status {
		case attendance.StatusPresent:
			t.taken++
		case attendance.StatusSkipped:
			t.skipped++
		}
		tallies[rec.CustomerID] = t
	}
	for _, w := range windows {
		t := tallies[w.CustomerID]
		t.paused += w.OverlapDays(start, monthEnd) * slotsPerDay
		tallies[w.CustomerID] = t
	}

	usage := make([]dashboard.CustomerUsage, 0, len(customers))
	for _, c := range customers {
		t := tallies[c.ID]
		usage = append(usage, dashboard.CustomerUsage{
			Customer:   dashboard.CustomerRef{ID: c.ID, Name: c.Name},
			Month:      month,
			BoxesTaken: t.taken,
			Skipped:    t.skipped,
			Paused:     t.paused,
		})
	}

	sort.Slice(usage, func(i, j int) bool {
		return usage[i].Customer.Name < usage[j].Customer.Name
	})
	return usage, nil
}
