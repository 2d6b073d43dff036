package billing

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"dabbatrack-service/internal/domain/attendance"
	"dabbatrack-service/internal/domain/customer"
	"dabbatrack-service/internal/domain/pause"
	"dabbatrack-service/internal/domain/plan"
	xerrors "dabbatrack-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePlanStore struct {
	plans map[string]plan.TiffinPlan
}

func newFakePlanStore() *fakePlanStore {
	return &fakePlanStore{plans: map[string]plan.TiffinPlan{}}
}

func (f *fakePlanStore) Upsert(_ context.Context, p *plan.TiffinPlan) (*plan.TiffinPlan, error) {
	out := *p
	out.Status = plan.StatusActive
	if existing, ok := f.plans[p.CustomerID]; ok {
		out.ID = existing.ID
		out.LastPaymentStatus = existing.LastPaymentStatus
		out.LastPaymentAt = existing.LastPaymentAt
	} else if out.ID == "" {
		out.ID = "plan-" + p.CustomerID
	}
	f.plans[p.CustomerID] = out
	result := out
	return &result, nil
}

func (f *fakePlanStore) MarkPayment(_ context.Context, customerID, status string, paidAt sql.NullTime) (*plan.TiffinPlan, error) {
	p, ok := f.plans[customerID]
	if !ok || p.Status != plan.StatusActive {
		return nil, xerrors.ErrNotFound
	}
	p.LastPaymentStatus = sql.NullString{String: status, Valid: true}
	if !paidAt.Valid {
		paidAt = sql.NullTime{Time: time.Now(), Valid: true}
	}
	p.LastPaymentAt = paidAt
	f.plans[customerID] = p
	out := p
	return &out, nil
}

func (f *fakePlanStore) ListActive(_ context.Context) ([]plan.TiffinPlan, error) {
	out := []plan.TiffinPlan{}
	for _, p := range f.plans {
		if p.Status == plan.StatusActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlanStore) GetForCustomer(_ context.Context, customerID string) (*plan.TiffinPlan, error) {
	p, ok := f.plans[customerID]
	if !ok || p.Status != plan.StatusActive {
		return nil, xerrors.ErrNotFound
	}
	out := p
	return &out, nil
}

type fakeAttendanceStore struct {
	records []attendance.Record
}

func (f *fakeAttendanceStore) ListForRange(_ context.Context, from, to time.Time) ([]attendance.Record, error) {
	out := []attendance.Record{}
	for _, rec := range f.records {
		if !rec.Date.Before(from) && rec.Date.Before(to) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeCustomerStore struct {
	customers []customer.Customer
}

func (f *fakeCustomerStore) List(_ context.Context, status *customer.Status, vendorScope *string) ([]customer.Customer, error) {
	out := []customer.Customer{}
	for _, c := range f.customers {
		if status != nil && c.Status != *status {
			continue
		}
		if vendorScope != nil && c.VendorUserID.String != *vendorScope {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type fakePauseStore struct {
	windows []pause.Window
}

func (f *fakePauseStore) ListOverlappingRange(_ context.Context, from, to time.Time) ([]pause.Window, error) {
	out := []pause.Window{}
	for _, w := range f.windows {
		if !w.StartDate.After(to) && !w.EndDate.Before(from) {
			out = append(out, w)
		}
	}
	return out, nil
}

type fixture struct {
	plans     *fakePlanStore
	att       *fakeAttendanceStore
	customers *fakeCustomerStore
	pauses    *fakePauseStore
	svc       *BillingService
}

func newFixture() *fixture {
	f := &fixture{
		plans:     newFakePlanStore(),
		att:       &fakeAttendanceStore{},
		customers: &fakeCustomerStore{},
		pauses:    &fakePauseStore{},
	}
	f.svc = NewBillingService(f.plans, f.att, f.customers, f.pauses, zap.NewNop())
	return f
}

func (f *fixture) addCustomer(id, name, vendorID string) {
	f.customers.customers = append(f.customers.customers, customer.Customer{
		ID:           id,
		Name:         name,
		Status:       customer.StatusActive,
		VendorUserID: sql.NullString{String: vendorID, Valid: vendorID != ""},
	})
}

func (f *fixture) addAttendance(customerID string, date time.Time, slot attendance.Slot, status attendance.Status) {
	f.att.records = append(f.att.records, attendance.Record{
		CustomerID: customerID, Date: date, Slot: slot, Status: status,
	})
}

func TestUpsertPlanValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpsertPlan(context.Background(), &plan.UpsertPlanRequest{
		CustomerID: "cust-1", BillingCycle: "WEEKLY", MonthlyRate: 2800, StartDate: "2025-02-01",
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = f.svc.UpsertPlan(context.Background(), &plan.UpsertPlanRequest{
		CustomerID: "cust-1", BillingCycle: plan.CycleMonthly, MonthlyRate: 0, StartDate: "2025-02-01",
	})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	p, err := f.svc.UpsertPlan(context.Background(), &plan.UpsertPlanRequest{
		CustomerID: "cust-1", BillingCycle: plan.CycleMonthly, MonthlyRate: 2800, StartDate: "2025-02-01",
	})
	require.NoError(t, err)
	assert.Equal(t, plan.StatusActive, p.Status)
}

func TestUpsertPlanPreservesPaymentHistory(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpsertPlan(context.Background(), &plan.UpsertPlanRequest{
		CustomerID: "cust-1", BillingCycle: plan.CycleMonthly, MonthlyRate: 2800, StartDate: "2025-02-01",
	})
	require.NoError(t, err)

	_, err = f.svc.MarkPayment(context.Background(), &plan.MarkPaymentRequest{
		CustomerID: "cust-1", Status: plan.PaymentStatusPaid, PaidAt: "2025-02-03",
	})
	require.NoError(t, err)

	// Rate change keeps the payment columns.
	p, err := f.svc.UpsertPlan(context.Background(), &plan.UpsertPlanRequest{
		CustomerID: "cust-1", BillingCycle: plan.CycleMonthly, MonthlyRate: 3000, StartDate: "2025-02-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, p.MonthlyRate)
	assert.True(t, p.IsPaid())
}

func TestMarkPaymentWithoutPlan(t *testing.T) {
	f := newFixture()

	_, err := f.svc.MarkPayment(context.Background(), &plan.MarkPaymentRequest{
		CustomerID: "cust-missing", Status: plan.PaymentStatusPaid,
	})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestBillingSummaryBalances(t *testing.T) {
	f := newFixture()
	f.addCustomer("cust-1", "Asha Patil", "vendor-1")
	f.addCustomer("cust-2", "Ravi Kumar", "vendor-1")
	f.addCustomer("cust-3", "No Plan", "vendor-1")

	for _, id := range []string{"cust-1", "cust-2"} {
		_, err := f.svc.UpsertPlan(context.Background(), &plan.UpsertPlanRequest{
			CustomerID: id, BillingCycle: plan.CycleMonthly, MonthlyRate: 2800, StartDate: "2025-02-01",
		})
		require.NoError(t, err)
	}
	_, err := f.svc.MarkPayment(context.Background(), &plan.MarkPaymentRequest{
		CustomerID: "cust-1", Status: plan.PaymentStatusPaid,
	})
	require.NoError(t, err)

	entries, err := f.svc.BillingSummary(context.Background(), nil)
	require.NoError(t, err)
	// Customers without a plan are omitted; output sorts by name.
	require.Len(t, entries, 2)
	assert.Equal(t, "Asha Patil", entries[0].Customer.Name)
	assert.Equal(t, 0.0, entries[0].BalanceDue)
	assert.Equal(t, "Ravi Kumar", entries[1].Customer.Name)
	assert.Equal(t, 2800.0, entries[1].BalanceDue)
}

func TestMonthlyLedgerAmounts(t *testing.T) {
	f := newFixture()
	f.addCustomer("cust-1", "Asha Patil", "vendor-1")
	f.addCustomer("cust-2", "Zero Records", "vendor-1")

	_, err := f.svc.UpsertPlan(context.Background(), &plan.UpsertPlanRequest{
		CustomerID: "cust-1", BillingCycle: plan.CycleMonthly, MonthlyRate: 2800, StartDate: "2025-02-01",
	})
	require.NoError(t, err)

	// 12 lunches and 8 dinners taken, plus noise that must not count.
	for day := 1; day <= 12; day++ {
		f.addAttendance("cust-1", time.Date(2025, 2, day, 0, 0, 0, 0, time.UTC), attendance.SlotLunch, attendance.StatusPresent)
	}
	for day := 1; day <= 8; day++ {
		f.addAttendance("cust-1", time.Date(2025, 2, day, 0, 0, 0, 0, time.UTC), attendance.SlotDinner, attendance.StatusPresent)
	}
	f.addAttendance("cust-1", time.Date(2025, 2, 13, 0, 0, 0, 0, time.UTC), attendance.SlotLunch, attendance.StatusSkipped)
	f.addAttendance("cust-1", time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC), attendance.SlotLunch, attendance.StatusAbsent)
	f.addAttendance("cust-1", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), attendance.SlotLunch, attendance.StatusPresent)

	ledger, err := f.svc.MonthlyLedger(context.Background(), "2025-02", nil)
	require.NoError(t, err)
	require.Len(t, ledger, 2)

	row := ledger[0]
	assert.Equal(t, "Asha Patil", row.Customer.Name)
	assert.Equal(t, 12, row.LunchCount)
	assert.Equal(t, 8, row.DinnerCount)
	assert.Equal(t, 20, row.TotalTaken)
	assert.Equal(t, 2800.0, row.RatePerTiffin)
	assert.Equal(t, 56000.0, row.TotalAmount)

	// No records and no plan: everything zero, row still present.
	zero := ledger[1]
	assert.Equal(t, "Zero Records", zero.Customer.Name)
	assert.Equal(t, 0, zero.TotalTaken)
	assert.Equal(t, 0.0, zero.TotalAmount)
}

func TestMonthlyUsagePausedSlots(t *testing.T) {
	f := newFixture()
	f.addCustomer("cust-1", "Asha Patil", "vendor-1")

	f.addAttendance("cust-1", time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), attendance.SlotLunch, attendance.StatusPresent)
	f.addAttendance("cust-1", time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), attendance.SlotDinner, attendance.StatusSkipped)

	// Window straddles the month boundary: only Feb 1-3 count, at two slots
	// per day.
	f.pauses.windows = append(f.pauses.windows, pause.Window{
		CustomerID: "cust-1",
		StartDate:  time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
	})

	usage, err := f.svc.MonthlyUsage(context.Background(), "2025-02", nil)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 1, usage[0].BoxesTaken)
	assert.Equal(t, 1, usage[0].Skipped)
	assert.Equal(t, 6, usage[0].Paused)
}

func TestMonthlyLedgerScoping(t *testing.T) {
	f := newFixture()
	f.addCustomer("cust-1", "Asha Patil", "vendor-1")
	f.addCustomer("cust-2", "Ravi Kumar", "vendor-2")

	scope := "vendor-1"
	ledger, err := f.svc.MonthlyLedger(context.Background(), "2025-02", &scope)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, "Asha Patil", ledger[0].Customer.Name)

	_, err = f.svc.MonthlyLedger(context.Background(), "02-2025", &scope)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}
