package attendance

import (
	"context"
	"sort"
	"testing"
	"time"

	"dabbatrack-service/internal/domain/attendance"
	xerrors "dabbatrack-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore mirrors the storage contract: one record per (customer, date,
// slot), upserts replace in place.
type fakeStore struct {
	records map[string]attendance.Record
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]attendance.Record{}}
}

func (f *fakeStore) key(rec *attendance.Record) string {
	return rec.CustomerID + "|" + rec.Date.Format("2006-01-02") + "|" + string(rec.Slot)
}

func (f *fakeStore) Upsert(_ context.Context, rec *attendance.Record) (*attendance.Record, error) {
	k := f.key(rec)
	if existing, ok := f.records[k]; ok {
		rec.ID = existing.ID
	} else if rec.ID == "" {
		rec.ID = k
	}
	f.records[k] = *rec
	out := *rec
	return &out, nil
}

func (f *fakeStore) List(_ context.Context, filters attendance.ListFilters) ([]attendance.Record, error) {
	out := []attendance.Record{}
	for _, rec := range f.records {
		if filters.Date != nil && !rec.Date.Equal(*filters.Date) {
			continue
		}
		if filters.Slot != nil && rec.Slot != *filters.Slot {
			continue
		}
		if filters.CustomerID != nil && rec.CustomerID != *filters.CustomerID {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Slot < out[j].Slot
	})
	return out, nil
}

func (f *fakeStore) LatestForCustomer(_ context.Context, customerID string, limit int) ([]attendance.Record, error) {
	out := []attendance.Record{}
	for _, rec := range f.records {
		if rec.CustomerID == customerID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Slot > out[j].Slot
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestService(store Store, now time.Time) *AttendanceService {
	svc := NewAttendanceService(store, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestRecordUpsertIdempotence(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC))

	first, err := svc.Record(context.Background(), &attendance.RecordAttendanceRequest{
		CustomerID: "cust-1",
		Date:       "2025-02-05",
		Slot:       attendance.SlotLunch,
		Status:     attendance.StatusPresent,
	}, "user-1")
	require.NoError(t, err)

	second, err := svc.Record(context.Background(), &attendance.RecordAttendanceRequest{
		CustomerID: "cust-1",
		Date:       "2025-02-05",
		Slot:       attendance.SlotLunch,
		Status:     attendance.StatusAbsent,
		Note:       "nobody home",
	}, "user-2")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.records, 1)
	assert.Equal(t, attendance.StatusAbsent, second.Status)
	assert.Equal(t, "nobody home", second.Note.String)
	assert.Equal(t, "user-2", second.RecordedBy.String)
}

func TestRecordRejectsInvalidInput(t *testing.T) {
	svc := newTestService(newFakeStore(), time.Now())

	_, err := svc.Record(context.Background(), &attendance.RecordAttendanceRequest{
		CustomerID: "cust-1", Date: "2025-02-05", Slot: "BRUNCH", Status: attendance.StatusPresent,
	}, "")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = svc.Record(context.Background(), &attendance.RecordAttendanceRequest{
		CustomerID: "cust-1", Date: "05-02-2025", Slot: attendance.SlotLunch, Status: attendance.StatusPresent,
	}, "")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestSetOptOutCutoff(t *testing.T) {
	// Clock pinned one minute past the cutoff.
	now := time.Date(2025, 2, 5, 10, 1, 0, 0, time.UTC)
	svc := newTestService(newFakeStore(), now)

	// Same day after cutoff: refused.
	_, err := svc.SetOptOut(context.Background(), &attendance.OptOutRequest{
		CustomerID: "cust-1", Date: "2025-02-05", Slot: attendance.SlotDinner,
	}, "user-1")
	assert.ErrorIs(t, err, xerrors.ErrCutoffExceeded)

	// Tomorrow and yesterday both bypass the cutoff.
	for _, date := range []string{"2025-02-06", "2025-02-04"} {
		rec, err := svc.SetOptOut(context.Background(), &attendance.OptOutRequest{
			CustomerID: "cust-1", Date: date, Slot: attendance.SlotDinner,
		}, "user-1")
		require.NoError(t, err, "date %s", date)
		assert.Equal(t, attendance.StatusSkipped, rec.Status)
	}
}

func TestSetOptOutBeforeCutoff(t *testing.T) {
	now := time.Date(2025, 2, 5, 9, 59, 0, 0, time.UTC)
	svc := newTestService(newFakeStore(), now)

	rec, err := svc.SetOptOut(context.Background(), &attendance.OptOutRequest{
		CustomerID: "cust-1", Date: "2025-02-05", Slot: attendance.SlotLunch,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Customer opted out", rec.Note.String)
}

func TestSetOptOutKeepsReason(t *testing.T) {
	svc := newTestService(newFakeStore(), time.Date(2025, 2, 5, 8, 0, 0, 0, time.UTC))

	rec, err := svc.SetOptOut(context.Background(), &attendance.OptOutRequest{
		CustomerID: "cust-1", Date: "2025-02-05", Slot: attendance.SlotLunch, Reason: "doctor visit",
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "doctor visit", rec.Note.String)
}

func TestOptOutsFiltersSkippedOnly(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC))

	_, err := svc.Record(context.Background(), &attendance.RecordAttendanceRequest{
		CustomerID: "cust-1", Date: "2025-02-05", Slot: attendance.SlotLunch, Status: attendance.StatusPresent,
	}, "")
	require.NoError(t, err)
	_, err = svc.SetOptOut(context.Background(), &attendance.OptOutRequest{
		CustomerID: "cust-2", Date: "2025-02-05", Slot: attendance.SlotLunch,
	}, "")
	require.NoError(t, err)

	optOuts, err := svc.OptOuts(context.Background(), "2025-02-05", "")
	require.NoError(t, err)
	require.Len(t, optOuts, 1)
	assert.Equal(t, "cust-2", optOuts[0].CustomerID)
}

func TestLatestForCustomerLimit(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC))

	for day := 1; day <= 12; day++ {
		_, err := svc.Record(context.Background(), &attendance.RecordAttendanceRequest{
			CustomerID: "cust-1",
			Date:       time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Slot:       attendance.SlotLunch,
			Status:     attendance.StatusPresent,
		}, "")
		require.NoError(t, err)
	}

	latest, err := svc.LatestForCustomer(context.Background(), "cust-1")
	require.NoError(t, err)
	require.Len(t, latest, 10)
	assert.Equal(t, time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), latest[0].Date)
}
