package customer

import (
	"context"
	"testing"

	"dabbatrack-service/internal/domain/customer"
	"dabbatrack-service/internal/domain/user"
	xerrors "dabbatrack-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	customers map[string]customer.Customer
	nextID    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{customers: map[string]customer.Customer{}}
}

func (f *fakeStore) Create(_ context.Context, c *customer.Customer) error {
	if c.ID == "" {
		f.nextID++
		c.ID = "cust-" + string(rune('0'+f.nextID))
	}
	f.customers[c.ID] = *c
	return nil
}

func (f *fakeStore) List(_ context.Context, status *customer.Status, vendorScope *string) ([]customer.Customer, error) {
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

func (f *fakeStore) Get(_ context.Context, id string, vendorScope *string) (*customer.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	if vendorScope != nil && c.VendorUserID.String != *vendorScope {
		return nil, xerrors.ErrNotFound
	}
	return &c, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id string, status customer.Status) error {
	c, ok := f.customers[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	c.Status = status
	f.customers[id] = c
	return nil
}

var (
	adminPrincipal    = &user.Principal{ID: "admin-1", Role: user.RoleAdmin}
	dispatchPrincipal = &user.Principal{ID: "vendor-1", Role: user.RoleDispatch}
	customerPrincipal = &user.Principal{ID: "viewer-1", Role: user.RoleCustomer}
)

func TestCreateAssignsCallerAsVendor(t *testing.T) {
	store := newFakeStore()
	svc := NewCustomerService(store, zap.NewNop())

	c, err := svc.Create(context.Background(), &customer.CreateCustomerRequest{
		Name:  "Asha Patil",
		Phone: "9876543210",
		// Ignored for non-admin callers.
		VendorUserID: "vendor-9",
	}, dispatchPrincipal)
	require.NoError(t, err)
	assert.Equal(t, "vendor-1", c.VendorUserID.String)
	assert.Equal(t, customer.StatusActive, c.Status)
}

func TestCreateAdminMustNameVendor(t *testing.T) {
	svc := NewCustomerService(newFakeStore(), zap.NewNop())

	_, err := svc.Create(context.Background(), &customer.CreateCustomerRequest{
		Name: "Asha Patil", Phone: "9876543210",
	}, adminPrincipal)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	c, err := svc.Create(context.Background(), &customer.CreateCustomerRequest{
		Name: "Asha Patil", Phone: "9876543210", VendorUserID: "vendor-2",
	}, adminPrincipal)
	require.NoError(t, err)
	assert.Equal(t, "vendor-2", c.VendorUserID.String)
}

func TestCreateRejectsCustomerRole(t *testing.T) {
	svc := NewCustomerService(newFakeStore(), zap.NewNop())

	_, err := svc.Create(context.Background(), &customer.CreateCustomerRequest{
		Name: "Asha Patil", Phone: "9876543210",
	}, customerPrincipal)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
}

func TestCreateValidatesPhone(t *testing.T) {
	svc := NewCustomerService(newFakeStore(), zap.NewNop())

	_, err := svc.Create(context.Background(), &customer.CreateCustomerRequest{
		Name: "Asha Patil", Phone: "12345",
	}, dispatchPrincipal)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestListScopesByVendor(t *testing.T) {
	store := newFakeStore()
	svc := NewCustomerService(store, zap.NewNop())

	_, err := svc.Create(context.Background(), &customer.CreateCustomerRequest{
		Name: "Asha Patil", Phone: "9876543210",
	}, dispatchPrincipal)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &customer.CreateCustomerRequest{
		Name: "Ravi Kumar", Phone: "9876543211", VendorUserID: "vendor-2",
	}, adminPrincipal)
	require.NoError(t, err)

	all, err := svc.List(context.Background(), customer.ListFilters{}, adminPrincipal)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := svc.List(context.Background(), customer.ListFilters{}, dispatchPrincipal)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Asha Patil", scoped[0].Name)
}

func TestGetOutOfScopeReadsAsNotFound(t *testing.T) {
	store := newFakeStore()
	svc := NewCustomerService(store, zap.NewNop())

	c, err := svc.Create(context.Background(), &customer.CreateCustomerRequest{
		Name: "Ravi Kumar", Phone: "9876543211", VendorUserID: "vendor-2",
	}, adminPrincipal)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), c.ID, dispatchPrincipal)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	got, err := svc.Get(context.Background(), c.ID, adminPrincipal)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestSetStatus(t *testing.T) {
	store := newFakeStore()
	svc := NewCustomerService(store, zap.NewNop())

	c, err := svc.Create(context.Background(), &customer.CreateCustomerRequest{
		Name: "Asha Patil", Phone: "9876543210",
	}, dispatchPrincipal)
	require.NoError(t, err)

	err = svc.SetStatus(context.Background(), c.ID, "SUSPENDED", dispatchPrincipal)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	require.NoError(t, svc.SetStatus(context.Background(), c.ID, customer.StatusPaused, dispatchPrincipal))
	got, err := svc.Get(context.Background(), c.ID, dispatchPrincipal)
	require.NoError(t, err)
	assert.Equal(t, customer.StatusPaused, got.Status)
}
