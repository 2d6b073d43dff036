package customer

import (
	"context"
	"database/sql"
	"fmt"

	"dabbatrack-service/internal/domain/customer"
	"dabbatrack-service/internal/domain/user"
	xerrors "dabbatrack-service/internal/pkg/errors"
	"dabbatrack-service/internal/pkg/validators"

	"go.uber.org/zap"
)

type Store interface {
	Create(ctx context.Context, c *customer.Customer) error
	List(ctx context.Context, status *customer.Status, vendorScope *string) ([]customer.Customer, error)
	Get(ctx context.Context, id string, vendorScope *string) (*customer.Customer, error)
	UpdateStatus(ctx context.Context, id string, status customer.Status) error
}

type CustomerService struct {
	store  Store
	logger *zap.Logger
}

func NewCustomerService(store Store, logger *zap.Logger) *CustomerService {
	return &CustomerService{store: store, logger: logger}
}

// Create registers a customer under a vendor user. Non-admin callers always
// own the record themselves; admins may assign it to another vendor but must
// name one.
func (s *CustomerService) Create(ctx context.Context, req *customer.CreateCustomerRequest, principal *user.Principal) (*customer.Customer, error) {
	if principal == nil {
		return nil, xerrors.ErrUnauthorized
	}
	if principal.Role == user.RoleCustomer {
		return nil, fmt.Errorf("%w: customers cannot create customer records", xerrors.ErrForbidden)
	}

	phone, err := validators.NormalizeIndianMobile(req.Phone, "phone")
	if err != nil {
		return nil, err
	}

	vendorID := principal.ID
	if principal.IsAdmin() {
		if req.VendorUserID == "" {
			return nil, fmt.Errorf("%w: vendor_user_id is required for admin-created customers", xerrors.ErrInvalidInput)
		}
		vendorID = req.VendorUserID
	}

	c := &customer.Customer{
		Name:         req.Name,
		Email:        nullString(req.Email),
		Phone:        phone,
		Address:      nullString(req.Address),
		DietaryNotes: nullString(req.DietaryNotes),
		Status:       customer.StatusActive,
		VendorUserID: sql.NullString{String: vendorID, Valid: true},
	}

	if err := s.store.Create(ctx, c); err != nil {
		s.logger.Error("failed to create customer", zap.Error(err))
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("customer_id", c.ID),
		zap.String("vendor_user_id", vendorID),
	)

	return c, nil
}

// List returns the customers visible to the caller, optionally narrowed by
// status.
func (s *CustomerService) List(ctx context.Context, filters customer.ListFilters, principal *user.Principal) ([]customer.Customer, error) {
	if filters.Status != nil {
		switch *filters.Status {
		case customer.StatusActive, customer.StatusPaused:
		default:
			return nil, fmt.Errorf("%w: invalid status: %s", xerrors.ErrInvalidInput, *filters.Status)
		}
	}
	return s.store.List(ctx, filters.Status, principal.VendorScope())
}

// Get fetches one customer inside the caller's scope.
func (s *CustomerService) Get(ctx context.Context, id string, principal *user.Principal) (*customer.Customer, error) {
	return s.store.Get(ctx, id, principal.VendorScope())
}

// SetStatus flips a customer between ACTIVE and PAUSED after a scoped
// visibility check.
func (s *CustomerService) SetStatus(ctx context.Context, id string, status customer.Status, principal *user.Principal) error {
	switch status {
	case customer.StatusActive, customer.StatusPaused:
	default:
		return fmt.Errorf("%w: invalid status: %s", xerrors.ErrInvalidInput, status)
	}

	if _, err := s.store.Get(ctx, id, principal.VendorScope()); err != nil {
		return err
	}
	return s.store.UpdateStatus(ctx, id, status)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
