package postgres

import (
	"context"
	"errors"
	"fmt"

	"dabbatrack-service/internal/domain/customer"
	xerrors "dabbatrack-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

const customerColumns = `id, name, email, phone, address, dietary_notes, status, vendor_user_id, created_at`

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a new customer tied to a vendor user.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	if c.ID == "" {
		c.ID = ulid.Make().String()
	}
	if c.Status == "" {
		c.Status = customer.StatusActive
	}

	query := `
		INSERT INTO customers (id, name, email, phone, address, dietary_notes, status, vendor_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.DietaryNotes, c.Status, c.VendorUserID,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// List retrieves customers optionally filtered by status and vendor scope.
// A nil vendorScope means unrestricted (admin caller).
func (r *CustomerRepository) List(ctx context.Context, status *customer.Status, vendorScope *string) ([]customer.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR vendor_user_id = $2)
		ORDER BY created_at DESC
	`, customerColumns)

	rows, err := r.db.Query(ctx, query, status, vendorScope)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []customer.Customer{}
	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address,
			&c.DietaryNotes, &c.Status, &c.VendorUserID, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}

	return customers, nil
}

// Get retrieves a single customer with optional vendor scoping. Out-of-scope
// rows are indistinguishable from absent ones.
func (r *CustomerRepository) Get(ctx context.Context, id string, vendorScope *string) (*customer.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		WHERE id = $1
		  AND ($2::text IS NULL OR vendor_user_id = $2)
	`, customerColumns)

	var c customer.Customer
	err := r.db.QueryRow(ctx, query, id, vendorScope).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address,
		&c.DietaryNotes, &c.Status, &c.VendorUserID, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	return &c, nil
}

// UpdateStatus flips a customer between ACTIVE and PAUSED.
func (r *CustomerRepository) UpdateStatus(ctx context.Context, id string, status customer.Status) error {
	result, err := r.db.Exec(ctx, `UPDATE customers SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update customer status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// CountActive returns the number of ACTIVE customers.
func (r *CustomerRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE status = 'ACTIVE'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}
