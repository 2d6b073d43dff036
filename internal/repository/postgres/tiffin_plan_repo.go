package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dabbatrack-service/internal/domain/plan"
	xerrors "dabbatrack-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

const planColumns = `id, customer_id, start_date, billing_cycle, monthly_rate, status, last_payment_status, last_payment_at`

type TiffinPlanRepository struct {
	db *pgxpool.Pool
}

func NewTiffinPlanRepository(db *pgxpool.Pool) *TiffinPlanRepository {
	return &TiffinPlanRepository{db: db}
}

// Upsert inserts or replaces the single active plan for a customer. The
// conflict clause deliberately leaves last_payment_status/last_payment_at
// untouched: changing a rate must not clear payment history.
func (r *TiffinPlanRepository) Upsert(ctx context.Context, p *plan.TiffinPlan) (*plan.TiffinPlan, error) {
	if p.ID == "" {
		p.ID = ulid.Make().String()
	}

	query := fmt.Sprintf(`
		INSERT INTO tiffin_plans (id, customer_id, start_date, billing_cycle, monthly_rate, status)
		VALUES ($1, $2, $3, $4, $5, 'ACTIVE')
		ON CONFLICT (customer_id)
		DO UPDATE SET billing_cycle = EXCLUDED.billing_cycle,
		              monthly_rate = EXCLUDED.monthly_rate,
		              start_date = EXCLUDED.start_date,
		              status = 'ACTIVE'
		RETURNING %s
	`, planColumns)

	var out plan.TiffinPlan
	err := r.db.QueryRow(
		ctx, query,
		p.ID, p.CustomerID, p.StartDate, p.BillingCycle, p.MonthlyRate,
	).Scan(
		&out.ID, &out.CustomerID, &out.StartDate, &out.BillingCycle,
		&out.MonthlyRate, &out.Status, &out.LastPaymentStatus, &out.LastPaymentAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert plan: %w", err)
	}

	return &out, nil
}

// MarkPayment records a manual payment against the customer's active plan.
// Fails with ErrNotFound when no active plan exists.
func (r *TiffinPlanRepository) MarkPayment(ctx context.Context, customerID, status string, paidAt sql.NullTime) (*plan.TiffinPlan, error) {
	query := fmt.Sprintf(`
		UPDATE tiffin_plans
		SET last_payment_status = $2, last_payment_at = COALESCE($3, NOW())
		WHERE customer_id = $1 AND status = 'ACTIVE'
		RETURNING %s
	`, planColumns)

	var out plan.TiffinPlan
	err := r.db.QueryRow(ctx, query, customerID, status, paidAt).Scan(
		&out.ID, &out.CustomerID, &out.StartDate, &out.BillingCycle,
		&out.MonthlyRate, &out.Status, &out.LastPaymentStatus, &out.LastPaymentAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark payment: %w", err)
	}

	return &out, nil
}

// ListActive returns all plans with status ACTIVE.
func (r *TiffinPlanRepository) ListActive(ctx context.Context) ([]plan.TiffinPlan, error) {
	query := fmt.Sprintf(`SELECT %s FROM tiffin_plans WHERE status = 'ACTIVE'`, planColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}
	defer rows.Close()

	plans := []plan.TiffinPlan{}
	for rows.Next() {
		var p plan.TiffinPlan
		if err := rows.Scan(
			&p.ID, &p.CustomerID, &p.StartDate, &p.BillingCycle,
			&p.MonthlyRate, &p.Status, &p.LastPaymentStatus, &p.LastPaymentAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}

	return plans, nil
}

// GetForCustomer fetches the customer's active plan, ErrNotFound when none.
func (r *TiffinPlanRepository) GetForCustomer(ctx context.Context, customerID string) (*plan.TiffinPlan, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tiffin_plans
		WHERE customer_id = $1 AND status = 'ACTIVE'
	`, planColumns)

	var p plan.TiffinPlan
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&p.ID, &p.CustomerID, &p.StartDate, &p.BillingCycle,
		&p.MonthlyRate, &p.Status, &p.LastPaymentStatus, &p.LastPaymentAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}

	return &p, nil
}

// CountActive returns the number of ACTIVE plans.
func (r *TiffinPlanRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tiffin_plans WHERE status = 'ACTIVE'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active plans: %w", err)
	}
	return count, nil
}

// CountUnpaid counts plans whose last payment is missing or not PAID.
func (r *TiffinPlanRepository) CountUnpaid(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM tiffin_plans
		WHERE last_payment_status IS NULL OR last_payment_status != 'PAID'
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unpaid plans: %w", err)
	}
	return count, nil
}
