package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dabbatrack-service/internal/domain/user"
	xerrors "dabbatrack-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

const userColumns = `id, name, email, phone, role, password_hash, description, serves_lunch, serves_dinner, created_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user with an app-generated ID.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.ID == "" {
		u.ID = ulid.Make().String()
	}

	query := `
		INSERT INTO users (id, name, email, phone, role, password_hash, description, serves_lunch, serves_dinner)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		u.ID, u.Name, u.Email, u.Phone, u.Role, u.PasswordHash,
		u.Description, u.HandlesLunch, u.HandlesDinner,
	).Scan(&u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindByEmail retrieves a user by email for password login.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

// FindByPhone retrieves a user by phone for OTP login.
func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*user.User, error) {
	return r.findOne(ctx, "phone = $1", phone)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s`, userColumns, where)

	var u user.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.PasswordHash,
		&u.Description, &u.HandlesLunch, &u.HandlesDinner, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &u, nil
}

// Update applies the provided column values to a user. The map keys are
// column names already validated by the service layer.
func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]any) (*user.User, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields provided for update", xerrors.ErrInvalidInput)
	}

	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	pos := 1
	for column, value := range fields {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, pos))
		args = append(args, value)
		pos++
	}
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), pos, userColumns)

	var u user.User
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.PasswordHash,
		&u.Description, &u.HandlesLunch, &u.HandlesDinner, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &u, nil
}
