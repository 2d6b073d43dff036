package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dabbatrack-service/internal/domain/user"
	xerrors "dabbatrack-service/internal/pkg/errors"
	"dabbatrack-service/internal/pkg/jwt"
	"dabbatrack-service/internal/pkg/session"
	"dabbatrack-service/internal/pkg/validators"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByPhone(ctx context.Context, phone string) (*user.User, error)
	Update(ctx context.Context, id string, fields map[string]any) (*user.User, error)
}

type Sessions interface {
	Create(ctx context.Context, data *session.Data) error
	Get(ctx context.Context, userID, jti string) (*session.Data, error)
	Revoke(ctx context.Context, userID, jti string) error
	RevokeAll(ctx context.Context, userID string) error
}

type LoginLimiter interface {
	AllowLogin(ctx context.Context, phone string) error
	ResetLogin(ctx context.Context, phone string)
}

// OTPConfig carries the static per-role OTP codes. Real OTP delivery is a
// separate concern; the codes gate which login path a phone number may use.
type OTPConfig struct {
	CustomerOTP string
	VendorOTP   string
}

type AuthService struct {
	users     UserStore
	sessions  Sessions
	limiter   LoginLimiter
	generator *jwt.Generator
	verifier  *jwt.Verifier
	otp       OTPConfig
	logger    *zap.Logger
}

func NewAuthService(users UserStore, sessions Sessions, limiter LoginLimiter, generator *jwt.Generator, verifier *jwt.Verifier, otp OTPConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		limiter:   limiter,
		generator: generator,
		verifier:  verifier,
		otp:       otp,
		logger:    logger,
	}
}

// Login authenticates a phone + OTP pair. Attempts are rate limited per phone
// before the user lookup so unknown numbers burn attempts too.
func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest) (*user.LoginResponse, error) {
	phone, err := validators.NormalizeIndianMobile(req.Phone, "phone")
	if err != nil {
		return nil, err
	}

	if err := s.limiter.AllowLogin(ctx, phone); err != nil {
		return nil, err
	}

	u, err := s.users.FindByPhone(ctx, phone)
	if xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: no account for this phone", xerrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	expected := s.otp.VendorOTP
	if u.Role == user.RoleCustomer {
		expected = s.otp.CustomerOTP
	}
	if req.OTP != expected {
		s.logger.Warn("login rejected: bad OTP", zap.String("phone", phone))
		return nil, fmt.Errorf("%w: invalid phone or OTP", xerrors.ErrUnauthorized)
	}

	s.limiter.ResetLogin(ctx, phone)
	return s.issueToken(ctx, u)
}

// LoginWithPassword authenticates an email + password pair for back-office
// users.
func (s *AuthService) LoginWithPassword(ctx context.Context, req *user.PasswordLoginRequest) (*user.LoginResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: no account for this email", xerrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login rejected: bad password", zap.String("email", req.Email))
		return nil, fmt.Errorf("%w: invalid credentials", xerrors.ErrUnauthorized)
	}

	return s.issueToken(ctx, u)
}

func (s *AuthService) issueToken(ctx context.Context, u *user.User) (*user.LoginResponse, error) {
	token, jti, err := s.generator.Generate(u.ID, string(u.Role), u.Name, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	now := time.Now()
	if err := s.sessions.Create(ctx, &session.Data{
		JTI:       jti,
		UserID:    u.ID,
		Role:      string(u.Role),
		Name:      u.Name,
		LoginAt:   now,
		ExpiresAt: now.Add(s.generator.TTL()),
	}); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", u.ID),
		zap.String("role", string(u.Role)),
	)

	return &user.LoginResponse{
		Token:   token,
		User:    u,
		Message: "Login successful",
	}, nil
}

// ValidateToken verifies the JWT, checks the session is still live in Redis
// and rehydrates the principal from storage. The returned jti lets callers
// revoke exactly this session later.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*user.Principal, string, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", xerrors.ErrUnauthorized, err)
	}

	if _, err := s.sessions.Get(ctx, claims.Subject, claims.ID); err != nil {
		return nil, "", xerrors.ErrSessionExpired
	}

	u, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, "", fmt.Errorf("%w: user no longer exists", xerrors.ErrUnauthorized)
	}

	return &user.Principal{
		ID:    u.ID,
		Role:  u.Role,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
	}, claims.ID, nil
}

// Logout revokes the single session behind the presented token.
func (s *AuthService) Logout(ctx context.Context, userID, jti string) error {
	return s.sessions.Revoke(ctx, userID, jti)
}

// LogoutAll revokes every live session of the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.sessions.RevokeAll(ctx, userID)
}

// CreateUser registers a vendor or admin account. Admin only.
func (s *AuthService) CreateUser(ctx context.Context, req *user.CreateUserRequest, principal *user.Principal) (*user.User, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can create users", xerrors.ErrForbidden)
	}

	phone, err := validators.NormalizeIndianMobile(req.Phone, "phone")
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = user.RoleDispatch
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role: %s", xerrors.ErrInvalidInput, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         phone,
		Role:          role,
		PasswordHash:  string(hash),
		Description:   sql.NullString{String: req.Description, Valid: req.Description != ""},
		HandlesLunch:  req.HandlesLunch,
		HandlesDinner: req.HandlesDinner,
	}

	if err := s.users.Create(ctx, u); err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID),
		zap.String("role", string(u.Role)),
	)

	return u, nil
}

// UpdateUser patches the provided fields on a user. Admin only.
func (s *AuthService) UpdateUser(ctx context.Context, id string, req *user.UpdateUserRequest, principal *user.Principal) (*user.User, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can update users", xerrors.ErrForbidden)
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		phone, err := validators.NormalizeIndianMobile(*req.Phone, "phone")
		if err != nil {
			return nil, err
		}
		fields["phone"] = phone
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, fmt.Errorf("%w: invalid role: %s", xerrors.ErrInvalidInput, *req.Role)
		}
		fields["role"] = *req.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		fields["password_hash"] = string(hash)
	}
	if req.Description != nil {
		fields["description"] = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.HandlesLunch != nil {
		fields["serves_lunch"] = *req.HandlesLunch
	}
	if req.HandlesDinner != nil {
		fields["serves_dinner"] = *req.HandlesDinner
	}

	u, err := s.users.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", zap.String("user_id", u.ID))
	return u, nil
}
