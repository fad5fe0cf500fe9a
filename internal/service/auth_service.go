package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"comic-auth/internal/model"
	"comic-auth/internal/util"
	"comic-auth/pkg/apierror"
)

// UserStore is the persistence surface the auth layer needs from the user
// backend. It is the single source of truth for credentials and role
// references.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) (model.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int, error)
}

// RoleStore serves the fixed role catalog.
type RoleStore interface {
	FindByID(ctx context.Context, id string) (model.Role, error)
	FindByName(ctx context.Context, name string) (model.Role, error)
	List(ctx context.Context) ([]model.Role, error)
}

type AuthService struct {
	users  UserStore
	roles  RoleStore
	tokens *TokenService
}

func NewAuthService(users UserStore, roles RoleStore, tokens *TokenService) *AuthService {
	return &AuthService{users: users, roles: roles, tokens: tokens}
}

// Authenticate verifies an identifier/password pair. The identifier is tried
// as a username first, then as an email. All credential failures (unknown
// identifier, empty stored credential, wrong password) return nil, nil so the
// caller cannot tell which check failed; only store-level failures surface as
// errors.
func (s *AuthService) Authenticate(ctx context.Context, identifier string, password string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, nil
	}

	user, err := s.users.FindByUsername(ctx, identifier)
	if errors.Is(err, model.ErrUserNotFound) {
		user, err = s.users.FindByEmail(ctx, identifier)
	}
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up principal: %w", err)
	}

	if user.PasswordHash == "" || !util.VerifyPassword(password, user.PasswordHash) {
		return nil, nil
	}

	now := time.Now().UTC().Truncate(time.Second)
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Token issuance and the last-login write are independent steps;
		// losing this write is non-fatal.
		slog.Warn("update last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
		user.UpdatedAt = now
	}

	return &user, nil
}

// Register creates a principal with the default role and an active status.
func (s *AuthService) Register(ctx context.Context, username string, email string, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, apierror.New("BAD_REQUEST", "username, email and password are required", "", http.StatusBadRequest)
	}

	if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if taken {
		return nil, apierror.New("ALREADY_EXISTS", "username already taken", username, http.StatusConflict)
	}

	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if taken {
		return nil, apierror.New("ALREADY_EXISTS", "email already taken", email, http.StatusConflict)
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		RoleID:       model.DefaultRoleID,
		Status:       model.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// ChangePassword verifies the current credential and replaces it with a fresh
// bcrypt hash. The legacy-plaintext fallback applies to the current credential
// check, so pre-hashing accounts can rotate onto bcrypt here.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, current string, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !util.VerifyPassword(current, user.PasswordHash) {
		return model.ErrInvalidCredentials
	}

	hash, err := util.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// EnsureAdmin creates a bootstrap administrator account when the user store
// is empty, so a fresh deployment can be logged into.
func (s *AuthService) EnsureAdmin(ctx context.Context, username string, email string, password string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		RoleID:       "role-admin",
		Status:       model.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	slog.Info("seeded default admin account", "username", username)
	return nil
}

// IssueToken delegates to the token service.
func (s *AuthService) IssueToken(ctx context.Context, user model.User) (string, error) {
	return s.tokens.Issue(ctx, user)
}

// ResolveToken delegates to the token service.
func (s *AuthService) ResolveToken(ctx context.Context, token string) *model.User {
	return s.tokens.Resolve(ctx, token)
}

// InvalidateToken delegates to the token service.
func (s *AuthService) InvalidateToken(ctx context.Context, token string) {
	s.tokens.Invalidate(ctx, token)
}

// ResolvePrincipal resolves a token and attaches the role name. A principal
// whose role id no longer resolves falls back to the default role rather than
// failing.
func (s *AuthService) ResolvePrincipal(ctx context.Context, token string) *model.Principal {
	user := s.tokens.Resolve(ctx, token)
	if user == nil {
		return nil
	}
	return &model.Principal{User: *user, Role: s.roleName(ctx, *user)}
}

// Principal wraps an already-loaded user with its resolved role name.
func (s *AuthService) Principal(ctx context.Context, user model.User) model.Principal {
	return model.Principal{User: user, Role: s.roleName(ctx, user)}
}

func (s *AuthService) roleName(ctx context.Context, user model.User) string {
	role, err := s.roles.FindByID(ctx, user.RoleID)
	if err != nil {
		if !errors.Is(err, model.ErrRoleNotFound) {
			slog.Warn("resolve role", "role_id", user.RoleID, "error", err)
		}
		return model.RoleUser
	}
	return role.Name
}

// RoleByID delegates to the role store.
func (s *AuthService) RoleByID(ctx context.Context, id string) (model.Role, error) {
	return s.roles.FindByID(ctx, id)
}

// RoleByName delegates to the role store.
func (s *AuthService) RoleByName(ctx context.Context, name string) (model.Role, error) {
	return s.roles.FindByName(ctx, name)
}

// Roles lists the catalog.
func (s *AuthService) Roles(ctx context.Context) ([]model.Role, error) {
	return s.roles.List(ctx)
}

// UserByID loads a principal by id.
func (s *AuthService) UserByID(ctx context.Context, id string) (model.User, error) {
	return s.users.FindByID(ctx, id)
}

// Users lists all principals.
func (s *AuthService) Users(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// UpdateProfile applies a partial profile update.
func (s *AuthService) UpdateProfile(ctx context.Context, id string, update model.ProfileUpdate) (model.User, error) {
	return s.users.UpdateProfile(ctx, id, update)
}
