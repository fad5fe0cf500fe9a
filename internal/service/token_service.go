package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"comic-auth/internal/model"
)

// TokenStore owns the token→principal associations. Nothing outside the token
// service may touch it.
type TokenStore interface {
	Save(ctx context.Context, token string, user model.User) error
	Resolve(ctx context.Context, token string) (model.User, bool, error)
	Delete(ctx context.Context, token string) error
}

// TokenService issues and resolves opaque bearer tokens. Resolution renews the
// session (sliding expiry); absence and expiry are plain nil results, never
// errors.
type TokenService struct {
	store TokenStore
}

func NewTokenService(store TokenStore) *TokenService {
	return &TokenService{store: store}
}

// Issue binds a fresh random token to the user. Tokens carry 256 bits of
// entropy, so collisions with live sessions are not a practical concern.
func (s *TokenService) Issue(ctx context.Context, user model.User) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	if err := s.store.Save(ctx, token, user); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Resolve returns the principal behind a token, or nil for blank, unknown and
// expired tokens. A successful resolve extends the session window.
func (s *TokenService) Resolve(ctx context.Context, token string) *model.User {
	if strings.TrimSpace(token) == "" {
		return nil
	}

	user, ok, err := s.store.Resolve(ctx, token)
	if err != nil {
		// A store outage is indistinguishable from a miss for the caller;
		// the detail stays in the server log.
		slog.Error("token resolve failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return &user
}

// Invalidate ends the session. Unknown and blank tokens are a no-op.
func (s *TokenService) Invalidate(ctx context.Context, token string) {
	if strings.TrimSpace(token) == "" {
		return
	}
	if err := s.store.Delete(ctx, token); err != nil {
		slog.Error("token invalidate failed", "error", err)
	}
}
