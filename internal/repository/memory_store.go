package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"comic-auth/internal/model"
)

// MemoryUserStore is an in-memory user store with the same contract as
// UserRepository. It backs unit and integration tests that should not need a
// running database.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]model.User

	// FailWith, when set, is returned by every call. Lets tests exercise the
	// backend-failure paths.
	FailWith error
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: map[string]model.User{}}
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailWith != nil {
		return model.User{}, s.FailWith
	}

	user, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailWith != nil {
		return model.User{}, s.FailWith
	}

	for _, user := range s.users {
		if strings.EqualFold(user.Username, strings.TrimSpace(username)) {
			return user, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailWith != nil {
		return model.User{}, s.FailWith
	}

	for _, user := range s.users {
		if strings.EqualFold(user.Email, strings.TrimSpace(email)) {
			return user, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *MemoryUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	if err == model.ErrUserNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if err == model.ErrUserNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryUserStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}

	s.users[u.ID] = u
	return nil
}

func (s *MemoryUserStore) UpdateProfile(_ context.Context, id string, update model.ProfileUpdate) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return model.User{}, s.FailWith
	}

	user, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	if update.DisplayName != nil {
		user.DisplayName = *update.DisplayName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}
	user.UpdatedAt = time.Now().UTC()
	s.users[id] = user
	return user, nil
}

func (s *MemoryUserStore) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}

	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now().UTC()
	s.users[id] = user
	return nil
}

func (s *MemoryUserStore) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}

	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	user.LastLoginAt = &at
	user.UpdatedAt = at
	s.users[id] = user
	return nil
}

func (s *MemoryUserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}

	users := make([]model.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	return users, nil
}

func (s *MemoryUserStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailWith != nil {
		return 0, s.FailWith
	}
	return len(s.users), nil
}

// MemoryRoleStore serves the fixed role catalog from memory.
type MemoryRoleStore struct {
	roles []model.Role
}

// NewMemoryRoleStore starts out pre-seeded with the default catalog.
func NewMemoryRoleStore() *MemoryRoleStore {
	return &MemoryRoleStore{roles: SeedRoles()}
}

func (s *MemoryRoleStore) FindByID(_ context.Context, id string) (model.Role, error) {
	for _, role := range s.roles {
		if role.ID == id {
			return role, nil
		}
	}
	return model.Role{}, model.ErrRoleNotFound
}

func (s *MemoryRoleStore) FindByName(_ context.Context, name string) (model.Role, error) {
	for _, role := range s.roles {
		if strings.EqualFold(role.Name, strings.TrimSpace(name)) {
			return role, nil
		}
	}
	return model.Role{}, model.ErrRoleNotFound
}

func (s *MemoryRoleStore) List(_ context.Context) ([]model.Role, error) {
	out := make([]model.Role, len(s.roles))
	copy(out, s.roles)
	return out, nil
}
