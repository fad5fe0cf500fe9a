package model

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is the stored principal record. PasswordHash holds either a bcrypt
// credential or a legacy plaintext value for rows that predate hashing.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	RoleID       string     `json:"role_id"`
	DisplayName  string     `json:"display_name,omitempty"`
	Bio          string     `json:"bio,omitempty"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// PublicUser is the profile shape returned to clients. It never carries the
// stored credential.
type PublicUser struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	DisplayName string     `json:"display_name,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Principal is an authenticated user together with its resolved role name.
type Principal struct {
	User User
	Role string
}

// Public projects the principal onto the client-facing profile shape.
func (p Principal) Public() PublicUser {
	return PublicUser{
		ID:          p.User.ID,
		Username:    p.User.Username,
		Email:       p.User.Email,
		Role:        p.Role,
		DisplayName: p.User.DisplayName,
		Bio:         p.User.Bio,
		AvatarURL:   p.User.AvatarURL,
		Status:      p.User.Status,
		CreatedAt:   p.User.CreatedAt,
		LastLoginAt: p.User.LastLoginAt,
	}
}

// ProfileUpdate carries the mutable profile fields. Nil pointers are left
// untouched by the store.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
}
