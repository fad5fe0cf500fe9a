package model

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleEditor    = "editor"
	RoleUser      = "user"

	// DefaultRoleID is assigned at registration and used as the fallback
	// whenever a principal references a role that no longer resolves.
	DefaultRoleID = "role-user"
)

type Role struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
}

// Permission is a resource+action pair granted through a role.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
}

// Allows reports whether the role grants the given resource/action pair.
func (r Role) Allows(resource string, action string) bool {
	for _, p := range r.Permissions {
		if p.Resource == resource && p.Action == action {
			return true
		}
	}
	return false
}
