package repository

import "comic-auth/internal/model"

// The role/permission catalog is fixed. It is inserted once when the store is
// empty and read-only afterwards.

func SeedPermissions() []model.Permission {
	return []model.Permission{
		{ID: "perm.manga.create", Name: "Create Manga", Resource: "manga", Action: "create", Description: "Can create manga"},
		{ID: "perm.manga.read", Name: "Read Manga", Resource: "manga", Action: "read", Description: "Can read manga"},
		{ID: "perm.manga.update", Name: "Update Manga", Resource: "manga", Action: "update", Description: "Can update manga"},
		{ID: "perm.manga.delete", Name: "Delete Manga", Resource: "manga", Action: "delete", Description: "Can delete manga"},
		{ID: "perm.user.create", Name: "Create User", Resource: "user", Action: "create", Description: "Can create users"},
		{ID: "perm.user.read", Name: "Read User", Resource: "user", Action: "read", Description: "Can read users"},
		{ID: "perm.user.update", Name: "Update User", Resource: "user", Action: "update", Description: "Can update users"},
		{ID: "perm.user.delete", Name: "Delete User", Resource: "user", Action: "delete", Description: "Can delete users"},
		{ID: "perm.dashboard.read", Name: "Dashboard Access", Resource: "dashboard", Action: "read", Description: "Can access dashboard"},
	}
}

func SeedRoles() []model.Role {
	perms := map[string]model.Permission{}
	for _, p := range SeedPermissions() {
		perms[p.ID] = p
	}

	pick := func(ids ...string) []model.Permission {
		out := make([]model.Permission, 0, len(ids))
		for _, id := range ids {
			out = append(out, perms[id])
		}
		return out
	}

	return []model.Role{
		{
			ID:          "role-admin",
			Name:        model.RoleAdmin,
			Description: "System Administrator",
			Permissions: pick(
				"perm.manga.create", "perm.manga.read", "perm.manga.update", "perm.manga.delete",
				"perm.user.create", "perm.user.read", "perm.user.update", "perm.user.delete",
				"perm.dashboard.read",
			),
		},
		{
			ID:          "role-moderator",
			Name:        model.RoleModerator,
			Description: "Content Moderator",
			Permissions: pick("perm.manga.read", "perm.manga.update", "perm.dashboard.read"),
		},
		{
			ID:          "role-editor",
			Name:        model.RoleEditor,
			Description: "Content Editor",
			Permissions: pick("perm.manga.create", "perm.manga.read", "perm.manga.update", "perm.dashboard.read"),
		},
		{
			ID:          model.DefaultRoleID,
			Name:        model.RoleUser,
			Description: "Regular User",
			Permissions: pick("perm.manga.read"),
		},
	}
}
