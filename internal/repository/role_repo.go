package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"comic-auth/internal/model"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (model.Role, error) {
	var role model.Role
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Role{}, model.ErrRoleNotFound
	}
	if err != nil {
		return model.Role{}, fmt.Errorf("find role by id: %w", err)
	}

	if role.Permissions, err = r.permissionsFor(ctx, role.ID); err != nil {
		return model.Role{}, err
	}
	return role, nil
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (model.Role, error) {
	var role model.Role
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description FROM roles WHERE lower(name) = lower($1)`,
		strings.TrimSpace(name)).
		Scan(&role.ID, &role.Name, &role.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Role{}, model.ErrRoleNotFound
	}
	if err != nil {
		return model.Role{}, fmt.Errorf("find role by name: %w", err)
	}

	if role.Permissions, err = r.permissionsFor(ctx, role.ID); err != nil {
		return model.Role{}, err
	}
	return role, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := make([]model.Role, 0)
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range roles {
		if roles[i].Permissions, err = r.permissionsFor(ctx, roles[i].ID); err != nil {
			return nil, err
		}
	}
	return roles, nil
}

func (r *RoleRepository) permissionsFor(ctx context.Context, roleID string) ([]model.Permission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.name, p.resource, p.action, p.description
		 FROM permissions p
		 JOIN role_permissions rp ON rp.permission_id = p.id
		 WHERE rp.role_id = $1
		 ORDER BY p.id`, roleID)
	if err != nil {
		return nil, fmt.Errorf("load role permissions: %w", err)
	}
	defer rows.Close()

	perms := make([]model.Permission, 0)
	for rows.Next() {
		var p model.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Resource, &p.Action, &p.Description); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// Seed inserts the fixed role/permission catalog on first run. It is a no-op
// when the roles table already has rows.
func (r *RoleRepository) Seed(ctx context.Context) error {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles`).Scan(&count); err != nil {
		return fmt.Errorf("count roles: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin role seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, p := range SeedPermissions() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO permissions (id, name, resource, action, description)
			 VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.Name, p.Resource, p.Action, p.Description); err != nil {
			return fmt.Errorf("seed permission %s: %w", p.ID, err)
		}
	}

	for _, role := range SeedRoles() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO roles (id, name, description) VALUES ($1, $2, $3)`,
			role.ID, role.Name, role.Description); err != nil {
			return fmt.Errorf("seed role %s: %w", role.ID, err)
		}
		for _, p := range role.Permissions {
			if _, err := tx.Exec(ctx,
				`INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)`,
				role.ID, p.ID); err != nil {
				return fmt.Errorf("seed role permission %s/%s: %w", role.ID, p.ID, err)
			}
		}
	}

	return tx.Commit(ctx)
}
