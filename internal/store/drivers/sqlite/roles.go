package sqlite

import (
	"context"
	"time"

	"github.com/openvenue/eventd/internal/domain"
)

type rolesRepo struct {
	db dbtx
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM roles WHERE name = ?`, name)

	var role domain.Role
	if err := row.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

func (r *rolesRepo) CreateRole(ctx context.Context, role domain.Role) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO roles (id, name, created_at) VALUES (?, ?, ?)`,
		role.ID, role.Name, time.Now().UTC())
	return mapConstraint(err)
}
