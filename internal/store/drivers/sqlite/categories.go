package sqlite

import (
	"context"
	"time"

	"github.com/openvenue/eventd/internal/domain"
)

type categoriesRepo struct {
	db dbtx
}

const categoryColumns = `id, name, description, user_id, created_at, updated_at`

func (r *categoriesRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *categoriesRepo) GetCategoryByID(ctx context.Context, id string) (domain.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)

	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Category{}, mapNotFound(err)
	}
	return c, nil
}

func (r *categoriesRepo) CreateCategory(ctx context.Context, c domain.Category) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.UserID, now, now)
	return mapConstraint(err)
}

func (r *categoriesRepo) UpdateCategoryDescription(ctx context.Context, id, description string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET description = ?, updated_at = ? WHERE id = ?`,
		description, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *categoriesRepo) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
