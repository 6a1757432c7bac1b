package sqlite

import (
	"context"
	"time"

	"github.com/openvenue/eventd/internal/domain"
)

type eventsRepo struct {
	db dbtx
}

const eventColumns = `id, category_id, title, description, start_date, end_date, price, user_id, created_at, updated_at`

func (r *eventsRepo) ListEventsByCategory(ctx context.Context, categoryID string) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE category_id = ? ORDER BY id`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.CategoryID, &e.Title, &e.Description,
			&e.StartDate, &e.EndDate, &e.Price, &e.UserID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventsRepo) GetEventByID(ctx context.Context, id string) (domain.Event, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id)

	var e domain.Event
	err := row.Scan(&e.ID, &e.CategoryID, &e.Title, &e.Description,
		&e.StartDate, &e.EndDate, &e.Price, &e.UserID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.Event{}, mapNotFound(err)
	}
	return e, nil
}

func (r *eventsRepo) CreateEvent(ctx context.Context, e domain.Event) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (id, category_id, title, description, start_date, end_date, price, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CategoryID, e.Title, e.Description,
		e.StartDate.UTC(), e.EndDate.UTC(), e.Price, e.UserID, now, now)
	return mapConstraint(err)
}

func (r *eventsRepo) UpdateEventDescription(ctx context.Context, id, description string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET description = ?, updated_at = ? WHERE id = ?`,
		description, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *eventsRepo) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
