package sqlite

import (
	"context"
	"time"

	"github.com/openvenue/eventd/internal/domain"
)

type ratingsRepo struct {
	db dbtx
}

const ratingColumns = `id, event_id, stars, user_id, created_at, updated_at`

func (r *ratingsRepo) ListRatingsByEvent(ctx context.Context, eventID string) ([]domain.Rating, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE event_id = ? ORDER BY id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Rating
	for rows.Next() {
		var rt domain.Rating
		if err := rows.Scan(&rt.ID, &rt.EventID, &rt.Stars, &rt.UserID, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *ratingsRepo) GetRatingByID(ctx context.Context, id string) (domain.Rating, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ratingColumns+` FROM ratings WHERE id = ?`, id)

	var rt domain.Rating
	err := row.Scan(&rt.ID, &rt.EventID, &rt.Stars, &rt.UserID, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return domain.Rating{}, mapNotFound(err)
	}
	return rt, nil
}

func (r *ratingsRepo) CreateRating(ctx context.Context, rt domain.Rating) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ratings (id, event_id, stars, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rt.ID, rt.EventID, rt.Stars, rt.UserID, now, now)
	return mapConstraint(err)
}

func (r *ratingsRepo) UpdateRatingStars(ctx context.Context, id string, stars int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ratings SET stars = ?, updated_at = ? WHERE id = ?`,
		stars, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *ratingsRepo) DeleteRating(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ratings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
