package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/openvenue/eventd/internal/domain"
	"github.com/openvenue/eventd/internal/store"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, last_refresh_hash, initiated_at, expires_at, revoked, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.LastRefreshHash, s.InitiatedAt.UTC(), s.ExpiresAt.UTC(), s.Revoked, now, now)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, last_refresh_hash, initiated_at, expires_at, revoked, created_at, updated_at
		 FROM sessions WHERE id = ?`, id)

	var s domain.Session
	err := row.Scan(&s.ID, &s.UserID, &s.LastRefreshHash, &s.InitiatedAt,
		&s.ExpiresAt, &s.Revoked, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

// UpdateSessionRefresh is the rotation commit point: it overwrites the
// stored fingerprint in one row write, so the previous refresh token stops
// matching the instant this returns.
func (r *sessionsRepo) UpdateSessionRefresh(ctx context.Context, id, refreshHash string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET last_refresh_hash = ?, expires_at = ?, updated_at = ?
		 WHERE id = ?`,
		refreshHash, expiresAt.UTC(), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
