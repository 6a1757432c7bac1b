package store

import (
	"context"
	"errors"
	"time"

	"github.com/openvenue/eventd/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Roles() Roles
	Sessions() Sessions
	Categories() Categories
	Events() Events
	Ratings() Ratings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Use it for
	// multi-step operations that must be atomic (register, refresh rotation).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login and register.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// AssignRole links a user to a role by role id.
	AssignRole(ctx context.Context, userID, roleID string) error

	// GetUserRoles returns the names of every role assigned to a user.
	GetUserRoles(ctx context.Context, userID string) ([]string, error)
}

type Roles interface {
	// GetRoleByName fetches a role by its name.
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// CreateRole inserts a new role (id is ULID).
	CreateRole(ctx context.Context, r domain.Role) error
}

// Sessions is the durable record of login sessions. Rows are created at
// login, mutated at refresh and logout, and never deleted here; retention
// is an operational concern.
type Sessions interface {
	// CreateSession inserts a new session row. Returns ErrAlreadyExists if
	// the id is taken.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByID returns a session by id.
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// UpdateSessionRefresh overwrites the stored refresh-token fingerprint
	// and pushes the expiry forward. Single-row write; this is the rotation
	// commit point.
	UpdateSessionRefresh(ctx context.Context, id, refreshHash string, expiresAt time.Time) error

	// RevokeSession flips revoked=1. The flag is never cleared.
	RevokeSession(ctx context.Context, id string) error
}

type Categories interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryByID(ctx context.Context, id string) (domain.Category, error)
	CreateCategory(ctx context.Context, c domain.Category) error
	UpdateCategoryDescription(ctx context.Context, id, description string) error
	DeleteCategory(ctx context.Context, id string) error
}

type Events interface {
	ListEventsByCategory(ctx context.Context, categoryID string) ([]domain.Event, error)
	GetEventByID(ctx context.Context, id string) (domain.Event, error)
	CreateEvent(ctx context.Context, e domain.Event) error
	UpdateEventDescription(ctx context.Context, id, description string) error
	DeleteEvent(ctx context.Context, id string) error
}

type Ratings interface {
	ListRatingsByEvent(ctx context.Context, eventID string) ([]domain.Rating, error)
	GetRatingByID(ctx context.Context, id string) (domain.Rating, error)
	CreateRating(ctx context.Context, r domain.Rating) error
	UpdateRatingStars(ctx context.Context, id string, stars int) error
	DeleteRating(ctx context.Context, id string) error
}
