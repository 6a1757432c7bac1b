package domain

import "time"

// Category groups events. UserID records the creator; relations are
// one-directional foreign keys, resolved by lookup when needed.
type Category struct {
	ID          string
	Name        string
	Description string
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Event struct {
	ID          string
	CategoryID  string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Price       int
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Rating struct {
	ID        string
	EventID   string
	Stars     int
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
