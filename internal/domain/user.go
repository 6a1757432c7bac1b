package domain

import "time"

// Role names known to the system. Every registered account gets RoleEventUser;
// RoleAdmin is reserved for the seeded administrator.
const (
	RoleAdmin     = "Admin"
	RoleEventUser = "EventUser"
)

// AllRoles lists every role the seeder ensures exists.
var AllRoles = []string{RoleAdmin, RoleEventUser}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // argon2id encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
