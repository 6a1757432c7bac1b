package service

import (
	"context"

	"github.com/openvenue/eventd/internal/domain"
	"github.com/openvenue/eventd/internal/store"
	"github.com/openvenue/eventd/pkg/cryptox"
	"github.com/openvenue/eventd/pkg/idx"
)

// Directory is the user-identity capability the auth flow depends on:
// lookups, password verification, account creation and role assignment.
// DirectoryService implements it over the store; tests may substitute it.
type Directory interface {
	FindByName(ctx context.Context, username string) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	CheckPassword(user domain.User, password string) bool
	Create(ctx context.Context, tx store.Tx, username, email, password string) (domain.User, error)
	AssignRole(ctx context.Context, tx store.Tx, userID, roleName string) error
	GetRoles(ctx context.Context, userID string) ([]string, error)
}

type DirectoryService struct {
	Store store.Store
}

func (s *DirectoryService) FindByName(ctx context.Context, username string) (domain.User, error) {
	return s.Store.Users().GetUserByUsername(ctx, username)
}

func (s *DirectoryService) FindByID(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}

func (s *DirectoryService) CheckPassword(user domain.User, password string) bool {
	return cryptox.VerifyPassword(password, user.PasswordHash) == nil
}

// Create hashes the password and inserts the user through the supplied
// transaction so the caller can pair it atomically with role assignment.
func (s *DirectoryService) Create(
	ctx context.Context,
	tx store.Tx,
	username, email, password string,
) (domain.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := tx.Users().CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *DirectoryService) AssignRole(ctx context.Context, tx store.Tx, userID, roleName string) error {
	role, err := tx.Roles().GetRoleByName(ctx, roleName)
	if err != nil {
		return err
	}
	return tx.Users().AssignRole(ctx, userID, role.ID)
}

func (s *DirectoryService) GetRoles(ctx context.Context, userID string) ([]string, error) {
	return s.Store.Users().GetUserRoles(ctx, userID)
}
