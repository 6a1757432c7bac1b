package service

import (
	"context"
	"errors"

	"github.com/openvenue/eventd/internal/domain"
	"github.com/openvenue/eventd/internal/store"
	"github.com/openvenue/eventd/pkg/idx"
	"github.com/openvenue/eventd/pkg/slogx"
)

// SeederService ensures the fixed role set and an administrator account
// exist on startup. It is idempotent across restarts.
type SeederService struct {
	Store         store.Store
	Directory     Directory
	AdminPassword string
}

const seedAdminUsername = "admin"

func (s *SeederService) Seed(ctx context.Context) error {
	if err := s.seedRoles(ctx); err != nil {
		return err
	}
	return s.seedAdminUser(ctx)
}

func (s *SeederService) seedRoles(ctx context.Context) error {
	for _, name := range domain.AllRoles {
		_, err := s.Store.Roles().GetRoleByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := s.Store.Roles().CreateRole(ctx, domain.Role{
			ID:   idx.New().String(),
			Name: name,
		}); err != nil {
			return err
		}
		slogx.FromContext(ctx).Info("seeded role", "role", name)
	}
	return nil
}

func (s *SeederService) seedAdminUser(ctx context.Context) error {
	if s.AdminPassword == "" {
		slogx.FromContext(ctx).Warn("admin password not configured, skipping admin seed")
		return nil
	}

	_, err := s.Directory.FindByName(ctx, seedAdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		admin, err := s.Directory.Create(ctx, tx, seedAdminUsername, "admin@admin.com", s.AdminPassword)
		if err != nil {
			return err
		}

		for _, role := range domain.AllRoles {
			if err := s.Directory.AssignRole(ctx, tx, admin.ID, role); err != nil {
				return err
			}
		}

		slogx.FromContext(ctx).Info("seeded admin user", "user_id", admin.ID)
		return nil
	})
}
