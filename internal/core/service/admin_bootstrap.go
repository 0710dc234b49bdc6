package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mykare/user-registration/internal/core/domain"
	"github.com/mykare/user-registration/internal/core/ports"
)

// AdminAccount describes the designated administrator.
type AdminAccount struct {
	Name     string
	Email    string
	Password string
}

// AdminBootstrap makes sure the designated admin account exists.
type AdminBootstrap struct {
	repo   ports.UserRepository
	hasher *PasswordHasher
	admin  AdminAccount
	logger zerolog.Logger
}

func NewAdminBootstrap(repo ports.UserRepository, hasher *PasswordHasher, admin AdminAccount, logger zerolog.Logger) *AdminBootstrap {
	return &AdminBootstrap{repo: repo, hasher: hasher, admin: admin, logger: logger}
}

// EnsureAdmin creates the admin account when it is missing. An existing
// account is left as is.
func (b *AdminBootstrap) EnsureAdmin(ctx context.Context) error {
	_, err := b.repo.FindByEmail(ctx, b.admin.Email)
	if err == nil {
		b.logger.Debug().Str("email", b.admin.Email).Msg("admin user already present")
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	hash, err := b.hasher.Hash(b.admin.Password)
	if err != nil {
		return err
	}

	_, err = b.repo.Save(ctx, &domain.User{
		Name:         b.admin.Name,
		Email:        b.admin.Email,
		Gender:       domain.GenderNotMentioned,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		// another instance won the race
		if errors.Is(err, domain.ErrDuplicateUser) {
			return nil
		}
		return fmt.Errorf("save admin: %w", err)
	}

	b.logger.Info().Str("email", b.admin.Email).Msg("admin user created")
	return nil
}
