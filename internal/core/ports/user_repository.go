package ports

import (
	"context"

	"github.com/mykare/user-registration/internal/core/domain"
)

// UserRepository is the user directory. Email uniqueness is enforced by the
// store itself; Save reports a violation as domain.ErrDuplicateUser.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindAllPaged returns users ordered by id, skipping page*size records.
	FindAllPaged(ctx context.Context, page, size int) ([]*domain.User, error)
	Delete(ctx context.Context, user *domain.User) error
}

// LoginLimiter tracks failed credential validations per email.
type LoginLimiter interface {
	IsLocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// PasswordHasher hashes and compares passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext, hash string) bool
}
