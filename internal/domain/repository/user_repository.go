package repository

import (
	"context"
	"errors"

	"github.com/kopidesk/identity-service/internal/domain/entity"
)

// ErrNotFound is returned when no user matches the given id or email.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when a create races or collides with an
// existing row on the unique email index.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, offset, limit int) ([]*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error

	// ConsumeVerificationCode atomically marks the user verified and clears
	// the stored code. It reports false when the user is absent, the code
	// does not match, or the code was already consumed.
	ConsumeVerificationCode(ctx context.Context, email, code string) (bool, error)
}
