package ports

import (
	"context"

	"github.com/theagilemonkeys/crm-api/internal/core/domain"
)

// UserRepository defines the persistence contract for the User aggregate.
// Login and email matching is case-insensitive; implementations store both
// fields lower-cased. Unique-constraint violations surface as
// domain.ErrLoginExists / domain.ErrEmailExists, absence as
// domain.ErrUserNotFound.
//
// The WithRoles variants load the full user-with-roles snapshot and are the
// lookups accelerated by the usersByLogin / usersByEmail caches.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindOneByLogin(ctx context.Context, login string) (*domain.User, error)
	FindOneByEmail(ctx context.Context, email string) (*domain.User, error)
	FindOneWithRolesByLogin(ctx context.Context, login string) (*domain.User, error)
	FindOneWithRolesByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindAllByLoginNot pages through users, excluding the given login.
	FindAllByLoginNot(ctx context.Context, excludedLogin string, page, limit int) ([]*domain.User, int64, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, login string) error
}
