package ports

import (
	"context"

	"github.com/theagilemonkeys/crm-api/internal/core/domain"
)

// CustomerRepository defines the persistence contract for the Customer
// aggregate. Customer ids are client-assigned; duplicate ids surface as
// domain.ErrCustomerExists and duplicate emails as domain.ErrEmailExists.
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
	FindAll(ctx context.Context, page, limit int) ([]*domain.Customer, int64, error)
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id int64) error
}
