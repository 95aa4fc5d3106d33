package contract

import (
	"context"

	"property-rental-be/internal/entity"
	"property-rental-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Current ledger entry pointer
	SetCurrentSubscription(ctx context.Context, userId uuid.UUID, subscriptionId uuid.UUID) error
	// ClearCurrentSubscription only clears the pointer when it still refers to subscriptionId.
	ClearCurrentSubscription(ctx context.Context, userId uuid.UUID, subscriptionId uuid.UUID) error

	// Owner directory
	FindOwnerContact(ctx context.Context, id uuid.UUID) (*entity.OwnerContact, error)
}
