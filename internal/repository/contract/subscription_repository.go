package contract

import (
	"context"
	"time"

	"property-rental-be/internal/entity"
	"property-rental-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	// Plans
	CreatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error
	UpdatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error
	DeletePlan(ctx context.Context, id uuid.UUID) error
	FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error)
	FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error)

	// Ledger entries
	CreateSubscription(ctx context.Context, subscription *entity.UserSubscription) error
	UpdateSubscription(ctx context.Context, subscription *entity.UserSubscription) error
	DeleteSubscription(ctx context.Context, id uuid.UUID) error
	FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error)
	FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error)

	// ConsumeView spends one view slot and records the property in a single
	// guarded write. It returns false, without error, when the stored entry is
	// not active, has no quota left or already holds the property.
	ConsumeView(ctx context.Context, subscriptionId, propertyId uuid.UUID, at time.Time) (bool, error)
	// UpdateAccessState persists a recomputed access level and active flag.
	UpdateAccessState(ctx context.Context, id uuid.UUID, level entity.AccessLevel, active bool) error
	// ViewedPropertyIds returns which of the given properties appear in any
	// ledger entry of the user.
	ViewedPropertyIds(ctx context.Context, userId uuid.UUID, propertyIds []uuid.UUID) ([]uuid.UUID, error)
}
