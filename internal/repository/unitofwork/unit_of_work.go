package unitofwork

import (
	"context"

	"property-rental-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SubscriptionRepository() contract.SubscriptionRepository
	PropertyRepository() contract.PropertyRepository
}
