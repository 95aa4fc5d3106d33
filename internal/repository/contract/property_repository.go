package contract

import (
	"context"

	"property-rental-be/internal/entity"
	"property-rental-be/internal/repository/specification"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Property, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Property, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
