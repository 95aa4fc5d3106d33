package implementation

import (
	"context"
	"errors"

	"property-rental-be/internal/entity"
	"property-rental-be/internal/mapper"
	"property-rental-be/internal/model"
	"property-rental-be/internal/repository/contract"
	"property-rental-be/internal/repository/specification"

	"gorm.io/gorm"
)

type PropertyRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PropertyMapper
}

func NewPropertyRepository(db *gorm.DB) contract.PropertyRepository {
	return &PropertyRepositoryImpl{
		db:     db,
		mapper: mapper.NewPropertyMapper(),
	}
}

func (r *PropertyRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PropertyRepositoryImpl) Create(ctx context.Context, property *entity.Property) error {
	m := r.mapper.ToModel(property)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*property = *r.mapper.ToEntity(m)
	return nil
}

func (r *PropertyRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Property, error) {
	var m model.Property
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PropertyRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Property, error) {
	var models []*model.Property
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Property, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *PropertyRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Property{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
