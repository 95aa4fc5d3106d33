package implementation

import (
	"context"
	"errors"
	"strings"
	"time"

	"property-rental-be/internal/entity"
	"property-rental-be/internal/mapper"
	"property-rental-be/internal/model"
	"property-rental-be/internal/repository/contract"
	"property-rental-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SubscriptionMapper
}

func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSubscriptionMapper(),
	}
}

func (r *SubscriptionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func preloadViews(db *gorm.DB) *gorm.DB {
	return db.Preload("ViewedProperties", func(db *gorm.DB) *gorm.DB {
		return db.Order("viewed_at ASC")
	})
}

// Plan Implementation

func (r *SubscriptionRepositoryImpl) CreatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	m := r.mapper.PlanToModel(plan)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*plan = *r.mapper.PlanToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error {
	m := r.mapper.PlanToModel(plan)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*plan = *r.mapper.PlanToEntity(m)
	return nil
}

func (r *SubscriptionRepositoryImpl) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SubscriptionPlan{}, "id = ?", id).Error
}

func (r *SubscriptionRepositoryImpl) FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error) {
	var m model.SubscriptionPlan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PlanToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error) {
	var models []*model.SubscriptionPlan
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SubscriptionPlan, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PlanToEntity(m)
	}
	return entities, nil
}

// Ledger Implementation

func (r *SubscriptionRepositoryImpl) CreateSubscription(ctx context.Context, subscription *entity.UserSubscription) error {
	m := r.mapper.UserSubscriptionToModel(subscription)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return err
	}
	viewed := subscription.ViewedProperties
	*subscription = *r.mapper.UserSubscriptionToEntity(m)
	subscription.ViewedProperties = viewed
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdateSubscription(ctx context.Context, subscription *entity.UserSubscription) error {
	m := r.mapper.UserSubscriptionToModel(subscription)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error; err != nil {
		return err
	}
	viewed := subscription.ViewedProperties
	*subscription = *r.mapper.UserSubscriptionToEntity(m)
	subscription.ViewedProperties = viewed
	return nil
}

func (r *SubscriptionRepositoryImpl) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_subscription_id = ?", id).Delete(&model.SubscriptionPropertyView{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.UserSubscription{}, "id = ?", id).Error
}

func (r *SubscriptionRepositoryImpl) FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error) {
	var m model.UserSubscription
	query := preloadViews(r.applySpecifications(r.db.WithContext(ctx), specs...))
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UserSubscriptionToEntity(&m), nil
}

func (r *SubscriptionRepositoryImpl) FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error) {
	var models []*model.UserSubscription
	query := preloadViews(r.applySpecifications(r.db.WithContext(ctx), specs...))
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.UserSubscription, len(models))
	for i, m := range models {
		entities[i] = r.mapper.UserSubscriptionToEntity(m)
	}
	return entities, nil
}

func (r *SubscriptionRepositoryImpl) ConsumeView(ctx context.Context, subscriptionId, propertyId uuid.UUID, at time.Time) (bool, error) {
	consumed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The guard is evaluated by the store against the current row, never
		// against a copy read earlier by the caller.
		res := tx.Model(&model.UserSubscription{}).
			Where("id = ?", subscriptionId).
			Where("active = ? AND remaining_quota >= 1", true).
			Where("start_date <= ? AND end_date >= ?", at, at).
			Where("NOT EXISTS (SELECT 1 FROM subscription_property_views v WHERE v.user_subscription_id = user_subscriptions.id AND v.property_id = ?)", propertyId).
			UpdateColumns(map[string]interface{}{
				"remaining_quota": gorm.Expr("remaining_quota - 1"),
				"updated_at":      at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		// A racing consumer that slipped past the guard loses here on the
		// unique index, which rolls its decrement back.
		view := &model.SubscriptionPropertyView{
			UserSubscriptionId: subscriptionId,
			PropertyId:         propertyId,
			ViewedAt:           at,
		}
		if err := tx.Create(view).Error; err != nil {
			return err
		}
		consumed = true
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return consumed, nil
}

func (r *SubscriptionRepositoryImpl) UpdateAccessState(ctx context.Context, id uuid.UUID, level entity.AccessLevel, active bool) error {
	return r.db.WithContext(ctx).Model(&model.UserSubscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_level": string(level),
			"active":       active,
		}).Error
}

func (r *SubscriptionRepositoryImpl) ViewedPropertyIds(ctx context.Context, userId uuid.UUID, propertyIds []uuid.UUID) ([]uuid.UUID, error) {
	if len(propertyIds) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.SubscriptionPropertyView{}).
		Distinct("subscription_property_views.property_id").
		Joins("JOIN user_subscriptions ON user_subscriptions.id = subscription_property_views.user_subscription_id").
		Where("user_subscriptions.user_id = ?", userId).
		Where("subscription_property_views.property_id IN ?", propertyIds).
		Pluck("subscription_property_views.property_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}
