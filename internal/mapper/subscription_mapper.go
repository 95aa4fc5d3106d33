package mapper

import (
	"property-rental-be/internal/entity"
	"property-rental-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) PlanToEntity(p *model.SubscriptionPlan) *entity.SubscriptionPlan {
	if p == nil {
		return nil
	}
	features := make([]string, len(p.Features))
	copy(features, p.Features)
	return &entity.SubscriptionPlan{
		Id:           p.Id,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Quota:        p.Quota,
		DurationDays: p.DurationDays,
		Features:     features,
		IsActive:     p.IsActive,
		SortOrder:    p.SortOrder,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (m *SubscriptionMapper) PlanToModel(p *entity.SubscriptionPlan) *model.SubscriptionPlan {
	if p == nil {
		return nil
	}
	return &model.SubscriptionPlan{
		Id:           p.Id,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Quota:        p.Quota,
		DurationDays: p.DurationDays,
		Features:     p.Features,
		IsActive:     p.IsActive,
		SortOrder:    p.SortOrder,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (m *SubscriptionMapper) UserSubscriptionToEntity(s *model.UserSubscription) *entity.UserSubscription {
	if s == nil {
		return nil
	}
	viewed := make([]entity.ViewedProperty, 0, len(s.ViewedProperties))
	for _, v := range s.ViewedProperties {
		viewed = append(viewed, entity.ViewedProperty{
			PropertyId: v.PropertyId,
			ViewedAt:   v.ViewedAt,
		})
	}
	return &entity.UserSubscription{
		Id:               s.Id,
		UserId:           s.UserId,
		PlanId:           s.PlanId,
		StartDate:        s.StartDate,
		EndDate:          s.EndDate,
		RemainingQuota:   s.RemainingQuota,
		AccessLevel:      entity.AccessLevel(s.AccessLevel),
		Active:           s.Active,
		ViewedProperties: viewed,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// UserSubscriptionToModel leaves the view ledger out: it is append-only and
// only ever written by the conditional consume path.
func (m *SubscriptionMapper) UserSubscriptionToModel(s *entity.UserSubscription) *model.UserSubscription {
	if s == nil {
		return nil
	}
	return &model.UserSubscription{
		Id:             s.Id,
		UserId:         s.UserId,
		PlanId:         s.PlanId,
		StartDate:      s.StartDate,
		EndDate:        s.EndDate,
		RemainingQuota: s.RemainingQuota,
		AccessLevel:    string(s.AccessLevel),
		Active:         s.Active,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
