// Service exposing the entitlement engine to the HTTP layer
package service

import (
	"context"

	"property-rental-be/internal/dto"
	"property-rental-be/internal/entity"
	"property-rental-be/internal/pkg/apperror"
	"property-rental-be/internal/pkg/logger"
	"property-rental-be/pkg/entitlement"

	"github.com/google/uuid"
)

type SubscriptionService interface {
	Subscribe(ctx context.Context, actor entity.Identity, req *dto.SubscribeRequest) (*dto.SubscriptionResponse, error)
	GetActive(ctx context.Context, actor entity.Identity, userId uuid.UUID) (*dto.SubscriptionResponse, error)
	UseView(ctx context.Context, actor entity.Identity, id uuid.UUID, req *dto.UseViewRequest) (*dto.UseViewResponse, error)
	Upgrade(ctx context.Context, actor entity.Identity, id uuid.UUID, req *dto.UpgradeSubscriptionRequest) (*dto.SubscriptionResponse, error)
	End(ctx context.Context, actor entity.Identity, id uuid.UUID) (*dto.SubscriptionResponse, error)
	Get(ctx context.Context, actor entity.Identity, id uuid.UUID) (*dto.SubscriptionResponse, error)
	ListMine(ctx context.Context, actor entity.Identity) ([]*dto.SubscriptionResponse, error)

	// Admin
	Create(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	List(ctx context.Context) ([]*dto.SubscriptionResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type subscriptionService struct {
	engine *entitlement.Engine
	logger logger.ILogger
}

func NewSubscriptionService(engine *entitlement.Engine, logger logger.ILogger) SubscriptionService {
	return &subscriptionService{
		engine: engine,
		logger: logger,
	}
}

func toSubscriptionResponse(s *entity.UserSubscription) *dto.SubscriptionResponse {
	viewed := make([]dto.ViewedPropertyResponse, 0, len(s.ViewedProperties))
	for _, v := range s.ViewedProperties {
		viewed = append(viewed, dto.ViewedPropertyResponse{
			PropertyId: v.PropertyId,
			ViewedAt:   v.ViewedAt,
		})
	}
	return &dto.SubscriptionResponse{
		Id:               s.Id,
		UserId:           s.UserId,
		PlanId:           s.PlanId,
		StartDate:        s.StartDate,
		EndDate:          s.EndDate,
		RemainingViews:   s.RemainingQuota,
		AccessLevel:      string(s.AccessLevel),
		Active:           s.Active,
		ViewedProperties: viewed,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func toSubscriptionResponses(entries []*entity.UserSubscription) []*dto.SubscriptionResponse {
	res := make([]*dto.SubscriptionResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, toSubscriptionResponse(e))
	}
	return res
}

func parseId(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apperror.InvalidArgument("invalid " + field)
	}
	return id, nil
}

// authorize allows admins and the user the data belongs to.
func authorize(actor entity.Identity, userId uuid.UUID) error {
	if !actor.IsAuthenticated() {
		return apperror.Unauthenticated("Missing token")
	}
	if actor.IsAdmin() || actor.UserId == userId {
		return nil
	}
	return apperror.Forbidden("Access denied")
}

// owned loads an entry the actor may act on.
func (s *subscriptionService) owned(ctx context.Context, actor entity.Identity, id uuid.UUID) (*entity.UserSubscription, error) {
	entry, err := s.engine.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, entry.UserId); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *subscriptionService) Subscribe(ctx context.Context, actor entity.Identity, req *dto.SubscribeRequest) (*dto.SubscriptionResponse, error) {
	userId := actor.UserId
	if req.UserId != "" {
		id, err := parseId(req.UserId, "user_id")
		if err != nil {
			return nil, err
		}
		userId = id
	}
	if err := authorize(actor, userId); err != nil {
		return nil, err
	}

	planId, err := parseId(req.PlanId, "plan_id")
	if err != nil {
		return nil, err
	}

	entry, err := s.engine.Subscribe(ctx, entitlement.SubscribeInput{
		UserId:    userId,
		PlanId:    planId,
		StartDate: req.StartDate,
	})
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponse(entry), nil
}

// GetActive returns nil when the user has no active entry.
func (s *subscriptionService) GetActive(ctx context.Context, actor entity.Identity, userId uuid.UUID) (*dto.SubscriptionResponse, error) {
	if err := authorize(actor, userId); err != nil {
		return nil, err
	}
	entry, err := s.engine.GetActiveEntry(ctx, userId)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return toSubscriptionResponse(entry), nil
}

// UseView reports a repeated view of the same property as ALREADY_VIEWED.
func (s *subscriptionService) UseView(ctx context.Context, actor entity.Identity, id uuid.UUID, req *dto.UseViewRequest) (*dto.UseViewResponse, error) {
	propertyId, err := parseId(req.PropertyId, "property_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}

	res, err := s.engine.ConsumeView(ctx, id, propertyId)
	if err != nil {
		return nil, err
	}
	if res.AlreadyViewed {
		return nil, apperror.AlreadyViewed("property already viewed with this subscription")
	}

	return &dto.UseViewResponse{
		Subscription:   toSubscriptionResponse(res.Entry),
		RemainingViews: res.Entry.RemainingQuota,
	}, nil
}

func (s *subscriptionService) Upgrade(ctx context.Context, actor entity.Identity, id uuid.UUID, req *dto.UpgradeSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	newPlanId, err := parseId(req.NewPlanId, "new_plan_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}

	inherit := true
	if req.InheritRemaining != nil {
		inherit = *req.InheritRemaining
	}

	entry, err := s.engine.Upgrade(ctx, id, newPlanId, inherit)
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponse(entry), nil
}

func (s *subscriptionService) End(ctx context.Context, actor entity.Identity, id uuid.UUID) (*dto.SubscriptionResponse, error) {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}
	entry, err := s.engine.End(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponse(entry), nil
}

func (s *subscriptionService) Get(ctx context.Context, actor entity.Identity, id uuid.UUID) (*dto.SubscriptionResponse, error) {
	entry, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponse(entry), nil
}

func (s *subscriptionService) ListMine(ctx context.Context, actor entity.Identity) ([]*dto.SubscriptionResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, apperror.Unauthenticated("Missing token")
	}
	entries, err := s.engine.ListForUser(ctx, actor.UserId)
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponses(entries), nil
}

func (s *subscriptionService) Create(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	userId, err := parseId(req.UserId, "user_id")
	if err != nil {
		return nil, err
	}
	planId, err := parseId(req.PlanId, "plan_id")
	if err != nil {
		return nil, err
	}

	entry, err := s.engine.Create(ctx, entitlement.CreateInput{
		UserId:    userId,
		PlanId:    planId,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Available: req.Available,
	})
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponse(entry), nil
}

func (s *subscriptionService) List(ctx context.Context) ([]*dto.SubscriptionResponse, error) {
	entries, err := s.engine.List(ctx)
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponses(entries), nil
}

func (s *subscriptionService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	entry, err := s.engine.Update(ctx, id, entitlement.UpdateInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Available: req.Available,
		Active:    req.Active,
	})
	if err != nil {
		return nil, err
	}
	return toSubscriptionResponse(entry), nil
}

func (s *subscriptionService) Remove(ctx context.Context, id uuid.UUID) error {
	return s.engine.Remove(ctx, id)
}
