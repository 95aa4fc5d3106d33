// Service for the subscription plan catalog
package service

import (
	"context"
	"fmt"

	"property-rental-be/internal/dto"
	"property-rental-be/internal/entity"
	"property-rental-be/internal/pkg/apperror"
	"property-rental-be/internal/pkg/logger"
	"property-rental-be/internal/repository/memory"
	"property-rental-be/internal/repository/specification"
	"property-rental-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type PlanService interface {
	// Public
	ListPlans(ctx context.Context, activeOnly bool) ([]*dto.PlanResponse, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*dto.PlanResponse, error)

	// Admin
	CreatePlan(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error
}

type planService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.PlanCache
	logger     logger.ILogger
}

func NewPlanService(uowFactory unitofwork.RepositoryFactory, cache *memory.PlanCache, logger logger.ILogger) PlanService {
	return &planService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     logger,
	}
}

func toPlanResponse(p *entity.SubscriptionPlan) *dto.PlanResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return &dto.PlanResponse{
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

func (s *planService) ListPlans(ctx context.Context, activeOnly bool) ([]*dto.PlanResponse, error) {
	plans, found := s.cache.GetList(activeOnly)
	if !found {
		specs := []specification.Specification{
			specification.OrderBy{Field: "sort_order"},
			specification.OrderBy{Field: "price"},
		}
		if activeOnly {
			specs = append(specs, specification.ActivePlans{})
		}

		var err error
		plans, err = s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindAllPlans(ctx, specs...)
		if err != nil {
			return nil, fmt.Errorf("failed to list plans: %w", err)
		}
		s.cache.SetList(activeOnly, plans)
	}

	res := make([]*dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		res = append(res, toPlanResponse(p))
	}
	return res, nil
}

func (s *planService) GetPlan(ctx context.Context, id uuid.UUID) (*dto.PlanResponse, error) {
	if plan, found := s.cache.Get(id); found {
		return toPlanResponse(plan), nil
	}

	plan, err := s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil {
		return nil, apperror.NotFound("plan not found")
	}
	s.cache.Set(plan)
	return toPlanResponse(plan), nil
}

func (s *planService) CreatePlan(ctx context.Context, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	plan := &entity.SubscriptionPlan{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Quota:        req.Quota,
		DurationDays: req.DurationDays,
		Features:     req.Features,
		IsActive:     true,
		SortOrder:    req.SortOrder,
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if err := s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	s.cache.Invalidate()

	s.logger.Info("PLAN", "Plan created", map[string]interface{}{
		"plan_id": plan.Id.String(),
		"name":    plan.Name,
		"quota":   plan.Quota,
	})
	return toPlanResponse(plan), nil
}

// UpdatePlan edits the catalog only. Issued ledger entries keep the quota and
// window they were created with.
func (s *planService) UpdatePlan(ctx context.Context, id uuid.UUID, req *dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository()
	plan, err := repo.FindOnePlan(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil {
		return nil, apperror.NotFound("plan not found")
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.Quota != nil {
		plan.Quota = *req.Quota
	}
	if req.DurationDays != nil {
		plan.DurationDays = *req.DurationDays
	}
	if req.Features != nil {
		plan.Features = *req.Features
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		plan.SortOrder = *req.SortOrder
	}

	if err := repo.UpdatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	s.cache.Invalidate()

	s.logger.Info("PLAN", "Plan updated", map[string]interface{}{"plan_id": id.String()})
	return toPlanResponse(plan), nil
}

// DeletePlan refuses plans that ledger entries still reference.
func (s *planService) DeletePlan(ctx context.Context, id uuid.UUID) error {
	repo := s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository()
	plan, err := repo.FindOnePlan(ctx, specification.ByID{ID: id})
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil {
		return apperror.NotFound("plan not found")
	}

	inUse, err := repo.FindOneSubscription(ctx, specification.ByPlanID{PlanID: id})
	if err != nil {
		return fmt.Errorf("failed to check plan usage: %w", err)
	}
	if inUse != nil {
		return apperror.Conflict("plan is referenced by subscriptions, deactivate it instead")
	}

	if err := repo.DeletePlan(ctx, id); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	s.cache.Invalidate()

	s.logger.Info("PLAN", "Plan deleted", map[string]interface{}{"plan_id": id.String()})
	return nil
}
