// Package entitlement issues subscription ledger entries and spends their
// view quota. Every state change to an entry and to the owner's current-entry
// pointer is committed in one transaction; view consumption is a single
// guarded write against the store.
package entitlement

import (
	"context"
	"fmt"
	"time"

	"property-rental-be/internal/entity"
	"property-rental-be/internal/pkg/apperror"
	"property-rental-be/internal/pkg/logger"
	"property-rental-be/internal/repository/specification"
	"property-rental-be/internal/repository/unitofwork"
	"property-rental-be/pkg/events"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const logModule = "ENTITLEMENT"

type Engine struct {
	uowFactory          unitofwork.RepositoryFactory
	publisher           events.Publisher
	logger              logger.ILogger
	tracer              trace.Tracer
	now                 func() time.Time
	defaultDurationDays int
}

type Option func(*Engine)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithDefaultDurationDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.defaultDurationDays = days
		}
	}
}

func NewEngine(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, log logger.ILogger, opts ...Option) *Engine {
	if publisher == nil {
		publisher = events.NopPublisher()
	}
	e := &Engine{
		uowFactory:          uowFactory,
		publisher:           publisher,
		logger:              log,
		tracer:              otel.Tracer("property-rental-be/entitlement"),
		now:                 time.Now,
		defaultDurationDays: DefaultDurationDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// clock returns the current instant at the precision the store keeps.
func (e *Engine) clock() time.Time {
	return e.now().UTC().Truncate(time.Microsecond)
}

func (e *Engine) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "entitlement."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (e *Engine) publish(ctx context.Context, eventType string, entry *entity.UserSubscription, extra map[string]interface{}) {
	data := map[string]interface{}{
		"subscription_id": entry.Id.String(),
		"user_id":         entry.UserId.String(),
		"plan_id":         entry.PlanId.String(),
		"remaining_quota": entry.RemainingQuota,
		"access_level":    string(entry.AccessLevel),
		"active":          entry.Active,
		"end_date":        entry.EndDate,
	}
	for k, v := range extra {
		data[k] = v
	}
	if err := e.publisher.Publish(ctx, events.NewEvent(eventType, data, e.clock())); err != nil {
		e.logger.Error("EVENTS", "Failed to publish "+eventType, map[string]interface{}{
			"subscription_id": entry.Id.String(),
			"error":           err.Error(),
		})
	}
}

type SubscribeInput struct {
	UserId    uuid.UUID
	PlanId    uuid.UUID
	StartDate *time.Time
}

// Subscribe issues a new ledger entry for the plan. It fails with Conflict
// while the user still holds a usable entry for the same plan.
func (e *Engine) Subscribe(ctx context.Context, in SubscribeInput) (entry *entity.UserSubscription, err error) {
	ctx, span := e.startSpan(ctx, "Subscribe",
		attribute.String("user_id", in.UserId.String()),
		attribute.String("plan_id", in.PlanId.String()))
	defer func() { endSpan(span, err) }()

	now := e.clock()
	uow := e.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: in.UserId})
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	subRepo := uow.SubscriptionRepository()
	plan, err := subRepo.FindOnePlan(ctx, specification.ByID{ID: in.PlanId})
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil {
		return nil, apperror.NotFound("plan not found")
	}

	existing, err := subRepo.FindOneSubscription(ctx,
		specification.UserOwnedBy{UserID: in.UserId},
		specification.ByPlanID{PlanID: in.PlanId},
		specification.UsableSubscriptionAt{Now: now},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing subscriptions: %w", err)
	}
	if existing != nil {
		e.logger.Debug(logModule, "Duplicate subscription rejected", map[string]interface{}{
			"user_id":         in.UserId.String(),
			"plan_id":         in.PlanId.String(),
			"subscription_id": existing.Id.String(),
		})
		return nil, apperror.Conflict("user already has an active subscription to this plan")
	}

	start := now
	if in.StartDate != nil {
		start = in.StartDate.UTC().Truncate(time.Microsecond)
	}
	window := SubscriptionWindow(start, plan, e.defaultDurationDays)

	entry = &entity.UserSubscription{
		UserId:         in.UserId,
		PlanId:         in.PlanId,
		StartDate:      window.Start,
		EndDate:        window.End,
		RemainingQuota: max(plan.Quota, 0),
	}
	Recompute(entry, now)

	if err := subRepo.CreateSubscription(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	if entry.Active {
		if err := uow.UserRepository().SetCurrentSubscription(ctx, in.UserId, entry.Id); err != nil {
			return nil, fmt.Errorf("failed to set current subscription: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit subscription: %w", err)
	}

	e.logger.Info(logModule, "Subscription created", map[string]interface{}{
		"subscription_id": entry.Id.String(),
		"user_id":         entry.UserId.String(),
		"plan_id":         entry.PlanId.String(),
		"remaining_quota": entry.RemainingQuota,
		"active":          entry.Active,
	})
	e.publish(ctx, events.SubscriptionCreated, entry, nil)
	return entry, nil
}

type CreateInput struct {
	UserId    uuid.UUID
	PlanId    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	Available *int // defaults to the plan quota
}

// Create issues an entry with an explicit window, for administrators.
func (e *Engine) Create(ctx context.Context, in CreateInput) (entry *entity.UserSubscription, err error) {
	ctx, span := e.startSpan(ctx, "Create", attribute.String("user_id", in.UserId.String()))
	defer func() { endSpan(span, err) }()

	if in.EndDate.Before(in.StartDate) {
		return nil, apperror.InvalidArgument("end date must not be before start date")
	}
	if in.Available != nil && *in.Available < 0 {
		return nil, apperror.InvalidArgument("available must not be negative")
	}

	now := e.clock()
	uow := e.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: in.UserId})
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	subRepo := uow.SubscriptionRepository()
	plan, err := subRepo.FindOnePlan(ctx, specification.ByID{ID: in.PlanId})
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil {
		return nil, apperror.NotFound("plan not found")
	}

	remaining := max(plan.Quota, 0)
	if in.Available != nil {
		remaining = *in.Available
	}

	entry = &entity.UserSubscription{
		UserId:         in.UserId,
		PlanId:         in.PlanId,
		StartDate:      in.StartDate.UTC().Truncate(time.Microsecond),
		EndDate:        in.EndDate.UTC().Truncate(time.Microsecond),
		RemainingQuota: remaining,
	}
	Recompute(entry, now)

	if err := subRepo.CreateSubscription(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	if entry.Active {
		if err := uow.UserRepository().SetCurrentSubscription(ctx, in.UserId, entry.Id); err != nil {
			return nil, fmt.Errorf("failed to set current subscription: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit subscription: %w", err)
	}

	e.logger.Info(logModule, "Subscription issued by administrator", map[string]interface{}{
		"subscription_id": entry.Id.String(),
		"user_id":         entry.UserId.String(),
		"remaining_quota": entry.RemainingQuota,
	})
	e.publish(ctx, events.SubscriptionCreated, entry, map[string]interface{}{"source": "admin"})
	return entry, nil
}

// ConsumeResult reports the entry after a view request. AlreadyViewed is set
// when the property was unlocked earlier and nothing was spent.
type ConsumeResult struct {
	Entry         *entity.UserSubscription
	AlreadyViewed bool
}

// ConsumeView spends one view of the entry on the property, at most once per
// property. A property that was already unlocked is reported as a successful
// read regardless of the entry's current quota or activity.
func (e *Engine) ConsumeView(ctx context.Context, entryId, propertyId uuid.UUID) (res *ConsumeResult, err error) {
	ctx, span := e.startSpan(ctx, "ConsumeView",
		attribute.String("subscription_id", entryId.String()),
		attribute.String("property_id", propertyId.String()))
	defer func() { endSpan(span, err) }()

	if entryId == uuid.Nil {
		return nil, apperror.InvalidArgument("invalid subscription id")
	}
	if propertyId == uuid.Nil {
		return nil, apperror.InvalidArgument("invalid property id")
	}

	now := e.clock()
	subRepo := e.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository()

	consumed, err := subRepo.ConsumeView(ctx, entryId, propertyId, now)
	if err != nil {
		return nil, fmt.Errorf("failed to consume view: %w", err)
	}

	// Re-read the stored entry instead of assuming why the guard failed.
	entry, err := subRepo.FindOneSubscription(ctx, specification.ByID{ID: entryId})
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if entry == nil {
		return nil, apperror.NotFound("subscription not found")
	}

	if consumed {
		Recompute(entry, now)
		if err := subRepo.UpdateAccessState(ctx, entry.Id, entry.AccessLevel, entry.Active); err != nil {
			// The consumption is committed; the derived fields self-correct on the next recompute.
			e.logger.Error(logModule, "Failed to persist access state", map[string]interface{}{
				"subscription_id": entry.Id.String(),
				"error":           err.Error(),
			})
		}

		e.logger.Info(logModule, "Property view consumed", map[string]interface{}{
			"subscription_id": entry.Id.String(),
			"property_id":     propertyId.String(),
			"remaining_quota": entry.RemainingQuota,
			"active":          entry.Active,
		})
		e.publish(ctx, events.PropertyViewConsumed, entry, map[string]interface{}{
			"property_id": propertyId.String(),
		})
		return &ConsumeResult{Entry: entry}, nil
	}

	if entry.HasViewed(propertyId) {
		return &ConsumeResult{Entry: e.refresh(ctx, entry, now), AlreadyViewed: true}, nil
	}

	entry = e.refresh(ctx, entry, now)
	if entry.RemainingQuota <= 0 {
		e.logger.Debug(logModule, "View denied, quota exhausted", map[string]interface{}{
			"subscription_id": entry.Id.String(),
			"property_id":     propertyId.String(),
		})
		return nil, apperror.QuotaExhausted("no remaining views on this subscription")
	}

	e.logger.Debug(logModule, "View denied, subscription not active", map[string]interface{}{
		"subscription_id": entry.Id.String(),
		"property_id":     propertyId.String(),
		"end_date":        entry.EndDate,
	})
	return nil, apperror.NotActive("subscription is not active")
}

// Upgrade moves the entry to another plan, appending the unused days of the
// current window and, when inheritRemaining is set, the unused quota.
func (e *Engine) Upgrade(ctx context.Context, entryId, newPlanId uuid.UUID, inheritRemaining bool) (entry *entity.UserSubscription, err error) {
	ctx, span := e.startSpan(ctx, "Upgrade",
		attribute.String("subscription_id", entryId.String()),
		attribute.String("plan_id", newPlanId.String()))
	defer func() { endSpan(span, err) }()

	now := e.clock()
	uow := e.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	subRepo := uow.SubscriptionRepository()
	entry, err = subRepo.FindOneSubscription(ctx, specification.ByID{ID: entryId})
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if entry == nil {
		return nil, apperror.NotFound("subscription not found")
	}
	if entry.PlanId == newPlanId {
		return nil, apperror.Conflict("subscription is already on this plan")
	}

	plan, err := subRepo.FindOnePlan(ctx, specification.ByID{ID: newPlanId})
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil {
		return nil, apperror.NotFound("plan not found")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: entry.UserId})
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	oldPlanId := entry.PlanId
	oldRemaining := entry.RemainingQuota
	terms := ComputeUpgrade(entry, plan, inheritRemaining, now, e.defaultDurationDays)

	entry.PlanId = plan.Id
	entry.RemainingQuota = terms.RemainingQuota
	entry.StartDate = terms.Window.Start
	entry.EndDate = terms.Window.End
	Recompute(entry, now)

	if err := subRepo.UpdateSubscription(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	if err := e.syncPointer(ctx, uow, entry); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit upgrade: %w", err)
	}

	e.logger.Info(logModule, "Subscription upgraded", map[string]interface{}{
		"subscription_id": entry.Id.String(),
		"old_plan_id":     oldPlanId.String(),
		"new_plan_id":     entry.PlanId.String(),
		"old_remaining":   oldRemaining,
		"remaining_quota": entry.RemainingQuota,
		"end_date":        entry.EndDate,
	})
	e.publish(ctx, events.SubscriptionUpgraded, entry, map[string]interface{}{
		"old_plan_id":       oldPlanId.String(),
		"inherit_remaining": inheritRemaining,
	})
	return entry, nil
}

// End closes the entry's window now. Ending an ended entry changes nothing.
func (e *Engine) End(ctx context.Context, entryId uuid.UUID) (entry *entity.UserSubscription, err error) {
	ctx, span := e.startSpan(ctx, "End", attribute.String("subscription_id", entryId.String()))
	defer func() { endSpan(span, err) }()

	now := e.clock()
	uow := e.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	subRepo := uow.SubscriptionRepository()
	entry, err = subRepo.FindOneSubscription(ctx, specification.ByID{ID: entryId})
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if entry == nil {
		return nil, apperror.NotFound("subscription not found")
	}

	alreadyEnded := !entry.Active && !entry.EndDate.After(now)
	if !alreadyEnded {
		entry.EndDate = now
		if entry.StartDate.After(now) {
			entry.StartDate = now
		}
		entry.Active = false
		entry.AccessLevel = entity.ComputeAccessLevel(entry.RemainingQuota)
		if err := subRepo.UpdateSubscription(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to end subscription: %w", err)
		}
	}
	if err := uow.UserRepository().ClearCurrentSubscription(ctx, entry.UserId, entry.Id); err != nil {
		return nil, fmt.Errorf("failed to clear current subscription: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit end: %w", err)
	}

	if !alreadyEnded {
		e.logger.Info(logModule, "Subscription ended", map[string]interface{}{
			"subscription_id": entry.Id.String(),
			"user_id":         entry.UserId.String(),
		})
		e.publish(ctx, events.SubscriptionEnded, entry, nil)
	}
	return entry, nil
}

// UpdateInput carries an administrative correction. Nil fields are kept.
// Active is recomputed unless given explicitly.
type UpdateInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	Available *int
	Active    *bool
}

func (e *Engine) Update(ctx context.Context, entryId uuid.UUID, in UpdateInput) (entry *entity.UserSubscription, err error) {
	ctx, span := e.startSpan(ctx, "Update", attribute.String("subscription_id", entryId.String()))
	defer func() { endSpan(span, err) }()

	if in.Available != nil && *in.Available < 0 {
		return nil, apperror.InvalidArgument("available must not be negative")
	}

	now := e.clock()
	uow := e.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	subRepo := uow.SubscriptionRepository()
	entry, err = subRepo.FindOneSubscription(ctx, specification.ByID{ID: entryId})
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if entry == nil {
		return nil, apperror.NotFound("subscription not found")
	}

	if in.StartDate != nil {
		entry.StartDate = in.StartDate.UTC().Truncate(time.Microsecond)
	}
	if in.EndDate != nil {
		entry.EndDate = in.EndDate.UTC().Truncate(time.Microsecond)
	}
	if entry.EndDate.Before(entry.StartDate) {
		return nil, apperror.InvalidArgument("end date must not be before start date")
	}
	if in.Available != nil {
		entry.RemainingQuota = *in.Available
	}

	Recompute(entry, now)
	if in.Active != nil {
		entry.Active = *in.Active
	}

	if err := subRepo.UpdateSubscription(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	if err := e.syncPointer(ctx, uow, entry); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}

	e.logger.Info(logModule, "Subscription updated by administrator", map[string]interface{}{
		"subscription_id": entry.Id.String(),
		"remaining_quota": entry.RemainingQuota,
		"active":          entry.Active,
	})
	return entry, nil
}

// Remove deletes the entry and its view history.
func (e *Engine) Remove(ctx context.Context, entryId uuid.UUID) (err error) {
	ctx, span := e.startSpan(ctx, "Remove", attribute.String("subscription_id", entryId.String()))
	defer func() { endSpan(span, err) }()

	uow := e.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	subRepo := uow.SubscriptionRepository()
	entry, err := subRepo.FindOneSubscription(ctx, specification.ByID{ID: entryId})
	if err != nil {
		return fmt.Errorf("failed to load subscription: %w", err)
	}
	if entry == nil {
		return apperror.NotFound("subscription not found")
	}

	if err := uow.UserRepository().ClearCurrentSubscription(ctx, entry.UserId, entry.Id); err != nil {
		return fmt.Errorf("failed to clear current subscription: %w", err)
	}
	if err := subRepo.DeleteSubscription(ctx, entry.Id); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit removal: %w", err)
	}

	e.logger.Info(logModule, "Subscription removed", map[string]interface{}{
		"subscription_id": entry.Id.String(),
		"user_id":         entry.UserId.String(),
	})
	e.publish(ctx, events.SubscriptionRemoved, entry, nil)
	return nil
}

// GetActiveEntry resolves the entry the user can currently spend views from:
// the current-entry pointer when still usable, otherwise the usable entry
// ending last. A nil entry without error means the user has none.
func (e *Engine) GetActiveEntry(ctx context.Context, userId uuid.UUID) (*entity.UserSubscription, error) {
	now := e.clock()
	uow := e.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	subRepo := uow.SubscriptionRepository()
	if user.CurrentSubscriptionId != nil {
		current, err := subRepo.FindOneSubscription(ctx,
			specification.ByID{ID: *user.CurrentSubscriptionId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load current subscription: %w", err)
		}
		if current != nil && current.UsableAt(now) {
			return current, nil
		}
	}

	entry, err := subRepo.FindOneSubscription(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.UsableSubscriptionAt{Now: now},
		specification.OrderBy{Field: "end_date", Desc: true},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find active subscription: %w", err)
	}
	return entry, nil
}

// FindViewingEntry returns the user's most recently ending entry that has
// unlocked the property, whatever its current state.
func (e *Engine) FindViewingEntry(ctx context.Context, userId, propertyId uuid.UUID) (*entity.UserSubscription, error) {
	entry, err := e.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindOneSubscription(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.HasViewedProperty{PropertyID: propertyId},
		specification.OrderBy{Field: "end_date", Desc: true},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find viewing subscription: %w", err)
	}
	return entry, nil
}

// ViewedAmong returns which of the properties the user has unlocked before.
func (e *Engine) ViewedAmong(ctx context.Context, userId uuid.UUID, propertyIds []uuid.UUID) (map[uuid.UUID]bool, error) {
	ids, err := e.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().ViewedPropertyIds(ctx, userId, propertyIds)
	if err != nil {
		return nil, fmt.Errorf("failed to load view history: %w", err)
	}
	viewed := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		viewed[id] = true
	}
	return viewed, nil
}

func (e *Engine) Get(ctx context.Context, entryId uuid.UUID) (*entity.UserSubscription, error) {
	entry, err := e.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: entryId})
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if entry == nil {
		return nil, apperror.NotFound("subscription not found")
	}
	return e.refresh(ctx, entry, e.clock()), nil
}

func (e *Engine) List(ctx context.Context) ([]*entity.UserSubscription, error) {
	return e.list(ctx, specification.OrderBy{Field: "created_at", Desc: true})
}

func (e *Engine) ListForUser(ctx context.Context, userId uuid.UUID) ([]*entity.UserSubscription, error) {
	return e.list(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (e *Engine) list(ctx context.Context, specs ...specification.Specification) ([]*entity.UserSubscription, error) {
	entries, err := e.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindAllSubscriptions(ctx, specs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	now := e.clock()
	for i, entry := range entries {
		entries[i] = e.refresh(ctx, entry, now)
	}
	return entries, nil
}

// refresh applies lazy expiry: an entry read after its window closed or its
// quota ran out is demoted and the demotion is persisted.
func (e *Engine) refresh(ctx context.Context, entry *entity.UserSubscription, now time.Time) *entity.UserSubscription {
	if !entry.Active || entry.ComputeActive(now) {
		return entry
	}
	entry.Active = false
	entry.AccessLevel = entity.ComputeAccessLevel(entry.RemainingQuota)
	subRepo := e.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository()
	if err := subRepo.UpdateAccessState(ctx, entry.Id, entry.AccessLevel, false); err != nil {
		e.logger.Warn(logModule, "Failed to persist lazy expiry", map[string]interface{}{
			"subscription_id": entry.Id.String(),
			"error":           err.Error(),
		})
	}
	return entry
}

// syncPointer points the owner at entry when it is active, and clears the
// pointer when it referenced an entry that no longer is.
func (e *Engine) syncPointer(ctx context.Context, uow unitofwork.UnitOfWork, entry *entity.UserSubscription) error {
	userRepo := uow.UserRepository()
	if entry.Active {
		if err := userRepo.SetCurrentSubscription(ctx, entry.UserId, entry.Id); err != nil {
			return fmt.Errorf("failed to set current subscription: %w", err)
		}
		return nil
	}
	if err := userRepo.ClearCurrentSubscription(ctx, entry.UserId, entry.Id); err != nil {
		return fmt.Errorf("failed to clear current subscription: %w", err)
	}
	return nil
}
