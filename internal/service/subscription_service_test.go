package service

import (
	"context"
	"testing"
	"time"

	"property-rental-be/internal/dto"
	"property-rental-be/internal/entity"
	"property-rental-be/internal/pkg/apperror"
	"property-rental-be/internal/pkg/logger"
	"property-rental-be/internal/repository/unitofwork"
	"property-rental-be/internal/testutil"
	"property-rental-be/pkg/entitlement"
	"property-rental-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscriptionService(t *testing.T) (SubscriptionService, *testutil.Seed) {
	t.Helper()
	db := testutil.NewTestDB(t)
	engine := entitlement.NewEngine(unitofwork.NewRepositoryFactory(db), events.NopPublisher(), logger.NewNopLogger())
	return NewSubscriptionService(engine, logger.NewNopLogger()), testutil.NewSeed(t, db)
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	svc, seed := newSubscriptionService(t)
	ctx := context.Background()
	user := seed.User("user")
	plan := seed.Plan("Basic", 3, 30)

	t.Run("defaults to the caller", func(t *testing.T) {
		res, err := svc.Subscribe(ctx, authenticated(user.Id), &dto.SubscribeRequest{PlanId: plan.Id.String()})
		require.NoError(t, err)
		assert.Equal(t, user.Id, res.UserId)
		assert.Equal(t, 3, res.RemainingViews)
		assert.True(t, res.Active)
		assert.Equal(t, []dto.ViewedPropertyResponse{}, res.ViewedProperties)
	})

	t.Run("users cannot subscribe others", func(t *testing.T) {
		other := seed.User("user")
		_, err := svc.Subscribe(ctx, authenticated(user.Id), &dto.SubscribeRequest{
			UserId: other.Id.String(),
			PlanId: plan.Id.String(),
		})
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
	})

	t.Run("admins subscribe anyone", func(t *testing.T) {
		admin := seed.User("admin")
		other := seed.User("user")
		actor := entity.Identity{State: entity.AuthStateAuthenticated, UserId: admin.Id, Role: entity.UserRoleAdmin}
		res, err := svc.Subscribe(ctx, actor, &dto.SubscribeRequest{
			UserId: other.Id.String(),
			PlanId: plan.Id.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, other.Id, res.UserId)
	})

	t.Run("unknown plan", func(t *testing.T) {
		_, err := svc.Subscribe(ctx, authenticated(seed.User("user").Id), &dto.SubscribeRequest{PlanId: uuid.NewString()})
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}

func TestSubscriptionService_UseView(t *testing.T) {
	svc, seed := newSubscriptionService(t)
	ctx := context.Background()
	user := seed.User("user")
	plan := seed.Plan("Basic", 2, 30)
	entry, err := svc.Subscribe(ctx, authenticated(user.Id), &dto.SubscribeRequest{PlanId: plan.Id.String()})
	require.NoError(t, err)

	propertyA, propertyB, propertyC := uuid.New(), uuid.New(), uuid.New()

	res, err := svc.UseView(ctx, authenticated(user.Id), entry.Id, &dto.UseViewRequest{PropertyId: propertyA.String()})
	require.NoError(t, err)
	assert.Equal(t, 1, res.RemainingViews)
	require.Len(t, res.Subscription.ViewedProperties, 1)
	assert.Equal(t, propertyA, res.Subscription.ViewedProperties[0].PropertyId)

	_, err = svc.UseView(ctx, authenticated(user.Id), entry.Id, &dto.UseViewRequest{PropertyId: propertyA.String()})
	assert.True(t, apperror.Is(err, apperror.KindAlreadyViewed))

	res, err = svc.UseView(ctx, authenticated(user.Id), entry.Id, &dto.UseViewRequest{PropertyId: propertyB.String()})
	require.NoError(t, err)
	assert.Equal(t, 0, res.RemainingViews)
	assert.False(t, res.Subscription.Active)

	_, err = svc.UseView(ctx, authenticated(user.Id), entry.Id, &dto.UseViewRequest{PropertyId: propertyC.String()})
	assert.True(t, apperror.Is(err, apperror.KindQuotaExhausted))

	_, err = svc.UseView(ctx, authenticated(user.Id), entry.Id, &dto.UseViewRequest{PropertyId: "not-a-uuid"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))

	_, err = svc.UseView(ctx, authenticated(seed.User("user").Id), entry.Id, &dto.UseViewRequest{PropertyId: propertyC.String()})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestSubscriptionService_UpgradeInheritsByDefault(t *testing.T) {
	svc, seed := newSubscriptionService(t)
	ctx := context.Background()
	user := seed.User("user")
	basic := seed.Plan("Basic", 3, 30)
	premium := seed.Plan("Premium", 5, 30)

	entry, err := svc.Subscribe(ctx, authenticated(user.Id), &dto.SubscribeRequest{PlanId: basic.Id.String()})
	require.NoError(t, err)

	res, err := svc.Upgrade(ctx, authenticated(user.Id), entry.Id, &dto.UpgradeSubscriptionRequest{NewPlanId: premium.Id.String()})
	require.NoError(t, err)
	assert.Equal(t, premium.Id, res.PlanId)
	assert.Equal(t, 8, res.RemainingViews)

	inherit := false
	_, err = svc.Upgrade(ctx, authenticated(user.Id), entry.Id, &dto.UpgradeSubscriptionRequest{
		NewPlanId:        premium.Id.String(),
		InheritRemaining: &inherit,
	})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	res, err = svc.Upgrade(ctx, authenticated(user.Id), entry.Id, &dto.UpgradeSubscriptionRequest{
		NewPlanId:        basic.Id.String(),
		InheritRemaining: &inherit,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.RemainingViews)
}

func TestSubscriptionService_ActiveEndAndList(t *testing.T) {
	svc, seed := newSubscriptionService(t)
	ctx := context.Background()
	user := seed.User("user")
	plan := seed.Plan("Basic", 3, 30)

	active, err := svc.GetActive(ctx, authenticated(user.Id), user.Id)
	require.NoError(t, err)
	assert.Nil(t, active)

	entry, err := svc.Subscribe(ctx, authenticated(user.Id), &dto.SubscribeRequest{PlanId: plan.Id.String()})
	require.NoError(t, err)

	active, err = svc.GetActive(ctx, authenticated(user.Id), user.Id)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, entry.Id, active.Id)

	_, err = svc.GetActive(ctx, authenticated(seed.User("user").Id), user.Id)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	ended, err := svc.End(ctx, authenticated(user.Id), entry.Id)
	require.NoError(t, err)
	assert.False(t, ended.Active)
	assert.False(t, ended.EndDate.After(time.Now().UTC()))

	active, err = svc.GetActive(ctx, authenticated(user.Id), user.Id)
	require.NoError(t, err)
	assert.Nil(t, active)

	mine, err := svc.ListMine(ctx, authenticated(user.Id))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, entry.Id, mine[0].Id)

	got, err := svc.Get(ctx, authenticated(user.Id), entry.Id)
	require.NoError(t, err)
	assert.Equal(t, entry.Id, got.Id)

	_, err = svc.Get(ctx, authenticated(user.Id), uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestSubscriptionService_AdminOperations(t *testing.T) {
	svc, seed := newSubscriptionService(t)
	ctx := context.Background()
	user := seed.User("user")
	plan := seed.Plan("Basic", 3, 30)
	start := time.Now().UTC().Add(-time.Hour)
	available := 7

	created, err := svc.Create(ctx, &dto.CreateSubscriptionRequest{
		UserId:    user.Id.String(),
		PlanId:    plan.Id.String(),
		StartDate: start,
		EndDate:   start.Add(10 * 24 * time.Hour),
		Available: &available,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, created.RemainingViews)
	assert.True(t, created.Active)

	zero := 0
	updated, err := svc.Update(ctx, created.Id, &dto.UpdateSubscriptionRequest{Available: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.RemainingViews)
	assert.False(t, updated.Active)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.Remove(ctx, created.Id))
	_, err = svc.Get(ctx, entity.Identity{State: entity.AuthStateAuthenticated, UserId: uuid.New(), Role: entity.UserRoleAdmin}, created.Id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
