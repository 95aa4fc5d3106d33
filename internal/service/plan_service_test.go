package service

import (
	"context"
	"testing"
	"time"

	"property-rental-be/internal/dto"
	"property-rental-be/internal/pkg/apperror"
	"property-rental-be/internal/pkg/logger"
	"property-rental-be/internal/repository/memory"
	"property-rental-be/internal/repository/unitofwork"
	"property-rental-be/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanService(t *testing.T) (PlanService, *testutil.Seed) {
	t.Helper()
	db := testutil.NewTestDB(t)
	svc := NewPlanService(unitofwork.NewRepositoryFactory(db), memory.NewPlanCache(time.Minute), logger.NewNopLogger())
	return svc, testutil.NewSeed(t, db)
}

func TestPlanService_CRUD(t *testing.T) {
	svc, _ := newPlanService(t)
	ctx := context.Background()

	created, err := svc.CreatePlan(ctx, &dto.CreatePlanRequest{
		Name:         "Gold",
		Price:        499,
		Quota:        20,
		DurationDays: 45,
		Features:     []string{"20 property views"},
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, 20, created.Quota)

	got, err := svc.GetPlan(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Gold", got.Name)
	assert.Equal(t, []string{"20 property views"}, got.Features)

	inactive := false
	hidden, err := svc.CreatePlan(ctx, &dto.CreatePlanRequest{Name: "Legacy", Quota: 1, IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, hidden.IsActive)

	all, err := svc.ListPlans(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.ListPlans(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, created.Id, active[0].Id)

	quota := 25
	name := "Gold Plus"
	updated, err := svc.UpdatePlan(ctx, created.Id, &dto.UpdatePlanRequest{Name: &name, Quota: &quota})
	require.NoError(t, err)
	assert.Equal(t, "Gold Plus", updated.Name)
	assert.Equal(t, 25, updated.Quota)
	assert.Equal(t, 45, updated.DurationDays)

	// Writes invalidate cached reads.
	got, err = svc.GetPlan(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, 25, got.Quota)
	active, err = svc.ListPlans(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "Gold Plus", active[0].Name)

	require.NoError(t, svc.DeletePlan(ctx, hidden.Id))
	_, err = svc.GetPlan(ctx, hidden.Id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	all, err = svc.ListPlans(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPlanService_NotFound(t *testing.T) {
	svc, _ := newPlanService(t)
	ctx := context.Background()

	_, err := svc.GetPlan(ctx, uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	quota := 1
	_, err = svc.UpdatePlan(ctx, uuid.New(), &dto.UpdatePlanRequest{Quota: &quota})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = svc.DeletePlan(ctx, uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestPlanService_DeleteReferencedPlan(t *testing.T) {
	svc, seed := newPlanService(t)
	ctx := context.Background()
	user := seed.User("user")
	plan := seed.Plan("Basic", 3, 30)
	now := time.Now().UTC()
	testutil.CreateSubscription(t, seed.DB(), user.Id, plan.Id, now, now.Add(24*time.Hour), 3, true)

	err := svc.DeletePlan(ctx, plan.Id)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = svc.GetPlan(ctx, plan.Id)
	assert.NoError(t, err)
}
