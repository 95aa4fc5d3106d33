package service

import (
	"context"
	"sync"
	"testing"

	"property-rental-be/internal/config"
	"property-rental-be/internal/dto"
	"property-rental-be/internal/entity"
	"property-rental-be/internal/model"
	"property-rental-be/internal/pkg/apperror"
	"property-rental-be/internal/pkg/logger"
	"property-rental-be/internal/repository/unitofwork"
	"property-rental-be/internal/testutil"
	"property-rental-be/pkg/entitlement"
	"property-rental-be/pkg/events"
	"property-rental-be/pkg/visibility"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryCounter struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int64
}

func (c *memoryCounter) Increment(_ context.Context, id uuid.UUID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[uuid.UUID]int64{}
	}
	c.counts[id]++
	return c.counts[id], nil
}

func (c *memoryCounter) Get(_ context.Context, id uuid.UUID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[id], nil
}

type propertyFixture struct {
	db      *gorm.DB
	engine  *entitlement.Engine
	service PropertyService
	owner   *model.User
}

func newPropertyFixture(t *testing.T) *propertyFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	log := logger.NewNopLogger()

	engine := entitlement.NewEngine(factory, events.NopPublisher(), log)
	resolver := visibility.NewResolver(engine, NewOwnerDirectory(factory), log)
	svc := NewPropertyService(factory, resolver, &memoryCounter{}, config.CatalogConfig{
		PropertyPageSize:    10,
		PropertyMaxPageSize: 100,
	}, log)

	return &propertyFixture{
		db:      db,
		engine:  engine,
		service: svc,
		owner:   testutil.CreateUser(t, db, "owner"),
	}
}

func authenticated(userId uuid.UUID) entity.Identity {
	return entity.Identity{State: entity.AuthStateAuthenticated, UserId: userId, Role: entity.UserRoleUser}
}

func (f *propertyFixture) subscriber(t *testing.T, quota int) (*model.User, *entity.UserSubscription) {
	t.Helper()
	user := testutil.CreateUser(t, f.db, "user")
	plan := testutil.CreatePlan(t, f.db, "Plan "+uuid.NewString()[:6], quota, 30)
	entry, err := f.engine.Subscribe(context.Background(), entitlement.SubscribeInput{UserId: user.Id, PlanId: plan.Id})
	require.NoError(t, err)
	return user, entry
}

func (f *propertyFixture) remaining(t *testing.T, entryId uuid.UUID) int {
	t.Helper()
	var s model.UserSubscription
	require.NoError(t, f.db.First(&s, "id = ?", entryId).Error)
	return s.RemainingQuota
}

func TestGetProperty_Guest(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()
	p := testutil.CreateProperty(t, f.db, f.owner.Id, "Lake view flat", "Bengaluru", 25000, "published")
	_, entry := f.subscriber(t, 2)

	for _, identity := range []entity.Identity{
		entity.AnonymousIdentity(),
		{State: entity.AuthStateUnauthenticated, Reason: "token is expired"},
	} {
		projection, err := f.service.GetProperty(ctx, identity, p.Id)
		require.NoError(t, err)

		guest, ok := projection.(visibility.GuestProjection)
		require.True(t, ok, "expected guest projection, got %T", projection)
		assert.Equal(t, "Lake view flat", guest.Title)
		assert.Equal(t, "https://img.example.com/1.jpg", guest.Image)
	}

	assert.Equal(t, 2, f.remaining(t, entry.Id))
	var views int64
	require.NoError(t, f.db.Model(&model.SubscriptionPropertyView{}).Count(&views).Error)
	assert.Zero(t, views)
}

func TestGetProperty_SubscriberConsumesOnce(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()
	p := testutil.CreateProperty(t, f.db, f.owner.Id, "Garden house", "Pune", 40000, "approved")
	user, entry := f.subscriber(t, 2)

	projection, err := f.service.GetProperty(ctx, authenticated(user.Id), p.Id)
	require.NoError(t, err)

	full, ok := projection.(visibility.SubscriberProjection)
	require.True(t, ok, "expected subscriber projection, got %T", projection)
	assert.Equal(t, "42 MG Road", full.Location.Address)
	require.NotNil(t, full.Location.Coordinates)
	require.NotNil(t, full.Owner)
	assert.Equal(t, f.owner.Email, full.Owner.Email)
	assert.Equal(t, f.owner.FullName, full.Owner.Name)
	assert.Equal(t, int64(1), full.Views)
	assert.Equal(t, 1, f.remaining(t, entry.Id))

	// A repeated fetch is an already-viewed read.
	projection, err = f.service.GetProperty(ctx, authenticated(user.Id), p.Id)
	require.NoError(t, err)
	assert.Equal(t, visibility.TierSubscriber, projection.Tier())
	assert.Equal(t, 1, f.remaining(t, entry.Id))
}

func TestGetProperty_ExhaustedQuota(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()
	first := testutil.CreateProperty(t, f.db, f.owner.Id, "First", "Pune", 20000, "published")
	second := testutil.CreateProperty(t, f.db, f.owner.Id, "Second", "Pune", 21000, "published")
	user, entry := f.subscriber(t, 1)

	projection, err := f.service.GetProperty(ctx, authenticated(user.Id), first.Id)
	require.NoError(t, err)
	assert.Equal(t, visibility.TierSubscriber, projection.Tier())
	assert.Equal(t, 0, f.remaining(t, entry.Id))

	t.Run("new property degrades to member view", func(t *testing.T) {
		projection, err := f.service.GetProperty(ctx, authenticated(user.Id), second.Id)
		require.NoError(t, err)

		member, ok := projection.(visibility.MemberProjection)
		require.True(t, ok, "expected member projection, got %T", projection)
		assert.Nil(t, member.Location)
		assert.Equal(t, "Second", member.Title)
		assert.Equal(t, 2, member.Bedrooms)
	})

	t.Run("history stays unlocked", func(t *testing.T) {
		projection, err := f.service.GetProperty(ctx, authenticated(user.Id), first.Id)
		require.NoError(t, err)
		assert.Equal(t, visibility.TierSubscriber, projection.Tier())
	})

	t.Run("history survives an explicit end", func(t *testing.T) {
		_, err := f.engine.End(ctx, entry.Id)
		require.NoError(t, err)

		projection, err := f.service.GetProperty(ctx, authenticated(user.Id), first.Id)
		require.NoError(t, err)
		assert.Equal(t, visibility.TierSubscriber, projection.Tier())
	})
}

func TestGetProperty_WithoutSubscription(t *testing.T) {
	f := newPropertyFixture(t)
	p := testutil.CreateProperty(t, f.db, f.owner.Id, "Villa", "Goa", 90000, "published")
	user := testutil.CreateUser(t, f.db, "user")

	projection, err := f.service.GetProperty(context.Background(), authenticated(user.Id), p.Id)
	require.NoError(t, err)
	assert.Equal(t, visibility.TierMember, projection.Tier())
}

func TestGetProperty_NotPubliclyListed(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()

	for _, status := range []string{"pending", "rejected", "sold"} {
		p := testutil.CreateProperty(t, f.db, f.owner.Id, "Hidden "+status, "Pune", 10000, status)
		_, err := f.service.GetProperty(ctx, entity.AnonymousIdentity(), p.Id)
		assert.True(t, apperror.Is(err, apperror.KindNotFound), status)
	}

	_, err := f.service.GetProperty(ctx, entity.AnonymousIdentity(), uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestListProperties(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()
	viewed := testutil.CreateProperty(t, f.db, f.owner.Id, "Viewed flat", "Bengaluru", 25000, "published")
	testutil.CreateProperty(t, f.db, f.owner.Id, "Other flat", "Bengaluru", 30000, "approved")
	testutil.CreateProperty(t, f.db, f.owner.Id, "Pune flat", "Pune", 15000, "published")
	testutil.CreateProperty(t, f.db, f.owner.Id, "Pending flat", "Bengaluru", 15000, "pending")

	user, entry := f.subscriber(t, 3)
	_, err := f.service.GetProperty(ctx, authenticated(user.Id), viewed.Id)
	require.NoError(t, err)
	require.Equal(t, 2, f.remaining(t, entry.Id))

	t.Run("guest cards", func(t *testing.T) {
		page, err := f.service.ListProperties(ctx, entity.AnonymousIdentity(), &dto.ListPropertiesQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 10, page.Limit)
		for _, item := range page.Items {
			assert.Equal(t, visibility.TierGuest, item.Tier())
		}
	})

	t.Run("member cards for users without entitlement", func(t *testing.T) {
		other := testutil.CreateUser(t, f.db, "user")
		page, err := f.service.ListProperties(ctx, authenticated(other.Id), &dto.ListPropertiesQuery{})
		require.NoError(t, err)
		for _, item := range page.Items {
			member, ok := item.(visibility.MemberProjection)
			require.True(t, ok)
			assert.Nil(t, member.Location)
		}
	})

	t.Run("subscriber listing never consumes", func(t *testing.T) {
		page, err := f.service.ListProperties(ctx, authenticated(user.Id), &dto.ListPropertiesQuery{City: "bengaluru"})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)

		tiers := map[uuid.UUID]visibility.Tier{}
		for _, item := range page.Items {
			switch p := item.(type) {
			case visibility.SubscriberProjection:
				tiers[p.Id] = p.Tier()
			case visibility.MemberProjection:
				require.NotNil(t, p.Location)
				assert.Equal(t, "Bengaluru", p.Location.City)
				tiers[p.Id] = p.Tier()
			default:
				t.Fatalf("unexpected projection %T", item)
			}
		}
		assert.Equal(t, visibility.TierSubscriber, tiers[viewed.Id])
		assert.Equal(t, 2, f.remaining(t, entry.Id))
	})

	t.Run("filters and pagination", func(t *testing.T) {
		maxRent := 26000.0
		page, err := f.service.ListProperties(ctx, entity.AnonymousIdentity(), &dto.ListPropertiesQuery{MaxRent: &maxRent})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)

		page, err = f.service.ListProperties(ctx, entity.AnonymousIdentity(), &dto.ListPropertiesQuery{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Len(t, page.Items, 1)

		page, err = f.service.ListProperties(ctx, entity.AnonymousIdentity(), &dto.ListPropertiesQuery{Limit: 1000})
		require.NoError(t, err)
		assert.Equal(t, 100, page.Limit)

		page, err = f.service.ListProperties(ctx, entity.AnonymousIdentity(), &dto.ListPropertiesQuery{Q: "PUNE"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Pune flat", page.Items[0].(visibility.GuestProjection).Title)
	})
}

func TestCreateProperty(t *testing.T) {
	f := newPropertyFixture(t)
	ctx := context.Background()
	req := func() *dto.CreatePropertyRequest {
		return &dto.CreatePropertyRequest{
			Title:       "New listing",
			Description: "Two bedroom flat",
			Location: dto.LocationRequest{
				Address: "1 Brigade Road",
				City:    "Bengaluru",
				State:   "Karnataka",
			},
			Rent:         20000,
			PropertyType: "apartment",
			Bedrooms:     2,
			Bathrooms:    1,
			Area:         900,
			Images:       []string{"https://img.example.com/new.jpg"},
		}
	}

	t.Run("owner lists for themselves", func(t *testing.T) {
		actor := entity.Identity{State: entity.AuthStateAuthenticated, UserId: f.owner.Id, Role: entity.UserRoleOwner}
		res, err := f.service.CreateProperty(ctx, actor, req())
		require.NoError(t, err)
		assert.Equal(t, f.owner.Id, res.OwnerId)
		assert.Equal(t, "pending", res.Status)
		assert.Equal(t, 40000.0, res.Deposit)
		assert.Equal(t, []string{}, res.Amenities)

		// Pending listings stay hidden.
		_, err = f.service.GetProperty(ctx, entity.AnonymousIdentity(), res.Id)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("admin must name the owner", func(t *testing.T) {
		admin := testutil.CreateUser(t, f.db, "admin")
		actor := entity.Identity{State: entity.AuthStateAuthenticated, UserId: admin.Id, Role: entity.UserRoleAdmin}

		_, err := f.service.CreateProperty(ctx, actor, req())
		assert.True(t, apperror.Is(err, apperror.KindInvalidArgument))

		r := req()
		r.OwnerId = f.owner.Id.String()
		deposit := 5000.0
		r.Deposit = &deposit
		res, err := f.service.CreateProperty(ctx, actor, r)
		require.NoError(t, err)
		assert.Equal(t, f.owner.Id, res.OwnerId)
		assert.Equal(t, 5000.0, res.Deposit)

		r.OwnerId = uuid.NewString()
		_, err = f.service.CreateProperty(ctx, actor, r)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("tenants cannot list", func(t *testing.T) {
		tenant := testutil.CreateUser(t, f.db, "user")
		_, err := f.service.CreateProperty(ctx, authenticated(tenant.Id), req())
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
	})
}
