package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"property-rental-be/internal/config"
	"property-rental-be/internal/entity"
	"property-rental-be/internal/model"
	"property-rental-be/internal/pkg/logger"
	"property-rental-be/internal/pkg/serverutils"
	"property-rental-be/internal/repository/memory"
	"property-rental-be/internal/repository/unitofwork"
	"property-rental-be/internal/service"
	"property-rental-be/internal/testutil"
	"property-rental-be/pkg/entitlement"
	"property-rental-be/pkg/events"
	"property-rental-be/pkg/viewcounter"
	"property-rental-be/pkg/visibility"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"error_code"`
	Data      json.RawMessage `json:"data"`
}

type testApp struct {
	app  *fiber.App
	seed *testutil.Seed
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	t.Setenv("JWT_SECRET", "controller-test-secret")

	db := testutil.NewTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	log := logger.NewNopLogger()

	engine := entitlement.NewEngine(factory, events.NopPublisher(), log)
	resolver := visibility.NewResolver(engine, service.NewOwnerDirectory(factory), log)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewPlanController(service.NewPlanService(factory, memory.NewPlanCache(time.Minute), log)).RegisterRoutes(api)
	NewSubscriptionController(service.NewSubscriptionService(engine, log)).RegisterRoutes(api)
	NewPropertyController(service.NewPropertyService(factory, resolver, viewcounter.NewRedisCounter(nil), config.CatalogConfig{
		PropertyPageSize:    10,
		PropertyMaxPageSize: 100,
	}, log)).RegisterRoutes(api)

	return &testApp{app: app, seed: testutil.NewSeed(t, db)}
}

func token(t *testing.T, u *model.User) string {
	t.Helper()
	tok, err := serverutils.GenerateToken(u.Id, entity.UserRole(u.Role), time.Hour)
	require.NoError(t, err)
	return tok
}

func (a *testApp) do(t *testing.T, method, path, tok string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestSubscriptionEndpoints(t *testing.T) {
	a := newTestApp(t)
	user := a.seed.User("user")
	plan := a.seed.Plan("Basic", 1, 30)
	userToken := token(t, user)

	status, env := a.do(t, http.MethodPost, "/api/subscriptions/subscribe", "", map[string]string{"plan_id": plan.Id.String()})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, env = a.do(t, http.MethodPost, "/api/subscriptions/subscribe", userToken, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ARGUMENT", env.ErrorCode)

	status, env = a.do(t, http.MethodPost, "/api/subscriptions/subscribe", userToken, map[string]string{"plan_id": plan.Id.String()})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var sub struct {
		Id             uuid.UUID `json:"id"`
		RemainingViews int       `json:"remaining_views"`
		Active         bool      `json:"active"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sub))
	assert.Equal(t, 1, sub.RemainingViews)
	assert.True(t, sub.Active)

	t.Run("duplicate subscription conflicts", func(t *testing.T) {
		status, env := a.do(t, http.MethodPost, "/api/subscriptions/subscribe", userToken, map[string]string{"plan_id": plan.Id.String()})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "CONFLICT", env.ErrorCode)
	})

	t.Run("unknown plan is not found", func(t *testing.T) {
		status, env := a.do(t, http.MethodPost, "/api/subscriptions/subscribe", userToken, map[string]string{"plan_id": uuid.NewString()})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", env.ErrorCode)
	})

	t.Run("active entry", func(t *testing.T) {
		status, env := a.do(t, http.MethodGet, "/api/subscriptions/active/"+user.Id.String(), userToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(env.Data), sub.Id.String())

		other := a.seed.User("user")
		status, env = a.do(t, http.MethodGet, "/api/subscriptions/active/"+user.Id.String(), token(t, other), nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", env.ErrorCode)

		status, env = a.do(t, http.MethodGet, "/api/subscriptions/active/"+other.Id.String(), token(t, other), nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "null", string(env.Data))
	})

	useView := "/api/subscriptions/" + sub.Id.String() + "/use-view"
	first, second := uuid.NewString(), uuid.NewString()

	t.Run("use view", func(t *testing.T) {
		status, env := a.do(t, http.MethodPost, useView, userToken, map[string]string{"property_id": first})
		require.Equal(t, http.StatusOK, status, env.Message)
		var res struct {
			RemainingViews int `json:"remaining_views"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.Equal(t, 0, res.RemainingViews)
	})

	t.Run("repeat view is already viewed", func(t *testing.T) {
		status, env := a.do(t, http.MethodPost, useView, userToken, map[string]string{"property_id": first})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "ALREADY_VIEWED", env.ErrorCode)
	})

	t.Run("exhausted quota", func(t *testing.T) {
		status, env := a.do(t, http.MethodPost, useView, userToken, map[string]string{"property_id": second})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "QUOTA_EXHAUSTED", env.ErrorCode)
	})

	t.Run("malformed property id", func(t *testing.T) {
		status, env := a.do(t, http.MethodPost, useView, userToken, map[string]string{"property_id": "abc"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_ARGUMENT", env.ErrorCode)
	})

	t.Run("end", func(t *testing.T) {
		status, env := a.do(t, http.MethodPut, "/api/subscriptions/"+sub.Id.String()+"/end", userToken, nil)
		require.Equal(t, http.StatusOK, status, env.Message)

		status, _ = a.do(t, http.MethodPut, "/api/subscriptions/"+sub.Id.String()+"/end", userToken, nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("admin routes reject users", func(t *testing.T) {
		status, env := a.do(t, http.MethodGet, "/api/subscriptions", userToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", env.ErrorCode)

		admin := a.seed.User("admin")
		status, _ = a.do(t, http.MethodGet, "/api/subscriptions", token(t, admin), nil)
		assert.Equal(t, http.StatusOK, status)

		status, _ = a.do(t, http.MethodDelete, "/api/subscriptions/"+sub.Id.String(), token(t, admin), nil)
		assert.Equal(t, http.StatusOK, status)
		status, _ = a.do(t, http.MethodGet, "/api/subscriptions/"+sub.Id.String(), userToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestUpgradeEndpoint(t *testing.T) {
	a := newTestApp(t)
	user := a.seed.User("user")
	basic := a.seed.Plan("Basic", 3, 30)
	premium := a.seed.Plan("Premium", 5, 30)
	userToken := token(t, user)

	status, env := a.do(t, http.MethodPost, "/api/subscriptions/subscribe", userToken, map[string]string{"plan_id": basic.Id.String()})
	require.Equal(t, http.StatusCreated, status)
	var sub struct {
		Id uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sub))

	path := "/api/subscriptions/" + sub.Id.String() + "/upgrade"
	status, env = a.do(t, http.MethodPut, path, userToken, map[string]string{"new_plan_id": basic.Id.String()})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "CONFLICT", env.ErrorCode)

	status, env = a.do(t, http.MethodPut, path, userToken, map[string]interface{}{"new_plan_id": premium.Id.String()})
	require.Equal(t, http.StatusOK, status, env.Message)
	var upgraded struct {
		PlanId         uuid.UUID `json:"plan_id"`
		RemainingViews int       `json:"remaining_views"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &upgraded))
	assert.Equal(t, premium.Id, upgraded.PlanId)
	assert.Equal(t, 8, upgraded.RemainingViews)
}

func TestPropertyEndpoints(t *testing.T) {
	a := newTestApp(t)
	owner := a.seed.User("owner")
	property := a.seed.Property(owner.Id, "Lake view flat", "Bengaluru", 25000, "published")
	user := a.seed.User("user")
	plan := a.seed.Plan("Basic", 2, 30)
	detail := "/api/properties/" + property.Id.String()

	t.Run("guest detail", func(t *testing.T) {
		status, env := a.do(t, http.MethodGet, detail, "", nil)
		require.Equal(t, http.StatusOK, status)
		var view map[string]interface{}
		require.NoError(t, json.Unmarshal(env.Data, &view))
		assert.Equal(t, "guest", view["access"])
		assert.NotContains(t, view, "location")
		assert.NotContains(t, view, "owner")
		assert.NotContains(t, view, "description")
	})

	t.Run("rejected token is served as guest", func(t *testing.T) {
		status, env := a.do(t, http.MethodGet, detail, "not-a-jwt", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(env.Data), `"access":"guest"`)
	})

	t.Run("member detail", func(t *testing.T) {
		status, env := a.do(t, http.MethodGet, detail, token(t, user), nil)
		require.Equal(t, http.StatusOK, status)
		var view map[string]interface{}
		require.NoError(t, json.Unmarshal(env.Data, &view))
		assert.Equal(t, "member", view["access"])
		assert.Nil(t, view["location"])
		assert.NotContains(t, view, "owner")
	})

	t.Run("subscriber detail", func(t *testing.T) {
		_, err := a.seedEngine(t).Subscribe(context.Background(), entitlement.SubscribeInput{UserId: user.Id, PlanId: plan.Id})
		require.NoError(t, err)

		status, env := a.do(t, http.MethodGet, detail, token(t, user), nil)
		require.Equal(t, http.StatusOK, status)
		var view struct {
			Access   string `json:"access"`
			Location struct {
				Address string `json:"address"`
			} `json:"location"`
			Owner struct {
				Email string `json:"email"`
			} `json:"owner"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &view))
		assert.Equal(t, "subscriber", view.Access)
		assert.Equal(t, "42 MG Road", view.Location.Address)
		assert.Equal(t, owner.Email, view.Owner.Email)
	})

	t.Run("listing", func(t *testing.T) {
		status, env := a.do(t, http.MethodGet, "/api/properties?city=Bengaluru&limit=5", "", nil)
		require.Equal(t, http.StatusOK, status)
		var page struct {
			Items []map[string]interface{} `json:"items"`
			Limit int                      `json:"limit"`
			Total int64                    `json:"total"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &page))
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, 5, page.Limit)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "guest", page.Items[0]["access"])
	})

	t.Run("unknown property", func(t *testing.T) {
		status, env := a.do(t, http.MethodGet, "/api/properties/"+uuid.NewString(), "", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", env.ErrorCode)

		status, _ = a.do(t, http.MethodGet, "/api/properties/not-a-uuid", "", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("create requires owner or admin", func(t *testing.T) {
		body := map[string]interface{}{
			"title":         "Fresh listing",
			"description":   "Quiet street",
			"location":      map[string]string{"address": "1 Main St", "city": "Pune", "state": "Maharashtra"},
			"rent":          15000,
			"property_type": "house",
			"bedrooms":      2,
			"bathrooms":     1,
			"area":          800,
			"images":        []string{"https://img.example.com/x.jpg"},
		}

		status, env := a.do(t, http.MethodPost, "/api/properties", token(t, user), body)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", env.ErrorCode)

		status, env = a.do(t, http.MethodPost, "/api/properties", token(t, owner), body)
		require.Equal(t, http.StatusCreated, status, env.Message)
		assert.Contains(t, string(env.Data), `"status":"pending"`)

		body["property_type"] = "castle"
		status, env = a.do(t, http.MethodPost, "/api/properties", token(t, owner), body)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_ARGUMENT", env.ErrorCode)
	})
}

func (a *testApp) seedEngine(t *testing.T) *entitlement.Engine {
	t.Helper()
	return entitlement.NewEngine(unitofwork.NewRepositoryFactory(a.seed.DB()), events.NopPublisher(), logger.NewNopLogger())
}

func TestPlanEndpoints(t *testing.T) {
	a := newTestApp(t)
	admin := a.seed.User("admin")
	user := a.seed.User("user")

	body := map[string]interface{}{"name": "Gold", "price": 499, "quota": 20, "duration_days": 30}

	status, _ := a.do(t, http.MethodPost, "/api/plans", "", body)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = a.do(t, http.MethodPost, "/api/plans", token(t, user), body)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := a.do(t, http.MethodPost, "/api/plans", token(t, admin), map[string]interface{}{"quota": -1})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Message, "name is required")

	status, env = a.do(t, http.MethodPost, "/api/plans", token(t, admin), body)
	require.Equal(t, http.StatusCreated, status, env.Message)
	var plan struct {
		Id uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &plan))

	status, env = a.do(t, http.MethodGet, "/api/plans?is_active=true", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"name":"Gold"`)

	status, _ = a.do(t, http.MethodGet, "/api/plans/"+plan.Id.String(), "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = a.do(t, http.MethodPut, "/api/plans/"+plan.Id.String(), token(t, admin), map[string]interface{}{"quota": 25})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"quota":25`)

	status, _ = a.do(t, http.MethodDelete, "/api/plans/"+plan.Id.String(), token(t, admin), nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = a.do(t, http.MethodGet, "/api/plans/"+plan.Id.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
