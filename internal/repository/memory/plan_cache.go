package memory

import (
	"time"

	"property-rental-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	allPlansKey    = "plans:all"
	activePlansKey = "plans:active"
)

// PlanCache holds public reads of the plan catalog for a short TTL.
type PlanCache struct {
	cache *cache.Cache
}

func NewPlanCache(ttl time.Duration) *PlanCache {
	return &PlanCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func listKey(activeOnly bool) string {
	if activeOnly {
		return activePlansKey
	}
	return allPlansKey
}

func planKey(id uuid.UUID) string {
	return "plan:" + id.String()
}

func (c *PlanCache) GetList(activeOnly bool) ([]*entity.SubscriptionPlan, bool) {
	if x, found := c.cache.Get(listKey(activeOnly)); found {
		return x.([]*entity.SubscriptionPlan), true
	}
	return nil, false
}

func (c *PlanCache) SetList(activeOnly bool, plans []*entity.SubscriptionPlan) {
	c.cache.Set(listKey(activeOnly), plans, cache.DefaultExpiration)
}

func (c *PlanCache) Get(id uuid.UUID) (*entity.SubscriptionPlan, bool) {
	if x, found := c.cache.Get(planKey(id)); found {
		return x.(*entity.SubscriptionPlan), true
	}
	return nil, false
}

func (c *PlanCache) Set(plan *entity.SubscriptionPlan) {
	c.cache.Set(planKey(plan.Id), plan, cache.DefaultExpiration)
}

// Invalidate drops every cached read after a catalog write.
func (c *PlanCache) Invalidate() {
	c.cache.Flush()
}
