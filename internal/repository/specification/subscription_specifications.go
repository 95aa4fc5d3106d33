package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByPlanID struct {
	PlanID uuid.UUID
}

func (s ByPlanID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("plan_id = ?", s.PlanID)
}

// ActivePlans limits the catalog to plans offered for sale.
type ActivePlans struct{}

func (s ActivePlans) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// UsableSubscriptionAt matches ledger entries that can still unlock a new
// property at the given instant: flagged active, inside the window and with
// quota left.
type UsableSubscriptionAt struct {
	Now time.Time
}

func (s UsableSubscriptionAt) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("active = ? AND start_date <= ? AND end_date >= ? AND remaining_quota > 0", true, s.Now, s.Now)
}

// HasViewedProperty matches ledger entries whose view ledger holds the property.
type HasViewedProperty struct {
	PropertyID uuid.UUID
}

func (s HasViewedProperty) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"EXISTS (SELECT 1 FROM subscription_property_views v WHERE v.user_subscription_id = user_subscriptions.id AND v.property_id = ?)",
		s.PropertyID,
	)
}
