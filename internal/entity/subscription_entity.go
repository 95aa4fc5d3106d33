// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type AccessLevel string

const (
	AccessLevelNone    AccessLevel = "none"
	AccessLevelLimited AccessLevel = "limited"
	AccessLevelFull    AccessLevel = "full"
)

// Above this many remaining views an entry is considered full access.
const LimitedAccessCeiling = 10

type SubscriptionPlan struct {
	Id           uuid.UUID
	Name         string
	Description  string
	Price        float64
	Quota        int // accessible slots granted on issuance
	DurationDays int // validity window, 0 means the default
	Features     []string
	IsActive     bool
	SortOrder    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ViewedProperty is one permanent record of a consumed view.
type ViewedProperty struct {
	PropertyId uuid.UUID
	ViewedAt   time.Time
}

// UserSubscription is one issued entitlement ledger entry.
type UserSubscription struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	PlanId           uuid.UUID
	StartDate        time.Time
	EndDate          time.Time
	RemainingQuota   int
	AccessLevel      AccessLevel
	Active           bool
	ViewedProperties []ViewedProperty
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// InWindow reports whether now lies inside [StartDate, EndDate].
func (s *UserSubscription) InWindow(now time.Time) bool {
	return !now.Before(s.StartDate) && !now.After(s.EndDate)
}

// ComputeActive is the pure activity predicate used whenever the cached
// Active flag is recomputed.
func (s *UserSubscription) ComputeActive(now time.Time) bool {
	return s.InWindow(now) && s.RemainingQuota > 0
}

// UsableAt additionally honors the stored flag, which stays false after an
// explicit end even while the window has not elapsed.
func (s *UserSubscription) UsableAt(now time.Time) bool {
	return s.Active && s.ComputeActive(now)
}

func (s *UserSubscription) HasViewed(propertyId uuid.UUID) bool {
	for _, v := range s.ViewedProperties {
		if v.PropertyId == propertyId {
			return true
		}
	}
	return false
}

// ComputeAccessLevel derives the access category from remaining views.
func ComputeAccessLevel(remaining int) AccessLevel {
	switch {
	case remaining <= 0:
		return AccessLevelNone
	case remaining <= LimitedAccessCeiling:
		return AccessLevelLimited
	default:
		return AccessLevelFull
	}
}
