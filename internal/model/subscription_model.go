package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubscriptionPlan struct {
	Id           uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Name         string                      `gorm:"type:varchar(255);not null"`
	Description  string                      `gorm:"type:text"`
	Price        float64                     `gorm:"type:decimal(10,2);not null;default:0"`
	Quota        int                         `gorm:"not null;default:0"`  // accessible slots
	DurationDays int                         `gorm:"not null;default:30"` // validity window length
	Features     datatypes.JSONSlice[string] `gorm:"type:json"`
	IsActive     bool                        `gorm:"not null"`
	SortOrder    int                         `gorm:"default:0"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt    time.Time                   `gorm:"autoUpdateTime"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

func (p *SubscriptionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.Id == uuid.Nil {
		p.Id = uuid.New()
	}
	return nil
}

type UserSubscription struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanId         uuid.UUID `gorm:"type:uuid;not null;index"`
	StartDate      time.Time `gorm:"not null"`
	EndDate        time.Time `gorm:"not null;index"`
	RemainingQuota int       `gorm:"not null;default:0;check:remaining_quota >= 0"`
	AccessLevel    string    `gorm:"type:varchar(20);not null;default:'none'"`
	Active         bool      `gorm:"not null;default:false;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`

	// Relations
	ViewedProperties []SubscriptionPropertyView `gorm:"foreignKey:UserSubscriptionId;constraint:OnDelete:CASCADE"`
}

func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

func (s *UserSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.Id == uuid.Nil {
		s.Id = uuid.New()
	}
	return nil
}

// SubscriptionPropertyView is the append-only view ledger of a subscription.
// The composite unique index is what makes a property count at most once.
type SubscriptionPropertyView struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserSubscriptionId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_property_view"`
	PropertyId         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_property_view;index"`
	ViewedAt           time.Time `gorm:"not null"`
}

func (SubscriptionPropertyView) TableName() string {
	return "subscription_property_views"
}

func (v *SubscriptionPropertyView) BeforeCreate(tx *gorm.DB) error {
	if v.Id == uuid.Nil {
		v.Id = uuid.New()
	}
	return nil
}
