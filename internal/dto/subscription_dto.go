package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubscribeRequest struct {
	UserId    string     `json:"user_id" validate:"omitempty,uuid"` // admins only, defaults to the caller
	PlanId    string     `json:"plan_id" validate:"required,uuid"`
	StartDate *time.Time `json:"start_date,omitempty"`
}

type UseViewRequest struct {
	PropertyId string `json:"property_id" validate:"required"`
}

type UpgradeSubscriptionRequest struct {
	NewPlanId        string `json:"new_plan_id" validate:"required,uuid"`
	InheritRemaining *bool  `json:"inherit_remaining,omitempty"` // defaults to true
}

type CreateSubscriptionRequest struct {
	UserId    string    `json:"user_id" validate:"required,uuid"`
	PlanId    string    `json:"plan_id" validate:"required,uuid"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
	Available *int      `json:"available,omitempty" validate:"omitempty,gte=0"`
}

type UpdateSubscriptionRequest struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Available *int       `json:"available,omitempty" validate:"omitempty,gte=0"`
	Active    *bool      `json:"active,omitempty"`
}

type ViewedPropertyResponse struct {
	PropertyId uuid.UUID `json:"property_id"`
	ViewedAt   time.Time `json:"viewed_at"`
}

type SubscriptionResponse struct {
	Id               uuid.UUID                `json:"id"`
	UserId           uuid.UUID                `json:"user_id"`
	PlanId           uuid.UUID                `json:"plan_id"`
	StartDate        time.Time                `json:"start_date"`
	EndDate          time.Time                `json:"end_date"`
	RemainingViews   int                      `json:"remaining_views"`
	AccessLevel      string                   `json:"access_level"`
	Active           bool                     `json:"active"`
	ViewedProperties []ViewedPropertyResponse `json:"viewed_properties"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

type UseViewResponse struct {
	Subscription   *SubscriptionResponse `json:"subscription"`
	RemainingViews int                   `json:"remaining_views"`
}
