package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePlanRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Description  string   `json:"description"`
	Price        float64  `json:"price" validate:"gte=0"`
	Quota        int      `json:"quota" validate:"gte=0"`
	DurationDays int      `json:"duration_days" validate:"gte=0"`
	Features     []string `json:"features"`
	IsActive     *bool    `json:"is_active"`
	SortOrder    int      `json:"sort_order"`
}

type UpdatePlanRequest struct {
	Name         *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description  *string   `json:"description,omitempty"`
	Price        *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Quota        *int      `json:"quota,omitempty" validate:"omitempty,gte=0"`
	DurationDays *int      `json:"duration_days,omitempty" validate:"omitempty,gte=0"`
	Features     *[]string `json:"features,omitempty"`
	IsActive     *bool     `json:"is_active,omitempty"`
	SortOrder    *int      `json:"sort_order,omitempty"`
}

type PlanResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Quota        int       `json:"quota"`
	DurationDays int       `json:"duration_days"`
	Features     []string  `json:"features"`
	IsActive     bool      `json:"is_active"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
