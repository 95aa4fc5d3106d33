package dto

import (
	"time"

	"property-rental-be/pkg/visibility"

	"github.com/google/uuid"
)

type LocationRequest struct {
	Address        string   `json:"address" validate:"required"`
	City           string   `json:"city" validate:"required"`
	State          string   `json:"state" validate:"required"`
	Country        string   `json:"country"`
	Pincode        string   `json:"pincode"`
	GoogleMapsLink string   `json:"google_maps_link" validate:"omitempty,url"`
	Lat            *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng            *float64 `json:"lng" validate:"omitempty,gte=-180,lte=180"`
}

type CreatePropertyRequest struct {
	OwnerId      string          `json:"owner_id" validate:"omitempty,uuid"` // admins only
	Title        string          `json:"title" validate:"required,max=200"`
	Description  string          `json:"description" validate:"required"`
	Location     LocationRequest `json:"location" validate:"required"`
	Rent         float64         `json:"rent" validate:"gt=0"`
	Deposit      *float64        `json:"deposit,omitempty" validate:"omitempty,gte=0"` // defaults to two months of rent
	PropertyType string          `json:"property_type" validate:"required,oneof=apartment house villa condo"`
	Bedrooms     int             `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int             `json:"bathrooms" validate:"gte=0"`
	Area         float64         `json:"area" validate:"gt=0"`
	Amenities    []string        `json:"amenities"`
	Images       []string        `json:"images" validate:"required,min=1,dive,required"`
}

type ListPropertiesQuery struct {
	City         string   `query:"city"`
	State        string   `query:"state"`
	PropertyType string   `query:"property_type" validate:"omitempty,oneof=apartment house villa condo"`
	MinRent      *float64 `query:"min_rent" validate:"omitempty,gte=0"`
	MaxRent      *float64 `query:"max_rent" validate:"omitempty,gte=0"`
	Bedrooms     *int     `query:"bedrooms" validate:"omitempty,gte=0"`
	Q            string   `query:"q"`
	Page         int      `query:"page" validate:"gte=0"`
	Limit        int      `query:"limit" validate:"gte=0"`
}

type PropertyPage struct {
	Items []visibility.Projection `json:"items"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
	Total int64                   `json:"total"`
}

type PropertyResponse struct {
	Id           uuid.UUID           `json:"id"`
	OwnerId      uuid.UUID           `json:"owner_id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Location     visibility.Location `json:"location"`
	Rent         float64             `json:"rent"`
	Deposit      float64             `json:"deposit"`
	PropertyType string              `json:"property_type"`
	Bedrooms     int                 `json:"bedrooms"`
	Bathrooms    int                 `json:"bathrooms"`
	Area         float64             `json:"area"`
	Amenities    []string            `json:"amenities"`
	Images       []string            `json:"images"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
}
