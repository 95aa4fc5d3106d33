package entity

import (
	"time"

	"github.com/google/uuid"
)

type PropertyType string
type PropertyStatus string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeCondo     PropertyType = "condo"

	PropertyStatusPending   PropertyStatus = "pending"
	PropertyStatusApproved  PropertyStatus = "approved"
	PropertyStatusRejected  PropertyStatus = "rejected"
	PropertyStatusPublished PropertyStatus = "published"
	PropertyStatusSold      PropertyStatus = "sold"
)

type Coordinates struct {
	Lat float64
	Lng float64
}

type Location struct {
	Address        string
	City           string
	State          string
	Country        string
	Pincode        string
	GoogleMapsLink string
	Coordinates    *Coordinates
}

type Property struct {
	Id            uuid.UUID
	OwnerId       uuid.UUID
	CreatedByRole UserRole
	Title         string
	Description   string
	Location      Location
	Rent          float64
	Deposit       float64
	PropertyType  PropertyType
	Bedrooms      int
	Bathrooms     int
	Area          float64
	Amenities     []string
	Images        []string
	Status        PropertyStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAvailable reports whether the property may be shown publicly.
func (p *Property) IsAvailable() bool {
	return p.Status == PropertyStatusApproved || p.Status == PropertyStatusPublished
}

type PropertyFilter struct {
	City         string
	State        string
	PropertyType PropertyType
	MinRent      *float64
	MaxRent      *float64
	Bedrooms     *int
	Query        string
}
