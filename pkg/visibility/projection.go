package visibility

import (
	"time"

	"property-rental-be/internal/entity"

	"github.com/google/uuid"
)

type Tier string

const (
	TierGuest      Tier = "guest"
	TierMember     Tier = "member"
	TierSubscriber Tier = "subscriber"
)

// Projection is one of GuestProjection, MemberProjection or
// SubscriberProjection. Only SubscriberProjection can carry an address,
// coordinates or owner contact.
type Projection interface {
	Tier() Tier
	sealed()
}

type GuestProjection struct {
	Access    Tier      `json:"access"`
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Rent      float64   `json:"rent"`
	Image     string    `json:"image,omitempty"`
	Amenities []string  `json:"amenities"`
}

// CoarseLocation names the area without pinpointing the property.
type CoarseLocation struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type MemberProjection struct {
	Access       Tier            `json:"access"`
	Id           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Rent         float64         `json:"rent"`
	Deposit      float64         `json:"deposit"`
	PropertyType string          `json:"property_type"`
	Bedrooms     int             `json:"bedrooms"`
	Bathrooms    int             `json:"bathrooms"`
	Area         float64         `json:"area"`
	Images       []string        `json:"images"`
	Amenities    []string        `json:"amenities"`
	Views        int64           `json:"views,omitempty"`
	Location     *CoarseLocation `json:"location"`
	CreatedAt    time.Time       `json:"created_at"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Location struct {
	Address        string       `json:"address"`
	City           string       `json:"city"`
	State          string       `json:"state"`
	Country        string       `json:"country"`
	Pincode        string       `json:"pincode,omitempty"`
	GoogleMapsLink string       `json:"google_maps_link,omitempty"`
	Coordinates    *Coordinates `json:"coordinates"`
}

type OwnerContact struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
	Email string  `json:"email"`
}

type SubscriberProjection struct {
	MemberProjection
	Location Location      `json:"location"`
	Owner    *OwnerContact `json:"owner"`
}

func (GuestProjection) Tier() Tier      { return TierGuest }
func (MemberProjection) Tier() Tier     { return TierMember }
func (SubscriberProjection) Tier() Tier { return TierSubscriber }

func (GuestProjection) sealed()      {}
func (MemberProjection) sealed()     {}
func (SubscriberProjection) sealed() {}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func Guest(p *entity.Property) GuestProjection {
	g := GuestProjection{
		Access:    TierGuest,
		Id:        p.Id,
		Title:     p.Title,
		Rent:      p.Rent,
		Amenities: nonNil(p.Amenities),
	}
	if len(p.Images) > 0 {
		g.Image = p.Images[0]
	}
	return g
}

// Member builds the logged-in projection. withArea adds the coarse location
// used on listings of users holding an active entry.
func Member(p *entity.Property, views int64, withArea bool) MemberProjection {
	m := MemberProjection{
		Access:       TierMember,
		Id:           p.Id,
		Title:        p.Title,
		Description:  p.Description,
		Rent:         p.Rent,
		Deposit:      p.Deposit,
		PropertyType: string(p.PropertyType),
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Area:         p.Area,
		Images:       nonNil(p.Images),
		Amenities:    nonNil(p.Amenities),
		Views:        views,
		CreatedAt:    p.CreatedAt,
	}
	if withArea {
		m.Location = &CoarseLocation{
			City:    p.Location.City,
			State:   p.Location.State,
			Country: p.Location.Country,
		}
	}
	return m
}

// FullLocation exposes every location field, coordinates included.
func FullLocation(l entity.Location) Location {
	loc := Location{
		Address:        l.Address,
		City:           l.City,
		State:          l.State,
		Country:        l.Country,
		Pincode:        l.Pincode,
		GoogleMapsLink: l.GoogleMapsLink,
	}
	if c := l.Coordinates; c != nil {
		loc.Coordinates = &Coordinates{Lat: c.Lat, Lng: c.Lng}
	}
	return loc
}

func Subscriber(p *entity.Property, owner *entity.OwnerContact, views int64) SubscriberProjection {
	s := SubscriberProjection{
		MemberProjection: Member(p, views, false),
		Location:         FullLocation(p.Location),
	}
	s.Access = TierSubscriber
	if owner != nil {
		s.Owner = &OwnerContact{Name: owner.Name, Phone: owner.Phone, Email: owner.Email}
	}
	return s
}
