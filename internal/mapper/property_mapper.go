package mapper

import (
	"property-rental-be/internal/entity"
	"property-rental-be/internal/model"
)

type PropertyMapper struct{}

func NewPropertyMapper() *PropertyMapper {
	return &PropertyMapper{}
}

func (m *PropertyMapper) ToEntity(p *model.Property) *entity.Property {
	if p == nil {
		return nil
	}
	var coords *entity.Coordinates
	if p.Lat != nil && p.Lng != nil {
		coords = &entity.Coordinates{Lat: *p.Lat, Lng: *p.Lng}
	}
	return &entity.Property{
		Id:            p.Id,
		OwnerId:       p.OwnerId,
		CreatedByRole: entity.UserRole(p.CreatedByRole),
		Title:         p.Title,
		Description:   p.Description,
		Location: entity.Location{
			Address:        p.Address,
			City:           p.City,
			State:          p.State,
			Country:        p.Country,
			Pincode:        p.Pincode,
			GoogleMapsLink: p.GoogleMapsLink,
			Coordinates:    coords,
		},
		Rent:         p.Rent,
		Deposit:      p.Deposit,
		PropertyType: entity.PropertyType(p.PropertyType),
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Area:         p.Area,
		Amenities:    append([]string{}, p.Amenities...),
		Images:       append([]string{}, p.Images...),
		Status:       entity.PropertyStatus(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (m *PropertyMapper) ToModel(p *entity.Property) *model.Property {
	if p == nil {
		return nil
	}
	mdl := &model.Property{
		Id:             p.Id,
		OwnerId:        p.OwnerId,
		CreatedByRole:  string(p.CreatedByRole),
		Title:          p.Title,
		Description:    p.Description,
		Address:        p.Location.Address,
		City:           p.Location.City,
		State:          p.Location.State,
		Country:        p.Location.Country,
		Pincode:        p.Location.Pincode,
		GoogleMapsLink: p.Location.GoogleMapsLink,
		Rent:           p.Rent,
		Deposit:        p.Deposit,
		PropertyType:   string(p.PropertyType),
		Bedrooms:       p.Bedrooms,
		Bathrooms:      p.Bathrooms,
		Area:           p.Area,
		Amenities:      p.Amenities,
		Images:         p.Images,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if c := p.Location.Coordinates; c != nil {
		lat, lng := c.Lat, c.Lng
		mdl.Lat = &lat
		mdl.Lng = &lng
	}
	return mdl
}
