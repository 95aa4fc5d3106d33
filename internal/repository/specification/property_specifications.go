package specification

import (
	"strings"

	"property-rental-be/internal/entity"

	"gorm.io/gorm"
)

// PubliclyListed keeps only approved or published properties.
type PubliclyListed struct{}

func (s PubliclyListed) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", []string{
		string(entity.PropertyStatusApproved),
		string(entity.PropertyStatusPublished),
	})
}

// PropertyMatching translates a listing filter into WHERE clauses.
type PropertyMatching struct {
	Filter entity.PropertyFilter
}

func (s PropertyMatching) Apply(db *gorm.DB) *gorm.DB {
	f := s.Filter
	if f.City != "" {
		db = db.Where("LOWER(city) = ?", strings.ToLower(f.City))
	}
	if f.State != "" {
		db = db.Where("LOWER(state) = ?", strings.ToLower(f.State))
	}
	if f.PropertyType != "" {
		db = db.Where("property_type = ?", string(f.PropertyType))
	}
	if f.MinRent != nil {
		db = db.Where("rent >= ?", *f.MinRent)
	}
	if f.MaxRent != nil {
		db = db.Where("rent <= ?", *f.MaxRent)
	}
	if f.Bedrooms != nil {
		db = db.Where("bedrooms >= ?", *f.Bedrooms)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		db = db.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	return db
}
