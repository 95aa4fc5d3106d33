package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Property struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerId       uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedByRole string    `gorm:"type:varchar(20);not null;default:'owner'"`
	Title         string    `gorm:"type:varchar(200);not null"`
	Description   string    `gorm:"type:text;not null"`

	Address        string   `gorm:"type:text;not null"`
	City           string   `gorm:"type:varchar(120);not null;index"`
	State          string   `gorm:"type:varchar(120);not null;index"`
	Country        string   `gorm:"type:varchar(120);not null"`
	Pincode        string   `gorm:"type:varchar(20)"`
	GoogleMapsLink string   `gorm:"type:text"`
	Lat            *float64 `gorm:"type:decimal(10,7)"`
	Lng            *float64 `gorm:"type:decimal(10,7)"`

	Rent         float64                     `gorm:"type:decimal(12,2);not null;index"`
	Deposit      float64                     `gorm:"type:decimal(12,2);not null;default:0"`
	PropertyType string                      `gorm:"type:varchar(20);not null;default:'apartment';index"`
	Bedrooms     int                         `gorm:"not null"`
	Bathrooms    int                         `gorm:"not null"`
	Area         float64                     `gorm:"not null"`
	Amenities    datatypes.JSONSlice[string] `gorm:"type:json"`
	Images       datatypes.JSONSlice[string] `gorm:"type:json"`
	Status       string                      `gorm:"type:varchar(20);not null;default:'pending';index"`

	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Property) TableName() string {
	return "properties"
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.Id == uuid.Nil {
		p.Id = uuid.New()
	}
	return nil
}
