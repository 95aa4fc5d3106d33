package testutil

import (
	"fmt"
	"testing"
	"time"

	"property-rental-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func CreateUser(t *testing.T, db *gorm.DB, role string) *model.User {
	t.Helper()
	phone := "+91-98765-43210"
	u := &model.User{
		Email:         fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		FullName:      "Test " + role,
		Phone:         &phone,
		Role:          role,
		Status:        "active",
		EmailVerified: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreatePlan(t *testing.T, db *gorm.DB, name string, quota, durationDays int) *model.SubscriptionPlan {
	t.Helper()
	p := &model.SubscriptionPlan{
		Name:         name,
		Price:        float64(quota) * 100,
		Quota:        quota,
		DurationDays: durationDays,
		Features:     datatypes.JSONSlice[string]{fmt.Sprintf("%d property views", quota)},
		IsActive:     true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateSubscription inserts a ledger entry directly, bypassing the engine.
func CreateSubscription(t *testing.T, db *gorm.DB, userId, planId uuid.UUID, start, end time.Time, remaining int, active bool) *model.UserSubscription {
	t.Helper()
	s := &model.UserSubscription{
		UserId:         userId,
		PlanId:         planId,
		StartDate:      start.UTC(),
		EndDate:        end.UTC(),
		RemainingQuota: remaining,
		AccessLevel:    "limited",
		Active:         active,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func CreateProperty(t *testing.T, db *gorm.DB, ownerId uuid.UUID, title, city string, rent float64, status string) *model.Property {
	t.Helper()
	lat, lng := 12.9716, 77.5946
	p := &model.Property{
		OwnerId:        ownerId,
		CreatedByRole:  "owner",
		Title:          title,
		Description:    "Spacious home in " + city,
		Address:        "42 MG Road",
		City:           city,
		State:          "Karnataka",
		Country:        "India",
		Pincode:        "560001",
		GoogleMapsLink: "https://maps.example.com/42",
		Lat:            &lat,
		Lng:            &lng,
		Rent:           rent,
		Deposit:        rent * 2,
		PropertyType:   "apartment",
		Bedrooms:       2,
		Bathrooms:      2,
		Area:           1100,
		Amenities:      datatypes.JSONSlice[string]{"parking", "lift"},
		Images:         datatypes.JSONSlice[string]{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"},
		Status:         status,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Seed binds the fixture helpers to one test and database.
type Seed struct {
	t  *testing.T
	db *gorm.DB
}

func NewSeed(t *testing.T, db *gorm.DB) *Seed {
	return &Seed{t: t, db: db}
}

func (s *Seed) DB() *gorm.DB { return s.db }

func (s *Seed) User(role string) *model.User {
	s.t.Helper()
	return CreateUser(s.t, s.db, role)
}

func (s *Seed) Plan(name string, quota, durationDays int) *model.SubscriptionPlan {
	s.t.Helper()
	return CreatePlan(s.t, s.db, name, quota, durationDays)
}

func (s *Seed) Property(ownerId uuid.UUID, title, city string, rent float64, status string) *model.Property {
	s.t.Helper()
	return CreateProperty(s.t, s.db, ownerId, title, city, rent, status)
}
