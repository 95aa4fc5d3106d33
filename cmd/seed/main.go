package main

import (
	"errors"
	"log"
	"os"

	"property-rental-be/internal/entity"
	"property-rental-be/internal/model"
	"property-rental-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const demoPassword = "password123"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding plan catalog")
	seedPlans(db)

	color.Cyan("\nSeeding demo accounts")
	owner := seedUser(db, "owner@example.com", "Demo Owner", entity.UserRoleOwner)
	seedUser(db, "admin@example.com", "Demo Admin", entity.UserRoleAdmin)
	seedUser(db, "tenant@example.com", "Demo Tenant", entity.UserRoleUser)

	if owner != nil {
		color.Cyan("\nSeeding demo properties")
		seedProperties(db, owner)
	}

	color.Green("\nSeeding completed. Demo password: %s", demoPassword)
}

func seedPlans(db *gorm.DB) {
	plans := []model.SubscriptionPlan{
		{Name: "Starter", Description: "Unlock a handful of listings", Price: 199, Quota: 5, DurationDays: 30, Features: datatypes.JSONSlice[string]{"5 property views", "Owner contact details", "30 days"}, IsActive: true, SortOrder: 1},
		{Name: "Standard", Description: "For an active search", Price: 399, Quota: 15, DurationDays: 30, Features: datatypes.JSONSlice[string]{"15 property views", "Owner contact details", "30 days"}, IsActive: true, SortOrder: 2},
		{Name: "Premium", Description: "Take your time", Price: 799, Quota: 40, DurationDays: 60, Features: datatypes.JSONSlice[string]{"40 property views", "Owner contact details", "60 days"}, IsActive: true, SortOrder: 3},
	}

	for _, p := range plans {
		var existing model.SubscriptionPlan
		err := db.Where("name = ?", p.Name).First(&existing).Error
		if err == nil {
			color.Yellow("Plan '%s' already exists, skipping...", p.Name)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			color.Red("Failed to look up plan '%s': %v", p.Name, err)
			continue
		}

		if err := db.Create(&p).Error; err != nil {
			color.Red("Error creating plan '%s': %v", p.Name, err)
		} else {
			color.Green("Created plan: %s (%d views, %d days)", p.Name, p.Quota, p.DurationDays)
		}
	}
}

func seedUser(db *gorm.DB, email, name string, role entity.UserRole) *model.User {
	var existing model.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		color.Yellow("User '%s' already exists, skipping...", email)
		return &existing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		color.Red("Failed to look up user '%s': %v", email, err)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		color.Red("Failed to hash password: %v", err)
		return nil
	}
	hashStr := string(hash)
	phone := "+91-90000-00000"

	u := &model.User{
		Email:         email,
		PasswordHash:  &hashStr,
		FullName:      name,
		Phone:         &phone,
		Role:          string(role),
		Status:        string(entity.UserStatusActive),
		EmailVerified: true,
	}
	if err := db.Create(u).Error; err != nil {
		color.Red("Error creating user '%s': %v", email, err)
		return nil
	}
	color.Green("Created %s: %s", role, email)
	return u
}

func seedProperties(db *gorm.DB, owner *model.User) {
	var count int64
	if err := db.Model(&model.Property{}).Where("owner_id = ?", owner.Id).Count(&count).Error; err != nil {
		color.Red("Failed to count properties: %v", err)
		return
	}
	if count > 0 {
		color.Yellow("Owner already has %d properties, skipping...", count)
		return
	}

	lat, lng := 12.9716, 77.5946
	properties := []model.Property{
		{
			OwnerId: owner.Id, CreatedByRole: string(entity.UserRoleOwner),
			Title: "Sunny 2BHK near the park", Description: "Bright corner apartment with balcony and covered parking.",
			Address: "12 MG Road", City: "Bengaluru", State: "Karnataka", Country: "India", Pincode: "560001",
			Lat: &lat, Lng: &lng,
			Rent: 25000, Deposit: 50000, PropertyType: string(entity.PropertyTypeApartment),
			Bedrooms: 2, Bathrooms: 2, Area: 1100,
			Amenities: datatypes.JSONSlice[string]{"parking", "lift", "power backup"},
			Images:    datatypes.JSONSlice[string]{"https://images.example.com/p1-front.jpg", "https://images.example.com/p1-living.jpg"},
			Status:    string(entity.PropertyStatusPublished),
		},
		{
			OwnerId: owner.Id, CreatedByRole: string(entity.UserRoleOwner),
			Title: "Independent house with garden", Description: "Three bedroom house on a quiet street, pets allowed.",
			Address: "4 Lake View Lane", City: "Pune", State: "Maharashtra", Country: "India", Pincode: "411001",
			Rent: 40000, Deposit: 80000, PropertyType: string(entity.PropertyTypeHouse),
			Bedrooms: 3, Bathrooms: 3, Area: 2200,
			Amenities: datatypes.JSONSlice[string]{"garden", "parking"},
			Images:    datatypes.JSONSlice[string]{"https://images.example.com/p2-front.jpg"},
			Status:    string(entity.PropertyStatusApproved),
		},
		{
			OwnerId: owner.Id, CreatedByRole: string(entity.UserRoleOwner),
			Title: "Studio awaiting review", Description: "Compact studio close to the metro.",
			Address: "88 Station Road", City: "Mumbai", State: "Maharashtra", Country: "India", Pincode: "400001",
			Rent: 18000, Deposit: 36000, PropertyType: string(entity.PropertyTypeCondo),
			Bedrooms: 1, Bathrooms: 1, Area: 450,
			Images: datatypes.JSONSlice[string]{"https://images.example.com/p3-front.jpg"},
			Status: string(entity.PropertyStatusPending),
		},
	}

	for _, p := range properties {
		if err := db.Create(&p).Error; err != nil {
			color.Red("Error creating property '%s': %v", p.Title, err)
		} else {
			color.Green("Created property: %s (%s)", p.Title, p.Status)
		}
	}
}
