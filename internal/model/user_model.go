package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash  *string   `gorm:"type:varchar(255)"`
	FullName      string    `gorm:"type:varchar(255);not null"`
	Phone         *string   `gorm:"type:varchar(32)"`
	Role          string    `gorm:"type:varchar(50);not null;default:'user'"`
	Status        string    `gorm:"type:varchar(50);not null;default:'active'"`
	EmailVerified bool      `gorm:"default:false"`
	// Pointer to the ledger entry currently granting access. Only written inside
	// the same transaction that changes that entry's activity.
	CurrentSubscriptionId *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedAt             time.Time      `gorm:"autoCreateTime"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime"`
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Id == uuid.Nil {
		u.Id = uuid.New()
	}
	return nil
}
