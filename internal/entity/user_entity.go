// FILE: internal/entity/user_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleOwner UserRole = "owner"
	UserRoleAdmin UserRole = "admin"

	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	Id            uuid.UUID
	Email         string
	PasswordHash  *string
	FullName      string
	Phone         *string
	Role          UserRole
	Status        UserStatus
	EmailVerified bool
	// Ledger entry currently granting access, if any.
	CurrentSubscriptionId *uuid.UUID
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// OwnerContact is what the owner directory reveals to entitled viewers.
type OwnerContact struct {
	Id    uuid.UUID
	Name  string
	Phone *string
	Email string
}
