package entity

import "github.com/google/uuid"

// AuthState tells apart "no credentials" from "credentials that did not verify".
type AuthState string

const (
	AuthStateAnonymous       AuthState = "anonymous"
	AuthStateAuthenticated   AuthState = "authenticated"
	AuthStateUnauthenticated AuthState = "unauthenticated"
)

type Identity struct {
	State  AuthState
	UserId uuid.UUID
	Role   UserRole
	Reason string // why verification failed, only for AuthStateUnauthenticated
}

func AnonymousIdentity() Identity {
	return Identity{State: AuthStateAnonymous}
}

func (i Identity) IsAuthenticated() bool {
	return i.State == AuthStateAuthenticated && i.UserId != uuid.Nil
}

func (i Identity) IsAdmin() bool {
	return i.IsAuthenticated() && i.Role == UserRoleAdmin
}
