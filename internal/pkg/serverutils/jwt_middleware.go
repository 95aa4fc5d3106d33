package serverutils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"property-rental-be/internal/entity"
	"property-rental-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	LocalUserId   = "user_id"
	LocalRole     = "role"
	LocalIdentity = "identity"
)

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateToken signs an HS256 access token carrying user_id and role.
func GenerateToken(userId uuid.UUID, role entity.UserRole, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"role":    string(role),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func bearerToken(ctx *fiber.Ctx) (string, bool) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(authHeader[7:]), true
}

// verify resolves a raw token into an authenticated identity.
func verify(tokenStr string) (entity.Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return entity.Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.Identity{}, errors.New("invalid claims")
	}

	rawId, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(rawId)
	if err != nil || userId == uuid.Nil {
		return entity.Identity{}, errors.New("invalid user_id claim")
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = string(entity.UserRoleUser)
	}

	return entity.Identity{
		State:  entity.AuthStateAuthenticated,
		UserId: userId,
		Role:   entity.UserRole(role),
	}, nil
}

func storeIdentity(ctx *fiber.Ctx, identity entity.Identity) {
	ctx.Locals(LocalIdentity, identity)
	if identity.IsAuthenticated() {
		ctx.Locals(LocalUserId, identity.UserId.String())
		ctx.Locals(LocalRole, string(identity.Role))
	}
}

// JwtMiddleware rejects requests without a valid bearer token.
func JwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr, ok := bearerToken(ctx)
	if !ok {
		return WriteError(ctx, apperror.Unauthenticated("Missing token"))
	}

	identity, err := verify(tokenStr)
	if err != nil {
		return WriteError(ctx, apperror.Unauthenticated("Invalid token"))
	}

	storeIdentity(ctx, identity)
	return ctx.Next()
}

// OptionalJwtMiddleware never rejects. It records whether the caller is
// anonymous, authenticated, or presented a token that failed verification.
func OptionalJwtMiddleware(ctx *fiber.Ctx) error {
	tokenStr, ok := bearerToken(ctx)
	if !ok || tokenStr == "" {
		storeIdentity(ctx, entity.AnonymousIdentity())
		return ctx.Next()
	}

	identity, err := verify(tokenStr)
	if err != nil {
		storeIdentity(ctx, entity.Identity{
			State:  entity.AuthStateUnauthenticated,
			Reason: err.Error(),
		})
		return ctx.Next()
	}

	storeIdentity(ctx, identity)
	return ctx.Next()
}

// RequireRole must run after JwtMiddleware.
func RequireRole(roles ...entity.UserRole) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		identity := GetIdentity(ctx)
		if !identity.IsAuthenticated() {
			return WriteError(ctx, apperror.Unauthenticated("Missing token"))
		}
		for _, role := range roles {
			if identity.Role == role {
				return ctx.Next()
			}
		}
		return WriteError(ctx, apperror.Forbidden("Access denied"))
	}
}

func GetIdentity(ctx *fiber.Ctx) entity.Identity {
	if identity, ok := ctx.Locals(LocalIdentity).(entity.Identity); ok {
		return identity
	}
	return entity.AnonymousIdentity()
}

// GetUserId returns the authenticated caller's id.
func GetUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	identity := GetIdentity(ctx)
	if !identity.IsAuthenticated() {
		return uuid.Nil, apperror.Unauthenticated("Missing token")
	}
	return identity.UserId, nil
}
