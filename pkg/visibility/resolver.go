// Package visibility decides how much of a property a requester may see and
// builds the matching projection. Detail fetches by entitled users are the
// only place a view is spent.
package visibility

import (
	"context"
	"fmt"

	"property-rental-be/internal/entity"
	"property-rental-be/internal/pkg/apperror"
	"property-rental-be/internal/pkg/logger"
	"property-rental-be/pkg/entitlement"

	"github.com/google/uuid"
)

const logModule = "PROPERTY"

// Entitlements is the read/consume surface of the entitlement engine.
type Entitlements interface {
	GetActiveEntry(ctx context.Context, userId uuid.UUID) (*entity.UserSubscription, error)
	ConsumeView(ctx context.Context, entryId, propertyId uuid.UUID) (*entitlement.ConsumeResult, error)
	FindViewingEntry(ctx context.Context, userId, propertyId uuid.UUID) (*entity.UserSubscription, error)
	ViewedAmong(ctx context.Context, userId uuid.UUID, propertyIds []uuid.UUID) (map[uuid.UUID]bool, error)
}

type OwnerDirectory interface {
	ResolveOwnerContact(ctx context.Context, ownerId uuid.UUID) (*entity.OwnerContact, error)
}

type Resolver struct {
	entitlements Entitlements
	owners       OwnerDirectory
	logger       logger.ILogger
}

func NewResolver(entitlements Entitlements, owners OwnerDirectory, log logger.ILogger) *Resolver {
	return &Resolver{
		entitlements: entitlements,
		owners:       owners,
		logger:       log,
	}
}

// requester returns the user to resolve entitlement for, or false for guests.
func (r *Resolver) requester(identity entity.Identity) (uuid.UUID, bool) {
	switch identity.State {
	case entity.AuthStateAuthenticated:
		if identity.UserId != uuid.Nil {
			return identity.UserId, true
		}
	case entity.AuthStateUnauthenticated:
		r.logger.Warn(logModule, "Rejected credentials, serving guest view", map[string]interface{}{
			"reason": identity.Reason,
		})
	}
	return uuid.Nil, false
}

// ResolveDetail projects a single property. For an authenticated requester
// with an active entry it spends at most one view on the property.
func (r *Resolver) ResolveDetail(ctx context.Context, identity entity.Identity, property *entity.Property, views int64) (Projection, error) {
	userId, ok := r.requester(identity)
	if !ok {
		return Guest(property), nil
	}

	unlocked, err := r.unlock(ctx, userId, property.Id)
	if err != nil {
		return nil, err
	}
	if !unlocked {
		return Member(property, views, false), nil
	}

	owner, err := r.owners.ResolveOwnerContact(ctx, property.OwnerId)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner contact: %w", err)
	}
	return Subscriber(property, owner, views), nil
}

// unlock reports whether the user may see the property in full.
func (r *Resolver) unlock(ctx context.Context, userId, propertyId uuid.UUID) (bool, error) {
	entry, err := r.entitlements.GetActiveEntry(ctx, userId)
	if err != nil {
		return false, err
	}

	if entry != nil {
		res, err := r.entitlements.ConsumeView(ctx, entry.Id, propertyId)
		switch {
		case err == nil:
			r.logger.Debug(logModule, "Property unlocked", map[string]interface{}{
				"user_id":         userId.String(),
				"property_id":     propertyId.String(),
				"subscription_id": entry.Id.String(),
				"already_viewed":  res.AlreadyViewed,
				"remaining_quota": res.Entry.RemainingQuota,
			})
			return true, nil
		case apperror.Is(err, apperror.KindQuotaExhausted),
			apperror.Is(err, apperror.KindNotActive),
			apperror.Is(err, apperror.KindNotFound):
			// Degrade to the member view below unless the property was
			// unlocked through another entry.
		default:
			return false, err
		}
	}

	viewing, err := r.entitlements.FindViewingEntry(ctx, userId, propertyId)
	if err != nil {
		return false, err
	}
	return viewing != nil, nil
}

// ResolveListing projects a page of properties without spending any view.
func (r *Resolver) ResolveListing(ctx context.Context, identity entity.Identity, properties []*entity.Property) ([]Projection, error) {
	out := make([]Projection, 0, len(properties))

	userId, ok := r.requester(identity)
	if !ok {
		for _, p := range properties {
			out = append(out, Guest(p))
		}
		return out, nil
	}

	entry, err := r.entitlements.GetActiveEntry(ctx, userId)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		for _, p := range properties {
			out = append(out, Member(p, 0, false))
		}
		return out, nil
	}

	ids := make([]uuid.UUID, len(properties))
	for i, p := range properties {
		ids[i] = p.Id
	}
	viewed, err := r.entitlements.ViewedAmong(ctx, userId, ids)
	if err != nil {
		return nil, err
	}

	for _, p := range properties {
		if !viewed[p.Id] {
			out = append(out, Member(p, 0, true))
			continue
		}
		owner, err := r.owners.ResolveOwnerContact(ctx, p.OwnerId)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve owner contact: %w", err)
		}
		out = append(out, Subscriber(p, owner, 0))
	}
	return out, nil
}
