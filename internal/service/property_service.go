// Service for property detail and listing reads, filtered by entitlement
package service

import (
	"context"
	"fmt"

	"property-rental-be/internal/config"
	"property-rental-be/internal/dto"
	"property-rental-be/internal/entity"
	"property-rental-be/internal/pkg/apperror"
	"property-rental-be/internal/pkg/logger"
	"property-rental-be/internal/repository/specification"
	"property-rental-be/internal/repository/unitofwork"
	"property-rental-be/pkg/viewcounter"
	"property-rental-be/pkg/visibility"

	"github.com/google/uuid"
)

type PropertyService interface {
	GetProperty(ctx context.Context, identity entity.Identity, id uuid.UUID) (visibility.Projection, error)
	ListProperties(ctx context.Context, identity entity.Identity, query *dto.ListPropertiesQuery) (*dto.PropertyPage, error)
	CreateProperty(ctx context.Context, actor entity.Identity, req *dto.CreatePropertyRequest) (*dto.PropertyResponse, error)
}

type propertyService struct {
	uowFactory unitofwork.RepositoryFactory
	resolver   *visibility.Resolver
	counter    viewcounter.Counter
	catalog    config.CatalogConfig
	logger     logger.ILogger
}

func NewPropertyService(
	uowFactory unitofwork.RepositoryFactory,
	resolver *visibility.Resolver,
	counter viewcounter.Counter,
	catalog config.CatalogConfig,
	logger logger.ILogger,
) PropertyService {
	return &propertyService{
		uowFactory: uowFactory,
		resolver:   resolver,
		counter:    counter,
		catalog:    catalog,
		logger:     logger,
	}
}

func (s *propertyService) GetProperty(ctx context.Context, identity entity.Identity, id uuid.UUID) (visibility.Projection, error) {
	property, err := s.uowFactory.NewUnitOfWork(ctx).PropertyRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.PubliclyListed{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return nil, apperror.NotFound("property not found")
	}

	views, err := s.counter.Increment(ctx, property.Id)
	if err != nil {
		s.logger.Warn("PROPERTY", "Failed to count property view", map[string]interface{}{
			"property_id": property.Id.String(),
			"error":       err.Error(),
		})
	}

	return s.resolver.ResolveDetail(ctx, identity, property, views)
}

func (s *propertyService) pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.catalog.PropertyPageSize
	}
	if limit > s.catalog.PropertyMaxPageSize {
		limit = s.catalog.PropertyMaxPageSize
	}
	return page, limit
}

func (s *propertyService) ListProperties(ctx context.Context, identity entity.Identity, query *dto.ListPropertiesQuery) (*dto.PropertyPage, error) {
	page, limit := s.pageBounds(query.Page, query.Limit)
	filter := specification.PropertyMatching{Filter: entity.PropertyFilter{
		City:         query.City,
		State:        query.State,
		PropertyType: entity.PropertyType(query.PropertyType),
		MinRent:      query.MinRent,
		MaxRent:      query.MaxRent,
		Bedrooms:     query.Bedrooms,
		Query:        query.Q,
	}}

	repo := s.uowFactory.NewUnitOfWork(ctx).PropertyRepository()
	total, err := repo.Count(ctx, specification.PubliclyListed{}, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	properties, err := repo.FindAll(ctx,
		specification.PubliclyListed{},
		filter,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	items, err := s.resolver.ResolveListing(ctx, identity, properties)
	if err != nil {
		return nil, err
	}

	return &dto.PropertyPage{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	}, nil
}

// CreateProperty lists a property for review. Owners list for themselves,
// admins must name the owner.
func (s *propertyService) CreateProperty(ctx context.Context, actor entity.Identity, req *dto.CreatePropertyRequest) (*dto.PropertyResponse, error) {
	var ownerId uuid.UUID
	switch {
	case actor.IsAdmin():
		if req.OwnerId == "" {
			return nil, apperror.InvalidArgument("owner_id is required")
		}
		id, err := parseId(req.OwnerId, "owner_id")
		if err != nil {
			return nil, err
		}
		ownerId = id
	case actor.IsAuthenticated() && actor.Role == entity.UserRoleOwner:
		ownerId = actor.UserId
	default:
		return nil, apperror.Forbidden("Access denied")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: ownerId}, specification.ActiveUsers{})
	if err != nil {
		return nil, fmt.Errorf("failed to load owner: %w", err)
	}
	if owner == nil {
		return nil, apperror.NotFound("owner not found")
	}

	deposit := req.Rent * 2
	if req.Deposit != nil {
		deposit = *req.Deposit
	}

	property := &entity.Property{
		OwnerId:       ownerId,
		CreatedByRole: actor.Role,
		Title:         req.Title,
		Description:   req.Description,
		Location: entity.Location{
			Address:        req.Location.Address,
			City:           req.Location.City,
			State:          req.Location.State,
			Country:        req.Location.Country,
			Pincode:        req.Location.Pincode,
			GoogleMapsLink: req.Location.GoogleMapsLink,
		},
		Rent:         req.Rent,
		Deposit:      deposit,
		PropertyType: entity.PropertyType(req.PropertyType),
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Area:         req.Area,
		Amenities:    req.Amenities,
		Images:       req.Images,
		Status:       entity.PropertyStatusPending,
	}
	if req.Location.Lat != nil && req.Location.Lng != nil {
		property.Location.Coordinates = &entity.Coordinates{Lat: *req.Location.Lat, Lng: *req.Location.Lng}
	}

	if err := uow.PropertyRepository().Create(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	s.logger.Info("PROPERTY", "Property created", map[string]interface{}{
		"property_id": property.Id.String(),
		"owner_id":    ownerId.String(),
	})
	return toPropertyResponse(property), nil
}

func toPropertyResponse(p *entity.Property) *dto.PropertyResponse {
	amenities := p.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return &dto.PropertyResponse{
		Id:           p.Id,
		OwnerId:      p.OwnerId,
		Title:        p.Title,
		Description:  p.Description,
		Location:     visibility.FullLocation(p.Location),
		Rent:         p.Rent,
		Deposit:      p.Deposit,
		PropertyType: string(p.PropertyType),
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Area:         p.Area,
		Amenities:    amenities,
		Images:       p.Images,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
	}
}

// ownerDirectory resolves owner contact details from the users table.
type ownerDirectory struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewOwnerDirectory(uowFactory unitofwork.RepositoryFactory) visibility.OwnerDirectory {
	return &ownerDirectory{uowFactory: uowFactory}
}

func (d *ownerDirectory) ResolveOwnerContact(ctx context.Context, ownerId uuid.UUID) (*entity.OwnerContact, error) {
	return d.uowFactory.NewUnitOfWork(ctx).UserRepository().FindOwnerContact(ctx, ownerId)
}
