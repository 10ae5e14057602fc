package properties

import (
	"context"
	"errors"
	"fmt"

	"roomly/internal/shared/constants"
	"roomly/pkg/cache"
	"roomly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrNotDraft         = errors.New("only draft properties can be deleted")
)

type Service interface {
	// Property operations
	CreateProperty(ctx context.Context, hostID uuid.UUID, req CreatePropertyRequest) (*PropertyResponse, error)
	GetProperty(ctx context.Context, id uuid.UUID) (*PropertyResponse, error)
	UpdateProperty(ctx context.Context, id, updatedBy uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error)
	DeleteProperty(ctx context.Context, id uuid.UUID) error
	ListProperties(ctx context.Context, query PropertyListQuery) (*PaginatedProperties, error)

	// Room operations
	AddRoom(ctx context.Context, propertyID uuid.UUID, req CreateRoomRequest) (*RoomResponse, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*Room, error)
	GetRooms(ctx context.Context, propertyID uuid.UUID) ([]RoomResponse, error)
	GetRoomsByIDs(ctx context.Context, ids []uuid.UUID) ([]Room, error)
	UpdateRoom(ctx context.Context, id uuid.UUID, req UpdateRoomRequest) (*RoomResponse, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, log *logger.Logger) Service {
	return &service{repo: repo, cache: cacheService, log: log}
}

func (s *service) CreateProperty(ctx context.Context, hostID uuid.UUID, req CreatePropertyRequest) (*PropertyResponse, error) {
	property := &Property{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		Currency:    req.Currency,
		Status:      StatusDraft,
		ImageURL:    req.ImageURL,
		HostID:      hostID,
	}

	if err := s.repo.CreateProperty(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	s.log.LogPropertyCreated(ctx, property.ID.String(), hostID.String())
	s.invalidateListings(ctx)

	resp := property.ToResponse()
	return &resp, nil
}

func (s *service) GetProperty(ctx context.Context, id uuid.UUID) (*PropertyResponse, error) {
	var resp PropertyResponse
	key := constants.BuildPropertyDetailKey(id.String())

	err := s.cache.GetOrSet(ctx, key, constants.TTL_PROPERTY_DETAIL, func() (interface{}, error) {
		property, err := s.repo.GetPropertyWithRooms(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPropertyNotFound
			}
			return nil, err
		}
		return property.ToResponse(), nil
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

func (s *service) UpdateProperty(ctx context.Context, id, updatedBy uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	property, err := s.repo.GetPropertyByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.Country != nil {
		property.Country = *req.Country
	}
	if req.Status != nil {
		property.Status = PropertyStatus(*req.Status)
	}
	if req.ImageURL != nil {
		property.ImageURL = *req.ImageURL
	}
	property.UpdatedBy = &updatedBy

	if err := s.repo.UpdateProperty(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	s.invalidateProperty(ctx, id)

	resp := property.ToResponse()
	return &resp, nil
}

func (s *service) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	property, err := s.repo.GetPropertyByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPropertyNotFound
		}
		return err
	}

	if property.Status != StatusDraft {
		return ErrNotDraft
	}

	if err := s.repo.DeleteProperty(ctx, id); err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	s.invalidateProperty(ctx, id)
	return nil
}

func (s *service) ListProperties(ctx context.Context, query PropertyListQuery) (*PaginatedProperties, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	// Search results bypass the cache; listing pages are cached
	if query.Search == "" && query.City == "" {
		var cached PaginatedProperties
		key := constants.BuildPropertyListKey(query.Page, query.Limit, query.Status)
		err := s.cache.GetOrSet(ctx, key, constants.TTL_PROPERTY_LIST, func() (interface{}, error) {
			return s.listFromDB(ctx, query)
		}, &cached)
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}

	return s.listFromDB(ctx, query)
}

func (s *service) listFromDB(ctx context.Context, query PropertyListQuery) (*PaginatedProperties, error) {
	properties, totalCount, err := s.repo.ListProperties(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	responses := make([]PropertyResponse, 0, len(properties))
	for i := range properties {
		responses = append(responses, properties[i].ToResponse())
	}

	return &PaginatedProperties{
		Properties: responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: CalculateTotalPages(totalCount, query.Limit),
	}, nil
}

func (s *service) AddRoom(ctx context.Context, propertyID uuid.UUID, req CreateRoomRequest) (*RoomResponse, error) {
	property, err := s.repo.GetPropertyByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	occupancyMode := req.OccupancyMode
	if occupancyMode == "" {
		occupancyMode = "flat"
	}
	totalUnits := req.TotalUnits
	if totalUnits == 0 {
		totalUnits = 1
	}

	room := &Room{
		PropertyID:       propertyID,
		Name:             req.Name,
		Description:      req.Description,
		NightlyRateMinor: req.NightlyRateMinor,
		Currency:         property.Currency,
		OccupancyMode:    occupancyMode,
		MaxOccupancy:     req.MaxOccupancy,
		ChildDiscountPct: req.ChildDiscountPct,
		TotalUnits:       totalUnits,
		IsActive:         true,
	}

	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidateProperty(ctx, propertyID)

	resp := room.ToResponse()
	return &resp, nil
}

func (s *service) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	room, err := s.repo.GetRoomByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *service) GetRooms(ctx context.Context, propertyID uuid.UUID) ([]RoomResponse, error) {
	var responses []RoomResponse
	key := constants.BuildPropertyRoomsKey(propertyID.String())

	err := s.cache.GetOrSet(ctx, key, constants.TTL_PROPERTY_ROOMS, func() (interface{}, error) {
		rooms, err := s.repo.GetRoomsByPropertyID(ctx, propertyID)
		if err != nil {
			return nil, err
		}
		out := make([]RoomResponse, 0, len(rooms))
		for i := range rooms {
			out = append(out, rooms[i].ToResponse())
		}
		return out, nil
	}, &responses)
	if err != nil {
		return nil, err
	}

	return responses, nil
}

func (s *service) GetRoomsByIDs(ctx context.Context, ids []uuid.UUID) ([]Room, error) {
	rooms, err := s.repo.GetRoomsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(rooms) != len(ids) {
		return nil, ErrRoomNotFound
	}
	return rooms, nil
}

func (s *service) UpdateRoom(ctx context.Context, id uuid.UUID, req UpdateRoomRequest) (*RoomResponse, error) {
	room, err := s.repo.GetRoomByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Description != nil {
		room.Description = *req.Description
	}
	if req.NightlyRateMinor != nil {
		room.NightlyRateMinor = *req.NightlyRateMinor
	}
	if req.OccupancyMode != nil {
		room.OccupancyMode = *req.OccupancyMode
	}
	if req.MaxOccupancy != nil {
		room.MaxOccupancy = *req.MaxOccupancy
	}
	if req.ChildDiscountPct != nil {
		room.ChildDiscountPct = *req.ChildDiscountPct
	}
	if req.TotalUnits != nil {
		room.TotalUnits = *req.TotalUnits
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	s.invalidateProperty(ctx, room.PropertyID)
	_ = s.cache.Delete(ctx, constants.BuildRoomDetailKey(id.String()))

	resp := room.ToResponse()
	return &resp, nil
}

func (s *service) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	room, err := s.repo.GetRoomByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}

	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.invalidateProperty(ctx, room.PropertyID)
	return nil
}

func (s *service) invalidateProperty(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Delete(ctx, constants.BuildPropertyDetailKey(id.String()))
	_ = s.cache.Delete(ctx, constants.BuildPropertyRoomsKey(id.String()))
	s.invalidateListings(ctx)
}

func (s *service) invalidateListings(ctx context.Context) {
	_ = s.cache.DeletePattern(ctx, constants.CACHE_KEY_PROPERTIES_LIST+"*")
}
