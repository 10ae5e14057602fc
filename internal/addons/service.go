package addons

import (
	"context"
	"errors"
	"fmt"

	"roomly/internal/pricing"
	"roomly/internal/properties"
	"roomly/internal/shared/constants"
	"roomly/pkg/cache"
	"roomly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAddonNotFound   = errors.New("addon not found")
	ErrRoomNotInScope  = errors.New("room does not belong to the addon's property")
	ErrCurrencyClash   = errors.New("addon currency must match the property currency")
)

type Service interface {
	CreateAddon(ctx context.Context, propertyID, createdBy uuid.UUID, req CreateAddonRequest) (*AddonResponse, error)
	GetAddon(ctx context.Context, id uuid.UUID) (*AddonResponse, error)
	GetAddonsByProperty(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]AddonResponse, error)
	UpdateAddon(ctx context.Context, id, updatedBy uuid.UUID, req UpdateAddonRequest) (*AddonResponse, error)
	DeleteAddon(ctx context.Context, id uuid.UUID) error

	// PriceSelection prices a set of requested addons for a stay over
	// the given booked rooms. Room-scoped addons must cover at least
	// one of them.
	PriceSelection(ctx context.Context, selections []Selection, roomIDs []uuid.UUID, nights, guests int) ([]pricing.AddonCharge, error)
}

// Selection is one requested addon line on a quote
type Selection struct {
	AddonID  uuid.UUID `json:"addon_id"`
	Quantity int       `json:"quantity"`
}

type service struct {
	repo       Repository
	properties properties.Service
	cache      cache.Service
	log        *logger.Logger
}

func NewService(repo Repository, propertyService properties.Service, cacheService cache.Service, log *logger.Logger) Service {
	return &service{repo: repo, properties: propertyService, cache: cacheService, log: log}
}

func (s *service) CreateAddon(ctx context.Context, propertyID, createdBy uuid.UUID, req CreateAddonRequest) (*AddonResponse, error) {
	property, err := s.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	roomIDs, err := s.parseRoomIDs(ctx, propertyID, req.RoomIDs)
	if err != nil {
		return nil, err
	}

	addon := &Addon{
		PropertyID:     propertyID,
		Name:           req.Name,
		Description:    req.Description,
		UnitPriceMinor: req.UnitPriceMinor,
		Currency:       property.Currency,
		PricingMode:    req.PricingMode,
		MaxQuantity:    req.MaxQuantity,
		IsActive:       true,
		CreatedBy:      createdBy,
	}

	if err := s.repo.Create(ctx, addon); err != nil {
		return nil, fmt.Errorf("failed to create addon: %w", err)
	}

	if len(roomIDs) > 0 {
		if err := s.repo.ReplaceRoomLinks(ctx, addon.ID, roomIDs); err != nil {
			return nil, fmt.Errorf("failed to link addon rooms: %w", err)
		}
	}

	created, err := s.repo.GetByID(ctx, addon.ID)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, propertyID, addon.ID)

	resp := created.ToResponse()
	return &resp, nil
}

func (s *service) GetAddon(ctx context.Context, id uuid.UUID) (*AddonResponse, error) {
	var resp AddonResponse
	key := constants.CACHE_KEY_ADDON_DETAIL + id.String()

	err := s.cache.GetOrSet(ctx, key, constants.TTL_ADDON_DETAIL, func() (interface{}, error) {
		addon, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAddonNotFound
			}
			return nil, err
		}
		return addon.ToResponse(), nil
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

func (s *service) GetAddonsByProperty(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]AddonResponse, error) {
	fetch := func() ([]AddonResponse, error) {
		addons, err := s.repo.GetByPropertyID(ctx, propertyID, activeOnly)
		if err != nil {
			return nil, err
		}
		out := make([]AddonResponse, 0, len(addons))
		for i := range addons {
			out = append(out, addons[i].ToResponse())
		}
		return out, nil
	}

	// Only the public active listing is cached
	if !activeOnly {
		return fetch()
	}

	var responses []AddonResponse
	key := constants.BuildAddonsByPropertyKey(propertyID.String())
	err := s.cache.GetOrSet(ctx, key, constants.TTL_ADDONS_BY_PROPERTY, func() (interface{}, error) {
		return fetch()
	}, &responses)
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *service) UpdateAddon(ctx context.Context, id, updatedBy uuid.UUID, req UpdateAddonRequest) (*AddonResponse, error) {
	addon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddonNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		addon.Name = *req.Name
	}
	if req.Description != nil {
		addon.Description = *req.Description
	}
	if req.UnitPriceMinor != nil {
		addon.UnitPriceMinor = *req.UnitPriceMinor
	}
	if req.PricingMode != nil {
		addon.PricingMode = *req.PricingMode
	}
	if req.MaxQuantity != nil {
		addon.MaxQuantity = *req.MaxQuantity
	}
	if req.IsActive != nil {
		addon.IsActive = *req.IsActive
	}
	addon.UpdatedBy = &updatedBy

	if err := s.repo.Update(ctx, addon); err != nil {
		return nil, fmt.Errorf("failed to update addon: %w", err)
	}

	if req.RoomIDs != nil {
		roomIDs, err := s.parseRoomIDs(ctx, addon.PropertyID, req.RoomIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceRoomLinks(ctx, addon.ID, roomIDs); err != nil {
			return nil, fmt.Errorf("failed to relink addon rooms: %w", err)
		}
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, addon.PropertyID, id)

	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) DeleteAddon(ctx context.Context, id uuid.UUID) error {
	addon, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddonNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete addon: %w", err)
	}

	s.invalidate(ctx, addon.PropertyID, id)
	return nil
}

func (s *service) PriceSelection(ctx context.Context, selections []Selection, roomIDs []uuid.UUID, nights, guests int) ([]pricing.AddonCharge, error) {
	if len(selections) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(selections))
	for _, sel := range selections {
		ids = append(ids, sel.AddonID)
	}

	addons, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load addons: %w", err)
	}

	byID := make(map[uuid.UUID]*Addon, len(addons))
	for i := range addons {
		byID[addons[i].ID] = &addons[i]
	}

	charges := make([]pricing.AddonCharge, 0, len(selections))
	for _, sel := range selections {
		addon, ok := byID[sel.AddonID]
		if !ok || !addon.IsActive {
			return nil, ErrAddonNotFound
		}

		priced := addon.ToPricing()
		if !priced.Covers(roomIDs) {
			return nil, fmt.Errorf("%w: %q", pricing.ErrAddonNotApplicable, addon.Name)
		}

		charge, err := pricing.PriceAddon(priced, nights, guests, sel.Quantity)
		if err != nil {
			return nil, err
		}
		charges = append(charges, charge)
	}

	return charges, nil
}

func (s *service) parseRoomIDs(ctx context.Context, propertyID uuid.UUID, raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	roomIDs := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid room id %q", r)
		}
		roomIDs = append(roomIDs, id)
	}

	// Every referenced room must belong to the addon's property
	rooms, err := s.properties.GetRoomsByIDs(ctx, roomIDs)
	if err != nil {
		return nil, err
	}
	for _, room := range rooms {
		if room.PropertyID != propertyID {
			return nil, ErrRoomNotInScope
		}
	}

	return roomIDs, nil
}

func (s *service) invalidate(ctx context.Context, propertyID, addonID uuid.UUID) {
	_ = s.cache.Delete(ctx, constants.BuildAddonsByPropertyKey(propertyID.String()))
	_ = s.cache.Delete(ctx, constants.CACHE_KEY_ADDON_DETAIL+addonID.String())
}
