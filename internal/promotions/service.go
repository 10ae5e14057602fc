package promotions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"roomly/internal/pricing"
	"roomly/internal/shared/constants"
	"roomly/pkg/cache"
	"roomly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPromotionNotFound = errors.New("promotion not found")
	ErrInvalidWindow     = errors.New("valid_until must be after valid_from")
	ErrCodeTaken         = errors.New("promotion code already exists")
)

type Service interface {
	CreatePromotion(ctx context.Context, propertyID, createdBy uuid.UUID, req CreatePromotionRequest) (*PromotionResponse, error)
	GetPromotion(ctx context.Context, id uuid.UUID) (*PromotionResponse, error)
	GetPromotionsByProperty(ctx context.Context, propertyID uuid.UUID) ([]PromotionResponse, error)
	UpdatePromotion(ctx context.Context, id, updatedBy uuid.UUID, req UpdatePromotionRequest) (*PromotionResponse, error)
	DeletePromotion(ctx context.Context, id uuid.UUID) error

	// Resolve validates a code against a room and booking date and returns
	// the discount it would produce on the given subtotal.
	Resolve(ctx context.Context, code string, roomID uuid.UUID, bookingDate time.Time, subtotal pricing.Money) (*pricing.PromotionDiscount, *Promotion, error)

	// Redeem consumes one use of the promotion for a booking.
	Redeem(ctx context.Context, promotionID, bookingID uuid.UUID, discount pricing.Money) error

	// Release returns a redemption to the pool when a booking is cancelled.
	Release(ctx context.Context, bookingID uuid.UUID) error

	// SweepExpired deactivates promotions whose validity window has closed.
	SweepExpired(ctx context.Context) (int64, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, log *logger.Logger) Service {
	return &service{repo: repo, cache: cacheService, log: log}
}

func (s *service) CreatePromotion(ctx context.Context, propertyID, createdBy uuid.UUID, req CreatePromotionRequest) (*PromotionResponse, error) {
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, ErrInvalidWindow
	}

	code := strings.ToUpper(req.Code)
	if existing, err := s.repo.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, ErrCodeTaken
	}

	promotion := &Promotion{
		PropertyID:   propertyID,
		Code:         code,
		Description:  req.Description,
		DiscountType: req.DiscountType,
		Value:        req.Value,
		ValidFrom:    req.ValidFrom,
		ValidUntil:   req.ValidUntil,
		UsageLimit:   req.UsageLimit,
		IsActive:     true,
		CreatedBy:    createdBy,
	}

	if err := s.repo.Create(ctx, promotion); err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	if len(req.RoomIDs) > 0 {
		roomIDs, err := parseUUIDs(req.RoomIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceRoomLinks(ctx, promotion.ID, roomIDs); err != nil {
			return nil, fmt.Errorf("failed to link promotion rooms: %w", err)
		}
	}

	created, err := s.repo.GetByID(ctx, promotion.ID)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, created)

	resp := created.ToResponse()
	return &resp, nil
}

func (s *service) GetPromotion(ctx context.Context, id uuid.UUID) (*PromotionResponse, error) {
	promotion, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, err
	}
	resp := promotion.ToResponse()
	return &resp, nil
}

func (s *service) GetPromotionsByProperty(ctx context.Context, propertyID uuid.UUID) ([]PromotionResponse, error) {
	promotions, err := s.repo.GetByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	responses := make([]PromotionResponse, 0, len(promotions))
	for i := range promotions {
		responses = append(responses, promotions[i].ToResponse())
	}
	return responses, nil
}

func (s *service) UpdatePromotion(ctx context.Context, id, updatedBy uuid.UUID, req UpdatePromotionRequest) (*PromotionResponse, error) {
	promotion, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, err
	}

	if req.Description != nil {
		promotion.Description = *req.Description
	}
	if req.ValidFrom != nil {
		promotion.ValidFrom = *req.ValidFrom
	}
	if req.ValidUntil != nil {
		promotion.ValidUntil = *req.ValidUntil
	}
	if !promotion.ValidUntil.After(promotion.ValidFrom) {
		return nil, ErrInvalidWindow
	}
	if req.UsageLimit != nil {
		promotion.UsageLimit = *req.UsageLimit
	}
	if req.IsActive != nil {
		promotion.IsActive = *req.IsActive
	}
	promotion.UpdatedBy = &updatedBy

	if err := s.repo.Update(ctx, promotion); err != nil {
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}

	if req.RoomIDs != nil {
		roomIDs, err := parseUUIDs(req.RoomIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceRoomLinks(ctx, promotion.ID, roomIDs); err != nil {
			return nil, fmt.Errorf("failed to relink promotion rooms: %w", err)
		}
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, updated)

	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	promotion, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPromotionNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete promotion: %w", err)
	}

	s.invalidate(ctx, promotion)
	return nil
}

func (s *service) Resolve(ctx context.Context, code string, roomID uuid.UUID, bookingDate time.Time, subtotal pricing.Money) (*pricing.PromotionDiscount, *Promotion, error) {
	promotion, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPromotionNotFound
		}
		return nil, nil, err
	}
	if !promotion.IsActive {
		return nil, nil, ErrPromotionNotFound
	}

	discount, err := pricing.ResolvePromotion(promotion.ToPricing(), roomID, bookingDate, subtotal)
	if err != nil {
		return nil, nil, err
	}

	return &discount, promotion, nil
}

func (s *service) Redeem(ctx context.Context, promotionID, bookingID uuid.UUID, discount pricing.Money) error {
	if err := s.repo.Redeem(ctx, promotionID, bookingID, discount.MinorUnits, discount.Currency); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, constants.CACHE_KEY_PROMOTION_USAGE+promotionID.String())
	return nil
}

func (s *service) Release(ctx context.Context, bookingID uuid.UUID) error {
	return s.repo.Release(ctx, bookingID)
}

func (s *service) SweepExpired(ctx context.Context) (int64, error) {
	swept, err := s.repo.DeactivateExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired promotions: %w", err)
	}
	if swept > 0 {
		s.log.Info("deactivated expired promotions", "count", swept)
	}
	return swept, nil
}

func (s *service) invalidate(ctx context.Context, promotion *Promotion) {
	_ = s.cache.Delete(ctx, constants.BuildPromotionByCodeKey(promotion.Code))
	_ = s.cache.Delete(ctx, constants.CACHE_KEY_PROMOTIONS_ACTIVE+promotion.PropertyID.String())
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("invalid room id %q", r)
		}
		out = append(out, id)
	}
	return out, nil
}
