package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"roomly/internal/shared/constants"
	"roomly/pkg/cache"

	"github.com/google/uuid"
)

type Service interface {
	GetDashboardAnalytics(ctx context.Context) (*DashboardAnalytics, error)
	GetRevenueOverview(ctx context.Context) (*RevenueOverview, error)
	GetBookingOverview(ctx context.Context) (*BookingOverview, error)
	GetCancellationOverview(ctx context.Context) (*CancellationOverview, error)
	GetPromotionOverview(ctx context.Context) (*PromotionOverview, error)
	GetPropertyAnalytics(ctx context.Context, propertyID uuid.UUID) (*PropertyAnalytics, error)
	GetDailyBookingStats(ctx context.Context, days int) ([]DailyBookingStats, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cacheService: cacheService}
}

func (s *service) GetDashboardAnalytics(ctx context.Context) (*DashboardAnalytics, error) {
	var dashboard DashboardAnalytics
	err := s.cached(ctx, constants.CACHE_KEY_ANALYTICS_DASHBOARD, constants.TTL_ANALYTICS_DASHBOARD, &dashboard, func() (interface{}, error) {
		revenue, err := s.repo.GetRevenueOverview()
		if err != nil {
			return nil, err
		}
		bookings, err := s.repo.GetBookingOverview()
		if err != nil {
			return nil, err
		}
		cancellations, err := s.repo.GetCancellationOverview()
		if err != nil {
			return nil, err
		}
		promotions, err := s.repo.GetPromotionOverview()
		if err != nil {
			return nil, err
		}
		daily, err := s.repo.GetDailyBookingStats(30)
		if err != nil {
			return nil, err
		}
		return &DashboardAnalytics{
			Revenue:       *revenue,
			Bookings:      *bookings,
			Cancellations: *cancellations,
			Promotions:    *promotions,
			DailyTrend:    daily,
			GeneratedAt:   time.Now().UTC(),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard analytics: %w", err)
	}
	return &dashboard, nil
}

func (s *service) GetRevenueOverview(ctx context.Context) (*RevenueOverview, error) {
	var overview RevenueOverview
	err := s.cached(ctx, constants.CACHE_KEY_ANALYTICS_REVENUE, constants.TTL_ANALYTICS_REVENUE, &overview, func() (interface{}, error) {
		return s.repo.GetRevenueOverview()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue overview: %w", err)
	}
	return &overview, nil
}

func (s *service) GetBookingOverview(ctx context.Context) (*BookingOverview, error) {
	var overview BookingOverview
	err := s.cached(ctx, constants.CACHE_KEY_ANALYTICS_BOOKINGS, constants.TTL_ANALYTICS_BOOKINGS, &overview, func() (interface{}, error) {
		return s.repo.GetBookingOverview()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get booking overview: %w", err)
	}
	return &overview, nil
}

func (s *service) GetCancellationOverview(ctx context.Context) (*CancellationOverview, error) {
	var overview CancellationOverview
	err := s.cached(ctx, constants.CACHE_KEY_ANALYTICS_CANCELLATION, constants.TTL_ANALYTICS_CANCELLATION, &overview, func() (interface{}, error) {
		return s.repo.GetCancellationOverview()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get cancellation overview: %w", err)
	}
	return &overview, nil
}

func (s *service) GetPromotionOverview(ctx context.Context) (*PromotionOverview, error) {
	var overview PromotionOverview
	err := s.cached(ctx, constants.CACHE_KEY_ANALYTICS_PROMOTIONS, constants.TTL_ANALYTICS_PROMOTIONS, &overview, func() (interface{}, error) {
		return s.repo.GetPromotionOverview()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get promotion overview: %w", err)
	}
	return &overview, nil
}

func (s *service) GetPropertyAnalytics(ctx context.Context, propertyID uuid.UUID) (*PropertyAnalytics, error) {
	var analytics PropertyAnalytics
	cacheKey := constants.BuildAnalyticsPropertyKey(propertyID.String())
	err := s.cached(ctx, cacheKey, constants.TTL_ANALYTICS_PROPERTY, &analytics, func() (interface{}, error) {
		return s.repo.GetPropertyAnalytics(propertyID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get property analytics: %w", err)
	}
	return &analytics, nil
}

func (s *service) GetDailyBookingStats(ctx context.Context, days int) ([]DailyBookingStats, error) {
	// Trend queries are cheap enough to skip the cache
	return s.repo.GetDailyBookingStats(days)
}

// cached is cache-aside: read through the cache when available, fall
// back to the fetcher, and never fail a request on a cache error.
func (s *service) cached(ctx context.Context, key string, ttl time.Duration, dest interface{}, fetch func() (interface{}, error)) error {
	if s.cacheService != nil {
		return s.cacheService.GetOrSet(ctx, key, ttl, func() (interface{}, error) {
			return fetch()
		}, dest)
	}

	result, err := fetch()
	if err != nil {
		return err
	}

	// No cache configured: round-trip through JSON to fill dest the same
	// way the cache layer would
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
