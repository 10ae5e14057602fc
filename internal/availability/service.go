package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomly/internal/properties"
	"roomly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNightUnavailable = errors.New("room has no free units for a requested night")
	ErrInvalidStay      = errors.New("check-out must be after check-in")
	ErrHoldNotFound     = errors.New("hold not found or expired")
	ErrHoldNotOwned     = errors.New("hold belongs to another user")
)

const dateLayout = "2006-01-02"

type Service interface {
	// CheckStay reports whether a room has a free unit for every night of a stay.
	CheckStay(ctx context.Context, roomID uuid.UUID, checkin, checkout time.Time) (*StayAvailability, error)

	// HoldStay takes a short-lived hold on every night of a stay, protecting
	// the quote while the guest completes payment details.
	HoldStay(ctx context.Context, userID, roomID uuid.UUID, checkin, checkout time.Time, ttl time.Duration) (string, error)

	// ReleaseHold frees a hold before its TTL expires.
	ReleaseHold(ctx context.Context, holdID string) error

	// ValidateHold confirms a hold still exists and belongs to the user.
	ValidateHold(ctx context.Context, holdID string, userID uuid.UUID) (*HoldInfo, error)

	// ExtendHold refreshes the TTL of a live hold owned by the user.
	ExtendHold(ctx context.Context, holdID string, userID uuid.UUID, ttl time.Duration) error
}

// StayAvailability is the per-night availability picture for a stay
type StayAvailability struct {
	RoomID    string           `json:"room_id"`
	Checkin   string           `json:"checkin"`
	Checkout  string           `json:"checkout"`
	Available bool             `json:"available"`
	Nights    []NightBreakdown `json:"nights"`
}

type NightBreakdown struct {
	Date      string `json:"date"`
	Total     int    `json:"total_units"`
	Booked    int    `json:"booked"`
	Held      int    `json:"held"`
	Remaining int    `json:"remaining"`
}

type service struct {
	db         *gorm.DB
	atomic     *AtomicRedisOperations
	properties properties.Service
	log        *logger.Logger
}

func NewService(db *gorm.DB, atomic *AtomicRedisOperations, propertyService properties.Service, log *logger.Logger) Service {
	return &service{db: db, atomic: atomic, properties: propertyService, log: log}
}

func (s *service) CheckStay(ctx context.Context, roomID uuid.UUID, checkin, checkout time.Time) (*StayAvailability, error) {
	nights, err := stayNights(checkin, checkout)
	if err != nil {
		return nil, err
	}

	room, err := s.properties.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	booked, err := s.bookedByNight(ctx, roomID, checkin, checkout)
	if err != nil {
		return nil, err
	}

	held, err := s.atomic.HeldNights(ctx, roomID.String(), nights)
	if err != nil {
		return nil, err
	}

	result := &StayAvailability{
		RoomID:    roomID.String(),
		Checkin:   checkin.Format(dateLayout),
		Checkout:  checkout.Format(dateLayout),
		Available: true,
		Nights:    make([]NightBreakdown, 0, len(nights)),
	}

	for _, date := range nights {
		remaining := room.TotalUnits - booked[date] - held[date]
		if remaining < 0 {
			remaining = 0
		}
		if remaining == 0 {
			result.Available = false
		}
		result.Nights = append(result.Nights, NightBreakdown{
			Date:      date,
			Total:     room.TotalUnits,
			Booked:    booked[date],
			Held:      held[date],
			Remaining: remaining,
		})
	}

	return result, nil
}

func (s *service) HoldStay(ctx context.Context, userID, roomID uuid.UUID, checkin, checkout time.Time, ttl time.Duration) (string, error) {
	nights, err := stayNights(checkin, checkout)
	if err != nil {
		return "", err
	}

	room, err := s.properties.GetRoom(ctx, roomID)
	if err != nil {
		return "", err
	}

	booked, err := s.bookedByNight(ctx, roomID, checkin, checkout)
	if err != nil {
		return "", err
	}

	capacities := make([]NightCapacity, 0, len(nights))
	for _, date := range nights {
		remaining := room.TotalUnits - booked[date]
		if remaining <= 0 {
			return "", fmt.Errorf("%w: no units left on %s", ErrNightUnavailable, date)
		}
		capacities = append(capacities, NightCapacity{Date: date, Remaining: remaining})
	}

	holdID := uuid.New().String()
	err = s.atomic.AtomicHoldNights(ctx, userID.String(), holdID, roomID.String(), capacities, ttl)
	if err != nil {
		return "", err
	}

	return holdID, nil
}

func (s *service) ReleaseHold(ctx context.Context, holdID string) error {
	_, err := s.atomic.AtomicReleaseHold(ctx, holdID)
	return err
}

func (s *service) ValidateHold(ctx context.Context, holdID string, userID uuid.UUID) (*HoldInfo, error) {
	hold, err := s.atomic.GetHold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if hold.UserID != userID.String() {
		return nil, ErrHoldNotOwned
	}
	return hold, nil
}

func (s *service) ExtendHold(ctx context.Context, holdID string, userID uuid.UUID, ttl time.Duration) error {
	return s.atomic.AtomicExtendHold(ctx, holdID, userID.String(), ttl)
}

// bookedByNight counts confirmed booking units per night from the database
func (s *service) bookedByNight(ctx context.Context, roomID uuid.UUID, checkin, checkout time.Time) (map[string]int, error) {
	type row struct {
		Night  time.Time `gorm:"column:night"`
		Booked int       `gorm:"column:booked"`
	}

	var rows []row
	err := s.db.WithContext(ctx).Raw(`
		SELECT d::date AS night, COUNT(*) AS booked
		FROM booking_rooms br
		JOIN bookings b ON b.id = br.booking_id
		CROSS JOIN generate_series(br.checkin_date, br.checkout_date - INTERVAL '1 day', INTERVAL '1 day') AS d
		WHERE br.room_id = ?
		  AND b.status IN ('confirmed', 'checked_in')
		  AND br.checkin_date < ?
		  AND br.checkout_date > ?
		GROUP BY d::date
	`, roomID, checkout, checkin).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count booked nights: %w", err)
	}

	booked := make(map[string]int, len(rows))
	for _, r := range rows {
		booked[r.Night.Format(dateLayout)] = r.Booked
	}
	return booked, nil
}

// stayNights expands [checkin, checkout) into its nightly dates
func stayNights(checkin, checkout time.Time) ([]string, error) {
	checkin = checkin.Truncate(24 * time.Hour)
	checkout = checkout.Truncate(24 * time.Hour)
	if !checkout.After(checkin) {
		return nil, ErrInvalidStay
	}

	var nights []string
	for d := checkin; d.Before(checkout); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d.Format(dateLayout))
	}
	return nights, nil
}
