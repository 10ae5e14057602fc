package pricing

import (
	"fmt"

	"github.com/google/uuid"
)

// AddonPricingMode selects how an add-on's unit price is multiplied.
type AddonPricingMode string

const (
	AddonPerBooking       AddonPricingMode = "per_booking"
	AddonPerNight         AddonPricingMode = "per_night"
	AddonPerGuest         AddonPricingMode = "per_guest"
	AddonPerGuestPerNight AddonPricingMode = "per_guest_per_night"
)

// Addon describes a bookable extra. MaxQuantity 0 means unbounded.
// An empty RoomIDs list means the add-on is offered for every room of
// the property.
type Addon struct {
	Name        string           `json:"name"`
	UnitPrice   Money            `json:"unit_price"`
	Mode        AddonPricingMode `json:"mode"`
	MaxQuantity int              `json:"max_quantity"`
	RoomIDs     []uuid.UUID      `json:"room_ids,omitempty"`
}

// AddonCharge is the priced result for one booked add-on.
type AddonCharge struct {
	Name       string `json:"name"`
	BasePrice  Money  `json:"base_price"`
	Multiplier int64  `json:"multiplier"`
	Quantity   int    `json:"quantity"`
	Total      Money  `json:"total"`
}

// Covers reports whether the add-on is offered for at least one of the
// booked rooms. An unscoped add-on covers every room.
func (a Addon) Covers(roomIDs []uuid.UUID) bool {
	if len(a.RoomIDs) == 0 {
		return true
	}
	for _, scoped := range a.RoomIDs {
		for _, booked := range roomIDs {
			if scoped == booked {
				return true
			}
		}
	}
	return false
}

// PriceAddon computes one add-on's contribution for the given stay.
func PriceAddon(addon Addon, nights, guests, quantity int) (AddonCharge, error) {
	if nights < 1 || guests < 1 {
		return AddonCharge{}, fmt.Errorf("%w: nights and guests must be at least 1", ErrInvalidInput)
	}
	if quantity < 0 {
		return AddonCharge{}, fmt.Errorf("%w: negative quantity", ErrInvalidInput)
	}
	if addon.MaxQuantity > 0 && quantity > addon.MaxQuantity {
		return AddonCharge{}, fmt.Errorf("%w: %q quantity %d, max %d",
			ErrQuantityExceedsMax, addon.Name, quantity, addon.MaxQuantity)
	}

	multiplier := int64(1)
	switch addon.Mode {
	case AddonPerNight:
		multiplier = int64(nights)
	case AddonPerGuest:
		multiplier = int64(guests)
	case AddonPerGuestPerNight:
		multiplier = int64(guests) * int64(nights)
	}

	return AddonCharge{
		Name:       addon.Name,
		BasePrice:  addon.UnitPrice,
		Multiplier: multiplier,
		Quantity:   quantity,
		Total:      addon.UnitPrice.MulInt(int64(quantity) * multiplier),
	}, nil
}
