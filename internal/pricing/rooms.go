package pricing

import "fmt"

// OccupancyMode selects how a room's nightly rate scales with guests.
type OccupancyMode string

const (
	OccupancyFlat             OccupancyMode = "flat"
	OccupancyPerPersonSharing OccupancyMode = "per_person_sharing"
)

// RoomRate carries the pricing attributes of a room. ChildDiscountPct
// reduces the children term for per_person_sharing rooms; 0 means
// children pay the full per-person rate.
type RoomRate struct {
	NightlyRate      Money         `json:"nightly_rate"`
	Mode             OccupancyMode `json:"mode"`
	MaxOccupancy     int           `json:"max_occupancy"`
	ChildDiscountPct int           `json:"child_discount_pct"`
}

// RoomCharge is the priced result for one booked room.
type RoomCharge struct {
	Nights   int   `json:"nights"`
	Adults   int   `json:"adults"`
	Children int   `json:"children"`
	Subtotal Money `json:"subtotal"`
}

// PriceRoom computes the per-room subtotal. For flat rooms the rate
// covers the whole room; for per_person_sharing it is charged per
// guest, with the child-discount fraction applied before the single
// final rounding step.
func PriceRoom(rate RoomRate, nights, adults, children int) (RoomCharge, error) {
	if nights < 1 {
		return RoomCharge{}, fmt.Errorf("%w: nights must be at least 1", ErrInvalidInput)
	}
	if adults < 1 || children < 0 {
		return RoomCharge{}, fmt.Errorf("%w: at least one adult required", ErrInvalidInput)
	}
	if rate.MaxOccupancy > 0 && adults+children > rate.MaxOccupancy {
		return RoomCharge{}, fmt.Errorf("%w: %d guests, capacity %d",
			ErrOccupancyExceedsCapacity, adults+children, rate.MaxOccupancy)
	}

	var subtotal Money
	switch rate.Mode {
	case OccupancyPerPersonSharing:
		childPct := 100 - rate.ChildDiscountPct
		if childPct < 0 {
			childPct = 0
		}
		// adults*100 + children*childPct keeps the whole chain in
		// integers; the division by 100 rounds half-up exactly once.
		weighted := int64(adults)*100 + int64(children)*int64(childPct)
		subtotal = rate.NightlyRate.MulInt(int64(nights)).MulRat(weighted, 100)
	default:
		subtotal = rate.NightlyRate.MulInt(int64(nights))
	}

	return RoomCharge{
		Nights:   nights,
		Adults:   adults,
		Children: children,
		Subtotal: subtotal,
	}, nil
}
