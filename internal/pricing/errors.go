package pricing

import "errors"

// Calculation errors are deterministic validation failures. They are
// returned to the caller unchanged so the operator configuring the
// rule or policy sees exactly what was rejected.
var (
	ErrCurrencyMismatch          = errors.New("pricing: currency mismatch")
	ErrQuantityExceedsMax        = errors.New("pricing: addon quantity exceeds configured maximum")
	ErrOccupancyExceedsCapacity  = errors.New("pricing: occupancy exceeds room capacity")
	ErrAddonNotApplicable        = errors.New("pricing: addon is not offered for the selected rooms")
	ErrPromotionExpired          = errors.New("pricing: promotion is outside its validity window")
	ErrPromotionExhausted        = errors.New("pricing: promotion usage limit reached")
	ErrPromotionNotApplicable    = errors.New("pricing: promotion does not apply to this room")
	ErrPromotionAlreadyApplied   = errors.New("pricing: a promotion code is already applied to this booking")
	ErrScheduleDoesNotSumToTotal = errors.New("pricing: payment schedule does not sum to booking total")
	ErrInvalidDueTiming          = errors.New("pricing: installment due date falls after check-in")
	ErrInvalidPolicy             = errors.New("pricing: cancellation policy is invalid")
	ErrNoApplicableTier          = errors.New("pricing: no cancellation tier applies")
	ErrInvalidInput              = errors.New("pricing: invalid input")
)
