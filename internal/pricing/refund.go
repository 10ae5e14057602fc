package pricing

import (
	"fmt"
	"time"
)

// PolicyTier maps a minimum days-before-check-in threshold to the
// refundable percentage of the booking total.
type PolicyTier struct {
	DaysBeforeCheckin int `json:"days_before_checkin"`
	RefundPercentage  int `json:"refund_percentage"`
}

// CancellationPolicy is an ordered tier list, sorted descending by
// DaysBeforeCheckin. The last tier is conventionally the 0-day floor.
type CancellationPolicy struct {
	Tiers []PolicyTier `json:"tiers"`
}

// RefundBreakdown explains a refund calculation. SuggestedAmount is
// advisory: the approval workflow may override it within
// [0, TotalPaid - PriorRefundsTotal], with overrides above
// PolicyEntitlement flagged by AssessOverride.
type RefundBreakdown struct {
	TierApplied       PolicyTier `json:"tier_applied"`
	DaysBefore        int        `json:"days_before"`
	PolicyEntitlement Money      `json:"policy_entitlement"`
	TotalPaid         Money      `json:"total_paid"`
	PriorRefundsTotal Money      `json:"prior_refunds_total"`
	SuggestedAmount   Money      `json:"suggested_amount"`
}

// ValidatePolicy checks that a policy has at least one tier, that
// tiers are strictly descending by threshold, and that every
// percentage is within 0-100.
func ValidatePolicy(policy CancellationPolicy) error {
	if len(policy.Tiers) == 0 {
		return fmt.Errorf("%w: no tiers configured", ErrInvalidPolicy)
	}
	for i, tier := range policy.Tiers {
		if tier.DaysBeforeCheckin < 0 {
			return fmt.Errorf("%w: negative threshold at tier %d", ErrInvalidPolicy, i)
		}
		if tier.RefundPercentage < 0 || tier.RefundPercentage > 100 {
			return fmt.Errorf("%w: refund percentage %d at tier %d", ErrInvalidPolicy, tier.RefundPercentage, i)
		}
		if i > 0 && tier.DaysBeforeCheckin >= policy.Tiers[i-1].DaysBeforeCheckin {
			return fmt.Errorf("%w: tiers not sorted descending at index %d", ErrInvalidPolicy, i)
		}
	}
	return nil
}

// CalculateRefund computes the refund entitlement for a cancellation.
// The tier selected is the first, in descending threshold order, whose
// threshold the cancellation still meets: the tightest qualifying
// floor, not the nearest match. Cancellations after check-in clamp to
// zero days and qualify only for a 0-day tier.
func CalculateRefund(policy CancellationPolicy, checkinDate, cancellationDate time.Time,
	totalPaid, priorRefundsTotal, bookingTotal Money) (RefundBreakdown, error) {

	if err := ValidatePolicy(policy); err != nil {
		return RefundBreakdown{}, err
	}
	if err := checkRefundCurrencies(totalPaid, priorRefundsTotal, bookingTotal); err != nil {
		return RefundBreakdown{}, err
	}

	daysBefore := int(checkinDate.Sub(cancellationDate).Hours() / 24)
	if daysBefore < 0 {
		daysBefore = 0
	}

	tier, ok := selectTier(policy.Tiers, daysBefore)
	if !ok {
		return RefundBreakdown{}, fmt.Errorf("%w: %d days before check-in", ErrNoApplicableTier, daysBefore)
	}

	entitlement := bookingTotal.PercentOf(tier.RefundPercentage)

	capped, err := entitlement.Min(totalPaid)
	if err != nil {
		return RefundBreakdown{}, err
	}
	refundable, err := capped.Sub(priorRefundsTotal)
	if err != nil {
		return RefundBreakdown{}, err
	}

	return RefundBreakdown{
		TierApplied:       tier,
		DaysBefore:        daysBefore,
		PolicyEntitlement: entitlement,
		TotalPaid:         totalPaid,
		PriorRefundsTotal: priorRefundsTotal,
		SuggestedAmount:   refundable.ClampZero(),
	}, nil
}

func selectTier(tiers []PolicyTier, daysBefore int) (PolicyTier, bool) {
	for _, tier := range tiers {
		if tier.DaysBeforeCheckin <= daysBefore {
			return tier, true
		}
	}
	return PolicyTier{}, false
}

func checkRefundCurrencies(totalPaid, priorRefundsTotal, bookingTotal Money) error {
	if err := bookingTotal.sameCurrency(totalPaid); err != nil {
		return err
	}
	return bookingTotal.sameCurrency(priorRefundsTotal)
}

// OverrideAssessment reports how a manual override of the suggested
// refund amount relates to the calculated bounds.
type OverrideAssessment struct {
	Override           Money `json:"override"`
	MaxRefundable      Money `json:"max_refundable"`
	WithinPaidBounds   bool  `json:"within_paid_bounds"`
	ExceedsEntitlement bool  `json:"exceeds_entitlement"`
}

// AssessOverride evaluates an approval-workflow override against a
// breakdown. Overrides outside [0, TotalPaid - PriorRefundsTotal] are
// out of bounds; overrides above the policy entitlement are flagged
// but not forbidden here, since the final call belongs to the
// workflow.
func AssessOverride(breakdown RefundBreakdown, override Money) (OverrideAssessment, error) {
	if err := breakdown.TotalPaid.sameCurrency(override); err != nil {
		return OverrideAssessment{}, err
	}

	max, err := breakdown.TotalPaid.Sub(breakdown.PriorRefundsTotal)
	if err != nil {
		return OverrideAssessment{}, err
	}
	max = max.ClampZero()

	return OverrideAssessment{
		Override:           override,
		MaxRefundable:      max,
		WithinPaidBounds:   !override.IsNegative() && override.MinorUnits <= max.MinorUnits,
		ExceedsEntitlement: override.MinorUnits > breakdown.PolicyEntitlement.MinorUnits,
	}, nil
}
