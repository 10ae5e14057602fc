package pricing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RuleKind discriminates the payment rule union.
type RuleKind string

const (
	RuleDeposit  RuleKind = "deposit"
	RuleSchedule RuleKind = "payment_schedule"
)

// AmountKind selects how a deposit or schedule entry value is read.
type AmountKind string

const (
	AmountPercentage AmountKind = "percentage"
	AmountFixed      AmountKind = "fixed"
)

// DueAnchor selects the reference date for a due timing.
type DueAnchor string

const (
	DueImmediately       DueAnchor = "immediately"
	DueDaysAfterBooking  DueAnchor = "days_after_booking"
	DueDaysBeforeCheckin DueAnchor = "days_before_checkin"
)

// DueTiming resolves to a concrete due date relative to the booking
// or check-in date.
type DueTiming struct {
	Anchor DueAnchor `json:"anchor"`
	Days   int       `json:"days"`
}

// DepositTerms parametrizes a deposit rule: the deposit amount and
// when deposit and balance fall due.
type DepositTerms struct {
	AmountKind AmountKind `json:"amount_kind"`
	Value      int64      `json:"value"`
	DepositDue DueTiming  `json:"deposit_due"`
	BalanceDue DueTiming  `json:"balance_due"`
}

// ScheduleEntry is one installment of a multi-installment rule.
type ScheduleEntry struct {
	AmountKind AmountKind `json:"amount_kind"`
	Value      int64      `json:"value"`
	Due        DueTiming  `json:"due"`
}

// PaymentRule is a tagged union: Kind selects which parameter set is
// populated. Construct deposit rules with Deposit set and schedule
// rules with Schedule set; the zero value is not a valid rule.
type PaymentRule struct {
	Kind     RuleKind        `json:"kind"`
	Scope    RuleScope       `json:"scope"`
	Priority int             `json:"priority"`
	Deposit  *DepositTerms   `json:"deposit,omitempty"`
	Schedule []ScheduleEntry `json:"schedule,omitempty"`
}

// Installment is one scheduled partial payment.
type Installment struct {
	Sequence int       `json:"sequence"`
	Amount   Money     `json:"amount"`
	DueDate  time.Time `json:"due_date"`
}

// ExpandPaymentSchedule turns a payment rule into concrete
// installments for a booking total. Installment amounts always sum to
// exactly the total: for percentage schedules the rounding remainder
// is folded into the final installment. Every installment here is a
// pre-stay payment, so a due date resolving after check-in is
// rejected with ErrInvalidDueTiming.
func ExpandPaymentSchedule(rule PaymentRule, total Money, checkinDate, bookingDate time.Time) ([]Installment, error) {
	switch rule.Kind {
	case RuleDeposit:
		if rule.Deposit == nil {
			return nil, fmt.Errorf("%w: deposit rule without deposit terms", ErrInvalidInput)
		}
		return expandDeposit(*rule.Deposit, total, checkinDate, bookingDate)
	case RuleSchedule:
		if len(rule.Schedule) == 0 {
			return nil, fmt.Errorf("%w: schedule rule without entries", ErrInvalidInput)
		}
		return expandSchedule(rule.Schedule, total, checkinDate, bookingDate)
	default:
		return nil, fmt.Errorf("%w: unknown rule kind %q", ErrInvalidInput, rule.Kind)
	}
}

func expandDeposit(terms DepositTerms, total Money, checkinDate, bookingDate time.Time) ([]Installment, error) {
	var deposit Money
	switch terms.AmountKind {
	case AmountPercentage:
		deposit = total.PercentOf(int(terms.Value))
	case AmountFixed:
		fixed := NewMoney(terms.Value, total.Currency)
		clamped, err := fixed.Min(total)
		if err != nil {
			return nil, err
		}
		deposit = clamped
	default:
		return nil, fmt.Errorf("%w: unknown amount kind %q", ErrInvalidInput, terms.AmountKind)
	}

	balance, err := total.Sub(deposit)
	if err != nil {
		return nil, err
	}

	depositDue, err := resolveDue(terms.DepositDue, checkinDate, bookingDate)
	if err != nil {
		return nil, err
	}
	balanceDue, err := resolveDue(terms.BalanceDue, checkinDate, bookingDate)
	if err != nil {
		return nil, err
	}

	return []Installment{
		{Sequence: 1, Amount: deposit, DueDate: depositDue},
		{Sequence: 2, Amount: balance, DueDate: balanceDue},
	}, nil
}

func expandSchedule(entries []ScheduleEntry, total Money, checkinDate, bookingDate time.Time) ([]Installment, error) {
	// A schedule is either all-percentage summing to 100 or all-fixed
	// summing to the total. ValidateSchedule enforces the shape at
	// rule-save time; this re-check keeps a stale rule from silently
	// producing a short or long schedule.
	if err := ValidateSchedule(entries); err != nil {
		return nil, err
	}

	// ValidateSchedule guarantees a homogeneous schedule.
	percentage := entries[0].AmountKind == AmountPercentage
	if !percentage {
		var fixedSum int64
		for _, entry := range entries {
			fixedSum += entry.Value
		}
		if fixedSum != total.MinorUnits {
			return nil, fmt.Errorf("%w: fixed installments sum to %d, booking total %d %s",
				ErrScheduleDoesNotSumToTotal, fixedSum, total.MinorUnits, total.Currency)
		}
	}

	installments := make([]Installment, 0, len(entries))
	allocated := Zero(total.Currency)
	for i, entry := range entries {
		var amount Money
		switch entry.AmountKind {
		case AmountPercentage:
			amount = total.PercentOf(int(entry.Value))
		case AmountFixed:
			amount = NewMoney(entry.Value, total.Currency)
		}

		if percentage && i == len(entries)-1 {
			// Fold the rounding remainder into the last installment so
			// the series sums to the total exactly. Fixed schedules were
			// checked above and need no adjustment.
			rest, err := total.Sub(allocated)
			if err != nil {
				return nil, err
			}
			amount = rest
		}

		due, err := resolveDue(entry.Due, checkinDate, bookingDate)
		if err != nil {
			return nil, err
		}

		sum, err := allocated.Add(amount)
		if err != nil {
			return nil, err
		}
		allocated = sum

		installments = append(installments, Installment{
			Sequence: i + 1,
			Amount:   amount,
			DueDate:  due,
		})
	}

	if allocated.MinorUnits != total.MinorUnits {
		return nil, fmt.Errorf("%w: allocated %s of %s", ErrScheduleDoesNotSumToTotal, allocated, total)
	}
	return installments, nil
}

// ValidateSchedule checks the shape of a multi-installment schedule:
// all entries percentage summing to exactly 100, or all entries fixed.
// Fixed totals are checked against the booking total at expansion
// time since the rule itself does not know the total.
func ValidateSchedule(entries []ScheduleEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: empty schedule", ErrInvalidInput)
	}

	var pctCount int
	var pctSum int64
	for _, entry := range entries {
		switch entry.AmountKind {
		case AmountPercentage:
			pctCount++
			pctSum += entry.Value
		case AmountFixed:
			if entry.Value < 0 {
				return fmt.Errorf("%w: negative fixed installment", ErrInvalidInput)
			}
		default:
			return fmt.Errorf("%w: unknown amount kind %q", ErrInvalidInput, entry.AmountKind)
		}
	}

	if pctCount > 0 && pctCount != len(entries) {
		return fmt.Errorf("%w: schedule mixes percentage and fixed entries", ErrScheduleDoesNotSumToTotal)
	}
	if pctCount > 0 && pctSum != 100 {
		return fmt.Errorf("%w: percentages sum to %d", ErrScheduleDoesNotSumToTotal, pctSum)
	}
	return nil
}

func resolveDue(timing DueTiming, checkinDate, bookingDate time.Time) (time.Time, error) {
	var due time.Time
	switch timing.Anchor {
	case DueImmediately:
		due = bookingDate
	case DueDaysAfterBooking:
		due = bookingDate.AddDate(0, 0, timing.Days)
	case DueDaysBeforeCheckin:
		due = checkinDate.AddDate(0, 0, -timing.Days)
	default:
		return time.Time{}, fmt.Errorf("%w: unknown due anchor %q", ErrInvalidInput, timing.Anchor)
	}
	if due.After(checkinDate) {
		return time.Time{}, fmt.Errorf("%w: due %s, check-in %s",
			ErrInvalidDueTiming, due.Format("2006-01-02"), checkinDate.Format("2006-01-02"))
	}
	return due, nil
}

// ruleScopeKind discriminates the RuleScope variant.
type ruleScopeKind int

const (
	scopeRoom ruleScopeKind = iota + 1
	scopeProperty
)

// RuleScope is either room-scoped or property-scoped; the constructors
// make "exactly one of room/property" structural rather than a
// runtime presence check.
type RuleScope struct {
	kind ruleScopeKind
	id   uuid.UUID
}

// RoomScoped builds a scope targeting a single room.
func RoomScoped(roomID uuid.UUID) RuleScope {
	return RuleScope{kind: scopeRoom, id: roomID}
}

// PropertyScoped builds a scope targeting a whole property.
func PropertyScoped(propertyID uuid.UUID) RuleScope {
	return RuleScope{kind: scopeProperty, id: propertyID}
}

// RoomID returns the room target, if any.
func (s RuleScope) RoomID() (uuid.UUID, bool) {
	if s.kind == scopeRoom {
		return s.id, true
	}
	return uuid.Nil, false
}

// PropertyID returns the property target, if any.
func (s RuleScope) PropertyID() (uuid.UUID, bool) {
	if s.kind == scopeProperty {
		return s.id, true
	}
	return uuid.Nil, false
}

// IsZero reports whether the scope was never set.
func (s RuleScope) IsZero() bool {
	return s.kind == 0
}

// ResolveApplicableRule selects the payment rule to apply for a
// booking of roomID within propertyID: filter to matching scopes, then
// highest priority wins, with room scope beating property scope on
// ties. Returns nil when no candidate matches.
func ResolveApplicableRule(candidates []PaymentRule, roomID, propertyID uuid.UUID) *PaymentRule {
	var best *PaymentRule
	for i := range candidates {
		rule := &candidates[i]
		if !ruleMatches(rule.Scope, roomID, propertyID) {
			continue
		}
		if best == nil || moreApplicable(rule, best) {
			best = rule
		}
	}
	return best
}

func ruleMatches(scope RuleScope, roomID, propertyID uuid.UUID) bool {
	if id, ok := scope.RoomID(); ok {
		return id == roomID
	}
	if id, ok := scope.PropertyID(); ok {
		return id == propertyID
	}
	return false
}

func moreApplicable(candidate, current *PaymentRule) bool {
	if candidate.Priority != current.Priority {
		return candidate.Priority > current.Priority
	}
	_, candidateRoom := candidate.Scope.RoomID()
	_, currentRoom := current.Scope.RoomID()
	return candidateRoom && !currentRoom
}
