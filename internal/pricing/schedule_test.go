package pricing

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bookingDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	checkinDate = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
)

func TestExpandDepositPercentage(t *testing.T) {
	rule := PaymentRule{
		Kind:  RuleDeposit,
		Scope: PropertyScoped(uuid.New()),
		Deposit: &DepositTerms{
			AmountKind: AmountPercentage,
			Value:      30,
			DepositDue: DueTiming{Anchor: DueImmediately},
			BalanceDue: DueTiming{Anchor: DueDaysBeforeCheckin, Days: 7},
		},
	}

	installments, err := ExpandPaymentSchedule(rule, NewMoney(100000, "USD"), checkinDate, bookingDate)
	require.NoError(t, err)
	require.Len(t, installments, 2)

	assert.Equal(t, int64(30000), installments[0].Amount.MinorUnits)
	assert.Equal(t, bookingDate, installments[0].DueDate)
	assert.Equal(t, int64(70000), installments[1].Amount.MinorUnits)
	assert.Equal(t, checkinDate.AddDate(0, 0, -7), installments[1].DueDate)
}

func TestExpandDepositFixedClamped(t *testing.T) {
	rule := PaymentRule{
		Kind:  RuleDeposit,
		Scope: RoomScoped(uuid.New()),
		Deposit: &DepositTerms{
			AmountKind: AmountFixed,
			Value:      150000,
			DepositDue: DueTiming{Anchor: DueImmediately},
			BalanceDue: DueTiming{Anchor: DueImmediately},
		},
	}

	installments, err := ExpandPaymentSchedule(rule, NewMoney(100000, "USD"), checkinDate, bookingDate)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), installments[0].Amount.MinorUnits)
	assert.True(t, installments[1].Amount.IsZero())
}

func TestExpandScheduleNonRoundPercentages(t *testing.T) {
	rule := PaymentRule{
		Kind:  RuleSchedule,
		Scope: PropertyScoped(uuid.New()),
		Schedule: []ScheduleEntry{
			{AmountKind: AmountPercentage, Value: 33, Due: DueTiming{Anchor: DueImmediately}},
			{AmountKind: AmountPercentage, Value: 33, Due: DueTiming{Anchor: DueDaysAfterBooking, Days: 10}},
			{AmountKind: AmountPercentage, Value: 34, Due: DueTiming{Anchor: DueDaysBeforeCheckin, Days: 5}},
		},
	}

	// 10001 is indivisible by 3; the remainder folds into the last
	// installment so the series still sums exactly.
	total := NewMoney(10001, "USD")
	installments, err := ExpandPaymentSchedule(rule, total, checkinDate, bookingDate)
	require.NoError(t, err)
	require.Len(t, installments, 3)

	var sum int64
	for _, inst := range installments {
		sum += inst.Amount.MinorUnits
	}
	assert.Equal(t, total.MinorUnits, sum, "installments must sum exactly to total")
}

func TestExpandScheduleSumProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(23))

	for i := 0; i < 200; i++ {
		// random split of 100% across 3-5 installments
		n := rng.Intn(3) + 3
		remaining := int64(100)
		entries := make([]ScheduleEntry, 0, n)
		for j := 0; j < n; j++ {
			pct := remaining
			if j < n-1 {
				pct = rng.Int63n(remaining + 1)
			}
			remaining -= pct
			entries = append(entries, ScheduleEntry{
				AmountKind: AmountPercentage,
				Value:      pct,
				Due:        DueTiming{Anchor: DueImmediately},
			})
		}

		rule := PaymentRule{Kind: RuleSchedule, Scope: PropertyScoped(uuid.New()), Schedule: entries}
		total := NewMoney(int64(rng.Intn(1000000)+1), "USD")

		installments, err := ExpandPaymentSchedule(rule, total, checkinDate, bookingDate)
		require.NoError(t, err)

		var sum int64
		for _, inst := range installments {
			sum += inst.Amount.MinorUnits
		}
		assert.Equal(t, total.MinorUnits, sum)
	}
}

func TestExpandScheduleFixedAmountsExact(t *testing.T) {
	rule := PaymentRule{
		Kind:  RuleSchedule,
		Scope: PropertyScoped(uuid.New()),
		Schedule: []ScheduleEntry{
			{AmountKind: AmountFixed, Value: 6000, Due: DueTiming{Anchor: DueImmediately}},
			{AmountKind: AmountFixed, Value: 4000, Due: DueTiming{Anchor: DueDaysBeforeCheckin, Days: 7}},
		},
	}

	installments, err := ExpandPaymentSchedule(rule, NewMoney(10000, "USD"), checkinDate, bookingDate)
	require.NoError(t, err)
	require.Len(t, installments, 2)
	assert.Equal(t, int64(6000), installments[0].Amount.MinorUnits)
	assert.Equal(t, int64(4000), installments[1].Amount.MinorUnits)
}

func TestExpandScheduleRejectsFixedSumMismatch(t *testing.T) {
	// The final fixed installment must never be rewritten to absorb a
	// mismatch; a schedule that overshoots the total is a configuration
	// error and would otherwise yield a negative installment.
	rule := PaymentRule{
		Kind:  RuleSchedule,
		Scope: PropertyScoped(uuid.New()),
		Schedule: []ScheduleEntry{
			{AmountKind: AmountFixed, Value: 12000, Due: DueTiming{Anchor: DueImmediately}},
			{AmountKind: AmountFixed, Value: 5000, Due: DueTiming{Anchor: DueImmediately}},
		},
	}

	_, err := ExpandPaymentSchedule(rule, NewMoney(10000, "USD"), checkinDate, bookingDate)
	assert.ErrorIs(t, err, ErrScheduleDoesNotSumToTotal)

	// Undershooting is rejected the same way
	rule.Schedule[0].Value = 3000
	_, err = ExpandPaymentSchedule(rule, NewMoney(10000, "USD"), checkinDate, bookingDate)
	assert.ErrorIs(t, err, ErrScheduleDoesNotSumToTotal)
}

func TestExpandScheduleRejectsBadPercentages(t *testing.T) {
	rule := PaymentRule{
		Kind:  RuleSchedule,
		Scope: PropertyScoped(uuid.New()),
		Schedule: []ScheduleEntry{
			{AmountKind: AmountPercentage, Value: 50, Due: DueTiming{Anchor: DueImmediately}},
			{AmountKind: AmountPercentage, Value: 40, Due: DueTiming{Anchor: DueImmediately}},
		},
	}

	_, err := ExpandPaymentSchedule(rule, NewMoney(10000, "USD"), checkinDate, bookingDate)
	assert.ErrorIs(t, err, ErrScheduleDoesNotSumToTotal)
}

func TestExpandScheduleRejectsMixedKinds(t *testing.T) {
	rule := PaymentRule{
		Kind:  RuleSchedule,
		Scope: PropertyScoped(uuid.New()),
		Schedule: []ScheduleEntry{
			{AmountKind: AmountPercentage, Value: 50, Due: DueTiming{Anchor: DueImmediately}},
			{AmountKind: AmountFixed, Value: 5000, Due: DueTiming{Anchor: DueImmediately}},
		},
	}

	_, err := ExpandPaymentSchedule(rule, NewMoney(10000, "USD"), checkinDate, bookingDate)
	assert.ErrorIs(t, err, ErrScheduleDoesNotSumToTotal)
}

func TestExpandScheduleInvalidDueTiming(t *testing.T) {
	rule := PaymentRule{
		Kind:  RuleSchedule,
		Scope: PropertyScoped(uuid.New()),
		Schedule: []ScheduleEntry{
			{AmountKind: AmountPercentage, Value: 100, Due: DueTiming{Anchor: DueDaysAfterBooking, Days: 60}},
		},
	}

	// booking + 60 days lands after check-in
	_, err := ExpandPaymentSchedule(rule, NewMoney(10000, "USD"), checkinDate, bookingDate)
	assert.ErrorIs(t, err, ErrInvalidDueTiming)
}

func TestRuleScopeVariants(t *testing.T) {
	roomID := uuid.New()
	propertyID := uuid.New()

	room := RoomScoped(roomID)
	id, ok := room.RoomID()
	assert.True(t, ok)
	assert.Equal(t, roomID, id)
	_, ok = room.PropertyID()
	assert.False(t, ok)

	prop := PropertyScoped(propertyID)
	_, ok = prop.RoomID()
	assert.False(t, ok)
	id, ok = prop.PropertyID()
	assert.True(t, ok)
	assert.Equal(t, propertyID, id)

	assert.True(t, RuleScope{}.IsZero())
	assert.False(t, room.IsZero())
}

func TestResolveApplicableRule(t *testing.T) {
	roomID := uuid.New()
	propertyID := uuid.New()

	propertyRule := PaymentRule{Kind: RuleDeposit, Scope: PropertyScoped(propertyID), Priority: 1}
	roomRule := PaymentRule{Kind: RuleDeposit, Scope: RoomScoped(roomID), Priority: 1}
	otherRoomRule := PaymentRule{Kind: RuleDeposit, Scope: RoomScoped(uuid.New()), Priority: 9}

	t.Run("room beats property on equal priority", func(t *testing.T) {
		got := ResolveApplicableRule([]PaymentRule{propertyRule, roomRule}, roomID, propertyID)
		require.NotNil(t, got)
		_, isRoom := got.Scope.RoomID()
		assert.True(t, isRoom)
	})

	t.Run("higher priority wins", func(t *testing.T) {
		high := propertyRule
		high.Priority = 5
		got := ResolveApplicableRule([]PaymentRule{roomRule, high}, roomID, propertyID)
		require.NotNil(t, got)
		assert.Equal(t, 5, got.Priority)
	})

	t.Run("non-matching scopes are filtered", func(t *testing.T) {
		got := ResolveApplicableRule([]PaymentRule{otherRoomRule}, roomID, propertyID)
		assert.Nil(t, got)
	})

	t.Run("no candidates", func(t *testing.T) {
		assert.Nil(t, ResolveApplicableRule(nil, roomID, propertyID))
	})
}
