package refunds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusRequested, StatusUnderReview, true},
		{StatusRequested, StatusApproved, true},
		{StatusRequested, StatusRejected, true},
		{StatusRequested, StatusWithdrawn, true},
		{StatusRequested, StatusProcessing, false},
		{StatusUnderReview, StatusApproved, true},
		{StatusUnderReview, StatusRejected, true},
		{StatusUnderReview, StatusWithdrawn, true},
		{StatusApproved, StatusProcessing, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusWithdrawn, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusProcessing, StatusWithdrawn, true},
		{StatusCompleted, StatusProcessing, false},
		{StatusRejected, StatusApproved, false},
		{StatusWithdrawn, StatusRequested, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusWithdrawn.Terminal())
	assert.False(t, StatusRequested.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.False(t, StatusProcessing.Terminal())
}

func TestBreakdownSnapshotRoundTrip(t *testing.T) {
	snapshot := BreakdownSnapshot{
		TierDaysBeforeCheckin: 7,
		TierRefundPercentage:  50,
		DaysBefore:            9,
		EntitlementMinor:      5000,
		TotalPaidMinor:        10000,
		PriorRefundsMinor:     1000,
		SuggestedMinor:        4000,
	}

	value, err := snapshot.Value()
	require.NoError(t, err)

	var decoded BreakdownSnapshot
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, snapshot, decoded)
}
