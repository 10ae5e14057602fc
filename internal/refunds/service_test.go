package refunds

import (
	"context"
	"errors"
	"testing"
	"time"

	"roomly/internal/bookings"
	"roomly/internal/policies"
	"roomly/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var errNotImplemented = errors.New("not implemented in fake")

// ---- fakes ----

type fakeRefundRepo struct {
	refunds map[uuid.UUID]*RefundRequest
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{refunds: make(map[uuid.UUID]*RefundRequest)}
}

func (f *fakeRefundRepo) Create(_ context.Context, refund *RefundRequest) error {
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	stored := *refund
	f.refunds[refund.ID] = &stored
	return nil
}

func (f *fakeRefundRepo) GetByID(_ context.Context, id uuid.UUID) (*RefundRequest, error) {
	refund, ok := f.refunds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *refund
	return &copied, nil
}

func (f *fakeRefundRepo) GetByBookingID(_ context.Context, bookingID uuid.UUID) ([]RefundRequest, error) {
	var out []RefundRequest
	for _, refund := range f.refunds {
		if refund.BookingID == bookingID {
			out = append(out, *refund)
		}
	}
	return out, nil
}

func (f *fakeRefundRepo) GetUserRefunds(_ context.Context, userID uuid.UUID, _ RefundListQuery) ([]RefundRequest, int64, error) {
	var out []RefundRequest
	for _, refund := range f.refunds {
		if refund.UserID == userID {
			out = append(out, *refund)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRefundRepo) GetAllRefunds(_ context.Context, _ RefundListQuery) ([]RefundRequest, int64, error) {
	var out []RefundRequest
	for _, refund := range f.refunds {
		out = append(out, *refund)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRefundRepo) Transition(_ context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) error {
	refund, ok := f.refunds[id]
	if !ok || refund.Status != from {
		return gorm.ErrRecordNotFound
	}
	refund.Status = to
	for key, value := range updates {
		switch key {
		case "approved_amount_minor":
			amount := value.(int64)
			refund.ApprovedAmountMinor = &amount
		case "override_applied":
			refund.OverrideApplied = value.(bool)
		case "exceeds_entitlement":
			refund.ExceedsEntitlement = value.(bool)
		case "decided_by":
			id := value.(uuid.UUID)
			refund.DecidedBy = &id
		case "decided_at":
			at := value.(time.Time)
			refund.DecidedAt = &at
		case "review_notes":
			refund.ReviewNotes = value.(string)
		case "failure_reason":
			refund.FailureReason = value.(string)
		case "settled_at":
			at := value.(time.Time)
			refund.SettledAt = &at
		}
	}
	return nil
}

func (f *fakeRefundRepo) CommittedRefundTotal(_ context.Context, bookingID uuid.UUID) (int64, error) {
	var total int64
	for _, refund := range f.refunds {
		if refund.BookingID != bookingID || refund.ApprovedAmountMinor == nil {
			continue
		}
		switch refund.Status {
		case StatusApproved, StatusProcessing, StatusCompleted:
			total += *refund.ApprovedAmountMinor
		}
	}
	return total, nil
}

func (f *fakeRefundRepo) HasOpenRequest(_ context.Context, bookingID uuid.UUID) (bool, error) {
	for _, refund := range f.refunds {
		if refund.BookingID == bookingID && !refund.Status.Terminal() {
			return true, nil
		}
	}
	return false, nil
}

// fakeBookings serves GetBookingRecord and TotalPaid; nothing else is
// touched by the refund workflow.
type fakeBookings struct {
	booking   *bookings.Booking
	totalPaid int64
}

func (f *fakeBookings) GetBookingRecord(_ context.Context, id uuid.UUID) (*bookings.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, bookings.ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeBookings) TotalPaid(_ context.Context, _ uuid.UUID) (int64, error) {
	return f.totalPaid, nil
}

func (f *fakeBookings) Quote(context.Context, bookings.QuoteRequest) (*bookings.QuoteResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeBookings) CreateBooking(context.Context, uuid.UUID, bookings.CreateBookingRequest) (*bookings.BookingResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeBookings) GetBooking(context.Context, uuid.UUID) (*bookings.BookingResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeBookings) GetUserBookings(context.Context, uuid.UUID, bookings.BookingListQuery) ([]bookings.BookingResponse, int64, error) {
	return nil, 0, errNotImplemented
}
func (f *fakeBookings) GetAllBookings(context.Context, bookings.BookingListQuery) ([]bookings.BookingResponse, int64, error) {
	return nil, 0, errNotImplemented
}
func (f *fakeBookings) RecordPayment(context.Context, uuid.UUID, uuid.UUID, bookings.RecordPaymentRequest) (*bookings.BookingResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeBookings) Cancel(context.Context, uuid.UUID, uuid.UUID, bool) (*bookings.Booking, error) {
	return nil, errNotImplemented
}

type fakeRefundNotifier struct {
	decided []*RefundRequest
}

func (f *fakeRefundNotifier) RefundDecided(_ context.Context, refund *RefundRequest) {
	f.decided = append(f.decided, refund)
}

// ---- fixture ----

type refundFixture struct {
	service  Service
	repo     *fakeRefundRepo
	bookings *fakeBookings
	notifier *fakeRefundNotifier

	userID    uuid.UUID
	bookingID uuid.UUID
}

// newRefundFixture sets up a cancelled booking: 10000 total, fully
// paid, cancelled 10 days before checkin under a policy granting 100%
// at 7+ days and 50% at 3+ days.
func newRefundFixture(t *testing.T) *refundFixture {
	t.Helper()

	userID := uuid.New()
	bookingID := uuid.New()
	checkin := time.Now().UTC().AddDate(0, 0, 30)
	cancelledAt := checkin.AddDate(0, 0, -10)

	fx := &refundFixture{
		repo:     newFakeRefundRepo(),
		notifier: &fakeRefundNotifier{},
		bookings: &fakeBookings{
			totalPaid: 10000,
			booking: &bookings.Booking{
				ID:              bookingID,
				UserID:          userID,
				Status:          bookings.StatusCancelled,
				Currency:        "USD",
				GrandTotalMinor: 10000,
				CheckinDate:     checkin,
				CancelledAt:     &cancelledAt,
				PolicySnapshot: policies.PolicyTiers{
					{DaysBeforeCheckin: 7, RefundPercentage: 100},
					{DaysBeforeCheckin: 3, RefundPercentage: 50},
					{DaysBeforeCheckin: 0, RefundPercentage: 0},
				},
			},
		},
		userID:    userID,
		bookingID: bookingID,
	}

	fx.service = NewService(fx.repo, fx.bookings, fx.notifier, logger.GetDefault())
	return fx
}

func (fx *refundFixture) request(t *testing.T) *RefundRequest {
	t.Helper()
	refund, err := fx.service.RequestRefund(context.Background(), fx.userID, CreateRefundRequest{
		BookingID: fx.bookingID.String(),
		Reason:    "plans changed",
	})
	require.NoError(t, err)
	return refund
}

// ---- tests ----

func TestRequestRefundSuggestsFullEntitlement(t *testing.T) {
	fx := newRefundFixture(t)

	refund := fx.request(t)

	assert.Equal(t, StatusRequested, refund.Status)
	assert.Equal(t, int64(10000), refund.SuggestedAmountMinor)
	assert.Equal(t, 7, refund.Breakdown.TierDaysBeforeCheckin)
	assert.Equal(t, 100, refund.Breakdown.TierRefundPercentage)
	assert.Equal(t, int64(10000), refund.Breakdown.TotalPaidMinor)
}

func TestRequestRefundRejectsLiveBooking(t *testing.T) {
	fx := newRefundFixture(t)
	fx.bookings.booking.Status = bookings.StatusConfirmed
	fx.bookings.booking.CancelledAt = nil

	_, err := fx.service.RequestRefund(context.Background(), fx.userID, CreateRefundRequest{
		BookingID: fx.bookingID.String(),
	})
	assert.ErrorIs(t, err, ErrBookingNotRefunded)
}

func TestRequestRefundRejectsNonOwner(t *testing.T) {
	fx := newRefundFixture(t)

	_, err := fx.service.RequestRefund(context.Background(), uuid.New(), CreateRefundRequest{
		BookingID: fx.bookingID.String(),
	})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestRequestRefundRequiresPolicySnapshot(t *testing.T) {
	fx := newRefundFixture(t)
	fx.bookings.booking.PolicySnapshot = nil

	_, err := fx.service.RequestRefund(context.Background(), fx.userID, CreateRefundRequest{
		BookingID: fx.bookingID.String(),
	})
	assert.ErrorIs(t, err, ErrNoPolicySnapshot)
}

func TestRequestRefundRejectsDuplicateOpenRequest(t *testing.T) {
	fx := newRefundFixture(t)
	fx.request(t)

	_, err := fx.service.RequestRefund(context.Background(), fx.userID, CreateRefundRequest{
		BookingID: fx.bookingID.String(),
	})
	assert.ErrorIs(t, err, ErrOpenRequestExists)
}

func TestRequestRefundRejectsWhenNothingPaid(t *testing.T) {
	fx := newRefundFixture(t)
	fx.bookings.totalPaid = 0

	_, err := fx.service.RequestRefund(context.Background(), fx.userID, CreateRefundRequest{
		BookingID: fx.bookingID.String(),
	})
	assert.ErrorIs(t, err, ErrNothingRefundable)
}

func TestDecideApproveSuggestedAmount(t *testing.T) {
	fx := newRefundFixture(t)
	refund := fx.request(t)
	adminID := uuid.New()

	decided, err := fx.service.Decide(context.Background(), refund.ID, adminID, DecideRefundRequest{
		Decision: "approve",
		Notes:    "within policy",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, decided.Status)
	require.NotNil(t, decided.ApprovedAmountMinor)
	assert.Equal(t, int64(10000), *decided.ApprovedAmountMinor)
	assert.False(t, decided.OverrideApplied)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, adminID, *decided.DecidedBy)
	assert.Len(t, fx.notifier.decided, 1)
}

func TestDecideApproveWithOverride(t *testing.T) {
	fx := newRefundFixture(t)
	refund := fx.request(t)
	override := int64(6000)

	decided, err := fx.service.Decide(context.Background(), refund.ID, uuid.New(), DecideRefundRequest{
		Decision:            "approve",
		OverrideAmountMinor: &override,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6000), *decided.ApprovedAmountMinor)
	assert.True(t, decided.OverrideApplied)
	assert.False(t, decided.ExceedsEntitlement, "override below entitlement")
}

func TestDecideOverrideAboveEntitlementIsFlagged(t *testing.T) {
	fx := newRefundFixture(t)

	// Cancelled 5 days out: 50% tier, entitlement 5000 of 10000 paid
	fx.bookings.booking.CancelledAt = ptrTime(fx.bookings.booking.CheckinDate.AddDate(0, 0, -5))
	refund := fx.request(t)
	assert.Equal(t, int64(5000), refund.SuggestedAmountMinor)

	override := int64(8000)
	decided, err := fx.service.Decide(context.Background(), refund.ID, uuid.New(), DecideRefundRequest{
		Decision:            "approve",
		OverrideAmountMinor: &override,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(8000), *decided.ApprovedAmountMinor)
	assert.True(t, decided.OverrideApplied)
	assert.True(t, decided.ExceedsEntitlement, "above entitlement but within what was paid")
}

func TestDecideOverrideBeyondPaidBalanceRejected(t *testing.T) {
	fx := newRefundFixture(t)
	refund := fx.request(t)

	override := int64(15000)
	_, err := fx.service.Decide(context.Background(), refund.ID, uuid.New(), DecideRefundRequest{
		Decision:            "approve",
		OverrideAmountMinor: &override,
	})
	assert.ErrorIs(t, err, ErrOverrideOutOfBounds)
}

func TestDecideReject(t *testing.T) {
	fx := newRefundFixture(t)
	refund := fx.request(t)

	decided, err := fx.service.Decide(context.Background(), refund.ID, uuid.New(), DecideRefundRequest{
		Decision: "reject",
		Notes:    "outside policy window",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, decided.Status)
	assert.Nil(t, decided.ApprovedAmountMinor)
	assert.Len(t, fx.notifier.decided, 1)
}

func TestDecideTwiceFails(t *testing.T) {
	fx := newRefundFixture(t)
	refund := fx.request(t)

	_, err := fx.service.Decide(context.Background(), refund.ID, uuid.New(), DecideRefundRequest{Decision: "approve"})
	require.NoError(t, err)

	_, err = fx.service.Decide(context.Background(), refund.ID, uuid.New(), DecideRefundRequest{Decision: "reject"})
	assert.ErrorIs(t, err, ErrBadTransition)
}

func TestSettlementLifecycle(t *testing.T) {
	fx := newRefundFixture(t)
	refund := fx.request(t)

	_, err := fx.service.StartReview(context.Background(), refund.ID)
	require.NoError(t, err)

	_, err = fx.service.Decide(context.Background(), refund.ID, uuid.New(), DecideRefundRequest{Decision: "approve"})
	require.NoError(t, err)

	_, err = fx.service.StartProcessing(context.Background(), refund.ID)
	require.NoError(t, err)

	settled, err := fx.service.Settle(context.Background(), refund.ID, SettleRefundRequest{Outcome: "completed"})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, settled.Status)
	require.NotNil(t, settled.SettledAt)
}

func TestSettleFailureRecordsReason(t *testing.T) {
	fx := newRefundFixture(t)
	refund := fx.request(t)

	_, err := fx.service.Decide(context.Background(), refund.ID, uuid.New(), DecideRefundRequest{Decision: "approve"})
	require.NoError(t, err)
	_, err = fx.service.StartProcessing(context.Background(), refund.ID)
	require.NoError(t, err)

	settled, err := fx.service.Settle(context.Background(), refund.ID, SettleRefundRequest{
		Outcome:       "failed",
		FailureReason: "payout bounced",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, settled.Status)
	assert.Equal(t, "payout bounced", settled.FailureReason)
}

func TestWithdrawOwnRequest(t *testing.T) {
	fx := newRefundFixture(t)
	refund := fx.request(t)

	withdrawn, err := fx.service.Withdraw(context.Background(), refund.ID, fx.userID)
	require.NoError(t, err)
	assert.Equal(t, StatusWithdrawn, withdrawn.Status)

	// A withdrawn request no longer blocks a new one
	_, err = fx.service.RequestRefund(context.Background(), fx.userID, CreateRefundRequest{
		BookingID: fx.bookingID.String(),
	})
	assert.NoError(t, err)
}

func TestWithdrawAfterApproval(t *testing.T) {
	fx := newRefundFixture(t)
	refund := fx.request(t)

	_, err := fx.service.Decide(context.Background(), refund.ID, uuid.New(), DecideRefundRequest{Decision: "approve"})
	require.NoError(t, err)

	// The requester can still back out while the payout has not settled
	withdrawn, err := fx.service.Withdraw(context.Background(), refund.ID, fx.userID)
	require.NoError(t, err)
	assert.Equal(t, StatusWithdrawn, withdrawn.Status)
}

func TestWithdrawRejectsNonOwner(t *testing.T) {
	fx := newRefundFixture(t)
	refund := fx.request(t)

	_, err := fx.service.Withdraw(context.Background(), refund.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestPriorRefundsReduceSuggestion(t *testing.T) {
	fx := newRefundFixture(t)

	// A completed earlier refund of 4000 must count against the balance
	first := fx.request(t)
	_, err := fx.service.Decide(context.Background(), first.ID, uuid.New(), DecideRefundRequest{Decision: "approve"})
	require.NoError(t, err)
	amount := int64(4000)
	fx.repo.refunds[first.ID].ApprovedAmountMinor = &amount
	fx.repo.refunds[first.ID].Status = StatusCompleted

	second := fx.request(t)
	assert.Equal(t, int64(4000), second.Breakdown.PriorRefundsMinor)
	assert.Equal(t, int64(6000), second.SuggestedAmountMinor)
}

func TestPreviewOnLiveBookingUsesOwnership(t *testing.T) {
	fx := newRefundFixture(t)

	_, err := fx.service.Preview(context.Background(), uuid.New(), fx.bookingID, false)
	assert.ErrorIs(t, err, ErrNotOwner)

	breakdown, err := fx.service.Preview(context.Background(), uuid.New(), fx.bookingID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), breakdown.SuggestedAmount.MinorUnits)
}

func ptrTime(t time.Time) *time.Time { return &t }
