package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"roomly/internal/addons"
	"roomly/internal/availability"
	"roomly/internal/policies"
	"roomly/internal/pricing"
	"roomly/internal/promotions"
	"roomly/internal/properties"
	"roomly/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var errNotImplemented = errors.New("not implemented in fake")

// ---- fakes ----

type fakeRepo struct {
	bookings     map[uuid.UUID]*Booking
	installments map[uuid.UUID]*PaymentInstallment
	payments     []*Payment
	createErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings:     make(map[uuid.UUID]*Booking),
		installments: make(map[uuid.UUID]*PaymentInstallment),
	}
}

func (f *fakeRepo) CreateBooking(_ context.Context, booking *Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	for i := range booking.Installments {
		if booking.Installments[i].ID == uuid.Nil {
			booking.Installments[i].ID = uuid.New()
		}
		booking.Installments[i].BookingID = booking.ID
		f.installments[booking.Installments[i].ID] = &booking.Installments[i]
	}
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeRepo) GetBookingByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return booking, nil
}

func (f *fakeRepo) GetBookingByRef(_ context.Context, ref string) (*Booking, error) {
	for _, booking := range f.bookings {
		if booking.BookingRef == ref {
			return booking, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateBookingStatus(_ context.Context, id uuid.UUID, status Status, cancelledAt *time.Time) error {
	booking, ok := f.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	booking.Status = status
	booking.CancelledAt = cancelledAt
	return nil
}

func (f *fakeRepo) GetUserBookings(_ context.Context, userID uuid.UUID, _ BookingListQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			out = append(out, *booking)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) GetAllBookings(_ context.Context, _ BookingListQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, booking := range f.bookings {
		out = append(out, *booking)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) GetInstallmentByID(_ context.Context, id uuid.UUID) (*PaymentInstallment, error) {
	inst, ok := f.installments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inst, nil
}

func (f *fakeRepo) MarkInstallmentPaid(_ context.Context, id uuid.UUID, paidAt time.Time) error {
	inst, ok := f.installments[id]
	if !ok || inst.Status != InstallmentPending {
		return gorm.ErrRecordNotFound
	}
	inst.Status = InstallmentPaid
	inst.PaidAt = &paidAt
	return nil
}

func (f *fakeRepo) CreatePayment(_ context.Context, payment *Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.payments = append(f.payments, payment)
	return nil
}

func (f *fakeRepo) GetTotalPaid(_ context.Context, bookingID uuid.UUID) (int64, error) {
	var total int64
	for _, payment := range f.payments {
		if payment.BookingID == bookingID {
			total += payment.AmountMinor
		}
	}
	return total, nil
}

type fakeProperties struct {
	rooms map[uuid.UUID]properties.Room
}

func (f *fakeProperties) GetRoomsByIDs(_ context.Context, ids []uuid.UUID) ([]properties.Room, error) {
	out := make([]properties.Room, 0, len(ids))
	for _, id := range ids {
		room, ok := f.rooms[id]
		if !ok {
			return nil, properties.ErrRoomNotFound
		}
		out = append(out, room)
	}
	return out, nil
}

func (f *fakeProperties) CreateProperty(context.Context, uuid.UUID, properties.CreatePropertyRequest) (*properties.PropertyResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeProperties) GetProperty(context.Context, uuid.UUID) (*properties.PropertyResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeProperties) UpdateProperty(context.Context, uuid.UUID, uuid.UUID, properties.UpdatePropertyRequest) (*properties.PropertyResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeProperties) DeleteProperty(context.Context, uuid.UUID) error { return errNotImplemented }
func (f *fakeProperties) ListProperties(context.Context, properties.PropertyListQuery) (*properties.PaginatedProperties, error) {
	return nil, errNotImplemented
}
func (f *fakeProperties) AddRoom(context.Context, uuid.UUID, properties.CreateRoomRequest) (*properties.RoomResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeProperties) GetRoom(context.Context, uuid.UUID) (*properties.Room, error) {
	return nil, errNotImplemented
}
func (f *fakeProperties) GetRooms(context.Context, uuid.UUID) ([]properties.RoomResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeProperties) UpdateRoom(context.Context, uuid.UUID, properties.UpdateRoomRequest) (*properties.RoomResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeProperties) DeleteRoom(context.Context, uuid.UUID) error { return errNotImplemented }

type fakeAddons struct {
	charges []pricing.AddonCharge
	err     error
}

func (f *fakeAddons) PriceSelection(_ context.Context, _ []addons.Selection, _ []uuid.UUID, _, _ int) ([]pricing.AddonCharge, error) {
	return f.charges, f.err
}

func (f *fakeAddons) CreateAddon(context.Context, uuid.UUID, uuid.UUID, addons.CreateAddonRequest) (*addons.AddonResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeAddons) GetAddon(context.Context, uuid.UUID) (*addons.AddonResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeAddons) GetAddonsByProperty(context.Context, uuid.UUID, bool) ([]addons.AddonResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeAddons) UpdateAddon(context.Context, uuid.UUID, uuid.UUID, addons.UpdateAddonRequest) (*addons.AddonResponse, error) {
	return nil, errNotImplemented
}
func (f *fakeAddons) DeleteAddon(context.Context, uuid.UUID) error { return errNotImplemented }

type fakePromotions struct {
	discount     *pricing.PromotionDiscount
	promotion    *promotions.Promotion
	resolveErr   error
	redeemErr    error
	redeemed     []uuid.UUID
	released     []uuid.UUID
	resolvedBase pricing.Money
}

func (f *fakePromotions) Resolve(_ context.Context, _ string, _ uuid.UUID, _ time.Time, subtotal pricing.Money) (*pricing.PromotionDiscount, *promotions.Promotion, error) {
	f.resolvedBase = subtotal
	if f.resolveErr != nil {
		return nil, nil, f.resolveErr
	}
	return f.discount, f.promotion, nil
}

func (f *fakePromotions) Redeem(_ context.Context, _, bookingID uuid.UUID, _ pricing.Money) error {
	if f.redeemErr != nil {
		return f.redeemErr
	}
	f.redeemed = append(f.redeemed, bookingID)
	return nil
}

func (f *fakePromotions) Release(_ context.Context, bookingID uuid.UUID) error {
	f.released = append(f.released, bookingID)
	return nil
}

func (f *fakePromotions) CreatePromotion(context.Context, uuid.UUID, uuid.UUID, promotions.CreatePromotionRequest) (*promotions.PromotionResponse, error) {
	return nil, errNotImplemented
}
func (f *fakePromotions) GetPromotion(context.Context, uuid.UUID) (*promotions.PromotionResponse, error) {
	return nil, errNotImplemented
}
func (f *fakePromotions) GetPromotionsByProperty(context.Context, uuid.UUID) ([]promotions.PromotionResponse, error) {
	return nil, errNotImplemented
}
func (f *fakePromotions) UpdatePromotion(context.Context, uuid.UUID, uuid.UUID, promotions.UpdatePromotionRequest) (*promotions.PromotionResponse, error) {
	return nil, errNotImplemented
}
func (f *fakePromotions) DeletePromotion(context.Context, uuid.UUID) error { return errNotImplemented }
func (f *fakePromotions) SweepExpired(context.Context) (int64, error) {
	return 0, errNotImplemented
}

type fakePolicies struct {
	rule   *pricing.PaymentRule
	ruleID *uuid.UUID
	policy *policies.CancellationPolicy
}

func (f *fakePolicies) ResolveRule(context.Context, uuid.UUID, uuid.UUID) (*pricing.PaymentRule, *uuid.UUID, error) {
	return f.rule, f.ruleID, nil
}

func (f *fakePolicies) GetActivePolicy(context.Context, uuid.UUID) (*policies.CancellationPolicy, error) {
	if f.policy == nil {
		return nil, policies.ErrPolicyNotFound
	}
	return f.policy, nil
}

func (f *fakePolicies) CreatePaymentRule(context.Context, uuid.UUID, policies.CreatePaymentRuleRequest) (*policies.PaymentRuleResponse, error) {
	return nil, errNotImplemented
}
func (f *fakePolicies) GetPaymentRule(context.Context, uuid.UUID) (*policies.PaymentRuleResponse, error) {
	return nil, errNotImplemented
}
func (f *fakePolicies) DeactivatePaymentRule(context.Context, uuid.UUID) error {
	return errNotImplemented
}
func (f *fakePolicies) CreateCancellationPolicy(context.Context, uuid.UUID, uuid.UUID, policies.CreateCancellationPolicyRequest) (*policies.CancellationPolicyResponse, error) {
	return nil, errNotImplemented
}
func (f *fakePolicies) GetCancellationPolicy(context.Context, uuid.UUID) (*policies.CancellationPolicy, error) {
	return nil, errNotImplemented
}
func (f *fakePolicies) DeactivateCancellationPolicy(context.Context, uuid.UUID) error {
	return errNotImplemented
}

type fakeAvailability struct {
	holdErr  error
	held     []string
	released []string
}

func (f *fakeAvailability) CheckStay(context.Context, uuid.UUID, time.Time, time.Time) (*availability.StayAvailability, error) {
	return nil, errNotImplemented
}

func (f *fakeAvailability) HoldStay(_ context.Context, _, roomID uuid.UUID, _, _ time.Time, _ time.Duration) (string, error) {
	if f.holdErr != nil {
		return "", f.holdErr
	}
	holdID := "hold-" + roomID.String()
	f.held = append(f.held, holdID)
	return holdID, nil
}

func (f *fakeAvailability) ReleaseHold(_ context.Context, holdID string) error {
	f.released = append(f.released, holdID)
	return nil
}

func (f *fakeAvailability) ValidateHold(context.Context, string, uuid.UUID) (*availability.HoldInfo, error) {
	return nil, errNotImplemented
}

func (f *fakeAvailability) ExtendHold(context.Context, string, uuid.UUID, time.Duration) error {
	return errNotImplemented
}

type fakeNotifier struct {
	confirmed []string
	cancelled []string
	payments  []int64
}

func (f *fakeNotifier) BookingConfirmed(_ context.Context, booking *Booking) {
	f.confirmed = append(f.confirmed, booking.BookingRef)
}

func (f *fakeNotifier) BookingCancelled(_ context.Context, booking *Booking) {
	f.cancelled = append(f.cancelled, booking.BookingRef)
}

func (f *fakeNotifier) PaymentRecorded(_ context.Context, _ *Booking, amountMinor int64) {
	f.payments = append(f.payments, amountMinor)
}

// ---- fixture ----

type serviceFixture struct {
	service      Service
	repo         *fakeRepo
	properties   *fakeProperties
	addons       *fakeAddons
	promotions   *fakePromotions
	policies     *fakePolicies
	availability *fakeAvailability
	notifier     *fakeNotifier

	propertyID uuid.UUID
	roomID     uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	propertyID := uuid.New()
	roomID := uuid.New()

	fx := &serviceFixture{
		repo: newFakeRepo(),
		properties: &fakeProperties{rooms: map[uuid.UUID]properties.Room{
			roomID: {
				ID:               roomID,
				PropertyID:       propertyID,
				Name:             "Garden Room",
				NightlyRateMinor: 10000,
				Currency:         "USD",
				OccupancyMode:    "flat",
				MaxOccupancy:     2,
				TotalUnits:       3,
				IsActive:         true,
			},
		}},
		addons:       &fakeAddons{},
		promotions:   &fakePromotions{},
		policies:     &fakePolicies{},
		availability: &fakeAvailability{},
		notifier:     &fakeNotifier{},
		propertyID:   propertyID,
		roomID:       roomID,
	}

	fx.service = NewService(
		fx.repo,
		fx.properties,
		fx.addons,
		fx.promotions,
		fx.policies,
		fx.availability,
		fx.notifier,
		logger.GetDefault(),
		15*time.Minute,
	)
	return fx
}

func (fx *serviceFixture) quoteRequest() QuoteRequest {
	return QuoteRequest{
		PropertyID: fx.propertyID.String(),
		Checkin:    "2026-10-01",
		Checkout:   "2026-10-03",
		Rooms:      []RoomSelection{{RoomID: fx.roomID.String(), Adults: 2}},
	}
}

func (fx *serviceFixture) createRequest() CreateBookingRequest {
	return CreateBookingRequest{
		QuoteRequest: fx.quoteRequest(),
		GuestName:    "Ada Lovelace",
		GuestEmail:   "ada@example.com",
	}
}

// ---- tests ----

func TestQuoteSingleRoomNoRule(t *testing.T) {
	fx := newServiceFixture(t)

	resp, err := fx.service.Quote(context.Background(), fx.quoteRequest())
	require.NoError(t, err)

	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, int64(20000), resp.RoomsSubtotalMinor, "2 nights at 10000")
	assert.Equal(t, int64(20000), resp.GrandTotalMinor)
	require.Len(t, resp.Rooms, 1)
	assert.Equal(t, 2, resp.Rooms[0].Nights)

	// No payment rule: everything due at booking time in one installment
	require.Len(t, resp.Installments, 1)
	assert.Equal(t, int64(20000), resp.Installments[0].AmountMinor)
}

func TestQuoteExpandsDepositRule(t *testing.T) {
	fx := newServiceFixture(t)
	ruleID := uuid.New()
	fx.policies.rule = &pricing.PaymentRule{
		Kind:  pricing.RuleDeposit,
		Scope: pricing.PropertyScoped(fx.propertyID),
		Deposit: &pricing.DepositTerms{
			AmountKind: pricing.AmountPercentage,
			Value:      30,
			DepositDue: pricing.DueTiming{Anchor: pricing.DueImmediately},
			BalanceDue: pricing.DueTiming{Anchor: pricing.DueDaysBeforeCheckin, Days: 7},
		},
	}
	fx.policies.ruleID = &ruleID

	resp, err := fx.service.Quote(context.Background(), fx.quoteRequest())
	require.NoError(t, err)

	require.Len(t, resp.Installments, 2)
	assert.Equal(t, int64(6000), resp.Installments[0].AmountMinor)
	assert.Equal(t, int64(14000), resp.Installments[1].AmountMinor)
}

func TestQuotePromotionBaseExcludesAddons(t *testing.T) {
	fx := newServiceFixture(t)

	// 2 nights at 10000 plus a 5000 addon; the 10% code must discount
	// the rooms alone, never the addon total.
	fx.addons.charges = []pricing.AddonCharge{{
		Name:       "Airport Transfer",
		BasePrice:  pricing.NewMoney(5000, "USD"),
		Multiplier: 1,
		Quantity:   1,
		Total:      pricing.NewMoney(5000, "USD"),
	}}
	fx.promotions.promotion = &promotions.Promotion{
		ID:           uuid.New(),
		Code:         "TEN",
		DiscountType: "percentage",
		Value:        10,
		ValidFrom:    time.Now().Add(-time.Hour),
		ValidUntil:   time.Now().Add(24 * time.Hour),
	}
	fx.promotions.discount = &pricing.PromotionDiscount{
		Code:               "TEN",
		DiscountAmount:     pricing.NewMoney(2000, "USD"),
		DiscountedSubtotal: pricing.NewMoney(18000, "USD"),
	}

	req := fx.quoteRequest()
	req.Addons = []addons.Selection{{AddonID: uuid.New(), Quantity: 1}}
	req.PromoCode = "TEN"

	resp, err := fx.service.Quote(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(20000), fx.promotions.resolvedBase.MinorUnits,
		"discount base is the room subtotal, addons excluded")
	assert.Equal(t, int64(20000), resp.RoomsSubtotalMinor)
	assert.Equal(t, int64(5000), resp.AddonsSubtotalMinor)
	assert.Equal(t, int64(2000), resp.DiscountMinor)
	assert.Equal(t, int64(23000), resp.GrandTotalMinor)
}

func TestQuoteRejectsBadDates(t *testing.T) {
	fx := newServiceFixture(t)
	req := fx.quoteRequest()
	req.Checkin = "2026-10-05"
	req.Checkout = "2026-10-03"

	_, err := fx.service.Quote(context.Background(), req)
	assert.ErrorIs(t, err, ErrBadDates)
}

func TestQuoteRejectsRoomFromAnotherProperty(t *testing.T) {
	fx := newServiceFixture(t)
	req := fx.quoteRequest()
	req.PropertyID = uuid.New().String()

	_, err := fx.service.Quote(context.Background(), req)
	assert.ErrorIs(t, err, ErrMixedProperties)
}

func TestCreateBookingPersistsAndReleasesHolds(t *testing.T) {
	fx := newServiceFixture(t)
	policyID := uuid.New()
	fx.policies.policy = &policies.CancellationPolicy{
		ID:         policyID,
		PropertyID: fx.propertyID,
		Name:       "Flexible",
		Tiers: policies.PolicyTiers{
			{DaysBeforeCheckin: 7, RefundPercentage: 100},
			{DaysBeforeCheckin: 0, RefundPercentage: 0},
		},
		IsActive: true,
	}

	userID := uuid.New()
	resp, err := fx.service.CreateBooking(context.Background(), userID, fx.createRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusPendingPayment, resp.Status)
	assert.Equal(t, "Ada Lovelace", resp.GuestName)
	assert.Equal(t, int64(20000), resp.GrandTotalMinor)
	require.Len(t, resp.PolicySnapshot, 2, "policy tiers snapshotted onto the booking")

	// One hold per room, all released once the booking row exists
	assert.Len(t, fx.availability.held, 1)
	assert.Equal(t, fx.availability.held, fx.availability.released)
	assert.Len(t, fx.notifier.confirmed, 1)
	assert.Len(t, fx.repo.bookings, 1)
}

func TestCreateBookingReleasesHoldsOnPersistFailure(t *testing.T) {
	fx := newServiceFixture(t)
	fx.repo.createErr = errors.New("boom")

	_, err := fx.service.CreateBooking(context.Background(), uuid.New(), fx.createRequest())
	require.Error(t, err)

	assert.Equal(t, fx.availability.held, fx.availability.released)
	assert.Empty(t, fx.notifier.confirmed)
}

func TestCreateBookingCancelsWhenRedeemFails(t *testing.T) {
	fx := newServiceFixture(t)
	promoID := uuid.New()
	fx.promotions.promotion = &promotions.Promotion{
		ID:         promoID,
		PropertyID: fx.propertyID,
		Code:       "SAVE10",
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(24 * time.Hour),
	}
	fx.promotions.discount = &pricing.PromotionDiscount{
		Code:               "SAVE10",
		DiscountAmount:     pricing.NewMoney(2000, "USD"),
		DiscountedSubtotal: pricing.NewMoney(18000, "USD"),
	}
	fx.promotions.redeemErr = pricing.ErrPromotionExhausted

	req := fx.createRequest()
	req.PromoCode = "SAVE10"

	_, err := fx.service.CreateBooking(context.Background(), uuid.New(), req)
	require.ErrorIs(t, err, pricing.ErrPromotionExhausted)

	// The provisional booking is cancelled and the inventory freed
	require.Len(t, fx.repo.bookings, 1)
	for _, booking := range fx.repo.bookings {
		assert.Equal(t, StatusCancelled, booking.Status)
	}
	assert.Equal(t, fx.availability.held, fx.availability.released)
}

func TestRecordPaymentConfirmsBooking(t *testing.T) {
	fx := newServiceFixture(t)
	userID := uuid.New()

	created, err := fx.service.CreateBooking(context.Background(), userID, fx.createRequest())
	require.NoError(t, err)
	bookingID := uuid.MustParse(created.ID)
	require.Len(t, created.Installments, 1)

	resp, err := fx.service.RecordPayment(context.Background(), bookingID, userID, RecordPaymentRequest{
		InstallmentID: created.Installments[0].ID.String(),
		AmountMinor:   20000,
		Method:        "card",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, resp.Status)
	assert.Equal(t, int64(20000), resp.TotalPaidMinor)
	require.Len(t, resp.Installments, 1)
	assert.Equal(t, InstallmentPaid, resp.Installments[0].Status)
	assert.Equal(t, []int64{20000}, fx.notifier.payments)
}

func TestRecordPaymentRejectsAmountMismatch(t *testing.T) {
	fx := newServiceFixture(t)
	userID := uuid.New()

	created, err := fx.service.CreateBooking(context.Background(), userID, fx.createRequest())
	require.NoError(t, err)
	bookingID := uuid.MustParse(created.ID)

	_, err = fx.service.RecordPayment(context.Background(), bookingID, userID, RecordPaymentRequest{
		InstallmentID: created.Installments[0].ID.String(),
		AmountMinor:   12345,
		Method:        "card",
	})
	assert.ErrorIs(t, err, ErrPaymentMismatch)
}

func TestRecordPaymentRejectsOtherUsers(t *testing.T) {
	fx := newServiceFixture(t)

	created, err := fx.service.CreateBooking(context.Background(), uuid.New(), fx.createRequest())
	require.NoError(t, err)

	_, err = fx.service.RecordPayment(context.Background(), uuid.MustParse(created.ID), uuid.New(), RecordPaymentRequest{
		AmountMinor: 20000,
		Method:      "card",
	})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCancelByOwnerReleasesPromotion(t *testing.T) {
	fx := newServiceFixture(t)
	promoID := uuid.New()
	fx.promotions.promotion = &promotions.Promotion{
		ID:         promoID,
		PropertyID: fx.propertyID,
		Code:       "SAVE10",
		ValidFrom:  time.Now().Add(-time.Hour),
		ValidUntil: time.Now().Add(24 * time.Hour),
	}
	fx.promotions.discount = &pricing.PromotionDiscount{
		Code:               "SAVE10",
		DiscountAmount:     pricing.NewMoney(2000, "USD"),
		DiscountedSubtotal: pricing.NewMoney(18000, "USD"),
	}

	userID := uuid.New()
	req := fx.createRequest()
	req.PromoCode = "SAVE10"
	created, err := fx.service.CreateBooking(context.Background(), userID, req)
	require.NoError(t, err)
	bookingID := uuid.MustParse(created.ID)

	cancelled, err := fx.service.Cancel(context.Background(), bookingID, userID, false)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, []uuid.UUID{bookingID}, fx.promotions.released)
	assert.Len(t, fx.notifier.cancelled, 1)
}

func TestCancelRejectsNonOwner(t *testing.T) {
	fx := newServiceFixture(t)

	created, err := fx.service.CreateBooking(context.Background(), uuid.New(), fx.createRequest())
	require.NoError(t, err)

	_, err = fx.service.Cancel(context.Background(), uuid.MustParse(created.ID), uuid.New(), false)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCancelAdminOverridesOwnership(t *testing.T) {
	fx := newServiceFixture(t)

	created, err := fx.service.CreateBooking(context.Background(), uuid.New(), fx.createRequest())
	require.NoError(t, err)

	cancelled, err := fx.service.Cancel(context.Background(), uuid.MustParse(created.ID), uuid.New(), true)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
}

func TestCancelRejectsTerminalStatus(t *testing.T) {
	fx := newServiceFixture(t)
	userID := uuid.New()

	created, err := fx.service.CreateBooking(context.Background(), userID, fx.createRequest())
	require.NoError(t, err)
	bookingID := uuid.MustParse(created.ID)

	_, err = fx.service.Cancel(context.Background(), bookingID, userID, false)
	require.NoError(t, err)

	_, err = fx.service.Cancel(context.Background(), bookingID, userID, false)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestGetBookingNotFound(t *testing.T) {
	fx := newServiceFixture(t)

	_, err := fx.service.GetBooking(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestBookingRefFormat(t *testing.T) {
	ref := newBookingRef()
	assert.Len(t, ref, 13)
	assert.Equal(t, "RB-", ref[:3])
}
