package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"roomly/internal/addons"
	"roomly/internal/availability"
	"roomly/internal/policies"
	"roomly/internal/pricing"
	"roomly/internal/promotions"
	"roomly/internal/properties"
	"roomly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotOwner         = errors.New("booking belongs to another user")
	ErrNotCancellable   = errors.New("booking cannot be cancelled in its current status")
	ErrMixedProperties  = errors.New("all rooms must belong to the requested property")
	ErrInstallmentState = errors.New("installment is not payable")
	ErrPaymentMismatch  = errors.New("payment amount does not match the installment")
	ErrBadDates         = errors.New("invalid stay dates")
)

const dateLayout = "2006-01-02"

// Notifier publishes booking lifecycle events. Kept as a small interface so
// the Kafka producer can be swapped out in tests.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *Booking)
	BookingCancelled(ctx context.Context, booking *Booking)
	PaymentRecorded(ctx context.Context, booking *Booking, amountMinor int64)
}

type Service interface {
	// Quote prices a prospective stay without committing inventory.
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)

	// CreateBooking holds inventory, prices the stay, snapshots the
	// cancellation policy and persists the booking aggregate.
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error)

	GetBooking(ctx context.Context, id uuid.UUID) (*BookingResponse, error)
	GetBookingRecord(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]BookingResponse, int64, error)
	GetAllBookings(ctx context.Context, query BookingListQuery) ([]BookingResponse, int64, error)

	// RecordPayment applies a payment against an installment.
	RecordPayment(ctx context.Context, bookingID, userID uuid.UUID, req RecordPaymentRequest) (*BookingResponse, error)

	// TotalPaid reports the amount collected so far for a booking.
	TotalPaid(ctx context.Context, bookingID uuid.UUID) (int64, error)

	// Cancel marks a booking cancelled and frees its promotion use.
	// Refund settlement is handled by the refunds workflow.
	Cancel(ctx context.Context, bookingID, userID uuid.UUID, actorIsAdmin bool) (*Booking, error)
}

type service struct {
	repo         Repository
	properties   properties.Service
	addons       addons.Service
	promotions   promotions.Service
	policies     policies.Service
	availability availability.Service
	notifier     Notifier
	log          *logger.Logger
	holdTTL      time.Duration
}

func NewService(
	repo Repository,
	propertyService properties.Service,
	addonService addons.Service,
	promotionService promotions.Service,
	policyService policies.Service,
	availabilityService availability.Service,
	notifier Notifier,
	log *logger.Logger,
	holdTTL time.Duration,
) Service {
	return &service{
		repo:         repo,
		properties:   propertyService,
		addons:       addonService,
		promotions:   promotionService,
		policies:     policyService,
		availability: availabilityService,
		notifier:     notifier,
		log:          log,
		holdTTL:      holdTTL,
	}
}

// pricedStay is the intermediate result shared by Quote and CreateBooking
type pricedStay struct {
	propertyID   uuid.UUID
	checkin      time.Time
	checkout     time.Time
	nights       int
	rooms        []properties.Room
	selections   []RoomSelection
	addonSels    []addons.Selection
	roomCharges  []pricing.RoomCharge
	addonCharges []pricing.AddonCharge
	quote        pricing.Quote
	promotion    *promotions.Promotion
	discount     *pricing.PromotionDiscount
	rule         *pricing.PaymentRule
	ruleID       *uuid.UUID
	installments []pricing.Installment
}

func (s *service) priceStay(ctx context.Context, req QuoteRequest, bookingDate time.Time) (*pricedStay, error) {
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("invalid property id: %w", err)
	}

	checkin, err := time.Parse(dateLayout, req.Checkin)
	if err != nil {
		return nil, fmt.Errorf("%w: bad checkin date", ErrBadDates)
	}
	checkout, err := time.Parse(dateLayout, req.Checkout)
	if err != nil {
		return nil, fmt.Errorf("%w: bad checkout date", ErrBadDates)
	}
	if !checkout.After(checkin) {
		return nil, fmt.Errorf("%w: checkout must be after checkin", ErrBadDates)
	}
	nights := int(checkout.Sub(checkin).Hours() / 24)

	roomIDs := make([]uuid.UUID, 0, len(req.Rooms))
	for _, sel := range req.Rooms {
		id, err := uuid.Parse(sel.RoomID)
		if err != nil {
			return nil, fmt.Errorf("invalid room id %q", sel.RoomID)
		}
		roomIDs = append(roomIDs, id)
	}

	rooms, err := s.properties.GetRoomsByIDs(ctx, roomIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*properties.Room, len(rooms))
	for i := range rooms {
		if rooms[i].PropertyID != propertyID {
			return nil, ErrMixedProperties
		}
		byID[rooms[i].ID] = &rooms[i]
	}

	// Price each room
	roomCharges := make([]pricing.RoomCharge, 0, len(req.Rooms))
	orderedRooms := make([]properties.Room, 0, len(req.Rooms))
	totalGuests := 0
	for _, sel := range req.Rooms {
		room := byID[uuid.MustParse(sel.RoomID)]
		charge, err := pricing.PriceRoom(room.Rate(), nights, sel.Adults, sel.Children)
		if err != nil {
			return nil, err
		}
		roomCharges = append(roomCharges, charge)
		orderedRooms = append(orderedRooms, *room)
		totalGuests += sel.Adults + sel.Children
	}

	// Price addons against the whole stay; room-scoped addons must
	// cover at least one booked room
	addonCharges, err := s.addons.PriceSelection(ctx, req.Addons, roomIDs, nights, totalGuests)
	if err != nil {
		return nil, err
	}

	stay := &pricedStay{
		propertyID:   propertyID,
		checkin:      checkin,
		checkout:     checkout,
		nights:       nights,
		rooms:        orderedRooms,
		selections:   req.Rooms,
		addonSels:    req.Addons,
		roomCharges:  roomCharges,
		addonCharges: addonCharges,
	}

	// Resolve the promotion against the pre-discount room subtotal.
	// Addon charges are never part of the discount base.
	if req.PromoCode != "" {
		subtotal, err := sumRoomCharges(roomCharges)
		if err != nil {
			return nil, err
		}

		discount, promotion, err := s.promotions.Resolve(ctx, req.PromoCode, roomIDs[0], bookingDate, subtotal)
		if err != nil {
			return nil, err
		}

		// A room-scoped promotion must cover every room in the booking
		for _, roomID := range roomIDs[1:] {
			if _, err := pricing.ResolvePromotion(promotion.ToPricing(), roomID, bookingDate, subtotal); err != nil {
				return nil, err
			}
		}

		stay.promotion = promotion
		stay.discount = discount
	}

	quote, err := pricing.BuildQuote(roomCharges, addonCharges, stay.discount)
	if err != nil {
		return nil, err
	}
	stay.quote = quote

	// Resolve the payment rule and expand the installment plan
	rule, ruleID, err := s.policies.ResolveRule(ctx, roomIDs[0], propertyID)
	if err != nil {
		return nil, err
	}
	stay.rule = rule
	stay.ruleID = ruleID

	if rule != nil {
		installments, err := pricing.ExpandPaymentSchedule(*rule, quote.GrandTotal, checkin, bookingDate)
		if err != nil {
			return nil, err
		}
		stay.installments = installments
	} else {
		// No rule: the full amount is due at booking time
		stay.installments = []pricing.Installment{{
			Sequence: 1,
			Amount:   quote.GrandTotal,
			DueDate:  bookingDate,
		}}
	}

	return stay, nil
}

func (s *service) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	stay, err := s.priceStay(ctx, req, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	resp := s.buildQuoteResponse(req, stay)
	s.log.LogQuoteGenerated(ctx, req.PropertyID, stay.quote.GrandTotal.MinorUnits, stay.quote.Currency)
	return resp, nil
}

func (s *service) buildQuoteResponse(req QuoteRequest, stay *pricedStay) *QuoteResponse {
	quotedRooms := make([]QuotedRoom, 0, len(stay.roomCharges))
	for i, charge := range stay.roomCharges {
		quotedRooms = append(quotedRooms, QuotedRoom{
			RoomID:        stay.rooms[i].ID.String(),
			RoomName:      stay.rooms[i].Name,
			Nights:        charge.Nights,
			Adults:        charge.Adults,
			Children:      charge.Children,
			SubtotalMinor: charge.Subtotal.MinorUnits,
		})
	}

	quotedAddons := make([]QuotedAddon, 0, len(stay.addonCharges))
	for i, charge := range stay.addonCharges {
		addonID := ""
		if i < len(req.Addons) {
			addonID = req.Addons[i].AddonID.String()
		}
		quotedAddons = append(quotedAddons, QuotedAddon{
			AddonID:        addonID,
			Name:           charge.Name,
			UnitPriceMinor: charge.BasePrice.MinorUnits,
			Multiplier:     int(charge.Multiplier),
			Quantity:       charge.Quantity,
			TotalMinor:     charge.Total.MinorUnits,
		})
	}

	installments := make([]QuotedInstallment, 0, len(stay.installments))
	for _, inst := range stay.installments {
		installments = append(installments, QuotedInstallment{
			Sequence:    inst.Sequence,
			AmountMinor: inst.Amount.MinorUnits,
			DueDate:     inst.DueDate,
		})
	}

	discountMinor := int64(0)
	if stay.discount != nil {
		discountMinor = stay.discount.DiscountAmount.MinorUnits
	}

	return &QuoteResponse{
		PropertyID:          req.PropertyID,
		Currency:            stay.quote.Currency,
		Checkin:             req.Checkin,
		Checkout:            req.Checkout,
		Rooms:               quotedRooms,
		Addons:              quotedAddons,
		RoomsSubtotalMinor:  stay.quote.RoomsSubtotal.MinorUnits,
		AddonsSubtotalMinor: stay.quote.AddonsSubtotal.MinorUnits,
		DiscountMinor:       discountMinor,
		PromoCode:           req.PromoCode,
		GrandTotalMinor:     stay.quote.GrandTotal.MinorUnits,
		Installments:        installments,
	}
}

func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	bookingDate := time.Now().UTC()

	stay, err := s.priceStay(ctx, req.QuoteRequest, bookingDate)
	if err != nil {
		return nil, err
	}

	// Hold every room's nights before touching the database
	holdIDs := make([]string, 0, len(stay.rooms))
	releaseHolds := func() {
		for _, holdID := range holdIDs {
			_ = s.availability.ReleaseHold(ctx, holdID)
		}
	}
	for i := range stay.rooms {
		holdID, err := s.availability.HoldStay(ctx, userID, stay.rooms[i].ID, stay.checkin, stay.checkout, s.holdTTL)
		if err != nil {
			releaseHolds()
			return nil, err
		}
		holdIDs = append(holdIDs, holdID)
	}

	booking, err := s.assembleBooking(ctx, userID, req, stay)
	if err != nil {
		releaseHolds()
		return nil, err
	}

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		releaseHolds()
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	// Consume the promotion only after the booking exists
	if stay.promotion != nil && stay.discount != nil {
		if err := s.promotions.Redeem(ctx, stay.promotion.ID, booking.ID, stay.discount.DiscountAmount); err != nil {
			now := time.Now()
			_ = s.repo.UpdateBookingStatus(ctx, booking.ID, StatusCancelled, &now)
			releaseHolds()
			return nil, err
		}
	}

	// Inventory now lives in the database; the Redis holds can go
	releaseHolds()

	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.PropertyID.String(), userID.String())
	if s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, booking)
	}

	resp := booking.ToResponse(0)
	return &resp, nil
}

func (s *service) assembleBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest, stay *pricedStay) (*Booking, error) {
	booking := &Booking{
		BookingRef:          newBookingRef(),
		UserID:              userID,
		PropertyID:          stay.propertyID,
		Status:              StatusPendingPayment,
		GuestName:           req.GuestName,
		GuestEmail:          req.GuestEmail,
		CheckinDate:         stay.checkin,
		CheckoutDate:        stay.checkout,
		Currency:            stay.quote.Currency,
		RoomsSubtotalMinor:  stay.quote.RoomsSubtotal.MinorUnits,
		AddonsSubtotalMinor: stay.quote.AddonsSubtotal.MinorUnits,
		DiscountMinor:       stay.quote.DiscountTotal.MinorUnits,
		GrandTotalMinor:     stay.quote.GrandTotal.MinorUnits,
		PaymentRuleID:       stay.ruleID,
	}

	if stay.promotion != nil {
		booking.PromotionID = &stay.promotion.ID
	}

	for i, sel := range stay.selections {
		booking.Adults += sel.Adults
		booking.Children += sel.Children
		booking.Rooms = append(booking.Rooms, BookingRoom{
			RoomID:        stay.rooms[i].ID,
			RoomName:      stay.rooms[i].Name,
			CheckinDate:   stay.checkin,
			CheckoutDate:  stay.checkout,
			Nights:        stay.nights,
			Adults:        sel.Adults,
			Children:      sel.Children,
			SubtotalMinor: stay.roomCharges[i].Subtotal.MinorUnits,
		})
	}

	for i, charge := range stay.addonCharges {
		booking.Addons = append(booking.Addons, BookingAddon{
			AddonID:        stay.addonID(i),
			Name:           charge.Name,
			UnitPriceMinor: charge.BasePrice.MinorUnits,
			Multiplier:     int(charge.Multiplier),
			Quantity:       charge.Quantity,
			TotalMinor:     charge.Total.MinorUnits,
		})
	}

	for _, inst := range stay.installments {
		booking.Installments = append(booking.Installments, PaymentInstallment{
			Sequence:    inst.Sequence,
			AmountMinor: inst.Amount.MinorUnits,
			DueDate:     inst.DueDate,
			Status:      InstallmentPending,
		})
	}

	// Snapshot the property's active cancellation policy, if any
	policy, err := s.policies.GetActivePolicy(ctx, stay.propertyID)
	if err != nil && !errors.Is(err, policies.ErrPolicyNotFound) {
		return nil, err
	}
	if policy != nil {
		booking.PolicyID = &policy.ID
		booking.PolicySnapshot = append(policies.PolicyTiers{}, policy.Tiers...)
	}

	return booking, nil
}

// addonID maps a charge index back to the requested addon selection
func (ps *pricedStay) addonID(i int) uuid.UUID {
	if i < len(ps.addonSels) {
		return ps.addonSels[i].AddonID
	}
	return uuid.Nil
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	totalPaid, err := s.repo.GetTotalPaid(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := booking.ToResponse(totalPaid)
	return &resp, nil
}

func (s *service) GetBookingRecord(ctx context.Context, id uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]BookingResponse, int64, error) {
	bookings, totalCount, err := s.repo.GetUserBookings(ctx, userID, query)
	if err != nil {
		return nil, 0, err
	}
	return s.toResponses(ctx, bookings), totalCount, nil
}

func (s *service) GetAllBookings(ctx context.Context, query BookingListQuery) ([]BookingResponse, int64, error) {
	bookings, totalCount, err := s.repo.GetAllBookings(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return s.toResponses(ctx, bookings), totalCount, nil
}

func (s *service) toResponses(ctx context.Context, bookings []Booking) []BookingResponse {
	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		totalPaid, _ := s.repo.GetTotalPaid(ctx, bookings[i].ID)
		responses = append(responses, bookings[i].ToResponse(totalPaid))
	}
	return responses
}

func (s *service) RecordPayment(ctx context.Context, bookingID, userID uuid.UUID, req RecordPaymentRequest) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotOwner
	}
	if booking.Status == StatusCancelled {
		return nil, ErrNotCancellable
	}

	payment := &Payment{
		BookingID:   bookingID,
		AmountMinor: req.AmountMinor,
		Method:      req.Method,
		Reference:   req.Reference,
		PaidAt:      time.Now().UTC(),
	}

	if installmentID := uuidOrNil(req.InstallmentID); installmentID != nil {
		installment, err := s.repo.GetInstallmentByID(ctx, *installmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInstallmentState
			}
			return nil, err
		}
		if installment.BookingID != bookingID || installment.Status != InstallmentPending {
			return nil, ErrInstallmentState
		}
		if installment.AmountMinor != req.AmountMinor {
			return nil, ErrPaymentMismatch
		}
		if err := s.repo.MarkInstallmentPaid(ctx, *installmentID, payment.PaidAt); err != nil {
			return nil, err
		}
		payment.InstallmentID = installmentID
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	// The first successful payment confirms the booking
	if booking.Status == StatusPendingPayment {
		if err := s.repo.UpdateBookingStatus(ctx, bookingID, StatusConfirmed, nil); err != nil {
			return nil, err
		}
	}

	if s.notifier != nil {
		s.notifier.PaymentRecorded(ctx, booking, req.AmountMinor)
	}

	return s.GetBooking(ctx, bookingID)
}

func (s *service) TotalPaid(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	return s.repo.GetTotalPaid(ctx, bookingID)
}

func (s *service) Cancel(ctx context.Context, bookingID, userID uuid.UUID, actorIsAdmin bool) (*Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if !actorIsAdmin && booking.UserID != userID {
		return nil, ErrNotOwner
	}
	if booking.Status != StatusPendingPayment && booking.Status != StatusConfirmed {
		return nil, ErrNotCancellable
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateBookingStatus(ctx, bookingID, StatusCancelled, &now); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	// The promotion use returns to the pool
	if booking.PromotionID != nil {
		if err := s.promotions.Release(ctx, bookingID); err != nil {
			s.log.ErrorWithContext(ctx, "failed to release promotion", err, map[string]interface{}{
				"booking_id": bookingID.String(),
			})
		}
	}

	booking.Status = StatusCancelled
	booking.CancelledAt = &now

	s.log.LogBookingCancelled(ctx, bookingID.String(), booking.PropertyID.String(), booking.UserID.String())
	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, booking)
	}

	return booking, nil
}

func sumRoomCharges(roomCharges []pricing.RoomCharge) (pricing.Money, error) {
	if len(roomCharges) == 0 {
		return pricing.Money{}, pricing.ErrInvalidInput
	}
	total := roomCharges[0].Subtotal
	var err error
	for _, charge := range roomCharges[1:] {
		total, err = total.Add(charge.Subtotal)
		if err != nil {
			return pricing.Money{}, err
		}
	}
	return total, nil
}

// newBookingRef generates a short human-readable reference
func newBookingRef() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "RB-" + raw[:10]
}
