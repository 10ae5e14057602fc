package refunds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomly/internal/bookings"
	"roomly/internal/pricing"
	"roomly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRefundNotFound      = errors.New("refund request not found")
	ErrNotOwner            = errors.New("refund request belongs to another user")
	ErrBookingNotRefunded  = errors.New("booking is not cancelled")
	ErrNoPolicySnapshot    = errors.New("booking carries no cancellation policy")
	ErrOpenRequestExists   = errors.New("an open refund request already exists for this booking")
	ErrNothingRefundable   = errors.New("nothing left to refund for this booking")
	ErrBadTransition       = errors.New("refund request is not in a state that allows this action")
	ErrOverrideOutOfBounds = errors.New("override amount exceeds the refundable balance")
)

// Notifier publishes refund lifecycle events
type Notifier interface {
	RefundDecided(ctx context.Context, refund *RefundRequest)
}

type Service interface {
	// RequestRefund opens a refund request for a cancelled booking,
	// pricing it against the policy snapshot taken at confirmation.
	RequestRefund(ctx context.Context, userID uuid.UUID, req CreateRefundRequest) (*RefundRequest, error)

	// Preview calculates what a cancellation would refund right now,
	// without creating a request. Useful before the guest commits.
	Preview(ctx context.Context, userID uuid.UUID, bookingID uuid.UUID, actorIsAdmin bool) (*pricing.RefundBreakdown, error)

	GetRefund(ctx context.Context, id uuid.UUID, userID uuid.UUID, actorIsAdmin bool) (*RefundRequest, error)
	GetUserRefunds(ctx context.Context, userID uuid.UUID, query RefundListQuery) ([]RefundRequest, int64, error)
	GetAllRefunds(ctx context.Context, query RefundListQuery) ([]RefundRequest, int64, error)
	GetBookingRefunds(ctx context.Context, bookingID uuid.UUID) ([]RefundRequest, error)

	// StartReview moves a request into review
	StartReview(ctx context.Context, refundID uuid.UUID) (*RefundRequest, error)

	// Decide approves or rejects a request. An approval may override the
	// suggested amount within the refundable balance.
	Decide(ctx context.Context, refundID, adminID uuid.UUID, req DecideRefundRequest) (*RefundRequest, error)

	// StartProcessing moves an approved request into payout processing
	StartProcessing(ctx context.Context, refundID uuid.UUID) (*RefundRequest, error)

	// Settle records the payout outcome
	Settle(ctx context.Context, refundID uuid.UUID, req SettleRefundRequest) (*RefundRequest, error)

	// Withdraw lets the requester pull an undecided request
	Withdraw(ctx context.Context, refundID, userID uuid.UUID) (*RefundRequest, error)
}

type service struct {
	repo     Repository
	bookings bookings.Service
	notifier Notifier
	log      *logger.Logger
}

func NewService(repo Repository, bookingService bookings.Service, notifier Notifier, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		bookings: bookingService,
		notifier: notifier,
		log:      log,
	}
}

func (s *service) calculateForBooking(ctx context.Context, booking *bookings.Booking, cancelledAt time.Time) (*pricing.RefundBreakdown, error) {
	if len(booking.PolicySnapshot) == 0 {
		return nil, ErrNoPolicySnapshot
	}

	totalPaid, err := s.bookings.TotalPaid(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	priorRefunds, err := s.repo.CommittedRefundTotal(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	breakdown, err := pricing.CalculateRefund(
		booking.PolicySnapshot.ToPricing(),
		booking.CheckinDate,
		cancelledAt,
		pricing.NewMoney(totalPaid, booking.Currency),
		pricing.NewMoney(priorRefunds, booking.Currency),
		pricing.NewMoney(booking.GrandTotalMinor, booking.Currency),
	)
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

func (s *service) RequestRefund(ctx context.Context, userID uuid.UUID, req CreateRefundRequest) (*RefundRequest, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id: %w", err)
	}

	booking, err := s.bookings.GetBookingRecord(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotOwner
	}
	if booking.Status != bookings.StatusCancelled || booking.CancelledAt == nil {
		return nil, ErrBookingNotRefunded
	}

	open, err := s.repo.HasOpenRequest(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrOpenRequestExists
	}

	breakdown, err := s.calculateForBooking(ctx, booking, *booking.CancelledAt)
	if err != nil {
		return nil, err
	}
	if breakdown.TotalPaid.MinorUnits-breakdown.PriorRefundsTotal.MinorUnits <= 0 {
		return nil, ErrNothingRefundable
	}

	refund := &RefundRequest{
		BookingID:            bookingID,
		UserID:               userID,
		Status:               StatusRequested,
		Currency:             booking.Currency,
		SuggestedAmountMinor: breakdown.SuggestedAmount.MinorUnits,
		Breakdown: BreakdownSnapshot{
			TierDaysBeforeCheckin: breakdown.TierApplied.DaysBeforeCheckin,
			TierRefundPercentage:  breakdown.TierApplied.RefundPercentage,
			DaysBefore:            breakdown.DaysBefore,
			EntitlementMinor:      breakdown.PolicyEntitlement.MinorUnits,
			TotalPaidMinor:        breakdown.TotalPaid.MinorUnits,
			PriorRefundsMinor:     breakdown.PriorRefundsTotal.MinorUnits,
			SuggestedMinor:        breakdown.SuggestedAmount.MinorUnits,
		},
		Reason: req.Reason,
	}

	if err := s.repo.Create(ctx, refund); err != nil {
		return nil, fmt.Errorf("failed to create refund request: %w", err)
	}

	s.log.LogRefundRequested(ctx, refund.ID.String(), bookingID.String(), userID.String())
	return refund, nil
}

func (s *service) Preview(ctx context.Context, userID uuid.UUID, bookingID uuid.UUID, actorIsAdmin bool) (*pricing.RefundBreakdown, error) {
	booking, err := s.bookings.GetBookingRecord(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actorIsAdmin && booking.UserID != userID {
		return nil, ErrNotOwner
	}

	// A live preview assumes cancellation right now; an already
	// cancelled booking previews against its actual cancellation time.
	at := time.Now().UTC()
	if booking.CancelledAt != nil {
		at = *booking.CancelledAt
	}
	return s.calculateForBooking(ctx, booking, at)
}

func (s *service) GetRefund(ctx context.Context, id uuid.UUID, userID uuid.UUID, actorIsAdmin bool) (*RefundRequest, error) {
	refund, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actorIsAdmin && refund.UserID != userID {
		return nil, ErrNotOwner
	}
	return refund, nil
}

func (s *service) GetUserRefunds(ctx context.Context, userID uuid.UUID, query RefundListQuery) ([]RefundRequest, int64, error) {
	return s.repo.GetUserRefunds(ctx, userID, query)
}

func (s *service) GetAllRefunds(ctx context.Context, query RefundListQuery) ([]RefundRequest, int64, error) {
	return s.repo.GetAllRefunds(ctx, query)
}

func (s *service) GetBookingRefunds(ctx context.Context, bookingID uuid.UUID) ([]RefundRequest, error) {
	return s.repo.GetByBookingID(ctx, bookingID)
}

func (s *service) StartReview(ctx context.Context, refundID uuid.UUID) (*RefundRequest, error) {
	return s.transition(ctx, refundID, StatusRequested, StatusUnderReview, nil)
}

func (s *service) Decide(ctx context.Context, refundID, adminID uuid.UUID, req DecideRefundRequest) (*RefundRequest, error) {
	refund, err := s.getByID(ctx, refundID)
	if err != nil {
		return nil, err
	}

	target := StatusRejected
	if req.Decision == "approve" {
		target = StatusApproved
	}
	if !refund.Status.CanTransitionTo(target) {
		return nil, ErrBadTransition
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"decided_by":   adminID,
		"decided_at":   now,
		"review_notes": req.Notes,
	}

	if target == StatusApproved {
		amount := refund.SuggestedAmountMinor
		overridden := false
		exceeds := false

		if req.OverrideAmountMinor != nil && *req.OverrideAmountMinor != refund.SuggestedAmountMinor {
			assessment, err := pricing.AssessOverride(
				refund.breakdownForAssessment(),
				pricing.NewMoney(*req.OverrideAmountMinor, refund.Currency),
			)
			if err != nil {
				return nil, err
			}
			if !assessment.WithinPaidBounds {
				return nil, ErrOverrideOutOfBounds
			}
			amount = *req.OverrideAmountMinor
			overridden = true
			exceeds = assessment.ExceedsEntitlement
		}

		updates["approved_amount_minor"] = amount
		updates["override_applied"] = overridden
		updates["exceeds_entitlement"] = exceeds
	}

	decided, err := s.transition(ctx, refundID, refund.Status, target, updates)
	if err != nil {
		return nil, err
	}

	amount := int64(0)
	if decided.ApprovedAmountMinor != nil {
		amount = *decided.ApprovedAmountMinor
	}
	s.log.LogRefundDecided(ctx, refundID.String(), string(target), amount)
	if s.notifier != nil {
		s.notifier.RefundDecided(ctx, decided)
	}

	return decided, nil
}

func (s *service) StartProcessing(ctx context.Context, refundID uuid.UUID) (*RefundRequest, error) {
	return s.transition(ctx, refundID, StatusApproved, StatusProcessing, nil)
}

func (s *service) Settle(ctx context.Context, refundID uuid.UUID, req SettleRefundRequest) (*RefundRequest, error) {
	now := time.Now().UTC()
	if req.Outcome == "failed" {
		return s.transition(ctx, refundID, StatusProcessing, StatusFailed, map[string]interface{}{
			"failure_reason": req.FailureReason,
		})
	}
	return s.transition(ctx, refundID, StatusProcessing, StatusCompleted, map[string]interface{}{
		"settled_at": now,
	})
}

func (s *service) Withdraw(ctx context.Context, refundID, userID uuid.UUID) (*RefundRequest, error) {
	refund, err := s.getByID(ctx, refundID)
	if err != nil {
		return nil, err
	}
	if refund.UserID != userID {
		return nil, ErrNotOwner
	}
	if !refund.Status.CanTransitionTo(StatusWithdrawn) {
		return nil, ErrBadTransition
	}
	return s.transition(ctx, refundID, refund.Status, StatusWithdrawn, nil)
}

func (s *service) getByID(ctx context.Context, id uuid.UUID) (*RefundRequest, error) {
	refund, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefundNotFound
		}
		return nil, err
	}
	return refund, nil
}

func (s *service) transition(ctx context.Context, id uuid.UUID, from, to Status, updates map[string]interface{}) (*RefundRequest, error) {
	if !from.CanTransitionTo(to) {
		return nil, ErrBadTransition
	}
	if err := s.repo.Transition(ctx, id, from, to, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Either the request is gone or someone else moved it first
			return nil, ErrBadTransition
		}
		return nil, err
	}
	return s.getByID(ctx, id)
}

// breakdownForAssessment rehydrates the pricing breakdown from the
// stored snapshot for override bounds checking
func (r *RefundRequest) breakdownForAssessment() pricing.RefundBreakdown {
	return pricing.RefundBreakdown{
		TierApplied: pricing.PolicyTier{
			DaysBeforeCheckin: r.Breakdown.TierDaysBeforeCheckin,
			RefundPercentage:  r.Breakdown.TierRefundPercentage,
		},
		DaysBefore:        r.Breakdown.DaysBefore,
		PolicyEntitlement: pricing.NewMoney(r.Breakdown.EntitlementMinor, r.Currency),
		TotalPaid:         pricing.NewMoney(r.Breakdown.TotalPaidMinor, r.Currency),
		PriorRefundsTotal: pricing.NewMoney(r.Breakdown.PriorRefundsMinor, r.Currency),
		SuggestedAmount:   pricing.NewMoney(r.Breakdown.SuggestedMinor, r.Currency),
	}
}
