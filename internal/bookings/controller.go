package bookings

import (
	"errors"
	"net/http"

	"roomly/internal/availability"
	"roomly/internal/pricing"
	"roomly/internal/promotions"
	"roomly/internal/properties"
	"roomly/internal/shared/middleware"
	"roomly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Quote handles POST /api/v1/bookings/quote
func (c *Controller) Quote(ctx *gin.Context) {
	var req QuoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	quote, err := c.service.Quote(ctx.Request.Context(), req)
	if err != nil {
		c.respondQuoteError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Quote generated successfully", quote, nil)
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, availability.ErrNightUnavailable) {
			response.RespondJSON(ctx, "error", http.StatusConflict, "Room is not available for the requested dates", nil, err.Error())
			return
		}
		c.respondQuoteError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to retrieve booking", nil, err.Error())
		return
	}

	if booking.UserID != userID.String() && !isAdmin(ctx) {
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetMyBookings handles GET /api/v1/bookings/my
func (c *Controller) GetMyBookings(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	bookings, totalCount, err := c.service.GetUserBookings(ctx.Request.Context(), userID, query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to retrieve bookings", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", gin.H{
		"bookings":    bookings,
		"total_count": totalCount,
		"page":        query.Page,
		"limit":       query.Limit,
		"total_pages": CalculateTotalPages(totalCount, query.Limit),
	}, nil)
}

// GetAllBookings handles GET /api/v1/admin/bookings
func (c *Controller) GetAllBookings(ctx *gin.Context) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	bookings, totalCount, err := c.service.GetAllBookings(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to retrieve bookings", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", gin.H{
		"bookings":    bookings,
		"total_count": totalCount,
		"page":        query.Page,
		"limit":       query.Limit,
		"total_pages": CalculateTotalPages(totalCount, query.Limit),
	}, nil)
}

// RecordPayment handles POST /api/v1/bookings/:id/payments
func (c *Controller) RecordPayment(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req RecordPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	booking, err := c.service.RecordPayment(ctx.Request.Context(), bookingID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrNotOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		case errors.Is(err, ErrInstallmentState):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Installment is not payable", nil, nil)
		case errors.Is(err, ErrPaymentMismatch):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Payment amount does not match the installment", nil, nil)
		case errors.Is(err, ErrNotCancellable):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Booking is cancelled", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to record payment", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment recorded successfully", booking, nil)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	booking, err := c.service.Cancel(ctx.Request.Context(), bookingID, userID, isAdmin(ctx))
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrNotOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		case errors.Is(err, ErrNotCancellable):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Booking cannot be cancelled in its current status", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to cancel booking", nil, err.Error())
		}
		return
	}

	resp := booking.ToResponse(0)
	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", resp, nil)
}

// respondQuoteError maps pricing and lookup failures to HTTP statuses
func (c *Controller) respondQuoteError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBadDates):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid stay dates", nil, err.Error())
	case errors.Is(err, ErrMixedProperties):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "All rooms must belong to the requested property", nil, nil)
	case errors.Is(err, properties.ErrRoomNotFound), errors.Is(err, properties.ErrPropertyNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Property or room not found", nil, err.Error())
	case errors.Is(err, promotions.ErrPromotionNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Promotion code not found", nil, nil)
	case errors.Is(err, pricing.ErrPromotionExpired),
		errors.Is(err, pricing.ErrPromotionExhausted),
		errors.Is(err, pricing.ErrPromotionNotApplicable),
		errors.Is(err, pricing.ErrPromotionAlreadyApplied):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Promotion cannot be applied", nil, err.Error())
	case errors.Is(err, pricing.ErrOccupancyExceedsCapacity),
		errors.Is(err, pricing.ErrQuantityExceedsMax):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Requested occupancy or quantity is not allowed", nil, err.Error())
	case errors.Is(err, pricing.ErrAddonNotApplicable):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Addon is not offered for the selected rooms", nil, err.Error())
	case errors.Is(err, pricing.ErrCurrencyMismatch):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Currency mismatch between priced items", nil, err.Error())
	case errors.Is(err, pricing.ErrInvalidInput):
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid pricing input", nil, err.Error())
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to price the stay", nil, err.Error())
	}
}

func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func isAdmin(ctx *gin.Context) bool {
	role, exists := ctx.Get("user_role")
	return exists && role == middleware.RoleAdmin
}
