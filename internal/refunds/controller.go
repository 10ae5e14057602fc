package refunds

import (
	"errors"
	"net/http"

	"roomly/internal/bookings"
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

// RequestRefund handles POST /api/v1/refunds
func (c *Controller) RequestRefund(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req CreateRefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	refund, err := c.service.RequestRefund(ctx.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrNotOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		case errors.Is(err, ErrBookingNotRefunded):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Booking must be cancelled before requesting a refund", nil, nil)
		case errors.Is(err, ErrNoPolicySnapshot):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Booking has no cancellation policy", nil, nil)
		case errors.Is(err, ErrOpenRequestExists):
			response.RespondJSON(ctx, "error", http.StatusConflict, "An open refund request already exists for this booking", nil, nil)
		case errors.Is(err, ErrNothingRefundable):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Nothing left to refund for this booking", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create refund request", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Refund request created successfully", refund, nil)
}

// PreviewRefund handles GET /api/v1/bookings/:id/refund-preview
func (c *Controller) PreviewRefund(ctx *gin.Context) {
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

	breakdown, err := c.service.Preview(ctx.Request.Context(), userID, bookingID, isAdmin(ctx))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrNotOwner):
			response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		case errors.Is(err, ErrNoPolicySnapshot):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Booking has no cancellation policy", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to preview refund", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund preview calculated successfully", breakdown, nil)
}

// GetRefund handles GET /api/v1/refunds/:id
func (c *Controller) GetRefund(ctx *gin.Context) {
	refundID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid refund ID", nil, nil)
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	refund, err := c.service.GetRefund(ctx.Request.Context(), refundID, userID, isAdmin(ctx))
	if err != nil {
		c.respondRefundError(ctx, err, "Failed to retrieve refund request")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund request retrieved successfully", refund, nil)
}

// GetMyRefunds handles GET /api/v1/refunds/my
func (c *Controller) GetMyRefunds(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var query RefundListQuery
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

	refunds, totalCount, err := c.service.GetUserRefunds(ctx.Request.Context(), userID, query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to retrieve refund requests", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund requests retrieved successfully", gin.H{
		"refunds":     refunds,
		"total_count": totalCount,
		"page":        query.Page,
		"limit":       query.Limit,
		"total_pages": CalculateTotalPages(totalCount, query.Limit),
	}, nil)
}

// GetAllRefunds handles GET /api/v1/admin/refunds
func (c *Controller) GetAllRefunds(ctx *gin.Context) {
	var query RefundListQuery
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

	refunds, totalCount, err := c.service.GetAllRefunds(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to retrieve refund requests", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund requests retrieved successfully", gin.H{
		"refunds":     refunds,
		"total_count": totalCount,
		"page":        query.Page,
		"limit":       query.Limit,
		"total_pages": CalculateTotalPages(totalCount, query.Limit),
	}, nil)
}

// StartReview handles POST /api/v1/admin/refunds/:id/review
func (c *Controller) StartReview(ctx *gin.Context) {
	refundID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid refund ID", nil, nil)
		return
	}

	refund, err := c.service.StartReview(ctx.Request.Context(), refundID)
	if err != nil {
		c.respondRefundError(ctx, err, "Failed to start review")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund request moved to review", refund, nil)
}

// Decide handles POST /api/v1/admin/refunds/:id/decision
func (c *Controller) Decide(ctx *gin.Context) {
	refundID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid refund ID", nil, nil)
		return
	}

	adminID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req DecideRefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	refund, err := c.service.Decide(ctx.Request.Context(), refundID, adminID, req)
	if err != nil {
		if errors.Is(err, ErrOverrideOutOfBounds) {
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Override amount exceeds the refundable balance", nil, nil)
			return
		}
		c.respondRefundError(ctx, err, "Failed to decide refund request")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund request decided successfully", refund, nil)
}

// StartProcessing handles POST /api/v1/admin/refunds/:id/process
func (c *Controller) StartProcessing(ctx *gin.Context) {
	refundID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid refund ID", nil, nil)
		return
	}

	refund, err := c.service.StartProcessing(ctx.Request.Context(), refundID)
	if err != nil {
		c.respondRefundError(ctx, err, "Failed to start processing")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund payout started", refund, nil)
}

// Settle handles POST /api/v1/admin/refunds/:id/settle
func (c *Controller) Settle(ctx *gin.Context) {
	refundID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid refund ID", nil, nil)
		return
	}

	var req SettleRefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	refund, err := c.service.Settle(ctx.Request.Context(), refundID, req)
	if err != nil {
		c.respondRefundError(ctx, err, "Failed to settle refund")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund settled successfully", refund, nil)
}

// Withdraw handles POST /api/v1/refunds/:id/withdraw
func (c *Controller) Withdraw(ctx *gin.Context) {
	refundID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid refund ID", nil, nil)
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	refund, err := c.service.Withdraw(ctx.Request.Context(), refundID, userID)
	if err != nil {
		c.respondRefundError(ctx, err, "Failed to withdraw refund request")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund request withdrawn", refund, nil)
}

func (c *Controller) respondRefundError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrRefundNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Refund request not found", nil, nil)
	case errors.Is(err, ErrNotOwner):
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
	case errors.Is(err, ErrBadTransition):
		response.RespondJSON(ctx, "error", http.StatusConflict, "Refund request is not in a state that allows this action", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, err.Error())
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
