package refunds

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusRequested   Status = "requested"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusProcessing  Status = "processing"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
	StatusWithdrawn   Status = "withdrawn"
)

// validTransitions is the refund lifecycle. A rejected, completed,
// failed or withdrawn request is terminal; the requester may withdraw
// from any non-terminal state.
var validTransitions = map[Status][]Status{
	StatusRequested:   {StatusUnderReview, StatusApproved, StatusRejected, StatusWithdrawn},
	StatusUnderReview: {StatusApproved, StatusRejected, StatusWithdrawn},
	StatusApproved:    {StatusProcessing, StatusWithdrawn},
	StatusProcessing:  {StatusCompleted, StatusFailed, StatusWithdrawn},
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible
func (s Status) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// BreakdownSnapshot freezes the refund calculation at request time so
// later reviews see the numbers the request was raised with.
type BreakdownSnapshot struct {
	TierDaysBeforeCheckin int   `json:"tier_days_before_checkin"`
	TierRefundPercentage  int   `json:"tier_refund_percentage"`
	DaysBefore            int   `json:"days_before"`
	EntitlementMinor      int64 `json:"entitlement_minor"`
	TotalPaidMinor        int64 `json:"total_paid_minor"`
	PriorRefundsMinor     int64 `json:"prior_refunds_minor"`
	SuggestedMinor        int64 `json:"suggested_minor"`
}

func (b BreakdownSnapshot) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *BreakdownSnapshot) Scan(value interface{}) error {
	if value == nil {
		*b = BreakdownSnapshot{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan refund breakdown: not a byte slice")
	}
	return json.Unmarshal(bytes, b)
}

type RefundRequest struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingID uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Status    Status    `json:"status" gorm:"type:varchar(20);default:'requested';index"`

	Currency             string            `json:"currency" gorm:"not null;size:3"`
	SuggestedAmountMinor int64             `json:"suggested_amount_minor" gorm:"not null"`
	Breakdown            BreakdownSnapshot `json:"breakdown" gorm:"type:jsonb"`

	// ApprovedAmountMinor is set on approval. It may differ from the
	// suggestion when a reviewer overrides it.
	ApprovedAmountMinor *int64 `json:"approved_amount_minor,omitempty"`
	OverrideApplied     bool   `json:"override_applied" gorm:"default:false"`
	ExceedsEntitlement  bool   `json:"exceeds_entitlement" gorm:"default:false"`

	Reason        string     `json:"reason" gorm:"size:500"`
	ReviewNotes   string     `json:"review_notes,omitempty" gorm:"size:500"`
	FailureReason string     `json:"failure_reason,omitempty" gorm:"size:500"`
	DecidedBy     *uuid.UUID `json:"decided_by,omitempty" gorm:"type:uuid"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	SettledAt     *time.Time `json:"settled_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (RefundRequest) TableName() string {
	return "refund_requests"
}

type CreateRefundRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Reason    string `json:"reason" binding:"omitempty,max=500"`
}

type DecideRefundRequest struct {
	Decision            string `json:"decision" binding:"required,oneof=approve reject"`
	OverrideAmountMinor *int64 `json:"override_amount_minor" binding:"omitempty,min=0"`
	Notes               string `json:"notes" binding:"omitempty,max=500"`
}

type SettleRefundRequest struct {
	Outcome       string `json:"outcome" binding:"required,oneof=completed failed"`
	FailureReason string `json:"failure_reason" binding:"omitempty,max=500"`
}

type RefundListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=requested under_review approved rejected processing completed failed withdrawn"`
}
