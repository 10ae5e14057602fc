package policies

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"roomly/internal/pricing"

	"github.com/google/uuid"
)

// ScheduleEntries is a JSONB column holding installment definitions
type ScheduleEntries []ScheduleEntryModel

type ScheduleEntryModel struct {
	AmountKind string `json:"amount_kind"` // percentage | fixed
	Value      int64  `json:"value"`
	DueAnchor  string `json:"due_anchor"` // immediately | days_after_booking | days_before_checkin
	DueDays    int    `json:"due_days"`
}

func (se ScheduleEntries) Value() (driver.Value, error) {
	if se == nil {
		return nil, nil
	}
	return json.Marshal(se)
}

func (se *ScheduleEntries) Scan(value interface{}) error {
	if value == nil {
		*se = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("unsupported type for ScheduleEntries")
		}
	}
	return json.Unmarshal(bytes, se)
}

// PolicyTiers is a JSONB column holding refund tiers
type PolicyTiers []PolicyTierModel

type PolicyTierModel struct {
	DaysBeforeCheckin int `json:"days_before_checkin"`
	RefundPercentage  int `json:"refund_percentage"`
}

func (pt PolicyTiers) Value() (driver.Value, error) {
	if pt == nil {
		return nil, nil
	}
	return json.Marshal(pt)
}

func (pt *PolicyTiers) Scan(value interface{}) error {
	if value == nil {
		*pt = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return errors.New("unsupported type for PolicyTiers")
		}
	}
	return json.Unmarshal(bytes, pt)
}

// PaymentRule defines how a booking total splits into installments.
// Exactly one of the deposit columns or the schedule column is populated,
// depending on Kind.
type PaymentRule struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Kind      string    `json:"kind" gorm:"type:varchar(20);not null"`       // deposit | payment_schedule
	ScopeType string    `json:"scope_type" gorm:"type:varchar(20);not null"` // room | property
	ScopeID   uuid.UUID `json:"scope_id" gorm:"type:uuid;not null;index"`
	Priority  int       `json:"priority" gorm:"default:0"`

	// Deposit fields (Kind == deposit)
	DepositAmountKind string `json:"deposit_amount_kind" gorm:"type:varchar(20)"`
	DepositValue      int64  `json:"deposit_value"`
	DepositDueAnchor  string `json:"deposit_due_anchor" gorm:"type:varchar(30)"`
	DepositDueDays    int    `json:"deposit_due_days"`
	BalanceDueAnchor  string `json:"balance_due_anchor" gorm:"type:varchar(30)"`
	BalanceDueDays    int    `json:"balance_due_days"`

	// Schedule entries (Kind == payment_schedule)
	Schedule ScheduleEntries `json:"schedule" gorm:"type:jsonb"`

	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// CancellationPolicy holds refund tiers for a property
type CancellationPolicy struct {
	ID         uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	PropertyID uuid.UUID   `json:"property_id" gorm:"type:uuid;not null;index"`
	Name       string      `json:"name" gorm:"not null;size:100"`
	Tiers      PolicyTiers `json:"tiers" gorm:"type:jsonb;not null"`
	IsActive   bool        `json:"is_active" gorm:"default:true"`
	CreatedBy  uuid.UUID   `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt  time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

type PaymentRuleResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	ScopeType string `json:"scope_type"`
	ScopeID   string `json:"scope_id"`
	Priority  int    `json:"priority"`

	DepositAmountKind string `json:"deposit_amount_kind,omitempty"`
	DepositValue      int64  `json:"deposit_value,omitempty"`
	DepositDueAnchor  string `json:"deposit_due_anchor,omitempty"`
	DepositDueDays    int    `json:"deposit_due_days,omitempty"`
	BalanceDueAnchor  string `json:"balance_due_anchor,omitempty"`
	BalanceDueDays    int    `json:"balance_due_days,omitempty"`

	Schedule []ScheduleEntryModel `json:"schedule,omitempty"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePaymentRuleRequest struct {
	Kind      string `json:"kind" binding:"required,oneof=deposit payment_schedule"`
	ScopeType string `json:"scope_type" binding:"required,oneof=room property"`
	ScopeID   string `json:"scope_id" binding:"required,uuid"`
	Priority  int    `json:"priority" binding:"omitempty,min=0,max=100"`

	DepositAmountKind string `json:"deposit_amount_kind" binding:"omitempty,oneof=percentage fixed"`
	DepositValue      int64  `json:"deposit_value" binding:"omitempty,min=1"`
	DepositDueAnchor  string `json:"deposit_due_anchor" binding:"omitempty,oneof=immediately days_after_booking days_before_checkin"`
	DepositDueDays    int    `json:"deposit_due_days" binding:"omitempty,min=0"`
	BalanceDueAnchor  string `json:"balance_due_anchor" binding:"omitempty,oneof=immediately days_after_booking days_before_checkin"`
	BalanceDueDays    int    `json:"balance_due_days" binding:"omitempty,min=0"`

	Schedule []ScheduleEntryModel `json:"schedule" binding:"omitempty,dive"`
}

type CancellationPolicyResponse struct {
	ID         string            `json:"id"`
	PropertyID string            `json:"property_id"`
	Name       string            `json:"name"`
	Tiers      []PolicyTierModel `json:"tiers"`
	IsActive   bool              `json:"is_active"`
	CreatedAt  time.Time         `json:"created_at"`
}

type CreateCancellationPolicyRequest struct {
	Name  string            `json:"name" binding:"required,min=2,max=100"`
	Tiers []PolicyTierModel `json:"tiers" binding:"required,min=1,dive"`
}

func (r *PaymentRule) ToResponse() PaymentRuleResponse {
	return PaymentRuleResponse{
		ID:                r.ID.String(),
		Kind:              r.Kind,
		ScopeType:         r.ScopeType,
		ScopeID:           r.ScopeID.String(),
		Priority:          r.Priority,
		DepositAmountKind: r.DepositAmountKind,
		DepositValue:      r.DepositValue,
		DepositDueAnchor:  r.DepositDueAnchor,
		DepositDueDays:    r.DepositDueDays,
		BalanceDueAnchor:  r.BalanceDueAnchor,
		BalanceDueDays:    r.BalanceDueDays,
		Schedule:          r.Schedule,
		IsActive:          r.IsActive,
		CreatedAt:         r.CreatedAt,
	}
}

func (p *CancellationPolicy) ToResponse() CancellationPolicyResponse {
	return CancellationPolicyResponse{
		ID:         p.ID.String(),
		PropertyID: p.PropertyID.String(),
		Name:       p.Name,
		Tiers:      p.Tiers,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
	}
}

// ToPricing converts a stored rule into the schedule engine's tagged union.
func (r *PaymentRule) ToPricing() pricing.PaymentRule {
	var scope pricing.RuleScope
	if r.ScopeType == "room" {
		scope = pricing.RoomScoped(r.ScopeID)
	} else {
		scope = pricing.PropertyScoped(r.ScopeID)
	}

	rule := pricing.PaymentRule{
		Scope:    scope,
		Priority: r.Priority,
	}

	switch r.Kind {
	case "deposit":
		rule.Kind = pricing.RuleDeposit
		rule.Deposit = &pricing.DepositTerms{
			AmountKind: pricing.AmountKind(r.DepositAmountKind),
			Value:      r.DepositValue,
			DepositDue: pricing.DueTiming{Anchor: pricing.DueAnchor(r.DepositDueAnchor), Days: r.DepositDueDays},
			BalanceDue: pricing.DueTiming{Anchor: pricing.DueAnchor(r.BalanceDueAnchor), Days: r.BalanceDueDays},
		}
	case "payment_schedule":
		rule.Kind = pricing.RuleSchedule
		entries := make([]pricing.ScheduleEntry, 0, len(r.Schedule))
		for _, e := range r.Schedule {
			entries = append(entries, pricing.ScheduleEntry{
				AmountKind: pricing.AmountKind(e.AmountKind),
				Value:      e.Value,
				Due:        pricing.DueTiming{Anchor: pricing.DueAnchor(e.DueAnchor), Days: e.DueDays},
			})
		}
		rule.Schedule = entries
	}

	return rule
}

// ToPricing converts stored tiers into the refund calculator's policy.
// Booking snapshots reuse this so a cancelled booking is always settled
// against the tiers it was confirmed under.
func (t PolicyTiers) ToPricing() pricing.CancellationPolicy {
	tiers := make([]pricing.PolicyTier, 0, len(t))
	for _, tier := range t {
		tiers = append(tiers, pricing.PolicyTier{
			DaysBeforeCheckin: tier.DaysBeforeCheckin,
			RefundPercentage:  tier.RefundPercentage,
		})
	}
	return pricing.CancellationPolicy{Tiers: tiers}
}

func (p *CancellationPolicy) ToPricing() pricing.CancellationPolicy {
	return p.Tiers.ToPricing()
}

// TableName specifies the table name for GORM
func (PaymentRule) TableName() string {
	return "payment_rules"
}

func (CancellationPolicy) TableName() string {
	return "cancellation_policies"
}
