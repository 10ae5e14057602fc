package policies

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Payment rules
	CreatePaymentRule(ctx context.Context, rule *PaymentRule) error
	GetPaymentRuleByID(ctx context.Context, id uuid.UUID) (*PaymentRule, error)
	GetActiveRulesForScopes(ctx context.Context, roomID, propertyID uuid.UUID) ([]PaymentRule, error)
	DeactivatePaymentRule(ctx context.Context, id uuid.UUID) error

	// Cancellation policies
	CreateCancellationPolicy(ctx context.Context, policy *CancellationPolicy) error
	GetCancellationPolicyByID(ctx context.Context, id uuid.UUID) (*CancellationPolicy, error)
	GetActivePolicyForProperty(ctx context.Context, propertyID uuid.UUID) (*CancellationPolicy, error)
	DeactivateCancellationPolicy(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePaymentRule(ctx context.Context, rule *PaymentRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repository) GetPaymentRuleByID(ctx context.Context, id uuid.UUID) (*PaymentRule, error) {
	var rule PaymentRule
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// GetActiveRulesForScopes returns every active rule that could bind to the
// given room or its property. The service picks the winner.
func (r *repository) GetActiveRulesForScopes(ctx context.Context, roomID, propertyID uuid.UUID) ([]PaymentRule, error) {
	var rules []PaymentRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where(
			r.db.Where("scope_type = ? AND scope_id = ?", "room", roomID).
				Or("scope_type = ? AND scope_id = ?", "property", propertyID),
		).
		Find(&rules).Error
	return rules, err
}

func (r *repository) DeactivatePaymentRule(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&PaymentRule{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateCancellationPolicy(ctx context.Context, policy *CancellationPolicy) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A property carries at most one active policy; the new one replaces it
		err := tx.Model(&CancellationPolicy{}).
			Where("property_id = ? AND is_active = ?", policy.PropertyID, true).
			Update("is_active", false).Error
		if err != nil {
			return err
		}
		return tx.Create(policy).Error
	})
}

func (r *repository) GetCancellationPolicyByID(ctx context.Context, id uuid.UUID) (*CancellationPolicy, error) {
	var policy CancellationPolicy
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&policy).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *repository) GetActivePolicyForProperty(ctx context.Context, propertyID uuid.UUID) (*CancellationPolicy, error) {
	var policy CancellationPolicy
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND is_active = ?", propertyID, true).
		Order("created_at DESC").
		First(&policy).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *repository) DeactivateCancellationPolicy(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&CancellationPolicy{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
