package policies

import (
	"context"
	"errors"
	"fmt"

	"roomly/internal/pricing"
	"roomly/internal/shared/constants"
	"roomly/pkg/cache"
	"roomly/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRuleNotFound   = errors.New("payment rule not found")
	ErrPolicyNotFound = errors.New("cancellation policy not found")
	ErrRuleShape      = errors.New("rule fields do not match its kind")
)

type Service interface {
	// Payment rules
	CreatePaymentRule(ctx context.Context, createdBy uuid.UUID, req CreatePaymentRuleRequest) (*PaymentRuleResponse, error)
	GetPaymentRule(ctx context.Context, id uuid.UUID) (*PaymentRuleResponse, error)
	DeactivatePaymentRule(ctx context.Context, id uuid.UUID) error

	// ResolveRule picks the payment rule binding a room within its property,
	// or nil when no rule applies (full amount due immediately).
	ResolveRule(ctx context.Context, roomID, propertyID uuid.UUID) (*pricing.PaymentRule, *uuid.UUID, error)

	// Cancellation policies
	CreateCancellationPolicy(ctx context.Context, propertyID, createdBy uuid.UUID, req CreateCancellationPolicyRequest) (*CancellationPolicyResponse, error)
	GetCancellationPolicy(ctx context.Context, id uuid.UUID) (*CancellationPolicy, error)
	GetActivePolicy(ctx context.Context, propertyID uuid.UUID) (*CancellationPolicy, error)
	DeactivateCancellationPolicy(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, log *logger.Logger) Service {
	return &service{repo: repo, cache: cacheService, log: log}
}

func (s *service) CreatePaymentRule(ctx context.Context, createdBy uuid.UUID, req CreatePaymentRuleRequest) (*PaymentRuleResponse, error) {
	scopeID, err := uuid.Parse(req.ScopeID)
	if err != nil {
		return nil, fmt.Errorf("invalid scope id: %w", err)
	}

	rule := &PaymentRule{
		Kind:              req.Kind,
		ScopeType:         req.ScopeType,
		ScopeID:           scopeID,
		Priority:          req.Priority,
		DepositAmountKind: req.DepositAmountKind,
		DepositValue:      req.DepositValue,
		DepositDueAnchor:  req.DepositDueAnchor,
		DepositDueDays:    req.DepositDueDays,
		BalanceDueAnchor:  req.BalanceDueAnchor,
		BalanceDueDays:    req.BalanceDueDays,
		Schedule:          req.Schedule,
		IsActive:          true,
		CreatedBy:         createdBy,
	}

	if err := s.validateRuleShape(rule); err != nil {
		return nil, err
	}

	if err := s.repo.CreatePaymentRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create payment rule: %w", err)
	}

	s.invalidateRules(ctx, rule)

	resp := rule.ToResponse()
	return &resp, nil
}

// validateRuleShape rejects malformed rules at write time so booking-time
// expansion never sees them.
func (s *service) validateRuleShape(rule *PaymentRule) error {
	switch rule.Kind {
	case "deposit":
		if len(rule.Schedule) > 0 || rule.DepositAmountKind == "" || rule.DepositDueAnchor == "" || rule.BalanceDueAnchor == "" {
			return ErrRuleShape
		}
		if rule.DepositAmountKind == "percentage" && (rule.DepositValue < 1 || rule.DepositValue > 100) {
			return ErrRuleShape
		}
	case "payment_schedule":
		if rule.DepositAmountKind != "" || len(rule.Schedule) == 0 {
			return ErrRuleShape
		}
		pricingRule := rule.ToPricing()
		if err := pricing.ValidateSchedule(pricingRule.Schedule); err != nil {
			return err
		}
	default:
		return ErrRuleShape
	}
	return nil
}

func (s *service) GetPaymentRule(ctx context.Context, id uuid.UUID) (*PaymentRuleResponse, error) {
	rule, err := s.repo.GetPaymentRuleByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	resp := rule.ToResponse()
	return &resp, nil
}

func (s *service) DeactivatePaymentRule(ctx context.Context, id uuid.UUID) error {
	rule, err := s.repo.GetPaymentRuleByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRuleNotFound
		}
		return err
	}

	if err := s.repo.DeactivatePaymentRule(ctx, id); err != nil {
		return err
	}

	s.invalidateRules(ctx, rule)
	return nil
}

func (s *service) ResolveRule(ctx context.Context, roomID, propertyID uuid.UUID) (*pricing.PaymentRule, *uuid.UUID, error) {
	candidates, err := s.repo.GetActiveRulesForScopes(ctx, roomID, propertyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load payment rules: %w", err)
	}

	pricingRules := make([]pricing.PaymentRule, 0, len(candidates))
	byIndex := make([]uuid.UUID, 0, len(candidates))
	for i := range candidates {
		pricingRules = append(pricingRules, candidates[i].ToPricing())
		byIndex = append(byIndex, candidates[i].ID)
	}

	winner := pricing.ResolveApplicableRule(pricingRules, roomID, propertyID)
	if winner == nil {
		return nil, nil, nil
	}

	// Map the winner back to its record ID for audit on the booking.
	// ResolveApplicableRule returns a pointer into pricingRules, so the
	// winning element is recovered by identity rather than by field match.
	for i := range pricingRules {
		if &pricingRules[i] == winner {
			return winner, &byIndex[i], nil
		}
	}
	return winner, nil, nil
}

func (s *service) CreateCancellationPolicy(ctx context.Context, propertyID, createdBy uuid.UUID, req CreateCancellationPolicyRequest) (*CancellationPolicyResponse, error) {
	policy := &CancellationPolicy{
		PropertyID: propertyID,
		Name:       req.Name,
		Tiers:      req.Tiers,
		IsActive:   true,
		CreatedBy:  createdBy,
	}

	// Reject malformed tier ladders before they can reach a refund calculation
	if err := pricing.ValidatePolicy(policy.ToPricing()); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCancellationPolicy(ctx, policy); err != nil {
		return nil, fmt.Errorf("failed to create cancellation policy: %w", err)
	}

	_ = s.cache.Delete(ctx, constants.BuildCancellationPolicyKey(policy.ID.String()))

	resp := policy.ToResponse()
	return &resp, nil
}

func (s *service) GetCancellationPolicy(ctx context.Context, id uuid.UUID) (*CancellationPolicy, error) {
	policy, err := s.repo.GetCancellationPolicyByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, err
	}
	return policy, nil
}

func (s *service) GetActivePolicy(ctx context.Context, propertyID uuid.UUID) (*CancellationPolicy, error) {
	policy, err := s.repo.GetActivePolicyForProperty(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, err
	}
	return policy, nil
}

func (s *service) DeactivateCancellationPolicy(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeactivateCancellationPolicy(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPolicyNotFound
		}
		return err
	}
	_ = s.cache.Delete(ctx, constants.BuildCancellationPolicyKey(id.String()))
	return nil
}

func (s *service) invalidateRules(ctx context.Context, rule *PaymentRule) {
	if rule.ScopeType == "room" {
		_ = s.cache.Delete(ctx, constants.BuildPaymentRulesRoomKey(rule.ScopeID.String()))
	} else {
		_ = s.cache.Delete(ctx, constants.BuildPaymentRulesPropertyKey(rule.ScopeID.String()))
	}
}
