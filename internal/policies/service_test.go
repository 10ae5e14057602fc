package policies

import (
	"context"
	"errors"
	"testing"

	"roomly/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRepoNotImplemented = errors.New("not implemented in fake")

type fakePolicyRepo struct {
	rules []PaymentRule
}

func (f *fakePolicyRepo) CreatePaymentRule(context.Context, *PaymentRule) error {
	return errRepoNotImplemented
}
func (f *fakePolicyRepo) GetPaymentRuleByID(context.Context, uuid.UUID) (*PaymentRule, error) {
	return nil, errRepoNotImplemented
}
func (f *fakePolicyRepo) GetActiveRulesForScopes(context.Context, uuid.UUID, uuid.UUID) ([]PaymentRule, error) {
	return f.rules, nil
}
func (f *fakePolicyRepo) DeactivatePaymentRule(context.Context, uuid.UUID) error {
	return errRepoNotImplemented
}
func (f *fakePolicyRepo) CreateCancellationPolicy(context.Context, *CancellationPolicy) error {
	return errRepoNotImplemented
}
func (f *fakePolicyRepo) GetCancellationPolicyByID(context.Context, uuid.UUID) (*CancellationPolicy, error) {
	return nil, errRepoNotImplemented
}
func (f *fakePolicyRepo) GetActivePolicyForProperty(context.Context, uuid.UUID) (*CancellationPolicy, error) {
	return nil, errRepoNotImplemented
}
func (f *fakePolicyRepo) DeactivateCancellationPolicy(context.Context, uuid.UUID) error {
	return errRepoNotImplemented
}

func depositRule(scopeType string, scopeID uuid.UUID, priority int, depositValue int64) PaymentRule {
	return PaymentRule{
		ID:                uuid.New(),
		Kind:              "deposit",
		ScopeType:         scopeType,
		ScopeID:           scopeID,
		Priority:          priority,
		DepositAmountKind: "percentage",
		DepositValue:      depositValue,
		DepositDueAnchor:  "immediately",
		BalanceDueAnchor:  "days_before_checkin",
		BalanceDueDays:    7,
		IsActive:          true,
	}
}

func TestResolveRuleAttributesWinningRecord(t *testing.T) {
	roomID := uuid.New()
	propertyID := uuid.New()

	lowRoom := depositRule("room", roomID, 10, 30)
	highProperty := depositRule("property", propertyID, 50, 20)

	repo := &fakePolicyRepo{rules: []PaymentRule{lowRoom, highProperty}}
	svc := NewService(repo, nil, logger.GetDefault())

	winner, ruleID, err := svc.ResolveRule(context.Background(), roomID, propertyID)
	require.NoError(t, err)
	require.NotNil(t, winner)
	require.NotNil(t, ruleID)

	// Priority outranks scope, so the property rule wins and the
	// booking must carry that record's ID, not the room rule's.
	assert.Equal(t, highProperty.ID, *ruleID)
	assert.Equal(t, int64(20), winner.Deposit.Value)
}

func TestResolveRuleDuplicateScopeAndPriority(t *testing.T) {
	roomID := uuid.New()
	propertyID := uuid.New()

	first := depositRule("room", roomID, 10, 30)
	second := depositRule("room", roomID, 10, 50)

	repo := &fakePolicyRepo{rules: []PaymentRule{first, second}}
	svc := NewService(repo, nil, logger.GetDefault())

	winner, ruleID, err := svc.ResolveRule(context.Background(), roomID, propertyID)
	require.NoError(t, err)
	require.NotNil(t, winner)
	require.NotNil(t, ruleID)

	// On a full tie the earlier rule wins; the attributed ID must
	// belong to that same record.
	assert.Equal(t, first.ID, *ruleID)
	assert.Equal(t, int64(30), winner.Deposit.Value)
}

func TestResolveRuleNoCandidates(t *testing.T) {
	repo := &fakePolicyRepo{}
	svc := NewService(repo, nil, logger.GetDefault())

	winner, ruleID, err := svc.ResolveRule(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, winner)
	assert.Nil(t, ruleID)
}
