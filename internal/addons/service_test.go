package addons

import (
	"context"
	"errors"
	"testing"

	"roomly/internal/pricing"
	"roomly/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRepoNotImplemented = errors.New("not implemented in fake")

type fakeAddonRepo struct {
	addons map[uuid.UUID]*Addon
}

func (f *fakeAddonRepo) Create(context.Context, *Addon) error { return errRepoNotImplemented }
func (f *fakeAddonRepo) GetByID(context.Context, uuid.UUID) (*Addon, error) {
	return nil, errRepoNotImplemented
}
func (f *fakeAddonRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]Addon, error) {
	out := make([]Addon, 0, len(ids))
	for _, id := range ids {
		if addon, ok := f.addons[id]; ok {
			out = append(out, *addon)
		}
	}
	return out, nil
}
func (f *fakeAddonRepo) GetByPropertyID(context.Context, uuid.UUID, bool) ([]Addon, error) {
	return nil, errRepoNotImplemented
}
func (f *fakeAddonRepo) Update(context.Context, *Addon) error { return errRepoNotImplemented }
func (f *fakeAddonRepo) Delete(context.Context, uuid.UUID) error {
	return errRepoNotImplemented
}
func (f *fakeAddonRepo) ReplaceRoomLinks(context.Context, uuid.UUID, []uuid.UUID) error {
	return errRepoNotImplemented
}

func newPricingFixture() (*fakeAddonRepo, Service, uuid.UUID, uuid.UUID, uuid.UUID) {
	scopedRoom := uuid.New()
	otherRoom := uuid.New()

	scoped := &Addon{
		ID:             uuid.New(),
		PropertyID:     uuid.New(),
		Name:           "Balcony Champagne",
		UnitPriceMinor: 4000,
		Currency:       "USD",
		PricingMode:    "per_booking",
		IsActive:       true,
		Rooms:          []AddonRoom{{RoomID: scopedRoom}},
	}

	repo := &fakeAddonRepo{addons: map[uuid.UUID]*Addon{scoped.ID: scoped}}
	svc := NewService(repo, nil, nil, logger.GetDefault())
	return repo, svc, scoped.ID, scopedRoom, otherRoom
}

func TestPriceSelectionRoomScoped(t *testing.T) {
	_, svc, addonID, scopedRoom, _ := newPricingFixture()

	charges, err := svc.PriceSelection(context.Background(),
		[]Selection{{AddonID: addonID, Quantity: 1}},
		[]uuid.UUID{scopedRoom}, 2, 2)
	require.NoError(t, err)
	require.Len(t, charges, 1)
	assert.Equal(t, int64(4000), charges[0].Total.MinorUnits)
}

func TestPriceSelectionRejectsOutOfScopeAddon(t *testing.T) {
	_, svc, addonID, _, otherRoom := newPricingFixture()

	// The stay books none of the rooms the addon is offered for
	_, err := svc.PriceSelection(context.Background(),
		[]Selection{{AddonID: addonID, Quantity: 1}},
		[]uuid.UUID{otherRoom}, 2, 2)
	assert.ErrorIs(t, err, pricing.ErrAddonNotApplicable)
}

func TestPriceSelectionRejectsInactiveAddon(t *testing.T) {
	repo, svc, addonID, scopedRoom, _ := newPricingFixture()
	repo.addons[addonID].IsActive = false

	_, err := svc.PriceSelection(context.Background(),
		[]Selection{{AddonID: addonID, Quantity: 1}},
		[]uuid.UUID{scopedRoom}, 2, 2)
	assert.ErrorIs(t, err, ErrAddonNotFound)
}
