package addons

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, addon *Addon) error
	GetByID(ctx context.Context, id uuid.UUID) (*Addon, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Addon, error)
	GetByPropertyID(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]Addon, error)
	Update(ctx context.Context, addon *Addon) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceRoomLinks(ctx context.Context, addonID uuid.UUID, roomIDs []uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, addon *Addon) error {
	return r.db.WithContext(ctx).Create(addon).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Addon, error) {
	var addon Addon
	err := r.db.WithContext(ctx).
		Preload("Rooms").
		Where("id = ?", id).
		First(&addon).Error
	if err != nil {
		return nil, err
	}
	return &addon, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Addon, error) {
	var addons []Addon
	err := r.db.WithContext(ctx).
		Preload("Rooms").
		Where("id IN ?", ids).
		Find(&addons).Error
	return addons, err
}

func (r *repository) GetByPropertyID(ctx context.Context, propertyID uuid.UUID, activeOnly bool) ([]Addon, error) {
	var addons []Addon
	query := r.db.WithContext(ctx).
		Preload("Rooms").
		Where("property_id = ?", propertyID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&addons).Error
	return addons, err
}

func (r *repository) Update(ctx context.Context, addon *Addon) error {
	addon.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(addon).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&AddonRoom{}, "addon_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&Addon{}, "id = ?", id).Error
	})
}

func (r *repository) ReplaceRoomLinks(ctx context.Context, addonID uuid.UUID, roomIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&AddonRoom{}, "addon_id = ?", addonID).Error; err != nil {
			return err
		}
		if len(roomIDs) == 0 {
			return nil
		}
		links := make([]AddonRoom, 0, len(roomIDs))
		for _, roomID := range roomIDs {
			links = append(links, AddonRoom{AddonID: addonID, RoomID: roomID})
		}
		return tx.Create(&links).Error
	})
}
