package properties

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Property operations
	CreateProperty(ctx context.Context, property *Property) error
	GetPropertyByID(ctx context.Context, id uuid.UUID) (*Property, error)
	GetPropertyWithRooms(ctx context.Context, id uuid.UUID) (*Property, error)
	UpdateProperty(ctx context.Context, property *Property) error
	DeleteProperty(ctx context.Context, id uuid.UUID) error
	ListProperties(ctx context.Context, query PropertyListQuery) ([]Property, int64, error)

	// Room operations
	CreateRoom(ctx context.Context, room *Room) error
	GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error)
	GetRoomsByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]Room, error)
	GetRoomsByIDs(ctx context.Context, ids []uuid.UUID) ([]Room, error)
	UpdateRoom(ctx context.Context, room *Room) error
	DeleteRoom(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateProperty(ctx context.Context, property *Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *repository) GetPropertyByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	var property Property
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *repository) GetPropertyWithRooms(ctx context.Context, id uuid.UUID) (*Property, error) {
	var property Property
	err := r.db.WithContext(ctx).
		Preload("Rooms", "is_active = ?", true).
		Where("id = ?", id).
		First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *repository) UpdateProperty(ctx context.Context, property *Property) error {
	property.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(property).Error
}

func (r *repository) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Property{}, "id = ?", id).Error
}

func (r *repository) ListProperties(ctx context.Context, query PropertyListQuery) ([]Property, int64, error) {
	var properties []Property
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Property{})

	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}
	if query.City != "" {
		baseQuery = baseQuery.Where("LOWER(city) = LOWER(?)", query.City)
	}
	if query.Search != "" {
		like := "%" + query.Search + "%"
		baseQuery = baseQuery.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Rooms").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&properties).Error

	return properties, totalCount, err
}

func (r *repository) CreateRoom(ctx context.Context, room *Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *repository) GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	var room Room
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *repository) GetRoomsByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]Room, error) {
	var rooms []Room
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("name ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *repository) GetRoomsByIDs(ctx context.Context, ids []uuid.UUID) ([]Room, error) {
	var rooms []Room
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rooms).Error
	return rooms, err
}

func (r *repository) UpdateRoom(ctx context.Context, room *Room) error {
	room.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *repository) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Room{}, "id = ?", id).Error
}

// CalculateTotalPages computes page count for paginated listings
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
