package requests

import (
	"context"

	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for food requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.FoodRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoodRequest, error)
	ListActive(ctx context.Context) ([]RequestWithReceiver, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a requests repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, request *models.FoodRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.FoodRequest, error) {
	var request models.FoodRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) ListActive(ctx context.Context) ([]RequestWithReceiver, error) {
	var rows []RequestWithReceiver
	err := r.db.WithContext(ctx).
		Model(&models.FoodRequest{}).
		Select("food_requests.*, profiles.name AS receiver_name, profiles.phone AS receiver_phone").
		Joins("JOIN profiles ON profiles.id = food_requests.receiver_id").
		Where("food_requests.status = ?", enums.RequestStatusActive).
		Order("food_requests.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.FoodRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
