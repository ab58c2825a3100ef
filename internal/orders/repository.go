package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sliceworks/pizzeria-backend/pkg/db/models"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
)

// Repository persists order records and their line-item snapshots.
type Repository interface {
	// Create inserts the order and its line items in one transaction.
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByPaymentSession(ctx context.Context, paymentSessionID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (int64, error)
	SetPaymentSession(ctx context.Context, id uuid.UUID, paymentSessionID string) error
	List(ctx context.Context, status *enums.OrderStatus, limit, offset int) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an order repository on the shared connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByPaymentSession(ctx context.Context, paymentSessionID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		First(&order, "payment_session_id = ?", paymentSessionID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *repository) SetPaymentSession(ctx context.Context, id uuid.UUID, paymentSessionID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_session_id", paymentSessionID).Error
}

func (r *repository) List(ctx context.Context, status *enums.OrderStatus, limit, offset int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Preload("LineItems").Order("created_at desc")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var out []models.Order
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
