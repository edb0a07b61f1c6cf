package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stagepass/internal/shared/apperr"
)

type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	GetLineItem(ctx context.Context, orderID, itemID uuid.UUID) (*OrderLineItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return apperr.UnexpectedStatef("failed to create order: %v", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("order %s not found", id)
		}
		return nil, apperr.UnexpectedStatef("failed to get order: %v", err)
	}
	return &order, nil
}

func (r *repository) GetLineItem(ctx context.Context, orderID, itemID uuid.UUID) (*OrderLineItem, error) {
	var item OrderLineItem
	err := r.db.WithContext(ctx).
		First(&item, "id = ? AND order_id = ?", itemID, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("order item %s not found on order %s", itemID, orderID)
		}
		return nil, apperr.UnexpectedStatef("failed to get order item: %v", err)
	}
	return &item, nil
}

// Delete removes an order and its line items. It exists for workflow
// compensation: a later issuance failure must leave no partial order.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&OrderLineItem{}).Error; err != nil {
			return apperr.UnexpectedStatef("failed to delete order items: %v", err)
		}
		result := tx.Delete(&Order{}, "id = ?", id)
		if result.Error != nil {
			return apperr.UnexpectedStatef("failed to delete order: %v", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.NotFoundf("order %s not found", id)
		}
		return nil
	})
}
