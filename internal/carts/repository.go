package carts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stagepass/internal/shared/apperr"
)

type Repository interface {
	Create(ctx context.Context, cart *Cart) error
	GetByID(ctx context.Context, id uuid.UUID) (*Cart, error)
	AddLineItem(ctx context.Context, item *CartLineItem) error
	UpdateLineItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	UpdateLineItemPrice(ctx context.Context, itemID uuid.UUID, unitPriceCents int64) error
	RemoveLineItem(ctx context.Context, cartID, itemID uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, cart *Cart) error {
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return apperr.UnexpectedStatef("failed to create cart: %v", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Cart, error) {
	var cart Cart
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_line_items.created_at ASC")
		}).
		First(&cart, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("cart %s not found", id)
		}
		return nil, apperr.UnexpectedStatef("failed to get cart: %v", err)
	}
	return &cart, nil
}

func (r *repository) AddLineItem(ctx context.Context, item *CartLineItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return apperr.UnexpectedStatef("failed to add line item: %v", err)
	}
	return nil
}

func (r *repository) UpdateLineItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&CartLineItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("quantity", quantity)
	if result.Error != nil {
		return apperr.UnexpectedStatef("failed to update line item: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFoundf("line item %s not found on cart %s", itemID, cartID)
	}
	return nil
}

func (r *repository) UpdateLineItemPrice(ctx context.Context, itemID uuid.UUID, unitPriceCents int64) error {
	result := r.db.WithContext(ctx).
		Model(&CartLineItem{}).
		Where("id = ?", itemID).
		Update("unit_price_cents", unitPriceCents)
	if result.Error != nil {
		return apperr.UnexpectedStatef("failed to update line item price: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFoundf("line item %s not found", itemID)
	}
	return nil
}

func (r *repository) RemoveLineItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&CartLineItem{}, "id = ? AND cart_id = ?", itemID, cartID)
	if result.Error != nil {
		return apperr.UnexpectedStatef("failed to remove line item: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFoundf("line item %s not found on cart %s", itemID, cartID)
	}
	return nil
}

func (r *repository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&Cart{}).
		Where("id = ? AND completed_at IS NULL", id).
		Update("completed_at", at)
	if result.Error != nil {
		return apperr.UnexpectedStatef("failed to complete cart: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Conflictf("cart %s is already completed", id)
	}
	return nil
}
