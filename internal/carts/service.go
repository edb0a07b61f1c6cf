package carts

import (
	"context"
	"math"

	"github.com/google/uuid"

	"stagepass/internal/shared/apperr"
)

// ServiceFeeTitle labels the synthetic fee line item.
const ServiceFeeTitle = "Service Fee"

// Service owns cart mutations. Every mutation re-runs the fee hook so
// the synthetic fee line never goes stale.
type Service interface {
	CreateCart(ctx context.Context, req CreateCartRequest) (*Cart, error)
	GetCart(ctx context.Context, cartID string) (*Cart, error)
	AddLineItem(ctx context.Context, cartID string, req AddLineItemRequest) (*Cart, error)
	UpdateLineItem(ctx context.Context, cartID, itemID string, req UpdateLineItemRequest) (*Cart, error)
	RemoveLineItem(ctx context.Context, cartID, itemID string) (*Cart, error)
	RecalculateServiceFee(ctx context.Context, cartID uuid.UUID) error
}

type service struct {
	repo          Repository
	feePercentage float64
}

// NewService creates a cart service. feePercentage is the service-fee
// rate in (0, 1]; 0.1 means 10%.
func NewService(repo Repository, feePercentage float64) Service {
	return &service{repo: repo, feePercentage: feePercentage}
}

func (s *service) CreateCart(ctx context.Context, req CreateCartRequest) (*Cart, error) {
	currency := req.CurrencyCode
	if currency == "" {
		currency = "usd"
	}
	cart := &Cart{
		CustomerEmail: req.CustomerEmail,
		CurrencyCode:  currency,
	}
	if err := s.repo.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	id, err := uuid.Parse(cartID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid cart id %q", cartID)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) AddLineItem(ctx context.Context, cartID string, req AddLineItemRequest) (*Cart, error) {
	id, err := uuid.Parse(cartID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid cart id %q", cartID)
	}

	cart, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart.CompletedAt != nil {
		return nil, apperr.Conflictf("cart %s is already completed", cartID)
	}

	item := &CartLineItem{
		CartID:         id,
		Title:          req.Title,
		Quantity:       req.Quantity,
		UnitPriceCents: req.UnitPriceCents,
		Metadata:       req.Metadata,
	}
	if req.ShowVariantID != nil {
		variantID, err := uuid.Parse(*req.ShowVariantID)
		if err != nil {
			return nil, apperr.InvalidArgumentf("invalid show variant id %q", *req.ShowVariantID)
		}
		item.ShowVariantID = &variantID
	}

	if err := s.repo.AddLineItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.RecalculateServiceFee(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateLineItem(ctx context.Context, cartID, itemID string, req UpdateLineItemRequest) (*Cart, error) {
	id, err := uuid.Parse(cartID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid cart id %q", cartID)
	}
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid line item id %q", itemID)
	}

	if err := s.repo.UpdateLineItemQuantity(ctx, id, lineID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.RecalculateServiceFee(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) RemoveLineItem(ctx context.Context, cartID, itemID string) (*Cart, error) {
	id, err := uuid.Parse(cartID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid cart id %q", cartID)
	}
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid line item id %q", itemID)
	}

	if err := s.repo.RemoveLineItem(ctx, id, lineID); err != nil {
		return nil, err
	}
	if err := s.RecalculateServiceFee(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// RecalculateServiceFee keeps the single synthetic fee line consistent
// with the cart's billable items. Idempotent: an unchanged fee writes
// nothing.
func (s *service) RecalculateServiceFee(ctx context.Context, cartID uuid.UUID) error {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return err
	}

	fee := int64(math.Round(s.feePercentage * float64(cart.Subtotal())))
	existing := cart.FeeItem()

	switch {
	case fee <= 0:
		if existing == nil {
			return nil
		}
		return s.repo.RemoveLineItem(ctx, cartID, existing.ID)
	case existing == nil:
		return s.repo.AddLineItem(ctx, &CartLineItem{
			CartID:         cartID,
			Title:          ServiceFeeTitle,
			Quantity:       1,
			UnitPriceCents: fee,
			IsServiceFee:   true,
		})
	case existing.UnitPriceCents == fee:
		return nil
	default:
		return s.repo.UpdateLineItemPrice(ctx, existing.ID, fee)
	}
}
