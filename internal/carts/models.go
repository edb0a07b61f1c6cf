package carts

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Metadata is a free-form JSONB bag. Seat selections travel here: the
// storefront writes row_id, row_number, seat_label and show_date onto
// the line item when a seat is picked.
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported metadata column type")
	}
	return json.Unmarshal(data, m)
}

// GetString returns a string-typed metadata value, or "" when absent.
func (m Metadata) GetString(key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Cart is the pre-order working set. CompletedAt is set exactly once,
// by the checkout workflow's final step.
type Cart struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CustomerEmail string         `json:"customer_email"`
	CurrencyCode  string         `json:"currency_code" gorm:"type:varchar(3);not null;default:'usd'"`
	LineItems     []CartLineItem `json:"line_items" gorm:"foreignKey:CartID"`
	CompletedAt   *time.Time     `json:"completed_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// CartLineItem is one sellable unit in a cart. IsServiceFee marks the
// single synthetic fee line the recalculation hook maintains.
type CartLineItem struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CartID         uuid.UUID  `json:"cart_id" gorm:"type:uuid;not null;index"`
	ShowVariantID  *uuid.UUID `json:"show_variant_id" gorm:"type:uuid;index"`
	Title          string     `json:"title" gorm:"not null"`
	Quantity       int        `json:"quantity" gorm:"not null;check:quantity > 0"`
	UnitPriceCents int64      `json:"unit_price_cents" gorm:"not null"`
	IsServiceFee   bool       `json:"is_service_fee" gorm:"not null;default:false"`
	Metadata       Metadata   `json:"metadata" gorm:"type:jsonb;default:'{}'"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Subtotal sums unit price times quantity over non-fee items.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.LineItems {
		if item.IsServiceFee {
			continue
		}
		total += item.UnitPriceCents * int64(item.Quantity)
	}
	return total
}

// FeeItem returns the synthetic fee line, or nil when absent.
func (c *Cart) FeeItem() *CartLineItem {
	for i := range c.LineItems {
		if c.LineItems[i].IsServiceFee {
			return &c.LineItems[i]
		}
	}
	return nil
}

// AddLineItemRequest binds a line-item create call.
type AddLineItemRequest struct {
	ShowVariantID  *string  `json:"show_variant_id"`
	Title          string   `json:"title" binding:"required"`
	Quantity       int      `json:"quantity" binding:"required,min=1"`
	UnitPriceCents int64    `json:"unit_price_cents" binding:"required,min=0"`
	Metadata       Metadata `json:"metadata"`
}

// UpdateLineItemRequest binds a quantity change.
type UpdateLineItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CreateCartRequest binds cart creation.
type CreateCartRequest struct {
	CustomerEmail string `json:"customer_email"`
	CurrencyCode  string `json:"currency_code"`
}

// CartResponse is the API shape of a cart.
type CartResponse struct {
	ID            string             `json:"id"`
	CustomerEmail string             `json:"customer_email"`
	CurrencyCode  string             `json:"currency_code"`
	SubtotalCents int64              `json:"subtotal_cents"`
	FeeCents      int64              `json:"fee_cents"`
	TotalCents    int64              `json:"total_cents"`
	LineItems     []LineItemResponse `json:"line_items"`
	CompletedAt   *time.Time         `json:"completed_at"`
}

type LineItemResponse struct {
	ID             string   `json:"id"`
	ShowVariantID  *string  `json:"show_variant_id"`
	Title          string   `json:"title"`
	Quantity       int      `json:"quantity"`
	UnitPriceCents int64    `json:"unit_price_cents"`
	IsServiceFee   bool     `json:"is_service_fee"`
	Metadata       Metadata `json:"metadata"`
}

func (c *Cart) ToResponse() CartResponse {
	items := make([]LineItemResponse, 0, len(c.LineItems))
	var fee int64
	for _, item := range c.LineItems {
		if item.IsServiceFee {
			fee += item.UnitPriceCents * int64(item.Quantity)
		}
		items = append(items, item.ToResponse())
	}
	subtotal := c.Subtotal()
	return CartResponse{
		ID:            c.ID.String(),
		CustomerEmail: c.CustomerEmail,
		CurrencyCode:  c.CurrencyCode,
		SubtotalCents: subtotal,
		FeeCents:      fee,
		TotalCents:    subtotal + fee,
		LineItems:     items,
		CompletedAt:   c.CompletedAt,
	}
}

func (i *CartLineItem) ToResponse() LineItemResponse {
	var variantID *string
	if i.ShowVariantID != nil {
		id := i.ShowVariantID.String()
		variantID = &id
	}
	return LineItemResponse{
		ID:             i.ID.String(),
		ShowVariantID:  variantID,
		Title:          i.Title,
		Quantity:       i.Quantity,
		UnitPriceCents: i.UnitPriceCents,
		IsServiceFee:   i.IsServiceFee,
		Metadata:       i.Metadata,
	}
}
