package orders

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is the durable record the checkout workflow produces. Customer
// identity lives here because ticket validation reports it at the door.
type Order struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CartID            *uuid.UUID      `json:"cart_id" gorm:"type:uuid;index"`
	CustomerEmail     string          `json:"customer_email" gorm:"not null"`
	CustomerFirstName string          `json:"customer_first_name"`
	CustomerLastName  string          `json:"customer_last_name"`
	CurrencyCode      string          `json:"currency_code" gorm:"type:varchar(3);not null;default:'usd'"`
	SubtotalCents     int64           `json:"subtotal_cents" gorm:"not null;default:0"`
	FeeCents          int64           `json:"fee_cents" gorm:"not null;default:0"`
	TotalCents        int64           `json:"total_cents" gorm:"not null;default:0"`
	LineItems         []OrderLineItem `json:"line_items" gorm:"foreignKey:OrderID"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DeletedAt         gorm.DeletedAt  `json:"-" gorm:"index"`
}

// OrderLineItem is one purchased sellable unit. ShowVariantID is nil
// for the synthetic fee line and any non-ticket merchandise.
type OrderLineItem struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrderID        uuid.UUID  `json:"order_id" gorm:"type:uuid;not null;index"`
	ShowVariantID  *uuid.UUID `json:"show_variant_id" gorm:"type:uuid;index"`
	ProductTitle   string     `json:"product_title" gorm:"not null"`
	VariantTitle   string     `json:"variant_title"`
	Quantity       int        `json:"quantity" gorm:"not null;check:quantity > 0"`
	UnitPriceCents int64      `json:"unit_price_cents" gorm:"not null"`
	IsServiceFee   bool       `json:"is_service_fee" gorm:"not null;default:false"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CustomerName joins first and last name, tolerating blanks.
func (o *Order) CustomerName() string {
	switch {
	case o.CustomerFirstName == "":
		return o.CustomerLastName
	case o.CustomerLastName == "":
		return o.CustomerFirstName
	default:
		return o.CustomerFirstName + " " + o.CustomerLastName
	}
}

// OrderResponse is the API shape of an order.
type OrderResponse struct {
	ID            string                  `json:"id"`
	CustomerEmail string                  `json:"customer_email"`
	CustomerName  string                  `json:"customer_name"`
	CurrencyCode  string                  `json:"currency_code"`
	SubtotalCents int64                   `json:"subtotal_cents"`
	FeeCents      int64                   `json:"fee_cents"`
	TotalCents    int64                   `json:"total_cents"`
	LineItems     []OrderLineItemResponse `json:"line_items"`
	CreatedAt     time.Time               `json:"created_at"`
}

type OrderLineItemResponse struct {
	ID             string `json:"id"`
	ProductTitle   string `json:"product_title"`
	VariantTitle   string `json:"variant_title"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	IsServiceFee   bool   `json:"is_service_fee"`
}

func (o *Order) ToResponse() OrderResponse {
	items := make([]OrderLineItemResponse, 0, len(o.LineItems))
	for _, item := range o.LineItems {
		items = append(items, item.ToResponse())
	}
	return OrderResponse{
		ID:            o.ID.String(),
		CustomerEmail: o.CustomerEmail,
		CustomerName:  o.CustomerName(),
		CurrencyCode:  o.CurrencyCode,
		SubtotalCents: o.SubtotalCents,
		FeeCents:      o.FeeCents,
		TotalCents:    o.TotalCents,
		LineItems:     items,
		CreatedAt:     o.CreatedAt,
	}
}

func (i *OrderLineItem) ToResponse() OrderLineItemResponse {
	return OrderLineItemResponse{
		ID:             i.ID.String(),
		ProductTitle:   i.ProductTitle,
		VariantTitle:   i.VariantTitle,
		Quantity:       i.Quantity,
		UnitPriceCents: i.UnitPriceCents,
		IsServiceFee:   i.IsServiceFee,
	}
}
