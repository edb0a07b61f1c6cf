package qrcodes

import "time"

// TicketQRCode pairs a ticket payload with its rendered image. Image
// holds the placeholder when encoding failed.
type TicketQRCode struct {
	TicketID string        `json:"ticket_id"`
	Payload  TicketPayload `json:"payload"`
	Image    string        `json:"image"`
}

// OrderItemQRCode is the proof-of-purchase artifact for one order line.
type OrderItemQRCode struct {
	LineItemID string           `json:"line_item_id"`
	Payload    OrderItemPayload `json:"payload"`
	Image      string           `json:"image"`
}

// OrderQRCodesResponse bundles every proof-of-purchase code of an
// order.
type OrderQRCodesResponse struct {
	OrderID string            `json:"order_id"`
	QRCodes []OrderItemQRCode `json:"qr_codes"`
}

// TicketDetails is the authoritative confirmation returned by the
// door-scan path.
type TicketDetails struct {
	TicketID      string `json:"ticket_id"`
	OrderRef      string `json:"order_ref"`
	SeatLabel     string `json:"seat_label"`
	RowNumber     string `json:"row_number,omitempty"`
	Category      string `json:"category"`
	ShowDate      string `json:"show_date"`
	ShowTitle     string `json:"show_title"`
	VenueName     string `json:"venue"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Status        string `json:"status"`
}

// TicketValidationResponse is the door-scan result. ScannedAt is
// server-generated, never taken from the client.
type TicketValidationResponse struct {
	Valid     bool           `json:"valid"`
	Message   string         `json:"message"`
	Ticket    *TicketDetails `json:"ticket,omitempty"`
	ScannedAt time.Time      `json:"scanned_at"`
}

// OrderItemDetails is the authoritative confirmation returned by the
// proof-of-purchase path.
type OrderItemDetails struct {
	OrderID        string `json:"order_id"`
	LineItemID     string `json:"line_item_id"`
	ProductTitle   string `json:"product_title"`
	VariantTitle   string `json:"variant_title,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	CustomerEmail  string `json:"customer_email,omitempty"`
}

// PayloadValidationResponse is the proof-of-purchase result.
type PayloadValidationResponse struct {
	Valid     bool              `json:"valid"`
	Message   string            `json:"message"`
	Item      *OrderItemDetails `json:"item,omitempty"`
	ScannedAt time.Time         `json:"scanned_at"`
}

// ValidatePayloadRequest binds the submitted payload verbatim; parsing
// is deferred to the service so malformed JSON maps to InvalidArgument
// rather than a bind error.
type ValidatePayloadRequest struct {
	Payload string `json:"payload" binding:"required"`
}
