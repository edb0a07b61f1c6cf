package qrcodes

import (
	"encoding/json"
	"fmt"

	"stagepass/internal/shared/apperr"
)

// Two payload schemas coexist and are not interchangeable: the ticket
// schema is scoped to one admission unit and drives the door-scanning
// flow; the order-item schema is scoped to one order line and serves
// as generic proof of purchase. The schema field lets a scanner tell
// them apart.
const (
	SchemaTicket    = "stagepass.ticket.v1"
	SchemaOrderItem = "stagepass.order-item.v1"
)

// TicketPayload is the JSON encoded into a door-scan QR code.
type TicketPayload struct {
	Schema        string `json:"schema"`
	TicketID      string `json:"ticket_id"`
	OrderRef      string `json:"order_ref"`
	SeatLabel     string `json:"seat_label"`
	RowNumber     string `json:"row_number,omitempty"`
	ShowDate      string `json:"show_date"`
	VenueName     string `json:"venue"`
	ShowTitle     string `json:"show_title"`
	Category      string `json:"category"`
	ValidationURL string `json:"validation_url"`
}

// OrderItemPayload is the JSON encoded into a proof-of-purchase QR
// code. Validation recomputes every field from the authoritative order
// and rejects on any mismatch.
type OrderItemPayload struct {
	Schema         string `json:"schema"`
	OrderID        string `json:"order_id"`
	LineItemID     string `json:"line_item_id"`
	ProductTitle   string `json:"product_title"`
	VariantTitle   string `json:"variant_title,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	CustomerEmail  string `json:"customer_email,omitempty"`
}

// ValidationURL builds the deterministic door-scan URL for a ticket.
func ValidationURL(baseURL, ticketID string) string {
	return fmt.Sprintf("%s/tickets/validate/%s", baseURL, ticketID)
}

// ParseOrderItemPayload decodes a submitted proof-of-purchase payload.
// Malformed JSON and a wrong or missing schema are both InvalidArgument.
func ParseOrderItemPayload(raw []byte) (*OrderItemPayload, error) {
	var payload OrderItemPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, apperr.InvalidArgumentf("malformed payload: %v", err)
	}
	if payload.Schema != SchemaOrderItem {
		return nil, apperr.InvalidArgumentf("unsupported payload schema %q", payload.Schema)
	}
	if payload.OrderID == "" || payload.LineItemID == "" {
		return nil, apperr.InvalidArgumentf("payload is missing order or line item id")
	}
	return &payload, nil
}
