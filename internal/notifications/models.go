package notifications

import (
	"encoding/json"
	"time"
)

// TicketIssuedEvent is published after an order completes and its
// tickets are durable. Consumers send confirmation email with the QR
// artifacts attached.
type TicketIssuedEvent struct {
	OrderID       string    `json:"order_id"`
	CartID        string    `json:"cart_id,omitempty"`
	CustomerEmail string    `json:"customer_email"`
	TicketIDs     []string  `json:"ticket_ids"`
	IssuedAt      time.Time `json:"issued_at"`
}

func (e *TicketIssuedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes all events of one order to the same partition so
// consumers see them in order.
func (e *TicketIssuedEvent) PartitionKey() string {
	return e.OrderID
}
