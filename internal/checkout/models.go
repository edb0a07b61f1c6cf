package checkout

import "stagepass/internal/orders"

// CompleteCartRequest binds the order-completion call. Customer fields
// override whatever the cart carries.
type CompleteCartRequest struct {
	CustomerEmail     string `json:"customer_email"`
	CustomerFirstName string `json:"customer_first_name"`
	CustomerLastName  string `json:"customer_last_name"`
}

// CompleteCartResponse reports the durable order and its tickets.
type CompleteCartResponse struct {
	Order     orders.OrderResponse `json:"order"`
	TicketIDs []string             `json:"ticket_ids"`
}
