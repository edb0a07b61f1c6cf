package tickets

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is a durable record of one sold admission unit (one seat or
// one general-access slot) for one date. ShowDate is stored as a
// calendar-day key.
type Ticket struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderRef      string     `gorm:"index;not null;size:255" json:"order_ref"`
	ShowID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"show_id"`
	ShowVariantID uuid.UUID  `gorm:"type:uuid;index:idx_ticket_variant_date;not null" json:"show_variant_id"`
	RowID         *uuid.UUID `gorm:"type:uuid" json:"row_id,omitempty"`
	SeatLabel     string     `gorm:"not null;size:20" json:"seat_label"`
	ShowDate      string     `gorm:"type:varchar(10);not null;index:idx_ticket_variant_date" json:"show_date"`
	Status        Status     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TableName sets the table name for Ticket.
func (Ticket) TableName() string {
	return "tickets"
}

// IsGeneralAccess reports whether this ticket is a capacity slot rather
// than a specific seat.
func (t *Ticket) IsGeneralAccess() bool {
	return t.SeatLabel == GeneralAccessSeatLabel
}

// CandidateItem is one cart line item presented to the checkout guard
// before the order becomes durable. Catalog metadata is already
// resolved onto the item by the caller.
type CandidateItem struct {
	LineItemID    string
	ShowVariantID uuid.UUID
	Quantity      int
	GeneralAccess bool
	RowID         *uuid.UUID
	RowNumber     string
	SeatLabel     string
	ShowDate      string
}

// IssueItem is one finalized order line presented to the issuance step.
type IssueItem struct {
	LineItemID    string
	ShowVariantID uuid.UUID
	Quantity      int
	GeneralAccess bool
	RowID         *uuid.UUID
	SeatLabel     string
	ShowDate      string
}

// UndoToken records everything needed to compensate a completed
// issuance: the full set of created ticket ids.
type UndoToken struct {
	OrderRef  string      `json:"order_ref"`
	TicketIDs []uuid.UUID `json:"ticket_ids"`
}

// IssueTicketsRequest is the internal HTTP shape of the issuance step.
type IssueTicketsRequest struct {
	OrderRef string             `json:"order_ref" validate:"required"`
	Items    []IssueItemRequest `json:"items" validate:"required,min=1,dive"`
}

type IssueItemRequest struct {
	LineItemID    string `json:"line_item_id" validate:"required"`
	ShowVariantID string `json:"show_variant_id" validate:"required,uuid"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
	GeneralAccess bool   `json:"general_access"`
	RowID         string `json:"row_id" validate:"omitempty,uuid"`
	SeatLabel     string `json:"seat_label"`
	ShowDate      string `json:"show_date"`
}

// RollbackTicketsRequest is the internal HTTP shape of the
// compensation step.
type RollbackTicketsRequest struct {
	OrderRef  string   `json:"order_ref" validate:"required"`
	TicketIDs []string `json:"ticket_ids" validate:"required,min=1,dive,uuid"`
}

// TicketResponse is the API representation of a ticket.
type TicketResponse struct {
	ID            string    `json:"id"`
	OrderRef      string    `json:"order_ref"`
	ShowID        string    `json:"show_id"`
	ShowVariantID string    `json:"show_variant_id"`
	RowID         string    `json:"row_id,omitempty"`
	SeatLabel     string    `json:"seat_label"`
	ShowDate      string    `json:"show_date"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToResponse converts a Ticket to its API representation.
func (t *Ticket) ToResponse() TicketResponse {
	resp := TicketResponse{
		ID:            t.ID.String(),
		OrderRef:      t.OrderRef,
		ShowID:        t.ShowID.String(),
		ShowVariantID: t.ShowVariantID.String(),
		SeatLabel:     t.SeatLabel,
		ShowDate:      t.ShowDate,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
	}
	if t.RowID != nil {
		resp.RowID = t.RowID.String()
	}
	return resp
}
