package qrcodes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/orders"
	"stagepass/internal/shared/apperr"
	"stagepass/internal/shows"
	"stagepass/internal/tickets"
	"stagepass/internal/venues"
	"stagepass/pkg/logger"
)

// TicketStore is the slice of the ticket repository the codec needs.
// tickets.Repository satisfies it.
type TicketStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*tickets.Ticket, error)
	GetByOrderRef(ctx context.Context, orderRef string) ([]tickets.Ticket, error)
}

// ShowCatalog is satisfied by shows.Repository.
type ShowCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*shows.Show, error)
	GetVariantByID(ctx context.Context, id uuid.UUID) (*shows.ShowVariant, error)
}

// VenueCatalog is satisfied by venues.Repository.
type VenueCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*venues.Venue, error)
	GetRowByID(ctx context.Context, id uuid.UUID) (*venues.Row, error)
}

// OrderStore is satisfied by orders.Repository.
type OrderStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*orders.Order, error)
	GetLineItem(ctx context.Context, orderID, itemID uuid.UUID) (*orders.OrderLineItem, error)
}

// Service encodes tickets and order items into QR artifacts and
// validates both against authoritative storage. Validation never
// trusts client-supplied payload fields beyond using the embedded ids
// for lookup.
type Service interface {
	TicketQRCode(ctx context.Context, ticketID string) (*TicketQRCode, error)
	OrderQRCodes(ctx context.Context, orderID string) (*OrderQRCodesResponse, error)
	ValidateTicket(ctx context.Context, ticketID string) (*TicketValidationResponse, error)
	ValidatePayload(ctx context.Context, raw []byte) (*PayloadValidationResponse, error)
}

type service struct {
	tickets TicketStore
	shows   ShowCatalog
	venues  VenueCatalog
	orders  OrderStore
	baseURL string
	log     *logger.Logger
}

func NewService(ticketStore TicketStore, showCatalog ShowCatalog, venueCatalog VenueCatalog, orderStore OrderStore, validationBaseURL string, log *logger.Logger) Service {
	return &service{
		tickets: ticketStore,
		shows:   showCatalog,
		venues:  venueCatalog,
		orders:  orderStore,
		baseURL: validationBaseURL,
		log:     log,
	}
}

func (s *service) TicketQRCode(ctx context.Context, ticketID string) (*TicketQRCode, error) {
	id, err := uuid.Parse(ticketID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid ticket id %q", ticketID)
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := s.buildTicketPayload(ctx, ticket)
	if err != nil {
		return nil, err
	}

	return &TicketQRCode{
		TicketID: ticketID,
		Payload:  *payload,
		Image:    s.render(payload),
	}, nil
}

func (s *service) OrderQRCodes(ctx context.Context, orderID string) (*OrderQRCodesResponse, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid order id %q", orderID)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &OrderQRCodesResponse{OrderID: orderID}
	for _, item := range order.LineItems {
		if item.IsServiceFee {
			continue
		}
		payload := OrderItemPayload{
			Schema:         SchemaOrderItem,
			OrderID:        order.ID.String(),
			LineItemID:     item.ID.String(),
			ProductTitle:   item.ProductTitle,
			VariantTitle:   item.VariantTitle,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			CustomerEmail:  order.CustomerEmail,
		}
		resp.QRCodes = append(resp.QRCodes, OrderItemQRCode{
			LineItemID: payload.LineItemID,
			Payload:    payload,
			Image:      s.render(&payload),
		})
	}
	return resp, nil
}

// render encodes a payload, degrading to the placeholder image when
// encoding fails. The failure is logged, never swallowed silently.
func (s *service) render(payload interface{}) string {
	image, err := EncodeDataURL(payload)
	if err != nil {
		s.log.WithError(err).Warn("qr encode failed, serving placeholder")
		return PlaceholderDataURL
	}
	return image
}

func (s *service) buildTicketPayload(ctx context.Context, ticket *tickets.Ticket) (*TicketPayload, error) {
	variant, err := s.shows.GetVariantByID(ctx, ticket.ShowVariantID)
	if err != nil {
		return nil, err
	}
	show, err := s.shows.GetByID(ctx, ticket.ShowID)
	if err != nil {
		return nil, err
	}
	venue, err := s.venues.GetByID(ctx, show.VenueID)
	if err != nil {
		return nil, err
	}

	payload := &TicketPayload{
		Schema:        SchemaTicket,
		TicketID:      ticket.ID.String(),
		OrderRef:      ticket.OrderRef,
		SeatLabel:     ticket.SeatLabel,
		ShowDate:      ticket.ShowDate,
		VenueName:     venue.Name,
		ShowTitle:     show.Title,
		Category:      string(variant.Category),
		ValidationURL: ValidationURL(s.baseURL, ticket.ID.String()),
	}

	if ticket.RowID != nil {
		row, err := s.venues.GetRowByID(ctx, *ticket.RowID)
		if err != nil {
			return nil, err
		}
		payload.RowNumber = row.RowNumber
	}
	return payload, nil
}

// ValidateTicket is the authoritative door-scan path. Everything it
// reports is re-fetched from storage by ticket id.
func (s *service) ValidateTicket(ctx context.Context, ticketID string) (*TicketValidationResponse, error) {
	id, err := uuid.Parse(ticketID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid ticket id %q", ticketID)
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	variant, err := s.shows.GetVariantByID(ctx, ticket.ShowVariantID)
	if err != nil {
		return nil, err
	}
	show, err := s.shows.GetByID(ctx, ticket.ShowID)
	if err != nil {
		return nil, err
	}
	venue, err := s.venues.GetByID(ctx, show.VenueID)
	if err != nil {
		return nil, err
	}

	details := TicketDetails{
		TicketID:  ticket.ID.String(),
		OrderRef:  ticket.OrderRef,
		SeatLabel: ticket.SeatLabel,
		Category:  string(variant.Category),
		ShowDate:  ticket.ShowDate,
		ShowTitle: show.Title,
		VenueName: venue.Name,
		Status:    string(ticket.Status),
	}

	if ticket.RowID != nil {
		row, err := s.venues.GetRowByID(ctx, *ticket.RowID)
		if err != nil {
			return nil, err
		}
		details.RowNumber = row.RowNumber
	}

	// The order ref may point outside this system; a missing order is
	// tolerated and only drops the customer fields.
	if orderID, err := uuid.Parse(ticket.OrderRef); err == nil {
		order, err := s.orders.GetByID(ctx, orderID)
		switch {
		case err == nil:
			details.CustomerName = order.CustomerName()
			details.CustomerEmail = order.CustomerEmail
		case !errors.Is(err, apperr.ErrNotFound):
			return nil, err
		}
	}

	s.log.LogTicketScanned(ctx, ticketID, true)

	return &TicketValidationResponse{
		Valid:     true,
		Message:   "Ticket is valid",
		Ticket:    &details,
		ScannedAt: time.Now().UTC(),
	}, nil
}

// ValidatePayload re-validates a submitted proof-of-purchase payload.
// Only the embedded ids are trusted for lookup; every other field is
// recomputed from the authoritative order and compared.
func (s *service) ValidatePayload(ctx context.Context, raw []byte) (*PayloadValidationResponse, error) {
	payload, err := ParseOrderItemPayload(raw)
	if err != nil {
		return nil, err
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid order id %q", payload.OrderID)
	}
	itemID, err := uuid.Parse(payload.LineItemID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid line item id %q", payload.LineItemID)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	item, err := s.orders.GetLineItem(ctx, orderID, itemID)
	if err != nil {
		return nil, err
	}

	if reason := comparePayload(payload, order, item); reason != "" {
		return &PayloadValidationResponse{
			Valid:     false,
			Message:   fmt.Sprintf("payload does not match order records: %s", reason),
			ScannedAt: time.Now().UTC(),
		}, nil
	}

	return &PayloadValidationResponse{
		Valid:   true,
		Message: "Payload is valid",
		Item: &OrderItemDetails{
			OrderID:        order.ID.String(),
			LineItemID:     item.ID.String(),
			ProductTitle:   item.ProductTitle,
			VariantTitle:   item.VariantTitle,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			CustomerEmail:  order.CustomerEmail,
		},
		ScannedAt: time.Now().UTC(),
	}, nil
}

// comparePayload returns the first mismatched field, or "" when the
// payload matches the authoritative records.
func comparePayload(payload *OrderItemPayload, order *orders.Order, item *orders.OrderLineItem) string {
	if payload.ProductTitle != item.ProductTitle {
		return "product_title"
	}
	if payload.Quantity != item.Quantity {
		return "quantity"
	}
	if payload.UnitPriceCents != item.UnitPriceCents {
		return "unit_price_cents"
	}
	if payload.VariantTitle != "" && payload.VariantTitle != item.VariantTitle {
		return "variant_title"
	}
	if payload.CustomerEmail != "" && payload.CustomerEmail != order.CustomerEmail {
		return "customer_email"
	}
	return ""
}
