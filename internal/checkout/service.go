package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/carts"
	"stagepass/internal/notifications"
	"stagepass/internal/orders"
	"stagepass/internal/shared/apperr"
	"stagepass/internal/shows"
	"stagepass/internal/tickets"
	"stagepass/internal/venues"
	"stagepass/pkg/logger"
)

// CartStore is satisfied by carts.Repository.
type CartStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*carts.Cart, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
}

// FeeRecalculator is satisfied by carts.Service.
type FeeRecalculator interface {
	RecalculateServiceFee(ctx context.Context, cartID uuid.UUID) error
}

// OrderStore is satisfied by orders.Repository.
type OrderStore interface {
	Create(ctx context.Context, order *orders.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// VariantResolver is satisfied by shows.Repository.
type VariantResolver interface {
	GetVariantByID(ctx context.Context, id uuid.UUID) (*shows.ShowVariant, error)
}

// GuardValidator is satisfied by *tickets.Guard.
type GuardValidator interface {
	Validate(ctx context.Context, items []tickets.CandidateItem) error
}

// Issuer is the two-phase slice of tickets.Service.
type Issuer interface {
	IssueTickets(ctx context.Context, orderRef string, items []tickets.IssueItem) (*tickets.UndoToken, error)
	DeleteTickets(ctx context.Context, token *tickets.UndoToken) error
}

// Service orchestrates order completion as an explicit sequence of
// steps with compensations. A failure in any later step unwinds every
// earlier step in reverse order, so no partial order or partial ticket
// set is ever left behind.
type Service interface {
	CompleteCart(ctx context.Context, cartID string, req CompleteCartRequest) (*CompleteCartResponse, error)
}

type service struct {
	carts    CartStore
	fees     FeeRecalculator
	orders   OrderStore
	variants VariantResolver
	guard    GuardValidator
	issuer   Issuer
	producer notifications.Producer
	log      *logger.Logger
}

func NewService(cartStore CartStore, fees FeeRecalculator, orderStore OrderStore, variants VariantResolver, guard GuardValidator, issuer Issuer, producer notifications.Producer) Service {
	return &service{
		carts:    cartStore,
		fees:     fees,
		orders:   orderStore,
		variants: variants,
		guard:    guard,
		issuer:   issuer,
		producer: producer,
		log:      logger.GetDefault(),
	}
}

func (s *service) CompleteCart(ctx context.Context, cartID string, req CompleteCartRequest) (*CompleteCartResponse, error) {
	id, err := uuid.Parse(cartID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid cart id %q", cartID)
	}

	cart, err := s.carts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart.CompletedAt != nil {
		return nil, apperr.Conflictf("cart %s is already completed", cartID)
	}

	// Step 1: bring the fee line up to date, then work from the fresh
	// cart state.
	if err := s.fees.RecalculateServiceFee(ctx, id); err != nil {
		return nil, err
	}
	if cart, err = s.carts.GetByID(ctx, id); err != nil {
		return nil, err
	}

	customerEmail := req.CustomerEmail
	if customerEmail == "" {
		customerEmail = cart.CustomerEmail
	}
	if customerEmail == "" {
		return nil, apperr.InvalidArgumentf("customer email is required to complete checkout")
	}

	candidates, issueItems, err := s.resolveTicketLines(ctx, cart)
	if err != nil {
		return nil, err
	}
	if len(issueItems) == 0 {
		return nil, apperr.InvalidArgumentf("cart %s has no ticket line items", cartID)
	}

	// Step 2: the guard. No writes have happened yet, so a rejection
	// simply aborts.
	if err := s.guard.Validate(ctx, candidates); err != nil {
		s.log.LogCheckoutRejected(ctx, cartID, err.Error())
		return nil, err
	}

	// Later steps push their compensations here; unwind runs them in
	// reverse on failure.
	var undo []func(context.Context)

	// Step 3: create the durable order.
	order := s.buildOrder(cart, customerEmail, req)
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	undo = append(undo, func(ctx context.Context) {
		if err := s.orders.Delete(ctx, order.ID); err != nil {
			s.log.WithError(err).Error("compensation failed: order not deleted", "order_id", order.ID.String())
		}
	})

	// Step 4: issue tickets.
	token, err := s.issuer.IssueTickets(ctx, order.ID.String(), issueItems)
	if err != nil {
		s.unwind(ctx, undo)
		return nil, err
	}
	undo = append(undo, func(ctx context.Context) {
		if err := s.issuer.DeleteTickets(ctx, token); err != nil {
			s.log.WithError(err).Error("compensation failed: tickets not deleted", "order_id", order.ID.String())
		}
	})

	// Step 5: finalize the cart. Losing this race to a concurrent
	// completion rolls back everything this attempt created.
	if err := s.carts.MarkCompleted(ctx, id, time.Now().UTC()); err != nil {
		s.unwind(ctx, undo)
		return nil, err
	}

	s.publishIssued(ctx, cart, order, token)

	resp := &CompleteCartResponse{
		Order:     order.ToResponse(),
		TicketIDs: make([]string, 0, len(token.TicketIDs)),
	}
	for _, ticketID := range token.TicketIDs {
		resp.TicketIDs = append(resp.TicketIDs, ticketID.String())
	}
	return resp, nil
}

// resolveTicketLines maps billable cart lines onto guard candidates
// and issuance items. Seat selections travel in line-item metadata.
func (s *service) resolveTicketLines(ctx context.Context, cart *carts.Cart) ([]tickets.CandidateItem, []tickets.IssueItem, error) {
	var candidates []tickets.CandidateItem
	var issueItems []tickets.IssueItem

	for _, line := range cart.LineItems {
		if line.IsServiceFee || line.ShowVariantID == nil {
			continue
		}

		variant, err := s.variants.GetVariantByID(ctx, *line.ShowVariantID)
		if err != nil {
			return nil, nil, err
		}
		general := variant.Category == venues.CategoryGeneralAccess

		var rowID *uuid.UUID
		if raw := line.Metadata.GetString("row_id"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				return nil, nil, apperr.InvalidArgumentf("invalid row id %q on line item %s", raw, line.ID)
			}
			rowID = &parsed
		}

		candidates = append(candidates, tickets.CandidateItem{
			LineItemID:    line.ID.String(),
			ShowVariantID: variant.ID,
			Quantity:      line.Quantity,
			GeneralAccess: general,
			RowID:         rowID,
			RowNumber:     line.Metadata.GetString("row_number"),
			SeatLabel:     line.Metadata.GetString("seat_label"),
			ShowDate:      line.Metadata.GetString("show_date"),
		})
		issueItems = append(issueItems, tickets.IssueItem{
			LineItemID:    line.ID.String(),
			ShowVariantID: variant.ID,
			Quantity:      line.Quantity,
			GeneralAccess: general,
			RowID:         rowID,
			SeatLabel:     line.Metadata.GetString("seat_label"),
			ShowDate:      line.Metadata.GetString("show_date"),
		})
	}

	return candidates, issueItems, nil
}

func (s *service) buildOrder(cart *carts.Cart, customerEmail string, req CompleteCartRequest) *orders.Order {
	cartID := cart.ID
	order := &orders.Order{
		CartID:            &cartID,
		CustomerEmail:     customerEmail,
		CustomerFirstName: req.CustomerFirstName,
		CustomerLastName:  req.CustomerLastName,
		CurrencyCode:      cart.CurrencyCode,
		SubtotalCents:     cart.Subtotal(),
	}

	for _, line := range cart.LineItems {
		item := orders.OrderLineItem{
			ShowVariantID:  line.ShowVariantID,
			ProductTitle:   line.Title,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			IsServiceFee:   line.IsServiceFee,
		}
		if line.IsServiceFee {
			order.FeeCents += line.UnitPriceCents * int64(line.Quantity)
		}
		order.LineItems = append(order.LineItems, item)
	}
	order.TotalCents = order.SubtotalCents + order.FeeCents
	return order
}

func (s *service) unwind(ctx context.Context, undo []func(context.Context)) {
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i](ctx)
	}
}

// publishIssued emits the ticket-issued event. The sale is already
// durable at this point, so a publish failure is logged, not unwound.
func (s *service) publishIssued(ctx context.Context, cart *carts.Cart, order *orders.Order, token *tickets.UndoToken) {
	if s.producer == nil {
		return
	}

	event := &notifications.TicketIssuedEvent{
		OrderID:       order.ID.String(),
		CartID:        cart.ID.String(),
		CustomerEmail: order.CustomerEmail,
		IssuedAt:      time.Now().UTC(),
	}
	for _, ticketID := range token.TicketIDs {
		event.TicketIDs = append(event.TicketIDs, ticketID.String())
	}

	if err := s.producer.PublishTicketsIssued(ctx, event); err != nil {
		s.log.WithError(err).Warn("failed to publish ticket-issued event", "order_id", event.OrderID)
	}
}
