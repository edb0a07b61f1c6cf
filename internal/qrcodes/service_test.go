package qrcodes

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"stagepass/internal/orders"
	"stagepass/internal/shared/apperr"
	"stagepass/internal/shows"
	"stagepass/internal/tickets"
	"stagepass/internal/venues"
	"stagepass/pkg/logger"
)

type fakeTickets struct {
	byID map[uuid.UUID]*tickets.Ticket
}

func (f *fakeTickets) GetByID(ctx context.Context, id uuid.UUID) (*tickets.Ticket, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFoundf("ticket %s not found", id)
	}
	return t, nil
}

func (f *fakeTickets) GetByOrderRef(ctx context.Context, orderRef string) ([]tickets.Ticket, error) {
	var out []tickets.Ticket
	for _, t := range f.byID {
		if t.OrderRef == orderRef {
			out = append(out, *t)
		}
	}
	return out, nil
}

type fakeShows struct {
	shows    map[uuid.UUID]*shows.Show
	variants map[uuid.UUID]*shows.ShowVariant
}

func (f *fakeShows) GetByID(ctx context.Context, id uuid.UUID) (*shows.Show, error) {
	show, ok := f.shows[id]
	if !ok {
		return nil, apperr.NotFoundf("show %s not found", id)
	}
	return show, nil
}

func (f *fakeShows) GetVariantByID(ctx context.Context, id uuid.UUID) (*shows.ShowVariant, error) {
	variant, ok := f.variants[id]
	if !ok {
		return nil, apperr.NotFoundf("show variant %s not found", id)
	}
	return variant, nil
}

type fakeVenues struct {
	venues map[uuid.UUID]*venues.Venue
	rows   map[uuid.UUID]*venues.Row
}

func (f *fakeVenues) GetByID(ctx context.Context, id uuid.UUID) (*venues.Venue, error) {
	venue, ok := f.venues[id]
	if !ok {
		return nil, apperr.NotFoundf("venue %s not found", id)
	}
	return venue, nil
}

func (f *fakeVenues) GetRowByID(ctx context.Context, id uuid.UUID) (*venues.Row, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFoundf("row %s not found", id)
	}
	return row, nil
}

type fakeOrders struct {
	byID map[uuid.UUID]*orders.Order
}

func (f *fakeOrders) GetByID(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	order, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFoundf("order %s not found", id)
	}
	return order, nil
}

func (f *fakeOrders) GetLineItem(ctx context.Context, orderID, itemID uuid.UUID) (*orders.OrderLineItem, error) {
	order, ok := f.byID[orderID]
	if !ok {
		return nil, apperr.NotFoundf("order %s not found", orderID)
	}
	for i := range order.LineItems {
		if order.LineItems[i].ID == itemID {
			return &order.LineItems[i], nil
		}
	}
	return nil, apperr.NotFoundf("line item %s not found on order %s", itemID, orderID)
}

type fixture struct {
	svc Service

	ticket   *tickets.Ticket
	order    *orders.Order
	lineItem *orders.OrderLineItem
}

func newFixture() *fixture {
	venue := &venues.Venue{ID: uuid.New(), Name: "Main Hall"}
	row := &venues.Row{
		ID:        uuid.New(),
		VenueID:   venue.ID,
		RowNumber: "A",
		Category:  venues.CategoryStandard,
		SeatCount: 10,
	}

	show := &shows.Show{
		ID:      uuid.New(),
		VenueID: venue.ID,
		Title:   "Jazz Night",
		Dates:   shows.DayList{"2025-07-01"},
	}
	variant := &shows.ShowVariant{
		ID:       uuid.New(),
		ShowID:   show.ID,
		ShowDate: "2025-07-01",
		Category: venues.CategoryStandard,
	}

	order := &orders.Order{
		ID:                uuid.New(),
		CustomerEmail:     "fan@example.com",
		CustomerFirstName: "Ada",
		CustomerLastName:  "Quinn",
	}
	order.LineItems = []orders.OrderLineItem{
		{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductTitle:   "Jazz Night",
			VariantTitle:   "2025-07-01 / standard",
			Quantity:       1,
			UnitPriceCents: 2500,
		},
		{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductTitle:   "Service Fee",
			Quantity:       1,
			UnitPriceCents: 250,
			IsServiceFee:   true,
		},
	}

	rowID := row.ID
	ticket := &tickets.Ticket{
		ID:            uuid.New(),
		OrderRef:      order.ID.String(),
		ShowID:        show.ID,
		ShowVariantID: variant.ID,
		RowID:         &rowID,
		SeatLabel:     "7",
		ShowDate:      "2025-07-01",
		Status:        tickets.StatusPending,
	}

	svc := NewService(
		&fakeTickets{byID: map[uuid.UUID]*tickets.Ticket{ticket.ID: ticket}},
		&fakeShows{
			shows:    map[uuid.UUID]*shows.Show{show.ID: show},
			variants: map[uuid.UUID]*shows.ShowVariant{variant.ID: variant},
		},
		&fakeVenues{
			venues: map[uuid.UUID]*venues.Venue{venue.ID: venue},
			rows:   map[uuid.UUID]*venues.Row{row.ID: row},
		},
		&fakeOrders{byID: map[uuid.UUID]*orders.Order{order.ID: order}},
		"https://tickets.example.com",
		logger.GetDefault(),
	)

	return &fixture{
		svc:      svc,
		ticket:   ticket,
		order:    order,
		lineItem: &order.LineItems[0],
	}
}

func TestTicketQRCode(t *testing.T) {
	f := newFixture()

	code, err := f.svc.TicketQRCode(context.Background(), f.ticket.ID.String())
	if err != nil {
		t.Fatalf("TicketQRCode() = %v", err)
	}

	p := code.Payload
	if p.Schema != SchemaTicket {
		t.Errorf("schema = %q, want %q", p.Schema, SchemaTicket)
	}
	if p.SeatLabel != "7" || p.RowNumber != "A" || p.ShowDate != "2025-07-01" {
		t.Errorf("payload = %+v, want seat 7 row A on 2025-07-01", p)
	}
	if p.VenueName != "Main Hall" || p.ShowTitle != "Jazz Night" || p.Category != "standard" {
		t.Errorf("payload = %+v", p)
	}
	wantURL := "https://tickets.example.com/tickets/validate/" + f.ticket.ID.String()
	if p.ValidationURL != wantURL {
		t.Errorf("validation url = %q, want %q", p.ValidationURL, wantURL)
	}
	if !strings.HasPrefix(code.Image, "data:image/png;base64,") {
		t.Errorf("image is not a png data url: %.40q", code.Image)
	}
}

func TestTicketQRCodeErrors(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.TicketQRCode(context.Background(), "not-a-uuid"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("TicketQRCode(garbage) error = %v, want InvalidArgument", err)
	}
	if _, err := f.svc.TicketQRCode(context.Background(), uuid.NewString()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("TicketQRCode(unknown) error = %v, want NotFound", err)
	}
}

func TestOrderQRCodesSkipFeeLines(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.OrderQRCodes(context.Background(), f.order.ID.String())
	if err != nil {
		t.Fatalf("OrderQRCodes() = %v", err)
	}
	if len(resp.QRCodes) != 1 {
		t.Fatalf("got %d qr codes, want 1 (fee line skipped)", len(resp.QRCodes))
	}

	p := resp.QRCodes[0].Payload
	if p.Schema != SchemaOrderItem {
		t.Errorf("schema = %q, want %q", p.Schema, SchemaOrderItem)
	}
	if p.LineItemID != f.lineItem.ID.String() || p.Quantity != 1 || p.UnitPriceCents != 2500 {
		t.Errorf("payload = %+v", p)
	}
}

func TestValidateTicket(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.ValidateTicket(context.Background(), f.ticket.ID.String())
	if err != nil {
		t.Fatalf("ValidateTicket() = %v", err)
	}
	if !resp.Valid {
		t.Fatal("ticket reported invalid")
	}
	if resp.ScannedAt.IsZero() {
		t.Error("scanned_at not set")
	}

	d := resp.Ticket
	if d.SeatLabel != "7" || d.RowNumber != "A" || d.ShowDate != "2025-07-01" {
		t.Errorf("details = %+v, want the seat assigned at issuance", d)
	}
	if d.ShowTitle != "Jazz Night" || d.VenueName != "Main Hall" || d.Category != "standard" {
		t.Errorf("details = %+v", d)
	}
	if d.CustomerName != "Ada Quinn" || d.CustomerEmail != "fan@example.com" {
		t.Errorf("customer = %q <%s>, want Ada Quinn <fan@example.com>", d.CustomerName, d.CustomerEmail)
	}
}

func TestValidateTicketToleratesExternalOrderRef(t *testing.T) {
	f := newFixture()
	f.ticket.OrderRef = "legacy-order-42"

	resp, err := f.svc.ValidateTicket(context.Background(), f.ticket.ID.String())
	if err != nil {
		t.Fatalf("ValidateTicket() = %v", err)
	}
	if !resp.Valid {
		t.Fatal("ticket reported invalid")
	}
	if resp.Ticket.CustomerName != "" || resp.Ticket.CustomerEmail != "" {
		t.Errorf("customer fields = %+v, want blank for an external order ref", resp.Ticket)
	}
}

func TestValidateTicketErrors(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.ValidateTicket(context.Background(), "not-a-uuid"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("ValidateTicket(garbage) error = %v, want InvalidArgument", err)
	}
	if _, err := f.svc.ValidateTicket(context.Background(), uuid.NewString()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("ValidateTicket(unknown) error = %v, want NotFound", err)
	}
}

func TestValidatePayloadRoundTrip(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.OrderQRCodes(context.Background(), f.order.ID.String())
	if err != nil {
		t.Fatalf("OrderQRCodes() = %v", err)
	}
	raw, err := json.Marshal(resp.QRCodes[0].Payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	result, err := f.svc.ValidatePayload(context.Background(), raw)
	if err != nil {
		t.Fatalf("ValidatePayload() = %v", err)
	}
	if !result.Valid {
		t.Fatalf("round-tripped payload rejected: %s", result.Message)
	}
	if result.Item == nil || result.Item.LineItemID != f.lineItem.ID.String() {
		t.Errorf("item = %+v", result.Item)
	}
}

func TestValidatePayloadDetectsTampering(t *testing.T) {
	f := newFixture()

	payload := OrderItemPayload{
		Schema:         SchemaOrderItem,
		OrderID:        f.order.ID.String(),
		LineItemID:     f.lineItem.ID.String(),
		ProductTitle:   f.lineItem.ProductTitle,
		VariantTitle:   f.lineItem.VariantTitle,
		Quantity:       3, // order says 1
		UnitPriceCents: f.lineItem.UnitPriceCents,
	}
	raw, _ := json.Marshal(payload)

	result, err := f.svc.ValidatePayload(context.Background(), raw)
	if err != nil {
		t.Fatalf("ValidatePayload() = %v", err)
	}
	if result.Valid {
		t.Fatal("tampered payload accepted")
	}
	if !strings.Contains(result.Message, "quantity") {
		t.Errorf("message = %q, want the mismatched field named", result.Message)
	}
}

func TestValidatePayloadErrors(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "malformed json", raw: `{"schema":`, want: apperr.ErrInvalidArgument},
		{name: "wrong schema", raw: `{"schema":"stagepass.ticket.v1","order_id":"x","line_item_id":"y"}`, want: apperr.ErrInvalidArgument},
		{
			name: "unknown order",
			raw: `{"schema":"` + SchemaOrderItem + `","order_id":"` + uuid.NewString() +
				`","line_item_id":"` + f.lineItem.ID.String() + `","product_title":"Jazz Night","quantity":1,"unit_price_cents":2500}`,
			want: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ValidatePayload(context.Background(), []byte(tt.raw))
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidatePayload() error = %v, want %v", err, tt.want)
			}
		})
	}
}
