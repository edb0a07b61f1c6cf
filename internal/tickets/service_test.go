package tickets

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"stagepass/internal/shared/apperr"
	"stagepass/internal/venues"
)

func seatIssueItem(f *fixture, lineItem, seatLabel string) IssueItem {
	rowID := f.row.ID
	return IssueItem{
		LineItemID:    lineItem,
		ShowVariantID: f.variant.ID,
		Quantity:      1,
		RowID:         &rowID,
		SeatLabel:     seatLabel,
		ShowDate:      f.seatDay,
	}
}

func TestIssueTicketsSeats(t *testing.T) {
	f := newFixture()
	svc := f.service()

	token, err := svc.IssueTickets(context.Background(), "order_1", []IssueItem{
		seatIssueItem(f, "li_1", "1"),
		seatIssueItem(f, "li_2", "2"),
	})
	if err != nil {
		t.Fatalf("IssueTickets() = %v, want nil", err)
	}
	if len(token.TicketIDs) != 2 {
		t.Fatalf("token has %d ticket ids, want 2", len(token.TicketIDs))
	}
	if f.store.count() != 2 {
		t.Fatalf("store holds %d tickets, want 2", f.store.count())
	}

	ticket, err := f.store.GetByID(context.Background(), token.TicketIDs[0])
	if err != nil {
		t.Fatalf("GetByID() = %v", err)
	}
	if ticket.Status != StatusPending {
		t.Errorf("status = %q, want %q", ticket.Status, StatusPending)
	}
	if ticket.OrderRef != "order_1" {
		t.Errorf("order ref = %q, want %q", ticket.OrderRef, "order_1")
	}
	if ticket.ShowDate != f.seatDay {
		t.Errorf("show date = %q, want %q", ticket.ShowDate, f.seatDay)
	}
}

func TestIssueTicketsNormalizesTimestampDates(t *testing.T) {
	f := newFixture()
	item := seatIssueItem(f, "li_1", "1")
	item.ShowDate = f.seatDay + "T12:00:00Z"

	token, err := f.service().IssueTickets(context.Background(), "order_1", []IssueItem{item})
	if err != nil {
		t.Fatalf("IssueTickets() = %v, want nil", err)
	}
	ticket, err := f.store.GetByID(context.Background(), token.TicketIDs[0])
	if err != nil {
		t.Fatalf("GetByID() = %v", err)
	}
	if ticket.ShowDate != f.seatDay {
		t.Errorf("show date = %q, want day key %q", ticket.ShowDate, f.seatDay)
	}
}

func TestIssueTicketsValidation(t *testing.T) {
	f := newFixture()

	// A premium row on the same venue to provoke a category mismatch.
	premiumRow := venues.Row{
		ID:        uuid.New(),
		VenueID:   f.venue.ID,
		RowNumber: "P",
		Category:  venues.CategoryPremium,
		SeatCount: 4,
	}
	f.venue.Rows = append(f.venue.Rows, premiumRow)
	f.venues.rows[premiumRow.ID] = &f.venue.Rows[len(f.venue.Rows)-1]

	tests := []struct {
		name   string
		mutate func(*IssueItem)
		want   error
	}{
		{
			name:   "date outside schedule",
			mutate: func(i *IssueItem) { i.ShowDate = "2025-07-05" },
			want:   apperr.ErrInvalidArgument,
		},
		{
			name:   "seat beyond row size",
			mutate: func(i *IssueItem) { i.SeatLabel = "3" },
			want:   apperr.ErrInvalidArgument,
		},
		{
			name:   "non numeric seat",
			mutate: func(i *IssueItem) { i.SeatLabel = "front" },
			want:   apperr.ErrInvalidArgument,
		},
		{
			name:   "missing row",
			mutate: func(i *IssueItem) { i.RowID = nil },
			want:   apperr.ErrInvalidArgument,
		},
		{
			name:   "row category does not match variant",
			mutate: func(i *IssueItem) { i.RowID = &premiumRow.ID },
			want:   apperr.ErrInvalidArgument,
		},
		{
			name:   "unknown variant",
			mutate: func(i *IssueItem) { i.ShowVariantID = uuid.New() },
			want:   apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := seatIssueItem(f, "li_1", "1")
			tt.mutate(&item)
			_, err := f.service().IssueTickets(context.Background(), "order_1", []IssueItem{item})
			if !errors.Is(err, tt.want) {
				t.Errorf("IssueTickets() error = %v, want %v", err, tt.want)
			}
			if f.store.count() != 0 {
				t.Errorf("store holds %d tickets after rejected issuance, want 0", f.store.count())
			}
		})
	}

	if _, err := f.service().IssueTickets(context.Background(), "", []IssueItem{seatIssueItem(f, "li_1", "1")}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("IssueTickets with empty order ref error = %v, want InvalidArgument", err)
	}
}

func TestIssueTicketsEmptyBatch(t *testing.T) {
	f := newFixture()
	token, err := f.service().IssueTickets(context.Background(), "order_1", nil)
	if err != nil {
		t.Fatalf("IssueTickets() = %v, want nil", err)
	}
	if len(token.TicketIDs) != 0 {
		t.Errorf("token has %d ticket ids, want 0", len(token.TicketIDs))
	}
}

// Two buyers race for the same physical seat. Exactly one issuance must
// succeed and the loser must see a conflict.
func TestConcurrentSeatIssuanceOneWins(t *testing.T) {
	f := newFixture()
	svc := f.service()

	const buyers = 8
	errs := make([]error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			orderRef := "order_" + string(rune('a'+i))
			_, errs[i] = svc.IssueTickets(context.Background(), orderRef, []IssueItem{
				seatIssueItem(f, "li_1", "1"),
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, apperr.ErrConflict):
		default:
			t.Errorf("buyer %d got unexpected error %v", i, err)
		}
	}
	if winners != 1 {
		t.Errorf("%d buyers won seat 1, want exactly 1", winners)
	}
	if f.store.count() != 1 {
		t.Errorf("store holds %d tickets, want 1", f.store.count())
	}
}

// A 50-capacity general-access show sells exactly 50 slots and not one
// more.
func TestGeneralAccessCapacityIsHard(t *testing.T) {
	f := newFixture()
	svc := f.service()

	token, err := svc.IssueTickets(context.Background(), "order_bulk", []IssueItem{{
		LineItemID:    "li_1",
		ShowVariantID: f.gaVariant.ID,
		Quantity:      f.gaCapacity,
		GeneralAccess: true,
	}})
	if err != nil {
		t.Fatalf("issuing %d slots: %v", f.gaCapacity, err)
	}
	if len(token.TicketIDs) != f.gaCapacity {
		t.Fatalf("issued %d slots, want %d", len(token.TicketIDs), f.gaCapacity)
	}

	_, err = svc.IssueTickets(context.Background(), "order_late", []IssueItem{{
		LineItemID:    "li_1",
		ShowVariantID: f.gaVariant.ID,
		Quantity:      1,
		GeneralAccess: true,
	}})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("issuance past capacity error = %v, want Conflict", err)
	}
	if f.store.count() != f.gaCapacity {
		t.Errorf("store holds %d tickets, want %d", f.store.count(), f.gaCapacity)
	}
}

func TestIssueGeneralAccessReusesSyntheticRow(t *testing.T) {
	f := newFixture()
	svc := f.service()

	if got := f.venues.rowCount(f.gaVenue.ID); got != 0 {
		t.Fatalf("venue starts with %d rows, want 0", got)
	}

	for _, orderRef := range []string{"order_1", "order_2"} {
		if _, err := svc.IssueTickets(context.Background(), orderRef, []IssueItem{{
			LineItemID:    "li_1",
			ShowVariantID: f.gaVariant.ID,
			Quantity:      2,
			GeneralAccess: true,
		}}); err != nil {
			t.Fatalf("IssueTickets(%s) = %v", orderRef, err)
		}
	}

	if got := f.venues.rowCount(f.gaVenue.ID); got != 1 {
		t.Errorf("venue has %d rows after two issuances, want 1 shared placeholder", got)
	}
}

func TestDeleteTicketsRollsBackFully(t *testing.T) {
	f := newFixture()
	svc := f.service()

	token, err := svc.IssueTickets(context.Background(), "order_1", []IssueItem{
		seatIssueItem(f, "li_1", "1"),
		seatIssueItem(f, "li_2", "2"),
	})
	if err != nil {
		t.Fatalf("IssueTickets() = %v", err)
	}

	if err := svc.DeleteTickets(context.Background(), token); err != nil {
		t.Fatalf("DeleteTickets() = %v", err)
	}
	if f.store.count() != 0 {
		t.Fatalf("store holds %d tickets after rollback, want 0", f.store.count())
	}

	// The seat is sellable again.
	if _, err := svc.IssueTickets(context.Background(), "order_2", []IssueItem{seatIssueItem(f, "li_1", "1")}); err != nil {
		t.Fatalf("reissuing rolled-back seat: %v", err)
	}

	if err := svc.DeleteTickets(context.Background(), nil); err != nil {
		t.Errorf("DeleteTickets(nil) = %v, want nil", err)
	}
}

func TestMarkScanned(t *testing.T) {
	f := newFixture()
	svc := f.service()

	token, err := svc.IssueTickets(context.Background(), "order_1", []IssueItem{seatIssueItem(f, "li_1", "1")})
	if err != nil {
		t.Fatalf("IssueTickets() = %v", err)
	}
	id := token.TicketIDs[0]

	if err := svc.MarkScanned(context.Background(), id.String()); err != nil {
		t.Fatalf("MarkScanned() = %v", err)
	}
	ticket, err := f.store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID() = %v", err)
	}
	if ticket.Status != StatusScanned {
		t.Errorf("status = %q, want %q", ticket.Status, StatusScanned)
	}

	if err := svc.MarkScanned(context.Background(), uuid.NewString()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("MarkScanned(unknown) error = %v, want NotFound", err)
	}
	if err := svc.MarkScanned(context.Background(), "not-a-uuid"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("MarkScanned(garbage) error = %v, want InvalidArgument", err)
	}
}

func TestGetOrderTickets(t *testing.T) {
	f := newFixture()
	svc := f.service()

	if _, err := svc.IssueTickets(context.Background(), "order_1", []IssueItem{
		seatIssueItem(f, "li_1", "1"),
		seatIssueItem(f, "li_2", "2"),
	}); err != nil {
		t.Fatalf("IssueTickets() = %v", err)
	}

	list, err := svc.GetOrderTickets(context.Background(), "order_1")
	if err != nil {
		t.Fatalf("GetOrderTickets() = %v", err)
	}
	if len(list) != 2 {
		t.Errorf("GetOrderTickets() returned %d tickets, want 2", len(list))
	}

	if _, err := svc.GetTicket(context.Background(), "not-a-uuid"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("GetTicket(garbage) error = %v, want InvalidArgument", err)
	}
}
