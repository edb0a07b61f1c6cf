package tickets

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"stagepass/internal/shared/apperr"
)

func seatCandidate(f *fixture, lineItem, seatLabel string) CandidateItem {
	rowID := f.row.ID
	return CandidateItem{
		LineItemID:    lineItem,
		ShowVariantID: f.variant.ID,
		Quantity:      1,
		RowID:         &rowID,
		RowNumber:     f.row.RowNumber,
		SeatLabel:     seatLabel,
		ShowDate:      f.seatDay,
	}
}

func gaCandidate(f *fixture, lineItem string, quantity int) CandidateItem {
	return CandidateItem{
		LineItemID:    lineItem,
		ShowVariantID: f.gaVariant.ID,
		Quantity:      quantity,
		GeneralAccess: true,
	}
}

// presellGeneralAccess fills n capacity slots for the fixture's
// general-access show.
func presellGeneralAccess(t *testing.T, f *fixture, n int) {
	t.Helper()
	batch := make([]*Ticket, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, &Ticket{
			OrderRef:      "order_presold",
			ShowID:        f.gaShow.ID,
			ShowVariantID: f.gaVariant.ID,
			SeatLabel:     GeneralAccessSeatLabel,
			ShowDate:      f.generalDay,
			Status:        StatusPending,
		})
	}
	capacities := map[CapacityKey]int{
		{ShowID: f.gaShow.ID, ShowDate: f.generalDay}: f.gaCapacity,
	}
	if err := f.store.InsertBatch(context.Background(), batch, capacities); err != nil {
		t.Fatalf("preselling %d slots: %v", n, err)
	}
}

func TestGuardAcceptsMixedCart(t *testing.T) {
	f := newFixture()
	items := []CandidateItem{
		seatCandidate(f, "li_1", "1"),
		seatCandidate(f, "li_2", "2"),
		gaCandidate(f, "li_3", 4),
	}
	if err := f.guard().Validate(context.Background(), items); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestGuardRejectsBadSeatItems(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name   string
		mutate func(*CandidateItem)
		want   error
	}{
		{
			name:   "quantity above one",
			mutate: func(i *CandidateItem) { i.Quantity = 2 },
			want:   apperr.ErrInvalidArgument,
		},
		{
			name:   "missing row",
			mutate: func(i *CandidateItem) { i.RowID = nil },
			want:   apperr.ErrInvalidArgument,
		},
		{
			name:   "missing seat label",
			mutate: func(i *CandidateItem) { i.SeatLabel = "" },
			want:   apperr.ErrInvalidArgument,
		},
		{
			name:   "missing show date",
			mutate: func(i *CandidateItem) { i.ShowDate = "" },
			want:   apperr.ErrInvalidArgument,
		},
		{
			name:   "unparseable show date",
			mutate: func(i *CandidateItem) { i.ShowDate = "whenever" },
			want:   apperr.ErrInvalidArgument,
		},
		{
			name:   "unknown variant",
			mutate: func(i *CandidateItem) { i.ShowVariantID = uuid.New() },
			want:   apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := seatCandidate(f, "li_1", "1")
			tt.mutate(&item)
			err := f.guard().Validate(context.Background(), []CandidateItem{item})
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGuardRejectsDuplicateSeatInCart(t *testing.T) {
	f := newFixture()
	items := []CandidateItem{
		seatCandidate(f, "li_1", "1"),
		seatCandidate(f, "li_2", "1"),
	}
	err := f.guard().Validate(context.Background(), items)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("Validate() error = %v, want Conflict", err)
	}
}

func TestGuardRejectsSoldSeat(t *testing.T) {
	f := newFixture()
	rowID := f.row.ID
	sold := []*Ticket{{
		OrderRef:      "order_earlier",
		ShowID:        f.show.ID,
		ShowVariantID: f.variant.ID,
		RowID:         &rowID,
		SeatLabel:     "1",
		ShowDate:      f.seatDay,
		Status:        StatusPending,
	}}
	if err := f.store.InsertBatch(context.Background(), sold, nil); err != nil {
		t.Fatalf("seeding sold seat: %v", err)
	}

	err := f.guard().Validate(context.Background(), []CandidateItem{seatCandidate(f, "li_1", "1")})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("Validate() error = %v, want Conflict", err)
	}

	// The neighbouring seat is still fine.
	if err := f.guard().Validate(context.Background(), []CandidateItem{seatCandidate(f, "li_2", "2")}); err != nil {
		t.Fatalf("Validate() on free seat = %v, want nil", err)
	}
}

func TestGuardEnforcesGeneralAccessAggregate(t *testing.T) {
	f := newFixture()
	presellGeneralAccess(t, f, 40)

	// 40 sold + 10 requested fits the capacity of 50.
	if err := f.guard().Validate(context.Background(), []CandidateItem{gaCandidate(f, "li_1", 10)}); err != nil {
		t.Fatalf("Validate() at capacity = %v, want nil", err)
	}

	// One more unit would exceed it, even split across line items.
	err := f.guard().Validate(context.Background(), []CandidateItem{
		gaCandidate(f, "li_1", 6),
		gaCandidate(f, "li_2", 5),
	})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("Validate() over capacity error = %v, want Conflict", err)
	}
}
