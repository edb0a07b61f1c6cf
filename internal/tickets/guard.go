package tickets

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"stagepass/internal/shared/apperr"
	"stagepass/internal/shared/utils/dates"
	"stagepass/internal/shows"
	"stagepass/internal/venues"
)

// ShowCatalog is the narrow slice of the show repository the inventory
// write path needs. shows.Repository satisfies it.
type ShowCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*shows.Show, error)
	GetVariantByID(ctx context.Context, id uuid.UUID) (*shows.ShowVariant, error)
}

// VenueCatalog is the narrow slice of the venue repository the
// inventory write path needs. venues.Repository satisfies it.
type VenueCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*venues.Venue, error)
	GetRowByID(ctx context.Context, id uuid.UUID) (*venues.Row, error)
	GetOrCreateGeneralAccessRow(ctx context.Context, venueID uuid.UUID) (*venues.Row, error)
}

// Guard is the last gate before a cart becomes an order. It performs no
// writes; on any violation the whole order-completion attempt aborts
// and none of the cart's line items become an order. The definitive
// defense against write races stays in Repository.InsertBatch; this
// gate exists to reject doomed checkouts before an order is created.
type Guard struct {
	tickets Repository
	shows   ShowCatalog
	venues  VenueCatalog
}

// NewGuard creates a checkout guard.
func NewGuard(tickets Repository, showCatalog ShowCatalog, venueCatalog VenueCatalog) *Guard {
	return &Guard{tickets: tickets, shows: showCatalog, venues: venueCatalog}
}

// Validate checks every candidate line item in deterministic
// left-to-right order, then checks the general-access aggregate per
// (show, date) against effective capacity.
func (g *Guard) Validate(ctx context.Context, items []CandidateItem) error {
	seen := make(map[string]bool)
	gaRequested := make(map[CapacityKey]int)

	for _, item := range items {
		variant, err := g.shows.GetVariantByID(ctx, item.ShowVariantID)
		if err != nil {
			return err
		}

		if item.GeneralAccess {
			dayKey := variant.ShowDate
			if item.ShowDate != "" {
				if dayKey, err = dates.Normalize(item.ShowDate); err != nil {
					return err
				}
			}
			gaRequested[CapacityKey{ShowID: variant.ShowID, ShowDate: dayKey}] += item.Quantity
			continue
		}

		if item.Quantity != 1 {
			return apperr.InvalidArgumentf("you can only purchase one ticket per seat (line item %s has quantity %d)",
				item.LineItemID, item.Quantity)
		}
		if item.RowID == nil || item.RowNumber == "" {
			return apperr.InvalidArgumentf("field row_id is required for seat %q", item.SeatLabel)
		}
		if item.SeatLabel == "" {
			return apperr.InvalidArgumentf("field seat_label is required for line item %s", item.LineItemID)
		}
		if item.ShowDate == "" {
			return apperr.InvalidArgumentf("field show_date is required for seat %q", item.SeatLabel)
		}

		dayKey, err := dates.Normalize(item.ShowDate)
		if err != nil {
			return err
		}

		cartKey := fmt.Sprintf("%s|%s|%s", item.RowNumber, item.SeatLabel, dayKey)
		if seen[cartKey] {
			return apperr.Conflictf("duplicate seat %s (row %s) for show date %s in cart",
				item.SeatLabel, item.RowNumber, dayKey)
		}
		seen[cartKey] = true

		taken, err := g.tickets.SeatTaken(ctx, item.ShowVariantID, item.SeatLabel, dayKey)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflictf("seat %s has already been sold for show date %s", item.SeatLabel, dayKey)
		}
	}

	for key, requested := range gaRequested {
		show, err := g.shows.GetByID(ctx, key.ShowID)
		if err != nil {
			return err
		}
		venue, err := g.venues.GetByID(ctx, show.VenueID)
		if err != nil {
			return err
		}
		capacity := show.EffectiveCapacity(venue.TotalSeatCount())

		sold, err := g.tickets.CountForShowDate(ctx, key.ShowID, key.ShowDate)
		if err != nil {
			return err
		}
		if sold+requested > capacity {
			return apperr.Conflictf("general access capacity exceeded for %s: %d sold, %d requested, capacity %d",
				key.ShowDate, sold, requested, capacity)
		}
	}

	return nil
}
