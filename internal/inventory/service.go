package inventory

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/shared/apperr"
	"stagepass/internal/shared/constants"
	"stagepass/internal/shared/utils/dates"
	"stagepass/internal/shows"
	"stagepass/internal/tickets"
	"stagepass/internal/venues"
	"stagepass/pkg/cache"
)

// ShowCatalog is the slice of the show repository the read path needs.
// shows.Repository satisfies it.
type ShowCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*shows.Show, error)
	FindVariant(ctx context.Context, showID uuid.UUID, dayKey string, category venues.Category) (*shows.ShowVariant, error)
}

// VenueCatalog is the slice of the venue repository the read path
// needs. venues.Repository satisfies it.
type VenueCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*venues.Venue, error)
}

// TicketStore is the slice of the ticket repository the read path
// needs. tickets.Repository satisfies it.
type TicketStore interface {
	CountForVariantDate(ctx context.Context, variantID uuid.UUID, dayKey string) (int, error)
	ListForShowDate(ctx context.Context, showID uuid.UUID, dayKey string) ([]tickets.Ticket, error)
}

// Service derives availability summaries and seat maps. Both reads are
// stateless and cacheable only until the next successful issuance for
// the show; the issuance step invalidates the cache keys used here.
type Service interface {
	Availability(ctx context.Context, showID string) (*AvailabilityResponse, error)
	SeatMap(ctx context.Context, showID, rawDate string) (*SeatMapResponse, error)
}

type service struct {
	shows    ShowCatalog
	venues   VenueCatalog
	tickets  TicketStore
	cache    cache.Service
	cacheTTL time.Duration
}

// NewService creates a new inventory service instance. cacheService may
// be nil when Redis is not configured.
func NewService(showCatalog ShowCatalog, venueCatalog VenueCatalog, ticketStore TicketStore, cacheService cache.Service, cacheTTL time.Duration) Service {
	return &service{
		shows:    showCatalog,
		venues:   venueCatalog,
		tickets:  ticketStore,
		cache:    cacheService,
		cacheTTL: cacheTTL,
	}
}

// categoryGroup is one inventory bucket: a seat category with its
// summed capacity, or the single synthetic general_access bucket.
type categoryGroup struct {
	category venues.Category
	capacity int
}

func (s *service) Availability(ctx context.Context, showID string) (*AvailabilityResponse, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid show id %q", showID)
	}

	var resp AvailabilityResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, constants.AvailabilityKey(showID), &resp); err == nil {
			return &resp, nil
		}
	}

	show, err := s.shows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	venue, err := s.venues.GetByID(ctx, show.VenueID)
	if err != nil {
		return nil, err
	}

	groups := s.buildGroups(show, venue)

	resp = AvailabilityResponse{ShowID: showID}
	for _, day := range show.Dates {
		dateAvail := DateAvailability{Date: day, SoldOut: true}
		for _, group := range groups {
			avail, err := s.categoryAvailability(ctx, show, group, day)
			if err != nil {
				return nil, err
			}
			if avail.Available > 0 {
				dateAvail.SoldOut = false
			}
			dateAvail.Categories = append(dateAvail.Categories, avail)
		}
		resp.Dates = append(resp.Dates, dateAvail)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, constants.AvailabilityKey(showID), &resp, s.cacheTTL)
	}
	return &resp, nil
}

// buildGroups groups the venue's rows by category. General-access
// shows synthesize a single bucket sized by the capacity override or
// the venue's summed physical seat count.
func (s *service) buildGroups(show *shows.Show, venue *venues.Venue) []categoryGroup {
	if show.AdmissionMode == shows.AdmissionGeneralAccess {
		return []categoryGroup{{
			category: venues.CategoryGeneralAccess,
			capacity: show.EffectiveCapacity(venue.TotalSeatCount()),
		}}
	}

	var order []venues.Category
	capacity := make(map[venues.Category]int)
	for _, row := range venue.Rows {
		if row.Category == venues.CategoryGeneralAccess {
			continue
		}
		if _, ok := capacity[row.Category]; !ok {
			order = append(order, row.Category)
		}
		capacity[row.Category] += row.SeatCount
	}

	groups := make([]categoryGroup, 0, len(order))
	for _, category := range order {
		groups = append(groups, categoryGroup{category: category, capacity: capacity[category]})
	}
	return groups
}

func (s *service) categoryAvailability(ctx context.Context, show *shows.Show, group categoryGroup, day string) (CategoryAvailability, error) {
	variant, err := s.shows.FindVariant(ctx, show.ID, day, group.category)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// Not offered for sale yet: nothing is available.
			return CategoryAvailability{
				Category:      string(group.category),
				TotalCapacity: group.capacity,
				Available:     0,
				SoldOut:       true,
			}, nil
		}
		return CategoryAvailability{}, err
	}

	sold, err := s.tickets.CountForVariantDate(ctx, variant.ID, day)
	if err != nil {
		return CategoryAvailability{}, err
	}

	available := group.capacity - sold
	if available < 0 {
		available = 0
	}
	return CategoryAvailability{
		Category:      string(group.category),
		TotalCapacity: group.capacity,
		Available:     available,
		SoldOut:       available == 0,
	}, nil
}

func (s *service) SeatMap(ctx context.Context, showID, rawDate string) (*SeatMapResponse, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid show id %q", showID)
	}

	dayKey, err := dates.Normalize(rawDate)
	if err != nil {
		return nil, err
	}

	var resp SeatMapResponse
	if s.cache != nil {
		if err := s.cache.Get(ctx, constants.SeatMapKey(showID, dayKey), &resp); err == nil {
			return &resp, nil
		}
	}

	show, err := s.shows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !show.Dates.Contains(dayKey) {
		return nil, apperr.InvalidArgumentf("date %s is not in the show's schedule", dayKey)
	}

	venue, err := s.venues.GetByID(ctx, show.VenueID)
	if err != nil {
		return nil, err
	}

	sold, err := s.tickets.ListForShowDate(ctx, show.ID, dayKey)
	if err != nil {
		return nil, err
	}

	// Index committed tickets by (row, seat); stored dates are
	// normalized again before comparing, same as the requested date.
	purchased := make(map[string]bool, len(sold))
	for _, t := range sold {
		if t.RowID == nil {
			continue
		}
		ticketDay, err := dates.Normalize(t.ShowDate)
		if err != nil || ticketDay != dayKey {
			continue
		}
		purchased[t.RowID.String()+"|"+t.SeatLabel] = true
	}

	resp = SeatMapResponse{
		ShowID: showID,
		Date:   dayKey,
		Venue: VenueSummary{
			ID:      venue.ID.String(),
			Name:    venue.Name,
			Address: venue.Address,
		},
	}

	for _, row := range venue.Rows {
		if row.Category == venues.CategoryGeneralAccess {
			continue
		}

		// A row with no variant for this date is not-yet-offered, not
		// an error: every seat reports unpurchased with no variant.
		var variantID *string
		variant, err := s.shows.FindVariant(ctx, show.ID, dayKey, row.Category)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		if variant != nil {
			idStr := variant.ID.String()
			variantID = &idStr
		}

		mapRow := SeatMapRow{
			RowNumber: row.RowNumber,
			Category:  string(row.Category),
			Seats:     make([]SeatInfo, 0, row.SeatCount),
		}
		for seat := 1; seat <= row.SeatCount; seat++ {
			label := strconv.Itoa(seat)
			mapRow.Seats = append(mapRow.Seats, SeatInfo{
				SeatLabel:     label,
				IsPurchased:   variantID != nil && purchased[row.ID.String()+"|"+label],
				ShowVariantID: variantID,
			})
		}
		resp.Rows = append(resp.Rows, mapRow)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, constants.SeatMapKey(showID, dayKey), &resp, s.cacheTTL)
	}
	return &resp, nil
}
