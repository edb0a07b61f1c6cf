package tickets

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"stagepass/internal/shared/apperr"
	"stagepass/internal/shows"
	"stagepass/internal/venues"
)

// fakeStore is an in-memory Repository. Its mutex-guarded InsertBatch
// enforces the same two write-time constraints the SQL layer enforces:
// seat uniqueness per (show, row, seat, date) and the counted
// general-access capacity cap. That makes it safe to hammer from
// concurrent goroutines.
type fakeStore struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*Ticket
}

func newFakeStore() *fakeStore {
	return &fakeStore{tickets: make(map[uuid.UUID]*Ticket)}
}

func seatKey(t *Ticket) string {
	row := ""
	if t.RowID != nil {
		row = t.RowID.String()
	}
	return fmt.Sprintf("%s|%s|%s|%s", t.ShowID, row, t.SeatLabel, t.ShowDate)
}

func (s *fakeStore) InsertBatch(ctx context.Context, batch []*Ticket, capacities map[CapacityKey]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	committed := make(map[string]bool, len(s.tickets))
	gaSold := make(map[CapacityKey]int)
	for _, t := range s.tickets {
		if t.IsGeneralAccess() {
			gaSold[CapacityKey{ShowID: t.ShowID, ShowDate: t.ShowDate}]++
			continue
		}
		committed[seatKey(t)] = true
	}

	gaAdded := make(map[CapacityKey]int)
	inBatch := make(map[string]bool, len(batch))
	for _, t := range batch {
		if t.IsGeneralAccess() {
			key := CapacityKey{ShowID: t.ShowID, ShowDate: t.ShowDate}
			gaAdded[key]++
			capacity, ok := capacities[key]
			if !ok {
				return apperr.UnexpectedStatef("no capacity provided for show %s date %s", key.ShowID, key.ShowDate)
			}
			if gaSold[key]+gaAdded[key] > capacity {
				return apperr.Conflictf("general access capacity exceeded for show date %s", t.ShowDate)
			}
			continue
		}
		key := seatKey(t)
		if committed[key] || inBatch[key] {
			return apperr.Conflictf("seat %s has already been sold for show date %s", t.SeatLabel, t.ShowDate)
		}
		inBatch[key] = true
	}

	for _, t := range batch {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		copied := *t
		s.tickets[t.ID] = &copied
	}
	return nil
}

func (s *fakeStore) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.tickets, id)
	}
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, apperr.NotFoundf("ticket %s not found", id)
	}
	copied := *t
	return &copied, nil
}

func (s *fakeStore) GetByOrderRef(ctx context.Context, orderRef string) ([]Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Ticket
	for _, t := range s.tickets {
		if t.OrderRef == orderRef {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeStore) ListForShowDate(ctx context.Context, showID uuid.UUID, dayKey string) ([]Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Ticket
	for _, t := range s.tickets {
		if t.ShowID == showID && t.ShowDate == dayKey {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeStore) SeatTaken(ctx context.Context, variantID uuid.UUID, seatLabel, dayKey string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tickets {
		if t.ShowVariantID == variantID && t.SeatLabel == seatLabel && t.ShowDate == dayKey {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CountForVariantDate(ctx context.Context, variantID uuid.UUID, dayKey string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, t := range s.tickets {
		if t.ShowVariantID == variantID && t.ShowDate == dayKey {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) CountForShowDate(ctx context.Context, showID uuid.UUID, dayKey string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, t := range s.tickets {
		if t.ShowID == showID && t.ShowDate == dayKey {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return apperr.NotFoundf("ticket %s not found", id)
	}
	t.Status = status
	return nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

// fakeShows implements ShowCatalog over maps.
type fakeShows struct {
	shows    map[uuid.UUID]*shows.Show
	variants map[uuid.UUID]*shows.ShowVariant
}

func newFakeShows() *fakeShows {
	return &fakeShows{
		shows:    make(map[uuid.UUID]*shows.Show),
		variants: make(map[uuid.UUID]*shows.ShowVariant),
	}
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

// fakeVenues implements VenueCatalog with a race-safe general-access
// row find-or-create.
type fakeVenues struct {
	mu     sync.Mutex
	venues map[uuid.UUID]*venues.Venue
	rows   map[uuid.UUID]*venues.Row
}

func newFakeVenues() *fakeVenues {
	return &fakeVenues{
		venues: make(map[uuid.UUID]*venues.Venue),
		rows:   make(map[uuid.UUID]*venues.Row),
	}
}

func (f *fakeVenues) addVenue(v *venues.Venue) {
	f.venues[v.ID] = v
	for i := range v.Rows {
		f.rows[v.Rows[i].ID] = &v.Rows[i]
	}
}

func (f *fakeVenues) GetByID(ctx context.Context, id uuid.UUID) (*venues.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	venue, ok := f.venues[id]
	if !ok {
		return nil, apperr.NotFoundf("venue %s not found", id)
	}
	return venue, nil
}

func (f *fakeVenues) GetRowByID(ctx context.Context, id uuid.UUID) (*venues.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, apperr.NotFoundf("row %s not found", id)
	}
	return row, nil
}

func (f *fakeVenues) GetOrCreateGeneralAccessRow(ctx context.Context, venueID uuid.UUID) (*venues.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	venue, ok := f.venues[venueID]
	if !ok {
		return nil, apperr.NotFoundf("venue %s not found", venueID)
	}
	for i := range venue.Rows {
		if venue.Rows[i].Category == venues.CategoryGeneralAccess {
			return &venue.Rows[i], nil
		}
	}
	row := venues.Row{
		ID:        uuid.New(),
		VenueID:   venueID,
		RowNumber: "GA",
		Category:  venues.CategoryGeneralAccess,
		SeatCount: 1,
	}
	venue.Rows = append(venue.Rows, row)
	f.rows[row.ID] = &venue.Rows[len(venue.Rows)-1]
	return &venue.Rows[len(venue.Rows)-1], nil
}

func (f *fakeVenues) rowCount(venueID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.venues[venueID].Rows)
}

// fixture wires a seat-based show and a general-access show against
// one venue each.
type fixture struct {
	store  *fakeStore
	shows  *fakeShows
	venues *fakeVenues

	venue      *venues.Venue
	row        *venues.Row
	show       *shows.Show
	variant    *shows.ShowVariant
	gaVenue    *venues.Venue
	gaShow     *shows.Show
	gaVariant  *shows.ShowVariant
	gaCapacity int
	seatDay    string
	generalDay string
}

func newFixture() *fixture {
	f := &fixture{
		store:      newFakeStore(),
		shows:      newFakeShows(),
		venues:     newFakeVenues(),
		gaCapacity: 50,
		seatDay:    "2025-07-01",
		generalDay: "2025-08-15",
	}

	// "Main Hall" with one standard row of 2 seats.
	f.venue = &venues.Venue{ID: uuid.New(), Name: "Main Hall"}
	f.venue.Rows = []venues.Row{{
		ID:        uuid.New(),
		VenueID:   f.venue.ID,
		RowNumber: "A",
		Category:  venues.CategoryStandard,
		SeatCount: 2,
	}}
	f.venues.addVenue(f.venue)
	f.row = &f.venue.Rows[0]

	f.show = &shows.Show{
		ID:            uuid.New(),
		VenueID:       f.venue.ID,
		Title:         "Jazz Night",
		Dates:         shows.DayList{f.seatDay},
		AdmissionMode: shows.AdmissionSeatBased,
	}
	f.variant = &shows.ShowVariant{
		ID:       uuid.New(),
		ShowID:   f.show.ID,
		ShowDate: f.seatDay,
		Category: venues.CategoryStandard,
	}
	f.shows.shows[f.show.ID] = f.show
	f.shows.variants[f.variant.ID] = f.variant

	// "Open Mic" with capacity_override=50, no physical rows.
	f.gaVenue = &venues.Venue{ID: uuid.New(), Name: "Warehouse"}
	f.venues.addVenue(f.gaVenue)
	override := f.gaCapacity
	f.gaShow = &shows.Show{
		ID:               uuid.New(),
		VenueID:          f.gaVenue.ID,
		Title:            "Open Mic",
		Dates:            shows.DayList{f.generalDay},
		AdmissionMode:    shows.AdmissionGeneralAccess,
		CapacityOverride: &override,
	}
	f.gaVariant = &shows.ShowVariant{
		ID:       uuid.New(),
		ShowID:   f.gaShow.ID,
		ShowDate: f.generalDay,
		Category: venues.CategoryGeneralAccess,
	}
	f.shows.shows[f.gaShow.ID] = f.gaShow
	f.shows.variants[f.gaVariant.ID] = f.gaVariant

	return f
}

func (f *fixture) guard() *Guard {
	return NewGuard(f.store, f.shows, f.venues)
}

func (f *fixture) service() Service {
	return NewService(f.store, f.shows, f.venues, nil)
}
