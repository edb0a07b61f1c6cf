package tickets

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"stagepass/internal/shared/apperr"
	"stagepass/internal/shared/constants"
	"stagepass/internal/shared/utils/dates"
	"stagepass/internal/shows"
	"stagepass/internal/venues"
	"stagepass/pkg/logger"
)

// CacheInvalidator is the slice of the cache layer issuance needs to
// keep availability reads fresh. pkg/cache.Service satisfies it.
type CacheInvalidator interface {
	DeletePattern(ctx context.Context, pattern string) error
}

// Service interface defines the contract for the ticket issuance step
// and its compensation. IssueTickets and DeleteTickets form an explicit
// two-phase operation: do returns an undo token, undo consumes it.
type Service interface {
	IssueTickets(ctx context.Context, orderRef string, items []IssueItem) (*UndoToken, error)
	DeleteTickets(ctx context.Context, token *UndoToken) error

	GetTicket(ctx context.Context, id string) (*TicketResponse, error)
	GetOrderTickets(ctx context.Context, orderRef string) ([]TicketResponse, error)
	MarkScanned(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	shows  ShowCatalog
	venues VenueCatalog
	cache  CacheInvalidator
	log    *logger.Logger
}

// NewService creates a new ticket service instance. cache may be nil
// when Redis is not configured.
func NewService(repo Repository, showCatalog ShowCatalog, venueCatalog VenueCatalog, cache CacheInvalidator) Service {
	return &service{
		repo:   repo,
		shows:  showCatalog,
		venues: venueCatalog,
		cache:  cache,
		log:    logger.GetDefault(),
	}
}

// IssueTickets turns qualifying order lines into durable Ticket records
// in a single all-or-nothing batch and returns the created ids as the
// step's undo token.
func (s *service) IssueTickets(ctx context.Context, orderRef string, items []IssueItem) (*UndoToken, error) {
	if orderRef == "" {
		return nil, apperr.InvalidArgumentf("order ref is required")
	}

	showByID := make(map[uuid.UUID]*shows.Show)
	venueByID := make(map[uuid.UUID]*venues.Venue)
	gaRowByVenue := make(map[uuid.UUID]*venues.Row)
	capacities := make(map[CapacityKey]int)

	var batch []*Ticket
	for _, item := range items {
		variant, err := s.shows.GetVariantByID(ctx, item.ShowVariantID)
		if err != nil {
			return nil, err
		}

		show, ok := showByID[variant.ShowID]
		if !ok {
			if show, err = s.shows.GetByID(ctx, variant.ShowID); err != nil {
				return nil, err
			}
			showByID[variant.ShowID] = show
		}

		// The variant's date is authoritative; line-item metadata may
		// override it (general access carts carry the date there).
		dayKey := variant.ShowDate
		if item.ShowDate != "" {
			if dayKey, err = dates.Normalize(item.ShowDate); err != nil {
				return nil, err
			}
		}
		if !show.Dates.Contains(dayKey) {
			return nil, apperr.InvalidArgumentf("date %s is not in the show's schedule", dayKey)
		}

		if item.GeneralAccess {
			venue, ok := venueByID[show.VenueID]
			if !ok {
				if venue, err = s.venues.GetByID(ctx, show.VenueID); err != nil {
					return nil, err
				}
				venueByID[show.VenueID] = venue
			}

			gaRow, ok := gaRowByVenue[show.VenueID]
			if !ok {
				if gaRow, err = s.venues.GetOrCreateGeneralAccessRow(ctx, show.VenueID); err != nil {
					return nil, err
				}
				gaRowByVenue[show.VenueID] = gaRow
			}

			capacities[CapacityKey{ShowID: show.ID, ShowDate: dayKey}] = show.EffectiveCapacity(venue.TotalSeatCount())

			quantity := item.Quantity
			if quantity < 1 {
				quantity = 1
			}
			for i := 0; i < quantity; i++ {
				rowID := gaRow.ID
				batch = append(batch, &Ticket{
					OrderRef:      orderRef,
					ShowID:        show.ID,
					ShowVariantID: variant.ID,
					RowID:         &rowID,
					SeatLabel:     GeneralAccessSeatLabel,
					ShowDate:      dayKey,
					Status:        StatusPending,
				})
			}
			continue
		}

		if item.RowID == nil {
			return nil, apperr.InvalidArgumentf("row is required for seat %q", item.SeatLabel)
		}
		if item.SeatLabel == "" {
			return nil, apperr.InvalidArgumentf("seat label is required for line item %s", item.LineItemID)
		}

		row, err := s.venues.GetRowByID(ctx, *item.RowID)
		if err != nil {
			return nil, err
		}
		if row.VenueID != show.VenueID {
			return nil, apperr.InvalidArgumentf("row %s belongs to a different venue", row.ID)
		}
		if row.Category != variant.Category {
			return nil, apperr.InvalidArgumentf("row %s is %s but the variant sells %s",
				row.RowNumber, row.Category, variant.Category)
		}
		if seat, err := strconv.Atoi(item.SeatLabel); err != nil || seat < 1 || seat > row.SeatCount {
			return nil, apperr.InvalidArgumentf("seat %q does not exist in row %s", item.SeatLabel, row.RowNumber)
		}

		rowID := row.ID
		batch = append(batch, &Ticket{
			OrderRef:      orderRef,
			ShowID:        show.ID,
			ShowVariantID: variant.ID,
			RowID:         &rowID,
			SeatLabel:     item.SeatLabel,
			ShowDate:      dayKey,
			Status:        StatusPending,
		})
	}

	if len(batch) == 0 {
		return &UndoToken{OrderRef: orderRef}, nil
	}

	if err := s.repo.InsertBatch(ctx, batch, capacities); err != nil {
		return nil, err
	}

	token := &UndoToken{OrderRef: orderRef, TicketIDs: make([]uuid.UUID, 0, len(batch))}
	for _, t := range batch {
		token.TicketIDs = append(token.TicketIDs, t.ID)
	}

	s.invalidateShows(ctx, showByID)
	s.log.LogTicketsIssued(ctx, orderRef, len(token.TicketIDs))
	return token, nil
}

// DeleteTickets is the compensation half of issuance: every ticket id
// in the undo token is removed, full rollback, never partial.
func (s *service) DeleteTickets(ctx context.Context, token *UndoToken) error {
	if token == nil || len(token.TicketIDs) == 0 {
		return nil
	}

	affected, err := s.repo.GetByOrderRef(ctx, token.OrderRef)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteByIDs(ctx, token.TicketIDs); err != nil {
		return err
	}

	showByID := make(map[uuid.UUID]*shows.Show)
	for _, t := range affected {
		showByID[t.ShowID] = nil
	}
	s.invalidateShows(ctx, showByID)
	s.log.LogTicketsRolledBack(ctx, token.OrderRef, len(token.TicketIDs))
	return nil
}

func (s *service) GetTicket(ctx context.Context, id string) (*TicketResponse, error) {
	ticketID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid ticket id %q", id)
	}
	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	resp := ticket.ToResponse()
	return &resp, nil
}

func (s *service) GetOrderTickets(ctx context.Context, orderRef string) ([]TicketResponse, error) {
	list, err := s.repo.GetByOrderRef(ctx, orderRef)
	if err != nil {
		return nil, err
	}
	responses := make([]TicketResponse, 0, len(list))
	for i := range list {
		responses = append(responses, list[i].ToResponse())
	}
	return responses, nil
}

func (s *service) MarkScanned(ctx context.Context, id string) error {
	ticketID, err := uuid.Parse(id)
	if err != nil {
		return apperr.InvalidArgumentf("invalid ticket id %q", id)
	}
	return s.repo.UpdateStatus(ctx, ticketID, StatusScanned)
}

func (s *service) invalidateShows(ctx context.Context, showByID map[uuid.UUID]*shows.Show) {
	if s.cache == nil {
		return
	}
	for showID := range showByID {
		if err := s.cache.DeletePattern(ctx, constants.InventoryShowPattern(showID.String())); err != nil {
			s.log.WithError(err).Warn("failed to invalidate inventory cache", "show_id", showID.String())
		}
	}
}
