package venues

import (
	"context"

	"github.com/google/uuid"

	"stagepass/internal/shared/apperr"
)

// Service interface defines the contract for venue business logic.
type Service interface {
	CreateVenue(ctx context.Context, req CreateVenueRequest) (*VenueResponse, error)
	GetVenue(ctx context.Context, id string) (*VenueResponse, error)
	ListVenues(ctx context.Context) ([]VenueResponse, error)
	AddRow(ctx context.Context, venueID string, req CreateRowRequest) (*RowResponse, error)
}

type service struct {
	repo Repository
}

// NewService creates a new venue service instance.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateVenue(ctx context.Context, req CreateVenueRequest) (*VenueResponse, error) {
	seen := make(map[string]bool, len(req.Rows))
	rows := make([]Row, 0, len(req.Rows))
	for _, rowReq := range req.Rows {
		if seen[rowReq.RowNumber] {
			return nil, apperr.InvalidArgumentf("duplicate row number %q", rowReq.RowNumber)
		}
		seen[rowReq.RowNumber] = true

		category := Category(rowReq.Category)
		if !category.Valid() {
			return nil, apperr.InvalidArgumentf("unknown category %q", rowReq.Category)
		}
		rows = append(rows, Row{
			RowNumber: rowReq.RowNumber,
			Category:  category,
			SeatCount: rowReq.SeatCount,
		})
	}

	venue := &Venue{
		Name:    req.Name,
		Address: req.Address,
		Rows:    rows,
	}
	if err := s.repo.Create(ctx, venue); err != nil {
		return nil, err
	}

	resp := venue.ToResponse()
	return &resp, nil
}

func (s *service) GetVenue(ctx context.Context, id string) (*VenueResponse, error) {
	venueID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid venue id %q", id)
	}

	venue, err := s.repo.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}

	resp := venue.ToResponse()
	return &resp, nil
}

func (s *service) ListVenues(ctx context.Context) ([]VenueResponse, error) {
	venues, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]VenueResponse, 0, len(venues))
	for i := range venues {
		responses = append(responses, venues[i].ToResponse())
	}
	return responses, nil
}

func (s *service) AddRow(ctx context.Context, venueID string, req CreateRowRequest) (*RowResponse, error) {
	id, err := uuid.Parse(venueID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid venue id %q", venueID)
	}

	category := Category(req.Category)
	if !category.Valid() {
		return nil, apperr.InvalidArgumentf("unknown category %q", req.Category)
	}

	// Rows are append-only; existence check keeps the error readable.
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	row := &Row{
		VenueID:   id,
		RowNumber: req.RowNumber,
		Category:  category,
		SeatCount: req.SeatCount,
	}
	if err := s.repo.AddRow(ctx, row); err != nil {
		return nil, err
	}

	return &RowResponse{
		ID:        row.ID.String(),
		RowNumber: row.RowNumber,
		Category:  string(row.Category),
		SeatCount: row.SeatCount,
	}, nil
}
