package shows

import (
	"context"

	"github.com/google/uuid"

	"stagepass/internal/shared/apperr"
	"stagepass/internal/venues"
)

// Service interface defines the contract for show business logic.
type Service interface {
	CreateShow(ctx context.Context, req CreateShowRequest) (*ShowResponse, error)
	GetShow(ctx context.Context, id string) (*ShowResponse, error)
	ListShows(ctx context.Context) ([]ShowResponse, error)
	CreateVariant(ctx context.Context, showID string, req CreateVariantRequest) (*ShowVariantResponse, error)
}

type service struct {
	repo      Repository
	venueRepo venues.Repository
}

// NewService creates a new show service instance.
func NewService(repo Repository, venueRepo venues.Repository) Service {
	return &service{repo: repo, venueRepo: venueRepo}
}

func (s *service) CreateShow(ctx context.Context, req CreateShowRequest) (*ShowResponse, error) {
	venueID, err := uuid.Parse(req.VenueID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid venue id %q", req.VenueID)
	}
	if _, err := s.venueRepo.GetByID(ctx, venueID); err != nil {
		return nil, err
	}

	mode := AdmissionMode(req.AdmissionMode)
	if !mode.Valid() {
		return nil, apperr.InvalidArgumentf("unknown admission mode %q", req.AdmissionMode)
	}
	if req.CapacityOverride != nil && mode != AdmissionGeneralAccess {
		return nil, apperr.InvalidArgumentf("capacity override is only valid for general_access shows")
	}

	days, err := NormalizeDates(req.Dates)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, apperr.InvalidArgumentf("show requires at least one date")
	}

	show := &Show{
		ExternalProductRef: req.ExternalProductRef,
		VenueID:            venueID,
		Title:              req.Title,
		Dates:              days,
		AdmissionMode:      mode,
		CapacityOverride:   req.CapacityOverride,
	}
	if err := s.repo.Create(ctx, show); err != nil {
		return nil, err
	}

	resp := show.ToResponse()
	return &resp, nil
}

func (s *service) GetShow(ctx context.Context, id string) (*ShowResponse, error) {
	showID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid show id %q", id)
	}

	show, err := s.repo.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}

	resp := show.ToResponse()
	return &resp, nil
}

func (s *service) ListShows(ctx context.Context) ([]ShowResponse, error) {
	shows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]ShowResponse, 0, len(shows))
	for i := range shows {
		responses = append(responses, shows[i].ToResponse())
	}
	return responses, nil
}

func (s *service) CreateVariant(ctx context.Context, showID string, req CreateVariantRequest) (*ShowVariantResponse, error) {
	id, err := uuid.Parse(showID)
	if err != nil {
		return nil, apperr.InvalidArgumentf("invalid show id %q", showID)
	}

	show, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key, err := NormalizeVariantOptions(req.Options)
	if err != nil {
		return nil, err
	}

	if !show.Dates.Contains(key.ShowDate) {
		return nil, apperr.InvalidArgumentf("date %s is not in the show's schedule", key.ShowDate)
	}

	switch show.AdmissionMode {
	case AdmissionGeneralAccess:
		if key.Category != venues.CategoryGeneralAccess {
			return nil, apperr.InvalidArgumentf("general_access show only sells general_access variants")
		}
	default:
		if key.Category == venues.CategoryGeneralAccess {
			return nil, apperr.InvalidArgumentf("seat_based show cannot sell general_access variants")
		}
		// The category must exist at the venue for the variant to be
		// backed by real seats.
		rows, err := s.venueRepo.GetRowsByVenueID(ctx, show.VenueID)
		if err != nil {
			return nil, err
		}
		found := false
		for _, row := range rows {
			if row.Category == key.Category {
				found = true
				break
			}
		}
		if !found {
			return nil, apperr.InvalidArgumentf("venue has no %s rows", key.Category)
		}
	}

	variant := &ShowVariant{
		ShowID:             id,
		ExternalVariantRef: req.ExternalVariantRef,
		ShowDate:           key.ShowDate,
		Category:           key.Category,
	}
	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		return nil, err
	}

	return &ShowVariantResponse{
		ID:                 variant.ID.String(),
		ExternalVariantRef: variant.ExternalVariantRef,
		ShowDate:           variant.ShowDate,
		Category:           string(variant.Category),
	}, nil
}
