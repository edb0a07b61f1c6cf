package venues

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stagepass/internal/shared/apperr"
)

// Repository defines the contract for venue persistence.
type Repository interface {
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	List(ctx context.Context) ([]Venue, error)

	AddRow(ctx context.Context, row *Row) error
	GetRowByID(ctx context.Context, id uuid.UUID) (*Row, error)
	GetRowsByVenueID(ctx context.Context, venueID uuid.UUID) ([]Row, error)

	// GetOrCreateGeneralAccessRow resolves the synthetic general_access
	// row for a venue, creating it exactly once if absent.
	GetOrCreateGeneralAccessRow(ctx context.Context, venueID uuid.UUID) (*Row, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new venue repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, venue *Venue) error {
	return r.db.WithContext(ctx).Create(venue).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var venue Venue
	err := r.db.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("row_number ASC")
		}).
		Where("id = ?", id).
		First(&venue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("venue %s", id)
		}
		return nil, err
	}
	return &venue, nil
}

func (r *repository) List(ctx context.Context) ([]Venue, error) {
	var venues []Venue
	err := r.db.WithContext(ctx).
		Preload("Rows").
		Order("name ASC").
		Find(&venues).Error
	return venues, err
}

func (r *repository) AddRow(ctx context.Context, row *Row) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) GetRowByID(ctx context.Context, id uuid.UUID) (*Row, error) {
	var row Row
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("venue row %s", id)
		}
		return nil, err
	}
	return &row, nil
}

func (r *repository) GetRowsByVenueID(ctx context.Context, venueID uuid.UUID) ([]Row, error) {
	var rows []Row
	err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("row_number ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) GetOrCreateGeneralAccessRow(ctx context.Context, venueID uuid.UUID) (*Row, error) {
	var row Row
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The (venue_id, row_number) unique index makes concurrent
		// find-or-create safe: the loser of a race hits a duplicate key
		// and retries the lookup.
		err := tx.Where("venue_id = ? AND category = ?", venueID, CategoryGeneralAccess).
			First(&row).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		row = Row{
			VenueID:   venueID,
			RowNumber: "GA",
			Category:  CategoryGeneralAccess,
			SeatCount: 1,
		}
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return tx.Where("venue_id = ? AND category = ?", venueID, CategoryGeneralAccess).
					First(&row).Error
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}
