package shows

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stagepass/internal/shared/apperr"
	"stagepass/internal/venues"
)

// Repository defines the contract for show persistence.
type Repository interface {
	Create(ctx context.Context, show *Show) error
	GetByID(ctx context.Context, id uuid.UUID) (*Show, error)
	GetByProductRef(ctx context.Context, productRef string) (*Show, error)
	List(ctx context.Context) ([]Show, error)

	CreateVariant(ctx context.Context, variant *ShowVariant) error
	GetVariantByID(ctx context.Context, id uuid.UUID) (*ShowVariant, error)
	GetVariantByRef(ctx context.Context, variantRef string) (*ShowVariant, error)
	GetVariantsByShowID(ctx context.Context, showID uuid.UUID) ([]ShowVariant, error)

	// FindVariant locates the sellable unit for an exact (date,
	// category) pair. Missing variants are reported as NotFound; the
	// read paths treat that as not-yet-offered.
	FindVariant(ctx context.Context, showID uuid.UUID, dayKey string, category venues.Category) (*ShowVariant, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new show repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, show *Show) error {
	return r.db.WithContext(ctx).Create(show).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	var show Show
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("id = ?", id).
		First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("show %s", id)
		}
		return nil, err
	}
	return &show, nil
}

func (r *repository) GetByProductRef(ctx context.Context, productRef string) (*Show, error) {
	var show Show
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("external_product_ref = ?", productRef).
		First(&show).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("show with product ref %q", productRef)
		}
		return nil, err
	}
	return &show, nil
}

func (r *repository) List(ctx context.Context) ([]Show, error) {
	var shows []Show
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Order("created_at DESC").
		Find(&shows).Error
	return shows, err
}

func (r *repository) CreateVariant(ctx context.Context, variant *ShowVariant) error {
	err := r.db.WithContext(ctx).Create(variant).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflictf("variant for show %s on %s (%s) already exists",
			variant.ShowID, variant.ShowDate, variant.Category)
	}
	return err
}

func (r *repository) GetVariantByID(ctx context.Context, id uuid.UUID) (*ShowVariant, error) {
	var variant ShowVariant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("show variant %s", id)
		}
		return nil, err
	}
	return &variant, nil
}

func (r *repository) GetVariantByRef(ctx context.Context, variantRef string) (*ShowVariant, error) {
	var variant ShowVariant
	err := r.db.WithContext(ctx).
		Where("external_variant_ref = ?", variantRef).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("show variant with ref %q", variantRef)
		}
		return nil, err
	}
	return &variant, nil
}

func (r *repository) GetVariantsByShowID(ctx context.Context, showID uuid.UUID) ([]ShowVariant, error) {
	var variants []ShowVariant
	err := r.db.WithContext(ctx).
		Where("show_id = ?", showID).
		Order("show_date ASC, category ASC").
		Find(&variants).Error
	return variants, err
}

func (r *repository) FindVariant(ctx context.Context, showID uuid.UUID, dayKey string, category venues.Category) (*ShowVariant, error) {
	var variant ShowVariant
	err := r.db.WithContext(ctx).
		Where("show_id = ? AND show_date = ? AND category = ?", showID, dayKey, category).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("variant for show %s on %s (%s)", showID, dayKey, category)
		}
		return nil, err
	}
	return &variant, nil
}
