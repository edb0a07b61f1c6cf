package tickets

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stagepass/internal/shared/apperr"
)

// CapacityKey identifies the aggregate capacity bucket a
// general-access ticket counts against.
type CapacityKey struct {
	ShowID   uuid.UUID
	ShowDate string
}

// Repository defines the contract for ticket persistence. InsertBatch
// is the single write-time defense for both invariants: seat-based
// tickets rely on the partial unique index over (show_id, row_id,
// seat_label, show_date), general-access tickets on a locked
// count-and-insert. A pre-check without either is a race and is never
// relied upon alone.
type Repository interface {
	// InsertBatch inserts all tickets in one transaction, or none.
	// capacities carries the effective capacity per general-access
	// bucket present in the batch.
	InsertBatch(ctx context.Context, batch []*Ticket, capacities map[CapacityKey]int) error

	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	GetByOrderRef(ctx context.Context, orderRef string) ([]Ticket, error)
	ListForShowDate(ctx context.Context, showID uuid.UUID, dayKey string) ([]Ticket, error)

	SeatTaken(ctx context.Context, variantID uuid.UUID, seatLabel, dayKey string) (bool, error)
	CountForVariantDate(ctx context.Context, variantID uuid.UUID, dayKey string) (int, error)
	CountForShowDate(ctx context.Context, showID uuid.UUID, dayKey string) (int, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new ticket repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertBatch(ctx context.Context, batch []*Ticket, capacities map[CapacityKey]int) error {
	if len(batch) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize concurrent general-access checkouts per show by
		// locking the show row before counting committed tickets.
		newPerKey := make(map[CapacityKey]int)
		for _, t := range batch {
			if t.IsGeneralAccess() {
				newPerKey[CapacityKey{ShowID: t.ShowID, ShowDate: t.ShowDate}]++
			}
		}
		for key, added := range newPerKey {
			capacity, ok := capacities[key]
			if !ok {
				return apperr.UnexpectedStatef("no capacity provided for show %s on %s", key.ShowID, key.ShowDate)
			}

			if err := lockShow(tx, key.ShowID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFoundf("show %s", key.ShowID)
				}
				return err
			}

			var sold int64
			err := tx.Model(&Ticket{}).
				Where("show_id = ? AND show_date = ? AND seat_label = ?", key.ShowID, key.ShowDate, GeneralAccessSeatLabel).
				Count(&sold).Error
			if err != nil {
				return err
			}

			if int(sold)+added > capacity {
				return apperr.Conflictf("general access capacity exceeded for %s: %d sold, %d requested, capacity %d",
					key.ShowDate, sold, added, capacity)
			}
		}

		if err := tx.Create(batch).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflictf("seat already sold")
			}
			return err
		}
		return nil
	})
}

// lockShow takes the per-show row lock that serializes concurrent
// general-access count-and-insert transactions. The lock must be a
// real SELECT ... FOR UPDATE; without it the count above degrades to
// an unenforced pre-check.
func lockShow(tx *gorm.DB, showID uuid.UUID) *gorm.DB {
	var locked struct {
		ID uuid.UUID `gorm:"column:id"`
	}
	return tx.Table("shows").
		Select("id").
		Where("id = ?", showID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&locked)
}

func (r *repository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&Ticket{}).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("ticket %s", id)
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) GetByOrderRef(ctx context.Context, orderRef string) ([]Ticket, error) {
	var list []Ticket
	err := r.db.WithContext(ctx).
		Where("order_ref = ?", orderRef).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListForShowDate(ctx context.Context, showID uuid.UUID, dayKey string) ([]Ticket, error) {
	var list []Ticket
	err := r.db.WithContext(ctx).
		Where("show_id = ? AND show_date = ?", showID, dayKey).
		Find(&list).Error
	return list, err
}

func (r *repository) SeatTaken(ctx context.Context, variantID uuid.UUID, seatLabel, dayKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("show_variant_id = ? AND seat_label = ? AND show_date = ?", variantID, seatLabel, dayKey).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountForVariantDate(ctx context.Context, variantID uuid.UUID, dayKey string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("show_variant_id = ? AND show_date = ?", variantID, dayKey).
		Count(&count).Error
	return int(count), err
}

func (r *repository) CountForShowDate(ctx context.Context, showID uuid.UUID, dayKey string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("show_id = ? AND show_date = ?", showID, dayKey).
		Count(&count).Error
	return int(count), err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	result := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFoundf("ticket %s", id)
	}
	return nil
}
