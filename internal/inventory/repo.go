package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/enums"
	"github.com/shakytails/shakytails-backend/pkg/pagination"
)

// Repository exposes inventory-code persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an inventory repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a single code row.
func (r *Repository) Create(ctx context.Context, code *models.InventoryCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

// FindByCodeID loads one code by its public identifier.
func (r *Repository) FindByCodeID(ctx context.Context, codeID string) (*models.InventoryCode, error) {
	var code models.InventoryCode
	if err := r.db.WithContext(ctx).Where("code_id = ?", codeID).First(&code).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

// List returns a filtered page of codes ordered newest first plus the total.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.InventoryCode, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryCode{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.BatchID != nil {
		query = query.Where("batch_id = ?", *filter.BatchID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InventoryCode
	err := query.
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Assign flips an available code to assigned for the given pet. The
// status guard in the WHERE clause serializes concurrent assigns: the
// returned row count is zero for every caller that lost the race.
func (r *Repository) Assign(ctx context.Context, codeID string, petID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryCode{}).
		Where("code_id = ? AND status = ?", codeID, enums.CodeStatusAvailable).
		Updates(map[string]any{
			"status":      enums.CodeStatusAssigned,
			"pet_id":      petID,
			"assigned_at": at,
		})
	return result.RowsAffected, result.Error
}

// StatusCounts returns the number of codes per status.
func (r *Repository) StatusCounts(ctx context.Context) (map[enums.CodeStatus]int64, error) {
	type row struct {
		Status enums.CodeStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.InventoryCode{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.CodeStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// BatchStats aggregates per-batch totals and availability.
func (r *Repository) BatchStats(ctx context.Context) ([]BatchStats, error) {
	var rows []BatchStats
	err := r.db.WithContext(ctx).
		Model(&models.InventoryCode{}).
		Select(
			"batch_id, COUNT(*) AS count, "+
				"COUNT(*) FILTER (WHERE status = ?) AS available, "+
				"COUNT(*) FILTER (WHERE status = ?) AS assigned",
			enums.CodeStatusAvailable, enums.CodeStatusAssigned,
		).
		Group("batch_id").
		Order("batch_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteAvailableByBatch removes only the still-available rows of a batch
// and returns their code ids so callers can clean up rendered artifacts.
// The pluck and delete share a transaction, so a code assigned mid-flight
// is neither deleted nor reported.
func (r *Repository) DeleteAvailableByBatch(ctx context.Context, batchID string) ([]string, error) {
	var codeIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.InventoryCode{}).
			Where("batch_id = ? AND status = ?", batchID, enums.CodeStatusAvailable).
			Pluck("code_id", &codeIDs).Error; err != nil {
			return err
		}
		if len(codeIDs) == 0 {
			return nil
		}
		return tx.
			Where("code_id IN ? AND status = ?", codeIDs, enums.CodeStatusAvailable).
			Delete(&models.InventoryCode{}).Error
	})
	if err != nil {
		return nil, err
	}
	return codeIDs, nil
}

// Count returns the total number of codes.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.InventoryCode{}).Count(&total).Error
	return total, err
}
