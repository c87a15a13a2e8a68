package pets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/pagination"
	"github.com/shakytails/shakytails-backend/pkg/types"
)

// Repository exposes pet persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a pets repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new pet row.
func (r *Repository) Create(ctx context.Context, pet *models.Pet) error {
	return r.db.WithContext(ctx).Create(pet).Error
}

// FindByID loads one pet.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).First(&pet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

// FindByCodeID loads a pet by its bound code.
func (r *Repository) FindByCodeID(ctx context.Context, codeID string) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.WithContext(ctx).Where("code_id = ?", codeID).First(&pet).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

// ListByOwner returns all pets belonging to one owner, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pet, error) {
	var rows []models.Pet
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// List returns a page of all pets plus the total count.
func (r *Repository) List(ctx context.Context, page pagination.Params) ([]models.Pet, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Pet{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.Pet
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Update applies a column map to the pet row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateVaccinations overwrites the pet's vaccination log.
func (r *Repository) UpdateVaccinations(ctx context.Context, id uuid.UUID, records types.VaccinationRecords) error {
	return r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("id = ?", id).
		UpdateColumn("vaccination_records", records).Error
}

// Delete removes a pet row; scan events and reports cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Pet{}, "id = ?", id).Error
}

// IncrementScanCount bumps the counter atomically in SQL so concurrent
// resolves never lose updates.
func (r *Repository) IncrementScanCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Where("id = ?", id).
		UpdateColumn("scan_count", gorm.Expr("scan_count + 1")).Error
}

// CreateScanEvent appends one scan record.
func (r *Repository) CreateScanEvent(ctx context.Context, event *models.ScanEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// RecentScans returns the pet's newest scan events up to limit.
func (r *Repository) RecentScans(ctx context.Context, petID uuid.UUID, limit int) ([]models.ScanEvent, error) {
	var rows []models.ScanEvent
	err := r.db.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Count returns the total number of pets.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Pet{}).Count(&total).Error
	return total, err
}

// CountLost returns the number of pets currently flagged lost.
func (r *Repository) CountLost(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Pet{}).Where("is_lost").Count(&total).Error
	return total, err
}

// CountByOwner returns how many pets one owner has.
func (r *Repository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Pet{}).Where("owner_id = ?", ownerID).Count(&total).Error
	return total, err
}

// TotalScans sums scan counts across all pets.
func (r *Repository) TotalScans(ctx context.Context) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).
		Model(&models.Pet{}).
		Select("SUM(scan_count)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
