package foundreports

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/pagination"
)

// Repository exposes found-report persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a found-reports repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new report row.
func (r *Repository) Create(ctx context.Context, report *models.FoundReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// FindByID loads one report.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FoundReport, error) {
	var report models.FoundReport
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ListByOwner returns a page of reports filed against any of the owner's
// pets, newest first, plus the total count.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page pagination.Params) ([]models.FoundReport, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.FoundReport{}).
		Joins("JOIN pets ON pets.id = found_reports.pet_id").
		Where("pets.owner_id = ?", ownerID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.FoundReport
	err := base.
		Order("found_reports.created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListByPet returns all reports for one pet, newest first.
func (r *Repository) ListByPet(ctx context.Context, petID uuid.UUID) ([]models.FoundReport, error) {
	var rows []models.FoundReport
	err := r.db.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// UpdateStatus sets the report's lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.FoundReport{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
