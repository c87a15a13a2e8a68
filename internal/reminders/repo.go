package reminders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/enums"
)

// Repository exposes vaccine-reminder persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reminders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create schedules a new reminder.
func (r *Repository) Create(ctx context.Context, dto CreateReminderDTO) (*models.VaccineReminder, error) {
	reminder := &models.VaccineReminder{
		PetID:       dto.PetID,
		OwnerID:     dto.OwnerID,
		VaccineName: dto.VaccineName,
		DueDate:     dto.DueDate,
		Status:      enums.ReminderStatusPending,
	}
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return nil, err
	}
	return reminder, nil
}

// FindByID loads one reminder.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.VaccineReminder, error) {
	var reminder models.VaccineReminder
	if err := r.db.WithContext(ctx).First(&reminder, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

// ListByOwner returns all of one owner's reminders ordered by due date.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.VaccineReminder, error) {
	var rows []models.VaccineReminder
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("due_date ASC").
		Find(&rows).Error
	return rows, err
}

// ListPendingByOwner returns the owner's pending reminders due on or before
// the horizon.
func (r *Repository) ListPendingByOwner(ctx context.Context, ownerID uuid.UUID, horizon time.Time) ([]models.VaccineReminder, error) {
	var rows []models.VaccineReminder
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status = ? AND due_date <= ?", ownerID, enums.ReminderStatusPending, horizon).
		Order("due_date ASC").
		Find(&rows).Error
	return rows, err
}

// ListDue returns every unsent pending reminder due on or before the horizon.
// The cron dispatcher drains this list.
func (r *Repository) ListDue(ctx context.Context, horizon time.Time) ([]models.VaccineReminder, error) {
	var rows []models.VaccineReminder
	err := r.db.WithContext(ctx).
		Where("status = ? AND reminder_sent = ? AND due_date <= ?", enums.ReminderStatusPending, false, horizon).
		Order("due_date ASC").
		Find(&rows).Error
	return rows, err
}

// MarkSent flips a dispatched reminder to sent exactly once. The status
// guard makes the flip idempotent across overlapping job runs.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.VaccineReminder{}).
		Where("id = ? AND status = ? AND reminder_sent = ?", id, enums.ReminderStatusPending, false).
		Updates(map[string]any{
			"status":           enums.ReminderStatusSent,
			"reminder_sent":    true,
			"reminder_sent_at": at,
		})
	return result.RowsAffected, result.Error
}

// MarkCompleted closes a reminder regardless of its sent state.
func (r *Repository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.VaccineReminder{}).
		Where("id = ?", id).
		UpdateColumn("status", enums.ReminderStatusCompleted).Error
}

// Delete removes a reminder row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.VaccineReminder{}, "id = ?", id).Error
}
