package reminders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/enums"
	pkgerrors "github.com/shakytails/shakytails-backend/pkg/errors"
)

type stubReminderRepo struct {
	reminders map[uuid.UUID]*models.VaccineReminder
}

func newStubReminderRepo(rows ...*models.VaccineReminder) *stubReminderRepo {
	repo := &stubReminderRepo{reminders: map[uuid.UUID]*models.VaccineReminder{}}
	for _, r := range rows {
		repo.reminders[r.ID] = r
	}
	return repo
}

func (r *stubReminderRepo) Create(ctx context.Context, dto CreateReminderDTO) (*models.VaccineReminder, error) {
	reminder := &models.VaccineReminder{
		ID:          uuid.New(),
		PetID:       dto.PetID,
		OwnerID:     dto.OwnerID,
		VaccineName: dto.VaccineName,
		DueDate:     dto.DueDate,
		Status:      enums.ReminderStatusPending,
	}
	r.reminders[reminder.ID] = reminder
	return reminder, nil
}

func (r *stubReminderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.VaccineReminder, error) {
	reminder, ok := r.reminders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return reminder, nil
}

func (r *stubReminderRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.VaccineReminder, error) {
	var rows []models.VaccineReminder
	for _, reminder := range r.reminders {
		if reminder.OwnerID == ownerID {
			rows = append(rows, *reminder)
		}
	}
	return rows, nil
}

func (r *stubReminderRepo) ListPendingByOwner(ctx context.Context, ownerID uuid.UUID, horizon time.Time) ([]models.VaccineReminder, error) {
	var rows []models.VaccineReminder
	for _, reminder := range r.reminders {
		if reminder.OwnerID == ownerID &&
			reminder.Status == enums.ReminderStatusPending &&
			!reminder.DueDate.After(horizon) {
			rows = append(rows, *reminder)
		}
	}
	return rows, nil
}

func (r *stubReminderRepo) ListDue(ctx context.Context, horizon time.Time) ([]models.VaccineReminder, error) {
	var rows []models.VaccineReminder
	for _, reminder := range r.reminders {
		if reminder.Status == enums.ReminderStatusPending &&
			!reminder.ReminderSent &&
			!reminder.DueDate.After(horizon) {
			rows = append(rows, *reminder)
		}
	}
	return rows, nil
}

func (r *stubReminderRepo) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	reminder, ok := r.reminders[id]
	if !ok || reminder.Status != enums.ReminderStatusPending || reminder.ReminderSent {
		return 0, nil
	}
	reminder.Status = enums.ReminderStatusSent
	reminder.ReminderSent = true
	reminder.ReminderSentAt = &at
	return 1, nil
}

func (r *stubReminderRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	reminder, ok := r.reminders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	reminder.Status = enums.ReminderStatusCompleted
	return nil
}

func (r *stubReminderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.reminders, id)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
}

func reminderDueIn(ownerID uuid.UUID, d time.Duration) *models.VaccineReminder {
	return &models.VaccineReminder{
		ID:          uuid.New(),
		PetID:       uuid.New(),
		OwnerID:     ownerID,
		VaccineName: "Rabies",
		DueDate:     fixedNow().Add(d),
		Status:      enums.ReminderStatusPending,
	}
}

func TestPendingFiltersByDueWindow(t *testing.T) {
	ownerID := uuid.New()
	soon := reminderDueIn(ownerID, 3*24*time.Hour)
	far := reminderDueIn(ownerID, 30*24*time.Hour)
	other := reminderDueIn(uuid.New(), 1*24*time.Hour)
	repo := newStubReminderRepo(soon, far, other)

	svc, err := NewService(ServiceParams{ReminderRepo: repo, Now: fixedNow})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	rows, err := svc.Pending(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != soon.ID {
		t.Fatalf("expected only the reminder due within 7 days, got %v", rows)
	}
}

func TestCompleteOwnedReminder(t *testing.T) {
	ownerID := uuid.New()
	reminder := reminderDueIn(ownerID, 24*time.Hour)
	repo := newStubReminderRepo(reminder)
	svc, _ := NewService(ServiceParams{ReminderRepo: repo, Now: fixedNow})

	dto, err := svc.Complete(context.Background(), reminder.ID, ownerID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if dto.Status != enums.ReminderStatusCompleted {
		t.Fatalf("expected completed status, got %s", dto.Status)
	}
}

func TestCompleteForeignReminderIsNotFound(t *testing.T) {
	reminder := reminderDueIn(uuid.New(), 24*time.Hour)
	repo := newStubReminderRepo(reminder)
	svc, _ := NewService(ServiceParams{ReminderRepo: repo, Now: fixedNow})

	_, err := svc.Complete(context.Background(), reminder.ID, uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign reminder, got %v", err)
	}
}

func TestDeleteOwnedReminder(t *testing.T) {
	ownerID := uuid.New()
	reminder := reminderDueIn(ownerID, 24*time.Hour)
	repo := newStubReminderRepo(reminder)
	svc, _ := NewService(ServiceParams{ReminderRepo: repo, Now: fixedNow})

	if err := svc.Delete(context.Background(), reminder.ID, ownerID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.reminders[reminder.ID]; ok {
		t.Fatal("expected reminder to be removed")
	}
}
