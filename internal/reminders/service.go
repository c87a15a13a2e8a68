package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	pkgerrors "github.com/shakytails/shakytails-backend/pkg/errors"
)

// pendingWindow bounds how far ahead the pending listing looks.
const pendingWindow = 7 * 24 * time.Hour

// Service defines the reminder operations exposed to controllers.
type Service interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]ReminderDTO, error)
	Pending(ctx context.Context, ownerID uuid.UUID) ([]ReminderDTO, error)
	Complete(ctx context.Context, reminderID, ownerID uuid.UUID) (*ReminderDTO, error)
	Delete(ctx context.Context, reminderID, ownerID uuid.UUID) error
}

type reminderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.VaccineReminder, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.VaccineReminder, error)
	ListPendingByOwner(ctx context.Context, ownerID uuid.UUID, horizon time.Time) ([]models.VaccineReminder, error)
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	reminders reminderRepository
	now       func() time.Time
}

// ServiceParams bundles the dependencies required to build a reminders service.
type ServiceParams struct {
	ReminderRepo reminderRepository

	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewService constructs a reminders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ReminderRepo == nil {
		return nil, fmt.Errorf("reminder repository is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{reminders: params.ReminderRepo, now: now}, nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]ReminderDTO, error) {
	rows, err := s.reminders.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reminders")
	}
	return toDTOs(rows), nil
}

func (s *service) Pending(ctx context.Context, ownerID uuid.UUID) ([]ReminderDTO, error) {
	horizon := s.now().Add(pendingWindow)
	rows, err := s.reminders.ListPendingByOwner(ctx, ownerID, horizon)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pending reminders")
	}
	return toDTOs(rows), nil
}

func (s *service) Complete(ctx context.Context, reminderID, ownerID uuid.UUID) (*ReminderDTO, error) {
	reminder, err := s.ownedReminder(ctx, reminderID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.reminders.MarkCompleted(ctx, reminder.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "complete reminder")
	}
	updated, err := s.reminders.FindByID(ctx, reminder.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload reminder")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, reminderID, ownerID uuid.UUID) error {
	reminder, err := s.ownedReminder(ctx, reminderID, ownerID)
	if err != nil {
		return err
	}
	if err := s.reminders.Delete(ctx, reminder.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete reminder")
	}
	return nil
}

func (s *service) ownedReminder(ctx context.Context, reminderID, ownerID uuid.UUID) (*models.VaccineReminder, error) {
	reminder, err := s.reminders.FindByID(ctx, reminderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reminder not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup reminder")
	}
	if reminder.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reminder not found")
	}
	return reminder, nil
}

func toDTOs(rows []models.VaccineReminder) []ReminderDTO {
	dtos := make([]ReminderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}
