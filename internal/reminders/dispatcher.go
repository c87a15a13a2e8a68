package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/shakytails/shakytails-backend/pkg/db/models"
	"github.com/shakytails/shakytails-backend/pkg/logger"
	"github.com/shakytails/shakytails-backend/pkg/mailer"
)

type dueLister interface {
	ListDue(ctx context.Context, horizon time.Time) ([]models.VaccineReminder, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
}

type petGetter interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pet, error)
}

type ownerGetter interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Dispatcher emails owners about due vaccinations and flips each reminder to
// sent. The cron worker drives it on a schedule.
type Dispatcher struct {
	reminders dueLister
	pets      petGetter
	owners    ownerGetter
	mail      mailer.Sender
	logg      *logger.Logger
	dueWindow time.Duration
	now       func() time.Time
}

// DispatcherParams bundles the dependencies required to build a dispatcher.
type DispatcherParams struct {
	ReminderRepo dueLister
	PetRepo      petGetter
	OwnerRepo    ownerGetter
	Mailer       mailer.Sender
	Logger       *logger.Logger
	DueWindow    time.Duration

	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewDispatcher constructs a reminder dispatcher.
func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.ReminderRepo == nil {
		return nil, fmt.Errorf("reminder repository is required")
	}
	if params.PetRepo == nil {
		return nil, fmt.Errorf("pet repository is required")
	}
	if params.OwnerRepo == nil {
		return nil, fmt.Errorf("owner repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	mail := params.Mailer
	if mail == nil {
		mail = mailer.NoopSender{}
	}
	dueWindow := params.DueWindow
	if dueWindow <= 0 {
		dueWindow = 24 * time.Hour
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Dispatcher{
		reminders: params.ReminderRepo,
		pets:      params.PetRepo,
		owners:    params.OwnerRepo,
		mail:      mail,
		logg:      params.Logger,
		dueWindow: dueWindow,
		now:       now,
	}, nil
}

// Dispatch sends email for every reminder due within the window and marks it
// sent. A single bad reminder never aborts the run; failures aggregate into
// the returned error while the count reports actual deliveries.
func (d *Dispatcher) Dispatch(ctx context.Context) (int, error) {
	now := d.now()
	due, err := d.reminders.ListDue(ctx, now.Add(d.dueWindow))
	if err != nil {
		return 0, fmt.Errorf("list due reminders: %w", err)
	}

	sent := 0
	var errs error
	for i := range due {
		reminder := &due[i]
		claimed, err := d.dispatchOne(ctx, reminder, now)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("reminder %s: %w", reminder.ID, err))
			continue
		}
		if claimed {
			sent++
		}
	}
	return sent, errs
}

func (d *Dispatcher) dispatchOne(ctx context.Context, reminder *models.VaccineReminder, now time.Time) (bool, error) {
	pet, err := d.pets.FindByID(ctx, reminder.PetID)
	if err != nil {
		return false, fmt.Errorf("lookup pet: %w", err)
	}
	owner, err := d.owners.FindByID(ctx, reminder.OwnerID)
	if err != nil {
		return false, fmt.Errorf("lookup owner: %w", err)
	}

	// claim before sending so overlapping runs never double-email
	affected, err := d.reminders.MarkSent(ctx, reminder.ID, now)
	if err != nil {
		return false, fmt.Errorf("mark sent: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	msg, err := mailer.VaccineReminder(owner.Email, mailer.VaccineReminderParams{
		PetName:     pet.PetName,
		VaccineName: reminder.VaccineName,
		DueDate:     reminder.DueDate,
	})
	if err != nil {
		return true, fmt.Errorf("render email: %w", err)
	}
	if err := d.mail.Send(msg); err != nil {
		// delivery is best-effort once the reminder is claimed
		d.logg.Error(ctx, "send vaccine reminder", err)
	}
	return true, nil
}
