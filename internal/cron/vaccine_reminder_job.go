package cron

import (
	"context"
	"fmt"

	"github.com/shakytails/shakytails-backend/pkg/logger"
	"github.com/shakytails/shakytails-backend/pkg/metrics"
)

// VaccineReminderJobName identifies the reminder job for locks and metrics.
const VaccineReminderJobName = "vaccine-reminders"

// reminderDispatcher sends every due vaccine reminder and reports how many
// emails went out.
type reminderDispatcher interface {
	Dispatch(ctx context.Context) (int, error)
}

// VaccineReminderJobParams configures the scheduled reminder dispatch.
type VaccineReminderJobParams struct {
	Logger     *logger.Logger
	Dispatcher reminderDispatcher
	Metrics    *metrics.CronJobMetrics
}

type vaccineReminderJob struct {
	logg       *logger.Logger
	dispatcher reminderDispatcher
	metrics    *metrics.CronJobMetrics
}

// NewVaccineReminderJob constructs the vaccine reminder cron job.
func NewVaccineReminderJob(params VaccineReminderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher required")
	}
	return &vaccineReminderJob{
		logg:       params.Logger,
		dispatcher: params.Dispatcher,
		metrics:    params.Metrics,
	}, nil
}

func (j *vaccineReminderJob) Name() string { return VaccineReminderJobName }

// Run dispatches due reminders. Partial failures surface as an aggregated
// error after every healthy reminder has been handled.
func (j *vaccineReminderJob) Run(ctx context.Context) error {
	sent, err := j.dispatcher.Dispatch(ctx)
	j.metrics.AddRemindersSent(sent)
	logCtx := j.logg.WithField(ctx, "sent", sent)
	if err != nil {
		j.logg.Error(logCtx, "reminder dispatch finished with errors", err)
		return err
	}
	j.logg.Info(logCtx, "reminder dispatch complete")
	return nil
}
