package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/shakytails/shakytails-backend/pkg/logger"
)

type fakeDispatcher struct {
	sent  int
	err   error
	calls int
}

func (f *fakeDispatcher) Dispatch(context.Context) (int, error) {
	f.calls++
	return f.sent, f.err
}

func TestVaccineReminderJobReportsDispatch(t *testing.T) {
	dispatcher := &fakeDispatcher{sent: 3}
	job, err := NewVaccineReminderJob(VaccineReminderJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test"}),
		Dispatcher: dispatcher,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != VaccineReminderJobName {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if dispatcher.calls != 1 {
		t.Fatalf("expected 1 dispatch, got %d", dispatcher.calls)
	}
}

func TestVaccineReminderJobSurfacesDispatchErrors(t *testing.T) {
	dispatcher := &fakeDispatcher{sent: 1, err: errors.New("smtp down")}
	job, err := NewVaccineReminderJob(VaccineReminderJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test"}),
		Dispatcher: dispatcher,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected dispatch error to surface")
	}
}

func TestVaccineReminderJobRequiresDispatcher(t *testing.T) {
	_, err := NewVaccineReminderJob(VaccineReminderJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
	})
	if err == nil {
		t.Fatal("expected constructor error without dispatcher")
	}
}
