package cron

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox/payloads"
)

type fakeAdminsFinder struct {
	admins []models.User
	err    error
}

func (f *fakeAdminsFinder) FindAdmins(context.Context) ([]models.User, error) {
	return f.admins, f.err
}

func newUnassignedWarningJobForTest(t *testing.T, finder *fakeAppointmentsFinder, admins *fakeAdminsFinder, emitter *fakeOutboxEmitter) *unassignedWarningJob {
	t.Helper()
	jobIface, err := NewUnassignedWarningJob(UnassignedWarningJobParams{
		Logger:       testLogger(),
		DB:           fakeTxRunner{},
		Appointments: finder,
		Users:        admins,
		Outbox:       emitter,
	})
	if err != nil {
		t.Fatalf("NewUnassignedWarningJob: %v", err)
	}
	job, ok := jobIface.(*unassignedWarningJob)
	if !ok {
		t.Fatalf("expected unassignedWarningJob, got %T", jobIface)
	}
	return job
}

func TestUnassignedWarningJobWarnsAllAdmins(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	appointment := models.Appointment{
		ID:              uuid.New(),
		PropertyID:      uuid.New(),
		CustomerID:      uuid.New(),
		AppointmentDate: now.AddDate(0, 0, warningLeadDays),
		StartTime:       "10:00",
		EndTime:         "11:00",
		Status:          enums.AppointmentStatusPending,
	}
	adminA := models.User{ID: uuid.New()}
	adminB := models.User{ID: uuid.New()}
	finder := &fakeAppointmentsFinder{unassigned: []models.Appointment{appointment}}
	emitter := &fakeOutboxEmitter{}
	job := newUnassignedWarningJobForTest(t, finder, &fakeAdminsFinder{admins: []models.User{adminA, adminB}}, emitter)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	wantDate := now.AddDate(0, 0, warningLeadDays)
	if !finder.unassignedDate.Equal(wantDate) {
		t.Fatalf("expected lookup for %s, got %s", wantDate, finder.unassignedDate)
	}
	if len(emitter.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(emitter.events))
	}
	event := emitter.events[0]
	if event.EventType != enums.EventAppointmentUnassigned {
		t.Fatalf("unexpected event type: %s", event.EventType)
	}
	raw, err := json.Marshal(event.Data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	var payload payloads.UnassignedWarningEvent
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(payload.AdminUserIDs) != 2 {
		t.Fatalf("expected 2 admin targets, got %d", len(payload.AdminUserIDs))
	}
	if payload.AdminUserIDs[0] != adminA.ID || payload.AdminUserIDs[1] != adminB.ID {
		t.Fatalf("unexpected admin targets: %v", payload.AdminUserIDs)
	}
}

func TestUnassignedWarningJobNoAdmins(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	finder := &fakeAppointmentsFinder{unassigned: []models.Appointment{{
		ID:              uuid.New(),
		AppointmentDate: now.AddDate(0, 0, warningLeadDays),
		Status:          enums.AppointmentStatusPending,
	}}}
	emitter := &fakeOutboxEmitter{}
	job := newUnassignedWarningJobForTest(t, finder, &fakeAdminsFinder{}, emitter)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(emitter.events) != 0 {
		t.Fatalf("expected no events without admins, got %d", len(emitter.events))
	}
}

func TestUnassignedWarningJobNothingUnassigned(t *testing.T) {
	finder := &fakeAppointmentsFinder{}
	admins := &fakeAdminsFinder{admins: []models.User{{ID: uuid.New()}}}
	emitter := &fakeOutboxEmitter{}
	job := newUnassignedWarningJobForTest(t, finder, admins, emitter)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(emitter.events) != 0 {
		t.Fatalf("expected no events, got %d", len(emitter.events))
	}
}
