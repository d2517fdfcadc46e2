package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	"github.com/aqarlink/aqarlink-backend/pkg/logger"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox/payloads"
)

const reminderLeadDays = 1

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type appointmentsFinder interface {
	RemindersDue(ctx context.Context, date time.Time) ([]models.Appointment, error)
	UnassignedOn(ctx context.Context, date time.Time) ([]models.Appointment, error)
}

// ReminderJobParams configures the visit reminder job.
type ReminderJobParams struct {
	Logger       *logger.Logger
	DB           txRunner
	Appointments appointmentsFinder
	Outbox       outboxEmitter
}

// NewReminderJob constructs the job that queues reminders for tomorrow's
// confirmed visits. Emission goes through EmitIfNotExists, so a rerun of the
// same cycle does not double up reminders.
func NewReminderJob(params ReminderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Appointments == nil {
		return nil, fmt.Errorf("appointments finder required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &reminderJob{
		logg:         params.Logger,
		db:           params.DB,
		appointments: params.Appointments,
		outbox:       params.Outbox,
		now:          time.Now,
	}, nil
}

type reminderJob struct {
	logg         *logger.Logger
	db           txRunner
	appointments appointmentsFinder
	outbox       outboxEmitter
	now          func() time.Time
}

func (j *reminderJob) Name() string {
	return "appointment-reminders"
}

func (j *reminderJob) Run(ctx context.Context) error {
	target := j.now().UTC().AddDate(0, 0, reminderLeadDays)
	due, err := j.appointments.RemindersDue(ctx, target)
	if err != nil {
		return fmt.Errorf("load appointments: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"date":  target.Format("2006-01-02"),
		"count": len(due),
	})
	if len(due) == 0 {
		j.logg.Info(logCtx, "no visits to remind")
		return nil
	}

	var errs error
	queued := 0
	for _, appointment := range due {
		if err := j.queueReminder(ctx, appointment); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("appointment %s: %w", appointment.ID, err))
			continue
		}
		queued++
	}

	j.logg.Info(j.logg.WithField(logCtx, "queued", queued), "reminders queued")
	return errs
}

func (j *reminderJob) queueReminder(ctx context.Context, appointment models.Appointment) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		return j.outbox.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAppointmentReminderDue,
			AggregateType: enums.AggregateAppointment,
			AggregateID:   appointment.ID,
			Data: payloads.AppointmentReminderEvent{
				AppointmentID: appointment.ID,
				CustomerID:    appointment.CustomerID,
				AgentUserID:   appointment.AgentID,
				Date:          appointment.AppointmentDate.Format("2006-01-02"),
				StartTime:     appointment.StartTime,
			},
		})
	})
}
