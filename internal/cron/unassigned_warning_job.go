package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	"github.com/aqarlink/aqarlink-backend/pkg/logger"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox/payloads"
)

const warningLeadDays = 3

type adminsFinder interface {
	FindAdmins(ctx context.Context) ([]models.User, error)
}

// UnassignedWarningJobParams configures the unassigned appointment watchdog.
type UnassignedWarningJobParams struct {
	Logger       *logger.Logger
	DB           txRunner
	Appointments appointmentsFinder
	Users        adminsFinder
	Outbox       outboxEmitter
}

// NewUnassignedWarningJob constructs the job that warns admins about
// appointments still waiting for an agent a few days before the visit.
func NewUnassignedWarningJob(params UnassignedWarningJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Appointments == nil {
		return nil, fmt.Errorf("appointments finder required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &unassignedWarningJob{
		logg:         params.Logger,
		db:           params.DB,
		appointments: params.Appointments,
		users:        params.Users,
		outbox:       params.Outbox,
		now:          time.Now,
	}, nil
}

type unassignedWarningJob struct {
	logg         *logger.Logger
	db           txRunner
	appointments appointmentsFinder
	users        adminsFinder
	outbox       outboxEmitter
	now          func() time.Time
}

func (j *unassignedWarningJob) Name() string {
	return "unassigned-appointment-warnings"
}

func (j *unassignedWarningJob) Run(ctx context.Context) error {
	target := j.now().UTC().AddDate(0, 0, warningLeadDays)
	unassigned, err := j.appointments.UnassignedOn(ctx, target)
	if err != nil {
		return fmt.Errorf("load appointments: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"date":  target.Format("2006-01-02"),
		"count": len(unassigned),
	})
	if len(unassigned) == 0 {
		j.logg.Info(logCtx, "no unassigned visits")
		return nil
	}

	admins, err := j.users.FindAdmins(ctx)
	if err != nil {
		return fmt.Errorf("load admins: %w", err)
	}
	if len(admins) == 0 {
		j.logg.Warn(logCtx, "no active admins to warn")
		return nil
	}

	adminIDs := make([]uuid.UUID, len(admins))
	for i, admin := range admins {
		adminIDs[i] = admin.ID
	}

	var errs error
	warned := 0
	for _, appointment := range unassigned {
		if err := j.queueWarning(ctx, appointment, adminIDs); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("appointment %s: %w", appointment.ID, err))
			continue
		}
		warned++
	}

	j.logg.Info(j.logg.WithField(logCtx, "warned", warned), "unassigned warnings queued")
	return errs
}

func (j *unassignedWarningJob) queueWarning(ctx context.Context, appointment models.Appointment, adminIDs []uuid.UUID) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		return j.outbox.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAppointmentUnassigned,
			AggregateType: enums.AggregateAppointment,
			AggregateID:   appointment.ID,
			Data: payloads.UnassignedWarningEvent{
				AppointmentID: appointment.ID,
				PropertyID:    appointment.PropertyID,
				Date:          appointment.AppointmentDate.Format("2006-01-02"),
				AdminUserIDs:  adminIDs,
			},
		})
	})
}
