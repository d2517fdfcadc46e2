package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	"github.com/aqarlink/aqarlink-backend/pkg/logger"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox/idempotency"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox/payloads"
)

const notificationConsumer = "aqarlink-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type adminsFinder interface {
	FindAdmins(ctx context.Context) ([]models.User, error)
}

// Consumer watches domain events and fans them out as in-app notifications.
type Consumer struct {
	repo         repository
	admins       adminsFinder
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds the notification consumer.
func NewConsumer(repo repository, admins adminsFinder, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if admins == nil {
		return nil, fmt.Errorf("admins finder required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		admins:       admins,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": string(eventType),
	})

	if !eventType.IsValid() {
		c.logg.Info(logCtx, "skipping unknown event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, notificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := c.handle(ctx, eventType, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, notificationConsumer, eventID)
		return processResult{nack: true}
	}
	return processResult{ack: true}
}

func (c *Consumer) handle(ctx context.Context, eventType enums.OutboxEventType, data json.RawMessage, logCtx context.Context) error {
	switch eventType {
	case enums.EventAppointmentCreated:
		var payload payloads.AppointmentCreatedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return c.handleAppointmentCreated(ctx, payload, logCtx)
	case enums.EventAppointmentAssigned:
		var payload payloads.AppointmentAssignedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return c.handleAppointmentAssigned(ctx, payload, logCtx)
	case enums.EventAppointmentFinalized:
		var payload payloads.AppointmentFinalizedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return c.handleAppointmentFinalized(ctx, payload, logCtx)
	case enums.EventAppointmentReminderDue:
		var payload payloads.AppointmentReminderEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return c.handleReminder(ctx, payload, logCtx)
	case enums.EventAppointmentUnassigned:
		var payload payloads.UnassignedWarningEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return c.handleUnassignedWarning(ctx, payload, logCtx)
	case enums.EventCommissionCredited:
		var payload payloads.CommissionCreditedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return c.handleCommissionCredited(ctx, payload, logCtx)
	case enums.EventPayoutProcessed:
		var payload payloads.PayoutProcessedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return c.handlePayoutProcessed(ctx, payload, logCtx)
	case enums.EventAgentApprovalDecided:
		var payload payloads.AgentApprovalDecidedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return c.handleApprovalDecided(ctx, payload, logCtx)
	case enums.EventAgentVisitAmountUpdated:
		var payload payloads.VisitAmountUpdatedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return c.handleVisitAmountUpdated(ctx, payload, logCtx)
	default:
		c.logg.Info(logCtx, "event not handled")
		return nil
	}
}

func (c *Consumer) notify(ctx context.Context, notification *models.Notification) error {
	if notification.UserID == uuid.Nil {
		return fmt.Errorf("notification target missing")
	}
	if notification.Channel == "" {
		notification.Channel = enums.NotificationChannelInApp
	}
	return c.repo.Create(ctx, notification)
}

// notifyAdmins fans one notification out to every active admin user.
func (c *Consumer) notifyAdmins(ctx context.Context, template models.Notification) error {
	admins, err := c.admins.FindAdmins(ctx)
	if err != nil {
		return fmt.Errorf("load admins: %w", err)
	}
	for _, admin := range admins {
		notification := template
		notification.UserID = admin.ID
		if err := c.notify(ctx, &notification); err != nil {
			return err
		}
	}
	return nil
}

func (c *Consumer) handleAppointmentCreated(ctx context.Context, payload payloads.AppointmentCreatedEvent, logCtx context.Context) error {
	appointmentID := payload.AppointmentID
	for _, agentUserID := range payload.AgentUserIDs {
		err := c.notify(ctx, &models.Notification{
			UserID:    agentUserID,
			Type:      enums.NotificationTypeAppointmentRequest,
			Title:     "New visit request",
			Message:   fmt.Sprintf("A customer requested a property visit on %s from %s to %s.", payload.Date, payload.StartTime, payload.EndTime),
			RelatedID: &appointmentID,
		})
		if err != nil {
			return err
		}
	}

	err := c.notify(ctx, &models.Notification{
		UserID:    payload.CustomerID,
		Type:      enums.NotificationTypeAppointmentStatus,
		Title:     "Visit request received",
		Message:   fmt.Sprintf("Your visit request for %s from %s to %s was sent to available agents.", payload.Date, payload.StartTime, payload.EndTime),
		RelatedID: &appointmentID,
	})
	if err != nil {
		return err
	}

	err = c.notifyAdmins(ctx, models.Notification{
		Type:      enums.NotificationTypeAppointmentRequest,
		Title:     "New appointment booked",
		Message:   fmt.Sprintf("A new visit was booked for %s from %s to %s and is awaiting an agent.", payload.Date, payload.StartTime, payload.EndTime),
		RelatedID: &appointmentID,
	})
	if err != nil {
		return err
	}
	c.logg.Info(logCtx, "agents, customer and admins notified of new appointment")
	return nil
}

func (c *Consumer) handleAppointmentAssigned(ctx context.Context, payload payloads.AppointmentAssignedEvent, logCtx context.Context) error {
	appointmentID := payload.AppointmentID
	err := c.notify(ctx, &models.Notification{
		UserID:    payload.CustomerID,
		Type:      enums.NotificationTypeAppointmentAssigned,
		Title:     "Agent confirmed",
		Message:   "An agent accepted your visit request. Your appointment is confirmed.",
		RelatedID: &appointmentID,
	})
	if err != nil {
		return err
	}

	err = c.notifyAdmins(ctx, models.Notification{
		Type:      enums.NotificationTypeAppointmentAssigned,
		Title:     "Appointment assigned",
		Message:   "An agent accepted a visit request. The appointment is now confirmed.",
		RelatedID: &appointmentID,
	})
	if err != nil {
		return err
	}
	c.logg.Info(logCtx, "customer and admins notified of assignment")
	return nil
}

func (c *Consumer) handleAppointmentFinalized(ctx context.Context, payload payloads.AppointmentFinalizedEvent, logCtx context.Context) error {
	appointmentID := payload.AppointmentID
	message := fmt.Sprintf("Your appointment was marked %s.", payload.Status)
	targets := []uuid.UUID{payload.CustomerID}
	if payload.AgentUserID != uuid.Nil {
		targets = append(targets, payload.AgentUserID)
	}
	for _, userID := range targets {
		err := c.notify(ctx, &models.Notification{
			UserID:    userID,
			Type:      enums.NotificationTypeAppointmentStatus,
			Title:     "Appointment updated",
			Message:   message,
			RelatedID: &appointmentID,
		})
		if err != nil {
			return err
		}
	}
	c.logg.Info(logCtx, "parties notified of final status")
	return nil
}

func (c *Consumer) handleReminder(ctx context.Context, payload payloads.AppointmentReminderEvent, logCtx context.Context) error {
	appointmentID := payload.AppointmentID
	message := fmt.Sprintf("Reminder: you have a property visit on %s at %s.", payload.Date, payload.StartTime)
	targets := []uuid.UUID{payload.CustomerID}
	if payload.AgentUserID != nil {
		targets = append(targets, *payload.AgentUserID)
	}
	for _, userID := range targets {
		err := c.notify(ctx, &models.Notification{
			UserID:    userID,
			Type:      enums.NotificationTypeAppointmentReminder,
			Title:     "Upcoming visit",
			Message:   message,
			RelatedID: &appointmentID,
		})
		if err != nil {
			return err
		}
	}
	c.logg.Info(logCtx, "reminder notifications created")
	return nil
}

func (c *Consumer) handleUnassignedWarning(ctx context.Context, payload payloads.UnassignedWarningEvent, logCtx context.Context) error {
	appointmentID := payload.AppointmentID
	for _, adminID := range payload.AdminUserIDs {
		err := c.notify(ctx, &models.Notification{
			UserID:    adminID,
			Type:      enums.NotificationTypeUnassignedWarning,
			Title:     "Appointment still unassigned",
			Message:   fmt.Sprintf("An appointment on %s has no agent assigned yet.", payload.Date),
			RelatedID: &appointmentID,
		})
		if err != nil {
			return err
		}
	}
	c.logg.Info(logCtx, "admins warned about unassigned appointment")
	return nil
}

func (c *Consumer) handleCommissionCredited(ctx context.Context, payload payloads.CommissionCreditedEvent, logCtx context.Context) error {
	appointmentID := payload.AppointmentID
	err := c.notify(ctx, &models.Notification{
		UserID:    payload.AgentUserID,
		Type:      enums.NotificationTypeCommissionCredited,
		Title:     "Commission credited",
		Message:   fmt.Sprintf("SAR %s was credited to your wallet. New balance: SAR %s.", payload.Amount.StringFixed(2), payload.BalanceAfter.StringFixed(2)),
		RelatedID: &appointmentID,
	})
	if err != nil {
		return err
	}

	err = c.notifyAdmins(ctx, models.Notification{
		Type:      enums.NotificationTypeCommissionCredited,
		Title:     "Commission credited",
		Message:   fmt.Sprintf("A commission of SAR %s was credited to an agent's wallet.", payload.Amount.StringFixed(2)),
		RelatedID: &appointmentID,
	})
	if err != nil {
		return err
	}
	c.logg.Info(logCtx, "agent and admins notified of commission")
	return nil
}

func (c *Consumer) handlePayoutProcessed(ctx context.Context, payload payloads.PayoutProcessedEvent, logCtx context.Context) error {
	paymentID := payload.PaymentID
	err := c.notify(ctx, &models.Notification{
		UserID:    payload.AgentUserID,
		Type:      enums.NotificationTypePayoutProcessed,
		Title:     "Payout processed",
		Message:   fmt.Sprintf("A payout of SAR %s was processed via %s. Remaining balance: SAR %s.", payload.Amount.StringFixed(2), payload.Method, payload.BalanceAfter.StringFixed(2)),
		RelatedID: &paymentID,
	})
	if err != nil {
		return err
	}
	c.logg.Info(logCtx, "agent notified of payout")
	return nil
}

func (c *Consumer) handleApprovalDecided(ctx context.Context, payload payloads.AgentApprovalDecidedEvent, logCtx context.Context) error {
	title := "Application update"
	message := "Your agent application was reviewed."
	switch payload.Status {
	case enums.AgentStatusApproved:
		title = "Application approved"
		message = "Congratulations, your agent application was approved. You can now receive visit requests."
	case enums.AgentStatusRejected:
		title = "Application rejected"
		message = "Unfortunately, your agent application was rejected."
	}
	err := c.notify(ctx, &models.Notification{
		UserID:  payload.AgentUserID,
		Type:    enums.NotificationTypeAgentApproval,
		Title:   title,
		Message: message,
	})
	if err != nil {
		return err
	}
	c.logg.Info(logCtx, "agent notified of approval decision")
	return nil
}

func (c *Consumer) handleVisitAmountUpdated(ctx context.Context, payload payloads.VisitAmountUpdatedEvent, logCtx context.Context) error {
	err := c.notify(ctx, &models.Notification{
		UserID:  payload.AgentUserID,
		Type:    enums.NotificationTypeVisitAmountUpdated,
		Title:   "Visit fee updated",
		Message: fmt.Sprintf("Your per-visit commission was set to SAR %s.", payload.Amount.StringFixed(2)),
	})
	if err != nil {
		return err
	}
	c.logg.Info(logCtx, "agent notified of visit amount change")
	return nil
}
