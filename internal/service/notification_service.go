package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/events"
	"github.com/spec-kit/leave-service/internal/observability"
	"github.com/spec-kit/leave-service/internal/repository"
)

// EmailMessage is a plain-text notification email.
type EmailMessage struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// LogMailer writes emails to the log instead of delivering them.
type LogMailer struct {
	Logger *zap.Logger
}

// Send implements Mailer.
func (m LogMailer) Send(_ context.Context, msg EmailMessage) error {
	m.Logger.Info("email notification",
		zap.String("from", msg.From),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// NotificationService emails the people affected by request lifecycle events.
type NotificationService struct {
	dispatcher events.Dispatcher
	employees  repository.EmployeeRepository
	mailer     Mailer
	metrics    *observability.Metrics
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher   events.Dispatcher
	EmployeeRepo repository.EmployeeRepository
	Mailer       Mailer
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(cfg config.NotificationConfig, deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mailer := deps.Mailer
	if mailer == nil {
		mailer = LogMailer{Logger: logger}
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		employees:  deps.EmployeeRepo,
		mailer:     mailer,
		metrics:    deps.Metrics,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventRequestCreated,
		events.EventRequestWithdrawn,
		events.EventRequestCancelled,
		events.EventRequestApproved,
		events.EventRequestRejected,
	} {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	if !n.cfg.Enabled {
		n.logger.Debug("notifications disabled", zap.String("event_type", string(event.Type)))
		n.metrics.RecordNotification(string(event.Type), "disabled")
		return nil
	}

	owner, recipient, err := n.resolveRecipient(ctx, event)
	if err != nil {
		n.metrics.RecordNotification(string(event.Type), "failed")
		return fmt.Errorf("resolve recipient for request %d: %w", event.RequestID, err)
	}
	if recipient == nil || strings.TrimSpace(recipient.Email) == "" {
		n.logger.Info("no notification recipient",
			zap.Int64("request_id", event.RequestID),
			zap.String("event_type", string(event.Type)))
		n.metrics.RecordNotification(string(event.Type), "skipped")
		return nil
	}

	msg := EmailMessage{
		From:    n.cfg.EmailFrom,
		To:      recipient.Email,
		Subject: notificationSubject(event),
		Body:    notificationBody(event, owner, recipient),
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.metrics.RecordNotification(string(event.Type), "failed")
		return fmt.Errorf("send notification for request %d: %w", event.RequestID, err)
	}
	n.metrics.RecordNotification(string(event.Type), "sent")
	return nil
}

// resolveRecipient picks who hears about an event: the owner's manager for owner-driven
// events, the owner for manager decisions.
func (n *NotificationService) resolveRecipient(ctx context.Context, event events.Event) (*domain.Employee, *domain.Employee, error) {
	owner, err := n.employees.GetByID(ctx, event.OwnerStaffID)
	if err != nil {
		return nil, nil, err
	}

	switch event.Type {
	case events.EventRequestApproved, events.EventRequestRejected:
		return owner, owner, nil
	}

	if owner.ReportingManager == owner.StaffID {
		return owner, nil, nil
	}
	manager, err := n.employees.GetByID(ctx, owner.ReportingManager)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return owner, nil, nil
		}
		return nil, nil, err
	}
	return owner, manager, nil
}

func notificationSubject(event events.Event) string {
	switch event.Type {
	case events.EventRequestCreated:
		return fmt.Sprintf("New request #%d awaiting your review", event.RequestID)
	case events.EventRequestWithdrawn:
		return fmt.Sprintf("Request #%d was withdrawn", event.RequestID)
	case events.EventRequestCancelled:
		return fmt.Sprintf("Request #%d was cancelled", event.RequestID)
	case events.EventRequestApproved:
		return fmt.Sprintf("Your request #%d was approved", event.RequestID)
	case events.EventRequestRejected:
		return fmt.Sprintf("Your request #%d was rejected", event.RequestID)
	}
	return fmt.Sprintf("Request #%d updated", event.RequestID)
}

func notificationBody(event events.Event, owner, recipient *domain.Employee) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", recipient.FirstName)
	if event.OldStatus != nil {
		fmt.Fprintf(&b, "Request #%d by %s moved from %s to %s.\n",
			event.RequestID, owner.FullName(), event.OldStatus.String(), event.NewStatus.String())
	} else {
		fmt.Fprintf(&b, "Request #%d by %s is %s.\n", event.RequestID, owner.FullName(), event.NewStatus.String())
	}
	return b.String()
}
