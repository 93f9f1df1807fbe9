package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/tourism-auth/internal/config"
	"github.com/spec-kit/tourism-auth/internal/email"
	"github.com/spec-kit/tourism-auth/internal/events"
)

// NotificationService delivers code emails in response to auth events.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     email.Sender
	logger     *zap.Logger
	appName    string
	clientURL  string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender email.Sender, logger *zap.Logger, cfg config.Config) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
		appName:    cfg.Mail.AppName,
		clientURL:  cfg.App.ClientURL,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventVerificationCodeIssued, n.handleVerificationCodeIssued)
	n.dispatcher.Subscribe(events.EventResetCodeIssued, n.handleResetCodeIssued)
	n.dispatcher.Subscribe(events.EventUserVerified, n.handleAudit)
	n.dispatcher.Subscribe(events.EventPasswordReset, n.handleAudit)
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleAudit)
}

func (n *NotificationService) handleVerificationCodeIssued(ctx context.Context, event events.Event) error {
	data, err := n.codeData(event)
	if err != nil {
		return err
	}
	msg, err := email.VerificationMessage(data)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	n.logger.Info("verification email sent", zap.String("user_id", event.UserID))
	return nil
}

func (n *NotificationService) handleResetCodeIssued(ctx context.Context, event events.Event) error {
	data, err := n.codeData(event)
	if err != nil {
		return err
	}
	msg, err := email.ResetCodeMessage(data)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	n.logger.Info("reset password email sent", zap.String("user_id", event.UserID))
	return nil
}

func (n *NotificationService) handleAudit(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("user_id", event.UserID), zap.String("event_id", event.ID))
	return nil
}

func (n *NotificationService) codeData(event events.Event) (email.CodeMessageData, error) {
	payload, ok := event.Payload.(events.CodeIssuedPayload)
	if !ok {
		return email.CodeMessageData{}, fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	return email.CodeMessageData{
		AppName:   n.appName,
		Username:  payload.Username,
		Email:     payload.Email,
		Code:      payload.Code,
		ClientURL: n.clientURL,
	}, nil
}
