package notification

import (
	"context"

	"github.com/saulo-duarte/chronos-goals/internal/config"
)

type NotificationContainer struct {
	Service *Service
	Handler *Handler
}

// NewNotificationContainer wires the reminder service. Without Firebase
// settings tokens can still be registered but nothing is sent.
func NewNotificationContainer(ctx context.Context, cfg *config.Config, repo TokenRepository, identities IdentitySource) *NotificationContainer {
	var sender Sender = disabledSender{}
	if cfg.FirebaseProjectID != "" {
		s, err := NewFCMSender(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			config.WithContext(ctx).WithError(err).Warn("Push notifications disabled")
		} else {
			sender = s
		}
	}

	service := NewService(repo, sender, cfg.ReminderConcurrency)
	return &NotificationContainer{
		Service: service,
		Handler: NewHandler(service, identities),
	}
}

type disabledSender struct{}

func (disabledSender) Send(context.Context, string, Message) error {
	return ErrSendingDisabled
}
