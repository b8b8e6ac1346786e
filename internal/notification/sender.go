package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/saulo-duarte/chronos-goals/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	fcm "google.golang.org/api/fcm/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var (
	ErrTokenUnregistered = errors.New("device token is no longer registered")
	ErrMissingProject    = errors.New("FIREBASE_PROJECT_ID is required to send notifications")
	ErrSendingDisabled   = errors.New("push notifications are not configured")
)

type Sender interface {
	Send(ctx context.Context, token string, msg Message) error
}

type fcmSender struct {
	messages *fcm.ProjectsMessagesService
	parent   string
}

// NewFCMSender builds a Firebase Cloud Messaging client. With an empty
// credentialsFile the application default credentials are used.
func NewFCMSender(ctx context.Context, projectID, credentialsFile string) (Sender, error) {
	log := config.WithContext(ctx)
	if projectID == "" {
		return nil, ErrMissingProject
	}

	creds, err := loadCredentials(ctx, credentialsFile)
	if err != nil {
		log.WithError(err).Error("Failed to load Firebase credentials")
		return nil, err
	}

	client := oauth2.NewClient(ctx, creds.TokenSource)
	srv, err := fcm.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		log.WithError(err).Error("Failed to create FCM service client")
		return nil, err
	}

	return &fcmSender{
		messages: srv.Projects.Messages,
		parent:   "projects/" + projectID,
	}, nil
}

func loadCredentials(ctx context.Context, credentialsFile string) (*google.Credentials, error) {
	if credentialsFile == "" {
		return google.FindDefaultCredentials(ctx, fcm.FirebaseMessagingScope)
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file %s: %w", credentialsFile, err)
	}
	return google.CredentialsFromJSON(ctx, b, fcm.FirebaseMessagingScope)
}

func (s *fcmSender) Send(ctx context.Context, token string, msg Message) error {
	req := &fcm.SendMessageRequest{
		Message: &fcm.Message{
			Token: token,
			Notification: &fcm.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
		},
	}

	_, err := s.messages.Send(s.parent, req).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return ErrTokenUnregistered
		}
		return err
	}
	return nil
}
