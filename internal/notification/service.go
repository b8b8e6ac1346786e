package notification

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-goals/internal/config"
	"github.com/saulo-duarte/chronos-goals/internal/storage/remote"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrEmptyToken = errors.New("token is required")

// TokenRepository is the part of the remote store that keeps device tokens.
type TokenRepository interface {
	SaveToken(ctx context.Context, userID uuid.UUID, token, platform string) error
	DeleteToken(ctx context.Context, token string) error
	TokensOfNotifiedUsers(ctx context.Context) ([]remote.TokenDocument, error)
}

type Service struct {
	repo        TokenRepository
	sender      Sender
	concurrency int
}

func NewService(repo TokenRepository, sender Sender, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Service{repo: repo, sender: sender, concurrency: concurrency}
}

func (s *Service) RegisterToken(ctx context.Context, userID uuid.UUID, dto RegisterTokenDTO) error {
	if dto.Token == "" {
		return ErrEmptyToken
	}
	if err := s.repo.SaveToken(ctx, userID, dto.Token, dto.Platform); err != nil {
		config.WithContext(ctx).WithError(err).WithField("user_id", userID).Error("Failed to save device token")
		return err
	}
	return nil
}

// SendDailyReminder pushes the daily reminder to every device of every user
// with notifications on. A failed send does not stop the others; tokens the
// push service no longer knows are removed.
func (s *Service) SendDailyReminder(ctx context.Context) (Report, error) {
	log := config.WithContext(ctx)

	tokens, err := s.repo.TokensOfNotifiedUsers(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list device tokens")
		return Report{}, err
	}

	report := Report{Tokens: len(tokens)}
	if len(tokens) == 0 {
		log.Info("No devices to remind")
		return report, nil
	}

	var mu sync.Mutex
	msg := DailyReminder()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, t := range tokens {
		g.Go(func() error {
			err := s.sender.Send(gctx, t.Token, msg)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				report.Sent++
			case errors.Is(err, ErrTokenUnregistered):
				report.Failed++
				if delErr := s.repo.DeleteToken(gctx, t.Token); delErr == nil {
					report.Removed++
				}
			default:
				report.Failed++
				log.WithError(err).WithField("user_id", t.UserID).Warn("Failed to send reminder")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	log.WithFields(logrus.Fields{
		"tokens":  report.Tokens,
		"sent":    report.Sent,
		"failed":  report.Failed,
		"removed": report.Removed,
	}).Info("Daily reminder sent")
	return report, nil
}
