package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/saulo-duarte/chronos-goals/internal/auth"
	"github.com/saulo-duarte/chronos-goals/internal/config"
	"github.com/saulo-duarte/chronos-goals/internal/goal"
	"github.com/saulo-duarte/chronos-goals/internal/notification"
	"github.com/saulo-duarte/chronos-goals/internal/router"
	"github.com/saulo-duarte/chronos-goals/internal/session"
	"github.com/saulo-duarte/chronos-goals/internal/storage/local"
	"github.com/saulo-duarte/chronos-goals/internal/storage/remote"
	"github.com/saulo-duarte/chronos-goals/internal/user"
	util "github.com/saulo-duarte/chronos-goals/internal/utils"
)

var ErrRemoteRequired = errors.New("DATABASE_DSN is required for the reminder job")

type Container struct {
	Config       *config.Config
	Local        *local.Storage
	Remote       remote.Repository
	Auth         auth.Provider
	Session      *session.Controller
	Notification *notification.NotificationContainer
}

// New wires the API process: local storage always, remote storage and
// accounts only when a database DSN is configured.
func New(ctx context.Context) (*Container, error) {
	cfg := setup()
	log := config.WithContext(ctx)

	localDB, err := config.OpenLocal(cfg.LocalDBPath)
	if err != nil {
		return nil, err
	}
	if err := local.Migrate(localDB); err != nil {
		return nil, fmt.Errorf("migrate local storage: %w", err)
	}
	localStorage := local.New(localDB)

	c := &Container{Config: cfg, Local: localStorage, Auth: auth.Unavailable{}}

	if cfg.RemoteEnabled() {
		if err := connectRemote(ctx, cfg); err != nil {
			return nil, err
		}
		if err := auth.Init(cfg.JWTSecret); err != nil {
			return nil, err
		}
		if err := user.Migrate(config.DB); err != nil {
			return nil, fmt.Errorf("migrate users: %w", err)
		}

		c.Remote = remote.NewRepository(config.DB)
		authService := auth.NewService(user.NewRepository(config.DB), localStorage)
		authService.Restore(ctx)
		c.Auth = authService
	} else {
		log.Warn("DATABASE_DSN not set, accounts and remote storage are disabled")
	}

	c.Session = session.NewController(session.Deps{
		Local:    localStorage,
		Remote:   c.Remote,
		Provider: c.Auth,
		Today:    util.Today,
	})
	if err := c.Session.Start(ctx); err != nil {
		return nil, err
	}

	if c.Remote != nil {
		c.Notification = notification.NewNotificationContainer(ctx, cfg, c.Remote, c.Session)
	}
	return c, nil
}

func (c *Container) Router() router.RouterConfig {
	rc := router.RouterConfig{
		GoalHandler:    goal.NewHandler(c.Session),
		SessionHandler: session.NewHandler(c.Session),
		AllowedOrigins: c.Config.AllowedOrigins,
	}
	if c.Notification != nil {
		rc.NotificationHandler = c.Notification.Handler
	}
	return rc
}

func (c *Container) Close() {
	c.Session.Close()
}

// NewReminder wires only what the daily reminder job needs.
func NewReminder(ctx context.Context) (*notification.Service, error) {
	cfg := setup()
	if !cfg.RemoteEnabled() {
		return nil, ErrRemoteRequired
	}
	if err := connectRemote(ctx, cfg); err != nil {
		return nil, err
	}

	repo := remote.NewRepository(config.DB)
	sender, err := notification.NewFCMSender(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	if err != nil {
		return nil, err
	}
	return notification.NewService(repo, sender, cfg.ReminderConcurrency), nil
}

func setup() *config.Config {
	cfg := config.Load()
	config.Init(cfg.LogLevel)
	log := config.WithContext(context.Background())

	if err := util.SetLocation(cfg.Timezone); err != nil {
		log.WithError(err).Warn("Invalid APP_TIMEZONE, using the system zone")
	}
	if cfg.CryptoKey != "" {
		if err := config.InitCrypto(cfg.CryptoKey); err != nil {
			log.WithError(err).Warn("Sign-in will not be remembered across restarts")
		}
	}
	return cfg
}

func connectRemote(ctx context.Context, cfg *config.Config) error {
	if err := config.Connect(ctx, cfg.DatabaseDSN); err != nil {
		return fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := remote.Migrate(config.DB); err != nil {
		return fmt.Errorf("migrate remote storage: %w", err)
	}
	return nil
}
