// Package app wires the onboarding engine's dependencies.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	_ "modernc.org/sqlite" // register SQLite driver

	"github.com/joinflow/joinflow/internal/onboarding/application"
	"github.com/joinflow/joinflow/internal/onboarding/application/services"
	"github.com/joinflow/joinflow/internal/onboarding/domain"
	"github.com/joinflow/joinflow/internal/onboarding/infrastructure/caldav"
	googleCalendar "github.com/joinflow/joinflow/internal/onboarding/infrastructure/google"
	"github.com/joinflow/joinflow/internal/onboarding/infrastructure/mail"
	"github.com/joinflow/joinflow/internal/onboarding/infrastructure/persistence"
	"github.com/joinflow/joinflow/internal/onboarding/infrastructure/resilience"
	"github.com/joinflow/joinflow/internal/shared/infrastructure/database"
	"github.com/joinflow/joinflow/internal/shared/infrastructure/eventbus"
	"github.com/joinflow/joinflow/internal/shared/infrastructure/lease"
	"github.com/joinflow/joinflow/internal/shared/infrastructure/migrations"
	"github.com/joinflow/joinflow/pkg/config"
)

// Google OAuth token endpoint used to mint access tokens from the
// configured refresh token.
const googleTokenURL = "https://oauth2.googleapis.com/token"

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBDriver database.Driver
	Pool     *pgxpool.Pool
	DB       *sql.DB

	// Redis (dispatch leases)
	RedisClient *redis.Client

	// Repositories
	Candidates domain.CandidateRepository
	Templates  domain.StepTemplateRepository
	Events     domain.CalendarEventRepository
	Messages   domain.MessageRepository
	Activity   domain.ActivityRepository

	// Outbound ports
	TemplateStore services.TemplateStore
	Calendar      services.CalendarProvider
	Mailer        services.MessageProvider
	Leases        lease.Store
	Publisher     eventbus.Publisher

	// Engine facade
	Service *application.Service
}

// NewContainer creates and wires all dependencies. In development,
// missing Redis or RabbitMQ degrade to in-process fallbacks; in
// production they are required.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:   cfg,
		Logger:   logger,
		DBDriver: database.DetectDriver(cfg.DatabaseURL),
	}

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := c.initLeases(ctx); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.initPublisher(); err != nil {
		c.Close()
		return nil, err
	}

	if err := c.initCalendar(ctx); err != nil {
		c.Close()
		return nil, err
	}

	smtp := mail.NewSMTPSender(
		cfg.SMTPHost, cfg.SMTPPort,
		cfg.SMTPUsername, cfg.SMTPPassword,
		cfg.SMTPFrom, cfg.FileDir,
		logger,
	)
	c.Mailer = resilience.NewMessageProvider(smtp, resilience.DefaultBreakerConfig(), logger)

	c.Service = application.NewService(
		application.Repositories{
			Candidates: c.Candidates,
			Templates:  c.Templates,
			Events:     c.Events,
			Messages:   c.Messages,
			Activity:   c.Activity,
		},
		application.Providers{
			Calendar:  c.Calendar,
			Mailer:    c.Mailer,
			Templates: c.TemplateStore,
			Leases:    c.Leases,
			Publisher: c.Publisher,
		},
		application.Options{
			DispatchDebounce: cfg.DispatchDebounce,
		},
		logger,
	)

	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	if c.DBDriver == database.DriverPostgres {
		pool, err := pgxpool.New(ctx, c.Config.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		c.Pool = pool
		c.Candidates = persistence.NewPostgresCandidateRepository(pool)
		c.Templates = persistence.NewPostgresStepTemplateRepository(pool)
		c.Events = persistence.NewPostgresCalendarEventRepository(pool)
		c.Messages = persistence.NewPostgresMessageRepository(pool)
		c.Activity = persistence.NewPostgresActivityRepository(pool)
		c.TemplateStore = persistence.NewPostgresTemplateStore(pool)
		c.Logger.Info("connected to database", "driver", c.DBDriver)
		return nil
	}

	path := c.sqlitePath()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	c.DB = db
	c.Candidates = persistence.NewSQLiteCandidateRepository(db)
	c.Templates = persistence.NewSQLiteStepTemplateRepository(db)
	c.Events = persistence.NewSQLiteCalendarEventRepository(db)
	c.Messages = persistence.NewSQLiteMessageRepository(db)
	c.Activity = persistence.NewSQLiteActivityRepository(db)
	c.TemplateStore = persistence.NewSQLiteTemplateStore(db)
	c.Logger.Info("connected to database", "driver", c.DBDriver, "path", path)
	return nil
}

func (c *Container) sqlitePath() string {
	if c.Config.DatabaseURL == "" {
		return c.Config.SQLitePath
	}
	return strings.TrimPrefix(c.Config.DatabaseURL, "sqlite://")
}

func (c *Container) initLeases(ctx context.Context) error {
	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err == nil {
		client := redis.NewClient(opt)
		err = client.Ping(ctx).Err()
		if err == nil {
			c.RedisClient = client
			c.Leases = lease.NewRedisStore(client)
			c.Logger.Info("connected to Redis")
			return nil
		}
		_ = client.Close()
	}

	if !c.Config.IsDevelopment() {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	c.Logger.Warn("Redis not available, using in-memory dispatch leases", "error", err)
	c.Leases = lease.NewMemoryStore()
	return nil
}

func (c *Container) initPublisher() error {
	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		c.Publisher = eventbus.NewNoopPublisher(c.Logger)
		return nil
	}
	c.Publisher = publisher
	return nil
}

func (c *Container) initCalendar(ctx context.Context) error {
	switch c.Config.CalendarProvider {
	case "google":
		if c.Config.GoogleClientID == "" || c.Config.GoogleClientSecret == "" || c.Config.GoogleRefreshToken == "" {
			return errors.New("google calendar configuration is incomplete")
		}
		oauthCfg := &oauth2.Config{
			ClientID:     c.Config.GoogleClientID,
			ClientSecret: c.Config.GoogleClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL: googleTokenURL,
			},
		}
		source := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: c.Config.GoogleRefreshToken})
		provider := googleCalendar.NewProvider(source, c.Logger).WithCalendarID(c.Config.CalendarID)
		c.Calendar = resilience.NewCalendarProvider(provider, resilience.DefaultBreakerConfig(), c.Logger)
		c.Logger.Info("calendar provider initialized", "provider", "google")
	case "caldav":
		if c.Config.CalDAVURL == "" {
			return errors.New("caldav calendar configuration is incomplete")
		}
		provider := caldav.NewProvider(c.Config.CalDAVURL, c.Config.CalDAVUsername, c.Config.CalDAVPassword, c.Logger)
		c.Calendar = resilience.NewCalendarProvider(provider, resilience.DefaultBreakerConfig(), c.Logger)
		c.Logger.Info("calendar provider initialized", "provider", "caldav")
	case "":
		c.Logger.Info("external calendar sync disabled")
	default:
		return fmt.Errorf("unknown calendar provider: %s", c.Config.CalendarProvider)
	}
	return nil
}

// Close releases all resources.
func (c *Container) Close() {
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis client", "error", err)
		}
	}

	if c.Pool != nil {
		c.Pool.Close()
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("error closing database", "error", err)
		}
	}

	c.Logger.Info("container closed")
}
