package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/SyedMHaroon/NamazBot/internal/config"
	httpx "github.com/SyedMHaroon/NamazBot/internal/http"
	"github.com/SyedMHaroon/NamazBot/internal/http/handlers"
	"github.com/SyedMHaroon/NamazBot/internal/http/middleware"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/aladhan"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/auth"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/calendar"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/database"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/llm"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/logging"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/notifications"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/repositories"
	"github.com/SyedMHaroon/NamazBot/internal/services"
)

// Recent messages handed to the intent router each turn
const routerHistoryWindow = 10

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB     *gorm.DB
	Redis  *database.RedisClient
	Casbin *auth.CasbinService

	// Repositories
	Profiles      domain.ProfileStore
	ProfileRepo   domain.ProfileRepository
	History       domain.MessageHistory
	Reminders     domain.ReminderQueue
	Subscriptions domain.SubscriptionRepository
	Idempotency   domain.IdempotencyRepository
	Calendars     domain.CalendarConnectionRepository

	// Clients
	Prayers domain.PrayerTimesAPI
	// Scheduled messages use the region's calculation method
	RegionalPrayers domain.PrayerTimesAPI
	LLM             domain.LLM
	Messenger       domain.Messenger
	Bridge          domain.CalendarBridge
	TokenSvc        domain.TokenService
	Events          domain.EventLogger

	// Services
	Turns     domain.TurnService
	Scheduler domain.SchedulerService
}

// Option supplies a dependency instead of building it from config
type Option func(*Container)

// WithDB uses an already opened database
func WithDB(db *gorm.DB) Option {
	return func(c *Container) { c.DB = db }
}

// WithRedis uses an already connected redis client
func WithRedis(r *database.RedisClient) Option {
	return func(c *Container) { c.Redis = r }
}

// WithMessenger replaces the Twilio messenger
func WithMessenger(m domain.Messenger) Option {
	return func(c *Container) { c.Messenger = m }
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	if err := c.initRedis(); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.initCasbin(); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.initRepositories()
	c.initClients()
	c.initServices()

	return c, nil
}

func (c *Container) initDatabase() error {
	if c.DB == nil {
		db, err := database.Open(c.Config.DSN, c.Config.Debug)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		c.DB = db
	}
	return database.AutoMigrate(c.DB)
}

func (c *Container) initRedis() error {
	if c.Redis == nil {
		c.Redis = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	}
	if err := c.Redis.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to reach redis at %s: %w", c.Config.RedisAddr, err)
	}
	return nil
}

func (c *Container) initCasbin() error {
	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return fmt.Errorf("failed to load casbin: %w", err)
	}
	if err := cas.SeedDefaults(); err != nil {
		return fmt.Errorf("failed to seed casbin policies: %w", err)
	}
	c.Casbin = cas
	return nil
}

func (c *Container) initRepositories() {
	rdb := c.Redis.Client

	c.ProfileRepo = repositories.NewProfileRepository(c.DB)
	sessions := repositories.NewSessionRepository(rdb, c.Config.SessionTTL)
	c.Profiles = repositories.NewProfileStore(sessions, c.ProfileRepo)

	messages := repositories.NewMessageRepository(c.DB)
	c.History = repositories.NewHistoryRepository(rdb, messages, c.Config.HistoryMaxLen, c.Config.HistoryTTL)

	c.Reminders = repositories.NewReminderRepository(rdb)
	c.Subscriptions = repositories.NewSubscriptionRepository(rdb)
	c.Idempotency = repositories.NewIdempotencyRepository(rdb, c.Config.IdempotencyTTL)
	c.Calendars = repositories.NewCalendarConnectionRepository(c.DB)
}

func (c *Container) initClients() {
	c.Prayers = aladhan.NewClient(c.Config.AladhanBaseURL, c.Config.AladhanTimeout)
	c.RegionalPrayers = aladhan.NewRegionalClient(c.Config.AladhanBaseURL, c.Config.AladhanTimeout)
	c.LLM = llm.NewClient(llm.Config{
		APIKey:      c.Config.LLMAPIKey,
		BaseURL:     c.Config.LLMBaseURL,
		Model:       c.Config.LLMModel,
		Temperature: c.Config.LLMTemperature,
		Timeout:     c.Config.LLMTimeout,
	})
	if c.Messenger == nil {
		c.Messenger = notifications.NewTwilioMessenger(c.Config.TwilioSID, c.Config.TwilioToken, c.Config.TwilioFrom, c.Logger)
	}
	c.Bridge = calendar.NewMCPBridge(c.Calendars, c.Config.CalendarConnectURL, c.Config.CalendarTimeout)
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.AccessTTL)
	c.Events = logging.NewEventLogger(c.Logger)
}

func (c *Container) initServices() {
	log := c.Logger

	classifier := services.NewIntentClassifier(c.LLM, log.Named("classifier"))
	gate := services.NewLanguageGate(c.LLM, log.Named("language"))
	locations := services.NewLocationValidator(c.Prayers, log.Named("location"))
	onboarding := services.NewOnboarding(locations, c.ProfileRepo, c.Subscriptions, c.Events, log.Named("onboarding"))

	prayer := services.NewPrayerHandlers(c.Prayers, log.Named("prayer"))
	reminder := services.NewReminderHandler(c.Reminders, c.LLM, c.Events, log.Named("reminder"))
	cal := services.NewCalendarHandler(c.Bridge, c.LLM, log.Named("calendar"))

	dispatcher := services.NewTurnDispatcher(classifier, gate, services.GeneralHandler, log.Named("dispatcher"))
	dispatcher.Register(domain.IntentIslamicDate, services.IntentHandlerFunc(prayer.IslamicDate))
	dispatcher.Register(domain.IntentPrayerTimes, services.IntentHandlerFunc(prayer.PrayerTimes))
	dispatcher.Register(domain.IntentNextPrayer, services.IntentHandlerFunc(prayer.NextPrayer))
	dispatcher.Register(domain.IntentReminder, reminder)
	for _, intent := range domain.Intents {
		if intent.IsCalendar() {
			dispatcher.Register(intent, cal)
		}
	}

	c.Turns = services.NewTurnService(c.Profiles, c.History, onboarding, dispatcher, c.Events, log.Named("turn"), routerHistoryWindow)
	c.Scheduler = services.NewSchedulerService(
		c.Profiles,
		c.RegionalPrayers,
		c.Reminders,
		c.Subscriptions,
		c.Redis,
		c.Messenger,
		c.Events,
		log,
		services.SchedulerConfig{
			DigestHour:   c.Config.DigestHour,
			DigestMinute: c.Config.DigestMinute,
			DigestDedupe: c.Config.DigestDedupe,
			Concurrency:  c.Config.SchedulerConcurrency,
			PrayerLead:   c.Config.PrayerLead,
		},
	)
}

// Router builds the HTTP surface over the container's services
func (c *Container) Router() *gin.Engine {
	var validator handlers.SignatureValidator
	if c.Config.ValidateSignature {
		validator = handlers.NewTwilioSignatureValidator(c.Config.TwilioToken)
	}

	wh := handlers.NewWebhookHandlers(c.Turns, c.Idempotency, c.Messenger, validator, c.Config.WebhookURL, c.Logger)
	ah := handlers.NewAdminHandlers(c.Subscriptions, c.Profiles, c.Scheduler, c.Logger)
	ph := handlers.NewPolicyHandlers(c.Casbin.E)

	return httpx.BuildRouter(wh, ah, ph, middleware.NewAuthMW(c.TokenSvc), middleware.NewCasbinMW(c.Casbin.E, c.Logger))
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
