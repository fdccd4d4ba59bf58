package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
	Debug   bool   `yaml:"debug"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr           string `yaml:"addr"`
	Password       string `yaml:"password"`
	DB             int    `yaml:"db"`
	SessionTTL     string `yaml:"session_ttl"`
	HistoryTTL     string `yaml:"history_ttl"`
	HistoryMaxLen  int    `yaml:"history_max_len"`
	IdempotencyTTL string `yaml:"idempotency_ttl"`
}

type TwilioConfig struct {
	AccountSID        string `yaml:"account_sid"`
	AuthToken         string `yaml:"auth_token"`
	FromNumber        string `yaml:"from_number"`
	ValidateSignature bool   `yaml:"validate_signature"`
	WebhookURL        string `yaml:"webhook_url"`
}

type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"`
}

type AladhanConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type CalendarConfig struct {
	ConnectURL string `yaml:"connect_url"`
	Timeout    string `yaml:"timeout"`
}

type SchedulerConfig struct {
	Enabled      bool   `yaml:"enabled"`
	TickInterval string `yaml:"tick_interval"`
	DigestHour   int    `yaml:"digest_hour"`
	DigestMinute int    `yaml:"digest_minute"`
	DigestDedupe bool   `yaml:"digest_dedupe"`
	Concurrency  int    `yaml:"concurrency"`
	PrayerLead   string `yaml:"prayer_lead"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	Issuer    string `yaml:"issuer"`
	AccessTTL string `yaml:"access_ttl"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	LLM       LLMConfig       `yaml:"llm"`
	Aladhan   AladhanConfig   `yaml:"aladhan"`
	Calendar  CalendarConfig  `yaml:"calendar"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	JWT       JWTConfig       `yaml:"jwt"`
	Casbin    CasbinConfig    `yaml:"casbin"`
}

type Config struct {
	Port    string
	GinMode string
	Debug   bool

	DSN string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SessionTTL     time.Duration
	HistoryTTL     time.Duration
	HistoryMaxLen  int
	IdempotencyTTL time.Duration

	TwilioSID         string
	TwilioToken       string
	TwilioFrom        string
	ValidateSignature bool
	WebhookURL        string

	LLMAPIKey      string
	LLMBaseURL     string
	LLMModel       string
	LLMTemperature float32
	LLMTimeout     time.Duration

	AladhanBaseURL string
	AladhanTimeout time.Duration

	CalendarConnectURL string
	CalendarTimeout    time.Duration

	SchedulerEnabled     bool
	TickInterval         time.Duration
	DigestHour           int
	DigestMinute         int
	DigestDedupe         bool
	SchedulerConcurrency int
	PrayerLead           time.Duration

	JWTSecret string
	JWTIssuer string
	AccessTTL time.Duration

	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads .env (if present) and the YAML config named by NAMAZBOT_CONFIG
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(env("NAMAZBOT_CONFIG", "config/config.yml"))
}

// LoadFrom reads the YAML config at path and applies environment overrides
func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// parse keeps the first duration error; unset values take def
	parse := func(name, raw, def string) time.Duration {
		if raw == "" {
			raw = def
		}
		v, perr := time.ParseDuration(raw)
		if perr != nil && err == nil {
			err = fmt.Errorf("invalid %s: %w", name, perr)
		}
		return v
	}

	cfg := &Config{
		Port:    env("PORT", strconv.Itoa(orInt(configFile.App.Port, 8080))),
		GinMode: configFile.App.GinMode,
		Debug:   configFile.App.Debug || env("DEBUG", "") == "true",

		DSN: env("DATABASE_URL", configFile.Database.DSN),

		RedisAddr:      env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:  env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:        configFile.Redis.DB,
		SessionTTL:     parse("redis session ttl", configFile.Redis.SessionTTL, "168h"),
		HistoryTTL:     parse("redis history ttl", configFile.Redis.HistoryTTL, "168h"),
		HistoryMaxLen:  orInt(configFile.Redis.HistoryMaxLen, 40),
		IdempotencyTTL: parse("redis idempotency ttl", configFile.Redis.IdempotencyTTL, "1h"),

		TwilioSID:         env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:       env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:        env("TWILIO_FROM", configFile.Twilio.FromNumber),
		ValidateSignature: configFile.Twilio.ValidateSignature,
		WebhookURL:        env("WEBHOOK_URL", configFile.Twilio.WebhookURL),

		LLMAPIKey:      env("GEMINI_API_KEY", configFile.LLM.APIKey),
		LLMBaseURL:     configFile.LLM.BaseURL,
		LLMModel:       configFile.LLM.Model,
		LLMTemperature: configFile.LLM.Temperature,
		LLMTimeout:     parse("llm timeout", configFile.LLM.Timeout, "30s"),

		AladhanBaseURL: configFile.Aladhan.BaseURL,
		AladhanTimeout: parse("aladhan timeout", configFile.Aladhan.Timeout, "20s"),

		CalendarConnectURL: env("CALENDAR_CONNECT_URL", configFile.Calendar.ConnectURL),
		CalendarTimeout:    parse("calendar timeout", configFile.Calendar.Timeout, "30s"),

		SchedulerEnabled:     configFile.Scheduler.Enabled,
		TickInterval:         parse("scheduler tick interval", configFile.Scheduler.TickInterval, "1m"),
		DigestHour:           configFile.Scheduler.DigestHour,
		DigestMinute:         configFile.Scheduler.DigestMinute,
		DigestDedupe:         configFile.Scheduler.DigestDedupe,
		SchedulerConcurrency: orInt(configFile.Scheduler.Concurrency, 8),
		PrayerLead:           parse("scheduler prayer lead", configFile.Scheduler.PrayerLead, "10m"),

		JWTSecret: env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer: configFile.JWT.Issuer,
		AccessTTL: parse("JWT access TTL", configFile.JWT.AccessTTL, "1h"),

		CasbinModelPath: configFile.Casbin.ModelPath,
	}
	if err != nil {
		return nil, err
	}

	if cfg.ValidateSignature && (cfg.TwilioToken == "" || cfg.WebhookURL == "") {
		return nil, fmt.Errorf("twilio signature validation needs auth_token and webhook_url")
	}
	if cfg.DigestHour < 0 || cfg.DigestHour > 23 || cfg.DigestMinute < 0 || cfg.DigestMinute > 59 {
		return nil, fmt.Errorf("invalid digest time %02d:%02d", cfg.DigestHour, cfg.DigestMinute)
	}

	return cfg, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
