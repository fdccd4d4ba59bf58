package config

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/SyedMHaroon/NamazBot/internal/config"
)

// Endpoints are the test doubles a suite config points at
type Endpoints struct {
	RedisAddr  string
	AladhanURL string
	LLMURL     string
}

// ProjectRoot returns the repository root
func ProjectRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..")
}

// LoadTestConfig loads the shipped config and points every outbound
// dependency at the given endpoints
func LoadTestConfig(t *testing.T, ep Endpoints) *config.Config {
	t.Helper()

	if err := godotenv.Load(filepath.Join(ProjectRoot(), ".env.test")); err != nil {
		t.Logf("no .env.test, using shipped config: %v", err)
	}

	cfg, err := config.LoadFrom(filepath.Join(ProjectRoot(), "config", "config.yml"))
	if err != nil {
		t.Fatalf("Failed to load test configuration: %v", err)
	}

	cfg.GinMode = "test"
	cfg.Debug = false
	cfg.RedisAddr = ep.RedisAddr
	cfg.RedisPassword = ""
	cfg.AladhanBaseURL = ep.AladhanURL
	cfg.AladhanTimeout = 5 * time.Second
	cfg.LLMBaseURL = ep.LLMURL
	cfg.LLMAPIKey = "test-key"
	cfg.LLMTimeout = 5 * time.Second
	cfg.CalendarConnectURL = "https://namazbot.test/calendar/connect"
	cfg.ValidateSignature = false
	cfg.JWTSecret = "e2e-secret-that-is-long-enough"
	cfg.JWTIssuer = "namazbot-e2e"
	cfg.AccessTTL = time.Hour
	cfg.CasbinModelPath = filepath.Join(ProjectRoot(), "config", "casbin_model.conf")
	cfg.SchedulerEnabled = false
	cfg.SchedulerConcurrency = 1

	validateTestConfig(t, cfg)
	return cfg
}

func validateTestConfig(t *testing.T, cfg *config.Config) {
	t.Helper()

	if cfg.RedisAddr == "" {
		t.Fatal("redis address must be set for e2e tests")
	}
	if cfg.AladhanBaseURL == "" || cfg.LLMBaseURL == "" {
		t.Fatal("e2e tests must not reach the real Aladhan or LLM APIs")
	}
}
