package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/SyedMHaroon/NamazBot/internal/app"
	"github.com/SyedMHaroon/NamazBot/internal/config"
	"github.com/SyedMHaroon/NamazBot/internal/infrastructure/database"
	"github.com/SyedMHaroon/NamazBot/internal/mocks"
	testconfig "github.com/SyedMHaroon/NamazBot/internal/tests/config"
)

const lahoreDay = `{
  "code": 200,
  "status": "OK",
  "data": {
    "timings": {"Fajr": "05:01 (PKT)", "Sunrise": "06:20", "Dhuhr": "11:55", "Asr": "15:05", "Maghrib": "17:30", "Isha": "18:48"},
    "date": {
      "readable": "29 Oct 2025",
      "hijri": {
        "date": "07-05-1447",
        "day": "07",
        "year": "1447",
        "weekday": {"en": "Al Arba'a", "ar": "الاربعاء"},
        "month": {"number": 5, "en": "Jumādá al-ūlá", "ar": "جُمادى الأولى"}
      }
    },
    "meta": {"timezone": "Asia/Karachi"}
  }
}`

// recorder is a goroutine safe messenger; the server runs handlers on its
// own goroutines
type recorder struct {
	mu   sync.Mutex
	sent []mocks.SentMessage
}

func (r *recorder) SendText(ctx context.Context, to, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, mocks.SentMessage{To: to, Body: body})
	return nil
}

func (r *recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func (r *recorder) Last() mocks.SentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[len(r.sent)-1]
}

func (r *recorder) To(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.sent {
		if m.To == userID {
			out = append(out, m.Body)
		}
	}
	return out
}

var _ domain.Messenger = (*recorder)(nil)

// TestSuite runs the real container against sqlite, miniredis and fake
// upstream APIs
type TestSuite struct {
	Config    *config.Config
	Container *app.Container
	Server    *httptest.Server
	Redis     *miniredis.Miniredis
	Messenger *recorder

	mu          sync.Mutex
	llmReply    string
	llmPrompts  []string
	prayerPaths []string
}

// SetupTestSuite builds an isolated suite torn down with t
func SetupTestSuite(t *testing.T, overrides ...func(*config.Config)) *TestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := &TestSuite{
		Messenger: &recorder{},
		llmReply:  `{"intent":"general","slots":{}}`,
	}

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	s.Redis = mr

	aladhan := httptest.NewServer(http.HandlerFunc(s.serveAladhan))
	t.Cleanup(aladhan.Close)
	llm := httptest.NewServer(http.HandlerFunc(s.serveLLM))
	t.Cleanup(llm.Close)

	cfg := testconfig.LoadTestConfig(t, testconfig.Endpoints{
		RedisAddr:  mr.Addr(),
		AladhanURL: aladhan.URL,
		LLMURL:     llm.URL,
	})
	for _, o := range overrides {
		o(cfg)
	}
	s.Config = cfg

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "namazbot.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	c, err := app.NewContainer(cfg, zap.NewNop(),
		app.WithDB(db),
		app.WithRedis(database.NewRedis(mr.Addr(), "", 0)),
		app.WithMessenger(s.Messenger),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	s.Container = c

	s.Server = httptest.NewServer(c.Router())
	t.Cleanup(s.Server.Close)
	return s
}

func (s *TestSuite) serveAladhan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.prayerPaths = append(s.prayerPaths, r.URL.Path)
	s.mu.Unlock()

	if r.URL.Query().Get("city") == "Nowhere" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":400,"status":"BAD_REQUEST","data":"Unable to find city"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(lahoreDay))
}

func (s *TestSuite) serveLLM(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	for _, m := range req.Messages {
		s.llmPrompts = append(s.llmPrompts, m.Content)
	}
	reply := s.llmReply
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"id":      "chatcmpl-e2e",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gemini-2.5-flash",
		"choices": []map[string]interface{}{
			{"index": 0, "finish_reason": "stop", "message": map[string]string{"role": "assistant", "content": reply}},
		},
	})
}

// RouteTo makes the fake LLM answer every prompt with reply
func (s *TestSuite) RouteTo(reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.llmReply = reply
}

// LLMCalls returns how many prompts reached the fake LLM
func (s *TestSuite) LLMCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.llmPrompts)
}

// PrayerPaths returns the Aladhan paths requested so far
func (s *TestSuite) PrayerPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prayerPaths...)
}

// SendWhatsApp posts an inbound message and returns the reply sent back
func (s *TestSuite) SendWhatsApp(t *testing.T, from, body, sid string) string {
	t.Helper()
	before := s.Messenger.Count()

	form := url.Values{"From": {"whatsapp:" + from}, "Body": {body}, "MessageSid": {sid}}
	resp, err := http.Post(s.Server.URL+"/webhook", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	if s.Messenger.Count() == before {
		return ""
	}
	return s.Messenger.Last().Body
}

// Do sends an admin API request with an optional bearer token
func (s *TestSuite) Do(t *testing.T, method, path, token string, body io.Reader) (int, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, s.Server.URL+path, body)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

// Token issues an admin API token for role
func (s *TestSuite) Token(t *testing.T, role string) string {
	t.Helper()
	token, err := s.Container.TokenSvc.GenerateAccessToken("e2e-"+role, role)
	require.NoError(t, err)
	return token
}

// Onboard walks a user through registration
func (s *TestSuite) Onboard(t *testing.T, from string) {
	t.Helper()
	for i, msg := range []string{"salam", "Ayesha", "ayesha@example.com", "Lahore - Pakistan", "yes"} {
		s.SendWhatsApp(t, from, msg, from+"-onboard-"+string(rune('a'+i)))
	}
}
