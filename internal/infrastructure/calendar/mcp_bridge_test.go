package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/SyedMHaroon/NamazBot/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedCall struct {
	Method string                 `json:"method"`
	Params map[string]interface{} `json:"params"`
}

func toolServer(t *testing.T, calls *[]capturedCall, respond func(w http.ResponseWriter, method string)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var c capturedCall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		*calls = append(*calls, c)
		respond(w, c.Method)
	}))
}

func connected(t *testing.T, url string) *mocks.MockCalendarConnectionRepository {
	t.Helper()
	repo := mocks.NewMockCalendarConnectionRepository()
	require.NoError(t, repo.Save(context.Background(), "u1", url))
	return repo
}

func TestMCPBridge_IsConnected(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(repo *mocks.MockCalendarConnectionRepository)
		expectOk  bool
		expectVal bool
	}{
		{
			name:      "linked user",
			setup:     func(repo *mocks.MockCalendarConnectionRepository) { repo.Save(context.Background(), "u1", "http://x") },
			expectOk:  true,
			expectVal: true,
		},
		{
			name:      "unlinked user",
			setup:     func(repo *mocks.MockCalendarConnectionRepository) {},
			expectOk:  true,
			expectVal: false,
		},
		{
			name: "lookup failure is an Err",
			setup: func(repo *mocks.MockCalendarConnectionRepository) {
				repo.FindServerURLFunc = func(ctx context.Context, userID string) (string, error) {
					return "", errors.New("db down")
				}
			},
			expectOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockCalendarConnectionRepository()
			tt.setup(repo)
			res := NewMCPBridge(repo, "", time.Second).IsConnected(context.Background(), "u1")
			assert.Equal(t, tt.expectOk, res.IsOk())
			assert.Equal(t, tt.expectVal, res.Value())
		})
	}
}

func TestMCPBridge_CallTool(t *testing.T) {
	tests := []struct {
		name    string
		respond func(w http.ResponseWriter, method string)
		expect  domain.CalendarResult
	}{
		{
			name: "json result text content",
			respond: func(w http.ResponseWriter, method string) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"{\"id\":\"evt1\"}"}]}}`))
			},
			expect: domain.CalendarResult{Success: true, Data: `{"id":"evt1"}`},
		},
		{
			name: "event stream result",
			respond: func(w http.ResponseWriter, method string) {
				w.Header().Set("Content-Type", "text/event-stream")
				w.Write([]byte("event: message\ndata: {\"jsonrpc\":\"2.0\",\"id\":1,\"result\":{\"content\":[{\"type\":\"text\",\"text\":\"created\"}]}}\n\n"))
			},
			expect: domain.CalendarResult{Success: true, Data: "created"},
		},
		{
			name: "tool error flag",
			respond: func(w http.ResponseWriter, method string) {
				w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"isError":true,"content":[{"type":"text","text":"bad time"}]}}`))
			},
			expect: domain.CalendarResult{Error: "Calendar operation failed: bad time"},
		},
		{
			name: "rpc error",
			respond: func(w http.ResponseWriter, method string) {
				w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"no such tool"}}`))
			},
			expect: domain.CalendarResult{Error: "Calendar operation failed: calendar tool failure: no such tool"},
		},
		{
			name: "http failure",
			respond: func(w http.ResponseWriter, method string) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte("expired"))
			},
			expect: domain.CalendarResult{Error: "Calendar operation failed: HTTP 401: expired"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []capturedCall
			srv := toolServer(t, &calls, tt.respond)
			defer srv.Close()

			bridge := NewMCPBridge(connected(t, srv.URL), "", 5*time.Second)
			got := bridge.CallTool(context.Background(), "u1", FallbackCreateTool, map[string]any{"summary": "Jummah"})
			assert.Equal(t, tt.expect, got)

			require.Len(t, calls, 1)
			assert.Equal(t, "tools/call", calls[0].Method)
			assert.Equal(t, FallbackCreateTool, calls[0].Params["name"])
			assert.Equal(t, map[string]interface{}{"summary": "Jummah"}, calls[0].Params["arguments"])
		})
	}
}

func TestMCPBridge_CallToolNotConnected(t *testing.T) {
	bridge := NewMCPBridge(mocks.NewMockCalendarConnectionRepository(), "", time.Second)
	got := bridge.CallTool(context.Background(), "u1", FallbackFindTool, nil)
	assert.False(t, got.Success)
	assert.Equal(t, notConnectedMsg, got.Error)
}

func TestMCPBridge_ResolveTool(t *testing.T) {
	var calls []capturedCall
	srv := toolServer(t, &calls, func(w http.ResponseWriter, method string) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"tools":[
			{"name":"google_calendar-quick-add-event","inputSchema":{"type":"object"}},
			{"name":"google_calendar-list-events","inputSchema":{"type":"object"}},
			{"name":"google_calendar-delete-event","inputSchema":{"type":"object"}}
		]}}`))
	})
	defer srv.Close()

	bridge := NewMCPBridge(connected(t, srv.URL), "", 5*time.Second)
	ctx := context.Background()

	assert.Equal(t, "google_calendar-list-events", bridge.ResolveTool(ctx, "u1", FallbackFindTool, "list", "find"))
	assert.Equal(t, "google_calendar-delete-event", bridge.ResolveTool(ctx, "u1", FallbackDeleteTool, "delete", "remove"))
	assert.Equal(t, FallbackCreateTool, bridge.ResolveTool(ctx, "u1", FallbackCreateTool, "create", "insert"))
	assert.Equal(t, FallbackCreateTool, bridge.ResolveTool(ctx, "nobody", FallbackCreateTool, "create"))
	assert.Equal(t, "tools/list", calls[0].Method)
}

func TestMCPBridge_ConnectLink(t *testing.T) {
	assert.Equal(t, "", NewMCPBridge(nil, "", time.Second).ConnectLink("u1"))
	assert.Equal(t, "https://cal.example.com/connect?user=whatsapp%3A%2B92300",
		NewMCPBridge(nil, "https://cal.example.com/connect", time.Second).ConnectLink("whatsapp:+92300"))
	assert.Equal(t, "https://cal.example.com/c?x=1&user=u1",
		NewMCPBridge(nil, "https://cal.example.com/c?x=1", time.Second).ConnectLink("u1"))
}
