package calendar

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/SyedMHaroon/NamazBot/domain"
	mcpschema "github.com/viant/mcp-protocol/schema"
)

// Tool names used when the server does not advertise a matching tool
const (
	FallbackCreateTool = "google_calendar_create_detailed_event"
	FallbackFindTool   = "google_calendar_find_events"
	FallbackDeleteTool = "google_calendar_delete_event"
)

const notConnectedMsg = "Calendar not connected. Please connect your calendar first."

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

// MCPBridge implements domain.CalendarBridge over MCP streamable HTTP.
// Each user is mapped to their own tool server by the connection repository.
type MCPBridge struct {
	connections domain.CalendarConnectionRepository
	connectURL  string
	httpClient  *http.Client
	nextID      atomic.Uint64
}

// NewMCPBridge creates a new calendar bridge
func NewMCPBridge(connections domain.CalendarConnectionRepository, connectURL string, timeout time.Duration) *MCPBridge {
	return &MCPBridge{
		connections: connections,
		connectURL:  connectURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// IsConnected implements domain.CalendarBridge
func (b *MCPBridge) IsConnected(ctx context.Context, userID string) domain.Result[bool] {
	_, err := b.connections.FindServerURL(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCalendarNotConnected) {
			return domain.Ok(false)
		}
		return domain.Err[bool](err)
	}
	return domain.Ok(true)
}

// ConnectLink implements domain.CalendarBridge
func (b *MCPBridge) ConnectLink(userID string) string {
	if b.connectURL == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(b.connectURL, "?") {
		sep = "&"
	}
	return b.connectURL + sep + "user=" + url.QueryEscape(userID)
}

// CallTool implements domain.CalendarBridge
func (b *MCPBridge) CallTool(ctx context.Context, userID, tool string, params map[string]any) domain.CalendarResult {
	serverURL, err := b.connections.FindServerURL(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrCalendarNotConnected) {
			return domain.CalendarResult{Error: notConnectedMsg}
		}
		return domain.CalendarResult{Error: fmt.Sprintf("Calendar operation failed: %v", err)}
	}

	call := &mcpschema.CallToolRequestParams{
		Name:      tool,
		Arguments: mcpschema.CallToolRequestParamsArguments(params),
	}
	raw, err := b.call(ctx, serverURL, "tools/call", call)
	if err != nil {
		return domain.CalendarResult{Error: fmt.Sprintf("Calendar operation failed: %v", err)}
	}

	var result mcpschema.CallToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.CalendarResult{Success: true, Data: string(raw)}
	}
	text := ""
	if len(result.Content) > 0 {
		text = result.Content[0].Text
	}
	if result.IsError != nil && *result.IsError {
		if text == "" {
			text = "tool reported an error"
		}
		return domain.CalendarResult{Error: fmt.Sprintf("Calendar operation failed: %s", text)}
	}
	return domain.CalendarResult{Success: true, Data: text}
}

// ListTools returns the tool names advertised by the user's server
func (b *MCPBridge) ListTools(ctx context.Context, userID string) ([]string, error) {
	serverURL, err := b.connections.FindServerURL(ctx, userID)
	if err != nil {
		return nil, err
	}
	raw, err := b.call(ctx, serverURL, "tools/list", nil)
	if err != nil {
		return nil, err
	}
	var result mcpschema.ListToolsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: decode tools: %v", domain.ErrCalendarTool, err)
	}
	names := make([]string, 0, len(result.Tools))
	for _, t := range result.Tools {
		names = append(names, t.Name)
	}
	return names, nil
}

// ResolveTool picks the first advertised tool containing one of the keywords,
// in keyword order, or returns fallback.
func (b *MCPBridge) ResolveTool(ctx context.Context, userID, fallback string, keywords ...string) string {
	names, err := b.ListTools(ctx, userID)
	if err != nil {
		return fallback
	}
	for _, kw := range keywords {
		for _, n := range names {
			if strings.Contains(strings.ToLower(n), kw) {
				return n
			}
		}
	}
	return fallback
}

func (b *MCPBridge) call(ctx context.Context, serverURL, method string, params interface{}) (json.RawMessage, error) {
	id := b.nextID.Add(1)
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out *rpcResponse
	if strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		out, err = readEventStream(resp.Body)
	} else {
		out = &rpcResponse{}
		err = json.NewDecoder(resp.Body).Decode(out)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCalendarTool, err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCalendarTool, out.Error.Message)
	}
	return out.Result, nil
}

// readEventStream returns the first data frame carrying a result or error
func readEventStream(r io.Reader) (*rpcResponse, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var msg rpcResponse
		if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &msg); err != nil {
			continue
		}
		if msg.Error != nil || len(msg.Result) > 0 {
			return &msg, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, errors.New("no data received from event stream")
}
