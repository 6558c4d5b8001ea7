package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Togather-Foundation/venues/internal/config"
	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/Togather-Foundation/venues/internal/storage/memory"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	service := venues.NewService(memory.NewRepository())
	return NewServer(Config{
		Name:      "venues",
		Version:   "test",
		Transport: TransportStdio,
		OpenAPI:   func() ([]byte, error) { return []byte(`{"openapi":"3.1.0"}`), nil },
	}, service)
}

// rpc sends one JSON-RPC message through the server and decodes the result.
func rpc(t *testing.T, srv *Server, id int, method string, params any) map[string]any {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	response := srv.MCPServer().HandleMessage(context.Background(), payload)
	data, err := json.Marshal(response)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Nil(t, decoded["error"], string(data))
	result, ok := decoded["result"].(map[string]any)
	require.True(t, ok, string(data))
	return result
}

func initialize(t *testing.T, srv *Server) {
	t.Helper()
	rpc(t, srv, 1, "initialize", map[string]any{
		"protocolVersion": "2025-03-26",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "1.0"},
	})
}

func TestServerRegistersTools(t *testing.T) {
	srv := newTestServer(t)
	initialize(t, srv)

	result := rpc(t, srv, 2, "tools/list", map[string]any{})
	list, ok := result["tools"].([]any)
	require.True(t, ok)

	names := map[string]bool{}
	for _, item := range list {
		names[item.(map[string]any)["name"].(string)] = true
	}
	for _, want := range []string{
		"list_venues", "get_venue", "create_venue", "create_event",
		"schedule_event", "unschedule_event", "list_events", "get_event",
		"edit_event", "find_event_venue", "check_consistency",
		"rename_venue", "delete_venue", "delete_event",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}
}

func TestServerRegistersResources(t *testing.T) {
	srv := newTestServer(t)
	initialize(t, srv)

	result := rpc(t, srv, 2, "resources/list", map[string]any{})
	list, ok := result["resources"].([]any)
	require.True(t, ok)

	uris := map[string]bool{}
	for _, item := range list {
		uris[item.(map[string]any)["uri"].(string)] = true
	}
	require.True(t, uris["info://server"])
	require.True(t, uris["schema://openapi"])
	require.True(t, uris["report://consistency"])
}

func TestServerCallTool(t *testing.T) {
	srv := newTestServer(t)
	initialize(t, srv)

	result := rpc(t, srv, 2, "tools/call", map[string]any{
		"name":      "create_venue",
		"arguments": map[string]any{"name": "Tranzac"},
	})
	require.NotEqual(t, true, result["isError"])

	list, err := srv.service.ListVenues(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Tranzac", list[0].Name)
}

func TestParseTransport(t *testing.T) {
	for _, value := range []string{"stdio", "sse", "http"} {
		got, err := ParseTransport(value)
		require.NoError(t, err)
		require.Equal(t, TransportType(value), got)
	}
	_, err := ParseTransport("grpc")
	require.Error(t, err)
}

func TestLoadTransportConfig(t *testing.T) {
	t.Setenv("MCP_TRANSPORT", "http")
	t.Setenv("MCP_PORT", "9090")
	t.Setenv("MCP_HOST", "127.0.0.1")

	cfg, err := LoadTransportConfig()
	require.NoError(t, err)
	require.Equal(t, TransportHTTP, cfg.Type)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "127.0.0.1", cfg.Host)

	t.Setenv("MCP_PORT", "70000")
	_, err = LoadTransportConfig()
	require.Error(t, err)

	t.Setenv("MCP_PORT", "")
	t.Setenv("MCP_TRANSPORT", "carrier-pigeon")
	_, err = LoadTransportConfig()
	require.Error(t, err)
}

func TestWrapHandlerRateLimits(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := WrapHandler(inner, config.RateLimitConfig{PerMinute: 1}, "test")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}
