package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newMCPTestServer(logger *zap.Logger, response string) http.Handler {
	return MCPRequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(response))
	}))
}

func TestMCPRequestLogger(t *testing.T) {
	t.Run("logs successful tool call", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		wrapped := newMCPTestServer(zap.New(core),
			`{"jsonrpc":"2.0","id":1,"result":{"content":[{"type":"text","text":"{}"}]}}`)

		reqBody := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_profile","arguments":{"index":2}}}`
		req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(reqBody))
		rec := httptest.NewRecorder()

		wrapped.ServeHTTP(rec, req)

		require.Equal(t, 2, logs.Len(), "Should log request and response")

		requestLog := logs.All()[0]
		assert.Equal(t, "MCP request", requestLog.Message)
		assert.Equal(t, "tools/call", requestLog.ContextMap()["method"])
		assert.Equal(t, "get_profile", requestLog.ContextMap()["tool"])
		assert.NotNil(t, requestLog.ContextMap()["arguments"])

		responseLog := logs.All()[1]
		assert.Equal(t, "MCP response success", responseLog.Message)
		assert.Equal(t, "get_profile", responseLog.ContextMap()["tool"])
		assert.NotNil(t, responseLog.ContextMap()["duration"])
	})

	t.Run("logs JSON-RPC error response", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		wrapped := newMCPTestServer(zap.New(core),
			`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"tool not found"}}`)

		reqBody := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"nope"}}`
		req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(reqBody))
		wrapped.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 2, logs.Len())
		responseLog := logs.All()[1]
		assert.Equal(t, "MCP response error", responseLog.Message)
		assert.Equal(t, int64(-32602), responseLog.ContextMap()["error_code"])
		assert.Equal(t, "tool not found", responseLog.ContextMap()["error_message"])
	})

	t.Run("logs tool error result", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		wrapped := newMCPTestServer(zap.New(core),
			`{"jsonrpc":"2.0","id":1,"result":{"isError":true,"content":[{"type":"text","text":"{\"error\":true}"}]}}`)

		reqBody := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_profile","arguments":{"index":99}}}`
		req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(reqBody))
		wrapped.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 2, logs.Len())
		assert.Equal(t, "MCP tool error", logs.All()[1].Message)
	})

	t.Run("parses SSE framed response", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		wrapped := newMCPTestServer(zap.New(core),
			"event: message\ndata: {\"jsonrpc\":\"2.0\",\"id\":1,\"result\":{}}\n\n")

		reqBody := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"health"}}`
		req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(reqBody))
		wrapped.ServeHTTP(httptest.NewRecorder(), req)

		require.Equal(t, 2, logs.Len())
		assert.Equal(t, "MCP response success", logs.All()[1].Message)
	})

	t.Run("passes through non-POST requests", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		wrapped := newMCPTestServer(zap.New(core), "")

		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("nil logger passes through", func(t *testing.T) {
		wrapped := newMCPTestServer(nil, `{}`)
		req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		assert.Equal(t, "{}", rec.Body.String())
	})

	t.Run("request body is still readable downstream", func(t *testing.T) {
		var seen string
		wrapped := MCPRequestLogger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			seen = string(b)
		}))

		reqBody := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
		req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(reqBody))
		wrapped.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, reqBody, seen)
	})
}

func TestTruncateArguments(t *testing.T) {
	assert.Nil(t, truncateArguments(nil))

	long := strings.Repeat("x", 250)
	got := truncateArguments(map[string]any{"username": long, "followers": 10.0})

	assert.Equal(t, strings.Repeat("x", 200)+"...", got["username"])
	assert.Equal(t, 10.0, got["followers"])
}
