package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilezz/botbourse/internal/report"
	"github.com/adilezz/botbourse/pkg/config"
	"github.com/adilezz/botbourse/pkg/httputil"
	"github.com/adilezz/botbourse/pkg/logger"
)

func newTestNotifier(t *testing.T, handler http.HandlerFunc) (*TelegramNotifier, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Telegram.BotToken = "token123"
	cfg.Telegram.ChatID = "chat42"

	n := NewTelegramNotifier(cfg, httputil.New(logger.NewNop()).DisableRetry(), logger.NewNop())
	n.apiBase = server.URL
	return n, server
}

func TestSend_SingleMessage(t *testing.T) {
	var got sendMessageRequest
	var path string

	n, _ := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, n.Send(context.Background(), "📅 rapport du jour"))

	assert.Equal(t, "/bottoken123/sendMessage", path)
	assert.Equal(t, "chat42", got.ChatID)
	assert.Equal(t, "📅 rapport du jour", got.Text)
	assert.Equal(t, "Markdown", got.ParseMode)
}

func TestSend_LongMessageIsChunked(t *testing.T) {
	var chunks []string
	n, _ := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		chunks = append(chunks, req.Text)
		w.WriteHeader(http.StatusOK)
	})

	long := strings.Repeat("ligne de rapport\n", 500)
	require.NoError(t, n.Send(context.Background(), long))

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), report.MaxChunkSize)
	}
}

func TestSend_APIErrorSurfaces(t *testing.T) {
	n, _ := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	err := n.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestNewFromConfig_FallsBackToConsole(t *testing.T) {
	cfg := &config.Config{}
	notifier := NewFromConfig(cfg, httputil.New(logger.NewNop()), logger.NewNop())

	_, isConsole := notifier.(*ConsoleNotifier)
	assert.True(t, isConsole)
}
