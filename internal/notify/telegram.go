package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/internal/report"
	"github.com/adilezz/botbourse/pkg/config"
	"github.com/adilezz/botbourse/pkg/httputil"
	"github.com/adilezz/botbourse/pkg/logger"
)

// TelegramNotifier delivers messages through the Telegram bot API.
// Messages above the API size cap are chunked on line boundaries and sent
// in order.
type TelegramNotifier struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	apiBase    string
	botToken   string
	chatID     string
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func NewTelegramNotifier(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		httpClient: httpClient,
		logger:     log,
		apiBase:    "https://api.telegram.org",
		botToken:   cfg.Telegram.BotToken,
		chatID:     cfg.Telegram.ChatID,
	}
}

// Send delivers one message, chunk by chunk. A failed chunk aborts the
// remainder so the reader never sees a report with a hole in the middle.
func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)

	for i, chunk := range report.ChunkMessage(text) {
		resp, err := n.httpClient.PostJSON(ctx, url, sendMessageRequest{
			ChatID:    n.chatID,
			Text:      chunk,
			ParseMode: "Markdown",
		})
		if err != nil {
			return fmt.Errorf("send telegram chunk %d: %w", i+1, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("send telegram chunk %d: status %d", i+1, resp.StatusCode)
		}
	}

	n.logger.WithField("chars", len(text)).Debug("Telegram message sent")
	return nil
}

var _ contracts.Notifier = (*TelegramNotifier)(nil)

// NewFromConfig returns the Telegram notifier when credentials are set,
// otherwise the console fallback so local runs still show their reports.
func NewFromConfig(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) contracts.Notifier {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
		log.Warn("Telegram credentials missing, reports go to the console")
		return NewConsoleNotifier(log)
	}
	return NewTelegramNotifier(cfg, httpClient, log)
}
