package notify

import (
	"context"
	"fmt"
	"os"

	"github.com/adilezz/botbourse/internal/contracts"
	"github.com/adilezz/botbourse/pkg/logger"
)

// ConsoleNotifier prints messages to stdout. Used when no Telegram
// credentials are configured.
type ConsoleNotifier struct {
	logger *logger.Logger
}

func NewConsoleNotifier(log *logger.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{logger: log}
}

func (n *ConsoleNotifier) Send(_ context.Context, text string) error {
	fmt.Fprintln(os.Stdout, text)
	return nil
}

var _ contracts.Notifier = (*ConsoleNotifier)(nil)
