package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coinwire/internal/domain"
	"coinwire/internal/render"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const requestTimeout = 30 * time.Second

// BriefingService returns (nil, nil) when the provider has no data for symbol.
type BriefingService interface {
	Briefing(ctx context.Context, symbol string) (*domain.Briefing, error)
}

// StartTelegramBot runs the bot until ctx is cancelled. It is a no-op
// without a token.
func StartTelegramBot(ctx context.Context, token string, briefings BriefingService, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("telegram")

	if token == "" {
		logger.Info("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		logger.Error("failed to create Telegram bot", zap.Error(err))
		return
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/news", func(c tele.Context) error {
		return c.Send(respond(ctx, briefings, logger, "/news", c.Args(), render.NewsText))
	})

	b.Handle("/price", func(c tele.Context) error {
		return c.Send(respond(ctx, briefings, logger, "/price", c.Args(), render.SummaryText))
	})

	logger.Info("Telegram bot started")
	go b.Start()
	go func() {
		<-ctx.Done()
		b.Stop()
	}()
}

// respond maps the three briefing outcomes to a chat reply.
func respond(ctx context.Context, briefings BriefingService, logger *zap.Logger, command string, args []string, format func(*domain.Briefing) string) string {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return fmt.Sprintf("Usage: %s BTC", command)
	}
	symbol := strings.ToUpper(strings.TrimSpace(args[0]))

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	b, err := briefings.Briefing(ctx, symbol)
	if err != nil {
		logger.Error("fetch briefing failed", zap.String("command", command), zap.String("symbol", symbol), zap.Error(err))
		return "Failed to fetch market data"
	}
	if b == nil {
		return "No data found for symbol: " + symbol
	}
	return format(b)
}
