package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/bloombot/internal/config"
	"github.com/sandevgo/bloombot/internal/service/orchestrator"
	"github.com/sandevgo/bloombot/pkg/conv"
	"github.com/sandevgo/bloombot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

// Safety margin below Telegram's 4096-character message limit.
const maxTelegramMsgLen = 4000

// Bot serves the shop assistant over Telegram. Unlike a personal bot there
// is no owner allowlist: anyone can ask, the security gate screens everyone.
type Bot struct {
	bot  *tele.Bot
	cfg  *config.TelegramConfig
	orch *orchestrator.Orchestrator
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	orch *orchestrator.Orchestrator,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:  b,
		cfg:  cfg,
		orch: orch,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send("Hi! I'm Bloom, your flower shop assistant. " +
		"Ask me about bouquets, prices, delivery or opening hours.")
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	userID := strconv.FormatInt(c.Sender().ID, 10)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	result := b.orch.ProcessMessage(ctx, c.Text(), userID)

	html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(result.Response)))
	for i, chunk := range conv.SplitHTML(html, maxTelegramMsgLen) {
		if err := c.Send(chunk, tele.ModeHTML); err != nil {
			logger.Error().Err(err).Int("chunk", i).Msg("failed to send telegram message")
			return err
		}
	}
	return nil
}
