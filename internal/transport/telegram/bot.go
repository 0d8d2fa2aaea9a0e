// Package telegram exposes the chat pipeline as a private Telegram bot.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/atlas/internal/config"
	"github.com/sandevgo/atlas/internal/service/chat"
	"github.com/sandevgo/atlas/pkg/conv"
	"github.com/sandevgo/atlas/pkg/log"
)

const baseContextKey = "base_context"

type Bot struct {
	bot     *tele.Bot
	svc     *chat.Service
	ownerID int64
}

func NewBot(ctx context.Context, cfg *config.TelegramConfig, svc *chat.Service) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		svc:     svc,
		ownerID: cfg.OwnerID,
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Only the owner talks to the bot; everyone else is ignored.
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if bot.ownerID != 0 && c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

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

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	sessionID := fmt.Sprintf("telegram-%d", c.Chat().ID)

	_ = c.Notify(tele.Typing)

	reply := b.svc.Respond(ctx, sessionID, c.Text())
	if reply.Offline {
		logger.Warn().Str("session", sessionID).Msg("serving offline fallback over telegram")
	}

	htmlContent := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(reply.Text)))
	if htmlContent == "" {
		return nil
	}
	if err := c.Send(htmlContent, tele.ModeHTML); err != nil {
		logger.Error().Err(err).Msg("failed to send telegram message")
		// Formatting rejections happen; retry as plain text.
		return c.Send(reply.Text)
	}
	return nil
}
