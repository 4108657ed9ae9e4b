package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/next-levels/go-cms/config"
	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/util/common"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

var (
	botMu    sync.RWMutex
	bot      *telego.Bot
	adminIds []int64
)

// Tgbot posts notifications to the admin chats configured in TG_CHAT_ID.
type Tgbot struct{}

// Init connects the bot. It is a no-op when Telegram is not configured.
func (t *Tgbot) Init(cfg config.TelegramConfig) error {
	if !cfg.Enabled() {
		return nil
	}
	b, err := telego.NewBot(cfg.Token)
	if err != nil {
		return err
	}

	botMu.Lock()
	bot = b
	adminIds = cfg.ChatIDs
	botMu.Unlock()
	logger.Infof("Telegram notifications enabled for %d chat(s)", len(cfg.ChatIDs))
	return nil
}

func (t *Tgbot) IsRunning() bool {
	botMu.RLock()
	defer botMu.RUnlock()
	return bot != nil
}

func (t *Tgbot) Stop() {
	botMu.Lock()
	bot = nil
	adminIds = nil
	botMu.Unlock()
}

func (t *Tgbot) SendMsgToTgbot(ctx context.Context, chatId int64, msg string) error {
	botMu.RLock()
	b := bot
	botMu.RUnlock()
	if b == nil || msg == "" {
		return nil
	}
	_, err := b.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    tu.ID(chatId),
		Text:      msg,
		ParseMode: telego.ModeHTML,
	})
	return err
}

func (t *Tgbot) SendMsgToTgbotAdmins(ctx context.Context, msg string) {
	botMu.RLock()
	ids := append([]int64(nil), adminIds...)
	botMu.RUnlock()
	for _, id := range ids {
		if err := t.SendMsgToTgbot(ctx, id, msg); err != nil {
			logger.Warning("Error sending telegram message:", err)
		}
	}
}

// OrderCreated announces a new order to the admins.
func (t *Tgbot) OrderCreated(ctx context.Context, order *model.Order) {
	if !t.IsRunning() {
		return
	}
	t.SendMsgToTgbotAdmins(ctx, formatOrderMessage(order))
}

func formatOrderMessage(order *model.Order) string {
	var b strings.Builder
	b.WriteString("🌳 <b>Neue Bestellung</b>\r\n")
	fmt.Fprintf(&b, "Name: %s %s\r\n", html.EscapeString(order.FirstName), html.EscapeString(order.LastName))
	fmt.Fprintf(&b, "E-Mail: %s\r\n", html.EscapeString(order.Email))
	fmt.Fprintf(&b, "Bäume: %s (%s ha)\r\n", common.FormatNumberDE(order.Amount), FormatHectares(CalculateHectares(order.Amount)))
	fmt.Fprintf(&b, "Kaufdatum: %s", common.FormatDateDE(order.BoughtAt))
	return b.String()
}
