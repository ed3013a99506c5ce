package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"church_site/internal/capability"
	"church_site/internal/config"
	"church_site/internal/i18n"
	"church_site/internal/notify"
	"church_site/internal/service"
)

// Scheme is the owner scheme of Telegram chats, e.g. "tg:12345".
const Scheme = "tg"

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot is the Telegram front end of the church site.
type Bot struct {
	api telegramAPI
	svc *service.Service
	cfg *config.Config
	log *slog.Logger
}

// New creates a Bot with the given Telegram token.
func New(token string, svc *service.Service, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api: api,
		svc: svc,
		cfg: cfg,
		log: log,
	}, nil
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	if !b.cfg.IsUserAllowed(msg.From.ID) {
		lang := b.svc.Language(ctx, ownerKey(msg.Chat.ID))
		b.reply(msg.Chat.ID, b.svc.T(lang, "error.unauthorized"))
		return
	}
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	if msg.Text != "" {
		b.handleText(ctx, msg.Chat.ID, msg.Text)
	}
}

// SendMessage sends a text message to the given chat.
func (b *Bot) SendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

// Deliver sends a notification to the chat identified by id.
func (b *Bot) Deliver(_ context.Context, id string, n capability.Notification) error {
	chatID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("parse chat id %q: %w", id, err)
	}
	msg := tgbotapi.NewMessage(chatID, n.Title+"\n\n"+n.Body)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

var _ notify.Channel = (*Bot)(nil)

func (b *Bot) reply(chatID int64, text string) {
	b.SendMessage(chatID, text)
}

func ownerKey(chatID int64) string {
	return notify.Owner(Scheme, strconv.FormatInt(chatID, 10))
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID
	lang := b.svc.Language(ctx, ownerKey(chatID))

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID, "lang", lang)

	switch cmd {
	case "start":
		b.handleStart(chatID, lang)
	case "help":
		b.handleHelp(chatID, lang)
	case "lang":
		b.handleLang(ctx, chatID, lang, args)
	case "schedule":
		b.handleSchedule(chatID, lang)
	case "leaders":
		b.handleLeaders(chatID, lang, args)
	case "ministries":
		b.handleMinistries(chatID, lang, args)
	case "sermons":
		b.handleSermons(ctx, chatID, lang, args)
	case "events":
		b.handleEvents(ctx, chatID, lang)
	case cmdRSVP:
		b.handleRSVP(ctx, chatID, lang, args)
	case "devotional":
		b.handleDevotional(chatID, lang)
	case "birthdays":
		b.handleBirthdays(chatID, lang)
	case "notify":
		b.handleNotify(ctx, chatID, lang, args)
	case "reset":
		b.handleReset(chatID, lang)
	default:
		b.reply(chatID, b.svc.T(lang, "error.unknown_command"))
	}
}

func (b *Bot) tr(lang i18n.Lang) translate {
	return func(key string) string { return b.svc.T(lang, key) }
}
