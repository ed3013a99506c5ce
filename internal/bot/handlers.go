package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"church_site/internal/capability"
	"church_site/internal/conversation"
	"church_site/internal/i18n"
	"church_site/internal/model"
	"church_site/internal/service"
)

const maxSermons = 10

func (b *Bot) handleStart(chatID int64, lang i18n.Lang) {
	greeting := b.svc.StartChat(ownerKey(chatID), lang)
	text := b.svc.T(lang, "help")
	if len(greeting) > 0 {
		text = greeting[0].Text + "\n\n" + text
	}
	b.reply(chatID, text)
}

func (b *Bot) handleHelp(chatID int64, lang i18n.Lang) {
	b.reply(chatID, b.svc.T(lang, "help"))
}

func (b *Bot) handleLang(ctx context.Context, chatID int64, lang i18n.Lang, args string) {
	if args == "" {
		b.reply(chatID, b.svc.T(lang, "lang.usage"))
		return
	}
	next, err := i18n.Parse(args)
	if err != nil {
		b.reply(chatID, b.svc.T(lang, "lang.usage"))
		return
	}
	if err := b.svc.SetLanguage(ctx, ownerKey(chatID), next); err != nil {
		b.log.Error("set language", "chat_id", chatID, "error", err)
		b.reply(chatID, b.svc.T(lang, "error.generic"))
		return
	}
	// The running FAQ chat answers in the old language; start over.
	b.svc.EndChat(ownerKey(chatID))
	b.reply(chatID, b.svc.T(next, "lang.changed"))
}

func (b *Bot) handleSchedule(chatID int64, lang i18n.Lang) {
	b.reply(chatID, FormatSchedule(b.svc.Schedule(), lang, b.tr(lang)))
}

func (b *Bot) handleLeaders(chatID int64, lang i18n.Lang, args string) {
	a := ParseSearchArgs(args, b.svc.LeaderCategories())
	if a.Category == "" {
		b.reply(chatID, FormatLeaderTabs(b.svc.LeaderTabs(a.Query), b.tr(lang)))
		return
	}
	b.reply(chatID, FormatLeaders(b.svc.Leaders(a.Category, a.Query), b.tr(lang)))
}

func (b *Bot) handleMinistries(chatID int64, lang i18n.Lang, args string) {
	a := ParseSearchArgs(args, b.svc.MinistryCategories())
	b.reply(chatID, FormatMinistries(b.svc.Ministries(a.Category, a.Query), b.tr(lang)))
}

func (b *Bot) handleSermons(ctx context.Context, chatID int64, lang i18n.Lang, args string) {
	sermons, err := b.svc.Sermons(ctx, args, "")
	if err != nil {
		b.log.Error("list sermons", "chat_id", chatID, "error", err)
		b.reply(chatID, b.svc.T(lang, "error.generic"))
		return
	}
	if len(sermons) > maxSermons {
		sermons = sermons[:maxSermons]
	}
	b.reply(chatID, FormatSermons(sermons, b.tr(lang)))
}

func (b *Bot) upcomingEvents() []model.Event {
	now := b.svc.Today()
	var out []model.Event
	for _, e := range b.svc.Events() {
		if e.StartsAt.After(now) {
			out = append(out, e)
		}
	}
	return out
}

func (b *Bot) handleEvents(ctx context.Context, chatID int64, lang i18n.Lang) {
	events := b.upcomingEvents()
	if len(events) == 0 {
		b.reply(chatID, b.svc.T(lang, "events.none"))
		return
	}

	ids, err := b.svc.RSVPs(ctx, ownerKey(chatID))
	if err != nil {
		b.log.Error("list rsvps", "chat_id", chatID, "error", err)
	}
	registered := make(map[string]bool, len(ids))
	for _, id := range ids {
		registered[id] = true
	}

	msg := tgbotapi.NewMessage(chatID, FormatEvents(events, registered, lang, b.tr(lang)))
	msg.DisableWebPagePreview = true
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(events))
	for _, e := range events {
		label := b.svc.T(lang, "rsvp.button")
		if registered[e.ID] {
			label = b.svc.T(lang, "rsvp.cancel_button")
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s: %s", label, e.Title.Get(lang)),
				fmt.Sprintf("%s:%s", cmdRSVP, e.ID),
			),
		))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send events", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleRSVP(ctx context.Context, chatID int64, lang i18n.Lang, args string) {
	id, err := ParseEventID(args)
	if err != nil {
		b.reply(chatID, b.svc.T(lang, "rsvp.usage"))
		return
	}

	res, err := b.svc.ToggleRSVP(ctx, ownerKey(chatID), id)
	if errors.Is(err, service.ErrUnknownEvent) {
		b.reply(chatID, b.svc.T(lang, "rsvp.unknown"))
		return
	}
	if err != nil {
		b.log.Error("toggle rsvp", "chat_id", chatID, "event_id", id, "error", err)
		b.reply(chatID, b.svc.T(lang, "error.generic"))
		return
	}

	key := "rsvp.cancelled"
	if res.Registered {
		key = "rsvp.confirmed"
	}
	b.reply(chatID, fmt.Sprintf(b.svc.T(lang, key), res.Event.Title.Get(lang)))
}

func (b *Bot) handleDevotional(chatID int64, lang i18n.Lang) {
	d, ok := b.svc.Devotional(b.svc.Today())
	if !ok {
		b.reply(chatID, b.svc.T(lang, "error.generic"))
		return
	}
	b.reply(chatID, FormatDevotional(d, b.tr(lang)))
}

func (b *Bot) handleBirthdays(chatID int64, lang i18n.Lang) {
	today := b.svc.Today()
	b.reply(chatID, FormatBirthdays(b.svc.Birthdays(today.Month()), today.Month(), b.tr(lang)))
}

func (b *Bot) handleNotify(ctx context.Context, chatID int64, lang i18n.Lang, args string) {
	owner := ownerKey(chatID)
	if args == "" {
		perm, err := b.svc.Permission(ctx, owner)
		if err != nil {
			b.log.Error("get permission", "chat_id", chatID, "error", err)
			b.reply(chatID, b.svc.T(lang, "error.generic"))
			return
		}
		b.reply(chatID, fmt.Sprintf(b.svc.T(lang, "notify.status"), perm)+"\n"+b.svc.T(lang, "notify.usage"))
		return
	}

	on, err := ParseToggle(args)
	if err != nil {
		b.reply(chatID, b.svc.T(lang, "notify.usage"))
		return
	}
	perm, key := capability.PermissionDenied, "notify.disabled"
	if on {
		perm, key = capability.PermissionGranted, "notify.enabled"
	}
	if err := b.svc.SetPermission(ctx, owner, perm); err != nil {
		b.log.Error("set permission", "chat_id", chatID, "error", err)
		b.reply(chatID, b.svc.T(lang, "error.generic"))
		return
	}
	b.reply(chatID, b.svc.T(lang, key))
}

func (b *Bot) handleReset(chatID int64, lang i18n.Lang) {
	greeting := b.svc.StartChat(ownerKey(chatID), lang)
	text := b.svc.T(lang, "reset.done")
	if len(greeting) > 0 {
		text += "\n\n" + greeting[0].Text
	}
	b.reply(chatID, text)
}

func (b *Bot) handleText(ctx context.Context, chatID int64, text string) {
	lang := b.svc.Language(ctx, ownerKey(chatID))
	_, answer, err := b.svc.Chat(ownerKey(chatID), lang, text)
	if errors.Is(err, conversation.ErrEmptyMessage) {
		return
	}
	if err != nil {
		b.log.Error("chat", "chat_id", chatID, "error", err)
		b.reply(chatID, b.svc.T(lang, "error.generic"))
		return
	}
	b.reply(chatID, answer.Text)
}
