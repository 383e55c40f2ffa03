package callbacks

import (
	"bytes"
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/calendar"
	"github.com/edulane/lessonbot/internal/controller/callbacks/common"
)

const viewGoneText = "The calendar went stale. Open it again with /calendar."

// calendarNav switches the viewed month. The lessons held in chat state
// are rebucketed for the new month; nothing is refetched.
func (c *Callbacks) calendarNav(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery, arg string) {
	anchor, err := time.ParseInLocation("2006-01", arg, time.Local)
	if err != nil {
		c.logger.Warn("bad month in callback", zap.String("arg", arg), zap.Error(err))
		common.AnswerCallback(ctx, b, cb.ID, "")
		return
	}
	c.showMonth(ctx, b, cb, anchor)
}

func (c *Callbacks) calendarToday(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery) {
	c.showMonth(ctx, b, cb, calendar.MonthStart(time.Now()))
}

// calendarMonth returns from the day detail back to the month screen.
func (c *Callbacks) calendarMonth(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(cb)
	if msg == nil {
		common.AnswerCallback(ctx, b, cb.ID, "")
		return
	}

	v, ok := common.LoadViewState(c.stateManager, msg.Chat.ID)
	if !ok {
		common.AnswerCallbackAlert(ctx, b, cb.ID, viewGoneText)
		return
	}

	common.AnswerCallback(ctx, b, cb.ID, "")
	c.replaceWithMonth(ctx, b, msg, v)
}

func (c *Callbacks) showMonth(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery, anchor time.Time) {
	msg := common.GetMessageFromCallback(cb)
	if msg == nil {
		common.AnswerCallback(ctx, b, cb.ID, "")
		return
	}
	chatID := msg.Chat.ID

	v, ok := common.LoadViewState(c.stateManager, chatID)
	if !ok {
		common.AnswerCallbackAlert(ctx, b, cb.ID, viewGoneText)
		return
	}

	// Only the anchor moves; the feed and any banner belong to the last
	// fetch and stay until a fresh /calendar replaces them.
	v.Anchor = anchor
	common.SaveViewState(c.stateManager, chatID, v)

	common.AnswerCallback(ctx, b, cb.ID, "")
	c.replaceWithMonth(ctx, b, msg, v)
}

// replaceWithMonth sends a fresh month screen and removes the old message.
// Telegram does not let a photo be edited into another photo reliably, so
// screens are replaced, not edited.
func (c *Callbacks) replaceWithMonth(ctx context.Context, b *bot.Bot, msg *models.Message, v common.ViewState) {
	img, caption, kb, err := common.RenderCalendar(v, time.Now())
	if err != nil {
		c.logger.Error("calendar render failed", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      msg.Chat.ID,
		Photo:       &models.InputFileUpload{Filename: "month.png", Data: bytes.NewReader(img)},
		Caption:     caption,
		ReplyMarkup: kb,
	})
	if err != nil {
		c.logger.Error("send month screen failed", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		return
	}

	b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	})
}

// calendarDay opens the detail list for one day of the viewed month.
func (c *Callbacks) calendarDay(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery, dateKey string) {
	msg := common.GetMessageFromCallback(cb)
	if msg == nil {
		common.AnswerCallback(ctx, b, cb.ID, "")
		return
	}
	chatID := msg.Chat.ID

	v, ok := common.LoadViewState(c.stateManager, chatID)
	if !ok {
		common.AnswerCallbackAlert(ctx, b, cb.ID, viewGoneText)
		return
	}

	common.AnswerCallback(ctx, b, cb.ID, "")

	text, kb := common.RenderDay(v, dateKey)
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		c.logger.Error("send day screen failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}

	b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: msg.ID,
	})
}
