package callbacks

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/calendar"
	"github.com/edulane/lessonbot/internal/controller/callbacks/common"
	"github.com/edulane/lessonbot/internal/controller/callbacks/common/formatting"
	"github.com/edulane/lessonbot/internal/controller/state"
	"github.com/edulane/lessonbot/internal/service"
)

const pickerGoneText = "The dialog ended. Start over with /newlesson."

// pickerToggle flips one student in the selection and redraws the picker.
func (c *Callbacks) pickerToggle(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(cb)
	if msg == nil || !c.pickerActive(msg.Chat.ID) {
		common.AnswerCallbackAlert(ctx, b, cb.ID, pickerGoneText)
		return
	}

	id, err := common.ParseIDFromCallback(cb.Data)
	if err != nil {
		c.logger.Warn("bad toggle callback", zap.String("data", cb.Data), zap.Error(err))
		common.AnswerCallback(ctx, b, cb.ID, "")
		return
	}

	common.ToggleStudent(c.stateManager, msg.Chat.ID, id)
	common.AnswerCallback(ctx, b, cb.ID, "")
	c.redrawPicker(ctx, b, msg)
}

func (c *Callbacks) pickerPage(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery, arg string) {
	msg := common.GetMessageFromCallback(cb)
	if msg == nil || !c.pickerActive(msg.Chat.ID) {
		common.AnswerCallbackAlert(ctx, b, cb.ID, pickerGoneText)
		return
	}

	page, err := strconv.Atoi(arg)
	if err != nil || page < 0 {
		common.AnswerCallback(ctx, b, cb.ID, "")
		return
	}

	c.stateManager.SetData(msg.Chat.ID, state.KeyDraftPage, page)
	common.AnswerCallback(ctx, b, cb.ID, "")
	c.redrawPicker(ctx, b, msg)
}

// pickerSubmit assembles the draft from the dialog's scratch data and
// creates the lesson.
func (c *Callbacks) pickerSubmit(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(cb)
	if msg == nil || !c.pickerActive(msg.Chat.ID) {
		common.AnswerCallbackAlert(ctx, b, cb.ID, pickerGoneText)
		return
	}
	chatID := msg.Chat.ID

	selected := common.SelectedStudents(c.stateManager, chatID)
	if len(selected) == 0 {
		common.AnswerCallbackAlert(ctx, b, cb.ID, "Pick at least one student.")
		return
	}

	token, ok, err := c.sessions.Token(ctx, chatID)
	if err != nil || !ok {
		common.AnswerCallbackAlert(ctx, b, cb.ID, "Your session is gone. Log in again with /login.")
		return
	}

	draft := service.LessonDraft{
		Date:           c.stringData(chatID, state.KeyDraftDate),
		Time:           c.stringData(chatID, state.KeyDraftTime),
		Location:       c.stringData(chatID, state.KeyDraftLocation),
		PriceText:      c.stringData(chatID, state.KeyDraftPrice),
		OrganisationID: c.orgData(chatID),
		StudentIDs:     selected,
	}

	lesson, err := c.lessons.Create(ctx, token, draft)
	if err != nil {
		c.logger.Error("lesson create failed", zap.Int64("chat_id", chatID), zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, cb.ID, "Could not create the lesson: "+err.Error())
		return
	}

	c.stateManager.ResetDialog(chatID)
	common.AnswerCallback(ctx, b, cb.ID, "Lesson created")

	text := fmt.Sprintf("✅ Lesson created.\n\n%s · %s\n📍 %s\n👥 %d student(s) · %s\n\n"+
		"Run /calendar to refresh the month view.",
		lesson.Date,
		calendar.FormatClock(lesson.Time),
		formatting.LocationOrUnknown(lesson.Location),
		len(selected),
		formatting.FormatPrice(lesson.Price),
	)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: msg.ID,
		Text:      text,
	})
}

func (c *Callbacks) pickerCancel(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery) {
	msg := common.GetMessageFromCallback(cb)
	if msg == nil {
		common.AnswerCallback(ctx, b, cb.ID, "")
		return
	}

	c.stateManager.ResetDialog(msg.Chat.ID)
	common.AnswerCallback(ctx, b, cb.ID, "")
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      "✅ Cancelled.",
	})
}

func (c *Callbacks) redrawPicker(ctx context.Context, b *bot.Bot, msg *models.Message) {
	text, kb := common.RenderStudentPicker(c.stateManager, msg.Chat.ID)
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		c.logger.Error("picker redraw failed", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

func (c *Callbacks) pickerActive(chatID int64) bool {
	return c.stateManager.GetState(chatID) == state.StateNewLessonStudents
}

func (c *Callbacks) stringData(chatID int64, key string) string {
	if v, ok := c.stateManager.GetData(chatID, key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (c *Callbacks) orgData(chatID int64) int64 {
	if v, ok := c.stateManager.GetData(chatID, state.KeyViewOrg); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
