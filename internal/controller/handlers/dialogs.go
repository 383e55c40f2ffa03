package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/api"
	"github.com/edulane/lessonbot/internal/calendar"
	"github.com/edulane/lessonbot/internal/controller/callbacks/common"
	"github.com/edulane/lessonbot/internal/controller/state"
	"github.com/edulane/lessonbot/internal/model"
	"github.com/edulane/lessonbot/internal/service"
)

// HandleTextMessage routes free text to the chat's active dialog step.
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	if strings.HasPrefix(text, "/") {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "Unknown command. See /help."})
		return
	}

	switch h.stateManager.GetState(chatID) {
	case state.StateLoginEmail:
		h.loginEmailStep(ctx, b, chatID, text)
	case state.StateLoginPassword:
		h.loginPasswordStep(ctx, b, update, text)

	case state.StateRegisterName:
		h.registerNameStep(ctx, b, chatID, text)
	case state.StateRegisterEmail:
		h.registerEmailStep(ctx, b, chatID, text)
	case state.StateRegisterPassword:
		h.registerPasswordStep(ctx, b, update, text)
	case state.StateRegisterRole:
		h.registerRoleStep(ctx, b, chatID, text)
	case state.StateRegisterOrganisation:
		h.registerOrganisationStep(ctx, b, chatID, text)

	case state.StateNewLessonDate:
		h.lessonDateStep(ctx, b, chatID, text)
	case state.StateNewLessonTime:
		h.lessonTimeStep(ctx, b, chatID, text)
	case state.StateNewLessonLocation:
		h.lessonLocationStep(ctx, b, chatID, text)
	case state.StateNewLessonPrice:
		h.lessonPriceStep(ctx, b, chatID, text)
	case state.StateNewLessonStudents:
		h.lessonFilterStep(ctx, b, chatID, text)

	default:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "I wasn't expecting a message. See /help for the commands.",
		})
	}
}

func (h *Handlers) loginEmailStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if !strings.Contains(text, "@") {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "That doesn't look like an email, try again."})
		return
	}
	h.stateManager.SetData(chatID, state.KeyLoginEmail, text)
	h.stateManager.SetState(chatID, state.StateLoginPassword)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Step 2 of 2: your password?\n\nThe message will be deleted right away.",
	})
}

func (h *Handlers) loginPasswordStep(ctx context.Context, b *bot.Bot, update *models.Update, password string) {
	chatID := update.Message.Chat.ID

	// The chat history should not keep the plaintext password.
	b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: update.Message.ID})

	email, _ := h.stringData(chatID, state.KeyLoginEmail)

	token, err := h.auth.Login(ctx, email, password)
	if err != nil {
		h.logger.Warn("login failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.clearDialog(chatID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ " + fetchErrorText(err, "Could not reach the server") + "\n\nTry /login again.",
		})
		return
	}

	if err := h.sessions.Save(ctx, chatID, token); err != nil {
		h.logger.Error("session save failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.clearDialog(chatID)
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ Could not store your session, try /login again."})
		return
	}

	h.clearDialog(chatID)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "✅ Signed in. Try /calendar.",
	})
}

func (h *Handlers) registerNameStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.stateManager.SetData(chatID, state.KeyRegisterName, text)
	h.stateManager.SetState(chatID, state.StateRegisterEmail)
	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "Step 2 of 5: your email?"})
}

func (h *Handlers) registerEmailStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if !strings.Contains(text, "@") {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "That doesn't look like an email, try again."})
		return
	}
	h.stateManager.SetData(chatID, state.KeyRegisterEmail, text)
	h.stateManager.SetState(chatID, state.StateRegisterPassword)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Step 3 of 5: pick a password (6 characters or more).\n\nThe message will be deleted right away.",
	})
}

func (h *Handlers) registerPasswordStep(ctx context.Context, b *bot.Bot, update *models.Update, password string) {
	chatID := update.Message.Chat.ID

	b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: update.Message.ID})

	if len(password) < 6 {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "Too short, 6 characters minimum. Try again."})
		return
	}
	h.stateManager.SetData(chatID, state.KeyRegisterPassword, password)
	h.stateManager.SetState(chatID, state.StateRegisterRole)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Step 4 of 5: are you a teacher or a student?",
	})
}

func (h *Handlers) registerRoleStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	role := model.ParseRole(text)
	if role == model.RoleUnknown {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "Please answer \"teacher\" or \"student\"."})
		return
	}
	h.stateManager.SetData(chatID, state.KeyRegisterRole, string(role))
	h.stateManager.SetState(chatID, state.StateRegisterOrganisation)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Step 5 of 5: your organisation's id? Ask your school's admin if you don't know it.",
	})
}

func (h *Handlers) registerOrganisationStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	orgID, err := strconv.ParseInt(text, 10, 64)
	if err != nil || orgID <= 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "The organisation id is a positive number, try again."})
		return
	}

	name, _ := h.stringData(chatID, state.KeyRegisterName)
	email, _ := h.stringData(chatID, state.KeyRegisterEmail)
	password, _ := h.stringData(chatID, state.KeyRegisterPassword)
	role, _ := h.stringData(chatID, state.KeyRegisterRole)

	err = h.auth.Register(ctx, api.RegisterRequest{
		Name:           name,
		Email:          email,
		Role:           role,
		OrganisationID: orgID,
		Password:       password,
	})
	if err != nil {
		h.logger.Warn("registration failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.clearDialog(chatID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ " + fetchErrorText(err, "Could not reach the server") + "\n\nTry /register again.",
		})
		return
	}

	h.clearDialog(chatID)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "✅ Account created. Check your email for the verification link, then /login.",
	})
}

func (h *Handlers) lessonDateStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, ok := calendar.ParseDate(text); !ok {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "That date didn't parse. Use the form 2024-03-05.",
		})
		return
	}
	h.stateManager.SetData(chatID, state.KeyDraftDate, text)
	h.stateManager.SetState(chatID, state.StateNewLessonTime)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Step 2 of 5: what time? Use the 24-hour form 14:30.",
	})
}

func (h *Handlers) lessonTimeStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := time.Parse("15:04", text); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "That time didn't parse. Use the 24-hour form 14:30.",
		})
		return
	}
	h.stateManager.SetData(chatID, state.KeyDraftTime, text)
	h.stateManager.SetState(chatID, state.StateNewLessonLocation)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Step 3 of 5: where? Room, address or a meeting link.",
	})
}

func (h *Handlers) lessonLocationStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if text == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "The location can't be empty."})
		return
	}
	h.stateManager.SetData(chatID, state.KeyDraftLocation, text)
	h.stateManager.SetState(chatID, state.StateNewLessonPrice)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Step 4 of 5: the price per lesson, for example 19.99.",
	})
}

func (h *Handlers) lessonPriceStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := service.ParsePrice(text); err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "That price didn't parse. A plain number like 19.99, please.",
		})
		return
	}
	h.stateManager.SetData(chatID, state.KeyDraftPrice, text)

	viewer, err := h.viewers.Load(ctx, chatID)
	if err != nil {
		h.clearDialog(chatID)
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: authErrorText(err)})
		return
	}

	directory, err := h.lessons.Students(ctx, viewer.Token)
	if err != nil {
		h.logger.Error("student directory fetch failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.clearDialog(chatID)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ " + fetchErrorText(err, "Could not load the student list") + "\n\nTry /newlesson again.",
		})
		return
	}

	h.stateManager.SetData(chatID, state.KeyDirectory, directory)
	h.stateManager.SetData(chatID, state.KeyDraftStudents, []int64{})
	h.stateManager.SetData(chatID, state.KeyDraftFilter, "")
	h.stateManager.SetData(chatID, state.KeyDraftPage, 0)
	h.stateManager.SetState(chatID, state.StateNewLessonStudents)

	text, kb := common.RenderStudentPicker(h.stateManager, chatID)
	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text, ReplyMarkup: kb})
}

// lessonFilterStep treats free text during the picker step as a filter.
func (h *Handlers) lessonFilterStep(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.stateManager.SetData(chatID, state.KeyDraftFilter, text)
	h.stateManager.SetData(chatID, state.KeyDraftPage, 0)

	screen, kb := common.RenderStudentPicker(h.stateManager, chatID)
	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: screen, ReplyMarkup: kb})
}

func (h *Handlers) stringData(chatID int64, key string) (string, bool) {
	if v, ok := h.stateManager.GetData(chatID, key); ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}
