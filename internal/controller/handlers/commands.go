package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/api"
	"github.com/edulane/lessonbot/internal/calendar"
	"github.com/edulane/lessonbot/internal/controller/callbacks/common"
	"github.com/edulane/lessonbot/internal/controller/callbacks/common/formatting"
	"github.com/edulane/lessonbot/internal/controller/state"
	"github.com/edulane/lessonbot/internal/model"
	"github.com/edulane/lessonbot/internal/service"
)

const upcomingLimit = 10

// HandleStart greets the chat and lists the commands.
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := fmt.Sprintf(
		"👋 Hi, %s!\n\n"+
			"This bot is a front-end for your school's lesson scheduler.\n\n"+
			"/login - Sign in\n"+
			"/register - Create an account\n"+
			"/calendar - Month view of your lessons\n"+
			"/upcoming - Next %d lessons\n"+
			"/newlesson - Create a lesson (teachers)\n"+
			"/me - Your profile\n"+
			"/logout - Sign out\n"+
			"/help - This list",
		update.Message.From.FirstName, upcomingLimit)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	})
}

// HandleHelp lists the commands.
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := "📚 Commands:\n\n" +
		"/login - Sign in with your email and password\n" +
		"/register - Create an account\n" +
		"/calendar - Month view of your lessons\n" +
		"/upcoming - Next lessons in order\n" +
		"/newlesson - Create a lesson with students (teachers only)\n" +
		"/me - Show your profile\n" +
		"/logout - Sign out\n" +
		"/cancel - Abort the current dialog"

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	})
}

// HandleLogin starts the login dialog.
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	h.stateManager.SetState(chatID, state.StateLoginEmail)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "🔐 Signing in.\n\nStep 1 of 2: what is your email?\n\nUse /cancel to abort.",
	})
}

// HandleLogout discards the stored session.
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if err := h.sessions.Clear(ctx, chatID); err != nil {
		h.logger.Error("logout failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ Could not sign you out, try again."})
		return
	}
	h.stateManager.Clear(chatID)

	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "👋 Signed out."})
}

// HandleRegister starts the registration dialog.
func (h *Handlers) HandleRegister(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	h.stateManager.SetState(chatID, state.StateRegisterName)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "📝 Creating an account.\n\nStep 1 of 5: what is your full name?\n\nUse /cancel to abort.",
	})
}

// HandleMe shows the viewer's profile.
func (h *Handlers) HandleMe(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	viewer, err := h.viewers.Load(ctx, chatID)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: authErrorText(err)})
		return
	}

	p := viewer.Profile
	text := fmt.Sprintf("👤 %s\n📧 %s\n🎓 %s\n🏫 Organisation %d",
		p.Name, p.Email, viewer.Role.Title(), p.OrganisationID)

	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
}

// HandleCalendar runs the whole calendar chain: profile, then the
// role-specific lesson fetch, then the month screen. The fetched list is
// parked in chat state so navigation callbacks can recompute the grid
// without another fetch; re-running /calendar is the retry path.
func (h *Handlers) HandleCalendar(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	viewer, err := h.viewers.Load(ctx, chatID)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) || errors.Is(err, service.ErrSessionExpired) {
			b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: authErrorText(err)})
			return
		}
		// Profile fetch failed for another reason: the grid still renders
		// with whatever lessons were already held, defaulting to empty.
		h.logger.Error("profile fetch failed", zap.Int64("chat_id", chatID), zap.Error(err))
		v, ok := common.LoadViewState(h.stateManager, chatID)
		if !ok {
			v = common.ViewState{Feed: service.Feed{Lessons: []model.Lesson{}}}
		}
		v.Anchor = calendar.MonthStart(time.Now())
		v.Error = fetchErrorText(err, "Network error occurred while loading user info")
		common.SaveViewState(h.stateManager, chatID, v)
		h.sendCalendar(ctx, b, chatID, v)
		return
	}

	v := common.ViewState{
		Role:   viewer.Role,
		Name:   viewer.Profile.Name,
		Anchor: calendar.MonthStart(time.Now()),
	}

	feed, err := h.lessons.Upcoming(ctx, viewer.Token, viewer.Role)
	if err != nil {
		h.logger.Error("lesson fetch failed",
			zap.Int64("chat_id", chatID),
			zap.String("role", string(viewer.Role)),
			zap.Error(err))
		v.Feed = service.Feed{Lessons: []model.Lesson{}}
		v.Error = fetchErrorText(err, "Network error occurred while loading lessons")
	} else {
		v.Feed = feed
	}

	common.SaveViewState(h.stateManager, chatID, v)
	h.sendCalendar(ctx, b, chatID, v)
}

func (h *Handlers) sendCalendar(ctx context.Context, b *bot.Bot, chatID int64, v common.ViewState) {
	img, caption, kb, err := common.RenderCalendar(v, time.Now())
	if err != nil {
		h.logger.Error("calendar render failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "❌ Could not render the calendar."})
		return
	}

	b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileUpload{Filename: "month.png", Data: bytesReader(img)},
		Caption:     caption,
		ReplyMarkup: kb,
	})
}

// HandleUpcoming shows the first lessons of the globally ordered list.
func (h *Handlers) HandleUpcoming(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	viewer, err := h.viewers.Load(ctx, chatID)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: authErrorText(err)})
		return
	}

	feed, err := h.lessons.Upcoming(ctx, viewer.Token, viewer.Role)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⚠️ " + fetchErrorText(err, "Network error occurred while loading lessons"),
		})
		return
	}

	if feed.NotImplemented {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "ℹ️ The lesson list for your role isn’t available on the server yet.",
		})
		return
	}
	if len(feed.Lessons) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "No lessons found."})
		return
	}

	text := fmt.Sprintf("📋 Upcoming (next %d):\n\n", upcomingLimit)
	shown := feed.Lessons
	if len(shown) > upcomingLimit {
		shown = shown[:upcomingLimit]
	}
	for _, l := range shown {
		text += fmt.Sprintf("%s · %s\n📍 %s\n👥 %s · %s\n\n",
			l.Date,
			calendar.FormatClock(l.Time),
			formatting.LocationOrUnknown(l.Location),
			calendar.CounterpartSummary(l, viewer.Role),
			formatting.FormatPrice(l.Price),
		)
	}

	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
}

// HandleNewLesson starts the lesson-creation dialog, teachers only.
func (h *Handlers) HandleNewLesson(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	viewer, err := h.viewers.Load(ctx, chatID)
	if err != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: authErrorText(err)})
		return
	}
	if viewer.Role != model.RoleTeacher {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Only teachers can create lessons.",
		})
		return
	}

	h.stateManager.SetData(chatID, state.KeyViewOrg, viewer.Profile.OrganisationID)
	h.stateManager.SetState(chatID, state.StateNewLessonDate)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: "➕ Creating a lesson.\n\n" +
			"Step 1 of 5: what date? Use the form 2024-03-05.\n\n" +
			"Use /cancel to abort.",
	})
}

// HandleCancel aborts the current dialog, keeping calendar view data.
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if h.stateManager.GetState(chatID) == state.StateNone {
		b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "Nothing to cancel."})
		return
	}

	h.clearDialog(chatID)
	b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: "✅ Cancelled."})
}

// authErrorText maps viewer-resolution failures to user messages.
func authErrorText(err error) string {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return "🔒 No authentication token found. Please log in with /login."
	case errors.Is(err, service.ErrSessionExpired):
		return "🔒 Your session has expired. Please log in again with /login."
	default:
		return "⚠️ " + fetchErrorText(err, "Network error occurred while loading user info")
	}
}

// fetchErrorText extracts the backend's message when the response carried
// one, otherwise falls back to the generic network message.
func fetchErrorText(err error, generic string) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message()
	}
	return generic
}
