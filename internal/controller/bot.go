package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/controller/callbacks"
	"github.com/edulane/lessonbot/internal/controller/handlers"
	"github.com/edulane/lessonbot/internal/controller/state"
	"github.com/edulane/lessonbot/internal/service"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Callbacks
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	auth handlers.AuthAPI,
	sessions *service.SessionService,
	viewers *service.ViewerService,
	lessons *service.LessonService,
	logger *zap.Logger,
) *BotController {
	// Commands, dialogs and callbacks share one state manager: the
	// calendar view parked by /calendar must be visible to the buttons.
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(auth, sessions, viewers, lessons, stateManager, logger)
	callbackHandler := callbacks.NewCallbacks(sessions, lessons, stateManager, logger)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers wires commands, dialog text and inline buttons.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypeExact, c.handlers.HandleLogin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypeExact, c.handlers.HandleLogout)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/register", bot.MatchTypeExact, c.handlers.HandleRegister)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/me", bot.MatchTypeExact, c.handlers.HandleMe)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/calendar", bot.MatchTypeExact, c.handlers.HandleCalendar)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/upcoming", bot.MatchTypeExact, c.handlers.HandleUpcoming)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/newlesson", bot.MatchTypeExact, c.handlers.HandleNewLesson)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Free text feeds the active dialog, if any.
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Inline buttons.
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands fills the bot's command menu.
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Get started"},
		{Command: "calendar", Description: "📅 Month view of your lessons"},
		{Command: "upcoming", Description: "📋 Next lessons"},
		{Command: "newlesson", Description: "➕ Create a lesson (teacher)"},
		{Command: "me", Description: "👤 Your profile"},
		{Command: "login", Description: "🔐 Sign in"},
		{Command: "register", Description: "📝 Create an account"},
		{Command: "logout", Description: "👋 Sign out"},
		{Command: "help", Description: "❓ Command reference"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start runs the long-polling loop until the context is cancelled.
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
