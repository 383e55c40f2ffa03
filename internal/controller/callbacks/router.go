// Package callbacks handles inline keyboard presses: calendar navigation
// and the student picker of the lesson-creation dialog.
package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/edulane/lessonbot/internal/controller/callbacks/common"
	"github.com/edulane/lessonbot/internal/controller/state"
	"github.com/edulane/lessonbot/internal/service"
)

type Callbacks struct {
	sessions     *service.SessionService
	lessons      *service.LessonService
	stateManager *state.Manager
	logger       *zap.Logger
}

func NewCallbacks(
	sessions *service.SessionService,
	lessons *service.LessonService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Callbacks {
	return &Callbacks{
		sessions:     sessions,
		lessons:      lessons,
		stateManager: stateManager,
		logger:       logger,
	}
}

// HandleCallbackQuery dispatches a button press by its callback data.
func (c *Callbacks) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	cb := update.CallbackQuery
	data := cb.Data

	switch {
	case strings.HasPrefix(data, common.CalNavPrefix):
		c.calendarNav(ctx, b, cb, common.CallbackArg(data, common.CalNavPrefix))
	case data == common.CalToday:
		c.calendarToday(ctx, b, cb)
	case strings.HasPrefix(data, common.CalDayPrefix):
		c.calendarDay(ctx, b, cb, common.CallbackArg(data, common.CalDayPrefix))
	case data == common.CalMonth:
		c.calendarMonth(ctx, b, cb)

	case strings.HasPrefix(data, common.NLTogglePrefix):
		c.pickerToggle(ctx, b, cb)
	case strings.HasPrefix(data, common.NLPagePrefix):
		c.pickerPage(ctx, b, cb, common.CallbackArg(data, common.NLPagePrefix))
	case data == common.NLSubmit:
		c.pickerSubmit(ctx, b, cb)
	case data == common.NLCancel:
		c.pickerCancel(ctx, b, cb)

	case data == common.Noop:
		common.AnswerCallback(ctx, b, cb.ID, "")

	default:
		c.logger.Warn("unknown callback data", zap.String("data", data))
		common.AnswerCallback(ctx, b, cb.ID, "")
	}
}
