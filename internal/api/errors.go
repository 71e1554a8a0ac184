package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"visit-bot/internal/domain/entity"
)

// handleError логирует ошибку и отвечает пользователю понятным текстом
func (b *Bot) handleError(ctx context.Context, msg *tgbotapi.Message, err error) {
	if isFailure(err) {
		b.logFailure(msg, err)
	} else {
		b.logger.Debug("input rejected",
			zap.Int64("participant_id", msg.From.ID),
			zap.String("command", msg.Command()),
			zap.Error(err),
		)
	}
	b.reply(ctx, msg, replyForError(err))
}

func (b *Bot) logFailure(msg *tgbotapi.Message, err error) {
	b.logger.Error("request failed",
		zap.Int64("participant_id", msg.From.ID),
		zap.String("command", msg.Command()),
		zap.Time("at", time.Now()),
		zap.Error(err),
	)
}

func isFailure(err error) bool {
	return errors.Is(err, entity.ErrPersistence) || errors.Is(err, entity.ErrTransport)
}

// replyForError переводит ошибку в текст ответа
func replyForError(err error) string {
	var seq *entity.OutOfSequenceError
	if errors.As(err, &seq) {
		switch seq.Expected {
		case entity.InputPhoto:
			return msgExpectPhoto
		case entity.InputLocation:
			return msgExpectLocation
		case entity.InputText:
			return msgExpectIdentifier
		default:
			return msgExpectCommand
		}
	}

	var fence *entity.OutOfFenceError
	if errors.As(err, &fence) {
		return fmt.Sprintf(msgOutOfFence, fence.DistanceMeters/1000, fence.RadiusMeters/1000)
	}

	switch {
	case errors.Is(err, entity.ErrForwardedMedia):
		return msgForwarded
	case errors.Is(err, entity.ErrNotRegistered):
		return msgNotRegistered
	case errors.Is(err, entity.ErrDeactivated):
		return msgDeactivated
	case errors.Is(err, entity.ErrUnauthorized):
		return msgUnauthorized
	case errors.Is(err, entity.ErrInvalidArgument):
		return msgInvalidArgument
	case errors.Is(err, entity.ErrNotFound):
		return msgNotFound
	case errors.Is(err, entity.ErrOutOfSequence):
		return msgExpectCommand
	default:
		return msgInternalError
	}
}
