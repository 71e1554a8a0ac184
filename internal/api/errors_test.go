package telegram

import (
	"errors"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"visit-bot/internal/domain/entity"
)

func TestReplyForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"expects command", &entity.OutOfSequenceError{Expected: entity.InputCommand, Got: entity.InputPhoto}, msgExpectCommand},
		{"expects photo", &entity.OutOfSequenceError{Expected: entity.InputPhoto, Got: entity.InputText}, msgExpectPhoto},
		{"expects location", &entity.OutOfSequenceError{Expected: entity.InputLocation, Got: entity.InputPhoto}, msgExpectLocation},
		{"expects identifier", &entity.OutOfSequenceError{Expected: entity.InputText, Got: entity.InputPhoto}, msgExpectIdentifier},
		{"out of fence", &entity.OutOfFenceError{DistanceMeters: 12500, RadiusMeters: 10000}, fmt.Sprintf(msgOutOfFence, 12.5, 10.0)},
		{"forwarded", entity.ErrForwardedMedia, msgForwarded},
		{"not registered", entity.ErrNotRegistered, msgNotRegistered},
		{"deactivated", entity.ErrDeactivated, msgDeactivated},
		{"unauthorized", entity.ErrUnauthorized, msgUnauthorized},
		{"invalid argument", fmt.Errorf("%w: x", entity.ErrInvalidArgument), msgInvalidArgument},
		{"not found", entity.ErrNotFound, msgNotFound},
		{"persistence", entity.PersistenceFailure("save visit", errors.New("boom")), msgInternalError},
		{"transport", entity.TransportFailure("send", errors.New("boom")), msgInternalError},
		{"unknown", errors.New("boom"), msgInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, replyForError(tt.err))
		})
	}
}

func TestIsFailure(t *testing.T) {
	assert.True(t, isFailure(entity.PersistenceFailure("op", errors.New("x"))))
	assert.True(t, isFailure(entity.TransportFailure("op", errors.New("x"))))
	assert.False(t, isFailure(entity.ErrOutOfFence))
}

func TestIsForwarded(t *testing.T) {
	tests := []struct {
		name string
		msg  tgbotapi.Message
		want bool
	}{
		{"own photo", tgbotapi.Message{}, false},
		{"from user", tgbotapi.Message{ForwardFrom: &tgbotapi.User{ID: 1}}, true},
		{"from channel", tgbotapi.Message{ForwardFromChat: &tgbotapi.Chat{ID: -100}}, true},
		{"hidden sender", tgbotapi.Message{ForwardSenderName: "Someone"}, true},
		{"date only", tgbotapi.Message{ForwardDate: 1700000000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isForwarded(&tt.msg))
		})
	}
}
