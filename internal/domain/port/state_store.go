package port

import (
	"context"

	"visit-bot/internal/domain/entity"
)

// StateStore хранит текущее состояние диалога каждого участника
type StateStore interface {
	// Get возвращает состояние, ok=false если диалога нет
	Get(ctx context.Context, participantID int64) (entity.ConversationState, bool)

	// Set полностью заменяет состояние
	Set(ctx context.Context, participantID int64, state entity.ConversationState)

	// Clear удаляет состояние
	Clear(ctx context.Context, participantID int64)

	// Acquire блокирует ключ участника; release нужно вызвать ровно один раз
	Acquire(participantID int64) (release func())
}
