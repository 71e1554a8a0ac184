package port

import (
	"context"

	"visit-bot/internal/domain/entity"
)

// ParticipantRepository интерфейс хранилища участников
type ParticipantRepository interface {
	// FindByID возвращает участника или entity.ErrNotFound
	FindByID(ctx context.Context, id int64) (*entity.Participant, error)

	// FindByIDs возвращает найденных участников, отсутствующие пропускаются
	FindByIDs(ctx context.Context, ids []int64) ([]entity.Participant, error)

	// List возвращает всех участников по дате регистрации
	List(ctx context.Context) ([]entity.Participant, error)

	// Upsert создаёт или заменяет участника
	Upsert(ctx context.Context, participant *entity.Participant) error

	// SetActive меняет флаг активности, entity.ErrNotFound если участника нет
	SetActive(ctx context.Context, id int64, active bool) error
}
