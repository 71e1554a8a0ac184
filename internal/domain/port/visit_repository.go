package port

import (
	"context"

	"visit-bot/internal/domain/entity"
)

// VisitRepository интерфейс хранилища визитов. Визиты только добавляются.
type VisitRepository interface {
	// Save сохраняет новый визит и заполняет visit.ID
	Save(ctx context.Context, visit *entity.Visit) error

	// Find возвращает визиты по фильтру по возрастанию времени
	Find(ctx context.Context, filter entity.VisitFilter) ([]entity.Visit, error)
}
