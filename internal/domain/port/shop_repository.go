package port

import (
	"context"

	"visit-bot/internal/domain/entity"
)

// ShopRepository интерфейс хранилища торговых точек
type ShopRepository interface {
	// FindByCode возвращает точку или entity.ErrNotFound
	FindByCode(ctx context.Context, code string) (*entity.Shop, error)

	// FindByCodes возвращает найденные точки, отсутствующие пропускаются
	FindByCodes(ctx context.Context, codes []string) ([]entity.Shop, error)

	// Upsert создаёт или заменяет точку
	Upsert(ctx context.Context, shop *entity.Shop) error
}
