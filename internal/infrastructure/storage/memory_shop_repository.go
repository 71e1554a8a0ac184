package storage

import (
	"context"
	"sync"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/port"
)

// MemoryShopRepository in-memory хранилище точек
type MemoryShopRepository struct {
	mu    sync.RWMutex
	shops map[string]entity.Shop
}

// NewMemoryShopRepository создаёт хранилище с начальным набором точек
func NewMemoryShopRepository(shops ...entity.Shop) *MemoryShopRepository {
	r := &MemoryShopRepository{shops: make(map[string]entity.Shop, len(shops))}
	for _, s := range shops {
		r.shops[s.Code] = s
	}
	return r
}

func (r *MemoryShopRepository) FindByCode(ctx context.Context, code string) (*entity.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shops[code]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &s, nil
}

func (r *MemoryShopRepository) FindByCodes(ctx context.Context, codes []string) ([]entity.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entity.Shop, 0, len(codes))
	for _, code := range codes {
		if s, ok := r.shops[code]; ok {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *MemoryShopRepository) Upsert(ctx context.Context, shop *entity.Shop) error {
	r.mu.Lock()
	r.shops[shop.Code] = *shop
	r.mu.Unlock()
	return nil
}

var _ port.ShopRepository = (*MemoryShopRepository)(nil)
