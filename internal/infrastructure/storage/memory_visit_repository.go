package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/port"
)

// MemoryVisitRepository in-memory хранилище визитов
type MemoryVisitRepository struct {
	mu     sync.RWMutex
	visits []entity.Visit

	// SaveErr если задан, Save возвращает его (для тестов)
	SaveErr error
	// FindErr если задан, Find возвращает его (для тестов)
	FindErr error
}

// NewMemoryVisitRepository создаёт новое in-memory хранилище
func NewMemoryVisitRepository() *MemoryVisitRepository {
	return &MemoryVisitRepository{}
}

func (r *MemoryVisitRepository) Save(ctx context.Context, visit *entity.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.SaveErr != nil {
		return r.SaveErr
	}
	if visit.ID == "" {
		visit.ID = uuid.NewString()
	}
	r.visits = append(r.visits, *visit)
	return nil
}

func (r *MemoryVisitRepository) Find(ctx context.Context, filter entity.VisitFilter) ([]entity.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.FindErr != nil {
		return nil, r.FindErr
	}

	result := make([]entity.Visit, 0)
	for _, v := range r.visits {
		if filter.Matches(v) {
			result = append(result, v)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CapturedAt.Before(result[j].CapturedAt)
	})
	return result, nil
}

// All возвращает копию всех сохранённых визитов
func (r *MemoryVisitRepository) All() []entity.Visit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entity.Visit(nil), r.visits...)
}

var _ port.VisitRepository = (*MemoryVisitRepository)(nil)
