package storage

import (
	"context"
	"sort"
	"sync"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/port"
)

// MemoryParticipantRepository in-memory хранилище участников
type MemoryParticipantRepository struct {
	mu           sync.RWMutex
	participants map[int64]entity.Participant
}

// NewMemoryParticipantRepository создаёт новое in-memory хранилище
func NewMemoryParticipantRepository() *MemoryParticipantRepository {
	return &MemoryParticipantRepository{
		participants: make(map[int64]entity.Participant),
	}
}

func (r *MemoryParticipantRepository) FindByID(ctx context.Context, id int64) (*entity.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &p, nil
}

func (r *MemoryParticipantRepository) FindByIDs(ctx context.Context, ids []int64) ([]entity.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entity.Participant, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.participants[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *MemoryParticipantRepository) List(ctx context.Context) ([]entity.Participant, error) {
	r.mu.RLock()
	result := make([]entity.Participant, 0, len(r.participants))
	for _, p := range r.participants {
		result = append(result, p)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].RegisteredAt.Equal(result[j].RegisteredAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].RegisteredAt.Before(result[j].RegisteredAt)
	})
	return result, nil
}

func (r *MemoryParticipantRepository) Upsert(ctx context.Context, participant *entity.Participant) error {
	r.mu.Lock()
	r.participants[participant.ID] = *participant
	r.mu.Unlock()
	return nil
}

func (r *MemoryParticipantRepository) SetActive(ctx context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		return entity.ErrNotFound
	}
	p.Active = active
	r.participants[id] = p
	return nil
}

var _ port.ParticipantRepository = (*MemoryParticipantRepository)(nil)
