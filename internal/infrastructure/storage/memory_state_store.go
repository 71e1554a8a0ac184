package storage

import (
	"context"
	"sync"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/port"
)

// MemoryStateStore in-memory хранилище состояний диалогов.
// Состояния теряются при перезапуске процесса.
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[int64]entity.ConversationState

	locksMu sync.Mutex
	locks   map[int64]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewMemoryStateStore создаёт пустое хранилище
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		states: make(map[int64]entity.ConversationState),
		locks:  make(map[int64]*keyLock),
	}
}

// Get возвращает текущее состояние участника
func (s *MemoryStateStore) Get(ctx context.Context, participantID int64) (entity.ConversationState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[participantID]
	return state, ok
}

// Set заменяет состояние участника
func (s *MemoryStateStore) Set(ctx context.Context, participantID int64, state entity.ConversationState) {
	if state == nil {
		s.Clear(ctx, participantID)
		return
	}

	s.mu.Lock()
	s.states[participantID] = state
	s.mu.Unlock()
}

// Clear удаляет состояние участника
func (s *MemoryStateStore) Clear(ctx context.Context, participantID int64) {
	s.mu.Lock()
	delete(s.states, participantID)
	s.mu.Unlock()
}

// Acquire захватывает блокировку ключа участника. Разные участники друг друга не ждут.
func (s *MemoryStateStore) Acquire(participantID int64) func() {
	s.locksMu.Lock()
	l, ok := s.locks[participantID]
	if !ok {
		l = &keyLock{}
		s.locks[participantID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()

			s.locksMu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(s.locks, participantID)
			}
			s.locksMu.Unlock()
		})
	}
}

// Len возвращает количество активных диалогов
func (s *MemoryStateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

// Проверка реализации интерфейса
var _ port.StateStore = (*MemoryStateStore)(nil)
