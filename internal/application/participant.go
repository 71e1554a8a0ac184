package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"visit-bot/config"
	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/port"
)

// ParticipantService регистрация участников и управление списком сотрудников
type ParticipantService struct {
	repo   port.ParticipantRepository
	access config.Access
	now    func() time.Time
}

func NewParticipantService(repo port.ParticipantRepository, access config.Access) *ParticipantService {
	return &ParticipantService{repo: repo, access: access, now: time.Now}
}

// Get возвращает участника; entity.ErrNotRegistered если его нет.
func (s *ParticipantService) Get(ctx context.Context, id int64) (*entity.Participant, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, entity.ErrNotRegistered
	}
	if err != nil {
		return nil, entity.PersistenceFailure("find participant", err)
	}
	return p, nil
}

// Register создаёт участника по тексту, который он прислал при регистрации.
// Роль определяется списком администраторов из конфигурации.
func (s *ParticipantService) Register(ctx context.Context, id int64, profile entity.Profile, identifier string) (*entity.Participant, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, entity.ErrInvalidArgument
	}

	role := entity.RoleEmployee
	if s.access.IsAdmin(id) {
		role = entity.RoleAdmin
	}

	p := entity.NewParticipant(id, profile, identifier, role, s.now())
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, entity.PersistenceFailure("save participant", err)
	}
	return p, nil
}

// IsAdmin проверяет права администратора
func (s *ParticipantService) IsAdmin(id int64) bool {
	return s.access.IsAdmin(id)
}

// Authorize возвращает entity.ErrUnauthorized для не-администраторов
func (s *ParticipantService) Authorize(actorID int64) error {
	if !s.access.IsAdmin(actorID) {
		return entity.ErrUnauthorized
	}
	return nil
}

// List возвращает всех участников. Только для администраторов.
func (s *ParticipantService) List(ctx context.Context, actorID int64) ([]entity.Participant, error) {
	if err := s.Authorize(actorID); err != nil {
		return nil, err
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, entity.PersistenceFailure("list participants", err)
	}
	return list, nil
}

// SetActive включает или отключает участника. Только для администраторов.
func (s *ParticipantService) SetActive(ctx context.Context, actorID, targetID int64, active bool) error {
	if err := s.Authorize(actorID); err != nil {
		return err
	}

	err := s.repo.SetActive(ctx, targetID, active)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.ErrNotFound
	}
	if err != nil {
		return entity.PersistenceFailure("set participant active", err)
	}
	return nil
}

// Roster возвращает сотрудников, которые должны отмечаться каждый день.
// Отключенные участники из списка исключаются, ещё не зарегистрированные остаются.
func (s *ParticipantService) Roster(ctx context.Context) ([]int64, error) {
	if len(s.access.EmployeeIDs) == 0 {
		return nil, nil
	}

	known, err := s.repo.FindByIDs(ctx, s.access.EmployeeIDs)
	if err != nil {
		return nil, entity.PersistenceFailure("find roster participants", err)
	}
	inactive := make(map[int64]struct{})
	for _, p := range known {
		if !p.Active {
			inactive[p.ID] = struct{}{}
		}
	}

	roster := make([]int64, 0, len(s.access.EmployeeIDs))
	for _, id := range s.access.EmployeeIDs {
		if _, ok := inactive[id]; !ok {
			roster = append(roster, id)
		}
	}
	return roster, nil
}
