package app

import (
	"context"
	"time"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/port"
)

// ComplianceService проверяет, все ли сотрудники отметились за сегодня
type ComplianceService struct {
	visits port.VisitRepository
	loc    *time.Location
	now    func() time.Time
}

func NewComplianceService(visits port.VisitRepository, loc *time.Location) *ComplianceService {
	if loc == nil {
		loc = time.Local
	}
	return &ComplianceService{visits: visits, loc: loc, now: time.Now}
}

// AllSubmittedToday true, если у каждого из roster есть визит с полуночи до текущего момента.
// Пустой roster даёт false.
func (s *ComplianceService) AllSubmittedToday(ctx context.Context, roster []int64) (bool, error) {
	if len(roster) == 0 {
		return false, nil
	}

	now := s.now().In(s.loc)
	visits, err := s.visits.Find(ctx, entity.VisitFilter{
		From:           startOfDay(now),
		To:             now,
		ParticipantIDs: roster,
	})
	if err != nil {
		return false, entity.PersistenceFailure("find today's visits", err)
	}

	submitted := make(map[int64]struct{}, len(visits))
	for _, v := range visits {
		submitted[v.ParticipantID] = struct{}{}
	}
	for _, id := range roster {
		if _, ok := submitted[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// Today возвращает полночь текущего дня
func (s *ComplianceService) Today() time.Time {
	return startOfDay(s.now().In(s.loc))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
