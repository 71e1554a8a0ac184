package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/port"
)

const (
	RangeDay  = "day"
	RangeWeek = "week"

	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

var reportColumns = []entity.ReportColumn{
	{Header: "ID сотрудника", Kind: entity.ColumnInteger, Width: 14},
	{Header: "Имя", Kind: entity.ColumnText, Width: 24},
	{Header: "Код точки", Kind: entity.ColumnText, Width: 12},
	{Header: "Точка", Kind: entity.ColumnText, Width: 28},
	{Header: "Время", Kind: entity.ColumnText, Width: 20},
	{Header: "Широта", Kind: entity.ColumnFloat, Width: 12},
	{Header: "Долгота", Kind: entity.ColumnFloat, Width: 12},
	{Header: "Фото", Kind: entity.ColumnText, Width: 40},
	{Header: "Ссылка на фото", Kind: entity.ColumnURL, Width: 60},
}

// ReportService строит выгрузку визитов за период
type ReportService struct {
	visits       port.VisitRepository
	participants port.ParticipantRepository
	shops        port.ShopRepository
	linker       port.MediaLinker
	loc          *time.Location
	now          func() time.Time
}

func NewReportService(
	visits port.VisitRepository,
	participants port.ParticipantRepository,
	shops port.ShopRepository,
	linker port.MediaLinker,
	loc *time.Location,
) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{
		visits:       visits,
		participants: participants,
		shops:        shops,
		linker:       linker,
		loc:          loc,
		now:          time.Now,
	}
}

// ResolveRange переводит аргумент команды report в интервал:
// day - сегодня целиком, week - с понедельника до текущего момента, YYYY-MM-DD - указанный день.
func (s *ReportService) ResolveRange(arg string) (entity.TimeRange, error) {
	now := s.now().In(s.loc)
	arg = strings.TrimSpace(arg)

	switch arg {
	case RangeDay:
		return entity.TimeRange{From: startOfDay(now), To: endOfDay(now)}, nil
	case RangeWeek:
		// воскресенье считаем седьмым днём недели
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := startOfDay(now).AddDate(0, 0, -(weekday - 1))
		return entity.TimeRange{From: monday, To: now}, nil
	}

	day, err := time.ParseInLocation(dateLayout, arg, s.loc)
	if err != nil {
		return entity.TimeRange{}, fmt.Errorf("%w: report range %q", entity.ErrInvalidArgument, arg)
	}
	return entity.TimeRange{From: startOfDay(day), To: endOfDay(day)}, nil
}

// Generate строит документ с визитами за период по возрастанию времени.
// Пустой период даёт документ только с заголовками.
func (s *ReportService) Generate(ctx context.Context, arg string) (*entity.ReportDocument, error) {
	r, err := s.ResolveRange(arg)
	if err != nil {
		return nil, err
	}

	visits, err := s.visits.Find(ctx, entity.VisitFilter{From: r.From, To: r.To})
	if err != nil {
		return nil, entity.PersistenceFailure("find visits", err)
	}

	participants, err := s.participantsByID(ctx, visits)
	if err != nil {
		return nil, err
	}
	shops, err := s.shopsByCode(ctx, visits)
	if err != nil {
		return nil, err
	}

	doc := &entity.ReportDocument{
		Title:   reportTitle(r),
		From:    r.From,
		To:      r.To,
		Columns: reportColumns,
		Rows:    make([][]any, 0, len(visits)),
	}
	for _, v := range visits {
		var p *entity.Participant
		if found, ok := participants[v.ParticipantID]; ok {
			p = &found
		}

		url := ""
		if v.Photo.FilePath != "" && s.linker != nil {
			url = s.linker.FileURL(v.Photo.FilePath)
		}

		doc.Rows = append(doc.Rows, []any{
			v.ParticipantID,
			entity.DisplayNameFor(p, v.ParticipantID),
			v.ShopCode,
			shops[v.ShopCode].Name,
			v.CapturedAt.In(s.loc).Format(timestampLayout),
			v.Location.Latitude,
			v.Location.Longitude,
			v.Photo.FileID,
			url,
		})
	}

	return doc, nil
}

func (s *ReportService) participantsByID(ctx context.Context, visits []entity.Visit) (map[int64]entity.Participant, error) {
	ids := make([]int64, 0)
	seen := make(map[int64]struct{})
	for _, v := range visits {
		if _, ok := seen[v.ParticipantID]; ok {
			continue
		}
		seen[v.ParticipantID] = struct{}{}
		ids = append(ids, v.ParticipantID)
	}

	result := make(map[int64]entity.Participant, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	list, err := s.participants.FindByIDs(ctx, ids)
	if err != nil {
		return nil, entity.PersistenceFailure("find participants", err)
	}
	for _, p := range list {
		result[p.ID] = p
	}
	return result, nil
}

func (s *ReportService) shopsByCode(ctx context.Context, visits []entity.Visit) (map[string]entity.Shop, error) {
	codes := make([]string, 0)
	seen := make(map[string]struct{})
	for _, v := range visits {
		if v.ShopCode == "" {
			continue
		}
		if _, ok := seen[v.ShopCode]; ok {
			continue
		}
		seen[v.ShopCode] = struct{}{}
		codes = append(codes, v.ShopCode)
	}

	result := make(map[string]entity.Shop, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	list, err := s.shops.FindByCodes(ctx, codes)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return nil, entity.PersistenceFailure("find shops", err)
	}
	for _, shop := range list {
		result[shop.Code] = shop
	}
	return result, nil
}

func reportTitle(r entity.TimeRange) string {
	from := r.From.Format(dateLayout)
	to := r.To.Format(dateLayout)
	if from == to {
		return "visits_" + from
	}
	return "visits_" + from + "_" + to
}
