package entity

import (
	"slices"
	"time"

	"visit-bot/internal/domain/geo"
)

// Photo ссылка на фото в мессенджере (не сами байты)
type Photo struct {
	FileID    string // идентификатор файла Telegram
	FilePath  string // закэшированный путь файла на сервере Telegram, может быть пустым
	Forwarded bool   // сообщение было переслано
}

// Visit завершённый визит. После сохранения не изменяется.
type Visit struct {
	ID            string
	ParticipantID int64
	ShopCode      string // может быть пустым
	Location      geo.Coordinate
	Photo         Photo
	CapturedAt    time.Time
}

// VisitFilter условия выборки визитов. Границы From и To включаются.
type VisitFilter struct {
	From           time.Time
	To             time.Time
	ParticipantIDs []int64
	ShopCode       string
}

// Matches проверяет визит на соответствие фильтру
func (f VisitFilter) Matches(v Visit) bool {
	if !f.From.IsZero() && v.CapturedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && v.CapturedAt.After(f.To) {
		return false
	}
	if f.ShopCode != "" && v.ShopCode != f.ShopCode {
		return false
	}
	if len(f.ParticipantIDs) > 0 && !slices.Contains(f.ParticipantIDs, v.ParticipantID) {
		return false
	}
	return true
}
