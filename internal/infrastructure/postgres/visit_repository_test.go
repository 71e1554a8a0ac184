package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"visit-bot/internal/domain/entity"
)

func TestBuildVisitQuery(t *testing.T) {
	from := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	to := from.Add(24*time.Hour - time.Millisecond)

	tests := []struct {
		name      string
		filter    entity.VisitFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no conditions",
			filter:    entity.VisitFilter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "time range",
			filter:    entity.VisitFilter{From: from, To: to},
			wantWhere: " WHERE captured_at >= $1 AND captured_at <= $2",
			wantArgs:  []any{from, to},
		},
		{
			name:      "all conditions",
			filter:    entity.VisitFilter{From: from, ParticipantIDs: []int64{1, 2}, ShopCode: "SHOP1"},
			wantWhere: " WHERE captured_at >= $1 AND participant_id = ANY($2) AND shop_code = $3",
			wantArgs:  []any{from, []int64{1, 2}, "SHOP1"},
		},
	}

	const head = `SELECT id::text, participant_id, shop_code, latitude, longitude, photo_file_id, photo_file_path, captured_at FROM visits`
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildVisitQuery(tt.filter)
			assert.Equal(t, head+tt.wantWhere+" ORDER BY captured_at, id", query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
