package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/port"
)

// VisitRepository журнал визитов в Postgres. Записи только добавляются.
type VisitRepository struct {
	pool *pgxpool.Pool
}

func NewVisitRepository(pool *pgxpool.Pool) *VisitRepository {
	return &VisitRepository{pool: pool}
}

func (r *VisitRepository) Save(ctx context.Context, visit *entity.Visit) error {
	const query = `
        INSERT INTO visits (id, participant_id, shop_code, latitude, longitude, photo_file_id, photo_file_path, captured_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	id := visit.ID
	if id == "" {
		id = uuid.NewString()
	}

	if _, err := r.pool.Exec(ctx, query,
		id,
		visit.ParticipantID,
		visit.ShopCode,
		visit.Location.Latitude,
		visit.Location.Longitude,
		visit.Photo.FileID,
		visit.Photo.FilePath,
		visit.CapturedAt,
	); err != nil {
		return err
	}

	visit.ID = id
	return nil
}

func (r *VisitRepository) Find(ctx context.Context, filter entity.VisitFilter) ([]entity.Visit, error) {
	query, args := buildVisitQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]entity.Visit, 0)
	for rows.Next() {
		var v entity.Visit
		if err := rows.Scan(
			&v.ID,
			&v.ParticipantID,
			&v.ShopCode,
			&v.Location.Latitude,
			&v.Location.Longitude,
			&v.Photo.FileID,
			&v.Photo.FilePath,
			&v.CapturedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

func buildVisitQuery(filter entity.VisitFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if !filter.From.IsZero() {
		add("captured_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("captured_at <= $%d", filter.To)
	}
	if len(filter.ParticipantIDs) > 0 {
		add("participant_id = ANY($%d)", filter.ParticipantIDs)
	}
	if filter.ShopCode != "" {
		add("shop_code = $%d", filter.ShopCode)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id::text, participant_id, shop_code, latitude, longitude, photo_file_id, photo_file_path, captured_at FROM visits`)
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY captured_at, id")
	return sb.String(), args
}

var _ port.VisitRepository = (*VisitRepository)(nil)
