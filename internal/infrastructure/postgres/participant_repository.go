package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/port"
)

const participantColumns = `id, first_name, last_name, username, full_name, employee_code, role, active, registered_at`

// ParticipantRepository хранилище участников в Postgres
type ParticipantRepository struct {
	pool *pgxpool.Pool
}

func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

func (r *ParticipantRepository) FindByID(ctx context.Context, id int64) (*entity.Participant, error) {
	const query = `SELECT ` + participantColumns + ` FROM participants WHERE id=$1`

	p, err := scanParticipant(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ParticipantRepository) FindByIDs(ctx context.Context, ids []int64) ([]entity.Participant, error) {
	if len(ids) == 0 {
		return []entity.Participant{}, nil
	}
	const query = `SELECT ` + participantColumns + ` FROM participants WHERE id = ANY($1) ORDER BY id`

	return r.queryParticipants(ctx, query, ids)
}

func (r *ParticipantRepository) List(ctx context.Context) ([]entity.Participant, error) {
	const query = `SELECT ` + participantColumns + ` FROM participants ORDER BY registered_at, id`

	return r.queryParticipants(ctx, query)
}

func (r *ParticipantRepository) Upsert(ctx context.Context, p *entity.Participant) error {
	const query = `
        INSERT INTO participants (` + participantColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (id) DO UPDATE SET
            first_name=EXCLUDED.first_name,
            last_name=EXCLUDED.last_name,
            username=EXCLUDED.username,
            full_name=EXCLUDED.full_name,
            employee_code=EXCLUDED.employee_code,
            role=EXCLUDED.role,
            active=EXCLUDED.active,
            registered_at=EXCLUDED.registered_at`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.FirstName,
		p.LastName,
		p.Username,
		p.FullName,
		p.EmployeeCode,
		string(p.Role),
		p.Active,
		p.RegisteredAt,
	)
	return err
}

func (r *ParticipantRepository) SetActive(ctx context.Context, id int64, active bool) error {
	const query = `UPDATE participants SET active=$1 WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *ParticipantRepository) queryParticipants(ctx context.Context, query string, args ...any) ([]entity.Participant, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]entity.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func scanParticipant(row pgx.Row) (*entity.Participant, error) {
	var (
		p    entity.Participant
		role string
	)
	if err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Username,
		&p.FullName,
		&p.EmployeeCode,
		&role,
		&p.Active,
		&p.RegisteredAt,
	); err != nil {
		return nil, err
	}
	p.Role = entity.Role(role)
	return &p, nil
}

var _ port.ParticipantRepository = (*ParticipantRepository)(nil)
