package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/port"
)

// ShopRepository справочник торговых точек в Postgres
type ShopRepository struct {
	pool *pgxpool.Pool
}

func NewShopRepository(pool *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{pool: pool}
}

func (r *ShopRepository) FindByCode(ctx context.Context, code string) (*entity.Shop, error) {
	const query = `SELECT code, name FROM shops WHERE code=$1`

	var shop entity.Shop
	err := r.pool.QueryRow(ctx, query, code).Scan(&shop.Code, &shop.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *ShopRepository) FindByCodes(ctx context.Context, codes []string) ([]entity.Shop, error) {
	if len(codes) == 0 {
		return []entity.Shop{}, nil
	}
	const query = `SELECT code, name FROM shops WHERE code = ANY($1) ORDER BY code`

	rows, err := r.pool.Query(ctx, query, codes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]entity.Shop, 0, len(codes))
	for rows.Next() {
		var shop entity.Shop
		if err := rows.Scan(&shop.Code, &shop.Name); err != nil {
			return nil, err
		}
		result = append(result, shop)
	}
	return result, rows.Err()
}

func (r *ShopRepository) Upsert(ctx context.Context, shop *entity.Shop) error {
	const query = `
        INSERT INTO shops (code, name) VALUES ($1,$2)
        ON CONFLICT (code) DO UPDATE SET name=EXCLUDED.name`

	_, err := r.pool.Exec(ctx, query, shop.Code, shop.Name)
	return err
}

var _ port.ShopRepository = (*ShopRepository)(nil)
