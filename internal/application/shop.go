package app

import (
	"context"
	"strings"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/port"
)

// ShopService справочник торговых точек
type ShopService struct {
	repo         port.ShopRepository
	participants *ParticipantService
}

func NewShopService(repo port.ShopRepository, participants *ParticipantService) *ShopService {
	return &ShopService{repo: repo, participants: participants}
}

// Save добавляет или переименовывает точку. Только для администраторов.
func (s *ShopService) Save(ctx context.Context, actorID int64, code, name string) (*entity.Shop, error) {
	if err := s.participants.Authorize(actorID); err != nil {
		return nil, err
	}

	shop := &entity.Shop{Code: strings.TrimSpace(code), Name: strings.TrimSpace(name)}
	if shop.Code == "" || shop.Name == "" {
		return nil, entity.ErrInvalidArgument
	}
	if err := s.repo.Upsert(ctx, shop); err != nil {
		return nil, entity.PersistenceFailure("save shop", err)
	}
	return shop, nil
}
