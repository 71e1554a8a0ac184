package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/port"
)

const (
	noticeKeyPrefix = "visitbot:notice:"
	// ключ содержит дату, TTL с запасом больше суток
	noticeTTL = 36 * time.Hour
)

// NoticeGuard пропускает уведомление один раз на ключ через SET NX
type NoticeGuard struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewNoticeGuard(client *goredis.Client) *NoticeGuard {
	return &NoticeGuard{client: client, ttl: noticeTTL}
}

func (g *NoticeGuard) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, noticeKeyPrefix+key, time.Now().Unix(), g.ttl).Result()
	if err != nil {
		return false, entity.PersistenceFailure("acquire notice key", err)
	}
	return ok, nil
}

var _ port.NoticeGuard = (*NoticeGuard)(nil)
