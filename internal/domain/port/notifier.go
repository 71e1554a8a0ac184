package port

import (
	"context"
	"time"
)

// Notifier рассылает уведомления администраторам
type Notifier interface {
	// NotifyAllSubmitted сообщает, что все сотрудники из списка отметились за день
	NotifyAllSubmitted(ctx context.Context, day time.Time, rosterSize int) error
}

// MediaLinker строит URL для скачивания файла по закэшированному пути
type MediaLinker interface {
	FileURL(filePath string) string
}

// NoticeGuard пропускает уведомление только один раз на ключ
type NoticeGuard interface {
	// Acquire возвращает true, если уведомление с этим ключом ещё не отправлялось
	Acquire(ctx context.Context, key string) (bool, error)
}
