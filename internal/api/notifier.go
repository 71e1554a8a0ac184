package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"visit-bot/internal/domain/port"
)

// AdminNotifier рассылает уведомления администраторам в личные чаты
type AdminNotifier struct {
	messenger Messenger
	admins    []int64
	logger    *zap.Logger
}

func NewAdminNotifier(messenger Messenger, admins []int64, logger *zap.Logger) *AdminNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminNotifier{
		messenger: messenger,
		admins:    append([]int64(nil), admins...),
		logger:    logger,
	}
}

// NotifyAllSubmitted отправляет уведомление каждому администратору.
// Ошибка одного получателя не мешает остальным.
func (n *AdminNotifier) NotifyAllSubmitted(ctx context.Context, day time.Time, rosterSize int) error {
	text := fmt.Sprintf(msgAllSubmitted, rosterSize, day.Format("02.01.2006"))

	var errs []error
	for _, id := range n.admins {
		if err := n.messenger.SendText(ctx, id, text); err != nil {
			n.logger.Warn("admin notice not delivered", zap.Int64("admin_id", id), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ port.Notifier = (*AdminNotifier)(nil)
