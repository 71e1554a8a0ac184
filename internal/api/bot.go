package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	app "visit-bot/internal/application"
	"visit-bot/internal/container"
	"visit-bot/internal/domain/port"
)

const pollTimeout = 60

// UpdateSource источник входящих обновлений
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot принимает обновления и раскладывает их по очередям участников
type Bot struct {
	source       UpdateSource
	messenger    Messenger
	participants *app.ParticipantService
	visits       *app.VisitService
	reports      *app.ReportService
	shops        *app.ShopService
	metrics      port.Metrics
	logger       *zap.Logger

	dispatcher *dispatcher
	jobs       sync.WaitGroup
}

// NewBot создаёт бота. source может быть nil: бот не опрашивает Telegram (режим BOT_DRY_RUN).
func NewBot(source UpdateSource, messenger Messenger, c *container.Container, metrics port.Metrics, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		source:       source,
		messenger:    messenger,
		participants: c.ParticipantService,
		visits:       c.VisitService,
		reports:      c.ReportService,
		shops:        c.ShopService,
		metrics:      metrics,
		logger:       logger,
		dispatcher:   newDispatcher(),
	}
}

// Run обрабатывает обновления до отмены ctx, затем дожидается начатых обработчиков и отчётов.
func (b *Bot) Run(ctx context.Context) error {
	defer b.wait()

	if b.source == nil {
		b.logger.Info("dry-run mode: updates are not polled")
		<-ctx.Done()
		return nil
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := b.source.GetUpdatesChan(u)
	b.logger.Info("bot is running")

	for {
		select {
		case <-ctx.Done():
			b.source.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	b.dispatcher.Dispatch(msg.From.ID, func() {
		b.handleMessage(ctx, msg)
	})
}

func (b *Bot) wait() {
	b.dispatcher.Wait()
	b.jobs.Wait()
}
