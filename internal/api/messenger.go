package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/port"
)

// Messenger исходящие вызовы к мессенджеру
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, name string, data []byte) error
	// ResolveFilePath возвращает путь файла на сервере мессенджера
	ResolveFilePath(ctx context.Context, fileID string) (string, error)
}

// APIMessenger отправляет сообщения через Bot API
type APIMessenger struct {
	api *tgbotapi.BotAPI
}

func NewAPIMessenger(api *tgbotapi.BotAPI) *APIMessenger {
	return &APIMessenger{api: api}
}

func (m *APIMessenger) SendText(_ context.Context, chatID int64, text string) error {
	if _, err := m.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return entity.TransportFailure("send message", err)
	}
	return nil
}

func (m *APIMessenger) SendDocument(_ context.Context, chatID int64, name string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	if _, err := m.api.Send(doc); err != nil {
		return entity.TransportFailure("send document", err)
	}
	return nil
}

func (m *APIMessenger) ResolveFilePath(_ context.Context, fileID string) (string, error) {
	file, err := m.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", entity.TransportFailure("get file", err)
	}
	return file.FilePath, nil
}

// DryRunMessenger только пишет исходящие сообщения в лог
type DryRunMessenger struct {
	logger *zap.Logger
}

func NewDryRunMessenger(logger *zap.Logger) *DryRunMessenger {
	return &DryRunMessenger{logger: logger}
}

func (m *DryRunMessenger) SendText(_ context.Context, chatID int64, text string) error {
	m.logger.Info("dry-run send message", zap.Int64("chat_id", chatID), zap.String("text", text))
	return nil
}

func (m *DryRunMessenger) SendDocument(_ context.Context, chatID int64, name string, data []byte) error {
	m.logger.Info("dry-run send document",
		zap.Int64("chat_id", chatID),
		zap.String("name", name),
		zap.Int("size", len(data)),
	)
	return nil
}

func (m *DryRunMessenger) ResolveFilePath(context.Context, string) (string, error) {
	return "", nil
}

// FileLinker строит ссылку на файл по пути из getFile.
// Ссылка содержит токен бота, её нельзя публиковать.
type FileLinker struct {
	token string
}

func NewFileLinker(token string) *FileLinker {
	return &FileLinker{token: token}
}

func (l *FileLinker) FileURL(filePath string) string {
	if l.token == "" || filePath == "" {
		return ""
	}
	return fmt.Sprintf(tgbotapi.FileEndpoint, l.token, filePath)
}

var (
	_ Messenger        = (*APIMessenger)(nil)
	_ Messenger        = (*DryRunMessenger)(nil)
	_ port.MediaLinker = (*FileLinker)(nil)
)
