package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"visit-bot/config"
	"visit-bot/internal/container"
	"visit-bot/internal/domain/entity"
	"visit-bot/internal/infrastructure/observability"
	"visit-bot/internal/infrastructure/storage"
)

const (
	adminID    int64 = 100
	employeeID int64 = 42
)

type sentDocument struct {
	chatID int64
	name   string
	data   []byte
}

type recordingMessenger struct {
	mu        sync.Mutex
	texts     map[int64][]string
	documents []sentDocument
	resolved  []string
	sendErr   error
}

func newRecordingMessenger() *recordingMessenger {
	return &recordingMessenger{texts: make(map[int64][]string)}
}

func (m *recordingMessenger) SendText(_ context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[chatID] = append(m.texts[chatID], text)
	return nil
}

func (m *recordingMessenger) SendDocument(_ context.Context, chatID int64, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return entity.TransportFailure("send document", m.sendErr)
	}
	m.documents = append(m.documents, sentDocument{chatID: chatID, name: name, data: data})
	return nil
}

func (m *recordingMessenger) ResolveFilePath(_ context.Context, fileID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolved = append(m.resolved, fileID)
	return "photos/" + fileID + ".jpg", nil
}

func (m *recordingMessenger) last(chatID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	texts := m.texts[chatID]
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (m *recordingMessenger) all(chatID int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts[chatID]...)
}

type botEnv struct {
	bot       *Bot
	messenger *recordingMessenger
	metrics   *observability.Metrics
	visits    *storage.MemoryVisitRepository
	shops     *storage.MemoryShopRepository
}

func newBotEnv(t *testing.T) *botEnv {
	t.Helper()

	cfg := &config.Config{
		Access:   config.Access{AdminIDs: []int64{adminID}, EmployeeIDs: []int64{employeeID}},
		Geofence: config.GeofenceConfig{Latitude: 10, Longitude: 20, RadiusMeters: config.GeofenceRadiusMeters},
		Location: time.UTC,
	}

	env := &botEnv{
		messenger: newRecordingMessenger(),
		metrics:   observability.NewMetrics(),
		visits:    storage.NewMemoryVisitRepository(),
		shops:     storage.NewMemoryShopRepository(entity.Shop{Code: "SHOP1", Name: "Corner store"}),
	}

	c := container.New(cfg, container.Dependencies{
		Participants: storage.NewMemoryParticipantRepository(),
		Shops:        env.shops,
		Visits:       env.visits,
		States:       storage.NewMemoryStateStore(),
		Notifier:     NewAdminNotifier(env.messenger, cfg.Access.AdminIDs, nil),
		Linker:       NewFileLinker("TOKEN"),
		Metrics:      env.metrics,
	})
	env.bot = NewBot(nil, env.messenger, c, env.metrics, nil)
	return env
}

func message(from int64, text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: from, FirstName: fmt.Sprintf("User%d", from), UserName: fmt.Sprintf("user%d", from)},
		Chat:      &tgbotapi.Chat{ID: from},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		cmd, _, _ := strings.Cut(text, " ")
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return msg
}

func photoMessage(from int64, fileID string) *tgbotapi.Message {
	msg := message(from, "")
	msg.Photo = []tgbotapi.PhotoSize{
		{FileID: fileID + "-small", Width: 90, Height: 90},
		{FileID: fileID, Width: 1280, Height: 1280},
	}
	return msg
}

func locationMessage(from int64, lat, lon float64) *tgbotapi.Message {
	msg := message(from, "")
	msg.Location = &tgbotapi.Location{Latitude: lat, Longitude: lon}
	return msg
}

func (e *botEnv) send(msg *tgbotapi.Message) string {
	e.bot.handleMessage(context.Background(), msg)
	return e.messenger.last(msg.Chat.ID)
}

func (e *botEnv) registerEmployee(t *testing.T, id int64) {
	t.Helper()
	require.Equal(t, msgAskIdentifier, e.send(message(id, "/start")))
	require.Contains(t, e.send(message(id, "Ivan Petrov")), "Регистрация завершена")
}

func TestBot_FullVisitFlow(t *testing.T) {
	env := newBotEnv(t)
	env.registerEmployee(t, employeeID)

	reply := env.send(message(employeeID, "/visit SHOP1"))
	assert.Equal(t, fmt.Sprintf(msgSendPhotoForShop, "Corner store (SHOP1)"), reply)

	assert.Equal(t, msgSendLocation, env.send(photoMessage(employeeID, "file-1")))
	assert.Equal(t, []string{"file-1"}, env.messenger.resolved)

	reply = env.send(locationMessage(employeeID, 10.0, 20.0))
	assert.Equal(t, fmt.Sprintf(msgVisitSaved, "SHOP1", 0.0), reply)

	visits := env.visits.All()
	require.Len(t, visits, 1)
	assert.Equal(t, "SHOP1", visits[0].ShopCode)
	assert.Equal(t, "file-1", visits[0].Photo.FileID)
	assert.Equal(t, "photos/file-1.jpg", visits[0].Photo.FilePath)
	assert.Equal(t, [2]float64{20.0, 10.0}, visits[0].Location.GeoJSON())

	// единственный сотрудник из списка отметился, администратор получает уведомление
	assert.Contains(t, env.messenger.last(adminID), "Все сотрудники (1) отметились")
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Broadcasts))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.VisitsSaved))
}

func TestBot_StartDeepLinkStartsVisit(t *testing.T) {
	env := newBotEnv(t)
	env.registerEmployee(t, employeeID)

	reply := env.send(message(employeeID, "/start SHOP1"))
	assert.Equal(t, fmt.Sprintf(msgSendPhotoForShop, "Corner store (SHOP1)"), reply)
}

func TestBot_Rejections(t *testing.T) {
	env := newBotEnv(t)

	assert.Equal(t, msgNotRegistered, env.send(message(employeeID, "/visit SHOP1")))

	env.registerEmployee(t, employeeID)
	assert.Equal(t, msgVisitUsage, env.send(message(employeeID, "/visit")))
	assert.Equal(t, msgExpectCommand, env.send(photoMessage(employeeID, "early")))
	assert.Equal(t, msgExpectCommand, env.send(message(employeeID, "hello")))

	env.send(message(employeeID, "/visit NEWSHOP"))
	assert.Equal(t, msgExpectPhoto, env.send(locationMessage(employeeID, 10, 20)))

	forwarded := photoMessage(employeeID, "fwd")
	forwarded.ForwardDate = 1700000000
	assert.Equal(t, msgForwarded, env.send(forwarded))
	assert.Empty(t, env.messenger.resolved)

	env.send(photoMessage(employeeID, "ok"))
	assert.Equal(t, msgExpectLocation, env.send(photoMessage(employeeID, "again")))

	reply := env.send(locationMessage(employeeID, 11.0, 20.0))
	assert.Equal(t, fmt.Sprintf(msgOutOfFence, 111.19492664455873, 10.0), reply)
	assert.Empty(t, env.visits.All())

	assert.Equal(t, msgCancelled, env.send(message(employeeID, "/cancel")))
	assert.Equal(t, msgNothingToCancel, env.send(message(employeeID, "/cancel")))
	assert.Equal(t, msgUnknownCommand, env.send(message(employeeID, "/bogus")))

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.VisitRejections.WithLabelValues("forwarded_media")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.VisitRejections.WithLabelValues("out_of_fence")))
}

func TestBot_AdminCommands(t *testing.T) {
	env := newBotEnv(t)
	env.registerEmployee(t, employeeID)

	assert.Equal(t, msgUnauthorized, env.send(message(employeeID, "/employees")))
	assert.Equal(t, msgUnauthorized, env.send(message(employeeID, "/report")))
	assert.Equal(t, msgUnauthorized, env.send(message(employeeID, "/employee_deactivate 42")))
	assert.Equal(t, msgUnauthorized, env.send(message(employeeID, "/shop_add X Y")))
	assert.NotContains(t, env.send(message(employeeID, "/help")), "администратора")

	assert.Contains(t, env.send(message(adminID, "/help")), "администратора")

	list := env.send(message(adminID, "/employees"))
	assert.Contains(t, list, "42 User42 @user42 (Ivan Petrov)")

	assert.Equal(t, fmt.Sprintf(msgEmployeeUsage, "employee_deactivate"), env.send(message(adminID, "/employee_deactivate abc")))
	assert.Equal(t, fmt.Sprintf(msgEmployeeSet, employeeID, "отключён"), env.send(message(adminID, "/employee_deactivate 42")))
	assert.Equal(t, msgDeactivated, env.send(message(employeeID, "/visit SHOP1")))
	assert.Equal(t, msgNotFound, env.send(message(adminID, "/employee_activate 555")))

	assert.Equal(t, msgShopUsage, env.send(message(adminID, "/shop_add ONLYCODE")))
	assert.Equal(t, fmt.Sprintf(msgShopSaved, "SHOP9", "Market on Lenina"), env.send(message(adminID, "/shop_add SHOP9 Market on Lenina")))
	shop, err := env.shops.FindByCode(context.Background(), "SHOP9")
	require.NoError(t, err)
	assert.Equal(t, "Market on Lenina", shop.Name)
}

func TestBot_Report(t *testing.T) {
	env := newBotEnv(t)
	env.registerEmployee(t, employeeID)
	env.send(message(employeeID, "/visit SHOP1"))
	env.send(photoMessage(employeeID, "file-1"))
	env.send(locationMessage(employeeID, 10.0, 20.0))

	assert.Equal(t, msgReportUsage, env.send(message(adminID, "/report bogus")))
	assert.Equal(t, msgReportQueued, env.send(message(adminID, "/report")))
	env.bot.wait()

	require.Len(t, env.messenger.documents, 1)
	doc := env.messenger.documents[0]
	assert.Equal(t, adminID, doc.chatID)
	assert.True(t, strings.HasPrefix(doc.name, "visits_"))
	assert.True(t, strings.HasSuffix(doc.name, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(doc.data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Visits")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "42", rows[1][0])
	assert.Equal(t, "SHOP1", rows[1][2])
	assert.Equal(t, "Corner store", rows[1][3])
	assert.Equal(t, "https://api.telegram.org/file/botTOKEN/photos/file-1.jpg", rows[1][8])

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Reports.WithLabelValues("ok")))
}

func TestBot_ReportDeliveryFailure(t *testing.T) {
	env := newBotEnv(t)
	env.messenger.sendErr = errors.New("network down")

	env.send(message(adminID, "/report week"))
	env.bot.wait()

	assert.Empty(t, env.messenger.documents)
	assert.Equal(t, msgReportFailed, env.messenger.last(adminID))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.Reports.WithLabelValues("error")))
}

type fakeSource struct {
	updates chan tgbotapi.Update
	stopped chan struct{}
	once    sync.Once
}

func (s *fakeSource) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return s.updates
}

func (s *fakeSource) StopReceivingUpdates() {
	s.once.Do(func() { close(s.stopped) })
}

func TestBot_RunDispatchesUntilCancelled(t *testing.T) {
	env := newBotEnv(t)
	source := &fakeSource{updates: make(chan tgbotapi.Update, 8), stopped: make(chan struct{})}
	env.bot.source = source

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.bot.Run(ctx) }()

	source.updates <- tgbotapi.Update{Message: message(employeeID, "/start")}
	source.updates <- tgbotapi.Update{Message: message(employeeID, "Ivan Petrov")}
	source.updates <- tgbotapi.Update{}

	require.Eventually(t, func() bool {
		return len(env.messenger.all(employeeID)) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
	<-source.stopped

	texts := env.messenger.all(employeeID)
	assert.Equal(t, msgAskIdentifier, texts[0])
	assert.Contains(t, texts[1], "Регистрация завершена")
}

func TestBot_RunDryRun(t *testing.T) {
	env := newBotEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, env.bot.Run(ctx))
}
