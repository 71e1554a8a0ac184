package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/geo"
	"visit-bot/internal/infrastructure/spreadsheet"
)

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	switch {
	case len(msg.Photo) > 0:
		b.handlePhoto(ctx, msg)
	case msg.Location != nil:
		b.handleLocation(ctx, msg)
	case msg.Text != "":
		b.handleText(ctx, msg)
	default:
		b.reply(ctx, msg, msgUnsupported)
	}
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "help":
		b.reply(ctx, msg, b.helpFor(msg.From.ID))
	case "visit":
		b.handleVisit(ctx, msg)
	case "cancel":
		if b.visits.Cancel(ctx, msg.From.ID) {
			b.reply(ctx, msg, msgCancelled)
		} else {
			b.reply(ctx, msg, msgNothingToCancel)
		}
	case "report":
		b.handleReport(ctx, msg)
	case "employees":
		b.handleEmployees(ctx, msg)
	case "employee_activate":
		b.handleSetActive(ctx, msg, true)
	case "employee_deactivate":
		b.handleSetActive(ctx, msg, false)
	case "shop_add":
		b.handleShopAdd(ctx, msg)
	default:
		b.reply(ctx, msg, msgUnknownCommand)
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	// QR-код может открыть бота ссылкой t.me/<bot>?start=<код>
	if code := strings.TrimSpace(msg.CommandArguments()); code != "" {
		if _, err := b.participants.Get(ctx, msg.From.ID); err == nil {
			b.startVisit(ctx, msg, code)
			return
		}
	}

	res, err := b.visits.Greet(ctx, msg.From.ID)
	if err != nil {
		b.handleError(ctx, msg, err)
		return
	}
	if res.Participant == nil {
		b.reply(ctx, msg, msgAskIdentifier)
		return
	}
	b.reply(ctx, msg, fmt.Sprintf(msgWelcomeBack, res.Participant.DisplayName()))
}

func (b *Bot) handleVisit(ctx context.Context, msg *tgbotapi.Message) {
	code := strings.TrimSpace(msg.CommandArguments())
	if code == "" {
		b.reply(ctx, msg, msgVisitUsage)
		return
	}
	b.startVisit(ctx, msg, code)
}

func (b *Bot) startVisit(ctx context.Context, msg *tgbotapi.Message, code string) {
	res, err := b.visits.StartVisit(ctx, msg.From.ID, code)
	if err != nil {
		b.handleError(ctx, msg, err)
		return
	}

	label := res.ShopCode
	if res.Shop != nil && res.Shop.Name != "" {
		label = fmt.Sprintf("%s (%s)", res.Shop.Name, res.ShopCode)
	}
	b.reply(ctx, msg, fmt.Sprintf(msgSendPhotoForShop, label))
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	// берём фото в максимальном разрешении
	largest := msg.Photo[len(msg.Photo)-1]
	photo := entity.Photo{
		FileID:    largest.FileID,
		Forwarded: isForwarded(msg),
	}

	if !photo.Forwarded {
		if state, ok := b.visits.State(ctx, msg.From.ID); ok && state.Step() == entity.StepAwaitingPhoto {
			path, err := b.messenger.ResolveFilePath(ctx, photo.FileID)
			if err != nil {
				// без пути в отчёте не будет ссылки, визит всё равно принимаем
				b.logger.Warn("photo path not resolved",
					zap.Int64("participant_id", msg.From.ID),
					zap.Error(err),
				)
			}
			photo.FilePath = path
		}
	}

	if err := b.visits.AcceptPhoto(ctx, msg.From.ID, photo); err != nil {
		b.handleError(ctx, msg, err)
		return
	}
	b.reply(ctx, msg, msgSendLocation)
}

func (b *Bot) handleLocation(ctx context.Context, msg *tgbotapi.Message) {
	point := geo.Coordinate{
		Latitude:  msg.Location.Latitude,
		Longitude: msg.Location.Longitude,
	}

	res, err := b.visits.AcceptLocation(ctx, msg.From.ID, point)
	if err != nil {
		b.handleError(ctx, msg, err)
		return
	}
	b.reply(ctx, msg, fmt.Sprintf(msgVisitSaved, res.Visit.ShopCode, res.DistanceMeters))
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	profile := entity.Profile{
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
		Username:  msg.From.UserName,
	}

	res, err := b.visits.AcceptText(ctx, msg.From.ID, profile, msg.Text)
	if err != nil {
		b.handleError(ctx, msg, err)
		return
	}

	switch {
	case res.Registered != nil:
		b.reply(ctx, msg, fmt.Sprintf(msgRegistered, res.Registered.DisplayName())+"\n\n"+b.helpFor(msg.From.ID))
	case res.RegistrationStarted:
		b.reply(ctx, msg, msgAskIdentifier)
	}
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.participants.Authorize(msg.From.ID); err != nil {
		b.handleError(ctx, msg, err)
		return
	}

	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		arg = "day"
	}
	if _, err := b.reports.ResolveRange(arg); err != nil {
		b.reply(ctx, msg, msgReportUsage)
		return
	}

	b.reply(ctx, msg, msgReportQueued)

	b.jobs.Add(1)
	go func() {
		defer b.jobs.Done()
		b.runReport(ctx, msg, arg)
	}()
}

// runReport формирует и отправляет отчёт в фоне. Документ либо доставлен целиком, либо не отправлен.
func (b *Bot) runReport(ctx context.Context, msg *tgbotapi.Message, arg string) {
	fail := func(err error) {
		b.metrics.ReportGenerated(false)
		b.logFailure(msg, err)
		b.reply(ctx, msg, msgReportFailed)
	}

	doc, err := b.reports.Generate(ctx, arg)
	if err != nil {
		fail(err)
		return
	}
	data, err := spreadsheet.Render(doc)
	if err != nil {
		fail(err)
		return
	}

	if len(doc.Rows) == 0 {
		b.reply(ctx, msg, fmt.Sprintf(msgReportEmpty, arg))
	}
	if err := b.messenger.SendDocument(ctx, msg.Chat.ID, spreadsheet.FileName(doc), data); err != nil {
		fail(err)
		return
	}

	b.metrics.ReportGenerated(true)
	b.logger.Info("report delivered",
		zap.Int64("participant_id", msg.From.ID),
		zap.String("range", arg),
		zap.Int("rows", len(doc.Rows)),
	)
}

func (b *Bot) handleEmployees(ctx context.Context, msg *tgbotapi.Message) {
	list, err := b.participants.List(ctx, msg.From.ID)
	if err != nil {
		b.handleError(ctx, msg, err)
		return
	}
	if len(list) == 0 {
		b.reply(ctx, msg, msgEmployeesEmpty)
		return
	}
	b.reply(ctx, msg, formatParticipants(list))
}

func (b *Bot) handleSetActive(ctx context.Context, msg *tgbotapi.Message, active bool) {
	targetID, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		if aerr := b.participants.Authorize(msg.From.ID); aerr != nil {
			b.handleError(ctx, msg, aerr)
			return
		}
		b.reply(ctx, msg, fmt.Sprintf(msgEmployeeUsage, msg.Command()))
		return
	}

	if err := b.participants.SetActive(ctx, msg.From.ID, targetID, active); err != nil {
		b.handleError(ctx, msg, err)
		return
	}

	status := "отключён"
	if active {
		status = "включён"
	}
	b.reply(ctx, msg, fmt.Sprintf(msgEmployeeSet, targetID, status))
}

func (b *Bot) handleShopAdd(ctx context.Context, msg *tgbotapi.Message) {
	code, name, _ := strings.Cut(strings.TrimSpace(msg.CommandArguments()), " ")

	shop, err := b.shops.Save(ctx, msg.From.ID, code, name)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidArgument) {
			b.reply(ctx, msg, msgShopUsage)
			return
		}
		b.handleError(ctx, msg, err)
		return
	}
	b.reply(ctx, msg, fmt.Sprintf(msgShopSaved, shop.Code, shop.Name))
}

func (b *Bot) helpFor(id int64) string {
	if b.participants.IsAdmin(id) {
		return msgHelp + msgAdminHelp
	}
	return msgHelp
}

// reply отправляет ответ в чат сообщения; ошибка отправки только логируется
func (b *Bot) reply(ctx context.Context, msg *tgbotapi.Message, text string) {
	if err := b.messenger.SendText(ctx, msg.Chat.ID, text); err != nil {
		b.logFailure(msg, err)
	}
}

// isForwarded проверяет любые признаки пересылки
func isForwarded(msg *tgbotapi.Message) bool {
	return msg.ForwardFrom != nil ||
		msg.ForwardFromChat != nil ||
		msg.ForwardSenderName != "" ||
		msg.ForwardDate != 0
}

func formatParticipants(list []entity.Participant) string {
	var sb strings.Builder
	sb.WriteString("👥 Участники:\n")
	for _, p := range list {
		status := "✅"
		if !p.Active {
			status = "⛔"
		}
		fmt.Fprintf(&sb, "\n%s %d %s", status, p.ID, p.DisplayName())
		if p.Username != "" {
			fmt.Fprintf(&sb, " @%s", p.Username)
		}
		if p.FullName != "" {
			fmt.Fprintf(&sb, " (%s)", p.FullName)
		}
		if p.EmployeeCode != "" {
			fmt.Fprintf(&sb, " таб. %s", p.EmployeeCode)
		}
		if p.IsAdmin() {
			sb.WriteString(" 🛠")
		}
	}
	return sb.String()
}
