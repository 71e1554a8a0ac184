package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"visit-bot/internal/domain/entity"
	"visit-bot/internal/domain/geo"
	"visit-bot/internal/domain/port"
)

// VisitService ведёт участника по сценарию визита: /visit -> фото -> геопозиция -> сохранение.
type VisitService struct {
	participants *ParticipantService
	compliance   *ComplianceService
	shops        port.ShopRepository
	visits       port.VisitRepository
	states       port.StateStore
	notifier     port.Notifier
	guard        port.NoticeGuard
	metrics      port.Metrics
	target       geo.Coordinate
	radius       float64
	logger       *zap.Logger
	now          func() time.Time
}

// VisitDependencies зависимости VisitService. Notifier, Guard, Metrics и Logger необязательны.
type VisitDependencies struct {
	Participants *ParticipantService
	Compliance   *ComplianceService
	Shops        port.ShopRepository
	Visits       port.VisitRepository
	States       port.StateStore
	Notifier     port.Notifier
	Guard        port.NoticeGuard
	Metrics      port.Metrics
	Target       geo.Coordinate
	RadiusMeters float64
	Logger       *zap.Logger
}

// GreetResult результат /start
type GreetResult struct {
	Participant *entity.Participant // nil, если началась регистрация
}

// TextResult результат обработки текстового сообщения
type TextResult struct {
	Registered          *entity.Participant // участник только что зарегистрирован
	RegistrationStarted bool                // незнакомый пользователь, ждём идентификатор
}

// StartResult результат /visit
type StartResult struct {
	ShopCode string
	Shop     *entity.Shop // nil, если точка с таким кодом неизвестна
}

// VisitResult результат принятой геопозиции
type VisitResult struct {
	Visit          entity.Visit
	DistanceMeters float64
	AllSubmitted   bool
}

func NewVisitService(deps VisitDependencies) *VisitService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &VisitService{
		participants: deps.Participants,
		compliance:   deps.Compliance,
		shops:        deps.Shops,
		visits:       deps.Visits,
		states:       deps.States,
		notifier:     deps.Notifier,
		guard:        deps.Guard,
		metrics:      metrics,
		target:       deps.Target,
		radius:       deps.RadiusMeters,
		logger:       logger,
		now:          time.Now,
	}
}

// Greet обрабатывает /start: здоровается с зарегистрированным или начинает регистрацию.
func (s *VisitService) Greet(ctx context.Context, participantID int64) (*GreetResult, error) {
	release := s.states.Acquire(participantID)
	defer release()

	p, err := s.participants.Get(ctx, participantID)
	if errors.Is(err, entity.ErrNotRegistered) {
		s.states.Set(ctx, participantID, entity.Registering{})
		return &GreetResult{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &GreetResult{Participant: p}, nil
}

// AcceptText обрабатывает текст, не являющийся командой.
func (s *VisitService) AcceptText(ctx context.Context, participantID int64, profile entity.Profile, text string) (*TextResult, error) {
	release := s.states.Acquire(participantID)
	defer release()

	state, ok := s.states.Get(ctx, participantID)
	if !ok {
		_, err := s.participants.Get(ctx, participantID)
		if errors.Is(err, entity.ErrNotRegistered) {
			// первое обращение незнакомого пользователя
			s.states.Set(ctx, participantID, entity.Registering{})
			return &TextResult{RegistrationStarted: true}, nil
		}
		if err != nil {
			return nil, err
		}
		return nil, s.reject(&entity.OutOfSequenceError{Expected: entity.InputCommand, Got: entity.InputText})
	}

	switch st := state.(type) {
	case entity.Registering:
		p, err := s.participants.Register(ctx, participantID, profile, text)
		if err != nil {
			return nil, err
		}
		s.states.Clear(ctx, participantID)
		s.logger.Info("participant registered",
			zap.Int64("participant_id", p.ID),
			zap.String("role", string(p.Role)),
		)
		return &TextResult{Registered: p}, nil
	case entity.AwaitingPhoto:
		return nil, s.reject(&entity.OutOfSequenceError{Expected: entity.InputPhoto, Got: entity.InputText})
	case entity.AwaitingLocation:
		return nil, s.reject(&entity.OutOfSequenceError{Expected: entity.InputLocation, Got: entity.InputText})
	default:
		s.logger.Warn("unknown conversation state", zap.String("step", string(st.Step())))
		return nil, entity.ErrOutOfSequence
	}
}

// StartVisit обрабатывает /visit <код>. Активный сценарий начинается заново.
func (s *VisitService) StartVisit(ctx context.Context, participantID int64, shopCode string) (*StartResult, error) {
	shopCode = strings.TrimSpace(shopCode)
	if shopCode == "" {
		return nil, entity.ErrInvalidArgument
	}

	release := s.states.Acquire(participantID)
	defer release()

	p, err := s.participants.Get(ctx, participantID)
	if errors.Is(err, entity.ErrNotRegistered) {
		return nil, s.reject(err)
	}
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, s.reject(entity.ErrDeactivated)
	}

	result := &StartResult{ShopCode: shopCode}
	shop, err := s.shops.FindByCode(ctx, shopCode)
	switch {
	case err == nil:
		result.Shop = shop
	case errors.Is(err, entity.ErrNotFound):
		// неизвестный код допустим, сохраняем как есть
	default:
		s.logger.Warn("shop lookup failed", zap.String("shop_code", shopCode), zap.Error(err))
	}

	s.states.Set(ctx, participantID, entity.AwaitingPhoto{ShopCode: shopCode})
	return result, nil
}

// AcceptPhoto принимает фото точки. Пересланное фото отклоняется, шаг не меняется.
func (s *VisitService) AcceptPhoto(ctx context.Context, participantID int64, photo entity.Photo) error {
	release := s.states.Acquire(participantID)
	defer release()

	state, ok := s.states.Get(ctx, participantID)
	if !ok {
		return s.reject(&entity.OutOfSequenceError{Expected: entity.InputCommand, Got: entity.InputPhoto})
	}

	switch st := state.(type) {
	case entity.AwaitingPhoto:
		if photo.Forwarded {
			return s.reject(entity.ErrForwardedMedia)
		}
		s.states.Set(ctx, participantID, entity.AwaitingLocation{ShopCode: st.ShopCode, Photo: photo})
		return nil
	case entity.AwaitingLocation:
		return s.reject(&entity.OutOfSequenceError{Expected: entity.InputLocation, Got: entity.InputPhoto})
	case entity.Registering:
		return s.reject(&entity.OutOfSequenceError{Expected: entity.InputText, Got: entity.InputPhoto})
	default:
		return entity.ErrOutOfSequence
	}
}

// AcceptLocation принимает геопозицию, проверяет геозону и сохраняет визит.
// При отказе шаг не меняется, участник может прислать геопозицию ещё раз.
func (s *VisitService) AcceptLocation(ctx context.Context, participantID int64, point geo.Coordinate) (*VisitResult, error) {
	release := s.states.Acquire(participantID)
	result, err := s.captureLocation(ctx, participantID, point)
	release()
	if err != nil {
		return nil, err
	}

	result.AllSubmitted = s.checkCompliance(ctx)
	return result, nil
}

func (s *VisitService) captureLocation(ctx context.Context, participantID int64, point geo.Coordinate) (*VisitResult, error) {
	state, ok := s.states.Get(ctx, participantID)
	if !ok {
		return nil, s.reject(&entity.OutOfSequenceError{Expected: entity.InputCommand, Got: entity.InputLocation})
	}

	var awaiting entity.AwaitingLocation
	switch st := state.(type) {
	case entity.AwaitingLocation:
		awaiting = st
	case entity.AwaitingPhoto:
		return nil, s.reject(&entity.OutOfSequenceError{Expected: entity.InputPhoto, Got: entity.InputLocation})
	case entity.Registering:
		return nil, s.reject(&entity.OutOfSequenceError{Expected: entity.InputText, Got: entity.InputLocation})
	default:
		return nil, entity.ErrOutOfSequence
	}

	distance := geo.DistanceMeters(point, s.target)
	if distance > s.radius {
		return nil, s.reject(&entity.OutOfFenceError{DistanceMeters: distance, RadiusMeters: s.radius})
	}

	visit := entity.Visit{
		ParticipantID: participantID,
		ShopCode:      awaiting.ShopCode,
		Location:      point,
		Photo:         awaiting.Photo,
		CapturedAt:    s.now(),
	}
	if err := s.visits.Save(ctx, &visit); err != nil {
		return nil, entity.PersistenceFailure("save visit", err)
	}
	s.states.Clear(ctx, participantID)
	s.metrics.VisitSaved()

	lonLat := visit.Location.GeoJSON()
	s.logger.Info("visit saved",
		zap.String("visit_id", visit.ID),
		zap.Int64("participant_id", participantID),
		zap.String("shop_code", visit.ShopCode),
		zap.Float64s("location", lonLat[:]),
		zap.Float64("distance_m", distance),
	)

	return &VisitResult{Visit: visit, DistanceMeters: distance}, nil
}

// Cancel сбрасывает текущий сценарий. Возвращает false, если сбрасывать нечего.
func (s *VisitService) Cancel(ctx context.Context, participantID int64) bool {
	release := s.states.Acquire(participantID)
	defer release()

	state, ok := s.states.Get(ctx, participantID)
	if !ok {
		return false
	}
	if _, registering := state.(entity.Registering); registering {
		// регистрацию не отменяем
		return false
	}
	s.states.Clear(ctx, participantID)
	return true
}

// State возвращает текущее состояние диалога
func (s *VisitService) State(ctx context.Context, participantID int64) (entity.ConversationState, bool) {
	return s.states.Get(ctx, participantID)
}

// checkCompliance после сохранения визита проверяет, все ли отметились, и уведомляет администраторов.
// Ошибки только логируются: визит уже сохранён.
func (s *VisitService) checkCompliance(ctx context.Context) bool {
	roster, err := s.participants.Roster(ctx)
	if err != nil {
		s.logger.Error("roster lookup failed", zap.Error(err))
		return false
	}
	all, err := s.compliance.AllSubmittedToday(ctx, roster)
	if err != nil {
		s.logger.Error("compliance check failed", zap.Error(err))
		return false
	}
	if !all || s.notifier == nil {
		return all
	}

	day := s.compliance.Today()
	if s.guard != nil {
		first, err := s.guard.Acquire(ctx, "all-submitted:"+day.Format(dateLayout))
		if err != nil {
			s.logger.Warn("notice guard unavailable, sending anyway", zap.Error(err))
		} else if !first {
			return all
		}
	}

	if err := s.notifier.NotifyAllSubmitted(ctx, day, len(roster)); err != nil {
		s.logger.Error("broadcast failed", zap.Time("day", day), zap.Error(err))
		return all
	}
	s.metrics.BroadcastSent()
	return all
}

func (s *VisitService) reject(err error) error {
	s.metrics.VisitRejected(rejectionReason(err))
	return err
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, entity.ErrOutOfFence):
		return "out_of_fence"
	case errors.Is(err, entity.ErrForwardedMedia):
		return "forwarded_media"
	case errors.Is(err, entity.ErrOutOfSequence):
		return "out_of_sequence"
	case errors.Is(err, entity.ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, entity.ErrDeactivated):
		return "deactivated"
	default:
		return "other"
	}
}

type nopMetrics struct{}

func (nopMetrics) VisitSaved() {}
func (nopMetrics) VisitRejected(string) {}
func (nopMetrics) ReportGenerated(bool) {}
func (nopMetrics) BroadcastSent() {}
