package entity

// Step шаг диалога, используется в логах
type Step string

const (
	StepRegistering      Step = "registering"       // ждём табельный номер или ФИО
	StepAwaitingPhoto    Step = "awaiting_photo"    // ждём фото точки
	StepAwaitingLocation Step = "awaiting_location" // ждём геопозицию
)

// ConversationState состояние диалога участника. Реализуется только типами этого пакета.
type ConversationState interface {
	Step() Step
	isConversationState()
}

// Registering участник ещё не зарегистрирован и должен прислать идентификатор
type Registering struct{}

// AwaitingPhoto визит начат, ждём фото
type AwaitingPhoto struct {
	ShopCode string
}

// AwaitingLocation фото получено, ждём геопозицию
type AwaitingLocation struct {
	ShopCode string
	Photo    Photo
}

func (Registering) Step() Step { return StepRegistering }
func (AwaitingPhoto) Step() Step { return StepAwaitingPhoto }
func (AwaitingLocation) Step() Step { return StepAwaitingLocation }

func (Registering) isConversationState() {}
func (AwaitingPhoto) isConversationState() {}
func (AwaitingLocation) isConversationState() {}
