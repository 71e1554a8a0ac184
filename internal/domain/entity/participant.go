package entity

import (
	"strconv"
	"strings"
	"time"
)

// Role роль участника
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Profile данные профиля, которые мессенджер сообщает о пользователе
type Profile struct {
	FirstName string
	LastName  string
	Username  string
}

// Participant представляет зарегистрированного пользователя бота
type Participant struct {
	ID           int64     // Telegram User ID
	FirstName    string    // имя из профиля Telegram
	LastName     string    // фамилия из профиля Telegram
	Username     string    // @username без @
	FullName     string    // ФИО, введённое при регистрации
	EmployeeCode string    // табельный номер, введённый при регистрации
	Role         Role      // роль
	Active       bool      // может ли участник отмечать визиты
	RegisteredAt time.Time // момент регистрации
}

// NewParticipant создаёт участника по профилю и тексту, введённому при регистрации.
// Текст только из цифр считается табельным номером, иначе ФИО.
func NewParticipant(id int64, profile Profile, identifier string, role Role, now time.Time) *Participant {
	p := &Participant{
		ID:           id,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		Username:     profile.Username,
		Role:         role,
		Active:       true,
		RegisteredAt: now,
	}

	identifier = strings.TrimSpace(identifier)
	if IsEmployeeCode(identifier) {
		p.EmployeeCode = identifier
	} else {
		p.FullName = identifier
	}

	return p
}

// IsEmployeeCode сообщает, состоит ли строка только из цифр 0-9.
func IsEmployeeCode(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsAdmin сообщает, является ли участник администратором
func (p *Participant) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// DisplayName возвращает имя для отчётов: имя, затем username, затем ID.
func (p *Participant) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	if p.Username != "" {
		return p.Username
	}
	return strconv.FormatInt(p.ID, 10)
}

// DisplayNameFor возвращает имя участника или его ID, если запись не найдена.
func DisplayNameFor(p *Participant, id int64) string {
	if p == nil {
		return strconv.FormatInt(id, 10)
	}
	return p.DisplayName()
}
