package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNotRegistered   = errors.New("participant is not registered")
	ErrDeactivated     = errors.New("participant is deactivated")
	ErrOutOfSequence   = errors.New("input out of sequence")
	ErrForwardedMedia  = errors.New("forwarded media rejected")
	ErrOutOfFence      = errors.New("location is outside the geofence")
	ErrUnauthorized    = errors.New("admin rights required")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrPersistence     = errors.New("persistence failure")
	ErrTransport       = errors.New("transport failure")
)

// Input вид входящего события
type Input string

const (
	InputCommand  Input = "command"
	InputText     Input = "text"
	InputPhoto    Input = "photo"
	InputLocation Input = "location"
)

// OutOfSequenceError пришло не то, что ожидается на текущем шаге
type OutOfSequenceError struct {
	Expected Input
	Got      Input
}

func (e *OutOfSequenceError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", ErrOutOfSequence, e.Expected, e.Got)
}

func (e *OutOfSequenceError) Is(target error) bool {
	return target == ErrOutOfSequence
}

// OutOfFenceError геопозиция дальше допустимого радиуса
type OutOfFenceError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutOfFenceError) Error() string {
	return fmt.Sprintf("%s: %.0f m > %.0f m", ErrOutOfFence, e.DistanceMeters, e.RadiusMeters)
}

func (e *OutOfFenceError) Is(target error) bool {
	return target == ErrOutOfFence
}

// PersistenceFailure оборачивает ошибку хранилища
func PersistenceFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// TransportFailure оборачивает ошибку мессенджера
func TransportFailure(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
}
