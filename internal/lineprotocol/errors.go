package lineprotocol

import "errors"

// Ошибки построения измерения. Проверяются через errors.Is.
var (
	// ErrMissingFields — не задано ни одного поля.
	ErrMissingFields = errors.New("no measurement fields set (at least one is required)")
	// ErrClock — метка времени раньше Unix epoch или не помещается в int64 наносекунд.
	ErrClock = errors.New("timestamp out of range")
	// ErrEmptyName — пустое имя измерения.
	ErrEmptyName = errors.New("measurement name is empty")
	// ErrInvalidField — значение поля без активного варианта или неподдерживаемого типа.
	ErrInvalidField = errors.New("invalid field value")
	// ErrBuilderConsumed — повторный вызов Build у того же билдера.
	ErrBuilderConsumed = errors.New("measurement builder already consumed")
)
