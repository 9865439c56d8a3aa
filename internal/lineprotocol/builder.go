package lineprotocol

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

var (
	epoch   = time.Unix(0, 0)
	maxTime = time.Unix(0, math.MaxInt64)

	// lastNow хранит последнюю выданную метку времени по умолчанию.
	lastNow atomic.Int64

	// now подменяется в тестах.
	now = time.Now
)

// nowNanos возвращает текущее время в наносекундах, строго возрастающее
// между вызовами в пределах процесса.
func nowNanos() int64 {
	for {
		ts := now().UnixNano()
		prev := lastNow.Load()
		if ts <= prev {
			ts = prev + 1
		}
		if lastNow.CompareAndSwap(prev, ts) {
			return ts
		}
	}
}

// MeasurementBuilder накапливает конфигурацию измерения и проверяет её в Build.
//
// Методы Fields, Tags и Timestamp можно вызывать в любом порядке и любое
// количество раз: каждый следующий вызов заменяет предыдущее значение.
// Билдер одноразовый: после Build он больше не используется.
type MeasurementBuilder struct {
	name      string
	fields    map[string]FieldValue
	tags      map[string]string
	timestamp *int64
	clockErr  error
	consumed  bool
}

// NewBuilder создаёт билдер измерения с именем name.
// Имя сохраняется как есть, экранирование выполняется при рендеринге.
func NewBuilder(name string) *MeasurementBuilder {
	return &MeasurementBuilder{name: name}
}

// Fields заменяет набор полей.
func (b *MeasurementBuilder) Fields(fields map[string]FieldValue) *MeasurementBuilder {
	b.fields = fields
	return b
}

// Tags заменяет набор тегов.
func (b *MeasurementBuilder) Tags(tags map[string]string) *MeasurementBuilder {
	b.tags = tags
	return b
}

// Timestamp задаёт метку времени. Если t раньше Unix epoch или не
// помещается в int64 наносекунд, Build вернёт ошибку ErrClock.
func (b *MeasurementBuilder) Timestamp(t time.Time) *MeasurementBuilder {
	if t.Before(epoch) || t.After(maxTime) {
		b.clockErr = fmt.Errorf("%w: %s is outside [%s, %s]", ErrClock,
			t.UTC().Format(time.RFC3339Nano), epoch.UTC().Format(time.RFC3339), maxTime.UTC().Format(time.RFC3339))
		b.timestamp = nil
		return b
	}
	ts := t.UnixNano()
	b.clockErr = nil
	b.timestamp = &ts
	return b
}

// Build проверяет конфигурацию и возвращает неизменяемое измерение.
//
// Возвращает ErrBuilderConsumed при повторном вызове, ErrClock при
// недопустимой метке времени, ErrEmptyName при пустом имени,
// ErrMissingFields если поля не заданы или пусты и ErrInvalidField
// для значения поля без активного варианта.
// По умолчанию метка времени равна текущему времени, а теги пусты.
func (b *MeasurementBuilder) Build() (*Measurement, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	b.consumed = true

	if b.clockErr != nil {
		return nil, b.clockErr
	}
	if b.name == "" {
		return nil, ErrEmptyName
	}
	if len(b.fields) == 0 {
		return nil, ErrMissingFields
	}
	for k, v := range b.fields {
		if !v.Valid() {
			return nil, fmt.Errorf("%w: field %q", ErrInvalidField, k)
		}
	}

	var ts int64
	if b.timestamp != nil {
		ts = *b.timestamp
	} else {
		ts = nowNanos()
	}

	return newMeasurement(b.name, b.fields, b.tags, ts), nil
}

// BuildMeasurement собирает измерение за один вызов.
// Если ts равен nil, используется текущее время.
func BuildMeasurement(name string, fields map[string]FieldValue, tags map[string]string, ts *time.Time) (*Measurement, error) {
	b := NewBuilder(name).Fields(fields).Tags(tags)
	if ts != nil {
		b.Timestamp(*ts)
	}
	return b.Build()
}
