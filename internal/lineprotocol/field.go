package lineprotocol

import (
	"fmt"
	"strconv"
)

// FieldKind — тип активного варианта FieldValue.
type FieldKind uint8

// Возможные типы значения поля. Нулевое значение FieldKind не соответствует
// ни одному варианту.
const (
	KindFloat FieldKind = iota + 1
	KindInteger
	KindUInteger
	KindString
	KindBoolean
)

func (k FieldKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInteger:
		return "integer"
	case KindUInteger:
		return "uinteger"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	default:
		return "invalid"
	}
}

// FieldValue представляет типизированное значение поля измерения.
//
// Активен ровно один вариант, неявного приведения между числовыми типами нет.
// Значение неизменяемо после создания. Нулевой FieldValue не содержит
// варианта и отклоняется MeasurementBuilder.Build.
type FieldValue struct {
	kind FieldKind
	f    float64
	i    int64
	u    uint64
	s    string
	b    bool
}

// Float создаёт значение с плавающей точкой (тип по умолчанию в протоколе).
// NaN и ±Inf выводятся как NaN, +Inf, -Inf; сервер InfluxDB такие строки отклонит.
func Float(v float64) FieldValue { return FieldValue{kind: KindFloat, f: v} }

// Integer создаёт знаковое целое значение (суффикс i).
func Integer(v int64) FieldValue { return FieldValue{kind: KindInteger, i: v} }

// UInteger создаёт беззнаковое целое значение (суффикс u).
func UInteger(v uint64) FieldValue { return FieldValue{kind: KindUInteger, u: v} }

// String создаёт строковое значение.
func String(v string) FieldValue { return FieldValue{kind: KindString, s: v} }

// Boolean создаёт логическое значение.
func Boolean(v bool) FieldValue { return FieldValue{kind: KindBoolean, b: v} }

// FieldValueOf преобразует значение встроенного типа Go в FieldValue.
//
// Поддерживаются целые всех разрядностей, float32/float64, string, []byte и bool.
// Для остальных типов возвращается ErrInvalidField.
func FieldValueOf(v any) (FieldValue, error) {
	switch x := v.(type) {
	case FieldValue:
		if !x.Valid() {
			return FieldValue{}, ErrInvalidField
		}
		return x, nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case int:
		return Integer(int64(x)), nil
	case int8:
		return Integer(int64(x)), nil
	case int16:
		return Integer(int64(x)), nil
	case int32:
		return Integer(int64(x)), nil
	case int64:
		return Integer(x), nil
	case uint:
		return UInteger(uint64(x)), nil
	case uint8:
		return UInteger(uint64(x)), nil
	case uint16:
		return UInteger(uint64(x)), nil
	case uint32:
		return UInteger(uint64(x)), nil
	case uint64:
		return UInteger(x), nil
	case string:
		return String(x), nil
	case []byte:
		return String(string(x)), nil
	case bool:
		return Boolean(x), nil
	default:
		return FieldValue{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidField, v)
	}
}

// Kind возвращает тип активного варианта.
func (v FieldValue) Kind() FieldKind { return v.kind }

// Valid сообщает, содержит ли значение активный вариант.
func (v FieldValue) Valid() bool { return v.kind >= KindFloat && v.kind <= KindBoolean }

// Interface возвращает значение как встроенный тип Go
// (float64, int64, uint64, string или bool); для нулевого FieldValue — nil.
func (v FieldValue) Interface() any {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInteger:
		return v.i
	case KindUInteger:
		return v.u
	case KindString:
		return v.s
	case KindBoolean:
		return v.b
	default:
		return nil
	}
}

// String возвращает представление значения в формате line protocol.
func (v FieldValue) String() string {
	return string(v.AppendTo(nil))
}

// AppendTo дописывает представление значения в dst и возвращает расширенный срез.
func (v FieldValue) AppendTo(dst []byte) []byte {
	switch v.kind {
	case KindFloat:
		return strconv.AppendFloat(dst, v.f, 'f', -1, 64)
	case KindInteger:
		dst = strconv.AppendInt(dst, v.i, 10)
		return append(dst, 'i')
	case KindUInteger:
		dst = strconv.AppendUint(dst, v.u, 10)
		return append(dst, 'u')
	case KindString:
		dst = append(dst, '"')
		dst = append(dst, EscapeStringField(v.s)...)
		return append(dst, '"')
	case KindBoolean:
		if v.b {
			return append(dst, 't')
		}
		return append(dst, 'f')
	default:
		return dst
	}
}
