// Package lineprotocol кодирует измерения в формат InfluxDB Line Protocol.
//
// Измерение создаётся через MeasurementBuilder, после Build неизменяемо и
// рендерится в одну строку вида
//
//	<name>[,<tag>=<value>...] <field>=<value>[,...] <timestamp-ns>
//
// Теги и поля выводятся в лексикографическом порядке ключей.
package lineprotocol

import (
	"maps"
	"slices"
	"strconv"
	"time"
)

// Measurement — одна точка временного ряда: имя, поля, теги и метка времени
// в наносекундах от Unix epoch.
//
// Экземпляр неизменяем и создаётся только MeasurementBuilder.Build.
// Полей всегда не меньше одного.
type Measurement struct {
	name      string
	fields    map[string]FieldValue
	fieldKeys []string
	tags      map[string]string
	tagKeys   []string
	timestamp int64
}

func newMeasurement(name string, fields map[string]FieldValue, tags map[string]string, ts int64) *Measurement {
	m := &Measurement{
		name:      name,
		fields:    maps.Clone(fields),
		tags:      maps.Clone(tags),
		timestamp: ts,
	}
	if m.tags == nil {
		m.tags = map[string]string{}
	}
	m.fieldKeys = slices.Sorted(maps.Keys(m.fields))
	m.tagKeys = slices.Sorted(maps.Keys(m.tags))
	return m
}

// Name возвращает имя измерения без экранирования.
func (m *Measurement) Name() string { return m.name }

// Timestamp возвращает метку времени в наносекундах от Unix epoch.
func (m *Measurement) Timestamp() int64 { return m.timestamp }

// Time возвращает метку времени как time.Time.
func (m *Measurement) Time() time.Time { return time.Unix(0, m.timestamp) }

// Fields возвращает копию набора полей.
func (m *Measurement) Fields() map[string]FieldValue { return maps.Clone(m.fields) }

// Tags возвращает копию набора тегов.
func (m *Measurement) Tags() map[string]string { return maps.Clone(m.tags) }

// Field возвращает значение поля по ключу.
func (m *Measurement) Field(key string) (FieldValue, bool) {
	v, ok := m.fields[key]
	return v, ok
}

// Tag возвращает значение тега по ключу.
func (m *Measurement) Tag(key string) (string, bool) {
	v, ok := m.tags[key]
	return v, ok
}

// String возвращает измерение одной строкой line protocol без завершающего перевода строки.
func (m *Measurement) String() string {
	return string(m.AppendLine(make([]byte, 0, m.sizeHint())))
}

// AppendLine дописывает строку line protocol в dst и возвращает расширенный срез.
func (m *Measurement) AppendLine(dst []byte) []byte {
	dst = append(dst, EscapeName(m.name)...)

	for _, k := range m.tagKeys {
		dst = append(dst, ',')
		dst = append(dst, EscapeKey(k)...)
		dst = append(dst, '=')
		dst = append(dst, EscapeKey(m.tags[k])...)
	}

	dst = append(dst, ' ')
	for i, k := range m.fieldKeys {
		if i != 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, EscapeKey(k)...)
		dst = append(dst, '=')
		dst = m.fields[k].AppendTo(dst)
	}

	dst = append(dst, ' ')
	return strconv.AppendInt(dst, m.timestamp, 10)
}

// sizeHint грубо оценивает длину строки без учёта экранирования.
func (m *Measurement) sizeHint() int {
	// 2 пробела + 19 цифр метки времени.
	n := len(m.name) + 21
	for k, v := range m.tags {
		n += len(k) + len(v) + 2
	}
	for k, v := range m.fields {
		n += len(k) + 2
		if v.kind == KindString {
			n += len(v.s) + 2
		} else {
			n += 20
		}
	}
	return n
}
