package lineprotocol

import (
	"fmt"

	protocol "github.com/influxdata/line-protocol"
)

var _ protocol.Metric = (*Measurement)(nil)

// TagList возвращает теги в порядке ключей. Вместе с Name, Time и FieldList
// позволяет передавать Measurement в код, работающий с protocol.Metric.
func (m *Measurement) TagList() []*protocol.Tag {
	tags := make([]*protocol.Tag, 0, len(m.tagKeys))
	for _, k := range m.tagKeys {
		tags = append(tags, &protocol.Tag{Key: k, Value: m.tags[k]})
	}
	return tags
}

// FieldList возвращает поля в порядке ключей со значениями встроенных типов Go.
func (m *Measurement) FieldList() []*protocol.Field {
	fields := make([]*protocol.Field, 0, len(m.fieldKeys))
	for _, k := range m.fieldKeys {
		fields = append(fields, &protocol.Field{Key: k, Value: m.fields[k].Interface()})
	}
	return fields
}

// FromMetric строит Measurement из произвольной реализации protocol.Metric.
//
// Повторяющиеся ключи перезаписываются последним значением. Нулевое время
// метрики заменяется текущим.
func FromMetric(metric protocol.Metric) (*Measurement, error) {
	fields := make(map[string]FieldValue, len(metric.FieldList()))
	for _, f := range metric.FieldList() {
		v, err := FieldValueOf(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		fields[f.Key] = v
	}

	tags := make(map[string]string, len(metric.TagList()))
	for _, t := range metric.TagList() {
		tags[t.Key] = t.Value
	}

	b := NewBuilder(metric.Name()).Fields(fields).Tags(tags)
	if t := metric.Time(); !t.IsZero() {
		b.Timestamp(t)
	}
	return b.Build()
}
