package lineprotocol

import (
	"github.com/RoGogDBD/influx-writer/pkg/pool"
)

// lineBuffer — переиспользуемый буфер кодирования пакета.
type lineBuffer struct {
	b []byte
}

func (lb *lineBuffer) Reset() { lb.b = lb.b[:0] }

// maxPooledBuffer ограничивает размер буфера, возвращаемого в пул.
const maxPooledBuffer = 1 << 20

var bufPool = pool.New(func() *lineBuffer {
	return &lineBuffer{b: make([]byte, 0, 4096)}
})

// EncodeBatch кодирует измерения в тело запроса: строки разделены одним
// символом перевода строки, без завершающего разделителя.
// Для пустого входа возвращается пустая строка.
func EncodeBatch(ms []*Measurement) string {
	if len(ms) == 0 {
		return ""
	}
	lb := bufPool.Get()
	lb.b = AppendBatch(lb.b, ms)
	s := string(lb.b)
	if cap(lb.b) <= maxPooledBuffer {
		bufPool.Put(lb)
	}
	return s
}

// AppendBatch дописывает пакет строк в dst и возвращает расширенный срез.
func AppendBatch(dst []byte, ms []*Measurement) []byte {
	for i, m := range ms {
		if i != 0 {
			dst = append(dst, '\n')
		}
		dst = m.AppendLine(dst)
	}
	return dst
}
