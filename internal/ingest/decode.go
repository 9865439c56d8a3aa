package ingest

import (
	"errors"
	"fmt"
	"time"

	models "github.com/RoGogDBD/influx-writer/internal/model"
	lpv2 "github.com/influxdata/line-protocol/v2/lineprotocol"
)

var (
	// ErrUnknownPrecision возвращается для значения precision вне ns, us, ms, s.
	ErrUnknownPrecision = errors.New("unknown precision")
	// ErrTimestampBeforeEpoch возвращается для метки времени раньше Unix epoch.
	// Такие точки не кодируются обратно в line protocol, поэтому не принимаются.
	ErrTimestampBeforeEpoch = errors.New("timestamp before unix epoch")
)

// ParsePrecision переводит параметр запроса precision в точность декодера.
// Пустая строка означает наносекунды.
func ParsePrecision(s string) (lpv2.Precision, error) {
	switch s {
	case "", "ns":
		return lpv2.Nanosecond, nil
	case "us":
		return lpv2.Microsecond, nil
	case "ms":
		return lpv2.Millisecond, nil
	case "s":
		return lpv2.Second, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPrecision, s)
	}
}

// DecodePoints разбирает тело запроса в формате line protocol.
//
// Параметры:
//   - body: строки, разделённые '\n'
//   - org, bucket: маршрутизация, записываемая в каждую точку
//   - precision: точность меток времени
//   - now: метка для строк без timestamp
//
// При первой некорректной строке возвращается ошибка декодера с позицией
// "at line N:M" во входных данных; частичный результат не возвращается.
func DecodePoints(body []byte, org, bucket string, precision lpv2.Precision, now time.Time) ([]models.Point, error) {
	dec := lpv2.NewDecoderWithBytes(body)
	var points []models.Point

	for n := 1; dec.Next(); n++ {
		p, err := decodeLine(dec, precision, now)
		if err != nil {
			return nil, err
		}
		if p.Timestamp < 0 {
			return nil, fmt.Errorf("point %d (%s): %w", n, p.Measurement, ErrTimestampBeforeEpoch)
		}
		p.Org = org
		p.Bucket = bucket
		points = append(points, p)
	}
	return points, nil
}

func decodeLine(dec *lpv2.Decoder, precision lpv2.Precision, now time.Time) (models.Point, error) {
	var p models.Point

	name, err := dec.Measurement()
	if err != nil {
		return p, err
	}
	p.Measurement = string(name)

	for {
		key, val, err := dec.NextTag()
		if err != nil {
			return p, err
		}
		if key == nil {
			break
		}
		if p.Tags == nil {
			p.Tags = make(map[string]string)
		}
		p.Tags[string(key)] = string(val)
	}

	p.Fields = make(map[string]any)
	for {
		key, val, err := dec.NextField()
		if err != nil {
			return p, err
		}
		if key == nil {
			break
		}
		p.Fields[string(key)] = val.Interface()
	}

	ts, err := dec.Time(precision, now)
	if err != nil {
		return p, err
	}
	p.Timestamp = ts.UnixNano()
	return p, nil
}
