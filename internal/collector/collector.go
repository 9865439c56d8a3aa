// Package collector собирает измерения среды исполнения Go и хоста
// в виде готовых к отправке lineprotocol.Measurement.
package collector

import (
	"context"
	"fmt"
	"maps"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/RoGogDBD/influx-writer/internal/lineprotocol"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Имена измерений.
const (
	RuntimeMeasurement = "go_runtime"
	MemMeasurement     = "mem"
	CPUMeasurement     = "cpu"
)

// HostSource читает показатели хоста. По умолчанию используется gopsutil.
type HostSource interface {
	VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error)
	CPUPercent(ctx context.Context) ([]float64, error)
}

type gopsutilSource struct{}

func (gopsutilSource) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

// CPUPercent возвращает загрузку каждого ядра с момента предыдущего вызова.
func (gopsutilSource) CPUPercent(ctx context.Context) ([]float64, error) {
	return cpu.PercentWithContext(ctx, 0, true)
}

// Collector накапливает измерения между отправками.
//
// Поля:
//   - tags: теги, добавляемые к каждому измерению (host и пользовательские)
//   - host: источник показателей хоста; nil отключает сбор mem и cpu
//   - rng: генератор для поля random_value
//   - pollCount: число выполненных опросов
//   - pending: измерения, ещё не забранные Drain
type Collector struct {
	tags      map[string]string
	host      HostSource
	rng       *rand.Rand
	mu        sync.Mutex
	pollCount int64
	pending   []*lineprotocol.Measurement
}

// Option настраивает Collector.
type Option func(*Collector)

// WithHostSource подменяет источник показателей хоста. nil отключает их сбор.
func WithHostSource(src HostSource) Option {
	return func(c *Collector) { c.host = src }
}

// WithTags добавляет теги ко всем измерениям.
func WithTags(tags map[string]string) Option {
	return func(c *Collector) {
		maps.Copy(c.tags, tags)
	}
}

// New создаёт Collector с тегом host=hostname.
func New(hostname string, opts ...Option) *Collector {
	c := &Collector{
		tags: map[string]string{},
		host: gopsutilSource{},
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if hostname != "" {
		c.tags["host"] = hostname
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Poll снимает показатели и откладывает их до следующего Drain.
// Ошибка чтения показателей хоста возвращается, но измерение среды
// исполнения при этом всё равно сохраняется.
func (c *Collector) Poll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := time.Now()
	rt, err := c.runtimeMeasurement(ts)
	if err != nil {
		return err
	}
	c.pending = append(c.pending, rt)
	c.pollCount++

	if c.host == nil {
		return nil
	}
	host, err := c.hostMeasurements(ctx, ts)
	c.pending = append(c.pending, host...)
	return err
}

// Drain возвращает накопленные измерения и очищает буфер.
func (c *Collector) Drain() []*lineprotocol.Measurement {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.pending
	c.pending = nil
	return out
}

// PollCount возвращает число выполненных опросов.
func (c *Collector) PollCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pollCount
}

func (c *Collector) runtimeMeasurement(ts time.Time) (*lineprotocol.Measurement, error) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	fields := map[string]lineprotocol.FieldValue{
		"alloc":           lineprotocol.UInteger(m.Alloc),
		"buck_hash_sys":   lineprotocol.UInteger(m.BuckHashSys),
		"frees":           lineprotocol.UInteger(m.Frees),
		"gc_cpu_fraction": lineprotocol.Float(m.GCCPUFraction),
		"gc_sys":          lineprotocol.UInteger(m.GCSys),
		"heap_alloc":      lineprotocol.UInteger(m.HeapAlloc),
		"heap_idle":       lineprotocol.UInteger(m.HeapIdle),
		"heap_inuse":      lineprotocol.UInteger(m.HeapInuse),
		"heap_objects":    lineprotocol.UInteger(m.HeapObjects),
		"heap_released":   lineprotocol.UInteger(m.HeapReleased),
		"heap_sys":        lineprotocol.UInteger(m.HeapSys),
		"last_gc":         lineprotocol.UInteger(m.LastGC),
		"lookups":         lineprotocol.UInteger(m.Lookups),
		"mcache_inuse":    lineprotocol.UInteger(m.MCacheInuse),
		"mcache_sys":      lineprotocol.UInteger(m.MCacheSys),
		"mspan_inuse":     lineprotocol.UInteger(m.MSpanInuse),
		"mspan_sys":       lineprotocol.UInteger(m.MSpanSys),
		"mallocs":         lineprotocol.UInteger(m.Mallocs),
		"next_gc":         lineprotocol.UInteger(m.NextGC),
		"num_forced_gc":   lineprotocol.UInteger(uint64(m.NumForcedGC)),
		"num_gc":          lineprotocol.UInteger(uint64(m.NumGC)),
		"other_sys":       lineprotocol.UInteger(m.OtherSys),
		"pause_total_ns":  lineprotocol.UInteger(m.PauseTotalNs),
		"stack_inuse":     lineprotocol.UInteger(m.StackInuse),
		"stack_sys":       lineprotocol.UInteger(m.StackSys),
		"sys":             lineprotocol.UInteger(m.Sys),
		"total_alloc":     lineprotocol.UInteger(m.TotalAlloc),
		"goroutines":      lineprotocol.Integer(int64(runtime.NumGoroutine())),
		"poll_count":      lineprotocol.Integer(c.pollCount),
		"random_value":    lineprotocol.Float(c.rng.Float64() * 100),
	}

	return lineprotocol.NewBuilder(RuntimeMeasurement).
		Fields(fields).
		Tags(c.tags).
		Timestamp(ts).
		Build()
}

func (c *Collector) hostMeasurements(ctx context.Context, ts time.Time) ([]*lineprotocol.Measurement, error) {
	var out []*lineprotocol.Measurement

	vm, err := c.host.VirtualMemory(ctx)
	if err != nil {
		return out, fmt.Errorf("read virtual memory: %w", err)
	}
	m, err := lineprotocol.NewBuilder(MemMeasurement).
		Fields(map[string]lineprotocol.FieldValue{
			"total":        lineprotocol.UInteger(vm.Total),
			"free":         lineprotocol.UInteger(vm.Free),
			"used":         lineprotocol.UInteger(vm.Used),
			"used_percent": lineprotocol.Float(vm.UsedPercent),
		}).
		Tags(c.tags).
		Timestamp(ts).
		Build()
	if err != nil {
		return out, err
	}
	out = append(out, m)

	usage, err := c.host.CPUPercent(ctx)
	if err != nil {
		return out, fmt.Errorf("read cpu usage: %w", err)
	}
	for i, pct := range usage {
		tags := maps.Clone(c.tags)
		tags["cpu"] = "cpu" + strconv.Itoa(i)

		m, err := lineprotocol.NewBuilder(CPUMeasurement).
			Fields(map[string]lineprotocol.FieldValue{"usage_percent": lineprotocol.Float(pct)}).
			Tags(tags).
			Timestamp(ts).
			Build()
		if err != nil {
			return out, err
		}
		out = append(out, m)
	}
	return out, nil
}
