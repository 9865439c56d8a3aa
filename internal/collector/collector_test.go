package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/RoGogDBD/influx-writer/internal/lineprotocol"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	vm     *mem.VirtualMemoryStat
	vmErr  error
	cpu    []float64
	cpuErr error
}

func (f fakeHost) VirtualMemory(context.Context) (*mem.VirtualMemoryStat, error) {
	return f.vm, f.vmErr
}

func (f fakeHost) CPUPercent(context.Context) ([]float64, error) {
	return f.cpu, f.cpuErr
}

func byName(ms []*lineprotocol.Measurement, name string) []*lineprotocol.Measurement {
	var out []*lineprotocol.Measurement
	for _, m := range ms {
		if m.Name() == name {
			out = append(out, m)
		}
	}
	return out
}

func TestCollector_PollDrain(t *testing.T) {
	host := fakeHost{
		vm:  &mem.VirtualMemoryStat{Total: 100, Free: 40, Used: 60, UsedPercent: 60},
		cpu: []float64{12.5, 50},
	}
	c := New("h1", WithHostSource(host), WithTags(map[string]string{"env": "test"}))

	require.NoError(t, c.Poll(context.Background()))
	require.Equal(t, int64(1), c.PollCount())

	ms := c.Drain()
	require.Len(t, ms, 4)
	require.Empty(t, c.Drain())

	rt := byName(ms, RuntimeMeasurement)
	require.Len(t, rt, 1)
	require.Equal(t, map[string]string{"host": "h1", "env": "test"}, rt[0].Tags())
	pc, ok := rt[0].Field("poll_count")
	require.True(t, ok)
	require.Equal(t, int64(0), pc.Interface())
	alloc, ok := rt[0].Field("alloc")
	require.True(t, ok)
	require.Equal(t, lineprotocol.KindUInteger, alloc.Kind())

	memMs := byName(ms, MemMeasurement)
	require.Len(t, memMs, 1)
	used, _ := memMs[0].Field("used_percent")
	require.Equal(t, 60.0, used.Interface())

	cpus := byName(ms, CPUMeasurement)
	require.Len(t, cpus, 2)
	tag, _ := cpus[1].Tag("cpu")
	require.Equal(t, "cpu1", tag)
	usage, _ := cpus[1].Field("usage_percent")
	require.Equal(t, 50.0, usage.Interface())

	for _, m := range ms {
		require.Equal(t, ms[0].Timestamp(), m.Timestamp())
	}
}

func TestCollector_PollCountIncrements(t *testing.T) {
	c := New("h1", WithHostSource(nil))
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Poll(context.Background()))
	}

	ms := c.Drain()
	require.Len(t, ms, 3)
	last, _ := ms[2].Field("poll_count")
	require.Equal(t, int64(2), last.Interface())
	require.Equal(t, int64(3), c.PollCount())
}

func TestCollector_HostErrors_TableDriven(t *testing.T) {
	tests := []struct {
		name    string
		host    fakeHost
		wantLen int
	}{
		{
			name:    "memory error",
			host:    fakeHost{vmErr: errors.New("no /proc")},
			wantLen: 1,
		},
		{
			name:    "cpu error",
			host:    fakeHost{vm: &mem.VirtualMemoryStat{Total: 1}, cpuErr: errors.New("no /proc/stat")},
			wantLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New("", WithHostSource(tt.host))
			require.Error(t, c.Poll(context.Background()))
			ms := c.Drain()
			require.Len(t, ms, tt.wantLen)
			require.Empty(t, ms[0].Tags())
		})
	}
}

func TestCollector_EncodesAsLineProtocol(t *testing.T) {
	c := New("h 1", WithHostSource(nil))
	require.NoError(t, c.Poll(context.Background()))

	line := lineprotocol.EncodeBatch(c.Drain())
	require.Contains(t, line, `go_runtime,host=h\ 1 `)
	require.Contains(t, line, "poll_count=0i")
}
