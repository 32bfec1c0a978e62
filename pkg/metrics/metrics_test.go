package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mash-regs/pkg/log"
	"github.com/mash-protocol/mash-regs/pkg/memdev"
	"github.com/mash-protocol/mash-regs/pkg/scatter"
)

func TestCollectorBlockEvents(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.Log(log.Event{Direction: log.DirectionRead, Category: log.CategoryBlock, Block: &log.BlockEvent{Length: 7}})
	c.Log(log.Event{Direction: log.DirectionRead, Category: log.CategoryBlock, Block: &log.BlockEvent{Length: 4}})
	c.Log(log.Event{Direction: log.DirectionWrite, Category: log.CategoryBlock, Block: &log.BlockEvent{Length: 2}})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Transactions.WithLabelValues("read")))
	assert.Equal(t, 11.0, testutil.ToFloat64(c.Bytes.WithLabelValues("read")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Transactions.WithLabelValues("write")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Bytes.WithLabelValues("write")))
}

func TestCollectorErrorsAndPasses(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.Log(log.Event{Category: log.CategoryError, Error: &log.ErrorEventData{Stage: log.StageDispatch}})
	c.Log(log.Event{Category: log.CategoryError, Error: &log.ErrorEventData{Stage: log.StageTransport}})
	c.Log(log.Event{Category: log.CategoryError, Error: &log.ErrorEventData{Stage: log.StageTransport}})
	c.Log(log.Event{Direction: log.DirectionRead, Category: log.CategoryPass, Pass: &log.PassEvent{Registrations: 5, Duration: time.Millisecond}})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Errors.WithLabelValues("dispatch")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Errors.WithLabelValues("transport")))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.Registrations.WithLabelValues("read")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.PassDuration))
}

func TestCollectorIgnoresIncompleteEvents(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.Log(log.Event{Category: log.CategoryBlock})
	c.Log(log.Event{Category: log.CategoryPass})
	c.Log(log.Event{Category: log.CategoryError})

	assert.Equal(t, 0, testutil.CollectAndCount(c.Transactions))
	assert.Equal(t, 0, testutil.CollectAndCount(c.Errors))
	assert.Equal(t, 0, testutil.CollectAndCount(c.PassDuration))
}

func TestCollectorWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := scatter.New(scatter.WithLogger(c)).
		ReadUInt16(0, nil).
		ReadUInt16(5, nil).
		ReadUInt32(40, nil)
	require.NoError(t, r.Read(context.Background(), memdev.New(64).ReadBlock))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Transactions.WithLabelValues("read")))
	assert.Equal(t, 11.0, testutil.ToFloat64(c.Bytes.WithLabelValues("read")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "mash_regs_pass_duration_seconds")
}

func TestCollectorDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}
