package commands

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/mash-regs/pkg/log"
)

// recordLog runs a read and a failing write against the sensor image and
// returns the transaction log path.
func recordLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tx.rlog")

	s, err := OpenSession(context.Background(), SessionOptions{
		MapPath:      sensorMap,
		ImagePath:    writeSensorImage(t),
		GapThreshold: -1,
		ProtocolLog:  path,
	})
	require.NoError(t, err)

	_, _, err = s.Read(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Write(context.Background(), []Assignment{{Name: "setpoint", Value: "5"}}))
	require.NoError(t, s.Close())
	return path
}

func TestRunViewAll(t *testing.T) {
	path := recordLog(t)

	var out bytes.Buffer
	require.NoError(t, RunView(path, log.Filter{}, &out))

	// 4 read blocks + 1 read pass + 1 write block + 1 write pass.
	assert.Equal(t, 7, strings.Count(out.String(), "[session:"))
	assert.Contains(t, out.String(), "Block: 0x0000..0x0007 (7 bytes)")
	assert.Contains(t, out.String(), "device=sensor-a")
}

func TestRunViewFiltered(t *testing.T) {
	path := recordLog(t)

	dir := log.DirectionWrite
	var out bytes.Buffer
	require.NoError(t, RunView(path, log.Filter{Direction: &dir}, &out))
	assert.Equal(t, 2, strings.Count(out.String(), "[session:"))

	cat := log.CategoryPass
	out.Reset()
	require.NoError(t, RunView(path, log.Filter{Category: &cat}, &out))
	assert.Equal(t, 2, strings.Count(out.String(), "Transactions:"))
}

func TestRunViewMissingFile(t *testing.T) {
	assert.Error(t, RunView(filepath.Join(t.TempDir(), "none.rlog"), log.Filter{}, &bytes.Buffer{}))
}

func TestRunStats(t *testing.T) {
	path := recordLog(t)

	var out bytes.Buffer
	require.NoError(t, RunStats(path, &out))

	s := out.String()
	assert.Contains(t, s, "Total Events: 7")
	assert.Contains(t, s, "READ:  transactions=4")
	assert.Contains(t, s, "WRITE: transactions=1 bytes=1 passes=1 failed=0")
	assert.Contains(t, s, "Errors: 0")
	assert.Contains(t, s, "Sessions: 2")
}

func TestStatsCountsErrors(t *testing.T) {
	stats := newStats()
	addr := 4
	stats.add(log.Event{Category: log.CategoryError, Error: &log.ErrorEventData{Stage: log.StageTransport, Address: &addr}})
	stats.add(log.Event{Category: log.CategoryPass, Pass: &log.PassEvent{Failed: true}})

	assert.Equal(t, 1, stats.ErrorsByStage[log.StageTransport])
	assert.Equal(t, 1, stats.Traffic[log.DirectionRead].FailedPasses)
}

func TestExport(t *testing.T) {
	path := recordLog(t)

	reader, err := log.NewReader(path)
	require.NoError(t, err)
	var jsonl bytes.Buffer
	require.NoError(t, export(reader, "jsonl", &jsonl))
	reader.Close()

	lines := strings.Split(strings.TrimSpace(jsonl.String()), "\n")
	require.Len(t, lines, 7)
	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))

	reader, err = log.NewReader(path)
	require.NoError(t, err)
	var csvOut bytes.Buffer
	require.NoError(t, export(reader, "csv", &csvOut))
	reader.Close()

	records, err := csv.NewReader(&csvOut).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 8)
	assert.Equal(t, "timestamp", records[0][0])
	assert.Equal(t, "BLOCK", records[1][3])

	reader, err = log.NewReader(path)
	require.NoError(t, err)
	defer reader.Close()
	assert.Error(t, export(reader, "xml", &bytes.Buffer{}))
}

func TestParseFlags(t *testing.T) {
	d, err := ParseDirectionFlag("WRITE")
	require.NoError(t, err)
	assert.Equal(t, log.DirectionWrite, d)
	_, err = ParseDirectionFlag("in")
	assert.Error(t, err)

	c, err := ParseCategoryFlag("pass")
	require.NoError(t, err)
	assert.Equal(t, log.CategoryPass, c)
	_, err = ParseCategoryFlag("message")
	assert.Error(t, err)
}
