package artifact_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hanriverdata/regionpulse/internal/artifact"
	"github.com/hanriverdata/regionpulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(t *testing.T) map[string]domain.RegionRecord {
	t.Helper()
	catalog, err := domain.LoadCatalog()
	require.NoError(t, err)
	synth := domain.NewSynthesizer(20240101)

	records := make(map[string]domain.RegionRecord)
	for _, code := range []string{"11140", "11110", "27720"} {
		region := catalog.ByCode(code)
		require.NotNil(t, region)
		records[code] = synth.FullRecordFor(*region)
	}
	return records
}

func TestBuildSnapshot_SortedByCode(t *testing.T) {
	snap := artifact.BuildSnapshot(2024, 20240101, sampleRecords(t))

	require.Len(t, snap.Regions, 3)
	assert.Equal(t, "11110", snap.Regions[0].Code)
	assert.Equal(t, "11140", snap.Regions[1].Code)
	assert.Equal(t, "27720", snap.Regions[2].Code)
	assert.Equal(t, 2024, snap.TargetYear)
	assert.Equal(t, uint64(20240101), snap.Seed)
}

func TestWriteSnapshot_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	snap := artifact.BuildSnapshot(2024, 7, sampleRecords(t))

	require.NoError(t, artifact.WriteSnapshot(dir, snap))

	data, err := os.ReadFile(filepath.Join(dir, "snapshot.json"))
	require.NoError(t, err)

	var loaded artifact.Snapshot
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, snap, loaded)

	// No torn temp file left behind.
	_, err = os.Stat(filepath.Join(dir, "snapshot.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteSnapshot_DeterministicBytes(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	snap := artifact.BuildSnapshot(2024, 7, sampleRecords(t))

	require.NoError(t, artifact.WriteSnapshot(dirA, snap))
	require.NoError(t, artifact.WriteSnapshot(dirB, snap))

	a, err := os.ReadFile(filepath.Join(dirA, "snapshot.json"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dirB, "snapshot.json"))
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical inputs must serialize byte-identically")
}

func TestWriteHistory_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	records := sampleRecords(t)
	synth := domain.NewSynthesizer(20240101)

	series, err := domain.BuildHistory(records, domain.YearObservations{}, 2020, 2024, synth)
	require.NoError(t, err)

	require.NoError(t, artifact.WriteHistory(dir, series))

	data, err := os.ReadFile(filepath.Join(dir, "history.json"))
	require.NoError(t, err)

	var loaded domain.HistoricalSeries
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, series.StartYear, loaded.StartYear)
	assert.Equal(t, series.EndYear, loaded.EndYear)
	require.Contains(t, loaded.Data, "11110")
	assert.Len(t, loaded.Data["11110"], 5)
}

func TestWrite_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	snap := artifact.BuildSnapshot(2024, 7, sampleRecords(t))

	require.NoError(t, artifact.WriteSnapshot(dir, snap))
	_, err := os.Stat(filepath.Join(dir, "snapshot.json"))
	assert.NoError(t, err)
}
