package snapshot

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-schoolwatch/internal/reconcile"
	"go-schoolwatch/internal/scraper"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	scrapedAt := time.Now().Truncate(time.Second)
	snap := &Snapshot{
		ScrapedAt: scrapedAt,
		Jobs: []scraper.Job{
			{Title: "Social Studies Teacher", District: "Mt. Lebanon School District", URL: "https://example.com/1"},
			{Title: "History Teacher", District: "Bethel Park School District", URL: "https://example.com/2"},
		},
	}
	require.NoError(t, store.Save(snap))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.True(t, loaded.ScrapedAt.Equal(scrapedAt))
	assert.Equal(t, 2, loaded.TotalJobs)
	assert.Equal(t, snap.Jobs, loaded.Jobs)
}

func TestStoreLoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Jobs)
	assert.True(t, snap.ScrapedAt.IsZero())
}

func TestStoreLoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, snapshotFile), []byte("{not json"), 0644))

	_, err = store.Load()
	require.Error(t, err, "a corrupt snapshot must not silently become an empty one")
}

func TestSnapshotState(t *testing.T) {
	scrapedAt := time.Now()
	snap := &Snapshot{
		ScrapedAt: scrapedAt,
		Jobs: []scraper.Job{
			{Title: "Social Studies Teacher", District: "Mt. Lebanon School District"},
		},
	}

	state := snap.State()
	require.Len(t, state, 1)

	k := reconcile.KeyOf(snap.Jobs[0])
	pj, ok := state[k]
	require.True(t, ok)
	assert.True(t, pj.Active)
	assert.True(t, pj.Notified, "snapshot entries were already announced")
	assert.Equal(t, scrapedAt, pj.FirstSeenAt)
}

func TestSaveLatestResults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.SaveLatestResults(LatestResults{
		ScrapedAt: time.Now(),
		NewJobs:   1,
		Jobs: []scraper.Job{
			{Title: "Social Studies Teacher", District: "Mt. Lebanon School District", URL: "https://example.com/1"},
			{Title: "History Teacher", District: "Bethel Park School District", URL: "https://example.com/2"},
		},
	}))

	data, err := os.ReadFile(filepath.Join(dir, resultsFile))
	require.NoError(t, err)

	var res LatestResults
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, 2, res.TotalJobs)
	assert.Equal(t, 1, res.NewJobs)
	assert.Len(t, res.Jobs, 2)
}

func TestAppendRun(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	started := time.Now()
	completed := started.Add(time.Minute)
	require.NoError(t, store.AppendRun(RunRecord{ID: "r1", StartedAt: started, Status: "running", Source: "automated"}))
	require.NoError(t, store.AppendRun(RunRecord{
		ID: "r1", StartedAt: started, CompletedAt: &completed,
		Status: "success", TotalJobsFound: 5, NewJobsFound: 2, Source: "automated",
	}))

	data, err := os.ReadFile(filepath.Join(dir, runsFile))
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second RunRecord
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "running", first.Status)
	assert.Nil(t, first.CompletedAt)
	assert.Equal(t, "success", second.Status)
	assert.Equal(t, 2, second.NewJobsFound)
}
