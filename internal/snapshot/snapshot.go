package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-schoolwatch/internal/reconcile"
	"go-schoolwatch/internal/scraper"
)

const (
	snapshotFile = "job_snapshot.json"
	resultsFile  = "latest_results.json"
	runsFile     = "runs.jsonl"
)

// Snapshot is the single JSON document the file-based runner persists
// between scrapes.
type Snapshot struct {
	ScrapedAt time.Time     `json:"scraped_at"`
	TotalJobs int           `json:"total_jobs"`
	Jobs      []scraper.Job `json:"jobs"`
}

// Store reads and writes the snapshot plus an append-only run log in a
// cache directory.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates the cache directory if needed.
func NewStore(cacheDir string) (*Store, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Store{dir: cacheDir}, nil
}

// Load returns the previous snapshot, or an empty one when no snapshot
// exists yet. A corrupt snapshot is an error: silently starting from
// scratch would re-notify every known job.
func (s *Store) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, snapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Snapshot{}, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

// Save replaces the snapshot document.
func (s *Store) Save(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap.TotalJobs = len(snap.Jobs)
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, snapshotFile), data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// State rebuilds the reconciliation input from a snapshot. File mode has
// no per-job lifecycle columns, so every snapshot entry counts as active
// and already notified, first seen at the snapshot time.
func (snap *Snapshot) State() map[string]*reconcile.PersistedJob {
	state := make(map[string]*reconcile.PersistedJob, len(snap.Jobs))
	for _, job := range snap.Jobs {
		k := reconcile.KeyOf(job)
		state[k] = &reconcile.PersistedJob{
			Job:         job,
			JobKey:      k,
			FirstSeenAt: snap.ScrapedAt,
			LastSeenAt:  snap.ScrapedAt,
			Active:      true,
			Notified:    true,
		}
	}
	return state
}

// LatestResults is what the dashboard reads: the complete filtered
// batch of the most recent successful run, unlike the snapshot, which
// withholds jobs whose notification never went out.
type LatestResults struct {
	ScrapedAt time.Time     `json:"scraped_at"`
	TotalJobs int           `json:"total_jobs"`
	NewJobs   int           `json:"new_jobs"`
	Jobs      []scraper.Job `json:"jobs"`
}

// SaveLatestResults replaces latest_results.json.
func (s *Store) SaveLatestResults(res LatestResults) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res.TotalJobs = len(res.Jobs)
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, resultsFile), data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// RunRecord is one line in the append-only run log. A run appends a
// running record at start and a terminal record with the same ID at the
// end; a crash simply leaves the start record unpaired.
type RunRecord struct {
	ID            string     `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Status        string     `json:"status"`
	TotalJobsFound int       `json:"total_jobs_found"`
	NewJobsFound   int       `json:"new_jobs_found"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	Source         string    `json:"source"`
}

// AppendRun writes one record to runs.jsonl.
func (s *Store) AppendRun(rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.dir, runsFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append run record: %w", err)
	}
	return nil
}
