// Compare a fresh scrape batch against the previous snapshot
// Owns every PersistedJob state transition

package reconcile

import (
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"go-schoolwatch/internal/scraper"
)

// PersistedJob is the durable form of a scraped job. Postings are never
// deleted; Active flips false once a completed scrape no longer sees them.
type PersistedJob struct {
	scraper.Job

	ID          string    `json:"id,omitempty"`
	JobKey      string    `json:"job_key"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	Active      bool      `json:"is_active"`
	Notified    bool      `json:"notified"`
}

type Result struct {
	//NewJobs are postings whose key was not in the previous snapshot
	NewJobs []*PersistedJob
	//StillActive are keys observed both previously and in this batch
	StillActive []string
	//Deactivated are previously known keys absent from this batch
	Deactivated []string
	//State is the full updated snapshot keyed by JobKey
	State map[string]*PersistedJob
}

// Reconcile computes the next snapshot from the previous one and a fresh
// batch. complete must be false when the scrape failed upstream: a partial
// batch refreshes what it saw but never deactivates anything, so a portal
// outage cannot mass-deactivate the history.
//
// prev is not mutated; the returned state holds copies.
func Reconcile(prev map[string]*PersistedJob, batch []scraper.Job, now time.Time, complete bool) Result {
	//collapse in-batch key collisions; winner is deterministic no matter
	//the order districts were scraped in
	latest := make(map[string]scraper.Job, len(batch))
	var order []string
	for _, job := range batch {
		k := KeyOf(job)
		cur, ok := latest[k]
		if !ok {
			latest[k] = job
			order = append(order, k)
			continue
		}
		if wins(job, cur) {
			latest[k] = job
		}
	}

	currentKeys := mapset.NewThreadUnsafeSetWithSize[string](len(latest))
	for k := range latest {
		currentKeys.Add(k)
	}

	state := make(map[string]*PersistedJob, len(prev)+len(latest))
	for k, pj := range prev {
		cp := *pj
		state[k] = &cp
	}

	res := Result{State: state}

	for _, k := range order {
		job := latest[k]
		if existing, ok := state[k]; ok {
			//refresh only; FirstSeenAt and Notified stay untouched
			existing.Job = job
			existing.LastSeenAt = now
			existing.Active = true
			res.StillActive = append(res.StillActive, k)
			continue
		}
		pj := &PersistedJob{
			Job:         job,
			JobKey:      k,
			FirstSeenAt: now,
			LastSeenAt:  now,
			Active:      true,
			Notified:    false,
		}
		state[k] = pj
		res.NewJobs = append(res.NewJobs, pj)
	}

	if complete {
		for k, pj := range state {
			if pj.Active && !currentKeys.Contains(k) {
				pj.Active = false
				res.Deactivated = append(res.Deactivated, k)
			}
		}
		sort.Strings(res.Deactivated)
	}

	return res
}

// PendingNotification returns the active jobs that have never been
// announced, oldest first. Besides this run's new jobs it picks up jobs
// from earlier runs whose dispatch failed on every channel, so an
// outage delays a notification instead of suppressing it.
func PendingNotification(state map[string]*PersistedJob) []*PersistedJob {
	var pending []*PersistedJob
	for _, pj := range state {
		if pj.Active && !pj.Notified {
			pending = append(pending, pj)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].FirstSeenAt.Equal(pending[j].FirstSeenAt) {
			return pending[i].FirstSeenAt.Before(pending[j].FirstSeenAt)
		}
		return pending[i].JobKey < pending[j].JobKey
	})
	return pending
}

// wins picks the surviving record among two batch entries sharing a key.
// Lexicographic on (URL, PortalType, Title) so the outcome is independent
// of scrape order.
func wins(a, b scraper.Job) bool {
	if a.URL != b.URL {
		return a.URL > b.URL
	}
	if a.PortalType != b.PortalType {
		return a.PortalType > b.PortalType
	}
	return a.Title > b.Title
}
