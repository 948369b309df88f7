package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"go-schoolwatch/internal/browser"
	"go-schoolwatch/internal/config"
	"go-schoolwatch/internal/filter"
	"go-schoolwatch/internal/notify"
	"go-schoolwatch/internal/portals"
	"go-schoolwatch/internal/reconcile"
	"go-schoolwatch/internal/scraper"
	"go-schoolwatch/internal/snapshot"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to district config")
	testNotify := flag.Bool("test", false, "send a test notification and exit")
	flag.Parse()

	cfg := config.Load(*configPath)
	dispatcher := notify.NewDispatcher(cfg)

	if *testNotify {
		runTest(dispatcher)
		return
	}

	store, err := snapshot.NewStore(cfg.CachePath)
	if err != nil {
		log.Fatalf("❌ Failed to open cache: %v", err)
	}

	if err := run(cfg, store, dispatcher); err != nil {
		log.Fatalf("❌ Run failed: %v", err)
	}
}

func runTest(dispatcher *notify.Dispatcher) {
	if dispatcher.Configured() == 0 {
		log.Fatal("❌ No notification channels configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	results := dispatcher.Send(ctx, notify.TestJobs())
	if !results.AnySuccess() {
		log.Fatal("❌ Test notification failed on every channel")
	}
	log.Println("✅ Test notification delivered")
}

func run(cfg *config.Config, store *snapshot.Store, dispatcher *notify.Dispatcher) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	prev, err := store.Load()
	if err != nil {
		return err
	}
	prevState := prev.State()

	runID := uuid.New().String()
	started := time.Now()
	if err := store.AppendRun(snapshot.RunRecord{
		ID:        runID,
		StartedAt: started,
		Status:    "running",
		Source:    "automated",
	}); err != nil {
		return err
	}

	jobs, scrapeErr := scrape(ctx, cfg)
	if scrapeErr != nil {
		completed := time.Now()
		_ = store.AppendRun(snapshot.RunRecord{
			ID:           runID,
			StartedAt:    started,
			CompletedAt:  &completed,
			Status:       "failed",
			ErrorMessage: scrapeErr.Error(),
			Source:       "automated",
		})
		return fmt.Errorf("scrape: %w", scrapeErr)
	}

	jobs = filter.Apply(jobs)
	now := time.Now()
	res := reconcile.Reconcile(prevState, jobs, now, true)

	log.Printf("📋 %d matching jobs, %d new, %d still active, %d gone",
		len(jobs), len(res.NewJobs), len(res.StillActive), len(res.Deactivated))

	notified := true
	if notify.ShouldNotify(res.NewJobs) {
		log.Printf("🔔 Notifying about %d new jobs", len(res.NewJobs))
		results := dispatcher.Send(ctx, res.NewJobs)
		notified = results.AnySuccess()
	} else {
		log.Println("💤 No new jobs, skipping notification")
	}

	//the snapshot has no notified column, so withholding the undelivered
	//new jobs makes them come back as new on the next run and get retried
	active := activeJobs(res, notified)
	if err := store.Save(&snapshot.Snapshot{
		ScrapedAt: now,
		Jobs:      active,
	}); err != nil {
		return err
	}

	//latest_results.json always carries the full batch for the dashboard
	if err := store.SaveLatestResults(snapshot.LatestResults{
		ScrapedAt: now,
		NewJobs:   len(res.NewJobs),
		Jobs:      jobs,
	}); err != nil {
		return err
	}

	completed := time.Now()
	if err := store.AppendRun(snapshot.RunRecord{
		ID:             runID,
		StartedAt:      started,
		CompletedAt:    &completed,
		Status:         "success",
		TotalJobsFound: len(jobs),
		NewJobsFound:   len(res.NewJobs),
		Source:         "automated",
	}); err != nil {
		return err
	}

	log.Println("✅ Run complete")
	return nil
}

func scrape(ctx context.Context, cfg *config.Config) ([]scraper.Job, error) {
	var page playwright.Page
	if portals.NeedsBrowser(cfg) {
		pwManager, err := browser.NewPlaywright()
		if err != nil {
			return nil, fmt.Errorf("init playwright: %w", err)
		}
		defer pwManager.Close()

		page, err = pwManager.NewPage()
		if err != nil {
			return nil, fmt.Errorf("create page: %w", err)
		}
	}
	return portals.ScrapeAll(ctx, page, cfg, false)
}

// activeJobs flattens the reconciled state back into the snapshot's job
// list, dropping deactivated entries and, when delivery failed, the
// never-notified new jobs.
func activeJobs(res reconcile.Result, notified bool) []scraper.Job {
	withheld := map[string]bool{}
	if !notified {
		for _, pj := range res.NewJobs {
			withheld[pj.JobKey] = true
		}
	}

	var jobs []scraper.Job
	for k, pj := range res.State {
		if !pj.Active || withheld[k] {
			continue
		}
		jobs = append(jobs, pj.Job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].District != jobs[j].District {
			return jobs[i].District < jobs[j].District
		}
		return jobs[i].Title < jobs[j].Title
	})
	return jobs
}
