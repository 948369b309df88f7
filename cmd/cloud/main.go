package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/robfig/cron/v3"

	"go-schoolwatch/internal/browser"
	"go-schoolwatch/internal/config"
	"go-schoolwatch/internal/database"
	"go-schoolwatch/internal/filter"
	"go-schoolwatch/internal/notify"
	"go-schoolwatch/internal/portals"
	"go-schoolwatch/internal/reconcile"
	"go-schoolwatch/internal/scraper"
	"go-schoolwatch/internal/server"
	"go-schoolwatch/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to district config")
	daemon := flag.Bool("daemon", false, "run on a schedule and serve the dashboard")
	flag.Parse()

	cfg := config.Load(*configPath)
	if cfg.DatabaseURL == "" {
		log.Fatal("❌ DATABASE_URL is required")
	}

	ctx := context.Background()
	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(ctx); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	dispatcher := notify.NewDispatcher(cfg)

	if !*daemon {
		if err := runOnce(ctx, cfg, repo, dispatcher); err != nil {
			log.Fatalf("❌ Run failed: %v", err)
		}
		return
	}

	//daemon mode: dashboard API plus a scrape on a fixed schedule
	srv := server.New(repo)
	go func() {
		log.Printf("🌐 Dashboard listening on :%s", cfg.Port)
		if err := http.ListenAndServe(":"+cfg.Port, srv.Router()); err != nil {
			log.Fatalf("❌ Server stopped: %v", err)
		}
	}()

	//a slow scrape must not overlap with the next tick
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	schedule := fmt.Sprintf("@every %dh", cfg.ScrapeIntervalHours)
	if _, err := c.AddFunc(schedule, func() {
		if err := runOnce(context.Background(), cfg, repo, dispatcher); err != nil {
			log.Printf("❌ Scheduled run failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("❌ Failed to schedule runs: %v", err)
	}

	log.Printf("⏰ Scraping every %d hours", cfg.ScrapeIntervalHours)
	if err := runOnce(ctx, cfg, repo, dispatcher); err != nil {
		log.Printf("❌ Initial run failed: %v", err)
	}
	c.Run()
}

func runOnce(ctx context.Context, cfg *config.Config, repo *database.Repository, dispatcher *notify.Dispatcher) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Minute)
	defer cancel()

	runID, err := repo.StartRun(ctx, "cloud")
	if err != nil {
		return err
	}

	jobs, scrapeErr := scrape(ctx, cfg)
	if scrapeErr != nil {
		telemetry.RunsTotal.WithLabelValues(database.RunStatusFailed).Inc()
		if err := repo.CompleteRun(ctx, runID, database.RunStatusFailed, 0, 0, scrapeErr.Error()); err != nil {
			log.Printf("⚠️ Failed to record failed run: %v", err)
		}
		return fmt.Errorf("scrape: %w", scrapeErr)
	}

	jobs = filter.Apply(jobs)
	telemetry.JobsScraped.Add(float64(len(jobs)))

	prevState, err := repo.LoadState(ctx)
	if err != nil {
		telemetry.RunsTotal.WithLabelValues(database.RunStatusFailed).Inc()
		_ = repo.CompleteRun(ctx, runID, database.RunStatusFailed, len(jobs), 0, err.Error())
		return err
	}

	res := reconcile.Reconcile(prevState, jobs, time.Now(), true)
	log.Printf("📋 %d matching jobs, %d new, %d still active, %d gone",
		len(jobs), len(res.NewJobs), len(res.StillActive), len(res.Deactivated))

	if err := repo.ApplyReconciliation(ctx, res); err != nil {
		telemetry.RunsTotal.WithLabelValues(database.RunStatusFailed).Inc()
		_ = repo.CompleteRun(ctx, runID, database.RunStatusFailed, len(jobs), len(res.NewJobs), err.Error())
		return err
	}
	telemetry.NewJobs.Add(float64(len(res.NewJobs)))

	//dispatch everything still awaiting announcement, not just this
	//run's new jobs: rows left un-notified by a failed dispatch on an
	//earlier run are retried here
	pending := reconcile.PendingNotification(res.State)
	if notify.ShouldNotify(pending) {
		log.Printf("🔔 Notifying about %d job(s), %d new this run", len(pending), len(res.NewJobs))
		results := dispatcher.Send(ctx, pending)
		for _, r := range results {
			errMsg := ""
			outcome := "success"
			if r.Err != nil {
				errMsg = r.Err.Error()
				outcome = "failure"
			}
			telemetry.Notifications.WithLabelValues(outcome).Inc()
			if err := repo.LogNotification(ctx, runID, r.Channel, len(pending), r.Err == nil, errMsg); err != nil {
				log.Printf("⚠️ Failed to log notification: %v", err)
			}
		}
		if results.AnySuccess() {
			ids := make([]string, 0, len(pending))
			for _, pj := range pending {
				ids = append(ids, pj.ID)
			}
			if err := repo.MarkNotified(ctx, ids); err != nil {
				log.Printf("⚠️ Failed to mark jobs notified: %v", err)
			}
		}
	} else {
		log.Println("💤 No new jobs, skipping notification")
	}

	if n, err := repo.CountActiveJobs(ctx); err == nil {
		telemetry.ActiveJobsGauge.Set(float64(n))
	}

	telemetry.RunsTotal.WithLabelValues(database.RunStatusSuccess).Inc()
	if err := repo.CompleteRun(ctx, runID, database.RunStatusSuccess, len(jobs), len(res.NewJobs), ""); err != nil {
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
