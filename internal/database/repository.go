package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-schoolwatch/internal/reconcile"
)

// Run ledger statuses. A run is created running and reaches exactly one
// terminal status; a crash leaves it running, which nothing acts on.
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

type ScrapeRun struct {
	ID             string     `json:"id"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Status         string     `json:"status"`
	TotalJobsFound int        `json:"total_jobs_found"`
	NewJobsFound   int        `json:"new_jobs_found"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	Source         string     `json:"source"`
}

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// ---------------- JOB STATE ----------------

// LoadState returns every persisted job keyed by job_key. Inactive rows are
// included so a reappearing posting keeps its original first_seen_at.
func (r *Repository) LoadState(ctx context.Context) (map[string]*reconcile.PersistedJob, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, job_key, district, title, url, portal_type,
		        first_seen_at, last_seen_at, is_active, notified
		 FROM jobs`)
	if err != nil {
		return nil, fmt.Errorf("failed to load job state: %w", err)
	}
	defer rows.Close()

	state := make(map[string]*reconcile.PersistedJob)
	for rows.Next() {
		var pj reconcile.PersistedJob
		var portalType *string
		if err := rows.Scan(&pj.ID, &pj.JobKey, &pj.District, &pj.Title, &pj.URL, &portalType,
			&pj.FirstSeenAt, &pj.LastSeenAt, &pj.Active, &pj.Notified); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		if portalType != nil {
			pj.PortalType = *portalType
		}
		state[pj.JobKey] = &pj
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job rows: %w", err)
	}

	return state, nil
}

// ApplyReconciliation writes a reconciliation result in one transaction.
// Either the whole run lands or none of it does.
func (r *Repository) ApplyReconciliation(ctx context.Context, res reconcile.Result) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // safe no-op after commit

	for _, pj := range res.NewJobs {
		if pj.ID == "" {
			pj.ID = uuid.New().String()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO jobs (id, job_key, district, title, url, portal_type,
			                   first_seen_at, last_seen_at, is_active, notified)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, FALSE)
			 ON CONFLICT (job_key) DO UPDATE
			   SET title = EXCLUDED.title, url = EXCLUDED.url,
			       portal_type = EXCLUDED.portal_type,
			       last_seen_at = EXCLUDED.last_seen_at, is_active = TRUE`,
			pj.ID, pj.JobKey, pj.District, pj.Title, pj.URL, pj.PortalType,
			pj.FirstSeenAt, pj.LastSeenAt)
		if err != nil {
			return fmt.Errorf("failed to insert job %q: %w", pj.JobKey, err)
		}
	}

	for _, key := range res.StillActive {
		pj, ok := res.State[key]
		if !ok {
			continue
		}
		_, err := tx.Exec(ctx,
			`UPDATE jobs
			 SET title = $2, url = $3, portal_type = $4,
			     last_seen_at = $5, is_active = TRUE
			 WHERE job_key = $1`,
			key, pj.Title, pj.URL, pj.PortalType, pj.LastSeenAt)
		if err != nil {
			return fmt.Errorf("failed to refresh job %q: %w", key, err)
		}
	}

	if len(res.Deactivated) > 0 {
		_, err := tx.Exec(ctx,
			`UPDATE jobs SET is_active = FALSE WHERE job_key = ANY($1)`,
			res.Deactivated)
		if err != nil {
			return fmt.Errorf("failed to deactivate jobs: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reconciliation: %w", err)
	}
	return nil
}

// MarkNotified flips the notified flag after a successful dispatch.
func (r *Repository) MarkNotified(ctx context.Context, jobIDs []string) error {
	if len(jobIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `UPDATE jobs SET notified = TRUE WHERE id = ANY($1)`, jobIDs)
	if err != nil {
		return fmt.Errorf("failed to mark jobs notified: %w", err)
	}
	return nil
}

// ---------------- RUN LEDGER ----------------

func (r *Repository) StartRun(ctx context.Context, source string) (string, error) {
	id := uuid.New().String()
	_, err := r.db.Exec(ctx,
		`INSERT INTO scrape_runs (id, status, source) VALUES ($1, $2, $3)`,
		id, RunStatusRunning, source)
	if err != nil {
		return "", fmt.Errorf("failed to create scrape run: %w", err)
	}
	return id, nil
}

func (r *Repository) CompleteRun(ctx context.Context, runID, status string, totalFound, newFound int, errMsg string) error {
	var errText *string
	if errMsg != "" {
		errText = &errMsg
	}
	_, err := r.db.Exec(ctx,
		`UPDATE scrape_runs
		 SET status = $2, completed_at = now(),
		     total_jobs_found = $3, new_jobs_found = $4, error_message = $5
		 WHERE id = $1`,
		runID, status, totalFound, newFound, errText)
	if err != nil {
		return fmt.Errorf("failed to complete scrape run: %w", err)
	}
	return nil
}

// ---------------- NOTIFICATION LOG ----------------

func (r *Repository) LogNotification(ctx context.Context, runID, channel string, jobsCount int, success bool, errMsg string) error {
	var errText *string
	if errMsg != "" {
		errText = &errMsg
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO notifications (id, scrape_run_id, notification_type, jobs_count, success, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), runID, channel, jobsCount, success, errText)
	if err != nil {
		return fmt.Errorf("failed to log notification: %w", err)
	}
	return nil
}

// ---------------- DASHBOARD READS ----------------

// ListJobs returns persisted jobs newest-first. The dashboard reads
// active rows; inactive history stays queryable.
func (r *Repository) ListJobs(ctx context.Context, activeOnly bool) ([]reconcile.PersistedJob, error) {
	query := `SELECT id, job_key, district, title, url, portal_type,
	                 first_seen_at, last_seen_at, is_active, notified
	          FROM jobs`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY first_seen_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []reconcile.PersistedJob
	for rows.Next() {
		var pj reconcile.PersistedJob
		var portalType *string
		if err := rows.Scan(&pj.ID, &pj.JobKey, &pj.District, &pj.Title, &pj.URL, &portalType,
			&pj.FirstSeenAt, &pj.LastSeenAt, &pj.Active, &pj.Notified); err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		if portalType != nil {
			pj.PortalType = *portalType
		}
		jobs = append(jobs, pj)
	}
	return jobs, rows.Err()
}

// RecentRuns returns the last N ledger entries, newest-first.
func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]ScrapeRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, started_at, completed_at, status,
		        total_jobs_found, new_jobs_found, error_message, source
		 FROM scrape_runs
		 ORDER BY started_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scrape runs: %w", err)
	}
	defer rows.Close()

	var runs []ScrapeRun
	for rows.Next() {
		var run ScrapeRun
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.CompletedAt, &run.Status,
			&run.TotalJobsFound, &run.NewJobsFound, &run.ErrorMessage, &run.Source); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CountActiveJobs backs the dashboard gauge.
func (r *Repository) CountActiveJobs(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM jobs WHERE is_active = TRUE`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count active jobs: %w", err)
	}
	return n, nil
}
