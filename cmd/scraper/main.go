package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-schoolwatch/internal/browser"
	"go-schoolwatch/internal/config"
	"go-schoolwatch/internal/filter"
	"go-schoolwatch/internal/portals"
	"go-schoolwatch/internal/scraper"
)

type output struct {
	ScrapedAt time.Time     `json:"scraped_at"`
	TotalJobs int           `json:"total_jobs"`
	Jobs      []scraper.Job `json:"jobs"`
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to district config")
	outputPath := flag.String("output", "", "output JSON file path (default: jobs_TIMESTAMP.json)")
	districtArg := flag.String("district", "", "scrape only a specific district by name")
	listJobs := flag.Bool("list", false, "list all job titles in output")
	quiet := flag.Bool("quiet", false, "suppress progress output")
	noSave := flag.Bool("no-save", false, "do not save results to file")
	socialStudies := flag.Bool("social-studies", false, "only keep middle/high school social studies positions")
	flag.Parse()

	cfg := config.Load(*configPath)

	//narrow to a single district if requested
	if !cfg.FilterDistricts(*districtArg) {
		fmt.Printf("No district found matching %q\n", *districtArg)
		fmt.Println("Available districts:")
		for _, school := range cfg.Schools {
			fmt.Printf("  - %s\n", school.Name)
		}
		os.Exit(1)
	}

	//setup context with timeout = 15 mins
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	var page playwright.Page
	if portals.NeedsBrowser(cfg) {
		pwManager, err := browser.NewPlaywright()
		if err != nil {
			log.Fatalf("❌ Failed to init Playwright: %v", err)
		}
		defer pwManager.Close()

		page, err = pwManager.NewPage()
		if err != nil {
			log.Fatalf("❌ Failed to create page: %v", err)
		}
	}

	jobs, err := portals.ScrapeAll(ctx, page, cfg, *quiet)
	if err != nil {
		log.Fatalf("❌ Scrape failed: %v", err)
	}

	if *socialStudies {
		jobs = filter.Apply(jobs)
		if !*quiet {
			log.Println("🔍 Filtered to middle/high school social studies positions")
		}
	}

	printSummary(jobs)

	if *listJobs {
		printJobs(jobs)
	}

	if !*noSave {
		path, err := saveResults(jobs, *outputPath)
		if err != nil {
			log.Fatalf("❌ Failed to save results: %v", err)
		}
		fmt.Printf("\nResults saved to: %s\n", path)
	}
}

func printSummary(jobs []scraper.Job) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SCRAPING COMPLETE")
	fmt.Println(strings.Repeat("=", 60))

	byDistrict := map[string]int{}
	bySource := map[string]int{}
	for _, job := range jobs {
		byDistrict[job.District]++
		bySource[job.PortalType]++
	}

	fmt.Printf("\nTotal jobs found: %d\n", len(jobs))
	fmt.Println("\nJobs by district:")
	for _, district := range sortedKeys(byDistrict) {
		fmt.Printf("  %s: %d\n", district, byDistrict[district])
	}
	fmt.Println("\nJobs by source type:")
	for _, source := range sortedKeys(bySource) {
		fmt.Printf("  %s: %d\n", source, bySource[source])
	}
}

func printJobs(jobs []scraper.Job) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("JOB LISTINGS")
	fmt.Println(strings.Repeat("=", 60))

	sorted := make([]scraper.Job, len(jobs))
	copy(sorted, jobs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].District < sorted[j].District
	})

	currentDistrict := ""
	for _, job := range sorted {
		if job.District != currentDistrict {
			currentDistrict = job.District
			fmt.Printf("\n--- %s ---\n", currentDistrict)
		}
		fmt.Printf("  * %s\n", job.Title)
		fmt.Printf("    %s\n", job.URL)
	}
}

func saveResults(jobs []scraper.Job, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("jobs_%s.json", time.Now().Format("20060102_150405"))
	}

	data, err := json.MarshalIndent(output{
		ScrapedAt: time.Now(),
		TotalJobs: len(jobs),
		Jobs:      jobs,
	}, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
