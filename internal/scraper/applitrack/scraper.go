package applitrack

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-schoolwatch/internal/scraper"
)

// Search terms typed into the AppliTrack posting search box. The portal
// has no category browse, so we search per subject.
var searchTerms = []string{
	"social studies",
	"history",
	"civics",
	"government",
	"economics",
	"geography",
	"humanities",
	"sociology",
	"psychology",
}

// Scraper drives an AppliTrack/Frontline career portal through the
// on-page search box and parses the rendered results text.
type Scraper struct {
	district string
	url      string
}

func New(district, url string) *Scraper {
	return &Scraper{district: district, url: url}
}

func (s *Scraper) Name() string {
	return scraper.SourceAppliTrack
}

func (s *Scraper) Scrape(ctx context.Context, page playwright.Page) ([]scraper.Job, error) {
	var jobs []scraper.Job

	for _, term := range searchTerms {
		//check context cancellation
		if ctx.Err() != nil {
			return jobs, ctx.Err()
		}

		if _, err := page.Goto(s.url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateNetworkidle,
			Timeout:   playwright.Float(30000),
		}); err != nil {
			log.Printf("    ⚠️ Navigation failed: %v", err)
			continue
		}
		time.Sleep(2 * time.Second)

		searchBox := page.Locator("#AppliTrackPostingSearch")
		if count, _ := searchBox.Count(); count == 0 {
			log.Printf("    ℹ️ No search box on %s, skipping term search", s.url)
			break
		}
		if err := searchBox.Fill(term); err != nil {
			log.Printf("    ⚠️ Could not fill search box: %v", err)
			continue
		}
		if err := page.Locator("#LnkBtnSearch").Click(); err != nil {
			log.Printf("    ⚠️ Could not click search: %v", err)
			continue
		}
		time.Sleep(4 * time.Second)

		bodyText, err := page.Locator("body").InnerText()
		if err != nil {
			log.Printf("    ⚠️ Could not read results: %v", err)
			continue
		}

		jobs = append(jobs, parseResults(bodyText, s.district, s.url, term)...)
	}

	return scraper.DedupByTitle(jobs), nil
}

// parseResults walks the rendered page text. A job title is the line
// immediately before a "JobID:" line; Position Type and Location values
// follow on their own lines within the posting block.
func parseResults(bodyText, district, url, term string) []scraper.Job {
	lines := strings.Split(bodyText, "\n")
	var jobs []scraper.Job

	for i := 0; i+1 < len(lines); i++ {
		if !strings.Contains(lines[i+1], "JobID:") {
			continue
		}
		title := strings.TrimSpace(lines[i])
		if len(title) <= 5 || len(title) >= 200 {
			continue
		}

		positionType := fieldAfter(lines, i+1, i+15, "Position Type:")
		location := fieldAfter(lines, i+1, i+15, "Location:")

		jobs = append(jobs, scraper.Job{
			Title:        title,
			PositionType: positionType,
			Location:     location,
			District:     district,
			URL:          url,
			SearchTerm:   term,
			PortalType:   scraper.SourceAppliTrack,
		})
	}

	return jobs
}

// fieldAfter finds a "Label:" line within [from, to) and returns the next
// non-empty line after it.
func fieldAfter(lines []string, from, to int, label string) string {
	if to > len(lines) {
		to = len(lines)
	}
	for j := from; j < to; j++ {
		if !strings.Contains(lines[j], label) {
			continue
		}
		for k := j + 1; k < len(lines) && k < j+3; k++ {
			if v := strings.TrimSpace(lines[k]); v != "" {
				return v
			}
		}
		return ""
	}
	return ""
}
