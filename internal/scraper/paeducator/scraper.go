package paeducator

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-schoolwatch/internal/scraper"
)

// Scraper searches PAEducator.net, a JS-rendered SPA listing every
// Pennsylvania district, and keeps the rows matching one district.
type Scraper struct {
	district string
	url      string
	//search term; districts sometimes appear under a different name here
	filter string
}

func New(district, url, filter string) *Scraper {
	if filter == "" {
		filter = district
	}
	return &Scraper{district: district, url: url, filter: filter}
}

func (s *Scraper) Name() string {
	return scraper.SourcePAEducator
}

func (s *Scraper) Scrape(ctx context.Context, page playwright.Page) ([]scraper.Job, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if _, err := page.Goto(s.url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return nil, err
	}
	time.Sleep(3 * time.Second)

	//search for the district, the site has a single keyword box
	searchBox := page.Locator("input").First()
	if count, _ := searchBox.Count(); count > 0 {
		if err := searchBox.Fill(s.filter); err != nil {
			log.Printf("    ⚠️ Could not fill search box: %v", err)
		} else if err := searchBox.Press("Enter"); err != nil {
			log.Printf("    ⚠️ Could not submit search: %v", err)
		}
		time.Sleep(4 * time.Second)
	}

	bodyText, err := page.Locator("body").InnerText()
	if err != nil {
		return nil, err
	}

	return scraper.DedupByTitle(parseResults(bodyText, s.filter, s.district, s.url)), nil
}

// parseResults keeps the lines mentioning the district. Rows read
// "Job Title - District", so a trailing district suffix is stripped.
func parseResults(bodyText, filter, district, url string) []scraper.Job {
	var jobs []scraper.Job
	needle := strings.ToLower(filter)

	for _, line := range strings.Split(bodyText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(strings.ToLower(line), needle) {
			continue
		}

		title := line
		if idx := strings.LastIndex(title, " - "); idx != -1 {
			if strings.Contains(strings.ToLower(title[idx+3:]), needle) {
				title = strings.TrimSpace(title[:idx])
			}
		}
		if len(title) <= 3 {
			continue
		}
		if len(title) > 150 {
			title = title[:150]
		}

		jobs = append(jobs, scraper.Job{
			Title:      title,
			District:   district,
			URL:        url,
			PortalType: scraper.SourcePAEducator,
		})
	}

	return jobs
}
