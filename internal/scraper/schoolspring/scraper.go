package schoolspring

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-schoolwatch/internal/browser"
	"go-schoolwatch/internal/scraper"
)

// Text patterns that mark navigation chrome rather than postings.
var excludePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^open in`),
	regexp.MustCompile(`(?i)^report`),
	regexp.MustCompile(`(?i)^terms`),
	regexp.MustCompile(`(?i)^privacy`),
	regexp.MustCompile(`(?i)^help`),
	regexp.MustCompile(`(?i)^contact`),
	regexp.MustCompile(`(?i)^sign in`),
	regexp.MustCompile(`(?i)^sign up`),
	regexp.MustCompile(`(?i)^log in`),
	regexp.MustCompile(`(?i)^register`),
	regexp.MustCompile(`(?i)@.*\.(org|com|edu|net)`),
	regexp.MustCompile(`(?i)^google`),
	regexp.MustCompile(`(?i)^maps`),
	regexp.MustCompile(`(?i)^http`),
}

// Scraper reads SchoolSpring district pages, a JS-rendered SPA.
type Scraper struct {
	district string
	url      string
}

func New(district, url string) *Scraper {
	return &Scraper{district: district, url: url}
}

func (s *Scraper) Name() string {
	return scraper.SourceSchoolSpring
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
	time.Sleep(4 * time.Second)
	browser.SmoothScroll(page)

	var jobs []scraper.Job

	//job cards first
	containers, err := page.Locator(`[class*="job"], [class*="posting"], [class*="position"], [class*="vacancy"]`).All()
	if err == nil {
		for _, container := range containers {
			titleEl := container.Locator(`h2, h3, h4, [class*="title"]`).First()
			if count, _ := titleEl.Count(); count == 0 {
				continue
			}
			title, err := titleEl.InnerText()
			if err != nil {
				continue
			}
			title = strings.TrimSpace(title)
			if !PlausibleTitle(title) {
				continue
			}

			href := ""
			link := container.Locator("a").First()
			if count, _ := link.Count(); count > 0 {
				href, _ = link.GetAttribute("href")
			}

			jobs = append(jobs, scraper.Job{
				Title:      title,
				District:   s.district,
				URL:        scraper.ResolveURL(s.url, href),
				PortalType: scraper.SourceSchoolSpring,
			})
		}
	}

	//fallback: posting links anywhere on the page
	if len(jobs) == 0 {
		links, err := page.Locator(`a[href*="/job/"], a[href*="/posting/"], a[href*="jobID"]`).All()
		if err == nil {
			for _, link := range links {
				text, err := link.InnerText()
				if err != nil {
					continue
				}
				text = strings.TrimSpace(text)
				if !PlausibleTitle(text) {
					continue
				}
				href, _ := link.GetAttribute("href")
				jobs = append(jobs, scraper.Job{
					Title:      text,
					District:   s.district,
					URL:        scraper.ResolveURL(s.url, href),
					PortalType: scraper.SourceSchoolSpring,
				})
			}
		}
	}

	return scraper.DedupByTitle(jobs), nil
}

// PlausibleTitle rejects navigation text and degenerate lengths.
func PlausibleTitle(title string) bool {
	if len(title) <= 3 || len(title) >= 150 {
		return false
	}
	for _, p := range excludePatterns {
		if p.MatchString(title) {
			return false
		}
	}
	return true
}
