package powerschool

import (
	"context"
	"net/http"
	"regexp"

	"github.com/playwright-community/playwright-go"

	"golang.org/x/net/html"

	"go-schoolwatch/internal/scraper"
)

var jobLinkRe = regexp.MustCompile(`(?i)(ViewJob|jobid|posting)`)

// Scraper reads PowerSchool TalentEd (tedk12.com) career portals. These
// render server-side, so a plain GET is enough.
type Scraper struct {
	district string
	url      string
	client   *http.Client
}

func New(district, url string) *Scraper {
	return &Scraper{district: district, url: url, client: scraper.NewHTTPClient()}
}

func (s *Scraper) Name() string {
	return scraper.SourcePowerSchool
}

func (s *Scraper) Scrape(ctx context.Context, _ playwright.Page) ([]scraper.Job, error) {
	doc, err := scraper.FetchDocument(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}
	return ExtractJobs(doc, s.district, s.url), nil
}

// ExtractJobs pulls posting links out of a parsed portal page.
func ExtractJobs(doc *html.Node, district, baseURL string) []scraper.Job {
	var jobs []scraper.Job
	for _, link := range scraper.CollectLinks(doc) {
		if !jobLinkRe.MatchString(link.Href) {
			continue
		}
		if len(link.Text) <= 2 {
			continue
		}
		jobs = append(jobs, scraper.Job{
			Title:      link.Text,
			District:   district,
			URL:        scraper.ResolveURL(baseURL, link.Href),
			PortalType: scraper.SourcePowerSchool,
		})
	}
	return scraper.DedupByTitle(jobs)
}
