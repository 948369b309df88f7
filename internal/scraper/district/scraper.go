package district

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/playwright-community/playwright-go"

	"golang.org/x/net/html"

	"go-schoolwatch/internal/scraper"
)

// Hints that a link leads to an employment page.
var jobLinkKeywords = []string{
	"job", "position", "opening", "employment", "career", "vacancy",
	"hiring", "posting", "opportunity", "apply",
}

// Titles that are plainly navigation, not postings.
var navigationText = map[string]bool{
	"home": true, "about": true, "contact": true, "login": true, "search": true,
}

var jobTitleRe = regexp.MustCompile(`(?i)\b(teacher|principal|secretary|aide|coach|custodian|driver|nurse|counselor|specialist|director|coordinator|assistant|paraprofessional|substitute|tutor|librarian|technician)\b`)

// Scraper handles districts with a bespoke website: generic link
// heuristics over a server-rendered page.
type Scraper struct {
	district string
	url      string
	client   *http.Client
}

func New(district, url string) *Scraper {
	return &Scraper{district: district, url: url, client: scraper.NewHTTPClient()}
}

func (s *Scraper) Name() string {
	return scraper.SourceDistrictSite
}

func (s *Scraper) Scrape(ctx context.Context, _ playwright.Page) ([]scraper.Job, error) {
	doc, err := scraper.FetchDocument(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}
	return ExtractJobs(doc, s.district, s.url), nil
}

// ExtractJobs keeps links whose href or text looks employment-related,
// or whose text reads like a school job title.
func ExtractJobs(doc *html.Node, district, baseURL string) []scraper.Job {
	var jobs []scraper.Job
	for _, link := range scraper.CollectLinks(doc) {
		text := strings.TrimSpace(link.Text)
		lower := strings.ToLower(text)
		if len(text) < 3 || len(text) > 200 || navigationText[lower] {
			continue
		}

		isJobLink := containsAny(strings.ToLower(link.Href), jobLinkKeywords)
		isJobText := containsAny(lower, jobLinkKeywords)
		isJobTitle := jobTitleRe.MatchString(text)
		if !isJobLink && !isJobText && !isJobTitle {
			continue
		}

		jobs = append(jobs, scraper.Job{
			Title:      text,
			District:   district,
			URL:        scraper.ResolveURL(baseURL, link.Href),
			PortalType: scraper.SourceDistrictSite,
		})
	}
	return scraper.DedupByTitle(jobs)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
