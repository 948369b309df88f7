// Define an interface for all portal scrapers
// Job is the raw record every portal produces

package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Portal type tags as they appear in persisted rows and saved JSON.
const (
	SourceAppliTrack   = "AppliTrack"
	SourcePowerSchool  = "PowerSchool"
	SourcePAEducator   = "PAEducator"
	SourceSchoolSpring = "SchoolSpring"
	SourceDistrictSite = "District Website"
)

type Job struct {
	Title        string `json:"title"`
	District     string `json:"district"`
	URL          string `json:"url"`
	PortalType   string `json:"portal_type"`
	PositionType string `json:"position_type,omitempty"`
	Location     string `json:"location,omitempty"`
	Category     string `json:"category,omitempty"`
	SearchTerm   string `json:"search_term,omitempty"`
}

var validSources = map[string]bool{
	SourceAppliTrack:   true,
	SourcePowerSchool:  true,
	SourcePAEducator:   true,
	SourceSchoolSpring: true,
	SourceDistrictSite: true,
}

// Validate rejects malformed records before they reach the filter or
// the reconciliation engine.
func (j Job) Validate() error {
	if strings.TrimSpace(j.District) == "" {
		return fmt.Errorf("job missing district")
	}
	if strings.TrimSpace(j.Title) == "" {
		return fmt.Errorf("job missing title (district %q)", j.District)
	}
	if strings.TrimSpace(j.URL) == "" {
		return fmt.Errorf("job %q missing url", j.Title)
	}
	if !validSources[j.PortalType] {
		return fmt.Errorf("job %q has unknown portal type %q", j.Title, j.PortalType)
	}
	return nil
}

//Portal defines the interface that all district portal scrapers must implement
type Portal interface {
	//Scrape job listings from the portal. HTTP-only portals ignore page.
	Scrape(ctx context.Context, page playwright.Page) ([]Job, error)

	//Name is the portal name (AppliTrack, PowerSchool, ...)
	Name() string
}

// DedupByTitle collapses records sharing a lowercased title, keeping the
// first occurrence. Every portal applies this before returning.
func DedupByTitle(jobs []Job) []Job {
	seen := make(map[string]bool, len(jobs))
	unique := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		key := strings.ToLower(strings.TrimSpace(job.Title))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, job)
	}
	return unique
}
