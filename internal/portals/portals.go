// Map district config entries onto portal scrapers
// A single adapter failure invalidates the whole batch

package portals

import (
	"context"
	"fmt"
	"log"

	"github.com/playwright-community/playwright-go"

	"go-schoolwatch/internal/browser"
	"go-schoolwatch/internal/config"
	"go-schoolwatch/internal/scraper"
	"go-schoolwatch/internal/scraper/applitrack"
	"go-schoolwatch/internal/scraper/district"
	"go-schoolwatch/internal/scraper/paeducator"
	"go-schoolwatch/internal/scraper/powerschool"
	"go-schoolwatch/internal/scraper/schoolspring"
)

// ForDistrict builds the scrapers for one configured district.
func ForDistrict(d config.District) ([]scraper.Portal, error) {
	switch d.Type {
	case "AppliTrack":
		return []scraper.Portal{applitrack.New(d.Name, d.URL)}, nil
	case "PowerSchool":
		return []scraper.Portal{powerschool.New(d.Name, d.URL)}, nil
	case "PAEducator":
		return []scraper.Portal{paeducator.New(d.Name, d.URL, d.PAEducatorFilter)}, nil
	case "SchoolSpring":
		return []scraper.Portal{schoolspring.New(d.Name, d.URL)}, nil
	case "Other":
		return []scraper.Portal{district.New(d.Name, d.URL)}, nil
	case "Multiple":
		var ports []scraper.Portal
		for _, ref := range d.Portals {
			switch ref.Type {
			case "AppliTrack":
				ports = append(ports, applitrack.New(d.Name, ref.URL))
			case "PowerSchool":
				ports = append(ports, powerschool.New(d.Name, ref.URL))
			default:
				return nil, fmt.Errorf("district %q: unsupported portal type %q in Multiple", d.Name, ref.Type)
			}
		}
		return ports, nil
	default:
		return nil, fmt.Errorf("district %q: unknown portal type %q", d.Name, d.Type)
	}
}

// ScrapeAll runs every configured district in sequence. Any adapter error
// aborts with that error: a partial batch must never be mistaken for a
// legitimately small one, or jobs on the failed portal would be
// deactivated en masse.
func ScrapeAll(ctx context.Context, page playwright.Page, cfg *config.Config, quiet bool) ([]scraper.Job, error) {
	var all []scraper.Job

	for _, school := range cfg.Schools {
		if !quiet {
			log.Printf("🏫 Scraping %s...", school.Name)
		}

		ports, err := ForDistrict(school)
		if err != nil {
			return nil, err
		}

		found := 0
		for _, p := range ports {
			jobs, err := p.Scrape(ctx, page)
			if err != nil {
				if page != nil {
					debugger := browser.NewScreenShotDebugger()
					debugger.CaptureAndLog(page, p.Name(),
						fmt.Sprintf("Capturing page state for failed %s scrape", school.Name))
				}
				return nil, fmt.Errorf("scrape %s (%s): %w", school.Name, p.Name(), err)
			}
			for _, job := range jobs {
				if err := job.Validate(); err != nil {
					log.Printf("  ⚠️ Dropping malformed record: %v", err)
					continue
				}
				all = append(all, job)
				found++
			}
		}

		if !quiet {
			log.Printf("  Found %d job(s)", found)
		}
	}

	return all, nil
}

// NeedsBrowser reports whether any configured district uses a
// JS-rendered portal, so runners can skip the playwright launch
// entirely on HTTP-only configs.
func NeedsBrowser(cfg *config.Config) bool {
	for _, school := range cfg.Schools {
		switch school.Type {
		case "AppliTrack", "PAEducator", "SchoolSpring":
			return true
		case "Multiple":
			for _, ref := range school.Portals {
				if ref.Type == "AppliTrack" {
					return true
				}
			}
		}
	}
	return false
}
