package filter

import (
	"regexp"
	"strings"

	"go-schoolwatch/internal/scraper"
)

// Compiled once; word boundaries keep short tokens like "aide" or "pca"
// from matching inside longer words.
var (
	subjectRe    = compileKeywords(subjectKeywords)
	secondaryRe  = compileKeywords(secondaryKeywords)
	elementaryRe = compileKeywords(elementaryKeywords)
	excludedRe   = compileKeywords(excludedRoles)
)

func compileKeywords(words []string) *regexp.Regexp {
	escaped := make([]string, len(words))
	for i, w := range words {
		escaped[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
}

// ShouldIncludeJob reports whether a scraped job is a secondary-level
// social studies teaching position. Pure predicate.
func ShouldIncludeJob(job scraper.Job) bool {
	//must mention a social studies subject
	if !isSubjectMatch(job) {
		return false
	}

	//must not be an aide/para/support role; exclusion beats inclusion
	if isExcludedRole(job) {
		return false
	}

	//must be secondary level, or carry no grade signal at all
	if !isSecondaryLevel(job) {
		return false
	}

	return true
}

func isSubjectMatch(job scraper.Job) bool {
	combined := job.Title + " " + job.PositionType + " " + job.Location + " " + job.Category
	if subjectRe.MatchString(combined) {
		return true
	}

	//also include jobs surfaced by a social studies search term
	return job.SearchTerm != "" && subjectRe.MatchString(job.SearchTerm)
}

func isExcludedRole(job scraper.Job) bool {
	return excludedRe.MatchString(job.Title + " " + job.PositionType)
}

func isSecondaryLevel(job scraper.Job) bool {
	combined := job.Title + " " + job.Location

	if elementaryRe.MatchString(combined) {
		return false
	}
	if secondaryRe.MatchString(combined) {
		return true
	}

	//no grade signal at all: keep it, generic "Social Studies Teacher"
	//postings usually cover 6-12
	return true
}

// Apply returns the subset of jobs passing ShouldIncludeJob.
func Apply(jobs []scraper.Job) []scraper.Job {
	filtered := make([]scraper.Job, 0, len(jobs))
	for _, job := range jobs {
		if ShouldIncludeJob(job) {
			filtered = append(filtered, job)
		}
	}
	return filtered
}
