package reconcile

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-schoolwatch/internal/scraper"
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	result = strings.ToLower(strings.TrimSpace(result))
	return whitespaceRuns.ReplaceAllString(result, " ")
}

// KeyOf derives the stable identity of a posting from its district and
// title only. URL and portal type never participate, so a reposted job
// with a fresh URL keeps its key.
func KeyOf(job scraper.Job) string {
	return normalizeText(job.District) + "|" + normalizeText(job.Title)
}
