package district

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/net/html"

	"go-schoolwatch/internal/scraper"
)

const employmentHTML = `
<html><body>
	<nav>
		<a href="/">Home</a>
		<a href="/contact">Contact</a>
	</nav>
	<ul>
		<li><a href="/employment/openings/42">Social Studies Teacher (MS/HS)</a></li>
		<li><a href="/files/posting-43.pdf">Long Term Substitute - History</a></li>
		<li><a href="/news/board-meeting">Board Meeting Minutes</a></li>
		<li><a href="/employment">View All Openings</a></li>
	</ul>
</body></html>`

func TestExtractJobs(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(employmentHTML))
	require.NoError(t, err)

	jobs := ExtractJobs(doc, "South Fayette Township School District", "https://www.southfayette.org/employment")

	titles := make([]string, 0, len(jobs))
	for _, j := range jobs {
		titles = append(titles, j.Title)
	}
	assert.Contains(t, titles, "Social Studies Teacher (MS/HS)")
	assert.Contains(t, titles, "Long Term Substitute - History")
	assert.Contains(t, titles, "View All Openings")
	assert.NotContains(t, titles, "Board Meeting Minutes")
	assert.NotContains(t, titles, "Home")
	assert.NotContains(t, titles, "Contact")

	for _, j := range jobs {
		assert.Equal(t, scraper.SourceDistrictSite, j.PortalType)
		assert.True(t, strings.HasPrefix(j.URL, "https://www.southfayette.org/"), j.URL)
	}
}

func TestExtractJobsNavigationOnly(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`
		<html><body>
			<a href="/">Home</a>
			<a href="/about">About</a>
		</body></html>`))
	require.NoError(t, err)

	jobs := ExtractJobs(doc, "South Fayette Township School District", "https://www.southfayette.org/employment")
	assert.Empty(t, jobs)
}
