package portals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-schoolwatch/internal/config"
	"go-schoolwatch/internal/scraper"
)

func TestForDistrict(t *testing.T) {
	tests := []struct {
		name     string
		district config.District
		portals  []string
		wantErr  bool
	}{
		{
			name:     "applitrack",
			district: config.District{Name: "Mt. Lebanon School District", Type: "AppliTrack", URL: "https://example.com"},
			portals:  []string{scraper.SourceAppliTrack},
		},
		{
			name:     "powerschool",
			district: config.District{Name: "Bethel Park School District", Type: "PowerSchool", URL: "https://example.com"},
			portals:  []string{scraper.SourcePowerSchool},
		},
		{
			name:     "paeducator",
			district: config.District{Name: "North Hills School District", Type: "PAEducator", URL: "https://example.com", PAEducatorFilter: "North Hills"},
			portals:  []string{scraper.SourcePAEducator},
		},
		{
			name:     "schoolspring",
			district: config.District{Name: "Montour School District", Type: "SchoolSpring", URL: "https://example.com"},
			portals:  []string{scraper.SourceSchoolSpring},
		},
		{
			name:     "generic website",
			district: config.District{Name: "Quaker Valley School District", Type: "Other", URL: "https://example.com"},
			portals:  []string{scraper.SourceDistrictSite},
		},
		{
			name: "multiple",
			district: config.District{Name: "Pittsburgh Public Schools", Type: "Multiple", URL: "https://example.com", Portals: []config.PortalRef{
				{Type: "AppliTrack", URL: "https://example.com/a"},
				{Type: "PowerSchool", URL: "https://example.com/p"},
			}},
			portals: []string{scraper.SourceAppliTrack, scraper.SourcePowerSchool},
		},
		{
			name:     "unknown type",
			district: config.District{Name: "Somewhere", Type: "Workday", URL: "https://example.com"},
			wantErr:  true,
		},
		{
			name: "unsupported nested type",
			district: config.District{Name: "Somewhere", Type: "Multiple", Portals: []config.PortalRef{
				{Type: "SchoolSpring", URL: "https://example.com"},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ports, err := ForDistrict(tt.district)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, ports, len(tt.portals))
			for i, p := range ports {
				assert.Equal(t, tt.portals[i], p.Name())
			}
		})
	}
}

func TestNeedsBrowser(t *testing.T) {
	httpOnly := &config.Config{Schools: []config.District{
		{Name: "A", Type: "PowerSchool", URL: "https://example.com"},
		{Name: "B", Type: "Other", URL: "https://example.com"},
	}}
	assert.False(t, NeedsBrowser(httpOnly))

	withSPA := &config.Config{Schools: []config.District{
		{Name: "A", Type: "PowerSchool", URL: "https://example.com"},
		{Name: "B", Type: "AppliTrack", URL: "https://example.com"},
	}}
	assert.True(t, NeedsBrowser(withSPA))

	nested := &config.Config{Schools: []config.District{
		{Name: "A", Type: "Multiple", Portals: []config.PortalRef{{Type: "AppliTrack", URL: "https://example.com"}}},
	}}
	assert.True(t, NeedsBrowser(nested))
}
