package schoolspring

import (
	"strings"
	"testing"
)

func TestPlausibleTitle(t *testing.T) {
	tests := []struct {
		title    string
		expected bool
	}{
		{"Social Studies Teacher - Middle School", true},
		{"History Teacher (7-12)", true},
		{"Sign In", false},
		{"Log In", false},
		{"Register", false},
		{"Privacy Policy", false},
		{"Terms of Service", false},
		{"Contact Us", false},
		{"hr@montourschools.com", false},
		{"https://www.schoolspring.com/help", false},
		{"Google Maps", false},
		{"abc", false},
		{strings.Repeat("x", 200), false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := PlausibleTitle(tt.title); got != tt.expected {
				t.Errorf("PlausibleTitle(%q) = %v, want %v", tt.title, got, tt.expected)
			}
		})
	}
}
