package browser

import (
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay pauses execution for a random time between min and max (milliseconds)
func RandomDelay(min, max int) {
	if min >= max {
		time.Sleep(time.Duration(min) * time.Millisecond)
		return
	}
	duration := time.Duration(rand.Intn(max-min)+min) * time.Millisecond
	time.Sleep(duration)
}

// SmoothScroll simulates human scrolling so SPA portals load their full
// result list before we read it
func SmoothScroll(page playwright.Page) {
	page.Mouse().Wheel(0, 500)
	RandomDelay(500, 1000)

	//small upward correction, then jump to the bottom to trigger lazy loading
	page.Mouse().Wheel(0, -200)
	RandomDelay(500, 800)
	page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
}
