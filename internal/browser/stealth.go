package browser

import (
	"context"
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay waits for a random duration in [min, max] or until ctx is done.
func RandomDelay(ctx context.Context, min, max time.Duration) error {
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min + 1)))
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// HumanScroll scrolls down in half-screen steps so lazy lists render, then nudges back up.
func HumanScroll(ctx context.Context, page playwright.Page, steps int) error {
	for i := 0; i < steps; i++ {
		if _, err := page.Evaluate("window.scrollBy(0, window.innerHeight / 2)"); err != nil {
			return err
		}
		if err := RandomDelay(ctx, 300*time.Millisecond, 900*time.Millisecond); err != nil {
			return err
		}
	}
	_, err := page.Evaluate("window.scrollBy(0, -200)")
	return err
}

// MouseJiggle moves the cursor to a few random points inside the viewport.
func MouseJiggle(ctx context.Context, page playwright.Page) error {
	viewport := page.ViewportSize()
	if viewport == nil || viewport.Width <= 0 || viewport.Height <= 0 {
		return nil
	}
	for i := 0; i < 3; i++ {
		x := rand.Intn(viewport.Width)
		y := rand.Intn(viewport.Height)
		if err := page.Mouse().Move(float64(x), float64(y)); err != nil {
			return err
		}
		if err := RandomDelay(ctx, 100*time.Millisecond, 300*time.Millisecond); err != nil {
			return err
		}
	}
	return nil
}
