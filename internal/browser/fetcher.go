package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-leadgen-automation/internal/errors"
	"go-leadgen-automation/utils"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

var blockedTitles = []string{
	"attention required",
	"just a moment",
	"cloudflare",
	"access denied",
}

const captchaSelector = ".captcha, .recaptcha, [data-captcha], iframe[src*='captcha']"

// IsBlockedTitle reports whether a page title belongs to a bot-check interstitial.
func IsBlockedTitle(title string) bool {
	t := strings.ToLower(title)
	for _, b := range blockedTitles {
		if strings.Contains(t, b) {
			return true
		}
	}
	return false
}

// PageFetcher renders pages in a real browser for sites that build their listings with JS.
type PageFetcher struct {
	manager     *PlaywrightManager
	cookies     []Cookie
	timeout     time.Duration
	scrollSteps int
	screenshots *utils.ScreenShotDebugger
	logger      *zap.Logger
}

func NewPageFetcher(manager *PlaywrightManager, cookies []Cookie, timeout time.Duration, screenshots *utils.ScreenShotDebugger, logger *zap.Logger) *PageFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PageFetcher{
		manager:     manager,
		cookies:     cookies,
		timeout:     timeout,
		scrollSteps: 3,
		screenshots: screenshots,
		logger:      logger,
	}
}

func (f *PageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	bctx, err := f.manager.NewContext(f.cookies)
	if err != nil {
		return nil, errors.Unavailable("opening browser context", err)
	}
	defer bctx.Close()

	page, err := bctx.NewPage()
	if err != nil {
		return nil, errors.Unavailable("opening page", err)
	}

	f.logger.Debug("rendering page", zap.String("url", url))
	resp, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(f.timeout.Milliseconds())),
	})
	if err != nil {
		return nil, errors.Unavailable("navigating to "+url, err)
	}
	if resp != nil && !resp.Ok() {
		return nil, errors.Unavailable(fmt.Sprintf("unexpected status code: %d", resp.Status()), nil)
	}

	if title, _ := page.Title(); IsBlockedTitle(title) {
		f.capture(page, "cloudflare", "bot check detected")
		return nil, errors.Unavailable("blocked by bot check: "+title, nil)
	}
	if n, _ := page.Locator(captchaSelector).Count(); n > 0 {
		f.capture(page, "captcha", "captcha detected")
		return nil, errors.Unavailable("captcha detected", nil)
	}

	if err := MouseJiggle(ctx, page); err != nil {
		f.logger.Debug("mouse jiggle failed", zap.Error(err))
	}
	if err := HumanScroll(ctx, page, f.scrollSteps); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Unavailable("rendering page", ctx.Err())
		}
		f.logger.Debug("scroll failed", zap.Error(err))
	}

	html, err := page.Content()
	if err != nil {
		return nil, errors.Unavailable("reading page content", err)
	}
	return []byte(html), nil
}

func (f *PageFetcher) capture(page playwright.Page, name, message string) {
	if f.screenshots == nil {
		return
	}
	_ = f.screenshots.CaptureAndLog(page, name, message)
}
