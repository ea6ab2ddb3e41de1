package crawl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/linkcrawl"
)

// vendorConsentSelectors identify known consent-manager accept buttons.
var vendorConsentSelectors = []string{
	"button#onetrust-accept-btn-handler",
	".cookie-consent button",
	`[data-testid="cookie-accept"]`,
	"#CybotCookiebotDialogBodyLevelButtonLevelOptinAllowAll",
	".fc-cta-consent",
}

// consentButtonTexts match accept buttons by label, in the languages the
// supported sources use.
var consentButtonTexts = []string{
	"accept", "agree", "accept all", "i agree", "同意", "确定", "接受",
}

// consentSettle gives the page a moment to remove the overlay after a click.
const consentSettle = time.Second

// DismissOverlays tries to close cookie/consent overlays so subsequent DOM
// queries see the real content. Best-effort: it clicks the first visible
// match, waits briefly, and stops. It never returns an error; a page without
// overlays is the common case.
func DismissOverlays(ctx context.Context, page linkcrawl.Page, logger *slog.Logger) {
	for _, selector := range vendorConsentSelectors {
		if clickFirstVisible(page, selector, nil) {
			logger.Debug("consent overlay dismissed", "selector", selector)
			_ = sleep(ctx, consentSettle)
			return
		}
	}

	if clickFirstVisible(page, "button", consentButtonTexts) {
		logger.Debug("consent overlay dismissed", "selector", "button text")
		_ = sleep(ctx, consentSettle)
	}
}

// clickFirstVisible clicks the first visible element matching the selector,
// optionally filtered by label text. All per-element errors are swallowed.
func clickFirstVisible(page linkcrawl.Page, selector string, texts []string) bool {
	elements, err := page.Elements(selector)
	if err != nil {
		return false
	}

	for _, el := range elements {
		if len(texts) > 0 && !matchesText(el, texts) {
			continue
		}
		visible, err := el.Visible()
		if err != nil || !visible {
			continue
		}
		if err := el.Click(); err != nil {
			continue
		}
		return true
	}
	return false
}

func matchesText(el linkcrawl.Element, texts []string) bool {
	text, err := el.Text()
	if err != nil {
		return false
	}
	text = strings.ToLower(strings.TrimSpace(text))
	for _, want := range texts {
		if text == want {
			return true
		}
	}
	return false
}
