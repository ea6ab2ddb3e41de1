package sources

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/fwojciec/linkcrawl"
	"github.com/fwojciec/linkcrawl/crawl"
)

// Ensure Panda985 implements linkcrawl.Strategy at compile time.
var _ linkcrawl.Strategy = (*Panda985)(nil)

// Panda985 extracts from the scholarly search mirror that gates results
// behind a drag-slider challenge. The result markup matches the upstream
// engine, so card extraction is shared; only the challenge differs.
type Panda985 struct {
	logger *slog.Logger
	slider crawl.SliderConfig
}

// Panda985Option configures a Panda985 adapter.
type Panda985Option func(*Panda985)

// WithPanda985Slider overrides the slider challenge configuration. The
// motion parameters are tuned per target; see crawl.SliderConfig.
func WithPanda985Slider(cfg crawl.SliderConfig) Panda985Option {
	return func(p *Panda985) {
		p.slider = cfg
	}
}

// NewPanda985 creates the mirror adapter.
func NewPanda985(logger *slog.Logger, opts ...Panda985Option) *Panda985 {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Panda985{
		logger: logger,
		slider: crawl.SliderConfig{
			TrackSelector:  ".nc-container .nc_scale",
			HandleSelector: ".nc-container .btn_slide",
			ResultSelector: scholarResultSelector,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the strategy's identifier.
func (p *Panda985) Name() string {
	return "panda985"
}

// Match accepts the mirror's host.
func (p *Panda985) Match(u *url.URL) bool {
	return matches(u, "panda985.com", "")
}

// Extract runs the slider challenge, then reads the result cards. A failed
// challenge is logged but not fatal: the mirror sometimes renders cached
// results anyway, so extraction proceeds and simply finds whatever the page
// shows.
func (p *Panda985) Extract(ctx context.Context, page linkcrawl.Page, _ *url.URL, maxItems int) ([]*linkcrawl.Article, error) {
	if state := crawl.SolveSlider(ctx, page, p.slider, p.logger); state != crawl.SliderPassed {
		p.logger.Warn("slider challenge not passed, attempting extraction anyway", "state", string(state))
	}

	return scholarCards(ctx, page, maxItems, p.Name(), p.logger)
}
