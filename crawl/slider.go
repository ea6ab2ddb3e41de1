package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkcrawl"
)

// SliderState is a state of the drag-slider challenge machine.
type SliderState string

// Slider challenge states. The machine runs
// Idle → SliderLocated → Dragging → Verifying → {Passed, Failed}.
const (
	SliderIdle      SliderState = "idle"
	SliderLocated   SliderState = "located"
	SliderDragging  SliderState = "dragging"
	SliderVerifying SliderState = "verifying"
	SliderPassed    SliderState = "passed"
	SliderFailed    SliderState = "failed"
)

// SliderConfig describes one source's drag-slider challenge. The motion
// parameters are per-target tuning knobs, not constants: sources score drag
// dynamics differently, so adjust them empirically when a source rotates
// its detector.
type SliderConfig struct {
	// TrackSelector and HandleSelector locate the slider.
	TrackSelector  string
	HandleSelector string

	// ResultSelector becomes visible once the challenge has cleared.
	ResultSelector string

	// LocateTimeout bounds the wait for the handle to appear.
	LocateTimeout time.Duration

	// VerifyTimeout bounds the wait for the post-challenge content.
	VerifyTimeout time.Duration

	// FastFraction is the share of the travel distance covered by the
	// initial fast segment before the pause.
	FastFraction float64

	// Pause separates the fast segment from the slow finish.
	Pause time.Duration

	// FastSteps and SlowSteps control pointer interpolation granularity;
	// more steps means slower, smoother motion.
	FastSteps int
	SlowSteps int
}

func (cfg SliderConfig) withDefaults() SliderConfig {
	if cfg.LocateTimeout <= 0 {
		cfg.LocateTimeout = 8 * time.Second
	}
	if cfg.VerifyTimeout <= 0 {
		cfg.VerifyTimeout = 10 * time.Second
	}
	if cfg.FastFraction <= 0 || cfg.FastFraction >= 1 {
		cfg.FastFraction = 0.82
	}
	if cfg.Pause <= 0 {
		cfg.Pause = 350 * time.Millisecond
	}
	if cfg.FastSteps <= 0 {
		cfg.FastSteps = 8
	}
	if cfg.SlowSteps <= 0 {
		cfg.SlowSteps = 25
	}
	return cfg
}

// SolveSlider runs the drag-slider challenge state machine. The two-phase
// motion (fast segment, pause, slow finish) approximates human drag
// dynamics. A Failed outcome is non-fatal to callers: some sources still
// render a results page without a cleared challenge, so adapters extract
// regardless and only log the failure.
func SolveSlider(ctx context.Context, page linkcrawl.Page, cfg SliderConfig, logger *slog.Logger) SliderState {
	cfg = cfg.withDefaults()
	state := SliderIdle

	if err := page.WaitVisible(ctx, cfg.HandleSelector, cfg.LocateTimeout); err != nil {
		logger.Warn("slider challenge failed", "state", string(state), "err", err)
		return SliderFailed
	}
	state = SliderLocated

	handle, ok := firstBox(page, cfg.HandleSelector)
	if !ok {
		logger.Warn("slider challenge failed", "state", string(state), "err", "handle box unavailable")
		return SliderFailed
	}
	track, ok := firstBox(page, cfg.TrackSelector)
	if !ok {
		logger.Warn("slider challenge failed", "state", string(state), "err", "track box unavailable")
		return SliderFailed
	}

	travel := (track.X + track.Width) - (handle.X + handle.Width)
	if travel <= 0 {
		logger.Warn("slider challenge failed", "state", string(state), "err", "non-positive travel distance")
		return SliderFailed
	}

	state = SliderDragging
	if err := drag(ctx, page, handle, travel, cfg); err != nil {
		logger.Warn("slider challenge failed", "state", string(state), "err", err)
		return SliderFailed
	}

	state = SliderVerifying
	if err := page.WaitVisible(ctx, cfg.ResultSelector, cfg.VerifyTimeout); err != nil {
		logger.Warn("slider challenge failed", "state", string(state), "err", err)
		return SliderFailed
	}

	logger.Info("slider challenge passed")
	return SliderPassed
}

// drag replays the two-phase pointer path through the automation engine.
func drag(ctx context.Context, page linkcrawl.Page, handle linkcrawl.Box, travel float64, cfg SliderConfig) error {
	cx := handle.X + handle.Width/2
	cy := handle.Y + handle.Height/2

	if err := page.MouseMove(cx, cy, 5); err != nil {
		return err
	}
	if err := page.MouseDown(); err != nil {
		return err
	}
	// Release the button on any failure so the page is not left mid-drag.
	defer page.MouseUp()

	if err := page.MouseMove(cx+travel*cfg.FastFraction, cy, cfg.FastSteps); err != nil {
		return err
	}
	if err := sleep(ctx, cfg.Pause); err != nil {
		return err
	}
	return page.MouseMove(cx+travel, cy, cfg.SlowSteps)
}

// firstBox returns the bounding box of the first element matching selector.
func firstBox(page linkcrawl.Page, selector string) (linkcrawl.Box, bool) {
	elements, err := page.Elements(selector)
	if err != nil || len(elements) == 0 {
		return linkcrawl.Box{}, false
	}
	box, err := elements[0].Box()
	if err != nil {
		return linkcrawl.Box{}, false
	}
	return box, true
}
