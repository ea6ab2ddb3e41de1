package linkcrawl

import (
	"context"
	"time"
)

// WaitMode controls how far a navigation must progress before it is
// considered done. The navigation retry ladder walks these from strictest
// to loosest.
type WaitMode string

// Supported navigation wait modes.
const (
	// WaitDOMReady waits for the DOM to be parsed (domcontentloaded).
	WaitDOMReady WaitMode = "domready"
	// WaitCommit waits only for the navigation to commit.
	WaitCommit WaitMode = "commit"
	// WaitNone fires the navigation and returns immediately.
	WaitNone WaitMode = "none"
)

// Box is an element's bounding box in page coordinates.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Element is one DOM element handle on a live page.
type Element interface {
	// Text returns the element's visible text.
	Text() (string, error)

	// Attr returns the named attribute, or "" if absent.
	Attr(name string) (string, error)

	// Box returns the element's bounding box.
	Box() (Box, error)

	// Visible reports whether the element is rendered and visible.
	Visible() (bool, error)

	// Click dispatches a click on the element.
	Click() error
}

// PageOptions configure a new browsing context. Every extraction call gets
// its own isolated context; nothing is shared across calls.
type PageOptions struct {
	// UserAgent spoofs the browser identity. Empty keeps the engine default.
	UserAgent string

	// ViewportWidth/ViewportHeight set the window size. Zero keeps defaults.
	ViewportWidth  int
	ViewportHeight int

	// Headful runs the page in a visible browser. Some hosts detect
	// headless sessions and serve empty results; this is a per-host
	// override, not a global default.
	Headful bool
}

// Page is one isolated browsing context on the automation engine. All
// blocking operations honor the supplied context for cancellation.
type Page interface {
	// Navigate loads the URL, returning once the wait mode is satisfied
	// or the timeout elapses.
	Navigate(ctx context.Context, url string, mode WaitMode, timeout time.Duration) error

	// WaitVisible blocks until an element matching the selector is
	// visible, or the timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// Elements returns all elements currently matching the selector.
	// A selector that matches nothing returns an empty slice, not an error.
	Elements(selector string) ([]Element, error)

	// Eval runs a JavaScript function expression in the page and decodes
	// its JSON-serializable return value into out. Promises are awaited,
	// so same-origin fetch calls carry the page's session cookies.
	Eval(ctx context.Context, js string, out any) error

	// Title returns the document title.
	Title() (string, error)

	// HTML returns the rendered document markup.
	HTML() (string, error)

	// MouseMove moves the pointer to page coordinates in the given number
	// of intermediate steps (more steps, slower and smoother motion).
	MouseMove(x, y float64, steps int) error

	// MouseDown presses the primary button at the current position.
	MouseDown() error

	// MouseUp releases the primary button.
	MouseUp() error

	// Close tears down the browsing context. Safe to call on every exit
	// path.
	Close() error
}

// Browser creates isolated browsing contexts. Implementations may use any
// automation engine; the rest of the module depends only on this interface.
type Browser interface {
	// NewPage opens a fresh browsing context with the given options.
	NewPage(ctx context.Context, opts PageOptions) (Page, error)

	// Close releases all automation resources.
	// Must be called when the Browser is no longer needed.
	Close() error
}
