// Package mock provides function-field mock implementations of the
// linkcrawl interfaces for testing.
package mock

import (
	"context"
	"time"

	"github.com/fwojciec/linkcrawl"
)

var _ linkcrawl.Browser = (*Browser)(nil)

// Browser is a mock implementation of linkcrawl.Browser.
type Browser struct {
	NewPageFn func(ctx context.Context, opts linkcrawl.PageOptions) (linkcrawl.Page, error)
	CloseFn   func() error
}

func (b *Browser) NewPage(ctx context.Context, opts linkcrawl.PageOptions) (linkcrawl.Page, error) {
	return b.NewPageFn(ctx, opts)
}

func (b *Browser) Close() error {
	if b.CloseFn == nil {
		return nil
	}
	return b.CloseFn()
}

var _ linkcrawl.Page = (*Page)(nil)

// Page is a mock implementation of linkcrawl.Page. Unset methods are no-ops
// so tests only wire what they exercise.
type Page struct {
	NavigateFn    func(ctx context.Context, url string, mode linkcrawl.WaitMode, timeout time.Duration) error
	WaitVisibleFn func(ctx context.Context, selector string, timeout time.Duration) error
	ElementsFn    func(selector string) ([]linkcrawl.Element, error)
	EvalFn        func(ctx context.Context, js string, out any) error
	TitleFn       func() (string, error)
	HTMLFn        func() (string, error)
	MouseMoveFn   func(x, y float64, steps int) error
	MouseDownFn   func() error
	MouseUpFn     func() error
	CloseFn       func() error

	// CloseCalls counts Close invocations so tests can assert the page is
	// released on every exit path.
	CloseCalls int
}

func (p *Page) Navigate(ctx context.Context, url string, mode linkcrawl.WaitMode, timeout time.Duration) error {
	if p.NavigateFn == nil {
		return nil
	}
	return p.NavigateFn(ctx, url, mode, timeout)
}

func (p *Page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if p.WaitVisibleFn == nil {
		return nil
	}
	return p.WaitVisibleFn(ctx, selector, timeout)
}

func (p *Page) Elements(selector string) ([]linkcrawl.Element, error) {
	if p.ElementsFn == nil {
		return nil, nil
	}
	return p.ElementsFn(selector)
}

func (p *Page) Eval(ctx context.Context, js string, out any) error {
	if p.EvalFn == nil {
		return nil
	}
	return p.EvalFn(ctx, js, out)
}

func (p *Page) Title() (string, error) {
	if p.TitleFn == nil {
		return "", nil
	}
	return p.TitleFn()
}

func (p *Page) HTML() (string, error) {
	if p.HTMLFn == nil {
		return "", nil
	}
	return p.HTMLFn()
}

func (p *Page) MouseMove(x, y float64, steps int) error {
	if p.MouseMoveFn == nil {
		return nil
	}
	return p.MouseMoveFn(x, y, steps)
}

func (p *Page) MouseDown() error {
	if p.MouseDownFn == nil {
		return nil
	}
	return p.MouseDownFn()
}

func (p *Page) MouseUp() error {
	if p.MouseUpFn == nil {
		return nil
	}
	return p.MouseUpFn()
}

func (p *Page) Close() error {
	p.CloseCalls++
	if p.CloseFn == nil {
		return nil
	}
	return p.CloseFn()
}

var _ linkcrawl.Element = (*Element)(nil)

// Element is a mock implementation of linkcrawl.Element.
type Element struct {
	TextFn    func() (string, error)
	AttrFn    func(name string) (string, error)
	BoxFn     func() (linkcrawl.Box, error)
	VisibleFn func() (bool, error)
	ClickFn   func() error
}

func (e *Element) Text() (string, error) {
	if e.TextFn == nil {
		return "", nil
	}
	return e.TextFn()
}

func (e *Element) Attr(name string) (string, error) {
	if e.AttrFn == nil {
		return "", nil
	}
	return e.AttrFn(name)
}

func (e *Element) Box() (linkcrawl.Box, error) {
	if e.BoxFn == nil {
		return linkcrawl.Box{}, nil
	}
	return e.BoxFn()
}

func (e *Element) Visible() (bool, error) {
	if e.VisibleFn == nil {
		return true, nil
	}
	return e.VisibleFn()
}

func (e *Element) Click() error {
	if e.ClickFn == nil {
		return nil
	}
	return e.ClickFn()
}
