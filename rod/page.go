package rod

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/fwojciec/linkcrawl"
)

// Ensure page implements linkcrawl.Page at compile time.
var _ linkcrawl.Page = (*page)(nil)

// page wraps one rod browsing context.
type page struct {
	p *rod.Page
}

// Navigate loads the URL. WaitDOMReady blocks until the DOMContentLoaded
// lifecycle event; WaitCommit and WaitNone return as soon as the engine
// confirms the navigation request.
func (pg *page) Navigate(ctx context.Context, url string, mode linkcrawl.WaitMode, timeout time.Duration) error {
	p := pg.p.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	switch mode {
	case linkcrawl.WaitDOMReady:
		wait := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
		if err := p.Navigate(url); err != nil {
			return err
		}
		wait()
		return nil
	default:
		return p.Navigate(url)
	}
}

func (pg *page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	p := pg.p.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	el, err := p.Element(selector)
	if err != nil {
		return err
	}
	return el.WaitVisible()
}

func (pg *page) Elements(selector string) ([]linkcrawl.Element, error) {
	els, err := pg.p.Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]linkcrawl.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el})
	}
	return out, nil
}

// Eval runs the function expression in the page and decodes its awaited
// return value into out through a JSON round trip.
func (pg *page) Eval(ctx context.Context, js string, out any) error {
	obj, err := pg.p.Context(ctx).Eval(js)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	data, err := json.Marshal(obj.Value.Val())
	if err != nil {
		return fmt.Errorf("encoding eval result: %w", err)
	}
	return json.Unmarshal(data, out)
}

func (pg *page) Title() (string, error) {
	info, err := pg.p.Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (pg *page) HTML() (string, error) {
	return pg.p.HTML()
}

func (pg *page) MouseMove(x, y float64, steps int) error {
	return pg.p.Mouse.MoveLinear(proto.NewPoint(x, y), steps)
}

func (pg *page) MouseDown() error {
	return pg.p.Mouse.Down(proto.InputMouseButtonLeft, 1)
}

func (pg *page) MouseUp() error {
	return pg.p.Mouse.Up(proto.InputMouseButtonLeft, 1)
}

func (pg *page) Close() error {
	return pg.p.Close()
}

// Ensure element implements linkcrawl.Element at compile time.
var _ linkcrawl.Element = (*element)(nil)

// element wraps one rod element handle.
type element struct {
	el *rod.Element
}

func (e *element) Text() (string, error) {
	return e.el.Text()
}

func (e *element) Attr(name string) (string, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

func (e *element) Box() (linkcrawl.Box, error) {
	shape, err := e.el.Shape()
	if err != nil {
		return linkcrawl.Box{}, err
	}
	box := shape.Box()
	if box == nil {
		return linkcrawl.Box{}, fmt.Errorf("element has no box")
	}
	return linkcrawl.Box{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

func (e *element) Visible() (bool, error) {
	return e.el.Visible()
}

func (e *element) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}
