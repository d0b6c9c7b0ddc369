package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/go-scripts/elementscan/internal/catalog"
)

// Functions evaluated with the element bound to this. Each returns a string
// so missing values come back as "". Properties that are not strings, like
// the href of an SVG link, fall back to the attribute. Elements that are not
// rendered have no text.
const (
	propertyJS = `function(name) {
	const v = this[name];
	if (typeof v === "string") return v;
	const a = this.getAttribute(name);
	return a == null ? "" : a;
}`
	textJS = `function() {
	if (this.checkVisibility?.() === false) return "";
	const v = this.innerText ?? this.textContent;
	return v == null ? "" : v;
}`
	outerHTMLJS = `function() { return this.outerHTML || ""; }`
)

// QueryAll returns the matches of selector in document order. Elements are
// identified by their backend node id, which is stable for the session.
func (s *Session) QueryAll(ctx context.Context, selector string) ([]catalog.NodeID, error) {
	var nodes []*cdp.Node
	err := s.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return nil, err
	}
	return s.register(nodes), nil
}

func (s *Session) QueryWithin(ctx context.Context, parent catalog.NodeID, selector string) ([]catalog.NodeID, error) {
	p, err := s.node(parent)
	if err != nil {
		return nil, err
	}
	var nodes []*cdp.Node
	err = s.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0), chromedp.FromNode(p)))
	if err != nil {
		return nil, err
	}
	return s.register(nodes), nil
}

func (s *Session) Property(ctx context.Context, id catalog.NodeID, name string) (string, error) {
	return s.call(ctx, id, propertyJS, name)
}

func (s *Session) Text(ctx context.Context, id catalog.NodeID) (string, error) {
	return s.call(ctx, id, textJS)
}

func (s *Session) OuterHTML(ctx context.Context, id catalog.NodeID) (string, error) {
	return s.call(ctx, id, outerHTMLJS)
}

func (s *Session) call(ctx context.Context, id catalog.NodeID, fn string, args ...interface{}) (string, error) {
	n, err := s.node(id)
	if err != nil {
		return "", err
	}
	var res string
	err = s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithBackendNodeID(n.BackendNodeID).Do(ctx)
		if err != nil {
			return err
		}
		defer runtime.ReleaseObject(obj.ObjectID).Do(ctx)
		return chromedp.CallFunctionOn(fn, &res, onObject(obj.ObjectID), args...).Do(ctx)
	}))
	return res, err
}

// onObject binds this to the resolved remote object.
func onObject(id runtime.RemoteObjectID) chromedp.CallOption {
	return func(p *runtime.CallFunctionOnParams) *runtime.CallFunctionOnParams {
		return p.WithObjectID(id)
	}
}

func (s *Session) register(nodes []*cdp.Node) []catalog.NodeID {
	ids := make([]catalog.NodeID, len(nodes))
	for i, n := range nodes {
		id := catalog.NodeID(n.BackendNodeID)
		s.nodes[id] = n
		ids[i] = id
	}
	return ids
}

func (s *Session) node(id catalog.NodeID) (*cdp.Node, error) {
	n, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("unknown node %d", id)
	}
	return n, nil
}

var _ catalog.Querier = (*Session)(nil)
