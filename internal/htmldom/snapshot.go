// Package htmldom evaluates catalog queries against a static HTML snapshot
// instead of a live browser. Scripts are not executed, so only markup present
// in the source is seen.
package htmldom

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/go-scripts/elementscan/internal/catalog"
)

// Snapshot is a parsed document. It satisfies catalog.Querier.
type Snapshot struct {
	doc       *goquery.Document
	base      *url.URL
	ids       map[*html.Node]catalog.NodeID
	nodes     []*html.Node
	selectors map[string]cascadia.Selector
}

// Parse reads an HTML document. baseURL, when set, is used to resolve
// href and src properties the way a browser does.
func Parse(r io.Reader, baseURL string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	s := &Snapshot{
		doc:       doc,
		ids:       make(map[*html.Node]catalog.NodeID),
		selectors: make(map[string]cascadia.Selector),
	}
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
		}
		s.base = u
	}
	return s, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup, baseURL string) (*Snapshot, error) {
	return Parse(strings.NewReader(markup), baseURL)
}

// Load parses the file at path.
func Load(path, baseURL string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return Parse(f, baseURL)
}

// Close is a no-op; snapshots hold no external resources.
func (s *Snapshot) Close() error { return nil }

func (s *Snapshot) QueryAll(ctx context.Context, selector string) ([]catalog.NodeID, error) {
	return s.find(ctx, s.doc.Selection, selector)
}

func (s *Snapshot) QueryWithin(ctx context.Context, parent catalog.NodeID, selector string) ([]catalog.NodeID, error) {
	n, err := s.node(parent)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, goquery.NewDocumentFromNode(n).Selection, selector)
}

func (s *Snapshot) Property(ctx context.Context, id catalog.NodeID, name string) (string, error) {
	n, err := s.node(id)
	if err != nil {
		return "", err
	}
	val, ok := goquery.NewDocumentFromNode(n).Attr(name)
	if !ok {
		return "", nil
	}
	switch name {
	case "href", "src":
		return s.resolve(val), nil
	}
	return val, nil
}

func (s *Snapshot) Text(ctx context.Context, id catalog.NodeID) (string, error) {
	n, err := s.node(id)
	if err != nil {
		return "", err
	}
	return goquery.NewDocumentFromNode(n).Text(), nil
}

func (s *Snapshot) OuterHTML(ctx context.Context, id catalog.NodeID) (string, error) {
	n, err := s.node(id)
	if err != nil {
		return "", err
	}
	return goquery.OuterHtml(goquery.NewDocumentFromNode(n).Selection)
}

func (s *Snapshot) find(ctx context.Context, from *goquery.Selection, selector string) ([]catalog.NodeID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := s.compile(selector)
	if err != nil {
		return nil, err
	}
	matched := from.FindMatcher(m)
	ids := make([]catalog.NodeID, 0, matched.Length())
	for _, n := range matched.Nodes {
		ids = append(ids, s.identify(n))
	}
	return ids, nil
}

func (s *Snapshot) compile(selector string) (cascadia.Selector, error) {
	if m, ok := s.selectors[selector]; ok {
		return m, nil
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	s.selectors[selector] = m
	return m, nil
}

// identify returns the node's stable id, assigning one on first sight.
func (s *Snapshot) identify(n *html.Node) catalog.NodeID {
	if id, ok := s.ids[n]; ok {
		return id
	}
	s.nodes = append(s.nodes, n)
	id := catalog.NodeID(len(s.nodes))
	s.ids[n] = id
	return id
}

func (s *Snapshot) node(id catalog.NodeID) (*html.Node, error) {
	if id <= 0 || int(id) > len(s.nodes) {
		return nil, fmt.Errorf("unknown node %d", id)
	}
	return s.nodes[id-1], nil
}

func (s *Snapshot) resolve(ref string) string {
	if s.base == nil {
		return ref
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return s.base.ResolveReference(u).String()
}

var _ catalog.Querier = (*Snapshot)(nil)
