package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/go-scripts/elementscan/internal/counts"
)

// TruncationMarker is appended to captured values cut to their budget.
const TruncationMarker = "…"

// SimpleCount counts the matches of one selector.
type SimpleCount struct {
	Name     string
	Selector string
}

func (s SimpleCount) Category() string { return s.Name }

func (s SimpleCount) Evaluate(ctx context.Context, q Querier) (counts.Value, error) {
	ids, err := q.QueryAll(ctx, s.Selector)
	if err != nil {
		return counts.Value{}, &QueryError{Category: s.Name, Selector: s.Selector, Err: err}
	}
	return counts.Scalar(len(ids)), nil
}

func (s SimpleCount) validate() error {
	if strings.TrimSpace(s.Selector) == "" {
		return errors.New("empty selector")
	}
	return nil
}

// UnionCount counts the distinct elements matched by any of its selectors.
// An element matched by several selectors is counted once.
type UnionCount struct {
	Name      string
	Selectors []string
}

func (u UnionCount) Category() string { return u.Name }

func (u UnionCount) Evaluate(ctx context.Context, q Querier) (counts.Value, error) {
	seen := make(map[NodeID]struct{})
	for _, sel := range u.Selectors {
		ids, err := q.QueryAll(ctx, sel)
		if err != nil {
			return counts.Value{}, &QueryError{Category: u.Name, Selector: sel, Err: err}
		}
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}
	return counts.Scalar(len(seen)), nil
}

func (u UnionCount) validate() error {
	if len(u.Selectors) == 0 {
		return errors.New("union has no selectors")
	}
	for _, sel := range u.Selectors {
		if strings.TrimSpace(sel) == "" {
			return errors.New("empty selector in union")
		}
	}
	return nil
}

// Extractor reads one string from a matched element.
type Extractor func(ctx context.Context, q Querier, id NodeID) (string, error)

// PropertyOf extracts a DOM property such as href.
func PropertyOf(name string) Extractor {
	return func(ctx context.Context, q Querier, id NodeID) (string, error) {
		return q.Property(ctx, id, name)
	}
}

// TrimmedText extracts the element's rendered text without surrounding space.
func TrimmedText() Extractor {
	return func(ctx context.Context, q Querier, id NodeID) (string, error) {
		s, err := q.Text(ctx, id)
		return strings.TrimSpace(s), err
	}
}

// Markup extracts the element's outer HTML.
func Markup() Extractor {
	return func(ctx context.Context, q Querier, id NodeID) (string, error) {
		return q.OuterHTML(ctx, id)
	}
}

// CapturedList collects one string per match. Blank results are dropped.
// When MaxLen is positive, longer values are cut to MaxLen runes and marked.
type CapturedList struct {
	Name     string
	Selector string
	Extract  Extractor
	MaxLen   int
}

func (c CapturedList) Category() string { return c.Name }

func (c CapturedList) Evaluate(ctx context.Context, q Querier) (counts.Value, error) {
	ids, err := q.QueryAll(ctx, c.Selector)
	if err != nil {
		return counts.Value{}, &QueryError{Category: c.Name, Selector: c.Selector, Err: err}
	}
	var items []string
	for _, id := range ids {
		s, err := c.Extract(ctx, q, id)
		if err != nil {
			return counts.Value{}, &QueryError{Category: c.Name, Selector: c.Selector, Err: err}
		}
		if strings.TrimSpace(s) == "" {
			continue
		}
		items = append(items, truncate(s, c.MaxLen))
	}
	return counts.StringList(items), nil
}

func (c CapturedList) validate() error {
	if strings.TrimSpace(c.Selector) == "" {
		return errors.New("empty selector")
	}
	if c.Extract == nil {
		return errors.New("no extractor")
	}
	if c.MaxLen < 0 {
		return errors.New("negative truncation budget")
	}
	return nil
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + TruncationMarker
}
