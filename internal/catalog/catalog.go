// Package catalog declares the element categories counted on a page and
// evaluates them against a live DOM.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-scripts/elementscan/internal/counts"
)

// NodeID identifies a DOM element for the lifetime of one session. Two
// queries returning the same element return the same NodeID.
type NodeID int64

// Querier is the read-only view of a page that descriptors run against.
type Querier interface {
	// QueryAll returns every element matching the CSS selector, in document order.
	QueryAll(ctx context.Context, selector string) ([]NodeID, error)
	// QueryWithin returns the descendants of parent matching the selector.
	QueryWithin(ctx context.Context, parent NodeID, selector string) ([]NodeID, error)
	// Property returns the element's DOM property (e.g. a resolved href),
	// or "" when it is missing.
	Property(ctx context.Context, id NodeID, name string) (string, error)
	// Text returns the element's rendered text.
	Text(ctx context.Context, id NodeID) (string, error)
	// OuterHTML returns the element's serialized markup.
	OuterHTML(ctx context.Context, id NodeID) (string, error)
}

// ErrQueryFailure matches every *QueryError.
var ErrQueryFailure = errors.New("query failure")

// QueryError reports the category and selector whose evaluation failed.
type QueryError struct {
	Category string
	Selector string
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("category %s: query %q: %v", e.Category, e.Selector, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func (e *QueryError) Is(target error) bool { return target == ErrQueryFailure }

// Descriptor is one catalog entry. The concrete types are SimpleCount,
// UnionCount, CapturedList and TableExtraction.
type Descriptor interface {
	Category() string
	Evaluate(ctx context.Context, q Querier) (counts.Value, error)
	validate() error
}

// Catalog is an ordered list of descriptors; its order is the document order.
type Catalog []Descriptor

// Validate rejects catalogs with unnamed, duplicate or selector-less entries.
func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c))
	for i, d := range c {
		if d == nil {
			return fmt.Errorf("catalog entry %d is nil", i)
		}
		name := d.Category()
		if name == "" {
			return fmt.Errorf("catalog entry %d has no name", i)
		}
		if seen[name] {
			return fmt.Errorf("catalog entry %d: duplicate category %q", i, name)
		}
		seen[name] = true
		if err := d.validate(); err != nil {
			return fmt.Errorf("catalog entry %s: %w", name, err)
		}
	}
	return nil
}

// Categories lists the category names in order.
func (c Catalog) Categories() []string {
	names := make([]string, len(c))
	for i, d := range c {
		names[i] = d.Category()
	}
	return names
}

// Aggregate evaluates every descriptor in order and assembles the document.
// The first failing descriptor aborts the whole aggregation.
func Aggregate(ctx context.Context, q Querier, c Catalog) (*counts.Document, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	b := counts.NewBuilder()
	for _, d := range c {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := d.Evaluate(ctx, q)
		if err != nil {
			return nil, err
		}
		if err := b.Set(d.Category(), v); err != nil {
			return nil, err
		}
	}
	return b.Document(), nil
}
