package queue

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

// ErrDuplicateSink is returned when two jobs would write the same report.
var ErrDuplicateSink = errors.New("output path already claimed")

// Queue represents a thread-safe FIFO of jobs whose sinks are pairwise
// distinct. A sink stays claimed after its job has been taken.
type Queue[T any] struct {
	items   []T
	claimed map[string]bool
	sink    func(T) string
	mu      sync.Mutex
}

// New creates a Queue that reads each job's output path with sink.
func New[T any](sink func(T) string) *Queue[T] {
	return &Queue[T]{
		items:   make([]T, 0),
		claimed: make(map[string]bool),
		sink:    sink,
	}
}

// Add appends a job unless its output path is already claimed.
func (q *Queue[T]) Add(item T) error {
	key, err := normalize(q.sink(item))
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.claimed[key] {
		return fmt.Errorf("%w: %s", ErrDuplicateSink, key)
	}

	q.claimed[key] = true
	q.items = append(q.items, item)
	return nil
}

// Next returns the next job to process
func (q *Queue[T]) Next() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}

	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]

	return item, true
}

// Len returns the number of jobs still waiting
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// ClaimedCount returns the number of distinct output paths seen
func (q *Queue[T]) ClaimedCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.claimed)
}

func normalize(path string) (string, error) {
	if path == "" {
		return "", errors.New("job has no output path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve output path %s: %w", path, err)
	}
	return abs, nil
}
