package report

import (
	"errors"
	"fmt"
)

// ErrSink matches every *SinkError.
var ErrSink = errors.New("report sink error")

// SinkError means the report could not be written. The document that was
// being rendered is unaffected and may be rendered again to another sink.
type SinkError struct {
	Path string
	Err  error
}

func (e *SinkError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("write report: %v", e.Err)
	}
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

func (e *SinkError) Is(target error) bool { return target == ErrSink }
