package browser

import "errors"

var (
	// ErrSessionUnavailable means no browser process could be started.
	ErrSessionUnavailable = errors.New("browser session unavailable")
	// ErrNavigationTimeout means the page body did not appear within the timeout.
	ErrNavigationTimeout = errors.New("navigation timeout")
	// ErrNavigation covers navigation failures other than the timeout
	// (unresolvable host, refused connection).
	ErrNavigation = errors.New("navigation failed")
)
