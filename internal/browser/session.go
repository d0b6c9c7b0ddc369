// Package browser owns the headless Chrome instance a page is analyzed in.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/go-scripts/elementscan/internal/catalog"
)

// DefaultTimeout bounds the wait for the page body.
const DefaultTimeout = 10 * time.Second

// Options configures the browser launch and navigation.
type Options struct {
	Timeout   time.Duration
	Headless  bool
	ExecPath  string
	UserAgent string
	// WaitTime is an extra settle delay after the body is ready, for pages
	// that render charts late.
	WaitTime time.Duration
	Logger   *log.Logger
}

// DefaultOptions returns headless options with the default timeout.
func DefaultOptions() Options {
	return Options{Timeout: DefaultTimeout, Headless: true}
}

// Session is one browser with one navigated tab. Close must be called on
// every path once Open succeeds.
type Session struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc

	nodes map[catalog.NodeID]*cdp.Node

	closeOnce sync.Once
	closeErr  error
}

// Open launches a browser, navigates to url and waits for the document body.
// Cancelling ctx interrupts the readiness wait only; the session outlives it.
// On failure the browser is already released.
func Open(ctx context.Context, url string, opts Options) (*Session, error) {
	s, err := open(ctx, url, opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// open returns the released session alongside a navigation error so tests
// can observe the release.
func open(ctx context.Context, url string, opts Options) (*Session, error) {
	s, err := launch(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := s.navigate(ctx, url, opts); err != nil {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return s, err
	}
	return s, nil
}

func launch(ctx context.Context, opts Options) (*Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)
	if !opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	// The browser must survive cancellation of the caller's context.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)

	var ctxOpts []chromedp.ContextOption
	if opts.Logger != nil {
		ctxOpts = append(ctxOpts, chromedp.WithErrorf(opts.Logger.Errorf))
	}
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, ctxOpts...)

	// Running no actions starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %w", ErrSessionUnavailable, err)
	}

	return &Session{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		nodes:         make(map[catalog.NodeID]*cdp.Node),
	}, nil
}

func (s *Session) navigate(ctx context.Context, url string, opts Options) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	navCtx, cancel := context.WithTimeout(s.browserCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if opts.WaitTime > 0 {
		tasks = append(tasks, chromedp.Sleep(opts.WaitTime))
	}

	err := chromedp.Run(navCtx, tasks)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return fmt.Errorf("navigate %s: %w", url, ctx.Err())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(navCtx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %s not ready after %s", ErrNavigationTimeout, url, timeout)
	default:
		return fmt.Errorf("%w: %s: %w", ErrNavigation, url, err)
	}
}

// Close shuts the browser down. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		err := chromedp.Cancel(s.browserCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.closeErr = fmt.Errorf("close browser: %w", err)
		}
		s.browserCancel()
		s.allocCancel()
	})
	return s.closeErr
}

func (s *Session) released() bool {
	return s.browserCtx.Err() != nil
}

func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(s.browserCtx, actions...)
}
