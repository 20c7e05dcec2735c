package repository

import (
	"context"
	"time"
)

// Browser is the automation capability the scraping pipeline drives. All
// calls operate on one tab and are strictly sequential.
type Browser interface {
	// Navigate loads url in the current tab.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until selector matches a visible element or timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Text returns the visible text of the first element matching selector.
	Text(ctx context.Context, selector string) (string, error)
	// OuterHTMLAll returns the markup of every element matching selector.
	OuterHTMLAll(ctx context.Context, selector string) ([]string, error)
	// Exists reports whether selector currently matches anything.
	Exists(ctx context.Context, selector string) (bool, error)
	// Remove detaches every element matching selector from the DOM.
	Remove(ctx context.Context, selector string) error
	// Click clicks the first element matching selector.
	Click(ctx context.Context, selector string) error
	// FocusNth focuses the n-th (zero based) element matching selector.
	FocusNth(ctx context.Context, selector string, n int) error
	// TypeKeys sends key events to the focused element.
	TypeKeys(ctx context.Context, keys string) error
	// Alive returns ErrBrowserGone once the underlying browser has exited.
	Alive(ctx context.Context) error
	// Close releases the session. Closing a session that is already gone is not an error.
	Close() error
}

// BrowserLauncher acquires one browser session per run.
type BrowserLauncher interface {
	// Locate resolves the executable to launch; an empty path means auto-discovery.
	// It returns ErrBrowserNotFound when nothing usable exists.
	Locate(path string) (string, error)
	Launch(ctx context.Context, execPath string) (Browser, error)
}
