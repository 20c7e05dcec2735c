package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/user/deals-scraper/internal/repository"
	"github.com/user/deals-scraper/pkg/utils"
)

const testBaseURL = "https://www.marktguru.de/search"

// fakePage is one scripted response to a navigation.
type fakePage struct {
	headline string
	location string
	cards    []string
	waitErr  error // returned when waiting for listings
}

// fakeBrowser replays scripted pages per URL. Repeated visits of a URL walk
// through its responses; the last one repeats.
type fakeBrowser struct {
	mu       sync.Mutex
	pages    map[string][]fakePage
	visits   map[string]int
	current  fakePage
	calls    []string
	exists   map[string]bool
	failOn   map[string]error
	gone     bool
	closed   int
	onVisit  func(url string)
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		pages:  map[string][]fakePage{},
		visits: map[string]int{},
		exists: map[string]bool{},
		failOn: map[string]error{},
	}
}

func (b *fakeBrowser) script(item string, page int, responses ...fakePage) {
	b.pages[utils.SearchPageURL(testBaseURL, item, page)] = responses
}

func (b *fakeBrowser) visitCount(item string, page int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visits[utils.SearchPageURL(testBaseURL, item, page)]
}

func (b *fakeBrowser) record(call string) error {
	b.calls = append(b.calls, call)
	if b.gone {
		return errors.New("target closed")
	}
	name, _, _ := strings.Cut(call, " ")
	return b.failOn[name]
}

func (b *fakeBrowser) Navigate(ctx context.Context, url string) error {
	b.mu.Lock()
	if err := b.record("Navigate " + url); err != nil {
		b.mu.Unlock()
		return err
	}
	responses := b.pages[url]
	n := b.visits[url]
	b.visits[url]++
	switch {
	case len(responses) == 0:
		b.current = fakePage{headline: "Keine Angebote gefunden"}
	case n < len(responses):
		b.current = responses[n]
	default:
		b.current = responses[len(responses)-1]
	}
	hook := b.onVisit
	b.mu.Unlock()
	if hook != nil {
		hook(url)
	}
	return nil
}

func (b *fakeBrowser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("WaitVisible " + selector); err != nil {
		return err
	}
	if selector == listingSelector && b.current.waitErr != nil {
		return b.current.waitErr
	}
	return nil
}

func (b *fakeBrowser) Text(ctx context.Context, selector string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("Text " + selector); err != nil {
		return "", err
	}
	switch selector {
	case headlineSelector:
		return b.current.headline, nil
	case locationSelector:
		return b.current.location, nil
	}
	return "", nil
}

func (b *fakeBrowser) OuterHTMLAll(ctx context.Context, selector string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("OuterHTMLAll " + selector); err != nil {
		return nil, err
	}
	return append([]string(nil), b.current.cards...), nil
}

func (b *fakeBrowser) Exists(ctx context.Context, selector string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("Exists " + selector); err != nil {
		return false, err
	}
	return b.exists[selector], nil
}

func (b *fakeBrowser) Remove(ctx context.Context, selector string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.record("Remove " + selector)
}

func (b *fakeBrowser) Click(ctx context.Context, selector string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.record("Click " + selector)
}

func (b *fakeBrowser) FocusNth(ctx context.Context, selector string, n int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.record(fmt.Sprintf("FocusNth %s %d", selector, n))
}

func (b *fakeBrowser) TypeKeys(ctx context.Context, keys string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.record(fmt.Sprintf("TypeKeys %q", keys))
}

func (b *fakeBrowser) Alive(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gone {
		return repository.ErrBrowserGone
	}
	return nil
}

func (b *fakeBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return nil
}

type fakeLauncher struct {
	browser   *fakeBrowser
	locateErr error
	launchErr error
	launched  int
}

func (l *fakeLauncher) Locate(path string) (string, error) {
	if l.locateErr != nil {
		return "", l.locateErr
	}
	return "/usr/bin/google-chrome", nil
}

func (l *fakeLauncher) Launch(ctx context.Context, execPath string) (repository.Browser, error) {
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	l.launched++
	return l.browser, nil
}

// card renders a listing fragment the way the results page does.
func card(name, store, price string) string {
	return fmt.Sprintf(`<li><h3>%s</h3><p><strong>%s</strong></p><dl>`+
		`<dt class="retailer">Händler</dt><dd><a>%s</a></dd>`+
		`<dt class="dates">Gültig</dt><dd>bis Sa. 06.01.</dd></dl></li>`, name, price, store)
}

func resultsPage(item string, cards ...string) fakePage {
	return fakePage{
		headline: strings.ToUpper(item),
		location: "10713 Berlin",
		cards:    cards,
	}
}
