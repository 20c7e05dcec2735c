package chromedp_browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"

	"github.com/user/deals-scraper/internal/repository"
)

const userAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36`

// Launcher starts one Chrome process per run.
type Launcher struct {
	headless    bool
	userDataDir string
	logger      *zap.Logger
}

// NewLauncher creates a launcher. userDataDir may be empty for a throwaway profile.
func NewLauncher(headless bool, userDataDir string, logger *zap.Logger) *Launcher {
	return &Launcher{headless: headless, userDataDir: userDataDir, logger: logger}
}

func (l *Launcher) Locate(path string) (string, error) {
	return LocateChrome(path)
}

// Launch starts Chrome from execPath and opens a single tab.
func (l *Launcher) Launch(ctx context.Context, execPath string) (repository.Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1400, 1000),
		chromedp.UserAgent(userAgent),
	)
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	if l.userDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(l.userDataDir))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	sugar := l.logger.Sugar()
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Debugf),
	)

	// An empty Run starts the browser and attaches the first tab.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser %q: %w", execPath, err)
	}

	l.logger.Info("browser started", zap.String("exec_path", execPath), zap.Bool("headless", l.headless))
	return &ChromedpBrowser{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		logger:      l.logger,
	}, nil
}

// ChromedpBrowser implements repository.Browser on top of one chromedp tab.
type ChromedpBrowser struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	logger      *zap.Logger
}

// run executes actions on the tab, stopping early when ctx is done.
func (b *ChromedpBrowser) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(b.tabCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, timeout)
		defer cancelTimeout()
	}

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil && b.tabCtx.Err() != nil {
		return fmt.Errorf("%w: %w", repository.ErrBrowserGone, err)
	}
	return err
}

func (b *ChromedpBrowser) Navigate(ctx context.Context, url string) error {
	return b.run(ctx, 0, chromedp.Navigate(url))
}

func (b *ChromedpBrowser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := b.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

func (b *ChromedpBrowser) Text(ctx context.Context, selector string) (string, error) {
	var text string
	script := fmt.Sprintf(`(() => { const e = document.querySelector(%s); return e ? e.innerText : ""; })()`, jsString(selector))
	if err := b.run(ctx, 0, chromedp.Evaluate(script, &text)); err != nil {
		return "", fmt.Errorf("text of %q: %w", selector, err)
	}
	return text, nil
}

func (b *ChromedpBrowser) OuterHTMLAll(ctx context.Context, selector string) ([]string, error) {
	var fragments []string
	script := fmt.Sprintf(`Array.from(document.querySelectorAll(%s), e => e.outerHTML)`, jsString(selector))
	if err := b.run(ctx, 0, chromedp.Evaluate(script, &fragments)); err != nil {
		return nil, fmt.Errorf("outer html of %q: %w", selector, err)
	}
	return fragments, nil
}

// nodes returns the current matches of selector without waiting for any to appear.
func (b *ChromedpBrowser) nodes(ctx context.Context, selector string) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	err := b.run(ctx, 0, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	return nodes, err
}

func (b *ChromedpBrowser) Exists(ctx context.Context, selector string) (bool, error) {
	nodes, err := b.nodes(ctx, selector)
	if err != nil {
		return false, fmt.Errorf("query %q: %w", selector, err)
	}
	return len(nodes) > 0, nil
}

func (b *ChromedpBrowser) Remove(ctx context.Context, selector string) error {
	script := fmt.Sprintf(`document.querySelectorAll(%s).forEach(e => e.remove())`, jsString(selector))
	if err := b.run(ctx, 0, chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("remove %q: %w", selector, err)
	}
	return nil
}

func (b *ChromedpBrowser) Click(ctx context.Context, selector string) error {
	if err := b.run(ctx, 0, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

func (b *ChromedpBrowser) FocusNth(ctx context.Context, selector string, n int) error {
	nodes, err := b.nodes(ctx, selector)
	if err != nil {
		return fmt.Errorf("query %q: %w", selector, err)
	}
	if n < 0 || n >= len(nodes) {
		return fmt.Errorf("focus %q: want element %d, found %d", selector, n, len(nodes))
	}
	ids := []cdp.NodeID{nodes[n].NodeID}
	if err := b.run(ctx, 0, chromedp.Focus(ids, chromedp.ByNodeID)); err != nil {
		return fmt.Errorf("focus %q[%d]: %w", selector, n, err)
	}
	return nil
}

func (b *ChromedpBrowser) TypeKeys(ctx context.Context, keys string) error {
	return b.run(ctx, 0, chromedp.KeyEvent(keys))
}

// Alive reports ErrBrowserGone once the tab context ended or the Chrome process exited.
func (b *ChromedpBrowser) Alive(ctx context.Context) error {
	if b.tabCtx.Err() != nil {
		return repository.ErrBrowserGone
	}
	c := chromedp.FromContext(b.tabCtx)
	if c == nil || c.Browser == nil {
		return repository.ErrBrowserGone
	}
	proc := c.Browser.Process()
	if proc == nil {
		// Remote allocators have no local process to inspect.
		return nil
	}
	exists, err := process.PidExistsWithContext(ctx, int32(proc.Pid))
	if err != nil {
		return fmt.Errorf("check browser pid %d: %w", proc.Pid, err)
	}
	if !exists {
		return repository.ErrBrowserGone
	}
	return nil
}

// Close shuts the tab and the browser. A session that already went away closes cleanly.
func (b *ChromedpBrowser) Close() error {
	defer b.allocCancel()
	if b.Alive(context.Background()) != nil {
		b.tabCancel()
		return nil
	}
	err := chromedp.Cancel(b.tabCtx)
	b.tabCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Warn("browser did not close cleanly", zap.Error(err))
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}

func jsString(s string) string {
	quoted, _ := json.Marshal(s)
	return string(quoted)
}
