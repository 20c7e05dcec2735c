package chromedp_browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/deals-scraper/internal/repository"
)

const fixturePage = `<!doctype html><html><body>
<div id="usercentrics-root">consent</div>
<h1 class="headline">MILCH</h1>
<span class="location-text">10713 Berlin</span>
<input name="a"><input name="b">
<ul><li><h3>Vollmilch</h3></li><li><h3>H-Milch</h3></li></ul>
</body></html>`

// Runs against a real Chrome when one is installed.
func TestChromedpBrowserAgainstFixture(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	exe, err := LocateChrome("")
	if err != nil {
		t.Skip("chrome not installed")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(fixturePage))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	b, err := NewLauncher(true, "", zap.NewNop()).Launch(ctx, exe)
	require.NoError(t, err)
	defer func() { require.NoError(t, b.Close()) }()

	require.NoError(t, b.Navigate(ctx, srv.URL))
	require.NoError(t, b.WaitVisible(ctx, ".headline", 10*time.Second))
	require.NoError(t, b.Alive(ctx))

	text, err := b.Text(ctx, ".headline")
	require.NoError(t, err)
	require.Equal(t, "MILCH", text)

	missing, err := b.Text(ctx, ".does-not-exist")
	require.NoError(t, err)
	require.Empty(t, missing)

	items, err := b.OuterHTMLAll(ctx, "li")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Contains(t, items[1], "H-Milch")

	ok, err := b.Exists(ctx, "#usercentrics-root")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, b.Remove(ctx, "#usercentrics-root"))
	ok, err = b.Exists(ctx, "#usercentrics-root")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, b.FocusNth(ctx, "input", 1))
	require.Error(t, b.FocusNth(ctx, "input", 5))
	require.NoError(t, b.TypeKeys(ctx, "abc"))
}

func TestCloseAfterBrowserGoneIsClean(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	exe, err := LocateChrome("")
	if err != nil {
		t.Skip("chrome not installed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	b, err := NewLauncher(true, "", zap.NewNop()).Launch(ctx, exe)
	require.NoError(t, err)

	cancel()
	require.Eventually(t, func() bool {
		return b.Alive(context.Background()) != nil
	}, 10*time.Second, 100*time.Millisecond)
	require.ErrorIs(t, b.Alive(context.Background()), repository.ErrBrowserGone)
	require.NoError(t, b.Close())
}
