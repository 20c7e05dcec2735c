package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chromedp/chromedp/kb"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/deals-scraper/internal/repository"
)

func testLocation(b *fakeBrowser) LocationInitializer {
	return NewLocationInitializer(b, LocationConfig{BaseURL: testBaseURL, Zip: "10713"}, zap.NewNop())
}

func TestSetLocationFlow(t *testing.T) {
	b := newFakeBrowser()
	b.exists[consentSelector] = true

	require.NoError(t, testLocation(b).SetLocation(context.Background(), "milk"))
	require.Equal(t, []string{
		"Navigate https://www.marktguru.de/search/milk?title=milk&page=0",
		"WaitVisible .location-default-text",
		"Exists #usercentrics-root",
		"Remove #usercentrics-root",
		"Click .location-default-text",
		"FocusNth input 1",
		`TypeKeys "10713\r"`,
		fmt.Sprintf("TypeKeys %q", kb.ArrowDown),
		`TypeKeys "\r"`,
	}, b.calls)
}

func TestSetLocationWithoutConsentOverlay(t *testing.T) {
	b := newFakeBrowser()

	require.NoError(t, testLocation(b).SetLocation(context.Background(), "milk"))
	require.NotContains(t, b.calls, "Remove #usercentrics-root")
	require.Contains(t, b.calls, "Click .location-default-text")
}

func TestSetLocationFailure(t *testing.T) {
	b := newFakeBrowser()
	b.failOn["Click"] = errors.New("node not visible")

	err := testLocation(b).SetLocation(context.Background(), "milk")
	require.ErrorIs(t, err, repository.ErrLocationSetup)
	require.NotContains(t, b.calls, "FocusNth input 1")
}

func TestSetLocationCancelledKeepsCause(t *testing.T) {
	b := newFakeBrowser()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.onVisit = func(string) { cancel() }

	loc := NewLocationInitializer(b, LocationConfig{BaseURL: testBaseURL, Zip: "10713", Settle: time.Minute}, zap.NewNop())
	err := loc.SetLocation(ctx, "milk")
	require.ErrorIs(t, err, repository.ErrLocationSetup)
	require.ErrorIs(t, err, context.Canceled)
}
