package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/deals-scraper/internal/entity"
	"github.com/user/deals-scraper/internal/repository"
)

func testOrchestrator(b *fakeBrowser, moe int) Orchestrator {
	return NewOrchestrator(testLocation(b), testPaginator(b, PaginatorConfig{MarginOfError: moe}), zap.NewNop())
}

func TestScrapeEmptyShoppingList(t *testing.T) {
	b := newFakeBrowser()
	_, err := testOrchestrator(b, 0).Scrape(context.Background(), nil, nil)
	require.ErrorIs(t, err, repository.ErrEmptyShoppingList)
	require.Empty(t, b.calls)
}

func TestScrapeItemsInOrder(t *testing.T) {
	b := newFakeBrowser()
	b.script("milk", 0, resultsPage("milk", card("vollmilch", "rewe", "1,19 €")))
	b.script("eggs", 0, resultsPage("eggs", card("eier", "aldi", "1,99 €")))

	var phases []string
	var percents []int
	progress := ProgressFunc(func(p entity.Progress) {
		if len(phases) == 0 || phases[len(phases)-1] != p.Phase {
			phases = append(phases, p.Phase)
			percents = append(percents, p.Percent)
		}
	})

	got, err := testOrchestrator(b, 0).Scrape(context.Background(), []string{"milk", "eggs"}, progress)
	require.NoError(t, err)
	require.Equal(t, []string{"vollmilch", "eier"}, names(got))
	require.Equal(t, "milk", got[0].Item)
	require.Equal(t, "eggs", got[1].Item)
	require.Equal(t, []string{"Setting location", "Location set", "Scraping"}, phases)
	require.Equal(t, []int{10, 25, 60}, percents)
	// Location is set once, on the first item.
	require.Equal(t, 2, b.visitCount("milk", 0))
}

func TestScrapeLocationFailureStopsRun(t *testing.T) {
	b := newFakeBrowser()
	b.failOn["FocusNth"] = errors.New("no input")

	_, err := testOrchestrator(b, 0).Scrape(context.Background(), []string{"milk"}, nil)
	require.ErrorIs(t, err, repository.ErrLocationSetup)
	require.Equal(t, 1, b.visitCount("milk", 0))
}

func TestScrapeCancelledBetweenItems(t *testing.T) {
	b := newFakeBrowser()
	ctx, cancel := context.WithCancel(context.Background())
	b.script("milk", 0, resultsPage("milk", card("vollmilch", "rewe", "1,19 €")))
	b.script("milk", 1, fakePage{headline: "other"})
	b.onVisit = func(url string) {
		if b.visitCount("milk", 1) > 0 {
			cancel()
		}
	}

	got, err := testOrchestrator(b, 0).Scrape(ctx, []string{"milk", "eggs"}, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, []string{"vollmilch"}, names(got))
	require.Equal(t, 0, b.visitCount("eggs", 0))
}
