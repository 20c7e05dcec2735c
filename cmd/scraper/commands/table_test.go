package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/user/deals-scraper/internal/entity"
)

func TestRenderSummary(t *testing.T) {
	report := &entity.Report{Rows: []entity.ReportRow{
		{ListingRecord: entity.ListingRecord{Store: "aldi", Item: "milk", Name: "h-milch", Price: 0.79, Unit: "liter"}, Lowest: true, LowestNote: "✅ milk"},
		{ListingRecord: entity.ListingRecord{Store: "rewe", Item: "milk", Name: "vollmilch", Price: 1.19}},
	}}

	var buf bytes.Buffer
	renderSummary(&buf, report)

	out := buf.String()
	require.Contains(t, out, "h-milch")
	require.Contains(t, out, "0.79")
	require.Contains(t, out, "✅ milk")
	require.Contains(t, out, "vollmilch")
}

func TestPrintProgress(t *testing.T) {
	updates := make(chan entity.Progress, 3)
	updates <- entity.Progress{Phase: "Setting location", Percent: 10}
	updates <- entity.Progress{Phase: "Scraping", Detail: "Searching for 'milk'", Secondary: "Page 2", Percent: 60}
	close(updates)

	var buf bytes.Buffer
	printProgress(&buf, updates)
	require.Equal(t, "[ 10%] Setting location\n[ 60%] Scraping - Searching for 'milk' (Page 2)\n", buf.String())
}
