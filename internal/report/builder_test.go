package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/user/deals-scraper/internal/entity"
)

func listing(item, name, store, price string) entity.RawListing {
	return entity.RawListing{Item: item, Name: name, Store: store, Price: price, DateValid: "bis sa."}
}

func TestBuildSingleListing(t *testing.T) {
	raw := []entity.RawListing{{
		Item: "milk", Name: "vollmilch", DateValid: "mo.-sa.", Store: "rewe",
		Brand: "weihenstephan", Price: "1,19 €/liter",
	}}

	got := Build(raw, nil, entity.RankByItem)

	want := &entity.Report{
		Columns: []string{"Store", "Item", "Name", "Brand", "Price", "Unit", "Date valid", "Lowest price across stores"},
		Rows: []entity.ReportRow{{
			ListingRecord: entity.ListingRecord{
				Item: "milk", Name: "vollmilch", DateValid: "mo.-sa.", Store: "rewe",
				Brand: "weihenstephan", Price: 1.19, Unit: "liter",
			},
			Lowest:     true,
			LowestNote: "✅ milk",
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDropsIncompleteRows(t *testing.T) {
	raw := []entity.RawListing{
		listing("milk", "", "rewe", "1,00 €"),
		listing("milk", "a", "", "1,00 €"),
		listing("milk", "b", "rewe", ""),
		listing("milk", "c", "rewe", "1,00 €"),
	}
	got := Build(raw, nil, entity.RankByItem)
	require.Len(t, got.Rows, 1)
	require.Equal(t, "c", got.Rows[0].Name)
}

func TestBuildDuplicatesKeepNone(t *testing.T) {
	dup := listing("milk", "vollmilch", "rewe", "1,19 €")
	other := dup
	other.Store = "edeka"

	got := Build([]entity.RawListing{dup, other}, nil, entity.RankByItem)
	require.Empty(t, got.Rows)
}

func TestBuildDuplicateKeyIgnoresStore(t *testing.T) {
	a := listing("milk", "vollmilch", "rewe", "1,19 €")
	b := listing("milk", "vollmilch", "rewe", "1,29 €")
	got := Build([]entity.RawListing{a, b}, nil, entity.RankByItem)
	require.Len(t, got.Rows, 2)
}

func TestBuildBlacklistExactMatch(t *testing.T) {
	raw := []entity.RawListing{
		listing("milk", "hafermilch", "rewe", "1,00 €"),
		listing("milk", "hafermilch barista", "rewe", "2,00 €"),
	}
	got := Build(raw, []string{"hafermilch"}, entity.RankByItem)
	require.Len(t, got.Rows, 1)
	require.Equal(t, "hafermilch barista", got.Rows[0].Name)
}

func TestBuildSortsByStoreItemPrice(t *testing.T) {
	raw := []entity.RawListing{
		listing("milk", "m3", "rewe", "0,99 €"),
		listing("eggs", "e1", "rewe", "2,49 €"),
		listing("milk", "m1", "aldi", "1,09 €"),
		listing("milk", "m2", "aldi", "0,89 €"),
	}
	got := Build(raw, nil, entity.RankByItem)

	var order []string
	for _, r := range got.Rows {
		order = append(order, r.Name)
	}
	require.Equal(t, []string{"m2", "m1", "e1", "m3"}, order)
}

func TestBuildMarksEveryTiedMinimum(t *testing.T) {
	raw := []entity.RawListing{
		listing("milk", "a", "aldi", "0,89 €"),
		listing("milk", "b", "rewe", "0,89 €"),
		listing("milk", "c", "lidl", "1,09 €"),
	}
	got := Build(raw, nil, entity.RankByItem)

	marks := map[string]string{}
	for _, r := range got.Rows {
		marks[r.Name] = r.LowestNote
	}
	require.Equal(t, map[string]string{"a": "✅ milk", "b": "✅ milk", "c": ""}, marks)
}

func TestBuildRankByName(t *testing.T) {
	raw := []entity.RawListing{
		listing("milk", "vollmilch", "aldi", "0,99 €"),
		listing("milk", "h-milch", "rewe", "0,79 €"),
	}
	got := Build(raw, nil, entity.RankByName)
	for _, r := range got.Rows {
		require.True(t, r.Lowest, r.Name)
		require.Equal(t, "✅ "+r.Name, r.LowestNote)
	}
}

func TestBuildNoteColumnOnlyWhenSeen(t *testing.T) {
	withNote := listing("milk", "a", "aldi", "0,89 €")
	withNote.HasNote = true
	withNote.Note = "nur mit app"

	got := Build([]entity.RawListing{withNote}, nil, entity.RankByItem)
	require.True(t, got.HasColumn(entity.ColNote))
	require.Equal(t, "nur mit app", got.Rows[0].Note)

	got = Build([]entity.RawListing{listing("milk", "a", "aldi", "0,89 €")}, nil, entity.RankByItem)
	require.False(t, got.HasColumn(entity.ColNote))
}

func TestBuildUnparsedPriceSentinel(t *testing.T) {
	got := Build([]entity.RawListing{listing("milk", "a", "aldi", "siehe prospekt")}, nil, entity.RankByItem)
	require.Len(t, got.Rows, 1)
	require.Equal(t, UnparsedPrice, got.Rows[0].Price)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	raw := []entity.RawListing{
		listing("milk", "b", "rewe", "1,00 €"),
		listing("milk", "a", "aldi", "2,00 €"),
	}
	before := append([]entity.RawListing(nil), raw...)
	Build(raw, nil, entity.RankByItem)
	require.Equal(t, before, raw)
}

func TestBuildEmptyInput(t *testing.T) {
	got := Build(nil, nil, entity.RankByItem)
	require.Empty(t, got.Rows)
	require.Equal(t, entity.ColLowestPrice, got.Columns[len(got.Columns)-1])
}
