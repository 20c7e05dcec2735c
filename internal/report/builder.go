// Package report cleans raw listings and turns them into the store-grouped,
// lowest-price annotated report.
package report

import (
	"sort"

	"github.com/user/deals-scraper/internal/entity"
	"github.com/user/deals-scraper/pkg/utils"
)

type dedupKey struct {
	name, price, dateValid string
}

// Build runs the cleanup pipeline over raw. The input slice is not modified.
func Build(raw []entity.RawListing, blacklist []string, rankBy entity.RankBy) *entity.Report {
	if !rankBy.Valid() {
		rankBy = entity.RankByItem
	}

	listings := dropIncomplete(raw)
	listings = dropDuplicates(listings)
	listings = dropBlacklisted(listings, blacklist)

	records := make([]entity.ListingRecord, 0, len(listings))
	for _, l := range listings {
		price, unit := SplitPrice(l.Price)
		records = append(records, entity.ListingRecord{
			Item:      l.Item,
			Name:      l.Name,
			DateValid: l.DateValid,
			Store:     l.Store,
			Brand:     l.Brand,
			Price:     ParseMagnitude(price),
			Unit:      unit,
			Note:      l.Note,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Store != b.Store {
			return a.Store < b.Store
		}
		if a.Item != b.Item {
			return a.Item < b.Item
		}
		return a.Price < b.Price
	})

	return &entity.Report{
		Columns: columns(hasNote(raw)),
		Rows:    markLowest(records, rankBy),
	}
}

func dropIncomplete(raw []entity.RawListing) []entity.RawListing {
	out := make([]entity.RawListing, 0, len(raw))
	for _, l := range raw {
		if !l.Incomplete() {
			out = append(out, l)
		}
	}
	return out
}

// dropDuplicates removes every listing whose key occurs more than once; no copy is kept.
func dropDuplicates(listings []entity.RawListing) []entity.RawListing {
	counts := make(map[dedupKey]int, len(listings))
	for _, l := range listings {
		counts[dedupKey{l.Name, l.Price, l.DateValid}]++
	}
	out := make([]entity.RawListing, 0, len(listings))
	for _, l := range listings {
		if counts[dedupKey{l.Name, l.Price, l.DateValid}] == 1 {
			out = append(out, l)
		}
	}
	return out
}

func dropBlacklisted(listings []entity.RawListing, blacklist []string) []entity.RawListing {
	if len(blacklist) == 0 {
		return listings
	}
	banned := utils.Set(blacklist)
	out := make([]entity.RawListing, 0, len(listings))
	for _, l := range listings {
		if _, ok := banned[l.Name]; !ok {
			out = append(out, l)
		}
	}
	return out
}

func hasNote(raw []entity.RawListing) bool {
	for _, l := range raw {
		if l.HasNote {
			return true
		}
	}
	return false
}

func columns(withNote bool) []string {
	cols := []string{
		entity.ColStore, entity.ColItem, entity.ColName, entity.ColBrand,
		entity.ColPrice, entity.ColUnit, entity.ColDateValid,
	}
	if withNote {
		cols = append(cols, entity.ColNote)
	}
	return append(cols, entity.ColLowestPrice)
}

func rankKey(r entity.ListingRecord, rankBy entity.RankBy) string {
	if rankBy == entity.RankByName {
		return r.Name
	}
	return r.Item
}

// markLowest flags every record priced at the minimum of its ranking group. Ties are all flagged.
func markLowest(records []entity.ListingRecord, rankBy entity.RankBy) []entity.ReportRow {
	lowest := make(map[string]float64)
	for _, r := range records {
		k := rankKey(r, rankBy)
		if cur, ok := lowest[k]; !ok || r.Price < cur {
			lowest[k] = r.Price
		}
	}

	rows := make([]entity.ReportRow, 0, len(records))
	for _, r := range records {
		row := entity.ReportRow{ListingRecord: r}
		k := rankKey(r, rankBy)
		if r.Price == lowest[k] {
			row.Lowest = true
			row.LowestNote = "✅ " + k
		}
		rows = append(rows, row)
	}
	return rows
}
