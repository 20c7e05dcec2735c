package entity

// RawListing is one listing as scraped from a results page. Any field may be
// empty when extraction failed for that fragment.
type RawListing struct {
	Item      string // search term that produced the listing
	Name      string
	DateValid string
	Store     string
	Brand     string
	Price     string // raw price text, e.g. "1,99 €/stück"
	Note      string
	HasNote   bool // the note-bearing markup shape was seen
}

// Incomplete reports whether a key field failed to extract.
func (l RawListing) Incomplete() bool {
	return l.Name == "" || l.Price == "" || l.Store == ""
}

// ListingRecord is a RawListing with the price split into magnitude and unit.
type ListingRecord struct {
	Item      string
	Name      string
	DateValid string
	Store     string
	Brand     string
	Price     float64
	Unit      string
	Note      string
}

// ReportRow is a ListingRecord annotated with its lowest-price marker.
type ReportRow struct {
	ListingRecord
	Lowest     bool
	LowestNote string // "✅ <group key>" on lowest rows, empty otherwise
}

// Report column headers.
const (
	ColStore       = "Store"
	ColItem        = "Item"
	ColName        = "Name"
	ColBrand       = "Brand"
	ColPrice       = "Price"
	ColUnit        = "Unit"
	ColDateValid   = "Date valid"
	ColNote        = "Note"
	ColLowestPrice = "Lowest price across stores"
)

// Report is the cleaned, sorted and annotated result of a run.
type Report struct {
	Columns []string
	Rows    []ReportRow
}

// HasColumn reports whether name is part of the report schema.
func (r *Report) HasColumn(name string) bool {
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Cells renders a row in the order of the report columns.
func (r *Report) Cells(row ReportRow) []interface{} {
	cells := make([]interface{}, 0, len(r.Columns))
	for _, c := range r.Columns {
		switch c {
		case ColStore:
			cells = append(cells, row.Store)
		case ColItem:
			cells = append(cells, row.Item)
		case ColName:
			cells = append(cells, row.Name)
		case ColBrand:
			cells = append(cells, row.Brand)
		case ColPrice:
			cells = append(cells, row.Price)
		case ColUnit:
			cells = append(cells, row.Unit)
		case ColDateValid:
			cells = append(cells, row.DateValid)
		case ColNote:
			cells = append(cells, row.Note)
		case ColLowestPrice:
			cells = append(cells, row.LowestNote)
		default:
			cells = append(cells, "")
		}
	}
	return cells
}
