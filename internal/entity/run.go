package entity

import "time"

// RankBy selects the ranking group used for the lowest-price annotation.
type RankBy string

const (
	RankByItem RankBy = "Item"
	RankByName RankBy = "Name"
)

// Valid reports whether r is a known ranking key.
func (r RankBy) Valid() bool {
	return r == RankByItem || r == RankByName
}

// RunRequest is the input record handed over by the control surface.
type RunRequest struct {
	SearchURL        string `json:"search_url"`
	ChromePath       string `json:"chrome_path"`
	Zip              string `json:"zip"`
	RankBy           RankBy `json:"rank_by"`
	MarginOfError    int    `json:"margin_of_error"`
	ShoppingListText string `json:"shopping_list"`
	BlacklistText    string `json:"blacklist"`
}

// Status levels shown next to the user-visible message.
const (
	LevelSuccess = "success"
	LevelDanger  = "danger"
	LevelWarning = "warning"
)

// RunResult is the outcome of one run as shown to the user.
type RunResult struct {
	Status     string  `json:"status"`
	Level      string  `json:"level"`
	ReportPath string  `json:"report_path,omitempty"`
	Rows       int     `json:"rows"`
	Report     *Report `json:"-"`
}

// RunRecord is the persisted summary of a finished run.
type RunRecord struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Zip        string
	RankBy     RankBy
	Items      []string
	RawCount   int
	ReportPath string
}
