package request

// StartScrapeRequest starts a run. Omitted fields fall back to the saved
// settings, the saved lists and finally the server configuration.
type StartScrapeRequest struct {
	SearchURL     string  `json:"search_url"`
	ChromePath    *string `json:"chrome_path"`
	Zip           string  `json:"zip"`
	RankBy        string  `json:"rank_by"`
	MarginOfError *int    `json:"margin_of_error"`
	ShoppingList  *string `json:"shopping_list"`
	Blacklist     *string `json:"blacklist"`
}

type SaveListRequest struct {
	Text string `json:"text"`
}

type SaveSettingsRequest struct {
	ChromePath    string `json:"chrome_path"`
	Zip           string `json:"zip"`
	RankBy        string `json:"rank_by"`
	MarginOfError int    `json:"margin_of_error"`
}

type CheckChromeRequest struct {
	Path string `json:"path"`
}
