package entity

// Settings are the persisted control-surface preferences.
type Settings struct {
	ChromePath    string `json:"chrome_path"`
	Zip           string `json:"zip"`
	RankBy        RankBy `json:"rank_by"`
	MarginOfError int    `json:"margin_of_error"`
}

// Names of the persisted plain-text lists.
const (
	ShoppingList  = "shopping_list"
	ItemBlacklist = "item_blacklist"
)

// ValidListName reports whether name is one of the persisted lists.
func ValidListName(name string) bool {
	return name == ShoppingList || name == ItemBlacklist
}
