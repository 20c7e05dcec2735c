// Package extractor turns one listing card of a results page into a raw listing.
package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/deals-scraper/internal/entity"
)

// Strategy pulls one field out of a listing card. It returns "" when the
// card does not carry the markup the strategy looks for.
type Strategy struct {
	Name string
	Find func(card *goquery.Selection) string
}

// byText joins the texts of every element matched by selector.
func byText(name, selector string) Strategy {
	return Strategy{
		Name: name,
		Find: func(card *goquery.Selection) string {
			return normalize(card.Find(selector).Text())
		},
	}
}

var (
	nameStrategies = []Strategy{byText("heading", "h3")}

	dateStrategies = []Strategy{byText("dates", "dl > dt.dates + dd")}

	storeStrategies = []Strategy{
		byText("retailer-link", "dl > dt.retailer + dd > a"),
		byText("retailer-span", "dl > dt.retailer + dd > span"),
	}

	brandStrategies = []Strategy{
		byText("brand-link", "dl > dt.brand + dd > a"),
		byText("brand-span", "dl > dt.brand + dd > span"),
	}

	// Price ranges ("1,99 € - 2,49 €") keep their lower bound.
	strongPrice = Strategy{
		Name: "strong",
		Find: func(card *goquery.Selection) string {
			text := card.Find("p > strong").Text()
			if i := strings.Index(text, "-"); i >= 0 {
				text = text[:i]
			}
			return normalize(text)
		},
	}

	containerPrice = byText("prices-container", "dl > div.prices-container > dt.price + dd")

	noteStrategy = byText("paragraphs", "p")
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// first runs strategies in order and returns the first non-empty result.
func first(card *goquery.Selection, strategies []Strategy) string {
	for _, s := range strategies {
		if v := s.Find(card); v != "" {
			return v
		}
	}
	return ""
}

// Extract parses one listing fragment (the outer HTML of an li element).
// ok is false when the fragment has no product heading and therefore is not a listing.
func Extract(fragment string, item string) (entity.RawListing, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return entity.RawListing{}, false
	}
	card := doc.Selection
	if card.Find("h3").Length() == 0 {
		return entity.RawListing{}, false
	}

	l := entity.RawListing{
		Item:      item,
		Name:      first(card, nameStrategies),
		DateValid: first(card, dateStrategies),
		Store:     first(card, storeStrategies),
		Brand:     first(card, brandStrategies),
	}

	// A card showing a strong price is priced that way even when the
	// strong element is empty; only cards without one fall back to the
	// container and carry a note.
	if card.Find("p > strong").Length() > 0 {
		l.Price = strongPrice.Find(card)
	} else {
		l.Price = containerPrice.Find(card)
		l.Note = noteStrategy.Find(card)
		l.HasNote = true
	}
	return l, true
}

// ExtractAll extracts every listing among fragments, skipping non-listings.
func ExtractAll(fragments []string, item string) []entity.RawListing {
	listings := make([]entity.RawListing, 0, len(fragments))
	for _, f := range fragments {
		if l, ok := Extract(f, item); ok {
			listings = append(listings, l)
		}
	}
	return listings
}
