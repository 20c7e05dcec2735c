package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// SearchPageURL builds the results page address for term at a zero-based page.
func SearchPageURL(base, term string, page int) string {
	base = strings.TrimRight(base, "/")
	return fmt.Sprintf("%s/%s?title=%s&page=%d",
		base, url.PathEscape(term), url.QueryEscape(term), page)
}

// ValidBaseURL reports whether raw is an absolute http(s) URL.
func ValidBaseURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
