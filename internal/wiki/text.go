package wiki

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var spaceRe = regexp.MustCompile(`\s+`)

// cleanSnippet turns a search snippet (HTML with searchmatch spans and
// entities) into plain text.
func cleanSnippet(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		re := regexp.MustCompile(`<[^>]+>`)
		return strings.TrimSpace(spaceRe.ReplaceAllString(re.ReplaceAllString(html, " "), " "))
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(doc.Text(), " "))
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
