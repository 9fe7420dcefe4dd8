package textutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// wordsPerMinute assumed average reading speed.
const wordsPerMinute = 200

// StripMarkup returns the plain text of an HTML fragment. Text nodes are
// joined with spaces so words never merge across element boundaries
// ("<h1>a</h1><p>b</p>" yields "a b"). Invalid or plain-text input comes
// back whitespace-normalized but otherwise intact.
func StripMarkup(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	var parts []string
	collectText(doc.Selection, &parts)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func collectText(s *goquery.Selection, parts *[]string) {
	s.Contents().Each(func(_ int, node *goquery.Selection) {
		if goquery.NodeName(node) == "#text" {
			if text := strings.TrimSpace(node.Text()); text != "" {
				*parts = append(*parts, text)
			}
			return
		}
		collectText(node, parts)
	})
}

// WordCount counts words in the stripped plain text of body.
func WordCount(body string) int {
	plain := StripMarkup(body)
	if plain == "" {
		return 0
	}
	return len(strings.Fields(plain))
}

// ReadingTime estimates minutes to read, rounded up, at least 1 for any
// non-empty body.
func ReadingTime(wordCount int) int {
	if wordCount == 0 {
		return 0
	}
	return (wordCount + wordsPerMinute - 1) / wordsPerMinute
}
