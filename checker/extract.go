package checker

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ExtractLinks parses HTML from the given reader and returns the href of
// every anchor tag in document order. Values are returned exactly as written:
// no resolution, normalization or deduplication. Anchors without an href
// attribute are skipped; an empty href is kept.
func ExtractLinks(body io.Reader) ([]string, error) {
	root, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	links := []string{}
	goquery.NewDocumentFromNode(root).Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		if href, ok := anchor.Attr("href"); ok {
			links = append(links, href)
		}
	})
	return links, nil
}
