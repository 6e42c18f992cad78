package widget

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SplitDescription splits an HTML product description into a heading and
// the remaining body text. Storefronts ship descriptions as HTML with a
// leading heading; the card shows the heading as a title and the rest as
// plain text. Input without a heading yields an empty title.
func SplitDescription(html string) (title, body string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", collapseSpace(html)
	}

	heading := doc.Find("h1, h2, h3, h4, h5, h6").First()
	if heading.Length() > 0 {
		title = collapseSpace(heading.Text())
		heading.Remove()
	}
	body = collapseSpace(doc.Text())
	return title, body
}

// collapseSpace trims and folds runs of whitespace into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
