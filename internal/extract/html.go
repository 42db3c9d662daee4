package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/credlens/credlens/internal/model"
)

// FromHTML extracts claims from the visible text of an HTML document
func (e *ClaimExtractor) FromHTML(htmlContent string) (model.ClaimSet, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return model.ClaimSet{}, err
	}
	return e.FromText(visibleText(doc)), nil
}

// visibleText extracts text nodes from HTML, skipping scripts/styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
