package crawler

import (
	"strings"

	"golang.org/x/net/html"
)

// Anchor is a single <a href> element: its raw href attribute and its
// visible text content.
type Anchor struct {
	// Href is the raw href attribute, untrimmed and unresolved.
	Href string

	// Text is the concatenated text content of the anchor's subtree.
	Text string
}

// ParseAnchors extracts every anchor with an href attribute from the
// given HTML, in document order. Document order matters: the contact-page
// heuristics preserve it so that candidate selection is deterministic.
//
// Design decision: We use golang.org/x/net/html rather than regex
// because:
//  1. It correctly handles malformed HTML common on small member sites
//  2. Anchor text can span nested elements, which regex cannot track
//  3. Standard library extension, well-maintained
func ParseAnchors(content string) ([]Anchor, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	anchors := make([]Anchor, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := getAttr(n, "href"); ok {
				anchors = append(anchors, Anchor{
					Href: href,
					Text: nodeText(n),
				})
			}
			// Nested anchors are invalid HTML and the parser never
			// produces them, so there is no need to descend further
			// looking for more hrefs. Text is collected above.
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return anchors, nil
}

// nodeText returns the concatenated text content of a node's subtree.
func nodeText(n *html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return sb.String()
}

// getAttr retrieves an attribute value from an HTML node.
// The second return value reports whether the attribute was present,
// distinguishing a missing href from an empty one.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
