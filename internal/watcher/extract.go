package watcher

import (
	"strings"

	"golang.org/x/net/html"
)

// statusMarker anchors the parse window inside the page.
const statusMarker = `class="beta-status"`

// Window bounds around the marker: enough to contain the status element
// without parsing the whole document.
const (
	windowBefore = 100
	windowAfter  = 500
)

// extractStatus pulls the beta status text out of a join page body. It
// returns "" when the page has no status fragment or the fragment does not
// parse; callers treat that as not observable, never as an error.
func extractStatus(body string) string {
	start := strings.Index(body, statusMarker)
	if start < 0 {
		return ""
	}

	lo := start - windowBefore
	if lo < 0 {
		lo = 0
	}
	hi := start + windowAfter
	if hi > len(body) {
		hi = len(body)
	}
	return statusFromFragment(body[lo:hi])
}

// statusFromFragment parses the window and returns the trimmed text of the
// first span inside the div carrying the beta-status class. The window may
// cut the document mid-tag on either side; the parser tolerates that.
func statusFromFragment(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	div := findStatusDiv(doc)
	if div == nil {
		return ""
	}
	span := firstSpan(div)
	if span == nil {
		return ""
	}
	return strings.TrimSpace(nodeText(span))
}

func findStatusDiv(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "beta-status") {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if div := findStatusDiv(c); div != nil {
			return div
		}
	}
	return nil
}

func firstSpan(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "span" {
			return c
		}
		if s := firstSpan(c); s != nil {
			return s
		}
	}
	return nil
}

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

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
