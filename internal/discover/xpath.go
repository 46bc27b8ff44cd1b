package discover

import (
	"fmt"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

const resourceXPath = "//*[@src or @href or @background]"

// XPath discovers resources with htmlquery.
type XPath struct{}

func (XPath) Discover(body []byte, baseURL string) ([]string, error) {
	res, err := newResolver(baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := htmlquery.Parse(utf8Reader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	if base := htmlquery.FindOne(doc, "//base[@href]"); base != nil {
		res.rebase(htmlquery.SelectAttr(base, "href"))
	}

	nodes, err := htmlquery.QueryAll(doc, resourceXPath)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}

	var links []string
	for _, n := range inDocumentOrder(doc, nodes) {
		for _, ref := range references(n.Data, nodeAttr(n)) {
			if abs, ok := res.resolve(ref); ok {
				links = append(links, abs)
			}
		}
	}
	return links, nil
}

func nodeAttr(n *html.Node) attrGetter {
	return func(name string) (string, bool) {
		for _, a := range n.Attr {
			if a.Key == name {
				return a.Val, true
			}
		}
		return "", false
	}
}

// inDocumentOrder returns the selected nodes in the order a pre-order walk
// of doc visits them. XPath node sets carry no order guarantee.
func inDocumentOrder(doc *html.Node, nodes []*html.Node) []*html.Node {
	selected := make(map[*html.Node]struct{}, len(nodes))
	for _, n := range nodes {
		selected[n] = struct{}{}
	}

	ordered := make([]*html.Node, 0, len(nodes))
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if _, ok := selected[n]; ok {
			ordered = append(ordered, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return ordered
}
