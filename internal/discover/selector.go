package discover

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

const resourceSelector = "link[href], script[src], img[src], input[src], frame[src], iframe[src], embed[src], " +
	"body[background], table[background], td[background], th[background]"

// Selector discovers resources with goquery CSS selectors.
type Selector struct{}

func (Selector) Discover(body []byte, baseURL string) ([]string, error) {
	res, err := newResolver(baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(utf8Reader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		res.rebase(href)
	}

	var links []string
	doc.Find(resourceSelector).Each(func(_ int, s *goquery.Selection) {
		for _, ref := range references(goquery.NodeName(s), s.Attr) {
			if abs, ok := res.resolve(ref); ok {
				links = append(links, abs)
			}
		}
	})
	return links, nil
}
