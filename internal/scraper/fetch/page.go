package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"SkuScraper/internal/scraper"
	"SkuScraper/utils"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Page is a storefront page downloaded once and queried with goquery.
// Waits return immediately since the document never changes.
type Page struct {
	url *url.URL
	doc *goquery.Document
}

var _ scraper.Page = (*Page)(nil)

// NewPage parses an HTML body fetched from pageURL.
func NewPage(pageURL string, body io.Reader) (*Page, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url %q: %w", pageURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse html from %s: %w", pageURL, err)
	}
	return &Page{url: u, doc: doc}, nil
}

func (p *Page) URL() string { return p.url.String() }

func (p *Page) Text(_ context.Context, selector string) (string, bool) {
	sel := p.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(sel.Text()), true
}

func (p *Page) WaitText(ctx context.Context, selector string, _ time.Duration) (string, bool) {
	return p.Text(ctx, selector)
}

func (p *Page) WaitLink(_ context.Context, selector string, _ time.Duration) (string, bool) {
	href, ok := p.doc.Find(selector).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", false
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	return p.url.ResolveReference(ref).String(), true
}

func (p *Page) SplitPrice(_ context.Context, selector string) (string, bool) {
	sel := p.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	main, decimals := splitPriceParts(sel.Nodes[0])
	price := utils.JoinSplitPrice(main, decimals)
	return price, price != ""
}

// splitPriceParts collects the direct text children of n and the text of its second <sup>.
func splitPriceParts(n *html.Node) (main, decimals string) {
	var b strings.Builder
	sups := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(strings.TrimSpace(c.Data))
		case c.Type == html.ElementNode && c.Data == "sup":
			sups++
			if sups == 2 {
				decimals = strings.TrimSpace(nodeText(c))
			}
		}
	}
	return b.String(), decimals
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

// hiddenTags never render; their text must not satisfy a TextMatch.
var hiddenTags = map[string]bool{"script": true, "style": true, "noscript": true}

// visibleText is the text of n without the contents of hidden elements.
func visibleText(n *html.Node) string {
	switch {
	case n.Type == html.TextNode:
		return n.Data
	case n.Type == html.ElementNode && hiddenTags[n.Data]:
		return ""
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(visibleText(c))
	}
	return b.String()
}

func (p *Page) FindText(_ context.Context, m scraper.TextMatch) (string, bool) {
	hit := func(n *html.Node) bool { return utils.ContainsFold(visibleText(n), m.Markers...) }

	var found string
	var ok bool
	candidates := p.doc.Find("body *")
	if m.Tag != "" {
		candidates = p.doc.Find(m.Tag)
	}
	candidates.Not("script, style, noscript").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		n := s.Nodes[0]
		if !hit(n) {
			return true
		}
		if m.Tag == "" {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && !hiddenTags[c.Data] && hit(c) {
					return true
				}
			}
		}
		found, ok = strings.TrimSpace(visibleText(n)), true
		return false
	})
	return found, ok
}

// Dismiss is a no-op: overlays only exist in a live browser.
func (p *Page) Dismiss(context.Context, string, time.Duration) {}
