package browser

import (
	"context"
	"strings"
	"time"

	"SkuScraper/internal/scraper"
	"SkuScraper/utils"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Page is the live tab of a Session.
type Page struct {
	page *rod.Page
}

var _ scraper.Page = (*Page)(nil)

func (p *Page) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *Page) Text(ctx context.Context, selector string) (string, bool) {
	has, el, err := p.page.Context(ctx).Has(selector)
	if err != nil || !has {
		return "", false
	}
	text, err := el.Text()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(text), true
}

func (p *Page) WaitText(ctx context.Context, selector string, timeout time.Duration) (string, bool) {
	el, err := p.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return "", false
	}
	text, err := el.Text()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(text), true
}

func (p *Page) WaitLink(ctx context.Context, selector string, timeout time.Duration) (string, bool) {
	el, err := p.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return "", false
	}
	// The href property is already absolute, unlike the attribute.
	href, err := el.Property("href")
	if err != nil {
		return "", false
	}
	link := strings.TrimSpace(href.Str())
	return link, link != ""
}

const splitPriceJS = `() => {
	let main = '', decimals = '', sups = 0;
	for (const node of this.childNodes) {
		if (node.nodeType === Node.TEXT_NODE) {
			main += node.textContent.trim();
		} else if (node.nodeType === Node.ELEMENT_NODE && node.tagName === 'SUP') {
			sups++;
			if (sups === 2) decimals = node.textContent.trim();
		}
	}
	return {main, decimals};
}`

func (p *Page) SplitPrice(ctx context.Context, selector string) (string, bool) {
	has, el, err := p.page.Context(ctx).Has(selector)
	if err != nil || !has {
		return "", false
	}
	res, err := el.Eval(splitPriceJS)
	if err != nil {
		return "", false
	}
	price := utils.JoinSplitPrice(res.Value.Get("main").Str(), res.Value.Get("decimals").Str())
	return price, price != ""
}

const findTextJS = `(tag, markers) => {
	const wanted = markers.map(m => m.toLowerCase());
	const hidden = el => ['SCRIPT', 'STYLE', 'NOSCRIPT'].includes(el.tagName);
	const hit = el => {
		if (hidden(el)) return false;
		const text = (el.innerText || '').toLowerCase();
		return wanted.some(m => text.includes(m));
	};
	if (tag) {
		for (const el of document.querySelectorAll(tag)) {
			if (hit(el)) return el.innerText.trim();
		}
		return null;
	}
	for (const el of document.body.querySelectorAll('*')) {
		if (hit(el) && !Array.from(el.children).some(hit)) return el.innerText.trim();
	}
	return null;
}`

func (p *Page) FindText(ctx context.Context, m scraper.TextMatch) (string, bool) {
	res, err := p.page.Context(ctx).Eval(findTextJS, m.Tag, m.Markers)
	if err != nil || res.Value.Nil() {
		return "", false
	}
	return res.Value.Str(), true
}

func (p *Page) Dismiss(ctx context.Context, selector string, timeout time.Duration) {
	el, err := p.page.Context(ctx).Timeout(timeout).Element(selector)
	if err != nil {
		return
	}
	_ = el.Click(proto.InputMouseButtonLeft, 1)
}
