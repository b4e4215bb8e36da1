package scraper

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Page is a snapshot of a rendered page: where the browser ended up, the
// document title and the parsed DOM.
type Page struct {
	URL   *url.URL
	Title string
	Doc   *goquery.Document

	bodyOnce sync.Once
	body     string
}

// NewPage parses html as it was rendered at rawURL.
func NewPage(rawURL, title, html string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}
	return &Page{URL: u, Title: title, Doc: doc}, nil
}

// BodyText is the text content of <body>.
func (p *Page) BodyText() string {
	p.bodyOnce.Do(func() {
		p.body = p.Doc.Find("body").Text()
	})
	return p.body
}

// Probe reads one candidate value for a field. An empty string means the
// probe found nothing and the next one should be tried.
type Probe func(p *Page) string

// Selector probes the text of the first element matching css, with
// whitespace collapsed.
func Selector(css string) Probe {
	return func(p *Page) string {
		return collapse(p.Doc.Find(css).First().Text())
	}
}

// Selectors builds one Selector probe per css expression, in order.
func Selectors(css ...string) []Probe {
	probes := make([]Probe, len(css))
	for i, c := range css {
		probes[i] = Selector(c)
	}
	return probes
}

// FirstOf returns the first non-empty probe result.
func FirstOf(p *Page, probes ...Probe) string {
	for _, probe := range probes {
		if v := probe(p); v != "" {
			return v
		}
	}
	return ""
}

// Raw probes the unmodified text content of the first match, so long-form
// descriptions keep their line structure.
func Raw(css string) Probe {
	return func(p *Page) string {
		sel := p.Doc.Find(css).First()
		if strings.TrimSpace(sel.Text()) == "" {
			return ""
		}
		return sel.Text()
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
