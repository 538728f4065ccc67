package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// commonNoise is removed from every page before content selection.
const commonNoise = "nav, footer, header, script, style, noscript, iframe, svg, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// Page is the readable content of a posting page.
type Page struct {
	Title string   // Contents of <title>, if any
	Text  string   // Cleaned, line-structured body text
	Links []string // Absolute http(s) links, deduplicated in document order
}

// ExtractHTML strips markup from a posting page. Platform-specific noise is removed and
// the first matching content selector is used, falling back to <body>.
func ExtractHTML(html string, platform Platform) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := &Page{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Links: extractLinks(doc),
	}

	doc.Find(commonNoise).Remove()
	if noise := strings.Join(NoiseSelectors(platform), ", "); noise != "" {
		doc.Find(noise).Remove()
	}

	var main *goquery.Selection
	for _, selector := range ContentSelectors(platform) {
		if selection := doc.Find(selector); selection.Length() > 0 {
			main = selection.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	var b strings.Builder
	writeBlocks(&b, main)
	page.Text = CleanText(b.String())
	return page, nil
}

// CleanHTML returns the readable text and links of an HTML fragment or page.
func CleanHTML(html string) (string, []string, error) {
	page, err := ExtractHTML(html, PlatformUnknown)
	if err != nil {
		return "", nil, err
	}
	return page.Text, page.Links, nil
}

var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true, "ul": true,
	"ol": true, "table": true, "tr": true, "br": true, "hr": true, "dl": true, "dt": true,
	"dd": true, "blockquote": true, "pre": true,
}

var headingElements = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// writeBlocks renders a selection as text, putting block elements on their own lines,
// list items behind "- " and headings behind "# ".
func writeBlocks(b *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		switch {
		case name == "#text":
			b.WriteString(strings.ReplaceAll(s.Text(), "\n", " "))
		case name == "li":
			b.WriteString("\n- ")
			writeBlocks(b, s)
			b.WriteString("\n")
		case headingElements[name]:
			b.WriteString("\n# ")
			writeBlocks(b, s)
			b.WriteString("\n")
		case blockElements[name]:
			b.WriteString("\n")
			writeBlocks(b, s)
			b.WriteString("\n")
		case name == "td" || name == "th":
			writeBlocks(b, s)
			b.WriteString(" ")
		default:
			writeBlocks(b, s)
		}
	})
}

func extractLinks(doc *goquery.Document) []string {
	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		lower := strings.ToLower(href)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			return
		}
		if !seen[href] {
			seen[href] = true
			links = append(links, href)
		}
	})
	return links
}
