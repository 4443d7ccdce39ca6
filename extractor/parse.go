package extractor

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var nonDigits = regexp.MustCompile(`\D`)

// parseHTML parses a page snapshot into a goquery document
func parseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// extractText extracts trimmed text from an element using a CSS selector
func extractText(doc *goquery.Document, selector string) (string, error) {
	element := doc.Find(selector)
	if element.Length() == 0 {
		return "", fmt.Errorf("element not found with selector: %s", selector)
	}
	return strings.TrimSpace(element.First().Text()), nil
}

// extractAttr extracts an attribute value from an element
func extractAttr(doc *goquery.Document, selector, attribute string) (string, error) {
	element := doc.Find(selector)
	if element.Length() == 0 {
		return "", fmt.Errorf("element not found with selector: %s", selector)
	}
	value, exists := element.First().Attr(attribute)
	if !exists {
		return "", fmt.Errorf("attribute %s not found on element %s", attribute, selector)
	}
	return value, nil
}

// digitsOnly strips every non-digit character from a price string.
func digitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// collectProductHrefs reads the product detail link out of each list item
// matched by itemSelector, preserving page order.
func collectProductHrefs(doc *goquery.Document, itemSelector string) []string {
	var hrefs []string
	doc.Find(itemSelector).Each(func(i int, item *goquery.Selection) {
		href, exists := item.Find("a").First().Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return
		}
		hrefs = append(hrefs, strings.TrimSpace(href))
	})
	return hrefs
}

// collectTexts gathers the trimmed text of every element matched by the
// selector, preserving page order and dropping empties.
func collectTexts(doc *goquery.Document, selector string) []string {
	var texts []string
	doc.Find(selector).Each(func(i int, el *goquery.Selection) {
		if text := strings.TrimSpace(el.Text()); text != "" {
			texts = append(texts, text)
		}
	})
	return texts
}

// collectImageURLs gathers image URLs in page order. When preferAttr is set,
// it is read first and the standard src attribute is the fallback; empty
// values are dropped. With dedup, exact duplicates are removed.
func collectImageURLs(doc *goquery.Document, selector, preferAttr string, dedup bool) []string {
	var urls []string
	doc.Find(selector).Each(func(i int, img *goquery.Selection) {
		var src string
		if preferAttr != "" {
			src, _ = img.Attr(preferAttr)
		}
		if src == "" {
			src, _ = img.Attr("src")
		}
		if src == "" {
			return
		}
		urls = append(urls, src)
	})

	if !dedup {
		return urls
	}

	seen := make(map[string]bool)
	var unique []string
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		unique = append(unique, u)
	}
	return unique
}

// ensureHTTPS turns a protocol-relative URL ("//host/img.jpg") into an
// https one. URLs that already carry a scheme pass through.
func ensureHTTPS(imgURL string) string {
	if strings.Contains(imgURL, "http") {
		return imgURL
	}
	return "https:" + imgURL
}

// resolveAgainstPage rewrites a path-only or protocol-relative image URL
// into an absolute one using the page's scheme and host.
func resolveAgainstPage(pageURL, imgURL string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return imgURL
	}
	ref, err := url.Parse(imgURL)
	if err != nil {
		return imgURL
	}
	return base.ResolveReference(ref).String()
}
