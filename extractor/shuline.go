package extractor

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"urbanstyle-registrar/internal/models"
	"urbanstyle-registrar/internal/options"
	"urbanstyle-registrar/internal/types"
	"urbanstyle-registrar/utils"
)

// Shuline products are listed on the storefront root; detail URLs carry a
// #detail fragment so the page opens on the description tab.
const (
	shulineSubmit    = ".btnSubmit"
	shulineListItems = "#contents > div:nth-of-type(5) > ul > li"
	shulineCode      = "#df-product-detail > div > div:nth-of-type(2) > div > div > div:nth-of-type(1) > div:nth-of-type(1) > div:nth-of-type(1) > h2"
	shulineThumb     = "#df-product-detail > div > div:nth-of-type(1) > div > div > div:nth-of-type(1) > span > img"
	shulineNewTitle  = "tr.prd_model_css.xans-record- > td > span:nth-child(1)"
	shulineGallery   = "#prdDetail > * > * > p > img"
)

// Shuline is the extraction profile for the shuline storefront.
type Shuline struct {
	logger types.Logger
}

// NewShuline creates the shuline profile
func NewShuline(logger types.Logger) *Shuline {
	return &Shuline{logger: logger}
}

func (p *Shuline) Name() string { return "shuline" }

func (p *Shuline) Login(s utils.Browser, shop *models.Shop) error {
	return loginWithSubmit(s, shop, shulineSubmit)
}

func (p *Shuline) DiscoverProductURLs(s utils.Browser, shop *models.Shop) ([]string, error) {
	html, err := snapshot(s, shop.ShopURL, shulineListItems)
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse list page: %w", err)
	}

	hrefs := collectProductHrefs(doc, shulineListItems)
	urls := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		urls = append(urls, href+"#detail")
	}
	return urls, nil
}

func (p *Shuline) ExtractProduct(s utils.Browser, shop *models.Shop, productURL string) (*types.RawProduct, error) {
	html, err := snapshot(s, productURL, contentContainer)
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse detail page: %w", err)
	}

	raw, err := p.parseDetail(doc, shop.ShopName, productURL)
	if err != nil {
		return nil, err
	}

	facets := p.parseOptions(s, productURL)
	raw.Sizes = facets.Sizes()
	raw.Colors = facets.Colors()
	return raw, nil
}

// parseDetail extracts the static product fields from the rendered page.
func (p *Shuline) parseDetail(doc *goquery.Document, shopName, productURL string) (*types.RawProduct, error) {
	code, err := extractText(doc, shulineCode)
	if err != nil {
		return nil, fmt.Errorf("product code: %w", err)
	}
	priceText, err := extractText(doc, priceSelector)
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	thumb, err := extractAttr(doc, shulineThumb, "src")
	if err != nil {
		return nil, fmt.Errorf("thumbnail: %w", err)
	}
	// The model-row span carries the retitled product name when present.
	newTitle, _ := extractText(doc, shulineNewTitle)

	return &types.RawProduct{
		Code:     code,
		Title:    code,
		NewTitle: newTitle,
		Price:    digitsOnly(priceText),
		ThumbURL: thumb,
		ImgURLs:  collectImageURLs(doc, shulineGallery, "", false),
		Shop:     shopName,
		URL:      productURL,
	}, nil
}

// parseOptions reads the page-injected option map. A missing global or a
// malformed payload leaves the facets empty; the product is still registered.
func (p *Shuline) parseOptions(s utils.Browser, productURL string) *options.Facets {
	payload, err := s.Evaluate(optionDataGlobal)
	if err != nil {
		p.logger.Warnf("No option data on %s: %v", productURL, err)
		return options.NewFacets()
	}
	facets, err := options.ParseFacets(payload, options.DefaultRule)
	if err != nil {
		p.logger.Warnf("Option payload on %s unparseable: %v", productURL, err)
	}
	return facets
}
