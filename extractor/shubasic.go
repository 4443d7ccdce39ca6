package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"urbanstyle-registrar/internal/models"
	"urbanstyle-registrar/internal/options"
	"urbanstyle-registrar/internal/types"
	"urbanstyle-registrar/utils"
)

// Shubasic lists new arrivals under a fixed category. The product code is
// carried in the og:title meta tag, and gallery images are lazy-loaded via
// an ec-data-src attribute with protocol-relative URLs.
const (
	shubasicSubmit    = "form div div fieldset a"
	shubasicListPath  = "/product/list.html?cate_no=39"
	shubasicListItems = "#contents > div:nth-of-type(1) > div:nth-of-type(2) > ul > li"
	shubasicMetaTitle = `meta[property="og:title"]`
	shubasicThumb     = "#contents > div:nth-of-type(1) > div:nth-of-type(2) > div:nth-of-type(1) > div:nth-of-type(1) > div > a > img"
	shubasicGallery   = "#prdDetail img"
	shubasicLazyAttr  = "ec-data-src"
)

// Shubasic is the extraction profile for the shubasic storefront.
type Shubasic struct {
	logger types.Logger
}

// NewShubasic creates the shubasic profile
func NewShubasic(logger types.Logger) *Shubasic {
	return &Shubasic{logger: logger}
}

func (p *Shubasic) Name() string { return "shubasic" }

func (p *Shubasic) Login(s utils.Browser, shop *models.Shop) error {
	return loginWithSubmit(s, shop, shubasicSubmit)
}

func (p *Shubasic) DiscoverProductURLs(s utils.Browser, shop *models.Shop) ([]string, error) {
	html, err := snapshot(s, shop.ShopURL+shubasicListPath, shubasicListItems)
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse list page: %w", err)
	}
	return collectProductHrefs(doc, shubasicListItems), nil
}

func (p *Shubasic) ExtractProduct(s utils.Browser, shop *models.Shop, productURL string) (*types.RawProduct, error) {
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

func (p *Shubasic) parseDetail(doc *goquery.Document, shopName, productURL string) (*types.RawProduct, error) {
	metaTitle, err := extractAttr(doc, shubasicMetaTitle, "content")
	if err != nil {
		return nil, fmt.Errorf("product code: %w", err)
	}
	code := shubasicProductCode(metaTitle)

	priceText, err := extractText(doc, priceSelector)
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	thumb, err := extractAttr(doc, shubasicThumb, "src")
	if err != nil {
		return nil, fmt.Errorf("thumbnail: %w", err)
	}

	imgs := collectImageURLs(doc, shubasicGallery, shubasicLazyAttr, true)
	for i, img := range imgs {
		imgs[i] = ensureHTTPS(img)
	}

	return &types.RawProduct{
		Code:     code,
		Title:    code,
		Price:    digitsOnly(priceText),
		ThumbURL: thumb,
		ImgURLs:  imgs,
		Shop:     shopName,
		URL:      productURL,
	}, nil
}

func (p *Shubasic) parseOptions(s utils.Browser, productURL string) *options.Facets {
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

// shubasicProductCode derives the product code from the og:title content:
// the segment before the first underscore, with any parenthesized suffix
// stripped.
func shubasicProductCode(metaTitle string) string {
	code := strings.Split(metaTitle, "_")[0]
	if strings.Contains(code, "(") {
		code = strings.TrimSpace(strings.Split(code, "(")[0])
	}
	return code
}
