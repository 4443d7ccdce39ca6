package extractor

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"urbanstyle-registrar/internal/models"
	"urbanstyle-registrar/internal/options"
	"urbanstyle-registrar/internal/types"
	"urbanstyle-registrar/utils"
)

// Girlsgoob shares shuline's detail markup but lists products under its own
// category and encodes one-piece options without a hyphen, so a bare option
// value is a color.
const (
	girlsgoobSubmit    = ".btnSubmit"
	girlsgoobListPath  = "/product/list.html?cate_no=80"
	girlsgoobListItems = "body > div:nth-of-type(1) > div:nth-of-type(2) > div > div:nth-of-type(2) > div:nth-of-type(2) > ul > li > div > div:nth-of-type(1)"
	girlsgoobCode      = "#df-product-detail > div > div:nth-of-type(2) > div > div > div:nth-of-type(1) > div:nth-of-type(1) > div:nth-of-type(1) > h2"
	girlsgoobThumb     = "#df-product-detail > div > div:nth-of-type(1) > div > div > div:nth-of-type(1) > span > img"
	girlsgoobGallery   = "#prdDetail > div:nth-of-type(3) > div:nth-of-type(2) > * > img"
)

// Girlsgoob is the extraction profile for the girlsgoob storefront.
type Girlsgoob struct {
	logger types.Logger
}

// NewGirlsgoob creates the girlsgoob profile
func NewGirlsgoob(logger types.Logger) *Girlsgoob {
	return &Girlsgoob{logger: logger}
}

func (p *Girlsgoob) Name() string { return "girlsgoob" }

func (p *Girlsgoob) Login(s utils.Browser, shop *models.Shop) error {
	return loginWithSubmit(s, shop, girlsgoobSubmit)
}

func (p *Girlsgoob) DiscoverProductURLs(s utils.Browser, shop *models.Shop) ([]string, error) {
	html, err := snapshot(s, shop.ShopURL+girlsgoobListPath, girlsgoobListItems)
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse list page: %w", err)
	}
	return collectProductHrefs(doc, girlsgoobListItems), nil
}

func (p *Girlsgoob) ExtractProduct(s utils.Browser, shop *models.Shop, productURL string) (*types.RawProduct, error) {
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

func (p *Girlsgoob) parseDetail(doc *goquery.Document, shopName, productURL string) (*types.RawProduct, error) {
	code, err := extractText(doc, girlsgoobCode)
	if err != nil {
		return nil, fmt.Errorf("product code: %w", err)
	}
	priceText, err := extractText(doc, priceSelector)
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	thumb, err := extractAttr(doc, girlsgoobThumb, "src")
	if err != nil {
		return nil, fmt.Errorf("thumbnail: %w", err)
	}

	return &types.RawProduct{
		Code:     code,
		Title:    code,
		Price:    digitsOnly(priceText),
		ThumbURL: thumb,
		ImgURLs:  collectImageURLs(doc, girlsgoobGallery, "", false),
		Shop:     shopName,
		URL:      productURL,
	}, nil
}

func (p *Girlsgoob) parseOptions(s utils.Browser, productURL string) *options.Facets {
	payload, err := s.Evaluate(optionDataGlobal)
	if err != nil {
		p.logger.Warnf("No option data on %s: %v", productURL, err)
		return options.NewFacets()
	}
	facets, err := options.ParseFacets(payload, options.ColorFallbackRule)
	if err != nil {
		p.logger.Warnf("Option payload on %s unparseable: %v", productURL, err)
	}
	return facets
}
