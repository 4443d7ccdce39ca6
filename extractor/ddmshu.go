package extractor

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"urbanstyle-registrar/internal/models"
	"urbanstyle-registrar/internal/types"
	"urbanstyle-registrar/utils"
)

// Ddmshu paginates its landing page behind a "more" control that has to be
// clicked to reveal additional items, keeps size and color in plain DOM
// tables instead of the option script global, and serves gallery images as
// host-relative paths.
const (
	ddmshuSubmit    = ".btnSubmit"
	ddmshuMoreLink  = "#contents > section:nth-child(4) > div > div.xans-element-.xans-product.xans-product-listmore-1.xans-product-listmore.xans-product-1.more > a"
	ddmshuListItems = "#contents > section:nth-of-type(2) > div > div:nth-of-type(1) > ul > li"
	ddmshuCode      = "#contents > div:nth-of-type(3) > div > div:nth-of-type(2) > div:nth-of-type(1) > h1"
	ddmshuThumb     = "#contents > div:nth-of-type(3) > div > div:nth-of-type(1) > div:nth-of-type(1) > div:nth-of-type(1) > div > a > img"
	ddmshuSizes     = "#contents > div:nth-of-type(3) > div > div:nth-of-type(2) > table > tbody:nth-of-type(1) > tr > td > ul > li"
	ddmshuColors    = "#contents > div:nth-of-type(3) > div > div:nth-of-type(2) > table > tbody:nth-of-type(2) > tr > td > ul > li"
	ddmshuGallery   = ".productDetail img"
	ddmshuLazyAttr  = "ec-data-src"
)

// Ddmshu is the extraction profile for the ddmshu storefront.
type Ddmshu struct {
	logger types.Logger
}

// NewDdmshu creates the ddmshu profile
func NewDdmshu(logger types.Logger) *Ddmshu {
	return &Ddmshu{logger: logger}
}

func (p *Ddmshu) Name() string { return "ddmshu" }

func (p *Ddmshu) Login(s utils.Browser, shop *models.Shop) error {
	return loginWithSubmit(s, shop, ddmshuSubmit)
}

// DiscoverProductURLs reveals the full list by clicking the "more" control,
// re-navigating between clicks the way the landing page expects.
func (p *Ddmshu) DiscoverProductURLs(s utils.Browser, shop *models.Shop) ([]string, error) {
	for i := 0; i < 2; i++ {
		if err := s.Navigate(shop.ShopURL); err != nil {
			return nil, err
		}
		if err := s.Click(ddmshuMoreLink); err != nil {
			return nil, fmt.Errorf("failed to expand product list: %w", err)
		}
	}

	if err := s.WaitVisible(ddmshuListItems); err != nil {
		return nil, err
	}
	html, err := s.PageHTML()
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse list page: %w", err)
	}
	return collectProductHrefs(doc, ddmshuListItems), nil
}

func (p *Ddmshu) ExtractProduct(s utils.Browser, shop *models.Shop, productURL string) (*types.RawProduct, error) {
	html, err := snapshot(s, productURL, contentContainer)
	if err != nil {
		return nil, err
	}
	doc, err := parseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse detail page: %w", err)
	}
	return p.parseDetail(doc, shop.ShopName, productURL)
}

func (p *Ddmshu) parseDetail(doc *goquery.Document, shopName, productURL string) (*types.RawProduct, error) {
	code, err := extractText(doc, ddmshuCode)
	if err != nil {
		return nil, fmt.Errorf("product code: %w", err)
	}
	priceText, err := extractText(doc, priceSelector)
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	thumb, err := extractAttr(doc, ddmshuThumb, "src")
	if err != nil {
		return nil, fmt.Errorf("thumbnail: %w", err)
	}

	imgs := collectImageURLs(doc, ddmshuGallery, ddmshuLazyAttr, true)
	for i, img := range imgs {
		imgs[i] = resolveAgainstPage(productURL, img)
	}

	return &types.RawProduct{
		Code:     code,
		Title:    code,
		Price:    digitsOnly(priceText),
		ThumbURL: thumb,
		Sizes:    collectTexts(doc, ddmshuSizes),
		Colors:   collectTexts(doc, ddmshuColors),
		ImgURLs:  imgs,
		Shop:     shopName,
		URL:      productURL,
	}, nil
}
