// Package pipeline turns an extracted raw product into persisted rows and
// mirrored image files: dedup-check by code, insert the product, batch the
// gallery rows against the assigned sequence id, then fan out downloads.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"urbanstyle-registrar/internal/models"
	"urbanstyle-registrar/internal/types"
)

// Status classifies the outcome of registering one product.
type Status int

const (
	// Registered means the product and its image rows were written.
	Registered Status = iota
	// SkippedDuplicate means a product with this code already exists.
	SkippedDuplicate
	// Failed means registration stopped before completing.
	Failed
)

// Result reports what happened to one raw product. The per-product loop in
// the extractor continues on Failed instead of aborting the shop run.
type Result struct {
	Status     Status
	Code       string
	Seq        int
	Images     int
	Downloaded int
	Reason     error
}

// Downloader mirrors a single image to disk, reporting success.
type Downloader interface {
	Download(ctx context.Context, shop, kind, imgURL, name string) bool
}

// Pipeline persists products and fans their imagery out to disk.
type Pipeline struct {
	products models.ProductRepository
	images   Downloader
	logger   types.Logger
	now      func() time.Time
}

// New creates a product pipeline.
func New(products models.ProductRepository, images Downloader, logger types.Logger) *Pipeline {
	return &Pipeline{
		products: products,
		images:   images,
		logger:   logger,
		now:      time.Now,
	}
}

// Register runs the dedup gate and, for a new code, inserts the product,
// batch-inserts its gallery rows and downloads all imagery concurrently.
// The thumbnail is download-only; it never becomes a gallery row. All
// downloads are awaited before the result is returned, but their individual
// failures do not roll anything back.
func (p *Pipeline) Register(ctx context.Context, raw *types.RawProduct) Result {
	exists, err := p.products.ExistsByCode(ctx, raw.Code)
	if err != nil {
		return Result{Status: Failed, Code: raw.Code, Reason: fmt.Errorf("existence check failed: %w", err)}
	}
	if exists {
		p.logger.Debugf("Product %s already registered, skipping", raw.Code)
		return Result{Status: SkippedDuplicate, Code: raw.Code}
	}

	product := p.buildProduct(raw)
	if err := p.products.Create(ctx, product); err != nil {
		return Result{Status: Failed, Code: raw.Code, Reason: fmt.Errorf("product insert failed: %w", err)}
	}

	// The assigned seq must exist before image rows can reference it.
	seq := product.Seq

	imgRows := make([]*models.ProductImage, 0, len(raw.ImgURLs))
	for i, imgURL := range raw.ImgURLs {
		imgRows = append(imgRows, &models.ProductImage{
			ProductSeq:     seq,
			ProductShop:    raw.Shop,
			ProductImgSort: i,
			ProductImgURL:  imgURL,
			ProductRegdate: p.now(),
		})
	}
	if err := p.products.CreateImages(ctx, imgRows); err != nil {
		return Result{Status: Failed, Code: raw.Code, Seq: seq, Reason: fmt.Errorf("image rows insert failed: %w", err)}
	}

	downloaded := p.mirrorImages(ctx, raw, seq)

	p.logger.Infof("Registered product %s (seq %d, %d images, %d downloaded)",
		raw.Code, seq, len(raw.ImgURLs), downloaded)

	return Result{
		Status:     Registered,
		Code:       raw.Code,
		Seq:        seq,
		Images:     len(raw.ImgURLs),
		Downloaded: downloaded,
	}
}

func (p *Pipeline) buildProduct(raw *types.RawProduct) *models.Product {
	return &models.Product{
		ProductTitle:    raw.Title,
		ProductNewTitle: raw.NewTitle,
		ProductCode:     raw.Code,
		ProductSize:     strings.Join(raw.Sizes, ","),
		ProductColor:    strings.Join(raw.Colors, ","),
		ProductPrice:    raw.Price,
		ProductThumbImg: raw.ThumbURL,
		ProductShop:     raw.Shop,
		ProductURL:      raw.URL,
		ProductRegdate:  p.now(),
	}
}

// mirrorImages downloads the thumbnail and every gallery image concurrently
// and waits for all of them.
func (p *Pipeline) mirrorImages(ctx context.Context, raw *types.RawProduct, seq int) int {
	var wg sync.WaitGroup
	results := make([]bool, len(raw.ImgURLs)+1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = p.images.Download(ctx, raw.Shop, "title", raw.ThumbURL, fmt.Sprintf("%d.jpg", seq))
	}()

	for i, imgURL := range raw.ImgURLs {
		wg.Add(1)
		go func(i int, imgURL string) {
			defer wg.Done()
			results[i+1] = p.images.Download(ctx, raw.Shop, "desc", imgURL, fmt.Sprintf("%d_%d.jpg", seq, i))
		}(i, imgURL)
	}

	wg.Wait()

	downloaded := 0
	for _, ok := range results {
		if ok {
			downloaded++
		}
	}
	return downloaded
}
