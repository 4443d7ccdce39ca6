package models

import (
	"context"
	"time"
)

// Shop is the reference record for one storefront. Rows are maintained by an
// external admin surface; the registrar only reads them.
type Shop struct {
	Seq      int    `gorm:"primaryKey;autoIncrement;column:seq"`
	ShopName string `gorm:"size:64;uniqueIndex;column:shop_name"`
	ShopURL  string `gorm:"size:256;column:shop_url"`
	ShopID   string `gorm:"size:64;column:shop_id"`
	ShopPW   string `gorm:"size:64;column:shop_pw"`
	ShopOpen string `gorm:"size:1;column:shop_open"` // "Y" or "N"
}

func (Shop) TableName() string { return "combine_shops" }

// Product is one registered product. (shop, product_code) is inserted at most
// once in practice; the guard is a read-then-write check, not a constraint.
type Product struct {
	Seq             int       `gorm:"primaryKey;autoIncrement;column:seq"`
	ProductTitle    string    `gorm:"size:256;column:product_title"`
	ProductNewTitle string    `gorm:"size:256;column:product_new_title"`
	ProductCode     string    `gorm:"size:128;index;column:product_code"`
	ProductSize     string    `gorm:"size:512;column:product_size"`
	ProductColor    string    `gorm:"size:512;column:product_color"`
	ProductPrice    string    `gorm:"size:32;column:product_price"`
	ProductThumbImg string    `gorm:"size:1024;column:product_thumb_img"`
	ProductShop     string    `gorm:"size:64;column:product_shop"`
	ProductURL      string    `gorm:"size:1024;column:product_url"`
	ProductRegdate  time.Time `gorm:"column:product_regdate"`
}

func (Product) TableName() string { return "combine_products" }

// ProductImage is one gallery image of a registered product. ProductImgSort
// preserves the order images were discovered on the page.
type ProductImage struct {
	Seq            int       `gorm:"primaryKey;autoIncrement;column:seq"`
	ProductSeq     int       `gorm:"index;column:product_seq"`
	ProductShop    string    `gorm:"size:64;column:product_shop"`
	ProductImgSort int       `gorm:"column:product_img_sort"`
	ProductImgURL  string    `gorm:"size:1024;column:product_img_url"`
	ProductRegdate time.Time `gorm:"column:product_regdate"`
}

func (ProductImage) TableName() string { return "combine_product_imgs" }

// ErrorLog records a failed shop run for later inspection.
type ErrorLog struct {
	ID         int       `gorm:"primaryKey;autoIncrement;column:id"`
	ErrorDate  time.Time `gorm:"column:error_date"`
	URL        string    `gorm:"size:1000;column:url"`
	Message    string    `gorm:"column:message"`
	StackTrace string    `gorm:"column:stack_trace"`
}

func (ErrorLog) TableName() string { return "error_logs" }

// ShopRepository reads shop reference data.
type ShopRepository interface {
	ListOpen(ctx context.Context) ([]*Shop, error)
	GetByName(ctx context.Context, name string) (*Shop, error)
}

// ProductRepository persists products and their gallery images.
type ProductRepository interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, p *Product) error
	CreateImages(ctx context.Context, imgs []*ProductImage) error
}

// ErrorLogRepository persists shop-run failures.
type ErrorLogRepository interface {
	Create(ctx context.Context, e *ErrorLog) error
}
