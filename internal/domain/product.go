package domain

import (
	"time"
)

type ProductImage struct {
	URL     string `json:"url" bson:"url" dynamodbav:"url"`
	AltText string `json:"altText,omitempty" bson:"alt_text,omitempty" dynamodbav:"alt_text,omitempty"`
}

type Dimensions struct {
	Length float64 `json:"length" bson:"length" dynamodbav:"length"`
	Width  float64 `json:"width" bson:"width" dynamodbav:"width"`
	Height float64 `json:"height" bson:"height" dynamodbav:"height"`
}

type Product struct {
	ID            string         `json:"_id" bson:"_id" dynamodbav:"id"`
	Name          string         `json:"name" bson:"name" dynamodbav:"name"`
	Description   string         `json:"description" bson:"description" dynamodbav:"description"`
	Price         float64        `json:"price" bson:"price" dynamodbav:"price"`
	DiscountPrice float64        `json:"discountPrice" bson:"discount_price" dynamodbav:"discount_price"`
	CountInStock  int            `json:"countInStock" bson:"count_in_stock" dynamodbav:"count_in_stock"`
	SKU           string         `json:"sku" bson:"sku" dynamodbav:"sku"`
	Category      string         `json:"category" bson:"category" dynamodbav:"category"`
	Brand         string         `json:"brand" bson:"brand" dynamodbav:"brand"`
	Sizes         []string       `json:"sizes" bson:"sizes" dynamodbav:"sizes"`
	Colors        []string       `json:"colors" bson:"colors" dynamodbav:"colors"`
	Collections   string         `json:"collections" bson:"collections" dynamodbav:"collections"`
	Material      string         `json:"material" bson:"material" dynamodbav:"material"`
	Gender        string         `json:"gender" bson:"gender" dynamodbav:"gender"`
	Images        []ProductImage `json:"images" bson:"images" dynamodbav:"images"`
	IsFeatured    bool           `json:"isFeatured" bson:"is_featured" dynamodbav:"is_featured"`
	IsPublished   bool           `json:"isPublished" bson:"is_published" dynamodbav:"is_published"`
	Rating        float64        `json:"rating" bson:"rating" dynamodbav:"rating"`
	NumReviews    int            `json:"numReviews" bson:"num_reviews" dynamodbav:"num_reviews"`
	Tags          []string       `json:"tags" bson:"tags" dynamodbav:"tags"`
	Dimensions    *Dimensions    `json:"dimensions,omitempty" bson:"dimensions,omitempty" dynamodbav:"dimensions,omitempty"`
	Weight        float64        `json:"weight" bson:"weight" dynamodbav:"weight"`
	User          string         `json:"user" bson:"user" dynamodbav:"user"`
	CreatedAt     time.Time      `json:"createdAt" bson:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" bson:"updated_at" dynamodbav:"updated_at"`
}

// PrimaryImage returns the first image URL, or "" when the product has none.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

type CreateProductRequest struct {
	Name          string         `json:"name" binding:"required"`
	Description   string         `json:"description" binding:"required"`
	Price         float64        `json:"price" binding:"gte=0"`
	DiscountPrice float64        `json:"discountPrice" binding:"gte=0"`
	CountInStock  int            `json:"countInStock" binding:"gte=0"`
	SKU           string         `json:"sku" binding:"required"`
	Category      string         `json:"category" binding:"required"`
	Brand         string         `json:"brand"`
	Sizes         []string       `json:"sizes"`
	Colors        []string       `json:"colors"`
	Collections   string         `json:"collections"`
	Material      string         `json:"material"`
	Gender        string         `json:"gender"`
	Images        []ProductImage `json:"images"`
	IsFeatured    bool           `json:"isFeatured"`
	IsPublished   bool           `json:"isPublished"`
	Rating        float64        `json:"rating" binding:"gte=0"`
	NumReviews    int            `json:"numReviews" binding:"gte=0"`
	Tags          []string       `json:"tags"`
	Dimensions    *Dimensions    `json:"dimensions"`
	Weight        float64        `json:"weight" binding:"gte=0"`
}

// ProductPatch carries a partial update. A nil field was absent from the request
// and leaves the stored value untouched; a non-nil field replaces it, zero values included.
type ProductPatch struct {
	Name          *string         `json:"name"`
	Description   *string         `json:"description"`
	Price         *float64        `json:"price" binding:"omitempty,gte=0"`
	DiscountPrice *float64        `json:"discountPrice" binding:"omitempty,gte=0"`
	CountInStock  *int            `json:"countInStock" binding:"omitempty,gte=0"`
	SKU           *string         `json:"sku"`
	Category      *string         `json:"category"`
	Brand         *string         `json:"brand"`
	Sizes         *[]string       `json:"sizes"`
	Colors        *[]string       `json:"colors"`
	Collections   *string         `json:"collections"`
	Material      *string         `json:"material"`
	Gender        *string         `json:"gender"`
	Images        *[]ProductImage `json:"images"`
	IsFeatured    *bool           `json:"isFeatured"`
	IsPublished   *bool           `json:"isPublished"`
	Tags          *[]string       `json:"tags"`
	Dimensions    *Dimensions     `json:"dimensions"`
	Weight        *float64        `json:"weight" binding:"omitempty,gte=0"`
}

func (r CreateProductRequest) NewProduct(id, adminID string, now time.Time) *Product {
	return &Product{
		ID:            id,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		DiscountPrice: r.DiscountPrice,
		CountInStock:  r.CountInStock,
		SKU:           r.SKU,
		Category:      r.Category,
		Brand:         r.Brand,
		Sizes:         r.Sizes,
		Colors:        r.Colors,
		Collections:   r.Collections,
		Material:      r.Material,
		Gender:        r.Gender,
		Images:        r.Images,
		IsFeatured:    r.IsFeatured,
		IsPublished:   r.IsPublished,
		Rating:        r.Rating,
		NumReviews:    r.NumReviews,
		Tags:          r.Tags,
		Dimensions:    r.Dimensions,
		Weight:        r.Weight,
		User:          adminID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Apply writes every present field of the patch onto p and reports whether anything changed.
func (pp ProductPatch) Apply(p *Product) bool {
	changed := false
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	setStrings := func(dst *[]string, src *[]string) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}

	setString(&p.Name, pp.Name)
	setString(&p.Description, pp.Description)
	setFloat(&p.Price, pp.Price)
	setFloat(&p.DiscountPrice, pp.DiscountPrice)
	if pp.CountInStock != nil {
		p.CountInStock = *pp.CountInStock
		changed = true
	}
	setString(&p.SKU, pp.SKU)
	setString(&p.Category, pp.Category)
	setString(&p.Brand, pp.Brand)
	setStrings(&p.Sizes, pp.Sizes)
	setStrings(&p.Colors, pp.Colors)
	setString(&p.Collections, pp.Collections)
	setString(&p.Material, pp.Material)
	setString(&p.Gender, pp.Gender)
	if pp.Images != nil {
		p.Images = *pp.Images
		changed = true
	}
	setBool(&p.IsFeatured, pp.IsFeatured)
	setBool(&p.IsPublished, pp.IsPublished)
	setStrings(&p.Tags, pp.Tags)
	if pp.Dimensions != nil {
		d := *pp.Dimensions
		p.Dimensions = &d
		changed = true
	}
	setFloat(&p.Weight, pp.Weight)
	return changed
}
