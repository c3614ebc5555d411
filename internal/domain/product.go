package domain

import "time"

// ImageTransform positions an image inside its frame (zoom + focal point
// percentages). Defaults mirror what the storefront renders when absent.
type ImageTransform struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

func DefaultTransform() ImageTransform {
	return ImageTransform{Scale: 1, X: 50, Y: 50}
}

// ProductImage is one entry of a product's media gallery.
type ProductImage struct {
	Url         string          `json:"url"`
	Description string          `json:"description,omitempty"`
	Type        string          `json:"type"` // "image" or "video"
	Transform   *ImageTransform `json:"transform,omitempty"`
}

type Product struct {
	ID             string          `gorm:"primaryKey;size:64" json:"id"`
	Name           string          `gorm:"index" json:"name"`
	Description    string          `json:"description"` // markdown text
	Price          float64         `json:"price"`
	Stock          int             `json:"stock"`
	Category       string          `gorm:"size:128" json:"category,omitempty"`
	ImageUrl       string          `json:"image_url,omitempty"` // remote URL or base64 data URI
	ImageTransform *ImageTransform `gorm:"serializer:json" json:"image_transform,omitempty"`
	Images         []ProductImage  `gorm:"serializer:json" json:"images"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// Gallery combines the primary image and the secondary media list in the
// order the detail page presents them.
func (p *Product) Gallery() []ProductImage {
	var gallery []ProductImage
	if p.ImageUrl != "" {
		tr := p.ImageTransform
		if tr == nil {
			def := DefaultTransform()
			tr = &def
		}
		gallery = append(gallery, ProductImage{Url: p.ImageUrl, Type: "image", Transform: tr})
	}
	gallery = append(gallery, p.Images...)
	return gallery
}
