package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `json:"name" bson:"name" validate:"required"`

	Description string `json:"description" bson:"description"`

	// LegacyCategory is the free-text label products carried before the
	// taxonomy existed. It is retained for audit only; new reads should use
	// CategoryID/SubcategoryID.
	LegacyCategory string              `json:"category,omitempty" bson:"category,omitempty"`
	CategoryID     primitive.ObjectID  `json:"categoryId,omitempty" bson:"categoryId,omitempty"`
	SubcategoryID  *primitive.ObjectID `json:"subcategoryId,omitempty" bson:"subcategoryId,omitempty"`

	// ImagesRaw is deliberately untyped: historical records stored this field
	// as a string array, a JSON-encoded string, or a comma-separated string.
	// Read paths must go through the normalizer, never through this field.
	ImagesRaw interface{} `json:"-" bson:"images,omitempty"`

	// Image is the legacy single-image field, used only as a fallback when
	// ImagesRaw yields nothing.
	Image string `json:"image,omitempty" bson:"image,omitempty"`

	Stock    int      `json:"stock" bson:"stock" validate:"gte=0"`
	InStock  bool     `json:"inStock" bson:"inStock"`
	Badge    string   `json:"badge,omitempty" bson:"badge,omitempty"`
	Features []string `json:"features,omitempty" bson:"features,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type CreateProductInput struct {
	Name          string              `json:"name" validate:"required"`
	Description   string              `json:"description"`
	CategoryID    primitive.ObjectID  `json:"categoryId"`
	SubcategoryID *primitive.ObjectID `json:"subcategoryId"`
	Images        []string            `json:"images"`
	Stock         int                 `json:"stock" validate:"gte=0"`
	InStock       bool                `json:"inStock"`
	Badge         string              `json:"badge"`
	Features      []string            `json:"features"`
}

type UpdateProductInput struct {
	Name          string              `json:"name" bson:"name"`
	Description   string              `json:"description" bson:"description"`
	CategoryID    primitive.ObjectID  `json:"categoryId" bson:"categoryId"`
	SubcategoryID *primitive.ObjectID `json:"subcategoryId" bson:"subcategoryId"`
	Images        []string            `json:"images" bson:"images"`
	Stock         int                 `json:"stock" bson:"stock"`
	InStock       bool                `json:"inStock" bson:"inStock"`
	Badge         string              `json:"badge" bson:"badge"`
	Features      []string            `json:"features" bson:"features"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}
