package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a top-level node of the product taxonomy.
// The hierarchy has exactly three addressable levels:
// Category -> Subcategory -> nested Subcategory.
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `json:"name" bson:"name" validate:"required"`
	Slug      string             `json:"slug" bson:"slug" validate:"required"`
	Icon      string             `json:"icon,omitempty" bson:"icon"`
	SortOrder int                `json:"sortOrder" bson:"sortOrder"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Subcategory belongs to exactly one Category. A subcategory may reference a
// parent subcategory within the same category; a subcategory that has a parent
// must not have children of its own. Slug is unique within the owning category.
type Subcategory struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CategoryID primitive.ObjectID  `json:"categoryId" bson:"categoryId" validate:"required"`
	ParentID   *primitive.ObjectID `json:"parentId,omitempty" bson:"parentId,omitempty"`
	Name       string              `json:"name" bson:"name" validate:"required"`
	Slug       string              `json:"slug" bson:"slug" validate:"required"`
	SortOrder  int                 `json:"sortOrder" bson:"sortOrder"`
	CreatedAt  time.Time           `json:"createdAt" bson:"createdAt"`

	// Children holds nested subcategories, attached at read time only.
	Children []Subcategory `json:"children,omitempty" bson:"-"`
}

// IsNested reports whether the subcategory sits at the third taxonomy level.
func (s Subcategory) IsNested() bool {
	return s.ParentID != nil
}
