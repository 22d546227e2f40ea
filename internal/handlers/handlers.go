package handlers

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fatihhtaskesenn/arora-backend/internal/models"
	"github.com/fatihhtaskesenn/arora-backend/internal/services/filternav"
	"github.com/fatihhtaskesenn/arora-backend/internal/services/normalizer"
)

var validate = validator.New()

// ProductView is the wire shape of a product: the stored record plus its
// canonical image list. Handlers never expose the raw image fields.
type ProductView struct {
	models.Product
	Images       []string `json:"images"`
	PrimaryImage string   `json:"primaryImage"`
}

func toProductView(p models.Product) ProductView {
	normalized := normalizer.NormalizeProduct(p)
	return ProductView{
		Product:      p,
		Images:       normalized.Images,
		PrimaryImage: normalized.PrimaryImage,
	}
}

func toProductViews(products []models.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	return views
}

// buildProductFilter turns the committed navigation filter plus an optional
// search term into a Mongo query. Unparseable references are skipped so a
// stale filter still renders a listing instead of erroring.
func buildProductFilter(f filternav.Filter, search string) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		if id, err := primitive.ObjectIDFromHex(f.Category); err == nil {
			filter["categoryId"] = id
		}
	}
	if f.Subcategory != "" {
		if id, err := primitive.ObjectIDFromHex(f.Subcategory); err == nil {
			filter["subcategoryId"] = id
		}
	}
	if search != "" {
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}
	return filter
}
