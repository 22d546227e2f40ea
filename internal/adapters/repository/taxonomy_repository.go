package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fatihhtaskesenn/arora-backend/internal/models"
	"github.com/fatihhtaskesenn/arora-backend/internal/services/classification"
)

var (
	// ErrDepthViolation rejects a subcategory whose parent already has a
	// parent of its own: the hierarchy is capped at three levels.
	ErrDepthViolation = errors.New("parent subcategory is already nested; the hierarchy allows no grandparent chains")
	// ErrParentCategoryMismatch rejects a parent belonging to another category.
	ErrParentCategoryMismatch = errors.New("parent subcategory belongs to a different category")
	// ErrParentNotFound rejects a dangling parent reference.
	ErrParentNotFound = errors.New("parent subcategory not found")
	// ErrHasChildren rejects nesting a subcategory that has children itself.
	ErrHasChildren = errors.New("subcategory with children cannot be given a parent")
)

// TaxonomyRepository owns the category hierarchy. Reads are read-mostly and
// safe for unlimited concurrent readers; writes are rare, operator-triggered
// seeding. Upserts are idempotent keyed by slug (categories) or
// (category, slug) (subcategories): re-running a seed creates no duplicates
// and returns no error.
type TaxonomyRepository interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetSubcategories(ctx context.Context, categoryID primitive.ObjectID) ([]models.Subcategory, error)
	UpsertCategory(ctx context.Context, category models.Category) (models.Category, error)
	UpsertSubcategory(ctx context.Context, sub models.Subcategory) (models.Subcategory, error)
	SubcategoryBelongsTo(ctx context.Context, subID, categoryID primitive.ObjectID) (bool, error)
	ResolveIndex(ctx context.Context) (classification.TaxonomyIndex, error)
}

type MongoTaxonomyRepository struct {
	DB *mongo.Database
}

func NewTaxonomyRepository(db *mongo.Database) TaxonomyRepository {
	return &MongoTaxonomyRepository{DB: db}
}

// GetCategories returns every category ordered by display order. No rows is
// an empty slice, never an error.
func (r *MongoTaxonomyRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	collection := r.DB.Collection("categories")
	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetSubcategories returns the subcategories owned by a category, ordered by
// display order, with nested subcategories attached inline under their
// parents. A nonexistent category yields an empty slice.
func (r *MongoTaxonomyRepository) GetSubcategories(ctx context.Context, categoryID primitive.ObjectID) ([]models.Subcategory, error) {
	collection := r.DB.Collection("subcategories")
	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{"categoryId": categoryID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	flat := []models.Subcategory{}
	if err := cursor.All(ctx, &flat); err != nil {
		return nil, err
	}
	return AttachChildren(flat), nil
}

// AttachChildren turns a flat, ordered subcategory list into the two-level
// tree shape: top-level subcategories in order, each carrying its children
// in order.
func AttachChildren(flat []models.Subcategory) []models.Subcategory {
	children := map[primitive.ObjectID][]models.Subcategory{}
	for _, s := range flat {
		if s.ParentID != nil {
			children[*s.ParentID] = append(children[*s.ParentID], s)
		}
	}

	roots := []models.Subcategory{}
	for _, s := range flat {
		if s.ParentID != nil {
			continue
		}
		s.Children = children[s.ID]
		roots = append(roots, s)
	}
	return roots
}

// UpsertCategory inserts or updates a category keyed by its slug.
func (r *MongoTaxonomyRepository) UpsertCategory(ctx context.Context, category models.Category) (models.Category, error) {
	collection := r.DB.Collection("categories")

	update := bson.M{
		"$set": bson.M{
			"name":      category.Name,
			"icon":      category.Icon,
			"sortOrder": category.SortOrder,
		},
		"$setOnInsert": bson.M{
			"slug":      category.Slug,
			"createdAt": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := collection.UpdateOne(ctx, bson.M{"slug": category.Slug}, update, opts); err != nil {
		return models.Category{}, fmt.Errorf("failed to upsert category %s: %w", category.Slug, err)
	}

	var saved models.Category
	if err := collection.FindOne(ctx, bson.M{"slug": category.Slug}).Decode(&saved); err != nil {
		return models.Category{}, err
	}
	return saved, nil
}

// UpsertSubcategory inserts or updates a subcategory keyed by
// (categoryId, slug), enforcing the depth invariant at write time.
func (r *MongoTaxonomyRepository) UpsertSubcategory(ctx context.Context, sub models.Subcategory) (models.Subcategory, error) {
	collection := r.DB.Collection("subcategories")
	key := bson.M{"categoryId": sub.CategoryID, "slug": sub.Slug}

	if sub.ParentID != nil {
		var parent models.Subcategory
		err := collection.FindOne(ctx, bson.M{"_id": *sub.ParentID}).Decode(&parent)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return models.Subcategory{}, ErrParentNotFound
			}
			return models.Subcategory{}, err
		}

		var existing models.Subcategory
		childCount := int64(0)
		if err := collection.FindOne(ctx, key).Decode(&existing); err == nil {
			childCount, err = collection.CountDocuments(ctx, bson.M{"parentId": existing.ID})
			if err != nil {
				return models.Subcategory{}, err
			}
		}

		if err := ValidateSubcategoryParent(sub, parent, childCount); err != nil {
			return models.Subcategory{}, err
		}
	}

	update := bson.M{
		"$set": bson.M{
			"name":      sub.Name,
			"parentId":  sub.ParentID,
			"sortOrder": sub.SortOrder,
		},
		"$setOnInsert": bson.M{
			"categoryId": sub.CategoryID,
			"slug":       sub.Slug,
			"createdAt":  time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := collection.UpdateOne(ctx, key, update, opts); err != nil {
		return models.Subcategory{}, fmt.Errorf("failed to upsert subcategory %s: %w", sub.Slug, err)
	}

	var saved models.Subcategory
	if err := collection.FindOne(ctx, key).Decode(&saved); err != nil {
		return models.Subcategory{}, err
	}
	return saved, nil
}

// ValidateSubcategoryParent enforces the nesting rules for a subcategory that
// declares a parent: the parent must live in the same category, must not be
// nested itself, and the subcategory being nested must not have children.
func ValidateSubcategoryParent(sub models.Subcategory, parent models.Subcategory, childCount int64) error {
	if parent.CategoryID != sub.CategoryID {
		return ErrParentCategoryMismatch
	}
	if parent.ParentID != nil {
		return ErrDepthViolation
	}
	if childCount > 0 {
		return ErrHasChildren
	}
	return nil
}

// SubcategoryBelongsTo reports whether a subcategory is owned by the given
// category. Used to keep product writes referentially consistent: a product's
// subcategory must belong to the product's own category.
func (r *MongoTaxonomyRepository) SubcategoryBelongsTo(ctx context.Context, subID, categoryID primitive.ObjectID) (bool, error) {
	count, err := r.DB.Collection("subcategories").CountDocuments(ctx, bson.M{
		"_id":        subID,
		"categoryId": categoryID,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ResolveIndex loads the full taxonomy into the slug-keyed shape the
// classification engine consumes.
func (r *MongoTaxonomyRepository) ResolveIndex(ctx context.Context) (classification.TaxonomyIndex, error) {
	idx := classification.TaxonomyIndex{
		Categories:    map[string]primitive.ObjectID{},
		Subcategories: map[string]map[string]primitive.ObjectID{},
	}

	categories, err := r.GetCategories(ctx)
	if err != nil {
		return idx, err
	}
	slugByID := map[primitive.ObjectID]string{}
	for _, c := range categories {
		idx.Categories[c.Slug] = c.ID
		idx.Subcategories[c.Slug] = map[string]primitive.ObjectID{}
		slugByID[c.ID] = c.Slug
	}

	cursor, err := r.DB.Collection("subcategories").Find(ctx, bson.M{})
	if err != nil {
		return idx, err
	}
	defer cursor.Close(ctx)

	subs := []models.Subcategory{}
	if err := cursor.All(ctx, &subs); err != nil {
		return idx, err
	}
	for _, s := range subs {
		categorySlug, ok := slugByID[s.CategoryID]
		if !ok {
			// Orphaned subcategory; skip rather than fail the whole index.
			continue
		}
		idx.Subcategories[categorySlug][s.Slug] = s.ID
	}

	return idx, nil
}
