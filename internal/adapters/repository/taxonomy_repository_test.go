package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fatihhtaskesenn/arora-backend/internal/models"
)

func TestValidateSubcategoryParentAllowsFlatParent(t *testing.T) {
	categoryID := primitive.NewObjectID()
	parent := models.Subcategory{ID: primitive.NewObjectID(), CategoryID: categoryID}
	sub := models.Subcategory{CategoryID: categoryID, ParentID: &parent.ID}

	assert.NoError(t, ValidateSubcategoryParent(sub, parent, 0))
}

func TestValidateSubcategoryParentRejectsGrandparentChains(t *testing.T) {
	categoryID := primitive.NewObjectID()
	grandparentID := primitive.NewObjectID()
	parent := models.Subcategory{ID: primitive.NewObjectID(), CategoryID: categoryID, ParentID: &grandparentID}
	sub := models.Subcategory{CategoryID: categoryID, ParentID: &parent.ID}

	assert.ErrorIs(t, ValidateSubcategoryParent(sub, parent, 0), ErrDepthViolation)
}

func TestValidateSubcategoryParentRejectsForeignCategory(t *testing.T) {
	parent := models.Subcategory{ID: primitive.NewObjectID(), CategoryID: primitive.NewObjectID()}
	sub := models.Subcategory{CategoryID: primitive.NewObjectID(), ParentID: &parent.ID}

	assert.ErrorIs(t, ValidateSubcategoryParent(sub, parent, 0), ErrParentCategoryMismatch)
}

func TestValidateSubcategoryParentRejectsNestingAParent(t *testing.T) {
	categoryID := primitive.NewObjectID()
	parent := models.Subcategory{ID: primitive.NewObjectID(), CategoryID: categoryID}
	sub := models.Subcategory{CategoryID: categoryID, ParentID: &parent.ID}

	assert.ErrorIs(t, ValidateSubcategoryParent(sub, parent, 2), ErrHasChildren)
}

func TestAttachChildrenBuildsOrderedTree(t *testing.T) {
	categoryID := primitive.NewObjectID()
	rootA := models.Subcategory{ID: primitive.NewObjectID(), CategoryID: categoryID, Slug: "a", SortOrder: 1}
	rootB := models.Subcategory{ID: primitive.NewObjectID(), CategoryID: categoryID, Slug: "b", SortOrder: 2}
	childA1 := models.Subcategory{ID: primitive.NewObjectID(), CategoryID: categoryID, Slug: "a1", ParentID: &rootA.ID, SortOrder: 1}
	childA2 := models.Subcategory{ID: primitive.NewObjectID(), CategoryID: categoryID, Slug: "a2", ParentID: &rootA.ID, SortOrder: 2}

	// Input arrives pre-sorted by sortOrder, the repository's query order.
	tree := AttachChildren([]models.Subcategory{rootA, childA1, childA2, rootB})

	require.Len(t, tree, 2)
	assert.Equal(t, "a", tree[0].Slug)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "a1", tree[0].Children[0].Slug)
	assert.Equal(t, "a2", tree[0].Children[1].Slug)
	assert.Equal(t, "b", tree[1].Slug)
	assert.Empty(t, tree[1].Children)
}

func TestAttachChildrenEmptyInput(t *testing.T) {
	assert.Empty(t, AttachChildren(nil))
}
