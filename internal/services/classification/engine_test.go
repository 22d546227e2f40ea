package classification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fatihhtaskesenn/arora-backend/internal/models"
)

type memWriter struct {
	assignments map[primitive.ObjectID]Assignment
	failFor     map[primitive.ObjectID]error
}

func newMemWriter() *memWriter {
	return &memWriter{assignments: map[primitive.ObjectID]Assignment{}}
}

func (w *memWriter) WriteAssignment(_ context.Context, a Assignment) error {
	if err := w.failFor[a.ProductID]; err != nil {
		return err
	}
	w.assignments[a.ProductID] = a
	return nil
}

func testIndex() TaxonomyIndex {
	catBarbeku := primitive.NewObjectID()
	catTas := primitive.NewObjectID()
	catBahce := primitive.NewObjectID()
	return TaxonomyIndex{
		Categories: map[string]primitive.ObjectID{
			"barbeku":         catBarbeku,
			"tas-aksesuarlar": catTas,
			"bahce":           catBahce,
		},
		Subcategories: map[string]map[string]primitive.ObjectID{
			"barbeku": {
				"metal-barbekuler":     primitive.NewObjectID(),
				"tas-barbekuler":       primitive.NewObjectID(),
				"barbeku-aksesuarlari": primitive.NewObjectID(),
			},
			"tas-aksesuarlar": {
				"mermer-kurna":  primitive.NewObjectID(),
				"tas-lavabo":    primitive.NewObjectID(),
				"mermer-somine": primitive.NewObjectID(),
			},
			"bahce": {
				"cesmeler":          primitive.NewObjectID(),
				"bahce-mobilyalari": primitive.NewObjectID(),
			},
		},
	}
}

func TestClassifyMetalBarbecueSet(t *testing.T) {
	p := models.Product{Name: "Metal Barbekü Seti", LegacyCategory: "Barbekü Setleri"}

	match, ok := Classify(p, DefaultRules())
	require.True(t, ok)
	assert.Equal(t, "barbeku", match.CategorySlug)
	assert.Equal(t, "metal-barbekuler", match.SubcategorySlug)
}

func TestClassifyStoneProductsSecondaryKeyword(t *testing.T) {
	p := models.Product{Name: "El Yapımı Mermer Kurna", LegacyCategory: "Taştan Yapılma Ürünler"}

	match, ok := Classify(p, DefaultRules())
	require.True(t, ok)
	assert.Equal(t, "tas-aksesuarlar", match.CategorySlug)
	assert.Equal(t, "mermer-kurna", match.SubcategorySlug)
}

func TestClassifyStoneProductsDeclaredDefault(t *testing.T) {
	// No secondary keyword in the name: the rule-declared default applies.
	p := models.Product{Name: "Dekoratif Obje", LegacyCategory: "Taştan Yapılma Ürünler"}

	match, ok := Classify(p, DefaultRules())
	require.True(t, ok)
	assert.Equal(t, "tas-aksesuarlar", match.CategorySlug)
	assert.Equal(t, "mermer-kurna", match.SubcategorySlug)
}

func TestClassifyNoRuleMatches(t *testing.T) {
	p := models.Product{Name: "Ahşap Raf", LegacyCategory: "Bilinmeyen Kategori"}

	_, ok := Classify(p, DefaultRules())
	assert.False(t, ok)
}

func TestClassifyOrdinalPrecedence(t *testing.T) {
	// A broad rule declared first shadows a narrower one forever. This is the
	// contract, not a bug: reordering changes observable behavior.
	rules := []Rule{
		{Name: "broad", LegacyContains: []string{"mermer"}, Category: "tas-aksesuarlar"},
		{Name: "narrow", LegacyEquals: []string{"mermer kurna"}, Category: "bahce"},
	}
	p := models.Product{Name: "Kurna", LegacyCategory: "Mermer Kurna"}

	match, ok := Classify(p, rules)
	require.True(t, ok)
	assert.Equal(t, "broad", match.Rule)
	assert.Equal(t, "tas-aksesuarlar", match.CategorySlug)
}

func TestRunAssignsAndReports(t *testing.T) {
	idx := testIndex()
	writer := newMemWriter()
	engine := NewEngine(idx, writer)

	mapped := models.Product{ID: primitive.NewObjectID(), Name: "Metal Barbekü Seti", LegacyCategory: "Barbekü Setleri"}
	unmapped := models.Product{ID: primitive.NewObjectID(), Name: "Gizemli Ürün", LegacyCategory: "Hiçbir Şey"}

	report := engine.Run(context.Background(), []models.Product{mapped, unmapped}, DefaultRules(), RunOptions{Force: true})

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Updated)
	require.Len(t, report.Unmapped, 1)
	assert.Equal(t, unmapped.ID, report.Unmapped[0].ID)
	assert.Equal(t, unmapped.Name, report.Unmapped[0].Name)

	a, ok := writer.assignments[mapped.ID]
	require.True(t, ok)
	assert.Equal(t, idx.Categories["barbeku"], a.CategoryID)
	require.NotNil(t, a.SubcategoryID)
	assert.Equal(t, idx.Subcategories["barbeku"]["metal-barbekuler"], *a.SubcategoryID)

	// The unmapped product must not receive any write at all.
	_, wrote := writer.assignments[unmapped.ID]
	assert.False(t, wrote)
}

func TestRunIsIdempotent(t *testing.T) {
	idx := testIndex()
	products := []models.Product{
		{ID: primitive.NewObjectID(), Name: "Metal Barbekü Seti", LegacyCategory: "Barbekü Setleri"},
		{ID: primitive.NewObjectID(), Name: "Mermer Kurna Büyük", LegacyCategory: "Taştan Yapılma Ürünler"},
		{ID: primitive.NewObjectID(), Name: "Bahçe Masa Takımı", LegacyCategory: "Bahçe Ürünleri"},
	}

	first := newMemWriter()
	NewEngine(idx, first).Run(context.Background(), products, DefaultRules(), RunOptions{Force: true})

	second := newMemWriter()
	NewEngine(idx, second).Run(context.Background(), products, DefaultRules(), RunOptions{Force: true})

	assert.Equal(t, first.assignments, second.assignments)
}

func TestRunAssignmentsKeepReferentialIntegrity(t *testing.T) {
	idx := testIndex()
	writer := newMemWriter()
	engine := NewEngine(idx, writer)

	products := []models.Product{
		{ID: primitive.NewObjectID(), Name: "Metal Barbekü Seti", LegacyCategory: "Barbekü Setleri"},
		{ID: primitive.NewObjectID(), Name: "Taş Lavabo Küçük", LegacyCategory: "Taştan Yapılma Ürünler"},
		{ID: primitive.NewObjectID(), Name: "Bahçe Çeşmesi", LegacyCategory: "Bahçe Ürünleri"},
	}
	engine.Run(context.Background(), products, DefaultRules(), RunOptions{Force: true})

	// Every assigned subcategory must belong to the assigned category.
	owners := map[primitive.ObjectID]primitive.ObjectID{}
	for categorySlug, subs := range idx.Subcategories {
		for _, subID := range subs {
			owners[subID] = idx.Categories[categorySlug]
		}
	}
	for _, a := range writer.assignments {
		if a.SubcategoryID == nil {
			continue
		}
		assert.Equal(t, a.CategoryID, owners[*a.SubcategoryID])
	}
}

func TestRunNoForceSkipsClassifiedProducts(t *testing.T) {
	idx := testIndex()
	writer := newMemWriter()
	engine := NewEngine(idx, writer)

	manual := models.Product{
		ID:             primitive.NewObjectID(),
		Name:           "Metal Barbekü Seti",
		LegacyCategory: "Barbekü Setleri",
		CategoryID:     idx.Categories["bahce"], // operator override
	}

	report := engine.Run(context.Background(), []models.Product{manual}, DefaultRules(), RunOptions{Force: false})

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Updated)
	assert.Empty(t, writer.assignments)
}

func TestRunCapturesWriteFailuresAndContinues(t *testing.T) {
	idx := testIndex()
	writer := newMemWriter()
	engine := NewEngine(idx, writer)

	bad := models.Product{ID: primitive.NewObjectID(), Name: "Taş Barbekü", LegacyCategory: "Barbekü Setleri"}
	good := models.Product{ID: primitive.NewObjectID(), Name: "Mermer Kurna", LegacyCategory: "Taştan Yapılma Ürünler"}
	writer.failFor = map[primitive.ObjectID]error{bad.ID: errors.New("connection reset")}

	report := engine.Run(context.Background(), []models.Product{bad, good}, DefaultRules(), RunOptions{Force: true})

	assert.Equal(t, 1, report.Updated)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, bad.ID, report.Failed[0].ID)
	assert.Contains(t, report.Failed[0].Err, "connection reset")
}

func TestRunReportsUnknownSlugAsFailure(t *testing.T) {
	idx := testIndex()
	writer := newMemWriter()
	engine := NewEngine(idx, writer)

	rules := []Rule{{Name: "dangling", LegacyContains: []string{"barbekü"}, Category: "yok-boyle-kategori"}}
	p := models.Product{ID: primitive.NewObjectID(), Name: "Barbekü", LegacyCategory: "Barbekü Setleri"}

	report := engine.Run(context.Background(), []models.Product{p}, rules, RunOptions{Force: true})

	assert.Equal(t, 0, report.Updated)
	require.Len(t, report.Failed, 1)
	assert.Contains(t, report.Failed[0].Err, "yok-boyle-kategori")
	assert.Empty(t, writer.assignments)
}
