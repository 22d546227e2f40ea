package normalizer

import (
	"testing"

	"github.com/fatihhtaskesenn/arora-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCanonicalListUnchanged(t *testing.T) {
	got := Normalize([]string{"a.jpg", "b.jpg"}, "")
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.Images)
	assert.Equal(t, "a.jpg", got.PrimaryImage)

	// Feeding the canonical output back in is a no-op.
	again := Normalize(got.Images, "")
	assert.Equal(t, got, again)
}

func TestNormalizeJSONArrayString(t *testing.T) {
	got := Normalize(`["a","b"]`, "")
	assert.Equal(t, []string{"a", "b"}, got.Images)
	assert.Equal(t, "a", got.PrimaryImage)
}

func TestNormalizeCommaSeparatedString(t *testing.T) {
	got := Normalize("a, b", "")
	assert.Equal(t, []string{"a", "b"}, got.Images)
}

func TestNormalizeMalformedJSONFallsThroughToCommaSplit(t *testing.T) {
	got := Normalize(`["a.jpg", broken`, "")
	assert.Equal(t, []string{`["a.jpg"`, "broken"}, got.Images)
}

func TestNormalizeLegacyScalarFallback(t *testing.T) {
	got := Normalize(nil, "x")
	assert.Empty(t, got.Images)
	assert.Equal(t, "x", got.PrimaryImage)
}

func TestNormalizeNothingAtAll(t *testing.T) {
	got := Normalize(nil, "")
	assert.Empty(t, got.Images)
	assert.Equal(t, "", got.PrimaryImage)
}

func TestNormalizeDropsEmptiesAndDuplicates(t *testing.T) {
	got := Normalize([]string{" a.jpg ", "", "  ", "a.jpg", "b.jpg"}, "")
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.Images)
}

func TestNormalizeBsonInterfaceSlice(t *testing.T) {
	raw := []interface{}{"a.jpg", 42, "b.jpg", nil}
	got := Normalize(raw, "")
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.Images)
}

func TestNormalizeUnknownTypeFallsBackToLegacy(t *testing.T) {
	got := Normalize(12.5, "legacy.jpg")
	assert.Empty(t, got.Images)
	assert.Equal(t, "legacy.jpg", got.PrimaryImage)
}

func TestNormalizeProduct(t *testing.T) {
	p := models.Product{ImagesRaw: `one.jpg,two.jpg`, Image: "old.jpg"}
	got := NormalizeProduct(p)
	assert.Equal(t, []string{"one.jpg", "two.jpg"}, got.Images)
	assert.Equal(t, "one.jpg", got.PrimaryImage)
}
