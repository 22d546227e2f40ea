// Package classification maps legacy free-text product categories onto the
// taxonomy. The engine runs as a repeatable bulk migration: each product is
// classified by an ordered rule list and written back independently, so a
// partial failure leaves prior writes intact and a rerun only needs to cover
// the remainder. The engine takes no lock against a concurrent second run;
// operators are responsible for serializing invocations.
package classification

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fatihhtaskesenn/arora-backend/internal/models"
)

// TaxonomyIndex is the resolved taxonomy the engine classifies against:
// category IDs keyed by slug, subcategory IDs keyed by category slug then
// subcategory slug. Nested subcategories appear under their owning category
// slug like any other.
type TaxonomyIndex struct {
	Categories    map[string]primitive.ObjectID
	Subcategories map[string]map[string]primitive.ObjectID
}

// CategoryID resolves a category slug.
func (idx TaxonomyIndex) CategoryID(slug string) (primitive.ObjectID, bool) {
	id, ok := idx.Categories[slug]
	return id, ok
}

// SubcategoryID resolves a subcategory slug within a category.
func (idx TaxonomyIndex) SubcategoryID(categorySlug, slug string) (primitive.ObjectID, bool) {
	subs, ok := idx.Subcategories[categorySlug]
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := subs[slug]
	return id, ok
}

// Assignment is one product's resolved classification, written back as a
// self-contained update keyed by product ID.
type Assignment struct {
	ProductID     primitive.ObjectID
	CategoryID    primitive.ObjectID
	SubcategoryID *primitive.ObjectID
}

// AssignmentWriter persists one assignment. Implementations must be
// idempotent: writing the same assignment twice is a no-op.
type AssignmentWriter interface {
	WriteAssignment(ctx context.Context, a Assignment) error
}

// ProductRef identifies a product in the run report.
type ProductRef struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
	Err  string             `json:"error,omitempty"`
}

// Report summarizes one engine run for operator review. Unmapped and failed
// products are enumerated individually, not just counted.
type Report struct {
	Total    int          `json:"total"`
	Updated  int          `json:"updated"`
	Skipped  int          `json:"skipped"`
	Failed   []ProductRef `json:"failed"`
	Unmapped []ProductRef `json:"unmapped"`
}

// Log writes the operator-visible summary. There is deliberately no
// machine-readable outcome beyond the Report struct itself.
func (r Report) Log() {
	log.WithFields(log.Fields{
		"total":    r.Total,
		"updated":  r.Updated,
		"skipped":  r.Skipped,
		"failed":   len(r.Failed),
		"unmapped": len(r.Unmapped),
	}).Info("classification run finished")

	for _, ref := range r.Failed {
		log.WithFields(log.Fields{
			"productId": ref.ID.Hex(),
			"name":      ref.Name,
			"error":     ref.Err,
		}).Warn("classification write failed")
	}
	for _, ref := range r.Unmapped {
		log.WithFields(log.Fields{
			"productId": ref.ID.Hex(),
			"name":      ref.Name,
		}).Warn("no classification rule matched")
	}
}

// RunOptions controls a single engine run.
type RunOptions struct {
	// Force recomputes every product from the rule list alone. Without it,
	// products that already carry a category (manual assignment or a prior
	// run) are skipped.
	Force bool
}

type Engine struct {
	index  TaxonomyIndex
	writer AssignmentWriter
}

func NewEngine(index TaxonomyIndex, writer AssignmentWriter) *Engine {
	return &Engine{index: index, writer: writer}
}

// Run classifies every product and writes resolved assignments back. Products
// no rule matches are reported as unmapped and left untouched — never
// defaulted. Write failures are captured per product and the batch continues.
// Given the same products and rules, two force runs produce identical
// assignments.
func (e *Engine) Run(ctx context.Context, products []models.Product, rules []Rule, opts RunOptions) Report {
	report := Report{Total: len(products)}

	for _, p := range products {
		if !opts.Force && !p.CategoryID.IsZero() {
			report.Skipped++
			continue
		}

		match, ok := Classify(p, rules)
		if !ok {
			report.Unmapped = append(report.Unmapped, ProductRef{ID: p.ID, Name: p.Name})
			continue
		}

		assignment, err := e.resolve(p, match)
		if err != nil {
			report.Failed = append(report.Failed, ProductRef{ID: p.ID, Name: p.Name, Err: err.Error()})
			continue
		}

		if err := e.writer.WriteAssignment(ctx, assignment); err != nil {
			report.Failed = append(report.Failed, ProductRef{ID: p.ID, Name: p.Name, Err: err.Error()})
			continue
		}
		report.Updated++
	}

	return report
}

func (e *Engine) resolve(p models.Product, match Match) (Assignment, error) {
	categoryID, ok := e.index.CategoryID(match.CategorySlug)
	if !ok {
		return Assignment{}, &UnknownSlugError{Kind: "category", Slug: match.CategorySlug, Rule: match.Rule}
	}

	assignment := Assignment{ProductID: p.ID, CategoryID: categoryID}
	if match.SubcategorySlug != "" {
		subID, ok := e.index.SubcategoryID(match.CategorySlug, match.SubcategorySlug)
		if !ok {
			return Assignment{}, &UnknownSlugError{Kind: "subcategory", Slug: match.SubcategorySlug, Rule: match.Rule}
		}
		assignment.SubcategoryID = &subID
	}
	return assignment, nil
}

// UnknownSlugError reports a rule targeting a slug the taxonomy does not
// contain — a rules/seed mismatch the operator has to fix.
type UnknownSlugError struct {
	Kind string
	Slug string
	Rule string
}

func (e *UnknownSlugError) Error() string {
	return "rule " + e.Rule + " targets unknown " + e.Kind + " slug " + e.Slug
}
