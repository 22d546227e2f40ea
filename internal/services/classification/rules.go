package classification

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fatihhtaskesenn/arora-backend/internal/models"
)

// Rule maps legacy free-text product categories onto the taxonomy. Rules are
// evaluated strictly in order and the first match wins; there is no scoring
// and no most-specific-wins behavior. A broad rule listed before a narrower
// one therefore shadows it permanently — that is intentional, inherited
// behavior and must not be reordered without operator sign-off.
type Rule struct {
	Name string `yaml:"name"`

	// Predicate groups. A rule matches when ANY declared group matches;
	// empty groups are skipped. All comparisons are against lowercased input.
	LegacyEquals   []string `yaml:"legacyEquals,omitempty"`
	LegacyContains []string `yaml:"legacyContains,omitempty"`
	NameContains   []string `yaml:"nameContains,omitempty"`

	// Target category slug, required.
	Category string `yaml:"category"`

	// Subcategory pins the target subcategory directly; when set, secondary
	// tests are not consulted.
	Subcategory string `yaml:"subcategory,omitempty"`

	// SecondaryTests choose among candidate subcategories by keywords in the
	// product name; DefaultSubcategory applies when none of them match.
	SecondaryTests     []SecondaryTest `yaml:"secondaryTests,omitempty"`
	DefaultSubcategory string          `yaml:"defaultSubcategory,omitempty"`
}

type SecondaryTest struct {
	Keywords    []string `yaml:"keywords"`
	Subcategory string   `yaml:"subcategory"`
}

// Match is the resolved outcome of classifying one product.
// SubcategorySlug may be empty when the rule assigns only a category.
type Match struct {
	Rule            string
	CategorySlug    string
	SubcategorySlug string
}

// Classify evaluates the rule list against a product in declaration order and
// returns the first match. It never fails; a product no rule claims simply
// reports ok=false.
func Classify(p models.Product, rules []Rule) (Match, bool) {
	legacy := strings.ToLower(strings.TrimSpace(p.LegacyCategory))
	name := strings.ToLower(strings.TrimSpace(p.Name))

	for _, rule := range rules {
		if !rule.matches(legacy, name) {
			continue
		}

		m := Match{Rule: rule.Name, CategorySlug: rule.Category}
		switch {
		case rule.Subcategory != "":
			m.SubcategorySlug = rule.Subcategory
		default:
			m.SubcategorySlug = rule.pickSubcategory(name)
		}
		return m, true
	}

	return Match{}, false
}

func (r Rule) matches(legacy, name string) bool {
	for _, exact := range r.LegacyEquals {
		if legacy == strings.ToLower(exact) {
			return true
		}
	}
	for _, kw := range r.LegacyContains {
		if kw != "" && strings.Contains(legacy, strings.ToLower(kw)) {
			return true
		}
	}
	for _, kw := range r.NameContains {
		if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func (r Rule) pickSubcategory(name string) string {
	for _, test := range r.SecondaryTests {
		for _, kw := range test.Keywords {
			if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
				return test.Subcategory
			}
		}
	}
	return r.DefaultSubcategory
}

// LoadRules reads a rule list from a YAML file, used by operators to override
// the built-in set without a redeploy.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	for i, rule := range rules {
		if rule.Category == "" {
			return nil, fmt.Errorf("rule %d (%q) has no target category", i, rule.Name)
		}
	}
	return rules, nil
}

// DefaultRules is the built-in rule set for the legacy catalog migration.
// Order matters: see the Rule doc comment.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:           "barbeku-setleri",
			LegacyEquals:   []string{"barbekü setleri"},
			LegacyContains: []string{"barbekü", "mangal"},
			Category:       "barbeku",
			SecondaryTests: []SecondaryTest{
				{Keywords: []string{"metal", "krom", "paslanmaz"}, Subcategory: "metal-barbekuler"},
				{Keywords: []string{"taş", "mermer"}, Subcategory: "tas-barbekuler"},
				{Keywords: []string{"ızgara", "tel", "maşa"}, Subcategory: "barbeku-aksesuarlari"},
			},
			DefaultSubcategory: "metal-barbekuler",
		},
		{
			Name:           "tastan-yapilma-urunler",
			LegacyEquals:   []string{"taştan yapılma ürünler"},
			LegacyContains: []string{"taştan", "taş ürün", "doğal taş"},
			Category:       "tas-aksesuarlar",
			SecondaryTests: []SecondaryTest{
				{Keywords: []string{"kurna"}, Subcategory: "mermer-kurna"},
				{Keywords: []string{"lavabo"}, Subcategory: "tas-lavabo"},
				{Keywords: []string{"şömine", "somine"}, Subcategory: "mermer-somine"},
			},
			DefaultSubcategory: "mermer-kurna",
		},
		{
			Name:           "mermer-urunler",
			LegacyContains: []string{"mermer"},
			Category:       "tas-aksesuarlar",
			SecondaryTests: []SecondaryTest{
				{Keywords: []string{"kurna"}, Subcategory: "mermer-kurna"},
				{Keywords: []string{"lavabo"}, Subcategory: "tas-lavabo"},
				{Keywords: []string{"şömine", "somine"}, Subcategory: "mermer-somine"},
			},
			DefaultSubcategory: "mermer-kurna",
		},
		{
			Name:           "cesmeler",
			LegacyContains: []string{"çeşme"},
			NameContains:   []string{"çeşme", "fıskiye"},
			Category:       "bahce",
			Subcategory:    "cesmeler",
		},
		{
			Name:           "bahce-urunleri",
			LegacyContains: []string{"bahçe", "bahce"},
			Category:       "bahce",
			SecondaryTests: []SecondaryTest{
				{Keywords: []string{"masa", "sandalye", "oturma"}, Subcategory: "bahce-mobilyalari"},
			},
			DefaultSubcategory: "bahce-mobilyalari",
		},
	}
}
