package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Catalog holds the categorical encoding tables the model was trained
// against. Tables are keyed by normalized (lowercase, accent-stripped)
// values; a deployment can override them from a YAML file to match an
// artifact trained on a different table revision.
type Catalog struct {
	Genders           map[string]int `yaml:"genders" json:"genders"`
	ServiceCategories map[string]int `yaml:"service_categories" json:"service_categories"`
	GenderFallback    int            `yaml:"gender_fallback" json:"gender_fallback"`
	CategoryFallback  int            `yaml:"category_fallback" json:"category_fallback"`
}

func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Genders) == 0 || len(cat.ServiceCategories) == 0 {
		return Catalog{}, fmt.Errorf("encoding catalog incomplete")
	}
	normalized := Catalog{
		Genders:           make(map[string]int, len(cat.Genders)),
		ServiceCategories: make(map[string]int, len(cat.ServiceCategories)),
		GenderFallback:    cat.GenderFallback,
		CategoryFallback:  cat.CategoryFallback,
	}
	for k, v := range cat.Genders {
		normalized.Genders[Normalize(k)] = v
	}
	for k, v := range cat.ServiceCategories {
		normalized.ServiceCategories[Normalize(k)] = v
	}
	return normalized, nil
}

// EncodeGender maps a raw gender value to its trained code. Unknown and
// absent values take the female code: the training population skews
// female, so that is the documented bias of the table.
func (c Catalog) EncodeGender(raw string) int {
	if code, ok := c.Genders[Normalize(raw)]; ok {
		return code
	}
	return c.GenderFallback
}

// EncodeServiceCategory maps a clinical service category to its trained
// code, falling back to the general-consultation code.
func (c Catalog) EncodeServiceCategory(raw string) int {
	if code, ok := c.ServiceCategories[Normalize(raw)]; ok {
		return code
	}
	return c.CategoryFallback
}

// Normalize lowercases, trims and strips diacritics so "Cirugía" and
// "cirugia" hit the same table entry.
func Normalize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return stripped
}

func DefaultCatalog() Catalog {
	return Catalog{
		Genders: map[string]int{
			"femenino":  0,
			"masculino": 1,
		},
		GenderFallback: 0,
		ServiceCategories: map[string]int{
			"cirugia":       0,
			"endodoncia":    1,
			"especialidad":  2,
			"general":       3,
			"higiene":       4,
			"implantologia": 5,
			"ortodoncia":    6,
			"periodoncia":   7,
			"preventiva":    8,
			"protesis":      9,
			"restauracion":  10,
		},
		CategoryFallback: 3,
	}
}
