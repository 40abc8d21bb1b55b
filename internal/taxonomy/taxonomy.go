// Package taxonomy holds the category label set the normalizer resolves
// against. A Taxonomy is an immutable snapshot: normalization given a fixed
// snapshot is deterministic, and growing the set produces a new snapshot
// with a higher version rather than mutating shared state.
package taxonomy

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var log = logrus.New()

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Uncategorized is the reserved label for entries whose category could not
// be resolved. It is always a member of the canonical set and is never
// removed.
const Uncategorized = "Uncategorized"

// CategoryConfig is one category in the YAML taxonomy file.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Synonyms []string `yaml:"synonyms,omitempty"`
}

// TaxonomyConfig is the structure of the taxonomy YAML file.
type TaxonomyConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// Taxonomy is an immutable snapshot of the canonical category set and its
// synonym table. Lookup keys are lowercased and trimmed once at build time.
type Taxonomy struct {
	version   int
	canonical []string
	lookup    map[string]string
}

// New builds a snapshot from category configs. The Uncategorized label is
// always included. Duplicate names and synonyms keep the first mapping.
func New(version int, categories []CategoryConfig) Taxonomy {
	t := Taxonomy{
		version: version,
		lookup:  make(map[string]string),
	}

	add := func(c CategoryConfig) {
		key := normalizeKey(c.Name)
		if key == "" {
			return
		}
		if _, exists := t.lookup[key]; exists {
			return
		}
		t.canonical = append(t.canonical, c.Name)
		t.lookup[key] = c.Name
		for _, syn := range c.Synonyms {
			synKey := normalizeKey(syn)
			if synKey == "" {
				continue
			}
			if _, exists := t.lookup[synKey]; !exists {
				t.lookup[synKey] = c.Name
			}
		}
	}

	for _, c := range categories {
		add(c)
	}
	add(CategoryConfig{Name: Uncategorized})

	return t
}

// Default returns the built-in taxonomy. The category set mirrors what the
// extraction prompt offers the model, so resolution and prompting never
// drift apart.
func Default() Taxonomy {
	return New(1, []CategoryConfig{
		{Name: "Rent", Synonyms: []string{"house rent", "landlord"}},
		{Name: "EMI", Synonyms: []string{"loan", "installment", "emi payment"}},
		{Name: "Groceries & Home Needs", Synonyms: []string{"groceries", "grocery", "supermarket", "vegetables", "snacks", "home needs"}},
		{Name: "Utilities", Synonyms: []string{"electricity", "water bill", "gas", "internet", "phone bill", "recharge"}},
		{Name: "Transportation", Synonyms: []string{"transport", "fuel", "petrol", "bus", "train", "taxi", "cab", "auto"}},
		{Name: "Baby Care", Synonyms: []string{"baby", "diapers", "baby food", "daycare"}},
		{Name: "Insurance", Synonyms: []string{"premium", "policy", "health insurance", "life insurance"}},
		{Name: "Entertainment", Synonyms: []string{"movies", "cinema", "subscription", "netflix", "games"}},
		{Name: "Miscellaneous", Synonyms: []string{"misc", "other", "others"}},
		{Name: "Amount Lend", Synonyms: []string{"lend", "lent", "borrowed by friend"}},
		{Name: "Investments", Synonyms: []string{"investment", "mutual fund", "sip", "stocks", "shares", "gold"}},
		{Name: "Income", Synonyms: []string{"salary", "wages", "bonus", "refund"}},
	})
}

// Load reads a taxonomy YAML file ("categories: [{name, synonyms}]") and
// returns a version-1 snapshot of it.
func Load(path string) (Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("error reading taxonomy file: %w", err)
	}

	var config TaxonomyConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Taxonomy{}, fmt.Errorf("error parsing taxonomy file: %w", err)
	}
	if len(config.Categories) == 0 {
		return Taxonomy{}, fmt.Errorf("taxonomy file %s defines no categories", path)
	}

	log.WithFields(logrus.Fields{
		"file":       path,
		"categories": len(config.Categories),
	}).Debug("Loaded taxonomy from YAML")

	return New(1, config.Categories), nil
}

// WithCategories returns a new snapshot containing all current categories
// plus the given ones, with the version bumped. The set only ever grows;
// entries committed under an earlier snapshot keep their labels.
func (t Taxonomy) WithCategories(categories ...CategoryConfig) Taxonomy {
	merged := make([]CategoryConfig, 0, len(t.canonical)+len(categories))
	for _, name := range t.canonical {
		merged = append(merged, CategoryConfig{Name: name, Synonyms: t.synonymsOf(name)})
	}
	merged = append(merged, categories...)
	next := New(t.version+1, merged)
	return next
}

// Resolve maps a raw category string onto a canonical label. Matching is
// case-insensitive on names and synonyms. The second return is false when
// the input is unresolvable; callers fall back to Uncategorized.
func (t Taxonomy) Resolve(raw string) (string, bool) {
	key := normalizeKey(raw)
	if key == "" {
		return "", false
	}
	if label, ok := t.lookup[key]; ok {
		return label, true
	}
	return "", false
}

// Contains reports whether label is a member of the canonical set.
func (t Taxonomy) Contains(label string) bool {
	resolved, ok := t.Resolve(label)
	return ok && resolved == label
}

// Canonical returns the canonical labels in their declaration order.
func (t Taxonomy) Canonical() []string {
	out := make([]string, len(t.canonical))
	copy(out, t.canonical)
	return out
}

// Version identifies this snapshot. Snapshots built by WithCategories carry
// strictly increasing versions.
func (t Taxonomy) Version() int {
	return t.version
}

func (t Taxonomy) synonymsOf(name string) []string {
	var synonyms []string
	for key, label := range t.lookup {
		if label == name && key != normalizeKey(name) {
			synonyms = append(synonyms, key)
		}
	}
	sort.Strings(synonyms)
	return synonyms
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
