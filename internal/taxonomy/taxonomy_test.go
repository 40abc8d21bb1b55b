package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultResolve(t *testing.T) {
	tax := Default()

	tests := []struct {
		name     string
		input    string
		expected string
		resolved bool
	}{
		{"Canonical label", "Baby Care", "Baby Care", true},
		{"Case folded", "baby care", "Baby Care", true},
		{"Synonym", "diapers", "Baby Care", true},
		{"Synonym case folded", "DIAPERS", "Baby Care", true},
		{"Trimmed", "  salary  ", "Income", true},
		{"Uncategorized itself", "uncategorized", Uncategorized, true},
		{"Unknown", "spaceships", "", false},
		{"Empty", "", "", false},
		{"Whitespace only", "   ", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			label, ok := tax.Resolve(tc.input)
			assert.Equal(t, tc.resolved, ok)
			assert.Equal(t, tc.expected, label)
		})
	}
}

func TestDefaultAlwaysContainsUncategorized(t *testing.T) {
	assert.True(t, Default().Contains(Uncategorized))
}

func TestWithCategoriesGrowsAndBumpsVersion(t *testing.T) {
	base := Default()
	next := base.WithCategories(CategoryConfig{Name: "Pets", Synonyms: []string{"dog food", "vet"}})

	assert.Equal(t, base.Version()+1, next.Version())

	// New snapshot resolves both old and new labels.
	label, ok := next.Resolve("vet")
	require.True(t, ok)
	assert.Equal(t, "Pets", label)
	label, ok = next.Resolve("diapers")
	require.True(t, ok)
	assert.Equal(t, "Baby Care", label)

	// The base snapshot is untouched.
	_, ok = base.Resolve("vet")
	assert.False(t, ok)

	// Grow-only: everything canonical in base stays canonical in next.
	for _, name := range base.Canonical() {
		assert.True(t, next.Contains(name), "category %s lost by growth", name)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")
	content := `categories:
  - name: Rent
  - name: Groceries
    synonyms:
      - supermarket
      - vegetables
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tax, err := Load(path)
	require.NoError(t, err)

	label, ok := tax.Resolve("supermarket")
	require.True(t, ok)
	assert.Equal(t, "Groceries", label)
	assert.True(t, tax.Contains("Rent"))
	assert.True(t, tax.Contains(Uncategorized))
}

func TestLoadErrors(t *testing.T) {
	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("Empty category list", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "categories.yaml")
		require.NoError(t, os.WriteFile(path, []byte("categories: []\n"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
