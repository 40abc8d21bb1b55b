package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"finlog/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(desc string, amount int64, entryType string, ts time.Time) models.LedgerEntry {
	return models.LedgerEntry{
		Timestamp:   ts,
		Description: desc,
		Category:    "Miscellaneous",
		Amount:      decimal.NewFromInt(amount),
		Type:        entryType,
	}
}

func TestCSVStoreAppendAssignsIncreasingIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	store, err := OpenCSVStore(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var lastID int64
	for i := 0; i < 5; i++ {
		committed, err := store.Append(testEntry("entry", 100, models.TypeExpense, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
		assert.Greater(t, committed.ID, lastID, "ids must be strictly increasing")
		lastID = committed.ID
	}

	entries, err := store.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].ID, entries[i].ID)
		assert.False(t, entries[i].Timestamp.Before(entries[i-1].Timestamp),
			"timestamps must be non-decreasing in append order")
	}
}

func TestCSVStoreHeaderDescribesLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	store, err := OpenCSVStore(path)
	require.NoError(t, err)

	_, err = store.Append(testEntry("snacks", 120, models.TypeExpense, time.Now().UTC()))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "id,timestamp,description,category,amount,type,truncated", lines[0])
}

func TestCSVStoreReopenContinuesIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")

	store, err := OpenCSVStore(path)
	require.NoError(t, err)
	first, err := store.Append(testEntry("first", 100, models.TypeExpense, time.Now().UTC()))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenCSVStore(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()

	second, err := reopened.Append(testEntry("second", 200, models.TypeIncome, time.Now().UTC()))
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID, "ids must never be reused across restarts")

	entries, err := reopened.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Description)
	assert.Equal(t, "second", entries[1].Description)
	assert.True(t, decimal.NewFromInt(200).Equal(entries[1].Amount))
}

func TestCSVStoreReadRangeInclusiveBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	store, err := OpenCSVStore(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	t0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	t2 := t0.Add(2 * time.Hour)
	for _, ts := range []time.Time{t0, t1, t2} {
		_, err := store.Append(testEntry("e", 10, models.TypeExpense, ts))
		require.NoError(t, err)
	}

	got, err := store.ReadRange(t0, t1)
	require.NoError(t, err)
	assert.Len(t, got, 2, "both bounds are inclusive")

	got, err = store.ReadRange(t1, t1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = store.ReadRange(t2.Add(time.Hour), t2.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCSVStoreClampsBackwardsTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	store, err := OpenCSVStore(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	later := time.Date(2026, 8, 23, 12, 0, 1, 0, time.UTC)
	earlier := later.Add(-time.Second)

	// The goroutine that sampled the later clock wins the lock first.
	first, err := store.Append(testEntry("first", 10, models.TypeExpense, later))
	require.NoError(t, err)
	second, err := store.Append(testEntry("second", 20, models.TypeExpense, earlier))
	require.NoError(t, err)

	assert.Less(t, first.ID, second.ID)
	assert.Equal(t, later, first.Timestamp)
	assert.Equal(t, later, second.Timestamp, "backwards timestamp must be clamped to the last committed one")

	entries, err := store.ReadAll()
	require.NoError(t, err)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.Before(entries[i-1].Timestamp),
			"persisted timestamps must be non-decreasing in append order")
	}
}

func TestCSVStoreReadAllReturnsSnapshotCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	store, err := OpenCSVStore(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	_, err = store.Append(testEntry("original", 10, models.TypeExpense, time.Now().UTC()))
	require.NoError(t, err)

	snapshot, err := store.ReadAll()
	require.NoError(t, err)
	snapshot[0].Description = "mutated"

	again, err := store.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Description)
}

func TestCSVStoreConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	store, err := OpenCSVStore(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	const writers = 8
	const perWriter = 10
	done := make(chan struct{})
	for i := 0; i < writers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < perWriter; j++ {
				_, err := store.Append(testEntry("concurrent", 1, models.TypeExpense, time.Now().UTC()))
				assert.NoError(t, err)
			}
		}()
	}
	for i := 0; i < writers; i++ {
		<-done
	}

	entries, err := store.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, writers*perWriter)

	seen := make(map[int64]bool)
	for _, e := range entries {
		assert.False(t, seen[e.ID], "id %d assigned twice", e.ID)
		seen[e.ID] = true
	}
}
