package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/reliquary/internal/models"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "sessions.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleCatalog() []models.Set {
	return []models.Set{
		{
			ID:        "volt-prime",
			Name:      "Volt Prime",
			Category:  models.CategoryWarframe,
			IsVaulted: false,
			Parts: []models.Part{
				{ID: "volt-prime-systems", Name: "Systems", SetID: "volt-prime", SetName: "Volt Prime", Category: models.CategoryWarframe, ExternalID: 501},
			},
		},
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	store := newTestStore(t, time.Minute)

	_, ok := store.Catalog("s1")
	assert.False(t, ok, "miss expected before any set")

	store.SetCatalog("s1", sampleCatalog())
	got, ok := store.Catalog("s1")
	require.True(t, ok)
	assert.Equal(t, sampleCatalog(), got)
}

func TestRawStatusRoundTrip(t *testing.T) {
	store := newTestStore(t, time.Minute)

	records := []models.RawStatusRecord{
		{SetName: "Volt", Status: "0", Type: "Warframe", Parts: []models.RawPart{{Label: "Systems", ExternalID: 501}}},
	}
	store.SetRawStatus("s1", records)

	got, ok := store.RawStatus("s1")
	require.True(t, ok)
	assert.Equal(t, records, got)
}

func TestSlotsAreSessionScoped(t *testing.T) {
	store := newTestStore(t, time.Minute)

	store.SetCatalog("s1", sampleCatalog())
	_, ok := store.Catalog("s2")
	assert.False(t, ok, "another session must not see s1's cache")
}

func TestDropResultOverwrite(t *testing.T) {
	store := newTestStore(t, time.Minute)

	store.SetDropResult("s1", models.DropSearchResult(`{"first": 1}`))
	store.SetDropResult("s1", models.DropSearchResult(`{"second": 2}`))

	got, ok := store.DropResult("s1")
	require.True(t, ok)
	assert.JSONEq(t, `{"second": 2}`, string(got))
}

func TestCorruptSlotReadsAsMiss(t *testing.T) {
	store := newTestStore(t, time.Minute)
	store.SetCatalog("s1", sampleCatalog())

	_, err := store.db.Exec(`UPDATE sessions SET catalog = 'not json {' WHERE id = ?`, "s1")
	require.NoError(t, err)

	_, ok := store.Catalog("s1")
	assert.False(t, ok)
}

func TestExpiredSessionReadsAsMiss(t *testing.T) {
	store := newTestStore(t, 10*time.Millisecond)
	store.SetCatalog("s1", sampleCatalog())

	time.Sleep(25 * time.Millisecond)

	_, ok := store.Catalog("s1")
	assert.False(t, ok)
}

func TestSweepReturnsExpiredIDs(t *testing.T) {
	store := newTestStore(t, 10*time.Millisecond)
	store.Touch("old")
	time.Sleep(25 * time.Millisecond)

	expired := store.Sweep()
	assert.Contains(t, expired, "old")

	// swept session is gone even after its TTL would have allowed reads
	_, ok := store.Catalog("old")
	assert.False(t, ok)
}

func TestTouchExtendsExpiry(t *testing.T) {
	store := newTestStore(t, 50*time.Millisecond)
	store.SetCatalog("s1", sampleCatalog())

	time.Sleep(30 * time.Millisecond)
	store.Touch("s1")
	time.Sleep(30 * time.Millisecond)

	// without the touch the session would have expired by now
	_, ok := store.Catalog("s1")
	assert.True(t, ok)
}
