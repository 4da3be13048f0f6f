package tagcheck

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adplan/internal/core/domain"
)

func snap(version int, fields map[string]any) domain.TagSnapshot {
	return domain.TagSnapshot{
		EntityType: domain.EntityTactic,
		EntityID:   "t1",
		Version:    version,
		Fields:     fields,
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(version) * time.Hour),
	}
}

func TestDetectNoSnapshot(t *testing.T) {
	rec := Detect(domain.EntityTactic, map[string]any{"TC_Label": "A"}, nil)
	assert.Equal(t, StateNotTagged, rec.State)
	assert.False(t, rec.HasChanges)
	assert.Nil(t, rec.Latest)
}

func TestDetectSelfComparisonIsStable(t *testing.T) {
	live := domain.Tactic{
		Label:       "Display Q3",
		MediaBudget: 1500.50,
		BuyCurrency: "CAD",
		CM360Rate:   12.5,
		CM360Volume: 100000,
		BuyType:     "CPM",
		Publisher:   "PUB-01",
	}.TagFields()
	rec := Detect(domain.EntityTactic, live, []domain.TagSnapshot{snap(0, live)})
	assert.Equal(t, StateUpToDate, rec.State)
	assert.False(t, rec.HasChanges)
	assert.Empty(t, rec.ChangedFields)
}

func TestDetectFieldDrift(t *testing.T) {
	history := []domain.TagSnapshot{
		snap(0, map[string]any{"TC_Label": "A", "TC_Media_Budget": 100}),
	}
	live := map[string]any{"TC_Label": "A", "TC_Media_Budget": 150}
	rec := Detect(domain.EntityTactic, live, history)
	assert.True(t, rec.HasChanges)
	assert.Equal(t, []string{"TC_Media_Budget"}, rec.ChangedFields)
	assert.Equal(t, StateNeedsRetag, rec.State)
}

func TestDetectUsesHighestVersion(t *testing.T) {
	history := []domain.TagSnapshot{
		snap(0, map[string]any{"TC_Label": "old"}),
		snap(2, map[string]any{"TC_Label": "new"}),
		snap(1, map[string]any{"TC_Label": "middle"}),
	}
	rec := Detect(domain.EntityTactic, map[string]any{"TC_Label": "new"}, history)
	require.NotNil(t, rec.Latest)
	assert.Equal(t, 2, rec.Latest.Version)
	assert.NotContains(t, rec.ChangedFields, "TC_Label")
}

func TestCanonicalNumericCoercion(t *testing.T) {
	// Snapshots round-trip through JSON, so a live float may come back as
	// a string or a plain int. These must compare equal.
	history := []domain.TagSnapshot{
		snap(0, map[string]any{"TC_Media_Budget": "1500.5", "TC_CM360_Volume": float64(100000)}),
	}
	live := map[string]any{"TC_Media_Budget": 1500.5, "TC_CM360_Volume": 100000}
	rec := Detect(domain.EntityTactic, live, history)
	assert.NotContains(t, rec.ChangedFields, "TC_Media_Budget")
	assert.NotContains(t, rec.ChangedFields, "TC_CM360_Volume")
}

func TestCanonicalNilDistinctFromZero(t *testing.T) {
	history := []domain.TagSnapshot{
		snap(0, map[string]any{"TC_Media_Budget": nil}),
	}
	live := map[string]any{"TC_Media_Budget": 0}
	rec := Detect(domain.EntityTactic, live, history)
	assert.Contains(t, rec.ChangedFields, "TC_Media_Budget")
}

func TestDetectComparesWholeFieldSet(t *testing.T) {
	empty := map[string]any{}
	rec := Detect(domain.EntityTactic, empty, []domain.TagSnapshot{snap(0, empty)})
	// Absent on both sides everywhere: nothing changed.
	assert.False(t, rec.HasChanges)

	drifted := map[string]any{"TC_Publisher": "PUB-02"}
	rec = Detect(domain.EntityTactic, drifted, []domain.TagSnapshot{snap(0, empty)})
	assert.Equal(t, []string{"TC_Publisher"}, rec.ChangedFields)
}
