package tagcheck

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"adplan/internal/core/domain"
)

// State is the terminal CM360 display state of one taggable entity. State
// is recomputed fresh on every data load, never tracked incrementally.
type State string

const (
	// StateNotTagged means no snapshot exists yet.
	StateNotTagged State = "not_tagged"
	// StateNeedsRetag means the live entity drifted from its latest
	// snapshot.
	StateNeedsRetag State = "needs_retag"
	// StateUpToDate means the latest snapshot still matches the live
	// entity.
	StateUpToDate State = "up_to_date"
)

// tagFieldSets fixes, per entity type, exactly which contract fields are
// compared. Fields outside the set never trigger a re-tag.
var tagFieldSets = map[domain.EntityType][]string{
	domain.EntityTactic: {
		"TC_Label",
		"TC_Media_Budget",
		"TC_BuyCurrency",
		"TC_CM360_Rate",
		"TC_CM360_Volume",
		"TC_Buy_Type",
		"TC_Publisher",
	},
	domain.EntityPlacement: {
		"PL_Label",
		"PL_Tag_Start_Date",
		"PL_Tag_End_Date",
		"PL_Taxonomy",
	},
	domain.EntityCreative: {
		"CR_Label",
		"CR_Tag_Start_Date",
		"CR_Tag_End_Date",
		"CR_Format",
		"CR_Rotation_Weight",
	},
}

// TagFieldSet returns the ordered comparison field set for an entity type.
// Unknown types get an empty set, which classifies as unchanged.
func TagFieldSet(t domain.EntityType) []string {
	return tagFieldSets[t]
}

// ChangeRecord is the ephemeral, derived result of comparing a live entity
// against its snapshot history. It is recomputed on every reload and never
// persisted.
type ChangeRecord struct {
	Latest        *domain.TagSnapshot
	History       []domain.TagSnapshot
	HasChanges    bool
	ChangedFields []string
	State         State
}

// Detect compares the live contract fields of an entity against the latest
// snapshot in its history. Every field in the type's comparison set is
// checked; the result is deterministic for the same inputs.
func Detect(typ domain.EntityType, live map[string]any, history []domain.TagSnapshot) ChangeRecord {
	rec := ChangeRecord{History: history, State: StateNotTagged}
	latest := latestSnapshot(history)
	if latest == nil {
		return rec
	}
	rec.Latest = latest

	for _, field := range tagFieldSets[typ] {
		if canonical(live[field]) != canonical(latest.Fields[field]) {
			rec.ChangedFields = append(rec.ChangedFields, field)
		}
	}
	rec.HasChanges = len(rec.ChangedFields) > 0
	if rec.HasChanges {
		rec.State = StateNeedsRetag
	} else {
		rec.State = StateUpToDate
	}
	return rec
}

// latestSnapshot returns the snapshot with the highest version, or nil for
// an empty history. Histories are append-only so the highest version is
// the most recent tag.
func latestSnapshot(history []domain.TagSnapshot) *domain.TagSnapshot {
	var latest *domain.TagSnapshot
	for i := range history {
		if latest == nil || history[i].Version > latest.Version {
			latest = &history[i]
		}
	}
	return latest
}

// canonical reduces a field value to a comparison string. Coercion rules:
// numbers compare by numeric value regardless of storage type (42, 42.0
// and "42" are equal, surviving the numeric-vs-string drift between live
// records and JSON snapshots), booleans as "true"/"false", times by
// RFC 3339, and absent/nil values are distinct from zero and from the
// empty string.
func canonical(v any) string {
	switch x := v.(type) {
	case nil:
		return "\x00nil"
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 64)
	case int:
		return strconv.FormatFloat(float64(x), 'f', -1, 64)
	case int64:
		return strconv.FormatFloat(float64(x), 'f', -1, 64)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
