package domain

import "time"

// EntityType names the three taggable levels of the hierarchy. The string
// values are part of the persisted snapshot contract and must not change.
type EntityType string

const (
	EntityTactic    EntityType = "tactique"
	EntityPlacement EntityType = "placement"
	EntityCreative  EntityType = "creatif"
)

// TagSnapshot is an immutable record of an entity's tag-relevant fields at
// the moment a CM360 tag was generated. Snapshots are append-only and keyed
// by an increasing integer version; the highest version is the latest.
type TagSnapshot struct {
	EntityType EntityType
	EntityID   string
	Version    int
	Fields     map[string]any
	CreatedAt  time.Time
}
