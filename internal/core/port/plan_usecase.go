package port

import (
	"context"

	"adplan/internal/core/budget"
	"adplan/internal/core/domain"
	"adplan/internal/core/tagcheck"
)

// PlanUseCase is the inbound port: the business operations the console
// backend exposes. Mock implementations can be generated from this
// interface for testing.
type PlanUseCase interface {
	// ResolveBudget runs the budget resolver against a draft tactic
	// without persisting anything. It powers live recomputation while the
	// planner edits fields in the budget drawer.
	ResolveBudget(ctx context.Context, versionID string, draft domain.Tactic) (*budget.Result, error)

	// SaveTactic resolves the tactic's derived budget fields and persists
	// the result, so stored derived state is never stale.
	SaveTactic(ctx context.Context, versionID string, t domain.Tactic) (*domain.Tactic, []string, error)

	// DeleteTactic removes a tactic, cascading to placements and
	// creatives.
	DeleteTactic(ctx context.Context, id string) error

	// ReorderTactics applies a new display order within a section.
	ReorderTactics(ctx context.Context, sectionID string, orderedIDs []string) error

	// TagProgress classifies every taggable entity of a version against
	// its CM360 snapshots and returns the segmented progress tally.
	TagProgress(ctx context.Context, versionID string) (*tagcheck.Progress, error)

	// TagChanges returns the per-entity change record used to render the
	// needs-re-tag indicator.
	TagChanges(ctx context.Context, typ domain.EntityType, entityID string) (*tagcheck.ChangeRecord, error)

	// RecordTagSnapshot appends a snapshot of the entity's current
	// contract fields, the write path of the external tagging workflow.
	// It returns the assigned version.
	RecordTagSnapshot(ctx context.Context, typ domain.EntityType, entityID string) (int, error)

	// FeeCatalog returns a client's ordered fee definitions with options.
	FeeCatalog(ctx context.Context, clientID string) ([]domain.FeeWithOptions, error)

	// ListBuckets returns a version's budget buckets with derived actuals.
	ListBuckets(ctx context.Context, versionID string) ([]domain.Bucket, error)
	// SaveBucket upserts a bucket.
	SaveBucket(ctx context.Context, b domain.Bucket) (*domain.Bucket, error)
	// DeleteBucket removes a bucket and unassigns its tactics.
	DeleteBucket(ctx context.Context, id string) error
}
