package port

import (
	"context"
	"errors"

	"adplan/internal/core/domain"
)

var (
	ErrTacticNotFound   = errors.New("tactic not found")
	ErrBucketNotFound   = errors.New("bucket not found")
	ErrVersionNotFound  = errors.New("version not found")
	ErrEntityNotFound   = errors.New("entity not found")
	ErrSnapshotConflict = errors.New("snapshot version conflict")
)

// PlanRepository is the outbound persistence port for the media plan
// hierarchy, the fee catalog, CM360 snapshots and reference data.
// Implementations must not leave partial writes behind on error: cascade
// deletes, reorders and snapshot appends run inside one transaction.
type PlanRepository interface {
	// GetCampaignForVersion returns the campaign owning a version, used to
	// resolve the campaign base currency and client scope.
	GetCampaignForVersion(ctx context.Context, versionID string) (*domain.Campaign, error)

	// GetTactic returns a tactic by id, or ErrTacticNotFound.
	GetTactic(ctx context.Context, id string) (*domain.Tactic, error)
	// SaveTactic upserts a tactic including all resolver-derived fields.
	SaveTactic(ctx context.Context, t *domain.Tactic) error
	// DeleteTactic removes a tactic and cascades to its placements and
	// creatives in one transaction.
	DeleteTactic(ctx context.Context, id string) error
	// ListTactics returns the tactics of a campaign version in display
	// order.
	ListTactics(ctx context.Context, versionID string) ([]domain.Tactic, error)
	// ReorderTactics rewrites the order index of a section's tactics to
	// match the given id sequence.
	ReorderTactics(ctx context.Context, sectionID string, orderedIDs []string) error

	// GetPlacement returns a placement by id, or ErrEntityNotFound.
	GetPlacement(ctx context.Context, id string) (*domain.Placement, error)
	// GetCreative returns a creative by id, or ErrEntityNotFound.
	GetCreative(ctx context.Context, id string) (*domain.Creative, error)
	// ListPlacements returns the placements under a tactic in display order.
	ListPlacements(ctx context.Context, tacticID string) ([]domain.Placement, error)
	// ListCreatives returns the creatives under a placement in display order.
	ListCreatives(ctx context.Context, placementID string) ([]domain.Creative, error)

	// ListSnapshots returns the full snapshot history of one entity in
	// ascending version order.
	ListSnapshots(ctx context.Context, typ domain.EntityType, entityID string) ([]domain.TagSnapshot, error)
	// AppendSnapshot stores a new snapshot at version max+1 and returns the
	// assigned version. Histories are append-only.
	AppendSnapshot(ctx context.Context, typ domain.EntityType, entityID string, fields map[string]any) (int, error)

	// ListFees returns a client's fee catalog with options, fees in chain
	// order.
	ListFees(ctx context.Context, clientID string) ([]domain.FeeWithOptions, error)

	// ListBuckets returns the buckets of a version with their derived
	// actuals.
	ListBuckets(ctx context.Context, versionID string) ([]domain.Bucket, error)
	// SaveBucket upserts a bucket. Actual is derived and ignored on write.
	SaveBucket(ctx context.Context, b *domain.Bucket) error
	// DeleteBucket removes a bucket and unassigns its tactics.
	DeleteBucket(ctx context.Context, id string) error

	// ListExchangeRates returns every known rate, used to warm the
	// reference cache at startup.
	ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error)
	// ListPartners returns the partner/shortcode reference list.
	ListPartners(ctx context.Context) ([]domain.Partner, error)
}
