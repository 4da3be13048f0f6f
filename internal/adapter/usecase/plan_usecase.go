package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"adplan/internal/core/budget"
	"adplan/internal/core/domain"
	"adplan/internal/core/port"
	"adplan/internal/core/tagcheck"
	"adplan/internal/refdata"
)

// progressFanOut bounds the per-tactic loads joined when computing tag
// progress across a version.
const progressFanOut = 8

// PlanUseCase implements port.PlanUseCase. It orchestrates the budget
// resolver and the tag-change detector over the repository, with exchange
// rates and partners served from the warmed reference cache.
type PlanUseCase struct {
	repo    port.PlanRepository
	refdata *refdata.Cache
}

// NewPlanUseCase creates the usecase with its repository and reference
// cache.
func NewPlanUseCase(repo port.PlanRepository, ref *refdata.Cache) *PlanUseCase {
	return &PlanUseCase{repo: repo, refdata: ref}
}

// ResolveBudget runs the resolver against a draft tactic without touching
// the store. Resolution itself cannot fail; errors only come from loading
// the campaign and fee catalog.
func (u *PlanUseCase) ResolveBudget(ctx context.Context, versionID string, draft domain.Tactic) (*budget.Result, error) {
	in, err := u.buildInput(ctx, versionID, draft)
	if err != nil {
		return nil, err
	}
	res := budget.Resolve(*in)
	return &res, nil
}

// SaveTactic resolves derived budget fields and persists the tactic in one
// step, so stored state is never stale. The returned warning list carries
// reference-data degradations (e.g. a missing exchange rate).
func (u *PlanUseCase) SaveTactic(ctx context.Context, versionID string, t domain.Tactic) (*domain.Tactic, []string, error) {
	in, err := u.buildInput(ctx, versionID, t)
	if err != nil {
		return nil, nil, err
	}
	res := budget.Resolve(*in)

	t.MediaBudget = res.MediaBudget
	t.ClientBudget = res.ClientBudget
	t.UnitVolume = res.UnitVolume
	t.Bonification = res.Bonification
	t.HasBonus = res.HasBonus
	t.CurrencyRate = res.CurrencyRate
	t.Delta = res.Delta
	for i := range t.Fees {
		t.Fees[i].Value = res.FeeValues[i]
	}

	now := time.Now().UTC()
	if t.ID == "" {
		t.ID = uuid.NewString()
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	if err = u.repo.SaveTactic(ctx, &t); err != nil {
		return nil, nil, err
	}
	return &t, res.Warnings, nil
}

// DeleteTactic removes a tactic; the repository cascades to placements and
// creatives.
func (u *PlanUseCase) DeleteTactic(ctx context.Context, id string) error {
	return u.repo.DeleteTactic(ctx, id)
}

// ReorderTactics applies a new display order within a section.
func (u *PlanUseCase) ReorderTactics(ctx context.Context, sectionID string, orderedIDs []string) error {
	return u.repo.ReorderTactics(ctx, sectionID, orderedIDs)
}

// TagProgress walks the version's tactics, loading each tactic's tagged
// placements, creatives and snapshot histories concurrently. Each
// goroutine writes into its own slot of the accumulator, so the join needs
// no locking.
func (u *PlanUseCase) TagProgress(ctx context.Context, versionID string) (*tagcheck.Progress, error) {
	tactics, err := u.repo.ListTactics(ctx, versionID)
	if err != nil {
		return nil, err
	}

	perTactic := make([][]tagcheck.Item, len(tactics))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(progressFanOut)
	for i := range tactics {
		g.Go(func() error {
			items, err := u.collectTacticItems(gctx, tactics[i])
			if err != nil {
				return err
			}
			perTactic[i] = items
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	var items []tagcheck.Item
	for _, part := range perTactic {
		items = append(items, part...)
	}
	p := tagcheck.Aggregate(items)
	return &p, nil
}

// collectTacticItems gathers the taggable entities under one tactic: its
// tagged placements and their creatives, each paired with its snapshot
// history.
func (u *PlanUseCase) collectTacticItems(ctx context.Context, t domain.Tactic) ([]tagcheck.Item, error) {
	placements, err := u.repo.ListPlacements(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	var items []tagcheck.Item
	for _, p := range placements {
		if !p.Tagged {
			continue
		}
		history, err := u.repo.ListSnapshots(ctx, domain.EntityPlacement, p.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, tagcheck.Item{
			Type:    domain.EntityPlacement,
			Live:    p.TagFields(),
			History: history,
		})

		creatives, err := u.repo.ListCreatives(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range creatives {
			history, err = u.repo.ListSnapshots(ctx, domain.EntityCreative, c.ID)
			if err != nil {
				return nil, err
			}
			items = append(items, tagcheck.Item{
				Type:    domain.EntityCreative,
				Live:    c.TagFields(),
				History: history,
			})
		}
	}
	return items, nil
}

// TagChanges returns the change record driving the needs-re-tag indicator
// for one entity.
func (u *PlanUseCase) TagChanges(ctx context.Context, typ domain.EntityType, entityID string) (*tagcheck.ChangeRecord, error) {
	live, err := u.liveTagFields(ctx, typ, entityID)
	if err != nil {
		return nil, err
	}
	history, err := u.repo.ListSnapshots(ctx, typ, entityID)
	if err != nil {
		return nil, err
	}
	rec := tagcheck.Detect(typ, live, history)
	return &rec, nil
}

// RecordTagSnapshot appends a snapshot of the entity's current contract
// fields and returns the assigned version. This is the write path of the
// tagging workflow.
func (u *PlanUseCase) RecordTagSnapshot(ctx context.Context, typ domain.EntityType, entityID string) (int, error) {
	live, err := u.liveTagFields(ctx, typ, entityID)
	if err != nil {
		return 0, err
	}
	return u.repo.AppendSnapshot(ctx, typ, entityID, live)
}

// FeeCatalog returns a client's ordered fee definitions with options.
func (u *PlanUseCase) FeeCatalog(ctx context.Context, clientID string) ([]domain.FeeWithOptions, error) {
	return u.repo.ListFees(ctx, clientID)
}

// ListBuckets returns a version's buckets with derived actuals.
func (u *PlanUseCase) ListBuckets(ctx context.Context, versionID string) ([]domain.Bucket, error) {
	return u.repo.ListBuckets(ctx, versionID)
}

// SaveBucket upserts a bucket, assigning an id on first save.
func (u *PlanUseCase) SaveBucket(ctx context.Context, b domain.Bucket) (*domain.Bucket, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
		b.CreatedAt = time.Now().UTC()
	}
	if err := u.repo.SaveBucket(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteBucket removes a bucket; assigned tactics are unassigned, never
// deleted.
func (u *PlanUseCase) DeleteBucket(ctx context.Context, id string) error {
	return u.repo.DeleteBucket(ctx, id)
}

// buildInput assembles the resolver input for a tactic under a version:
// campaign currency, client fee catalog and client-scoped exchange rates.
func (u *PlanUseCase) buildInput(ctx context.Context, versionID string, t domain.Tactic) (*budget.Input, error) {
	campaign, err := u.repo.GetCampaignForVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	catalog, err := u.repo.ListFees(ctx, campaign.ClientID)
	if err != nil {
		return nil, err
	}

	in := budget.Input{
		Choice:           t.BudgetChoice,
		BudgetInput:      t.BudgetInput,
		UnitPrice:        t.UnitPrice,
		UnitVolume:       t.UnitVolume,
		MediaValue:       t.MediaValue,
		BuyCurrency:      t.BuyCurrency,
		CampaignCurrency: campaign.Currency,
		Rates:            u.refdata.ClientRates(campaign.ClientID),
	}
	for i, slot := range t.Fees {
		in.Slots[i] = budget.SlotInput{
			Option: lookupOption(catalog, slot.OptionID),
			Volume: slot.Volume,
		}
	}
	return &in, nil
}

// lookupOption finds a fee option in the catalog. A dangling or empty
// reference yields nil, which the resolver treats as a zero-valued slot.
func lookupOption(catalog []domain.FeeWithOptions, optionID string) *budget.OptionInput {
	if optionID == "" {
		return nil
	}
	for _, fee := range catalog {
		for _, opt := range fee.Options {
			if opt.ID == optionID {
				return &budget.OptionInput{
					CalcType: fee.Fee.CalcType,
					CalcMode: fee.Fee.CalcMode,
					Value:    opt.Value,
					Buffer:   opt.Buffer,
				}
			}
		}
	}
	return nil
}

// liveTagFields loads the current contract field view of a taggable
// entity.
func (u *PlanUseCase) liveTagFields(ctx context.Context, typ domain.EntityType, entityID string) (map[string]any, error) {
	switch typ {
	case domain.EntityTactic:
		t, err := u.repo.GetTactic(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return t.TagFields(), nil
	case domain.EntityPlacement:
		p, err := u.repo.GetPlacement(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return p.TagFields(), nil
	case domain.EntityCreative:
		c, err := u.repo.GetCreative(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return c.TagFields(), nil
	default:
		return nil, fmt.Errorf("unknown entity type %q", typ)
	}
}
