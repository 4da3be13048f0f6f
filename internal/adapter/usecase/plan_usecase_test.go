package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"adplan/internal/core/domain"
	"adplan/internal/core/port/mocks"
	"adplan/internal/refdata"
)

type staticRefSource struct {
	rates    []domain.ExchangeRate
	partners []domain.Partner
}

func (s staticRefSource) ListExchangeRates(context.Context) ([]domain.ExchangeRate, error) {
	return s.rates, nil
}

func (s staticRefSource) ListPartners(context.Context) ([]domain.Partner, error) {
	return s.partners, nil
}

func warmedCache(t *testing.T, rates ...domain.ExchangeRate) *refdata.Cache {
	t.Helper()
	ref := refdata.New()
	require.NoError(t, ref.Warm(context.Background(), staticRefSource{rates: rates}))
	return ref
}

func testCampaign() *domain.Campaign {
	return &domain.Campaign{ID: "camp-1", ClientID: "client-1", Currency: "CAD"}
}

func testCatalog() []domain.FeeWithOptions {
	return []domain.FeeWithOptions{
		{
			Fee: domain.Fee{ID: "fee-1", ClientID: "client-1", Name: "Agency Commission",
				CalcType: domain.FeeCalcPercentage, CalcMode: domain.FeeModeDirect},
			Options: []domain.FeeOption{{ID: "opt-12pct", FeeID: "fee-1", Name: "Standard 12%", Value: 12}},
		},
		{
			Fee: domain.Fee{ID: "fee-2", ClientID: "client-1", Name: "Setup Fee",
				CalcType: domain.FeeCalcFixed, CalcMode: domain.FeeModeDirect, Order: 1},
			Options: []domain.FeeOption{{ID: "opt-flat", FeeID: "fee-2", Name: "Flat 500", Value: 500}},
		},
	}
}

func TestSaveTacticResolvesDerivedFields(t *testing.T) {
	repo := new(mocks.PlanRepository)
	repo.On("GetCampaignForVersion", mock.Anything, "v1").Return(testCampaign(), nil)
	repo.On("ListFees", mock.Anything, "client-1").Return(testCatalog(), nil)

	var persisted *domain.Tactic
	repo.On("SaveTactic", mock.Anything, mock.AnythingOfType("*domain.Tactic")).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*domain.Tactic)
		}).
		Return(nil)

	svc := NewPlanUseCase(repo, warmedCache(t))

	draft := domain.Tactic{
		SectionID:    "sec-1",
		Label:        "Display",
		BudgetChoice: domain.BudgetChoiceMedia,
		BudgetInput:  10000,
		BuyCurrency:  "CAD",
	}
	draft.Fees[0] = domain.FeeSlot{OptionID: "opt-12pct"}
	draft.Fees[1] = domain.FeeSlot{OptionID: "opt-flat"}

	saved, warnings, err := svc.SaveTactic(context.Background(), "v1", draft)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Empty(t, warnings)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 10000.0, saved.MediaBudget)
	assert.InDelta(t, 1200, saved.Fees[0].Value, 1e-9)
	assert.InDelta(t, 500, saved.Fees[1].Value, 1e-9)
	assert.InDelta(t, 11700, saved.ClientBudget, 1e-9)
	assert.Equal(t, saved.ID, persisted.ID)
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestSaveTacticSurfacesMissingRateWarning(t *testing.T) {
	repo := new(mocks.PlanRepository)
	repo.On("GetCampaignForVersion", mock.Anything, "v1").Return(testCampaign(), nil)
	repo.On("ListFees", mock.Anything, "client-1").Return(nil, nil)
	repo.On("SaveTactic", mock.Anything, mock.Anything).Return(nil)

	svc := NewPlanUseCase(repo, warmedCache(t))

	saved, warnings, err := svc.SaveTactic(context.Background(), "v1", domain.Tactic{
		BudgetChoice: domain.BudgetChoiceMedia,
		BudgetInput:  100,
		BuyCurrency:  "USD",
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 1.0, saved.CurrencyRate)
}

func TestSaveTacticUsesClientScopedRate(t *testing.T) {
	repo := new(mocks.PlanRepository)
	repo.On("GetCampaignForVersion", mock.Anything, "v1").Return(testCampaign(), nil)
	repo.On("ListFees", mock.Anything, "client-1").Return(nil, nil)
	repo.On("SaveTactic", mock.Anything, mock.Anything).Return(nil)

	ref := warmedCache(t,
		domain.ExchangeRate{ClientID: "client-1", From: "USD", To: "CAD", Rate: 1.35},
		domain.ExchangeRate{ClientID: "other", From: "USD", To: "CAD", Rate: 2},
	)
	svc := NewPlanUseCase(repo, ref)

	saved, warnings, err := svc.SaveTactic(context.Background(), "v1", domain.Tactic{
		BudgetChoice: domain.BudgetChoiceMedia,
		BudgetInput:  100,
		BuyCurrency:  "USD",
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 1.35, saved.CurrencyRate)
}

func TestTagProgressWalksTaggedPlacements(t *testing.T) {
	repo := new(mocks.PlanRepository)

	tactic := domain.Tactic{ID: "t1"}
	tagged := domain.Placement{ID: "p1", TacticID: "t1", Label: "P1", Tagged: true,
		TagStart: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		TagEnd:   time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)}
	untagged := domain.Placement{ID: "p2", TacticID: "t1", Label: "P2"}
	creative := domain.Creative{ID: "c1", PlacementID: "p1", Label: "C1",
		TagStart: tagged.TagStart, TagEnd: tagged.TagEnd, Format: "300x250", Weight: 1}

	repo.On("ListTactics", mock.Anything, "v1").Return([]domain.Tactic{tactic}, nil)
	repo.On("ListPlacements", mock.Anything, "t1").Return([]domain.Placement{tagged, untagged}, nil)
	repo.On("ListCreatives", mock.Anything, "p1").Return([]domain.Creative{creative}, nil)
	// The placement was tagged and has not drifted; the creative was never
	// tagged.
	repo.On("ListSnapshots", mock.Anything, domain.EntityPlacement, "p1").
		Return([]domain.TagSnapshot{{Version: 0, Fields: tagged.TagFields()}}, nil)
	repo.On("ListSnapshots", mock.Anything, domain.EntityCreative, "c1").Return(nil, nil)

	svc := NewPlanUseCase(repo, warmedCache(t))

	progress, err := svc.TagProgress(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, 2, progress.Total)
	assert.Equal(t, 1, progress.Created)
	assert.Equal(t, 0, progress.ToModify)
	assert.Equal(t, 1, progress.ToCreate)
	// Untagged placements are not part of the walk.
	repo.AssertNotCalled(t, "ListCreatives", mock.Anything, "p2")
}

func TestTagProgressEmptyVersion(t *testing.T) {
	repo := new(mocks.PlanRepository)
	repo.On("ListTactics", mock.Anything, "v1").Return(nil, nil)

	svc := NewPlanUseCase(repo, warmedCache(t))

	progress, err := svc.TagProgress(context.Background(), "v1")
	require.NoError(t, err)
	assert.Zero(t, progress.Total)
	assert.Equal(t, 100, progress.ToCreatePct)
}

func TestRecordTagSnapshotUsesLiveFields(t *testing.T) {
	repo := new(mocks.PlanRepository)
	tactic := &domain.Tactic{ID: "t1", Label: "Display", MediaBudget: 1000, BuyCurrency: "CAD"}
	repo.On("GetTactic", mock.Anything, "t1").Return(tactic, nil)
	repo.On("AppendSnapshot", mock.Anything, domain.EntityTactic, "t1", tactic.TagFields()).
		Return(3, nil)

	svc := NewPlanUseCase(repo, warmedCache(t))

	version, err := svc.RecordTagSnapshot(context.Background(), domain.EntityTactic, "t1")
	require.NoError(t, err)
	assert.Equal(t, 3, version)
}

func TestTagChangesDetectsDrift(t *testing.T) {
	repo := new(mocks.PlanRepository)
	tactic := &domain.Tactic{ID: "t1", Label: "A", MediaBudget: 150}
	snapFields := map[string]any{
		"TC_Label": "A", "TC_Media_Budget": 100, "TC_BuyCurrency": "",
		"TC_CM360_Rate": 0, "TC_CM360_Volume": 0, "TC_Buy_Type": "", "TC_Publisher": "",
	}
	repo.On("GetTactic", mock.Anything, "t1").Return(tactic, nil)
	repo.On("ListSnapshots", mock.Anything, domain.EntityTactic, "t1").
		Return([]domain.TagSnapshot{{Version: 0, Fields: snapFields}}, nil)

	svc := NewPlanUseCase(repo, warmedCache(t))

	rec, err := svc.TagChanges(context.Background(), domain.EntityTactic, "t1")
	require.NoError(t, err)
	assert.True(t, rec.HasChanges)
	assert.Equal(t, []string{"TC_Media_Budget"}, rec.ChangedFields)
}

func TestSaveBucketAssignsID(t *testing.T) {
	repo := new(mocks.PlanRepository)
	repo.On("SaveBucket", mock.Anything, mock.AnythingOfType("*domain.Bucket")).Return(nil)

	svc := NewPlanUseCase(repo, warmedCache(t))

	saved, err := svc.SaveBucket(context.Background(), domain.Bucket{VersionID: "v1", Name: "Search"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
}
