package budget

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adplan/internal/core/domain"
)

type fakeRates map[string]float64

func (f fakeRates) Rate(from, to string) (float64, bool) {
	r, ok := f[from+"/"+to]
	return r, ok
}

func TestMediaModeUsesInputDirectly(t *testing.T) {
	res := Resolve(Input{
		Choice:      domain.BudgetChoiceMedia,
		BudgetInput: 2500,
	})
	require.Equal(t, Resolved, res.Outcome)
	assert.Equal(t, 2500.0, res.MediaBudget)
	assert.Equal(t, 2500.0, res.ClientBudget)
	assert.Zero(t, res.Delta)
}

func TestClientModeBackSolvesFixedFee(t *testing.T) {
	// budgetInput=1000, one fixed fee of 100, no buffer.
	res := Resolve(Input{
		Choice:      domain.BudgetChoiceClient,
		BudgetInput: 1000,
		Slots: [domain.MaxFeeSlots]SlotInput{
			{Option: &OptionInput{CalcType: domain.FeeCalcFixed, Value: 100}},
		},
	})
	require.Equal(t, Resolved, res.Outcome)
	assert.InDelta(t, 900, res.MediaBudget, convergenceTolerance)
	assert.InDelta(t, 1000, res.ClientBudget, convergenceTolerance)
	assert.InDelta(t, 100, res.FeeValues[0], convergenceTolerance)
	assert.Zero(t, res.Delta)
}

func TestClientModeBackSolvesPercentageFee(t *testing.T) {
	// 1000 = media + 25% of media -> media = 800.
	res := Resolve(Input{
		Choice:      domain.BudgetChoiceClient,
		BudgetInput: 1000,
		Slots: [domain.MaxFeeSlots]SlotInput{
			{Option: &OptionInput{CalcType: domain.FeeCalcPercentage, CalcMode: domain.FeeModeDirect, Value: 25}},
		},
	})
	require.Equal(t, Resolved, res.Outcome)
	assert.InDelta(t, 800, res.MediaBudget, 0.1)
	assert.InDelta(t, 1000, res.ClientBudget, convergenceTolerance)
}

func TestClientBudgetIsMediaPlusFees(t *testing.T) {
	res := Resolve(Input{
		Choice:      domain.BudgetChoiceMedia,
		BudgetInput: 1234.56,
		Slots: [domain.MaxFeeSlots]SlotInput{
			{Option: &OptionInput{CalcType: domain.FeeCalcPercentage, CalcMode: domain.FeeModeDirect, Value: 10}},
			{Option: &OptionInput{CalcType: domain.FeeCalcPercentage, CalcMode: domain.FeeModeCumulative, Value: 5}},
			{Option: &OptionInput{CalcType: domain.FeeCalcFixed, Value: 75, Buffer: 10}},
			{Option: &OptionInput{CalcType: domain.FeeCalcVolume, Value: 0.02}, Volume: 1000},
		},
	})
	total := res.MediaBudget
	for _, v := range res.FeeValues {
		total += v
	}
	assert.InEpsilon(t, res.ClientBudget, total, 1e-9)
}

func TestCumulativePercentageUsesEarlierSlots(t *testing.T) {
	res := Resolve(Input{
		Choice:      domain.BudgetChoiceMedia,
		BudgetInput: 1000,
		Slots: [domain.MaxFeeSlots]SlotInput{
			{Option: &OptionInput{CalcType: domain.FeeCalcFixed, Value: 100}},
			{Option: &OptionInput{CalcType: domain.FeeCalcPercentage, CalcMode: domain.FeeModeCumulative, Value: 10}},
		},
	})
	// 10% of (1000 media + 100 fee 1) = 110.
	assert.InDelta(t, 110, res.FeeValues[1], 1e-9)
}

func TestFixedFeeIndependentOfVolume(t *testing.T) {
	base := Input{
		Choice:      domain.BudgetChoiceMedia,
		BudgetInput: 500,
		Slots: [domain.MaxFeeSlots]SlotInput{
			{Option: &OptionInput{CalcType: domain.FeeCalcFixed, Value: 42}},
		},
	}
	a := Resolve(base)
	base.Slots[0].Volume = 99999
	b := Resolve(base)
	assert.Equal(t, a.FeeValues[0], b.FeeValues[0])
}

func TestBufferAdjustsValue(t *testing.T) {
	res := Resolve(Input{
		Choice:      domain.BudgetChoiceMedia,
		BudgetInput: 100,
		Slots: [domain.MaxFeeSlots]SlotInput{
			{Option: &OptionInput{CalcType: domain.FeeCalcFixed, Value: 200, Buffer: 15}},
		},
	})
	assert.InDelta(t, 230, res.FeeValues[0], 1e-9)
}

func TestBonification(t *testing.T) {
	res := Resolve(Input{
		Choice:      domain.BudgetChoiceMedia,
		BudgetInput: 1000,
		MediaValue:  1200,
	})
	assert.Equal(t, 200.0, res.Bonification)
	assert.True(t, res.HasBonus)

	res = Resolve(Input{
		Choice:      domain.BudgetChoiceMedia,
		BudgetInput: 1000,
		MediaValue:  800,
	})
	assert.Zero(t, res.Bonification)
	assert.True(t, res.HasBonus)

	res = Resolve(Input{Choice: domain.BudgetChoiceMedia, BudgetInput: 1000})
	assert.False(t, res.HasBonus)
}

func TestMissingRateDegradesToOne(t *testing.T) {
	res := Resolve(Input{
		Choice:           domain.BudgetChoiceMedia,
		BudgetInput:      100,
		BuyCurrency:      "USD",
		CampaignCurrency: "CAD",
		Rates:            fakeRates{},
	})
	assert.Equal(t, 1.0, res.CurrencyRate)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "USD")
}

func TestKnownRateIsUsed(t *testing.T) {
	res := Resolve(Input{
		Choice:           domain.BudgetChoiceMedia,
		BudgetInput:      100,
		BuyCurrency:      "USD",
		CampaignCurrency: "CAD",
		Rates:            fakeRates{"USD/CAD": 1.35},
	})
	assert.Equal(t, 1.35, res.CurrencyRate)
	assert.Empty(t, res.Warnings)
}

func TestSameCurrencyRateIsOne(t *testing.T) {
	res := Resolve(Input{
		Choice:           domain.BudgetChoiceMedia,
		BuyCurrency:      "CAD",
		CampaignCurrency: "CAD",
		Rates:            fakeRates{"CAD/CAD": 42},
	})
	assert.Equal(t, 1.0, res.CurrencyRate)
}

func TestNonConvergentBackSolveReportsDelta(t *testing.T) {
	// A 100% direct percentage fee makes the target unreachable: every
	// candidate media budget m yields a client budget of 2m, and the
	// iteration oscillates between 0 and the input.
	res := Resolve(Input{
		Choice:      domain.BudgetChoiceClient,
		BudgetInput: 1000,
		Slots: [domain.MaxFeeSlots]SlotInput{
			{Option: &OptionInput{CalcType: domain.FeeCalcPercentage, CalcMode: domain.FeeModeDirect, Value: 100}},
		},
	})
	assert.Equal(t, Unconverged, res.Outcome)
	assert.NotZero(t, res.Delta)
	// Best-effort values are still populated.
	assert.False(t, math.IsNaN(res.ClientBudget))
}

func TestFeeExceedingClientBudgetIsUnconverged(t *testing.T) {
	// A fixed fee larger than the whole client budget pins the media
	// estimate at zero, a stable fixed point that still overshoots the
	// target. That must be reported as a residual, never as resolved.
	res := Resolve(Input{
		Choice:      domain.BudgetChoiceClient,
		BudgetInput: 50,
		Slots: [domain.MaxFeeSlots]SlotInput{
			{Option: &OptionInput{CalcType: domain.FeeCalcFixed, Value: 100}},
		},
	})
	assert.Equal(t, Unconverged, res.Outcome)
	assert.Zero(t, res.MediaBudget)
	assert.InDelta(t, 100, res.ClientBudget, convergenceTolerance)
	assert.InDelta(t, -50, res.Delta, convergenceTolerance)
}

func TestNegativeInputsCoercedToZero(t *testing.T) {
	res := Resolve(Input{
		Choice:      domain.BudgetChoiceMedia,
		BudgetInput: -500,
		UnitPrice:   -3,
		MediaValue:  -10,
		Slots: [domain.MaxFeeSlots]SlotInput{
			{Option: &OptionInput{CalcType: domain.FeeCalcFixed, Value: -100}},
		},
	})
	assert.Zero(t, res.MediaBudget)
	assert.Zero(t, res.ClientBudget)
	assert.Zero(t, res.FeeValues[0])
	assert.Zero(t, res.Bonification)
}

func TestUnitVolumeBackDerived(t *testing.T) {
	res := Resolve(Input{
		Choice:      domain.BudgetChoiceMedia,
		BudgetInput: 1000,
		UnitPrice:   2.5,
	})
	assert.InDelta(t, 400, res.UnitVolume, 1e-9)

	// An entered volume wins over derivation.
	res = Resolve(Input{
		Choice:      domain.BudgetChoiceMedia,
		BudgetInput: 1000,
		UnitPrice:   2.5,
		UnitVolume:  7,
	})
	assert.Equal(t, 7.0, res.UnitVolume)
}

func TestResolveIsIdempotent(t *testing.T) {
	in := Input{
		Choice:      domain.BudgetChoiceClient,
		BudgetInput: 1500,
		UnitPrice:   0.5,
		MediaValue:  1600,
		Slots: [domain.MaxFeeSlots]SlotInput{
			{Option: &OptionInput{CalcType: domain.FeeCalcPercentage, CalcMode: domain.FeeModeDirect, Value: 12}},
			{Option: &OptionInput{CalcType: domain.FeeCalcFixed, Value: 50}},
		},
	}
	assert.Equal(t, Resolve(in), Resolve(in))
}
