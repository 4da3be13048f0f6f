package budget

import (
	"fmt"
	"math"

	"adplan/internal/core/domain"
)

// Resolution of a tactic's derived budget fields. The resolver is a pure
// function over a snapshot of tactic inputs plus the client's fee catalog
// and exchange rates. It never returns an error: malformed inputs are
// coerced to zero and reference-data gaps degrade with a warning, because
// planning must not be blocked by bad data.

const (
	// convergenceTolerance bounds the residual accepted when back-solving
	// the media budget from a client budget. Amounts are plain currency
	// units, so 0.01 is one cent.
	convergenceTolerance = 0.01

	// maxIterations caps the fixed-point back-solve. Interdependent
	// percentage fees can oscillate; past this many passes the resolver
	// gives up and reports the residual as a delta.
	maxIterations = 50
)

// Outcome states whether the back-solve converged. Media-mode resolutions
// are always Resolved.
type Outcome int

const (
	Resolved Outcome = iota
	Unconverged
)

// RateTable looks up a directional exchange rate. The second return is
// false when no rate is known for the pair.
type RateTable interface {
	Rate(from, to string) (float64, bool)
}

// OptionInput carries the fields of a selected fee option that the
// resolver needs.
type OptionInput struct {
	CalcType domain.FeeCalcType
	CalcMode domain.FeeCalcMode
	Value    float64
	Buffer   float64
}

// SlotInput is one of the tactic's ordered fee slots. A nil Option means
// the slot is unused (or its option reference dangles, which is treated
// the same way).
type SlotInput struct {
	Option *OptionInput
	Volume float64
}

// Input is everything the resolver reads. CampaignCurrency is the base
// currency of the campaign the tactic belongs to.
type Input struct {
	Choice           domain.BudgetChoice
	BudgetInput      float64
	UnitPrice        float64
	UnitVolume       float64
	MediaValue       float64
	BuyCurrency      string
	CampaignCurrency string
	Rates            RateTable
	Slots            [domain.MaxFeeSlots]SlotInput
}

// Result carries every derived field. FeeValues are in slot order, zero
// for unused slots. Delta is the residual between the requested client
// budget and the achieved one; it is zero whenever Outcome is Resolved.
type Result struct {
	Outcome      Outcome
	MediaBudget  float64
	ClientBudget float64
	UnitVolume   float64
	Bonification float64
	HasBonus     bool
	CurrencyRate float64
	Delta        float64
	FeeValues    [domain.MaxFeeSlots]float64
	Warnings     []string
}

// Resolve computes the authoritative media budget, client budget and
// per-slot fee values from raw tactic inputs. It is idempotent: the same
// input always yields the same result.
func Resolve(in Input) Result {
	in = sanitize(in)

	var res Result
	res.CurrencyRate, res.Warnings = resolveRate(in)

	switch in.Choice {
	case domain.BudgetChoiceClient:
		res.MediaBudget, res.FeeValues, res.Outcome = backSolve(in)
	default:
		// Media mode is the default: the entered amount is the media
		// spend itself.
		res.MediaBudget = in.BudgetInput
		res.FeeValues = computeFees(res.MediaBudget, in.Slots)
		res.Outcome = Resolved
	}

	res.ClientBudget = res.MediaBudget + sum(res.FeeValues)
	if in.Choice == domain.BudgetChoiceClient {
		res.Delta = in.BudgetInput - res.ClientBudget
		if math.Abs(res.Delta) <= convergenceTolerance {
			res.Delta = 0
		}
	}

	res.UnitVolume = in.UnitVolume
	if res.UnitVolume == 0 && in.UnitPrice > 0 {
		res.UnitVolume = in.BudgetInput / in.UnitPrice
	}

	if in.MediaValue > res.MediaBudget {
		res.Bonification = in.MediaValue - res.MediaBudget
	}
	res.HasBonus = in.MediaValue > 0

	return res
}

// resolveRate returns 1 when the tactic buys in the campaign currency and
// the table rate otherwise. A missing rate degrades to 1 with a warning
// rather than failing the resolution.
func resolveRate(in Input) (float64, []string) {
	if in.BuyCurrency == "" || in.BuyCurrency == in.CampaignCurrency {
		return 1, nil
	}
	if in.Rates != nil {
		if rate, ok := in.Rates.Rate(in.BuyCurrency, in.CampaignCurrency); ok && rate > 0 {
			return rate, nil
		}
	}
	warn := fmt.Sprintf("no exchange rate for %s to %s, defaulting to 1", in.BuyCurrency, in.CampaignCurrency)
	return 1, []string{warn}
}

// backSolve derives the media budget from a client-mode budget input by
// bounded fixed-point iteration. Percentage fees depend on the partially
// resolved base, so each pass re-evaluates the whole fee chain against the
// current media estimate and subtracts it from the target.
func backSolve(in Input) (float64, [domain.MaxFeeSlots]float64, Outcome) {
	media := in.BudgetInput
	var fees [domain.MaxFeeSlots]float64
	for i := 0; i < maxIterations; i++ {
		fees = computeFees(media, in.Slots)
		next := in.BudgetInput - sum(fees)
		if next < 0 {
			next = 0
		}
		if math.Abs(next-media) <= convergenceTolerance {
			fees = computeFees(next, in.Slots)
			// A fixed point can still miss the target: a fee larger than
			// the whole budget pins the media estimate at zero while the
			// achieved client budget overshoots. That is a residual, not
			// a resolution.
			if math.Abs(in.BudgetInput-(next+sum(fees))) > convergenceTolerance {
				return next, fees, Unconverged
			}
			return next, fees, Resolved
		}
		media = next
	}
	return media, computeFees(media, in.Slots), Unconverged
}

// computeFees evaluates the five fee slots in order against the given
// media budget. Earlier slot values feed the base of later cumulative
// percentage fees.
func computeFees(mediaBudget float64, slots [domain.MaxFeeSlots]SlotInput) [domain.MaxFeeSlots]float64 {
	var values [domain.MaxFeeSlots]float64
	resolved := 0.0
	for i, slot := range slots {
		opt := slot.Option
		if opt == nil {
			continue
		}
		var v float64
		switch opt.CalcType {
		case domain.FeeCalcFixed:
			v = opt.Value
		case domain.FeeCalcPercentage:
			base := mediaBudget
			if opt.CalcMode == domain.FeeModeCumulative {
				base += resolved
			}
			v = base * opt.Value / 100
		case domain.FeeCalcVolume:
			v = slot.Volume * opt.Value
		}
		v *= 1 + opt.Buffer/100
		if v < 0 {
			v = 0
		}
		values[i] = v
		resolved += v
	}
	return values
}

// sanitize coerces malformed numeric inputs to zero so the resolver never
// has to fail.
func sanitize(in Input) Input {
	in.BudgetInput = nonNegative(in.BudgetInput)
	in.UnitPrice = nonNegative(in.UnitPrice)
	in.UnitVolume = nonNegative(in.UnitVolume)
	in.MediaValue = nonNegative(in.MediaValue)
	for i := range in.Slots {
		in.Slots[i].Volume = nonNegative(in.Slots[i].Volume)
		if opt := in.Slots[i].Option; opt != nil {
			o := *opt
			o.Value = nonNegative(o.Value)
			in.Slots[i].Option = &o
		}
	}
	return in
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func sum(values [domain.MaxFeeSlots]float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
