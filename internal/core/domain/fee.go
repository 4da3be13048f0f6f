package domain

// FeeCalcType determines how a fee option's value turns into money.
type FeeCalcType string

const (
	// FeeCalcFixed charges the option's flat value regardless of budget
	// or volume.
	FeeCalcFixed FeeCalcType = "fixed"
	// FeeCalcPercentage charges value percent of a computed base.
	FeeCalcPercentage FeeCalcType = "percentage"
	// FeeCalcVolume charges value per entered unit.
	FeeCalcVolume FeeCalcType = "volume"
)

// FeeCalcMode determines which base a percentage fee applies against.
type FeeCalcMode string

const (
	// FeeModeDirect applies against the media budget alone.
	FeeModeDirect FeeCalcMode = "direct"
	// FeeModeCumulative applies against the media budget plus the values
	// already resolved for earlier fee slots.
	FeeModeCumulative FeeCalcMode = "cumulative"
)

// Fee is a client-scoped fee definition. Order fixes its position in the
// fee chain, which matters for cumulative percentage fees.
type Fee struct {
	ID       string
	ClientID string
	Name     string
	CalcType FeeCalcType
	CalcMode FeeCalcMode
	Order    int
}

// FeeOption is a named preset under a fee definition. Value is interpreted
// per the parent fee's CalcType (flat amount, percent, or per-unit price).
// Buffer is a percentage adjustment applied multiplicatively on top of the
// computed value. Editable marks options whose value the planner may
// override in the console.
type FeeOption struct {
	ID       string
	FeeID    string
	Name     string
	Value    float64
	Buffer   float64
	Editable bool
}

// FeeWithOptions bundles a fee definition with its ordered options, as
// served by the fee catalog.
type FeeWithOptions struct {
	Fee     Fee
	Options []FeeOption
}
