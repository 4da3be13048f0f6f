package domain

import "time"

// BudgetChoice selects which budget the planner enters by hand. In media
// mode the entered amount is the media spend itself; in client mode the
// entered amount is the client-facing spend and the media spend is
// back-solved from the fee chain.
type BudgetChoice string

const (
	BudgetChoiceMedia  BudgetChoice = "media"
	BudgetChoiceClient BudgetChoice = "client"
)

// MaxFeeSlots is the number of ordered fee slots on a tactic. Slot order is
// significant: a percentage fee in slot N may apply against the media budget
// plus the values resolved for slots 1..N-1.
const MaxFeeSlots = 5

// FeeSlot is one of the ordered fee selections on a tactic. OptionID refers
// to a FeeOption in the client's fee catalog; an empty OptionID means the
// slot is unused. Volume is the user-entered quantity for volume-type fees.
// Value is derived by the budget resolver and persisted with the tactic.
type FeeSlot struct {
	OptionID string  `json:"option_id"`
	Volume   float64 `json:"volume"`
	Value    float64 `json:"value"`
}

// Tactic represents one line of media buy inside a section. Monetary fields
// are expressed in the buy currency; CurrencyRate converts them to the
// campaign currency. Derived fields (MediaBudget, ClientBudget,
// Bonification, Delta, fee values) are owned by the budget resolver and
// recomputed on every save.
type Tactic struct {
	ID        string
	SectionID string
	Label     string
	Status    string // planned, active, completed, cancelled
	StartDate time.Time
	EndDate   time.Time
	Order     int

	BudgetChoice BudgetChoice
	BudgetInput  float64
	UnitPrice    float64
	UnitVolume   float64
	MediaValue   float64
	MediaBudget  float64
	ClientBudget float64
	Bonification float64
	HasBonus     bool
	BuyCurrency  string
	CurrencyRate float64
	Delta        float64

	Fees [MaxFeeSlots]FeeSlot

	BuyType     string
	Publisher   string
	CM360Rate   float64
	CM360Volume float64

	// BucketID assigns the tactic to a budget bucket of the campaign
	// version; nil when unassigned.
	BucketID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TagFields returns the CM360 tag contract view of the tactic: exactly the
// fields the tagging workflow snapshots and the change detector compares.
func (t Tactic) TagFields() map[string]any {
	return map[string]any{
		"TC_Label":        t.Label,
		"TC_Media_Budget": t.MediaBudget,
		"TC_BuyCurrency":  t.BuyCurrency,
		"TC_CM360_Rate":   t.CM360Rate,
		"TC_CM360_Volume": t.CM360Volume,
		"TC_Buy_Type":     t.BuyType,
		"TC_Publisher":    t.Publisher,
	}
}
