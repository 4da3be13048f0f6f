package tagcheck

import (
	"math"

	"adplan/internal/core/domain"
)

// Item is one taggable entity queued for classification: its contract
// fields and its snapshot history.
type Item struct {
	Type    domain.EntityType
	Live    map[string]any
	History []domain.TagSnapshot
}

// Progress tallies the three terminal tag states across a tactic set.
// Created counts up-to-date entities, ToModify entities needing a re-tag
// and ToCreate entities never tagged. Counts always sum to Total.
// Percentages are rounded to the nearest integer; an empty set is 100%
// to-create by convention, so the progress bar never divides by zero.
type Progress struct {
	Total    int `json:"total"`
	Created  int `json:"created"`
	ToModify int `json:"to_modify"`
	ToCreate int `json:"to_create"`

	CreatedPct  int `json:"created_pct"`
	ToModifyPct int `json:"to_modify_pct"`
	ToCreatePct int `json:"to_create_pct"`
}

// Aggregate classifies every item and produces the segmented progress
// counts. The walk is a full recomputation on every call; there is no
// incremental update.
func Aggregate(items []Item) Progress {
	var p Progress
	for _, item := range items {
		rec := Detect(item.Type, item.Live, item.History)
		switch rec.State {
		case StateUpToDate:
			p.Created++
		case StateNeedsRetag:
			p.ToModify++
		default:
			p.ToCreate++
		}
	}
	p.Total = len(items)

	if p.Total == 0 {
		p.ToCreatePct = 100
		return p
	}
	p.CreatedPct = pct(p.Created, p.Total)
	p.ToModifyPct = pct(p.ToModify, p.Total)
	p.ToCreatePct = pct(p.ToCreate, p.Total)
	return p
}

func pct(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}
