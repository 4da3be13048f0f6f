package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"adplan/internal/core/domain"
	"adplan/internal/core/port"
)

// tacticPayload is the wire form of a tactic. Field names follow the
// TC_ document contract the console frontend already speaks; the five fee
// slots are flattened the same way the store laid them out.
type tacticPayload struct {
	ID        string    `json:"id,omitempty"`
	SectionID string    `json:"section_id"`
	Status    string    `json:"TC_Status"`
	StartDate time.Time `json:"TC_Start_Date"`
	EndDate   time.Time `json:"TC_End_Date"`
	Order     int       `json:"TC_Order"`
	BucketID  *string   `json:"TC_Bucket,omitempty"`

	Label        string  `json:"TC_Label"`
	BudgetChoice string  `json:"TC_BudgetChoice"`
	BudgetInput  float64 `json:"TC_BudgetInput"`
	UnitPrice    float64 `json:"TC_Unit_Price"`
	UnitVolume   float64 `json:"TC_Unit_Volume"`
	MediaValue   float64 `json:"TC_Media_Value"`
	MediaBudget  float64 `json:"TC_Media_Budget"`
	ClientBudget float64 `json:"TC_Client_Budget"`
	Bonification float64 `json:"TC_Bonification"`
	HasBonus     bool    `json:"TC_Has_Bonus"`
	BuyCurrency  string  `json:"TC_BuyCurrency"`
	CurrencyRate float64 `json:"TC_Currency_Rate"`
	Delta        float64 `json:"TC_Delta"`

	BuyType     string  `json:"TC_Buy_Type"`
	Publisher   string  `json:"TC_Publisher"`
	CM360Rate   float64 `json:"TC_CM360_Rate"`
	CM360Volume float64 `json:"TC_CM360_Volume"`

	Fee1Option string  `json:"TC_Fee_1_Option"`
	Fee1Volume float64 `json:"TC_Fee_1_Volume"`
	Fee1Value  float64 `json:"TC_Fee_1_Value"`
	Fee2Option string  `json:"TC_Fee_2_Option"`
	Fee2Volume float64 `json:"TC_Fee_2_Volume"`
	Fee2Value  float64 `json:"TC_Fee_2_Value"`
	Fee3Option string  `json:"TC_Fee_3_Option"`
	Fee3Volume float64 `json:"TC_Fee_3_Volume"`
	Fee3Value  float64 `json:"TC_Fee_3_Value"`
	Fee4Option string  `json:"TC_Fee_4_Option"`
	Fee4Volume float64 `json:"TC_Fee_4_Volume"`
	Fee4Value  float64 `json:"TC_Fee_4_Value"`
	Fee5Option string  `json:"TC_Fee_5_Option"`
	Fee5Volume float64 `json:"TC_Fee_5_Volume"`
	Fee5Value  float64 `json:"TC_Fee_5_Value"`

	Warnings []string `json:"warnings,omitempty"`
}

func (p tacticPayload) toDomain() domain.Tactic {
	t := domain.Tactic{
		ID:           p.ID,
		SectionID:    p.SectionID,
		Label:        p.Label,
		Status:       p.Status,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Order:        p.Order,
		BudgetChoice: domain.BudgetChoice(p.BudgetChoice),
		BudgetInput:  p.BudgetInput,
		UnitPrice:    p.UnitPrice,
		UnitVolume:   p.UnitVolume,
		MediaValue:   p.MediaValue,
		BuyCurrency:  p.BuyCurrency,
		BuyType:      p.BuyType,
		Publisher:    p.Publisher,
		CM360Rate:    p.CM360Rate,
		CM360Volume:  p.CM360Volume,
		BucketID:     p.BucketID,
	}
	t.Fees = [domain.MaxFeeSlots]domain.FeeSlot{
		{OptionID: p.Fee1Option, Volume: p.Fee1Volume},
		{OptionID: p.Fee2Option, Volume: p.Fee2Volume},
		{OptionID: p.Fee3Option, Volume: p.Fee3Volume},
		{OptionID: p.Fee4Option, Volume: p.Fee4Volume},
		{OptionID: p.Fee5Option, Volume: p.Fee5Volume},
	}
	return t
}

func fromDomain(t domain.Tactic, warnings []string) tacticPayload {
	return tacticPayload{
		ID:           t.ID,
		SectionID:    t.SectionID,
		Status:       t.Status,
		StartDate:    t.StartDate,
		EndDate:      t.EndDate,
		Order:        t.Order,
		BucketID:     t.BucketID,
		Label:        t.Label,
		BudgetChoice: string(t.BudgetChoice),
		BudgetInput:  t.BudgetInput,
		UnitPrice:    t.UnitPrice,
		UnitVolume:   t.UnitVolume,
		MediaValue:   t.MediaValue,
		MediaBudget:  t.MediaBudget,
		ClientBudget: t.ClientBudget,
		Bonification: t.Bonification,
		HasBonus:     t.HasBonus,
		BuyCurrency:  t.BuyCurrency,
		CurrencyRate: t.CurrencyRate,
		Delta:        t.Delta,
		BuyType:      t.BuyType,
		Publisher:    t.Publisher,
		CM360Rate:    t.CM360Rate,
		CM360Volume:  t.CM360Volume,
		Fee1Option: t.Fees[0].OptionID, Fee1Volume: t.Fees[0].Volume, Fee1Value: t.Fees[0].Value,
		Fee2Option: t.Fees[1].OptionID, Fee2Volume: t.Fees[1].Volume, Fee2Value: t.Fees[1].Value,
		Fee3Option: t.Fees[2].OptionID, Fee3Volume: t.Fees[2].Volume, Fee3Value: t.Fees[2].Value,
		Fee4Option: t.Fees[3].OptionID, Fee4Volume: t.Fees[3].Volume, Fee4Value: t.Fees[3].Value,
		Fee5Option: t.Fees[4].OptionID, Fee5Volume: t.Fees[4].Volume, Fee5Value: t.Fees[4].Value,
		Warnings:   warnings,
	}
}

// handleResolveBudget recomputes derived budget fields for a draft tactic
// without persisting it. It backs the live recomputation in the budget
// drawer: every field edit posts the draft, the response carries the full
// derived state.
func (h *Handler) handleResolveBudget(w http.ResponseWriter, r *http.Request) {
	versionID := chi.URLParam(r, "versionID")
	var payload tacticPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	res, err := h.svc.ResolveBudget(r.Context(), versionID, payload.toDomain())
	if err != nil {
		h.respondError(w, "resolve budget", err)
		return
	}
	draft := payload.toDomain()
	draft.MediaBudget = res.MediaBudget
	draft.ClientBudget = res.ClientBudget
	draft.UnitVolume = res.UnitVolume
	draft.Bonification = res.Bonification
	draft.HasBonus = res.HasBonus
	draft.CurrencyRate = res.CurrencyRate
	draft.Delta = res.Delta
	for i := range draft.Fees {
		draft.Fees[i].Value = res.FeeValues[i]
	}
	h.writeJSON(w, http.StatusOK, fromDomain(draft, res.Warnings))
}

// handleSaveTactic resolves and persists a tactic. POST creates, PUT with a
// {tacticID} updates; in both cases derived fields come from the resolver,
// never from the request.
func (h *Handler) handleSaveTactic(w http.ResponseWriter, r *http.Request) {
	versionID := chi.URLParam(r, "versionID")
	var payload tacticPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if id := chi.URLParam(r, "tacticID"); id != "" {
		payload.ID = id
	}
	saved, warnings, err := h.svc.SaveTactic(r.Context(), versionID, payload.toDomain())
	if err != nil {
		h.respondError(w, "save tactic", err)
		return
	}
	h.writeJSON(w, http.StatusOK, fromDomain(*saved, warnings))
}

// handleDeleteTactic removes a tactic and everything under it.
func (h *Handler) handleDeleteTactic(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTactic(r.Context(), chi.URLParam(r, "tacticID")); err != nil {
		h.respondError(w, "delete tactic", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReorderTactics applies a new display order to a section's tactics.
func (h *Handler) handleReorderTactics(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderedIDs []string `json:"ordered_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if len(body.OrderedIDs) == 0 {
		http.Error(w, "ordered_ids is required", http.StatusBadRequest)
		return
	}
	if err := h.svc.ReorderTactics(r.Context(), chi.URLParam(r, "sectionID"), body.OrderedIDs); err != nil {
		h.respondError(w, "reorder tactics", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondError maps port sentinels to HTTP statuses. Anything unknown is
// logged and collapsed to a 500; the UI only shows one banner string
// either way.
func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, port.ErrTacticNotFound),
		errors.Is(err, port.ErrBucketNotFound),
		errors.Is(err, port.ErrVersionNotFound),
		errors.Is(err, port.ErrEntityNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, port.ErrSnapshotConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error(op+" error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
