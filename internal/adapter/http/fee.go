package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// feeOptionPayload is the wire form of a fee option, using the FO_ field
// names of the document contract.
type feeOptionPayload struct {
	ID       string  `json:"id"`
	Name     string  `json:"FO_Option"`
	Value    float64 `json:"FO_Value"`
	Buffer   float64 `json:"FO_Buffer"`
	Editable bool    `json:"FO_Editable"`
}

type feePayload struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	CalcType string             `json:"calc_type"`
	CalcMode string             `json:"calc_mode"`
	Order    int                `json:"order"`
	Options  []feeOptionPayload `json:"options"`
}

// handleFeeCatalog returns a client's ordered fee definitions with their
// options, the data the budget drawer's fee pickers are built from.
func (h *Handler) handleFeeCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.svc.FeeCatalog(r.Context(), chi.URLParam(r, "clientID"))
	if err != nil {
		h.respondError(w, "fee catalog", err)
		return
	}
	out := make([]feePayload, 0, len(catalog))
	for _, fee := range catalog {
		p := feePayload{
			ID:       fee.Fee.ID,
			Name:     fee.Fee.Name,
			CalcType: string(fee.Fee.CalcType),
			CalcMode: string(fee.Fee.CalcMode),
			Order:    fee.Fee.Order,
		}
		for _, opt := range fee.Options {
			p.Options = append(p.Options, feeOptionPayload{
				ID:       opt.ID,
				Name:     opt.Name,
				Value:    opt.Value,
				Buffer:   opt.Buffer,
				Editable: opt.Editable,
			})
		}
		out = append(out, p)
	}
	h.writeJSON(w, http.StatusOK, out)
}
