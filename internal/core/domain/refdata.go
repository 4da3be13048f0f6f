package domain

// ExchangeRate converts amounts between two currencies for a client's
// campaigns. Rates are directional: CAD→USD and USD→CAD are separate rows.
type ExchangeRate struct {
	ID       string
	ClientID string
	From     string
	To       string
	Rate     float64
}

// Partner is a publisher/partner reference entry resolved from its
// shortcode in plan exports and tag labels.
type Partner struct {
	ID          string
	Shortcode   string
	DisplayName string
	Type        string
}
