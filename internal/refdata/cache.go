// Package refdata holds the read-mostly reference lists the console needs
// on every resolution: exchange rates and partner shortcodes. The cache is
// warmed once at startup before any handler runs and then read
// concurrently; the xsync maps keep an explicit refresh safe as well.
package refdata

import (
	"context"
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"

	"adplan/internal/core/domain"
)

// Source is the slice of the repository the cache warms from.
type Source interface {
	ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error)
	ListPartners(ctx context.Context) ([]domain.Partner, error)
}

// Cache is the in-memory reference-data store.
type Cache struct {
	rates    *xsync.Map[string, float64]
	partners *xsync.Map[string, domain.Partner]
}

// New returns an empty cache. Call Warm before serving requests.
func New() *Cache {
	return &Cache{
		rates:    xsync.NewMap[string, float64](),
		partners: xsync.NewMap[string, domain.Partner](),
	}
}

// Warm loads all reference lists from the source. It replaces entries in
// place, so it can also be called to refresh a running cache.
func (c *Cache) Warm(ctx context.Context, src Source) error {
	rates, err := src.ListExchangeRates(ctx)
	if err != nil {
		return fmt.Errorf("warm exchange rates: %w", err)
	}
	for _, r := range rates {
		c.rates.Store(rateKey(r.ClientID, r.From, r.To), r.Rate)
	}

	partners, err := src.ListPartners(ctx)
	if err != nil {
		return fmt.Errorf("warm partners: %w", err)
	}
	for _, p := range partners {
		c.partners.Store(p.ID, p)
	}
	return nil
}

// Partner resolves a partner reference entry by id.
func (c *Cache) Partner(id string) (domain.Partner, bool) {
	return c.partners.Load(id)
}

// ClientRates returns a client-scoped view implementing the budget
// resolver's rate table.
func (c *Cache) ClientRates(clientID string) ClientRates {
	return ClientRates{cache: c, clientID: clientID}
}

// ClientRates restricts rate lookups to one client's table.
type ClientRates struct {
	cache    *Cache
	clientID string
}

// Rate returns the directional rate for a currency pair, or false when
// none is known.
func (v ClientRates) Rate(from, to string) (float64, bool) {
	return v.cache.rates.Load(rateKey(v.clientID, from, to))
}

func rateKey(clientID, from, to string) string {
	return clientID + "/" + from + "/" + to
}
