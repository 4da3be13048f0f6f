package refdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adplan/internal/core/domain"
)

type memSource struct {
	rates    []domain.ExchangeRate
	partners []domain.Partner
}

func (s memSource) ListExchangeRates(context.Context) ([]domain.ExchangeRate, error) {
	return s.rates, nil
}

func (s memSource) ListPartners(context.Context) ([]domain.Partner, error) {
	return s.partners, nil
}

func TestWarmAndLookup(t *testing.T) {
	c := New()
	err := c.Warm(context.Background(), memSource{
		rates: []domain.ExchangeRate{
			{ClientID: "c1", From: "USD", To: "CAD", Rate: 1.35},
		},
		partners: []domain.Partner{
			{ID: "p1", Shortcode: "GOO", DisplayName: "Google"},
		},
	})
	require.NoError(t, err)

	rate, ok := c.ClientRates("c1").Rate("USD", "CAD")
	require.True(t, ok)
	assert.Equal(t, 1.35, rate)

	// Rates are directional and client-scoped.
	_, ok = c.ClientRates("c1").Rate("CAD", "USD")
	assert.False(t, ok)
	_, ok = c.ClientRates("c2").Rate("USD", "CAD")
	assert.False(t, ok)

	p, ok := c.Partner("p1")
	require.True(t, ok)
	assert.Equal(t, "Google", p.DisplayName)
}

func TestWarmReplacesEntries(t *testing.T) {
	c := New()
	ctx := context.Background()
	require.NoError(t, c.Warm(ctx, memSource{
		rates: []domain.ExchangeRate{{ClientID: "c1", From: "USD", To: "CAD", Rate: 1.30}},
	}))
	require.NoError(t, c.Warm(ctx, memSource{
		rates: []domain.ExchangeRate{{ClientID: "c1", From: "USD", To: "CAD", Rate: 1.40}},
	}))

	rate, ok := c.ClientRates("c1").Rate("USD", "CAD")
	require.True(t, ok)
	assert.Equal(t, 1.40, rate)
}
