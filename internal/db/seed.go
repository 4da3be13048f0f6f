package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"adplan/internal/core/domain"
)

// Seed inserts a demo client with one campaign, a fee catalog, exchange
// rates and a small plan hierarchy so the console has data to show.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	clientID := uuid.NewString()
	if _, err := pool.Exec(ctx, `INSERT INTO clients (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		clientID, "Demo Client"); err != nil {
		return err
	}

	// Fee catalog. Chain order matters for cumulative fees.
	type seedOption struct {
		name   string
		value  float64
		buffer float64
	}
	feeDefs := []struct {
		name     string
		calcType domain.FeeCalcType
		calcMode domain.FeeCalcMode
		options  []seedOption
	}{
		{"Agency Commission", domain.FeeCalcPercentage, domain.FeeModeDirect,
			[]seedOption{{"Standard 12%", 12, 0}, {"Reduced 8%", 8, 0}}},
		{"Tech Fee", domain.FeeCalcPercentage, domain.FeeModeCumulative,
			[]seedOption{{"DSP 5%", 5, 0}}},
		{"Ad Serving", domain.FeeCalcVolume, domain.FeeModeDirect,
			[]seedOption{{"CM360 CPM", 0.05, 10}}},
		{"Setup Fee", domain.FeeCalcFixed, domain.FeeModeDirect,
			[]seedOption{{"Flat 500", 500, 0}}},
	}
	for i, def := range feeDefs {
		feeID := uuid.NewString()
		if _, err := pool.Exec(ctx, `INSERT INTO fees (id, client_id, name, calc_type, calc_mode, ord)
			VALUES ($1,$2,$3,$4,$5,$6)`, feeID, clientID, def.name, def.calcType, def.calcMode, i); err != nil {
			return err
		}
		for _, opt := range def.options {
			if _, err := pool.Exec(ctx, `INSERT INTO fee_options (id, fee_id, name, value, buffer, editable)
				VALUES ($1,$2,$3,$4,$5,$6)`, uuid.NewString(), feeID, opt.name, opt.value, opt.buffer, opt.buffer == 0); err != nil {
				return err
			}
		}
	}

	rates := []struct {
		from, to string
		rate     float64
	}{
		{"USD", "CAD", 1.35},
		{"CAD", "USD", 0.74},
		{"EUR", "CAD", 1.47},
	}
	for _, r := range rates {
		if _, err := pool.Exec(ctx, `INSERT INTO exchange_rates (id, client_id, from_currency, to_currency, rate)
			VALUES ($1,$2,$3,$4,$5) ON CONFLICT DO NOTHING`, uuid.NewString(), clientID, r.from, r.to, r.rate); err != nil {
			return err
		}
	}

	partners := []struct{ shortcode, name string }{
		{"GOO", "Google"},
		{"MET", "Meta"},
		{"TTD", "The Trade Desk"},
		{"BEL", "Bell Media"},
	}
	for _, p := range partners {
		if _, err := pool.Exec(ctx, `INSERT INTO partners (id, shortcode, display_name, type)
			VALUES ($1,$2,$3,'publisher') ON CONFLICT DO NOTHING`, uuid.NewString(), p.shortcode, p.name); err != nil {
			return err
		}
	}

	// Campaign -> version -> tab -> section -> tactics -> placements -> creatives.
	campaignID := uuid.NewString()
	start := time.Now().AddDate(0, 0, -7)
	end := time.Now().AddDate(0, 3, 0)
	if _, err := pool.Exec(ctx, `INSERT INTO campaigns (id, client_id, name, currency, start_date, end_date)
		VALUES ($1,$2,$3,'CAD',$4,$5)`, campaignID, clientID, "Demo Campaign Q3", start, end); err != nil {
		return err
	}
	versionID := uuid.NewString()
	if _, err := pool.Exec(ctx, `INSERT INTO campaign_versions (id, campaign_id, name, is_official)
		VALUES ($1,$2,'V1',true)`, versionID, campaignID); err != nil {
		return err
	}
	tabID := uuid.NewString()
	if _, err := pool.Exec(ctx, `INSERT INTO tabs (id, version_id, name, ord) VALUES ($1,$2,'Digital',0)`,
		tabID, versionID); err != nil {
		return err
	}
	sectionID := uuid.NewString()
	if _, err := pool.Exec(ctx, `INSERT INTO sections (id, tab_id, name, color, ord)
		VALUES ($1,$2,'Display','#4F86C6',0)`, sectionID, tabID); err != nil {
		return err
	}

	bucketID := uuid.NewString()
	if _, err := pool.Exec(ctx, `INSERT INTO buckets (id, version_id, name, target, color, publishers)
		VALUES ($1,$2,'Programmatic',50000,'#E8A33D',$3)`, bucketID, versionID, []string{"GOO", "TTD"}); err != nil {
		return err
	}

	emptyFees, _ := json.Marshal(make([]domain.FeeSlot, domain.MaxFeeSlots))
	for i := 0; i < 3; i++ {
		tacticID := uuid.NewString()
		if _, err := pool.Exec(ctx, `INSERT INTO tactics
			(id, section_id, label, status, start_date, end_date, ord,
			 budget_choice, budget_input, media_budget, client_budget, buy_currency, currency_rate, fees,
			 buy_type, publisher, cm360_rate, cm360_volume, bucket_id)
			VALUES ($1,$2,$3,'planned',$4,$5,$6,'media',$7,$7,$7,'CAD',1,$8,'CPM',$9,$10,$11,$12)`,
			tacticID, sectionID, fmt.Sprintf("Display tactic %d", i+1), start, end, i,
			float64(10000*(i+1)), emptyFees, "GOO", 2.5, float64(100000*(i+1)), bucketID); err != nil {
			return err
		}
		for j := 0; j < 2; j++ {
			placementID := uuid.NewString()
			if _, err := pool.Exec(ctx, `INSERT INTO placements (id, tactic_id, label, tag_start, tag_end, taxonomy, tagged, ord)
				VALUES ($1,$2,$3,$4,$5,'display|banner|300x250',$6,$7)`,
				placementID, tacticID, fmt.Sprintf("Placement %d-%d", i+1, j+1), start, end, j == 0, j); err != nil {
				return err
			}
			if _, err := pool.Exec(ctx, `INSERT INTO creatives (id, placement_id, label, tag_start, tag_end, format, weight, ord)
				VALUES ($1,$2,$3,$4,$5,'300x250',1,0)`,
				uuid.NewString(), placementID, fmt.Sprintf("Creative %d-%d", i+1, j+1), start, end); err != nil {
				return err
			}
		}
	}
	return nil
}
