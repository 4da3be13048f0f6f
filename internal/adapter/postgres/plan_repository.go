package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"adplan/internal/core/domain"
	"adplan/internal/core/port"
)

// PlanRepository implements port.PlanRepository using pgxpool. Fee slots
// are stored as a jsonb array on the tactic row; snapshot histories live
// in cm360_snapshots keyed by (entity_type, entity_id, version).
type PlanRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository returns a new repository instance.
func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

const tacticColumns = `
	id, section_id, label, status, start_date, end_date, ord,
	budget_choice, budget_input, unit_price, unit_volume, media_value,
	media_budget, client_budget, bonification, has_bonus,
	buy_currency, currency_rate, delta, fees,
	buy_type, publisher, cm360_rate, cm360_volume, bucket_id,
	created_at, updated_at`

func scanTactic(row pgx.Row) (*domain.Tactic, error) {
	var t domain.Tactic
	var feesRaw []byte
	err := row.Scan(
		&t.ID, &t.SectionID, &t.Label, &t.Status, &t.StartDate, &t.EndDate, &t.Order,
		&t.BudgetChoice, &t.BudgetInput, &t.UnitPrice, &t.UnitVolume, &t.MediaValue,
		&t.MediaBudget, &t.ClientBudget, &t.Bonification, &t.HasBonus,
		&t.BuyCurrency, &t.CurrencyRate, &t.Delta, &feesRaw,
		&t.BuyType, &t.Publisher, &t.CM360Rate, &t.CM360Volume, &t.BucketID,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	var slots []domain.FeeSlot
	if err = json.Unmarshal(feesRaw, &slots); err != nil {
		return nil, fmt.Errorf("decode fee slots: %w", err)
	}
	copy(t.Fees[:], slots)
	return &t, nil
}

// GetCampaignForVersion returns the campaign owning a version.
func (r *PlanRepository) GetCampaignForVersion(ctx context.Context, versionID string) (*domain.Campaign, error) {
	var c domain.Campaign
	err := r.pool.QueryRow(ctx, `
		SELECT c.id, c.client_id, c.name, c.currency, c.start_date, c.end_date, c.created_at, c.updated_at
		FROM campaigns c
		JOIN campaign_versions v ON v.campaign_id = c.id
		WHERE v.id = $1`, versionID).
		Scan(&c.ID, &c.ClientID, &c.Name, &c.Currency, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrVersionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetTactic returns a tactic by id.
func (r *PlanRepository) GetTactic(ctx context.Context, id string) (*domain.Tactic, error) {
	t, err := scanTactic(r.pool.QueryRow(ctx, `SELECT`+tacticColumns+` FROM tactics WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrTacticNotFound
	}
	return t, err
}

// SaveTactic upserts a tactic row including resolver-derived fields.
func (r *PlanRepository) SaveTactic(ctx context.Context, t *domain.Tactic) error {
	feesRaw, err := json.Marshal(t.Fees[:])
	if err != nil {
		return fmt.Errorf("encode fee slots: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO tactics (
			id, section_id, label, status, start_date, end_date, ord,
			budget_choice, budget_input, unit_price, unit_volume, media_value,
			media_budget, client_budget, bonification, has_bonus,
			buy_currency, currency_rate, delta, fees,
			buy_type, publisher, cm360_rate, cm360_volume, bucket_id,
			created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
		ON CONFLICT (id) DO UPDATE SET
			section_id = EXCLUDED.section_id,
			label = EXCLUDED.label,
			status = EXCLUDED.status,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			ord = EXCLUDED.ord,
			budget_choice = EXCLUDED.budget_choice,
			budget_input = EXCLUDED.budget_input,
			unit_price = EXCLUDED.unit_price,
			unit_volume = EXCLUDED.unit_volume,
			media_value = EXCLUDED.media_value,
			media_budget = EXCLUDED.media_budget,
			client_budget = EXCLUDED.client_budget,
			bonification = EXCLUDED.bonification,
			has_bonus = EXCLUDED.has_bonus,
			buy_currency = EXCLUDED.buy_currency,
			currency_rate = EXCLUDED.currency_rate,
			delta = EXCLUDED.delta,
			fees = EXCLUDED.fees,
			buy_type = EXCLUDED.buy_type,
			publisher = EXCLUDED.publisher,
			cm360_rate = EXCLUDED.cm360_rate,
			cm360_volume = EXCLUDED.cm360_volume,
			bucket_id = EXCLUDED.bucket_id,
			updated_at = EXCLUDED.updated_at`,
		t.ID, t.SectionID, t.Label, t.Status, t.StartDate, t.EndDate, t.Order,
		t.BudgetChoice, t.BudgetInput, t.UnitPrice, t.UnitVolume, t.MediaValue,
		t.MediaBudget, t.ClientBudget, t.Bonification, t.HasBonus,
		t.BuyCurrency, t.CurrencyRate, t.Delta, feesRaw,
		t.BuyType, t.Publisher, t.CM360Rate, t.CM360Volume, t.BucketID,
		t.CreatedAt, t.UpdatedAt)
	return err
}

// DeleteTactic removes a tactic; placements and creatives go with it via
// foreign-key cascade. Snapshot histories of removed entities are left in
// place, the tagging workflow owns their cleanup.
func (r *PlanRepository) DeleteTactic(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tactics WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrTacticNotFound
	}
	return nil
}

// ListTactics returns a version's tactics in display order.
func (r *PlanRepository) ListTactics(ctx context.Context, versionID string) ([]domain.Tactic, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.section_id, t.label, t.status, t.start_date, t.end_date, t.ord,
		       t.budget_choice, t.budget_input, t.unit_price, t.unit_volume, t.media_value,
		       t.media_budget, t.client_budget, t.bonification, t.has_bonus,
		       t.buy_currency, t.currency_rate, t.delta, t.fees,
		       t.buy_type, t.publisher, t.cm360_rate, t.cm360_volume, t.bucket_id,
		       t.created_at, t.updated_at
		FROM tactics t
		JOIN sections s ON t.section_id = s.id
		JOIN tabs tb ON s.tab_id = tb.id
		WHERE tb.version_id = $1
		ORDER BY tb.ord, s.ord, t.ord`, versionID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Tactic, error) {
		t, err := scanTactic(row)
		if err != nil {
			return domain.Tactic{}, err
		}
		return *t, nil
	})
}

// ReorderTactics rewrites order indexes inside one transaction so a failed
// reorder leaves the previous order intact.
func (r *PlanRepository) ReorderTactics(ctx context.Context, sectionID string, orderedIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()
	for i, id := range orderedIDs {
		var tag pgconn.CommandTag
		tag, err = tx.Exec(ctx, `UPDATE tactics SET ord = $1 WHERE id = $2 AND section_id = $3`, i, id, sectionID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			err = fmt.Errorf("%w: %s", port.ErrTacticNotFound, id)
			return err
		}
	}
	return nil
}

// GetPlacement returns a placement by id.
func (r *PlanRepository) GetPlacement(ctx context.Context, id string) (*domain.Placement, error) {
	var p domain.Placement
	err := r.pool.QueryRow(ctx, `
		SELECT id, tactic_id, label, tag_start, tag_end, taxonomy, tagged, ord
		FROM placements WHERE id = $1`, id).
		Scan(&p.ID, &p.TacticID, &p.Label, &p.TagStart, &p.TagEnd, &p.Taxonomy, &p.Tagged, &p.Order)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrEntityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetCreative returns a creative by id.
func (r *PlanRepository) GetCreative(ctx context.Context, id string) (*domain.Creative, error) {
	var c domain.Creative
	err := r.pool.QueryRow(ctx, `
		SELECT id, placement_id, label, tag_start, tag_end, format, weight, ord
		FROM creatives WHERE id = $1`, id).
		Scan(&c.ID, &c.PlacementID, &c.Label, &c.TagStart, &c.TagEnd, &c.Format, &c.Weight, &c.Order)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrEntityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListPlacements returns the placements under a tactic in display order.
func (r *PlanRepository) ListPlacements(ctx context.Context, tacticID string) ([]domain.Placement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tactic_id, label, tag_start, tag_end, taxonomy, tagged, ord
		FROM placements WHERE tactic_id = $1 ORDER BY ord`, tacticID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Placement, error) {
		var p domain.Placement
		err := row.Scan(&p.ID, &p.TacticID, &p.Label, &p.TagStart, &p.TagEnd, &p.Taxonomy, &p.Tagged, &p.Order)
		return p, err
	})
}

// ListCreatives returns the creatives under a placement in display order.
func (r *PlanRepository) ListCreatives(ctx context.Context, placementID string) ([]domain.Creative, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, placement_id, label, tag_start, tag_end, format, weight, ord
		FROM creatives WHERE placement_id = $1 ORDER BY ord`, placementID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Creative, error) {
		var c domain.Creative
		err := row.Scan(&c.ID, &c.PlacementID, &c.Label, &c.TagStart, &c.TagEnd, &c.Format, &c.Weight, &c.Order)
		return c, err
	})
}

// ListSnapshots returns one entity's snapshot history in ascending version
// order.
func (r *PlanRepository) ListSnapshots(ctx context.Context, typ domain.EntityType, entityID string) ([]domain.TagSnapshot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT entity_type, entity_id, version, fields, created_at
		FROM cm360_snapshots
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY version`, typ, entityID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TagSnapshot, error) {
		var s domain.TagSnapshot
		var raw []byte
		if err := row.Scan(&s.EntityType, &s.EntityID, &s.Version, &raw, &s.CreatedAt); err != nil {
			return s, err
		}
		if err := json.Unmarshal(raw, &s.Fields); err != nil {
			return s, fmt.Errorf("decode snapshot fields: %w", err)
		}
		return s, nil
	})
}

// AppendSnapshot inserts the next version of an entity's history. The
// version is assigned inside the insert; the primary key on
// (entity_type, entity_id, version) turns a concurrent append into a
// conflict instead of a silent overwrite.
func (r *PlanRepository) AppendSnapshot(ctx context.Context, typ domain.EntityType, entityID string, fields map[string]any) (int, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot fields: %w", err)
	}
	var version int
	err = r.pool.QueryRow(ctx, `
		INSERT INTO cm360_snapshots (entity_type, entity_id, version, fields, created_at)
		SELECT $1, $2, COALESCE(MAX(version) + 1, 0), $3, now()
		FROM cm360_snapshots
		WHERE entity_type = $1 AND entity_id = $2
		RETURNING version`, typ, entityID, raw).Scan(&version)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, port.ErrSnapshotConflict
		}
		return 0, err
	}
	return version, nil
}

// ListFees returns a client's fee catalog with options, fees in chain
// order.
func (r *PlanRepository) ListFees(ctx context.Context, clientID string) ([]domain.FeeWithOptions, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_id, name, calc_type, calc_mode, ord
		FROM fees WHERE client_id = $1 ORDER BY ord`, clientID)
	if err != nil {
		return nil, err
	}
	fees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Fee, error) {
		var f domain.Fee
		err := row.Scan(&f.ID, &f.ClientID, &f.Name, &f.CalcType, &f.CalcMode, &f.Order)
		return f, err
	})
	if err != nil {
		return nil, err
	}

	feeIDs := make([]string, len(fees))
	for i, fee := range fees {
		feeIDs[i] = fee.ID
	}
	rows, err = r.pool.Query(ctx, `
		SELECT id, fee_id, name, value, buffer, editable
		FROM fee_options WHERE fee_id = ANY($1) ORDER BY name`, feeIDs)
	if err != nil {
		return nil, err
	}
	options, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FeeOption, error) {
		var o domain.FeeOption
		err := row.Scan(&o.ID, &o.FeeID, &o.Name, &o.Value, &o.Buffer, &o.Editable)
		return o, err
	})
	if err != nil {
		return nil, err
	}
	byFee := make(map[string][]domain.FeeOption, len(fees))
	for _, o := range options {
		byFee[o.FeeID] = append(byFee[o.FeeID], o)
	}

	result := make([]domain.FeeWithOptions, 0, len(fees))
	for _, fee := range fees {
		result = append(result, domain.FeeWithOptions{Fee: fee, Options: byFee[fee.ID]})
	}
	return result, nil
}

// ListBuckets returns a version's buckets with actuals derived as the sum
// of assigned tactic client budgets.
func (r *PlanRepository) ListBuckets(ctx context.Context, versionID string) ([]domain.Bucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.version_id, b.name, b.target,
		       COALESCE(SUM(t.client_budget), 0) AS actual,
		       b.color, b.publishers, b.created_at
		FROM buckets b
		LEFT JOIN tactics t ON t.bucket_id = b.id
		WHERE b.version_id = $1
		GROUP BY b.id
		ORDER BY b.created_at`, versionID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Bucket, error) {
		var b domain.Bucket
		err := row.Scan(&b.ID, &b.VersionID, &b.Name, &b.Target, &b.Actual, &b.Color, &b.Publishers, &b.CreatedAt)
		return b, err
	})
}

// SaveBucket upserts a bucket row. Actual is derived on read and never
// stored.
func (r *PlanRepository) SaveBucket(ctx context.Context, b *domain.Bucket) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO buckets (id, version_id, name, target, color, publishers, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			target = EXCLUDED.target,
			color = EXCLUDED.color,
			publishers = EXCLUDED.publishers`,
		b.ID, b.VersionID, b.Name, b.Target, b.Color, b.Publishers, b.CreatedAt)
	return err
}

// DeleteBucket removes a bucket. Assigned tactics fall back to unassigned
// via the bucket_id foreign key's SET NULL.
func (r *PlanRepository) DeleteBucket(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM buckets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrBucketNotFound
	}
	return nil
}

// ListExchangeRates returns every known rate for cache warm-up.
func (r *PlanRepository) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, client_id, from_currency, to_currency, rate FROM exchange_rates`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ExchangeRate, error) {
		var e domain.ExchangeRate
		err := row.Scan(&e.ID, &e.ClientID, &e.From, &e.To, &e.Rate)
		return e, err
	})
}

// ListPartners returns the partner/shortcode reference list.
func (r *PlanRepository) ListPartners(ctx context.Context) ([]domain.Partner, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, shortcode, display_name, type FROM partners ORDER BY shortcode`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Partner, error) {
		var p domain.Partner
		err := row.Scan(&p.ID, &p.Shortcode, &p.DisplayName, &p.Type)
		return p, err
	})
}

// isUniqueViolation reports whether err is a Postgres 23505 error.
func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == "23505"
}
