/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements every persistence interface (pricing.CatalogStore,
  pricing.ModelStore, pricing.OverrideStore, revenue.TargetStore,
  revenue.BlockedDateStore) using SQLite. In production, the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  room_types:              Catalog of bookable room categories
  pricing_models:          Model rows with their JSON config blob
  revenue_targets:         One row per (room, period)
  revenue_rate_breakdowns: Rate-type buckets (residual persisted as a row)
  blocked_dates:           Unsellable nights per room
  rate_overrides:          Manual per-date price pins

TRANSACTIONAL UNITS:
  - SetActiveModel clears every other active flag and sets the new one
    in a single transaction (at most one is_active=1 row, enforced by a
    partial unique index as well).
  - ReplaceBreakdown is delete-then-insert inside one transaction; a
    failure mid-sequence rolls back, never leaving partial rows.
  - DeletePeriod removes all of a period's targets and breakdown rows
    atomically.

MONEY AND RATIOS:
  Stored as TEXT in decimal string form; parsing back through
  shopspring/decimal keeps amounts exact.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers
  don't block and crash recovery improves.

USAGE:
  store, err := sqlite.New("./data/bernard.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - pricing/store.go, revenue/store.go: Interface definitions
  - pricing/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bernardlodge/pricing-engine/factory"
	"github.com/bernardlodge/pricing-engine/pricing"
	"github.com/bernardlodge/pricing-engine/revenue"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	factory *factory.ModelFactory
}

// Compile-time interface checks.
var (
	_ pricing.CatalogStore     = (*Store)(nil)
	_ pricing.ModelStore       = (*Store)(nil)
	_ pricing.OverrideStore    = (*Store)(nil)
	_ revenue.TargetStore      = (*Store)(nil)
	_ revenue.BlockedDateStore = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent; the store's
	// mutex serializes access anyway.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, factory: factory.NewModelFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS room_types (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		base_weekday TEXT NOT NULL,
		base_weekend TEXT NOT NULL,
		currency TEXT NOT NULL,
		max_occupancy INTEGER NOT NULL DEFAULT 2,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS pricing_models (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 0,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- At most one active model row, ever.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_models_single_active
		ON pricing_models(is_active) WHERE is_active = 1;

	CREATE TABLE IF NOT EXISTS revenue_targets (
		id TEXT PRIMARY KEY,
		room_type_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		period_name TEXT NOT NULL,
		target_occupancy TEXT NOT NULL,
		target_revenue TEXT NOT NULL,
		currency TEXT NOT NULL,
		UNIQUE(room_type_id, period_start, period_end)
	);

	CREATE INDEX IF NOT EXISTS idx_targets_period
		ON revenue_targets(period_start, period_end);

	CREATE TABLE IF NOT EXISTS revenue_rate_breakdowns (
		id TEXT PRIMARY KEY,
		revenue_target_id TEXT NOT NULL
			REFERENCES revenue_targets(id) ON DELETE CASCADE,
		rate_type TEXT NOT NULL,
		type_detail TEXT,
		pct_business TEXT NOT NULL,
		discount TEXT NOT NULL DEFAULT '0',
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_residual INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_breakdowns_target
		ON revenue_rate_breakdowns(revenue_target_id);

	CREATE TABLE IF NOT EXISTS blocked_dates (
		room_type_id TEXT NOT NULL,
		date TEXT NOT NULL,
		PRIMARY KEY (room_type_id, date)
	);

	CREATE TABLE IF NOT EXISTS rate_overrides (
		room_type_id TEXT NOT NULL,
		date TEXT NOT NULL,
		price TEXT NOT NULL,
		currency TEXT NOT NULL,
		PRIMARY KEY (room_type_id, date)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CATALOG STORE
// =============================================================================

func (s *Store) Room(ctx context.Context, id pricing.RoomID) (*pricing.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, code, name, base_weekday, base_weekend, currency, max_occupancy, active
		FROM room_types WHERE id = ?`, string(id))
	room, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &pricing.RoomNotFoundError{RoomID: id}
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Store) ListRooms(ctx context.Context) ([]pricing.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name, base_weekday, base_weekend, currency, max_occupancy, active
		FROM room_types ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pricing.RoomType
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *room)
	}
	return out, rows.Err()
}

func (s *Store) SaveRoom(ctx context.Context, room pricing.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO room_types (id, code, name, base_weekday, base_weekend, currency, max_occupancy, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			base_weekday = excluded.base_weekday,
			base_weekend = excluded.base_weekend,
			currency = excluded.currency,
			max_occupancy = excluded.max_occupancy,
			active = excluded.active`,
		string(room.ID), room.Code, room.Name,
		room.BaseWeekday.Amount.String(), room.BaseWeekend.Amount.String(),
		room.BaseWeekday.Currency, room.MaxOccupancy, boolToInt(room.Active))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(r rowScanner) (*pricing.RoomType, error) {
	var (
		id, code, name, weekday, weekend, currency string
		maxOcc, active                             int
	)
	if err := r.Scan(&id, &code, &name, &weekday, &weekend, &currency, &maxOcc, &active); err != nil {
		return nil, err
	}
	return &pricing.RoomType{
		ID:           pricing.RoomID(id),
		Code:         code,
		Name:         name,
		BaseWeekday:  pricing.Money{Amount: pricing.MustParseDecimal(weekday), Currency: currency},
		BaseWeekend:  pricing.Money{Amount: pricing.MustParseDecimal(weekend), Currency: currency},
		MaxOccupancy: maxOcc,
		Active:       active == 1,
	}, nil
}

// =============================================================================
// MODEL STORE
// =============================================================================

func (s *Store) Model(ctx context.Context, id pricing.ModelID) (*pricing.PricingModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modelByQuery(ctx, `SELECT config_json, is_active FROM pricing_models WHERE id = ?`, string(id))
}

func (s *Store) ActiveModel(ctx context.Context) (*pricing.PricingModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	model, err := s.modelByQuery(ctx, `SELECT config_json, is_active FROM pricing_models WHERE is_active = 1`)
	if errors.Is(err, pricing.ErrModelNotFound) {
		return nil, pricing.ErrNoActiveModel
	}
	return model, err
}

func (s *Store) modelByQuery(ctx context.Context, query string, args ...any) (*pricing.PricingModel, error) {
	var configJSON string
	var active int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&configJSON, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pricing.ErrModelNotFound
	}
	if err != nil {
		return nil, err
	}

	model, err := s.factory.ParseModel(configJSON)
	if err != nil {
		return nil, fmt.Errorf("stored model config invalid: %w", err)
	}
	model.Active = active == 1
	return model, nil
}

func (s *Store) ListModels(ctx context.Context) ([]pricing.PricingModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT config_json, is_active FROM pricing_models ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pricing.PricingModel
	for rows.Next() {
		var configJSON string
		var active int
		if err := rows.Scan(&configJSON, &active); err != nil {
			return nil, err
		}
		model, err := s.factory.ParseModel(configJSON)
		if err != nil {
			continue // Skip invalid stored configs
		}
		model.Active = active == 1
		out = append(out, *model)
	}
	return out, rows.Err()
}

func (s *Store) SaveModel(ctx context.Context, model pricing.PricingModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(s.factory.ToJSON(model))
	if err != nil {
		return fmt.Errorf("failed to encode model config: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pricing_models (id, name, is_active, config_json, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			updated_at = excluded.updated_at`,
		string(model.ID), model.Name, string(b), now, now)
	return err
}

func (s *Store) SetActiveModel(ctx context.Context, id pricing.ModelID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE pricing_models SET is_active = 0 WHERE is_active = 1`); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `UPDATE pricing_models SET is_active = 1 WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return pricing.ErrModelNotFound
	}
	return tx.Commit()
}

// =============================================================================
// OVERRIDE STORE
// =============================================================================

func (s *Store) Override(ctx context.Context, roomID pricing.RoomID, date pricing.StayDate) (*pricing.RateOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var price, currency string
	err := s.db.QueryRowContext(ctx, `
		SELECT price, currency FROM rate_overrides WHERE room_type_id = ? AND date = ?`,
		string(roomID), date.String()).Scan(&price, &currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pricing.RateOverride{
		RoomTypeID: roomID,
		Date:       date,
		Price:      pricing.Money{Amount: pricing.MustParseDecimal(price), Currency: currency},
	}, nil
}

func (s *Store) ListOverrides(ctx context.Context, roomID pricing.RoomID, period pricing.Period) ([]pricing.RateOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, price, currency FROM rate_overrides
		WHERE room_type_id = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		string(roomID), period.Start.String(), period.End.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pricing.RateOverride
	for rows.Next() {
		var dateStr, price, currency string
		if err := rows.Scan(&dateStr, &price, &currency); err != nil {
			return nil, err
		}
		date, err := pricing.ParseStayDate(dateStr)
		if err != nil {
			return nil, err
		}
		out = append(out, pricing.RateOverride{
			RoomTypeID: roomID,
			Date:       date,
			Price:      pricing.Money{Amount: pricing.MustParseDecimal(price), Currency: currency},
		})
	}
	return out, rows.Err()
}

func (s *Store) SaveOverride(ctx context.Context, ov pricing.RateOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rate_overrides (room_type_id, date, price, currency)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(room_type_id, date) DO UPDATE SET
			price = excluded.price,
			currency = excluded.currency`,
		string(ov.RoomTypeID), ov.Date.String(), ov.Price.Amount.String(), ov.Price.Currency)
	return err
}

func (s *Store) DeleteOverride(ctx context.Context, roomID pricing.RoomID, date pricing.StayDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM rate_overrides WHERE room_type_id = ? AND date = ?`,
		string(roomID), date.String())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return pricing.ErrOverrideNotFound
	}
	return nil
}

// =============================================================================
// TARGET STORE
// =============================================================================

func (s *Store) Target(ctx context.Context, id revenue.TargetID) (*revenue.RevenueTarget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, room_type_id, period_start, period_end, period_name, target_occupancy, target_revenue, currency
		FROM revenue_targets WHERE id = ?`, string(id))
	return scanTarget(row)
}

func (s *Store) TargetFor(ctx context.Context, roomID pricing.RoomID, period pricing.Period) (*revenue.RevenueTarget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, room_type_id, period_start, period_end, period_name, target_occupancy, target_revenue, currency
		FROM revenue_targets WHERE room_type_id = ? AND period_start = ? AND period_end = ?`,
		string(roomID), period.Start.String(), period.End.String())
	return scanTarget(row)
}

func (s *Store) ListTargets(ctx context.Context, period pricing.Period) ([]revenue.RevenueTarget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_type_id, period_start, period_end, period_name, target_occupancy, target_revenue, currency
		FROM revenue_targets WHERE period_start = ? AND period_end = ?
		ORDER BY room_type_id`,
		period.Start.String(), period.End.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []revenue.RevenueTarget
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) ListPeriods(ctx context.Context) ([]revenue.PeriodInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT period_name, period_start, period_end, COUNT(*)
		FROM revenue_targets
		GROUP BY period_name, period_start, period_end
		ORDER BY period_start`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []revenue.PeriodInfo
	for rows.Next() {
		var name, start, end string
		var count int
		if err := rows.Scan(&name, &start, &end, &count); err != nil {
			return nil, err
		}
		startDate, err := pricing.ParseStayDate(start)
		if err != nil {
			return nil, err
		}
		endDate, err := pricing.ParseStayDate(end)
		if err != nil {
			return nil, err
		}
		out = append(out, revenue.PeriodInfo{
			Name:   name,
			Period: pricing.Period{Start: startDate, End: endDate},
			Rooms:  count,
		})
	}
	return out, rows.Err()
}

func (s *Store) SaveTarget(ctx context.Context, target revenue.RevenueTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revenue_targets (id, room_type_id, period_start, period_end, period_name, target_occupancy, target_revenue, currency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(room_type_id, period_start, period_end) DO UPDATE SET
			period_name = excluded.period_name,
			target_occupancy = excluded.target_occupancy,
			target_revenue = excluded.target_revenue,
			currency = excluded.currency`,
		string(target.ID), string(target.RoomTypeID),
		target.Period.Start.String(), target.Period.End.String(), target.PeriodName,
		target.TargetOccupancy.String(), target.TargetRevenue.Amount.String(),
		target.TargetRevenue.Currency)
	return err
}

func (s *Store) DeletePeriod(ctx context.Context, period pricing.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM revenue_rate_breakdowns WHERE revenue_target_id IN (
			SELECT id FROM revenue_targets WHERE period_start = ? AND period_end = ?)`,
		period.Start.String(), period.End.String()); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM revenue_targets WHERE period_start = ? AND period_end = ?`,
		period.Start.String(), period.End.String())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return revenue.ErrPeriodNotFound
	}
	return tx.Commit()
}

func scanTarget(r rowScanner) (*revenue.RevenueTarget, error) {
	var id, roomID, start, end, name, occ, rev, currency string
	if err := r.Scan(&id, &roomID, &start, &end, &name, &occ, &rev, &currency); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, revenue.ErrTargetNotFound
		}
		return nil, err
	}
	startDate, err := pricing.ParseStayDate(start)
	if err != nil {
		return nil, err
	}
	endDate, err := pricing.ParseStayDate(end)
	if err != nil {
		return nil, err
	}
	return &revenue.RevenueTarget{
		ID:              revenue.TargetID(id),
		RoomTypeID:      pricing.RoomID(roomID),
		Period:          pricing.Period{Start: startDate, End: endDate},
		PeriodName:      name,
		TargetOccupancy: pricing.MustParseDecimal(occ),
		TargetRevenue:   pricing.Money{Amount: pricing.MustParseDecimal(rev), Currency: currency},
	}, nil
}

// =============================================================================
// BREAKDOWN PERSISTENCE
// =============================================================================

func (s *Store) Breakdown(ctx context.Context, targetID revenue.TargetID) ([]revenue.BreakdownRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM revenue_targets WHERE id = ?`, string(targetID)).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, revenue.ErrTargetNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, rate_type, type_detail, pct_business, discount, sort_order, is_residual
		FROM revenue_rate_breakdowns
		WHERE revenue_target_id = ?
		ORDER BY sort_order, is_residual DESC`, string(targetID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []revenue.BreakdownRow
	for rows.Next() {
		var id, rateType, pct, discount string
		var detail sql.NullString
		var sortOrder, residual int
		if err := rows.Scan(&id, &rateType, &detail, &pct, &discount, &sortOrder, &residual); err != nil {
			return nil, err
		}
		out = append(out, revenue.BreakdownRow{
			ID:          id,
			TargetID:    targetID,
			RateType:    rateType,
			TypeDetail:  detail.String,
			PctBusiness: pricing.MustParseDecimal(pct),
			Discount:    pricing.MustParseDecimal(discount),
			SortOrder:   sortOrder,
			IsResidual:  residual == 1,
		})
	}
	return out, rows.Err()
}

// ReplaceBreakdown fully replaces the target's row set: delete-then-insert
// in one transaction. The residual is recomputed before the write so a
// sum other than 100 can never be persisted.
func (s *Store) ReplaceBreakdown(ctx context.Context, targetID revenue.TargetID, rows []revenue.BreakdownRow) error {
	normalized, err := revenue.NormalizeResidual(rows)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM revenue_targets WHERE id = ?`, string(targetID)).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return revenue.ErrTargetNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM revenue_rate_breakdowns WHERE revenue_target_id = ?`, string(targetID)); err != nil {
		return err
	}

	for _, row := range normalized {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO revenue_rate_breakdowns
				(id, revenue_target_id, rate_type, type_detail, pct_business, discount, sort_order, is_residual)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			row.ID, string(targetID), row.RateType, row.TypeDetail,
			row.PctBusiness.String(), row.Discount.String(), row.SortOrder,
			boolToInt(row.IsResidual)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// =============================================================================
// BLOCKED DATE STORE
// =============================================================================

func (s *Store) BlockedNights(ctx context.Context, roomID pricing.RoomID, period pricing.Period) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM blocked_dates
		WHERE room_type_id = ? AND date >= ? AND date <= ?`,
		string(roomID), period.Start.String(), period.End.String()).Scan(&count)
	return count, err
}

func (s *Store) ListBlockedDates(ctx context.Context, roomID pricing.RoomID, period pricing.Period) ([]revenue.BlockedDate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date FROM blocked_dates
		WHERE room_type_id = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		string(roomID), period.Start.String(), period.End.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []revenue.BlockedDate
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return nil, err
		}
		date, err := pricing.ParseStayDate(dateStr)
		if err != nil {
			return nil, err
		}
		out = append(out, revenue.BlockedDate{RoomTypeID: roomID, Date: date})
	}
	return out, rows.Err()
}

func (s *Store) SaveBlockedDate(ctx context.Context, bd revenue.BlockedDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO blocked_dates (room_type_id, date) VALUES (?, ?)`,
		string(bd.RoomTypeID), bd.Date.String())
	return err
}

func (s *Store) DeleteBlockedDate(ctx context.Context, bd revenue.BlockedDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM blocked_dates WHERE room_type_id = ? AND date = ?`,
		string(bd.RoomTypeID), bd.Date.String())
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
