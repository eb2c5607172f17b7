package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fxbureau/bureau_backend/internal/apperrors"
	"github.com/fxbureau/bureau_backend/internal/core/domain"
	portsrepo "github.com/fxbureau/bureau_backend/internal/core/ports/repositories"
)

type PgxCurrencyRepository struct {
	pool *pgxpool.Pool
}

// NewPgxCurrencyRepository creates a new repository for currency, quote and
// threshold-rule data.
func NewPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryFacade {
	return &PgxCurrencyRepository{pool: pool}
}

// SaveCurrency persists a new currency.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	query := `
		INSERT INTO currencies (currency_code, symbol, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.pool.Exec(ctx, query,
		currency.CurrencyCode,
		currency.Symbol,
		currency.Name,
		currency.CreatedAt,
		currency.CreatedBy,
		currency.LastUpdatedAt,
		currency.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert currency %s: %w", currency.CurrencyCode, err)
	}
	return nil
}

// FindCurrencyByCode retrieves a specific currency by its code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	query := `
		SELECT currency_code, symbol, name, created_at, created_by, last_updated_at, last_updated_by
		FROM currencies
		WHERE currency_code = $1;
	`
	var currency domain.Currency
	err := r.pool.QueryRow(ctx, query, currencyCode).Scan(
		&currency.CurrencyCode,
		&currency.Symbol,
		&currency.Name,
		&currency.CreatedAt,
		&currency.CreatedBy,
		&currency.LastUpdatedAt,
		&currency.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency %s: %w", currencyCode, err)
	}
	return &currency, nil
}

// ListCurrencies retrieves all available currencies.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `
		SELECT currency_code, symbol, name, created_at, created_by, last_updated_at, last_updated_by
		FROM currencies
		ORDER BY currency_code;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	currencies := make([]domain.Currency, 0)
	for rows.Next() {
		var currency domain.Currency
		if err := rows.Scan(
			&currency.CurrencyCode,
			&currency.Symbol,
			&currency.Name,
			&currency.CreatedAt,
			&currency.CreatedBy,
			&currency.LastUpdatedAt,
			&currency.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		currencies = append(currencies, currency)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rows: %w", err)
	}
	return currencies, nil
}

// SaveQuote persists a rate-feed snapshot. Quotes are append-only; the newest
// fetched_at wins at read time.
func (r *PgxCurrencyRepository) SaveQuote(ctx context.Context, quote domain.CurrencyQuote) error {
	denominationsJSON, err := json.Marshal(quote.Denominations)
	if err != nil {
		return fmt.Errorf("failed to marshal denominations for %s: %w", quote.CurrencyCode, err)
	}

	query := `
		INSERT INTO currency_quotes (quote_id, currency_code, rate, buy_rate, sell_rate, denominations, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = r.pool.Exec(ctx, query,
		quote.QuoteID,
		quote.CurrencyCode,
		quote.Rate,
		quote.BuyRate,
		quote.SellRate,
		denominationsJSON,
		quote.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quote for %s: %w", quote.CurrencyCode, err)
	}
	return nil
}

// FindLatestQuote retrieves the most recently fetched quote for a currency.
func (r *PgxCurrencyRepository) FindLatestQuote(ctx context.Context, currencyCode string) (*domain.CurrencyQuote, error) {
	query := `
		SELECT quote_id, currency_code, rate, buy_rate, sell_rate, denominations, fetched_at
		FROM currency_quotes
		WHERE currency_code = $1
		ORDER BY fetched_at DESC
		LIMIT 1;
	`
	var quote domain.CurrencyQuote
	var denominationsJSON []byte
	err := r.pool.QueryRow(ctx, query, currencyCode).Scan(
		&quote.QuoteID,
		&quote.CurrencyCode,
		&quote.Rate,
		&quote.BuyRate,
		&quote.SellRate,
		&denominationsJSON,
		&quote.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest quote for %s: %w", currencyCode, err)
	}
	if err := json.Unmarshal(denominationsJSON, &quote.Denominations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal denominations for quote %s: %w", quote.QuoteID, err)
	}
	return &quote, nil
}

// ListThresholdRules retrieves a currency's rules sorted ascending by MaxSterling.
func (r *PgxCurrencyRepository) ListThresholdRules(ctx context.Context, currencyCode string) ([]domain.ThresholdRule, error) {
	query := `
		SELECT rule_id, currency_code, max_sterling, threshold, created_at, created_by, last_updated_at, last_updated_by
		FROM denomination_thresholds
		WHERE currency_code = $1
		ORDER BY max_sterling ASC;
	`
	rows, err := r.pool.Query(ctx, query, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list threshold rules for %s: %w", currencyCode, err)
	}
	defer rows.Close()

	rules := make([]domain.ThresholdRule, 0)
	for rows.Next() {
		var rule domain.ThresholdRule
		if err := rows.Scan(
			&rule.RuleID,
			&rule.CurrencyCode,
			&rule.MaxSterling,
			&rule.Threshold,
			&rule.CreatedAt,
			&rule.CreatedBy,
			&rule.LastUpdatedAt,
			&rule.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan threshold rule row: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating threshold rule rows: %w", err)
	}
	return rules, nil
}

// ReplaceThresholdRules swaps the full rule set for a currency inside one DB
// transaction so readers never observe a partial set.
func (r *PgxCurrencyRepository) ReplaceThresholdRules(ctx context.Context, currencyCode string, rules []domain.ThresholdRule) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM denomination_thresholds WHERE currency_code = $1;`, currencyCode); err != nil {
		return fmt.Errorf("failed to clear threshold rules for %s: %w", currencyCode, err)
	}

	batch := &pgx.Batch{}
	insertQuery := `
		INSERT INTO denomination_thresholds (rule_id, currency_code, max_sterling, threshold, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, rule := range rules {
		batch.Queue(insertQuery,
			rule.RuleID,
			rule.CurrencyCode,
			rule.MaxSterling,
			rule.Threshold,
			rule.CreatedAt,
			rule.CreatedBy,
			rule.LastUpdatedAt,
			rule.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert threshold rules for %s: %w", currencyCode, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit threshold rules for %s: %w", currencyCode, err)
	}
	return nil
}
