package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fxbureau/bureau_backend/internal/apperrors"
	"github.com/fxbureau/bureau_backend/internal/core/domain"
	portsrepo "github.com/fxbureau/bureau_backend/internal/core/ports/repositories"
)

type PgxSettlementRepository struct {
	pool *pgxpool.Pool
}

// NewPgxSettlementRepository creates a new repository for persisted
// transactions and their line items.
func NewPgxSettlementRepository(pool *pgxpool.Pool) portsrepo.SettlementRepositoryFacade {
	return &PgxSettlementRepository{pool: pool}
}

// SaveSettlement writes the transaction, its line items and the customer
// change (insert or ID-field update) in a single database transaction.
func (r *PgxSettlementRepository) SaveSettlement(ctx context.Context, txn domain.Transaction, newCustomer *domain.Customer, idUpdate *domain.CustomerIDUpdate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// 1. Customer change first, so the transaction row's FK is satisfied.
	switch {
	case newCustomer != nil:
		if err := insertCustomer(ctx, tx, newCustomer); err != nil {
			return err
		}
	case idUpdate != nil:
		if err := updateCustomerIDs(ctx, tx, idUpdate); err != nil {
			return err
		}
	}

	// 2. The transaction row.
	txnQuery := `
		INSERT INTO transactions (transaction_id, customer_id, transaction_type, total_sterling, cash_amount, card_amount, change_given, verification_tier, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, txnQuery,
		txn.TransactionID,
		txn.CustomerID,
		txn.TransactionType,
		txn.TotalSterling,
		txn.CashAmount,
		txn.CardAmount,
		txn.ChangeGiven,
		txn.Tier,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}

	// 3. All line items, batched.
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO transaction_line_items (line_item_id, transaction_id, currency_code, transaction_type, sterling_amount, foreign_amount, exchange_rate, breakdown, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, li := range txn.LineItems {
		breakdownJSON, err := json.Marshal(li.Breakdown)
		if err != nil {
			return fmt.Errorf("failed to marshal breakdown for line item %s: %w", li.LineItemID, err)
		}
		batch.Queue(lineQuery,
			li.LineItemID,
			li.TransactionID,
			li.CurrencyCode,
			li.TransactionType,
			li.SterlingAmount,
			li.ForeignAmount,
			li.ExchangeRate,
			breakdownJSON,
			li.CreatedAt,
			li.CreatedBy,
			li.LastUpdatedAt,
			li.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute line item batch for transaction %s: %w", txn.TransactionID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit settlement %s: %w", txn.TransactionID, err)
	}
	return nil
}

func insertCustomer(ctx context.Context, tx pgx.Tx, c *domain.Customer) error {
	query := `
		INSERT INTO customers (customer_id,
			first_name_enc, last_name_enc, postcode_enc,
			address_line1_enc, city_enc, country_enc, email_enc, phone_enc, date_of_birth_enc,
			primary_id_type_enc, primary_id_number_enc, primary_id_expiry_enc,
			secondary_id_type_enc, secondary_id_number_enc,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := tx.Exec(ctx, query,
		c.CustomerID,
		c.FirstNameEnc, c.LastNameEnc, c.PostcodeEnc,
		c.AddressLine1Enc, c.CityEnc, c.CountryEnc, c.EmailEnc, c.PhoneEnc, c.DateOfBirthEnc,
		c.PrimaryIDTypeEnc, c.PrimaryIDNumberEnc, c.PrimaryIDExpiryEnc,
		c.SecondaryIDTypeEnc, c.SecondaryIDNumberEnc,
		c.CreatedAt, c.CreatedBy, c.LastUpdatedAt, c.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert customer %s: %w", c.CustomerID, err)
	}
	return nil
}

func updateCustomerIDs(ctx context.Context, tx pgx.Tx, u *domain.CustomerIDUpdate) error {
	query := `
		UPDATE customers
		SET primary_id_type_enc = $2, primary_id_number_enc = $3, primary_id_expiry_enc = $4,
		    secondary_id_type_enc = $5, secondary_id_number_enc = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE customer_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		u.CustomerID,
		u.PrimaryIDTypeEnc, u.PrimaryIDNumberEnc, u.PrimaryIDExpiryEnc,
		u.SecondaryIDTypeEnc, u.SecondaryIDNumberEnc,
		time.Now(), u.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer IDs for %s: %w", u.CustomerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s: %w", u.CustomerID, apperrors.ErrNotFound)
	}
	return nil
}

// FindTransactionByID retrieves a transaction with its line items.
func (r *PgxSettlementRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT transaction_id, customer_id, transaction_type, total_sterling, cash_amount, card_amount, change_given, verification_tier, created_at, created_by, last_updated_at, last_updated_by
		FROM transactions
		WHERE transaction_id = $1;
	`
	var txn domain.Transaction
	err := r.pool.QueryRow(ctx, query, transactionID).Scan(
		&txn.TransactionID,
		&txn.CustomerID,
		&txn.TransactionType,
		&txn.TotalSterling,
		&txn.CashAmount,
		&txn.CardAmount,
		&txn.ChangeGiven,
		&txn.Tier,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	lineItems, err := r.findLineItems(ctx, []string{transactionID})
	if err != nil {
		return nil, err
	}
	txn.LineItems = lineItems[transactionID]
	return &txn, nil
}

// ListTransactions retrieves transactions created strictly before the cursor
// position, newest first. Keyset pagination on (created_at, transaction_id)
// keeps pages stable while new settlements land.
func (r *PgxSettlementRepository) ListTransactions(ctx context.Context, limit int, before time.Time, beforeID string) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, customer_id, transaction_type, total_sterling, cash_amount, card_amount, change_given, verification_tier, created_at, created_by, last_updated_at, last_updated_by
		FROM transactions
		WHERE (created_at, transaction_id) < ($1, $2)
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $3;
	`
	rows, err := r.pool.Query(ctx, query, before, beforeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, limit)
	ids := make([]string, 0, limit)
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(
			&txn.TransactionID,
			&txn.CustomerID,
			&txn.TransactionType,
			&txn.TotalSterling,
			&txn.CashAmount,
			&txn.CardAmount,
			&txn.ChangeGiven,
			&txn.Tier,
			&txn.CreatedAt,
			&txn.CreatedBy,
			&txn.LastUpdatedAt,
			&txn.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, txn)
		ids = append(ids, txn.TransactionID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	if len(transactions) == 0 {
		return transactions, nil
	}

	lineItems, err := r.findLineItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range transactions {
		transactions[i].LineItems = lineItems[transactions[i].TransactionID]
	}
	return transactions, nil
}

// findLineItems loads line items for a set of transactions in one query,
// keyed by transaction ID.
func (r *PgxSettlementRepository) findLineItems(ctx context.Context, transactionIDs []string) (map[string][]domain.LineItem, error) {
	query := `
		SELECT line_item_id, transaction_id, currency_code, transaction_type, sterling_amount, foreign_amount, exchange_rate, breakdown, created_at, created_by, last_updated_at, last_updated_by
		FROM transaction_line_items
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, created_at;
	`
	rows, err := r.pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	byTxn := make(map[string][]domain.LineItem, len(transactionIDs))
	for rows.Next() {
		var li domain.LineItem
		var breakdownJSON []byte
		if err := rows.Scan(
			&li.LineItemID,
			&li.TransactionID,
			&li.CurrencyCode,
			&li.TransactionType,
			&li.SterlingAmount,
			&li.ForeignAmount,
			&li.ExchangeRate,
			&breakdownJSON,
			&li.CreatedAt,
			&li.CreatedBy,
			&li.LastUpdatedAt,
			&li.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line item row: %w", err)
		}
		if err := json.Unmarshal(breakdownJSON, &li.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal breakdown for line item %s: %w", li.LineItemID, err)
		}
		byTxn[li.TransactionID] = append(byTxn[li.TransactionID], li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line item rows: %w", err)
	}
	return byTxn, nil
}
