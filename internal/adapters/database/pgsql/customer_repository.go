package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fxbureau/bureau_backend/internal/apperrors"
	"github.com/fxbureau/bureau_backend/internal/core/domain"
	portsrepo "github.com/fxbureau/bureau_backend/internal/core/ports/repositories"
)

type PgxCustomerRepository struct {
	pool *pgxpool.Pool
}

// NewPgxCustomerRepository creates a read-only repository over the encrypted
// customer store. Writes go through the settlement repository so a customer
// change always commits with its transaction.
func NewPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerSearcher {
	return &PgxCustomerRepository{pool: pool}
}

const customerColumns = `
	customer_id,
	first_name_enc, last_name_enc, postcode_enc,
	address_line1_enc, city_enc, country_enc, email_enc, phone_enc, date_of_birth_enc,
	primary_id_type_enc, primary_id_number_enc, primary_id_expiry_enc,
	secondary_id_type_enc, secondary_id_number_enc,
	created_at, created_by, last_updated_at, last_updated_by
`

// FindCustomersBySearchKey retrieves candidate records whose deterministic
// ciphertexts for first name, last name and postcode all match exactly. The
// match is pure byte equality; disambiguation happens in the resolver.
func (r *PgxCustomerRepository) FindCustomersBySearchKey(ctx context.Context, firstNameEnc, lastNameEnc, postcodeEnc string) ([]domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE first_name_enc = $1 AND last_name_enc = $2 AND postcode_enc = $3;
	`
	rows, err := r.pool.Query(ctx, query, firstNameEnc, lastNameEnc, postcodeEnc)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers by search key: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}
	return customers, nil
}

// FindCustomerByID retrieves a single customer record.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE customer_id = $1;
	`
	customer, err := scanCustomer(r.pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}
	return customer, nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.CustomerID,
		&c.FirstNameEnc, &c.LastNameEnc, &c.PostcodeEnc,
		&c.AddressLine1Enc, &c.CityEnc, &c.CountryEnc, &c.EmailEnc, &c.PhoneEnc, &c.DateOfBirthEnc,
		&c.PrimaryIDTypeEnc, &c.PrimaryIDNumberEnc, &c.PrimaryIDExpiryEnc,
		&c.SecondaryIDTypeEnc, &c.SecondaryIDNumberEnc,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan customer row: %w", err)
	}
	return &c, nil
}
