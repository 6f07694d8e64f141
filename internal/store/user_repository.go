/**
 * @description
 * This file implements the data access layer for user rows.
 * It provides the lookups and the field-level update the webhook
 * reconciliation engine needs, plus the upsert used by /api/user/sync.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5/pgxpool: The PostgreSQL driver and connection pool manager.
 *
 * @notes
 * - Lookups return (nil, nil) when no row matches. The reconciliation engine
 *   treats an absent user as a success no-op, so "not found" is not an error
 *   on this path.
 */
package store

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brandpulse/backend-service/internal/domain"
)

// UserRepository is the PostgreSQL implementation of user storage.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
        id, email, subscribed, plan, subscription_status,
        subscription_code, paystack_customer_code, subscribed_at
`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Subscribed,
		&user.Plan,
		&user.SubscriptionStatus,
		&user.SubscriptionCode,
		&user.PaystackCustomerCode,
		&user.SubscribedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail returns the user with the given email, or nil if none exists.
// The match is exact, case-sensitive as stored.
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// FindUserBySubscriptionCode returns the user currently holding the given
// provider subscription code, or nil if no user holds it.
func (r *UserRepository) FindUserBySubscriptionCode(ctx context.Context, code string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE subscription_code = $1`
	return scanUser(r.db.QueryRow(ctx, query, code))
}

// UpdateUser applies the non-nil fields of the update to a user row.
// COALESCE keeps every field whose pointer is nil untouched; this path never
// clears a column back to NULL.
func (r *UserRepository) UpdateUser(ctx context.Context, userID string, fields domain.UserUpdate) error {
	query := `
        UPDATE users SET
            subscribed = COALESCE($1, subscribed),
            plan = COALESCE($2, plan),
            subscription_status = COALESCE($3, subscription_status),
            subscription_code = COALESCE($4, subscription_code),
            paystack_customer_code = COALESCE($5, paystack_customer_code),
            subscribed_at = COALESCE($6, subscribed_at)
        WHERE id = $7
    `
	commandTag, err := r.db.Exec(ctx, query,
		fields.Subscribed,
		fields.Plan,
		fields.SubscriptionStatus,
		fields.SubscriptionCode,
		fields.PaystackCustomerCode,
		fields.SubscribedAt,
		userID,
	)
	if err != nil {
		log.Printf("Error updating subscription fields for user %s: %v", userID, err)
		return err
	}
	if commandTag.RowsAffected() == 0 {
		log.Printf("Warning: no user found with ID %s to update", userID)
	}
	return nil
}

// UpsertUser inserts a user row keyed by the auth-provider id, updating the
// email on conflict. Called by /api/user/sync for every authenticated login.
func (r *UserRepository) UpsertUser(ctx context.Context, userID, email string) (*domain.User, error) {
	query := `
        INSERT INTO users (id, email)
        VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
        RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRow(ctx, query, userID, email))
	if err != nil {
		log.Printf("Error upserting user %s: %v", userID, err)
		return nil, err
	}
	return user, nil
}
