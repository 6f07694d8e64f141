/**
 * @description
 * This file implements the data access layer for subscription rows.
 * The unique constraint on user_id guarantees at most one subscription
 * row per user; all writes go through the upsert.
 */
package store

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brandpulse/backend-service/internal/domain"
)

// SubscriptionRepository is the PostgreSQL implementation of subscription storage.
type SubscriptionRepository struct {
	db *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetSubscriptionByUserID returns the subscription row for a user, or nil if
// none exists yet.
func (r *SubscriptionRepository) GetSubscriptionByUserID(ctx context.Context, userID string) (*domain.Subscription, error) {
	var sub domain.Subscription
	query := `
        SELECT id, user_id, email, plan, provider, subscription_code, status, expires_at, updated_at
        FROM subscriptions
        WHERE user_id = $1
    `
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.Email,
		&sub.Plan,
		&sub.Provider,
		&sub.SubscriptionCode,
		&sub.Status,
		&sub.ExpiresAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// UpsertSubscription creates or replaces the subscription row for a user.
// Applying the same record twice yields the same final row, which is what
// makes webhook redeliveries safe.
func (r *SubscriptionRepository) UpsertSubscription(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	var saved domain.Subscription
	query := `
        INSERT INTO subscriptions (user_id, email, plan, provider, subscription_code, status, expires_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (user_id) DO UPDATE SET
            email = EXCLUDED.email,
            plan = EXCLUDED.plan,
            provider = EXCLUDED.provider,
            subscription_code = EXCLUDED.subscription_code,
            status = EXCLUDED.status,
            expires_at = EXCLUDED.expires_at,
            updated_at = EXCLUDED.updated_at
        RETURNING id, user_id, email, plan, provider, subscription_code, status, expires_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		sub.UserID,
		sub.Email,
		sub.Plan,
		sub.Provider,
		sub.SubscriptionCode,
		sub.Status,
		sub.ExpiresAt,
		sub.UpdatedAt,
	).Scan(
		&saved.ID,
		&saved.UserID,
		&saved.Email,
		&saved.Plan,
		&saved.Provider,
		&saved.SubscriptionCode,
		&saved.Status,
		&saved.ExpiresAt,
		&saved.UpdatedAt,
	)
	if err != nil {
		log.Printf("Error upserting subscription for user %s: %v", sub.UserID, err)
		return nil, err
	}
	return &saved, nil
}
