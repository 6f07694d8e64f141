/**
 * @description
 * This file defines the subscription model for the backend-service.
 * There is at most one subscription row per user; rows are seeded as
 * free/active on first sync and upgraded by the webhook reconciliation engine.
 */
package domain

import "time"

// Subscription represents a row in the subscriptions table.
type Subscription struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Email            string     `json:"email"`
	Plan             string     `json:"plan"`     // 'free', 'pro'
	Provider         string     `json:"provider"` // 'paystack'
	SubscriptionCode *string    `json:"subscription_code,omitempty"`
	Status           string     `json:"status"` // 'active', 'inactive', 'cancelled'
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
