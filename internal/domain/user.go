/**
 * @description
 * This file defines the core user model for the backend-service.
 * User rows are created by the /api/user/sync endpoint; their subscription
 * fields are owned by the webhook reconciliation engine.
 */
package domain

import "time"

// Plan values for a user's subscription tier.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// Subscription status values as stored on the users table.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusInactive  = "inactive"
	SubscriptionStatusCancelled = "cancelled"
)

// ProviderPaystack tags subscription rows reconciled from Paystack events.
const ProviderPaystack = "paystack"

// User represents a row in the users table.
type User struct {
	ID                   string     `json:"id"`
	Email                string     `json:"email"`
	Subscribed           bool       `json:"subscribed"`
	Plan                 string     `json:"plan"`                // 'free', 'pro'
	SubscriptionStatus   string     `json:"subscription_status"` // 'active', 'inactive', 'cancelled'
	SubscriptionCode     *string    `json:"subscription_code,omitempty"`
	PaystackCustomerCode *string    `json:"paystack_customer_code,omitempty"`
	SubscribedAt         *time.Time `json:"subscribed_at,omitempty"`
}

// UserUpdate carries the subscription fields a single reconciliation step
// writes. Nil fields are left untouched by the store; no field is ever
// cleared back to NULL through this path.
type UserUpdate struct {
	Subscribed           *bool
	Plan                 *string
	SubscriptionStatus   *string
	SubscriptionCode     *string
	PaystackCustomerCode *string
	SubscribedAt         *time.Time
}
