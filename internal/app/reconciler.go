/**
 * @description
 * This file contains the webhook reconciliation engine: it applies one
 * classified Paystack event to the persisted user and subscription state.
 *
 * @notes
 * - Every transition is idempotent, so provider redeliveries are safe:
 *   applying the same event twice yields the same final state.
 * - Lookup and update are two separate store calls, so two concurrent
 *   deliveries for the same user can interleave. That window is accepted:
 *   last write wins at the field level, the provider redelivers
 *   infrequently, and each event kind writes a disjoint-enough field set.
 *   No cross-event locking is taken.
 * - The user update and the subscription upsert on charge.success are
 *   independently idempotent, so a delivery that dies between the two
 *   writes is healed by the next redelivery.
 */
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brandpulse/backend-service/internal/domain"
	"github.com/brandpulse/backend-service/internal/paystack"
)

// ReconcilerStore defines the four store operations the reconciliation
// engine consumes. User lookups return (nil, nil) when no row matches.
type ReconcilerStore interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserBySubscriptionCode(ctx context.Context, code string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, fields domain.UserUpdate) error
	UpsertSubscription(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error)
}

// Reconciler brings persisted subscription state in line with the payment
// provider's event stream.
type Reconciler struct {
	store ReconcilerStore
	now   func() time.Time
}

// NewReconciler creates a new reconciliation engine.
func NewReconciler(store ReconcilerStore) *Reconciler {
	return &Reconciler{store: store, now: time.Now}
}

// Apply reconciles one classified webhook event against the store.
// Events for users this system does not track are a success no-op: the
// provider may know about customers that have not synced here yet.
func (r *Reconciler) Apply(ctx context.Context, event paystack.Event) error {
	switch event.Kind {
	case paystack.EventChargeSuccess:
		return r.applyChargeSuccess(ctx, event)
	case paystack.EventPaymentFailed:
		return r.applyPaymentFailed(ctx, event)
	case paystack.EventSubscriptionDisabled:
		return r.applySubscriptionDisabled(ctx, event)
	case paystack.EventUnknown:
		return nil
	default:
		return nil
	}
}

// applyChargeSuccess activates the user's pro subscription and upserts the
// subscription row recording the provider-issued code.
func (r *Reconciler) applyChargeSuccess(ctx context.Context, event paystack.Event) error {
	user, err := r.store.FindUserByEmail(ctx, event.Email)
	if err != nil {
		return fmt.Errorf("failed to look up user by email: %w", err)
	}
	if user == nil {
		log.Printf("charge.success for untracked email %s, ignoring", event.Email)
		return nil
	}

	now := r.now()
	subscribed := true
	plan := domain.PlanPro
	status := domain.SubscriptionStatusActive
	code := event.SubscriptionCode
	customerCode := event.CustomerCode

	err = r.store.UpdateUser(ctx, user.ID, domain.UserUpdate{
		Subscribed:           &subscribed,
		Plan:                 &plan,
		SubscriptionStatus:   &status,
		SubscriptionCode:     &code,
		PaystackCustomerCode: &customerCode,
		SubscribedAt:         &now,
	})
	if err != nil {
		return fmt.Errorf("failed to activate user %s: %w", user.ID, err)
	}

	_, err = r.store.UpsertSubscription(ctx, &domain.Subscription{
		UserID:           user.ID,
		Email:            event.Email,
		Plan:             domain.PlanPro,
		Provider:         domain.ProviderPaystack,
		SubscriptionCode: &code,
		Status:           domain.SubscriptionStatusActive,
		UpdatedAt:        now,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert subscription for user %s: %w", user.ID, err)
	}
	return nil
}

// applyPaymentFailed marks the user inactive. Plan and subscription code are
// left untouched: a failed invoice is a soft failure, not a cancellation.
func (r *Reconciler) applyPaymentFailed(ctx context.Context, event paystack.Event) error {
	user, err := r.store.FindUserByEmail(ctx, event.Email)
	if err != nil {
		return fmt.Errorf("failed to look up user by email: %w", err)
	}
	if user == nil {
		log.Printf("invoice.payment_failed for untracked email %s, ignoring", event.Email)
		return nil
	}

	subscribed := false
	status := domain.SubscriptionStatusInactive
	err = r.store.UpdateUser(ctx, user.ID, domain.UserUpdate{
		Subscribed:         &subscribed,
		SubscriptionStatus: &status,
	})
	if err != nil {
		return fmt.Errorf("failed to deactivate user %s: %w", user.ID, err)
	}
	return nil
}

// applySubscriptionDisabled cancels the subscription identified by the
// provider code. The code can only match if a prior charge.success recorded
// it; an unmatched code is a no-op.
func (r *Reconciler) applySubscriptionDisabled(ctx context.Context, event paystack.Event) error {
	user, err := r.store.FindUserBySubscriptionCode(ctx, event.SubscriptionCode)
	if err != nil {
		return fmt.Errorf("failed to look up user by subscription code: %w", err)
	}
	if user == nil {
		log.Printf("subscription.disable for unknown code %s, ignoring", event.SubscriptionCode)
		return nil
	}

	subscribed := false
	status := domain.SubscriptionStatusCancelled
	err = r.store.UpdateUser(ctx, user.ID, domain.UserUpdate{
		Subscribed:         &subscribed,
		SubscriptionStatus: &status,
	})
	if err != nil {
		return fmt.Errorf("failed to cancel subscription for user %s: %w", user.ID, err)
	}
	return nil
}
