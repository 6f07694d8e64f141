/**
 * @description
 * This file contains the business logic for user synchronization.
 * The Service layer orchestrates data from the repositories and applies
 * business rules.
 */
package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/brandpulse/backend-service/internal/domain"
)

// SyncStore defines the store operations the sync service needs.
type SyncStore interface {
	UpsertUser(ctx context.Context, userID, email string) (*domain.User, error)
	GetSubscriptionByUserID(ctx context.Context, userID string) (*domain.Subscription, error)
	UpsertSubscription(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error)
}

// Service provides the business logic for user and subscription management.
type Service struct {
	store SyncStore
}

// NewService creates a new service.
func NewService(store SyncStore) Service {
	return Service{store: store}
}

// SyncResult is returned to the frontend after a sync.
type SyncResult struct {
	User         *domain.User         `json:"user"`
	Subscription *domain.Subscription `json:"subscription"`
}

// SyncUser upserts the authenticated user's row and ensures a subscription
// row exists, seeding a free/active one on first sync. Paid activation is
// never done here; the webhook reconciliation engine owns it.
func (s Service) SyncUser(ctx context.Context, userID, email string) (*SyncResult, error) {
	if userID == "" || email == "" {
		return nil, errors.New("user id and email are required")
	}

	user, err := s.store.UpsertUser(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	sub, err := s.store.GetSubscriptionByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if sub == nil {
		log.Printf("No subscription found for user %s, creating free tier record", userID)
		sub, err = s.store.UpsertSubscription(ctx, &domain.Subscription{
			UserID:    userID,
			Email:     email,
			Plan:      domain.PlanFree,
			Provider:  domain.ProviderPaystack,
			Status:    domain.SubscriptionStatusActive,
			UpdatedAt: time.Now(),
		})
		if err != nil {
			return nil, err
		}
	}

	return &SyncResult{User: user, Subscription: sub}, nil
}
