package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brandpulse/backend-service/internal/domain"
	"github.com/brandpulse/backend-service/internal/paystack"
)

// fakeStore is an in-memory ReconcilerStore that applies updates with the
// same keep-when-nil semantics as the SQL repository.
type fakeStore struct {
	users       map[string]*domain.User // keyed by user ID
	subs        map[string]*domain.Subscription
	updateCalls int
	upsertCalls int
	failWith    error
}

func newFakeStore(users ...*domain.User) *fakeStore {
	s := &fakeStore{
		users: make(map[string]*domain.User),
		subs:  make(map[string]*domain.Subscription),
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeStore) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindUserBySubscriptionCode(_ context.Context, code string) (*domain.User, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, u := range s.users {
		if u.SubscriptionCode != nil && *u.SubscriptionCode == code {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) UpdateUser(_ context.Context, userID string, fields domain.UserUpdate) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.updateCalls++
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	if fields.Subscribed != nil {
		u.Subscribed = *fields.Subscribed
	}
	if fields.Plan != nil {
		u.Plan = *fields.Plan
	}
	if fields.SubscriptionStatus != nil {
		u.SubscriptionStatus = *fields.SubscriptionStatus
	}
	if fields.SubscriptionCode != nil {
		u.SubscriptionCode = fields.SubscriptionCode
	}
	if fields.PaystackCustomerCode != nil {
		u.PaystackCustomerCode = fields.PaystackCustomerCode
	}
	if fields.SubscribedAt != nil {
		u.SubscribedAt = fields.SubscribedAt
	}
	return nil
}

func (s *fakeStore) UpsertSubscription(_ context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	s.upsertCalls++
	saved := *sub
	s.subs[sub.UserID] = &saved
	return &saved, nil
}

func chargeSuccess(email, code, customerCode string) paystack.Event {
	return paystack.Event{
		Kind:             paystack.EventChargeSuccess,
		Email:            email,
		SubscriptionCode: code,
		CustomerCode:     customerCode,
	}
}

func freshUser(id, email string) *domain.User {
	return &domain.User{
		ID:                 id,
		Email:              email,
		Plan:               domain.PlanFree,
		SubscriptionStatus: domain.SubscriptionStatusInactive,
	}
}

func TestApplyChargeSuccessActivatesUser(t *testing.T) {
	store := newFakeStore(freshUser("u1", "a@x.com"))
	r := NewReconciler(store)

	if err := r.Apply(context.Background(), chargeSuccess("a@x.com", "SUB1", "CUS1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := store.users["u1"]
	if !user.Subscribed {
		t.Fatal("expected user to be subscribed")
	}
	if user.Plan != domain.PlanPro {
		t.Fatalf("expected plan pro, got %q", user.Plan)
	}
	if user.SubscriptionStatus != domain.SubscriptionStatusActive {
		t.Fatalf("expected status active, got %q", user.SubscriptionStatus)
	}
	if user.SubscriptionCode == nil || *user.SubscriptionCode != "SUB1" {
		t.Fatalf("expected subscription code SUB1, got %v", user.SubscriptionCode)
	}
	if user.PaystackCustomerCode == nil || *user.PaystackCustomerCode != "CUS1" {
		t.Fatalf("expected customer code CUS1, got %v", user.PaystackCustomerCode)
	}
	if user.SubscribedAt == nil {
		t.Fatal("expected subscribed_at to be set")
	}

	sub, ok := store.subs["u1"]
	if !ok {
		t.Fatal("expected subscription row to be created")
	}
	if sub.Status != domain.SubscriptionStatusActive || sub.Plan != domain.PlanPro {
		t.Fatalf("expected active pro subscription, got %+v", sub)
	}
	if sub.Provider != domain.ProviderPaystack {
		t.Fatalf("expected provider paystack, got %q", sub.Provider)
	}
}

func TestApplyChargeSuccessIsIdempotent(t *testing.T) {
	store := newFakeStore(freshUser("u1", "a@x.com"))
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := NewReconciler(store)
	r.now = func() time.Time { return fixed }

	event := chargeSuccess("a@x.com", "SUB1", "CUS1")
	if err := r.Apply(context.Background(), event); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	userAfterFirst := *store.users["u1"]
	subAfterFirst := *store.subs["u1"]

	if err := r.Apply(context.Background(), event); err != nil {
		t.Fatalf("second apply failed: %v", err)
	}

	user := store.users["u1"]
	if user.Subscribed != userAfterFirst.Subscribed ||
		user.Plan != userAfterFirst.Plan ||
		user.SubscriptionStatus != userAfterFirst.SubscriptionStatus ||
		*user.SubscriptionCode != *userAfterFirst.SubscriptionCode ||
		*user.PaystackCustomerCode != *userAfterFirst.PaystackCustomerCode ||
		!user.SubscribedAt.Equal(*userAfterFirst.SubscribedAt) {
		t.Fatalf("expected identical user state after redelivery, got %+v", user)
	}
	sub := store.subs["u1"]
	if *sub.SubscriptionCode != *subAfterFirst.SubscriptionCode ||
		sub.Status != subAfterFirst.Status ||
		sub.Plan != subAfterFirst.Plan {
		t.Fatalf("expected identical subscription state after redelivery, got %+v", sub)
	}
}

func TestApplyChargeSuccessUntrackedEmailIsNoOp(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)

	if err := r.Apply(context.Background(), chargeSuccess("nobody@x.com", "SUB1", "CUS1")); err != nil {
		t.Fatalf("expected no-op success for untracked email, got %v", err)
	}
	if store.updateCalls != 0 || store.upsertCalls != 0 {
		t.Fatalf("expected zero writes, got %d updates and %d upserts", store.updateCalls, store.upsertCalls)
	}
}

func TestApplyPaymentFailedDeactivatesWithoutTouchingPlan(t *testing.T) {
	code := "SUB1"
	store := newFakeStore(&domain.User{
		ID:                 "u1",
		Email:              "a@x.com",
		Subscribed:         true,
		Plan:               domain.PlanPro,
		SubscriptionStatus: domain.SubscriptionStatusActive,
		SubscriptionCode:   &code,
	})
	r := NewReconciler(store)

	err := r.Apply(context.Background(), paystack.Event{Kind: paystack.EventPaymentFailed, Email: "a@x.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := store.users["u1"]
	if user.Subscribed {
		t.Fatal("expected user to be unsubscribed")
	}
	if user.SubscriptionStatus != domain.SubscriptionStatusInactive {
		t.Fatalf("expected status inactive, got %q", user.SubscriptionStatus)
	}
	// Soft failure: plan and code survive for a later successful charge.
	if user.Plan != domain.PlanPro {
		t.Fatalf("expected plan untouched, got %q", user.Plan)
	}
	if user.SubscriptionCode == nil || *user.SubscriptionCode != "SUB1" {
		t.Fatalf("expected subscription code untouched, got %v", user.SubscriptionCode)
	}
}

func TestApplyPaymentFailedUnknownEmailIsNoOp(t *testing.T) {
	store := newFakeStore(freshUser("u1", "a@x.com"))
	r := NewReconciler(store)

	err := r.Apply(context.Background(), paystack.Event{Kind: paystack.EventPaymentFailed, Email: "other@x.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.updateCalls != 0 {
		t.Fatalf("expected zero writes, got %d", store.updateCalls)
	}
}

func TestApplySubscriptionDisabledCancelsByCode(t *testing.T) {
	store := newFakeStore(freshUser("u1", "a@x.com"))
	r := NewReconciler(store)

	// Scenario: activation first, then the provider disables the code.
	if err := r.Apply(context.Background(), chargeSuccess("a@x.com", "SUB1", "CUS1")); err != nil {
		t.Fatalf("charge apply failed: %v", err)
	}
	err := r.Apply(context.Background(), paystack.Event{Kind: paystack.EventSubscriptionDisabled, SubscriptionCode: "SUB1"})
	if err != nil {
		t.Fatalf("disable apply failed: %v", err)
	}

	user := store.users["u1"]
	if user.Subscribed {
		t.Fatal("expected user to be unsubscribed")
	}
	if user.SubscriptionStatus != domain.SubscriptionStatusCancelled {
		t.Fatalf("expected status cancelled, got %q", user.SubscriptionStatus)
	}
}

func TestApplySubscriptionDisabledUnknownCodeIsNoOp(t *testing.T) {
	store := newFakeStore(freshUser("u1", "a@x.com"))
	r := NewReconciler(store)

	err := r.Apply(context.Background(), paystack.Event{Kind: paystack.EventSubscriptionDisabled, SubscriptionCode: "SUB_UNSEEN"})
	if err != nil {
		t.Fatalf("expected no-op for unrecorded code, got %v", err)
	}
	if store.updateCalls != 0 {
		t.Fatalf("expected zero writes, got %d", store.updateCalls)
	}
}

func TestApplyUnknownEventIsNoOp(t *testing.T) {
	store := newFakeStore(freshUser("u1", "a@x.com"))
	r := NewReconciler(store)

	if err := r.Apply(context.Background(), paystack.Event{Kind: paystack.EventUnknown}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.updateCalls != 0 || store.upsertCalls != 0 {
		t.Fatal("expected zero writes for unknown events")
	}
}

func TestApplyPropagatesStoreErrors(t *testing.T) {
	store := newFakeStore(freshUser("u1", "a@x.com"))
	store.failWith = errors.New("connection refused")
	r := NewReconciler(store)

	if err := r.Apply(context.Background(), chargeSuccess("a@x.com", "SUB1", "CUS1")); err == nil {
		t.Fatal("expected store failure to surface")
	}
}

// The subscribed flag must always agree with subscription_status == active,
// no matter which events arrive in which order.
func TestSubscribedFlagTracksActiveStatus(t *testing.T) {
	store := newFakeStore(freshUser("u1", "a@x.com"))
	r := NewReconciler(store)

	events := []paystack.Event{
		chargeSuccess("a@x.com", "SUB1", "CUS1"),
		{Kind: paystack.EventPaymentFailed, Email: "a@x.com"},
		chargeSuccess("a@x.com", "SUB2", "CUS1"),
		{Kind: paystack.EventSubscriptionDisabled, SubscriptionCode: "SUB2"},
		{Kind: paystack.EventUnknown},
	}

	for i, event := range events {
		if err := r.Apply(context.Background(), event); err != nil {
			t.Fatalf("event %d failed: %v", i, err)
		}
		user := store.users["u1"]
		active := user.SubscriptionStatus == domain.SubscriptionStatusActive
		if user.Subscribed != active {
			t.Fatalf("after event %d: subscribed=%t disagrees with status %q", i, user.Subscribed, user.SubscriptionStatus)
		}
	}
}
