/**
 * @description
 * This file contains the HTTP handler for processing incoming webhooks from
 * Paystack. It is the sole authority for subscription activation: the
 * /verify-payment endpoint only confirms a charge, it never writes state.
 *
 * Key features:
 * - Security: Validates the HMAC-SHA512 signature over the raw body before
 *   any JSON decoding. No body-parsing middleware is mounted on this route,
 *   so the bytes that reach the verifier are the untouched wire bytes.
 * - Classification: Decodes the payload into a closed event set; unknown
 *   event types are acknowledged without processing so Paystack does not
 *   retry events this service intentionally ignores.
 * - Reconciliation: Applies the event to user/subscription state through
 *   the reconciliation engine. Store failures answer 500 so Paystack
 *   redelivers the event later.
 */
package api

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/brandpulse/backend-service/internal/paystack"
)

// SignatureHeader is the header Paystack carries its HMAC in.
const SignatureHeader = "x-paystack-signature"

// Reconciler applies one classified webhook event to persisted state.
type Reconciler interface {
	Apply(ctx context.Context, event paystack.Event) error
}

// WebhookHandler processes incoming webhooks from Paystack.
type WebhookHandler struct {
	reconciler Reconciler
	secret     string
}

// NewWebhookHandler creates a new handler for the webhook endpoint.
func NewWebhookHandler(reconciler Reconciler, secret string) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, secret: secret}
}

// ServeHTTP implements the http.Handler interface.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("[%s] Error reading webhook body: %v", requestID, err)
		http.Error(w, "Cannot read request body", http.StatusBadRequest)
		return
	}

	if !paystack.VerifySignature(body, r.Header.Get(SignatureHeader), h.secret) {
		log.Printf("[%s] Error: invalid webhook signature", requestID)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := paystack.ParseEvent(body)
	if err != nil {
		log.Printf("[%s] Error decoding webhook payload: %v", requestID, err)
		http.Error(w, "Invalid JSON payload", http.StatusInternalServerError)
		return
	}

	if event.Kind == paystack.EventUnknown {
		log.Printf("[%s] Unhandled webhook event type, acknowledging", requestID)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Webhook received"))
		return
	}

	if err := h.reconciler.Apply(r.Context(), event); err != nil {
		log.Printf("[%s] Failed to reconcile %s event: %v", requestID, event.Kind, err)
		http.Error(w, "Internal server error during event processing", http.StatusInternalServerError)
		return
	}

	log.Printf("[%s] Reconciled webhook event: %s", requestID, event.Kind)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Webhook received"))
}
