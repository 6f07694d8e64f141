/**
 * @description
 * This file contains the HTTP handler functions for the backend-service.
 * Handlers are responsible for parsing incoming requests, calling the
 * appropriate business logic, and writing the HTTP response.
 */
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/brandpulse/backend-service/internal/app"
	"github.com/brandpulse/backend-service/pkg/paystackclient"
)

// TransactionVerifier is the subset of the Paystack client the handlers use.
type TransactionVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*paystackclient.TransactionVerification, error)
}

// Handler holds the application services that handlers interact with.
type Handler struct {
	service  app.Service
	chat     *app.ChatService
	paystack TransactionVerifier
}

// NewHandler creates a new Handler with the given services.
func NewHandler(service app.Service, chat *app.ChatService, paystack TransactionVerifier) *Handler {
	return &Handler{service: service, chat: chat, paystack: paystack}
}

// handleHealth responds to the root health probe.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "backend working"})
}

// handleUserSync upserts the authenticated caller and ensures a subscription
// row exists.
func (h *Handler) handleUserSync(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	email, _ := EmailFromContext(r.Context())

	result, err := h.service.SyncUser(r.Context(), userID, email)
	if err != nil {
		log.Printf("User sync failed for %s: %v", userID, err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{"message": "User sync failed"})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"user":         result.User,
		"subscription": result.Subscription,
	})
}

// handleChat generates a brand-grounded reply for a user message.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string `json:"userId"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Message == "" {
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"error": "userId and message required"})
		return
	}

	result, err := h.chat.Chat(r.Context(), req.UserID, req.Message)
	if err != nil {
		log.Printf("AI chat error for user %s: %v", req.UserID, err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// handleVerifyPayment confirms a checkout reference with Paystack. It never
// writes subscription state: activation belongs to the webhook.
func (h *Handler) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reference == "" {
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"error": "Transaction reference required"})
		return
	}

	verification, err := h.paystack.VerifyTransaction(r.Context(), req.Reference)
	if err != nil {
		log.Printf("verify-payment error for reference %s: %v", req.Reference, err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Server error",
		})
		return
	}

	if !verification.Succeeded() {
		respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Payment verification failed",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"message":          "Payment received. Subscription activating...",
		"email":            verification.Data.Customer.Email,
		"subscriptionCode": verification.Data.Subscription,
	})
}

// respondWithJSON is a helper function to write JSON responses.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
