/**
 * @description
 * Domain models for the brand knowledge read by the AI chat endpoint.
 * These rows are written by the frontend; this service only reads them,
 * except for posts and memory summaries which it creates after each reply.
 */
package domain

import "time"

// BrandProfile holds the brand identity used to ground the assistant.
type BrandProfile struct {
	UserID  string   `json:"user_id"`
	Name    string   `json:"name"`
	Tone    string   `json:"tone"`
	Beliefs []string `json:"beliefs"`
}

// AudienceProfile describes who the brand is speaking to.
type AudienceProfile struct {
	UserID         string `json:"user_id"`
	TargetAudience string `json:"target_audience"`
}

// AIRules holds per-user generation constraints.
type AIRules struct {
	UserID      string   `json:"user_id"`
	BannedWords []string `json:"banned_words"`
}

// Offer is a product or service the assistant may reference.
type Offer struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Post is a generated reply persisted for the user.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MemorySummary is a condensed record of a past post, fed back into
// future prompts so the assistant stays consistent over time.
type MemorySummary struct {
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
