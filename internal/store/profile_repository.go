/**
 * @description
 * This file implements the data access layer for the brand knowledge tables
 * read by the AI chat endpoint, plus the posts and memory summaries it writes.
 *
 * @notes
 * - Profile lookups return (nil, nil) when a user has not filled in a table
 *   yet; the chat prompt falls back to neutral defaults in that case.
 */
package store

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brandpulse/backend-service/internal/domain"
)

// ProfileRepository is the PostgreSQL implementation of brand knowledge storage.
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetBrandProfile returns the brand profile for a user, or nil if none exists.
func (r *ProfileRepository) GetBrandProfile(ctx context.Context, userID string) (*domain.BrandProfile, error) {
	var profile domain.BrandProfile
	query := `SELECT user_id, name, tone, beliefs FROM brand_profiles WHERE user_id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Name,
		&profile.Tone,
		&profile.Beliefs,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetAudienceProfile returns the audience profile for a user, or nil if none exists.
func (r *ProfileRepository) GetAudienceProfile(ctx context.Context, userID string) (*domain.AudienceProfile, error) {
	var profile domain.AudienceProfile
	query := `SELECT user_id, target_audience FROM audience_profiles WHERE user_id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(&profile.UserID, &profile.TargetAudience)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetAIRules returns the generation rules for a user, or nil if none exist.
func (r *ProfileRepository) GetAIRules(ctx context.Context, userID string) (*domain.AIRules, error) {
	var rules domain.AIRules
	query := `SELECT user_id, banned_words FROM ai_rules WHERE user_id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(&rules.UserID, &rules.BannedWords)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rules, nil
}

// ListOffers returns all offers for a user.
func (r *ProfileRepository) ListOffers(ctx context.Context, userID string) ([]domain.Offer, error) {
	query := `SELECT user_id, title, description FROM offers WHERE user_id = $1`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		var offer domain.Offer
		if err := rows.Scan(&offer.UserID, &offer.Title, &offer.Description); err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

// ListRecentMemories returns the most recent memory summaries for a user,
// newest first, capped at limit.
func (r *ProfileRepository) ListRecentMemories(ctx context.Context, userID string, limit int) ([]domain.MemorySummary, error) {
	query := `
        SELECT user_id, post_id, summary, created_at
        FROM memory_summaries
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []domain.MemorySummary
	for rows.Next() {
		var memory domain.MemorySummary
		if err := rows.Scan(&memory.UserID, &memory.PostID, &memory.Summary, &memory.CreatedAt); err != nil {
			return nil, err
		}
		memories = append(memories, memory)
	}
	return memories, rows.Err()
}

// CreatePost stores a generated reply and returns the persisted row.
func (r *ProfileRepository) CreatePost(ctx context.Context, userID, content string) (*domain.Post, error) {
	var post domain.Post
	query := `
        INSERT INTO posts (user_id, content)
        VALUES ($1, $2)
        RETURNING id, user_id, content, created_at
    `
	err := r.db.QueryRow(ctx, query, userID, content).Scan(
		&post.ID,
		&post.UserID,
		&post.Content,
		&post.CreatedAt,
	)
	if err != nil {
		log.Printf("Error creating post for user %s: %v", userID, err)
		return nil, err
	}
	return &post, nil
}

// CreateMemorySummary stores the condensed memory for a post.
func (r *ProfileRepository) CreateMemorySummary(ctx context.Context, userID, postID, summary string) error {
	query := `INSERT INTO memory_summaries (user_id, post_id, summary) VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, query, userID, postID, summary); err != nil {
		log.Printf("Error creating memory summary for user %s: %v", userID, err)
		return err
	}
	return nil
}
