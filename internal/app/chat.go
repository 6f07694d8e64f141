/**
 * @description
 * This file contains the business logic for the AI chat endpoint.
 * It assembles a system prompt from the user's brand knowledge, forwards it
 * to the completion API, persists the reply as a post, and condenses the
 * reply into a memory summary for future prompts.
 *
 * @dependencies
 * - golang.org/x/sync/errgroup: For the concurrent profile reads.
 * - pkg/openaiclient: The chat-completions client.
 */
package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/brandpulse/backend-service/internal/domain"
	"github.com/brandpulse/backend-service/pkg/openaiclient"
)

// memoryWindow caps how many past summaries are folded into each prompt.
const memoryWindow = 8

// ChatStore defines the store operations the chat service needs.
type ChatStore interface {
	GetBrandProfile(ctx context.Context, userID string) (*domain.BrandProfile, error)
	GetAudienceProfile(ctx context.Context, userID string) (*domain.AudienceProfile, error)
	GetAIRules(ctx context.Context, userID string) (*domain.AIRules, error)
	ListOffers(ctx context.Context, userID string) ([]domain.Offer, error)
	ListRecentMemories(ctx context.Context, userID string, limit int) ([]domain.MemorySummary, error)
	CreatePost(ctx context.Context, userID, content string) (*domain.Post, error)
	CreateMemorySummary(ctx context.Context, userID, postID, summary string) error
}

// CompletionClient is the subset of the OpenAI client the chat service uses.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openaiclient.ChatCompletionRequest) (*openaiclient.ChatCompletionResponse, error)
}

// ChatService generates brand-grounded replies.
type ChatService struct {
	store  ChatStore
	client CompletionClient
	model  string
}

// NewChatService creates a new chat service.
func NewChatService(store ChatStore, client CompletionClient, model string) *ChatService {
	return &ChatService{store: store, client: client, model: model}
}

// ChatResult is the response payload for /ai/chat.
type ChatResult struct {
	Reply         string       `json:"reply"`
	Post          *domain.Post `json:"post"`
	MemorySummary string       `json:"memorySummary"`
}

// Chat answers a user message in the brand's voice and records the exchange.
func (s *ChatService) Chat(ctx context.Context, userID, message string) (*ChatResult, error) {
	var (
		brand    *domain.BrandProfile
		audience *domain.AudienceProfile
		rules    *domain.AIRules
	)

	// The three profile reads are independent, so fan them out.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		brand, err = s.store.GetBrandProfile(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		audience, err = s.store.GetAudienceProfile(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		rules, err = s.store.GetAIRules(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load brand knowledge: %w", err)
	}

	offers, err := s.store.ListOffers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load offers: %w", err)
	}
	memories, err := s.store.ListRecentMemories(ctx, userID, memoryWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load memories: %w", err)
	}

	systemPrompt := buildSystemPrompt(brand, audience, rules, offers, memories)

	completion, err := s.client.CreateChatCompletion(ctx, openaiclient.ChatCompletionRequest{
		Model: s.model,
		Messages: []openaiclient.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	reply := completion.FirstContent()

	post, err := s.store.CreatePost(ctx, userID, reply)
	if err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	summary, err := s.summarize(ctx, reply)
	if err != nil {
		// The reply is already saved; a lost memory only degrades future
		// prompts, so log and return the reply anyway.
		log.Printf("Failed to summarize post %s: %v", post.ID, err)
		return &ChatResult{Reply: reply, Post: post}, nil
	}

	if err := s.store.CreateMemorySummary(ctx, userID, post.ID, summary); err != nil {
		log.Printf("Failed to save memory summary for post %s: %v", post.ID, err)
		return &ChatResult{Reply: reply, Post: post}, nil
	}

	return &ChatResult{Reply: reply, Post: post, MemorySummary: summary}, nil
}

// summarize condenses a reply into a short memory with a deterministic
// second completion call.
func (s *ChatService) summarize(ctx context.Context, reply string) (string, error) {
	temperature := float64(0)
	completion, err := s.client.CreateChatCompletion(ctx, openaiclient.ChatCompletionRequest{
		Model:       s.model,
		Temperature: &temperature,
		Messages: []openaiclient.Message{
			{Role: "user", Content: "Summarize this post into short AI memory:\n" + reply},
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(completion.FirstContent()), nil
}

// buildSystemPrompt assembles the grounding prompt. Missing profile tables
// fall back to neutral defaults rather than failing the request.
func buildSystemPrompt(
	brand *domain.BrandProfile,
	audience *domain.AudienceProfile,
	rules *domain.AIRules,
	offers []domain.Offer,
	memories []domain.MemorySummary,
) string {
	name, tone := "Unknown", "Neutral"
	var beliefs []string
	if brand != nil {
		if brand.Name != "" {
			name = brand.Name
		}
		if brand.Tone != "" {
			tone = brand.Tone
		}
		beliefs = brand.Beliefs
	}

	target := "General"
	if audience != nil && audience.TargetAudience != "" {
		target = audience.TargetAudience
	}

	var bannedWords []string
	if rules != nil {
		bannedWords = rules.BannedWords
	}

	var b strings.Builder
	b.WriteString("You are an AI assistant representing this brand.\n\n")

	b.WriteString("BRAND:\n")
	fmt.Fprintf(&b, "- Name: %s\n", name)
	fmt.Fprintf(&b, "- Tone: %s\n\n", tone)

	b.WriteString("BELIEFS:\n")
	for _, belief := range beliefs {
		fmt.Fprintf(&b, "- %s\n", belief)
	}

	b.WriteString("\nAUDIENCE:\n")
	fmt.Fprintf(&b, "- Target: %s\n\n", target)

	b.WriteString("OFFERS:\n")
	for _, offer := range offers {
		fmt.Fprintf(&b, "- %s: %s\n", offer.Title, offer.Description)
	}

	b.WriteString("\nMEMORY:\n")
	for _, memory := range memories {
		fmt.Fprintf(&b, "- %s\n", memory.Summary)
	}

	b.WriteString("\nRULES:\nNever use banned words:\n")
	for _, word := range bannedWords {
		fmt.Fprintf(&b, "- %s\n", word)
	}

	return b.String()
}
