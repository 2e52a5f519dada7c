package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"docassist/internal/ai"
	"docassist/internal/vectorstore"
)

const retrievalTopK = 3

var ErrQueryEmpty = errors.New("query is empty")

// greetingKeywords trigger the canned-reply path on substring containment
// anywhere in the lower-cased query. Deliberately loose: a document question
// that happens to contain "hi" takes the greeting path too.
var greetingKeywords = []string{
	"hello", "hi", "hey",
	"good morning", "good afternoon", "good evening",
	"how are you", "what's up", "hey there", "hi there",
}

var genericGreetingReplies = []string{
	"Hi there! 👋 I'm here to help you find information from your documents. What can I help you with today?",
	"Hello! 😊 I'm ready to search through your documents and answer your questions. What would you like to know?",
	"Hey! Great to see you. I'm here to help you find information - just ask me anything about your documents!",
	"Hi! I'm your document assistant. I can search through your files and answer questions based on them. What would you like to know?",
}

const responderSystemPrompt = `You are a helpful and knowledgeable assistant. Your responses must follow these rules STRICTLY:

WHEN THE ANSWER IS IN THE CONTEXT:
- Provide a clear, specific answer using ONLY the information from the provided context
- Always cite your source by mentioning which document the information came from
- Write in a friendly, casual tone like a knowledgeable person explaining something
- Be concise but thorough - give the complete answer found in the context

WHEN THE ANSWER IS NOT IN THE CONTEXT:
- DO NOT try to make up an answer or use outside knowledge
- Politely state that you couldn't find the specific information in the provided documents
- Offer a friendly suggestion for how the user might find the information
- Keep it warm and human-like - don't sound robotic or apologetic

Remember: Your knowledge is limited to exactly what's in the provided context documents.`

// ChunkRetriever searches one user's namespace for the nearest chunks.
type ChunkRetriever interface {
	Search(ctx context.Context, userID string, vector []float32, topK int) ([]vectorstore.SearchResult, error)
}

// QueryEmbedder maps a query to its vector.
type QueryEmbedder interface {
	Embed(ctx context.Context, cfg ai.EmbeddingConfig, text string) ([]float32, error)
}

// ChatCompleter runs one chat-completion round trip.
type ChatCompleter interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// QueryEmbeddingCache is best-effort; failures are logged and ignored.
type QueryEmbeddingCache interface {
	Get(ctx context.Context, text string) ([]float32, bool, error)
	Set(ctx context.Context, text string, vec []float32) error
}

type ResponderService struct {
	retriever  ChunkRetriever
	embedder   QueryEmbedder
	completer  ChatCompleter
	embCache   QueryEmbeddingCache
	embConfig  ai.EmbeddingConfig
	chatConfig ai.ChatConfig
	pick       func(n int) int
}

// NewResponderService wires the chat pipeline. pick selects the generic
// greeting reply and must return a value in [0, n); tests pin it.
func NewResponderService(
	retriever ChunkRetriever,
	embedder QueryEmbedder,
	completer ChatCompleter,
	embCache QueryEmbeddingCache,
	embConfig ai.EmbeddingConfig,
	chatConfig ai.ChatConfig,
	pick func(n int) int,
) *ResponderService {
	return &ResponderService{
		retriever:  retriever,
		embedder:   embedder,
		completer:  completer,
		embCache:   embCache,
		embConfig:  embConfig,
		chatConfig: chatConfig,
		pick:       pick,
	}
}

type RespondInput struct {
	UserID string
	Query  string
}

type RespondResult struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	UserID  string   `json:"user_id"`
}

// Respond classifies the query and takes one of two terminal paths: a canned
// greeting reply, or retrieval plus a grounded LLM answer.
func (s *ResponderService) Respond(ctx context.Context, input RespondInput) (*RespondResult, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, ErrQueryEmpty
	}

	if isGreeting(query) {
		return &RespondResult{
			Answer:  s.greetingReply(query),
			Sources: []string{},
			UserID:  input.UserID,
		}, nil
	}

	queryVec, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := s.retriever.Search(ctx, input.UserID, queryVec, retrievalTopK)
	if err != nil {
		return nil, err
	}

	contextBlocks := make([]string, len(hits))
	sources := make([]string, len(hits))
	for i, hit := range hits {
		contextBlocks[i] = fmt.Sprintf("Source: %s\nContent: %s", hit.Chunk.Source, hit.Chunk.Text)
		sources[i] = hit.Chunk.Source
	}

	userContent := fmt.Sprintf(
		"Here is my question: %s\n\nHere are the documents I have for context:\n%s\n\nPlease answer my question using ONLY the information above. If the answer isn't there, just let me know politely.",
		query,
		strings.Join(contextBlocks, "\n"),
	)

	messages := []ai.ChatMessage{
		{Role: "system", Content: responderSystemPrompt},
		{Role: "user", Content: userContent},
	}
	answer, err := s.completer.Complete(ctx, s.chatConfig, messages)
	if err != nil {
		return nil, err
	}

	return &RespondResult{
		Answer:  answer,
		Sources: sources,
		UserID:  input.UserID,
	}, nil
}

func (s *ResponderService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if vec, ok, err := s.embCache.Get(ctx, query); err != nil {
		log.Warn().Err(err).Msg("query embedding cache read failed")
	} else if ok {
		return vec, nil
	}

	vec, err := s.embedder.Embed(ctx, s.embConfig, query)
	if err != nil {
		return nil, err
	}
	if err := s.embCache.Set(ctx, query, vec); err != nil {
		log.Warn().Err(err).Msg("query embedding cache write failed")
	}
	return vec, nil
}

func isGreeting(query string) bool {
	lower := strings.ToLower(query)
	for _, keyword := range greetingKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func (s *ResponderService) greetingReply(query string) string {
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "how are you"):
		return "I'm doing great, thanks for asking! 😊 Ready to help you find information from your documents. What can I help you with?"
	case strings.Contains(lower, "what's up"), strings.Contains(lower, "sup"):
		return "Not much! Just here and ready to search your documents for you. What information are you looking for?"
	case strings.Contains(lower, "good morning"):
		return "Good morning! ☀️ Hope you're having a great start to your day. What can I help you find in your documents?"
	case strings.Contains(lower, "good afternoon"):
		return "Good afternoon! 😊 Ready to help you find whatever information you need from your documents."
	case strings.Contains(lower, "good evening"):
		return "Good evening! 🌙 I'm here to help you search through your documents. What would you like to know?"
	default:
		return genericGreetingReplies[s.pick(len(genericGreetingReplies))]
	}
}
