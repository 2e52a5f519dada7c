package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"docassist/internal/ai"
	"docassist/internal/app"
	"docassist/internal/vectorstore"
)

type stubRetriever struct {
	hits []vectorstore.SearchResult
}

func (s *stubRetriever) Search(context.Context, string, []float32, int) ([]vectorstore.SearchResult, error) {
	return s.hits, nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(context.Context, ai.EmbeddingConfig, string) ([]float32, error) {
	return []float32{0.1, 0.2}, nil
}

type stubCompleter struct {
	answer string
}

func (s *stubCompleter) Complete(context.Context, ai.ChatConfig, []ai.ChatMessage) (string, error) {
	return s.answer, nil
}

type nilEmbCache struct{}

func (nilEmbCache) Get(context.Context, string) ([]float32, bool, error) { return nil, false, nil }
func (nilEmbCache) Set(context.Context, string, []float32) error        { return nil }

func newChatRouter(retriever *stubRetriever, completer *stubCompleter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := app.NewResponderService(
		retriever,
		stubEmbedder{},
		completer,
		nilEmbCache{},
		ai.EmbeddingConfig{},
		ai.ChatConfig{},
		func(int) int { return 0 },
	)
	h := NewChatHandler(svc)
	r := gin.New()
	r.POST("/chat", h.Chat)
	return r
}

func TestChatDocumentAnswer(t *testing.T) {
	retriever := &stubRetriever{hits: []vectorstore.SearchResult{
		{Chunk: vectorstore.Chunk{Source: "manual.pdf", Text: "warranty lasts two years"}, Score: 0.9},
	}}
	r := newChatRouter(retriever, &stubCompleter{answer: "Two years."})

	w := postJSON(t, r, "/chat", `{"user_id": "u1", "query": "warranty duration?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "Two years.", body["answer"])
	require.Equal(t, []any{"manual.pdf"}, body["sources"])
	require.Equal(t, "u1", body["user_id"])
}

func TestChatGreetingSkipsRetrieval(t *testing.T) {
	r := newChatRouter(&stubRetriever{}, &stubCompleter{})

	w := postJSON(t, r, "/chat", `{"user_id": "u1", "query": "hello"}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.NotEmpty(t, body["answer"])
	// Greeting replies carry an explicit empty sources list.
	require.Equal(t, []any{}, body["sources"])
}

func TestChatMissingFields(t *testing.T) {
	r := newChatRouter(&stubRetriever{}, &stubCompleter{})

	w := postJSON(t, r, "/chat", `{"user_id": "u1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
