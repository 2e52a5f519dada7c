package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Storage is a minimal REST client to Qdrant. Each user gets their own
// collection so retrieval never crosses users; collections are created
// lazily with cosine distance and reused afterwards.
type Storage struct {
	url       string
	apiKey    string
	dimension int
	client    *http.Client
}

type Config struct {
	URL       string
	APIKey    string
	Dimension int
	Timeout   time.Duration
}

// Chunk is one stored window of a document's extracted text.
type Chunk struct {
	DocID      string
	ChunkIndex int
	Text       string
	Source     string
}

// SearchResult is a retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:       cfg.URL,
		apiKey:    cfg.APIKey,
		dimension: cfg.Dimension,
		client:    &http.Client{Timeout: timeout},
	}
}

// CollectionName derives the per-user namespace key.
func CollectionName(userID string) string {
	return "documents_" + userID
}

// PointID derives a stable UUID for a (document, chunk index) pair so that
// re-upserting the same document overwrites rather than duplicates.
func PointID(docID string, chunkIndex int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s_%d", docID, chunkIndex))).String()
}

// EnsureCollection creates the user's collection if missing. Qdrant answers
// 200 on a PUT for an already-existing collection with the same schema, so
// the call is idempotent.
func (s *Storage) EnsureCollection(ctx context.Context, userID string) error {
	if s.dimension <= 0 {
		return fmt.Errorf("invalid embedding dimension %d", s.dimension)
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimension,
			"distance": "Cosine",
		},
	}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, CollectionName(userID)), body)
}

// Upsert stores the chunks with their vectors in the user's collection.
func (s *Storage) Upsert(ctx context.Context, userID string, chunks []Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}
	if err := s.EnsureCollection(ctx, userID); err != nil {
		return err
	}

	points := make([]map[string]any, len(chunks))
	for i := range chunks {
		points[i] = map[string]any{
			"id":     PointID(chunks[i].DocID, chunks[i].ChunkIndex),
			"vector": vectors[i],
			"payload": map[string]any{
				"doc_id":      chunks[i].DocID,
				"chunk_index": chunks[i].ChunkIndex,
				"text":        chunks[i].Text,
				"source":      chunks[i].Source,
			},
		}
	}
	body := map[string]any{"points": points}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, CollectionName(userID))
	return s.putJSON(ctx, url, body)
}

// Search returns up to topK nearest chunks from the user's collection,
// ranked by cosine similarity. An empty collection yields an empty slice.
func (s *Storage) Search(ctx context.Context, userID string, vector []float32, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		topK = 3
	}
	if err := s.EnsureCollection(ctx, userID); err != nil {
		return nil, err
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, CollectionName(userID))
	if err := s.postJSON(ctx, url, req, &resp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := Chunk{}
		if v, ok := r.Payload["doc_id"].(string); ok {
			chunk.DocID = v
		}
		if v, ok := r.Payload["chunk_index"].(float64); ok {
			chunk.ChunkIndex = int(v)
		}
		if v, ok := r.Payload["text"].(string); ok {
			chunk.Text = v
		}
		if v, ok := r.Payload["source"].(string); ok {
			chunk.Source = v
		}
		results = append(results, SearchResult{Chunk: chunk, Score: r.Score})
	}
	return results, nil
}

func (s *Storage) putJSON(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal qdrant request failed: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build qdrant request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant PUT failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *Storage) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal qdrant request failed: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build qdrant request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant POST failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
