package app

import (
	"context"
	"errors"
	"fmt"

	"docassist/internal/ai"
	"docassist/internal/model"
	"docassist/internal/pkg/chunker"
	"docassist/internal/vectorstore"
)

// embeddingBatchSize keeps batches under typical provider limits.
const embeddingBatchSize = 10

// ChunkIndexer stores chunk vectors in one user's namespace.
type ChunkIndexer interface {
	Upsert(ctx context.Context, userID string, chunks []vectorstore.Chunk, vectors [][]float32) error
}

// BatchEmbedder maps chunk texts to vectors, preserving order.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, cfg ai.EmbeddingConfig, texts []string) ([][]float32, error)
}

// DocumentStore records uploaded-file metadata.
type DocumentStore interface {
	Create(doc *model.Document) error
}

type IngestService struct {
	index     ChunkIndexer
	embedder  BatchEmbedder
	docStore  DocumentStore
	embConfig ai.EmbeddingConfig
}

func NewIngestService(
	index ChunkIndexer,
	embedder BatchEmbedder,
	docStore DocumentStore,
	embConfig ai.EmbeddingConfig,
) *IngestService {
	return &IngestService{
		index:     index,
		embedder:  embedder,
		docStore:  docStore,
		embConfig: embConfig,
	}
}

type IndexInput struct {
	UserID     string
	FileID     string
	Source     string
	StoredPath string
	Text       string
}

type IndexResult struct {
	ChunkCount int
}

// Index chunks the extracted text, embeds each chunk, stores the vectors in
// the user's namespace and records the file metadata. A file with no
// extractable text indexes nothing but still succeeds.
func (s *IngestService) Index(ctx context.Context, input IndexInput) (*IndexResult, error) {
	if input.UserID == "" || input.FileID == "" {
		return nil, errors.New("user id and file id are required")
	}

	texts := chunker.Split(input.Text, chunker.DefaultSize)

	if len(texts) > 0 {
		var vectors [][]float32
		for i := 0; i < len(texts); i += embeddingBatchSize {
			end := i + embeddingBatchSize
			if end > len(texts) {
				end = len(texts)
			}
			batch, err := s.embedder.EmbedBatch(ctx, s.embConfig, texts[i:end])
			if err != nil {
				return nil, err
			}
			vectors = append(vectors, batch...)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(texts))
		}

		chunks := make([]vectorstore.Chunk, len(texts))
		for i := range texts {
			chunks[i] = vectorstore.Chunk{
				DocID:      input.FileID,
				ChunkIndex: i,
				Text:       texts[i],
				Source:     input.Source,
			}
		}
		if err := s.index.Upsert(ctx, input.UserID, chunks, vectors); err != nil {
			return nil, err
		}
	}

	doc := &model.Document{
		UserID:     input.UserID,
		FileID:     input.FileID,
		Source:     input.Source,
		StoredPath: input.StoredPath,
		ChunkCount: len(texts),
	}
	if err := s.docStore.Create(doc); err != nil {
		return nil, err
	}

	return &IndexResult{ChunkCount: len(texts)}, nil
}
