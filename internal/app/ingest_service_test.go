package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"docassist/internal/ai"
	"docassist/internal/model"
	"docassist/internal/vectorstore"
)

type fakeIndexer struct {
	userID  string
	chunks  []vectorstore.Chunk
	vectors [][]float32
	calls   int
}

func (f *fakeIndexer) Upsert(_ context.Context, userID string, chunks []vectorstore.Chunk, vectors [][]float32) error {
	f.calls++
	f.userID = userID
	f.chunks = chunks
	f.vectors = vectors
	return nil
}

type fakeBatchEmbedder struct {
	batchSizes []int
}

func (f *fakeBatchEmbedder) EmbedBatch(_ context.Context, _ ai.EmbeddingConfig, texts []string) ([][]float32, error) {
	f.batchSizes = append(f.batchSizes, len(texts))
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i]))}
	}
	return vectors, nil
}

type fakeDocStore struct {
	docs []model.Document
}

func (f *fakeDocStore) Create(doc *model.Document) error {
	f.docs = append(f.docs, *doc)
	return nil
}

func TestIndexChunksAndStores(t *testing.T) {
	indexer := &fakeIndexer{}
	embedder := &fakeBatchEmbedder{}
	docStore := &fakeDocStore{}
	svc := NewIngestService(indexer, embedder, docStore, ai.EmbeddingConfig{})

	text := strings.Repeat("x", 1200)
	result, err := svc.Index(context.Background(), IndexInput{
		UserID:     "u1",
		FileID:     "file-1",
		Source:     "notes.txt",
		StoredPath: "/tmp/file-1_notes.txt",
		Text:       text,
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.ChunkCount)

	require.Equal(t, 1, indexer.calls)
	require.Equal(t, "u1", indexer.userID)
	require.Len(t, indexer.chunks, 3)
	require.Len(t, indexer.vectors, 3)
	for i, chunk := range indexer.chunks {
		require.Equal(t, "file-1", chunk.DocID)
		require.Equal(t, i, chunk.ChunkIndex)
		require.Equal(t, "notes.txt", chunk.Source)
	}
	require.Len(t, indexer.chunks[0].Text, 500)
	require.Len(t, indexer.chunks[1].Text, 500)
	require.Len(t, indexer.chunks[2].Text, 200)

	require.Len(t, docStore.docs, 1)
	require.Equal(t, 3, docStore.docs[0].ChunkCount)
	require.Equal(t, "file-1", docStore.docs[0].FileID)
}

func TestIndexEmbedsInBatches(t *testing.T) {
	indexer := &fakeIndexer{}
	embedder := &fakeBatchEmbedder{}
	svc := NewIngestService(indexer, embedder, &fakeDocStore{}, ai.EmbeddingConfig{})

	// 25 full chunks.
	text := strings.Repeat("y", 25*500)
	result, err := svc.Index(context.Background(), IndexInput{
		UserID: "u1",
		FileID: "file-2",
		Source: "big.txt",
		Text:   text,
	})
	require.NoError(t, err)
	require.Equal(t, 25, result.ChunkCount)
	require.Equal(t, []int{10, 10, 5}, embedder.batchSizes)
	require.Len(t, indexer.vectors, 25)
}

func TestIndexEmptyTextIndexesNothing(t *testing.T) {
	indexer := &fakeIndexer{}
	docStore := &fakeDocStore{}
	svc := NewIngestService(indexer, &fakeBatchEmbedder{}, docStore, ai.EmbeddingConfig{})

	result, err := svc.Index(context.Background(), IndexInput{
		UserID: "u1",
		FileID: "file-3",
		Source: "empty.txt",
		Text:   "",
	})
	require.NoError(t, err)
	require.Equal(t, 0, result.ChunkCount)
	require.Zero(t, indexer.calls)
	require.Len(t, docStore.docs, 1)
	require.Equal(t, 0, docStore.docs[0].ChunkCount)
}

func TestIndexRequiresIdentifiers(t *testing.T) {
	svc := NewIngestService(&fakeIndexer{}, &fakeBatchEmbedder{}, &fakeDocStore{}, ai.EmbeddingConfig{})

	_, err := svc.Index(context.Background(), IndexInput{UserID: "", FileID: "f", Text: "x"})
	require.Error(t, err)
	_, err = svc.Index(context.Background(), IndexInput{UserID: "u", FileID: "", Text: "x"})
	require.Error(t, err)
}
