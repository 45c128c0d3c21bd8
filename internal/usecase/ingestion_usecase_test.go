package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fadilmartias/interview-minds/internal/config"
	"github.com/fadilmartias/interview-minds/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPipelineConfig() *config.PipelineConfig {
	return &config.PipelineConfig{ChunkSize: 500, ChunkOverlap: 50, MinResumeChars: 50}
}

func TestIngestAndRetrieveWithSearchDown(t *testing.T) {
	ctx := context.Background()
	text := strings.Repeat("a", 2000)
	store := mocks.NewResumeStore()
	embedder := &mocks.Embedder{Dim: 768}
	ingest := NewIngestionUsecase(store, &mocks.Extractor{Text: text}, embedder, testPipelineConfig())

	resume, err := ingest.Ingest(ctx, "owner-1", "cv.pdf", []byte("%PDF"))
	require.NoError(t, err)

	stored, ok := store.Resume(resume.ID)
	require.True(t, ok)
	require.Len(t, stored.Chunks, 5)
	for i, c := range stored.Chunks {
		assert.Equal(t, i, c.Position)
		assert.NotEmpty(t, c.Content)
		assert.Len(t, c.Embedding.Slice(), 768)
	}
	assert.Equal(t, 768, stored.EmbeddingDimension)
	assert.Equal(t, "owner-1", stored.OwnerID)
	assert.Equal(t, 1, embedder.CallCount(), "chunks are embedded in one batch")

	store.SearchErr = errors.New("vector index unavailable")
	retriever := NewRetrievalUsecase(store, embedder)
	got := retriever.Retrieve(ctx, "tell me about your last project", "owner-1", resume.ID)
	assert.Equal(t, text, got)
}

func TestIngestInsufficientContent(t *testing.T) {
	store := mocks.NewResumeStore()
	embedder := &mocks.Embedder{Dim: 8}
	ingest := NewIngestionUsecase(store, &mocks.Extractor{Text: "  John Doe \n\n ---------------- \n"}, embedder, testPipelineConfig())

	_, err := ingest.Ingest(context.Background(), "owner-1", "empty.pdf", nil)

	require.ErrorIs(t, err, ErrInsufficientContent)
	assert.NotErrorIs(t, err, ErrEmbeddingFailed)
	var ingestErr *IngestError
	require.ErrorAs(t, err, &ingestErr)
	assert.Equal(t, StageValidate, ingestErr.Stage)
	assert.Equal(t, "empty.pdf", ingestErr.ResumeFile)
	assert.Zero(t, embedder.CallCount())
	assert.Zero(t, store.Len())
}

func TestIngestExtractionFailure(t *testing.T) {
	store := mocks.NewResumeStore()
	ingest := NewIngestionUsecase(store, &mocks.Extractor{Err: errors.New("not a pdf")}, &mocks.Embedder{Dim: 8}, testPipelineConfig())

	_, err := ingest.Ingest(context.Background(), "owner-1", "cv.pdf", []byte("junk"))

	require.ErrorIs(t, err, ErrExtractionFailed)
	assert.Contains(t, err.Error(), "not a pdf")
	assert.Zero(t, store.Len())
}

func TestIngestEmbeddingFailures(t *testing.T) {
	text := strings.Repeat("Built payment services in Go and Postgres. ", 40)

	tests := []struct {
		name     string
		embedder *mocks.Embedder
	}{
		{"provider error", &mocks.Embedder{Dim: 8, Err: errors.New("quota exceeded")}},
		{"empty vector", &mocks.Embedder{VectorFor: func(string) []float32 { return nil }}},
		{"mixed dimensions", &mocks.Embedder{VectorFor: func() func(string) []float32 {
			n := 0
			return func(string) []float32 {
				n++
				return make([]float32, 4+n)
			}
		}()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewResumeStore()
			ingest := NewIngestionUsecase(store, &mocks.Extractor{Text: text}, tt.embedder, testPipelineConfig())

			_, err := ingest.Ingest(context.Background(), "owner-1", "cv.pdf", nil)

			require.ErrorIs(t, err, ErrEmbeddingFailed)
			var ingestErr *IngestError
			require.ErrorAs(t, err, &ingestErr)
			assert.Equal(t, StageEmbed, ingestErr.Stage)
			assert.Zero(t, store.Len(), "nothing is persisted")
		})
	}
}

func TestCheckChunkVectorsCount(t *testing.T) {
	_, err := checkChunkVectors([][]float32{{1, 2}}, 2)
	assert.Error(t, err)

	dim, err := checkChunkVectors([][]float32{{1, 2}, {3, 4}}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, dim)
}

func TestIngestPersistFailure(t *testing.T) {
	store := mocks.NewResumeStore()
	store.CreateErr = errors.New("connection reset")
	ingest := NewIngestionUsecase(store, &mocks.Extractor{Text: strings.Repeat("x", 120)}, &mocks.Embedder{Dim: 4}, testPipelineConfig())

	_, err := ingest.Ingest(context.Background(), "owner-1", "cv.pdf", nil)

	require.ErrorIs(t, err, ErrStorageFailed)
	assert.NotErrorIs(t, err, ErrInsufficientContent)
}

func TestIngestSameFileTwiceCreatesTwoResumes(t *testing.T) {
	ctx := context.Background()
	text := strings.Repeat("Led the migration of a monolith to Go microservices. ", 30)
	store := mocks.NewResumeStore()
	ingest := NewIngestionUsecase(store, &mocks.Extractor{Text: text}, &mocks.Embedder{Dim: 16}, testPipelineConfig())

	first, err := ingest.Ingest(ctx, "owner-1", "cv.pdf", []byte("same"))
	require.NoError(t, err)
	second, err := ingest.Ingest(ctx, "owner-1", "cv.pdf", []byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	a, _ := store.Resume(first.ID)
	b, _ := store.Resume(second.ID)
	require.Equal(t, len(a.Chunks), len(b.Chunks))
	for i := range a.Chunks {
		assert.Equal(t, a.Chunks[i].Content, b.Chunks[i].Content)
		assert.Equal(t, a.Chunks[i].Embedding.Slice(), b.Chunks[i].Embedding.Slice())
	}
	assert.Equal(t, 2, store.Len())
}
