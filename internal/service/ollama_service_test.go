package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOllama struct {
	calls    atomic.Int32
	failNext atomic.Bool
	zeros    atomic.Bool

	// when set, requests signal entered and wait for hold to close
	hold    chan struct{}
	entered chan struct{}
}

func (f *fakeOllama) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if f.hold != nil {
			select {
			case f.entered <- struct{}{}:
			default:
			}
			<-f.hold
		}
		assert.Equal(t, "/api/embed", r.URL.Path)
		if f.failNext.Swap(false) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"model failed to load"}`))
			return
		}
		var body struct {
			Model     string   `json:"model"`
			Input     []string `json:"input"`
			KeepAlive int      `json:"keep_alive"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, -1, body.KeepAlive)

		embeddings := make([][]float32, len(body.Input))
		for i := range body.Input {
			if f.zeros.Load() {
				embeddings[i] = []float32{0, 0, 0, 0}
			} else {
				embeddings[i] = []float32{0.1, 0.2, 0.3, float32(i + 1)}
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"model": body.Model, "embeddings": embeddings})
	}
}

func TestOllamaLoadsModelOnce(t *testing.T) {
	fake := &fakeOllama{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	svc := NewOllamaService(srv.URL, "nomic-embed-text", 5*time.Second)
	assert.Equal(t, 0, svc.Dimension())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vec, err := svc.Embed(context.Background(), "golang backend")
			assert.NoError(t, err)
			assert.Len(t, vec, 4)
		}()
	}
	wg.Wait()

	// one warm-up plus one call per Embed
	assert.Equal(t, int32(9), fake.calls.Load())
	assert.Equal(t, 4, svc.Dimension())
	assert.Equal(t, "ollama:nomic-embed-text", svc.Name())
}

func TestOllamaRetriesLoadAfterFailure(t *testing.T) {
	fake := &fakeOllama{}
	fake.failNext.Store(true)
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	svc := NewOllamaService(srv.URL, "nomic-embed-text", 5*time.Second)

	_, err := svc.Embed(context.Background(), "first")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model failed to load")
	assert.Equal(t, 0, svc.Dimension())

	vectors, err := svc.EmbedMany(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vectors, 2)
	assert.Equal(t, 4, svc.Dimension())
}

func TestOllamaDimensionDoesNotWaitForLoad(t *testing.T) {
	fake := &fakeOllama{hold: make(chan struct{}), entered: make(chan struct{}, 1)}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	svc := NewOllamaService(srv.URL, "nomic-embed-text", 5*time.Second)
	done := make(chan error, 1)
	go func() {
		_, err := svc.Embed(context.Background(), "golang backend")
		done <- err
	}()
	<-fake.entered

	dim := make(chan int, 1)
	go func() { dim <- svc.Dimension() }()
	select {
	case d := <-dim:
		assert.Equal(t, 0, d)
	case <-time.After(time.Second):
		t.Fatal("Dimension blocked while the model was loading")
	}

	close(fake.hold)
	require.NoError(t, <-done)
	assert.Equal(t, 4, svc.Dimension())
}

func TestOllamaRejectsZeroVectors(t *testing.T) {
	fake := &fakeOllama{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	svc := NewOllamaService(srv.URL, "nomic-embed-text", 5*time.Second)
	_, err := svc.Embed(context.Background(), "warm")
	require.NoError(t, err)

	fake.zeros.Store(true)
	_, err = svc.Embed(context.Background(), "zeros")
	assert.ErrorIs(t, err, ErrInvalidEmbedding)
}

func TestOllamaEmptyText(t *testing.T) {
	svc := NewOllamaService("http://127.0.0.1:1", "m", time.Second)
	_, err := svc.Embed(context.Background(), "  ")
	assert.Error(t, err)

	vectors, err := svc.EmbedMany(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, vectors)
}
