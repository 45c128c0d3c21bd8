package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fadilmartias/interview-minds/internal/service"
)

// Embedder returns a fixed vector per text unless VectorFor is set.
type Embedder struct {
	mu sync.Mutex

	Dim       int
	VectorFor func(text string) []float32
	Err       error
	EmbedErr  error
	Calls     int
}

func (e *Embedder) Name() string { return "mock-embedder" }

func (e *Embedder) Dimension() int { return e.Dim }

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	err := e.EmbedErr
	e.mu.Unlock()
	if err != nil {
		e.count()
		return nil, err
	}
	vectors, err := e.EmbedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *Embedder) EmbedMany(_ context.Context, texts []string) ([][]float32, error) {
	e.count()
	if e.Err != nil {
		return nil, e.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if e.VectorFor != nil {
			out[i] = e.VectorFor(t)
		} else {
			out[i] = make([]float32, e.Dim)
		}
	}
	return out, nil
}

func (e *Embedder) count() {
	e.mu.Lock()
	e.Calls++
	e.mu.Unlock()
}

func (e *Embedder) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Calls
}

// LLM replays Replies in order, then keeps returning Reply.
type LLM struct {
	mu sync.Mutex

	Reply    string
	Replies  []string
	Err      error
	Requests []service.GenerateRequest
}

func (l *LLM) Generate(_ context.Context, req service.GenerateRequest) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Requests = append(l.Requests, req)
	if l.Err != nil {
		return "", l.Err
	}
	if len(l.Replies) > 0 {
		r := l.Replies[0]
		l.Replies = l.Replies[1:]
		return r, nil
	}
	return l.Reply, nil
}

func (l *LLM) CallCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Requests)
}

func (l *LLM) LastRequest() service.GenerateRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.Requests) == 0 {
		return service.GenerateRequest{}
	}
	return l.Requests[len(l.Requests)-1]
}

type Extractor struct {
	Text string
	Err  error
}

func (x *Extractor) ExtractText(context.Context, []byte) (string, error) {
	return x.Text, x.Err
}

// VideoStorage records uploads in memory. Every PresignGet returns a new
// signature so tests can tell fresh URLs apart.
type VideoStorage struct {
	mu     sync.Mutex
	signed int

	Err        error
	PresignErr error
	Uploads    map[string][]byte
}

func (v *VideoStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if v.Err != nil {
		return v.Err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.Uploads == nil {
		v.Uploads = map[string][]byte{}
	}
	v.Uploads[key] = data
	return nil
}

func (v *VideoStorage) PresignGet(_ context.Context, key string) (string, error) {
	if v.PresignErr != nil {
		return "", v.PresignErr
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.signed++
	return fmt.Sprintf("https://storage.test/%s?signature=%d", key, v.signed), nil
}

// SessionLocker is an in-process lock keyed like the Redis one.
type SessionLocker struct {
	mu   sync.Mutex
	held map[string]string
	seq  int
}

func (l *SessionLocker) Acquire(_ context.Context, key string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]string{}
	}
	if _, ok := l.held[key]; ok {
		return "", false, nil
	}
	l.seq++
	token := fmt.Sprintf("token-%d", l.seq)
	l.held[key] = token
	return token, true, nil
}

func (l *SessionLocker) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}

func (l *SessionLocker) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[key]
	return ok
}
