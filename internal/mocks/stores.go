package mocks

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/fadilmartias/interview-minds/internal/repository"
	"github.com/google/uuid"
)

// ResumeStore keeps resumes in memory and ranks chunks by cosine distance.
type ResumeStore struct {
	mu      sync.Mutex
	resumes map[uuid.UUID]model.Resume

	CreateErr   error
	SearchErr   error
	SearchCalls int
}

func NewResumeStore() *ResumeStore {
	return &ResumeStore{resumes: map[uuid.UUID]model.Resume{}}
}

func (s *ResumeStore) CreateResume(_ context.Context, resume *model.Resume) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if resume.ID == uuid.Nil {
		resume.ID = uuid.New()
	}
	resume.CreatedAt = time.Now()
	stored := *resume
	stored.Chunks = make([]model.ResumeChunk, len(resume.Chunks))
	for i, c := range resume.Chunks {
		c.ID = uuid.New()
		c.ResumeID = resume.ID
		resume.Chunks[i] = c
		stored.Chunks[i] = c
	}
	s.resumes[resume.ID] = stored
	return nil
}

func (s *ResumeStore) FindResume(_ context.Context, id uuid.UUID, ownerID string) (*model.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resumes[id]
	if !ok || r.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	r.Chunks = nil
	return &r, nil
}

func (s *ResumeStore) SearchChunks(_ context.Context, resumeID uuid.UUID, embedding []float32, topK, _ int) ([]repository.ChunkMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SearchCalls++
	if s.SearchErr != nil {
		return nil, s.SearchErr
	}
	r, ok := s.resumes[resumeID]
	if !ok {
		return nil, nil
	}
	matches := make([]repository.ChunkMatch, 0, len(r.Chunks))
	for _, c := range r.Chunks {
		matches = append(matches, repository.ChunkMatch{
			Position: c.Position,
			Content:  c.Content,
			Distance: cosineDistance(embedding, c.Embedding.Slice()),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Resume returns the stored resume including chunks.
func (s *ResumeStore) Resume(id uuid.UUID) (model.Resume, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resumes[id]
	return r, ok
}

// Put stores a resume as is.
func (s *ResumeStore) Put(resume model.Resume) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumes[resume.ID] = resume
}

func (s *ResumeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.resumes)
}

func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 2
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

type InterviewStore struct {
	mu         sync.Mutex
	interviews []model.Interview

	CreateErr error
}

func NewInterviewStore() *InterviewStore {
	return &InterviewStore{}
}

func (s *InterviewStore) CreateInterview(_ context.Context, interview *model.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if interview.ID == uuid.Nil {
		interview.ID = uuid.New()
	}
	now := time.Now()
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = now
	}
	interview.UpdatedAt = now
	s.interviews = append(s.interviews, *interview)
	return nil
}

func (s *InterviewStore) FindInterview(_ context.Context, id uuid.UUID, ownerID string) (*model.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, i := range s.interviews {
		if i.ID == id && i.OwnerID == ownerID {
			return &i, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *InterviewStore) ListInterviews(_ context.Context, ownerID string, offset, limit int) ([]model.Interview, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var owned []model.Interview
	for _, i := range s.interviews {
		if i.OwnerID == ownerID {
			owned = append(owned, i)
		}
	}
	sort.SliceStable(owned, func(a, b int) bool { return owned[a].CreatedAt.After(owned[b].CreatedAt) })
	total := int64(len(owned))
	if offset >= len(owned) {
		return []model.Interview{}, total, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}

func (s *InterviewStore) AttachVideo(_ context.Context, id uuid.UUID, ownerID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx := range s.interviews {
		i := &s.interviews[idx]
		if i.ID != id || i.OwnerID != ownerID {
			continue
		}
		if i.VideoKey != nil {
			return repository.ErrVideoAlreadySet
		}
		i.VideoKey = &key
		return nil
	}
	return repository.ErrNotFound
}

func (s *InterviewStore) All() []model.Interview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Interview(nil), s.interviews...)
}
