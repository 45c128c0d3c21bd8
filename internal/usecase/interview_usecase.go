package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/fadilmartias/interview-minds/internal/service"
	"github.com/google/uuid"
)

// EmptyReplyFallback is sent when the model answers with no content.
const EmptyReplyFallback = "Server Error."

const chatTemperature = 0.7

type ChatInput struct {
	Message    string
	ResumeID   uuid.UUID
	History    []model.Turn
	Persona    string
	Difficulty string
	Language   string
}

type InterviewUsecase struct {
	llm       service.LLMServiceInterface
	retriever *RetrievalUsecase
}

func NewInterviewUsecase(llm service.LLMServiceInterface, retriever *RetrievalUsecase) *InterviewUsecase {
	return &InterviewUsecase{llm: llm, retriever: retriever}
}

// Chat answers one candidate turn grounded on the candidate's resume.
func (uc *InterviewUsecase) Chat(ctx context.Context, ownerID string, in ChatInput) (string, error) {
	cfg, err := ParseSessionConfig(in.Persona, in.Difficulty, in.Language)
	if err != nil {
		return "", err
	}
	resumeContext := uc.retriever.Retrieve(ctx, in.Message, ownerID, in.ResumeID)
	return uc.NextTurn(ctx, in.Message, in.History, resumeContext, cfg)
}

// NextTurn makes exactly one model call. Failures are not retried here; the
// client resends the turn with its history intact.
func (uc *InterviewUsecase) NextTurn(ctx context.Context, utterance string, history []model.Turn, resumeContext string, cfg SessionConfig) (string, error) {
	messages := make([]model.Turn, 0, len(history)+1)
	for _, t := range history {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		messages = append(messages, model.Turn{Role: model.NormalizeRole(t.Role), Text: t.Text})
	}
	messages = append(messages, model.Turn{Role: model.RoleUser, Text: utterance})

	reply, err := uc.llm.Generate(ctx, service.GenerateRequest{
		System:      cfg.SystemInstruction(resumeContext),
		Messages:    messages,
		Temperature: chatTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConversationFailed, err)
	}
	if strings.TrimSpace(reply) == "" {
		return EmptyReplyFallback, nil
	}
	return reply, nil
}
