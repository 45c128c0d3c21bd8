package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrExtractionFailed    = errors.New("could not read text from the uploaded file")
	ErrInsufficientContent = errors.New("resume does not contain enough readable text")
	ErrEmbeddingFailed     = errors.New("embedding provider returned no usable vectors")
	ErrStorageFailed       = errors.New("could not save resume")

	ErrConversationFailed   = errors.New("interviewer failed to respond")
	ErrInvalidSessionConfig = errors.New("invalid interview configuration")

	ErrResumeNotFound    = errors.New("resume not found")
	ErrInterviewNotFound = errors.New("interview not found")

	ErrVideoAlreadyAttached    = errors.New("interview already has a recording")
	ErrVideoStorageUnavailable = errors.New("video storage is not configured")
)

const (
	StageExtract  = "extract"
	StageValidate = "validate"
	StageChunk    = "chunk"
	StageEmbed    = "embed"
	StagePersist  = "persist"
)

// IngestError reports the pipeline stage a resume upload stopped at.
type IngestError struct {
	Stage      string
	ResumeFile string
	BaseErr    error
	Detail     string
}

func (e *IngestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (stage: %s, file: %s): %s", e.BaseErr, e.Stage, e.ResumeFile, e.Detail)
	}
	return fmt.Sprintf("%s (stage: %s, file: %s)", e.BaseErr, e.Stage, e.ResumeFile)
}

func (e *IngestError) Unwrap() error {
	return e.BaseErr
}

func (e *IngestError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

func newIngestError(stage, file string, base error, detail string) error {
	return &IngestError{Stage: stage, ResumeFile: file, BaseErr: base, Detail: detail}
}
