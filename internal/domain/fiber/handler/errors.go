package handler

import (
	"errors"

	"github.com/fadilmartias/interview-minds/internal/usecase"
	"github.com/gofiber/fiber/v2"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInsufficientContent),
		errors.Is(err, usecase.ErrExtractionFailed):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrInvalidSessionConfig):
		return fiber.StatusBadRequest
	case errors.Is(err, usecase.ErrResumeNotFound),
		errors.Is(err, usecase.ErrInterviewNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, usecase.ErrVideoAlreadyAttached):
		return fiber.StatusConflict
	case errors.Is(err, usecase.ErrEmbeddingFailed),
		errors.Is(err, usecase.ErrVideoStorageUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, usecase.ErrConversationFailed):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// userMessage is the text shown to the user for err, falling back to def
// for failures whose cause should not leak.
func userMessage(err error, def string) string {
	switch {
	case errors.Is(err, usecase.ErrInsufficientContent):
		return "Resume has too little readable text. Please upload a text-based PDF."
	case errors.Is(err, usecase.ErrExtractionFailed):
		return "Could not read the PDF. Please upload a valid file."
	case errors.Is(err, usecase.ErrEmbeddingFailed):
		return "Resume analysis is temporarily unavailable. Please try again."
	case errors.Is(err, usecase.ErrInvalidSessionConfig),
		errors.Is(err, usecase.ErrResumeNotFound),
		errors.Is(err, usecase.ErrInterviewNotFound),
		errors.Is(err, usecase.ErrVideoAlreadyAttached),
		errors.Is(err, usecase.ErrVideoStorageUnavailable):
		return err.Error()
	}
	return def
}
