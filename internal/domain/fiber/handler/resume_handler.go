package handler

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fadilmartias/interview-minds/internal/dto"
	"github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/fadilmartias/interview-minds/internal/middleware"
	"github.com/fadilmartias/interview-minds/internal/usecase"
	"github.com/fadilmartias/interview-minds/internal/util"
	"github.com/gofiber/fiber/v2"
)

const previewLength = 100

type ResumeHandler struct {
	uc             *usecase.IngestionUsecase
	maxUploadBytes int64
}

func NewResumeHandler(uc *usecase.IngestionUsecase, maxUploadBytes int) *ResumeHandler {
	return &ResumeHandler{uc: uc, maxUploadBytes: int64(maxUploadBytes)}
}

func (h *ResumeHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/resume/upload", middleware.RateLimiter(10, time.Minute), h.Upload)
}

func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "No file uploaded",
		}, err)
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusRequestEntityTooLarge,
			Message: fmt.Sprintf("Resume file is too large (max %dMB)", h.maxUploadBytes>>20),
		})
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Only PDF files are allowed",
		})
	}

	f, err := file.Open()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Message: "Cannot read uploaded file"}, err)
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Message: "Cannot read uploaded file"}, err)
	}

	resume, err := h.uc.Ingest(c.UserContext(), middleware.OwnerID(c), file.Filename, raw)
	if err != nil {
		logger.Error().Err(err).Str("file", file.Filename).Msg("resume upload failed")
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusFor(err),
			Message: userMessage(err, "Failed to process resume"),
		}, err)
	}

	return c.JSON(dto.UploadResumeResponse{
		Message:     "Resume processed successfully",
		ID:          resume.ID,
		PreviewText: util.TruncateRunes(resume.FullText, previewLength) + "...",
	})
}
