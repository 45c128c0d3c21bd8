package handler

import (
	"time"

	"github.com/fadilmartias/interview-minds/internal/dto"
	"github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/fadilmartias/interview-minds/internal/middleware"
	"github.com/fadilmartias/interview-minds/internal/usecase"
	"github.com/fadilmartias/interview-minds/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InterviewHandler struct {
	scoring       *usecase.ScoringUsecase
	history       *usecase.HistoryUsecase
	maxVideoBytes int64
}

func NewInterviewHandler(scoring *usecase.ScoringUsecase, history *usecase.HistoryUsecase, maxVideoBytes int) *InterviewHandler {
	return &InterviewHandler{scoring: scoring, history: history, maxVideoBytes: int64(maxVideoBytes)}
}

func (h *InterviewHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/interview/end", middleware.RateLimiter(10, time.Minute), h.End)
	router.Post("/interview/upload-video", middleware.RateLimiter(5, time.Minute), h.UploadVideo)
	router.Get("/interview/history/all", h.History)
	router.Get("/interview/:id", h.Get)
}

func (h *InterviewHandler) End(c *fiber.Ctx) error {
	var req dto.EndInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid request body",
		}, err)
	}
	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid resumeId",
		}, err)
	}

	interview, err := h.scoring.Score(c.UserContext(), middleware.OwnerID(c), resumeID, req.History)
	if err != nil {
		logger.Error().Err(err).Str("resume_id", req.ResumeID).Msg("failed to analyze interview")
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusFor(err),
			Message: userMessage(err, "Failed to analyze interview"),
		}, err)
	}

	return c.JSON(dto.NewEndInterviewResponse(interview))
}

func (h *InterviewHandler) History(c *fiber.Ctx) error {
	interviews, pagination, err := h.history.List(c.UserContext(), middleware.OwnerID(c),
		c.QueryInt("page", 1), c.QueryInt("page_size", 0))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Message: "Failed to load interview history"}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get interview history",
		Data:       dto.NewInterviewSummaries(interviews),
		Pagination: &pagination,
	})
}

func (h *InterviewHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "Interview not found",
		}, err)
	}
	interview, err := h.history.Get(c.UserContext(), middleware.OwnerID(c), id)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusFor(err),
			Message: userMessage(err, "Failed to load interview"),
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get interview",
		Data:    dto.NewInterviewDTO(interview),
	})
}

func (h *InterviewHandler) UploadVideo(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.FormValue("interviewId"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid interviewId",
		}, err)
	}
	file, err := c.FormFile("video")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "No video uploaded",
		}, err)
	}
	if h.maxVideoBytes > 0 && file.Size > h.maxVideoBytes {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusRequestEntityTooLarge,
			Message: "Video file is too large",
		})
	}

	f, err := file.Open()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Message: "Cannot read uploaded video"}, err)
	}
	defer f.Close()

	url, err := h.history.AttachVideo(c.UserContext(), middleware.OwnerID(c), id, usecase.VideoUpload{
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        f,
	})
	if err != nil {
		logger.Error().Err(err).Str("interview_id", id.String()).Msg("video upload failed")
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusFor(err),
			Message: userMessage(err, "Failed to store video"),
		}, err)
	}
	return c.JSON(dto.VideoUploadResponse{URL: url})
}
