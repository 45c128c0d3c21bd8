package handler

import (
	"strings"

	"github.com/fadilmartias/interview-minds/internal/dto"
	"github.com/fadilmartias/interview-minds/internal/logger"
	"github.com/fadilmartias/interview-minds/internal/middleware"
	"github.com/fadilmartias/interview-minds/internal/service"
	"github.com/fadilmartias/interview-minds/internal/usecase"
	"github.com/fadilmartias/interview-minds/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ChatHandler struct {
	uc     *usecase.InterviewUsecase
	locker service.SessionLocker
}

// NewChatHandler wires the chat endpoint. locker may be nil.
func NewChatHandler(uc *usecase.InterviewUsecase, locker service.SessionLocker) *ChatHandler {
	return &ChatHandler{uc: uc, locker: locker}
}

func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/chat", middleware.SingleFlight(h.locker), h.Chat)
}

func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid request body",
		}, err)
	}
	if strings.TrimSpace(req.Message) == "" || req.ResumeID == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Required fields missing",
		})
	}
	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid resumeId",
		}, err)
	}

	reply, err := h.uc.Chat(c.UserContext(), middleware.OwnerID(c), usecase.ChatInput{
		Message:    req.Message,
		ResumeID:   resumeID,
		History:    req.History,
		Persona:    req.Persona,
		Difficulty: req.Difficulty,
		Language:   req.LanguageMode,
	})
	if err != nil {
		logger.Error().Err(err).Str("resume_id", req.ResumeID).Msg("chat turn failed")
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    statusFor(err),
			Error:   "AI Failed",
			Message: userMessage(err, "The interviewer could not respond. Please resend your message."),
			Details: err.Error(),
		}, err)
	}

	return c.JSON(dto.ChatResponse{Reply: reply})
}
