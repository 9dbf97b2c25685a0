package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courseloop/courseloop-api/internal/assessment"
	"github.com/courseloop/courseloop-api/internal/dto"
	"github.com/courseloop/courseloop-api/internal/service"
	"github.com/courseloop/courseloop-api/internal/utils"
)

// GradingHandler wires the teacher grading route.
type GradingHandler struct {
	service service.GradingService
	logger  zerolog.Logger
}

// NewGradingHandler constructs the handler.
func NewGradingHandler(service service.GradingService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		service: service,
		logger:  logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches the grading endpoint to the teacher router group.
func (h *GradingHandler) Register(teacher fiber.Router) {
	teacher.Post("/:id/grade", h.grade)
}

func (h *GradingHandler) grade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GradeSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.Grade(c.Context(), id, payload, userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission graded", submission)
}

func (h *GradingHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var outOfRange *assessment.ScoreOutOfRangeError
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrSubmissionNotGradable):
		return utils.SendError(c, fiber.StatusConflict, "only finalized submissions can be graded")
	case errors.As(err, &outOfRange):
		return utils.SendFailure(c, fiber.StatusUnprocessableEntity, "score out of range", fiber.Map{
			"score": outOfRange.Score,
			"max":   outOfRange.Max,
		})
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
