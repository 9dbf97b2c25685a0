package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/courseloop/courseloop-api/internal/dto"
	"github.com/courseloop/courseloop-api/internal/service"
	"github.com/courseloop/courseloop-api/internal/utils"
)

// FeedbackHandler wires the course feedback routes.
type FeedbackHandler struct {
	service service.FeedbackService
	logger  zerolog.Logger
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(service service.FeedbackService, logger zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		logger:  logger.With().Str("component", "feedback_handler").Logger(),
	}
}

// Register attaches feedback endpoints to the router groups.
func (h *FeedbackHandler) Register(student fiber.Router, teacher fiber.Router) {
	student.Post("", h.submit)
	teacher.Get("", h.listByCourse)
}

func (h *FeedbackHandler) submit(c *fiber.Ctx) error {
	var payload dto.FeedbackRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	feedback, err := h.service.Submit(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "feedback submitted", feedback)
}

func (h *FeedbackHandler) listByCourse(c *fiber.Ctx) error {
	courseID, err := parseUintQuery(c, "course_id")
	if err != nil || courseID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "course_id is required")
	}

	limit := parseQueryInt(c, "limit", 20)
	offset := parseQueryInt(c, "offset", 0)

	entries, err := h.service.ListByCourse(c.Context(), courseID, limit, offset)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "feedback retrieved", entries)
}

func (h *FeedbackHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrFeedbackSpam):
		// Honeypot hits get a neutral rejection.
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission")
	case errors.Is(err, service.ErrFeedbackDuplicate):
		return utils.SendError(c, fiber.StatusConflict, "feedback already submitted")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
