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

// SubmissionHandler wires the student submission routes.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches submission endpoints to the router groups.
func (h *SubmissionHandler) Register(student fiber.Router, teacher fiber.Router) {
	student.Put("/answers", h.saveAnswers)
	student.Post("/:assignmentId/finalize", h.finalize)
	student.Get("/:assignmentId/state", h.ownState)

	teacher.Get("", h.listForAssignment)
}

// saveAnswers replaces the caller's draft answers as a whole, creating the
// draft on first save.
func (h *SubmissionHandler) saveAnswers(c *fiber.Ctx) error {
	var payload dto.SaveAnswersRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.SaveAnswers(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answers saved", submission)
}

func (h *SubmissionHandler) finalize(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "assignmentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.service.Finalize(c.Context(), userIDFromContext(c), assignmentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission finalized", submission)
}

func (h *SubmissionHandler) ownState(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "assignmentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	state, err := h.service.GetOwnState(c.Context(), userIDFromContext(c), assignmentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission state retrieved", state)
}

func (h *SubmissionHandler) listForAssignment(c *fiber.Ctx) error {
	assignmentID, err := parseUintQuery(c, "assignment_id")
	if err != nil || assignmentID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "assignment_id is required")
	}

	submissions, err := h.service.ListForAssignment(c.Context(), assignmentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrSubmissionLocked):
		return utils.SendError(c, fiber.StatusConflict, "submission is finalized and read-only")
	case errors.Is(err, service.ErrAlreadyFinalized):
		return utils.SendError(c, fiber.StatusConflict, "submission already finalized")
	case errors.Is(err, service.ErrUnknownQuestion):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
