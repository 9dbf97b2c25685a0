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

// AssignmentHandler wires assignment HTTP routes.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches assignment endpoints to the router group. Create, update
// and delete are guarded with role middleware at the router level.
func (h *AssignmentHandler) Register(student fiber.Router, teacher fiber.Router) {
	student.Get("", h.list)
	student.Get("/:id", h.get)

	teacher.Post("", h.create)
	teacher.Post("/points-suggestion", h.suggestPoints)
	teacher.Get("/:id", h.getWithAnswers)
	teacher.Patch("/:id", h.update)
	teacher.Delete("/:id", h.delete)
}

// list serves the student-facing assignment listing with status filter, sort
// key and pagination taken from the query string.
func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	courseID, err := parseUintQuery(c, "course_id")
	if err != nil || courseID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "course_id is required")
	}

	view := dto.NewAssignmentListView()
	if err := c.QueryParser(&view); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid listing parameters")
	}

	listing, err := h.service.ListForStudent(c.Context(), courseID, userIDFromContext(c), view)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", listing)
}

func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	return h.getAssignment(c, false)
}

// getWithAnswers is the authoring view; correct answers are included.
func (h *AssignmentHandler) getWithAnswers(c *fiber.Ctx) error {
	return h.getAssignment(c, true)
}

func (h *AssignmentHandler) getAssignment(c *fiber.Ctx, includeAnswers bool) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	assignment, err := h.service.Get(c.Context(), id, includeAnswers)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment retrieved", assignment)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", assignment)
}

func (h *AssignmentHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AssignmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment updated", assignment)
}

func (h *AssignmentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignment deleted", fiber.Map{"id": id})
}

// suggestPoints returns the even 100-point split for a question count, used by
// the authoring UI after a points-sum rejection.
func (h *AssignmentHandler) suggestPoints(c *fiber.Ctx) error {
	var payload dto.PointsSuggestionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	suggestion, err := h.service.SuggestPoints(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "points suggestion computed", suggestion)
}

func (h *AssignmentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var questionSetErr *service.QuestionSetError
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.As(err, &questionSetErr):
		// Authoring mistakes are reported all at once, together with the
		// suggested even distribution when the sum was off.
		return utils.SendFailure(c, fiber.StatusUnprocessableEntity, "question set invalid", questionSetErr.Result)
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *AssignmentHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
