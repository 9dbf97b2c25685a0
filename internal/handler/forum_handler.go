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

// ForumHandler wires the course Q&A board routes.
type ForumHandler struct {
	service service.ForumService
	logger  zerolog.Logger
}

// NewForumHandler constructs the handler.
func NewForumHandler(service service.ForumService, logger zerolog.Logger) *ForumHandler {
	return &ForumHandler{
		service: service,
		logger:  logger.With().Str("component", "forum_handler").Logger(),
	}
}

// Register attaches forum endpoints to the router group.
func (h *ForumHandler) Register(router fiber.Router) {
	router.Get("/threads", h.listThreads)
	router.Get("/threads/:id", h.getThread)
	router.Post("/threads", h.createThread)
	router.Delete("/threads/:id", h.deleteThread)
	router.Get("/threads/:id/replies", h.listReplies)
	router.Post("/replies", h.createReply)
}

func (h *ForumHandler) listThreads(c *fiber.Ctx) error {
	courseID, err := parseUintQuery(c, "course_id")
	if err != nil || courseID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "course_id is required")
	}

	limit := parseQueryInt(c, "limit", 20)
	offset := parseQueryInt(c, "offset", 0)

	threads, err := h.service.ListThreads(c.Context(), courseID, limit, offset)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "threads retrieved", threads)
}

func (h *ForumHandler) getThread(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	includeReplies := c.QueryBool("include_replies", true)

	thread, err := h.service.GetThread(c.Context(), id, includeReplies)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "thread retrieved", thread)
}

func (h *ForumHandler) createThread(c *fiber.Ctx) error {
	var payload dto.ForumThreadCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	thread, err := h.service.CreateThread(c.Context(), userIDStringFromContext(c), userRoleFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "thread created", thread)
}

func (h *ForumHandler) deleteThread(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteThread(c.Context(), id, userIDStringFromContext(c), userRoleFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "thread deleted", fiber.Map{"id": id})
}

func (h *ForumHandler) listReplies(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)

	replies, err := h.service.ListReplies(c.Context(), id, limit, offset)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "replies retrieved", replies)
}

func (h *ForumHandler) createReply(c *fiber.Ctx) error {
	var payload dto.ForumReplyCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	reply, err := h.service.CreateReply(c.Context(), userIDStringFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "reply created", reply)
}

func (h *ForumHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrThreadNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "thread not found")
	case errors.Is(err, service.ErrForumForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
