package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/service"
	"github.com/edumark/gradebook-go-api/internal/utils"
)

// SessionHandler manages grading session endpoints.
type SessionHandler struct {
	service service.SessionService
	logger  zerolog.Logger
}

// NewSessionHandler builds a session handler instance.
func NewSessionHandler(service service.SessionService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SessionHandler) Register(router fiber.Router) {
	router.Get("", h.state)
	router.Post("", h.initialize)
	router.Delete("", h.teardown)
	router.Put("/record", h.editRecord)
	router.Post("/next", h.next)
	router.Post("/previous", h.previous)
	router.Post("/pause", h.pause)
	router.Post("/resume", h.resume)
}

func (h *SessionHandler) state(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "session state", h.service.State(c.Context()))
}

func (h *SessionHandler) initialize(c *fiber.Ctx) error {
	response, err := h.service.Initialize(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "grading session initialized", response)
}

func (h *SessionHandler) teardown(c *fiber.Ctx) error {
	h.service.Teardown(c.Context())
	return utils.SendSuccess(c, "grading session torn down", nil)
}

func (h *SessionHandler) editRecord(c *fiber.Ctx) error {
	var payload dto.GradeRecordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.GradedBy == "" {
		payload.GradedBy = actorFromContext(c)
	}

	response, err := h.service.EditWorkingRecord(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "working record updated", response)
}

func (h *SessionHandler) next(c *fiber.Ctx) error {
	payload := dto.SessionAdvanceRequest{SaveMode: "draft"}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	response, err := h.service.Next(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	message := "advanced to next student"
	if !response.Moved {
		message = "session complete"
	}
	return utils.SendSuccess(c, message, response)
}

func (h *SessionHandler) previous(c *fiber.Ctx) error {
	response, err := h.service.Previous(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	message := "moved to previous student"
	if !response.Moved {
		message = "already at first student"
	}
	return utils.SendSuccess(c, message, response)
}

func (h *SessionHandler) pause(c *fiber.Ctx) error {
	response, err := h.service.Pause(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "session paused", response)
}

func (h *SessionHandler) resume(c *fiber.Ctx) error {
	response, err := h.service.Resume(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "session resumed", response)
}

func (h *SessionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSessionExpired):
		return utils.SendError(c, fiber.StatusGone, "privacy session expired")
	case errors.Is(err, service.ErrNoRubricLoaded):
		return utils.SendError(c, fiber.StatusConflict, "no rubric loaded")
	case errors.Is(err, service.ErrEmptyRoster):
		return utils.SendError(c, fiber.StatusConflict, "roster is empty")
	case errors.Is(err, service.ErrNoActiveSession):
		return utils.SendError(c, fiber.StatusConflict, "no active grading session")
	case errors.Is(err, service.ErrSessionPaused):
		return utils.SendError(c, fiber.StatusConflict, "grading session is paused")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrUnknownCriterion):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
