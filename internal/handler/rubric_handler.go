package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edumark/gradebook-go-api/internal/service"
	"github.com/edumark/gradebook-go-api/internal/store"
	"github.com/edumark/gradebook-go-api/internal/utils"
)

// RubricHandler manages rubric endpoints.
type RubricHandler struct {
	service service.RubricService
	logger  zerolog.Logger
}

// NewRubricHandler builds a rubric handler instance.
func NewRubricHandler(service service.RubricService, logger zerolog.Logger) *RubricHandler {
	return &RubricHandler{
		service: service,
		logger:  logger.With().Str("component", "rubric_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *RubricHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Post("", h.load)
}

func (h *RubricHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "rubric retrieved", response)
}

func (h *RubricHandler) load(c *fiber.Ctx) error {
	response, err := h.service.Load(c.Context(), c.Body())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "rubric loaded", response)
}

func (h *RubricHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionExpired):
		return utils.SendError(c, fiber.StatusGone, "privacy session expired")
	case errors.Is(err, service.ErrNoRubricLoaded):
		return utils.SendError(c, fiber.StatusNotFound, "no rubric loaded")
	case errors.Is(err, store.ErrInvalidRubricFormat):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
