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

// RosterHandler manages roster endpoints.
type RosterHandler struct {
	service service.RosterService
	logger  zerolog.Logger
}

// NewRosterHandler builds a roster handler instance.
func NewRosterHandler(service service.RosterService, logger zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		service: service,
		logger:  logger.With().Str("component", "roster_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *RosterHandler) Register(router fiber.Router) {
	router.Get("", h.get)
	router.Post("/import", h.importRoster)
}

func (h *RosterHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "roster retrieved", response)
}

func (h *RosterHandler) importRoster(c *fiber.Ctx) error {
	var payload dto.RosterImportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Import(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "roster imported", response)
}

func (h *RosterHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSessionExpired):
		return utils.SendError(c, fiber.StatusGone, "privacy session expired")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
