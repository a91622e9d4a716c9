package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/service"
	"github.com/edumark/gradebook-go-api/internal/store"
	"github.com/edumark/gradebook-go-api/internal/utils"
)

// PolicyHandler manages late policy endpoints.
type PolicyHandler struct {
	service service.LatePolicyService
	logger  zerolog.Logger
}

// NewPolicyHandler builds a policy handler instance.
func NewPolicyHandler(service service.LatePolicyService, logger zerolog.Logger) *PolicyHandler {
	return &PolicyHandler{
		service: service,
		logger:  logger.With().Str("component", "policy_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *PolicyHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Put("/current", h.setCurrent)
	router.Delete("", h.reset)
}

func (h *PolicyHandler) list(c *fiber.Ctx) error {
	response, err := h.service.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "late policies retrieved", response)
}

func (h *PolicyHandler) create(c *fiber.Ctx) error {
	var payload dto.LatePolicyCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "late policy registered", response)
}

func (h *PolicyHandler) setCurrent(c *fiber.Ctx) error {
	var payload dto.SetCurrentPolicyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.SetCurrent(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "current late policy updated", response)
}

func (h *PolicyHandler) reset(c *fiber.Ctx) error {
	response, err := h.service.Reset(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "late policies reset to default", response)
}

func (h *PolicyHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSessionExpired):
		return utils.SendError(c, fiber.StatusGone, "privacy session expired")
	case errors.Is(err, store.ErrPolicyNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "late policy not found")
	case errors.Is(err, store.ErrInvalidLatePolicy):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
