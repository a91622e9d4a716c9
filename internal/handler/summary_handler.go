package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edumark/gradebook-go-api/internal/service"
	"github.com/edumark/gradebook-go-api/internal/utils"
)

// SummaryHandler exposes the class progress aggregate.
type SummaryHandler struct {
	service service.ClassSummaryService
	logger  zerolog.Logger
}

// NewSummaryHandler builds a summary handler instance.
func NewSummaryHandler(service service.ClassSummaryService, logger zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{
		service: service,
		logger:  logger.With().Str("component", "summary_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SummaryHandler) Register(router fiber.Router) {
	router.Get("/summary", h.summary)
}

func (h *SummaryHandler) summary(c *fiber.Ctx) error {
	response, err := h.service.Summary(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
	return utils.SendSuccess(c, "class summary", response)
}
