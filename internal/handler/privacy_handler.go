package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/edumark/gradebook-go-api/internal/service"
	"github.com/edumark/gradebook-go-api/internal/utils"
)

// PrivacyHandler manages privacy session endpoints including the websocket
// remaining-time ticker.
type PrivacyHandler struct {
	service      service.PrivacySessionService
	tickInterval time.Duration
	logger       zerolog.Logger
}

// NewPrivacyHandler builds a privacy handler instance.
func NewPrivacyHandler(service service.PrivacySessionService, tickInterval time.Duration, logger zerolog.Logger) *PrivacyHandler {
	return &PrivacyHandler{
		service:      service,
		tickInterval: tickInterval,
		logger:       logger.With().Str("component", "privacy_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *PrivacyHandler) Register(router fiber.Router) {
	router.Get("", h.status)
	router.Post("/start", h.start)
	router.Post("/extend", h.extend)

	router.Use("/ticker", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ticker", websocket.New(h.ticker))
}

func (h *PrivacyHandler) status(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "privacy session status", h.service.Status(c.Context()))
}

func (h *PrivacyHandler) start(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "privacy session started", h.service.Start(c.Context()))
}

func (h *PrivacyHandler) extend(c *fiber.Ctx) error {
	response, err := h.service.Extend(c.Context())
	if err != nil {
		if errors.Is(err, service.ErrSessionExpired) {
			return utils.SendError(c, fiber.StatusGone, "privacy session expired")
		}
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
	return utils.SendSuccess(c, "privacy session extended", response)
}

// ticker streams the session countdown. The stream is purely observational;
// it never mutates grading state. One final expired status is sent before
// the connection closes.
func (h *PrivacyHandler) ticker(conn *websocket.Conn) {
	defer conn.Close()

	ticker := time.NewTicker(h.tickInterval)
	defer ticker.Stop()

	if err := conn.WriteJSON(h.service.Status(context.Background())); err != nil {
		return
	}

	for range ticker.C {
		status := h.service.Status(context.Background())
		if err := conn.WriteJSON(status); err != nil {
			return
		}
		if !status.Active {
			h.logger.Debug().Msg("privacy ticker closing after expiry")
			return
		}
	}
}
