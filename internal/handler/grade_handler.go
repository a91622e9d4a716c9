package handler

import (
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/service"
	"github.com/edumark/gradebook-go-api/internal/store"
	"github.com/edumark/gradebook-go-api/internal/utils"
)

// GradeHandler manages grade ledger endpoints.
type GradeHandler struct {
	service service.GradeService
	logger  zerolog.Logger
}

// NewGradeHandler builds a grade handler instance.
func NewGradeHandler(service service.GradeService, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		service: service,
		logger:  logger.With().Str("component", "grade_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *GradeHandler) Register(router fiber.Router) {
	router.Get("/:studentId/draft", h.loadDraft)
	router.Put("/:studentId/draft", h.saveDraft)
	router.Post("/:studentId/final", h.saveFinal)
	router.Post("/:studentId/unlock", h.unlock)
	router.Get("/:studentId/status", h.status)
	router.Get("/:studentId/score", h.score)
	router.Post("/:studentId/attachments", h.addAttachment)
}

func (h *GradeHandler) loadDraft(c *fiber.Ctx) error {
	studentID, ok := studentIDParam(c)
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "student id is required")
	}

	response, err := h.service.LoadDraft(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "draft retrieved", response)
}

func (h *GradeHandler) saveDraft(c *fiber.Ctx) error {
	return h.save(c, false)
}

func (h *GradeHandler) saveFinal(c *fiber.Ctx) error {
	return h.save(c, true)
}

func (h *GradeHandler) save(c *fiber.Ctx, final bool) error {
	studentID, ok := studentIDParam(c)
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "student id is required")
	}

	var payload dto.GradeRecordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.GradedBy == "" {
		payload.GradedBy = actorFromContext(c)
	}

	var response dto.GradeRecordResponse
	var err error
	if final {
		response, err = h.service.SaveFinal(c.Context(), studentID, payload)
	} else {
		response, err = h.service.SaveDraft(c.Context(), studentID, payload)
	}
	if err != nil {
		return h.handleError(c, err)
	}

	message := "draft saved"
	if final {
		message = "final grade saved"
	}
	return utils.SendSuccess(c, message, response)
}

func (h *GradeHandler) unlock(c *fiber.Ctx) error {
	studentID, ok := studentIDParam(c)
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "student id is required")
	}

	response, err := h.service.Unlock(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "final grade unlocked", response)
}

func (h *GradeHandler) status(c *fiber.Ctx) error {
	studentID, ok := studentIDParam(c)
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "student id is required")
	}
	return utils.SendSuccess(c, "grade status retrieved", h.service.Status(c.Context(), studentID))
}

func (h *GradeHandler) score(c *fiber.Ctx) error {
	studentID, ok := studentIDParam(c)
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "student id is required")
	}

	response, err := h.service.Score(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "score calculated", response)
}

func (h *GradeHandler) addAttachment(c *fiber.Ctx) error {
	studentID, ok := studentIDParam(c)
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "student id is required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	opened, err := file.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to open file")
	}
	defer opened.Close()

	content, err := io.ReadAll(opened)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to read file")
	}

	response, err := h.service.AddAttachment(c.Context(), studentID, file.Filename, content)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attachment added", response)
}

func (h *GradeHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSessionExpired):
		return utils.SendError(c, fiber.StatusGone, "privacy session expired")
	case errors.Is(err, service.ErrNoRubricLoaded):
		return utils.SendError(c, fiber.StatusConflict, "no rubric loaded")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case errors.Is(err, service.ErrUnknownCriterion):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnsupportedAttachment):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, store.ErrGradeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "grade record not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
