package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func studentIDParam(c *fiber.Ctx) (string, bool) {
	id := strings.TrimSpace(c.Params("studentId"))
	return id, id != ""
}

func actorFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
