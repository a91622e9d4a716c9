package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/handler"
)

type stubSummaryService struct {
	response dto.ClassSummaryResponse
}

func (s stubSummaryService) Summary(context.Context) (dto.ClassSummaryResponse, error) {
	return s.response, nil
}

func (s stubSummaryService) Invalidate(context.Context) {}

func TestClassSummaryContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "class_summary.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	svc := stubSummaryService{response: dto.ClassSummaryResponse{
		TotalStudents:     3,
		Pending:           1,
		InProgress:        0,
		CompletedDraft:    1,
		CompletedFinal:    1,
		Drafts:            1,
		Finals:            1,
		AveragePercentage: 76.0,
		GeneratedAtUnix:   time.Now().UTC().Unix(),
		CacheHit:          false,
	}}
	summaryHandler := handler.NewSummaryHandler(svc, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/class", func(c *fiber.Ctx) error {
		c.Locals("user_id", "instructor-1")
		c.Locals("user_role", "instructor")
		return c.Next()
	})
	summaryHandler.Register(group)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/class/summary", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
