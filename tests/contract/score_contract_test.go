package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/handler"
	"github.com/edumark/gradebook-go-api/internal/models"
)

type stubGradeService struct {
	score dto.ScoreResponse
}

func (s stubGradeService) LoadDraft(context.Context, string) (dto.GradeRecordResponse, error) {
	return dto.GradeRecordResponse{}, nil
}

func (s stubGradeService) LoadDraftRecord(string) (models.GradeRecord, bool) {
	return models.GradeRecord{}, false
}

func (s stubGradeService) SaveDraft(context.Context, string, dto.GradeRecordRequest) (dto.GradeRecordResponse, error) {
	return dto.GradeRecordResponse{}, nil
}

func (s stubGradeService) SaveFinal(context.Context, string, dto.GradeRecordRequest) (dto.GradeRecordResponse, error) {
	return dto.GradeRecordResponse{}, nil
}

func (s stubGradeService) SaveRecord(context.Context, string, models.GradeRecord, models.GradeType, bool) error {
	return nil
}

func (s stubGradeService) Unlock(context.Context, string) (dto.GradeRecordResponse, error) {
	return dto.GradeRecordResponse{}, nil
}

func (s stubGradeService) Status(context.Context, string) dto.GradeStatusResponse {
	return dto.GradeStatusResponse{}
}

func (s stubGradeService) Score(context.Context, string) (dto.ScoreResponse, error) {
	return s.score, nil
}

func (s stubGradeService) AddAttachment(context.Context, string, string, []byte) (dto.AttachmentResponse, error) {
	return dto.AttachmentResponse{}, nil
}

func TestScoreContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "score.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	svc := stubGradeService{score: dto.ScoreResponse{
		StudentID:      "s-001",
		Source:         models.GradeStatusFinal,
		RawScore:       49.1,
		FinalScore:     49.1,
		Percentage:     76,
		LetterGrade:    "B",
		PenaltyApplied: false,
	}}
	gradeHandler := handler.NewGradeHandler(svc, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/grades", func(c *fiber.Ctx) error {
		c.Locals("user_id", "instructor-1")
		c.Locals("user_role", "instructor")
		return c.Next()
	})
	gradeHandler.Register(group)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/grades/s-001/score", nil)
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
