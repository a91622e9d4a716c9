package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edumark/gradebook-go-api/internal/dto"
	"github.com/edumark/gradebook-go-api/internal/grading"
	"github.com/edumark/gradebook-go-api/internal/models"
	"github.com/edumark/gradebook-go-api/internal/store"
)

const classSummaryCacheKey = "gradebook:summary:class"

// ClassSummaryService aggregates roster progress and scored results for the
// whole class. Results are cached briefly in Redis; every ledger write
// invalidates the cache.
type ClassSummaryService interface {
	Summary(ctx context.Context) (dto.ClassSummaryResponse, error)
	Invalidate(ctx context.Context)
}

type classSummaryService struct {
	ledger   *store.GradeLedger
	roster   *store.RosterStore
	rubrics  *store.RubricStore
	policies *store.LatePolicyRegistry
	engine   *grading.Engine
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewClassSummaryService constructs the summary aggregator. A nil cache
// client disables caching.
func NewClassSummaryService(
	ledger *store.GradeLedger,
	roster *store.RosterStore,
	rubrics *store.RubricStore,
	policies *store.LatePolicyRegistry,
	engine *grading.Engine,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) ClassSummaryService {
	return &classSummaryService{
		ledger:   ledger,
		roster:   roster,
		rubrics:  rubrics,
		policies: policies,
		engine:   engine,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "class_summary_service").Logger(),
		now:      time.Now,
	}
}

func (s *classSummaryService) Summary(ctx context.Context) (dto.ClassSummaryResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, classSummaryCacheKey).Result(); err == nil {
			var response dto.ClassSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				s.logger.Debug().Msg("class summary cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read class summary cache")
		}
	}

	response := s.build()

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, classSummaryCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store class summary cache")
			}
		}
	}

	return response, nil
}

// Invalidate drops the cached aggregate after a ledger write.
func (s *classSummaryService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, classSummaryCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate class summary cache")
	}
}

func (s *classSummaryService) build() dto.ClassSummaryResponse {
	progress := s.roster.Progress()
	response := dto.ClassSummaryResponse{
		TotalStudents:   len(progress),
		GeneratedAtUnix: s.now().Unix(),
	}

	for _, entry := range progress {
		switch entry.Status {
		case models.ProgressInProgress:
			response.InProgress++
		case models.ProgressCompletedDraft:
			response.CompletedDraft++
		case models.ProgressCompletedFinal:
			response.CompletedFinal++
		default:
			response.Pending++
		}
	}

	response.Drafts, response.Finals = s.ledger.Counts()

	rubric, ok := s.rubrics.Get()
	if !ok {
		return response
	}

	var total float64
	var scored int
	for _, entry := range progress {
		record, _, found := s.ledger.Best(entry.StudentID)
		if !found {
			continue
		}
		policy := s.policies.Current()
		if record.Late.PolicyID != "" {
			if selected, ok := s.policies.Get(record.Late.PolicyID); ok {
				policy = selected
			}
		}
		breakdown := s.engine.Calculate(rubric, record, policy)
		total += float64(breakdown.Percentage)
		scored++
	}
	if scored > 0 {
		response.AveragePercentage = total / float64(scored)
	}

	return response
}
