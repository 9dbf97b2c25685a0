package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/courseloop/courseloop-api/internal/assessment"
	"github.com/courseloop/courseloop-api/internal/dto"
	"github.com/courseloop/courseloop-api/internal/repository"
)

// StatsService aggregates submission standing across a course. Results are
// cached in redis because the aggregation walks every submission of every
// assignment in the course.
type StatsService interface {
	CourseStats(ctx context.Context, courseID uint) (dto.CourseStatsResponse, error)
	InvalidateCourse(ctx context.Context, courseID uint) error
}

type statsService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewStatsService constructs the stats service. The redis client is optional;
// without it every call recomputes.
func NewStatsService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) StatsService {
	if cacheTTL <= 0 {
		cacheTTL = 2 * time.Minute
	}
	return &statsService{
		assignments: assignments,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("component", "stats_service").Logger(),
	}
}

func statsCacheKey(courseID uint) string {
	return fmt.Sprintf("stats:course:%d", courseID)
}

func (s *statsService) CourseStats(ctx context.Context, courseID uint) (dto.CourseStatsResponse, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, statsCacheKey(courseID)).Bytes()
		if err == nil {
			var cached dto.CourseStatsResponse
			if unmarshalErr := json.Unmarshal(raw, &cached); unmarshalErr == nil {
				cached.GeneratedAtCache = true
				return cached, nil
			}
			s.logger.Warn().Uint("course_id", courseID).Msg("discarding malformed stats cache entry")
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Uint("course_id", courseID).Msg("stats cache read failed")
		}
	}

	stats, err := s.compute(ctx, courseID)
	if err != nil {
		return dto.CourseStatsResponse{}, err
	}

	if s.cache != nil {
		if payload, marshalErr := json.Marshal(stats); marshalErr == nil {
			if setErr := s.cache.Set(ctx, statsCacheKey(courseID), payload, s.cacheTTL).Err(); setErr != nil {
				s.logger.Warn().Err(setErr).Uint("course_id", courseID).Msg("stats cache write failed")
			}
		}
	}

	return stats, nil
}

func (s *statsService) InvalidateCourse(ctx context.Context, courseID uint) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, statsCacheKey(courseID)).Err()
}

func (s *statsService) compute(ctx context.Context, courseID uint) (dto.CourseStatsResponse, error) {
	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return dto.CourseStatsResponse{}, err
	}

	response := dto.CourseStatsResponse{
		CourseID:        courseID,
		AssignmentCount: len(assignments),
		PerAssignment:   make([]dto.AssignmentStats, 0, len(assignments)),
	}

	var scoreSum float64
	for i := range assignments {
		assignment := assignments[i]
		assignmentID := assignment.ID

		submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{AssignmentID: &assignmentID})
		if err != nil {
			return dto.CourseStatsResponse{}, err
		}

		entry := dto.AssignmentStats{
			AssignmentID: assignmentID,
			Title:        assignment.Title,
			StatusCounts: map[string]int{},
		}

		var assignmentScoreSum float64
		for j := range submissions {
			submission := submissions[j]
			state := assessment.Classify(assignment, &submission)
			entry.StatusCounts[state.Status]++
			response.SubmissionCount++

			if submission.IsGraded() {
				entry.GradedCount++
				response.GradedCount++
				assignmentScoreSum += float64(*submission.Score)
				scoreSum += float64(*submission.Score)
			}
		}

		if entry.GradedCount > 0 {
			avg := assignmentScoreSum / float64(entry.GradedCount)
			entry.AverageScore = &avg
		}

		response.PerAssignment = append(response.PerAssignment, entry)
	}

	if response.GradedCount > 0 {
		avg := scoreSum / float64(response.GradedCount)
		response.AverageScore = &avg
	}

	return response, nil
}
