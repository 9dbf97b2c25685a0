package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/courseloop/courseloop-api/internal/assessment"
	"github.com/courseloop/courseloop-api/internal/dto"
	"github.com/courseloop/courseloop-api/internal/models"
	"github.com/courseloop/courseloop-api/internal/repository"
)

// ErrAssignmentNotFound indicates the requested assignment does not exist.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrCourseNotFound indicates the referenced course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// QuestionSetError wraps the collected authoring problems so the handler can
// return every error at once together with the suggested points fix.
type QuestionSetError struct {
	Result assessment.ValidationResult
}

// Error implements the error interface.
func (e *QuestionSetError) Error() string {
	return fmt.Sprintf("question set validation failed with %d errors", len(e.Result.Errors))
}

// AssignmentService exposes assignment authoring and listing use cases.
type AssignmentService interface {
	ListForStudent(ctx context.Context, courseID, studentID uint, view dto.AssignmentListView) (dto.AssignmentListResponse, error)
	Get(ctx context.Context, id uint, includeAnswers bool) (dto.AssignmentResponse, error)
	Create(ctx context.Context, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, id uint) error
	SuggestPoints(ctx context.Context, payload dto.PointsSuggestionRequest) (dto.PointsSuggestionResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService builds a new assignment service.
func NewAssignmentService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		courses:     courses,
		validator:   validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

// ListForStudent joins the course's assignments with the student's own
// submissions and runs the filter/sort/pagination rules over the pairs.
func (s *assignmentService) ListForStudent(ctx context.Context, courseID, studentID uint, view dto.AssignmentListView) (dto.AssignmentListResponse, error) {
	view.Normalize()
	if err := s.validator.Struct(view); err != nil {
		return dto.AssignmentListResponse{}, err
	}

	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return dto.AssignmentListResponse{}, err
	}

	filter := repository.SubmissionFilter{StudentID: &studentID}
	submissions, err := s.submissions.List(ctx, filter)
	if err != nil {
		return dto.AssignmentListResponse{}, err
	}

	ownByAssignment := make(map[uint]models.Submission, len(submissions))
	for _, submission := range submissions {
		if _, exists := ownByAssignment[submission.AssignmentID]; !exists {
			ownByAssignment[submission.AssignmentID] = submission
		}
	}

	pairs := make([]assessment.Pair, 0, len(assignments))
	for _, assignment := range assignments {
		pair := assessment.Pair{Assignment: assignment}
		if submission, ok := ownByAssignment[assignment.ID]; ok {
			own := submission
			pair.Submission = &own
		}
		pairs = append(pairs, pair)
	}

	page := assessment.FilterSortPage(pairs, view.StatusFilter, view.SortKey, view.PageSize, view.Page)

	return dto.NewAssignmentListResponse(page), nil
}

func (s *assignmentService) Get(ctx context.Context, id uint, includeAnswers bool) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}

		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment, includeAnswers), nil
}

func (s *assignmentService) Create(ctx context.Context, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrCourseNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, fmt.Errorf("invalid due date: %w", err)
	}

	assignment := models.Assignment{
		CourseID:     payload.CourseID,
		Title:        payload.Title,
		Description:  payload.Description,
		Instructions: payload.Instructions,
		DueDate:      dueDate,
		Type:         payload.Type,
		PassingScore: payload.PassingScore,
	}
	if payload.Type == models.AssignmentTypeExam {
		assignment.TimeLimit = payload.TimeLimit
	}

	// An assignment may be created with an empty question list; the sum rule
	// only applies once questions exist.
	if len(payload.Questions) > 0 {
		questions, err := s.validateQuestions(payload.Questions)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.Questions = questions
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("course_id", assignment.CourseID).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment, true), nil
}

func (s *assignmentService) Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}

		return dto.AssignmentResponse{}, err
	}

	if payload.Title != nil {
		assignment.Title = *payload.Title
	}

	if payload.Description != nil {
		assignment.Description = *payload.Description
	}

	if payload.Instructions != nil {
		assignment.Instructions = *payload.Instructions
	}

	if payload.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, fmt.Errorf("invalid due date: %w", err)
		}
		assignment.DueDate = dueDate
	}

	if payload.Type != nil {
		assignment.Type = *payload.Type
	}

	if payload.TimeLimit != nil {
		assignment.TimeLimit = payload.TimeLimit
	}

	if payload.PassingScore != nil {
		assignment.PassingScore = payload.PassingScore
	}

	if !assignment.IsExam() {
		assignment.TimeLimit = nil
	}

	if payload.Questions != nil {
		questions, err := s.validateQuestions(*payload.Questions)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}

		if err := s.assignments.ReplaceQuestions(ctx, assignment.ID, questions); err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.Questions = questions
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	updated, err := s.assignments.GetByID(ctx, assignment.ID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment updated")

	return dto.NewAssignmentResponse(updated, true), nil
}

func (s *assignmentService) Delete(ctx context.Context, id uint) error {
	if err := s.assignments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted")
	return nil
}

// SuggestPoints exposes the even distribution for the authoring UI's
// one-click fix after a points-sum mismatch.
func (s *assignmentService) SuggestPoints(ctx context.Context, payload dto.PointsSuggestionRequest) (dto.PointsSuggestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PointsSuggestionResponse{}, err
	}

	return dto.PointsSuggestionResponse{
		Points: assessment.DistributePoints(payload.QuestionCount),
		Total:  assessment.TotalAssignmentPoints,
	}, nil
}

// validateQuestions runs the whole-set rules and maps accepted drafts into
// question rows with their renumbered order.
func (s *assignmentService) validateQuestions(payloads []dto.QuestionPayload) ([]models.Question, error) {
	drafts := dto.ToQuestionDrafts(payloads)

	result := assessment.ValidateQuestionSet(drafts)
	if !result.Valid() {
		return nil, &QuestionSetError{Result: result}
	}

	questions := make([]models.Question, 0, len(drafts))
	for _, draft := range drafts {
		question := models.Question{
			ID:     draft.ID,
			Text:   draft.Text,
			Type:   draft.Type,
			Order:  draft.Order,
			Points: draft.Points,
		}
		if draft.Type == models.QuestionTypeMultipleChoice {
			question.SetOptions(draft.Options)
			question.SetCorrectAnswers(draft.CorrectAnswers)
		}
		questions = append(questions, question)
	}

	return questions, nil
}
