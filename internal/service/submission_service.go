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

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrSubmissionLocked indicates the submission is terminal and answers can no longer change.
var ErrSubmissionLocked = errors.New("submission is finalized and read-only")

// ErrAlreadyFinalized indicates a second finalize on the same submission.
var ErrAlreadyFinalized = errors.New("submission already finalized")

// ErrUnknownQuestion indicates a saved answer references a question that is
// not on the assignment.
var ErrUnknownQuestion = errors.New("answer references unknown question")

// SubmissionService orchestrates the student submission workflow: drafts are
// created implicitly by the first saved answer and move to exactly one of
// submitted or late on finalize.
type SubmissionService interface {
	SaveAnswers(ctx context.Context, studentID uint, payload dto.SaveAnswersRequest) (dto.SubmissionResponse, error)
	Finalize(ctx context.Context, studentID, assignmentID uint) (dto.SubmissionResponse, error)
	GetOwnState(ctx context.Context, studentID, assignmentID uint) (dto.SubmissionStateResponse, error)
	ListForAssignment(ctx context.Context, assignmentID uint) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, assignmentRepo repository.AssignmentRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		assignments: assignmentRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// SaveAnswers replaces the draft's answers as a whole, creating the draft on
// the first save. Terminal submissions reject the edit.
func (s *submissionService) SaveAnswers(ctx context.Context, studentID uint, payload dto.SaveAnswersRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	answers := make([]models.Answer, 0, len(payload.Answers))
	for _, entry := range payload.Answers {
		question, ok := assignment.QuestionByID(entry.QuestionID)
		if !ok {
			return dto.SubmissionResponse{}, fmt.Errorf("%w: %d", ErrUnknownQuestion, entry.QuestionID)
		}
		answers = append(answers, models.Answer{
			QuestionID: entry.QuestionID,
			Content:    entry.Content,
			Type:       question.Type,
		})
	}

	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, payload.AssignmentID, studentID)
	switch {
	case err == nil:
		if submission.IsTerminal() {
			return dto.SubmissionResponse{}, ErrSubmissionLocked
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		submission = models.Submission{
			AssignmentID: payload.AssignmentID,
			StudentID:    studentID,
			Status:       models.SubmissionStatusDraft,
		}
		if err := s.submissions.Create(ctx, &submission); err != nil {
			return dto.SubmissionResponse{}, err
		}
		s.logger.Info().Uint("submission_id", submission.ID).Uint("assignment_id", payload.AssignmentID).Msg("draft submission created")
	default:
		return dto.SubmissionResponse{}, err
	}

	if err := s.submissions.ReplaceAnswers(ctx, submission.ID, answers); err != nil {
		return dto.SubmissionResponse{}, err
	}

	saved, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(saved), nil
}

// Finalize locks the draft and stamps it submitted or late by comparing the
// clock against the assignment due date. The transition is irreversible.
func (s *submissionService) Finalize(ctx context.Context, studentID, assignmentID uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if submission.IsTerminal() {
		return dto.SubmissionResponse{}, ErrAlreadyFinalized
	}

	finalizedAt := s.now()
	if submission.Assignment.IsPastDue(finalizedAt) {
		submission.Status = models.SubmissionStatusLate
	} else {
		submission.Status = models.SubmissionStatusSubmitted
	}
	submission.SubmittedAt = &finalizedAt

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Str("status", submission.Status).
		Msg("submission finalized")

	return dto.NewSubmissionResponse(submission), nil
}

// GetOwnState returns the derived standing for the student, including the
// no-submission case where only the classifier output exists.
func (s *submissionService) GetOwnState(ctx context.Context, studentID, assignmentID uint) (dto.SubmissionStateResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionStateResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionStateResponse{}, err
	}

	submission, err := s.submissions.GetByAssignmentAndStudent(ctx, assignmentID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionStateResponse{
				AssignmentID: assignmentID,
				State:        assessment.Classify(assignment, nil),
			}, nil
		}
		return dto.SubmissionStateResponse{}, err
	}

	response := dto.NewSubmissionResponse(submission)
	return dto.SubmissionStateResponse{
		AssignmentID: assignmentID,
		Submission:   &response,
		State:        assessment.Classify(assignment, &submission),
	}, nil
}

func (s *submissionService) ListForAssignment(ctx context.Context, assignmentID uint) ([]dto.SubmissionResponse, error) {
	filter := repository.SubmissionFilter{AssignmentID: &assignmentID}
	submissions, err := s.submissions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}
