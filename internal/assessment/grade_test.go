package assessment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/courseloop/courseloop-api/internal/models"
)

func hundredPointQuestions() []models.Question {
	return []models.Question{
		{ID: 1, Text: "q1", Type: models.QuestionTypeText, Points: 60},
		{ID: 2, Text: "q2", Type: models.QuestionTypeText, Points: 40},
	}
}

func TestValidateGradeBounds(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		score int
		ok    bool
	}{
		{name: "negative rejected", score: -1, ok: false},
		{name: "above max rejected", score: 101, ok: false},
		{name: "zero accepted", score: 0, ok: true},
		{name: "max accepted", score: 100, ok: true},
		{name: "mid accepted", score: 73, ok: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grade, err := ValidateGrade(hundredPointQuestions(), tc.score, "ok", now)
			if !tc.ok {
				var outOfRange *ScoreOutOfRangeError
				require.ErrorAs(t, err, &outOfRange)
				require.Equal(t, tc.score, outOfRange.Score)
				require.Equal(t, 100, outOfRange.Max)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.score, grade.Score)
			require.Equal(t, now, grade.GradedAt)
		})
	}
}

func TestValidateGradeTrimsFeedback(t *testing.T) {
	grade, err := ValidateGrade(hundredPointQuestions(), 80, "  good job  ", time.Now())

	require.NoError(t, err)
	require.Equal(t, "good job", grade.Feedback)
}

func TestValidateGradeEmptyFeedbackAllowed(t *testing.T) {
	grade, err := ValidateGrade(hundredPointQuestions(), 55, "", time.Now())

	require.NoError(t, err)
	require.Empty(t, grade.Feedback)
}

func TestValidateGradeUsesLiveTotal(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Text: "q1", Type: models.QuestionTypeText, Points: 40},
	}

	_, err := ValidateGrade(questions, 41, "", time.Now())
	var outOfRange *ScoreOutOfRangeError
	require.ErrorAs(t, err, &outOfRange)
	require.Equal(t, 40, outOfRange.Max)

	grade, err := ValidateGrade(questions, 40, "", time.Now())
	require.NoError(t, err)
	require.Equal(t, 40, grade.Score)
}

func TestValidateGradeIdempotent(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	first, err := ValidateGrade(hundredPointQuestions(), 90, "solid", now)
	require.NoError(t, err)
	second, err := ValidateGrade(hundredPointQuestions(), 90, "solid", now)
	require.NoError(t, err)

	require.Equal(t, first, second)
}
