package assessment

import (
	"strings"
	"time"

	"github.com/courseloop/courseloop-api/internal/models"
)

// Grade is the validated score and feedback a teacher attaches to a terminal
// submission. Construction never mutates anything; persistence happens in the
// calling service, so re-grading is safe to repeat.
type Grade struct {
	Score    int       `json:"score"`
	Feedback string    `json:"feedback"`
	GradedAt time.Time `json:"graded_at"`
}

// ValidateGrade bounds-checks a proposed score against the assignment's live
// total points and builds the Grade record. Rejection performs no state
// change. The caller supplies the clock so repeated calls with the same
// inputs stay comparable.
func ValidateGrade(questions []models.Question, score int, feedback string, now time.Time) (Grade, error) {
	max := 0
	for _, question := range questions {
		max += question.Points
	}

	if score < 0 || score > max {
		return Grade{}, &ScoreOutOfRangeError{Score: score, Max: max}
	}

	return Grade{
		Score:    score,
		Feedback: strings.TrimSpace(feedback),
		GradedAt: now,
	}, nil
}
