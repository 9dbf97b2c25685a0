package dto

// AssignmentStats aggregates submission standing for one assignment.
type AssignmentStats struct {
	AssignmentID uint           `json:"assignment_id"`
	Title        string         `json:"title"`
	StatusCounts map[string]int `json:"status_counts"`
	GradedCount  int            `json:"graded_count"`
	AverageScore *float64       `json:"average_score,omitempty"`
}

// CourseStatsResponse aggregates assignment statistics for one course.
type CourseStatsResponse struct {
	CourseID         uint              `json:"course_id"`
	AssignmentCount  int               `json:"assignment_count"`
	SubmissionCount  int               `json:"submission_count"`
	GradedCount      int               `json:"graded_count"`
	AverageScore     *float64          `json:"average_score,omitempty"`
	PerAssignment    []AssignmentStats `json:"per_assignment"`
	GeneratedAtCache bool              `json:"from_cache"`
}
