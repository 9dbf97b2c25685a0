package dto

import "github.com/courseloop/courseloop-api/internal/assessment"

// AssignmentListView is the caller-owned view state for the assignment
// listing: active filter, sort key and current page. The assessment core
// stays stateless; this struct is the single place the pagination reset rule
// lives.
type AssignmentListView struct {
	StatusFilter string `json:"status_filter" query:"status" validate:"omitempty,oneof=all no_submission draft submitted late"`
	SortKey      string `json:"sort_key" query:"sort" validate:"omitempty,oneof=due_date title submission_status"`
	Page         int    `json:"page" query:"page" validate:"omitempty,gte=1"`
	PageSize     int    `json:"page_size" query:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// NewAssignmentListView returns a view with the defaults the UI starts from.
func NewAssignmentListView() AssignmentListView {
	return AssignmentListView{
		StatusFilter: assessment.FilterAll,
		SortKey:      assessment.SortDueDate,
		Page:         1,
		PageSize:     10,
	}
}

// Normalize fills zero values with defaults.
func (v *AssignmentListView) Normalize() {
	if v.StatusFilter == "" {
		v.StatusFilter = assessment.FilterAll
	}
	if v.SortKey == "" {
		v.SortKey = assessment.SortDueDate
	}
	if v.Page < 1 {
		v.Page = 1
	}
	if v.PageSize < 1 {
		v.PageSize = 10
	}
}

// SetStatusFilter changes the filter and resets the page to 1.
func (v *AssignmentListView) SetStatusFilter(filter string) {
	if v.StatusFilter == filter {
		return
	}
	v.StatusFilter = filter
	v.Page = 1
}

// SetSortKey changes the sort key and resets the page to 1.
func (v *AssignmentListView) SetSortKey(key string) {
	if v.SortKey == key {
		return
	}
	v.SortKey = key
	v.Page = 1
}
