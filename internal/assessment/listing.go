package assessment

import (
	"sort"

	"github.com/courseloop/courseloop-api/internal/models"
)

// Status filter values accepted by FilterSortPage.
const (
	FilterAll = "all"
)

// Sort keys accepted by FilterSortPage.
const (
	SortDueDate = "due_date"
	SortTitle   = "title"
	// SortSubmissionStatus orders by the derived-status string itself
	// ("draft" < "late" < "no_submission" < "submitted"). Not a severity
	// ranking; kept for compatibility with the existing clients.
	SortSubmissionStatus = "submission_status"
)

// Pair couples an assignment with the caller's own (or otherwise relevant)
// submission, which may be absent.
type Pair struct {
	Assignment models.Assignment
	Submission *models.Submission
}

// ListItem is one row of a filtered listing, carrying the derived state the
// filter and sort were computed from.
type ListItem struct {
	Assignment models.Assignment `json:"assignment"`
	State      SubmissionState   `json:"state"`
}

// Page is one page of a filtered, sorted assignment listing.
type Page struct {
	Items      []ListItem `json:"items"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}

// FilterSortPage filters assignment/submission pairs by derived status, sorts
// them by the requested key and returns the requested page. An unknown filter
// behaves like "all"; an unknown sort key falls back to due date.
func FilterSortPage(pairs []Pair, statusFilter, sortKey string, pageSize, pageNumber int) Page {
	items := make([]ListItem, 0, len(pairs))
	for _, pair := range pairs {
		state := Classify(pair.Assignment, pair.Submission)
		if statusFilter != "" && statusFilter != FilterAll && state.Status != statusFilter {
			continue
		}
		items = append(items, ListItem{Assignment: pair.Assignment, State: state})
	}

	switch sortKey {
	case SortTitle:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Assignment.Title < items[j].Assignment.Title
		})
	case SortSubmissionStatus:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].State.Status < items[j].State.Status
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Assignment.DueDate.Before(items[j].Assignment.DueDate)
		})
	}

	if pageSize < 1 {
		pageSize = 1
	}
	if pageNumber < 1 {
		pageNumber = 1
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (pageNumber - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Items:      items[start:end],
		Total:      total,
		TotalPages: totalPages,
		Page:       pageNumber,
		PageSize:   pageSize,
	}
}
