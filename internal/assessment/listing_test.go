package assessment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/courseloop/courseloop-api/internal/models"
)

func listingPairs(count int) []Pair {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	pairs := make([]Pair, 0, count)
	for i := 0; i < count; i++ {
		pairs = append(pairs, Pair{
			Assignment: models.Assignment{
				ID:      uint(i + 1),
				Title:   fmt.Sprintf("Assignment %02d", i+1),
				DueDate: base.Add(time.Duration(i) * 24 * time.Hour),
			},
		})
	}
	return pairs
}

func TestFilterSortPagePagination(t *testing.T) {
	pairs := listingPairs(12)

	first := FilterSortPage(pairs, FilterAll, SortDueDate, 5, 1)
	require.Len(t, first.Items, 5)
	require.Equal(t, uint(1), first.Items[0].Assignment.ID)
	require.Equal(t, uint(5), first.Items[4].Assignment.ID)
	require.Equal(t, 12, first.Total)
	require.Equal(t, 3, first.TotalPages)

	last := FilterSortPage(pairs, FilterAll, SortDueDate, 5, 3)
	require.Len(t, last.Items, 2)
	require.Equal(t, uint(11), last.Items[0].Assignment.ID)
	require.Equal(t, uint(12), last.Items[1].Assignment.ID)
}

func TestFilterSortPageEmptyInput(t *testing.T) {
	page := FilterSortPage(nil, FilterAll, SortDueDate, 10, 1)

	require.Empty(t, page.Items)
	require.Equal(t, 0, page.Total)
	require.Equal(t, 1, page.TotalPages)
}

func TestFilterSortPagePastLastPage(t *testing.T) {
	page := FilterSortPage(listingPairs(3), FilterAll, SortDueDate, 5, 4)

	require.Empty(t, page.Items)
	require.Equal(t, 3, page.Total)
	require.Equal(t, 1, page.TotalPages)
}

func TestFilterSortPageStatusFilter(t *testing.T) {
	pairs := listingPairs(4)
	pairs[0].Submission = &models.Submission{Status: models.SubmissionStatusSubmitted}
	pairs[1].Submission = &models.Submission{Status: models.SubmissionStatusDraft}
	pairs[2].Submission = &models.Submission{Status: models.SubmissionStatusSubmitted}

	page := FilterSortPage(pairs, models.SubmissionStatusSubmitted, SortDueDate, 10, 1)

	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		require.Equal(t, models.SubmissionStatusSubmitted, item.State.Status)
	}
}

func TestFilterSortPageSortChangeKeepsMembership(t *testing.T) {
	pairs := listingPairs(6)
	for i := range pairs {
		if i%2 == 0 {
			pairs[i].Submission = &models.Submission{Status: models.SubmissionStatusSubmitted}
		}
	}
	// Reverse titles relative to due dates so the two sorts disagree.
	for i := range pairs {
		pairs[i].Assignment.Title = fmt.Sprintf("Assignment %02d", len(pairs)-i)
	}

	byDue := FilterSortPage(pairs, models.SubmissionStatusSubmitted, SortDueDate, 10, 1)
	byTitle := FilterSortPage(pairs, models.SubmissionStatusSubmitted, SortTitle, 10, 1)

	require.Equal(t, len(byDue.Items), len(byTitle.Items))

	dueIDs := make(map[uint]bool)
	for _, item := range byDue.Items {
		dueIDs[item.Assignment.ID] = true
	}
	for _, item := range byTitle.Items {
		require.True(t, dueIDs[item.Assignment.ID], "sort change must not alter membership")
	}

	require.NotEqual(t, byDue.Items[0].Assignment.ID, byTitle.Items[0].Assignment.ID)
}

func TestFilterSortPageTitleSortCaseSensitive(t *testing.T) {
	pairs := listingPairs(2)
	pairs[0].Assignment.Title = "alpha"
	pairs[1].Assignment.Title = "Beta"

	page := FilterSortPage(pairs, FilterAll, SortTitle, 10, 1)

	// Uppercase sorts before lowercase in byte order.
	require.Equal(t, "Beta", page.Items[0].Assignment.Title)
	require.Equal(t, "alpha", page.Items[1].Assignment.Title)
}

func TestFilterSortPageStatusSortIsLexicographic(t *testing.T) {
	pairs := listingPairs(4)
	pairs[0].Submission = &models.Submission{Status: models.SubmissionStatusSubmitted}
	pairs[1].Submission = nil
	pairs[2].Submission = &models.Submission{Status: models.SubmissionStatusLate}
	pairs[3].Submission = &models.Submission{Status: models.SubmissionStatusDraft}

	page := FilterSortPage(pairs, FilterAll, SortSubmissionStatus, 10, 1)

	statuses := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		statuses = append(statuses, item.State.Status)
	}

	require.Equal(t, []string{"draft", "late", "no_submission", "submitted"}, statuses)
}
