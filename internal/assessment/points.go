package assessment

// TotalAssignmentPoints is the required sum of a persisted question set.
const TotalAssignmentPoints = 100

// DistributePoints evenly splits 100 points across n questions. The first
// (100 mod n) questions receive one extra point so the sum lands exactly on
// 100. Deterministic and idempotent; n must be at least 1 — callers never
// offer the distribution for an empty set.
func DistributePoints(n int) []int {
	if n < 1 {
		return nil
	}

	base := TotalAssignmentPoints / n
	remainder := TotalAssignmentPoints % n

	points := make([]int, n)
	for i := range points {
		points[i] = base
		if i < remainder {
			points[i]++
		}
	}

	return points
}

// ApplyDistribution overwrites the points of every draft in the set with the
// even distribution for its size. No-op on an empty set.
func ApplyDistribution(questions []QuestionDraft) {
	points := DistributePoints(len(questions))
	for i := range questions {
		questions[i].Points = points[i]
	}
}
