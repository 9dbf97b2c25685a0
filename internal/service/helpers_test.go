package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/courseloop/courseloop-api/internal/models"
	"github.com/courseloop/courseloop-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type fakeAssignmentRepo struct {
	assignments map[uint]models.Assignment
	nextID      uint
}

func newFakeAssignmentRepo(assignments ...models.Assignment) *fakeAssignmentRepo {
	repo := &fakeAssignmentRepo{assignments: map[uint]models.Assignment{}, nextID: 1}
	for _, assignment := range assignments {
		if assignment.ID >= repo.nextID {
			repo.nextID = assignment.ID + 1
		}
		repo.assignments[assignment.ID] = assignment
	}
	return repo
}

func (f *fakeAssignmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error) {
	result := make([]models.Assignment, 0, len(f.assignments))
	for _, assignment := range f.assignments {
		if assignment.CourseID == courseID {
			result = append(result, assignment)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueDate.Before(result[j].DueDate) })
	return result, nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	assignment, ok := f.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = f.nextID
	f.nextID++
	f.assignments[assignment.ID] = *assignment
	return nil
}

func (f *fakeAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	f.assignments[assignment.ID] = *assignment
	return nil
}

func (f *fakeAssignmentRepo) ReplaceQuestions(ctx context.Context, assignmentID uint, questions []models.Question) error {
	assignment, ok := f.assignments[assignmentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	assignment.Questions = questions
	f.assignments[assignmentID] = assignment
	return nil
}

func (f *fakeAssignmentRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.assignments, id)
	return nil
}

type fakeSubmissionRepo struct {
	submissions  map[uint]models.Submission
	history      []models.SubmissionGradeHistory
	nextID       uint
	updateCalls  int
	historyCalls int
}

func newFakeSubmissionRepo(submissions ...models.Submission) *fakeSubmissionRepo {
	repo := &fakeSubmissionRepo{submissions: map[uint]models.Submission{}, nextID: 1}
	for _, submission := range submissions {
		if submission.ID >= repo.nextID {
			repo.nextID = submission.ID + 1
		}
		repo.submissions[submission.ID] = submission
	}
	return repo
}

func (f *fakeSubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	result := make([]models.Submission, 0, len(f.submissions))
	for _, submission := range f.submissions {
		if filter.AssignmentID != nil && submission.AssignmentID != *filter.AssignmentID {
			continue
		}
		if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
			continue
		}
		if filter.Status != nil && submission.Status != *filter.Status {
			continue
		}
		result = append(result, submission)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	submission, ok := f.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (models.Submission, error) {
	for _, submission := range f.submissions {
		if submission.AssignmentID == assignmentID && submission.StudentID == studentID {
			return submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	submission.ID = f.nextID
	f.nextID++
	f.submissions[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	f.updateCalls++
	f.submissions[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) ReplaceAnswers(ctx context.Context, submissionID uint, answers []models.Answer) error {
	submission, ok := f.submissions[submissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range answers {
		answers[i].SubmissionID = submissionID
	}
	submission.Answers = answers
	f.submissions[submissionID] = submission
	return nil
}

func (f *fakeSubmissionRepo) CreateGradeHistory(ctx context.Context, entry *models.SubmissionGradeHistory) error {
	f.historyCalls++
	f.history = append(f.history, *entry)
	return nil
}

type fakeCourseRepo struct {
	courses map[uint]models.Course
}

func newFakeCourseRepo(courses ...models.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{courses: map[uint]models.Course{}}
	for _, course := range courses {
		repo.courses[course.ID] = course
	}
	return repo
}

func (f *fakeCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	result := make([]models.Course, 0, len(f.courses))
	for _, course := range f.courses {
		result = append(result, course)
	}
	return result, nil
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, id uint) (models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = uint(len(f.courses) + 1)
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.courses, id)
	return nil
}
