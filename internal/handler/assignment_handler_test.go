package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/courseloop/courseloop-api/internal/config"
	"github.com/courseloop/courseloop-api/internal/handler"
	"github.com/courseloop/courseloop-api/internal/models"
	"github.com/courseloop/courseloop-api/internal/repository"
	"github.com/courseloop/courseloop-api/internal/router"
	"github.com/courseloop/courseloop-api/internal/service"
)

func setupAssignmentApp(t *testing.T, role string) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Course{},
		&models.Student{},
		&models.Assignment{},
		&models.Question{},
		&models.Submission{},
		&models.Answer{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, courseRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, validate, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "secret"}, router.Dependencies{
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", uint(1))
			c.Locals("user_role", role)
			return c.Next()
		},
	})

	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestAssignmentHandlerCreateRejectsBadQuestionSet(t *testing.T) {
	app, db := setupAssignmentApp(t, "teacher")

	course := models.Course{Title: "Algebra", TeacherID: 1}
	require.NoError(t, db.Create(&course).Error)

	resp := postJSON(t, app, "/api/v1/teacher/assignments", fiber.Map{
		"course_id": course.ID,
		"title":     "Broken quiz",
		"due_date":  time.Now().Add(time.Hour).Format(time.RFC3339),
		"type":      "homework",
		"questions": []fiber.Map{
			{"text": "One", "type": "text", "points": 40},
			{"text": "Two", "type": "text", "points": 40},
		},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			Errors []struct {
				Code string `json:"code"`
			} `json:"errors"`
			Suggested []int `json:"suggested_points"`
		} `json:"data"`
	}
	decodeBody(t, resp, &payload)

	require.False(t, payload.Success)
	require.NotEmpty(t, payload.Data.Errors)
	require.Equal(t, []int{50, 50}, payload.Data.Suggested)

	var count int64
	require.NoError(t, db.Model(&models.Assignment{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAssignmentHandlerCreateAndListForStudent(t *testing.T) {
	app, db := setupAssignmentApp(t, "teacher")

	course := models.Course{Title: "Algebra", TeacherID: 1}
	require.NoError(t, db.Create(&course).Error)

	resp := postJSON(t, app, "/api/v1/teacher/assignments", fiber.Map{
		"course_id": course.ID,
		"title":     "Weekly quiz",
		"due_date":  time.Now().Add(time.Hour).Format(time.RFC3339),
		"type":      "homework",
		"questions": []fiber.Map{
			{"text": "One", "type": "text", "points": 50},
			{"text": "Two", "type": "text", "points": 50},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/assignments?course_id=%d", course.ID), nil)
	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, listResp.StatusCode)

	var listing struct {
		Data struct {
			Items []struct {
				Assignment struct {
					Title       string `json:"title"`
					TotalPoints int    `json:"total_points"`
				} `json:"assignment"`
				State struct {
					Status   string `json:"status"`
					CanStart bool   `json:"can_start"`
				} `json:"state"`
			} `json:"items"`
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"data"`
	}
	decodeBody(t, listResp, &listing)

	require.Equal(t, 1, listing.Data.Total)
	require.Equal(t, 1, listing.Data.TotalPages)
	require.Len(t, listing.Data.Items, 1)
	require.Equal(t, "Weekly quiz", listing.Data.Items[0].Assignment.Title)
	require.Equal(t, 100, listing.Data.Items[0].Assignment.TotalPoints)
	require.Equal(t, "no_submission", listing.Data.Items[0].State.Status)
	require.True(t, listing.Data.Items[0].State.CanStart)
}

func TestAssignmentHandlerPointsSuggestion(t *testing.T) {
	app, _ := setupAssignmentApp(t, "teacher")

	resp := postJSON(t, app, "/api/v1/teacher/assignments/points-suggestion", fiber.Map{
		"question_count": 3,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data struct {
			Points []int `json:"points"`
			Total  int   `json:"total"`
		} `json:"data"`
	}
	decodeBody(t, resp, &payload)

	require.Equal(t, []int{34, 33, 33}, payload.Data.Points)
	require.Equal(t, 100, payload.Data.Total)
}

func TestAssignmentHandlerTeacherRoutesRejectStudents(t *testing.T) {
	app, _ := setupAssignmentApp(t, "student")

	resp := postJSON(t, app, "/api/v1/teacher/assignments", fiber.Map{})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
