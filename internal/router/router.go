package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/courseloop/courseloop-api/internal/config"
	"github.com/courseloop/courseloop-api/internal/handler"
	"github.com/courseloop/courseloop-api/internal/middleware"
	"github.com/courseloop/courseloop-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AssignmentHandler   *handler.AssignmentHandler
	SubmissionHandler   *handler.SubmissionHandler
	GradingHandler      *handler.GradingHandler
	CourseHandler       *handler.CourseHandler
	ForumHandler        *handler.ForumHandler
	FeedbackHandler     *handler.FeedbackHandler
	StatsHandler        *handler.StatsHandler
	NotificationHandler *handler.NotificationHandler
	UploadHandler       *handler.UploadHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	authed := api.Group("", jwtMiddleware)
	teacherOnly := middleware.RequireRole("teacher", "admin")

	if deps.CourseHandler != nil {
		student := authed.Group("/courses")
		teacher := authed.Group("/courses", teacherOnly)
		deps.CourseHandler.Register(student, teacher)
	}

	if deps.AssignmentHandler != nil {
		student := authed.Group("/assignments")
		teacher := authed.Group("/teacher/assignments", teacherOnly)
		deps.AssignmentHandler.Register(student, teacher)
	}

	if deps.SubmissionHandler != nil {
		student := authed.Group("/submissions")
		teacher := authed.Group("/teacher/submissions", teacherOnly)
		deps.SubmissionHandler.Register(student, teacher)

		if deps.GradingHandler != nil {
			deps.GradingHandler.Register(teacher)
		}
	}

	if deps.ForumHandler != nil {
		forum := authed.Group("/forum")
		deps.ForumHandler.Register(forum)
	}

	if deps.FeedbackHandler != nil {
		student := authed.Group("/feedback", middleware.RateLimit("feedback", 5, time.Minute))
		teacher := authed.Group("/teacher/feedback", teacherOnly)
		deps.FeedbackHandler.Register(student, teacher)
	}

	if deps.StatsHandler != nil {
		teacher := authed.Group("/teacher", teacherOnly)
		deps.StatsHandler.Register(teacher)
	}

	if deps.NotificationHandler != nil {
		notifications := authed.Group("/notifications")
		deps.NotificationHandler.Register(notifications)
	}

	if deps.UploadHandler != nil {
		uploads := authed.Group("/uploads", middleware.RateLimit("uploads", 10, time.Minute))
		deps.UploadHandler.Register(uploads)
	}
}
