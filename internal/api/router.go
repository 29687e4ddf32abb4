package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/chamada/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/chamada/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/chamada/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/chamada/internal/audit"
	"github.com/saturnino-fabrica-de-software/chamada/internal/ws"
)

// Pipeline is the recognition pipeline as used by the HTTP layer
type Pipeline interface {
	handler.FramePipeline
	handler.SignatureSource
}

type Dependencies struct {
	DB         handler.Pinger
	Enrollment handler.EnrollmentService
	Pipeline   Pipeline
	Attendance handler.AttendanceLister
	Hub        *ws.Hub
	Audit      audit.Logger
	// Detector is optional; leave nil to disable image uploads
	Detector handler.FaceDetector
	// EnrollRateLimit is the number of enrollment requests per minute per client IP
	EnrollRateLimit int
	Version         string
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(logger),
		AppName:               "Chamada API",
		DisableStartupMessage: true,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	sw := docs.NewSwagger(r.deps.Version)
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	healthHandler := handler.NewHealthHandler(r.deps.DB, r.deps.Version)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	v1 := r.app.Group("/v1")

	frameHandler := handler.NewFrameHandler(r.deps.Pipeline, r.deps.Detector, r.logger)
	v1.Post("/frames", frameHandler.Submit)
	v1.Post("/frames/image", frameHandler.SubmitImage)
	v1.Get("/overlay", frameHandler.Overlay)

	var publisher handler.EnrollmentPublisher
	if r.deps.Hub != nil {
		publisher = r.deps.Hub
	}

	r.rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Max:    r.deps.EnrollRateLimit,
		Window: time.Minute,
	})

	enrollmentHandler := handler.NewEnrollmentHandler(r.deps.Enrollment, r.deps.Pipeline, publisher, r.deps.Audit, r.logger)
	v1.Post("/enrollments", r.rateLimiter.Handler(), enrollmentHandler.Enroll)
	v1.Get("/enrollments", enrollmentHandler.List)

	attendanceHandler := handler.NewAttendanceHandler(r.deps.Attendance, r.logger)
	v1.Get("/attendance", attendanceHandler.List)

	if r.deps.Hub != nil {
		v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.deps.Hub))
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (r *Router) Shutdown() error {
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.Shutdown()
}
