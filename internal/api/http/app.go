package httpapi

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/agrosense/agrosense-backend/internal/apperrors"
	"github.com/agrosense/agrosense-backend/internal/logger"
)

const (
	ServiceName = "AgroSense AI Backend"
	Version     = "1.0.0"
)

// AppOptions configures the Fiber application.
type AppOptions struct {
	AllowedOrigins []string
	// RequestTimeout bounds reads and writes on the server side.
	RequestTimeout time.Duration
}

// NewApp builds the Fiber app with the shared middleware stack and error envelope.
// Routes are added by RegisterRoutes; NotFound must be registered last.
func NewApp(opts AppOptions) *fiber.App {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:               "agrosense-backend",
		DisableStartupMessage: true,
		ReadTimeout:           timeout,
		WriteTimeout:          timeout,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(requestLogger())
	origins := normalizeOrigins(opts.AllowedOrigins)
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowCredentials: !slices.Contains(origins, "*"), // not allowed with a wildcard origin
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
	}))

	return app
}

// errorHandler renders every handler failure as {success:false, error}.
func errorHandler(c *fiber.Ctx, err error) error {
	log := logger.GetLogger()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"error":   fe.Message,
		})
	}

	appErr := apperrors.From(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = fiber.StatusInternalServerError
	}

	fields := []any{
		"path", c.Path(),
		"method", c.Method(),
		"status", status,
		"error_type", appErr.Type,
		"request_id", requestID(c),
	}
	if appErr.Detail != "" {
		fields = append(fields, "error_detail", appErr.Detail)
	}
	if status >= fiber.StatusInternalServerError {
		log.Errorw(appErr.Message, fields...)
	} else {
		log.Warnw(appErr.Message, fields...)
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   appErr.Message,
	})
}

// requestLogger emits one structured line per request.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			// The error handler has not run yet; report the status it will set.
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(chainErr, &fe) {
				status = fe.Code
			} else if appErr := apperrors.From(chainErr); appErr.HTTPStatus != 0 {
				status = appErr.HTTPStatus
			}
		}

		logger.GetLogger().Infow("HTTP request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
			"ip", c.IP(),
			"request_id", requestID(c))
		return chainErr
	}
}

// NotFound answers unmatched routes.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":   "Route not found",
		"path":    c.OriginalURL(),
		"message": fmt.Sprintf("Cannot %s %s", c.Method(), c.Path()),
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// normalizeOrigins drops trailing slashes, which never match an Origin header.
func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		out = append(out, "*")
	}
	return out
}
