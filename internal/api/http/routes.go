package httpapi

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/agrosense/agrosense-backend/internal/assistant"
	"github.com/agrosense/agrosense-backend/internal/speech"
	"github.com/agrosense/agrosense-backend/internal/weather"
)

var validate = validator.New()

// WeatherReporter produces a live report for a location.
type WeatherReporter interface {
	Report(ctx context.Context, loc weather.Location, crop string) (*weather.Report, error)
}

// Advisor answers farmer questions through the language model.
type Advisor interface {
	CropAdvice(ctx context.Context, crop, problem, language string) (string, error)
	AnalyzeCrop(ctx context.Context, req assistant.AnalysisRequest) (*assistant.Analysis, error)
	Chat(ctx context.Context, text, language string) (string, error)
}

// ReportHistory serves stored watch-list reports.
type ReportHistory interface {
	LatestAll() []weather.Report
	GetLatest(loc weather.Location) (weather.Report, error)
	GetRange(loc weather.Location, from, to time.Time) ([]weather.Report, error)
}

// Handler holds the dependencies of the HTTP endpoints.
type Handler struct {
	weather   WeatherReporter
	advisor   Advisor
	history   ReportHistory
	startedAt time.Time
	now       func() time.Time
}

func NewHandler(reporter WeatherReporter, advisor Advisor, history ReportHistory) *Handler {
	return &Handler{
		weather:   reporter,
		advisor:   advisor,
		history:   history,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app, followed by the
// catch-all 404.
func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Get("/", h.root)

	api := app.Group("/api")
	api.Get("/health", h.health)

	ai := api.Group("/ai")
	ai.Post("/crop-advice", h.cropAdvice)
	ai.Post("/analyze-crop", h.analyzeCrop)

	w := api.Group("/weather")
	w.Get("/current", h.currentWeather)
	w.Get("/watch", h.watchLatest)
	w.Get("/watch/latest", h.watchLocation)
	w.Get("/watch/history", h.watchHistory)

	voice := api.Group("/voice")
	voice.Post("/chat", h.voiceChat)
	voice.Get("/voices", h.voices)

	app.Use(NotFound)
}

func (h *Handler) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   "🚜 AgroSense AI Backend is Running!",
		"status":    "online",
		"version":   Version,
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
		"endpoints": fiber.Map{
			"health":  "/api/health",
			"ai":      "/api/ai",
			"weather": "/api/weather",
			"voice":   "/api/voice",
		},
	})
}

func (h *Handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   ServiceName,
		"version":   Version,
		"uptime":    h.now().Sub(h.startedAt).Seconds(),
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *Handler) cropAdvice(c *fiber.Ctx) error {
	var req cropAdviceRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	advice, err := h.advisor.CropAdvice(c.UserContext(), req.Crop, req.Problem, req.Language)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"crop":     req.Crop,
		"problem":  req.Problem,
		"language": req.Language,
		"advice":   advice,
	})
}

func (h *Handler) analyzeCrop(c *fiber.Ctx) error {
	var req analyzeCropRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	analysis, err := h.advisor.AnalyzeCrop(c.UserContext(), assistant.AnalysisRequest{
		ImageDescription: req.ImageDescription,
		CropType:         req.CropType,
		CustomQuery:      req.customQuery(),
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"analysis": analysis,
	})
}

func (h *Handler) currentWeather(c *fiber.Ctx) error {
	q, err := parseWeatherQuery(c)
	if err != nil {
		return err
	}

	report, err := h.weather.Report(c.UserContext(), q.location(), q.Crop)
	if err != nil {
		return err
	}

	resp := fiber.Map{
		"success":      true,
		"weather":      report.Weather,
		"aiSuggestion": report.Advisory,
	}
	if report.CropAdvice != "" {
		resp["cropAdvice"] = report.CropAdvice
	}
	return c.JSON(resp)
}

func (h *Handler) watchLatest(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"reports": h.history.LatestAll(),
	})
}

func (h *Handler) watchLocation(c *fiber.Ctx) error {
	loc, err := watchedLocation(c)
	if err != nil {
		return err
	}

	report, err := h.history.GetLatest(loc)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"report":  report,
	})
}

func (h *Handler) watchHistory(c *fiber.Ctx) error {
	var req historyQuery
	if err := req.bind(c); err != nil {
		return err
	}

	loc := req.location()
	reports, err := h.history.GetRange(loc, req.From, req.To)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"location": loc,
		"from":     req.From,
		"to":       req.To,
		"reports":  reports,
	})
}

func (h *Handler) voiceChat(c *fiber.Ctx) error {
	var req voiceChatRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	reply, err := h.advisor.Chat(c.UserContext(), req.Text, req.Language)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"text":     reply,
		"audio":    speech.Synthesize(reply, req.Language),
		"language": req.Language,
	})
}

// voices returns the whole catalogue; the language query parameter is
// accepted for client compatibility only.
func (h *Handler) voices(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"voices":  speech.Voices(),
	})
}
