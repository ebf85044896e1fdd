package httpapi

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/agrosense/agrosense-backend/internal/apperrors"
	"github.com/agrosense/agrosense-backend/internal/assistant"
	"github.com/agrosense/agrosense-backend/internal/weather"
)

const defaultCountry = "IN"

// bodyRequest is a JSON request body with its own defaults and 400 message.
type bodyRequest interface {
	normalize()
	invalidMessage() string
}

// bindBody decodes and validates a JSON body. An empty body counts as {}.
func bindBody(c *fiber.Ctx, req bodyRequest) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return apperrors.Wrap(err, apperrors.ValidationError, "Invalid request body")
		}
	}
	req.normalize()

	if err := validate.Struct(req); err != nil {
		return apperrors.Wrap(err, apperrors.ValidationError, req.invalidMessage())
	}
	return nil
}

type cropAdviceRequest struct {
	Crop     string `json:"crop" validate:"required"`
	Problem  string `json:"problem" validate:"required"`
	Language string `json:"language"`
}

func (r *cropAdviceRequest) normalize() {
	r.Crop = strings.TrimSpace(r.Crop)
	r.Problem = strings.TrimSpace(r.Problem)
	r.Language = defaultString(r.Language, assistant.DefaultLanguage)
}

func (r *cropAdviceRequest) invalidMessage() string {
	return "Crop and problem are required"
}

type analyzeCropRequest struct {
	ImageDescription string  `json:"imageDescription" validate:"required"`
	CropType         string  `json:"cropType"`
	CustomQuery      *string `json:"customQuery"`
}

func (r *analyzeCropRequest) normalize() {
	r.ImageDescription = strings.TrimSpace(r.ImageDescription)
	r.CropType = defaultString(r.CropType, assistant.DefaultCropType)
}

func (r *analyzeCropRequest) invalidMessage() string {
	return "Image description is required"
}

func (r *analyzeCropRequest) customQuery() string {
	if r.CustomQuery == nil {
		return ""
	}
	return *r.CustomQuery
}

type voiceChatRequest struct {
	Text     string `json:"text" validate:"required"`
	Language string `json:"language"`
}

func (r *voiceChatRequest) normalize() {
	r.Text = strings.TrimSpace(r.Text)
	r.Language = defaultString(r.Language, assistant.DefaultLanguage)
}

func (r *voiceChatRequest) invalidMessage() string {
	return "Text input is required"
}

// weatherQuery holds the query parameters of /api/weather/current.
type weatherQuery struct {
	City    string
	Country string
	Lat     *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lon     *float64 `validate:"omitempty,gte=-180,lte=180"`
	Crop    string
}

func parseWeatherQuery(c *fiber.Ctx) (weatherQuery, error) {
	q := weatherQuery{
		City:    strings.TrimSpace(c.Query("city")),
		Country: defaultString(c.Query("country"), defaultCountry),
		Crop:    strings.TrimSpace(c.Query("crop")),
	}

	var err error
	if q.Lat, err = optionalFloat(c.Query("lat")); err != nil {
		return q, apperrors.Wrap(err, apperrors.ValidationError, "lat must be a number")
	}
	if q.Lon, err = optionalFloat(c.Query("lon")); err != nil {
		return q, apperrors.Wrap(err, apperrors.ValidationError, "lon must be a number")
	}
	if err := validate.Struct(q); err != nil {
		return q, apperrors.Wrap(err, apperrors.ValidationError, "Coordinates are out of range")
	}
	return q, nil
}

// location prefers coordinates when both are present.
func (q weatherQuery) location() weather.Location {
	loc := weather.Location{City: q.City, Country: q.Country}
	if q.Lat != nil && q.Lon != nil {
		loc.Lat = q.Lat
		loc.Lon = q.Lon
	}
	return loc
}

// historyQuery holds query parameters for the watch history endpoint.
type historyQuery struct {
	City    string    `validate:"required"`
	Country string    `validate:"required"`
	From    time.Time `validate:"required"`
	To      time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.City = strings.TrimSpace(c.Query("city"))
	h.Country = defaultString(c.Query("country"), defaultCountry)

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return apperrors.ValidationFailed("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ValidationError, err.Error())
	}
	to, err := parseTime(toStr)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ValidationError, err.Error())
	}
	h.From = from
	h.To = to

	if err := validate.Struct(h); err != nil {
		return apperrors.Wrap(err, apperrors.ValidationError, "city is required and to must not be before from")
	}
	return nil
}

// watchedLocation reads city and country for a single watch-list lookup.
func watchedLocation(c *fiber.Ctx) (weather.Location, error) {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		return weather.Location{}, apperrors.ValidationFailed("city is required")
	}
	return weather.Location{City: city, Country: defaultString(c.Query("country"), defaultCountry)}, nil
}

func (h *historyQuery) location() weather.Location {
	return weather.Location{City: h.City, Country: h.Country}
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}

func optionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func defaultString(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
