// Package assistant relays farmer questions to the generative model and
// shapes the replies.
package assistant

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/agrosense/agrosense-backend/internal/apperrors"
	"github.com/agrosense/agrosense-backend/internal/common"
	"github.com/agrosense/agrosense-backend/internal/logger"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

const (
	DefaultLanguage = "English"
	DefaultCropType = "Unknown"
	// chatCrop is the crop name used for free-form voice questions.
	chatCrop = "general"

	msgRateLimited = "Rate limit exceeded. Please try again in a minute."
	msgAuthFailed  = "AI service is not configured correctly. Please check the Gemini API key."
	msgUpstream    = "Failed to get a response from the AI service. Please try again."
	msgParseFailed = "Failed to parse AI response"
)

var (
	adviceOptions   = GenerateOptions{Temperature: 0.8, MaxOutputTokens: 8192}
	analysisOptions = GenerateOptions{Temperature: 0.8, MaxOutputTokens: 3072}

	// jsonObject spans the first '{' to the last '}' of a reply.
	jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)
)

// Gate delays the caller until the next model call is allowed.
type Gate interface {
	Wait() time.Duration
}

// Assistant builds prompts, passes every model call through the shared gate
// and maps model failures onto the error taxonomy.
type Assistant struct {
	gen  Generator
	gate Gate
}

func New(gen Generator, gate Gate) *Assistant {
	return &Assistant{gen: gen, gate: gate}
}

// AnalysisRequest describes a crop the farmer wants diagnosed.
type AnalysisRequest struct {
	ImageDescription string
	CropType         string
	CustomQuery      string
}

// Analysis is the structured diagnosis the model is asked to return.
type Analysis struct {
	CropName         string     `json:"cropName"`
	DiseaseName      string     `json:"diseaseName"`
	Severity         string     `json:"severity"`
	PersonalMessage  string     `json:"personalMessage"`
	Cause            string     `json:"cause"`
	Treatment        string     `json:"treatment"`
	Prevention       string     `json:"prevention"`
	AdditionalAdvice string     `json:"additionalAdvice"`
	Confidence       Confidence `json:"confidence"`
}

// Confidence accepts a JSON number or a numeric string such as "92" or "92%".
// Anything else ("high", "85-99") leaves it at zero so the diagnosis survives.
type Confidence float64

func (c *Confidence) UnmarshalJSON(data []byte) error {
	*c = 0
	raw := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(data)), `"`))
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	if v, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		*c = Confidence(v)
	}
	return nil
}

// CropAdvice asks for conversational advice about a crop problem, replying in
// language (English when empty).
func (a *Assistant) CropAdvice(ctx context.Context, crop, problem, language string) (string, error) {
	language = common.FirstNonEmpty(language, DefaultLanguage)

	prompt, err := render("crop_advice.tmpl", map[string]string{
		"Crop":     crop,
		"Problem":  problem,
		"Language": language,
	})
	if err != nil {
		return "", err
	}

	text, err := a.generate(ctx, "crop-advice", prompt, adviceOptions)
	if err != nil {
		return "", err
	}
	return text, nil
}

// Chat answers a free-form question as general crop advice.
func (a *Assistant) Chat(ctx context.Context, text, language string) (string, error) {
	return a.CropAdvice(ctx, chatCrop, text, language)
}

// AnalyzeCrop asks for a structured diagnosis. Replies without a JSON object,
// or with one that does not decode, fail with UPSTREAM_PARSE.
func (a *Assistant) AnalyzeCrop(ctx context.Context, req AnalysisRequest) (*Analysis, error) {
	prompt, err := render("analyze_crop.tmpl", AnalysisRequest{
		ImageDescription: req.ImageDescription,
		CropType:         common.FirstNonEmpty(req.CropType, DefaultCropType),
		CustomQuery:      strings.TrimSpace(req.CustomQuery),
	})
	if err != nil {
		return nil, err
	}

	text, err := a.generate(ctx, "analyze-crop", prompt, analysisOptions)
	if err != nil {
		return nil, err
	}

	return parseAnalysis(text)
}

func parseAnalysis(text string) (*Analysis, error) {
	match := jsonObject.FindString(text)
	if match == "" {
		return nil, apperrors.ParseFailed(msgParseFailed, errors.New("no JSON object in model reply"))
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(match), &analysis); err != nil {
		return nil, apperrors.ParseFailed(msgParseFailed, err)
	}
	return &analysis, nil
}

func (a *Assistant) generate(ctx context.Context, kind, prompt string, opts GenerateOptions) (string, error) {
	log := logger.GetLogger()

	if waited := a.gate.Wait(); waited > 0 {
		log.Debugw("AI call delayed by rate gate", "kind", kind, "waited", waited)
	}

	start := time.Now()
	text, err := a.gen.Generate(ctx, prompt, opts)
	if err != nil {
		mapped := classify(err)
		log.Errorw("AI call failed", "kind", kind, "type", mapped.Type, "error", err)
		return "", mapped
	}

	log.Infow("AI call completed", "kind", kind, "latency", time.Since(start), "chars", len(text))
	return text, nil
}

// classify maps SDK and transport errors onto the taxonomy. The SDK does not
// expose typed quota errors for every path, so the message is inspected too.
func classify(err error) *apperrors.AppError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429:
			return apperrors.RateLimited(msgRateLimited, err)
		case 401, 403:
			return apperrors.AuthFailed(msgAuthFailed, err)
		}
	}

	msg := err.Error()
	switch {
	case common.HasAnyFold(msg, "429", "quota", "RESOURCE_EXHAUSTED"):
		return apperrors.RateLimited(msgRateLimited, err)
	case common.HasAnyFold(msg, "API key", "PERMISSION_DENIED", "UNAUTHENTICATED"):
		return apperrors.AuthFailed(msgAuthFailed, err)
	default:
		return apperrors.Upstream(msgUpstream, err)
	}
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
