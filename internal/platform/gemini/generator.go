package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/jobtrail/jobtrail-api/internal/config"
	"github.com/jobtrail/jobtrail-api/internal/domain"
	"github.com/jobtrail/jobtrail-api/internal/generation"
)

// modelClient is the slice of the genai client the generator uses. It exists
// so tests can substitute a fake without network access.
type modelClient interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		cfg *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Generator implements generation.Generator against the Gemini API.
type Generator struct {
	logger *slog.Logger
	config config.LLMConfig

	analysisPrompt    *template.Template
	coverLetterPrompt *template.Template

	client modelClient
	model  string
}

// compile-time interface check
var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator backed by a real Gemini client. The
// context is used only for client initialization.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, cfg, client.Models)
}

// newGenerator wires a Generator around any modelClient. Tests use this to
// inject a fake client.
func newGenerator(logger *slog.Logger, cfg config.LLMConfig, client modelClient) (*Generator, error) {
	analysisTmpl, err := template.New("analysis").Parse(analysisPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse analysis prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	coverTmpl, err := template.New("cover_letter").Parse(coverLetterPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse cover letter prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:            logger.With("component", "gemini_generator"),
		config:            cfg,
		analysisPrompt:    analysisTmpl,
		coverLetterPrompt: coverTmpl,
		client:            client,
		model:             cfg.ModelName,
	}, nil
}

// AnalyzeResume compares the resume text against the job description and
// returns a validated structured analysis.
func (g *Generator) AnalyzeResume(
	ctx context.Context,
	resumeText, jobDescription string,
) (*domain.AnalysisResult, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("%w: %v", generation.ErrEmptyInput, ErrEmptyResume)
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("%w: %v", generation.ErrEmptyInput, ErrEmptyJobDescription)
	}

	prompt, err := executeTemplate(g.analysisPrompt, analysisPromptData{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
	})
	if err != nil {
		return nil, err
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(analysisTemperature),
		MaxOutputTokens:  analysisMaxOutputTokens,
		ResponseMIMEType: "application/json",
	}

	text, err := g.callWithRetry(ctx, prompt, genCfg)
	if err != nil {
		return nil, err
	}

	var schema analysisSchema
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &schema); err != nil {
		return nil, fmt.Errorf("%w: failed to parse analysis JSON: %v",
			generation.ErrMalformedResponse, err)
	}
	if schema.MatchScore == nil {
		return nil, fmt.Errorf("%w: analysis response missing matchScore",
			generation.ErrMalformedResponse)
	}

	result := &domain.AnalysisResult{
		Keywords:              emptyIfNil(schema.Keywords),
		MissingKeywords:       emptyIfNil(schema.MissingKeywords),
		SkillsToEmphasize:     emptyIfNil(schema.SkillsToEmphasize),
		ExperienceToHighlight: emptyIfNil(schema.ExperienceToHighlight),
		RecommendedChanges:    emptyIfNil(schema.RecommendedChanges),
		MatchScore:            *schema.MatchScore,
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrMalformedResponse, err)
	}

	g.logger.InfoContext(ctx, "Resume analysis generated",
		"match_score", result.MatchScore,
		"keyword_count", len(result.Keywords),
		"missing_keyword_count", len(result.MissingKeywords))

	return result, nil
}

// GenerateCoverLetter drafts a cover letter body for the given request.
func (g *Generator) GenerateCoverLetter(
	ctx context.Context,
	req generation.CoverLetterRequest,
) (string, error) {
	if strings.TrimSpace(req.ResumeText) == "" {
		return "", fmt.Errorf("%w: %v", generation.ErrEmptyInput, ErrEmptyResume)
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return "", fmt.Errorf("%w: %v", generation.ErrEmptyInput, ErrEmptyJobDescription)
	}
	if strings.TrimSpace(req.Company) == "" || strings.TrimSpace(req.Position) == "" {
		return "", fmt.Errorf("%w: company and position are required", generation.ErrEmptyInput)
	}

	applicant := req.ApplicantName
	if strings.TrimSpace(applicant) == "" {
		applicant = "the applicant"
	}

	prompt, err := executeTemplate(g.coverLetterPrompt, coverLetterPromptData{
		ResumeText:     req.ResumeText,
		JobDescription: req.JobDescription,
		Company:        req.Company,
		Position:       req.Position,
		ApplicantName:  applicant,
	})
	if err != nil {
		return "", err
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(coverLetterTemperature),
		MaxOutputTokens: coverLetterMaxOutputTokens,
	}

	text, err := g.callWithRetry(ctx, prompt, genCfg)
	if err != nil {
		return "", err
	}

	letter := strings.TrimSpace(text)
	if letter == "" {
		return "", generation.ErrEmptyResponse
	}

	g.logger.InfoContext(ctx, "Cover letter generated",
		"company", req.Company,
		"position", req.Position,
		"letter_length", len(letter))

	return letter, nil
}

// defaultCallTimeout bounds a single API round trip when the config carries
// no usable timeout.
const defaultCallTimeout = 60 * time.Second

// callWithRetry calls the Gemini API with exponential backoff and jitter.
// Each attempt is bounded by config.TimeoutSeconds so a hung round trip
// fails the attempt instead of blocking its worker. Transient failures are
// retried up to config.MaxRetries times; permanent errors (auth failures,
// empty or blocked responses) return immediately.
func (g *Generator) callWithRetry(
	ctx context.Context,
	prompt string,
	genCfg *genai.GenerateContentConfig,
) (string, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "Invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	baseDelaySeconds := g.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	callTimeout := time.Duration(g.config.TimeoutSeconds) * time.Second
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		g.logger.DebugContext(ctx, "Calling Gemini API",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1,
			"model", g.model)

		attemptCtx, cancel := context.WithTimeout(ctx, callTimeout)
		resp, err := g.client.GenerateContent(attemptCtx, g.model, genai.Text(prompt), genCfg)
		cancel()
		if err == nil {
			text, extractErr := extractText(resp)
			if extractErr == nil {
				return text, nil
			}
			// Malformed or empty responses don't improve with retries.
			return "", extractErr
		}

		mapped := mapAPIError(err)
		if errors.Is(mapped, generation.ErrAuthFailure) {
			return "", mapped
		}
		lastErr = mapped

		g.logger.WarnContext(ctx, "Gemini API call failed",
			"attempt", attempt+1,
			"error", err)

		if attempt >= maxRetries {
			break
		}

		// delay = baseDelay * 2^attempt * jitter in [0.5, 1.0)
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}

	return "", fmt.Errorf("%w: exceeded %d attempts: %v",
		generation.ErrTransientFailure, maxRetries+1, lastErr)
}

// mapAPIError converts a genai error into one of the generation package's
// sentinel errors.
func mapAPIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429:
			return fmt.Errorf("%w: %v", generation.ErrRateLimited, err)
		case 401, 403:
			return fmt.Errorf("%w: %v", generation.ErrAuthFailure, err)
		}
	}
	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}

// extractText pulls the concatenated text parts from the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", generation.ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response blocked by safety filters",
			generation.ErrMalformedResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", generation.ErrEmptyResponse
	}
	return sb.String(), nil
}

func executeTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// stripCodeFences removes a markdown code fence wrapper if the model added
// one despite the JSON response MIME type.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
