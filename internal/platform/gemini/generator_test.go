package gemini

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/jobtrail/jobtrail-api/internal/config"
	"github.com/jobtrail/jobtrail-api/internal/generation"
)

// fakeModelClient returns queued responses/errors in order, repeating the
// last entry once the queue is exhausted.
type fakeModelClient struct {
	responses []*genai.GenerateContentResponse
	errs      []error

	calls   int
	prompts []string
}

func (f *fakeModelClient) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	idx := f.calls
	f.calls++

	for _, content := range contents {
		for _, part := range content.Parts {
			if part != nil {
				f.prompts = append(f.prompts, part.Text)
			}
		}
	}

	if idx >= len(f.errs) {
		idx = len(f.errs) - 1
	}
	return f.responses[idx], f.errs[idx]
}

// blockingModelClient never answers; it returns only when the per-call
// context is canceled, the way a stalled network round trip behaves.
type blockingModelClient struct {
	calls int
}

func (b *blockingModelClient) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	b.calls++
	<-ctx.Done()
	return nil, ctx.Err()
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{{Text: text}},
				},
			},
		},
	}
}

func newTestGenerator(t *testing.T, client modelClient, maxRetries int) *Generator {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen, err := newGenerator(logger, config.LLMConfig{
		GeminiAPIKey:      "test-key",
		ModelName:         "gemini-2.0-flash",
		MaxRetries:        maxRetries,
		RetryDelaySeconds: 1,
	}, client)
	require.NoError(t, err)
	return gen
}

const validAnalysisJSON = `{
	"keywords": ["Go", "PostgreSQL"],
	"missingKeywords": ["Kubernetes"],
	"skillsToEmphasize": ["API design"],
	"experienceToHighlight": ["Led backend migration"],
	"recommendedChanges": ["Quantify impact"],
	"matchScore": 78
}`

func TestGenerator_AnalyzeResume(t *testing.T) {
	t.Parallel()

	t.Run("parses a structured analysis", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{textResponse(validAnalysisJSON)},
			errs:      []error{nil},
		}
		gen := newTestGenerator(t, client, 0)

		result, err := gen.AnalyzeResume(context.Background(), "Go engineer resume", "Backend role")
		require.NoError(t, err)

		assert.Equal(t, 78, result.MatchScore)
		assert.Equal(t, []string{"Go", "PostgreSQL"}, result.Keywords)
		assert.Equal(t, []string{"Kubernetes"}, result.MissingKeywords)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("strips markdown code fences before parsing", func(t *testing.T) {
		t.Parallel()

		fenced := "```json\n" + validAnalysisJSON + "\n```"
		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{textResponse(fenced)},
			errs:      []error{nil},
		}
		gen := newTestGenerator(t, client, 0)

		result, err := gen.AnalyzeResume(context.Background(), "resume", "job")
		require.NoError(t, err)
		assert.Equal(t, 78, result.MatchScore)
	})

	t.Run("treats omitted list fields as empty lists", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{textResponse(`{"matchScore": 50}`)},
			errs:      []error{nil},
		}
		gen := newTestGenerator(t, client, 0)

		result, err := gen.AnalyzeResume(context.Background(), "resume", "job")
		require.NoError(t, err)

		assert.NotNil(t, result.Keywords)
		assert.Empty(t, result.Keywords)
		assert.NotNil(t, result.RecommendedChanges)
	})

	t.Run("rejects a response missing matchScore", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{textResponse(`{"keywords": ["Go"]}`)},
			errs:      []error{nil},
		}
		gen := newTestGenerator(t, client, 0)

		_, err := gen.AnalyzeResume(context.Background(), "resume", "job")
		assert.ErrorIs(t, err, generation.ErrMalformedResponse)
	})

	t.Run("rejects unparseable JSON", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{textResponse("Here is your analysis!")},
			errs:      []error{nil},
		}
		gen := newTestGenerator(t, client, 0)

		_, err := gen.AnalyzeResume(context.Background(), "resume", "job")
		assert.ErrorIs(t, err, generation.ErrMalformedResponse)
	})

	t.Run("rejects an out-of-range match score", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{textResponse(`{"matchScore": 150}`)},
			errs:      []error{nil},
		}
		gen := newTestGenerator(t, client, 0)

		_, err := gen.AnalyzeResume(context.Background(), "resume", "job")
		assert.ErrorIs(t, err, generation.ErrMalformedResponse)
	})

	t.Run("rejects empty inputs without calling the API", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{nil},
			errs:      []error{nil},
		}
		gen := newTestGenerator(t, client, 0)

		_, err := gen.AnalyzeResume(context.Background(), "   ", "job")
		assert.ErrorIs(t, err, generation.ErrEmptyInput)

		_, err = gen.AnalyzeResume(context.Background(), "resume", "")
		assert.ErrorIs(t, err, generation.ErrEmptyInput)

		assert.Zero(t, client.calls)
	})
}

func TestGenerator_GenerateCoverLetter(t *testing.T) {
	t.Parallel()

	validReq := generation.CoverLetterRequest{
		ResumeText:     "Go engineer resume",
		JobDescription: "Backend role",
		Company:        "Acme Corp",
		Position:       "Backend Engineer",
		ApplicantName:  "Jordan Applicant",
	}

	t.Run("returns the trimmed letter text", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{textResponse("\nDear Hiring Manager,\n\nI am writing...\n")},
			errs:      []error{nil},
		}
		gen := newTestGenerator(t, client, 0)

		letter, err := gen.GenerateCoverLetter(context.Background(), validReq)
		require.NoError(t, err)
		assert.Equal(t, "Dear Hiring Manager,\n\nI am writing...", letter)
	})

	t.Run("includes the applicant and company in the prompt", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{textResponse("Dear Hiring Manager,")},
			errs:      []error{nil},
		}
		gen := newTestGenerator(t, client, 0)

		_, err := gen.GenerateCoverLetter(context.Background(), validReq)
		require.NoError(t, err)

		require.NotEmpty(t, client.prompts)
		assert.Contains(t, client.prompts[0], "Jordan Applicant")
		assert.Contains(t, client.prompts[0], "Acme Corp")
	})

	t.Run("falls back to a generic applicant name", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{textResponse("Dear Hiring Manager,")},
			errs:      []error{nil},
		}
		gen := newTestGenerator(t, client, 0)

		req := validReq
		req.ApplicantName = "  "
		_, err := gen.GenerateCoverLetter(context.Background(), req)
		require.NoError(t, err)

		require.NotEmpty(t, client.prompts)
		assert.Contains(t, client.prompts[0], "the applicant")
	})

	t.Run("requires company and position", func(t *testing.T) {
		t.Parallel()

		gen := newTestGenerator(t, &fakeModelClient{
			responses: []*genai.GenerateContentResponse{nil},
			errs:      []error{nil},
		}, 0)

		req := validReq
		req.Company = ""
		_, err := gen.GenerateCoverLetter(context.Background(), req)
		assert.ErrorIs(t, err, generation.ErrEmptyInput)
	})

	t.Run("rejects a whitespace-only letter", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{textResponse("   \n  ")},
			errs:      []error{nil},
		}
		gen := newTestGenerator(t, client, 0)

		_, err := gen.GenerateCoverLetter(context.Background(), validReq)
		assert.ErrorIs(t, err, generation.ErrEmptyResponse)
	})
}

func TestGenerator_Retries(t *testing.T) {
	t.Parallel()

	t.Run("retries a transient failure and succeeds", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{
				nil,
				textResponse(validAnalysisJSON),
			},
			errs: []error{
				genai.APIError{Code: 503, Message: "overloaded"},
				nil,
			},
		}
		gen := newTestGenerator(t, client, 2)

		result, err := gen.AnalyzeResume(context.Background(), "resume", "job")
		require.NoError(t, err)
		assert.Equal(t, 78, result.MatchScore)
		assert.Equal(t, 2, client.calls)
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{nil},
			errs:      []error{genai.APIError{Code: 429, Message: "rate limited"}},
		}
		gen := newTestGenerator(t, client, 0)

		_, err := gen.AnalyzeResume(context.Background(), "resume", "job")
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("does not retry auth failures", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{nil},
			errs:      []error{genai.APIError{Code: 403, Message: "forbidden"}},
		}
		gen := newTestGenerator(t, client, 3)

		_, err := gen.AnalyzeResume(context.Background(), "resume", "job")
		assert.ErrorIs(t, err, generation.ErrAuthFailure)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("does not retry safety-blocked responses", func(t *testing.T) {
		t.Parallel()

		blocked := textResponse("ignored")
		blocked.Candidates[0].FinishReason = genai.FinishReasonSafety
		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{blocked},
			errs:      []error{nil},
		}
		gen := newTestGenerator(t, client, 3)

		_, err := gen.AnalyzeResume(context.Background(), "resume", "job")
		assert.ErrorIs(t, err, generation.ErrMalformedResponse)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("does not retry empty responses", func(t *testing.T) {
		t.Parallel()

		client := &fakeModelClient{
			responses: []*genai.GenerateContentResponse{{}},
			errs:      []error{nil},
		}
		gen := newTestGenerator(t, client, 3)

		_, err := gen.AnalyzeResume(context.Background(), "resume", "job")
		assert.ErrorIs(t, err, generation.ErrEmptyResponse)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("fails a hung call at the configured timeout", func(t *testing.T) {
		t.Parallel()

		client := &blockingModelClient{}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		gen, err := newGenerator(logger, config.LLMConfig{
			GeminiAPIKey:   "test-key",
			ModelName:      "gemini-2.0-flash",
			MaxRetries:     0,
			TimeoutSeconds: 1,
		}, client)
		require.NoError(t, err)

		start := time.Now()
		_, err = gen.AnalyzeResume(context.Background(), "resume", "job")
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
		assert.Less(t, time.Since(start), 10*time.Second)
		assert.Equal(t, 1, client.calls)
	})
}

func TestStripCodeFences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare JSON untouched", input: `{"matchScore": 1}`, want: `{"matchScore": 1}`},
		{name: "json fence", input: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "anonymous fence", input: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "surrounding whitespace", input: "  \n```json\n{}\n```\n", want: "{}"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, stripCodeFences(tc.input))
		})
	}
}
