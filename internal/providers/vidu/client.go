package vidu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
)

// Options controls how the WaveSpeed Vidu client is configured. PollInterval
// and PollMaxAttempts are exposed so tests can shrink the polling budget.
type Options struct {
	APIKey          string
	BaseURL         string
	HTTPClient      *http.Client
	Logger          *infra.Logger
	PollInterval    time.Duration
	PollMaxAttempts int
}

// Client submits image-to-video jobs to WaveSpeed Vidu Q3 and polls them to a
// terminal state. It holds only static configuration and is safe to share
// across concurrent requests.
type Client struct {
	apiKey          string
	baseURL         string
	httpClient      *http.Client
	logger          *infra.Logger
	pollInterval    time.Duration
	pollMaxAttempts int
}

// GenerateRequest carries the final prompt plus the request flags that shape
// the enhanced prompt and submission payload.
type GenerateRequest struct {
	Prompt    string
	Image     string
	VideoType domain.VideoType
	Duration  int
	IsMusic   bool
	IsModel   bool
}

type submitPayload struct {
	Prompt            string `json:"prompt"`
	Image             string `json:"image"`
	Duration          int    `json:"duration"`
	Resolution        string `json:"resolution"`
	MovementAmplitude string `json:"movement_amplitude"`
	GenerateAudio     bool   `json:"generate_audio"`
	EnhancePrompt     bool   `json:"enhance_prompt"`
}

// jobPayload is the vendor job record. The service has shipped several
// response shapes; outputs may be a list or a scalar, and url/video_url exist
// as top-level fallbacks.
type jobPayload struct {
	ID       string          `json:"id"`
	Status   string          `json:"status"`
	Outputs  json.RawMessage `json:"outputs"`
	Output   json.RawMessage `json:"output"`
	URL      string          `json:"url"`
	VideoURL string          `json:"video_url"`
	Error    string          `json:"error"`
	URLs     struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// jobEnvelope tolerates both the bare payload and the {"data": {...}} wrapper.
type jobEnvelope struct {
	jobPayload
	Data *jobPayload `json:"data"`
}

func (e *jobEnvelope) payload() *jobPayload {
	if e.Data != nil {
		return e.Data
	}
	return &e.jobPayload
}

// NewClient constructs a Vidu client with sane defaults. Callers may provide
// a nil HTTP client; a reusable one with a generous timeout will be created.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("vidu: api key is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.wavespeed.ai/api/v3"
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	maxAttempts := opts.PollMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 300
	}

	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:          strings.TrimSpace(opts.APIKey),
		baseURL:         baseURL,
		httpClient:      httpClient,
		logger:          logger,
		pollInterval:    interval,
		pollMaxAttempts: maxAttempts,
	}, nil
}

// Generate assembles the enhanced prompt, submits the job, and polls it to a
// terminal state.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*domain.GenerationOutput, error) {
	start := time.Now()

	bg := ResolveBackground(req.Prompt)
	enhanced := BuildEnhancedPrompt(req, bg)

	c.logger.Info().
		Str("video_type", string(req.VideoType)).
		Bool("is_model", req.IsModel).
		Str("background", bg.Color).
		Msg("initiating video generation")
	c.logger.Debug().
		Int("prompt_chars", len(enhanced)).
		Str("prompt", enhanced).
		Msg("full enhanced prompt")

	generationID, pollURL, err := c.Submit(ctx, submitPayload{
		Prompt:            enhanced,
		Image:             req.Image,
		Duration:          req.Duration,
		Resolution:        "720p",
		MovementAmplitude: movementAmplitude(req.VideoType),
		GenerateAudio:     req.IsMusic,
		// The vendor's built-in prompt enhancer can strip or dilute the
		// explicit lock blocks, so it stays disabled.
		EnhancePrompt: false,
	})
	if err != nil {
		return nil, err
	}

	out, err := c.Poll(ctx, generationID, pollURL)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("generation_id", generationID).
		Dur("elapsed", time.Since(start)).
		Msg("video generation completed")

	return out, nil
}

// Submit sends one generation request. Any non-2xx response is fatal; a 2xx
// response lacking a job identifier means the service changed its response
// shape and is equally fatal.
func (c *Client) Submit(ctx context.Context, payload submitPayload) (generationID, pollURL string, err error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("vidu: marshal request: %w", err)
	}

	endpoint := c.baseURL + "/vidu/q3/image-to-video"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("vidu: create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", strings.TrimSpace(string(data))).
			Msg("vidu submission failed")
		return "", "", fmt.Errorf("%w: status %d: %s", domain.ErrSubmissionFailed, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var envelope jobEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", "", fmt.Errorf("%w: decode submission response: %v", domain.ErrProtocol, err)
	}

	job := envelope.payload()
	if job.ID == "" {
		return "", "", fmt.Errorf("%w: no generation id returned", domain.ErrProtocol)
	}

	c.logger.Info().Str("generation_id", job.ID).Msg("generation job submitted")
	return job.ID, job.URLs.Get, nil
}

// Poll queries the job at a fixed interval until it reaches a terminal state
// or the attempt ceiling is exhausted. Non-200 poll responses are treated as
// transient and consume an attempt like any other.
func (c *Client) Poll(ctx context.Context, generationID, pollURL string) (*domain.GenerationOutput, error) {
	url := pollURL
	if url == "" {
		url = c.baseURL + "/predictions/" + generationID
	}

	for attempt := 1; attempt <= c.pollMaxAttempts; attempt++ {
		job, ok := c.pollOnce(ctx, url)
		if !ok {
			if err := c.sleep(ctx); err != nil {
				return nil, err
			}
			continue
		}

		// Periodic progress without altering control flow.
		if attempt%15 == 0 {
			c.logger.Info().
				Str("generation_id", generationID).
				Int("attempt", attempt).
				Int("max_attempts", c.pollMaxAttempts).
				Str("status", job.Status).
				Msg("still polling generation")
		}

		switch job.Status {
		case "completed", "success":
			videoURL := resultURL(job)
			if videoURL == "" {
				return nil, fmt.Errorf("%w: job completed but no result url returned", domain.ErrProtocol)
			}
			return &domain.GenerationOutput{
				VideoURL:     videoURL,
				GenerationID: generationID,
				Status:       "success",
			}, nil
		case "failed", "canceled":
			errMsg := job.Error
			if errMsg == "" {
				errMsg = "unknown error"
			}
			return nil, fmt.Errorf("vidu: generation failed: %s", errMsg)
		}

		if err := c.sleep(ctx); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: no terminal state after %s", domain.ErrPollTimeout, time.Duration(c.pollMaxAttempts)*c.pollInterval)
}

// pollOnce performs a single poll request. A transport error or non-200
// status reports not-ok so the caller sleeps and retries.
func (c *Client) pollOnce(ctx context.Context, url string) (*jobPayload, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	var envelope jobEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, false
	}
	return envelope.payload(), true
}

func (c *Client) sleep(ctx context.Context) error {
	select {
	case <-time.After(c.pollInterval):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

// resultURL checks the tolerated response shapes for the generated video URL.
func resultURL(job *jobPayload) string {
	if url := firstURL(job.Outputs); url != "" {
		return url
	}
	if url := firstURL(job.Output); url != "" {
		return url
	}
	if job.URL != "" {
		return job.URL
	}
	return job.VideoURL
}

// firstURL decodes a field that may be a list of URLs or a single scalar.
func firstURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) > 0 {
			return list[0]
		}
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	return ""
}
