package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
)

// visionFallbackModel is substituted when an agent receives an image but the
// configured model name does not look vision-capable.
const visionFallbackModel = "gpt-4o"

var visionModelKeywords = []string{"gpt-4", "4o", "4.1", "vision"}

// Options controls how the agent executor is configured.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Executor runs exactly one language-model inference turn per call and parses
// the raw output into a schema-validated result. It holds only static
// configuration and is safe to share across concurrent requests. The executor
// never retries: retry policy belongs to the orchestration loop, not the
// transport layer.
type Executor struct {
	client openai.Client
	model  string
	logger *infra.Logger
}

// callSpec binds one agent identity: a fixed system prompt and the schema its
// output must satisfy. Specialized agents are configuration values built on
// this, not subtypes.
type callSpec struct {
	name         string
	systemPrompt string
	schema       map[string]any
}

// NewExecutor constructs the shared structured-call executor.
func NewExecutor(opts Options) (*Executor, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("agents: openai api key is required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gpt-4.1-nano"
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Executor{
		client: openai.NewClient(clientOpts...),
		model:  model,
		logger: logger,
	}, nil
}

// execute performs the single inference turn and returns the raw message
// content. Empty content, refusals and content filtering surface as the
// corresponding sentinel errors; nothing is swallowed.
func (e *Executor) execute(ctx context.Context, spec callSpec, input string, extra map[string]any, imageData string) (string, error) {
	model := e.model
	if imageData != "" && !visionCapable(model) {
		model = visionFallbackModel
	}

	e.logger.Info().
		Str("agent", spec.name).
		Str("model", model).
		Bool("vision", imageData != "").
		Msg("agent execution started")

	systemPrompt := spec.systemPrompt + "\n\nRequired JSON Schema:\n" + renderSchema(spec.schema)
	userText := formatUserInput(input, extra)

	var userMessage openai.ChatCompletionMessageParamUnion
	if imageData != "" {
		userMessage = openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			{
				OfText: &openai.ChatCompletionContentPartTextParam{Text: userText},
			},
			{
				OfImageURL: &openai.ChatCompletionContentPartImageParam{
					ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
						URL: imageDataURL(imageData),
					},
				},
			},
		})
	} else {
		userMessage = openai.UserMessage(userText)
	}

	params := openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			userMessage,
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	resp, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("agent %s: chat completion: %w", spec.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: agent %s received no choices", domain.ErrEmptyResponse, spec.name)
	}

	choice := resp.Choices[0]
	content := choice.Message.Content
	if content == "" {
		e.logger.Error().
			Str("agent", spec.name).
			Str("finish_reason", choice.FinishReason).
			Str("refusal", choice.Message.Refusal).
			Msg("agent received empty content")

		if choice.Message.Refusal != "" {
			return "", fmt.Errorf("%w: agent %s: %s", domain.ErrContentRejected, spec.name, choice.Message.Refusal)
		}
		if choice.FinishReason == "content_filter" {
			return "", fmt.Errorf("%w: agent %s: response filtered by content policy", domain.ErrContentRejected, spec.name)
		}
		return "", fmt.Errorf("%w: agent %s (finish reason: %s)", domain.ErrEmptyResponse, spec.name, choice.FinishReason)
	}

	e.logger.Info().
		Str("agent", spec.name).
		Int("response_chars", len(content)).
		Msg("agent raw response received")

	return content, nil
}

// run executes the spec and decodes the raw content into T. Outputs exposing
// a Validate method are validated (and normalized) before being returned;
// any parse or validation failure maps to domain.ErrValidationFailed.
func run[T any](ctx context.Context, e *Executor, spec callSpec, input string, extra map[string]any, imageData string) (*T, error) {
	raw, err := e.execute(ctx, spec, input, extra, imageData)
	if err != nil {
		return nil, err
	}

	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: agent %s returned no JSON payload", domain.ErrValidationFailed, spec.name)
	}

	out := new(T)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return nil, fmt.Errorf("%w: agent %s: %v", domain.ErrValidationFailed, spec.name, err)
	}
	if v, ok := any(out).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%w: agent %s: %v", domain.ErrValidationFailed, spec.name, err)
		}
	}

	e.logger.Info().Str("agent", spec.name).Msg("agent execution successful")
	return out, nil
}

func visionCapable(model string) bool {
	lower := strings.ToLower(model)
	for _, kw := range visionModelKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func imageDataURL(imageData string) string {
	if strings.HasPrefix(imageData, "http") || strings.HasPrefix(imageData, "data:") {
		return imageData
	}
	return "data:image/jpeg;base64," + imageData
}

// formatUserInput renders the input data and optional context mapping as the
// user message text.
func formatUserInput(input string, extra map[string]any) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Input: %s\n", input)
	if len(extra) > 0 {
		encoded, err := json.Marshal(extra)
		if err == nil {
			fmt.Fprintf(sb, "Context: %s\n", encoded)
		}
	}
	sb.WriteString("\nPlease provide your response in valid JSON format matching the required schema.")
	return sb.String()
}

// renderSchema embeds the machine-readable output shape into the system
// instruction so the model knows the exact JSON it must emit.
func renderSchema(schema map[string]any) string {
	encoded, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
