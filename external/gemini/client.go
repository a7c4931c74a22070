package gemini

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/matchday-predictor/internal/domain/prediction"
	"github.com/riskibarqy/matchday-predictor/internal/platform/logging"
)

// Generation parameters are pinned so repeated runs over the same snapshot
// stay as close to deterministic as the model allows.
const (
	genTemperature     = 0.7
	genTopK            = 1
	genTopP            = 1
	genMaxOutputTokens = 2048
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

var (
	// ErrInvalidResponseFormat marks a model reply that carries no usable text.
	ErrInvalidResponseFormat = crerr.New("model returned no usable response text")
	// ErrSchemaViolation marks model text that is not the prediction JSON asked for.
	ErrSchemaViolation = crerr.New("model response violates the prediction schema")
)

var keyParamRegex = regexp.MustCompile(`key=[^&\s"']+`)

// ClientConfig carries the settings for the Gemini client.
type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client turns a prediction prompt into structured predictions through the
// Gemini generateContent endpoint. The API key travels as a query parameter,
// so URLs and transport errors are redacted before they reach logs.
type Client struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	model     string
	logger    *logging.Logger
	validator *validator.Validate
}

// NewClient builds a client with sane defaults for anything unset.
func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 60 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &Client{
		client:    httpClient,
		baseURL:   baseURL,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		model:     model,
		logger:    logger,
		validator: validator.New(),
	}
}

// Predict sends the prompt and decodes the model's answer into predictions.
// Failures that come from the model talking back in the wrong shape wrap
// ErrInvalidResponseFormat or ErrSchemaViolation so callers can tell them
// apart from transport trouble.
func (c *Client) Predict(ctx context.Context, prompt string) (prediction.Response, error) {
	if strings.TrimSpace(prompt) == "" {
		return prediction.Response{}, crerr.New("prompt is required")
	}

	baseURL, err := validateHTTPBaseURL(c.baseURL)
	if err != nil {
		return prediction.Response{}, crerr.Wrap(err, "invalid gemini base URL")
	}

	payload := generateContentRequest{
		Contents: []requestContent{
			{Parts: []requestPart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     genTemperature,
			TopK:            genTopK,
			TopP:            genTopP,
			MaxOutputTokens: genMaxOutputTokens,
		},
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return prediction.Response{}, crerr.Wrap(err, "marshal generate request")
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", baseURL, c.model)
	values := url.Values{}
	values.Set("key", c.apiKey)
	callURL := endpoint + "?" + values.Encode()

	bodyText := truncateForLog(string(body), 4096)
	curlPreview := buildGeminiCurlPreview(endpoint, bodyText)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("gemini.endpoint", endpoint),
			attribute.String("gemini.model", c.model),
			attribute.String("gemini.request_body", bodyText),
			attribute.String("gemini.request_curl_preview", curlPreview),
		)
	}
	c.logger.DebugContext(ctx, "gemini generate request", "model", c.model, "prompt_bytes", len(prompt), "curl_preview", curlPreview)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callURL, strings.NewReader(string(body)))
	if err != nil {
		return prediction.Response{}, crerr.Wrap(err, "create gemini request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return prediction.Response{}, fmt.Errorf("call gemini model=%s: %s", c.model, sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
	if err != nil {
		return prediction.Response{}, fmt.Errorf("read gemini response: %v", err)
	}

	if resp.StatusCode/100 != 2 {
		return prediction.Response{}, fmt.Errorf(
			"call gemini model=%s status=%d body=%s",
			c.model,
			resp.StatusCode,
			sanitizeSensitiveText(truncateForLog(strings.TrimSpace(string(raw)), 4096), c.apiKey),
		)
	}

	var envelope generateContentResponse
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return prediction.Response{}, fmt.Errorf("%w: decode gemini payload: %v", ErrInvalidResponseFormat, err)
	}

	text, err := extractCandidateText(envelope)
	if err != nil {
		return prediction.Response{}, err
	}

	response, err := c.parsePredictions(ctx, text)
	if err != nil {
		return prediction.Response{}, err
	}

	c.logger.InfoContext(ctx, "gemini predictions parsed", "model", c.model, "predictions", len(response.Predictions))
	return response, nil
}

func (c *Client) parsePredictions(ctx context.Context, text string) (prediction.Response, error) {
	cleaned := stripCodeFence(text)

	var out prediction.Response
	if err := sonic.UnmarshalString(cleaned, &out); err != nil {
		return prediction.Response{}, fmt.Errorf("%w: parse prediction JSON: %v", ErrSchemaViolation, err)
	}
	if err := c.validator.StructCtx(ctx, out); err != nil {
		return prediction.Response{}, fmt.Errorf("%w: validation failed: %v", ErrSchemaViolation, err)
	}

	return out, nil
}

func extractCandidateText(envelope generateContentResponse) (string, error) {
	if len(envelope.Candidates) == 0 {
		if envelope.PromptFeedback != nil && strings.TrimSpace(envelope.PromptFeedback.BlockReason) != "" {
			return "", fmt.Errorf("%w: prompt blocked reason=%s", ErrInvalidResponseFormat, envelope.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates returned", ErrInvalidResponseFormat)
	}

	first := envelope.Candidates[0]
	var text string
	if len(first.Content.Parts) > 0 {
		// The model's answer is the first text part; later parts are not
		// part of the prediction payload.
		text = strings.TrimSpace(first.Content.Parts[0].Text)
	}
	if text == "" {
		reason := strings.TrimSpace(first.FinishReason)
		if reason != "" && !strings.EqualFold(reason, "STOP") {
			return "", fmt.Errorf("%w: candidate finished with reason=%s and no text", ErrInvalidResponseFormat, reason)
		}
		return "", fmt.Errorf("%w: candidate carries no text", ErrInvalidResponseFormat)
	}

	return text, nil
}

// stripCodeFence tolerates answers wrapped in markdown fences even though
// the prompt asks for bare JSON.
func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	cleaned = strings.TrimPrefix(cleaned, "```")
	if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
		cleaned = cleaned[idx+1:]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")

	return strings.TrimSpace(cleaned)
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildGeminiCurlPreview(endpoint, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(endpoint + "?key=***"))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	value = keyParamRegex.ReplaceAllString(value, "key=REDACTED")
	return value
}
