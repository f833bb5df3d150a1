package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/fitforge/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// example API call
// https://api.openai.com/v1/chat/completions

const DefaultBaseURL = "https://api.openai.com/v1"

var ErrEmptyCompletion = errors.New("empty completion response")

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		timeout:    timeout,
		httpClient: httpClient,
	}
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float32         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type CompleteJSONParams struct {
	SystemMessage string
	UserMessage   string
	Temperature   float32
	MaxTokens     int
}

// CompleteJSON sends a chat completion request in JSON mode and returns the
// raw content of the first choice. The content is NOT parsed here, callers
// own the validation of whatever the model returned.
func (c *Client) CompleteJSON(ctx context.Context, params CompleteJSONParams) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "openai.completeJSON")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("model", c.model))

	// the upstream has no deadline of its own, a stuck model call would
	// otherwise hold the request forever
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reqBody, err := json.Marshal(chatCompletionRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: params.SystemMessage},
			{Role: "user", Content: params.UserMessage},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    params.Temperature,
		MaxTokens:      params.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat completion request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat completion response: %w", err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBytes, &completion); err != nil {
		return "", fmt.Errorf("unmarshal chat completion response: %w", err)
	}

	if completion.Error != nil {
		span.SetStatus(codes.Error, completion.Error.Type)
		return "", fmt.Errorf("openai api error [%s]: %s", completion.Error.Type, completion.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai api status: %s", resp.Status)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}

	log.Tracef("openai completion received, %d bytes", len(respBytes))
	return completion.Choices[0].Message.Content, nil
}
