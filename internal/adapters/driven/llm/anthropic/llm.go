// Package anthropic provides a Generator adapter using the Anthropic Messages API.
package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.Generator = (*Generator)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-sonnet-4-5"
	DefaultTimeout = 5 * time.Minute

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"

	// recordTool is the forced tool whose input carries the structured result.
	recordTool = "record_analysis"

	structuredMaxTokens = 8192
	chatMaxTokens       = 4096

	// maxEventSize bounds a single SSE line.
	maxEventSize = 1 << 20
)

// ErrAPIKeyRequired is returned when no API key is configured.
var ErrAPIKeyRequired = errors.New("anthropic: API key is required")

// Config holds configuration for the Anthropic generator.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-sonnet-4-5).
	Model string

	// Timeout bounds a whole request, including a streamed body (default: 5m).
	Timeout time.Duration
}

// Generator talks to the Anthropic Messages API.
type Generator struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model       string      `json:"model"`
	Messages    []message   `json:"messages"`
	MaxTokens   int         `json:"max_tokens"`
	System      string      `json:"system,omitempty"`
	Temperature *float64    `json:"temperature,omitempty"`
	Stream      bool        `json:"stream,omitempty"`
	Tools       []tool      `json:"tools,omitempty"`
	ToolChoice  *toolChoice `json:"tool_choice,omitempty"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string        `json:"type"`
	Text   string        `json:"text,omitempty"`
	Source *binarySource `json:"source,omitempty"`
}

type binarySource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

type toolChoice struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type  string          `json:"type"`
		Text  string          `json:"text"`
		Name  string          `json:"name"`
		Input json.RawMessage `json:"input"`
	} `json:"content"`
	StopReason string    `json:"stop_reason"`
	Error      *apiError `json:"error,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// streamEvent is the data payload of one server-sent event.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error *apiError `json:"error,omitempty"`
}

// NewGenerator creates a new Anthropic generator.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Generator{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// GenerateStructured forces a single tool call whose input schema is the
// requested schema, and returns the tool input as JSON.
func (g *Generator) GenerateStructured(ctx context.Context, req driven.StructuredRequest) (string, error) {
	if req.Schema == nil {
		return "", fmt.Errorf("anthropic: schema is required")
	}

	content := []contentBlock{}
	if req.Document != nil {
		content = append(content, documentBlock(req.Document))
	}
	content = append(content, contentBlock{Type: "text", Text: req.Instruction})

	temperature := req.Temperature
	body := messagesRequest{
		Model:       g.model,
		Messages:    []message{{Role: "user", Content: content}},
		MaxTokens:   structuredMaxTokens,
		Temperature: &temperature,
		Tools: []tool{{
			Name:        recordTool,
			Description: "Record the structured analysis of the document.",
			InputSchema: jsonSchema(req.Schema),
		}},
		ToolChoice: &toolChoice{Type: "tool", Name: recordTool},
	}

	resp, err := g.post(ctx, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, data)
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(data, &msgResp); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}
	if msgResp.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", msgResp.Error.Message)
	}

	for _, block := range msgResp.Content {
		if block.Type == "tool_use" && block.Name == recordTool {
			return string(block.Input), nil
		}
	}
	return "", fmt.Errorf("anthropic: no %s tool call in response (stop reason %q)", recordTool, msgResp.StopReason)
}

// StreamChat streams a reply as server-sent events.
func (g *Generator) StreamChat(ctx context.Context, req driven.ChatRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		body := messagesRequest{
			Model:       g.model,
			Messages:    chatMessages(req),
			MaxTokens:   chatMaxTokens,
			System:      req.SystemInstruction,
			Temperature: req.Temperature,
			Stream:      true,
		}

		resp, err := g.post(ctx, body)
		if err != nil {
			yield("", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			data, _ := io.ReadAll(resp.Body)
			yield("", statusError(resp.StatusCode, data))
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
		for scanner.Scan() {
			line := scanner.Text()
			payload, ok := strings.CutPrefix(line, "data:")
			if !ok {
				continue
			}

			var event streamEvent
			if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &event); err != nil {
				yield("", fmt.Errorf("anthropic: decode event: %w", err))
				return
			}

			switch event.Type {
			case "content_block_delta":
				if event.Delta.Type != "text_delta" || event.Delta.Text == "" {
					continue
				}
				if !yield(event.Delta.Text, nil) {
					return
				}
			case "error":
				msg := "unknown error"
				if event.Error != nil {
					msg = event.Error.Message
				}
				yield("", fmt.Errorf("anthropic stream error: %s", msg))
				return
			case "message_stop":
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", fmt.Errorf("anthropic: read stream: %w", err))
			return
		}
		yield("", fmt.Errorf("anthropic: %w", io.ErrUnexpectedEOF))
	}
}

// ModelName returns the name of the model being used.
func (g *Generator) ModelName() string {
	return g.model
}

// Ping validates the service is reachable by checking the /v1/models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (g *Generator) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("anthropic: failed to create ping request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("anthropic: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return statusError(resp.StatusCode, body)
	}
	return nil
}

// Close releases resources.
func (g *Generator) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

func (g *Generator) post(ctx context.Context, body messagesRequest) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("anthropic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("anthropic: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("anthropic: send request: %w", err)
	}
	return resp, nil
}

func (g *Generator) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", g.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
}

// statusError prefers the API's own error message over the raw body.
func statusError(status int, body []byte) error {
	var envelope struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return fmt.Errorf("anthropic error (status %d): %s", status, envelope.Error.Message)
	}
	return fmt.Errorf("anthropic error (status %d): %s", status, strings.TrimSpace(string(body)))
}

// chatMessages converts the history plus the next message. Consecutive turns
// never share a role, so they map one to one.
func chatMessages(req driven.ChatRequest) []message {
	out := make([]message, 0, len(req.History)+1)
	for _, turn := range req.History {
		var content []contentBlock
		if turn.Document != nil {
			content = append(content, documentBlock(turn.Document))
		}
		content = append(content, contentBlock{Type: "text", Text: turn.Text})
		out = append(out, message{Role: role(turn.Role), Content: content})
	}
	return append(out, message{
		Role:    "user",
		Content: []contentBlock{{Type: "text", Text: req.Message}},
	})
}

func role(r domain.Role) string {
	if r == domain.RoleAssistant {
		return "assistant"
	}
	return "user"
}

// documentBlock inlines a payload as base64. Images use an image block,
// everything else a document block.
func documentBlock(doc *domain.DocumentPayload) contentBlock {
	blockType := "document"
	if strings.HasPrefix(doc.MediaType, "image/") {
		blockType = "image"
	}
	return contentBlock{
		Type: blockType,
		Source: &binarySource{
			Type:      "base64",
			MediaType: doc.MediaType,
			Data:      base64.StdEncoding.EncodeToString(doc.Content),
		},
	}
}

// jsonSchema renders a schema node as JSON Schema.
func jsonSchema(s *domain.Schema) map[string]any {
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = jsonSchema(prop)
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = append([]string(nil), s.Required...)
	}
	if s.Items != nil {
		out["items"] = jsonSchema(s.Items)
	}
	return out
}
