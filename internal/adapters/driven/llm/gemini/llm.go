// Package gemini provides a Generator adapter using the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"google.golang.org/genai"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.Generator = (*Generator)(nil)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrAPIKeyRequired is returned when no API key is configured.
var ErrAPIKeyRequired = errors.New("gemini: API key is required")

// Config holds configuration for the Gemini generator.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL overrides the API endpoint (default: the SDK's endpoint).
	BaseURL string

	// Model is the model to use (default: gemini-2.5-flash).
	Model string
}

// Generator talks to the Gemini API.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Gemini generator.
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Generator{
		client: client,
		model:  cfg.Model,
	}, nil
}

// GenerateStructured sends the document inline with the instruction and
// asks for JSON constrained to the schema.
func (g *Generator) GenerateStructured(ctx context.Context, req driven.StructuredRequest) (string, error) {
	if req.Schema == nil {
		return "", fmt.Errorf("gemini: schema is required")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, structuredContents(req), structuredConfig(req))
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	return resp.Text(), nil
}

// StreamChat replays the history and streams the reply to the next message.
func (g *Generator) StreamChat(ctx context.Context, req driven.ChatRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stream := g.client.Models.GenerateContentStream(ctx, g.model, chatContents(req), chatConfig(req))
		for resp, err := range stream {
			if err != nil {
				yield("", fmt.Errorf("gemini: stream: %w", err))
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// ModelName returns the name of the model being used.
func (g *Generator) ModelName() string {
	return g.model
}

// Ping validates the key by fetching the model metadata without running inference.
func (g *Generator) Ping(ctx context.Context) error {
	if _, err := g.client.Models.Get(ctx, g.model, nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (g *Generator) Close() error {
	// The SDK client holds no resources that need explicit cleanup
	return nil
}

func structuredContents(req driven.StructuredRequest) []*genai.Content {
	var parts []*genai.Part
	if req.Document != nil {
		parts = append(parts, documentPart(req.Document))
	}
	parts = append(parts, genai.NewPartFromText(req.Instruction))
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func structuredConfig(req driven.StructuredRequest) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(req.Temperature)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   toSchema(req.Schema),
	}
}

func chatContents(req driven.ChatRequest) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		var parts []*genai.Part
		if turn.Document != nil {
			parts = append(parts, documentPart(turn.Document))
		}
		parts = append(parts, genai.NewPartFromText(turn.Text))
		contents = append(contents, genai.NewContentFromParts(parts, role(turn.Role)))
	}
	return append(contents, genai.NewContentFromText(req.Message, genai.RoleUser))
}

func chatConfig(req driven.ChatRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	return cfg
}

func documentPart(doc *domain.DocumentPayload) *genai.Part {
	return genai.NewPartFromBytes(doc.Content, doc.MediaType)
}

func role(r domain.Role) genai.Role {
	if r == domain.RoleAssistant {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// toSchema converts a schema node into the SDK's OpenAPI subset.
func toSchema(s *domain.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        schemaType(s.Type),
		Description: s.Description,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
		out.PropertyOrdering = append([]string(nil), s.PropertyOrder...)
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	if s.Items != nil {
		out.Items = toSchema(s.Items)
	}
	return out
}

func schemaType(t domain.SchemaType) genai.Type {
	switch t {
	case domain.SchemaObject:
		return genai.TypeObject
	case domain.SchemaArray:
		return genai.TypeArray
	default:
		return genai.TypeString
	}
}
