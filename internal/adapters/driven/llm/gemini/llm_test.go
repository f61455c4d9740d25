package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/core/ports/driven"
)

func testDoc() *domain.DocumentPayload {
	return &domain.DocumentPayload{FileName: "p.pdf", Content: []byte("%PDF"), MediaType: domain.MediaTypePDF}
}

func TestNewGenerator(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		_, err := NewGenerator(context.Background(), Config{})
		assert.ErrorIs(t, err, ErrAPIKeyRequired)
	})

	t.Run("defaults model", func(t *testing.T) {
		gen, err := NewGenerator(context.Background(), Config{APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, gen.ModelName())
		assert.NoError(t, gen.Close())
	})

	t.Run("custom model", func(t *testing.T) {
		gen, err := NewGenerator(context.Background(), Config{APIKey: "k", Model: "gemini-2.5-pro"})
		require.NoError(t, err)
		assert.Equal(t, "gemini-2.5-pro", gen.ModelName())
	})
}

func TestGenerator_GenerateStructured_RequiresSchema(t *testing.T) {
	gen, err := NewGenerator(context.Background(), Config{APIKey: "k"})
	require.NoError(t, err)

	_, err = gen.GenerateStructured(context.Background(), driven.StructuredRequest{Document: testDoc()})

	assert.Error(t, err)
}

func TestStructuredContents(t *testing.T) {
	contents := structuredContents(driven.StructuredRequest{
		Document:    testDoc(),
		Instruction: "Deconstruct this paper.",
	})

	require.Len(t, contents, 1)
	assert.Equal(t, string(genai.RoleUser), contents[0].Role)
	require.Len(t, contents[0].Parts, 2)
	require.NotNil(t, contents[0].Parts[0].InlineData)
	assert.Equal(t, domain.MediaTypePDF, contents[0].Parts[0].InlineData.MIMEType)
	assert.Equal(t, []byte("%PDF"), contents[0].Parts[0].InlineData.Data)
	assert.Equal(t, "Deconstruct this paper.", contents[0].Parts[1].Text)
}

func TestStructuredConfig(t *testing.T) {
	cfg := structuredConfig(driven.StructuredRequest{Schema: domain.AnalysisSchema(), Temperature: 0.2})

	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.2, *cfg.Temperature, 1e-6)
	require.NotNil(t, cfg.ResponseSchema)
	assert.Equal(t, genai.TypeObject, cfg.ResponseSchema.Type)
}

func TestChatContents(t *testing.T) {
	contents := chatContents(driven.ChatRequest{
		History: []domain.ChatTurn{
			{Role: domain.RoleUser, Text: "I have read this paper.", Document: testDoc()},
			{Role: domain.RoleAssistant, Text: "Excellent."},
		},
		Message: "Why?",
	})

	require.Len(t, contents, 3)
	assert.Equal(t, string(genai.RoleUser), contents[0].Role)
	assert.Len(t, contents[0].Parts, 2)
	assert.NotNil(t, contents[0].Parts[0].InlineData)
	assert.Equal(t, string(genai.RoleModel), contents[1].Role)
	assert.Len(t, contents[1].Parts, 1)
	assert.Equal(t, string(genai.RoleUser), contents[2].Role)
	assert.Equal(t, "Why?", contents[2].Parts[0].Text)
}

func TestChatConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := chatConfig(driven.ChatRequest{})
		assert.Nil(t, cfg.Temperature)
		assert.Nil(t, cfg.SystemInstruction)
	})

	t.Run("system and temperature", func(t *testing.T) {
		temp := 0.9
		cfg := chatConfig(driven.ChatRequest{SystemInstruction: "Be a tutor.", Temperature: &temp})
		require.NotNil(t, cfg.Temperature)
		assert.InDelta(t, 0.9, *cfg.Temperature, 1e-6)
		require.NotNil(t, cfg.SystemInstruction)
		assert.Equal(t, "Be a tutor.", cfg.SystemInstruction.Parts[0].Text)
	})
}

func TestToSchema(t *testing.T) {
	schema := toSchema(domain.AnalysisSchema())

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, domain.MandatoryAnalysisFields, schema.Required)
	assert.Len(t, schema.Properties, len(domain.AnalysisSchema().Properties))

	authors := schema.Properties["authors"]
	require.NotNil(t, authors)
	assert.Equal(t, genai.TypeArray, authors.Type)
	require.NotNil(t, authors.Items)
	assert.Equal(t, genai.TypeString, authors.Items.Type)

	methodology := schema.Properties["methodology"]
	require.NotNil(t, methodology)
	assert.Equal(t, []string{"type", "keyAssumptions", "modelSetup"}, methodology.PropertyOrdering)
	assert.Contains(t, methodology.Properties["modelSetup"].Description, "players")
}

func TestToSchema_Nil(t *testing.T) {
	assert.Nil(t, toSchema(nil))
}
