package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
	"github.com/custodia-labs/quantscholar/internal/report"
)

// AnalyzeInput is the input schema for the analyze_paper tool.
type AnalyzeInput struct {
	Path string `json:"path" jsonschema:"absolute path of the PDF paper to analyse"`
}

// AnalyzeOutput is the output schema for the analyze_paper tool.
type AnalyzeOutput struct {
	FileName    string           `json:"file_name"`
	ResourceURI string           `json:"resource_uri"`
	Analysis    *domain.Analysis `json:"analysis"`
}

// AskInput is the input schema for the ask_paper tool.
type AskInput struct {
	Path     string `json:"path" jsonschema:"absolute path of the PDF paper to discuss"`
	Question string `json:"question" jsonschema:"question for the tutor about the paper"`
}

// AskOutput is the output schema for the ask_paper tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "analyze_paper",
		Description: "Deconstruct an academic paper into research question, methodology, " +
			"findings, contribution and a referee-style critique",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_paper",
		Description: "Ask the quantitative tutor one question about a paper",
	}, s.handleAsk)
}

// handleAnalyze handles the analyze_paper tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	doc, err := s.encode(ctx, input.Path)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	analysis, err := s.ports.Gateway.ExtractAnalysis(ctx, doc)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	s.mu.Lock()
	s.analyses[doc.FileName] = analysis
	s.mu.Unlock()

	output := AnalyzeOutput{
		FileName:    doc.FileName,
		ResourceURI: analysisURI(doc.FileName),
		Analysis:    analysis,
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: report.Analysis(analysis)}},
	}, output, nil
}

// handleAsk handles the ask_paper tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, AskOutput{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	doc, err := s.encode(ctx, input.Path)
	if err != nil {
		return nil, AskOutput{}, err
	}

	chat, err := s.ports.Gateway.OpenChat(doc)
	if err != nil {
		return nil, AskOutput{}, err
	}

	var answer strings.Builder
	for fragment, err := range s.ports.Gateway.SendMessage(ctx, chat, question) {
		if err != nil {
			return nil, AskOutput{}, err
		}
		answer.WriteString(fragment)
	}

	return nil, AskOutput{Answer: strings.TrimSpace(answer.String())}, nil
}

func (s *Server) encode(ctx context.Context, path string) (*domain.DocumentPayload, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}
	doc, err := s.ports.Encoder.Encode(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, errors.Join(domain.ErrRead, err)
	}
	return doc, nil
}
