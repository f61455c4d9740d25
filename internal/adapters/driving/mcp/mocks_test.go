package mcp

import (
	"context"
	"io"
	"iter"
	"path/filepath"
	"time"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
)

// mockEncoder is a mock implementation of driving.DocumentEncoder.
type mockEncoder struct {
	err  error
	path string
}

func (m *mockEncoder) Encode(_ context.Context, path string) (*domain.DocumentPayload, error) {
	m.path = path
	if m.err != nil {
		return nil, m.err
	}
	return &domain.DocumentPayload{
		FileName:  filepath.Base(path),
		Content:   []byte("%PDF-1.7"),
		MediaType: domain.MediaTypePDF,
		LoadedAt:  time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
	}, nil
}

func (m *mockEncoder) EncodeReader(
	_ context.Context, name, mediaType string, r io.Reader,
) (*domain.DocumentPayload, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentPayload{FileName: name, Content: content, MediaType: mediaType}, nil
}

// mockGateway is a mock implementation of driving.AIGateway.
type mockGateway struct {
	analysis   *domain.Analysis
	extractErr error
	openErr    error
	fragments  []string
	streamErr  error
	question   string
}

func (m *mockGateway) ExtractAnalysis(_ context.Context, _ *domain.DocumentPayload) (*domain.Analysis, error) {
	return m.analysis, m.extractErr
}

func (m *mockGateway) OpenChat(doc *domain.DocumentPayload) (*domain.ChatSession, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return domain.NewChatSession("chat-1", doc, "system", nil), nil
}

func (m *mockGateway) SendMessage(_ context.Context, _ *domain.ChatSession, text string) iter.Seq2[string, error] {
	m.question = text
	return func(yield func(string, error) bool) {
		for _, f := range m.fragments {
			if !yield(f, nil) {
				return
			}
		}
		if m.streamErr != nil {
			yield("", m.streamErr)
		}
	}
}

func testAnalysis() *domain.Analysis {
	return &domain.Analysis{
		Title:                   "Auctions with Behavioral Bidders",
		Authors:                 []string{"A. Smith"},
		ResearchQuestion:        "How does loss aversion shape reserve prices?",
		Methodology:             domain.Methodology{Type: "Analytical"},
		TheoreticalContribution: "Reference-dependent mechanism design.",
		Critique:                domain.Critique{ReviewerPerspective: "Thin identification."},
	}
}

func newTestServer(enc *mockEncoder, gw *mockGateway) *Server {
	server, err := NewServer(&Ports{Encoder: enc, Gateway: gw})
	if err != nil {
		panic(err)
	}
	return server
}
