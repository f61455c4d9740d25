package mcp

import (
	"context"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quantscholar/internal/report"
)

const (
	// uriScheme is the custom URI scheme for quantscholar resources.
	uriScheme = "quantscholar://"

	analysesPrefix = uriScheme + "analyses/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: analysesPrefix + "{fileName}",
		Name:        "paper-analysis",
		Description: "Markdown report of a paper analysed during this session",
		MIMEType:    "text/markdown",
	}, s.handleAnalysisResource)
}

// handleAnalysisResource returns the report of a previously analysed paper.
func (s *Server) handleAnalysisResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	fileName := extractFileName(req.Params.URI)
	if fileName == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	s.mu.RLock()
	analysis, ok := s.analyses[fileName]
	s.mu.RUnlock()
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     report.Analysis(analysis),
		}},
	}, nil
}

// analysisURI builds the resource URI for an analysed file.
func analysisURI(fileName string) string {
	return analysesPrefix + url.PathEscape(fileName)
}

// extractFileName extracts the file name from a URI like quantscholar://analyses/{fileName}.
func extractFileName(uri string) string {
	if !strings.HasPrefix(uri, analysesPrefix) {
		return ""
	}
	name, err := url.PathUnescape(strings.TrimPrefix(uri, analysesPrefix))
	if err != nil || strings.Contains(name, "/") {
		return ""
	}
	return name
}
