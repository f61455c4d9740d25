package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quantscholar/internal/core/domain"
)

func TestAnalyzeCmd_Exists(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"analyze"})
	require.NoError(t, err)
	assert.Equal(t, "analyze <file.pdf>", cmd.Use)
}

func TestAnalyzeCmd_Markdown(t *testing.T) {
	enc := &MockEncoder{}
	withServices(t, enc, &MockGateway{Analysis: testAnalysis()}, &MockSettingsService{})

	output, err := execute(t, "", "analyze", "/papers/auction.pdf")

	require.NoError(t, err)
	assert.Equal(t, "/papers/auction.pdf", enc.Path)
	assert.Contains(t, output, "auction.pdf · uploaded 10:30")
	assert.Contains(t, output, "# Auctions with Behavioral Bidders")
	assert.Contains(t, output, "**Target: Management Science**")
	assert.Contains(t, output, "## Research Question")
	assert.Contains(t, output, "1. Reserve prices fall.")
}

func TestAnalyzeCmd_JSON(t *testing.T) {
	withServices(t, &MockEncoder{}, &MockGateway{Analysis: testAnalysis()}, &MockSettingsService{})

	output, err := execute(t, "", "analyze", "--json", "auction.pdf")

	require.NoError(t, err)
	var got domain.Analysis
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, "Auctions with Behavioral Bidders", got.Title)
	assert.Equal(t, []string{"Reserve prices fall."}, got.KeyFindings)
}

func TestAnalyzeCmd_ReadError(t *testing.T) {
	enc := &MockEncoder{Err: errors.Join(domain.ErrRead, errors.New("no such file"))}
	withServices(t, enc, &MockGateway{}, &MockSettingsService{})

	_, err := execute(t, "", "analyze", "missing.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRead)
}

func TestAnalyzeCmd_ExtractionError(t *testing.T) {
	gw := &MockGateway{ExtractErr: domain.ErrExtraction}
	withServices(t, &MockEncoder{}, gw, &MockSettingsService{})

	_, err := execute(t, "", "analyze", "auction.pdf")

	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestAnalyzeCmd_NotConfigured(t *testing.T) {
	settings := &MockSettingsService{ValidateErr: errors.New("LLM provider not configured")}
	withServices(t, &MockEncoder{}, &MockGateway{}, settings)

	_, err := execute(t, "", "analyze", "auction.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantscholar settings llm")
}

func TestAnalyzeCmd_MissingServices(t *testing.T) {
	withServices(t, nil, nil, nil)

	_, err := execute(t, "", "analyze", "auction.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestAnalyzeCmd_RequiresFile(t *testing.T) {
	withServices(t, &MockEncoder{}, &MockGateway{}, nil)

	_, err := execute(t, "", "analyze")

	assert.Error(t, err)
}
