package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quantscholar/internal/logger"
	"github.com/custodia-labs/quantscholar/internal/report"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.pdf>",
	Short: "Deconstruct a paper into a structured analysis",
	Long: `Read a PDF and print its research question, methodology, key findings,
theoretical contribution and critique.

Output is rendered Markdown on a terminal and raw Markdown otherwise.
Use --json for the structured analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := requireAI(); err != nil {
		return err
	}

	ctx := cmd.Context()
	doc, err := documentEncoder.Encode(ctx, args[0])
	if err != nil {
		return err
	}
	logger.Debug("encoded %s (%d bytes)", doc.FileName, doc.Size())

	analysis, err := aiGateway.ExtractAnalysis(ctx, doc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding analysis: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	markdown := report.Header(doc.FileName, doc.LoadedAt) + "\n\n" + report.Analysis(analysis)
	if r := markdownRenderer(out); r != nil {
		markdown = r.Render(markdown)
	}
	_, err = fmt.Fprint(out, markdown)
	return err
}
