package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quantscholar/internal/logger"
)

var askCmd = &cobra.Command{
	Use:   "ask <file.pdf> <question>",
	Short: "Ask the tutor one question about a paper",
	Long: `Open a tutor conversation grounded in the paper and ask a single question.

The reply streams as it arrives when output is piped. On a terminal it is
rendered once complete.`,
	Example: `  quantscholar ask paper.pdf "What identifies the demand elasticity?"`,
	Args:    cobra.MinimumNArgs(2),
	RunE:    runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args[1:], " "))
	if question == "" {
		return fmt.Errorf("question must not be empty")
	}
	if err := requireAI(); err != nil {
		return err
	}

	ctx := cmd.Context()
	doc, err := documentEncoder.Encode(ctx, args[0])
	if err != nil {
		return err
	}
	chat, err := aiGateway.OpenChat(doc)
	if err != nil {
		return err
	}
	logger.Debug("chat %s opened for %s", chat.ID, doc.FileName)

	out := cmd.OutOrStdout()
	renderer := markdownRenderer(out)

	var reply strings.Builder
	for fragment, err := range aiGateway.SendMessage(ctx, chat, question) {
		if err != nil {
			if renderer == nil && reply.Len() > 0 {
				fmt.Fprintln(out)
			}
			return err
		}
		reply.WriteString(fragment)
		if renderer == nil {
			if _, err := fmt.Fprint(out, fragment); err != nil {
				return err
			}
		}
	}

	if renderer != nil {
		_, err = fmt.Fprint(out, renderer.Render(reply.String()))
		return err
	}
	_, err = fmt.Fprintln(out)
	return err
}
