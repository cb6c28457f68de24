package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a one-shot question about the glossary",
	Long: `Run a single question through the conversation engine and print the
reply.

In chat, a mid-confidence match asks for a yes/no confirmation. Here
the best match is accepted so the answer arrives in one shot, with the
interpretation shown above it.

Examples:
  lexicat ask "what does CAC mean?"
  lexicat ask "which assets use churn rate?"
  lexicat ask "what terms are available?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx := context.Background()

	sessionID := uuid.NewString()
	if chatStore != nil {
		// A session row keeps the one-shot transcript visible to
		// `lexicat history`.
		title := question
		if r := []rune(title); len(r) > 60 {
			title = string(r[:57]) + "..."
		}
		if _, err := chatStore.CreateSession(ctx, sessionID, "Ask: "+title); err != nil {
			logger.Warn("create session failed", "session", sessionID, "error", err)
		}
	}

	reply, err := engine.HandleInput(ctx, sessionID, question)
	if err != nil {
		return fmt.Errorf("handle input: %w", err)
	}
	fmt.Println(reply.Text)

	// Accept the best match so a one-shot run never ends on an
	// unanswered confirmation prompt.
	if reply.AwaitingConfirmation {
		followUp, err := engine.HandleInput(ctx, sessionID, "yes")
		if err != nil {
			return fmt.Errorf("handle confirmation: %w", err)
		}
		fmt.Println()
		fmt.Println(followUp.Text)
	}

	return nil
}
