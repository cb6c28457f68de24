package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mflister/lexicat/internal/models"
	"github.com/mflister/lexicat/internal/store"
)

var (
	historyLimit int
	historyForce bool
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List chat sessions or replay one",
	Long: `List stored chat sessions or replay one session's transcript.

Requires the transcript store (set SURREALDB_URL).

Examples:
  lexicat history                  # List recent sessions
  lexicat history 3f2a9c4e-...     # Replay one session
  lexicat history delete 3f2a9c4e-...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max sessions")
	historyDeleteCmd.Flags().BoolVarP(&historyForce, "force", "f", false, "skip confirmation")
	historyCmd.AddCommand(historyDeleteCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if chatStore == nil {
		return fmt.Errorf("transcript store not configured, set SURREALDB_URL")
	}

	ctx := context.Background()
	if len(args) == 1 {
		return showSession(ctx, args[0])
	}
	return listSessions(ctx)
}

func listSessions(ctx context.Context) error {
	sessions, err := chatStore.ListSessions(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	fmt.Printf("%-38s %-18s %s\n", "ID", "LAST ACTIVE", "TITLE")
	fmt.Println("--------------------------------------------------------------------------")
	for _, session := range sessions {
		fmt.Printf("%-38s %-18s %s\n",
			models.MustRecordIDString(session.ID),
			session.UpdatedAt.Format("2006-01-02 15:04"),
			session.Title)
	}

	return nil
}

func showSession(ctx context.Context, id string) error {
	session, messages, err := chatStore.Transcript(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("session not found: %s", id)
		}
		return fmt.Errorf("load transcript: %w", err)
	}

	fmt.Printf("Session: %s\n", session.Title)
	fmt.Printf("Started: %s\n", session.StartedAt.Format(time.RFC3339))
	fmt.Printf("Messages: %d\n", len(messages))

	for _, msg := range messages {
		header := fmt.Sprintf("[%s] %s", msg.CreatedAt.Format("15:04:05"), msg.Role)
		if msg.Intent != "" {
			header += fmt.Sprintf(" (%s)", msg.Intent)
		}
		fmt.Printf("\n%s:\n%s\n", header, msg.Content)
	}

	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if chatStore == nil {
		return fmt.Errorf("transcript store not configured, set SURREALDB_URL")
	}

	id := args[0]
	ctx := context.Background()

	// Confirm deletion
	if !historyForce {
		fmt.Printf("About to delete session %s and its messages.\n", id)
		fmt.Print("\nContinue? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))

		if response != "y" && response != "yes" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	deleted, err := chatStore.DeleteSession(ctx, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if !deleted {
		return fmt.Errorf("session not found: %s", id)
	}

	fmt.Printf("Deleted session %s\n", id)
	return nil
}
