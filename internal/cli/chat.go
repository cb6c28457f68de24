package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mflister/lexicat/internal/store"
	"github.com/mflister/lexicat/internal/tui"
)

var (
	chatSession string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive glossary chat",
	Long: `Start an interactive chat session in the terminal.

Ask about glossary terms in plain language. Mid-confidence matches ask
for a yes/no confirmation before answering, and follow-ups like "what
assets use it" resolve against the last discussed term.

Transcripts are persisted when SURREALDB_URL is set. Pass --session to
append to an earlier session's transcript.

Examples:
  lexicat chat
  lexicat chat --session 3f2a9c4e-8b1d-4f6a-9c3e-2d7b5a8e1f40`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "", "session ID to resume")
}

func runChat(cmd *cobra.Command, args []string) error {
	sessionID := chatSession
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if chatStore != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		title := "Chat " + time.Now().Format("2006-01-02 15:04")
		_, err := chatStore.CreateSession(ctx, sessionID, title)
		if err != nil && !errors.Is(err, store.ErrSessionExists) {
			return fmt.Errorf("create session: %w", err)
		}
	}

	if err := tui.RunChat(engine, sessionID); err != nil {
		return err
	}

	if chatStore != nil {
		fmt.Printf("Transcript saved to session %s\n", sessionID)
	}
	return nil
}
