package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/upl-merch/assistant/internal/agent"
	"github.com/upl-merch/assistant/internal/agent/model"
)

var (
	askUserID         string
	askConversationID string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant a single question from the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		app, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		runner, err := app.Agents.New(ctx, agent.Options{UserID: askUserID})
		if err != nil {
			return err
		}

		conversationID := askConversationID
		if conversationID == "" {
			conversationID = uuid.NewString()
		}

		reply, err := runner.Invoke(ctx, model.QueryInput{
			ConversationID: conversationID,
			Query:          strings.Join(args, " "),
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, reply.Content)
		fmt.Fprintf(out, "\n[conversation %s, cost $%.6f]\n", reply.ConversationID, reply.CostUSD)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askUserID, "user", "u", "", "signed-in user id (enables order lookup)")
	askCmd.Flags().StringVarP(&askConversationID, "conversation", "c", "", "continue an existing conversation")
	rootCmd.AddCommand(askCmd)
}
