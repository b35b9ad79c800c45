package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func suggestionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggestion",
		Short: "Work with AI reply drafts",
	}

	cmd.AddCommand(suggestionApproveCmd())
	cmd.AddCommand(suggestionRejectCmd())
	cmd.AddCommand(suggestionEditCmd())
	cmd.AddCommand(suggestionSendCmd())
	cmd.AddCommand(suggestionRefineCmd())
	return cmd
}

func suggestionID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid suggestion id: %w", err)
	}
	return id, nil
}

func suggestionApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <suggestion-id>",
		Short: "Approve a draft as-is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := suggestionID(args[0])
			if err != nil {
				return err
			}
			return runSuggestionAction(id, "approve", "")
		},
	}
}

func suggestionRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <suggestion-id>",
		Short: "Reject a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := suggestionID(args[0])
			if err != nil {
				return err
			}
			return runSuggestionAction(id, "reject", "")
		},
	}
}

func suggestionEditCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "edit <suggestion-id>",
		Short: "Replace a draft's text before sending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := suggestionID(args[0])
			if err != nil {
				return err
			}
			if text == "" {
				return fmt.Errorf("--text is required")
			}
			return runSuggestionAction(id, "edit", text)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "New reply text")
	return cmd
}

func suggestionSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <suggestion-id>",
		Short: "Send a draft as the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := suggestionID(args[0])
			if err != nil {
				return err
			}
			return runSuggestionSend(id)
		},
	}
}

func suggestionRefineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refine <suggestion-id> <prompt>",
		Short: "Ask the assistant to rework a draft",
		Long: `Rework a reply draft with a free-text instruction, e.g.

  ahmes suggestion refine 6f1c... "gør det kortere og mere formelt"

The refined text is printed; apply it with 'ahmes suggestion edit'.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := suggestionID(args[0])
			if err != nil {
				return err
			}
			return runSuggestionRefine(id, args[1])
		},
	}
	return cmd
}

func runSuggestionAction(id uuid.UUID, action, editedText string) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	suggestion, err := client.ActionSuggestion(ctx, id, action, editedText)
	if err != nil {
		return friendlyErr(err)
	}

	fmt.Printf("✅ Suggestion is now %s\n", suggestion.Status)
	return nil
}

func runSuggestionSend(id uuid.UUID) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	suggestion, err := client.SendSuggestion(ctx, id)
	if err != nil {
		return friendlyErr(err)
	}

	if suggestion.SentAt != nil {
		fmt.Printf("📤 Reply sent %s\n", suggestion.SentAt.Local().Format("2006-01-02 15:04"))
	} else {
		fmt.Println("📤 Reply queued for sending")
	}
	return nil
}

func runSuggestionRefine(id uuid.UUID, promptText string) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	result, err := client.RefineSuggestion(ctx, id, promptText, "")
	if err != nil {
		return friendlyErr(err)
	}

	fmt.Println("✏️  Refined draft:")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println(result.SuggestedText)
	fmt.Println()
	fmt.Printf("Apply it with: ahmes suggestion edit %s --text \"...\"\n", id)
	return nil
}
