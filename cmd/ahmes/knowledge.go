package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ahmes-app/ahmes/internal/api"
)

func knowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Manage the company knowledge base",
		Long: `The knowledge base grounds the assistant's replies: opening hours,
pricing, FAQ answers and tone of voice. Entries are used when drafting
reply suggestions.`,
	}

	cmd.AddCommand(knowledgeListCmd())
	cmd.AddCommand(knowledgeAddCmd())
	cmd.AddCommand(knowledgeEditCmd())
	cmd.AddCommand(knowledgeDeleteCmd())
	return cmd
}

func knowledgeListCmd() *cobra.Command {
	var entryType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKnowledgeList(entryType)
		},
	}

	cmd.Flags().StringVar(&entryType, "type", "", "Filter by type (faq/pricing/hours/tone)")
	return cmd
}

func knowledgeAddCmd() *cobra.Command {
	var (
		entryType string
		title     string
		content   string
	)

	cmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"create"},
		Short:   "Create a knowledge entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" || content == "" {
				return fmt.Errorf("--title and --content are required")
			}
			return runKnowledgeAdd(api.KnowledgeInput{EntryType: entryType, Title: title, Content: content})
		},
	}

	cmd.Flags().StringVar(&entryType, "type", "faq", "Entry type (faq/pricing/hours/tone)")
	cmd.Flags().StringVar(&title, "title", "", "Entry title")
	cmd.Flags().StringVar(&content, "content", "", "Entry content")
	return cmd
}

func knowledgeEditCmd() *cobra.Command {
	var (
		entryType string
		title     string
		content   string
	)

	cmd := &cobra.Command{
		Use:     "edit <entry-id>",
		Aliases: []string{"update"},
		Short:   "Update a knowledge entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid entry id: %w", err)
			}
			input := api.KnowledgeInput{EntryType: entryType, Title: title, Content: content}
			if input == (api.KnowledgeInput{}) {
				return fmt.Errorf("nothing to update; pass --type, --title or --content")
			}
			return runKnowledgeEdit(id, input)
		},
	}

	cmd.Flags().StringVar(&entryType, "type", "", "New type")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	return cmd
}

func knowledgeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete a knowledge entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid entry id: %w", err)
			}
			return runKnowledgeDelete(id)
		},
	}
}

func runKnowledgeList(entryType string) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	entries, err := client.ListKnowledge(ctx, entryType)
	if err != nil {
		return friendlyErr(err)
	}

	if len(entries) == 0 {
		fmt.Println("No knowledge entries yet. Create one with 'ahmes knowledge add'.")
		return nil
	}

	fmt.Printf("📚 Knowledge base (%d)\n", len(entries))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	for _, e := range entries {
		fmt.Printf("\n%s [%s]\n", e.Title, e.EntryType)
		fmt.Printf("  %s\n", truncateString(e.Content, 80))
		fmt.Printf("  🆔 %s\n", e.ID)
	}
	return nil
}

func runKnowledgeAdd(input api.KnowledgeInput) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	entry, err := client.CreateKnowledge(ctx, input)
	if err != nil {
		return friendlyErr(err)
	}

	fmt.Printf("✅ Created knowledge entry %q (%s)\n", entry.Title, entry.ID)
	return nil
}

func runKnowledgeEdit(id uuid.UUID, input api.KnowledgeInput) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	entry, err := client.UpdateKnowledge(ctx, id, input)
	if err != nil {
		return friendlyErr(err)
	}

	fmt.Printf("✅ Updated knowledge entry %q\n", entry.Title)
	return nil
}

func runKnowledgeDelete(id uuid.UUID) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	if err := client.DeleteKnowledge(ctx, id); err != nil {
		return friendlyErr(err)
	}

	fmt.Println("🗑  Knowledge entry deleted")
	return nil
}
