package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ahmes-app/ahmes/internal/api"
)

func templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage reply templates",
	}

	cmd.AddCommand(templateListCmd())
	cmd.AddCommand(templateAddCmd())
	cmd.AddCommand(templateEditCmd())
	cmd.AddCommand(templateDeleteCmd())
	return cmd
}

func templateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reply templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplateList()
		},
	}
}

func templateAddCmd() *cobra.Command {
	var (
		name     string
		category string
		body     string
	)

	cmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"create"},
		Short:   "Create a reply template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || body == "" {
				return fmt.Errorf("--name and --body are required")
			}
			return runTemplateAdd(api.TemplateInput{Name: name, Category: category, Body: body})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Template name")
	cmd.Flags().StringVar(&category, "category", "", "Category (optional)")
	cmd.Flags().StringVar(&body, "body", "", "Template body")
	return cmd
}

func templateEditCmd() *cobra.Command {
	var (
		name     string
		category string
		body     string
	)

	cmd := &cobra.Command{
		Use:     "edit <template-id>",
		Aliases: []string{"update"},
		Short:   "Update a reply template",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid template id: %w", err)
			}
			input := api.TemplateInput{Name: name, Category: category, Body: body}
			if input == (api.TemplateInput{}) {
				return fmt.Errorf("nothing to update; pass --name, --category or --body")
			}
			return runTemplateEdit(id, input)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&category, "category", "", "New category")
	cmd.Flags().StringVar(&body, "body", "", "New body")
	return cmd
}

func templateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <template-id>",
		Short: "Delete a reply template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid template id: %w", err)
			}
			return runTemplateDelete(id)
		},
	}
}

func runTemplateList() error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	templates, err := client.ListTemplates(ctx)
	if err != nil {
		return friendlyErr(err)
	}

	if len(templates) == 0 {
		fmt.Println("No templates yet. Create one with 'ahmes template add'.")
		return nil
	}

	fmt.Printf("📄 Templates (%d)\n", len(templates))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	for _, t := range templates {
		fmt.Printf("\n%s", t.Name)
		if t.Category != "" {
			fmt.Printf(" [%s]", t.Category)
		}
		fmt.Println()
		fmt.Printf("  %s\n", truncateString(t.Body, 80))
		if t.UsageCount > 0 {
			fmt.Printf("  Used %d times\n", t.UsageCount)
		}
		fmt.Printf("  🆔 %s\n", t.ID)
	}
	return nil
}

func runTemplateAdd(input api.TemplateInput) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	tmpl, err := client.CreateTemplate(ctx, input)
	if err != nil {
		return friendlyErr(err)
	}

	fmt.Printf("✅ Created template %q (%s)\n", tmpl.Name, tmpl.ID)
	return nil
}

func runTemplateEdit(id uuid.UUID, input api.TemplateInput) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	tmpl, err := client.UpdateTemplate(ctx, id, input)
	if err != nil {
		return friendlyErr(err)
	}

	fmt.Printf("✅ Updated template %q\n", tmpl.Name)
	return nil
}

func runTemplateDelete(id uuid.UUID) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	if err := client.DeleteTemplate(ctx, id); err != nil {
		return friendlyErr(err)
	}

	fmt.Println("🗑  Template deleted")
	return nil
}
