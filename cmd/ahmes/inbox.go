package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ahmes-app/ahmes/internal/api"
	"github.com/ahmes-app/ahmes/internal/config"
	"github.com/ahmes-app/ahmes/internal/i18n"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show inbox statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard()
		},
	}
}

func inboxCmd() *cobra.Command {
	var (
		category string
		urgency  string
		unread   bool
		limit    int
		skip     int
	)

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "List classified emails",
		Long:  "List your emails with AI classification (category, urgency, topic).",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := api.EmailFilter{
				Category: category,
				Urgency:  urgency,
				Skip:     skip,
				Limit:    limit,
			}
			if unread {
				f := false
				filter.IsRead = &f
			}
			return runInbox(filter)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category (e.g. nyhedsbrev, support)")
	cmd.Flags().StringVar(&urgency, "urgency", "", "Filter by urgency (lav/mellem/høj)")
	cmd.Flags().BoolVar(&unread, "unread", false, "Only unread emails")
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum number of emails to show")
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of emails to skip")

	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <email-id>",
		Short: "Show a full email with its reply suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid email id: %w", err)
			}
			return runShow(id)
		},
	}
}

func runDashboard() error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	stats, err := client.EmailStats(ctx)
	if err != nil {
		return friendlyErr(err)
	}

	fmt.Println("📊 Ahmes Dashboard")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()
	fmt.Printf("%s: %d (%s: %d)\n", label(cfg, i18n.KeyTotalEmails), stats.Total, label(cfg, i18n.KeyUnread), stats.Unread)

	if len(stats.Categories) > 0 {
		fmt.Println()
		fmt.Printf("📁 %s:\n", label(cfg, i18n.KeyCategories))
		for _, name := range sortedKeys(stats.Categories) {
			fmt.Printf("  %-16s %d\n", name, stats.Categories[name])
		}
	}

	if len(stats.Urgency) > 0 {
		fmt.Println()
		fmt.Printf("🚦 %s:\n", label(cfg, i18n.KeyPriority))
		for _, name := range sortedKeys(stats.Urgency) {
			fmt.Printf("  %-16s %d\n", name, stats.Urgency[name])
		}
	}

	if stats.Total == 0 {
		fmt.Println()
		fmt.Println(label(cfg, i18n.KeyNoData))
	}
	return nil
}

func runInbox(filter api.EmailFilter) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	emails, err := client.ListEmails(ctx, filter)
	if err != nil {
		return friendlyErr(err)
	}

	if len(emails) == 0 {
		fmt.Println(label(cfg, i18n.KeyNoEmails))
		return nil
	}

	fmt.Printf("📥 Inbox (%d)\n", len(emails))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	for _, e := range emails {
		marker := " "
		if !e.IsRead {
			marker = "●"
		}

		subject := e.Subject
		if subject == "" {
			subject = label(cfg, i18n.KeyNoSubject)
		}

		from := e.FromName
		if from == "" {
			from = e.FromAddress
		}

		fmt.Printf("\n%s %s\n", marker, truncateString(subject, 70))
		fmt.Printf("  👤 %s\n", from)

		var tags []string
		if e.Category != "" {
			tags = append(tags, e.Category)
		}
		if e.Urgency != "" {
			tags = append(tags, e.Urgency)
		}
		if e.IsReplied {
			tags = append(tags, label(cfg, i18n.KeyReplied))
		}
		if e.HasSuggestion {
			tags = append(tags, "✏️ udkast")
		}
		if len(tags) > 0 {
			fmt.Printf("  🏷  %s\n", strings.Join(tags, " · "))
		}
		if e.ReceivedAt != nil {
			fmt.Printf("  🕐 %s\n", e.ReceivedAt.Local().Format("2006-01-02 15:04"))
		}
		fmt.Printf("  🆔 %s\n", e.ID)
	}
	return nil
}

func runShow(id uuid.UUID) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	email, err := client.GetEmail(ctx, id)
	if err != nil {
		return friendlyErr(err)
	}

	subject := email.Subject
	if subject == "" {
		subject = label(cfg, i18n.KeyNoSubject)
	}

	fmt.Printf("📧 %s\n", subject)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("From: %s <%s>\n", email.FromName, email.FromAddress)
	fmt.Printf("To:   %s\n", email.ToAddress)
	if email.ReceivedAt != nil {
		fmt.Printf("Date: %s\n", email.ReceivedAt.Local().Format("2006-01-02 15:04"))
	}
	if email.Category != "" {
		fmt.Printf("🏷  %s · %s (%.0f%%)\n", email.Category, email.Urgency, email.Confidence*100)
	}
	fmt.Println()
	fmt.Println(email.BodyText)

	if len(email.Suggestions) > 0 {
		fmt.Println()
		fmt.Printf("✏️  Reply suggestions (%d)\n", len(email.Suggestions))
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

		for _, sg := range email.Suggestions {
			fmt.Printf("\n[%s] %s\n", suggestionStatus(cfg, sg), sg.ID)
			text := sg.SuggestedText
			if sg.EditedText != "" {
				text = sg.EditedText
			}
			fmt.Println(indent(text, "  "))
		}
		fmt.Println()
		fmt.Println("Use 'ahmes suggestion send <id>' to send a draft.")
	}
	return nil
}

func suggestionStatus(cfg *config.Config, sg api.Suggestion) string {
	if sg.SentAt != nil {
		return label(cfg, i18n.KeySent)
	}
	switch sg.Status {
	case "approved":
		return label(cfg, i18n.KeyApproved)
	case "edited":
		return label(cfg, i18n.KeyEdited)
	case "rejected":
		return label(cfg, i18n.KeyRejected)
	}
	return label(cfg, i18n.KeyPending)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
