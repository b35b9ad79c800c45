package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage connected mailboxes",
	}

	cmd.AddCommand(accountListCmd())
	cmd.AddCommand(accountConnectCmd())
	cmd.AddCommand(accountDisconnectCmd())
	return cmd
}

func accountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List connected mailboxes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountList()
		},
	}
}

func accountConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <gmail|outlook>",
		Short: "Connect a mailbox via OAuth",
		Long: `Request an OAuth authorization URL for Gmail or Outlook. Open the
printed URL in a browser to finish connecting; the backend receives new
mail through the provider's webhooks afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccountConnect(args[0])
		},
	}
}

func accountDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <account-id>",
		Short: "Disconnect a mailbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid account id: %w", err)
			}
			return runAccountDisconnect(id)
		},
	}
}

func runAccountList() error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	accounts, err := client.ListAccounts(ctx)
	if err != nil {
		return friendlyErr(err)
	}

	if len(accounts) == 0 {
		fmt.Println("No mailboxes connected. Run 'ahmes account connect gmail'.")
		return nil
	}

	fmt.Printf("📬 Connected mailboxes (%d)\n", len(accounts))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	for _, a := range accounts {
		status := "✅ active"
		if !a.IsActive {
			status = "⏸  inactive"
		}
		fmt.Printf("\n%s (%s)\n", a.EmailAddress, a.Provider)
		fmt.Printf("  %s · connected %s\n", status, a.CreatedAt.Local().Format("2006-01-02"))
		fmt.Printf("  🆔 %s\n", a.ID)
	}
	return nil
}

func runAccountConnect(provider string) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	var authURL string
	switch provider {
	case "gmail":
		result, err := client.ConnectGmail(ctx)
		if err != nil {
			return friendlyErr(err)
		}
		authURL = result.AuthURL
	case "outlook":
		result, err := client.ConnectOutlook(ctx)
		if err != nil {
			return friendlyErr(err)
		}
		authURL = result.AuthURL
	default:
		return fmt.Errorf("unknown provider %q (gmail or outlook)", provider)
	}

	fmt.Println("🔗 Open this URL in your browser to authorize:")
	fmt.Println()
	fmt.Printf("  %s\n", authURL)
	return nil
}

func runAccountDisconnect(id uuid.UUID) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	if err := client.DisconnectAccount(ctx, id); err != nil {
		return friendlyErr(err)
	}

	fmt.Println("🗑  Mailbox disconnected")
	return nil
}
