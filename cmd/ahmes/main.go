package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahmes-app/ahmes/internal/api"
	"github.com/ahmes-app/ahmes/internal/config"
	"github.com/ahmes-app/ahmes/internal/i18n"
)

var (
	cfgFile    string
	serverFlag string
	localeFlag string
)

func resolveConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig reads the config and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if serverFlag != "" {
		cfg.Server.URL = serverFlag
	}
	if localeFlag != "" {
		cfg.Preferences.Locale = localeFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newClient(cfg *config.Config) *api.Client {
	return api.New(cfg.Server.URL, cfg.Auth.Token, time.Duration(cfg.Server.TimeoutSec)*time.Second)
}

// requireLogin loads the config and fails early with a hint when no
// token is stored.
func requireLogin() (*config.Config, *api.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Auth.Token == "" {
		return nil, nil, fmt.Errorf("not logged in. Run 'ahmes login' first")
	}
	return cfg, newClient(cfg), nil
}

// friendlyErr rewrites a stale-token failure into a login hint.
func friendlyErr(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("session expired or invalid. Run 'ahmes login' again")
	}
	return err
}

func prompt(reader *bufio.Reader, message string) string {
	fmt.Print(message)
	input, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(input)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func label(cfg *config.Config, key i18n.Key) string {
	return i18n.T(cfg.Locale(), key)
}

func cmdContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(cfg.Server.TimeoutSec)*time.Second)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "ahmes",
		Short: "Ahmes - your AI email assistant from the terminal",
		Long: `Ahmes is a terminal client for the Ahmes email assistant.

It shows your classified inbox, lets you approve and send AI-drafted
replies, and drives your mailbox through a natural-language command chat
("delete all newsletters", "answer the inquiries", ...). Destructive
commands always come back as a proposal you confirm or cancel.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ahmes/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "backend URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "display language: da or en (default from config)")

	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(inboxCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(suggestionCmd())
	rootCmd.AddCommand(templateCmd())
	rootCmd.AddCommand(knowledgeCmd())
	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(sandboxCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
