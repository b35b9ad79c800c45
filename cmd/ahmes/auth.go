package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/ahmes-app/ahmes/internal/api"
	"github.com/ahmes-app/ahmes/internal/config"
	"github.com/ahmes-app/ahmes/internal/i18n"
)

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a new Ahmes account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister()
		},
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [email]",
		Short: "Log in and store the access token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := ""
			if len(args) > 0 {
				email = args[0]
			}
			return runLogin(email)
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout()
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami()
		},
	}
}

func runRegister() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("📝 Create your Ahmes account")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	email := prompt(reader, "Email: ")
	name := prompt(reader, "Name: ")
	company := prompt(reader, "Company (optional): ")
	password := prompt(reader, "Password: ")

	client := newClient(cfg)
	ctx, cancel := cmdContext(cfg)
	defer cancel()

	user, err := client.Register(ctx, api.RegisterRequest{
		Email:       email,
		Name:        name,
		CompanyName: company,
		Password:    password,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Println()
	fmt.Printf("✅ Account created for %s\n", user.Email)
	fmt.Println("Run 'ahmes login' to sign in.")
	return nil
}

func runLogin(email string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	if email == "" {
		email = prompt(reader, "Email: ")
	}
	password := prompt(reader, "Password: ")

	client := newClient(cfg)
	ctx, cancel := cmdContext(cfg)
	defer cancel()

	token, err := client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", friendlyErr(err))
	}

	cfg.Auth.Token = token.AccessToken
	if err := config.Save(resolveConfigPath(), cfg); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	client.SetToken(token.AccessToken)
	user, err := client.Me(ctx)
	if err != nil {
		return friendlyErr(err)
	}

	fmt.Printf("✅ Logged in as %s (%s)\n", user.Name, user.Email)
	return nil
}

func runLogout() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cfg.Auth.Token = ""
	if err := config.Save(resolveConfigPath(), cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println(label(cfg, i18n.KeySignedOut))
	return nil
}

func runWhoami() error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext(cfg)
	defer cancel()

	user, err := client.Me(ctx)
	if err != nil {
		return friendlyErr(err)
	}

	fmt.Printf("👤 %s <%s>\n", user.Name, user.Email)
	if user.CompanyName != "" {
		fmt.Printf("🏢 %s\n", user.CompanyName)
	}
	fmt.Printf("🔑 Role: %s\n", user.Role)

	if expiry, ok := tokenExpiry(cfg.Auth.Token); ok {
		remaining := time.Until(expiry)
		if remaining <= 0 {
			fmt.Println("⚠️  Token has expired; run 'ahmes login' again")
		} else if remaining < 24*time.Hour {
			fmt.Printf("⚠️  Token expires %s\n", expiry.Local().Format("2006-01-02 15:04"))
		}
	}
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// backend validates tokens, this is only an early warning. Opaque tokens
// (e.g. from the sandbox) simply have no expiry to report.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
