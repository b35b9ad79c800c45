package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ahmes-app/ahmes/internal/chat"
	"github.com/ahmes-app/ahmes/internal/history"
	"github.com/ahmes-app/ahmes/internal/i18n"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [instruction]",
		Short: "Drive your inbox with natural-language commands",
		Long: `Start an interactive command chat with the assistant, or run a single
instruction and exit.

Type what you want done, e.g. "slet alle nyhedsbreve" or "giv mig et
overblik". When the assistant proposes an action that changes your inbox,
nothing happens until you answer /yes; /no cancels it locally.

Commands:
  /yes    confirm the pending action
  /no     cancel the pending action
  /quit   leave the chat`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return runChatOnce(strings.Join(args, " "))
			}
			return runChat()
		},
	}
}

// runChatOnce submits a single instruction. A proposed action is shown
// and confirmed or cancelled with one y/N prompt before exiting.
func runChatOnce(instruction string) error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	store, err := history.NewStore(history.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	session := chat.NewSession(client, cfg.Locale())

	reply, err := session.Submit(context.Background(), instruction)
	if err != nil {
		return err
	}
	if reply == nil {
		return nil
	}
	printAssistant(*reply)
	logTurn(store, *reply)

	if !reply.RequiresConfirmation {
		return nil
	}

	reader := bufio.NewReader(os.Stdin)
	answer := strings.ToLower(prompt(reader, "\nBekræft? [y/N]: "))
	if answer == "y" || answer == "yes" || answer == "j" || answer == "ja" {
		confirmPending(session, store, cfg.Locale())
	} else {
		cancelPending(session, store, cfg.Locale())
	}
	return nil
}

func runChat() error {
	cfg, client, err := requireLogin()
	if err != nil {
		return err
	}

	store, err := history.NewStore(history.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	session := chat.NewSession(client, cfg.Locale())

	fmt.Println("💬 Ahmes")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	printAssistant(session.Transcript()[0])
	fmt.Println("(/yes bekræfter, /no annullerer, /quit afslutter)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch input {
		case "":
			continue
		case "/quit", "/exit", "/q":
			fmt.Println("👋")
			return nil
		case "/yes", "/ja":
			confirmPending(session, store, cfg.Locale())
			continue
		case "/no", "/nej":
			cancelPending(session, store, cfg.Locale())
			continue
		}

		reply, err := session.Submit(context.Background(), input)
		if err != nil {
			fmt.Printf("⚠️  %v\n", err)
			continue
		}
		printAssistant(*reply)
		logTurn(store, *reply)
	}
	return scanner.Err()
}

func confirmPending(session *chat.Session, store *history.Store, loc i18n.Locale) {
	pending := session.Pending()
	if pending == nil {
		fmt.Println("Der er ingen afventende handling at bekræfte.")
		return
	}

	fmt.Printf("👤 %s\n\n", i18n.T(loc, i18n.KeyConfirmYes))
	reply, err := session.Confirm(context.Background(), pending.ID)
	if err != nil {
		fmt.Printf("⚠️  %v\n", err)
		return
	}
	printAssistant(*reply)
	logTurn(store, *reply)
}

func cancelPending(session *chat.Session, store *history.Store, loc i18n.Locale) {
	pending := session.Pending()
	if pending == nil {
		fmt.Println("Der er ingen afventende handling at annullere.")
		return
	}

	reply, err := session.Cancel(pending.ID)
	if err != nil {
		fmt.Printf("⚠️  %v\n", err)
		return
	}
	fmt.Printf("🤖 %s\n", reply.Content)

	logRecord(store, &history.Record{
		Instruction: pending.Instruction(),
		Response:    reply.Content,
		Outcome:     history.OutcomeCancelled,
	})
}

func printAssistant(m chat.Message) {
	icon := "🤖"
	switch m.Status {
	case chat.StatusSuccess:
		icon = "✅"
	case chat.StatusError:
		icon = "❌"
	case chat.StatusWarning:
		icon = "⚠️"
	}

	fmt.Printf("%s %s\n", icon, m.Content)

	if len(m.ActionsTaken) > 0 {
		for _, action := range m.ActionsTaken {
			fmt.Printf("   • %s\n", action)
		}
	}
	if m.RequiresConfirmation {
		fmt.Println("\n⏸  Afventer din bekræftelse: /yes eller /no")
	}
}

// logTurn records a settled submit or confirm in the local command log.
// Proposals are not logged until they resolve.
func logTurn(store *history.Store, m chat.Message) {
	if m.RequiresConfirmation {
		return
	}

	outcome := history.OutcomeInformational
	switch {
	case m.Status == chat.StatusError:
		outcome = history.OutcomeFailed
	case len(m.ActionsTaken) > 0:
		outcome = history.OutcomeExecuted
	}

	logRecord(store, &history.Record{
		Instruction: m.Instruction(),
		Response:    truncateString(m.Content, 500),
		Outcome:     outcome,
		ActionCount: len(m.ActionsTaken),
	})
}

func logRecord(store *history.Store, record *history.Record) {
	if err := store.Add(record); err != nil {
		fmt.Printf("⚠️  Failed to record history: %v\n", err)
	}
}
