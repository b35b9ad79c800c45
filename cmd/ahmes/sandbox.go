package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ahmes-app/ahmes/internal/sandbox"
)

func sandboxCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run a local fake backend with demo data",
		Long: `Start a self-contained Ahmes backend on localhost with a seeded demo
inbox. Nothing leaves your machine and nothing is persisted.

In another terminal:

  ahmes --server http://localhost:8000/api login demo@ahmes.app
  (password: demo1234)
  ahmes --server http://localhost:8000/api chat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSandbox(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8000, "Port to listen on")
	return cmd
}

func runSandbox(port int) error {
	srv := sandbox.NewServer(port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	fmt.Printf("🏖  Sandbox backend running at %s\n", srv.BaseURL())
	fmt.Println("   Demo login: demo@ahmes.app / demo1234")
	fmt.Println("   Press Ctrl+C to stop")
	fmt.Println()

	return srv.Start(ctx)
}
