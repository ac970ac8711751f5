// Command chat-cli opens an assistant test session against a running
// church-api and chats with it from the terminal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/assistant"
)

var (
	apiURL   string
	email    string
	password string
	token    string
	timeout  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "chat-cli",
	Short: "Test a church's AI assistant from the terminal",
	Long: `Log in to church-api as a dashboard user and talk to that church's assistant.

Credentials come from flags or CHAT_CLI_EMAIL / CHAT_CLI_PASSWORD.
A ready token can be passed with --token or CHAT_CLI_TOKEN instead.`,
	SilenceUsage: true,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open a session and chat interactively (/sair to quit)",
	RunE:  runChat,
}

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the grounding context the assistant would receive",
	RunE:  runContext,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("CHAT_CLI_API", "http://localhost:8080/api"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&email, "email", os.Getenv("CHAT_CLI_EMAIL"), "dashboard user email")
	rootCmd.PersistentFlags().StringVar(&password, "password", os.Getenv("CHAT_CLI_PASSWORD"), "dashboard user password")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("CHAT_CLI_TOKEN"), "bearer token (skips login)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 90*time.Second, "per-request timeout")

	rootCmd.AddCommand(chatCmd, contextCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*apiClient, error) {
	client := newAPIClient(apiURL, timeout)
	if token != "" {
		client.token = token
		return client, nil
	}
	if email == "" || password == "" {
		return nil, fmt.Errorf("missing credentials: set --email and --password or --token")
	}
	if err := client.Login(ctx, email, password); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return client, nil
}

func runContext(cmd *cobra.Command, _ []string) error {
	client, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	preview, err := client.Context(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, preview.Context)
	fmt.Fprintf(out, "\n[%s] %d caracteres", preview.Provider, preview.Characters)
	if preview.DroppedFiles > 0 {
		fmt.Fprintf(out, ", %d arquivo(s) omitido(s)", preview.DroppedFiles)
	}
	fmt.Fprintln(out)
	return nil
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client, err := connect(ctx)
	if err != nil {
		return err
	}

	session, err := client.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer client.CloseSession(context.Background(), session.ID)

	return chatLoop(ctx, client, session, cmd.InOrStdin(), cmd.OutOrStdout())
}

// sender is the part of apiClient the chat loop needs.
type sender interface {
	Send(ctx context.Context, id uuid.UUID, message string) (*assistant.SendResult, error)
}

func chatLoop(ctx context.Context, client sender, session *sessionView, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Assistente: %s\n", session.Greeting)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "/sair" {
			return nil
		}

		res, err := client.Send(ctx, session.ID, text)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(out, "! %v\n", err)
			continue
		}

		fmt.Fprintf(out, "Assistente: %s\n", res.Reply)
		for _, src := range res.Sources {
			fmt.Fprintf(out, "  fonte: %s (%s)\n", src.Title, src.URI)
		}
		if res.Action != nil && res.Directive != nil {
			if res.Action.Status == "failed" {
				fmt.Fprintf(out, "  [%s falhou: %s]\n", res.Directive.Kind, res.Action.Error)
			} else {
				fmt.Fprintf(out, "  [%s registrado]\n", res.Directive.Kind)
			}
		}
		if res.Rebuilt {
			fmt.Fprintln(out, "  [dados da igreja atualizados, conversa reiniciada]")
		}
		if res.State == assistant.StateTerminated {
			fmt.Fprintln(out, assistant.HandoffNotice)
			return nil
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
