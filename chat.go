package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/medical-triage/server/internal/agent/repo"
	"github.com/medical-triage/server/internal/presentation/tui"
	logx "github.com/medical-triage/server/pkg/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	Long:  `Runs a single in-memory session on stdin/stdout. Type "exit" or send EOF to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
			logx.Silence()
		}
		ctx := cmd.Context()

		var rdb redis.UniversalClient
		if cfg.Knowledge.Enabled {
			client, err := cfg.Redis.New()
			if err != nil {
				logx.Warn().Err(err).Msg("Redis unavailable; answering without the knowledge base")
			} else {
				defer client.Close()
				rdb = client
			}
		}

		runner, err := newRunner(ctx, cfg, repo.NewMemorySessionRepository(), rdb, nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		isTTY := false
		if f, ok := out.(*os.File); ok {
			isTTY = term.IsTerminal(int(f.Fd()))
		}
		render := tui.NewRenderer(isTTY)

		id, welcome, err := runner.StartSession(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = runner.EndSession(ctx, id) }()

		fmt.Fprintln(out, render(welcome))
		in := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !in.Scan() {
				fmt.Fprintln(out)
				return in.Err()
			}
			text := strings.TrimSpace(in.Text())
			if text == "" {
				continue
			}
			if strings.EqualFold(text, "exit") || strings.EqualFold(text, "quit") {
				return nil
			}

			reply, err := runner.ProcessMessage(ctx, id, text)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			if _, err := io.WriteString(out, render(reply)+"\n"); err != nil {
				return err
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().BoolP("verbose", "v", false, "Keep debug logging on stderr")
}
