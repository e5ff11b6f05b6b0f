package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/medical-triage/server/internal/agent/repo"
	"github.com/medical-triage/server/internal/metrics"
	"github.com/medical-triage/server/internal/server"
	logx "github.com/medical-triage/server/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat server",
	Long:  `Serves the chat API backed by Redis sessions, with SSE streaming of replies and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Error().Err(err).Msg("Failed to initialise Redis client")
			return err
		}
		defer rdb.Close()
		logx.Info().Msg("Connected to Redis successfully")

		ttl, err := cfg.Conversation.SessionTTL()
		if err != nil {
			logx.Error().Err(err).Str("ttl", cfg.Conversation.TTL).Msg("Invalid CONVERSATION_TTL")
			return err
		}

		m := metrics.New()
		runner, err := newRunner(ctx, cfg, repo.NewRedisSessionRepository(rdb, ttl), rdb, m)
		if err != nil {
			return err
		}

		return server.ListenAndServe(ctx, cfg.Server.Addr, server.NewHandler(runner, m, cfg.Server))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides SERVER_ADDR)")
}
