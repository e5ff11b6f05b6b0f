package main

import (
	"github.com/spf13/cobra"

	"github.com/medical-triage/server/internal/knowledge"
	logx "github.com/medical-triage/server/pkg/logger"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the medical knowledge index",
	Long:  `Loads the *.txt files under KNOWLEDGE_DIR, splits and embeds them, and stores them in the Redis vector index.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		dir := cfg.Knowledge.Dir
		if d, _ := cmd.Flags().GetString("dir"); d != "" {
			dir = d
		}
		force, _ := cmd.Flags().GetBool("force")
		ctx := cmd.Context()

		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Error().Err(err).Msg("Failed to initialise Redis client")
			return err
		}
		defer rdb.Close()

		emb, err := newEmbedder(ctx, cfg)
		if err != nil {
			return err
		}
		splitter, err := knowledge.NewSplitter(cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap)
		if err != nil {
			return err
		}

		in := &knowledge.Ingester{
			Loader:      knowledge.DirLoader{},
			Transformer: splitter,
			Embedder:    emb,
			Index:       newStore(rdb, cfg),
		}
		n, err := in.Ingest(ctx, dir, force)
		if err != nil {
			logx.Error().Err(err).Str("dir", dir).Msg("Ingest failed")
			return err
		}
		logx.Info().Str("dir", dir).Int("chunks", n).Msg("Ingest finished")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().String("dir", "", "Directory of .txt files (overrides KNOWLEDGE_DIR)")
	ingestCmd.Flags().Bool("force", false, "Re-ingest even if the index is already populated")
}
