package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Medical symptom triage assistant",
	Long: `A stage-driven chatbot that collects symptoms, suggests possible conditions
and recommends medical specialists. It never gives a diagnosis.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "Path of the env file to load")
}

// configFromFlags loads the configuration named by the --env-file flag.
func configFromFlags(cmd *cobra.Command) (*AppConfig, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	return loadConfig(envFile)
}
