package main

import (
	"github.com/spf13/cobra"

	"github.com/litflow/litflow/internal/api"
	"github.com/litflow/litflow/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "litflow",
	Short: "RAG pipeline configuration designer",
	Long: `Litflow is a configuration designer for retrieval-augmented generation
pipelines. It manages a project's embedding, retrieval, and processing
strategies and hands validated configurations to the project API.

The service provides:
  - Embedding strategy configs with provider catalog and connection probes
  - Retrieval strategy payloads for five strategy variants
  - Processing strategies with schema-validated parser and extractor tables`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.litflow/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "litflow home directory (default: ~/.litflow)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
