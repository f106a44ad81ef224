package main

import (
	"github.com/spf13/cobra"

	"github.com/litflow/litflow/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Litflow server via HTTP.

These commands require a running server (litflow serve).
Use --server to specify a custom server URL.

Examples:
  litflow api health                  # Check server health
  litflow api embeddings              # List embedding strategies
  litflow api strategies              # List processing strategies`,
}

var embeddingsCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Embedding strategy commands",
}

var retrievalsCmd = &cobra.Command{
	Use:   "retrieval",
	Short: "Retrieval strategy commands",
}

var strategiesCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Processing strategy commands",
}

var schemasCmd = &cobra.Command{
	Use:   "schema",
	Short: "Parser and extractor schema commands",
}

var storageCmd = &cobra.Command{
	Use:   "store",
	Short: "Storage inspection commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8580", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ListDatasetsEndpoint{}).Command(getServerURL))

	// Embedding strategies as subcommand group
	embeddingsCmd.AddCommand((&endpoints.ListEmbeddingsEndpoint{}).Command(getServerURL))
	embeddingsCmd.AddCommand((&endpoints.CreateEmbeddingEndpoint{}).Command(getServerURL))
	embeddingsCmd.AddCommand((&endpoints.GetEmbeddingEndpoint{}).Command(getServerURL))
	embeddingsCmd.AddCommand((&endpoints.SaveEmbeddingEndpoint{}).Command(getServerURL))
	embeddingsCmd.AddCommand((&endpoints.SetDefaultEmbeddingEndpoint{}).Command(getServerURL))
	embeddingsCmd.AddCommand((&endpoints.DeleteEmbeddingEndpoint{}).Command(getServerURL))
	embeddingsCmd.AddCommand((&endpoints.TestEmbeddingEndpoint{}).Command(getServerURL))
	embeddingsCmd.AddCommand((&endpoints.ListProvidersEndpoint{}).Command(getServerURL))

	// Retrieval strategies as subcommand group
	retrievalsCmd.AddCommand((&endpoints.ListRetrievalsEndpoint{}).Command(getServerURL))
	retrievalsCmd.AddCommand((&endpoints.CreateRetrievalEndpoint{}).Command(getServerURL))
	retrievalsCmd.AddCommand((&endpoints.GetRetrievalEndpoint{}).Command(getServerURL))
	retrievalsCmd.AddCommand((&endpoints.SaveRetrievalEndpoint{}).Command(getServerURL))
	retrievalsCmd.AddCommand((&endpoints.RenameRetrievalEndpoint{}).Command(getServerURL))
	retrievalsCmd.AddCommand((&endpoints.SetDefaultRetrievalEndpoint{}).Command(getServerURL))
	retrievalsCmd.AddCommand((&endpoints.DeleteRetrievalEndpoint{}).Command(getServerURL))
	retrievalsCmd.AddCommand((&endpoints.RetrievalCatalogEndpoint{}).Command(getServerURL))
	retrievalsCmd.AddCommand((&endpoints.BuildRetrievalEndpoint{}).Command(getServerURL))

	// Processing strategies as subcommand group
	strategiesCmd.AddCommand((&endpoints.ListStrategiesEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.CreateStrategyEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.GetStrategyEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.UpdateStrategyEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.DuplicateStrategyEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.SetDefaultStrategyEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.DeleteStrategyEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.RestoreStrategyEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.ReprocessStatusEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.SetReprocessEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.ReingestStrategyEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.ListParsersEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.SaveParsersEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.ListExtractorsEndpoint{}).Command(getServerURL))
	strategiesCmd.AddCommand((&endpoints.SaveExtractorsEndpoint{}).Command(getServerURL))

	// Schemas as subcommand group
	schemasCmd.AddCommand((&endpoints.SchemaCatalogEndpoint{}).Command(getServerURL))
	schemasCmd.AddCommand((&endpoints.GetSchemaEndpoint{}).Command(getServerURL))
	schemasCmd.AddCommand((&endpoints.SchemaDefaultsEndpoint{}).Command(getServerURL))

	// Storage as subcommand group
	storageCmd.AddCommand((&endpoints.ListKeysEndpoint{}).Command(getServerURL))
	storageCmd.AddCommand((&endpoints.GetEntryEndpoint{}).Command(getServerURL))
	storageCmd.AddCommand((&endpoints.DeleteEntryEndpoint{}).Command(getServerURL))

	// Event stream and swagger at top level
	apiCmd.AddCommand((&endpoints.EventsEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SwaggerEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SwaggerUIEndpoint{}).Command(getServerURL))

	apiCmd.AddCommand(embeddingsCmd)
	apiCmd.AddCommand(retrievalsCmd)
	apiCmd.AddCommand(strategiesCmd)
	apiCmd.AddCommand(schemasCmd)
	apiCmd.AddCommand(storageCmd)
	rootCmd.AddCommand(apiCmd)
}
