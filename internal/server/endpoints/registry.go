package endpoints

import (
	"github.com/litflow/litflow/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Embedding strategy endpoints
		&ListEmbeddingsEndpoint{},
		&CreateEmbeddingEndpoint{},
		&GetEmbeddingEndpoint{},
		&SaveEmbeddingEndpoint{},
		&SetDefaultEmbeddingEndpoint{},
		&DeleteEmbeddingEndpoint{},
		&TestEmbeddingEndpoint{},
		&ListProvidersEndpoint{},

		// Retrieval strategy endpoints
		&ListRetrievalsEndpoint{},
		&CreateRetrievalEndpoint{},
		&GetRetrievalEndpoint{},
		&SaveRetrievalEndpoint{},
		&RenameRetrievalEndpoint{},
		&SetDefaultRetrievalEndpoint{},
		&DeleteRetrievalEndpoint{},
		&RetrievalCatalogEndpoint{},
		&BuildRetrievalEndpoint{},

		// Processing strategy endpoints
		&ListStrategiesEndpoint{},
		&CreateStrategyEndpoint{},
		&GetStrategyEndpoint{},
		&UpdateStrategyEndpoint{},
		&DuplicateStrategyEndpoint{},
		&SetDefaultStrategyEndpoint{},
		&DeleteStrategyEndpoint{},
		&RestoreStrategyEndpoint{},
		&ReprocessStatusEndpoint{},
		&SetReprocessEndpoint{},
		&ReingestStrategyEndpoint{},

		// Project dataset proxy
		&ListDatasetsEndpoint{},

		// Parser and extractor row endpoints
		&ListParsersEndpoint{},
		&SaveParsersEndpoint{},
		&ListExtractorsEndpoint{},
		&SaveExtractorsEndpoint{},

		// Schema catalog endpoints
		&SchemaCatalogEndpoint{},
		&GetSchemaEndpoint{},
		&SchemaDefaultsEndpoint{},

		// Storage inspection endpoints
		&ListKeysEndpoint{},
		&GetEntryEndpoint{},
		&DeleteEntryEndpoint{},

		// Event stream
		&EventsEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},
	}
}
