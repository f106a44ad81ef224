package store

// Fixed list keys. Each holds a JSON-encoded array.
const (
	// KeyProjectEmbeddings holds the project's embedding strategy list.
	KeyProjectEmbeddings = "lf_project_embeddings"

	// KeyProjectRetrievals holds the project's retrieval strategy list.
	KeyProjectRetrievals = "lf_project_retrievals"

	// KeyCustomStrategies holds user-created processing strategies.
	KeyCustomStrategies = "lf_custom_strategies"

	// KeyDeletedStrategies holds ids of soft-deleted processing strategies.
	KeyDeletedStrategies = "lf_strategy_deleted"

	// KeyDefaultStrategy holds the id of the default processing strategy.
	// Built-in strategies live in code, so the default flag for the merged
	// view is a single pointer rather than a flag on each list entry.
	KeyDefaultStrategy = "lf_default_strategy"
)

// Per-entity key prefixes. Entity keys are prefix + entity id.
const (
	prefixEmbeddingConfig = "lf_strategy_embedding_config_"
	prefixEmbeddingModel  = "lf_strategy_embedding_model_"
	prefixRetrievalConfig = "lf_strategy_retrieval_"
	prefixParsers         = "lf_strategy_parsers_"
	prefixExtractors      = "lf_strategy_extractors_"
	prefixNameOverride    = "lf_strategy_name_override_"
	prefixDescription     = "lf_strategy_description_"
	prefixDatasetsUsing   = "lf_strategy_datasets_using_"
	prefixDatasets        = "lf_strategy_datasets_"
	prefixNeedsReprocess  = "lf_strategy_needs_reprocess_"
)

// EmbeddingConfigKey returns the key for a strategy's embedding config.
func EmbeddingConfigKey(id string) string { return prefixEmbeddingConfig + id }

// EmbeddingModelKey returns the key for a strategy's raw model id.
func EmbeddingModelKey(id string) string { return prefixEmbeddingModel + id }

// RetrievalConfigKey returns the key for a strategy's retrieval config.
func RetrievalConfigKey(id string) string { return prefixRetrievalConfig + id }

// ParsersKey returns the key for a strategy's parser rows.
func ParsersKey(id string) string { return prefixParsers + id }

// ExtractorsKey returns the key for a strategy's extractor rows.
func ExtractorsKey(id string) string { return prefixExtractors + id }

// NameOverrideKey returns the key for a strategy's name override.
func NameOverrideKey(id string) string { return prefixNameOverride + id }

// DescriptionKey returns the key for a strategy's description override.
func DescriptionKey(id string) string { return prefixDescription + id }

// DatasetsUsingKey returns the key for dataset names using a strategy.
func DatasetsUsingKey(id string) string { return prefixDatasetsUsing + id }

// DatasetsKey returns the key for a strategy's assigned dataset names.
func DatasetsKey(id string) string { return prefixDatasets + id }

// NeedsReprocessKey returns the key for a strategy's reprocess flag ("0"/"1").
func NeedsReprocessKey(id string) string { return prefixNeedsReprocess + id }
