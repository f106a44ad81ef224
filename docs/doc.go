// Package docs provides generated OpenAPI documentation.
//
// Litflow API
//
//	@title			Litflow API
//	@version		1.0
//	@description	RAG pipeline configuration service for embedding, retrieval, and processing strategies.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/litflow/litflow
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8580
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/litflow/serve.go -o ./swagger --parseDependency --parseInternal
