package knowledge

import "context"

// UseCase defines the business logic interface for the knowledge domain:
// the document corpus the chat engine retrieves context from.
type UseCase interface {
	// Ingest splits every matching file under a root into nodes, embeds them and stores them.
	Ingest(ctx context.Context, input IngestInput) (IngestOutput, error)

	// Retrieve returns the top-k nodes most similar to the query.
	Retrieve(ctx context.Context, input RetrieveInput) (RetrieveOutput, error)

	// DeleteDocument removes every node of a document.
	DeleteDocument(ctx context.Context, documentID string) error
}
