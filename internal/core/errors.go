package core

import "errors"

// Pipeline error taxonomy. Handlers and the ingestion worker classify with
// errors.Is; everything else wraps these with fmt.Errorf("...: %w", err).
var (
	// ErrUnsupportedFormat means no extractor exists for the file's
	// extension. Terminal for the document, but not a bug.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtractionFailed means the source file was corrupt or unreadable.
	ErrExtractionFailed = errors.New("document extraction failed")

	// ErrEmbeddingUnavailable means the embedding service kept failing
	// after the retry budget was spent.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDocumentNotFound means the referenced document record is missing.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrStoreFailure means chunk persistence failed; the queue's
	// redelivery policy decides whether to run the job again.
	ErrStoreFailure = errors.New("chunk store failure")
)
