package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldSessionID is the chat session ID
	FieldSessionID = "session_id"

	// FieldArtistID is the artist aggregate ID
	FieldArtistID = "artist_id"

	// FieldArtworkID is the artwork aggregate ID
	FieldArtworkID = "artwork_id"
)

// Standard metric fields, attached at the log site for aggregation and alerting.
const (
	// FieldTier is the model tier rank servicing an inference request
	FieldTier = "tier"

	// FieldModel is the model identifier behind a tier
	FieldModel = "model"

	// FieldAttempt is the local retry attempt number within a tier
	FieldAttempt = "attempt"

	// FieldStorageKey is the object storage key of an uploaded artwork
	FieldStorageKey = "storage_key"

	// FieldStatus is the HTTP response status code
	FieldStatus = "status"

	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldSize is the data size in bytes
	FieldSize = "size"
)
