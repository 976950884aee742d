package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields propagated through the call chain.
const (
	// FieldRequestID is the gateway HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldSessionID is the batch-tracking session ID
	FieldSessionID = "session_id"

	// FieldBatchID is the analysis batch ID
	FieldBatchID = "batch_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"
)
