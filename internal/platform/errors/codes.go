package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Event errors
	CodeEventUnknownType    Code = "EVENT_UNKNOWN_TYPE"
	CodeEventInvalidPayload Code = "EVENT_INVALID_PAYLOAD"
	CodeEventEmptySource    Code = "EVENT_EMPTY_SOURCE"

	// Storage errors
	CodeStorageNotConfigured Code = "STORAGE_NOT_CONFIGURED"
	CodeStorageNotFound      Code = "STORAGE_NOT_FOUND"

	// Generation errors
	CodeGenerationFailed Code = "GENERATION_FAILED"
	CodeGenerationEmpty  Code = "GENERATION_EMPTY_RESPONSE"
)
