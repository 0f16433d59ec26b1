package domain

// ErrorKind classifies workflow errors.
type ErrorKind string

const (
	// KindTransport is a network failure at either stage.
	KindTransport ErrorKind = "transport"
	// KindSerialization means the credential payload could not be encoded.
	KindSerialization ErrorKind = "serialization"
	// KindInvalidEndpoint means a request could not be built for the configured URL.
	KindInvalidEndpoint ErrorKind = "invalid_endpoint"
	// KindAuthShape means the token response had no usable "access" field.
	KindAuthShape ErrorKind = "auth_shape"
	// KindFetchShape means the resource response had no usable "results" array.
	KindFetchShape ErrorKind = "fetch_shape"
	// KindDecode means one or more records failed validation. Never shown to users.
	KindDecode ErrorKind = "decode"
)

// User-facing messages for the fixed-message error kinds.
const (
	MsgSerialization        = "Failed to serialize authentication data"
	MsgInvalidAuthEndpoint  = "Invalid authentication URL"
	MsgInvalidFetchEndpoint = "Invalid API URL"
	MsgAuthShape            = "Invalid Credentials, failed to parse JSON response"
	MsgFetchShape           = "Failed to parse JSON or extract result array"
)

// Error is a classified workflow error. Message is exactly what the user sees.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error // underlying cause, may be nil
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error.
func NewError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}
