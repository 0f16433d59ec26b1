package domain

// Credential is the username/password pair submitted for one workflow invocation.
// It is never persisted or logged.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token is an opaque bearer token issued by the token endpoint.
// It lives only for the duration of one workflow invocation.
type Token string
