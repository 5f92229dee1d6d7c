// Package common contains constants and sentinel errors shared by the
// PublicEye server and client.
package common

const (
	// AuthorizationHeaderName carries the session token on API requests.
	AuthorizationHeaderName = "Authorization"

	// TokenScheme prefixes the token in the Authorization header.
	TokenScheme = "Token"

	// BearerScheme is accepted by the server as an alias of TokenScheme.
	BearerScheme = "Bearer"

	// TokenStorageKey is the client-local storage key of the session token.
	TokenStorageKey = "token"

	// APIPrefix is the path prefix of every versioned endpoint.
	APIPrefix = "/api/v1"
)
