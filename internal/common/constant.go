// Package common contains constants and sentinel errors shared by the
// GastroHealth client and server.
package common

const (
	// AuthHeaderName carries the bearer token on authenticated requests.
	AuthHeaderName = "Authorization"

	// BearerPrefix precedes the token inside AuthHeaderName.
	BearerPrefix = "Bearer "

	// ContentTypeJSON is sent and expected on every API call.
	ContentTypeJSON = "application/json"
)
