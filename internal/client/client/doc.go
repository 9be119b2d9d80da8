// Package client is the GastroHealth API gateway used by the terminal client.
//
// # Overview
//
// The package provides:
//  1. A transport contract (see the Client interface) covering the account
//     endpoints (Register, Login, Me, SaveAPIKey, SaveProfile, AddSymptom)
//     and the AI proxy endpoints (GenerateMealPlan, CheckFood,
//     AnalyzeTriggers, SuggestRecipe).
//  2. An HTTP implementation (see HTTPClient) that serializes JSON bodies,
//     attaches the bearer token held by a TokenStore and funnels every
//     response through one status handler.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring the
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// A 401 or 403 clears the stored token, fires the unauthorized handler and
// returns an *AuthError, which matches ErrUnauthorized. Any other non-2xx
// status yields a *RequestError carrying the server message, which matches
// ErrRequest. Transport failures match ErrUnavailable.
//
// The client never retries and sets no timeout of its own; cancellation is
// left to the caller's context.
package client
