// Package oauth acquires and caches OAuth2 client-credentials tokens for
// outgoing API requests.
//
// # Architecture
//
// A Registration names one client-credentials configuration: client id,
// client secret and token endpoint. A ClientCredentialsSource turns a
// Registration into bearer tokens:
//
//  1. A cached token is returned while it is outside the expiry margin
//  2. Otherwise one request is made to the token endpoint; concurrent
//     callers for the same registration wait for that request
//  3. The new token is written to the TokenStore and returned
//
// AuthorizeRequests plugs a TokenSource into a request pipeline so every
// outgoing request carries "Authorization: Bearer <token>".
//
// # Components
//
//   - TokenStore: token cache keyed by registration id
//   - MemoryTokenStore: process-local cache
//   - BoltTokenStore: cache persisted in a bbolt file, shared across runs
//   - ClientCredentialsSource: token acquisition built on x/oauth2
//   - Registry: lookup of token sources by registration id
//
// # Security
//
// Client secrets and access tokens are never logged. Use Token.Redacted
// when a token has to appear in a log statement or a struct that may be
// printed. The bbolt file is created with 0600 permissions.
package oauth
