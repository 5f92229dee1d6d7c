// Package client contains the client-side building blocks of PublicEye.
//
// # Overview
//
//  1. The Client interface: one method per REST endpoint the CLI uses
//     (session, profile, affiliation catalog, health).
//  2. HTTPClient, its net/http implementation. It resolves endpoint paths
//     against a base URL, injects "Authorization: Token <key>" while a
//     token is set, and maps failures to the sentinel errors below.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite file with embedded goose migrations.
//
// # Error Handling
//
// Transport failures and gateway errors wrap ErrUnavailable, 401/403 wrap
// ErrUnauthorized and a 404 on login is ErrInvalidCredentials. Any other
// non-2xx answer is an *APIError whose Message is flattened from the
// server's error body.
package client
