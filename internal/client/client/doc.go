// Package client talks to the daybook backend.
//
// Client is the contract the sync engine and services consume; GRPCClient
// implements it over the JournalService gRPC API. GRPCClient attaches the
// access token to every call, refreshes it once when the server reports it
// expired and persists rotated tokens through a TokenStore.
//
// Failures are returned as *RemoteError wrapping one of the sentinels
// (ErrUnavailable, ErrUnauthorized, ErrNotSignedIn, ErrPermissionDenied)
// or a common error, so callers match them with errors.Is.
package client
