// Package common contains shared constants and sentinel errors used across
// Daybook components.
package common

// AccessTokenHeaderName is the gRPC/HTTP metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// AppName is written into export documents and used as the default
// database file prefix.
const AppName = "daybook"
