// Package services holds the client application services the CLI drives:
// entry CRUD with drafts and photo processing, sign-in, and the
// asynchronous sync trigger.
package services
