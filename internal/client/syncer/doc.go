// Package syncer reconciles the local entry store with the remote backend.
//
// One call to Engine.Run is one sync cycle: pull remote changes newer than
// the persisted watermark and merge them last-write-wins, then push every
// pending or never-synced local row. The engine never schedules itself;
// callers trigger it on sign-in, after local edits, on reconnect or on
// request.
package syncer
