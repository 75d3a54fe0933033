// Package drafts keeps unsaved journal work, one draft per date, so an
// interrupted "add" can be resumed. A draft is removed once the entry for
// its date is saved.
package drafts
