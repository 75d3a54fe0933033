// Package cli is the daybook command-line client.
//
// Every command opens the local journal, does its work and exits; nothing
// needs the network except sign-in and sync. When a session exists, edits
// kick a background sync that the process drains before exiting. The watch
// command stays resident, syncing whenever the server comes back online and
// on an optional cron schedule.
package cli
