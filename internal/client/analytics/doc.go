// Package analytics computes journal statistics: writing streaks, the
// time of day entries are written and the most frequent words. All
// functions are pure and safe on empty input.
package analytics
