package syncer

import "fmt"

// Summary is the one-line report shown after a cycle, plus a failure count
// line when any row failed.
func Summary(r *Result) string {
	if r == nil {
		return ""
	}
	s := fmt.Sprintf("Synced: %d up, %d down", r.Pushed, r.Pulled)
	switch {
	case r.Errors == 1:
		s += "\n1 entry failed to sync"
	case r.Errors > 1:
		s += fmt.Sprintf("\n%d entries failed to sync", r.Errors)
	}
	return s
}
