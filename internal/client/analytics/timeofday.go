package analytics

import (
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/models"
)

type Band string

const (
	Morning   Band = "morning"
	Afternoon Band = "afternoon"
	Evening   Band = "evening"
	Night     Band = "night"
)

// Bands in display and tie-break order.
var Bands = []Band{Morning, Afternoon, Evening, Night}

type TimeOfDayStats struct {
	Morning   int
	Afternoon int
	Evening   int
	Night     int
	// Dominant is the band with the most entries, "" with no entries.
	Dominant Band
}

func (s TimeOfDayStats) Count(b Band) int {
	switch b {
	case Morning:
		return s.Morning
	case Afternoon:
		return s.Afternoon
	case Evening:
		return s.Evening
	case Night:
		return s.Night
	}
	return 0
}

// BandOf maps an hour to morning [5,11), afternoon [11,17), evening
// [17,21) or night [21,5).
func BandOf(hour int) Band {
	switch {
	case hour >= 5 && hour < 11:
		return Morning
	case hour >= 11 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 21:
		return Evening
	default:
		return Night
	}
}

// TimeOfDay buckets entries by the local hour of CreatedAt. Entries
// without a creation time are skipped.
func TimeOfDay(entries []models.Entry, loc *time.Location) TimeOfDayStats {
	if loc == nil {
		loc = time.Local
	}

	var s TimeOfDayStats
	for _, e := range entries {
		if e.CreatedAt == 0 {
			continue
		}
		switch BandOf(time.UnixMilli(e.CreatedAt).In(loc).Hour()) {
		case Morning:
			s.Morning++
		case Afternoon:
			s.Afternoon++
		case Evening:
			s.Evening++
		case Night:
			s.Night++
		}
	}

	best := 0
	for _, b := range Bands {
		if c := s.Count(b); c > best {
			best = c
			s.Dominant = b
		}
	}
	return s
}
