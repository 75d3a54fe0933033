package analytics

import (
	"time"

	"github.com/dmitrijs2005/daybook/internal/client/models"
)

// MinMeaningfulEntries is the number of completed entries below which the
// statistics are not worth showing.
const MinMeaningfulEntries = 3

type Summary struct {
	TotalEntries     int
	CompletedEntries int
	WithPhotos       int
	AverageWords     float64
	Streak           Streak
	TimeOfDay        TimeOfDayStats
	TopWords         []WordCount
	Meaningful       bool
}

// Summarize computes every statistic over the completed entries.
func Summarize(entries []models.Entry, today time.Time, loc *time.Location, topN int) Summary {
	completed := make([]models.Entry, 0, len(entries))
	dates := make([]string, 0, len(entries))
	words := 0
	photos := 0

	for _, e := range entries {
		if !e.IsComplete() {
			continue
		}
		completed = append(completed, e)
		dates = append(dates, e.Date)
		words += CountWords(e.Storyworthy) + CountWords(e.Thankful)
		if e.HasPhoto() {
			photos++
		}
	}

	s := Summary{
		TotalEntries:     len(entries),
		CompletedEntries: len(completed),
		WithPhotos:       photos,
		Streak:           CalculateStreak(dates, today),
		TimeOfDay:        TimeOfDay(completed, loc),
		TopWords:         WordFrequency(completed, topN),
		Meaningful:       len(completed) >= MinMeaningfulEntries,
	}
	if len(completed) > 0 {
		s.AverageWords = float64(words) / float64(len(completed))
	}
	return s
}
