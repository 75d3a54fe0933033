package analytics

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dmitrijs2005/daybook/internal/client/models"
)

type WordCount struct {
	Word  string
	Count int
}

var wordRe = regexp.MustCompile(`\b[a-z]{3,}\b`)

var stopWords = toSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can", "had", "her", "was", "one",
	"our", "out", "day", "get", "has", "him", "his", "how", "man", "new", "now", "old", "see", "two",
	"way", "who", "boy", "did", "its", "let", "put", "say", "she", "too", "use", "that", "with",
	"have", "this", "will", "your", "from", "they", "know", "want", "been", "good", "much", "some",
	"time", "very", "when", "come", "here", "just", "like", "long", "make", "many", "over", "such",
	"take", "than", "them", "well", "were", "what", "about", "after", "again", "also", "because",
	"before", "being", "could", "into", "more", "most", "only", "other", "should", "their", "there",
	"these", "then", "which", "while", "would", "really", "today", "got", "went", "felt", "feel",
	"thankful", "grateful", "storyworthy",
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// WordFrequency counts words of three or more letters across both text
// fields of every entry, skipping stop words, and returns the topN most
// frequent. Ties keep the order in which words were first seen. topN <= 0
// returns every word.
func WordFrequency(entries []models.Entry, topN int) []WordCount {
	counts := map[string]int{}
	firstSeen := map[string]int{}

	for _, e := range entries {
		text := strings.ToLower(e.Storyworthy + " " + e.Thankful)
		for _, w := range wordRe.FindAllString(text, -1) {
			if _, stop := stopWords[w]; stop {
				continue
			}
			if _, ok := firstSeen[w]; !ok {
				firstSeen[w] = len(firstSeen)
			}
			counts[w]++
		}
	}

	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Word] < firstSeen[out[j].Word]
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// CountWords counts whitespace separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
