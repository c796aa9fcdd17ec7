package report

import "github.com/johnrirwin/newsdesk/internal/models"

const (
	// DefaultMaxWords is the number of words a full word cloud shows
	DefaultMaxWords = 30
	// SidebarWords is the number of words the compact cloud shows
	SidebarWords = 15
)

// Tier buckets a word by relative frequency
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// CloudWord is a word with its display weight
type CloudWord struct {
	Word        string  `json:"word"`
	Count       int     `json:"count"`
	FontSizeRem float64 `json:"fontSizeRem"`
	Opacity     float64 `json:"opacity"`
	Tier        Tier    `json:"tier"`
}

// BuildWordCloud weights the first maxWords words between their minimum and maximum counts.
// maxWords <= 0 uses DefaultMaxWords. Input order is kept.
func BuildWordCloud(words []models.WordCount, maxWords int) []CloudWord {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	out := make([]CloudWord, 0, len(words))
	if len(words) == 0 {
		return out
	}

	lo, hi := words[0].Count, words[0].Count
	for _, w := range words[1:] {
		if w.Count < lo {
			lo = w.Count
		}
		if w.Count > hi {
			hi = w.Count
		}
	}
	span := float64(hi - lo)
	if span == 0 {
		span = 1
	}

	for _, w := range words {
		n := float64(w.Count-lo) / span
		out = append(out, CloudWord{
			Word:        w.Word,
			Count:       w.Count,
			FontSizeRem: 0.75 + n*2,
			Opacity:     0.6 + n*0.4,
			Tier:        tierFor(n),
		})
	}
	return out
}

func tierFor(n float64) Tier {
	switch {
	case n > 0.7:
		return TierHigh
	case n > 0.4:
		return TierMedium
	default:
		return TierLow
	}
}
