package report

import (
	"regexp"
	"strconv"
	"strings"
)

// Sentiment counts articles by tone
type Sentiment struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

func (s Sentiment) Total() int {
	return s.Positive + s.Negative + s.Neutral
}

// Percent returns n as a whole percentage of the total, 0 when there is nothing to divide
func (s Sentiment) Percent(n int) int {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return (n*100 + total/2) / total
}

var (
	sentimentBlock = regexp.MustCompile("```json\\s*\\n?\\s*\\{\\s*\"positive\":\\s*(\\d+),\\s*\"negative\":\\s*(\\d+),\\s*\"nötr\":\\s*(\\d+)\\s*\\}\\s*```")
	jsonFence      = regexp.MustCompile("(?s)```json.*?```")
)

// numericSectionMarkers start the machine-readable tail of a prose report
var numericSectionMarkers = []string{
	"**6. Sayısal Analiz**",
	"6. Sayısal Analiz",
	"**6. Duygu Analizi (JSON Çıktısı)**",
	"6. Haber Sayısal Analizi (JSON Çıktısı)",
}

// ExtractSentiment reads the fenced {"positive","negative","nötr"} block from prose
func ExtractSentiment(s string) (Sentiment, bool) {
	m := sentimentBlock.FindStringSubmatch(s)
	if m == nil {
		return Sentiment{}, false
	}
	pos, _ := strconv.Atoi(m[1])
	neg, _ := strconv.Atoi(m[2])
	neu, _ := strconv.Atoi(m[3])
	return Sentiment{Positive: pos, Negative: neg, Neutral: neu}, true
}

// CleanText drops fenced JSON blocks and everything from the numeric analysis section on
func CleanText(s string) string {
	s = jsonFence.ReplaceAllString(s, "")

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if isNumericSection(line) {
			break
		}
		kept = append(kept, line)
	}
	return strings.TrimRight(strings.Join(kept, "\n"), " \n")
}

func isNumericSection(line string) bool {
	for _, marker := range numericSectionMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
