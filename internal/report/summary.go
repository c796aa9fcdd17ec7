// Package report interprets the AI-generated content of analytics reports.
//
// The backend stores a report summary either as a JSON document or as
// markdown-like prose with an embedded sentiment block. Nothing here computes
// analytics; it only reads what the backend produced.
package report

import (
	"bytes"
	"encoding/json"

	"github.com/johnrirwin/newsdesk/internal/logging"
	"github.com/johnrirwin/newsdesk/internal/models"
)

// Kind says how a report summary was written
type Kind int

const (
	KindText Kind = iota
	KindStructured
)

func (k Kind) String() string {
	if k == KindStructured {
		return "structured"
	}
	return "text"
}

// Structured is the JSON form of a report summary
type Structured struct {
	ReportTitle string          `json:"reportTitle,omitempty"`
	Period      *Period         `json:"period,omitempty"`
	Summary     *Sections       `json:"summary,omitempty"`
	Statistics  *Sentiment      `json:"statistics,omitempty"`
	Highlights  []string        `json:"highlights,omitempty"`
	Categories  []CategoryShare `json:"categories,omitempty"`
	Conclusion  string          `json:"conclusion,omitempty"`
}

type Period struct {
	Type          string `json:"type"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	TotalArticles int    `json:"totalArticles"`
}

// Sections are the prose parts of a structured summary
type Sections struct {
	GeneralOverview          string `json:"generalOverview,omitempty"`
	KeyTopics                string `json:"keyTopics,omitempty"`
	PositiveNegativeAnalysis string `json:"positiveNegativeAnalysis,omitempty"`
	TrendAnalysis            string `json:"trendAnalysis,omitempty"`
	ImportantEvents          string `json:"importantEvents,omitempty"`
}

type CategoryShare struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Summary is a report summary after dispatch. Exactly one of Structured and Text is meaningful.
type Summary struct {
	Kind       Kind
	Structured *Structured
	Text       string
}

// ParseSummary decides whether s is a structured JSON document or prose
func ParseSummary(s string) Summary {
	trimmed := bytes.TrimSpace([]byte(s))
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var st Structured
		if err := json.Unmarshal(trimmed, &st); err == nil {
			return Summary{Kind: KindStructured, Structured: &st}
		}
	}
	return Summary{Kind: KindText, Text: s}
}

// Title returns the structured title, or the label for the report type
func (s Summary) Title(t models.ReportType) string {
	if s.Structured != nil && s.Structured.ReportTitle != "" {
		return s.Structured.ReportTitle
	}
	return t.Label()
}

// Interpretation is everything a view needs from one report
type Interpretation struct {
	Report    models.Report
	Summary   Summary
	Sentiment *Sentiment
	// Body is the prose with sentiment blocks and numeric sections removed
	Body      string
	WordCloud []CloudWord
}

// Interpreter turns reports into views and records which summary form each used
type Interpreter struct {
	logger *logging.Logger
}

func NewInterpreter(logger *logging.Logger) *Interpreter {
	return &Interpreter{logger: logger}
}

// Interpret dispatches the summary, reads the sentiment and builds the word cloud
func (i *Interpreter) Interpret(r models.Report) Interpretation {
	out := Interpretation{
		Report:    r,
		Summary:   ParseSummary(r.Summary),
		WordCloud: BuildWordCloud(r.WordCloud, DefaultMaxWords),
	}

	switch out.Summary.Kind {
	case KindStructured:
		out.Sentiment = out.Summary.Structured.Statistics
	default:
		i.logger.Debug("Report summary is prose, not JSON", logging.WithFields(map[string]interface{}{
			"reportId": r.ID,
			"type":     string(r.Type),
		}))
		if s, ok := ExtractSentiment(r.Summary); ok {
			out.Sentiment = &s
		}
		out.Body = CleanText(r.Summary)
	}
	return out
}
