package models

import "time"

// Summary is a stored AI summary over a date range
type Summary struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Prompt    string    `json:"prompt,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Count     *Count    `json:"_count,omitempty"`
}

// SummarizeRequest asks the backend to summarise articles in a date range
type SummarizeRequest struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Prompt    string    `json:"prompt,omitempty"`
}

// SummaryResult is the data of a summarize response
type SummaryResult struct {
	ID           string `json:"id,omitempty"`
	Summary      string `json:"summary"`
	ArticleCount int    `json:"articleCount,omitempty"`
}

// SummaryPage is a page of stored summaries
type SummaryPage struct {
	Summaries  []Summary  `json:"summaries"`
	Pagination Pagination `json:"pagination"`
}

// WebSearchRequest asks the backend for a grounded web search
type WebSearchRequest struct {
	Query      string `json:"query"`
	MaxDaysOld int    `json:"maxDaysOld"`
}

// WebSource is a cited web page
type WebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// GroundingChunk is one source backing a web search answer
type GroundingChunk struct {
	Web *WebSource `json:"web,omitempty"`
}

// GeminiSearchResult is the data of a web search response
type GeminiSearchResult struct {
	Text              string           `json:"text"`
	Sources           []GroundingChunk `json:"sources"`
	SearchQueries     []string         `json:"searchQueries"`
	TextWithCitations string           `json:"textWithCitations,omitempty"`
	SourcesCount      int              `json:"sourcesCount"`
}

// DisplayText prefers the cited variant of the answer
func (r GeminiSearchResult) DisplayText() string {
	if r.TextWithCitations != "" {
		return r.TextWithCitations
	}
	return r.Text
}

// SearchHistoryEntry is one past web search
type SearchHistoryEntry struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	MaxDaysOld int       `json:"maxDaysOld,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SearchHistoryPage is a page of past web searches
type SearchHistoryPage struct {
	History    []SearchHistoryEntry `json:"history"`
	Pagination Pagination           `json:"pagination"`
}
