package models

import (
	"fmt"
	"strings"
	"time"
)

// ReportType is the period an analytics report covers
type ReportType string

const (
	ReportDaily   ReportType = "daily"
	ReportWeekly  ReportType = "weekly"
	ReportMonthly ReportType = "monthly"
)

// AllReportTypes returns the supported report periods
func AllReportTypes() []ReportType {
	return []ReportType{ReportDaily, ReportWeekly, ReportMonthly}
}

// ParseReportType validates a report type string
func ParseReportType(s string) (ReportType, error) {
	t := ReportType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown report type %q (want daily, weekly or monthly)", s)
	}
	return t, nil
}

func (t ReportType) Valid() bool {
	switch t {
	case ReportDaily, ReportWeekly, ReportMonthly:
		return true
	}
	return false
}

// Label returns the dashboard's display name for the report type
func (t ReportType) Label() string {
	switch t {
	case ReportDaily:
		return "Günlük Rapor"
	case ReportWeekly:
		return "Haftalık Rapor"
	case ReportMonthly:
		return "Aylık Rapor"
	default:
		return "Rapor"
	}
}

// WordCount is one entry of a word frequency table
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Report is a generated analytics report
type Report struct {
	ID           string      `json:"id"`
	Type         ReportType  `json:"type"`
	StartDate    time.Time   `json:"startDate"`
	EndDate      time.Time   `json:"endDate"`
	ArticleCount int         `json:"articleCount"`
	Summary      string      `json:"summary"`
	WordCloud    []WordCount `json:"wordCloud,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// ReportHistory is the listing form of a report, without its content
type ReportHistory struct {
	ID           string     `json:"id"`
	Type         ReportType `json:"type"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	ArticleCount int        `json:"articleCount"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// WordFrequency is a generated word frequency analysis
type WordFrequency struct {
	ID           string      `json:"id"`
	Words        []WordCount `json:"words"`
	StartDate    *time.Time  `json:"startDate,omitempty"`
	EndDate      *time.Time  `json:"endDate,omitempty"`
	ArticleCount int         `json:"articleCount,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// WordFrequencyRequest scopes a word frequency generation. Zero values use backend defaults.
type WordFrequencyRequest struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Limit     int        `json:"limit,omitempty"`
}

// ReportRequest is the body for generating a report
type ReportRequest struct {
	Type ReportType `json:"type"`
}
