package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/johnrirwin/newsdesk/internal/models"
	"github.com/johnrirwin/newsdesk/internal/report"
)

const titleWidth = 70

func newTable(w io.Writer, header []string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(true)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

// ArticleTable prints one row per article
func ArticleTable(w io.Writer, articles []models.Article) {
	t := newTable(w, []string{"ID", "Date", "Source", "Categories", "Title"})
	for _, a := range articles {
		t.Append([]string{
			a.ID,
			models.FormatDateTime(a.PubDate),
			a.SourceName(),
			strings.Join(a.CategoryNames(), ", "),
			Truncate(a.Title, titleWidth),
		})
	}
	t.Render()
}

// FeedTable prints one row per feed source
func FeedTable(w io.Writer, feeds []models.FeedSource) {
	t := newTable(w, []string{"ID", "Name", "Active", "Articles", "Last Check", "URL"})
	for _, f := range feeds {
		active := "no"
		if f.IsActive {
			active = "yes"
		}
		t.Append([]string{
			f.ID,
			f.Name,
			active,
			strconv.Itoa(f.ArticleCount()),
			models.FormatDateTime(f.LastCheck),
			f.URL,
		})
	}
	t.Render()
}

// ReportHistoryTable prints past reports
func ReportHistoryTable(w io.Writer, reports []models.ReportHistory) {
	t := newTable(w, []string{"ID", "Type", "Start", "End", "Articles"})
	for _, r := range reports {
		t.Append([]string{
			r.ID,
			r.Type.Label(),
			models.FormatDay(r.StartDate),
			models.FormatDay(r.EndDate),
			strconv.Itoa(r.ArticleCount),
		})
	}
	t.Render()
}

// SummaryTable prints stored AI summaries
func SummaryTable(w io.Writer, summaries []models.Summary) {
	t := newTable(w, []string{"ID", "Start", "End", "Created", "Summary"})
	for _, s := range summaries {
		created := s.CreatedAt
		t.Append([]string{
			s.ID,
			models.FormatDay(s.StartDate),
			models.FormatDay(s.EndDate),
			models.FormatDateTime(&created),
			Truncate(s.Content, 60),
		})
	}
	t.Render()
}

// WordTable prints a word cloud as ranked rows
func WordTable(w io.Writer, words []report.CloudWord) {
	t := newTable(w, []string{"#", "Word", "Count", "Tier"})
	for i, cw := range words {
		t.Append([]string{strconv.Itoa(i + 1), cw.Word, strconv.Itoa(cw.Count), string(cw.Tier)})
	}
	t.Render()
}

// StatisticsTable prints corpus counters as key/value rows
func StatisticsTable(w io.Writer, s models.Statistics) {
	t := newTable(w, []string{"Metric", "Value"})
	t.AppendBulk([][]string{
		{"Total articles", strconv.Itoa(s.TotalArticles)},
		{"Sources", strconv.Itoa(s.TotalSources)},
		{"Categories", strconv.Itoa(s.TotalCategories)},
		{"Last 24h", strconv.Itoa(s.ArticlesLast24h)},
		{"Last 7 days", strconv.Itoa(s.ArticlesLast7days)},
	})
	t.Render()
}

// SentimentLine summarises a sentiment split on one line
func SentimentLine(s report.Sentiment) string {
	return fmt.Sprintf("Pozitif %d (%%%d)  Negatif %d (%%%d)  Nötr %d (%%%d)",
		s.Positive, s.Percent(s.Positive),
		s.Negative, s.Percent(s.Negative),
		s.Neutral, s.Percent(s.Neutral))
}

// SearchHistoryTable prints past web searches
func SearchHistoryTable(w io.Writer, entries []models.SearchHistoryEntry) {
	t := newTable(w, []string{"ID", "Created", "Days", "Query"})
	for _, e := range entries {
		created := e.CreatedAt
		t.Append([]string{
			e.ID,
			models.FormatDateTime(&created),
			strconv.Itoa(e.MaxDaysOld),
			Truncate(e.Query, titleWidth),
		})
	}
	t.Render()
}
