package render

import (
	"fmt"
	"strings"

	"github.com/johnrirwin/newsdesk/internal/report"
)

var sectionTitles = []struct {
	title string
	text  func(*report.Sections) string
}{
	{"Genel Değerlendirme", func(s *report.Sections) string { return s.GeneralOverview }},
	{"Öne Çıkan Konular", func(s *report.Sections) string { return s.KeyTopics }},
	{"Olumlu ve Olumsuz Gelişmeler", func(s *report.Sections) string { return s.PositiveNegativeAnalysis }},
	{"Trend Analizi", func(s *report.Sections) string { return s.TrendAnalysis }},
	{"Önemli Olaylar", func(s *report.Sections) string { return s.ImportantEvents }},
}

// StructuredMarkdown lays a structured summary out as the markdown-ish text FormatAIResponse reads
func StructuredMarkdown(st *report.Structured) string {
	if st == nil {
		return ""
	}

	var parts []string
	if st.Summary != nil {
		for _, sec := range sectionTitles {
			if text := strings.TrimSpace(sec.text(st.Summary)); text != "" {
				parts = append(parts, "### "+sec.title+"\n"+text)
			}
		}
	}
	if len(st.Highlights) > 0 {
		lines := make([]string, len(st.Highlights))
		for i, h := range st.Highlights {
			lines[i] = "- " + h
		}
		parts = append(parts, "### Öne Çıkanlar\n"+strings.Join(lines, "\n"))
	}
	if len(st.Categories) > 0 {
		lines := make([]string, len(st.Categories))
		for i, c := range st.Categories {
			lines[i] = fmt.Sprintf("- **%s**: %d haber (%%%.0f)", c.Name, c.Count, c.Percentage)
		}
		parts = append(parts, "### Kategoriler\n"+strings.Join(lines, "\n"))
	}
	if text := strings.TrimSpace(st.Conclusion); text != "" {
		parts = append(parts, "### Sonuç\n"+text)
	}
	return strings.Join(parts, "\n\n")
}

// InterpretationHTML renders whichever summary form the report carries
func InterpretationHTML(in report.Interpretation) string {
	if in.Summary.Kind == report.KindStructured {
		return FormatAIResponse(StructuredMarkdown(in.Summary.Structured))
	}
	return ReportHTML(in.Body)
}
