// Package render turns backend text into HTML for the dashboard and into plain text and tables for the terminal.
package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const paragraphOpen = `<p class="mb-4 text-gray-800 leading-relaxed">`

// rule is one substitution of the AI response chain
type rule struct {
	re   *regexp.Regexp
	repl string
}

// aiResponseRules run in order; later rules see the output of earlier ones
var aiResponseRules = []rule{
	{regexp.MustCompile(`(?m)^#### (.*)$`), `<h4 class="text-lg font-semibold text-gray-900 mt-6 mb-3 border-l-4 border-blue-400 pl-3">$1</h4>`},
	{regexp.MustCompile(`(?m)^### (.*)$`), `<h3 class="text-xl font-bold text-gray-900 mt-8 mb-4 border-b border-gray-200 pb-2">$1</h3>`},
	{regexp.MustCompile(`(?m)^## (.*)$`), `<h2 class="text-2xl font-bold text-gray-900 mt-10 mb-6 border-b-2 border-blue-200 pb-3">$1</h2>`},
	{regexp.MustCompile(`(?m)^# (.*)$`), `<h1 class="text-3xl font-bold text-gray-900 mt-12 mb-8">$1</h1>`},
	{regexp.MustCompile(`\*\*(.*?)\*\*`), `<strong class="font-semibold text-gray-900">$1</strong>`},
	{regexp.MustCompile(`\n\n`), `</p>` + paragraphOpen},
}

var listRules = []rule{
	{regexp.MustCompile(`(?m)^\d+\.\s+(.*)$`), `<li class="mb-2 ml-4">$1</li>`},
	{regexp.MustCompile(`(?m)^[-•]\s+(.*)$`), `<li class="mb-2 ml-4 list-disc">$1</li>`},
	{regexp.MustCompile(`(?:<li class="mb-2 ml-4[^"]*">.*?</li>\s*)+`), `<ul class="mb-4 ml-6 space-y-1">$0</ul>`},
	{regexp.MustCompile(`(<h[1-3][^>]*>)`), `<div class="mt-6">$1`},
	{regexp.MustCompile(`(</h[1-3]>)`), `$1</div>`},
}

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	return p
}

// FormatAIResponse converts the markdown-ish text of an AI answer to sanitised HTML
func FormatAIResponse(text string) string {
	if text == "" {
		return ""
	}

	out := text
	for _, r := range aiResponseRules {
		out = r.re.ReplaceAllString(out, r.repl)
	}
	out = paragraphOpen + out + "</p>"
	out = strings.ReplaceAll(out, paragraphOpen+"</p>", "")
	for _, r := range listRules {
		out = r.re.ReplaceAllString(out, r.repl)
	}

	return Sanitize(out)
}

// Sanitize strips anything but safe formatting markup and class attributes
func Sanitize(s string) string {
	return policy.Sanitize(s)
}

// ReportHTML renders the cleaned prose of a text report line by line
func ReportHTML(body string) string {
	var b strings.Builder
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "### "):
			b.WriteString(`<h3 class="text-lg font-bold text-gray-900 mt-6 mb-3">` + html.EscapeString(strings.TrimPrefix(line, "### ")) + "</h3>")
		case strings.HasPrefix(line, "#### "):
			b.WriteString(`<h4 class="text-base font-semibold text-gray-800 mt-4 mb-2">` + html.EscapeString(strings.TrimPrefix(line, "#### ")) + "</h4>")
		case len(line) > 4 && strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**"):
			b.WriteString(`<p class="font-semibold text-gray-800 mt-3 mb-2">` + html.EscapeString(strings.ReplaceAll(line, "**", "")) + "</p>")
		case strings.HasPrefix(trimmed, "*   "):
			b.WriteString(`<li class="ml-4 mb-1 text-gray-700">` + html.EscapeString(strings.Replace(line, "*   ", "", 1)) + "</li>")
		case strings.HasPrefix(trimmed, "* "):
			b.WriteString(`<li class="ml-4 mb-1 text-gray-700">` + html.EscapeString(strings.Replace(line, "* ", "", 1)) + "</li>")
		case trimmed == "---":
			b.WriteString(`<hr class="my-4 border-gray-300">`)
		case trimmed == "":
			b.WriteString("<br>")
		default:
			b.WriteString(`<p class="mb-2 text-gray-700">` + html.EscapeString(line) + "</p>")
		}
		b.WriteString("\n")
	}
	return Sanitize(b.String())
}
