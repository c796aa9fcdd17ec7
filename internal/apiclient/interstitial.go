package apiclient

import (
	"bytes"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// isHTML reports whether a response declares an HTML body
func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "text/html")
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// pageTitle extracts the document title, falling back to the first heading
func pageTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func newInterstitialError(status int, contentType string, body []byte) *InterstitialError {
	return &InterstitialError{
		StatusCode:  status,
		ContentType: contentType,
		Title:       pageTitle(body),
	}
}
