package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnrirwin/newsdesk/internal/apiclient"
	"github.com/johnrirwin/newsdesk/internal/logging"
	"github.com/johnrirwin/newsdesk/internal/models"
)

// DefaultMaxDaysOld bounds web search results when the caller gives no limit
const DefaultMaxDaysOld = 7

// Gemini is the AI summary and web search resource
type Gemini struct {
	client *apiclient.Client
	logger *logging.Logger
}

func NewGemini(client *apiclient.Client, logger *logging.Logger) *Gemini {
	return &Gemini{client: client, logger: logger}
}

// Summarize asks the backend to summarise the articles published in a date range
func (g *Gemini) Summarize(ctx context.Context, req models.SummarizeRequest) (*models.Envelope[models.SummaryResult], error) {
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, invalidArgument("start and end dates are required")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, invalidArgument("end date is before start date")
	}
	req.Prompt = strings.TrimSpace(req.Prompt)

	var resp models.Envelope[models.SummaryResult]
	if err := g.client.Post(ctx, "/gemini/summarize", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to summarize articles: %w", err)
	}
	return &resp, nil
}

// SearchWeb runs a grounded web search. maxDaysOld <= 0 uses DefaultMaxDaysOld.
func (g *Gemini) SearchWeb(ctx context.Context, q string, maxDaysOld int) (*models.Envelope[models.GeminiSearchResult], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalidArgument("search query is required")
	}
	if maxDaysOld <= 0 {
		maxDaysOld = DefaultMaxDaysOld
	}

	var resp models.Envelope[models.GeminiSearchResult]
	if err := g.client.Post(ctx, "/gemini/search", models.WebSearchRequest{Query: q, MaxDaysOld: maxDaysOld}, &resp); err != nil {
		return nil, fmt.Errorf("failed to search web: %w", err)
	}
	return &resp, nil
}

// Summaries returns a page of stored summaries
func (g *Gemini) Summaries(ctx context.Context, page, limit int) (*models.Envelope[models.SummaryPage], error) {
	var resp models.Envelope[models.SummaryPage]
	if err := g.client.Get(ctx, "/gemini/summaries", newQuery().addInt("page", page).addInt("limit", limit).values(), &resp); err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	if resp.Data.Summaries == nil {
		resp.Data.Summaries = []models.Summary{}
	}
	return &resp, nil
}

// SearchHistory returns a page of past web searches
func (g *Gemini) SearchHistory(ctx context.Context, page, limit int) (*models.Envelope[models.SearchHistoryPage], error) {
	var resp models.Envelope[models.SearchHistoryPage]
	if err := g.client.Get(ctx, "/gemini/search-history", newQuery().addInt("page", page).addInt("limit", limit).values(), &resp); err != nil {
		return nil, fmt.Errorf("failed to list search history: %w", err)
	}
	if resp.Data.History == nil {
		resp.Data.History = []models.SearchHistoryEntry{}
	}
	return &resp, nil
}
