package api

import (
	"context"
	"fmt"

	"github.com/johnrirwin/newsdesk/internal/apiclient"
	"github.com/johnrirwin/newsdesk/internal/logging"
	"github.com/johnrirwin/newsdesk/internal/models"
)

// Analytics is the word frequency and report resource
type Analytics struct {
	client *apiclient.Client
	logger *logging.Logger
}

func NewAnalytics(client *apiclient.Client, logger *logging.Logger) *Analytics {
	return &Analytics{client: client, logger: logger}
}

// GenerateWordFrequency runs a new word frequency analysis. It returns once the backend has stored it.
func (a *Analytics) GenerateWordFrequency(ctx context.Context, req models.WordFrequencyRequest) (*models.Envelope[models.WordFrequency], error) {
	var resp models.Envelope[models.WordFrequency]
	if err := a.client.Post(ctx, "/analytics/wordfrequency/generate", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to generate word frequency: %w", err)
	}
	return &resp, nil
}

// LatestWordFrequency returns the newest analysis; Data is nil when none exists yet
func (a *Analytics) LatestWordFrequency(ctx context.Context) (*models.Envelope[*models.WordFrequency], error) {
	resp, err := fetchAbsent[models.WordFrequency](ctx, a.client, "/analytics/wordfrequency/latest", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest word frequency: %w", err)
	}
	return resp, nil
}

// GenerateReport produces a report for the period. It returns once the backend has stored it.
func (a *Analytics) GenerateReport(ctx context.Context, t models.ReportType) (*models.Envelope[models.Report], error) {
	if !t.Valid() {
		return nil, invalidArgument("unknown report type %q", t)
	}
	var resp models.Envelope[models.Report]
	if err := a.client.Post(ctx, "/analytics/report/generate", models.ReportRequest{Type: t}, &resp); err != nil {
		return nil, fmt.Errorf("failed to generate %s report: %w", t, err)
	}
	a.logger.Info("Report generated", logging.WithFields(map[string]interface{}{
		"type": string(t),
		"id":   resp.Data.ID,
	}))
	return &resp, nil
}

// LatestReport returns the newest report of type t; Data is nil when none exists yet
func (a *Analytics) LatestReport(ctx context.Context, t models.ReportType) (*models.Envelope[*models.Report], error) {
	if !t.Valid() {
		return nil, invalidArgument("unknown report type %q", t)
	}
	resp, err := fetchAbsent[models.Report](ctx, a.client, "/analytics/report/latest", newQuery().add("type", string(t)).values())
	if err != nil {
		return nil, fmt.Errorf("failed to get latest %s report: %w", t, err)
	}
	return resp, nil
}

// ReportHistory lists past reports of type t, newest first
func (a *Analytics) ReportHistory(ctx context.Context, t models.ReportType, limit int) (*models.Envelope[[]models.ReportHistory], error) {
	if !t.Valid() {
		return nil, invalidArgument("unknown report type %q", t)
	}
	var resp models.Envelope[[]models.ReportHistory]
	q := newQuery().add("type", string(t)).addInt("limit", limit)
	if err := a.client.Get(ctx, "/analytics/report/history", q.values(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get %s report history: %w", t, err)
	}
	if resp.Data == nil {
		resp.Data = []models.ReportHistory{}
	}
	return &resp, nil
}

// Report returns one report by id
func (a *Analytics) Report(ctx context.Context, id string) (*models.Envelope[models.Report], error) {
	path, err := idPath("/analytics/report", id)
	if err != nil {
		return nil, err
	}
	var resp models.Envelope[models.Report]
	if err := a.client.Get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	return &resp, nil
}
