package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnrirwin/newsdesk/internal/apiclient"
	"github.com/johnrirwin/newsdesk/internal/logging"
	"github.com/johnrirwin/newsdesk/internal/models"
)

// Articles is the article resource
type Articles struct {
	client *apiclient.Client
	logger *logging.Logger
}

func NewArticles(client *apiclient.Client, logger *logging.Logger) *Articles {
	return &Articles{client: client, logger: logger}
}

// List returns a page of articles matching params
func (a *Articles) List(ctx context.Context, params models.ArticleParams) (*models.Envelope[models.ArticlePage], error) {
	q := newQuery().
		addInt("page", params.Page).
		addInt("limit", params.Limit).
		add("sourceId", params.SourceID).
		add("categoryId", params.CategoryID).
		addList("categoryNames", params.CategoryNames).
		addTime("startDate", params.StartDate).
		addTime("endDate", params.EndDate).
		add("search", params.Search)

	var resp models.Envelope[models.ArticlePage]
	if err := a.client.Get(ctx, "/articles", q.values(), &resp); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	if resp.Data.Articles == nil {
		resp.Data.Articles = []models.Article{}
	}
	return &resp, nil
}

// Get returns a single article
func (a *Articles) Get(ctx context.Context, id string) (*models.Envelope[models.Article], error) {
	path, err := idPath("/articles", id)
	if err != nil {
		return nil, err
	}
	var resp models.Envelope[models.Article]
	if err := a.client.Get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get article %s: %w", id, err)
	}
	return &resp, nil
}

// Latest returns the newest articles in a fixed shape whatever the backend sends
func (a *Articles) Latest(ctx context.Context, limit int) (*models.LatestArticles, error) {
	var raw json.RawMessage
	if err := a.client.Get(ctx, "/articles/latest", newQuery().addInt("limit", limit).values(), &raw); err != nil {
		return nil, fmt.Errorf("failed to get latest articles: %w", err)
	}

	shape, articles := decodeLatest(raw)
	if shape == shapeUnrecognized {
		a.logger.Warn("Unrecognized latest articles payload", logging.WithField("bytes", len(raw)))
	}
	return &models.LatestArticles{Data: models.LatestArticlesData{Articles: articles}}, nil
}

// Trending returns the articles the backend ranks as trending
func (a *Articles) Trending(ctx context.Context, limit int) (*models.Envelope[[]models.Article], error) {
	var resp models.Envelope[[]models.Article]
	if err := a.client.Get(ctx, "/articles/trending", newQuery().addInt("limit", limit).values(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get trending articles: %w", err)
	}
	if resp.Data == nil {
		resp.Data = []models.Article{}
	}
	return &resp, nil
}

// Search runs a free-text search over stored articles
func (a *Articles) Search(ctx context.Context, q string, limit int) (*models.Envelope[[]models.Article], error) {
	if strings.TrimSpace(q) == "" {
		return nil, invalidArgument("search query is required")
	}
	var resp models.Envelope[[]models.Article]
	if err := a.client.Get(ctx, "/articles/search", newQuery().add("q", q).addInt("limit", limit).values(), &resp); err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}
	if resp.Data == nil {
		resp.Data = []models.Article{}
	}
	return &resp, nil
}

// Statistics returns corpus-wide counters
func (a *Articles) Statistics(ctx context.Context) (*models.Envelope[models.Statistics], error) {
	var resp models.Envelope[models.Statistics]
	if err := a.client.Get(ctx, "/articles/statistics", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	return &resp, nil
}
