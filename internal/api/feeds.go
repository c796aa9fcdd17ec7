package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/johnrirwin/newsdesk/internal/apiclient"
	"github.com/johnrirwin/newsdesk/internal/logging"
	"github.com/johnrirwin/newsdesk/internal/models"
)

// Feeds is the feed source resource
type Feeds struct {
	client *apiclient.Client
	logger *logging.Logger
}

func NewFeeds(client *apiclient.Client, logger *logging.Logger) *Feeds {
	return &Feeds{client: client, logger: logger}
}

// List returns every configured feed source
func (f *Feeds) List(ctx context.Context) (*models.Envelope[[]models.FeedSource], error) {
	var resp models.Envelope[[]models.FeedSource]
	if err := f.client.Get(ctx, "/feeds", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	if resp.Data == nil {
		resp.Data = []models.FeedSource{}
	}
	return &resp, nil
}

// Add creates a feed source
func (f *Feeds) Add(ctx context.Context, in models.FeedInput) (*models.Envelope[models.FeedSource], error) {
	in.Name = strings.TrimSpace(in.Name)
	in.URL = strings.TrimSpace(in.URL)
	if in.Name == "" {
		return nil, invalidArgument("feed name is required")
	}
	if in.URL == "" {
		return nil, invalidArgument("feed url is required")
	}
	if u, err := url.Parse(in.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, invalidArgument("feed url %q is not absolute", in.URL)
	}

	var resp models.Envelope[models.FeedSource]
	if err := f.client.Post(ctx, "/feeds", in, &resp); err != nil {
		return nil, fmt.Errorf("failed to add feed: %w", err)
	}
	f.logger.Info("Feed source added", logging.WithFields(map[string]interface{}{
		"id":   resp.Data.ID,
		"name": in.Name,
	}))
	return &resp, nil
}

// Update applies a partial update to a feed source
func (f *Feeds) Update(ctx context.Context, id string, update models.FeedUpdate) (*models.Envelope[models.FeedSource], error) {
	path, err := idPath("/feeds", id)
	if err != nil {
		return nil, err
	}
	if update.Empty() {
		return nil, invalidArgument("feed update has no fields")
	}
	var resp models.Envelope[models.FeedSource]
	if err := f.client.Put(ctx, path, update, &resp); err != nil {
		return nil, fmt.Errorf("failed to update feed %s: %w", id, err)
	}
	return &resp, nil
}

// SetActive toggles whether the backend polls a feed source
func (f *Feeds) SetActive(ctx context.Context, id string, active bool) (*models.Envelope[models.FeedSource], error) {
	return f.Update(ctx, id, models.FeedUpdate{IsActive: &active})
}

// Delete removes a feed source
func (f *Feeds) Delete(ctx context.Context, id string) (*models.Envelope[json.RawMessage], error) {
	path, err := idPath("/feeds", id)
	if err != nil {
		return nil, err
	}
	var resp models.Envelope[json.RawMessage]
	if err := f.client.Delete(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("failed to delete feed %s: %w", id, err)
	}
	f.logger.Info("Feed source deleted", logging.WithField("id", id))
	return &resp, nil
}

// CheckAll asks the backend to poll every active feed
func (f *Feeds) CheckAll(ctx context.Context) (*models.Envelope[json.RawMessage], error) {
	return f.trigger(ctx, "/feeds/check")
}

// Check asks the backend to poll one feed
func (f *Feeds) Check(ctx context.Context, id string) (*models.Envelope[json.RawMessage], error) {
	path, err := idPath("/feeds", id, "check")
	if err != nil {
		return nil, err
	}
	return f.trigger(ctx, path)
}

// FetchAll asks the backend to fetch new articles from every feed
func (f *Feeds) FetchAll(ctx context.Context) (*models.Envelope[json.RawMessage], error) {
	return f.trigger(ctx, "/feeds/fetch-all")
}

func (f *Feeds) trigger(ctx context.Context, path string) (*models.Envelope[json.RawMessage], error) {
	var resp models.Envelope[json.RawMessage]
	if err := f.client.Post(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to trigger %s: %w", path, err)
	}
	return &resp, nil
}
