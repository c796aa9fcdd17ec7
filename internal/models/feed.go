package models

import "time"

// FeedSource is an RSS source the backend polls
type FeedSource struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	URL       string     `json:"url"`
	IsActive  bool       `json:"isActive"`
	LastCheck *time.Time `json:"lastCheck,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Count     *Count     `json:"_count,omitempty"`
}

// Count is the relation count block the backend attaches to some resources
type Count struct {
	Articles int `json:"articles"`
}

// ArticleCount returns the number of articles ingested from this source
func (f FeedSource) ArticleCount() int {
	if f.Count == nil {
		return 0
	}
	return f.Count.Articles
}

// FeedInput is the body for adding a feed source
type FeedInput struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FeedUpdate is a partial update; nil fields are left unchanged
type FeedUpdate struct {
	Name     *string `json:"name,omitempty"`
	URL      *string `json:"url,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// Empty reports whether the update would change nothing
func (u FeedUpdate) Empty() bool {
	return u.Name == nil && u.URL == nil && u.IsActive == nil
}
