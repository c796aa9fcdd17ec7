package models

import "time"

// Article is a backend-owned news item. It is never mutated client-side.
type Article struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Content     string      `json:"content,omitempty"`
	Link        string      `json:"link"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	Author      string      `json:"author,omitempty"`
	PubDate     *time.Time  `json:"pubDate,omitempty"`
	GUID        string      `json:"guid,omitempty"`
	SourceID    string      `json:"sourceId"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Source      *FeedSource `json:"source,omitempty"`
	Categories  []Category  `json:"categories,omitempty"`
}

// CategoryNames returns the names of the article's categories in order
func (a Article) CategoryNames() []string {
	names := make([]string, 0, len(a.Categories))
	for _, c := range a.Categories {
		names = append(names, c.Name)
	}
	return names
}

// SourceName returns the feed name or an empty string
func (a Article) SourceName() string {
	if a.Source == nil {
		return ""
	}
	return a.Source.Name
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ArticlePage is the data of a paginated article listing
type ArticlePage struct {
	Articles   []Article  `json:"articles"`
	Pagination Pagination `json:"pagination"`
}

// ArticleParams filters an article listing. Zero values are not sent.
type ArticleParams struct {
	Page          int
	Limit         int
	SourceID      string
	CategoryID    string
	CategoryNames []string
	StartDate     time.Time
	EndDate       time.Time
	Search        string
}

// LatestArticles is the fixed shape returned for the latest-items listing
type LatestArticles struct {
	Data LatestArticlesData `json:"data"`
}

// LatestArticlesData always carries a non-nil article list and a null pagination
type LatestArticlesData struct {
	Articles   []Article   `json:"articles"`
	Pagination *Pagination `json:"pagination"`
}

// Statistics summarises the article corpus
type Statistics struct {
	TotalArticles     int `json:"totalArticles"`
	TotalSources      int `json:"totalSources"`
	TotalCategories   int `json:"totalCategories"`
	ArticlesLast24h   int `json:"articlesLast24h"`
	ArticlesLast7days int `json:"articlesLast7days"`
}
