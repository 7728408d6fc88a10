package models

import (
	"time"
)

// Article represents a blog article
type Article struct {
	ID          string     `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Slug        string     `json:"slug" bson:"slug"`
	Content     string     `json:"content" bson:"content"`
	Excerpt     string     `json:"excerpt" bson:"excerpt"`
	Author      string     `json:"author" bson:"author"`
	Tags        []string   `json:"tags" bson:"tags"`
	ImageURL    string     `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	IsPublished bool       `json:"isPublished" bson:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
	LikesCount  int        `json:"likesCount" bson:"likesCount"`
	ViewsCount  int        `json:"viewsCount" bson:"viewsCount"`
	ReadingTime int        `json:"readingTime" bson:"readingTime"`
}

// ArticleSummary is the list projection of an article
type ArticleSummary struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Author      string     `json:"author"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Tags        []string   `json:"tags"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	LikesCount  int        `json:"likesCount"`
	ViewsCount  int        `json:"viewsCount"`
	ReadingTime int        `json:"readingTime"`
}

// Summary projects the article onto the fields returned by list endpoints
func (a *Article) Summary() ArticleSummary {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return ArticleSummary{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Excerpt:     a.Excerpt,
		Author:      a.Author,
		PublishedAt: a.PublishedAt,
		Tags:        tags,
		ImageURL:    a.ImageURL,
		LikesCount:  a.LikesCount,
		ViewsCount:  a.ViewsCount,
		ReadingTime: a.ReadingTime,
	}
}

// Summaries projects a slice of articles
func Summaries(articles []*Article) []ArticleSummary {
	out := make([]ArticleSummary, 0, len(articles))
	for _, a := range articles {
		out = append(out, a.Summary())
	}
	return out
}

// BlogStats aggregates counters across published articles
type BlogStats struct {
	TotalArticles int `json:"totalArticles" bson:"totalArticles"`
	TotalViews    int `json:"totalViews" bson:"totalViews"`
	TotalLikes    int `json:"totalLikes" bson:"totalLikes"`
	TotalTags     int `json:"totalTags" bson:"totalTags"`
}

// ArticleNDJSON represents an article record from an NDJSON seed file
type ArticleNDJSON struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Content     string   `json:"content"`
	Excerpt     string   `json:"excerpt"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"imageUrl"`
	IsPublished *bool    `json:"isPublished"`
	PublishedAt string   `json:"publishedAt,omitempty"`
	LikesCount  int      `json:"likesCount"`
	ViewsCount  int      `json:"viewsCount"`
}
