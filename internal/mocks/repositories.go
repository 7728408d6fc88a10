package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
	"github.com/blog-content-api/internal/repository"
)

var (
	_ repository.ArticleRepository = (*MockArticleRepository)(nil)
	_ repository.CommentRepository = (*MockCommentRepository)(nil)
	_ repository.LikeRepository    = (*MockLikeRepository)(nil)
	_ repository.HealthChecker     = (*MockHealthChecker)(nil)
)

// NewMockRepositories wires in-memory repositories into a Repositories aggregate
func NewMockRepositories() (*repository.Repositories, *MockArticleRepository, *MockCommentRepository, *MockLikeRepository) {
	articles := NewMockArticleRepository()
	comments := NewMockCommentRepository()
	likes := NewMockLikeRepository()
	return &repository.Repositories{
		Article: articles,
		Comment: comments,
		Like:    likes,
		Health:  &MockHealthChecker{},
	}, articles, comments, likes
}

// MockHealthChecker reports Err from HealthCheck
type MockHealthChecker struct {
	Err error
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	return m.Err
}

// MockArticleRepository is an in-memory ArticleRepository
type MockArticleRepository struct {
	mu               sync.Mutex
	Articles         map[string]*models.Article
	Err              error
	IncrementErr     error
	BatchInsertCalls int
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{Articles: make(map[string]*models.Article)}
}

// Add stores articles directly, bypassing BatchInsert bookkeeping
func (m *MockArticleRepository) Add(articles ...*models.Article) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range articles {
		if a.Tags == nil {
			a.Tags = []string{}
		}
		m.Articles[a.ID] = a
	}
}

func (m *MockArticleRepository) BatchInsert(ctx context.Context, articles []*models.Article) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchInsertCalls++
	if m.Err != nil {
		return 0, m.Err
	}
	for _, a := range articles {
		for _, existing := range m.Articles {
			if existing.Slug == a.Slug {
				return 0, repository.ErrDuplicate
			}
		}
	}
	for _, a := range articles {
		m.Articles[a.ID] = a
	}
	return len(articles), nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return copyArticle(m.Articles[id]), nil
}

func (m *MockArticleRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[string]*models.Article)
	for _, id := range ids {
		if a, ok := m.Articles[id]; ok {
			out[id] = copyArticle(a)
		}
	}
	return out, nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, a := range m.Articles {
		if a.Slug == slug && (!publishedOnly || a.IsPublished) {
			return copyArticle(a), nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	a, err := m.GetBySlug(ctx, slug, false)
	return a != nil, err
}

func (m *MockArticleRepository) matching(match func(*models.Article) bool) []*models.Article {
	out := make([]*models.Article, 0)
	for _, a := range m.Articles {
		if match(a) {
			out = append(out, copyArticle(a))
		}
	}
	return out
}

func (m *MockArticleRepository) List(ctx context.Context, filter query.ArticleFilter, s query.Sort, page query.Page) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	articles := m.matching(filter.Matches)
	sort.SliceStable(articles, func(i, j int) bool { return s.Less(articles[i], articles[j]) })
	start, end := page.Window(len(articles))
	return articles[start:end], nil
}

func (m *MockArticleRepository) Count(ctx context.Context, filter query.ArticleFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.matching(filter.Matches)), nil
}

func (m *MockArticleRepository) Search(ctx context.Context, search query.TextSearch, s query.Sort, page query.Page) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	articles := m.matching(search.Matches)
	sort.SliceStable(articles, func(i, j int) bool {
		if s.HasRelevance() {
			si, sj := relevance(search, articles[i]), relevance(search, articles[j])
			if si != sj {
				return si > sj
			}
		}
		return s.Less(articles[i], articles[j])
	})
	start, end := page.Window(len(articles))
	return articles[start:end], nil
}

// relevance mimics a weighted text score: title hits outrank tag hits, which outrank body hits
func relevance(search query.TextSearch, a *models.Article) int {
	score := 0
	for _, w := range search.Words() {
		w = strings.ToLower(w)
		score += 10 * strings.Count(strings.ToLower(a.Title), w)
		score += strings.Count(strings.ToLower(a.Content), w)
		for _, tag := range a.Tags {
			if strings.Contains(strings.ToLower(tag), w) {
				score += 5
			}
		}
	}
	return score
}

func (m *MockArticleRepository) CountSearch(ctx context.Context, search query.TextSearch) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.matching(search.Matches)), nil
}

func (m *MockArticleRepository) DistinctTags(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, a := range m.Articles {
		if !a.IsPublished {
			continue
		}
		for _, t := range a.Tags {
			if strings.TrimSpace(t) != "" && !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags, nil
}

func (m *MockArticleRepository) Stats(ctx context.Context) (*models.BlogStats, error) {
	tags, err := m.DistinctTags(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &models.BlogStats{TotalTags: len(tags)}
	for _, a := range m.Articles {
		if !a.IsPublished {
			continue
		}
		stats.TotalArticles++
		stats.TotalViews += a.ViewsCount
		stats.TotalLikes += a.LikesCount
	}
	return stats, nil
}

func (m *MockArticleRepository) IncrementViews(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IncrementErr != nil {
		return m.IncrementErr
	}
	if a, ok := m.Articles[id]; ok {
		a.ViewsCount++
	}
	return nil
}

func (m *MockArticleRepository) SetLikesCount(ctx context.Context, id string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if a, ok := m.Articles[id]; ok {
		a.LikesCount = count
	}
	return nil
}

func (m *MockArticleRepository) SetImageURL(ctx context.Context, slug, imageURL string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, a := range m.Articles {
		if a.Slug == slug {
			a.ImageURL = imageURL
			return true, nil
		}
	}
	return false, nil
}

func copyArticle(a *models.Article) *models.Article {
	if a == nil {
		return nil
	}
	c := *a
	c.Tags = append([]string{}, a.Tags...)
	return &c
}

// MockCommentRepository is an in-memory CommentRepository
type MockCommentRepository struct {
	mu       sync.Mutex
	Comments map[string]*models.Comment
	Err      error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{Comments: make(map[string]*models.Comment)}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	c := *comment
	m.Comments[comment.ID] = &c
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.Comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MockCommentRepository) filter(match func(*models.Comment) bool, newestFirst bool) []*models.Comment {
	out := make([]*models.Comment, 0)
	for _, c := range m.Comments {
		if c.IsApproved && match(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			if newestFirst {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func isTopLevelOf(articleID string) func(*models.Comment) bool {
	return func(c *models.Comment) bool { return c.ArticleID == articleID && c.ParentID == nil }
}

func isReplyTo(parentID string) func(*models.Comment) bool {
	return func(c *models.Comment) bool { return c.ParentID != nil && *c.ParentID == parentID }
}

func (m *MockCommentRepository) ListTopLevel(ctx context.Context, articleID string, page query.Page) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	comments := m.filter(isTopLevelOf(articleID), true)
	start, end := page.Window(len(comments))
	return comments[start:end], nil
}

func (m *MockCommentRepository) CountTopLevel(ctx context.Context, articleID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.filter(isTopLevelOf(articleID), true)), nil
}

func (m *MockCommentRepository) ListReplies(ctx context.Context, parentID string, page query.Page) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	comments := m.filter(isReplyTo(parentID), false)
	start, end := page.Window(len(comments))
	return comments[start:end], nil
}

func (m *MockCommentRepository) CountReplies(ctx context.Context, parentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.filter(isReplyTo(parentID), false)), nil
}

func (m *MockCommentRepository) ReplyCounts(ctx context.Context, parentIDs []string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	counts := make(map[string]int)
	for _, id := range parentIDs {
		if n := len(m.filter(isReplyTo(id), false)); n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (m *MockCommentRepository) ListRecent(ctx context.Context, limit int) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	comments := m.filter(func(*models.Comment) bool { return true }, true)
	if len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

func (m *MockCommentRepository) SetApproved(ctx context.Context, id string, approved bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	c, ok := m.Comments[id]
	if !ok {
		return false, nil
	}
	c.IsApproved = approved
	return true, nil
}

func (m *MockCommentRepository) SetLikesCount(ctx context.Context, id string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Comments[id]; ok {
		c.LikesCount = count
	}
	return m.Err
}

// MockLikeRepository is an in-memory LikeRepository enforcing one like per (user, target)
type MockLikeRepository struct {
	mu    sync.Mutex
	Likes map[string]*models.Like
	Err   error
}

func NewMockLikeRepository() *MockLikeRepository {
	return &MockLikeRepository{Likes: make(map[string]*models.Like)}
}

func likeMatches(l *models.Like, target models.LikeTarget) bool {
	if target.Kind == models.LikeKindComment {
		return l.CommentID == target.ID
	}
	return l.ArticleID == target.ID
}

func (m *MockLikeRepository) Find(ctx context.Context, target models.LikeTarget, userID string) (*models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, l := range m.Likes {
		if l.UserID == userID && likeMatches(l, target) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockLikeRepository) Create(ctx context.Context, like *models.Like) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, l := range m.Likes {
		if l.UserID == like.UserID && l.ArticleID == like.ArticleID && l.CommentID == like.CommentID {
			return repository.ErrDuplicate
		}
	}
	cp := *like
	m.Likes[like.ID] = &cp
	return nil
}

func (m *MockLikeRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.Likes, id)
	return nil
}

func (m *MockLikeRepository) Count(ctx context.Context, target models.LikeTarget) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	n := 0
	for _, l := range m.Likes {
		if likeMatches(l, target) {
			n++
		}
	}
	return n, nil
}

func (m *MockLikeRepository) List(ctx context.Context, target models.LikeTarget, limit int) ([]*models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	likes := make([]*models.Like, 0)
	for _, l := range m.Likes {
		if likeMatches(l, target) {
			cp := *l
			likes = append(likes, &cp)
		}
	}
	sort.SliceStable(likes, func(i, j int) bool {
		if !likes[i].CreatedAt.Equal(likes[j].CreatedAt) {
			return likes[i].CreatedAt.After(likes[j].CreatedAt)
		}
		return likes[i].ID < likes[j].ID
	})
	if len(likes) > limit {
		likes = likes[:limit]
	}
	return likes, nil
}
