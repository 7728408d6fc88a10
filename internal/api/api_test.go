package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blog-content-api/internal/api"
	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/mocks"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type testEnv struct {
	router   *gin.Engine
	cfg      *config.Config
	articles *mocks.MockArticleRepository
	comments *mocks.MockCommentRepository
	health   *mocks.MockHealthChecker
}

type response struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Error   string                 `json:"error"`
}

func setupTestRouter(t *testing.T, env string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos, articles, comments, _ := mocks.NewMockRepositories()
	cfg := &config.Config{
		Env:    env,
		Server: config.ServerConfig{Port: "8080", AllowedOrigins: []string{"*"}},
		Auth:   config.AuthConfig{JWTSecret: "test-secret", Issuer: "blog-test"},
		Upload: config.UploadConfig{
			Dir:           t.TempDir(),
			MaxUploadSize: 1024 * 1024,
			PublicPrefix:  "/uploads/images",
		},
		Blog: config.BlogConfig{
			DefaultPageSize:     10,
			MaxPageSize:         100,
			PopularDefaultLimit: 5,
			MinSearchLength:     2,
			MaxCommentDepth:     5,
			SeedBatchSize:       100,
		},
	}

	log := zerolog.Nop()
	services := service.NewServices(repos, cfg, log)

	return &testEnv{
		router:   api.NewRouter(services, cfg, log),
		cfg:      cfg,
		articles: articles,
		comments: comments,
		health:   repos.Health.(*mocks.MockHealthChecker),
	}
}

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newArticle(slug string, offset int, tags ...string) *models.Article {
	published := baseTime.Add(time.Duration(offset) * time.Hour)
	return &models.Article{
		ID:          "id-" + slug,
		Title:       "Title " + slug,
		Slug:        slug,
		Content:     "# Heading\n\nBody of " + slug,
		Excerpt:     "Excerpt " + slug,
		Author:      "Ana Torres",
		Tags:        tags,
		IsPublished: true,
		PublishedAt: &published,
		CreatedAt:   published,
		UpdatedAt:   published,
		ReadingTime: 1,
	}
}

func (e *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := api.GenerateToken(&e.cfg.Auth, userID, role, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body []byte, token string) (*httptest.ResponseRecorder, response) {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)

	w, _ := env.do(t, "GET", "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", body["status"])
	}

	env.health.Err = errors.New("connection refused")
	w, _ = env.do(t, "GET", "/health", nil, "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)
	env.do(t, "GET", "/api/articles", nil, "")

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("blog_http_requests_total")) {
		t.Error("Expected request counter in metrics output")
	}
}

func TestListArticles_Pagination(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)
	for i := 0; i < 12; i++ {
		env.articles.Add(newArticle(fmt.Sprintf("article-%02d", i), i, "go"))
	}

	w, resp := env.do(t, "GET", "/api/articles?page=2&limit=5", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !resp.Success {
		t.Error("Expected success to be true")
	}

	articles := resp.Data["articles"].([]interface{})
	if len(articles) != 5 {
		t.Errorf("Expected 5 articles, got %d", len(articles))
	}
	first := articles[0].(map[string]interface{})
	if first["slug"] != "article-06" {
		t.Errorf("Expected newest-first ordering to start page 2 at article-06, got %v", first["slug"])
	}
	if _, ok := first["content"]; ok {
		t.Error("Expected list items to omit content")
	}

	pagination := resp.Data["pagination"].(map[string]interface{})
	expected := map[string]float64{"currentPage": 2, "totalPages": 3, "totalArticles": 12, "limit": 5}
	for key, want := range expected {
		if pagination[key] != want {
			t.Errorf("Expected %s=%v, got %v", key, want, pagination[key])
		}
	}
	if pagination["hasNextPage"] != true || pagination["hasPrevPage"] != true {
		t.Errorf("Expected both neighbour pages, got %v", pagination)
	}
}

func TestListArticles_InvalidSort(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)

	w, resp := env.do(t, "GET", "/api/articles?sortBy=password", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if resp.Success {
		t.Error("Expected success to be false")
	}
}

func TestSearchArticles(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)
	env.articles.Add(newArticle("golang-channels", 1, "go"), newArticle("rust-traits", 2, "rust"))

	w, _ := env.do(t, "GET", "/api/articles/search?q=g", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for short term, got %d", w.Code)
	}

	w, resp := env.do(t, "GET", "/api/articles/search?q=%20%20channels%20", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if resp.Data["searchTerm"] != "channels" {
		t.Errorf("Expected searchTerm 'channels', got %v", resp.Data["searchTerm"])
	}
	pagination := resp.Data["pagination"].(map[string]interface{})
	if pagination["totalResults"] != float64(1) {
		t.Errorf("Expected 1 result, got %v", pagination["totalResults"])
	}
}

func TestArticlesByTag_CaseInsensitive(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)
	env.articles.Add(newArticle("one", 1, "golang"), newArticle("two", 2, "python"))

	w, resp := env.do(t, "GET", "/api/articles/tag/GoLang", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if resp.Data["tag"] != "golang" {
		t.Errorf("Expected normalised tag 'golang', got %v", resp.Data["tag"])
	}
	if n := len(resp.Data["articles"].([]interface{})); n != 1 {
		t.Errorf("Expected 1 article, got %d", n)
	}
}

func TestTagsAndStats(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)
	env.articles.Add(newArticle("one", 1, "zig", "go"), newArticle("two", 2, "go", "api"))

	_, resp := env.do(t, "GET", "/api/articles/tags", nil, "")
	tags := resp.Data["tags"].([]interface{})
	want := []string{"api", "go", "zig"}
	if len(tags) != len(want) {
		t.Fatalf("Expected %d tags, got %v", len(want), tags)
	}
	for i, tag := range want {
		if tags[i] != tag {
			t.Errorf("Expected tag %d to be %s, got %v", i, tag, tags[i])
		}
	}

	_, resp = env.do(t, "GET", "/api/articles/stats", nil, "")
	stats := resp.Data["stats"].(map[string]interface{})
	if stats["totalArticles"] != float64(2) || stats["totalTags"] != float64(3) {
		t.Errorf("Unexpected stats: %v", stats)
	}
}

func TestGetArticleBySlug(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)
	article := newArticle("hello-world", 1, "go")
	article.ViewsCount = 7
	env.articles.Add(article)

	w, resp := env.do(t, "GET", "/api/articles/hello-world", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	got := resp.Data["article"].(map[string]interface{})
	if got["viewsCount"] != float64(8) {
		t.Errorf("Expected viewsCount 8, got %v", got["viewsCount"])
	}
	if got["contentHtml"] == "" || got["contentHtml"] == nil {
		t.Error("Expected rendered contentHtml")
	}
	if _, ok := resp.Data["userLiked"]; ok {
		t.Error("Expected userLiked to be omitted for anonymous readers")
	}

	_, resp = env.do(t, "GET", "/api/articles/hello-world", nil, env.token(t, "user-1", ""))
	if resp.Data["userLiked"] != false {
		t.Errorf("Expected userLiked false, got %v", resp.Data["userLiked"])
	}

	_, resp = env.do(t, "GET", "/api/articles/hello-world", nil, "not-a-token")
	if !resp.Success {
		t.Error("Expected invalid token to be ignored on optional route")
	}

	w, _ = env.do(t, "GET", "/api/articles/missing", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestToggleArticleLike(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)
	env.articles.Add(newArticle("liked", 1))

	w, _ := env.do(t, "POST", "/api/articles/liked/like", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without token, got %d", w.Code)
	}

	token := env.token(t, "user-1", "")
	w, resp := env.do(t, "POST", "/api/articles/liked/like", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if resp.Data["liked"] != true || resp.Data["likesCount"] != float64(1) {
		t.Errorf("Expected liked with count 1, got %v", resp.Data)
	}

	_, resp = env.do(t, "POST", "/api/articles/liked/like", nil, token)
	if resp.Data["liked"] != false || resp.Data["likesCount"] != float64(0) {
		t.Errorf("Expected unliked with count 0, got %v", resp.Data)
	}

	_, resp = env.do(t, "GET", "/api/articles/liked/likes", nil, "")
	if resp.Data["totalLikes"] != float64(0) {
		t.Errorf("Expected totalLikes 0, got %v", resp.Data["totalLikes"])
	}
}

func postComment(t *testing.T, env *testEnv, slug, parentID string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"author":   "Reader",
		"email":    "reader@example.com",
		"content":  "Great post <script>alert(1)</script>",
		"parentId": parentID,
	})
	return env.do(t, "POST", "/api/articles/"+slug+"/comments", body, "")
}

func TestCommentsFlow(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)
	env.articles.Add(newArticle("discussed", 1))

	w, resp := postComment(t, env, "discussed", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	comment := resp.Data["comment"].(map[string]interface{})
	if _, ok := comment["email"]; ok {
		t.Error("Expected email to be hidden")
	}
	if comment["content"] != "Great post" {
		t.Errorf("Expected sanitised content, got %q", comment["content"])
	}
	parentID := comment["id"].(string)

	w, _ = postComment(t, env, "discussed", parentID)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201 for reply, got %d", w.Code)
	}

	_, resp = env.do(t, "GET", "/api/articles/discussed/comments", nil, "")
	comments := resp.Data["comments"].([]interface{})
	if len(comments) != 1 {
		t.Fatalf("Expected 1 top-level comment, got %d", len(comments))
	}
	if comments[0].(map[string]interface{})["replyCount"] != float64(1) {
		t.Errorf("Expected replyCount 1, got %v", comments[0])
	}
	pagination := resp.Data["pagination"].(map[string]interface{})
	if pagination["totalComments"] != float64(1) {
		t.Errorf("Expected totalComments 1, got %v", pagination["totalComments"])
	}

	_, resp = env.do(t, "GET", "/api/comments/"+parentID+"/replies", nil, "")
	if n := len(resp.Data["replies"].([]interface{})); n != 1 {
		t.Errorf("Expected 1 reply, got %d", n)
	}

	_, resp = env.do(t, "GET", "/api/comments/recent?limit=5", nil, "")
	if n := len(resp.Data["comments"].([]interface{})); n != 2 {
		t.Errorf("Expected 2 recent comments, got %d", n)
	}
}

func TestCreateComment_Validation(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)
	env.articles.Add(newArticle("discussed", 1))

	body, _ := json.Marshal(map[string]string{"author": "Reader", "email": "nope", "content": "Hi"})
	w, resp := env.do(t, "POST", "/api/articles/discussed/comments", body, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if resp.Message == "" {
		t.Error("Expected validation message")
	}

	w, _ = postComment(t, env, "missing", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestModerateComment(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)
	env.articles.Add(newArticle("discussed", 1))
	_, resp := postComment(t, env, "discussed", "")
	id := resp.Data["comment"].(map[string]interface{})["id"].(string)
	path := "/api/comments/" + id + "/moderate"
	body := []byte(`{"approved": false}`)

	w, _ := env.do(t, "PATCH", path, body, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}

	w, _ = env.do(t, "PATCH", path, body, env.token(t, "user-1", "reader"))
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}

	w, _ = env.do(t, "PATCH", path, []byte(`{}`), env.token(t, "mod-1", api.RoleModerator))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without approved flag, got %d", w.Code)
	}

	w, resp = env.do(t, "PATCH", path, body, env.token(t, "mod-1", api.RoleModerator))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if resp.Data["comment"].(map[string]interface{})["isApproved"] != false {
		t.Error("Expected comment to be unapproved")
	}

	_, resp = env.do(t, "GET", "/api/articles/discussed/comments", nil, "")
	if n := len(resp.Data["comments"].([]interface{})); n != 0 {
		t.Errorf("Expected rejected comment to be hidden, got %d", n)
	}
}

func TestUploadImage(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)

	w, resp := env.do(t, "POST", "/api/upload/image", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if resp.Message != "No file provided" {
		t.Errorf("Expected 'No file provided', got %q", resp.Message)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("image", "cover.png")
	part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"))
	writer.Close()

	req := httptest.NewRequest("POST", "/api/upload/image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var uploaded struct {
		Data map[string]interface{} `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &uploaded)
	if uploaded.Data["mimetype"] != "image/png" {
		t.Errorf("Expected image/png, got %v", uploaded.Data["mimetype"])
	}
	if uploaded.Data["originalName"] != "cover.png" {
		t.Errorf("Expected original name, got %v", uploaded.Data["originalName"])
	}
}

func TestErrorDetailOnlyInDevelopment(t *testing.T) {
	for _, tc := range []struct {
		env        string
		wantDetail bool
	}{
		{config.EnvProduction, false},
		{config.EnvDevelopment, true},
	} {
		env := setupTestRouter(t, tc.env)
		env.articles.Err = errors.New("store offline")

		w, resp := env.do(t, "GET", "/api/articles", nil, "")
		if w.Code != http.StatusInternalServerError {
			t.Errorf("[%s] Expected status 500, got %d", tc.env, w.Code)
		}
		if (resp.Error != "") != tc.wantDetail {
			t.Errorf("[%s] Expected error detail present=%v, got %q", tc.env, tc.wantDetail, resp.Error)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	env := setupTestRouter(t, config.EnvProduction)

	w, resp := env.do(t, "GET", "/api/nothing-here", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if resp.Success {
		t.Error("Expected success to be false")
	}
}
