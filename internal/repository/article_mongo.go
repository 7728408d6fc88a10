package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/blog-content-api/internal/database"
	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoArticleRepo is the MongoDB implementation of ArticleRepository
type mongoArticleRepo struct {
	coll *mongo.Collection
}

// NewMongoArticleRepo creates a new MongoDB article repository
func NewMongoArticleRepo(m *database.Mongo) ArticleRepository {
	return &mongoArticleRepo{coll: m.Articles}
}

func decodeArticles(ctx context.Context, cur *mongo.Cursor) ([]*models.Article, error) {
	defer cur.Close(ctx)

	articles := make([]*models.Article, 0)
	for cur.Next(ctx) {
		var a models.Article
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		if a.Tags == nil {
			a.Tags = []string{}
		}
		articles = append(articles, &a)
	}
	return articles, cur.Err()
}

func (r *mongoArticleRepo) findOne(ctx context.Context, filter bson.M) (*models.Article, error) {
	var a models.Article
	err := r.coll.FindOne(ctx, filter).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return &a, nil
}

// BatchInsert inserts articles with an unordered bulk write
func (r *mongoArticleRepo) BatchInsert(ctx context.Context, articles []*models.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(articles))
	for _, a := range articles {
		if a.Tags == nil {
			a.Tags = []string{}
		}
		a.UpdatedAt = now
		docs = append(docs, a)
	}

	res, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if errors.As(err, &bulkErr) {
			inserted = len(articles) - len(bulkErr.WriteErrors)
		}
		if mongo.IsDuplicateKeyError(err) {
			return inserted, ErrDuplicate
		}
		return inserted, err
	}
	return inserted, nil
}

// GetByID retrieves an article by ID
func (r *mongoArticleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByIDs retrieves articles keyed by ID
func (r *mongoArticleRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Article, error) {
	out := make(map[string]*models.Article)
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	articles, err := decodeArticles(ctx, cur)
	if err != nil {
		return nil, err
	}
	for _, a := range articles {
		out[a.ID] = a
	}
	return out, nil
}

// GetBySlug retrieves an article by its slug
func (r *mongoArticleRepo) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error) {
	filter := bson.M{"slug": slug}
	if publishedOnly {
		filter["isPublished"] = true
	}
	return r.findOne(ctx, filter)
}

// SlugExists checks if an article with the given slug exists
func (r *mongoArticleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	return n > 0, err
}

// List returns one page of articles matching the filter in the requested order
func (r *mongoArticleRepo) List(ctx context.Context, filter query.ArticleFilter, s query.Sort, page query.Page) ([]*models.Article, error) {
	opts := options.Find().
		SetSort(bsonSort(s, false)).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))

	cur, err := r.coll.Find(ctx, articleBSON(filter), opts)
	if err != nil {
		return nil, err
	}
	return decodeArticles(ctx, cur)
}

// Count returns the number of articles matching the filter
func (r *mongoArticleRepo) Count(ctx context.Context, filter query.ArticleFilter) (int, error) {
	n, err := r.coll.CountDocuments(ctx, articleBSON(filter))
	return int(n), err
}

// Search runs a $text query against the article_text index
func (r *mongoArticleRepo) Search(ctx context.Context, search query.TextSearch, s query.Sort, page query.Page) ([]*models.Article, error) {
	opts := options.Find().
		SetSort(bsonSort(s, true)).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))
	if s.HasRelevance() {
		opts.SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}})
	}

	cur, err := r.coll.Find(ctx, textSearchBSON(search), opts)
	if err != nil {
		return nil, err
	}
	return decodeArticles(ctx, cur)
}

// CountSearch counts the published articles matching a text query
func (r *mongoArticleRepo) CountSearch(ctx context.Context, search query.TextSearch) (int, error) {
	n, err := r.coll.CountDocuments(ctx, textSearchBSON(search))
	return int(n), err
}

// DistinctTags returns the distinct non-blank tags across published articles, sorted
func (r *mongoArticleRepo) DistinctTags(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "tags", bson.M{"isPublished": true})
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(values))
	for _, v := range values {
		if tag, ok := v.(string); ok && strings.TrimSpace(tag) != "" {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

// Stats aggregates counters across published articles
func (r *mongoArticleRepo) Stats(ctx context.Context) (*models.BlogStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isPublished": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"totalArticles": bson.M{"$sum": 1},
			"totalViews":    bson.M{"$sum": "$viewsCount"},
			"totalLikes":    bson.M{"$sum": "$likesCount"},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var stats models.BlogStats
	if cur.Next(ctx) {
		if err := cur.Decode(&stats); err != nil {
			return nil, err
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	tags, err := r.DistinctTags(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalTags = len(tags)
	return &stats, nil
}

// IncrementViews atomically bumps the view counter
func (r *mongoArticleRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"viewsCount": 1}})
	return err
}

// SetLikesCount overwrites the denormalized like counter
func (r *mongoArticleRepo) SetLikesCount(ctx context.Context, id string, count int) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"likesCount": count}})
	return err
}

// SetImageURL sets the cover image of the article with the given slug
func (r *mongoArticleRepo) SetImageURL(ctx context.Context, slug, imageURL string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"slug": slug}, bson.M{
		"$set": bson.M{"imageUrl": imageURL, "updatedAt": time.Now()},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
