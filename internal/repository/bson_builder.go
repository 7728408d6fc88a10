package repository

import (
	"regexp"
	"strings"

	"github.com/blog-content-api/internal/models"
	"github.com/blog-content-api/internal/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// articleBSON translates an ArticleFilter into a MongoDB filter document
func articleBSON(f query.ArticleFilter) bson.M {
	filter := bson.M{}

	if f.PublishedOnly {
		filter["isPublished"] = true
	}
	if f.Search != "" {
		re := literalRegex(f.Search)
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"content": re},
			bson.M{"tags": re},
		}
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Author != "" {
		filter["author"] = literalRegex(f.Author)
	}
	return filter
}

// literalRegex builds a case-insensitive regex matching s as a plain substring
func literalRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// textSearchBSON builds a $text filter. Every word is quoted so all of them must match.
func textSearchBSON(s query.TextSearch) bson.M {
	words := s.Words()
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, `"`+strings.ReplaceAll(w, `"`, "")+`"`)
	}
	return bson.M{
		"isPublished": true,
		"$text":       bson.M{"$search": strings.Join(quoted, " ")},
	}
}

var bsonSortFields = map[query.SortField]string{
	query.SortPublishedAt: "publishedAt",
	query.SortCreatedAt:   "createdAt",
	query.SortUpdatedAt:   "updatedAt",
	query.SortLikesCount:  "likesCount",
	query.SortViewsCount:  "viewsCount",
	query.SortTitle:       "title",
}

// bsonSort translates a Sort into an ordered sort document ending with _id.
// Relevance keys sort by text score and are only honoured when withScore is set.
func bsonSort(s query.Sort, withScore bool) bson.D {
	doc := bson.D{}
	for _, k := range s.Keys {
		if k.Field == query.SortRelevance {
			if withScore {
				doc = append(doc, bson.E{Key: "score", Value: bson.M{"$meta": "textScore"}})
			}
			continue
		}
		field, ok := bsonSortFields[k.Field]
		if !ok {
			continue
		}
		dir := 1
		if k.Desc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: field, Value: dir})
	}
	return append(doc, bson.E{Key: "_id", Value: 1})
}

// likeTargetBSON maps a like target onto its document field
func likeTargetBSON(target models.LikeTarget) bson.M {
	if target.Kind == models.LikeKindComment {
		return bson.M{"commentId": target.ID}
	}
	return bson.M{"articleId": target.ID}
}
