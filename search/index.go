// Package search maintains the secondary full-text index over posts. The
// relational store is the source of truth; the index is best-effort and may
// drift when Elasticsearch is down at write time. SyncAll is the repair
// tool for that drift.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v7"
	"github.com/nlysenko/podboard/model"
	"github.com/pkg/errors"
)

const postsIndex = "posts"

// ErrUnavailable is returned by every operation of a disabled index. Write
// mirroring treats it as a degraded-mode signal and never fails the
// relational write over it.
var ErrUnavailable = errors.New("search index unavailable")

// Index is the contract the feed engine and the write paths depend on.
type Index interface {
	// IndexPost mirrors a post into the index, keyed by its relational id.
	// Call only after the relational write committed.
	IndexPost(ctx context.Context, post *model.Post) error
	// DeletePost removes the document with the post's relational id. A
	// missing document is not an error.
	DeletePost(ctx context.Context, postID uint) error
	// Search returns the relevance-ranked window [from, from+size) of posts
	// matching query, excluding documents authored by excludeAuthor.
	Search(ctx context.Context, query string, excludeAuthor uint, from int, size int) ([]*model.Post, error)
	// Count returns the total match count for the identical filter shape
	// Search uses, so page counts and returned pages never disagree.
	Count(ctx context.Context, query string, excludeAuthor uint) (int64, error)
	// Size returns the total number of documents in the index.
	Size(ctx context.Context) (int64, error)
}

// document is the indexed projection of a post. The relational id is the
// document _id, not a field.
type document struct {
	AuthorID         uint      `json:"author_id"`
	PostDt           time.Time `json:"post_dt"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"short_description"`
	LongDescription  string    `json:"long_description"`
	AudioFile        string    `json:"audio_file"`
}

// PostIndex is the Elasticsearch-backed Index.
type PostIndex struct {
	es *elasticsearch.Client
}

// NewPostIndex connects to Elasticsearch at the given address and verifies
// the node answers before returning.
func NewPostIndex(ctx context.Context, address string) (*PostIndex, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{address},
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to create elasticsearch client")
	}
	res, err := es.Info(es.Info.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "fail to reach elasticsearch")
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.Errorf("elasticsearch info returned %s", res.Status())
	}
	return &PostIndex{es: es}, nil
}

// filterBody builds the one shared filter shape used by both Count
// and Search. Relevance scoring and windowing must operate over an
// identical filtered document set, otherwise pages_count and the returned
// pages disagree, so the two request bodies may differ only in their
// pagination fields.
func filterBody(query string, excludeAuthor uint) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     query,
						"fields":    []string{"title", "short_description", "long_description"},
						"fuzziness": "AUTO",
					},
				},
				"must_not": map[string]interface{}{
					"match": map[string]interface{}{
						"author_id": excludeAuthor,
					},
				},
			},
		},
	}
}

func encodeBody(body map[string]interface{}) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, errors.Wrap(err, "fail to encode query body")
	}
	return &buf, nil
}

func (i *PostIndex) IndexPost(ctx context.Context, post *model.Post) error {
	doc := document{
		AuthorID:         post.AuthorID,
		PostDt:           post.PostDt,
		Title:            post.Title,
		ShortDescription: post.ShortDescription,
		LongDescription:  post.LongDescription,
		AudioFile:        post.AudioFile,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return errors.Wrap(err, "fail to encode post document")
	}

	res, err := i.es.Index(
		postsIndex,
		&buf,
		i.es.Index.WithDocumentID(fmt.Sprint(post.Id)),
		i.es.Index.WithContext(ctx),
	)
	if err != nil {
		return errors.Wrap(err, "fail to index post")
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.Errorf("index post %d returned %s", post.Id, res.Status())
	}
	return nil
}

func (i *PostIndex) DeletePost(ctx context.Context, postID uint) error {
	res, err := i.es.Delete(
		postsIndex,
		fmt.Sprint(postID),
		i.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return errors.Wrap(err, "fail to delete post document")
	}
	defer res.Body.Close()
	// 404 means the document was never mirrored, nothing to repair here.
	if res.IsError() && res.StatusCode != 404 {
		return errors.Errorf("delete post %d returned %s", postID, res.Status())
	}
	return nil
}

func (i *PostIndex) Search(ctx context.Context, query string, excludeAuthor uint, from int, size int) ([]*model.Post, error) {
	body := filterBody(query, excludeAuthor)
	body["from"] = from
	body["size"] = size
	buf, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(postsIndex),
		i.es.Search.WithBody(buf),
	)
	if err != nil {
		return nil, errors.Wrap(err, "fail to search posts")
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, errors.Errorf("search returned %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string   `json:"_id"`
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "fail to decode search response")
	}

	posts := []*model.Post{}
	for _, hit := range parsed.Hits.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "non-numeric document id %q", hit.ID)
		}
		posts = append(posts, &model.Post{
			Id:               uint(id),
			AuthorID:         hit.Source.AuthorID,
			PostDt:           hit.Source.PostDt,
			Title:            hit.Source.Title,
			ShortDescription: hit.Source.ShortDescription,
			LongDescription:  hit.Source.LongDescription,
			AudioFile:        hit.Source.AudioFile,
		})
	}
	return posts, nil
}

func (i *PostIndex) Count(ctx context.Context, query string, excludeAuthor uint) (int64, error) {
	buf, err := encodeBody(filterBody(query, excludeAuthor))
	if err != nil {
		return 0, err
	}
	return i.count(ctx, buf)
}

func (i *PostIndex) Size(ctx context.Context) (int64, error) {
	buf, err := encodeBody(map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
	})
	if err != nil {
		return 0, err
	}
	return i.count(ctx, buf)
}

func (i *PostIndex) count(ctx context.Context, body *bytes.Buffer) (int64, error) {
	res, err := i.es.Count(
		i.es.Count.WithContext(ctx),
		i.es.Count.WithIndex(postsIndex),
		i.es.Count.WithBody(body),
	)
	if err != nil {
		return 0, errors.Wrap(err, "fail to count posts")
	}
	defer res.Body.Close()
	// An index that was never written to does not exist yet; its size is 0.
	if res.StatusCode == 404 {
		return 0, nil
	}
	if res.IsError() {
		return 0, errors.Errorf("count returned %s", res.Status())
	}

	var parsed struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, errors.Wrap(err, "fail to decode count response")
	}
	return parsed.Count, nil
}

// Disabled is the Index used when Elasticsearch could not be reached at
// startup. Every operation reports ErrUnavailable; callers on the write
// path degrade gracefully, callers on the read path surface the failure.
type Disabled struct{}

func (Disabled) IndexPost(ctx context.Context, post *model.Post) error { return ErrUnavailable }
func (Disabled) DeletePost(ctx context.Context, postID uint) error     { return ErrUnavailable }
func (Disabled) Search(ctx context.Context, query string, excludeAuthor uint, from int, size int) ([]*model.Post, error) {
	return nil, ErrUnavailable
}
func (Disabled) Count(ctx context.Context, query string, excludeAuthor uint) (int64, error) {
	return 0, ErrUnavailable
}
func (Disabled) Size(ctx context.Context) (int64, error) { return 0, ErrUnavailable }
