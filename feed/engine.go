// Package feed computes ordered, paged views over posts: the chronological
// feed backed by the relational store and the search feed backed by the
// full-text index. Both share the same pagination arithmetic and the same
// per-post enrichment, which is what keeps the two read paths consistent.
package feed

import (
	"context"
	"math"

	"github.com/jinzhu/copier"
	"github.com/nlysenko/podboard/model"
	"github.com/nlysenko/podboard/search"
	"github.com/nlysenko/podboard/store"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Engine is the read-side composition layer. It owns no state beyond its
// collaborators.
type Engine struct {
	db       *gorm.DB
	index    search.Index
	pageSize int
}

func NewEngine(db *gorm.DB, index search.Index, pageSize int) *Engine {
	return &Engine{
		db:       db,
		index:    index,
		pageSize: pageSize,
	}
}

func (e *Engine) PageSize() int {
	return e.pageSize
}

// PagesCount is the one pagination formula both read paths use:
// ceil(eligible / pageSize). A page request beyond the last page is not an
// error, it is simply empty.
func PagesCount(eligible int64, pageSize int) int {
	return int(math.Ceil(float64(eligible) / float64(pageSize)))
}

// eligible scopes the chronological feed: every post not authored by the
// viewer. The unauthenticated viewer is the sentinel id 0, which never
// matches a real author, so anonymous readers see everything.
func (e *Engine) eligible(ctx context.Context, viewerID uint) *gorm.DB {
	return e.db.WithContext(ctx).Model(&model.Post{}).Where("author_id <> ?", viewerID)
}

// Feed returns page pageNum (1-based) of the reverse-chronological feed for
// the viewer. Ordering is post_dt descending with ascending id as the tie
// breaker, so pagination is deterministic for a fixed post set.
func (e *Engine) Feed(ctx context.Context, viewerID uint, pageNum int) (*model.FeedPage, error) {
	var total int64
	if err := e.eligible(ctx, viewerID).Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "fail to count feed posts")
	}

	var posts []*model.Post
	err := e.eligible(ctx, viewerID).
		Order("post_dt desc, id asc").
		Offset(e.pageSize * (pageNum - 1)).
		Limit(e.pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to read feed page")
	}

	return e.assemblePage(ctx, posts, viewerID, total)
}

// Search returns page pageNum (1-based) of the relevance-ranked search
// results for the viewer. The author exclusion is applied inside the index
// query, and the total comes from the index's own count over the identical
// filter, so pages_count always agrees with the pages actually returned.
// The index only stores post content; the social counts and the author
// login are looked up live against the relational store.
func (e *Engine) Search(ctx context.Context, viewerID uint, query string, pageNum int) (*model.FeedPage, error) {
	total, err := e.index.Count(ctx, query, viewerID)
	if err != nil {
		return nil, err
	}

	posts, err := e.index.Search(ctx, query, viewerID, e.pageSize*(pageNum-1), e.pageSize)
	if err != nil {
		return nil, err
	}

	return e.assemblePage(ctx, posts, viewerID, total)
}

func (e *Engine) assemblePage(ctx context.Context, posts []*model.Post, viewerID uint, total int64) (*model.FeedPage, error) {
	page := model.FeedPage{
		PagesCount: PagesCount(total, e.pageSize),
		UserFeed:   []*model.PostInfo{},
	}
	for _, post := range posts {
		info, err := e.FullPostInfo(ctx, post, viewerID)
		if err != nil {
			return nil, err
		}
		page.UserFeed = append(page.UserFeed, info)
	}
	return &page, nil
}

// FullPostInfo enriches a post with its derived counts and per-viewer
// flags. Profile, feed and search all go through here so every endpoint
// returns the same shape.
func (e *Engine) FullPostInfo(ctx context.Context, post *model.Post, viewerID uint) (*model.PostInfo, error) {
	info := model.PostInfo{}
	if err := copier.Copy(&info.Post, post); err != nil {
		return nil, errors.Wrap(err, "fail to copy post")
	}

	likes, err := store.LikesCount(ctx, e.db, post.Id)
	if err != nil {
		return nil, err
	}
	info.LikesCount = likes

	liked, err := store.IsLikedBy(ctx, e.db, post.Id, viewerID)
	if err != nil {
		return nil, err
	}
	info.LikedByUser = liked

	comments, err := store.CommentsCount(ctx, e.db, post.Id)
	if err != nil {
		return nil, err
	}
	info.CommentsCount = comments

	author, err := store.GetUserByID(ctx, e.db, post.AuthorID)
	if err != nil {
		return nil, errors.Wrap(err, "fail to resolve post author")
	}
	info.AuthorLogin = author.Login

	return &info, nil
}
