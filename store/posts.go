package store

import (
	"context"
	"time"

	"github.com/nlysenko/podboard/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CreatePost inserts a new post for the given author. The creation
// timestamp is assigned server-side at insertion; the generated id is
// written back into post so the caller can mirror it to the search index
// after the relational write commits.
func CreatePost(ctx context.Context, db *gorm.DB, post *model.Post) error {
	post.PostDt = time.Now()
	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		return errors.Wrap(err, "fail to create post")
	}
	return nil
}

// GetPostByID returns the post with the given id, or ErrNotFound.
func GetPostByID(ctx context.Context, db *gorm.DB, postID uint) (*model.Post, error) {
	var post model.Post
	result := db.WithContext(ctx).Where("id = ?", postID).First(&post)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "fail to get post")
	}
	return &post, nil
}

// DeletePost removes the post row. Likes and comments go with it through
// the ON DELETE CASCADE foreign keys, so no multi-step delete is needed.
func DeletePost(ctx context.Context, db *gorm.DB, postID uint) error {
	result := db.WithContext(ctx).Delete(&model.Post{}, postID)
	if result.Error != nil {
		return errors.Wrap(result.Error, "fail to delete post")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UserPosts returns all posts authored by the given user, oldest first.
func UserPosts(ctx context.Context, db *gorm.DB, userID uint) ([]*model.Post, error) {
	var posts []*model.Post
	result := db.WithContext(ctx).
		Where("author_id = ?", userID).
		Order("id asc").
		Find(&posts)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "fail to list user posts")
	}
	return posts, nil
}

// PostsCount returns the total number of posts in the store.
func PostsCount(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Post{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "fail to count posts")
	}
	return count, nil
}

// ForEachPost streams every post through fn in primary-key order, in
// batches. Used by the index resync, which is O(total posts) by design.
func ForEachPost(ctx context.Context, db *gorm.DB, fn func(post *model.Post) error) error {
	var posts []*model.Post
	result := db.WithContext(ctx).Order("id asc").FindInBatches(&posts, 200, func(tx *gorm.DB, batch int) error {
		for _, post := range posts {
			if err := fn(post); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(result.Error, "fail to iterate posts")
}
