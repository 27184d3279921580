package store

import (
	"context"

	"github.com/nlysenko/podboard/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CreateComment appends a comment to a post.
func CreateComment(ctx context.Context, db *gorm.DB, userID uint, postID uint, text string) (*model.Comment, error) {
	comment := model.Comment{
		UserID:      userID,
		PostID:      postID,
		CommentText: text,
	}
	if err := db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, errors.Wrap(err, "fail to create comment")
	}
	return &comment, nil
}

// GetCommentByID returns the comment with the given id, or ErrNotFound.
func GetCommentByID(ctx context.Context, db *gorm.DB, commentID uint) (*model.Comment, error) {
	var comment model.Comment
	result := db.WithContext(ctx).Where("id = ?", commentID).First(&comment)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "fail to get comment")
	}
	return &comment, nil
}

// PostComments returns all comments of a post, oldest first.
func PostComments(ctx context.Context, db *gorm.DB, postID uint) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id asc").
		Find(&comments).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list comments")
	}
	return comments, nil
}

// CommentsCount is a plain aggregate over the comments table.
func CommentsCount(ctx context.Context, db *gorm.DB, postID uint) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "fail to count comments")
	}
	return count, nil
}
