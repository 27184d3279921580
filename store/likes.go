package store

import (
	"context"

	"github.com/nlysenko/podboard/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ToggleLike flips the liked state of (postID, userID) and returns the new
// state: true when the like was created, false when it was removed.
//
// The read-then-write runs inside a transaction, but the composite primary
// key on likes is what actually guarantees the uniqueness invariant: if two
// toggles race past the delete, the second insert hits the constraint and
// converges to the liked state instead of producing a duplicate row.
func ToggleLike(ctx context.Context, db *gorm.DB, postID uint, userID uint) (bool, error) {
	var state bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			state = false
			return nil
		}
		if err := tx.Create(&model.Like{UserID: userID, PostID: postID}).Error; err != nil {
			if isUniqueViolation(err) {
				// Race lost against a concurrent toggle, converge to liked.
				state = true
				return nil
			}
			return err
		}
		state = true
		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, "fail to toggle like")
	}
	return state, nil
}

// IsLikedBy reports whether the user currently likes the post. Always false
// for the unauthenticated sentinel viewer.
func IsLikedBy(ctx context.Context, db *gorm.DB, postID uint, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	var count int64
	err := db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "fail to check like")
	}
	return count > 0, nil
}

// LikesCount is a plain aggregate over the likes table. The store is the
// single writer for likes, so the count is consistent at read time.
func LikesCount(ctx context.Context, db *gorm.DB, postID uint) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "fail to count likes")
	}
	return count, nil
}

// PostLikes returns all like rows of a post.
func PostLikes(ctx context.Context, db *gorm.DB, postID uint) ([]*model.Like, error) {
	var likes []*model.Like
	err := db.WithContext(ctx).Where("post_id = ?", postID).Find(&likes).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to list likes")
	}
	return likes, nil
}
