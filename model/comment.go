package model

// Comment is a free-text reply to a post.
type Comment struct {
	Id          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	PostID      uint   `gorm:"index;not null" json:"post_id"`
	CommentText string `gorm:"size:512" json:"comment_text"`
}
