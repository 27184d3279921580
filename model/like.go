package model

// Like marks that a user liked a post. The composite primary key is the
// uniqueness invariant: at most one row per (user, post) pair, enforced by
// the database rather than by application-level checks.
type Like struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID uint `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
}
