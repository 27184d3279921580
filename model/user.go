package model

import "time"

/*

User is an account that can publish, like and comment on posts.

Id: primary key, assigned by the database on registration
Login: unique login string, matched case-sensitively
PwdHash: one-way digest of the user's password, computed at the client
boundary before it ever reaches the server. Never serialized outward.
RegistrationDt: time when the account was created

Posts/Likes/Comments: owned rows, removed together with the user.

*/

type User struct {
	Id             uint       `gorm:"primaryKey" json:"id"`
	Login          string     `gorm:"uniqueIndex;not null" json:"login"`
	PwdHash        string     `gorm:"size:64;not null" json:"-"`
	RegistrationDt time.Time  `json:"registration_dt"`
	Posts          []*Post    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"-"`
	Likes          []*Like    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Comments       []*Comment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}
