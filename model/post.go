package model

import "time"

/*

Post is a short audio-annotated publication.

Id: primary key, assigned by the database on insertion
AuthorID: the publishing user, "belongs-to" relation
PostDt: server-side insertion timestamp, the feed sort key
Title/ShortDescription/LongDescription: the searchable text fields
AudioFile: opaque key of the uploaded audio blob in the file store,
empty when the post carries no audio

Likes/Comments: owned rows, removed together with the post. Deleting a
post also removes its document from the search index, which is mirrored
outside of the relational transaction.

*/

type Post struct {
	Id               uint       `gorm:"primaryKey" json:"id"`
	AuthorID         uint       `gorm:"index;not null" json:"author_id"`
	PostDt           time.Time  `gorm:"index" json:"post_dt"`
	Title            string     `json:"title"`
	ShortDescription string     `json:"short_description"`
	LongDescription  string     `json:"long_description"`
	AudioFile        string     `json:"audio_file"`
	Likes            []*Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;" json:"-"`
	Comments         []*Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;" json:"-"`
}
