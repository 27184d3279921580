package model

/*

PostInfo is the single enrichment contract shared by the feed, search and
profile read paths: the post itself plus the derived social counts and the
per-viewer liked flag. Keeping one shape avoids endpoints drifting apart.

LikedByUser is always false for an unauthenticated viewer.

*/

type PostInfo struct {
	Post
	LikesCount    int64  `json:"likes_count"`
	LikedByUser   bool   `json:"liked_by_user"`
	CommentsCount int64  `json:"comments_count"`
	AuthorLogin   string `json:"author_login"`
}

// FeedPage is one page of an ordered view over posts. PagesCount is
// ceil(eligible / page_size) for the whole view, not just this page.
type FeedPage struct {
	PagesCount int         `json:"pages_count"`
	UserFeed   []*PostInfo `json:"user_feed"`
}
