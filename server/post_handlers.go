package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nlysenko/podboard/model"
	"github.com/nlysenko/podboard/store"
	. "github.com/nlysenko/podboard/utils/log"
)

// Field limits for post metadata. Oversized fields are malformed input.
const (
	maxTitleLen = 256
	maxShortLen = 1024
	maxLongLen  = 65536

	maxAudioBytes = 64 << 20
)

type postMetadata struct {
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	LongDescription  string `json:"long_description"`
}

func (m *postMetadata) validate() string {
	if m.Title == "" {
		return "title is required"
	}
	if len(m.Title) > maxTitleLen ||
		len(m.ShortDescription) > maxShortLen ||
		len(m.LongDescription) > maxLongLen {
		return "field too long"
	}
	return ""
}

// AddPost publishes a post from a multipart request: a "data" part with
// JSON metadata and a "file" part with the audio blob. The relational
// write commits first; mirroring into the search index happens after and
// is best-effort, so index downtime degrades search without losing posts.
func (b *Backend) AddPost(c *gin.Context) {
	var meta postMetadata
	if err := json.Unmarshal([]byte(c.PostForm("data")), &meta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "malformed data part"})
		return
	}
	if msg := meta.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msg})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "audio file part is required"})
		return
	}
	defer file.Close()
	if header.Size > maxAudioBytes {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "audio file too large"})
		return
	}

	key, err := b.audio.Store(header.Filename, file)
	if err != nil {
		abortWithError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	post := model.Post{
		AuthorID:         actingUser(c),
		Title:            meta.Title,
		ShortDescription: meta.ShortDescription,
		LongDescription:  meta.LongDescription,
		AudioFile:        key,
	}
	if err := store.CreatePost(ctx, b.db, &post); err != nil {
		abortWithError(c, err)
		return
	}

	if err := b.index.IndexPost(ctx, &post); err != nil {
		Log.Warn("post not mirrored to search index: ", err)
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK", "post_id": post.Id})
}

// DeletePost removes a post. Only the author may delete; any other
// authenticated user gets a 401, the same status as no session at all.
func (b *Backend) DeletePost(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	post, err := store.GetPostByID(ctx, b.db, postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if post.AuthorID != actingUser(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "not the author"})
		return
	}

	if err := store.DeletePost(ctx, b.db, postID); err != nil {
		abortWithError(c, err)
		return
	}
	if err := b.index.DeletePost(ctx, postID); err != nil {
		Log.Warn("post not removed from search index: ", err)
	}

	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (b *Backend) GetPost(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	post, err := store.GetPostByID(ctx, b.db, postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// LikePost toggles the acting user's like on a post and reports the new
// state.
func (b *Backend) LikePost(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := store.GetPostByID(ctx, b.db, postID); err != nil {
		abortWithError(c, err)
		return
	}

	state, err := store.ToggleLike(ctx, b.db, postID, actingUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "like_state": state})
}

// IsPostLiked reports whether the viewer likes the post. Anonymous viewers
// always read false.
func (b *Backend) IsPostLiked(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	liked, err := store.IsLikedBy(ctx, b.db, postID, actingUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"like_state": liked})
}

func (b *Backend) PostLikes(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := store.GetPostByID(ctx, b.db, postID); err != nil {
		abortWithError(c, err)
		return
	}
	likes, err := store.PostLikes(ctx, b.db, postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, likes)
}

func (b *Backend) PostLikesCount(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := store.GetPostByID(ctx, b.db, postID); err != nil {
		abortWithError(c, err)
		return
	}
	count, err := store.LikesCount(ctx, b.db, postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type commentInput struct {
	CommentText string `json:"comment_text" binding:"required"`
}

// AddComment appends a non-empty comment to an existing post.
func (b *Backend) AddComment(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	var input commentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "comment_text is required"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := store.GetPostByID(ctx, b.db, postID); err != nil {
		abortWithError(c, err)
		return
	}
	if _, err := store.CreateComment(ctx, b.db, actingUser(c), postID, input.CommentText); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (b *Backend) PostComments(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := store.GetPostByID(ctx, b.db, postID); err != nil {
		abortWithError(c, err)
		return
	}
	comments, err := store.PostComments(ctx, b.db, postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (b *Backend) PostCommentsCount(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := store.GetPostByID(ctx, b.db, postID); err != nil {
		abortWithError(c, err)
		return
	}
	count, err := store.CommentsCount(ctx, b.db, postID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (b *Backend) GetComment(c *gin.Context) {
	commentID, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	comment, err := store.GetCommentByID(ctx, b.db, commentID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// GetUser returns the public projection of a user. The password hash never
// serializes.
func (b *Backend) GetUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := store.GetUserByID(ctx, b.db, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UserPosts lists a user's posts enriched for the current viewer. A user
// with no posts yields an empty list, not a 404: the user exists.
func (b *Backend) UserPosts(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := store.GetUserByID(ctx, b.db, userID); err != nil {
		abortWithError(c, err)
		return
	}
	infos, err := b.enrichedUserPosts(c, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_posts": infos})
}

// Profile bundles the public user projection with the user's enriched
// posts.
func (b *Backend) Profile(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := store.GetUserByID(ctx, b.db, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	infos, err := b.enrichedUserPosts(c, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "user_posts": infos})
}

func (b *Backend) enrichedUserPosts(c *gin.Context, userID uint) ([]*model.PostInfo, error) {
	ctx, cancel := requestContext(c)
	defer cancel()

	posts, err := store.UserPosts(ctx, b.db, userID)
	if err != nil {
		return nil, err
	}
	infos := []*model.PostInfo{}
	for _, post := range posts {
		info, err := b.engine.FullPostInfo(ctx, post, actingUser(c))
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}
