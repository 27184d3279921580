package store

import (
	"context"
	"os"
	"testing"

	"github.com/nlysenko/podboard/model"
	"github.com/nlysenko/podboard/utils"
	"github.com/nlysenko/podboard/utils/dotenv"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	os.Exit(m.Run())
}

func mustCreateUser(t *testing.T, db *gorm.DB, login string) uint {
	t.Helper()
	id, err := CreateUser(context.Background(), db, login, utils.Sha256Hex(login))
	require.NoError(t, err)
	return id
}

func mustCreatePost(t *testing.T, db *gorm.DB, authorID uint, title string) *model.Post {
	t.Helper()
	post := &model.Post{AuthorID: authorID, Title: title}
	require.NoError(t, CreatePost(context.Background(), db, post))
	require.NotZero(t, post.Id)
	require.False(t, post.PostDt.IsZero())
	return post
}

func TestRegisterDuplicateLogin(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	ctx := context.Background()

	id, err := CreateUser(ctx, db, "mykyta", utils.Sha256Hex("1234"))
	require.NoError(t, err)

	_, err = CreateUser(ctx, db, "mykyta", utils.Sha256Hex("other"))
	require.ErrorIs(t, err, ErrConflict)

	// The first registration's id stays stable and usable for login.
	loginID, err := AuthenticateUser(ctx, db, "mykyta", utils.Sha256Hex("1234"))
	require.NoError(t, err)
	require.Equal(t, id, loginID)
}

func TestAuthenticateUserRequiresExactMatch(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	ctx := context.Background()

	mustCreateUser(t, db, "sergei")

	_, err := AuthenticateUser(ctx, db, "sergei", utils.Sha256Hex("wrong"))
	require.ErrorIs(t, err, ErrNotFound)
	_, err = AuthenticateUser(ctx, db, "nobody", utils.Sha256Hex("sergei"))
	require.ErrorIs(t, err, ErrNotFound)
	// Login matching is case-sensitive.
	_, err = AuthenticateUser(ctx, db, "Sergei", utils.Sha256Hex("sergei"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	ctx := context.Background()

	author := mustCreateUser(t, db, "author")
	fan := mustCreateUser(t, db, "fan")
	post := mustCreatePost(t, db, author, "toggleable")

	state, err := ToggleLike(ctx, db, post.Id, fan)
	require.NoError(t, err)
	require.True(t, state)
	count, err := LikesCount(ctx, db, post.Id)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	// Toggling twice returns to the original state and count.
	state, err = ToggleLike(ctx, db, post.Id, fan)
	require.NoError(t, err)
	require.False(t, state)
	count, err = LikesCount(ctx, db, post.Id)
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestLikeUniquenessIsEnforcedByTheDatabase(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	ctx := context.Background()

	author := mustCreateUser(t, db, "author")
	fan := mustCreateUser(t, db, "fan")
	post := mustCreatePost(t, db, author, "popular")

	state, err := ToggleLike(ctx, db, post.Id, fan)
	require.NoError(t, err)
	require.True(t, state)

	// A raw duplicate insert trips the composite primary key. This is the
	// constraint ToggleLike relies on to converge racing toggles.
	err = db.Create(&model.Like{UserID: fan, PostID: post.Id}).Error
	require.Error(t, err)
	require.True(t, isUniqueViolation(err))

	count, err := LikesCount(ctx, db, post.Id)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestDeletePostCascades(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	ctx := context.Background()

	author := mustCreateUser(t, db, "author")
	fan := mustCreateUser(t, db, "fan")
	post := mustCreatePost(t, db, author, "doomed")

	_, err := ToggleLike(ctx, db, post.Id, fan)
	require.NoError(t, err)
	_, err = CreateComment(ctx, db, fan, post.Id, "so long")
	require.NoError(t, err)

	require.NoError(t, DeletePost(ctx, db, post.Id))

	_, err = GetPostByID(ctx, db, post.Id)
	require.ErrorIs(t, err, ErrNotFound)
	likes, err := LikesCount(ctx, db, post.Id)
	require.NoError(t, err)
	require.EqualValues(t, 0, likes)
	comments, err := CommentsCount(ctx, db, post.Id)
	require.NoError(t, err)
	require.EqualValues(t, 0, comments)

	require.ErrorIs(t, DeletePost(ctx, db, post.Id), ErrNotFound)
}

func TestCommentsReadPath(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	ctx := context.Background()

	author := mustCreateUser(t, db, "author")
	post := mustCreatePost(t, db, author, "discussed")

	first, err := CreateComment(ctx, db, author, post.Id, "first")
	require.NoError(t, err)
	_, err = CreateComment(ctx, db, author, post.Id, "second")
	require.NoError(t, err)

	got, err := GetCommentByID(ctx, db, first.Id)
	require.NoError(t, err)
	require.Equal(t, "first", got.CommentText)

	all, err := PostComments(ctx, db, post.Id)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "first", all[0].CommentText)

	_, err = GetCommentByID(ctx, db, 99999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestForEachPostVisitsAllInOrder(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	ctx := context.Background()

	author := mustCreateUser(t, db, "author")
	want := []uint{}
	for i := 0; i < 7; i++ {
		want = append(want, mustCreatePost(t, db, author, "post").Id)
	}

	got := []uint{}
	err := ForEachPost(ctx, db, func(post *model.Post) error {
		got = append(got, post.Id)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, want, got)
}
