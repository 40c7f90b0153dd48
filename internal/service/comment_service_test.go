package service

import (
	"context"
	"testing"

	"River_Social/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCommentBumpsPost(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	luna := w.user(t, "luna")
	mars := w.user(t, "mars")

	post := w.post(t, luna, "quiet post")
	before, err := w.store.PostByID(ctx, post.ID)
	require.NoError(t, err)

	comment, err := w.comments.AddComment(ctx, post.ID, mars.ID, "bump")
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)

	after, err := w.store.PostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, after.BumpedAt.After(before.BumpedAt))
	assert.Equal(t, int64(1), after.CommentsCount)
}

func TestAddCommentOnInvisiblePost(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	luna := w.privateUser(t, "luna")
	mars := w.user(t, "mars")

	post := w.post(t, luna, "circle only")
	_, err := w.comments.AddComment(ctx, post.ID, mars.ID, "let me in")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCommentOnlyAuthor(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	luna := w.user(t, "luna")
	mars := w.user(t, "mars")

	post := w.post(t, luna, "thread")
	comment, err := w.comments.AddComment(ctx, post.ID, mars.ID, "v1")
	require.NoError(t, err)

	_, err = w.comments.UpdateComment(ctx, comment.ID, luna.ID, "hijacked")
	assert.ErrorIs(t, err, ErrPermission)

	updated, err := w.comments.UpdateComment(ctx, comment.ID, mars.ID, "v2")
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Body)
}

func TestDeleteCommentByPostAuthor(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	luna := w.user(t, "luna")
	mars := w.user(t, "mars")
	venus := w.user(t, "venus")

	post := w.post(t, luna, "my house my rules")
	comment, err := w.comments.AddComment(ctx, post.ID, mars.ID, "spam")
	require.NoError(t, err)

	// 无关第三人删不了
	assert.ErrorIs(t, w.comments.DeleteComment(ctx, comment.ID, venus.ID), ErrPermission)

	// 帖子作者可删别人的评论
	require.NoError(t, w.comments.DeleteComment(ctx, comment.ID, luna.ID))
	_, err = w.store.CommentByID(ctx, comment.ID)
	assert.Error(t, err)

	after, err := w.store.PostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after.CommentsCount)
}

func TestGetCommentBanSemantics(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	luna := w.user(t, "luna")
	mars := w.user(t, "mars")
	venus := w.user(t, "venus")

	post := w.post(t, luna, "thread")
	comment, err := w.comments.AddComment(ctx, post.ID, mars.ID, "hot take")
	require.NoError(t, err)

	t.Run("作者拉黑查看者是权限错误", func(t *testing.T) {
		_, err := w.bans.Ban(ctx, mars.ID, venus.ID)
		require.NoError(t, err)
		_, err = w.comments.GetComment(ctx, comment.ID, venus.ID)
		assert.ErrorIs(t, err, ErrPermission)
		_, err = w.bans.Unban(ctx, mars.ID, venus.ID)
		require.NoError(t, err)
	})

	t.Run("查看者拉黑作者拿到占位", func(t *testing.T) {
		_, err := w.bans.Ban(ctx, venus.ID, mars.ID)
		require.NoError(t, err)
		view, err := w.comments.GetComment(ctx, comment.ID, venus.ID)
		require.NoError(t, err)
		assert.Equal(t, model.HiddenBanned, view.HideType)
		assert.Nil(t, view.CreatedBy)
		_, err = w.bans.Unban(ctx, venus.ID, mars.ID)
		require.NoError(t, err)
	})

	t.Run("作者总能看到原文", func(t *testing.T) {
		view, err := w.comments.GetComment(ctx, comment.ID, mars.ID)
		require.NoError(t, err)
		assert.Equal(t, "hot take", view.Body)
		assert.Equal(t, model.Visible, view.HideType)
	})
}
