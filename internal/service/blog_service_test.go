package service

import (
	"context"
	"testing"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/Synchronicityai-org/tinywins/internal/repository"
	"github.com/Synchronicityai-org/tinywins/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlogService(t *testing.T) BlogService {
	t.Helper()
	return NewBlogService(repository.NewSQLiteBlogStore(testutil.NewTestDB(t)))
}

func publishedPost(t *testing.T, svc BlogService) *domain.BlogPost {
	t.Helper()
	ctx := context.Background()
	p := &domain.BlogPost{AuthorID: "user-1", Title: "Small wins with picky eaters", Body: "..."}
	require.NoError(t, svc.CreatePost(ctx, p))
	require.NoError(t, svc.Publish(ctx, p.ID))
	return p
}

func TestCreatePost_DefaultsToDraft(t *testing.T) {
	svc := newBlogService(t)
	ctx := context.Background()

	p := &domain.BlogPost{AuthorID: "user-1", Title: "First words"}
	require.NoError(t, svc.CreatePost(ctx, p))
	assert.NotEmpty(t, p.ID)

	got, err := svc.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PostDraft, got.Status)

	assert.Error(t, svc.CreatePost(ctx, &domain.BlogPost{AuthorID: "user-1"}))
	assert.Error(t, svc.CreatePost(ctx, &domain.BlogPost{Title: "orphan"}))
}

func TestPublish_OnlyFromDraft(t *testing.T) {
	svc := newBlogService(t)
	ctx := context.Background()
	p := publishedPost(t, svc)

	// Already published.
	assert.Error(t, svc.Publish(ctx, p.ID))

	require.NoError(t, svc.Flag(ctx, p.ID))
	got, err := svc.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PostFlagged, got.Status)
	assert.True(t, got.Flagged)

	// Flagged posts do not go back through publish.
	assert.Error(t, svc.Publish(ctx, p.ID))
}

func TestSoftDelete_HidesFromDefaultListing(t *testing.T) {
	svc := newBlogService(t)
	ctx := context.Background()

	keep := publishedPost(t, svc)
	gone := publishedPost(t, svc)
	require.NoError(t, svc.SoftDelete(ctx, gone.ID))

	posts, err := svc.ListPosts(ctx, "")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, keep.ID, posts[0].ID)

	// The record itself survives for moderation review.
	got, err := svc.GetPost(ctx, gone.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PostDeleted, got.Status)
}

func TestComment_RequiresPublishedPost(t *testing.T) {
	svc := newBlogService(t)
	ctx := context.Background()

	draft := &domain.BlogPost{AuthorID: "user-1", Title: "Unfinished"}
	require.NoError(t, svc.CreatePost(ctx, draft))

	err := svc.Comment(ctx, &domain.BlogComment{PostID: draft.ID, AuthorID: "user-2", Body: "hi"})
	assert.Error(t, err)

	assert.Error(t, svc.Comment(ctx, &domain.BlogComment{PostID: draft.ID, AuthorID: "user-2"}))
}

func TestComment_NestsExactlyOneLevel(t *testing.T) {
	svc := newBlogService(t)
	ctx := context.Background()
	p := publishedPost(t, svc)

	top := &domain.BlogComment{PostID: p.ID, AuthorID: "user-2", Body: "This helped us a lot."}
	require.NoError(t, svc.Comment(ctx, top))

	reply := &domain.BlogComment{
		PostID:          p.ID,
		ParentCommentID: top.ID,
		AuthorID:        "user-3",
		Body:            "Same here!",
	}
	require.NoError(t, svc.Comment(ctx, reply))

	// A reply to a reply is refused.
	err := svc.Comment(ctx, &domain.BlogComment{
		PostID:          p.ID,
		ParentCommentID: reply.ID,
		AuthorID:        "user-4",
		Body:            "me three",
	})
	assert.Error(t, err)

	// As is a reply to a comment that does not exist on this post.
	err = svc.Comment(ctx, &domain.BlogComment{
		PostID:          p.ID,
		ParentCommentID: "elsewhere",
		AuthorID:        "user-4",
		Body:            "lost",
	})
	assert.Error(t, err)
}

func TestThreads_GroupsRepliesUnderTopLevel(t *testing.T) {
	svc := newBlogService(t)
	ctx := context.Background()
	p := publishedPost(t, svc)

	first := &domain.BlogComment{PostID: p.ID, AuthorID: "user-2", Body: "first"}
	second := &domain.BlogComment{PostID: p.ID, AuthorID: "user-3", Body: "second"}
	require.NoError(t, svc.Comment(ctx, first))
	require.NoError(t, svc.Comment(ctx, second))

	for _, body := range []string{"reply a", "reply b"} {
		require.NoError(t, svc.Comment(ctx, &domain.BlogComment{
			PostID:          p.ID,
			ParentCommentID: first.ID,
			AuthorID:        "user-4",
			Body:            body,
		}))
	}

	threads, err := svc.Threads(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, threads, 2)

	byID := map[string]CommentThread{}
	for _, th := range threads {
		byID[th.Comment.ID] = th
	}
	replies := byID[first.ID].Replies
	require.Len(t, replies, 2)
	assert.ElementsMatch(t, []string{"reply a", "reply b"}, []string{replies[0].Body, replies[1].Body})
	assert.Empty(t, byID[second.ID].Replies)
}
