package store

import (
	"context"
	"testing"
	"time"

	localCache "github.com/UID-Technologies/acado-engagement/pkg/internal/cache"
	"github.com/UID-Technologies/acado-engagement/pkg/internal/gateway"
	"github.com/UID-Technologies/acado-engagement/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMemoCache(t *testing.T) {
	t.Helper()

	require.NoError(t, localCache.NewStore())
	t.Cleanup(func() { localCache.S = nil })
}

// settleMemo gives ristretto's buffered writes time to land so the
// memo entry is actually live before the test continues.
func settleMemo() {
	time.Sleep(50 * time.Millisecond)
}

func TestRefetchAfterLikeSkipsMemoizedRows(t *testing.T) {
	withMemoCache(t)

	upstream := []models.Post{{ID: 1, LikeCount: 5}}
	fetch := &fetchStub{
		listPostsFn: func(context.Context, gateway.PostFilter) ([]models.Post, error) {
			out := make([]models.Post, len(upstream))
			copy(out, upstream)
			return out, nil
		},
	}
	mut := &mutationStub{
		toggleLikeFn: func(context.Context, models.Post) error {
			upstream[0].LikeCount = 6
			upstream[0].UserLiked = true
			return nil
		},
	}
	s := New(fetch, mut)

	require.NoError(t, s.Fetch(context.Background(), models.ViewPosts, FetchParams{}))
	settleMemo()

	post, ok := s.FindPost(1)
	require.True(t, ok)
	require.NoError(t, s.LikeDislike(context.Background(), post))

	// A refresh inside the memo TTL must reflect the accepted like, not
	// the response cached before it.
	require.NoError(t, s.Fetch(context.Background(), models.ViewPosts, FetchParams{}))

	row := s.View(models.ViewPosts).Data[0]
	assert.EqualValues(t, 6, row.LikeCount)
	assert.True(t, row.UserLiked)
}

func TestRefetchAfterCommentSkipsMemoizedRows(t *testing.T) {
	withMemoCache(t)

	upstream := []models.Post{{ID: 1, CommentCount: 2}}
	fetch := &fetchStub{
		listPostsFn: func(context.Context, gateway.PostFilter) ([]models.Post, error) {
			out := make([]models.Post, len(upstream))
			copy(out, upstream)
			return out, nil
		},
	}
	mut := &mutationStub{
		addCommentFn: func(context.Context, int64, string, bool) error {
			upstream[0].CommentCount = 3
			return nil
		},
	}
	s := New(fetch, mut)

	require.NoError(t, s.Fetch(context.Background(), models.ViewPosts, FetchParams{}))
	settleMemo()

	require.NoError(t, s.SendComment(context.Background(), 1, "nice one", false))
	require.NoError(t, s.Fetch(context.Background(), models.ViewPosts, FetchParams{}))

	row := s.View(models.ViewPosts).Data[0]
	assert.EqualValues(t, 3, row.CommentCount)
}
