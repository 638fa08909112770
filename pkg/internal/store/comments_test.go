package store

import (
	"context"
	"testing"

	"github.com/UID-Technologies/acado-engagement/pkg/internal/models"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentingStore(rows *[]models.Comment) *Store {
	viper.Set("viewer.id", 77)
	viper.Set("viewer.name", "Dana")
	viper.Set("viewer.profile_image", "https://cdn.example.com/dana.png")

	return New(&fetchStub{
		listCommentsFn: func(context.Context, int64) ([]models.Comment, error) {
			return *rows, nil
		},
	}, &mutationStub{})
}

func TestFetchCommentsReplacesBuffer(t *testing.T) {
	authoritative := []models.Comment{
		{ID: 10, PostID: 1, UserID: 5, Content: "first"},
		{ID: 11, PostID: 1, UserID: 6, Content: "second"},
	}
	s := newCommentingStore(&authoritative)

	require.NoError(t, s.FetchComments(context.Background(), 1))

	buffer := s.Comments()
	assert.EqualValues(t, 1, buffer.PostID)
	require.Len(t, buffer.Data, 2)
	assert.False(t, buffer.Loading)
}

func TestOptimisticCommentPrependsAndDedupes(t *testing.T) {
	authoritative := []models.Comment{}
	s := newCommentingStore(&authoritative)
	require.NoError(t, s.FetchComments(context.Background(), 1))

	require.NoError(t, s.SendComment(context.Background(), 1, "great post", false))

	buffer := s.Comments()
	require.Len(t, buffer.Data, 1)
	assert.True(t, buffer.Data[0].IsOptimistic())
	assert.Equal(t, "Dana", buffer.Data[0].Name)
	assert.EqualValues(t, 77, buffer.Data[0].UserID)

	// The authoritative refresh now covers the optimistic row; it must
	// not show twice.
	authoritative = []models.Comment{
		{ID: 12, PostID: 1, UserID: 77, Name: "Dana", Content: "great post"},
	}
	require.NoError(t, s.FetchComments(context.Background(), 1))

	buffer = s.Comments()
	require.Len(t, buffer.Data, 1)
	assert.EqualValues(t, 12, buffer.Data[0].ID)
	assert.False(t, buffer.Data[0].IsOptimistic())
}

func TestUnconfirmedOptimisticCommentSurvivesRefresh(t *testing.T) {
	authoritative := []models.Comment{}
	s := newCommentingStore(&authoritative)
	require.NoError(t, s.FetchComments(context.Background(), 1))
	require.NoError(t, s.SendComment(context.Background(), 1, "still in flight", false))

	authoritative = []models.Comment{
		{ID: 20, PostID: 1, UserID: 6, Content: "someone else"},
	}
	require.NoError(t, s.FetchComments(context.Background(), 1))

	buffer := s.Comments()
	require.Len(t, buffer.Data, 2)
	assert.True(t, buffer.Data[0].IsOptimistic(), "unconfirmed row stays prepended")
	assert.EqualValues(t, 20, buffer.Data[1].ID)
}

func TestCommentBufferSwitchesTarget(t *testing.T) {
	authoritative := []models.Comment{{ID: 30, PostID: 2, UserID: 6, Content: "other thread"}}
	s := newCommentingStore(&authoritative)
	require.NoError(t, s.FetchComments(context.Background(), 1))
	require.NoError(t, s.SendComment(context.Background(), 1, "on post one", false))

	require.NoError(t, s.FetchComments(context.Background(), 2))

	buffer := s.Comments()
	assert.EqualValues(t, 2, buffer.PostID)
	require.Len(t, buffer.Data, 1)
	assert.EqualValues(t, 30, buffer.Data[0].ID)
}

func TestStaleCommentResponseDroppedAfterTargetSwitch(t *testing.T) {
	arrivals := make(chan chan []models.Comment, 3)
	s := New(&fetchStub{
		listCommentsFn: func(ctx context.Context, postID int64) ([]models.Comment, error) {
			release := make(chan []models.Comment)
			arrivals <- release
			return <-release, nil
		},
	}, &mutationStub{})

	done1 := make(chan error, 1)
	go func() { done1 <- s.FetchComments(context.Background(), 1) }()
	release1 := <-arrivals

	done2 := make(chan error, 1)
	go func() { done2 <- s.FetchComments(context.Background(), 2) }()
	release2 := <-arrivals
	release2 <- []models.Comment{{ID: 20, PostID: 2, UserID: 6, Content: "thread two"}}
	require.NoError(t, <-done2)

	done3 := make(chan error, 1)
	go func() { done3 <- s.FetchComments(context.Background(), 1) }()
	release3 := <-arrivals

	// The response issued before the switch away resolves late; even
	// though the target matches again, it must not commit.
	release1 <- []models.Comment{{ID: 10, PostID: 1, UserID: 6, Content: "stale"}}
	require.NoError(t, <-done1)
	assert.Empty(t, s.Comments().Data)

	release3 <- []models.Comment{{ID: 11, PostID: 1, UserID: 6, Content: "fresh"}}
	require.NoError(t, <-done3)

	buffer := s.Comments()
	require.Len(t, buffer.Data, 1)
	assert.EqualValues(t, 11, buffer.Data[0].ID)
}

func TestSendCommentSkipsBufferForOtherPost(t *testing.T) {
	authoritative := []models.Comment{}
	s := newCommentingStore(&authoritative)
	require.NoError(t, s.FetchComments(context.Background(), 1))

	require.NoError(t, s.SendComment(context.Background(), 2, "different thread", false))

	assert.Empty(t, s.Comments().Data, "comments for another post must not leak into the buffer")
}
