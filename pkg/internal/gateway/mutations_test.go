package gateway

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UID-Technologies/acado-engagement/pkg/internal/models"
)

func TestToggleLikeSendsInverseState(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPayload = decodeBody(t, r)
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	err := client.ToggleLike(context.Background(), models.Post{ID: 5, UserLiked: true})
	require.NoError(t, err)

	assert.Equal(t, "/user-view-tracking", gotPath)
	assert.Equal(t, "contents", gotPayload["type"])
	assert.EqualValues(t, 5, gotPayload["content_id"])
	assert.Equal(t, "0", gotPayload["like"])

	err = client.ToggleLike(context.Background(), models.Post{ID: 5, UserLiked: false})
	require.NoError(t, err)
	assert.Equal(t, "1", gotPayload["like"])
}

func TestToggleLikeTargetsRepostIdentity(t *testing.T) {
	var gotPayload map[string]any
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPayload = decodeBody(t, r)
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	row := models.Post{
		ID:        5,
		UserLiked: true,
		Repost:    &models.RepostMeta{ID: 31, UserLiked: false},
	}
	require.NoError(t, client.ToggleLike(context.Background(), row))

	// The repost's own liked state decides the toggle, not the
	// original post's.
	assert.Equal(t, "repost", gotPayload["type"])
	assert.EqualValues(t, 31, gotPayload["content_id"])
	assert.Equal(t, "1", gotPayload["like"])
}

func TestAddCommentPayload(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPayload = decodeBody(t, r)
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	require.NoError(t, client.AddComment(context.Background(), 42, "nice one", true))

	assert.Equal(t, "/user-comment-tracking", gotPath)
	assert.EqualValues(t, 42, gotPayload["post_id"])
	assert.Equal(t, "nice one", gotPayload["content"])
	assert.Equal(t, "repost", gotPayload["type"])
}

func TestRepostPayload(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPayload = decodeBody(t, r)
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	require.NoError(t, client.Repost(context.Background(), 42, "sharing this", []int64{3, 8}))

	assert.Equal(t, "/v1/joy-content-repost", gotPath)
	assert.EqualValues(t, 42, gotPayload["joy_content_id"])
	assert.Equal(t, "sharing this", gotPayload["description"])
	assert.Len(t, gotPayload["category_id"], 2)
}

func TestUpdateRepostHitsScopedPath(t *testing.T) {
	var gotPath string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	require.NoError(t, client.UpdateRepost(context.Background(), 31, "edited", nil, "active"))
	assert.Equal(t, "/v1/repost-update/31", gotPath)
}

func TestDeletePostUsesGetEndpoint(t *testing.T) {
	var gotPath, gotMethod string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	require.NoError(t, client.DeletePost(context.Background(), 42))
	assert.Equal(t, "/joy/content/delete/42", gotPath)
	assert.Equal(t, http.MethodGet, gotMethod)
}
