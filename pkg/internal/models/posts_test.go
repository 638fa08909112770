package models

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostDecodeFromFlatRecord(t *testing.T) {
	raw := []byte(`{
		"id": 1, "user_id": 2, "name": "Ada", "like_count": 5,
		"comment_count": 3, "user_liked": 1,
		"repost_id": 9, "repost_user_id": 4, "repost_description": "look at this",
		"repost_like": 2, "repost_comments": 1, "is_user_repost_like": 0
	}`)

	var post Post
	require.NoError(t, jsoniter.Unmarshal(raw, &post))

	assert.EqualValues(t, 1, post.ID)
	assert.True(t, post.UserLiked)
	assert.EqualValues(t, 5, post.LikeCount)

	require.True(t, post.IsRepost())
	assert.EqualValues(t, 9, post.Repost.ID)
	assert.EqualValues(t, 4, post.Repost.UserID)
	assert.Equal(t, "look at this", post.Repost.Description)
	assert.EqualValues(t, 2, post.Repost.LikeCount)
	assert.False(t, post.Repost.UserLiked)
}

func TestPostDecodeWithoutRepostKeys(t *testing.T) {
	raw := []byte(`{"id": 7, "user_id": 2, "like_count": 1, "user_liked": 0}`)

	var post Post
	require.NoError(t, jsoniter.Unmarshal(raw, &post))

	assert.False(t, post.IsRepost())
	assert.Nil(t, post.Repost)
	assert.False(t, post.UserLiked)
}

func TestPostDecodeNullRepostID(t *testing.T) {
	raw := []byte(`{"id": 7, "repost_id": null, "repost_description": "stale"}`)

	var post Post
	require.NoError(t, jsoniter.Unmarshal(raw, &post))

	// A null repost_id means the row is a plain post even when other
	// repost keys carry leftovers.
	assert.Nil(t, post.Repost)
}

func TestPostRoundTripPreservesVariant(t *testing.T) {
	original := Post{
		ID:        1,
		UserID:    2,
		Name:      "Ada",
		LikeCount: 5,
		UserLiked: true,
		Repost: &RepostMeta{
			ID:           9,
			UserID:       4,
			Description:  "look at this",
			LikeCount:    2,
			CommentCount: 1,
			UserLiked:    true,
		},
	}

	encoded, err := jsoniter.Marshal(original)
	require.NoError(t, err)

	var decoded Post
	require.NoError(t, jsoniter.Unmarshal(encoded, &decoded))

	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.UserLiked, decoded.UserLiked)
	require.NotNil(t, decoded.Repost)
	assert.Equal(t, *original.Repost, *decoded.Repost)
}

func TestEngagementTarget(t *testing.T) {
	plain := Post{ID: 7}
	id, isRepost := plain.EngagementTarget()
	assert.EqualValues(t, 7, id)
	assert.False(t, isRepost)

	repost := Post{ID: 7, Repost: &RepostMeta{ID: 31}}
	id, isRepost = repost.EngagementTarget()
	assert.EqualValues(t, 31, id)
	assert.True(t, isRepost)
}
