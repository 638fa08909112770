package models

import (
	"strings"
	"sync/atomic"
)

// Comment belongs to exactly one post or repost target, identified by
// PostID on the wire as joy_content_id. The list is ordered by recency
// descending; pagination is done client-side over the fetched slice.
type Comment struct {
	ID           int64  `json:"id"`
	PostID       int64  `json:"joy_content_id"`
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image"`
	Content      string `json:"content"`
	CreatedAt    string `json:"created_at"`
}

// Optimistic rows carry a locally generated negative id until the
// authoritative refresh replaces them.
func (v Comment) IsOptimistic() bool {
	return v.ID < 0
}

// Supersedes reports whether an authoritative row covers the given
// optimistic one, which is how the refresh de-duplicates.
func (v Comment) Supersedes(optimistic Comment) bool {
	return v.UserID == optimistic.UserID &&
		strings.TrimSpace(v.Content) == strings.TrimSpace(optimistic.Content)
}

var optimisticCommentSeq atomic.Int64

func NextOptimisticCommentID() int64 {
	return -optimisticCommentSeq.Add(1)
}
