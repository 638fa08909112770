package gateway

import (
	"context"
	"fmt"

	"github.com/UID-Technologies/acado-engagement/pkg/internal/models"
	"github.com/samber/lo"
)

const (
	trackingTypeContents = "contents"
	trackingTypeRepost   = "repost"
)

// ToggleLike inspects whether the row's engagement target is currently
// liked by the viewer and sends the inverse as the new state. It does
// not touch any local state; the store owns the optimistic patch.
func (c *Client) ToggleLike(ctx context.Context, post models.Post) error {
	targetID, isRepost := post.EngagementTarget()
	liked := post.UserLiked
	if isRepost {
		liked = post.Repost.UserLiked
	}

	payload := map[string]any{
		"type":       lo.Ternary(isRepost, trackingTypeRepost, trackingTypeContents),
		"content_id": targetID,
		"like":       lo.Ternary(liked, "0", "1"),
	}

	return c.postJSON(ctx, "/user-view-tracking", payload, nil)
}

func (c *Client) AddComment(ctx context.Context, postID int64, content string, isRepostTarget bool) error {
	payload := map[string]any{
		"post_id": postID,
		"content": content,
		"type":    lo.Ternary(isRepostTarget, trackingTypeRepost, trackingTypeContents),
	}

	return c.postJSON(ctx, "/user-comment-tracking", payload, nil)
}

func (c *Client) Repost(ctx context.Context, postID int64, description string, communityIDs []int64) error {
	payload := map[string]any{
		"joy_content_id": postID,
		"description":    description,
		"category_id":    communityIDs,
	}

	return c.postJSON(ctx, "/v1/joy-content-repost", payload, nil)
}

func (c *Client) UpdateRepost(ctx context.Context, repostID int64, description string, communityIDs []int64, status string) error {
	payload := map[string]any{
		"description": description,
		"category_id": communityIDs,
		"status":      status,
	}

	return c.postJSON(ctx, fmt.Sprintf("/v1/repost-update/%d", repostID), payload, nil)
}

func (c *Client) DeletePost(ctx context.Context, postID int64) error {
	return c.getJSON(ctx, fmt.Sprintf("/joy/content/delete/%d", postID), nil)
}
