package gateway

import (
	"context"
	"fmt"

	"github.com/UID-Technologies/acado-engagement/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

// PostFilter selects which slice of the post universe to fetch. The
// zero value means the unfiltered main feed; at most one of the other
// fields is expected to be set.
type PostFilter struct {
	Pinned      bool
	Mine        bool
	Tag         string
	CommunityID int64
	IndustryID  int64
}

func (f PostFilter) payload() map[string]any {
	payload := map[string]any{}
	if f.Pinned {
		payload["is_pin"] = 1
	}
	if f.Mine {
		payload["my_post"] = 1
	}
	if len(f.Tag) > 0 {
		payload["tags"] = f.Tag
	}
	if f.CommunityID > 0 {
		payload["category_id"] = f.CommunityID
	}
	if f.IndustryID > 0 {
		payload["org_id"] = f.IndustryID
	}
	return payload
}

// CacheKey is stable across equal filters and keys the short-lived
// fetch memoization.
func (f PostFilter) CacheKey() string {
	return fmt.Sprintf(
		"feed-query#pin=%t,mine=%t,tag=%s,community=%d,industry=%d",
		f.Pinned, f.Mine, f.Tag, f.CommunityID, f.IndustryID,
	)
}

func (c *Client) ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	var envelope struct {
		Data struct {
			Post []models.Post `json:"post"`
		} `json:"data"`
	}

	if err := c.postJSON(ctx, "/get-post", filter.payload(), &envelope); err != nil {
		return nil, err
	}

	log.Debug().Int("count", len(envelope.Data.Post)).Msg("Fetched posts from upstream...")
	return envelope.Data.Post, nil
}

func (c *Client) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	var envelope struct {
		Data struct {
			List []models.Comment `json:"list"`
		} `json:"data"`
	}

	if err := c.getJSON(ctx, fmt.Sprintf("/get-comments-list/%d", postID), &envelope); err != nil {
		return nil, err
	}

	return envelope.Data.List, nil
}
