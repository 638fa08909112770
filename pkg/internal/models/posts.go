package models

import (
	jsoniter "github.com/json-iterator/go"
)

// Post is one row of a feed view. The upstream wire format flattens a
// repost into the same record as the original post it wraps, under
// repost_* prefixed keys; here that overlay is modelled as an optional
// RepostMeta so callers branch on the variant instead of probing keys.
//
// For a repost row the un-prefixed fields still describe the original
// shared post (both render together), while RepostMeta carries the
// repost's own identity and engagement counters.
type Post struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image"`

	CategoryID *int64 `json:"category_id"`
	IndustryID *int64 `json:"org_id"`
	Tag        string `json:"tag"`

	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`

	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
	RepostCount  int64 `json:"repost_count"`
	ShareCount   int64 `json:"share_count"`
	ViewCount    int64 `json:"view_count"`
	UserLiked    bool  `json:"user_liked"`

	Repost *RepostMeta `json:"repost"`
}

// RepostMeta is the repost-scoped half of a feed row. Its ID is a
// distinct identity from the wrapped post's ID and is the target of
// like and comment mutations on that row.
type RepostMeta struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image"`
	Description  string `json:"description"`
	CategoryID   *int64 `json:"category_id"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`

	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
	UserLiked    bool  `json:"user_liked"`
}

func (v Post) IsRepost() bool {
	return v.Repost != nil
}

// EngagementTarget resolves the entity a like or comment on this row
// applies to: the repost itself when the row is a repost, the post
// otherwise.
func (v Post) EngagementTarget() (int64, bool) {
	if v.Repost != nil {
		return v.Repost.ID, true
	}
	return v.ID, false
}

// wirePost is the flattened upstream record.
type wirePost struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image"`
	CategoryID   *int64 `json:"category_id"`
	IndustryID   *int64 `json:"org_id"`
	Tag          string `json:"tag"`
	Description  string `json:"description"`
	CreatedAt    string `json:"created_at"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	RepostCount  int64  `json:"repost_count"`
	ShareCount   int64  `json:"share_count"`
	ViewCount    int64  `json:"view_count"`
	UserLiked    int8   `json:"user_liked"`

	RepostID           *int64  `json:"repost_id"`
	RepostUserID       *int64  `json:"repost_user_id"`
	RepostName         *string `json:"repost_name"`
	RepostProfileImage *string `json:"repost_profile_image"`
	RepostDescription  *string `json:"repost_description"`
	RepostCategoryID   *int64  `json:"repost_category_id"`
	RepostStatus       *string `json:"repost_status"`
	RepostCreatedAt    *string `json:"repost_created_at"`
	RepostLike         *int64  `json:"repost_like"`
	RepostComments     *int64  `json:"repost_comments"`
	IsUserRepostLike   *int8   `json:"is_user_repost_like"`
}

func (v *Post) UnmarshalJSON(data []byte) error {
	var raw wirePost
	if err := jsoniter.Unmarshal(data, &raw); err != nil {
		return err
	}

	*v = Post{
		ID:           raw.ID,
		UserID:       raw.UserID,
		Name:         raw.Name,
		ProfileImage: raw.ProfileImage,
		CategoryID:   raw.CategoryID,
		IndustryID:   raw.IndustryID,
		Tag:          raw.Tag,
		Description:  raw.Description,
		CreatedAt:    raw.CreatedAt,
		LikeCount:    raw.LikeCount,
		CommentCount: raw.CommentCount,
		RepostCount:  raw.RepostCount,
		ShareCount:   raw.ShareCount,
		ViewCount:    raw.ViewCount,
		UserLiked:    raw.UserLiked != 0,
	}

	if raw.RepostID == nil {
		return nil
	}

	meta := &RepostMeta{ID: *raw.RepostID, CategoryID: raw.RepostCategoryID}
	if raw.RepostUserID != nil {
		meta.UserID = *raw.RepostUserID
	}
	if raw.RepostName != nil {
		meta.Name = *raw.RepostName
	}
	if raw.RepostProfileImage != nil {
		meta.ProfileImage = *raw.RepostProfileImage
	}
	if raw.RepostDescription != nil {
		meta.Description = *raw.RepostDescription
	}
	if raw.RepostStatus != nil {
		meta.Status = *raw.RepostStatus
	}
	if raw.RepostCreatedAt != nil {
		meta.CreatedAt = *raw.RepostCreatedAt
	}
	if raw.RepostLike != nil {
		meta.LikeCount = *raw.RepostLike
	}
	if raw.RepostComments != nil {
		meta.CommentCount = *raw.RepostComments
	}
	if raw.IsUserRepostLike != nil {
		meta.UserLiked = *raw.IsUserRepostLike != 0
	}
	v.Repost = meta

	return nil
}

func (v Post) MarshalJSON() ([]byte, error) {
	raw := wirePost{
		ID:           v.ID,
		UserID:       v.UserID,
		Name:         v.Name,
		ProfileImage: v.ProfileImage,
		CategoryID:   v.CategoryID,
		IndustryID:   v.IndustryID,
		Tag:          v.Tag,
		Description:  v.Description,
		CreatedAt:    v.CreatedAt,
		LikeCount:    v.LikeCount,
		CommentCount: v.CommentCount,
		RepostCount:  v.RepostCount,
		ShareCount:   v.ShareCount,
		ViewCount:    v.ViewCount,
	}
	if v.UserLiked {
		raw.UserLiked = 1
	}

	if meta := v.Repost; meta != nil {
		raw.RepostID = &meta.ID
		raw.RepostUserID = &meta.UserID
		raw.RepostName = &meta.Name
		raw.RepostProfileImage = &meta.ProfileImage
		raw.RepostDescription = &meta.Description
		raw.RepostCategoryID = meta.CategoryID
		raw.RepostStatus = &meta.Status
		raw.RepostCreatedAt = &meta.CreatedAt
		raw.RepostLike = &meta.LikeCount
		raw.RepostComments = &meta.CommentCount
		liked := int8(0)
		if meta.UserLiked {
			liked = 1
		}
		raw.IsUserRepostLike = &liked
	}

	return jsoniter.Marshal(raw)
}
