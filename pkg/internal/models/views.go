package models

// ViewName identifies one independently fetched slice of the post
// universe. The community and industry views are single-slot: each
// fetch records its scope id and replaces the slice wholesale.
type ViewName string

const (
	ViewPosts     = ViewName("posts")
	ViewPinned    = ViewName("pinPosts")
	ViewMine      = ViewName("myPosts")
	ViewCommunity = ViewName("communityPosts")
	ViewIndustry  = ViewName("industryPosts")
)

var AllViews = []ViewName{
	ViewPosts,
	ViewPinned,
	ViewMine,
	ViewCommunity,
	ViewIndustry,
}

func (v ViewName) Valid() bool {
	switch v {
	case ViewPosts, ViewPinned, ViewMine, ViewCommunity, ViewIndustry:
		return true
	}
	return false
}

// ViewModel is the read model handed to the presentation layer: the
// materialized rows plus the view's own loading/error pair.
type ViewModel struct {
	Data    []Post `json:"data"`
	Loading bool   `json:"loading"`
	Error   string `json:"error"`
	ScopeID int64  `json:"scope_id,omitempty"`
}

// CommentsModel is the read model of the comments buffer.
type CommentsModel struct {
	PostID  int64     `json:"post_id"`
	Data    []Comment `json:"data"`
	Loading bool      `json:"loading"`
	Error   string    `json:"error"`
}
