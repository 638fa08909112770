package store

import (
	"context"
	"fmt"
	"time"

	localCache "github.com/UID-Technologies/acado-engagement/pkg/internal/cache"
	"github.com/UID-Technologies/acado-engagement/pkg/internal/gateway"
	"github.com/UID-Technologies/acado-engagement/pkg/internal/models"
	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	cachestore "github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// FetchParams carries the scope of a view fetch. Tag narrows the main
// feed; CommunityID and IndustryID bind the two single-slot views.
type FetchParams struct {
	CommunityID int64
	IndustryID  int64
	Tag         string
}

const feedQueryTag = "feed-query"

const feedQueryMemoTTL = 15 * time.Second

func filterFor(view models.ViewName, params FetchParams) gateway.PostFilter {
	switch view {
	case models.ViewPinned:
		return gateway.PostFilter{Pinned: true}
	case models.ViewMine:
		return gateway.PostFilter{Mine: true}
	case models.ViewCommunity:
		return gateway.PostFilter{CommunityID: params.CommunityID}
	case models.ViewIndustry:
		return gateway.PostFilter{IndustryID: params.IndustryID}
	default:
		return gateway.PostFilter{Tag: params.Tag}
	}
}

// Fetch repopulates one view from upstream, replacing its data
// wholesale. Each call takes a fresh ticket from the view's monotonic
// sequence; when calls overlap, only the response holding the latest
// ticket commits, no matter which resolves first. A failed fetch
// records the error but keeps the previous data visible.
func (s *Store) Fetch(ctx context.Context, view models.ViewName, params FetchParams) error {
	if !view.Valid() {
		return fmt.Errorf("unknown view: %s", view)
	}

	var scopeID int64
	switch view {
	case models.ViewCommunity:
		if params.CommunityID <= 0 {
			return s.rejectFetch(view, "community id is required")
		}
		scopeID = params.CommunityID
	case models.ViewIndustry:
		if params.IndustryID <= 0 {
			return s.rejectFetch(view, "industry id is required")
		}
		scopeID = params.IndustryID
	}

	s.mu.Lock()
	vi := s.views[view]
	vi.seq++
	ticket := vi.seq
	vi.loading = true
	vi.err = ""
	vi.scopeID = scopeID
	s.mu.Unlock()

	posts, err := s.listPosts(ctx, filterFor(view, params))

	s.mu.Lock()
	defer s.mu.Unlock()

	if vi.seq != ticket {
		log.Debug().Str("view", string(view)).Uint64("ticket", ticket).Msg("Dropping stale feed response...")
		return nil
	}

	vi.loading = false
	if err != nil {
		vi.err = err.Error()
		return err
	}

	vi.keys = lo.Map(posts, func(post models.Post, _ int) entityKey {
		return s.upsertLocked(post)
	})
	vi.populated = true
	vi.dirty = true
	s.collectLocked()

	return nil
}

func (s *Store) rejectFetch(view models.ViewName, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.views[view].err = msg
	return fmt.Errorf("%s", msg)
}

// listPosts memoizes upstream queries for a few seconds so that burst
// refetches of an unchanged view do not hammer the backend. Mutations
// that change the feed invalidate the tag.
func (s *Store) listPosts(ctx context.Context, filter gateway.PostFilter) ([]models.Post, error) {
	if localCache.S == nil {
		return s.fetch.ListPosts(ctx, filter)
	}

	marshal := marshaler.New(gocache.New[any](localCache.S))

	if hit, err := marshal.Get(ctx, filter.CacheKey(), new([]models.Post)); err == nil {
		return *(hit.(*[]models.Post)), nil
	}

	posts, err := s.fetch.ListPosts(ctx, filter)
	if err != nil {
		return nil, err
	}

	_ = marshal.Set(
		ctx,
		filter.CacheKey(),
		posts,
		cachestore.WithExpiration(feedQueryMemoTTL),
		cachestore.WithTags([]string{feedQueryTag}),
	)

	return posts, nil
}

func (s *Store) invalidateFeedQueries(ctx context.Context) {
	if localCache.S == nil {
		return
	}

	marshal := marshaler.New(gocache.New[any](localCache.S))
	if err := marshal.Invalidate(ctx, cachestore.WithInvalidateTags([]string{feedQueryTag})); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate memoized feed queries...")
	}
}
