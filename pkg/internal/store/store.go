// Package store is the engagement cache: five named feed views over
// one normalized table of post entities, kept mutually consistent
// under optimistic mutations and reconciled with the upstream backend
// through the gateways.
package store

import (
	"context"
	"sync"

	"github.com/UID-Technologies/acado-engagement/pkg/internal/gateway"
	"github.com/UID-Technologies/acado-engagement/pkg/internal/models"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type FetchGateway interface {
	ListPosts(ctx context.Context, filter gateway.PostFilter) ([]models.Post, error)
	ListComments(ctx context.Context, postID int64) ([]models.Comment, error)
}

type MutationGateway interface {
	ToggleLike(ctx context.Context, post models.Post) error
	AddComment(ctx context.Context, postID int64, content string, isRepostTarget bool) error
	Repost(ctx context.Context, postID int64, description string, communityIDs []int64) error
	UpdateRepost(ctx context.Context, repostID int64, description string, communityIDs []int64, status string) error
	DeletePost(ctx context.Context, postID int64) error
}

// Viewer is the denormalized identity stamped onto optimistic comment
// rows before the authoritative refresh lands.
type Viewer struct {
	ID           int64
	Name         string
	ProfileImage string
}

func CurrentViewer() Viewer {
	return Viewer{
		ID:           viper.GetInt64("viewer.id"),
		Name:         viper.GetString("viewer.name"),
		ProfileImage: viper.GetString("viewer.profile_image"),
	}
}

// entityKey is the row identity inside the normalized table. A repost
// row is keyed by its repost id, which lives in a different id space
// than post ids, so the original and a repost of it can coexist in the
// same view without colliding.
type entityKey struct {
	repost bool
	id     int64
}

func keyOf(post models.Post) entityKey {
	if post.Repost != nil {
		return entityKey{repost: true, id: post.Repost.ID}
	}
	return entityKey{id: post.ID}
}

// viewIndex is one named view: an ordered list of entity keys plus the
// view's own fetch state. seq is the monotonic fetch ticket; only the
// response holding the latest ticket may commit (last-issued wins).
type viewIndex struct {
	keys      []entityKey
	loading   bool
	err       string
	scopeID   int64
	seq       uint64
	populated bool
	dirty     bool
}

type commentsBuffer struct {
	postID  int64
	rows    []models.Comment
	loading bool
	err     string
	seq     uint64
}

// Store owns the whole engagement cache. All cross-view effects of a
// single mutation commit under one lock hold, so a reader never
// observes a torn update.
type Store struct {
	mu       sync.RWMutex
	entities map[entityKey]*models.Post
	views    map[models.ViewName]*viewIndex
	selected *entityKey
	comments commentsBuffer

	fetch  FetchGateway
	mut    MutationGateway
	viewer Viewer

	snapshots snapshotSink
}

func New(fetch FetchGateway, mut MutationGateway) *Store {
	s := &Store{
		entities: make(map[entityKey]*models.Post),
		views:    make(map[models.ViewName]*viewIndex),
		fetch:    fetch,
		mut:      mut,
		viewer:   CurrentViewer(),
	}
	for _, name := range models.AllViews {
		s.views[name] = &viewIndex{}
	}
	return s
}

// upsertLocked copies the row into the entity table and returns its
// key. Rows are always stored as private copies; nothing outside the
// store ever holds a pointer into the table.
func (s *Store) upsertLocked(post models.Post) entityKey {
	key := keyOf(post)
	row := post
	if post.Repost != nil {
		meta := *post.Repost
		row.Repost = &meta
	}
	s.entities[key] = &row
	return key
}

// collectLocked drops entities no view or selection references.
func (s *Store) collectLocked() {
	live := make(map[entityKey]bool, len(s.entities))
	for _, vi := range s.views {
		for _, key := range vi.keys {
			live[key] = true
		}
	}
	if s.selected != nil {
		live[*s.selected] = true
	}
	for key := range s.entities {
		if !live[key] {
			delete(s.entities, key)
		}
	}
}

func (s *Store) materializeLocked(keys []entityKey) []models.Post {
	return lo.FilterMap(keys, func(key entityKey, _ int) (models.Post, bool) {
		row, ok := s.entities[key]
		if !ok {
			return models.Post{}, false
		}
		return copyRow(row), true
	})
}

// View returns the read model of one named view. Data is always
// materialized from the entity table, so every copy of a post reflects
// the latest committed patch.
func (s *Store) View(name models.ViewName) models.ViewModel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vi, ok := s.views[name]
	if !ok {
		return models.ViewModel{Data: []models.Post{}}
	}
	return models.ViewModel{
		Data:    s.materializeLocked(vi.keys),
		Loading: vi.loading,
		Error:   vi.err,
		ScopeID: vi.scopeID,
	}
}

func (s *Store) Populated(name models.ViewName) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vi, ok := s.views[name]
	return ok && vi.populated
}

// SelectPost sets the detail slot. The slot reads through the entity
// table, so later patches to the same post are visible in the detail
// screen without re-selection.
func (s *Store) SelectPost(post models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.upsertLocked(post)
	s.selected = &key
}

func (s *Store) ClearSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = nil
	s.collectLocked()
}

func (s *Store) Selected() (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return models.Post{}, false
	}
	row, ok := s.entities[*s.selected]
	if !ok {
		return models.Post{}, false
	}
	return copyRow(row), true
}

// Comments returns the read model of the comments buffer.
func (s *Store) Comments() models.CommentsModel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]models.Comment, len(s.comments.rows))
	copy(rows, s.comments.rows)
	return models.CommentsModel{
		PostID:  s.comments.postID,
		Data:    rows,
		Loading: s.comments.loading,
		Error:   s.comments.err,
	}
}
