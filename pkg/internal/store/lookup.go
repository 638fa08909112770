package store

import (
	"github.com/UID-Technologies/acado-engagement/pkg/internal/models"
)

// FindPost locates a cached row by post id, preferring the original
// row over repost rows that embed the same post.
func (s *Store) FindPost(postID int64) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if row, ok := s.entities[entityKey{id: postID}]; ok {
		return copyRow(row), true
	}
	for _, row := range s.entities {
		if row.ID == postID {
			return copyRow(row), true
		}
	}
	return models.Post{}, false
}

// FindRepost locates a cached repost row by its repost id.
func (s *Store) FindRepost(repostID int64) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if row, ok := s.entities[entityKey{repost: true, id: repostID}]; ok {
		return copyRow(row), true
	}
	return models.Post{}, false
}

func copyRow(row *models.Post) models.Post {
	out := *row
	if row.Repost != nil {
		meta := *row.Repost
		out.Repost = &meta
	}
	return out
}
