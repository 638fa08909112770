package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/UID-Technologies/acado-engagement/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// likeState is the pre-patch image of one row's like fields, captured
// so a failed upstream call can be compensated.
type likeState struct {
	count int64
	liked bool
}

// LikeDislike toggles the viewer's like on the row's engagement
// target. A repost target touches only the repost-scoped counters;
// the wrapped original's counters stay untouched, and vice versa.
// The patch commits immediately and is rolled back if upstream
// rejects the call.
func (s *Store) LikeDislike(ctx context.Context, post models.Post) error {
	targetID, isRepost := post.EngagementTarget()

	liked := post.UserLiked
	if isRepost {
		liked = post.Repost.UserLiked
	}
	nextLiked := !liked

	s.mu.Lock()
	undo := s.applyLikeLocked(targetID, isRepost, nextLiked)
	s.mu.Unlock()

	if err := s.mut.ToggleLike(ctx, post); err != nil {
		s.mu.Lock()
		undo()
		s.recordMutationErrorLocked(targetID, err.Error())
		s.mu.Unlock()
		log.Warn().Err(err).Int64("target", targetID).Bool("repost", isRepost).Msg("Like toggle rejected upstream, rolled back...")
		return err
	}

	s.invalidateFeedQueries(ctx)
	return nil
}

// recordMutationErrorLocked surfaces a failed mutation on every view
// holding the affected row, falling back to the main view when the
// target is no longer cached anywhere.
func (s *Store) recordMutationErrorLocked(targetID int64, msg string) {
	hit := false
	for _, vi := range s.views {
		for _, key := range vi.keys {
			row, ok := s.entities[key]
			if !ok {
				continue
			}
			if row.ID == targetID || (row.Repost != nil && row.Repost.ID == targetID) {
				vi.err = msg
				hit = true
				break
			}
		}
	}
	if !hit {
		s.views[models.ViewPosts].err = msg
	}
}

// applyLikeLocked patches every row whose engagement half matches the
// target: for an original, all rows carrying that post id, including
// repost rows that embed it; for a repost, all rows carrying that
// repost id. Returns the compensating closure.
func (s *Store) applyLikeLocked(targetID int64, isRepost bool, nextLiked bool) func() {
	delta := int64(-1)
	if nextLiked {
		delta = 1
	}

	prior := make(map[entityKey]likeState)
	for key, row := range s.entities {
		if isRepost {
			if row.Repost == nil || row.Repost.ID != targetID {
				continue
			}
			prior[key] = likeState{count: row.Repost.LikeCount, liked: row.Repost.UserLiked}
			row.Repost.LikeCount += delta
			row.Repost.UserLiked = nextLiked
		} else {
			if row.ID != targetID {
				continue
			}
			prior[key] = likeState{count: row.LikeCount, liked: row.UserLiked}
			row.LikeCount += delta
			row.UserLiked = nextLiked
		}
	}
	s.markEngagementDirtyLocked()

	return func() {
		for key, state := range prior {
			row, ok := s.entities[key]
			if !ok {
				continue
			}
			if isRepost {
				if row.Repost == nil {
					continue
				}
				row.Repost.LikeCount = state.count
				row.Repost.UserLiked = state.liked
			} else {
				row.LikeCount = state.count
				row.UserLiked = state.liked
			}
		}
		s.markEngagementDirtyLocked()
	}
}

// SendComment validates locally, patches the comment counter on every
// matching row, and prepends an optimistic row to the comments buffer
// when it targets the buffered post. Upstream rejection rolls both
// back.
func (s *Store) SendComment(ctx context.Context, postID int64, content string, isRepostTarget bool) error {
	if len(strings.TrimSpace(content)) == 0 {
		s.mu.Lock()
		s.comments.err = "comment content cannot be empty"
		s.mu.Unlock()
		return fmt.Errorf("comment content cannot be empty")
	}

	s.mu.Lock()
	undo := s.adjustCommentCountLocked(postID, isRepostTarget, 1)
	var optimisticID int64
	if s.comments.postID == postID {
		row := models.Comment{
			ID:           models.NextOptimisticCommentID(),
			PostID:       postID,
			UserID:       s.viewer.ID,
			Name:         s.viewer.Name,
			ProfileImage: s.viewer.ProfileImage,
			Content:      content,
			CreatedAt:    time.Now().Format(time.RFC3339),
		}
		s.comments.rows = append([]models.Comment{row}, s.comments.rows...)
		optimisticID = row.ID
	}
	s.mu.Unlock()

	if err := s.mut.AddComment(ctx, postID, content, isRepostTarget); err != nil {
		s.mu.Lock()
		undo()
		if optimisticID != 0 {
			s.comments.rows = lo.Filter(s.comments.rows, func(row models.Comment, _ int) bool {
				return row.ID != optimisticID
			})
		}
		s.comments.err = err.Error()
		s.mu.Unlock()
		return err
	}

	s.invalidateFeedQueries(ctx)
	return nil
}

func (s *Store) adjustCommentCountLocked(targetID int64, isRepostTarget bool, delta int64) func() {
	prior := make(map[entityKey]int64)
	for key, row := range s.entities {
		if isRepostTarget {
			if row.Repost == nil || row.Repost.ID != targetID {
				continue
			}
			prior[key] = row.Repost.CommentCount
			row.Repost.CommentCount += delta
		} else {
			if row.ID != targetID {
				continue
			}
			prior[key] = row.CommentCount
			row.CommentCount += delta
		}
	}
	s.markEngagementDirtyLocked()

	return func() {
		for key, count := range prior {
			row, ok := s.entities[key]
			if !ok {
				continue
			}
			if isRepostTarget {
				if row.Repost == nil {
					continue
				}
				row.Repost.CommentCount = count
			} else {
				row.CommentCount = count
			}
		}
		s.markEngagementDirtyLocked()
	}
}

// Repost shares a post into the given communities. The repost counter
// bumps optimistically, but the new repost row is a fresh entity only
// upstream can mint, so the main view refetches to surface it.
func (s *Store) Repost(ctx context.Context, postID int64, description string, communityIDs []int64) error {
	if postID <= 0 {
		return fmt.Errorf("post id is required")
	}
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Errorf("repost description cannot be empty")
	}

	s.mu.Lock()
	undo := s.adjustRepostCountLocked(postID, 1)
	s.mu.Unlock()

	if err := s.mut.Repost(ctx, postID, description, communityIDs); err != nil {
		s.mu.Lock()
		undo()
		s.recordMutationErrorLocked(postID, err.Error())
		s.mu.Unlock()
		return err
	}

	s.invalidateFeedQueries(ctx)
	return s.Fetch(ctx, models.ViewPosts, FetchParams{})
}

func (s *Store) adjustRepostCountLocked(postID int64, delta int64) func() {
	prior := make(map[entityKey]int64)
	for key, row := range s.entities {
		if row.ID != postID {
			continue
		}
		prior[key] = row.RepostCount
		row.RepostCount += delta
	}
	s.markEngagementDirtyLocked()

	return func() {
		for key, count := range prior {
			if row, ok := s.entities[key]; ok {
				row.RepostCount = count
			}
		}
		s.markEngagementDirtyLocked()
	}
}

// UpdateRepost edits a repost's description, communities or status.
// There is no local counter to patch; the edited row comes back with
// the refetch.
func (s *Store) UpdateRepost(ctx context.Context, repostID int64, description string, communityIDs []int64, status string) error {
	if repostID <= 0 {
		return fmt.Errorf("repost id is required")
	}

	if err := s.mut.UpdateRepost(ctx, repostID, description, communityIDs, status); err != nil {
		s.mu.Lock()
		s.recordMutationErrorLocked(repostID, err.Error())
		s.mu.Unlock()
		return err
	}

	s.invalidateFeedQueries(ctx)
	return s.Fetch(ctx, models.ViewPosts, FetchParams{})
}

// DeletePost removes the post from every view once upstream confirms.
// Deletion is deliberately not optimistic: a row that vanished locally
// while the upstream delete failed cannot be compensated convincingly.
func (s *Store) DeletePost(ctx context.Context, postID int64) error {
	if postID <= 0 {
		return fmt.Errorf("post id is required")
	}

	if err := s.mut.DeletePost(ctx, postID); err != nil {
		s.mu.Lock()
		s.recordMutationErrorLocked(postID, err.Error())
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	doomed := func(key entityKey) bool {
		row, ok := s.entities[key]
		if !ok {
			return true
		}
		if row.ID == postID {
			return true
		}
		return row.Repost != nil && row.Repost.ID == postID
	}
	for _, vi := range s.views {
		before := len(vi.keys)
		vi.keys = lo.Reject(vi.keys, func(key entityKey, _ int) bool {
			return doomed(key)
		})
		if len(vi.keys) != before {
			vi.dirty = true
		}
	}
	if s.selected != nil && doomed(*s.selected) {
		s.selected = nil
	}
	s.collectLocked()
	s.mu.Unlock()

	s.invalidateFeedQueries(ctx)
	return nil
}

// markEngagementDirtyLocked queues every populated view for the next
// snapshot flush; counter patches are cheap and fan out wide, so the
// per-view bookkeeping is not worth being precise about.
func (s *Store) markEngagementDirtyLocked() {
	for _, vi := range s.views {
		if vi.populated {
			vi.dirty = true
		}
	}
}
