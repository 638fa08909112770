package store

import (
	"context"
	"fmt"

	"github.com/UID-Technologies/acado-engagement/pkg/internal/models"
	"github.com/samber/lo"
)

// FetchComments replaces the comments buffer wholesale with the
// authoritative list for the given post. Optimistic rows that the
// refresh does not yet cover stay prepended; ones it covers are
// dropped so a confirmed comment never shows twice. Overlapping
// refreshes follow the same last-issued-wins rule as view fetches.
func (s *Store) FetchComments(ctx context.Context, postID int64) error {
	if postID <= 0 {
		return fmt.Errorf("post id is required")
	}

	s.mu.Lock()
	if s.comments.postID != postID {
		// The sequence outlives the buffer so a response issued for the
		// previous target can never pass the ticket check after a
		// switch back.
		s.comments = commentsBuffer{postID: postID, seq: s.comments.seq}
	}
	s.comments.seq++
	ticket := s.comments.seq
	s.comments.loading = true
	s.comments.err = ""
	s.mu.Unlock()

	rows, err := s.fetch.ListComments(ctx, postID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.comments.postID != postID || s.comments.seq != ticket {
		return nil
	}

	s.comments.loading = false
	if err != nil {
		s.comments.err = err.Error()
		return err
	}

	pending := lo.Filter(s.comments.rows, func(row models.Comment, _ int) bool {
		if !row.IsOptimistic() {
			return false
		}
		return !lo.SomeBy(rows, func(confirmed models.Comment) bool {
			return confirmed.Supersedes(row)
		})
	})
	s.comments.rows = append(pending, rows...)

	return nil
}
