package store

import (
	"context"
	"fmt"
	"time"

	"github.com/UID-Technologies/acado-engagement/pkg/internal/database"
	"github.com/UID-Technologies/acado-engagement/pkg/internal/models"
	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	cachestore "github.com/eko/gocache/lib/v4/store"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotOverlayTTL bounds how old a restored view may be. The base
// table keeps no expiry; the overlay store enforces this TTL natively
// and restores from the base apply it explicitly.
const SnapshotOverlayTTL = 24 * time.Hour

const snapshotTag = "feed-snapshot"

// snapshotSink is where view snapshots land: the durable base table
// and, when configured, the shared redis overlay. Either half may be
// nil; flushing then skips it.
type snapshotSink struct {
	db      *gorm.DB
	overlay cachestore.StoreInterface
}

func (s *Store) UseSnapshotStorage(db *gorm.DB, overlay cachestore.StoreInterface) {
	s.snapshots = snapshotSink{db: db, overlay: overlay}
}

func snapshotCacheKey(view models.ViewName) string {
	return fmt.Sprintf("feed-snapshot#%s", view)
}

// snapshotImage is what gets persisted per view.
type snapshotImage struct {
	View    models.ViewName `json:"view"`
	ScopeID int64           `json:"scope_id"`
	Rows    []models.Post   `json:"rows"`
}

// FlushSnapshots persists every view dirtied since the previous flush.
// Runs on a timer and once more at shutdown, in the same queued-flush
// manner the views themselves are mutated: collect under the lock,
// write outside it.
func (s *Store) FlushSnapshots() {
	s.mu.Lock()
	images := make([]snapshotImage, 0, len(s.views))
	for name, vi := range s.views {
		if !vi.dirty || !vi.populated {
			continue
		}
		vi.dirty = false
		images = append(images, snapshotImage{
			View:    name,
			ScopeID: vi.scopeID,
			Rows:    s.materializeLocked(vi.keys),
		})
	}
	s.mu.Unlock()

	if len(images) == 0 {
		return
	}

	ctx := context.Background()
	for _, image := range images {
		if err := s.persistSnapshot(ctx, image); err != nil {
			log.Error().Err(err).Str("view", string(image.View)).Msg("Failed to persist view snapshot...")
		}
	}
	log.Debug().Int("views", len(images)).Msg("Flushed view snapshots.")
}

func (s *Store) persistSnapshot(ctx context.Context, image snapshotImage) error {
	if s.snapshots.db != nil {
		payload, err := json.Marshal(image.Rows)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot payload: %v", err)
		}
		record := models.ViewSnapshot{
			View:       string(image.View),
			ScopeID:    image.ScopeID,
			Payload:    datatypes.JSON(payload),
			RowCount:   len(image.Rows),
			CapturedAt: time.Now(),
		}
		if err := s.snapshots.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "view"}},
			UpdateAll: true,
		}).Create(&record).Error; err != nil {
			return fmt.Errorf("failed to save snapshot: %v", err)
		}
	}

	if s.snapshots.overlay != nil {
		marshal := marshaler.New(gocache.New[any](s.snapshots.overlay))
		if err := marshal.Set(
			ctx,
			snapshotCacheKey(image.View),
			image,
			cachestore.WithExpiration(SnapshotOverlayTTL),
			cachestore.WithTags([]string{snapshotTag}),
		); err != nil {
			return fmt.Errorf("failed to save snapshot to overlay: %v", err)
		}
	}

	return nil
}

// RestoreSnapshots warms unpopulated views at boot, preferring the
// overlay (its TTL already enforces the freshness bound) and falling
// back to the base table with an explicit staleness check. Anything
// older than the bound is ignored and the view refetches lazily.
func (s *Store) RestoreSnapshots(ctx context.Context) {
	for _, name := range models.AllViews {
		if s.Populated(name) {
			continue
		}
		image, ok := s.loadSnapshot(ctx, name)
		if !ok {
			continue
		}

		s.mu.Lock()
		vi := s.views[name]
		if vi.populated || vi.loading {
			s.mu.Unlock()
			continue
		}
		vi.keys = lo.Map(image.Rows, func(post models.Post, _ int) entityKey {
			return s.upsertLocked(post)
		})
		vi.scopeID = image.ScopeID
		vi.populated = true
		s.mu.Unlock()

		log.Info().Str("view", string(name)).Int("count", len(image.Rows)).Msg("Restored view from snapshot.")
	}
}

func (s *Store) loadSnapshot(ctx context.Context, name models.ViewName) (snapshotImage, bool) {
	if s.snapshots.overlay != nil {
		marshal := marshaler.New(gocache.New[any](s.snapshots.overlay))
		if hit, err := marshal.Get(ctx, snapshotCacheKey(name), new(snapshotImage)); err == nil {
			return *(hit.(*snapshotImage)), true
		}
	}

	if s.snapshots.db == nil {
		return snapshotImage{}, false
	}

	var record models.ViewSnapshot
	if err := s.snapshots.db.Where("view = ?", string(name)).First(&record).Error; err != nil {
		return snapshotImage{}, false
	}
	return imageFromRecord(name, record)
}

// imageFromRecord decodes a base-table snapshot, discarding anything
// past the freshness bound the overlay enforces natively.
func imageFromRecord(name models.ViewName, record models.ViewSnapshot) (snapshotImage, bool) {
	if time.Since(record.CapturedAt) > SnapshotOverlayTTL {
		return snapshotImage{}, false
	}

	var rows []models.Post
	if err := json.Unmarshal(record.Payload, &rows); err != nil {
		log.Warn().Err(err).Str("view", string(name)).Msg("Discarding undecodable view snapshot...")
		return snapshotImage{}, false
	}

	return snapshotImage{View: name, ScopeID: record.ScopeID, Rows: rows}, true
}

// DoAutoSnapshotCleanup drops base-table snapshots past retention.
func DoAutoSnapshotCleanup() {
	if database.C == nil {
		return
	}

	retention := viper.GetDuration("snapshots.retention")
	if retention <= 0 {
		retention = 72 * time.Hour
	}

	deadline := time.Now().Add(-retention)
	tx := database.C.Where("captured_at < ?", deadline).Delete(&models.ViewSnapshot{})
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("An error occurred when cleaning up view snapshots...")
	} else if tx.RowsAffected > 0 {
		log.Info().Int64("count", tx.RowsAffected).Msg("Cleaned up expired view snapshots.")
	}
}
