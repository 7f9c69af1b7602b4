// Package journal keeps a local audit trail of onboarding activity.
package journal

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pysugar/channel-onboard/internal/db/models"
	"github.com/pysugar/channel-onboard/internal/util"
	"gorm.io/gorm"
)

const (
	// MaxMemoryEntries limits the in-memory cache of recent activity.
	MaxMemoryEntries = 100
	// MaxErrorSize caps stored error text.
	MaxErrorSize = 4 * 1024
)

// Recorder stores activity in memory and persists it asynchronously.
type Recorder struct {
	db *gorm.DB

	recent   []models.Activity
	recentMu sync.RWMutex

	total   atomic.Int64
	success atomic.Int64
	failure atomic.Int64

	pending sync.WaitGroup
}

// NewRecorder migrates the activity table and loads stats from it.
func NewRecorder(db *gorm.DB) *Recorder {
	r := &Recorder{
		db:     db,
		recent: make([]models.Activity, 0, MaxMemoryEntries),
	}

	if err := db.AutoMigrate(&models.Activity{}); err != nil {
		log.Printf("[Journal] Failed to migrate Activity table: %v", err)
	}
	r.loadStatsFromDB()
	return r
}

// Record adds an entry (async, non-blocking). A nil recorder drops it.
func (r *Recorder) Record(entry models.Activity) {
	if r == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	entry.Error = util.TruncateLog(entry.Error, MaxErrorSize)

	r.total.Add(1)
	if entry.Success {
		r.success.Add(1)
	} else {
		r.failure.Add(1)
	}

	r.recentMu.Lock()
	r.recent = append([]models.Activity{entry}, r.recent...)
	if len(r.recent) > MaxMemoryEntries {
		r.recent = r.recent[:MaxMemoryEntries]
	}
	r.recentMu.Unlock()

	r.pending.Add(1)
	go func(entry models.Activity) {
		defer r.pending.Done()
		if err := r.db.Create(&entry).Error; err != nil {
			log.Printf("[Journal] Failed to save activity: %v", err)
		}
	}(entry)
}

// Wait blocks until every pending write has finished.
func (r *Recorder) Wait() {
	if r == nil {
		return
	}
	r.pending.Wait()
}

// Recent returns cached entries, newest first. An empty kind matches all.
func (r *Recorder) Recent(limit int, kind string) []models.Activity {
	if limit <= 0 || limit > MaxMemoryEntries {
		limit = MaxMemoryEntries
	}

	r.recentMu.RLock()
	defer r.recentMu.RUnlock()

	out := make([]models.Activity, 0, limit)
	for _, a := range r.recent {
		if kind != "" && a.Kind != kind {
			continue
		}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out
}

// History reads entries from the database, newest first, falling back to
// the memory cache when the query fails.
func (r *Recorder) History(ctx context.Context, limit int, kind string) []models.Activity {
	if limit <= 0 {
		limit = MaxMemoryEntries
	}

	var entries []models.Activity
	query := r.db.WithContext(ctx).Order("timestamp DESC").Limit(limit)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Find(&entries).Error; err != nil {
		log.Printf("[Journal] Failed to get activity from DB: %v", err)
		return r.Recent(limit, kind)
	}
	return entries
}

// ForClient returns the stored activity of one client, oldest first.
func (r *Recorder) ForClient(ctx context.Context, clientID string) ([]models.Activity, error) {
	var entries []models.Activity
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, err
}

func (r *Recorder) Stats() models.ActivityStats {
	return models.ActivityStats{
		Total:        r.total.Load(),
		SuccessCount: r.success.Load(),
		FailureCount: r.failure.Load(),
	}
}

// Details renders v as the JSON details column. Encoding errors yield "".
func Details(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func (r *Recorder) loadStatsFromDB() {
	var total, success int64

	r.db.Model(&models.Activity{}).Count(&total)
	r.db.Model(&models.Activity{}).Where("success = ?", true).Count(&success)

	r.total.Store(total)
	r.success.Store(success)
	r.failure.Store(total - success)

	log.Printf("[Journal] Loaded stats: total=%d, success=%d, failure=%d", total, success, total-success)
}
