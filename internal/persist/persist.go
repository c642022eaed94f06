// Package persist stores the learning path collection and daily stats as
// two named JSON records and applies the day rollover on load.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/curioloop/internal/learning"
	"github.com/abhisek/curioloop/internal/store"
	"github.com/abhisek/curioloop/internal/streak"
)

// Record keys. The names match what earlier clients wrote so existing
// data stays readable.
const (
	KeyPaths = "curioloop_paths"
	KeyStats = "curioloop_stats"
)

// StorageError reports a failed read or write of a named record.
type StorageError struct {
	Op  string // "load" or "save"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Loaded is the state read at startup.
type Loaded struct {
	Paths []learning.LearningPath
	Stats learning.DailyStats

	// RolledOver is true when the day rollover changed the stats.
	RolledOver bool
}

// Adapter reads and writes the two records.
type Adapter struct {
	records store.RecordRepo
	log     *zap.Logger
}

// New creates an Adapter. A nil logger discards output.
func New(records store.RecordRepo, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{records: records, log: log.Named("persist")}
}

// Load reads both records. Missing or malformed records fall back to an
// empty collection and default stats so startup never blocks. The day
// rollover is applied to the stats and written back when it changes them
// or when no stats record existed. Nothing is written after a failed read,
// so a transient backend error never replaces real stats with defaults.
//
// The returned Loaded is always usable. A non-nil error is a
// *StorageError from the backend that callers may log and ignore.
func (a *Adapter) Load(ctx context.Context, now time.Time) (Loaded, error) {
	var errs []error

	paths, err := a.loadPaths(ctx)
	if err != nil {
		errs = append(errs, err)
	}

	stats, found, statsErr := a.loadStats(ctx, now)
	if statsErr != nil {
		errs = append(errs, statsErr)
	}

	out := Loaded{Paths: paths}
	out.Stats, out.RolledOver = streak.Rollover(stats, now)
	if statsErr == nil && (out.RolledOver || !found) {
		if err := a.SaveStats(ctx, out.Stats); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return out, errs[0]
	}
	return out, nil
}

func (a *Adapter) loadPaths(ctx context.Context) ([]learning.LearningPath, error) {
	rec, err := a.records.Get(ctx, KeyPaths)
	if err != nil {
		a.log.Error("read paths", zap.Error(err))
		return []learning.LearningPath{}, &StorageError{Op: "load", Key: KeyPaths, Err: err}
	}
	if rec == nil {
		return []learning.LearningPath{}, nil
	}

	var paths []learning.LearningPath
	if err := json.Unmarshal(rec.Value, &paths); err != nil {
		a.log.Warn("discarding malformed paths record", zap.Error(err), zap.Int("bytes", len(rec.Value)))
		return []learning.LearningPath{}, nil
	}
	if paths == nil {
		paths = []learning.LearningPath{}
	}
	return paths, nil
}

func (a *Adapter) loadStats(ctx context.Context, now time.Time) (learning.DailyStats, bool, error) {
	rec, err := a.records.Get(ctx, KeyStats)
	if err != nil {
		a.log.Error("read stats", zap.Error(err))
		return streak.Default(now), false, &StorageError{Op: "load", Key: KeyStats, Err: err}
	}
	if rec == nil {
		return streak.Default(now), false, nil
	}

	var stats learning.DailyStats
	if err := json.Unmarshal(rec.Value, &stats); err != nil {
		a.log.Warn("discarding malformed stats record", zap.Error(err))
		return streak.Default(now), false, nil
	}
	return streak.Sanitize(stats, now), true, nil
}

// SavePaths replaces the stored path collection.
func (a *Adapter) SavePaths(ctx context.Context, paths []learning.LearningPath) error {
	if paths == nil {
		paths = []learning.LearningPath{}
	}
	return a.put(ctx, KeyPaths, paths)
}

// SaveStats replaces the stored daily stats.
func (a *Adapter) SaveStats(ctx context.Context, stats learning.DailyStats) error {
	return a.put(ctx, KeyStats, stats)
}

func (a *Adapter) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &StorageError{Op: "save", Key: key, Err: err}
	}
	if err := a.records.Put(ctx, key, data); err != nil {
		a.log.Error("write record", zap.String("key", key), zap.Error(err))
		return &StorageError{Op: "save", Key: key, Err: err}
	}
	return nil
}
