package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/nexus/internal/generate"
	"github.com/MrSnakeDoc/nexus/internal/index"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/metrics"
)

// settleDelay coalesces the burst of events an editor or an atomic rename
// produces into one reload.
const settleDelay = 200 * time.Millisecond

// RulesReloader keeps the rules index in sync with the access rules file.
// It reloads on a ticker, on manual triggers and on file system events.
type RulesReloader struct {
	path          string
	index         *index.RulesIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
	watcher       *fsnotify.Watcher
}

// NewRulesReloader creates a reloader for the rules file at path
func NewRulesReloader(
	path string,
	idx *index.RulesIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *RulesReloader {
	return &RulesReloader{
		path:          filepath.Clean(path),
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the rules once and begins watching. A failed initial load is
// logged and leaves the index empty, so every request is denied until the
// file becomes readable.
func (rr *RulesReloader) Start(ctx context.Context) error {
	if err := rr.Reload(ctx); err != nil {
		rr.logger.Error("initial rules load failed, denying all requests until next reload",
			logger.String("path", rr.path),
			logger.Error(err))
	}

	// The directory is watched rather than the file so that replacements by
	// rename are seen.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(rr.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(rr.path), err)
	}
	rr.watcher = watcher

	go rr.loop(ctx)
	return nil
}

func (rr *RulesReloader) loop(ctx context.Context) {
	ticker := time.NewTicker(rr.interval)
	defer ticker.Stop()
	defer func() { _ = rr.watcher.Close() }()

	settle := time.NewTimer(settleDelay)
	settle.Stop()
	defer settle.Stop()

	reload := func(reason string) {
		rr.logger.Debug("reloading access rules", logger.String("reason", reason))
		if err := rr.Reload(ctx); err != nil {
			rr.logger.Error("failed to reload access rules",
				logger.String("path", rr.path),
				logger.Error(err))
		}
	}

	for {
		select {
		case <-ticker.C:
			reload("interval")
		case <-rr.manualTrigger:
			rr.logger.Info("manual reload triggered")
			reload("manual")
		case event, ok := <-rr.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != rr.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				settle.Reset(settleDelay)
			}
		case <-settle.C:
			reload("file changed")
		case err, ok := <-rr.watcher.Errors:
			if !ok {
				return
			}
			rr.logger.Warn("file watcher error", logger.Error(err))
		case <-rr.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the reloader
func (rr *RulesReloader) Stop() {
	close(rr.stopCh)
}

// Reload reads the rules file and swaps it into the index. On failure the
// previous rules stay in force.
func (rr *RulesReloader) Reload(ctx context.Context) error {
	rules, err := generate.LoadAccessRules(rr.path)
	metrics.ObserveReload(err, countServices(rules))
	if err != nil {
		return err
	}

	rr.index.Update(rules)
	rr.logger.Info("access rules loaded",
		logger.String("path", rr.path),
		logger.Int("services", len(rules.Services)),
		logger.Int("groups", len(rules.Groups)),
		logger.String("default", rules.Default))
	return nil
}

func countServices(rules *generate.AccessRules) int {
	if rules == nil {
		return 0
	}
	return len(rules.Services)
}
