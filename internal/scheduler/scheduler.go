package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"feedlinker/internal/registry"

	"github.com/robfig/cron/v3"
)

const (
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
	snapshotTimeout       = time.Minute
)

// Scheduler periodically writes an OPML snapshot of the registry to disk.
type Scheduler struct {
	ctx      context.Context
	cron     *cron.Cron
	registry *registry.Registry
	spec     string
	path     string
	log      *slog.Logger
}

func New(
	ctx context.Context,
	reg *registry.Registry,
	spec string,
	path string,
	log *slog.Logger,
) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:      ctx,
		cron:     c,
		registry: reg,
		spec:     spec,
		path:     path,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.exportSnapshot); err != nil {
		return fmt.Errorf("add cron func: %w", err)
	}

	s.cron.Start()

	return nil
}

// Stop waits for a running snapshot to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) exportSnapshot() {
	ctx, cancel := context.WithTimeout(s.ctx, snapshotTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())
		return
	default:
	}

	count, err := s.WriteSnapshot(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to write OPML snapshot",
			"error", err,
			"path", s.path,
			"spec", s.spec)

		return
	}

	s.log.InfoContext(ctx, "OPML snapshot is written",
		"path", s.path,
		"feedCount", count)
}

// WriteSnapshot returns the number of exported feeds.
func (s *Scheduler) WriteSnapshot(ctx context.Context) (int, error) {
	count, err := s.registry.ExportFile(ctx, s.path)
	if err != nil {
		return 0, fmt.Errorf("export registry: %w", err)
	}

	return count, nil
}
