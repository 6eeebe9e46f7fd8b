package logtail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ReneKroon/ttlcache/v2"
	"go.uber.org/zap"

	"github.com/panoptes-survey/gce-deployer/internal/gcloud"
)

const (
	defaultInterval = 2 * time.Second
	seenEntryTTL    = 10 * time.Minute
	readLimit       = 50
)

// Tailer polls a deployed function's log through the deployment tool and
// re-emits new entries on the structured logger. Entries already emitted are
// remembered in a TTL cache so overlapping reads stay quiet.
type Tailer struct {
	runner       gcloud.Runner
	logger       *zap.SugaredLogger
	functionName string
	interval     time.Duration
	seen         *ttlcache.Cache
}

func New(runner gcloud.Runner, logger *zap.SugaredLogger, functionName string, interval time.Duration) *Tailer {
	if interval <= 0 {
		interval = defaultInterval
	}

	seen := ttlcache.NewCache()
	seen.SetTTL(seenEntryTTL)

	return &Tailer{
		runner:       runner,
		logger:       logger,
		functionName: functionName,
		interval:     interval,
		seen:         seen,
	}
}

// Tail polls until ctx is cancelled. Transient read failures are logged and
// the loop keeps going; only a tool that cannot be run at all stops it.
func (t *Tailer) Tail(ctx context.Context) error {
	defer t.seen.Close()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := t.poll(ctx); err != nil {
				return err
			}
		}
	}
}

func (t *Tailer) poll(ctx context.Context) error {
	task := gcloud.ExecTask{Args: gcloud.LogArgs(t.functionName, readLimit)}
	res, err := t.runner.Run(ctx, task)
	if err != nil {
		return fmt.Errorf("read function logs: %w", err)
	}
	if res.ExitCode != 0 {
		t.logger.Warnw("log read failed, will retry",
			"function_name", t.functionName,
			"exit_code", res.ExitCode,
		)
		return nil
	}

	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "LEVEL ") {
			continue
		}
		if _, err := t.seen.Get(line); err == nil {
			continue
		}
		t.seen.Set(line, nil)
		t.logger.Infow(line, "function_name", t.functionName)
	}
	return nil
}
