package logtail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/panoptes-survey/gce-deployer/internal/gcloud"
)

type fakeRunner struct {
	tasks   []gcloud.ExecTask
	results []gcloud.ExecResult
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, task gcloud.ExecTask) (gcloud.ExecResult, error) {
	f.tasks = append(f.tasks, task)
	if f.err != nil {
		return gcloud.ExecResult{ExitCode: -1}, f.err
	}
	res := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return res, nil
}

func newObservedTailer(runner gcloud.Runner) (*Tailer, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core).Sugar()
	return New(runner, logger, "gce-plate-solver", time.Second), logs
}

func TestPollEmitsEntries(t *testing.T) {
	runner := &fakeRunner{results: []gcloud.ExecResult{{
		ExitCode: 0,
		Stdout:   "LEVEL  NAME  EXECUTION_ID  TIME_UTC  LOG\nI      gce-plate-solver  abc  2019-01-01  solving field\n",
	}}}
	tailer, logs := newObservedTailer(runner)
	defer tailer.seen.Close()

	require.NoError(t, tailer.poll(context.Background()))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Contains(t, entry.Message, "solving field")

	require.Len(t, runner.tasks, 1)
	assert.Equal(t, gcloud.LogArgs("gce-plate-solver", readLimit), runner.tasks[0].Args)
}

func TestPollDeduplicatesAcrossReads(t *testing.T) {
	out := "I  gce-plate-solver  abc  2019-01-01  solving field\n"
	runner := &fakeRunner{results: []gcloud.ExecResult{
		{ExitCode: 0, Stdout: out},
		{ExitCode: 0, Stdout: out + "I  gce-plate-solver  def  2019-01-01  sources extracted\n"},
	}}
	tailer, logs := newObservedTailer(runner)
	defer tailer.seen.Close()

	require.NoError(t, tailer.poll(context.Background()))
	require.NoError(t, tailer.poll(context.Background()))

	require.Equal(t, 2, logs.Len())
	assert.Contains(t, logs.All()[1].Message, "sources extracted")
}

func TestPollToleratesReadFailure(t *testing.T) {
	runner := &fakeRunner{results: []gcloud.ExecResult{{ExitCode: 1, Stderr: "quota"}}}
	tailer, logs := newObservedTailer(runner)
	defer tailer.seen.Close()

	require.NoError(t, tailer.poll(context.Background()))
	// nothing re-emitted, only the retry warning
	require.Equal(t, 0, logs.FilterMessage("quota").Len())
}

func TestPollStopsWhenToolCannotRun(t *testing.T) {
	runner := &fakeRunner{err: context.DeadlineExceeded}
	tailer, _ := newObservedTailer(runner)
	defer tailer.seen.Close()

	assert.Error(t, tailer.poll(context.Background()))
}

func TestTailStopsOnCancel(t *testing.T) {
	runner := &fakeRunner{results: []gcloud.ExecResult{{ExitCode: 0}}}
	tailer, _ := newObservedTailer(runner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tailer.Tail(ctx)
	assert.Equal(t, context.Canceled, err)
}
