package deploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/panoptes-survey/gce-deployer/internal/descriptor"
	"github.com/panoptes-survey/gce-deployer/internal/gcloud"
)

// Deployer issues the single external deployment call for a descriptor and
// propagates the tool's exit status unchanged. There is no retry: a failed
// deploy is reported and the run aborts.
type Deployer struct {
	Runner gcloud.Runner
	Logger *zap.SugaredLogger
	DryRun bool
	Verify bool
}

// Deploy registers (or updates) the function described by d and returns the
// deployment tool's exit code. Exactly one deployment invocation is issued
// per call; 0 means the tool succeeded, any other code is the tool's own,
// passed through exactly. Local failures (invalid descriptor, tool missing)
// use code 1.
func (dp *Deployer) Deploy(ctx context.Context, d descriptor.Descriptor) (int, error) {
	if err := d.Validate(); err != nil {
		return 1, fmt.Errorf("invalid descriptor: %w", err)
	}

	runID := uuid.New().String()
	log := dp.Logger.With("run_id", runID, "function_name", d.Name)

	args := gcloud.DeployArgs(d)
	if dp.DryRun {
		log.Infow("dry run, not deploying", "command", strings.Join(args, " "))
		return 0, nil
	}

	log.Infow("deploying function",
		"entry_point", d.EntryPoint,
		"runtime", d.Runtime,
		"trigger_resource", d.TriggerResource,
		"trigger_event", d.TriggerEvent,
	)

	res, err := dp.Runner.Run(ctx, gcloud.ExecTask{Args: args, StreamStdio: true})
	if err != nil {
		return 1, fmt.Errorf("run deployment tool: %w", err)
	}
	if res.ExitCode != 0 {
		log.Errorw("deploy failed", "exit_code", res.ExitCode)
		return res.ExitCode, fmt.Errorf("deployment tool exited with status %d", res.ExitCode)
	}

	log.Infow("deploy succeeded")

	if dp.Verify {
		// Observational only: a failed read-back never masks the deploy result.
		dp.describe(ctx, log, d.Name)
	}
	return 0, nil
}

func (dp *Deployer) describe(ctx context.Context, log *zap.SugaredLogger, name string) {
	res, err := dp.Runner.Run(ctx, gcloud.ExecTask{Args: gcloud.DescribeArgs(name)})
	if err != nil {
		log.Warnw("could not verify deployed function", "error", err)
		return
	}
	if res.ExitCode != 0 {
		log.Warnw("could not verify deployed function",
			"exit_code", res.ExitCode,
			"stderr", strings.TrimSpace(res.Stderr),
		)
		return
	}
	log.Infow("deployed function state", "describe", strings.TrimSpace(res.Stdout))
}
