package gcloud

import "context"

const defaultBinary = "gcloud"

// Runner executes external commands. The local gcloud binary is the only
// real implementation; tests substitute their own.
type Runner interface {
	Run(ctx context.Context, task ExecTask) (ExecResult, error)
}

// CLI runs tasks against the local gcloud binary, scoping every call to the
// configured project and region when those are set.
type CLI struct {
	Binary  string
	Project string
	Region  string
}

func (c CLI) Run(ctx context.Context, task ExecTask) (ExecResult, error) {
	task.Command = c.Binary
	if task.Command == "" {
		task.Command = defaultBinary
	}
	task.Args = c.scope(task.Args)
	return task.Execute(ctx)
}

func (c CLI) scope(args []string) []string {
	scoped := make([]string, 0, len(args)+4)
	scoped = append(scoped, args...)
	if c.Project != "" {
		scoped = append(scoped, "--project", c.Project)
	}
	if c.Region != "" {
		scoped = append(scoped, "--region", c.Region)
	}
	return scoped
}
