package gcloud

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// ExecTask describes one external command invocation. Stdout and stderr are
// always captured; with StreamStdio they are additionally copied through to
// the process's own streams so the tool's diagnostics stay visible.
type ExecTask struct {
	Command     string
	Args        []string
	Cwd         string
	Env         []string
	Stdin       io.Reader
	StreamStdio bool
}

// ExecResult carries the captured output and the command's exact exit code.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Execute runs the task and blocks until the command finishes. A non-zero
// exit from the command is not an error here: the code is reported in the
// result and the caller decides. The returned error is non-nil only when the
// command could not be run at all, in which case ExitCode is -1.
func (t ExecTask) Execute(ctx context.Context) (ExecResult, error) {
	cmd := exec.CommandContext(ctx, t.Command, t.Args...)
	cmd.Dir = t.Cwd
	cmd.Stdin = t.Stdin
	if len(t.Env) > 0 {
		cmd.Env = append(os.Environ(), t.Env...)
	}

	var stdout, stderr bytes.Buffer
	if t.StreamStdio {
		cmd.Stdout = io.MultiWriter(os.Stdout, &stdout)
		cmd.Stderr = io.MultiWriter(os.Stderr, &stderr)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	res := ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, err
	}
	return res, nil
}
