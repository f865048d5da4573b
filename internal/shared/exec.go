package shared

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandRunner runs an external program to completion and captures both output streams.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner implements [CommandRunner] with [exec.CommandContext].
//
// The process is killed when ctx is done.
type ExecRunner struct{}

// Run executes name with args.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// LookPath reports the resolved path of an executable on PATH.
var LookPath = exec.LookPath
