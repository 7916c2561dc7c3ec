// Package runner runs the opaque external tools of the provisioning
// pipeline (wallet generator, genesis unit generator) as child processes.
//
// Runner is the spawning capability; Invoker layers the pipeline's contract
// on top of it: child output is logged line by line and a nonzero exit is
// turned into an ExternalTool fault.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result is what a finished child process left behind.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner spawns a program and waits for it. A nonzero exit is reported in
// Result.ExitCode, not as an error; err is reserved for processes that could
// not be started or were killed by ctx.
type Runner interface {
	Run(ctx context.Context, program string, args ...string) (*Result, error)
}

// Tool is an external program plus the leading arguments that select it,
// e.g. {"node", "_generate_wallet_config.js"}.
type Tool struct {
	Name    string
	Command []string
}

// ParseTool splits a command line on whitespace.
func ParseTool(name, cmdline string) (Tool, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return Tool{}, fmt.Errorf("%s tool: empty command", name)
	}
	return Tool{Name: name, Command: fields}, nil
}

func (t Tool) String() string { return strings.Join(t.Command, " ") }

// waitDelay bounds how long Run waits for output pipes after the child is
// killed by ctx; grandchildren may hold them open.
const waitDelay = 5 * time.Second

// Exec runs programs with os/exec in Dir (the current directory when empty).
type Exec struct {
	Dir string
	Env []string // appended to the parent environment
}

func (e *Exec) Run(ctx context.Context, program string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = e.Dir
	cmd.WaitDelay = waitDelay
	if len(e.Env) > 0 {
		cmd.Env = append(cmd.Environ(), e.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, fmt.Errorf("%s: %w", program, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return nil, err
}
