package runner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/katringoogoo/byteball-genesis/internal/fault"
)

// OutputPrefix marks log records that carry child process output.
const OutputPrefix = "|> "

// ExitError is a tool that ran to completion with a nonzero status.
type ExitError struct {
	Tool string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
}

// Invoker runs Tools synchronously through a Runner.
type Invoker struct {
	runner  Runner
	log     log.Logger
	timeout time.Duration
}

// NewInvoker returns an Invoker. A zero timeout waits forever.
func NewInvoker(r Runner, l log.Logger, timeout time.Duration) *Invoker {
	return &Invoker{runner: r, log: l, timeout: timeout}
}

// Invoke runs tool with args appended to its command and blocks until it
// exits. Stdout lines go to Debug. On a nonzero exit stderr lines go to Error
// and the returned error is an ExternalTool fault wrapping *ExitError.
func (i *Invoker) Invoke(ctx context.Context, tool Tool, args ...string) error {
	if len(tool.Command) == 0 {
		return fault.Newf(fault.Config, tool.Name, "no command configured")
	}
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	argv := append(append([]string(nil), tool.Command[1:]...), args...)
	op := tool.Name + " " + strings.Join(args, " ")
	i.log.Debug("Running external tool", "tool", tool.Name, "cmd", tool.Command[0], "args", argv)

	res, err := i.runner.Run(ctx, tool.Command[0], argv...)
	if res != nil {
		i.emit(tool.Name, res.Stdout, false)
	}
	if err != nil {
		if res != nil {
			i.emit(tool.Name, res.Stderr, true)
		}
		return fault.New(fault.ExternalTool, op, err)
	}
	if res.ExitCode != 0 {
		i.emit(tool.Name, res.Stderr, true)
		return fault.New(fault.ExternalTool, op, &ExitError{Tool: tool.Name, Code: res.ExitCode})
	}
	i.emit(tool.Name, res.Stderr, false)
	return nil
}

func (i *Invoker) emit(tool string, out []byte, failed bool) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if failed {
			i.log.Error(OutputPrefix+line, "tool", tool)
		} else {
			i.log.Debug(OutputPrefix+line, "tool", tool)
		}
	}
}
