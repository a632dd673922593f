// Package executor defines how the service runs submitted Python code.
//
// Two implementations exist: subprocess (runs the saved temp file with a
// local interpreter) and docker (runs the code inside a pre-warmed,
// network-less container).
package executor

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Request is one execution.
type Request struct {
	Code string
	// Path is the saved temp file. Executors that cannot see the host
	// filesystem run Code instead.
	Path string
	// Timeout applies only when TimeoutEnabled is set.
	Timeout        time.Duration
	TimeoutEnabled bool
}

// Result is the outcome of one execution.
//
// ReturnCode is nil when the process never finished on its own (timeout or
// launch failure). Traceback is set only when the executor itself failed.
type Result struct {
	Stdout     string
	Stderr     string
	ReturnCode *int
	TimedOut   bool
	Traceback  *string
	Duration   time.Duration
}

// Executor represents the core interface for running code in an isolated environment.
type Executor interface {
	Execute(ctx context.Context, req Request) (*Result, error)
	// ResolveImports reports which top-level modules the executor's
	// interpreter can import. Both slices keep the order of modules.
	ResolveImports(ctx context.Context, modules []string) (found, missing []string, err error)
}

// FindSpecScript prints "+name" or "-name" for every module named in argv,
// depending on whether the interpreter can locate it.
const FindSpecScript = `import importlib.util, sys
for m in sys.argv[1:]:
    try:
        ok = importlib.util.find_spec(m) is not None
    except Exception:
        ok = False
    print(("+" if ok else "-") + m)
`

// ParseResolved splits FindSpecScript output into found and missing, in the
// order of modules. A module the script did not report is missing.
func ParseResolved(output string, modules []string) (found, missing []string) {
	seen := make(map[string]bool, len(modules))
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "+") {
			seen[line[1:]] = true
		}
	}

	found = []string{}
	missing = []string{}
	for _, m := range modules {
		if seen[m] {
			found = append(found, m)
		} else {
			missing = append(missing, m)
		}
	}
	return found, missing
}

// TimeoutMessage is appended to stderr when a run is killed for exceeding
// its timeout.
func TimeoutMessage(timeout time.Duration) string {
	secs := strconv.FormatFloat(timeout.Seconds(), 'f', -1, 64)
	return fmt.Sprintf("\nExecution timed out (>%ss), process terminated.", secs)
}

// Seconds converts a client-supplied timeout in seconds to a Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
