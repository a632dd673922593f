package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/sakif/pysnap/internal/executor"
)

// Executor implements the executor.Executor interface using Docker.
type Executor struct {
	cli    *client.Client
	config Config
	logger *slog.Logger
	pool   *Pool
}

// New creates a new Docker Executor and initializes the connection.
func New(cfg Config, logger *slog.Logger) (*Executor, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	// Make sure the image is pulled
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger.Info("ensuring docker image is available", slog.String("image", cfg.Image))
	reader, err := cli.ImagePull(ctx, cfg.Image, image.PullOptions{})
	if err != nil {
		cli.Close()
		return nil, fmt.Errorf("failed to pull image: %w", err)
	}
	defer reader.Close()
	// Read everything to block until the pull is complete
	io.Copy(io.Discard, reader)
	logger.Info("docker image is ready")

	exec := &Executor{
		cli:    cli,
		config: cfg,
		logger: logger,
	}

	exec.pool = NewPool(cli, cfg, logger)
	exec.pool.Start()

	return exec, nil
}

// Close shuts down the executor pool and docker client.
func (e *Executor) Close() error {
	e.pool.Stop()
	return e.cli.Close()
}

// Execute runs the code in a sandboxed container. The host temp file is not
// visible inside the container, so the code is passed with `python -c`.
func (e *Executor) Execute(ctx context.Context, req executor.Request) (*executor.Result, error) {
	limit := e.config.MaxRuntime
	if req.TimeoutEnabled {
		limit = req.Timeout
	}

	start := time.Now()
	out, err := e.run(ctx, []string{"python", "-c", req.Code}, limit)
	if err != nil {
		return nil, err
	}

	res := &executor.Result{
		Stdout:   out.stdout,
		Stderr:   out.stderr,
		TimedOut: out.timedOut,
		Duration: time.Since(start),
	}
	if out.timedOut {
		res.Stderr += executor.TimeoutMessage(limit)
	} else {
		code := out.exitCode
		res.ReturnCode = &code
	}
	return res, nil
}

// ResolveImports checks the modules against the container's interpreter,
// which is the one that will run the code.
func (e *Executor) ResolveImports(ctx context.Context, modules []string) ([]string, []string, error) {
	if len(modules) == 0 {
		return []string{}, []string{}, nil
	}

	cmd := append([]string{"python", "-c", executor.FindSpecScript}, modules...)
	out, err := e.run(ctx, cmd, 10*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving imports: %w", err)
	}
	if out.timedOut {
		return nil, nil, fmt.Errorf("resolving imports: timed out")
	}
	found, missing := executor.ParseResolved(out.stdout, modules)
	return found, missing, nil
}

type execOutput struct {
	stdout   string
	stderr   string
	exitCode int
	timedOut bool
}

// run executes cmd in a fresh container from the pool and removes the
// container afterwards. Containers are never reused between runs.
func (e *Executor) run(ctx context.Context, cmd []string, limit time.Duration) (*execOutput, error) {
	e.logger.Debug("borrowing container", slog.Int("warm", e.pool.Ready()))

	// Get a pre-warmed container ID from the pool
	containerID, err := e.pool.GetContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container from pool: %w", err)
	}

	// Always ensure we clean up the container that we acquired
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := e.cli.ContainerRemove(cleanupCtx, containerID, container.RemoveOptions{
			Force: true,
		})
		if err != nil {
			e.logger.Error("failed to remove container", slog.String("id", containerID), slog.String("error", err.Error()))
		}
	}()

	executeCtx, executeCancel := context.WithTimeout(ctx, limit)
	defer executeCancel()

	execResp, err := e.cli.ContainerExecCreate(executeCtx, containerID, container.ExecOptions{
		AttachStdout: true,
		AttachStderr: true,
		Cmd:          cmd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create exec: %w", err)
	}

	attachResp, err := e.cli.ContainerExecAttach(executeCtx, execResp.ID, container.ExecStartOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to attach to exec: %w", err)
	}
	defer attachResp.Close()

	var stdout, stderr bytes.Buffer

	done := make(chan struct{})
	go func() {
		// Use stdcopy to demultiplex stdout from stderr
		_, _ = stdcopy.StdCopy(&stdout, &stderr, attachResp.Reader)
		close(done)
	}()

	out := &execOutput{}
	select {
	case <-done:
		inspectResp, err := e.cli.ContainerExecInspect(ctx, execResp.ID)
		if err == nil {
			out.exitCode = inspectResp.ExitCode
		}
	case <-executeCtx.Done():
		// Closing the hijacked connection ends the copier; the container is
		// force-removed by the deferred cleanup.
		attachResp.Close()
		<-done
		out.timedOut = true
	}
	out.stdout = stdout.String()
	out.stderr = stderr.String()
	return out, nil
}
