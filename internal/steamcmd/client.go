package steamcmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"luamaker/internal/fileutil"
	"luamaker/internal/logging"
	"luamaker/internal/services"
	"luamaker/internal/vdf"
)

// ErrEmptyResponse reports a steamcmd run that produced no usable output.
var ErrEmptyResponse = errors.New("steamcmd produced no output")

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogDir sets the directory receiving steam_response_<appid>.log archives.
func WithLogDir(dir string) Option {
	return func(c *Client) {
		c.logDir = strings.TrimSpace(dir)
	}
}

// WithLogger routes client diagnostics through logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "steamcmd")
		}
	}
}

// Client wraps steamcmd CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	logDir  string
	exec    Executor
	logger  *slog.Logger
}

// New constructs a steamcmd client.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("steamcmd binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name identifies the source in logs.
func (c *Client) Name() string { return "steamcmd" }

// Binary returns the executable the client runs.
func (c *Client) Binary() string { return c.binary }

// Args returns the steamcmd argument list that prints appID's record.
func Args(appID string) []string {
	return []string{
		"+login", "anonymous",
		"+app_info_update", "1",
		"+app_info_print", appID,
		"+quit",
	}
}

// ResponseLogName is the archive file name for appID's raw response.
func ResponseLogName(appID string) string {
	return "steam_response_" + appID + ".log"
}

// Fetch runs steamcmd and returns its cleaned output. steamcmd regularly exits
// non-zero after printing a complete record, so a failed exit is only an
// error when nothing was printed.
func (c *Client) Fetch(ctx context.Context, appID string) (string, error) {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return "", services.Wrap(services.ErrValidation, "fetch", "steamcmd", "app id required", nil)
	}
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var (
		mu    sync.Mutex
		lines []string
	)
	collect := func(line string) {
		mu.Lock()
		lines = append(lines, line)
		mu.Unlock()
	}

	started := time.Now()
	c.logger.Info("fetching app metadata",
		logging.String(logging.FieldAppID, appID),
		logging.String("binary", c.binary),
	)
	runErr := c.exec.Run(runCtx, c.binary, Args(appID), collect)

	raw := vdf.Clean(strings.Join(lines, "\n"))
	c.archive(appID, raw)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return "", services.Wrap(services.ErrTimeout, "fetch", "steamcmd",
			fmt.Sprintf("no response within %s", c.timeout), runCtx.Err())
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(raw) == "" {
		if runErr != nil {
			return "", services.Wrap(services.ErrExternalTool, "fetch", "steamcmd", "run steamcmd", runErr)
		}
		return "", services.Wrap(services.ErrExternalTool, "fetch", "steamcmd", "", ErrEmptyResponse)
	}
	if runErr != nil {
		logging.WarnWithContext(c.logger, "steamcmd exited with an error after printing output", "steamcmd_exit_nonzero",
			logging.String(logging.FieldAppID, appID),
			logging.Error(runErr),
			logging.String(logging.FieldImpact, "continuing with captured output"),
		)
	}
	c.logger.Debug("steamcmd finished",
		logging.String(logging.FieldAppID, appID),
		logging.Int("response_bytes", len(raw)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return raw, nil
}

func (c *Client) archive(appID, raw string) {
	if c.logDir == "" {
		return
	}
	if err := os.MkdirAll(c.logDir, 0o755); err != nil {
		c.logger.Debug("response archive skipped", logging.Error(err))
		return
	}
	path := filepath.Join(c.logDir, ResponseLogName(appID))
	if err := fileutil.WriteFileAtomic(path, []byte(raw), 0o644); err != nil {
		logging.WarnWithContext(c.logger, "failed to archive steamcmd response", "steamcmd_archive_failed",
			logging.String("path", path),
			logging.Error(err),
		)
		return
	}
	c.logger.Debug("steamcmd response archived", logging.String("path", path))
}

// Locate resolves the steamcmd executable. A configured value containing a
// path separator must name an existing file; a bare name is looked up beside
// the running executable (steamcmd/<name>) and then on PATH.
func Locate(configured string) (string, error) {
	configured = strings.TrimSpace(configured)
	if configured == "" {
		configured = defaultBinaryName()
	}
	if strings.ContainsAny(configured, `/\`) {
		info, err := os.Stat(configured)
		if err != nil {
			return "", services.Wrap(services.ErrNotFound, "locate", "steamcmd", configured, err)
		}
		if info.IsDir() {
			return "", services.Wrap(services.ErrNotFound, "locate", "steamcmd", configured+" is a directory", nil)
		}
		return configured, nil
	}
	if exe, err := os.Executable(); err == nil {
		bundled := filepath.Join(filepath.Dir(exe), "steamcmd", configured)
		if info, statErr := os.Stat(bundled); statErr == nil && !info.IsDir() {
			return bundled, nil
		}
	}
	path, err := exec.LookPath(configured)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "locate", "steamcmd", configured, err)
	}
	return path, nil
}

func defaultBinaryName() string {
	if runtime.GOOS == "windows" {
		return "steamcmd.exe"
	}
	return "steamcmd"
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	// stderr is drained but not forwarded; its progress chatter would land
	// inside the printed record.
	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			if forward != nil {
				forward(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout, onStdout)
	go scan(stderr, nil)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
