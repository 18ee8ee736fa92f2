// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package inference

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/tripwise/internal/backend"
	"github.com/tomtom215/tripwise/internal/logging"
	"github.com/tomtom215/tripwise/internal/metrics"
)

// ArtifactPrefix and ArtifactSuffix bracket every request artifact name.
const (
	ArtifactPrefix = "input_"
	ArtifactSuffix = ".json"
)

const (
	// DefaultTimeout is the per-invocation budget.
	DefaultTimeout = 50 * time.Second

	defaultWaitDelay   = 2 * time.Second
	defaultStdoutLimit = 8 << 20
	defaultStderrLimit = 64 << 10
)

// SubprocessConfig tunes the orchestrator.
type SubprocessConfig struct {
	// TempDir holds request artifacts. Created if missing.
	TempDir string

	// Timeout bounds each invocation; the child is killed when it expires.
	Timeout time.Duration

	// WaitDelay bounds how long to wait for output pipes after the child
	// is killed or exits. Zero uses a small default.
	WaitDelay time.Duration

	// SpawnRate limits process launches per second. Zero disables the limit.
	SpawnRate float64

	// SpawnBurst is the token bucket size when SpawnRate is set.
	SpawnBurst int

	// StdoutLimit and StderrLimit cap captured output in bytes.
	StdoutLimit int
	StderrLimit int

	// Observer, when set, is told about every state transition.
	Observer func(artifact string, from, to State)
}

// SubprocessScorer runs the backend once per request as a child process.
// It is safe for concurrent use; invocations share only the temp directory,
// and artifact names are unique per invocation.
type SubprocessScorer struct {
	executable string
	entryPoint string
	cfg        SubprocessConfig
	limiter    *rate.Limiter
	logger     zerolog.Logger
	seq        atomic.Uint64
	instance   string
}

// NewSubprocessScorer builds an orchestrator for a backend already resolved
// by the availability guard.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSubprocessScorer(resolved *backend.Resolved, cfg SubprocessConfig, logger zerolog.Logger) (*SubprocessScorer, error) {
	if resolved == nil || resolved.Executable == "" {
		return nil, &backend.ConfigurationError{Reason: "inference backend not resolved"}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.WaitDelay <= 0 {
		cfg.WaitDelay = defaultWaitDelay
	}
	if cfg.StdoutLimit <= 0 {
		cfg.StdoutLimit = defaultStdoutLimit
	}
	if cfg.StderrLimit <= 0 {
		cfg.StderrLimit = defaultStderrLimit
	}
	if cfg.TempDir == "" {
		cfg.TempDir = filepath.Join(os.TempDir(), "tripwise")
	}

	tempDir, err := filepath.Abs(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("resolve temp dir: %w", err)
	}
	if err := os.MkdirAll(tempDir, 0o750); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	cfg.TempDir = tempDir

	var limiter *rate.Limiter
	if cfg.SpawnRate > 0 {
		burst := cfg.SpawnBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.SpawnRate), burst)
	}

	return &SubprocessScorer{
		executable: resolved.Executable,
		entryPoint: resolved.EntryPoint,
		cfg:        cfg,
		limiter:    limiter,
		logger:     logger.With().Str("component", "inference").Logger(),
		instance:   uuid.New().String()[:8],
	}, nil
}

// Name implements Scorer.
func (s *SubprocessScorer) Name() string { return "subprocess" }

// TempDir returns the absolute artifact directory.
func (s *SubprocessScorer) TempDir() string { return s.cfg.TempDir }

// Score implements Scorer. The returned error is one of the typed errors in
// this package; the request artifact is gone when Score returns.
func (s *SubprocessScorer) Score(ctx context.Context, req *Request) (Response, error) {
	inv := &invocation{
		artifact: filepath.Join(s.cfg.TempDir, s.artifactName()),
		state:    StateIdle,
		observer: s.cfg.Observer,
	}
	logger := logging.CtxWith(ctx, s.logger).Str("artifact", filepath.Base(inv.artifact)).Logger()

	start := time.Now()
	metrics.TrackInferenceInFlight(true)
	resp, err := s.run(ctx, inv, req, logger)
	metrics.TrackInferenceInFlight(false)

	elapsed := time.Since(start)
	outcome := Outcome(err)
	metrics.RecordInference(outcome, elapsed)

	if err != nil {
		logger.Warn().Err(err).Str("outcome", outcome).Dur("duration", elapsed).Msg("external inference failed")
		return nil, err
	}
	logger.Info().Int("scores", len(resp)).Int("places", len(req.Places)).Dur("duration", elapsed).Msg("external inference completed")
	return resp, nil
}

// artifactName returns a name unique per invocation: wall-clock nanoseconds,
// a per-scorer sequence number, and a per-scorer instance tag for hosts that
// share the temp directory.
func (s *SubprocessScorer) artifactName() string {
	return fmt.Sprintf("%s%d_%s_%d%s",
		ArtifactPrefix, time.Now().UnixNano(), s.instance, s.seq.Add(1), ArtifactSuffix)
}

func (s *SubprocessScorer) run(ctx context.Context, inv *invocation, req *Request, logger zerolog.Logger) (Response, error) {
	if err := s.waitForSpawnSlot(ctx); err != nil {
		return nil, err
	}

	inv.transition(StatePreparing)
	defer s.cleanup(inv, logger)

	if err := s.writeArtifact(inv.artifact, req); err != nil {
		inv.transition(StateFailed)
		return nil, &ProcessSpawnError{Executable: s.executable, Err: err}
	}

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, s.executable, s.args(inv.artifact)...) //nolint:gosec // executable resolved at startup
	stdout := newCappedBuffer(s.cfg.StdoutLimit)
	stderr := newCappedBuffer(s.cfg.StderrLimit)
	cmd.Stdin = nil
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = s.cfg.WaitDelay
	configureProcessGroup(cmd)

	logger.Debug().Str("executable", s.executable).Msg("spawning inference process")
	if err := cmd.Start(); err != nil {
		inv.transition(StateFailed)
		return nil, &ProcessSpawnError{Executable: s.executable, Err: err}
	}
	inv.transition(StateSpawned)

	waitErr := cmd.Wait()
	if waitErr != nil && !exitedCleanly(cmd, waitErr) {
		return nil, s.classifyWaitError(ctx, runCtx, inv, waitErr, stderr.String())
	}
	if errors.Is(waitErr, exec.ErrWaitDelay) {
		logger.Warn().Msg("inference process exited but left output pipes open")
	}
	if stdout.Truncated() {
		logger.Warn().Int("limit", s.cfg.StdoutLimit).Msg("inference stdout truncated")
	}

	resp, err := ParseOutput(stdout.Bytes())
	if err != nil {
		inv.transition(StateFailed)
		return nil, err
	}

	inv.transition(StateCompleted)
	return resp, nil
}

func (s *SubprocessScorer) args(artifact string) []string {
	if s.entryPoint == "" {
		return []string{artifact}
	}
	return []string{s.entryPoint, artifact}
}

func (s *SubprocessScorer) waitForSpawnSlot(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: waiting for spawn slot: %w", ErrCanceled, ctx.Err())
		}
		return &ProcessSpawnError{Executable: s.executable, Err: fmt.Errorf("spawn rate limit: %w", err)}
	}
	return nil
}

// writeArtifact creates the request file exclusively so a name collision
// fails loudly instead of clobbering another request.
func (s *SubprocessScorer) writeArtifact(path string, req *Request) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create request artifact: %w", err)
	}

	if err := json.NewEncoder(f).Encode(req); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode request artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close request artifact: %w", err)
	}
	return nil
}

func (s *SubprocessScorer) classifyWaitError(ctx, runCtx context.Context, inv *invocation, waitErr error, stderr string) error {
	stderr = truncate(strings.TrimSpace(stderr))

	switch {
	case ctx.Err() != nil:
		inv.transition(StateFailed)
		return fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		inv.transition(StateTimedOut)
		return &ProcessTimeoutError{Timeout: s.cfg.Timeout, Stderr: stderr}
	}

	inv.transition(StateFailed)
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return &NonZeroExitError{ExitCode: exitErr.ExitCode(), Stderr: stderr, Err: waitErr}
	}
	return &NonZeroExitError{ExitCode: -1, Stderr: stderr, Err: waitErr}
}

// cleanup removes the artifact. It never fails: a missing file is fine and
// any other error is logged and counted.
func (s *SubprocessScorer) cleanup(inv *invocation, logger zerolog.Logger) {
	if err := os.Remove(inv.artifact); err != nil && !errors.Is(err, fs.ErrNotExist) {
		metrics.RecordArtifactCleanupFailure()
		logger.Warn().Err(err).Msg("failed to remove request artifact")
	}
	inv.transition(StateCleanedUp)
}

// exitedCleanly reports a zero exit whose only problem was pipes held open
// past WaitDelay by a grandchild.
func exitedCleanly(cmd *exec.Cmd, waitErr error) bool {
	return errors.Is(waitErr, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success()
}
