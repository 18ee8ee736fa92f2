// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package inference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tripwise/internal/backend"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// newScriptScorer writes body as a POSIX shell script and returns a scorer
// that runs it with /bin/sh, plus the artifact directory.
func newScriptScorer(t *testing.T, body string, modify func(*SubprocessConfig)) (*SubprocessScorer, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script backends require a POSIX shell")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "predict.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	cfg := SubprocessConfig{
		TempDir: filepath.Join(dir, "temp"),
		Timeout: 5 * time.Second,
	}
	if modify != nil {
		modify(&cfg)
	}

	s, err := NewSubprocessScorer(&backend.Resolved{Executable: "/bin/sh", EntryPoint: script}, cfg, testLogger())
	if err != nil {
		t.Fatalf("NewSubprocessScorer: %v", err)
	}
	return s, s.TempDir()
}

func sampleRequest() *Request {
	return &Request{
		Preferences: Preferences{
			Age:          30,
			Gender:       "male",
			PlaceType:    []string{"Beach"},
			Hobby:        []string{"Surfing"},
			Climate:      "Tropical",
			HealthIssues: []string{},
		},
		Places: []PlaceFeatures{
			{ID: "p1", Name: "Unawatuna", Features: Features{PlaceType: []string{"Beach"}, Climate: []string{"Tropical"}, AgeMin: 18, AgeMax: 45}},
			{ID: "p2", Name: "Sigiriya", Features: Features{PlaceType: []string{"Historical"}, Climate: []string{"Tropical"}, AgeMin: 10, AgeMax: 70}},
		},
	}
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected no leftover artifacts, found %v", names)
	}
}

func TestSubprocessScorer_Success(t *testing.T) {
	t.Parallel()

	capture := filepath.Join(t.TempDir(), "captured.json")
	body := `cp "$1" ` + capture + `
echo "loading model..."
echo '[{"placeId":"p1","score":92.5},{"placeId":"p2","score":40}]'
echo "done" >&2`

	s, tempDir := newScriptScorer(t, body, nil)

	resp, err := s.Score(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	scores := resp.ByPlace()
	if scores["p1"] != 92.5 || scores["p2"] != 40 {
		t.Errorf("unexpected scores: %v", scores)
	}

	data, err := os.ReadFile(capture)
	if err != nil {
		t.Fatalf("backend did not receive artifact: %v", err)
	}
	var got Request
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if got.Preferences.Age != 30 || len(got.Places) != 2 || got.Places[0].ID != "p1" {
		t.Errorf("unexpected artifact contents: %+v", got)
	}
	if !strings.Contains(string(data), `"health_issues":[]`) {
		t.Errorf("expected snake_case health_issues in artifact: %s", data)
	}

	assertDirEmpty(t, tempDir)
}

func TestSubprocessScorer_ArtifactPathIsSoleAbsoluteArgument(t *testing.T) {
	t.Parallel()

	body := `if [ "$#" -ne 1 ]; then echo "want 1 arg, got $#" >&2; exit 3; fi
case "$1" in /*) ;; *) echo "relative path $1" >&2; exit 4;; esac
echo '[{"placeId":"p1","score":1}]'`

	s, _ := newScriptScorer(t, body, nil)
	if _, err := s.Score(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Score: %v", err)
	}
}

func TestSubprocessScorer_NonZeroExit(t *testing.T) {
	t.Parallel()

	body := `echo "partial [output" 
echo "model exploded: missing feature columns" >&2
exit 2`

	s, tempDir := newScriptScorer(t, body, nil)

	_, err := s.Score(context.Background(), sampleRequest())
	if !errors.Is(err, ErrNonZeroExit) {
		t.Fatalf("expected ErrNonZeroExit, got %v", err)
	}
	var exitErr *NonZeroExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *NonZeroExitError, got %T", err)
	}
	if exitErr.ExitCode != 2 {
		t.Errorf("exit code = %d, want 2", exitErr.ExitCode)
	}
	if !strings.Contains(exitErr.Stderr, "model exploded") {
		t.Errorf("stderr not captured: %q", exitErr.Stderr)
	}
	if !strings.Contains(err.Error(), "model exploded") {
		t.Errorf("error text should carry stderr: %v", err)
	}

	assertDirEmpty(t, tempDir)
}

func TestSubprocessScorer_Timeout(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var transitions []State

	s, tempDir := newScriptScorer(t, `echo "warming up" >&2
exec sleep 30`, func(cfg *SubprocessConfig) {
		cfg.Timeout = 300 * time.Millisecond
		cfg.WaitDelay = 500 * time.Millisecond
		cfg.Observer = func(_ string, _, to State) {
			mu.Lock()
			transitions = append(transitions, to)
			mu.Unlock()
		}
	})

	start := time.Now()
	_, err := s.Score(context.Background(), sampleRequest())
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if elapsed > 5*time.Second {
		t.Errorf("timeout took %v, expected well under the child's 30s sleep", elapsed)
	}

	assertDirEmpty(t, tempDir)

	mu.Lock()
	defer mu.Unlock()
	want := []State{StatePreparing, StateSpawned, StateTimedOut, StateCleanedUp}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, transitions[i], want[i])
		}
	}
}

func TestSubprocessScorer_TimeoutKillsProcessTree(t *testing.T) {
	t.Parallel()

	// The shell forks sleep instead of exec'ing it; killing only the shell
	// would leave the pipe open until WaitDelay.
	s, tempDir := newScriptScorer(t, `sleep 30
echo '[]'`, func(cfg *SubprocessConfig) {
		cfg.Timeout = 200 * time.Millisecond
		cfg.WaitDelay = 10 * time.Second
	})

	start := time.Now()
	_, err := s.Score(context.Background(), sampleRequest())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if runtime.GOOS != "windows" && time.Since(start) > 5*time.Second {
		t.Errorf("process group was not killed promptly: %v", time.Since(start))
	}
	assertDirEmpty(t, tempDir)
}

func TestSubprocessScorer_InvalidOutput(t *testing.T) {
	t.Parallel()

	s, tempDir := newScriptScorer(t, `echo "prediction complete, nothing to report"`, nil)

	_, err := s.Score(context.Background(), sampleRequest())
	if !errors.Is(err, ErrInvalidOutput) {
		t.Fatalf("expected ErrInvalidOutput, got %v", err)
	}
	assertDirEmpty(t, tempDir)
}

func TestSubprocessScorer_SpawnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := NewSubprocessScorer(
		&backend.Resolved{Executable: filepath.Join(dir, "no-such-python"), EntryPoint: "predict.py"},
		SubprocessConfig{TempDir: filepath.Join(dir, "temp")},
		testLogger(),
	)
	if err != nil {
		t.Fatalf("NewSubprocessScorer: %v", err)
	}

	_, err = s.Score(context.Background(), sampleRequest())
	if !errors.Is(err, ErrSpawn) {
		t.Fatalf("expected ErrSpawn, got %v", err)
	}
	var spawnErr *ProcessSpawnError
	if !errors.As(err, &spawnErr) || !strings.HasSuffix(spawnErr.Executable, "no-such-python") {
		t.Errorf("unexpected spawn error: %#v", err)
	}
	assertDirEmpty(t, s.TempDir())
}

func TestSubprocessScorer_CallerCancellation(t *testing.T) {
	t.Parallel()

	s, tempDir := newScriptScorer(t, `exec sleep 30`, func(cfg *SubprocessConfig) {
		cfg.Timeout = 30 * time.Second
	})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(150*time.Millisecond, cancel)

	start := time.Now()
	_, err := s.Score(ctx, sampleRequest())
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("cancellation did not terminate the child promptly")
	}
	assertDirEmpty(t, tempDir)
}

func TestSubprocessScorer_ConcurrentInvocationsAreIsolated(t *testing.T) {
	t.Parallel()

	// Each invocation echoes the first place id it was given, so crossed
	// artifacts would show up as wrong scores.
	body := `id=$(sed -n 's/.*"places":\[{"id":"\([^"]*\)".*/\1/p' "$1")
echo "[{\"placeId\":\"$id\",\"score\":50}]"`

	var mu sync.Mutex
	seen := make(map[string]int)
	s, tempDir := newScriptScorer(t, body, func(cfg *SubprocessConfig) {
		cfg.Observer = func(artifact string, _, to State) {
			if to == StatePreparing {
				mu.Lock()
				seen[artifact]++
				mu.Unlock()
			}
		}
	})

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "place-" + strings.Repeat("x", i+1)
			req := &Request{Places: []PlaceFeatures{{ID: id}}}
			resp, err := s.Score(context.Background(), req)
			if err != nil {
				errs <- err
				return
			}
			if _, ok := resp.ByPlace()[id]; !ok || len(resp) != 1 {
				errs <- fmt.Errorf("response for %s was crossed: %v", id, resp)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != workers {
		t.Errorf("expected %d distinct artifacts, got %d", workers, len(seen))
	}
	for name, n := range seen {
		if n != 1 {
			t.Errorf("artifact %s used %d times", name, n)
		}
	}
	assertDirEmpty(t, tempDir)
}

func TestArtifactNamesAreUnique(t *testing.T) {
	t.Parallel()

	s, err := NewSubprocessScorer(&backend.Resolved{Executable: "/bin/true"}, SubprocessConfig{TempDir: t.TempDir()}, testLogger())
	if err != nil {
		t.Fatalf("NewSubprocessScorer: %v", err)
	}

	const goroutines, perGoroutine = 8, 500
	names := make(chan string, goroutines*perGoroutine)
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perGoroutine {
				names <- s.artifactName()
			}
		}()
	}
	wg.Wait()
	close(names)

	unique := make(map[string]struct{}, goroutines*perGoroutine)
	for n := range names {
		if !strings.HasPrefix(n, ArtifactPrefix) || !strings.HasSuffix(n, ArtifactSuffix) {
			t.Fatalf("unexpected artifact name %q", n)
		}
		if _, dup := unique[n]; dup {
			t.Fatalf("duplicate artifact name %q", n)
		}
		unique[n] = struct{}{}
	}
}

func TestSubprocessScorer_SpawnRateLimit(t *testing.T) {
	t.Parallel()

	s, _ := newScriptScorer(t, `echo '[]'`, func(cfg *SubprocessConfig) {
		cfg.SpawnRate = 0.001
		cfg.SpawnBurst = 1
	})

	if _, err := s.Score(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("first call should use the burst token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.Score(ctx, sampleRequest())
	if !errors.Is(err, ErrSpawn) && !errors.Is(err, ErrCanceled) {
		t.Fatalf("expected rate-limited spawn failure, got %v", err)
	}
}

func TestNewSubprocessScorer_RequiresResolvedBackend(t *testing.T) {
	t.Parallel()

	_, err := NewSubprocessScorer(nil, SubprocessConfig{}, testLogger())
	if !errors.Is(err, backend.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	s, err := NewSubprocessScorer(&backend.Resolved{Executable: "/bin/true"}, SubprocessConfig{TempDir: t.TempDir()}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if s.cfg.Timeout != DefaultTimeout {
		t.Errorf("default timeout = %v, want %v", s.cfg.Timeout, DefaultTimeout)
	}
	if got := s.args("/tmp/a.json"); len(got) != 1 || got[0] != "/tmp/a.json" {
		t.Errorf("args without entry point = %v", got)
	}
	if s.Name() != "subprocess" {
		t.Errorf("Name() = %q", s.Name())
	}
}
